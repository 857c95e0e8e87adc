package codec

import (
	"fmt"
	"strings"

	"gwatching/internal/model"
)

type descriptionParser interface {
	parse(text string) (model.ParsedDescription, error)
}

// parsers maps every known version marker to its parser. Bodies written
// before 0.0.1 carried the source link on the last line; every later
// version shifted it above the version marker. The table keeps that drift
// as-is instead of normalizing old bodies on read.
var parsers = map[string]descriptionParser{
	"0.0.0": bodyParser{sourceLineFromEnd: 1},
	"0.0.1": bodyParser{sourceLineFromEnd: 2},
	"0.0.2": bodyParser{sourceLineFromEnd: 2},
	"0.0.3": bodyParser{sourceLineFromEnd: 2},
}

const (
	altTitlePrefix  = "> Alt title: "
	altTitlesHeader = "> Alt titles:"
	altTitleBullet  = "> "
	separator       = "---"
)

// bodyParser reads the layout shared by all versions; only the position of
// the source link line differs.
type bodyParser struct {
	sourceLineFromEnd int
}

func (p bodyParser) parse(text string) (model.ParsedDescription, error) {
	lines := strings.Split(text, "\n")

	var altTitles []string
	afterAltTitles := 0
	if strings.HasPrefix(lines[0], altTitlePrefix) {
		altTitles = append(altTitles, trimEmphasis(lines[0][len(altTitlePrefix):]))
		afterAltTitles = 2
	} else if strings.HasPrefix(lines[0], altTitlesHeader) {
		for _, line := range lines[1:] {
			if !strings.HasPrefix(line, altTitleBullet) {
				break
			}
			altTitles = append(altTitles, trimEmphasis(line[len(altTitleBullet):]))
			afterAltTitles++
		}
		afterAltTitles++
	}

	snip := -1
	for i, line := range lines {
		if line == separator {
			snip = i
			break
		}
	}
	if snip < 0 {
		return model.ParsedDescription{}, fmt.Errorf("description has no separator line")
	}

	if p.sourceLineFromEnd > len(lines) {
		return model.ParsedDescription{}, fmt.Errorf("description too short for source link")
	}
	sourceLine := lines[len(lines)-p.sourceLineFromEnd]
	open := strings.LastIndex(sourceLine, "(")
	if open < 0 || !strings.HasSuffix(sourceLine, ")") {
		return model.ParsedDescription{}, fmt.Errorf("no source link in %q", sourceLine)
	}

	return model.ParsedDescription{
		AltTitles:   altTitles,
		Description: strings.TrimSpace(strings.Join(lines[afterAltTitles:snip], "\n")),
		SourceURL:   sourceLine[open+1 : len(sourceLine)-1],
	}, nil
}

// trimEmphasis strips the surrounding markdown asterisks from an alt title.
func trimEmphasis(s string) string {
	s = strings.TrimPrefix(s, "*")
	return strings.TrimSuffix(s, "*")
}
