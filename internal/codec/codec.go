package codec

import (
	"fmt"
	"regexp"
	"strings"

	"gwatching/internal/model"
)

// Version is the format marker written into every encoded description.
const Version = "0.0.3"

// maxSourceHostLen caps the visible host label of the source link.
const maxSourceHostLen = 46

var (
	reVersion    = regexp.MustCompile(`(?m)^Version: ([\d.]+)$`)
	reSourceHost = regexp.MustCompile(`^[a-z]+://([^/]+)`)
)

// Encode renders a parsed description into the card body layout: optional
// alt-title block, synopsis, separator, source link and version marker.
func Encode(parsed model.ParsedDescription) string {
	var lines []string

	if len(parsed.AltTitles) > 1 {
		var bullets []string
		for _, title := range parsed.AltTitles {
			bullets = append(bullets, fmt.Sprintf("> *%s*", title))
		}
		lines = append(lines, fmt.Sprintf("> Alt titles:\n%s\n\n", strings.Join(bullets, "\n")))
	} else if len(parsed.AltTitles) == 1 {
		lines = append(lines, fmt.Sprintf("> Alt title: *%s*\n\n", parsed.AltTitles[0]))
	}

	if parsed.Description != "" {
		lines = append(lines, parsed.Description, "")
	}

	lines = append(lines,
		"---",
		"",
		fmt.Sprintf("Source: [%s](%s)", sourceHost(parsed.SourceURL), parsed.SourceURL),
		"Version: "+Version,
	)

	return strings.Join(lines, "\n")
}

func sourceHost(sourceURL string) string {
	host := sourceURL
	if m := reSourceHost.FindStringSubmatch(sourceURL); m != nil {
		host = m[1]
	}
	if len(host) > maxSourceHostLen {
		host = host[:maxSourceHostLen] + "..."
	}
	return host
}

// Decode locates the version marker, picks the matching parser and returns
// the structured form. A body without a recognizable marker fails with
// model.ErrUnknownVersion; the caller routes such cards to the pending set.
func Decode(text string) (model.ParsedDescription, string, error) {
	m := reVersion.FindStringSubmatch(text)
	if m == nil {
		return model.ParsedDescription{}, "", fmt.Errorf("%w: no version marker", model.ErrUnknownVersion)
	}
	version := m[1]

	parser, ok := parsers[version]
	if !ok {
		return model.ParsedDescription{}, "", fmt.Errorf("%w: %s", model.ErrUnknownVersion, version)
	}

	parsed, err := parser.parse(text)
	if err != nil {
		return model.ParsedDescription{}, "", err
	}
	return parsed, version, nil
}
