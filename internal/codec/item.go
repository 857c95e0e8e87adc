package codec

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gwatching/internal/model"
)

var reChecklistItem = regexp.MustCompile(`^\*\*(-?\d+)\*\*(?::?\s*(?:\*(.*)\*)?\s*(?:\[([\d-]+)\])?)?`)

// EncodeItem renders a checklist item. Items carrying a name or date use the
// emphasized form "**NN**: *name* [date]"; bare items render as the padded
// number alone.
func EncodeItem(item model.ListItem) string {
	if item.Name == "" && item.Date == nil {
		return fmt.Sprintf("%02d", item.Number)
	}
	parts := []string{fmt.Sprintf("**%02d**:", item.Number)}
	if item.Name != "" {
		parts = append(parts, fmt.Sprintf("*%s*", item.Name))
	}
	if item.Date != nil {
		parts = append(parts, fmt.Sprintf("[%s]", item.Date))
	}
	return strings.Join(parts, " ")
}

// DecodeItem parses a stored checklist item text. Texts not starting with
// "*" are plain position markers; anything else must match the emphasized
// form or the item fails with model.ErrItemParse.
func DecodeItem(text string) (model.ListItem, error) {
	if !strings.HasPrefix(text, "*") {
		number, err := strconv.Atoi(text)
		if err != nil {
			return model.ListItem{}, fmt.Errorf("%w: %q", model.ErrItemParse, text)
		}
		return model.ListItem{Number: number}, nil
	}

	m := reChecklistItem.FindStringSubmatch(text)
	if m == nil {
		return model.ListItem{}, fmt.Errorf("%w: %q", model.ErrItemParse, text)
	}

	number, err := strconv.Atoi(m[1])
	if err != nil {
		return model.ListItem{}, fmt.Errorf("%w: %q", model.ErrItemParse, text)
	}

	item := model.ListItem{Number: number, Name: m[2]}
	if m[3] != "" {
		date, err := model.ParseDate(m[3])
		if err != nil {
			return model.ListItem{}, fmt.Errorf("%w: %q: %v", model.ErrItemParse, text, err)
		}
		item.Date = &date
	}
	return item, nil
}
