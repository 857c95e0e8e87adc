package model

import (
	"slices"
	"sort"
)

// DataLabel is one of the fixed board labels that carry semantic meaning:
// the medium of an entry plus the completion marker. Everything else on a
// card is a free-form tag.
type DataLabel string

const (
	LabelBook      DataLabel = "book"
	LabelAnime     DataLabel = "anime"
	LabelSeries    DataLabel = "series"
	LabelMovie     DataLabel = "movie"
	LabelCartoon   DataLabel = "cartoon"
	LabelCompleted DataLabel = "completed"
)

// DataLabels lists every member of the closed enumeration in stable order.
func DataLabels() []DataLabel {
	return []DataLabel{LabelBook, LabelAnime, LabelSeries, LabelMovie, LabelCartoon, LabelCompleted}
}

// ParseDataLabel reports whether name is a domain label and which one.
func ParseDataLabel(name string) (DataLabel, bool) {
	label := DataLabel(name)
	switch label {
	case LabelBook, LabelAnime, LabelSeries, LabelMovie, LabelCartoon, LabelCompleted:
		return label, true
	}
	return "", false
}

// DataLabelSet is a set of domain labels.
type DataLabelSet map[DataLabel]struct{}

// NewDataLabelSet builds a set from the given labels.
func NewDataLabelSet(labels ...DataLabel) DataLabelSet {
	s := make(DataLabelSet, len(labels))
	for _, l := range labels {
		s[l] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s DataLabelSet) Has(label DataLabel) bool {
	_, ok := s[label]
	return ok
}

// Add inserts a label into the set.
func (s DataLabelSet) Add(label DataLabel) {
	s[label] = struct{}{}
}

// Equal reports whether both sets hold the same labels.
func (s DataLabelSet) Equal(other DataLabelSet) bool {
	if len(s) != len(other) {
		return false
	}
	for label := range s {
		if _, ok := other[label]; !ok {
			return false
		}
	}
	return true
}

// Sorted returns the members in enumeration order.
func (s DataLabelSet) Sorted() []DataLabel {
	out := make([]DataLabel, 0, len(s))
	for _, l := range DataLabels() {
		if s.Has(l) {
			out = append(out, l)
		}
	}
	return out
}

// Label is a board label. Identity is ID once the label exists remotely; a
// label with an empty ID has not been created yet.
type Label struct {
	ID    string
	Name  string
	Color string
}

// ListItem is a single checklist entry (episode, chapter, volume). Identity
// is ID once persisted; unidentified items are matched by position.
type ListItem struct {
	Number int
	ID     string
	Name   string
	Date   *Date
}

// NamedList is an ordered named grouping of checklist items, e.g. "Season 1".
type NamedList struct {
	ID    string
	Name  string
	Items []ListItem
}

// ParsedDescription is the decoded form of a card's free-text body.
type ParsedDescription struct {
	AltTitles   []string
	SourceURL   string
	Description string
}

// Card is a fully classified persisted entry. SourceURL is unique across all
// cards on a board; the synchronizer enforces that, not the store.
type Card struct {
	ID          string
	Title       string
	SourceURL   string
	Version     string
	AltTitles   []string
	Description string
	Labels      DataLabelSet
	Tags        []Label
	Lists       []NamedList
	CoverID     string
}

// TagNames returns the sorted set of tag names attached to the card.
func (c *Card) TagNames() []string {
	names := make([]string, 0, len(c.Tags))
	for _, tag := range c.Tags {
		names = append(names, tag.Name)
	}
	sort.Strings(names)
	return slices.Compact(names)
}

// PendingCard is a persisted record whose description could not be decoded
// by any known codec version. It awaits manual classification or scraper
// URL resolution.
type PendingCard struct {
	ID          string
	Name        string
	Description string
	Labels      DataLabelSet
}

// ScrappedData is the snapshot a scraping adapter produces for one source
// URL. Titles[0] is the canonical display title; Parts items carry no ids.
type ScrappedData struct {
	Titles      []string
	URL         string
	Tags        []string
	Labels      DataLabelSet
	Parts       []NamedList
	Cover       []byte
	Description string
}

// TagNames returns the sorted, de-duplicated scraped tag names.
func (d *ScrappedData) TagNames() []string {
	names := append([]string(nil), d.Tags...)
	sort.Strings(names)
	return slices.Compact(names)
}
