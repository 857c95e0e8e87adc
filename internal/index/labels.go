package index

import (
	"fmt"

	"gwatching/internal/model"
)

// LabelBag indexes a board's labels by id and by name and partitions them
// into domain labels and free-form tags.
type LabelBag struct {
	byID   map[string]model.Label
	byName map[string]model.Label
}

// NewLabelBag builds a bag from the given labels. Duplicate ids or names
// fail with model.ErrDuplicatedEntry.
func NewLabelBag(labels ...model.Label) (*LabelBag, error) {
	bag := &LabelBag{
		byID:   make(map[string]model.Label),
		byName: make(map[string]model.Label),
	}
	for _, label := range labels {
		if err := bag.Add(label); err != nil {
			return nil, err
		}
	}
	return bag, nil
}

// Add inserts a label, rejecting any id or name already present.
func (b *LabelBag) Add(label model.Label) error {
	if _, ok := b.byID[label.ID]; ok {
		return fmt.Errorf("%w: label id %s", model.ErrDuplicatedEntry, label.ID)
	}
	if _, ok := b.byName[label.Name]; ok {
		return fmt.Errorf("%w: label name %q", model.ErrDuplicatedEntry, label.Name)
	}
	b.byID[label.ID] = label
	b.byName[label.Name] = label
	return nil
}

// ByID looks a label up by id.
func (b *LabelBag) ByID(id string) (model.Label, bool) {
	label, ok := b.byID[id]
	return label, ok
}

// ByName looks a label up by name.
func (b *LabelBag) ByName(name string) (model.Label, bool) {
	label, ok := b.byName[name]
	return label, ok
}

// ByDataLabel looks up the board label backing a domain label.
func (b *LabelBag) ByDataLabel(label model.DataLabel) (model.Label, bool) {
	return b.ByName(string(label))
}

// DataLabels returns the domain labels present in the bag.
func (b *LabelBag) DataLabels() model.DataLabelSet {
	set := model.NewDataLabelSet()
	for _, label := range model.DataLabels() {
		if _, ok := b.byName[string(label)]; ok {
			set.Add(label)
		}
	}
	return set
}

// Tags returns every label that is not part of the domain enumeration.
func (b *LabelBag) Tags() []model.Label {
	var tags []model.Label
	for name, label := range b.byName {
		if _, ok := model.ParseDataLabel(name); ok {
			continue
		}
		tags = append(tags, label)
	}
	return tags
}

// Len reports the number of labels in the bag.
func (b *LabelBag) Len() int {
	return len(b.byID)
}
