package index_test

import (
	"errors"
	"testing"

	"gwatching/internal/index"
	"gwatching/internal/model"
)

func TestLabelBagRejectsDuplicates(t *testing.T) {
	bag, err := index.NewLabelBag(model.Label{ID: "l1", Name: "anime", Color: "green"})
	if err != nil {
		t.Fatalf("NewLabelBag failed: %v", err)
	}

	if err := bag.Add(model.Label{ID: "l1", Name: "other"}); !errors.Is(err, model.ErrDuplicatedEntry) {
		t.Fatalf("expected ErrDuplicatedEntry for duplicate id, got %v", err)
	}
	if err := bag.Add(model.Label{ID: "l2", Name: "anime"}); !errors.Is(err, model.ErrDuplicatedEntry) {
		t.Fatalf("expected ErrDuplicatedEntry for duplicate name, got %v", err)
	}
}

func TestLabelBagPartition(t *testing.T) {
	bag, err := index.NewLabelBag(
		model.Label{ID: "l1", Name: "anime", Color: "green"},
		model.Label{ID: "l2", Name: "completed", Color: "black"},
		model.Label{ID: "l3", Name: "fantasy"},
		model.Label{ID: "l4", Name: "slice of life"},
	)
	if err != nil {
		t.Fatalf("NewLabelBag failed: %v", err)
	}

	data := bag.DataLabels()
	if !data.Equal(model.NewDataLabelSet(model.LabelAnime, model.LabelCompleted)) {
		t.Fatalf("unexpected domain labels: %v", data.Sorted())
	}

	tags := bag.Tags()
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %d: %v", len(tags), tags)
	}
	for _, tag := range tags {
		if tag.Name != "fantasy" && tag.Name != "slice of life" {
			t.Fatalf("unexpected tag %q", tag.Name)
		}
	}
}

func TestCardBagRejectsDuplicateSourceURL(t *testing.T) {
	bag := index.NewCardBag()
	if err := bag.Add(&model.Card{ID: "c1", SourceURL: "https://example.com/1"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	err := bag.Add(&model.Card{ID: "c2", SourceURL: "https://example.com/1"})
	if !errors.Is(err, model.ErrDuplicatedEntry) {
		t.Fatalf("expected ErrDuplicatedEntry, got %v", err)
	}
}

func TestCardBagPromotesPending(t *testing.T) {
	bag := index.NewCardBag()
	bag.AddPending(&model.PendingCard{ID: "c1", Name: "Unsorted"})
	if len(bag.Pending()) != 1 {
		t.Fatal("expected one pending card")
	}

	if err := bag.Add(&model.Card{ID: "c1", SourceURL: "https://example.com/1"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if len(bag.Pending()) != 0 {
		t.Fatal("expected pending card to be promoted")
	}
	if card, ok := bag.ByID("c1"); !ok || card.SourceURL != "https://example.com/1" {
		t.Fatalf("unexpected card lookup result: %v %v", card, ok)
	}
}

func TestCardBagLookupByURL(t *testing.T) {
	bag := index.NewCardBag()
	card := &model.Card{ID: "c9", SourceURL: "https://anilist.co/anime/9/"}
	if err := bag.Add(card); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	got, ok := bag.BySourceURL("https://anilist.co/anime/9/")
	if !ok || got.ID != "c9" {
		t.Fatalf("BySourceURL returned %v %v", got, ok)
	}
	if bag.HasSourceURL("https://anilist.co/anime/10/") {
		t.Fatal("unexpected source url hit")
	}
}
