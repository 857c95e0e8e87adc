package sync_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"

	"gwatching/internal/board"
	"gwatching/internal/index"
	"gwatching/internal/model"
	"gwatching/internal/sync"
)

// fakeStore records every write the syncer issues and serves canned board
// state for loads.
type fakeStore struct {
	labels     []board.Label
	cards      []board.Card
	checklists []board.Checklist

	calls          []string
	lastCardFields board.CardFields
}

func (f *fakeStore) record(op string, args ...string) {
	f.calls = append(f.calls, op+" "+strings.Join(args, " "))
}

// countCalls reports how many recorded calls start with op.
func (f *fakeStore) countCalls(op string) int {
	n := 0
	for _, call := range f.calls {
		if strings.HasPrefix(call, op+" ") {
			n++
		}
	}
	return n
}

func (f *fakeStore) Labels(ctx context.Context) ([]board.Label, error) {
	f.record("Labels")
	return f.labels, nil
}

func (f *fakeStore) CreateLabel(ctx context.Context, name, color string) (board.Label, error) {
	label := board.Label{ID: uuid.NewString(), Name: name, Color: color}
	f.labels = append(f.labels, label)
	f.record("CreateLabel", name)
	return label, nil
}

func (f *fakeStore) DeleteLabel(ctx context.Context, labelID string) error {
	f.record("DeleteLabel", labelID)
	return nil
}

func (f *fakeStore) Cards(ctx context.Context) ([]board.Card, error) {
	f.record("Cards")
	return f.cards, nil
}

func (f *fakeStore) UpdateCard(ctx context.Context, cardID string, fields board.CardFields) error {
	f.record("UpdateCard", cardID)
	f.lastCardFields = fields
	return nil
}

func (f *fakeStore) AddCardLabel(ctx context.Context, cardID, labelID string) error {
	f.record("AddCardLabel", cardID, labelID)
	return nil
}

func (f *fakeStore) RemoveCardLabel(ctx context.Context, cardID, labelID string) error {
	f.record("RemoveCardLabel", cardID, labelID)
	return nil
}

func (f *fakeStore) Checklists(ctx context.Context) ([]board.Checklist, error) {
	f.record("Checklists")
	return f.checklists, nil
}

func (f *fakeStore) CreateChecklist(ctx context.Context, cardID, name string) (board.Checklist, error) {
	f.record("CreateChecklist", cardID, name)
	return board.Checklist{ID: uuid.NewString(), Name: name, CardID: cardID}, nil
}

func (f *fakeStore) RenameChecklist(ctx context.Context, checklistID, name string) error {
	f.record("RenameChecklist", checklistID, name)
	return nil
}

func (f *fakeStore) DeleteChecklist(ctx context.Context, checklistID string) error {
	f.record("DeleteChecklist", checklistID)
	return nil
}

func (f *fakeStore) CreateCheckItem(ctx context.Context, checklistID, name string) (board.CheckItem, error) {
	f.record("CreateCheckItem", checklistID, name)
	return board.CheckItem{ID: uuid.NewString(), Name: name}, nil
}

func (f *fakeStore) UpdateCheckItem(ctx context.Context, cardID, itemID, name string) error {
	f.record("UpdateCheckItem", cardID, itemID, name)
	return nil
}

func (f *fakeStore) DeleteCheckItem(ctx context.Context, checklistID, itemID string) error {
	f.record("DeleteCheckItem", checklistID, itemID)
	return nil
}

func (f *fakeStore) CreateAttachment(ctx context.Context, cardID, name, mimeType string, data []byte, setCover bool) (board.Attachment, error) {
	f.record("CreateAttachment", cardID, name)
	return board.Attachment{ID: uuid.NewString()}, nil
}

func (f *fakeStore) DeleteAttachment(ctx context.Context, cardID, attachmentID string) error {
	f.record("DeleteAttachment", cardID, attachmentID)
	return nil
}

var _ sync.Store = (*fakeStore)(nil)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestSyncer builds a syncer over a board that already carries every
// domain label, optionally pre-populated with cards.
func newTestSyncer(t *testing.T, cards ...*model.Card) (*fakeStore, *sync.Syncer) {
	t.Helper()
	store := &fakeStore{}

	labels, err := index.NewLabelBag()
	if err != nil {
		t.Fatalf("NewLabelBag failed: %v", err)
	}
	for _, dataLabel := range model.DataLabels() {
		if err := labels.Add(model.Label{ID: "lbl-" + string(dataLabel), Name: string(dataLabel)}); err != nil {
			t.Fatalf("seed label %s: %v", dataLabel, err)
		}
	}

	bag := index.NewCardBag()
	for _, card := range cards {
		if err := bag.Add(card); err != nil {
			t.Fatalf("seed card %s: %v", card.ID, err)
		}
	}

	return store, sync.New(store, labels, bag, discardLogger())
}
