package index

import (
	"fmt"

	"gwatching/internal/model"
)

// CardBag indexes a board's cards by id and by source URL, plus the pending
// cards that could not be classified yet.
type CardBag struct {
	byID        map[string]*model.Card
	bySourceURL map[string]*model.Card
	pending     map[string]*model.PendingCard
	order       []string
	pendingIDs  []string
}

// NewCardBag returns an empty bag.
func NewCardBag() *CardBag {
	return &CardBag{
		byID:        make(map[string]*model.Card),
		bySourceURL: make(map[string]*model.Card),
		pending:     make(map[string]*model.PendingCard),
	}
}

// Add inserts a classified card. A duplicate id or source URL fails with
// model.ErrDuplicatedEntry naming both owners. Adding a card whose id is in
// the pending set promotes it out of that set.
func (b *CardBag) Add(card *model.Card) error {
	if _, ok := b.byID[card.ID]; ok {
		return fmt.Errorf("%w: card id %s", model.ErrDuplicatedEntry, card.ID)
	}
	if existing, ok := b.bySourceURL[card.SourceURL]; ok {
		return fmt.Errorf("%w: source url %s owned by both %s and %s",
			model.ErrDuplicatedEntry, card.SourceURL, existing.ID, card.ID)
	}
	b.byID[card.ID] = card
	b.bySourceURL[card.SourceURL] = card
	b.order = append(b.order, card.ID)

	if _, ok := b.pending[card.ID]; ok {
		b.removePending(card.ID)
	}
	return nil
}

// AddPending records an unclassified card.
func (b *CardBag) AddPending(card *model.PendingCard) {
	if _, ok := b.pending[card.ID]; !ok {
		b.pendingIDs = append(b.pendingIDs, card.ID)
	}
	b.pending[card.ID] = card
}

// RemovePending drops a pending card, typically after it turned out to
// duplicate an existing card and was deleted remotely.
func (b *CardBag) RemovePending(id string) {
	if _, ok := b.pending[id]; ok {
		b.removePending(id)
	}
}

func (b *CardBag) removePending(id string) {
	delete(b.pending, id)
	for i, pendingID := range b.pendingIDs {
		if pendingID == id {
			b.pendingIDs = append(b.pendingIDs[:i], b.pendingIDs[i+1:]...)
			break
		}
	}
}

// ByID looks a card up by id.
func (b *CardBag) ByID(id string) (*model.Card, bool) {
	card, ok := b.byID[id]
	return card, ok
}

// BySourceURL looks a card up by the URL it was scraped from.
func (b *CardBag) BySourceURL(url string) (*model.Card, bool) {
	card, ok := b.bySourceURL[url]
	return card, ok
}

// HasSourceURL reports whether any card owns the URL.
func (b *CardBag) HasSourceURL(url string) bool {
	_, ok := b.bySourceURL[url]
	return ok
}

// Cards returns the classified cards in insertion order.
func (b *CardBag) Cards() []*model.Card {
	cards := make([]*model.Card, 0, len(b.order))
	for _, id := range b.order {
		cards = append(cards, b.byID[id])
	}
	return cards
}

// Pending returns the pending cards in insertion order.
func (b *CardBag) Pending() []*model.PendingCard {
	cards := make([]*model.PendingCard, 0, len(b.pendingIDs))
	for _, id := range b.pendingIDs {
		cards = append(cards, b.pending[id])
	}
	return cards
}

// Len reports the number of classified cards.
func (b *CardBag) Len() int {
	return len(b.byID)
}
