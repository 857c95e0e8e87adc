package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"gwatching/internal/board"
	"gwatching/internal/codec"
	"gwatching/internal/images"
	"gwatching/internal/index"
	"gwatching/internal/model"
)

// Syncer reconciles scraped snapshots into board cards. It is the single
// writer for the board during a run; the indexes it holds are rebuilt per
// run and never shared.
type Syncer struct {
	store  Store
	labels *index.LabelBag
	cards  *index.CardBag
	logger *slog.Logger
}

// New builds a syncer over indexes previously built by Load.
func New(store Store, labels *index.LabelBag, cards *index.CardBag, logger *slog.Logger) *Syncer {
	return &Syncer{store: store, labels: labels, cards: cards, logger: logger}
}

// Cards exposes the card index for callers iterating the board.
func (s *Syncer) Cards() *index.CardBag {
	return s.cards
}

// Save reconciles a known card against a scraped snapshot.
func (s *Syncer) Save(ctx context.Context, card *model.Card, scrapped *model.ScrappedData) error {
	return s.save(ctx, card, scrapped, false)
}

// SaveByID reconciles the card with the given id. An id not present in the
// card index is treated as a brand-new card seeded with the current format
// version.
func (s *Syncer) SaveByID(ctx context.Context, id string, scrapped *model.ScrappedData) error {
	if card, ok := s.cards.ByID(id); ok {
		return s.save(ctx, card, scrapped, false)
	}
	card := &model.Card{
		ID:      id,
		Version: codec.Version,
		Labels:  model.NewDataLabelSet(),
	}
	return s.save(ctx, card, scrapped, true)
}

// SavePending classifies a pending card through the bare-identifier path.
// When the duplicate guard fires, deleting the now-redundant pending record
// is the caller's decision, not this engine's.
func (s *Syncer) SavePending(ctx context.Context, pending *model.PendingCard, scrapped *model.ScrappedData) error {
	return s.SaveByID(ctx, pending.ID, scrapped)
}

func (s *Syncer) save(ctx context.Context, card *model.Card, scrapped *model.ScrappedData, isNew bool) error {
	if len(scrapped.Titles) == 0 {
		return fmt.Errorf("scraped data for %s carries no titles", scrapped.URL)
	}

	if isNew {
		if existing, ok := s.cards.BySourceURL(scrapped.URL); ok {
			return fmt.Errorf("%w: %s already tracked by card %s",
				model.ErrDuplicatedEntry, scrapped.URL, existing.ID)
		}
	}

	if err := s.saveFields(ctx, isNew || card.Version != codec.Version, card, scrapped); err != nil {
		return err
	}
	card.Version = codec.Version

	// A new card becomes visible to duplicate checks only after its first
	// field write succeeded.
	if isNew {
		if err := s.cards.Add(card); err != nil {
			return err
		}
	}

	if err := s.saveLists(ctx, card, scrapped); err != nil {
		return err
	}
	return s.saveCover(ctx, card, scrapped)
}

// saveFields writes title, description and label set in one partial card
// update, each part only when it actually changed. force is set for new
// cards and for cards whose stored version is stale, so every touched card
// migrates to the current encoding.
func (s *Syncer) saveFields(ctx context.Context, force bool, card *model.Card, scrapped *model.ScrappedData) error {
	var fields board.CardFields

	if force || card.Title != scrapped.Titles[0] {
		card.Title = scrapped.Titles[0]
		fields.Name = &card.Title
	}

	encoded := codec.Encode(model.ParsedDescription{
		AltTitles:   scrapped.Titles[1:],
		SourceURL:   scrapped.URL,
		Description: scrapped.Description,
	})
	current := codec.Encode(model.ParsedDescription{
		AltTitles:   card.AltTitles,
		SourceURL:   card.SourceURL,
		Description: card.Description,
	})
	if force || current != encoded {
		fields.Desc = &encoded
		card.AltTitles = scrapped.Titles[1:]
		card.SourceURL = scrapped.URL
		card.Description = scrapped.Description
	}

	// Label writes are expensive remote calls; skip them unless the domain
	// label set or the tag name set actually differs.
	if force || !scrapped.Labels.Equal(card.Labels) || !slices.Equal(scrapped.TagNames(), card.TagNames()) {
		tags, err := s.ensureTags(ctx, scrapped.TagNames())
		if err != nil {
			return err
		}
		ids, err := s.labelIDs(scrapped.Labels, tags)
		if err != nil {
			return err
		}
		fields.LabelIDs = ids
		fields.HasLabelIDs = true
		card.Labels = scrapped.Labels
		card.Tags = tags
	}

	if fields.IsZero() {
		return nil
	}
	return s.store.UpdateCard(ctx, card.ID, fields)
}

// ensureTags resolves tag names to board labels, creating the missing ones
// remotely. Creation failures are not retried; they propagate.
func (s *Syncer) ensureTags(ctx context.Context, names []string) ([]model.Label, error) {
	tags := make([]model.Label, 0, len(names))
	for _, name := range names {
		if label, ok := s.labels.ByName(name); ok {
			tags = append(tags, label)
			continue
		}
		created, err := s.store.CreateLabel(ctx, name, "")
		if err != nil {
			return nil, err
		}
		label := model.Label{ID: created.ID, Name: name, Color: created.Color}
		if err := s.labels.Add(label); err != nil {
			return nil, err
		}
		s.logger.Info("created tag label", "name", name, "id", label.ID)
		tags = append(tags, label)
	}
	return tags, nil
}

// labelIDs collects the id set for the requested domain labels and tags.
func (s *Syncer) labelIDs(data model.DataLabelSet, tags []model.Label) ([]string, error) {
	ids := make([]string, 0, len(data)+len(tags))
	for _, dataLabel := range data.Sorted() {
		label, ok := s.labels.ByDataLabel(dataLabel)
		if !ok {
			return nil, fmt.Errorf("domain label %q missing from board, run setup first", dataLabel)
		}
		ids = append(ids, label.ID)
	}
	for _, tag := range tags {
		ids = append(ids, tag.ID)
	}
	return ids, nil
}

// saveCover reconciles cover presence only: attach when scraped data has a
// cover and the card has none, detach in the opposite case. Image content
// is never diffed.
func (s *Syncer) saveCover(ctx context.Context, card *model.Card, scrapped *model.ScrappedData) error {
	if len(scrapped.Cover) > 0 && card.CoverID == "" {
		s.logger.Info("setting cover", "card", card.ID)
		data, mimeType, err := images.Recompress(scrapped.Cover)
		if err != nil {
			return fmt.Errorf("card %s: %w", card.ID, err)
		}
		attachment, err := s.store.CreateAttachment(ctx, card.ID, "cover", mimeType, data, true)
		if err != nil {
			return err
		}
		card.CoverID = attachment.ID
	}
	if card.CoverID != "" && len(scrapped.Cover) == 0 {
		if err := s.store.DeleteAttachment(ctx, card.ID, card.CoverID); err != nil {
			return err
		}
		card.CoverID = ""
	}
	return nil
}

// IsDuplicate reports whether err is the duplicate guard firing.
func IsDuplicate(err error) bool {
	return errors.Is(err, model.ErrDuplicatedEntry)
}
