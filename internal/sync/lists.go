package sync

import (
	"context"
	"fmt"

	"gwatching/internal/codec"
	"gwatching/internal/model"
)

// MaxListSize caps how many items a single checklist may hold; anything
// larger is split into chunks before alignment.
const MaxListSize = 200

// NormalizeLists splits any scraped list whose item count exceeds maxSize
// into consecutive chunks of at most maxSize items. Chunk names carry a
// 1-based " #<n>" suffix; item order is preserved across chunks.
func NormalizeLists(lists []model.NamedList, maxSize int) []model.NamedList {
	var out []model.NamedList
	for _, list := range lists {
		if len(list.Items) <= maxSize {
			out = append(out, list)
			continue
		}
		for index, start := 1, 0; start < len(list.Items); index, start = index+1, start+maxSize {
			end := min(start+maxSize, len(list.Items))
			out = append(out, model.NamedList{
				Name:  fmt.Sprintf("%s #%d", list.Name, index),
				Items: list.Items[start:end],
			})
		}
	}
	return out
}

// saveLists aligns the card's checklists against the normalized scraped
// lists by position: existing[i] is paired with scrapped[i] regardless of
// names or ids. Positions with no scraped counterpart are deleted, positions
// with no existing counterpart are created, name drift is a rename in place.
// The resulting order always follows the scraped order.
func (s *Syncer) saveLists(ctx context.Context, card *model.Card, scrapped *model.ScrappedData) error {
	scrappedLists := NormalizeLists(scrapped.Parts, MaxListSize)

	var combined []model.NamedList
	for i := 0; i < max(len(card.Lists), len(scrappedLists)); i++ {
		switch {
		case i >= len(scrappedLists):
			if err := s.store.DeleteChecklist(ctx, card.Lists[i].ID); err != nil {
				return err
			}

		case i >= len(card.Lists):
			created, err := s.store.CreateChecklist(ctx, card.ID, scrappedLists[i].Name)
			if err != nil {
				return err
			}
			part := model.NamedList{ID: created.ID, Name: scrappedLists[i].Name}
			if err := s.saveListItems(ctx, card, &part, scrappedLists[i]); err != nil {
				return err
			}
			combined = append(combined, part)

		default:
			part := card.Lists[i]
			if part.Name != scrappedLists[i].Name {
				if err := s.store.RenameChecklist(ctx, part.ID, scrappedLists[i].Name); err != nil {
					return err
				}
				part.Name = scrappedLists[i].Name
			}
			if err := s.saveListItems(ctx, card, &part, scrappedLists[i]); err != nil {
				return err
			}
			combined = append(combined, part)
		}
	}

	card.Lists = combined
	return nil
}

// saveListItems aligns one checklist's items by position. Matching rendered
// text means no remote call at all; differing text keeps the existing
// identity but the scraped content. The result follows scraped order.
func (s *Syncer) saveListItems(ctx context.Context, card *model.Card, list *model.NamedList, scrapped model.NamedList) error {
	var combined []model.ListItem
	for i := 0; i < max(len(list.Items), len(scrapped.Items)); i++ {
		switch {
		case i >= len(scrapped.Items):
			if err := s.store.DeleteCheckItem(ctx, list.ID, list.Items[i].ID); err != nil {
				return err
			}

		case i >= len(list.Items):
			item := scrapped.Items[i]
			created, err := s.store.CreateCheckItem(ctx, list.ID, codec.EncodeItem(item))
			if err != nil {
				return err
			}
			item.ID = created.ID
			combined = append(combined, item)

		default:
			existing, item := list.Items[i], scrapped.Items[i]
			rendered := codec.EncodeItem(item)
			if rendered == codec.EncodeItem(existing) {
				combined = append(combined, existing)
				continue
			}
			if err := s.store.UpdateCheckItem(ctx, card.ID, existing.ID, rendered); err != nil {
				return err
			}
			item.ID = existing.ID
			combined = append(combined, item)
		}
	}

	list.Items = combined
	return nil
}
