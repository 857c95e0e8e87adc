package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"gwatching/internal/board"
	"gwatching/internal/codec"
	"gwatching/internal/index"
	"gwatching/internal/model"
)

// Load rebuilds the in-memory indexes from present store state. Cards whose
// description carries no recognizable version marker become pending; any
// other decode failure aborts the load, wrapped with the offending card id.
func Load(ctx context.Context, store Store, logger *slog.Logger) (*index.LabelBag, *index.CardBag, error) {
	boardLabels, err := store.Labels(ctx)
	if err != nil {
		return nil, nil, err
	}
	labels, err := index.NewLabelBag()
	if err != nil {
		return nil, nil, err
	}
	for _, label := range boardLabels {
		if err := labels.Add(model.Label{ID: label.ID, Name: label.Name, Color: label.Color}); err != nil {
			return nil, nil, err
		}
	}

	checklists, err := store.Checklists(ctx)
	if err != nil {
		return nil, nil, err
	}
	checklistByID := make(map[string]board.Checklist, len(checklists))
	for _, checklist := range checklists {
		checklistByID[checklist.ID] = checklist
	}

	boardCards, err := store.Cards(ctx)
	if err != nil {
		return nil, nil, err
	}

	cards := index.NewCardBag()
	for _, boardCard := range boardCards {
		if err := loadCard(cards, labels, checklistByID, boardCard, logger); err != nil {
			return nil, nil, fmt.Errorf("load card %s: %w", boardCard.ID, err)
		}
	}
	return labels, cards, nil
}

func loadCard(cards *index.CardBag, labels *index.LabelBag, checklistByID map[string]board.Checklist, boardCard board.Card, logger *slog.Logger) error {
	dataLabels := model.NewDataLabelSet()
	var tags []model.Label
	for _, labelID := range boardCard.LabelIDs {
		label, ok := labels.ByID(labelID)
		if !ok {
			return fmt.Errorf("unknown label id %s", labelID)
		}
		if dataLabel, ok := model.ParseDataLabel(label.Name); ok {
			dataLabels.Add(dataLabel)
		} else {
			tags = append(tags, label)
		}
	}

	parsed, version, err := codec.Decode(boardCard.Desc)
	if errors.Is(err, model.ErrUnknownVersion) {
		logger.Info("no version marker, card goes to pending", "card", boardCard.ID, "name", boardCard.Name)
		cards.AddPending(&model.PendingCard{
			ID:          boardCard.ID,
			Name:        boardCard.Name,
			Description: boardCard.Desc,
			Labels:      dataLabels,
		})
		return nil
	}
	if err != nil {
		return err
	}

	lists, err := loadChecklists(boardCard, checklistByID)
	if err != nil {
		return err
	}

	coverID := ""
	if boardCard.Cover != nil {
		coverID = boardCard.Cover.AttachmentID
	}

	return cards.Add(&model.Card{
		ID:          boardCard.ID,
		Title:       boardCard.Name,
		SourceURL:   parsed.SourceURL,
		Version:     version,
		AltTitles:   parsed.AltTitles,
		Description: parsed.Description,
		Labels:      dataLabels,
		Tags:        tags,
		Lists:       lists,
		CoverID:     coverID,
	})
}

func loadChecklists(boardCard board.Card, checklistByID map[string]board.Checklist) ([]model.NamedList, error) {
	ordered := make([]board.Checklist, 0, len(boardCard.ChecklistIDs))
	for _, checklistID := range boardCard.ChecklistIDs {
		checklist, ok := checklistByID[checklistID]
		if !ok {
			return nil, fmt.Errorf("unknown checklist id %s", checklistID)
		}
		ordered = append(ordered, checklist)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Pos < ordered[j].Pos })

	var lists []model.NamedList
	for _, checklist := range ordered {
		checkItems := append([]board.CheckItem(nil), checklist.CheckItems...)
		sort.Slice(checkItems, func(i, j int) bool { return checkItems[i].Pos < checkItems[j].Pos })

		items := make([]model.ListItem, 0, len(checkItems))
		for _, checkItem := range checkItems {
			item, err := codec.DecodeItem(checkItem.Name)
			if err != nil {
				return nil, err
			}
			item.ID = checkItem.ID
			items = append(items, item)
		}
		lists = append(lists, model.NamedList{ID: checklist.ID, Name: checklist.Name, Items: items})
	}
	return lists, nil
}
