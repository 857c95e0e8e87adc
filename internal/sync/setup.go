package sync

import (
	"context"
	"log/slog"

	"gwatching/internal/model"
)

// labelColors fixes the board color of every domain label.
var labelColors = map[model.DataLabel]string{
	model.LabelAnime:     "green",
	model.LabelMovie:     "yellow",
	model.LabelSeries:    "orange",
	model.LabelCartoon:   "red",
	model.LabelBook:      "purple",
	model.LabelCompleted: "black",
}

// Setup makes sure every domain label exists on the board with its fixed
// color. Existing labels are left untouched, color drift included.
func Setup(ctx context.Context, store Store, logger *slog.Logger) error {
	existing, err := store.Labels(ctx)
	if err != nil {
		return err
	}
	byName := make(map[string]struct{}, len(existing))
	for _, label := range existing {
		byName[label.Name] = struct{}{}
	}

	for _, dataLabel := range model.DataLabels() {
		if _, ok := byName[string(dataLabel)]; ok {
			continue
		}
		created, err := store.CreateLabel(ctx, string(dataLabel), labelColors[dataLabel])
		if err != nil {
			return err
		}
		logger.Info("created domain label", "name", dataLabel, "id", created.ID)
	}
	return nil
}

// FixLabels repairs label drift accumulated through manual board edits:
// cards pointing at duplicated labels are repointed to the canonical id,
// then duplicated, unused and empty-named labels are deleted.
func FixLabels(ctx context.Context, store Store, logger *slog.Logger) error {
	known := make(map[string]string)
	duplicated := make(map[string][]string)
	used := make(map[string]struct{})
	var empty []string

	labels, err := store.Labels(ctx)
	if err != nil {
		return err
	}
	for _, label := range labels {
		switch {
		case label.Name == "":
			empty = append(empty, label.ID)
		case known[label.Name] != "":
			duplicated[label.Name] = append(duplicated[label.Name], label.ID)
		default:
			known[label.Name] = label.ID
		}
	}
	logger.Warn("found duplicated labels", "count", len(duplicated))

	cards, err := store.Cards(ctx)
	if err != nil {
		return err
	}
	for _, card := range cards {
		for _, label := range card.Labels {
			if isDuplicatedID(duplicated[label.Name], label.ID) {
				logger.Warn("replacing duplicated label on card", "label", label.Name, "card", card.ID, "name", card.Name)
				if err := store.AddCardLabel(ctx, card.ID, known[label.Name]); err != nil {
					return err
				}
				if err := store.RemoveCardLabel(ctx, card.ID, label.ID); err != nil {
					return err
				}
				used[known[label.Name]] = struct{}{}
			} else {
				used[label.ID] = struct{}{}
			}
		}
	}

	for name, ids := range duplicated {
		for _, labelID := range ids {
			logger.Warn("removing duplicated label", "name", name, "id", labelID)
			if err := store.DeleteLabel(ctx, labelID); err != nil {
				return err
			}
		}
	}

	var unused []string
	for _, labelID := range known {
		if _, ok := used[labelID]; !ok {
			unused = append(unused, labelID)
		}
	}
	logger.Warn("found unused labels", "count", len(unused))
	for _, labelID := range unused {
		logger.Warn("removing unused label", "id", labelID)
		if err := store.DeleteLabel(ctx, labelID); err != nil {
			return err
		}
	}

	logger.Warn("removing empty labels", "count", len(empty))
	for _, labelID := range empty {
		if err := store.DeleteLabel(ctx, labelID); err != nil {
			return err
		}
	}
	return nil
}

func isDuplicatedID(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
