package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"gwatching/internal/model"
	"gwatching/internal/scraper"
	"gwatching/internal/sync"
)

type syncOptions struct {
	pending bool
	ongoing bool
	ended   bool
	byTitle string
	byURL   string
}

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var opts syncOptions

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile board cards against their remote sources",
		Long: `Reconcile board cards against their remote sources.

--ongoing and --ended pick tracked cards by their completed label,
--by-title and --by-url pick single cards, and --pending resolves
pending cards into tracked ones. Book cards are left alone; their
state lives on the board only.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !opts.pending && !opts.ongoing && !opts.ended && opts.byTitle == "" && opts.byURL == "" {
				return errors.New("nothing to do: pass --pending, --ongoing, --ended, --by-title or --by-url")
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			store, err := ctx.newStore()
			if err != nil {
				return err
			}
			guesser, err := ctx.newGuesser()
			if err != nil {
				return err
			}

			return ctx.withRunLock(func() error {
				return runSync(cmd.Context(), opts, store, guesser, logger)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.pending, "pending", false, "Resolve pending cards into tracked ones")
	cmd.Flags().BoolVar(&opts.ongoing, "ongoing", false, "Refresh cards that are still airing")
	cmd.Flags().BoolVar(&opts.ended, "ended", false, "Refresh cards marked completed")
	cmd.Flags().StringVar(&opts.byTitle, "by-title", "", "Refresh the single card with this title")
	cmd.Flags().StringVar(&opts.byURL, "by-url", "", "Refresh the single card with this source URL")

	return cmd
}

func runSync(ctx context.Context, opts syncOptions, store sync.Store, guesser *scraper.Guesser, logger *slog.Logger) error {
	labels, cards, err := sync.Load(ctx, store, logger)
	if err != nil {
		return err
	}
	syncer := sync.New(store, labels, cards, logger)

	var failures int

	if opts.ongoing || opts.ended || opts.byTitle != "" || opts.byURL != "" {
		for _, card := range syncer.Cards().Cards() {
			if !selectCard(card, opts) {
				continue
			}
			logger.Info("checking card", "title", card.Title, "card_id", card.ID)
			if err := syncCard(ctx, syncer, guesser, card); err != nil {
				failures++
				logger.Error("card sync failed", "title", card.Title, "card_id", card.ID, "error", err)
			}
		}
	}

	if opts.pending || opts.byURL != "" {
		failures += syncPending(ctx, opts, syncer, guesser, logger)
	}

	if failures > 0 {
		return fmt.Errorf("%d cards failed to sync", failures)
	}
	return nil
}

// selectCard applies the sync filters. Books are never refreshed from a
// remote source, and single-card filters win over the ongoing/ended split.
func selectCard(card *model.Card, opts syncOptions) bool {
	if card.Labels.Has(model.LabelBook) {
		return false
	}
	if opts.byTitle != "" || opts.byURL != "" {
		return card.Title == opts.byTitle || card.SourceURL == opts.byURL
	}
	if card.Labels.Has(model.LabelCompleted) {
		return opts.ended
	}
	return opts.ongoing
}

func syncCard(ctx context.Context, syncer *sync.Syncer, guesser *scraper.Guesser, card *model.Card) error {
	scr, err := guesser.ForURL(card.SourceURL)
	if err != nil {
		return err
	}
	data, err := scr.Get(ctx, card.SourceURL)
	if err != nil {
		return err
	}
	return syncer.Save(ctx, card, data)
}

func syncPending(ctx context.Context, opts syncOptions, syncer *sync.Syncer, guesser *scraper.Guesser, logger *slog.Logger) int {
	var failures int
	for _, pending := range syncer.Cards().Pending() {
		if pending.Labels.Has(model.LabelBook) {
			continue
		}

		url, scr, err := guesser.ForPending(pending)
		if err != nil {
			if errors.Is(err, model.ErrNoScraper) {
				logger.Info("skipping pending card", "name", pending.Name)
				continue
			}
			failures++
			logger.Error("pending card failed", "name", pending.Name, "error", err)
			continue
		}

		if opts.byURL != "" && opts.byURL != url {
			continue
		}
		if syncer.Cards().HasSourceURL(url) {
			logger.Info("duplicated url, skipping pending card", "name", pending.Name, "url", url)
			continue
		}

		data, err := scr.Get(ctx, url)
		if err != nil {
			failures++
			logger.Error("pending card scrape failed", "name", pending.Name, "url", url, "error", err)
			continue
		}
		if err := syncer.SavePending(ctx, pending, data); err != nil {
			failures++
			logger.Error("pending card save failed", "name", pending.Name, "url", url, "error", err)
		}
	}
	return failures
}
