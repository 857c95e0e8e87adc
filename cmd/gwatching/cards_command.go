package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"gwatching/internal/model"
	"gwatching/internal/sync"
)

func newCardsCommand(ctx *commandContext) *cobra.Command {
	var showPending bool

	cmd := &cobra.Command{
		Use:   "cards",
		Short: "List the cards tracked on the board",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			store, err := ctx.newStore()
			if err != nil {
				return err
			}

			_, cards, err := sync.Load(cmd.Context(), store, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if showPending {
				renderPendingTable(out, cards.Pending())
			} else {
				renderCardTable(out, cards.Cards())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showPending, "pending", false, "List pending cards instead of tracked ones")
	return cmd
}

func renderCardTable(out io.Writer, cards []*model.Card) {
	tw := newTableWriter(out)
	tw.AppendHeader(table.Row{"Title", "Labels", "Lists", "Source"})
	for _, card := range cards {
		tw.AppendRow(table.Row{
			card.Title,
			joinDataLabels(card.Labels),
			len(card.Lists),
			card.SourceURL,
		})
	}
	tw.Render()
	fmt.Fprintf(out, "%d cards\n", len(cards))
}

func renderPendingTable(out io.Writer, pending []*model.PendingCard) {
	tw := newTableWriter(out)
	tw.AppendHeader(table.Row{"Name", "Labels"})
	for _, card := range pending {
		tw.AppendRow(table.Row{card.Name, joinDataLabels(card.Labels)})
	}
	tw.Render()
	fmt.Fprintf(out, "%d pending cards\n", len(pending))
}

func newTableWriter(out io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	if shouldColorize(out) {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleLight)
	}
	return tw
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func joinDataLabels(labels model.DataLabelSet) string {
	names := make([]string, 0, len(labels))
	for _, label := range labels.Sorted() {
		names = append(names, string(label))
	}
	return strings.Join(names, ", ")
}
