package main

import (
	"github.com/spf13/cobra"

	"gwatching/internal/sync"
)

func newSetupCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Prepare the board's label palette",
		Long: `Prepare the board's label palette.

Repairs duplicated and orphaned labels first, then creates any missing
domain labels with their canonical colors.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			store, err := ctx.newStore()
			if err != nil {
				return err
			}

			return ctx.withRunLock(func() error {
				if err := sync.FixLabels(cmd.Context(), store, logger); err != nil {
					return err
				}
				return sync.Setup(cmd.Context(), store, logger)
			})
		},
	}
}
