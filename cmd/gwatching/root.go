package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "gwatching",
		Short:         "Mirror scraped media metadata onto a kanban board",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newSyncCommand(ctx))
	rootCmd.AddCommand(newSetupCommand(ctx))
	rootCmd.AddCommand(newCardsCommand(ctx))
	rootCmd.AddCommand(newCronCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}
