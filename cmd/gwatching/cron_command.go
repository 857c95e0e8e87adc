package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"gwatching/internal/config"
)

func newCronCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cron",
		Short: "Run the scheduled jobs from the configuration in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if len(cfg.Cron.Jobs) == 0 {
				return fmt.Errorf("no cron jobs configured, add [[cron.jobs]] entries first")
			}

			runner := cron.New(cron.WithChain(
				cron.SkipIfStillRunning(cronLogger{logger}),
				cron.Recover(cronLogger{logger}),
			))
			for _, job := range cfg.Cron.Jobs {
				if _, err := runner.AddFunc(job.Schedule, newCronJob(job, ctx.configFlag, logger)); err != nil {
					return fmt.Errorf("schedule job %q: %w", job.Name, err)
				}
				logger.Info("registered cron job", "name", job.Name, "schedule", job.Schedule)
			}

			signalCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			runner.Start()
			<-signalCtx.Done()
			logger.Info("shutting down, waiting for running jobs")
			<-runner.Stop().Done()
			return nil
		},
	}
}

// newCronJob builds a closure that re-enters the CLI with the job's
// arguments. Each run resolves config and takes the run lock on its own.
func newCronJob(job config.CronJob, configFlag *string, logger *slog.Logger) func() {
	args := append([]string(nil), job.Args...)
	if configFlag != nil && *configFlag != "" {
		args = append(args, "--config", *configFlag)
	}
	return func() {
		logger.Info("starting job", "name", job.Name)
		cmd := newRootCommand()
		cmd.SetArgs(args)
		if err := cmd.Execute(); err != nil {
			logger.Error("job failed", "name", job.Name, "error", err)
			return
		}
		logger.Info("job completed", "name", job.Name)
	}
}

// cronLogger adapts slog to the cron scheduler's logging interface.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append([]any{"error", err}, keysAndValues...)...)
}
