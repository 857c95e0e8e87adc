package config

import (
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBoard(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateCron(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateBoard() error {
	if c.Board.Key == "" {
		return credentialError("board.key", "GWATCHING_BOARD_KEY")
	}
	if c.Board.Token == "" {
		return credentialError("board.token", "GWATCHING_BOARD_TOKEN")
	}
	if c.Board.BoardID == "" {
		return fmt.Errorf("board.board_id is required")
	}
	return nil
}

func credentialError(field, envVar string) error {
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = "~/.config/gwatching/config.toml"
	}
	return fmt.Errorf("%s is required. Set %s env var or edit %s (create with 'gwatching config init')", field, envVar, defaultPath)
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateCron() error {
	seen := map[string]struct{}{}
	for _, job := range c.Cron.Jobs {
		if job.Name == "" {
			return fmt.Errorf("cron job without a name")
		}
		if _, dup := seen[job.Name]; dup {
			return fmt.Errorf("duplicate cron job name %q", job.Name)
		}
		seen[job.Name] = struct{}{}
		if job.Schedule == "" {
			return fmt.Errorf("cron job %q has no schedule", job.Name)
		}
		if len(job.Args) == 0 {
			return fmt.Errorf("cron job %q has no command arguments", job.Name)
		}
	}
	return nil
}
