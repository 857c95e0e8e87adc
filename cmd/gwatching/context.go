package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"gwatching/internal/board"
	"gwatching/internal/config"
	"gwatching/internal/logging"
	"gwatching/internal/scraper"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) newStore() (*board.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return board.New(cfg.Board.BaseURL, cfg.Board.Key, cfg.Board.Token, cfg.Board.BoardID)
}

func (c *commandContext) newGuesser() (*scraper.Guesser, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return scraper.NewGuesser(
		scraper.NewAniList(
			scraper.WithAniListEndpoint(cfg.Scraper.AniListEndpoint),
			scraper.WithAniListRequestsPerMinute(cfg.Scraper.AniListRequestsPerMinute),
		),
		scraper.NewLibraryThing(
			scraper.WithLibraryThingRequestsPerMinute(cfg.Scraper.LibraryThingRequestsPerMinute),
		),
		scraper.NewIMDB(
			scraper.WithIMDBRequestsPerMinute(cfg.Scraper.IMDBRequestsPerMinute),
		),
	), nil
}

// withRunLock takes the advisory run lock for the duration of fn so
// overlapping invocations cannot interleave board writes.
func (c *commandContext) withRunLock(fn func() error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Sync.LockPath), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}

	lock := flock.New(cfg.Sync.LockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another gwatching run holds %s", cfg.Sync.LockPath)
	}
	defer lock.Unlock()

	return fn()
}
