package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeBoard(); err != nil {
		return err
	}
	c.normalizeScraper()
	if err := c.normalizeSync(); err != nil {
		return err
	}
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	c.normalizeCron()
	return nil
}

func (c *Config) normalizeBoard() error {
	if c.Board.Key == "" {
		if value, ok := os.LookupEnv("GWATCHING_BOARD_KEY"); ok {
			c.Board.Key = value
		}
	}
	if c.Board.Token == "" {
		if value, ok := os.LookupEnv("GWATCHING_BOARD_TOKEN"); ok {
			c.Board.Token = value
		}
	}
	c.Board.BaseURL = strings.TrimSpace(c.Board.BaseURL)
	if c.Board.BaseURL == "" {
		c.Board.BaseURL = defaultBoardBaseURL
	}
	c.Board.BaseURL = strings.TrimRight(c.Board.BaseURL, "/")
	c.Board.Key = strings.TrimSpace(c.Board.Key)
	c.Board.Token = strings.TrimSpace(c.Board.Token)
	c.Board.BoardID = strings.TrimSpace(c.Board.BoardID)
	return nil
}

func (c *Config) normalizeScraper() {
	c.Scraper.AniListEndpoint = strings.TrimSpace(c.Scraper.AniListEndpoint)
	if c.Scraper.AniListEndpoint == "" {
		c.Scraper.AniListEndpoint = defaultAniListEndpoint
	}
	if c.Scraper.AniListRequestsPerMinute <= 0 {
		c.Scraper.AniListRequestsPerMinute = defaultAniListRequestsPerMinute
	}
	if c.Scraper.IMDBRequestsPerMinute <= 0 {
		c.Scraper.IMDBRequestsPerMinute = defaultIMDBRequestsPerMinute
	}
	if c.Scraper.LibraryThingRequestsPerMinute <= 0 {
		c.Scraper.LibraryThingRequestsPerMinute = defaultLibraryThingRequestsPerMinute
	}
}

func (c *Config) normalizeSync() error {
	var err error
	if c.Sync.LockPath, err = expandPath(c.Sync.LockPath); err != nil {
		return fmt.Errorf("sync.lock_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.File != "" {
		var err error
		if c.Logging.File, err = expandPath(c.Logging.File); err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups < 0 {
		c.Logging.MaxBackups = defaultLogMaxBackups
	}
	if c.Logging.MaxAgeDays < 0 {
		c.Logging.MaxAgeDays = defaultLogMaxAgeDays
	}
	return nil
}

func (c *Config) normalizeCron() {
	for i := range c.Cron.Jobs {
		c.Cron.Jobs[i].Name = strings.TrimSpace(c.Cron.Jobs[i].Name)
		c.Cron.Jobs[i].Schedule = strings.TrimSpace(c.Cron.Jobs[i].Schedule)
	}
}
