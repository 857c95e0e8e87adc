package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Board contains the kanban board API connection settings.
type Board struct {
	BaseURL string `toml:"base_url"`
	Key     string `toml:"key"`
	Token   string `toml:"token"`
	BoardID string `toml:"board_id"`
}

// Scraper contains settings for the remote metadata sources.
type Scraper struct {
	AniListEndpoint               string  `toml:"anilist_endpoint"`
	AniListRequestsPerMinute      float64 `toml:"anilist_requests_per_minute"`
	IMDBRequestsPerMinute         float64 `toml:"imdb_requests_per_minute"`
	LibraryThingRequestsPerMinute float64 `toml:"librarything_requests_per_minute"`
}

// Sync contains settings for the board synchronizer.
type Sync struct {
	// LockPath is the advisory file lock taken for the duration of a run
	// so overlapping invocations cannot interleave board writes.
	LockPath string `toml:"lock_path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format     string `toml:"format"`
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// CronJob is one scheduled invocation of the CLI.
type CronJob struct {
	Name     string   `toml:"name"`
	Schedule string   `toml:"schedule"`
	Args     []string `toml:"args"`
}

// Cron contains the scheduled job table for the cron command.
type Cron struct {
	Jobs []CronJob `toml:"jobs"`
}

// Config encapsulates all configuration values for gwatching.
//
// Configuration sections by subsystem:
//   - Board: kanban board REST credentials and board selection
//   - Scraper: remote source endpoints and request rates
//   - Sync: run lock location
//   - Logging: log format, level, and optional rotated file sink
//   - Cron: scheduled CLI invocations for the cron command
type Config struct {
	Board   Board   `toml:"board"`
	Scraper Scraper `toml:"scraper"`
	Sync    Sync    `toml:"sync"`
	Logging Logging `toml:"logging"`
	Cron    Cron    `toml:"cron"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/gwatching/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("gwatching.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other
// packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified
// location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
