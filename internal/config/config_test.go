package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"gwatching/internal/config"
)

func TestLoadDefaultConfigUsesEnvCredentialsAndExpandsPaths(t *testing.T) {
	t.Setenv("GWATCHING_BOARD_KEY", "test-key")
	t.Setenv("GWATCHING_BOARD_TOKEN", "test-token")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	writeConfig(t, tempHome, "[board]\nboard_id = \"b1\"\n")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if !exists {
		t.Fatal("expected config file to be found in temp HOME")
	}

	if cfg.Board.Key != "test-key" || cfg.Board.Token != "test-token" {
		t.Fatalf("env credentials not applied: %+v", cfg.Board)
	}
	if cfg.Board.BaseURL != "https://api.trello.com/1" {
		t.Fatalf("unexpected base url %q", cfg.Board.BaseURL)
	}
	wantLock := filepath.Join(tempHome, ".local", "share", "gwatching", "run.lock")
	if cfg.Sync.LockPath != wantLock {
		t.Fatalf("unexpected lock path: got %q want %q", cfg.Sync.LockPath, wantLock)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.Scraper.AniListRequestsPerMinute != 15 {
		t.Fatalf("unexpected anilist rate: %v", cfg.Scraper.AniListRequestsPerMinute)
	}
}

func TestLoadRejectsMissingCredentials(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("GWATCHING_BOARD_KEY", "")
	t.Setenv("GWATCHING_BOARD_TOKEN", "")

	_, _, _, err := config.Load("")
	if err == nil {
		t.Fatal("expected missing credentials to fail validation")
	}
	if !strings.Contains(err.Error(), "board.key") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadParsesFileValues(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	writeConfig(t, tempHome, `
[board]
key = "k"
token = "t"
board_id = "b1"

[logging]
format = "JSON"
level = "Debug"
file = "~/logs/gwatching.log"

[[cron.jobs]]
name = "pending"
schedule = "@hourly"
args = ["sync", "--pending"]
`)

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging values not normalized: %+v", cfg.Logging)
	}
	if cfg.Logging.File != filepath.Join(tempHome, "logs", "gwatching.log") {
		t.Fatalf("log file not expanded: %q", cfg.Logging.File)
	}
	if len(cfg.Cron.Jobs) != 1 || cfg.Cron.Jobs[0].Name != "pending" {
		t.Fatalf("unexpected cron jobs: %+v", cfg.Cron.Jobs)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "bad log format",
			body: "[board]\nkey=\"k\"\ntoken=\"t\"\nboard_id=\"b\"\n[logging]\nformat=\"xml\"\n",
			want: "logging.format",
		},
		{
			name: "cron job without schedule",
			body: "[board]\nkey=\"k\"\ntoken=\"t\"\nboard_id=\"b\"\n[[cron.jobs]]\nname=\"x\"\nargs=[\"sync\"]\n",
			want: "has no schedule",
		},
		{
			name: "duplicate cron job",
			body: "[board]\nkey=\"k\"\ntoken=\"t\"\nboard_id=\"b\"\n" +
				"[[cron.jobs]]\nname=\"x\"\nschedule=\"@daily\"\nargs=[\"sync\"]\n" +
				"[[cron.jobs]]\nname=\"x\"\nschedule=\"@daily\"\nargs=[\"sync\"]\n",
			want: "duplicate cron job",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tempHome := t.TempDir()
			t.Setenv("HOME", tempHome)
			writeConfig(t, tempHome, tc.body)

			_, _, _, err := config.Load("")
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var cfg config.Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	if cfg.Board.BaseURL != "https://api.trello.com/1" {
		t.Fatalf("unexpected sample base url %q", cfg.Board.BaseURL)
	}
}

func writeConfig(t *testing.T, home, body string) {
	t.Helper()
	dir := filepath.Join(home, ".config", "gwatching")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}
