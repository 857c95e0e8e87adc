package logging_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gwatching/internal/logging"
)

func TestNewJSONLoggerWritesStructuredLines(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{
		Level:  "info",
		Format: "json",
		Output: &buf,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("card saved", "card_id", "c1")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not a JSON line: %v (%q)", err, buf.String())
	}
	if line["msg"] != "card saved" || line["card_id"] != "c1" {
		t.Fatalf("unexpected log line %v", line)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{
		Level:  "warn",
		Format: "console",
		Output: &buf,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("quiet")
	logger.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Fatalf("info line leaked through warn level: %q", out)
	}
	if !strings.Contains(out, "loud") {
		t.Fatalf("warn line missing: %q", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestNewTeesIntoFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "gwatching.log")

	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{
		Format:    "json",
		File:      path,
		MaxSizeMB: 1,
		Output:    &buf,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("hello file")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "hello file") {
		t.Fatalf("log file missing entry: %q", data)
	}
	if !strings.Contains(buf.String(), "hello file") {
		t.Fatalf("primary output missing entry: %q", buf.String())
	}
}
