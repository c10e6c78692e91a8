package config

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSetupLoggerWithWritersDualOutput(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Info("bundle sent", "articles", 3)

	if !strings.Contains(stderr.String(), "bundle sent") {
		t.Errorf("stderr output missing message: %q", stderr.String())
	}
	if !strings.Contains(stderr.String(), "articles=3") {
		t.Errorf("stderr output not text format: %q", stderr.String())
	}
	if !strings.Contains(file.String(), `"msg":"bundle sent"`) {
		t.Errorf("file output not JSON format: %q", file.String())
	}
}

func TestSetupLoggerWithWritersLevel(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelWarn)

	logger.Debug("noise")
	logger.Info("also noise")

	if stderr.Len() != 0 || file.Len() != 0 {
		t.Errorf("below-level records written: stderr=%q file=%q", stderr.String(), file.String())
	}

	logger.Warn("kept")
	if !strings.Contains(stderr.String(), "kept") || !strings.Contains(file.String(), "kept") {
		t.Errorf("warn record missing: stderr=%q file=%q", stderr.String(), file.String())
	}
}
