package config

import (
	"log/slog"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"READSTACK_INBOX", "READSTACK_ARCHIVE", "READSTACK_OUTPUT",
		"READSTACK_TARGET_WORDS", "READSTACK_SMTP_RELAY", "READSTACK_SMTP_PORT",
		"READSTACK_SMTP_USER", "READSTACK_FROM", "READSTACK_KINDLE_TO",
		"READSTACK_LOG_FILE", "READSTACK_LOG_LEVEL", CredentialVar,
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.InboxDir != "./Inbox" || cfg.ArchiveDir != "./Archive" {
		t.Errorf("collection defaults = %q, %q", cfg.InboxDir, cfg.ArchiveDir)
	}
	if cfg.TargetWords != 20000 {
		t.Errorf("TargetWords = %d, want 20000", cfg.TargetWords)
	}
	if cfg.SMTPRelay != "smtp.gmail.com" || cfg.SMTPPort != 587 {
		t.Errorf("smtp defaults = %q:%d", cfg.SMTPRelay, cfg.SMTPPort)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("READSTACK_TARGET_WORDS", "5000")
	t.Setenv("READSTACK_SMTP_USER", "reader@example.com")
	t.Setenv("READSTACK_FROM", "")
	t.Setenv("READSTACK_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.TargetWords != 5000 {
		t.Errorf("TargetWords = %d, want 5000", cfg.TargetWords)
	}
	if cfg.FromAddr != "reader@example.com" {
		t.Errorf("FromAddr = %q, want fallback to smtp user", cfg.FromAddr)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
}

func TestLoadRejectsBadInt(t *testing.T) {
	t.Setenv("READSTACK_TARGET_WORDS", "lots")
	if _, err := Load(); err == nil {
		t.Error("Load() error = nil, want error for non-numeric target")
	}
}

func TestValidateDelivery(t *testing.T) {
	cfg := Config{
		SMTPUser:     "reader@example.com",
		SMTPPassword: "secret",
		KindleAddr:   "reader@kindle.com",
	}
	if err := cfg.ValidateDelivery(); err != nil {
		t.Errorf("ValidateDelivery() error = %v", err)
	}

	cfg.SMTPPassword = ""
	err := cfg.ValidateDelivery()
	if err == nil {
		t.Fatal("ValidateDelivery() error = nil, want missing credential")
	}
	if !strings.Contains(err.Error(), CredentialVar) {
		t.Errorf("error does not name the credential variable: %v", err)
	}
}
