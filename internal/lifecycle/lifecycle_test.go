package lifecycle

import (
	"errors"
	"testing"
	"time"

	"github.com/vkatariya/readstack/internal/article"
)

func newRecord(t *testing.T, raw string) *article.Record {
	t.Helper()
	rec, err := article.Load("test.md", raw)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return rec
}

func TestStateOf(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want State
	}{
		{"no flags", "---\ntitle: x\n---\n", StatePending},
		{"sent no", "---\nsent-to-kindle: no\n---\n", StatePending},
		{"sent yes", "---\nsent-to-kindle: yes\n---\n", StateSent},
		{"read", "---\nsent-to-kindle: yes\nread-status: read\n---\n", StateRead},
		{"unread explicit", "---\nsent-to-kindle: yes\nread-status: unread\n---\n", StateSent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StateOf(newRecord(t, tt.raw)); got != tt.want {
				t.Errorf("StateOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMarkSent(t *testing.T) {
	rec := newRecord(t, "---\ntitle: x\n---\n")
	if err := MarkSent(rec); err != nil {
		t.Fatalf("MarkSent() error = %v", err)
	}
	if !rec.Meta.Bool(article.KeySentToKindle) {
		t.Error("sent-to-kindle not set")
	}

	// Monotonic: a second send is refused, flag stays set.
	if err := MarkSent(rec); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second MarkSent() error = %v, want ErrInvalidTransition", err)
	}
	if !rec.Meta.Bool(article.KeySentToKindle) {
		t.Error("sent-to-kindle flag lost")
	}
}

func TestMarkRead(t *testing.T) {
	at := time.Date(2026, 8, 25, 14, 0, 0, 0, time.UTC)

	rec := newRecord(t, "---\ntitle: x\nsent-to-kindle: yes\n---\n")
	if err := MarkRead(rec, at); err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}
	if status, _ := rec.Meta.Get(article.KeyReadStatus); status != "read" {
		t.Errorf("read-status = %q, want read", status)
	}
	if date, _ := rec.Meta.Get(article.KeyDateRead); date != "2026-08-25" {
		t.Errorf("date-read = %q, want 2026-08-25", date)
	}

	if err := MarkRead(rec, at); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("second MarkRead() error = %v, want ErrInvalidTransition", err)
	}
}

func TestMarkReadRequiresSent(t *testing.T) {
	rec := newRecord(t, "---\ntitle: x\n---\n")
	if err := MarkRead(rec, time.Now()); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("MarkRead() on pending error = %v, want ErrInvalidTransition", err)
	}
	if _, ok := rec.Meta.Get(article.KeyReadStatus); ok {
		t.Error("read-status set despite refused transition")
	}
}

func TestAppendNotes(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		note     string
		want     string
		wantsKey bool
	}{
		{"no existing notes", "---\ntitle: x\n---\n", "bar", "bar", true},
		{"appends to existing", "---\nnotes: foo\n---\n", "bar", "foo | bar", true},
		{"empty note is a no-op", "---\ntitle: x\n---\n", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := newRecord(t, tt.raw)
			AppendNotes(rec, tt.note)
			got, ok := rec.Meta.Get(article.KeyNotes)
			if ok != tt.wantsKey {
				t.Fatalf("notes present = %v, want %v", ok, tt.wantsKey)
			}
			if got != tt.want {
				t.Errorf("notes = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetLiked(t *testing.T) {
	rec := newRecord(t, "---\ntitle: x\nsent-to-kindle: yes\n---\n")
	SetLiked(rec)
	if !rec.Meta.Bool(article.KeyLiked) {
		t.Error("liked not set")
	}
}
