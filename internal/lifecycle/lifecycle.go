// Package lifecycle defines the metadata state machine an article moves
// through: pending, sent, read. Transitions are monotonic; nothing here
// (or anywhere else) can clear the sent or read flags once set.
package lifecycle

import (
	"errors"
	"fmt"
	"time"

	"github.com/vkatariya/readstack/internal/article"
)

// ErrInvalidTransition indicates an attempted back- or re-transition.
var ErrInvalidTransition = errors.New("invalid lifecycle transition")

// State is the lifecycle position derived from a record's metadata.
// Archival is positional, not a metadata state: a read record living in
// the archived collection.
type State int

const (
	StatePending State = iota
	StateSent
	StateRead
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSent:
		return "sent"
	case StateRead:
		return "read"
	}
	return "unknown"
}

// notesSeparator joins appended notes; existing notes are never
// overwritten.
const notesSeparator = " | "

const dateLayout = "2006-01-02"

// StateOf derives the current state from record metadata.
func StateOf(r *article.Record) State {
	if status, _ := r.Meta.Get(article.KeyReadStatus); status == "read" {
		return StateRead
	}
	if r.Meta.Bool(article.KeySentToKindle) {
		return StateSent
	}
	return StatePending
}

// MarkSent transitions pending -> sent. Called by the bundle exporter
// only after the artifact has actually been delivered.
func MarkSent(r *article.Record) error {
	if s := StateOf(r); s != StatePending {
		return fmt.Errorf("%w: %s is already %s", ErrInvalidTransition, r.ID, s)
	}
	r.Meta.Set(article.KeySentToKindle, "yes")
	return nil
}

// MarkRead transitions sent -> read and stamps the read date.
func MarkRead(r *article.Record, at time.Time) error {
	switch s := StateOf(r); s {
	case StateSent:
	case StateRead:
		return fmt.Errorf("%w: %s is already read", ErrInvalidTransition, r.ID)
	default:
		return fmt.Errorf("%w: %s is %s, not sent", ErrInvalidTransition, r.ID, s)
	}
	r.Meta.Set(article.KeyReadStatus, "read")
	r.Meta.Set(article.KeyDateRead, at.Format(dateLayout))
	return nil
}

// SetLiked marks the record liked. Only meaningful alongside the
// sent -> read transition; callers enforce the ordering.
func SetLiked(r *article.Record) {
	r.Meta.Set(article.KeyLiked, "yes")
}

// AppendNotes adds note to the record's notes field, preserving any
// existing text.
func AppendNotes(r *article.Record, note string) {
	if note == "" {
		return
	}
	existing, _ := r.Meta.Get(article.KeyNotes)
	if existing != "" {
		note = existing + notesSeparator + note
	}
	r.Meta.Set(article.KeyNotes, note)
}
