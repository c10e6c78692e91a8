package article

import (
	"strings"
	"time"
)

// Record is one article: frontmatter metadata plus a markdown body,
// addressed by its filename within a collection.
type Record struct {
	ID   string
	Meta *Frontmatter
	Body string
}

// Load parses raw record text into a Record with the given id.
func Load(id, raw string) (*Record, error) {
	meta, body, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	return &Record{ID: id, Meta: meta, Body: body}, nil
}

// Marshal serializes the record back to file text.
func (r *Record) Marshal() string {
	return r.Meta.Marshal(r.Body)
}

// Clone returns an independent copy of the record.
func (r *Record) Clone() *Record {
	return &Record{ID: r.ID, Meta: r.Meta.Clone(), Body: r.Body}
}

// WordCount is the whitespace-delimited token count of the body.
// Derived on demand, never persisted.
func (r *Record) WordCount() int {
	return len(strings.Fields(r.Body))
}

// Title returns the title field, falling back to the filename stem.
func (r *Record) Title() string {
	if t, ok := r.Meta.Get(KeyTitle); ok && t != "" {
		return t
	}
	return strings.TrimSuffix(r.ID, ".md")
}

// Author returns the author field with wiki-link brackets stripped,
// or "Unknown" when absent.
func (r *Record) Author() string {
	a, ok := r.Meta.Get(KeyAuthor)
	if !ok || a == "" {
		return "Unknown"
	}
	a = strings.ReplaceAll(a, "[[", "")
	a = strings.ReplaceAll(a, "]]", "")
	return a
}

// createdLayouts are the accepted formats for the created field.
var createdLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Created parses the created field. The second return is false when the
// field is absent or unparseable; such records order after dated ones.
func (r *Record) Created() (time.Time, bool) {
	v, ok := r.Meta.Get(KeyCreated)
	if !ok || v == "" {
		return time.Time{}, false
	}
	for _, layout := range createdLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DisplayDate returns the created or published date string for listings.
func (r *Record) DisplayDate() string {
	if v, ok := r.Meta.Get(KeyCreated); ok && v != "" {
		return v
	}
	if v, ok := r.Meta.Get(KeyPublished); ok && v != "" {
		return v
	}
	return ""
}
