// Package store persists article records in named collections and
// provides the oldest-first ordering the rest of the pipeline relies on.
package store

import (
	"errors"
	"sort"

	"github.com/vkatariya/readstack/internal/article"
)

// Collection names a record collection.
type Collection string

const (
	// Pending holds articles not yet fully processed (unsent and sent).
	Pending Collection = "pending"
	// Archived holds read articles; records there are never rewritten.
	Archived Collection = "archived"
)

// Sentinel errors for store operations, checked with errors.Is.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict indicates the destination already holds a record
	// with the same id.
	ErrConflict = errors.New("record already exists at destination")
)

// Store is the persistence interface for article records. The directory
// implementation backs normal operation; the in-memory one backs tests.
type Store interface {
	// List returns records matching filter (nil matches all), ordered
	// ascending by created date. Records without a parseable created
	// date sort after all dated records; ties break by id.
	List(col Collection, filter func(*article.Record) bool) ([]*article.Record, error)

	// Get returns the record with the given id, or ErrNotFound.
	Get(col Collection, id string) (*article.Record, error)

	// Update performs a scoped read-modify-write: the record is loaded
	// fresh, mutate is applied, and the result is persisted atomically.
	// A mutate error leaves the stored record untouched.
	Update(col Collection, id string, mutate func(*article.Record) error) error

	// Relocate moves a record between collections as a single rename.
	// Fails with ErrConflict if the destination id is taken.
	Relocate(id string, from, to Collection) error

	// RelocateAs moves a record between collections under a new id,
	// for collision handling at the destination. Fails with
	// ErrConflict if newID is taken.
	RelocateAs(id, newID string, from, to Collection) error
}

// sortOldestFirst orders records ascending by created date, undated
// records last, ties broken by id. The sort is deterministic.
func sortOldestFirst(recs []*article.Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		ti, oki := recs[i].Created()
		tj, okj := recs[j].Created()
		switch {
		case oki && okj:
			if !ti.Equal(tj) {
				return ti.Before(tj)
			}
		case oki:
			return true
		case okj:
			return false
		}
		return recs[i].ID < recs[j].ID
	})
}
