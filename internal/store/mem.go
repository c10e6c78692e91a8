package store

import (
	"fmt"

	"github.com/vkatariya/readstack/internal/article"
)

// Mem is an in-memory Store used by tests to substitute for the
// directory implementation without touching the filesystem.
type Mem struct {
	cols map[Collection]map[string]*article.Record
}

// NewMem returns an empty in-memory store with both collections.
func NewMem() *Mem {
	return &Mem{cols: map[Collection]map[string]*article.Record{
		Pending:  {},
		Archived: {},
	}}
}

// Put inserts or replaces a record. Test setup helper.
func (m *Mem) Put(col Collection, rec *article.Record) {
	m.cols[col][rec.ID] = rec.Clone()
}

// Delete removes a record if present. Test setup helper.
func (m *Mem) Delete(col Collection, id string) {
	delete(m.cols[col], id)
}

// List implements Store.
func (m *Mem) List(col Collection, filter func(*article.Record) bool) ([]*article.Record, error) {
	records, ok := m.cols[col]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", col)
	}

	var recs []*article.Record
	for _, rec := range records {
		if filter == nil || filter(rec) {
			recs = append(recs, rec.Clone())
		}
	}
	sortOldestFirst(recs)
	return recs, nil
}

// Get implements Store.
func (m *Mem) Get(col Collection, id string) (*article.Record, error) {
	records, ok := m.cols[col]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", col)
	}
	rec, ok := records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec.Clone(), nil
}

// Update implements Store.
func (m *Mem) Update(col Collection, id string, mutate func(*article.Record) error) error {
	rec, err := m.Get(col, id)
	if err != nil {
		return err
	}
	if err := mutate(rec); err != nil {
		return err
	}
	m.cols[col][id] = rec
	return nil
}

// Relocate implements Store.
func (m *Mem) Relocate(id string, from, to Collection) error {
	return m.RelocateAs(id, id, from, to)
}

// RelocateAs implements Store.
func (m *Mem) RelocateAs(id, newID string, from, to Collection) error {
	rec, ok := m.cols[from][id]
	if !ok {
		return fmt.Errorf("%w: %s in %s", ErrNotFound, id, from)
	}
	if _, taken := m.cols[to][newID]; taken {
		return fmt.Errorf("%w: %s in %s", ErrConflict, newID, to)
	}
	moved := rec.Clone()
	moved.ID = newID
	m.cols[to][newID] = moved
	delete(m.cols[from], id)
	return nil
}
