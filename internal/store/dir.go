package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/vkatariya/readstack/internal/article"
)

const lockFile = ".readstack.lock"

// Dir is the directory-backed store: one directory per collection,
// one markdown file per record. Writes go through a temp file and an
// atomic rename in the same directory.
//
// Access is single-writer by advisory flock on the pending directory.
// Concurrent invocations are out of scope; the lock only makes the
// discipline fail fast instead of silently interleaving.
type Dir struct {
	roots  map[Collection]string
	lock   *flock.Flock
	logger *slog.Logger
}

// OpenDir opens (creating if needed) the pending and archived
// directories and takes the advisory lock.
func OpenDir(pendingDir, archivedDir string, logger *slog.Logger) (*Dir, error) {
	if logger == nil {
		logger = slog.Default()
	}

	roots := map[Collection]string{
		Pending:  pendingDir,
		Archived: archivedDir,
	}
	for col, root := range roots {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, fmt.Errorf("create %s directory: %w", col, err)
		}
	}

	lock := flock.New(filepath.Join(pendingDir, lockFile))
	held, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire library lock: %w", err)
	}
	if !held {
		return nil, fmt.Errorf("library is locked by another readstack process (%s)", lock.Path())
	}

	return &Dir{roots: roots, lock: lock, logger: logger}, nil
}

// Close releases the advisory lock.
func (d *Dir) Close() error {
	return d.lock.Unlock()
}

// List implements Store. Malformed records are skipped with a warning;
// one bad file never aborts the listing.
func (d *Dir) List(col Collection, filter func(*article.Record) bool) ([]*article.Record, error) {
	root, err := d.root(col)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read %s collection: %w", col, err)
	}

	var recs []*article.Record
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		rec, err := d.load(root, entry.Name())
		if err != nil {
			if errors.Is(err, article.ErrMalformed) {
				d.logger.Warn("skipping malformed record", "collection", col, "id", entry.Name(), "error", err)
				continue
			}
			return nil, err
		}
		if filter == nil || filter(rec) {
			recs = append(recs, rec)
		}
	}

	sortOldestFirst(recs)
	return recs, nil
}

// Get implements Store.
func (d *Dir) Get(col Collection, id string) (*article.Record, error) {
	root, err := d.root(col)
	if err != nil {
		return nil, err
	}
	return d.load(root, id)
}

// Update implements Store. The rewritten record lands via a temp file
// in the same directory followed by an atomic rename, so a failure
// partway never leaves a half-written record behind.
func (d *Dir) Update(col Collection, id string, mutate func(*article.Record) error) error {
	root, err := d.root(col)
	if err != nil {
		return err
	}

	rec, err := d.load(root, id)
	if err != nil {
		return err
	}
	if err := mutate(rec); err != nil {
		return err
	}

	return writeAtomic(filepath.Join(root, id), rec.Marshal())
}

// Relocate implements Store as a single rename between collection
// directories.
func (d *Dir) Relocate(id string, from, to Collection) error {
	return d.RelocateAs(id, id, from, to)
}

// RelocateAs implements Store. The destination filename becomes the
// record's new id on the next load.
func (d *Dir) RelocateAs(id, newID string, from, to Collection) error {
	fromRoot, err := d.root(from)
	if err != nil {
		return err
	}
	toRoot, err := d.root(to)
	if err != nil {
		return err
	}

	src := filepath.Join(fromRoot, id)
	dst := filepath.Join(toRoot, newID)

	if _, err := os.Stat(dst); err == nil {
		return fmt.Errorf("%w: %s in %s", ErrConflict, newID, to)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat destination: %w", err)
	}

	if err := os.Rename(src, dst); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s in %s", ErrNotFound, id, from)
		}
		return fmt.Errorf("relocate %s: %w", id, err)
	}
	return nil
}

func (d *Dir) root(col Collection) (string, error) {
	root, ok := d.roots[col]
	if !ok {
		return "", fmt.Errorf("unknown collection %q", col)
	}
	return root, nil
}

func (d *Dir) load(root, id string) (*article.Record, error) {
	raw, err := os.ReadFile(filepath.Join(root, id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("read record %s: %w", id, err)
	}

	rec, err := article.Load(id, string(raw))
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", id, err)
	}
	return rec, nil
}

func writeAtomic(path, content string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp record: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp record: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace record: %w", err)
	}
	return nil
}
