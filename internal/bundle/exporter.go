package bundle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/vkatariya/readstack/internal/article"
	"github.com/vkatariya/readstack/internal/lifecycle"
	"github.com/vkatariya/readstack/internal/selection"
	"github.com/vkatariya/readstack/internal/store"
)

// Collaborator failures. Both abort the export before any record state
// changes, preserving "sent-to-kindle implies the bundle went out".
var (
	ErrConversionFailed = errors.New("document conversion failed")
	ErrDeliveryFailed   = errors.New("delivery failed")
)

// Converter turns a bundle into a single artifact file at outPath.
type Converter interface {
	Convert(ctx context.Context, b Bundle, outPath string) error
}

// Sender delivers the artifact to the configured address.
type Sender interface {
	Send(ctx context.Context, artifact, subject string) error
}

// Unmarked names a record that was delivered but could not be flagged
// sent. Requires manual reconciliation; re-running the export would
// send the article again.
type Unmarked struct {
	ID  string
	Err error
}

// Result reports what an export did.
type Result struct {
	Artifact string
	Bundle   Bundle
	Marked   []string
	Unmarked []Unmarked
}

// Exporter orchestrates select -> convert -> deliver -> mark sent.
type Exporter struct {
	Store     store.Store
	Converter Converter
	Sender    Sender
	Logger    *slog.Logger
	Now       func() time.Time
}

// Export converts and delivers the selected records, then transitions
// each to sent. Record mutation happens strictly after both
// collaborators succeed; per-record mark failures end up in
// Result.Unmarked rather than aborting, since the artifact already
// went out.
func (e *Exporter) Export(ctx context.Context, selected []*article.Record, outDir string) (*Result, error) {
	if len(selected) == 0 {
		return nil, selection.ErrEmptySelection
	}

	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	b := New(selected, now())
	artifact := filepath.Join(outDir, fmt.Sprintf("articles-%s.epub", b.Date))

	logger.Info("converting bundle", "articles", len(b.Items), "words", b.WordCount(), "artifact", artifact)
	if err := e.Converter.Convert(ctx, b, artifact); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConversionFailed, err)
	}

	logger.Info("delivering bundle", "artifact", artifact)
	if err := e.Sender.Send(ctx, artifact, b.Title); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	res := &Result{Artifact: artifact, Bundle: b}
	for _, rec := range selected {
		err := e.Store.Update(store.Pending, rec.ID, func(r *article.Record) error {
			return lifecycle.MarkSent(r)
		})
		if err != nil {
			logger.Error("delivered but failed to mark sent", "id", rec.ID, "error", err)
			res.Unmarked = append(res.Unmarked, Unmarked{ID: rec.ID, Err: err})
			continue
		}
		res.Marked = append(res.Marked, rec.ID)
	}
	return res, nil
}
