// Package archive walks articles that have gone out to the Kindle,
// collects the reader's feedback, and relocates finished articles to
// the archived collection.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/vkatariya/readstack/internal/article"
	"github.com/vkatariya/readstack/internal/lifecycle"
	"github.com/vkatariya/readstack/internal/prompt"
	"github.com/vkatariya/readstack/internal/store"
)

// Summary counts what one archival run did.
type Summary struct {
	Processed int
	Archived  int
	Saved     int // feedback recorded without archiving
	Skipped   int
	Failed    int
}

// decision holds the answers collected for one record before any
// mutation happens; the store's Update loads the record fresh and the
// decision is replayed onto it.
type decision struct {
	liked   bool
	notes   string
	archive bool
}

// Processor runs the interactive archival flow.
type Processor struct {
	Store   store.Store
	Prompts prompt.Prompter
	Logger  *slog.Logger
	Out     io.Writer
	Now     func() time.Time
}

// Run processes every sent record oldest-first. Store failures on one
// record are logged and counted, never abort the rest of the queue.
// Prompt errors (EOF, closed terminal) do abort: there is nobody left
// to answer.
func (p *Processor) Run(ctx context.Context) (*Summary, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	out := p.Out
	if out == nil {
		out = io.Discard
	}

	recs, err := p.Store.List(store.Pending, func(r *article.Record) bool {
		return r.Meta.Bool(article.KeySentToKindle)
	})
	if err != nil {
		return nil, fmt.Errorf("list sent articles: %w", err)
	}

	sum := &Summary{}
	if len(recs) == 0 {
		return sum, nil
	}

	for i, rec := range recs {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		sum.Processed++

		fmt.Fprintf(out, "\n[Article %d/%d]\n", i+1, len(recs))
		fmt.Fprintf(out, "Title: %s\nAuthor: %s\n", rec.Title(), rec.Author())

		dec, skipped, err := p.ask(rec)
		if err != nil {
			return sum, err
		}
		if skipped {
			fmt.Fprintln(out, "Skipped.")
			sum.Skipped++
			continue
		}

		archivedID, err := p.apply(rec.ID, dec, now())
		if err != nil {
			logger.Error("archival failed", "id", rec.ID, "error", err)
			fmt.Fprintf(out, "Failed: %v\n", err)
			sum.Failed++
			continue
		}

		if dec.archive {
			if archivedID != rec.ID {
				logger.Info("archive collision, renamed", "id", rec.ID, "archived_as", archivedID)
			}
			fmt.Fprintf(out, "Archived: %s\n", archivedID)
			sum.Archived++
		} else {
			fmt.Fprintln(out, "Changes saved (not archived).")
			sum.Saved++
		}
	}
	return sum, nil
}

// ask collects the per-record answers without mutating anything.
func (p *Processor) ask(rec *article.Record) (decision, bool, error) {
	var dec decision

	skip, err := p.Prompts.Confirm("[1/4] Skip this article? (y to skip, Enter to continue)")
	if err != nil {
		return dec, false, err
	}
	if skip {
		return dec, true, nil
	}

	dec.liked, err = p.Prompts.Confirm("[2/4] Like this article? (y/n, Enter for no)")
	if err != nil {
		return dec, false, err
	}

	dec.notes, err = p.Prompts.Input("[3/4] Quick notes (or Enter to skip)")
	if err != nil {
		return dec, false, err
	}

	dec.archive, err = p.Prompts.Confirm("[4/4] Archive this article? (y/n, Enter for no)")
	if err != nil {
		return dec, false, err
	}
	return dec, false, nil
}

// maxArchiveSuffix bounds collision renames; more than a handful of
// copies of the same filename means something else is wrong.
const maxArchiveSuffix = 100

// apply replays the decision onto a freshly loaded record and, when
// archiving, relocates it. It returns the id the record was archived
// under, which differs from id when the archive already held that name.
// A record already marked read (a relocate that failed last run) is not
// re-marked; its read date stands.
func (p *Processor) apply(id string, dec decision, now time.Time) (string, error) {
	err := p.Store.Update(store.Pending, id, func(r *article.Record) error {
		if dec.liked {
			lifecycle.SetLiked(r)
		}
		lifecycle.AppendNotes(r, dec.notes)
		if dec.archive && lifecycle.StateOf(r) != lifecycle.StateRead {
			return lifecycle.MarkRead(r, now)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	if !dec.archive {
		return "", nil
	}

	err = p.Store.Relocate(id, store.Pending, store.Archived)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, store.ErrConflict) {
		return "", err
	}

	// The archive already holds this name. Retry under suffixed ids, as
	// when the same article lands in the inbox twice.
	for n := 1; n <= maxArchiveSuffix; n++ {
		newID := suffixedID(id, n)
		err := p.Store.RelocateAs(id, newID, store.Pending, store.Archived)
		if err == nil {
			return newID, nil
		}
		if !errors.Is(err, store.ErrConflict) {
			return "", err
		}
	}
	return "", fmt.Errorf("archive already has %s and %d suffixed variants: %w", id, maxArchiveSuffix, store.ErrConflict)
}

// suffixedID inserts _n before the .md extension.
func suffixedID(id string, n int) string {
	return fmt.Sprintf("%s_%d.md", strings.TrimSuffix(id, ".md"), n)
}
