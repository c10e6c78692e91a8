// Package selection chooses which pending articles fill the next
// bundle, either automatically against a word budget or through an
// interactive picker.
package selection

import (
	"errors"
	"fmt"

	"github.com/vkatariya/readstack/internal/article"
	"github.com/vkatariya/readstack/internal/lifecycle"
	"github.com/vkatariya/readstack/internal/store"
)

// DefaultTargetWords is the bundle word budget when none is configured.
const DefaultTargetWords = 20000

var (
	// ErrEmptySelection indicates there are no unsent articles to
	// choose from. Reported to the caller, not fatal.
	ErrEmptySelection = errors.New("no unsent articles available")

	// ErrSelectionCancelled indicates the user quit the interactive
	// picker without selecting.
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Candidates returns the unsent pending records, oldest first.
func Candidates(st store.Store) ([]*article.Record, error) {
	recs, err := st.List(store.Pending, func(r *article.Record) bool {
		return lifecycle.StateOf(r) == lifecycle.StatePending
	})
	if err != nil {
		return nil, fmt.Errorf("list pending articles: %w", err)
	}
	if len(recs) == 0 {
		return nil, ErrEmptySelection
	}
	return recs, nil
}

// Reverse flips candidate order in place, for newest-first selection.
func Reverse(recs []*article.Record) {
	for i, j := 0, len(recs)-1; i < j; i, j = i+1, j-1 {
		recs[i], recs[j] = recs[j], recs[i]
	}
}

// Auto walks candidates in the given order, accumulating records while
// the running word total stays within budget. The first candidate is
// always included, even when it alone exceeds the budget: an empty
// bundle would break the export flow.
func Auto(cands []*article.Record, budget int) []*article.Record {
	var selected []*article.Record
	total := 0
	for _, rec := range cands {
		words := rec.WordCount()
		if len(selected) > 0 && total+words > budget {
			break
		}
		selected = append(selected, rec)
		total += words
	}
	return selected
}

// TotalWords sums the word counts of the given records.
func TotalWords(recs []*article.Record) int {
	total := 0
	for _, rec := range recs {
		total += rec.WordCount()
	}
	return total
}
