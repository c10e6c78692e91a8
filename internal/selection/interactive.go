package selection

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/vkatariya/readstack/internal/article"
	"github.com/vkatariya/readstack/internal/prompt"
)

const titleWidth = 50

// Interactive presents the numbered candidate list and runs an
// add/remove loop until the user finishes or quits. The returned
// selection keeps the candidates' original relative order.
//
// Commands: space-separated numbers add, "r <numbers>" removes,
// "done" finishes (at least one article required), "quit" cancels.
func Interactive(cands []*article.Record, budget int, p prompt.Prompter, w io.Writer) ([]*article.Record, error) {
	renderCandidates(cands, budget, w)

	fmt.Fprintln(w, "Enter numbers to add (e.g. '1 3 5'), 'r <numbers>' to remove,")
	fmt.Fprintln(w, "'done' to finish, 'quit' to cancel.")

	picked := make(map[int]bool)
	for {
		showProgress(cands, picked, budget, w)

		input, err := p.Input("Selection")
		if err != nil {
			return nil, err
		}
		input = strings.ToLower(strings.TrimSpace(input))

		switch {
		case input == "quit":
			return nil, ErrSelectionCancelled

		case input == "done":
			if len(picked) == 0 {
				fmt.Fprintln(w, "No articles selected yet; pick at least one or 'quit'.")
				continue
			}
			return collect(cands, picked), nil

		case strings.HasPrefix(input, "r "):
			indices, err := parseIndices(input[2:], len(cands))
			if err != nil {
				fmt.Fprintln(w, err)
				continue
			}
			for _, idx := range indices {
				if !picked[idx] {
					fmt.Fprintf(w, "Article %d was not selected.\n", idx+1)
					continue
				}
				delete(picked, idx)
				fmt.Fprintf(w, "Removed: %s (%d words)\n", cands[idx].Title(), cands[idx].WordCount())
			}

		default:
			indices, err := parseIndices(input, len(cands))
			if err != nil {
				fmt.Fprintln(w, err)
				continue
			}
			for _, idx := range indices {
				if picked[idx] {
					fmt.Fprintf(w, "Article %d already selected.\n", idx+1)
					continue
				}
				picked[idx] = true
				fmt.Fprintf(w, "Added: %s (%d words)\n", cands[idx].Title(), cands[idx].WordCount())
			}
		}
	}
}

func renderCandidates(cands []*article.Record, budget int, w io.Writer) {
	fmt.Fprintf(w, "\nBundle selection: target %d words (band %d-%d)\n", budget, budget*9/10, budget*11/10)
	fmt.Fprintf(w, "Available articles: %d\n\n", len(cands))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Words", "Date", "Title"})
	for i, rec := range cands {
		t.AppendRow(table.Row{i + 1, rec.WordCount(), rec.DisplayDate(), truncate(rec.Title(), titleWidth)})
	}
	t.Render()
	fmt.Fprintln(w)
}

func showProgress(cands []*article.Record, picked map[int]bool, budget int, w io.Writer) {
	if len(picked) == 0 {
		fmt.Fprintln(w, "\nNo articles selected yet.")
		return
	}

	total := TotalWords(collect(cands, picked))
	fmt.Fprintf(w, "\nSelected: %d articles, %d words (%.1f%% of target)\n",
		len(picked), total, float64(total)/float64(budget)*100)

	switch {
	case total < budget*9/10:
		fmt.Fprintln(w, "Below target band; consider adding more.")
	case total > budget*11/10:
		fmt.Fprintln(w, "Above target band; consider removing some.")
	default:
		fmt.Fprintln(w, "Within target band.")
	}
}

// collect returns the picked records in original candidate order.
func collect(cands []*article.Record, picked map[int]bool) []*article.Record {
	var out []*article.Record
	for i, rec := range cands {
		if picked[i] {
			out = append(out, rec)
		}
	}
	return out
}

// parseIndices converts 1-based user input into 0-based indices.
func parseIndices(input string, max int) ([]int, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil, fmt.Errorf("enter article numbers, 'done' or 'quit'")
	}

	var out []int
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid input %q: enter article numbers", f)
		}
		if n < 1 || n > max {
			return nil, fmt.Errorf("invalid article number %d (have 1-%d)", n, max)
		}
		out = append(out, n-1)
	}
	return out, nil
}

// truncate shortens s to width runes; byte slicing would split
// multi-byte characters in non-ASCII titles.
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
