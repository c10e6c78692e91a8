package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vkatariya/readstack/internal/article"
	"github.com/vkatariya/readstack/internal/bundle"
	"github.com/vkatariya/readstack/internal/prompt"
	"github.com/vkatariya/readstack/internal/selection"
)

var (
	bundleAuto   bool
	bundleNewest bool
	bundleWords  int
)

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Bundle unsent articles into an epub and send to Kindle",
	Long: `Bundle selects unsent articles from the inbox, converts them into a
single epub via pandoc, mails it to your Kindle via calibre-smtp, and
marks the articles as sent.

Without --auto an interactive picker runs over the oldest-first article
list. With --auto the oldest articles are accumulated until the word
budget is reached.

Examples:
  readstack bundle
  readstack bundle --auto
  readstack bundle --auto --newest --words 15000`,
	Args: cobra.NoArgs,
	RunE: runBundle,
}

func init() {
	bundleCmd.Flags().BoolVar(&bundleAuto, "auto", false, "select articles automatically against the word budget")
	bundleCmd.Flags().BoolVar(&bundleNewest, "newest", false, "with --auto, prefer newest articles instead of oldest")
	bundleCmd.Flags().IntVar(&bundleWords, "words", 0, "override the target word budget")
}

func runBundle(cmd *cobra.Command, args []string) error {
	if bundleNewest && !bundleAuto {
		return fmt.Errorf("--newest only applies to --auto selection")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	cands, err := selection.Candidates(st)
	if errors.Is(err, selection.ErrEmptySelection) {
		fmt.Println("No unsent articles in the inbox. Nothing to do.")
		return nil
	}
	if err != nil {
		return err
	}

	budget := cfg.TargetWords
	if bundleWords > 0 {
		budget = bundleWords
	}

	selected, err := pickArticles(cands, budget)
	if errors.Is(err, selection.ErrSelectionCancelled) {
		fmt.Println("Cancelled.")
		return nil
	}
	if err != nil {
		return err
	}

	// Surface configuration problems before any collaborator runs.
	if err := cfg.ValidateDelivery(); err != nil {
		return err
	}

	fmt.Printf("\nBundling %d articles (%d words)...\n", len(selected), selection.TotalWords(selected))

	exp := &bundle.Exporter{
		Store:     st,
		Converter: bundle.Pandoc{},
		Sender: bundle.CalibreSMTP{
			Relay:    cfg.SMTPRelay,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.FromAddr,
			To:       cfg.KindleAddr,
		},
		Logger: logger,
	}

	res, err := exp.Export(context.Background(), selected, cfg.OutputDir)
	if err != nil {
		return err
	}

	fmt.Println(successStyle.Render("Sent: " + res.Artifact))
	fmt.Printf("Marked %d article(s) as sent-to-kindle.\n", len(res.Marked))

	if len(res.Unmarked) > 0 {
		fmt.Println(errorStyle.Render("Delivered, but some articles could not be marked sent:"))
		for _, u := range res.Unmarked {
			fmt.Printf("  %s: %v\n", u.ID, u.Err)
		}
		fmt.Println(hintStyle.Render("Set sent-to-kindle: yes by hand before the next bundle, or they will be re-sent."))
		return fmt.Errorf("%d article(s) need manual reconciliation", len(res.Unmarked))
	}
	return nil
}

func pickArticles(cands []*article.Record, budget int) ([]*article.Record, error) {
	if bundleAuto {
		if bundleNewest {
			selection.Reverse(cands)
		}
		selected := selection.Auto(cands, budget)
		for _, rec := range selected {
			fmt.Printf("  Added: %s (%d words)\n", rec.Title(), rec.WordCount())
		}
		return selected, nil
	}

	if !stdinIsTerminal() {
		return nil, fmt.Errorf("interactive selection requires a terminal; use --auto")
	}
	p := prompt.NewTerminal(os.Stdin, os.Stdout)
	return selection.Interactive(cands, budget, p, os.Stdout)
}
