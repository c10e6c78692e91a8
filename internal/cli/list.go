package cli

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/vkatariya/readstack/internal/lifecycle"
	"github.com/vkatariya/readstack/internal/store"
)

var listArchived bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List articles in the inbox or archive",
	Long: `List shows the articles of one collection, oldest first, with their
word counts and lifecycle state.

Examples:
  readstack list
  readstack list --archived`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listArchived, "archived", false, "list the archive instead of the inbox")
}

func runList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	col := store.Pending
	if listArchived {
		col = store.Archived
	}

	recs, err := st.List(col, nil)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Printf("No articles in %s.\n", col)
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Words", "Created", "State", "Title"})
	for _, rec := range recs {
		t.AppendRow(table.Row{rec.ID, rec.WordCount(), rec.DisplayDate(), lifecycle.StateOf(rec).String(), rec.Title()})
	}
	t.Render()

	fmt.Printf("%d article(s) in %s.\n", len(recs), col)
	return nil
}
