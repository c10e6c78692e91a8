package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vkatariya/readstack/internal/archive"
	"github.com/vkatariya/readstack/internal/prompt"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Review sent articles and archive the finished ones",
	Long: `Process walks every inbox article already sent to the Kindle, oldest
first, and asks for your feedback: skip it for now, like it, jot quick
notes, and finally archive it. Archived articles are marked read and
moved to the archive directory; skipped ones reappear next run.`,
	Args: cobra.NoArgs,
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	if !stdinIsTerminal() {
		return fmt.Errorf("process is interactive and requires a terminal")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	proc := &archive.Processor{
		Store:   st,
		Prompts: prompt.NewTerminal(os.Stdin, os.Stdout),
		Logger:  logger,
		Out:     os.Stdout,
		Now:     time.Now,
	}

	sum, err := proc.Run(context.Background())
	if err != nil {
		return err
	}

	if sum.Processed == 0 {
		fmt.Println("No sent articles waiting for review. Nothing to do.")
		return nil
	}

	fmt.Println()
	fmt.Println(successStyle.Render(fmt.Sprintf("Processed %d article(s): %d archived, %d saved, %d skipped.",
		sum.Processed, sum.Archived, sum.Saved, sum.Skipped)))
	if sum.Failed > 0 {
		fmt.Println(errorStyle.Render(fmt.Sprintf("%d article(s) failed; see the log for details.", sum.Failed)))
	}
	return nil
}
