// Package cli provides the command-line interface for readstack.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vkatariya/readstack/internal/config"
	"github.com/vkatariya/readstack/internal/store"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config and logger
	cfg        config.Config
	logger     *slog.Logger
	logCleanup func() error
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "readstack",
	Short: "Personal reading pipeline for Kindle",
	Long: `Readstack manages a personal reading pipeline: markdown articles move
from an inbox, through a bundled epub sent to your Kindle, to an archive
enriched with your feedback.

Articles are plain files with YAML frontmatter; readstack never needs a
database. Document conversion is delegated to pandoc and delivery to
calibre-smtp.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}
		logger, logCleanup = config.SetupLogger(cfg.LogFile, level)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCleanup != nil {
			if err := logCleanup(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
}

// openStore opens the directory store over the configured collections.
// The caller owns the advisory lock and must Close.
func openStore() (*store.Dir, error) {
	st, err := store.OpenDir(cfg.InboxDir, cfg.ArchiveDir, logger)
	if err != nil {
		return nil, fmt.Errorf("open article store: %w", err)
	}
	return st, nil
}

// stdinIsTerminal reports whether the interactive flows have a user to
// talk to.
func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(bundleCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(listCmd)
}
