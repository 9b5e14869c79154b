// Package cmd implements the CLI commands for wikifetch using Cobra.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var flagVerbose bool

var rootCmd = &cobra.Command{
	Use:   "wikifetch",
	Short: "wikifetch — fetch and render pages from MediaWiki wikis",
	Long: `wikifetch searches any MediaWiki-powered wiki (Wikipedia, Fandom, wiki.gg,
self-hosted) and renders page wikitext as plain text or Markdown.

Usage:
  wikifetch fetch <base-url> <query> [flags]
  wikifetch render [flags] < page.wikitext
  wikifetch serve <base-url> [flags]`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

// newLogger builds the process logger on stderr, keeping stdout clean for
// rendered output.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}
