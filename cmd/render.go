package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagRenderSummary  bool
	flagRenderMarkdown bool
	flagRenderBaseURL  string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render wikitext from stdin",
	Long: `Render reads wikitext from standard input and prints it as plain text
(or Markdown with --markdown). Markdown link targets need --base-url; without
it wikilinks degrade to their display text and images are dropped.

Examples:
  wikifetch render < page.wikitext
  wikifetch fetch en.wikipedia.org Apple -r | wikifetch render --markdown --base-url https://en.wikipedia.org/w/api.php`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().BoolVar(&flagRenderSummary, "summary", false, "Only print the text before the first heading")
	renderCmd.Flags().BoolVar(&flagRenderMarkdown, "markdown", false, "Render to Markdown instead of plain text")
	renderCmd.Flags().StringVar(&flagRenderBaseURL, "base-url", "", "Wiki api.php URL used to build link targets in Markdown output")
}

func runRender(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	source, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	text, err := renderWikitext(string(source), flagRenderMarkdown, flagRenderSummary, flagRenderBaseURL, logger)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, text)
	return nil
}
