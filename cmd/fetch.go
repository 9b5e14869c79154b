package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/olgasafonova/wikifetch/metrics"
	"github.com/olgasafonova/wikifetch/wiki"
	"github.com/olgasafonova/wikifetch/wikitext"
)

var (
	flagSummary  bool
	flagMarkdown bool
	flagRaw      bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <base-url> <query>",
	Short: "Search a wiki and print its best-matching page",
	Long: `Fetch searches the wiki for the query, retrieves the best match, and
prints the rendered page followed by its URL. The base URL may be the wiki's
api.php endpoint or any page on the wiki; the endpoint is discovered
automatically.

Examples:
  wikifetch fetch en.wikipedia.org "apple pie"
  wikifetch fetch https://terraria.wiki.gg/api.php Zenith --summary
  wikifetch fetch en.wikipedia.org "Go (programming language)" -m -s`,
	Args: cobra.ExactArgs(2),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().BoolVarP(&flagSummary, "summary", "s", false, "Only print the text before the first heading")
	fetchCmd.Flags().BoolVarP(&flagMarkdown, "markdown", "m", false, "Render to Markdown instead of plain text")
	fetchCmd.Flags().BoolVarP(&flagRaw, "raw", "r", false, "Print raw wikitext without rendering")
}

func runFetch(cmd *cobra.Command, args []string) error {
	baseURL, query := args[0], args[1]
	logger := newLogger()
	ctx := cmd.Context()

	config, err := wiki.LoadConfig(baseURL)
	if err != nil {
		return err
	}
	client := wiki.NewClient(config, logger)
	if err := client.Init(ctx); err != nil {
		return err
	}

	titles, err := client.Search(ctx, query)
	if err != nil {
		return err
	}
	page, err := client.FetchPage(ctx, titles[0])
	if err != nil {
		return err
	}

	if flagRaw {
		fmt.Fprintln(os.Stdout, page.Wikitext)
		return nil
	}

	text, err := renderWikitext(page.Wikitext, flagMarkdown, flagSummary, client.BaseURL(), logger)
	if err != nil {
		return fmt.Errorf("rendering %q: %w", page.Title, err)
	}

	fmt.Fprintln(os.Stdout, text)
	fmt.Fprintln(os.Stdout)
	fmt.Fprintln(os.Stdout, page.URL)
	return nil
}

// renderWikitext renders source and records the render duration.
func renderWikitext(source string, markdown, summary bool, baseURL string, logger *slog.Logger) (string, error) {
	format := wikitext.PlainText
	if markdown {
		format = wikitext.Markdown
	}
	renderer := wikitext.NewRenderer(format, baseURL, logger)

	start := time.Now()
	text, err := renderer.RenderWikitext(source, summary)
	metrics.RecordRender(format.String(), time.Since(start).Seconds())
	return text, err
}
