package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"runtime/debug"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/olgasafonova/wikifetch/tracing"
	"github.com/olgasafonova/wikifetch/wiki"
)

const (
	serverName    = "wikifetch"
	serverVersion = "1.0.0"
)

var flagMetricsAddr string

var serveCmd = &cobra.Command{
	Use:   "serve <base-url>",
	Short: "Run an MCP server for the wiki on stdio",
	Long: `Serve runs a Model Context Protocol server on stdio, exposing search,
page fetching, and wikitext rendering as tools for the given wiki.

Examples:
  wikifetch serve en.wikipedia.org
  wikifetch serve https://terraria.wiki.gg/api.php --metrics-addr :9090`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "Address to serve Prometheus /metrics on (e.g. :9090)")
}

// recoverPanic wraps a tool handler with panic recovery and logs instead of
// crashing the server
func recoverPanic(logger *slog.Logger, operation string) {
	if r := recover(); r != nil {
		logger.Error("Panic recovered",
			"operation", operation,
			"panic", r,
			"stack", string(debug.Stack()))
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	// Log to stderr; stdout carries the MCP protocol.
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	ctx := cmd.Context()

	shutdown, err := tracing.Setup(ctx, tracing.DefaultConfig())
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	config, err := wiki.LoadConfig(args[0])
	if err != nil {
		return err
	}
	client := wiki.NewClient(config, logger)
	if err := client.Init(ctx); err != nil {
		return err
	}

	if flagMetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			logger.Info("Serving metrics", "addr", flagMetricsAddr)
			if err := http.ListenAndServe(flagMetricsAddr, mux); err != nil {
				logger.Error("Metrics server failed", "error", err)
			}
		}()
	}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, &mcp.ServerOptions{
		Logger: logger,
		Instructions: `wikifetch exposes a read-only MediaWiki client.

Available tools:
- wiki_search: Search for page titles matching a query
- wiki_fetch_page: Fetch a page's wikitext and canonical URL
- wiki_render: Render wikitext as plain text or Markdown`,
	})

	registerTools(server, client, logger)

	logger.Info("Starting MCP server",
		"name", serverName,
		"version", serverVersion,
		"wiki_url", client.BaseURL(),
	)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

type searchArgs struct {
	Query string `json:"query" jsonschema:"the search query"`
}

type searchResult struct {
	Titles []string `json:"titles"`
}

type fetchPageArgs struct {
	Title string `json:"title" jsonschema:"the page title to fetch"`
}

type fetchPageResult struct {
	Title    string `json:"title"`
	Wikitext string `json:"wikitext"`
	URL      string `json:"url"`
}

type renderArgs struct {
	Wikitext string `json:"wikitext" jsonschema:"the wikitext source to render"`
	Markdown bool   `json:"markdown,omitempty" jsonschema:"render to Markdown instead of plain text"`
	Summary  bool   `json:"summary,omitempty" jsonschema:"only render up to the first heading"`
}

type renderResult struct {
	Text string `json:"text"`
}

func registerTools(server *mcp.Server, client *wiki.Client, logger *slog.Logger) {
	// Search tool
	mcp.AddTool(server, &mcp.Tool{
		Name:        "wiki_search",
		Description: "Search the wiki for page titles matching a query, best match first.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Search Wiki",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr(true),
		},
	}, func(ctx context.Context, req *mcp.CallToolRequest, args searchArgs) (*mcp.CallToolResult, searchResult, error) {
		defer recoverPanic(logger, "wiki_search")
		ctx, span := tracing.StartSpan(ctx, "tool.wiki_search")
		defer span.End()
		tracing.AddToolAttributes(span, "wiki_search")

		titles, err := client.Search(ctx, args.Query)
		if err != nil {
			tracing.RecordError(span, err)
			return nil, searchResult{}, fmt.Errorf("search failed: %w", err)
		}
		logger.Info("Tool executed",
			"tool", "wiki_search",
			"query", args.Query,
			"results_count", len(titles),
		)
		return nil, searchResult{Titles: titles}, nil
	})

	// Fetch page tool
	mcp.AddTool(server, &mcp.Tool{
		Name:        "wiki_fetch_page",
		Description: "Fetch a page's raw wikitext and canonical URL, following redirects.",
		Annotations: &mcp.ToolAnnotations{
			Title:         "Fetch Page",
			ReadOnlyHint:  true,
			OpenWorldHint: ptr(true),
		},
	}, func(ctx context.Context, req *mcp.CallToolRequest, args fetchPageArgs) (*mcp.CallToolResult, fetchPageResult, error) {
		defer recoverPanic(logger, "wiki_fetch_page")
		ctx, span := tracing.StartSpan(ctx, "tool.wiki_fetch_page")
		defer span.End()
		tracing.AddToolAttributes(span, "wiki_fetch_page")

		page, err := client.FetchPage(ctx, args.Title)
		if err != nil {
			tracing.RecordError(span, err)
			return nil, fetchPageResult{}, fmt.Errorf("failed to fetch page: %w", err)
		}
		logger.Info("Tool executed",
			"tool", "wiki_fetch_page",
			"title", page.Title,
			"wikitext_chars", len(page.Wikitext),
		)
		return nil, fetchPageResult{
			Title:    page.Title,
			Wikitext: page.Wikitext,
			URL:      page.URL,
		}, nil
	})

	// Render tool
	mcp.AddTool(server, &mcp.Tool{
		Name:        "wiki_render",
		Description: "Render wikitext as plain text, or as Markdown when 'markdown' is set. Set 'summary' to stop at the first heading.",
		Annotations: &mcp.ToolAnnotations{
			Title:        "Render Wikitext",
			ReadOnlyHint: true,
		},
	}, func(ctx context.Context, req *mcp.CallToolRequest, args renderArgs) (*mcp.CallToolResult, renderResult, error) {
		defer recoverPanic(logger, "wiki_render")
		_, span := tracing.StartSpan(ctx, "tool.wiki_render")
		defer span.End()
		tracing.AddToolAttributes(span, "wiki_render")

		text, err := renderWikitext(args.Wikitext, args.Markdown, args.Summary, client.BaseURL(), logger)
		if err != nil {
			tracing.RecordError(span, err)
			return nil, renderResult{}, fmt.Errorf("failed to render wikitext: %w", err)
		}
		logger.Info("Tool executed",
			"tool", "wiki_render",
			"input_chars", len(args.Wikitext),
			"output_chars", len(text),
		)
		return nil, renderResult{Text: text}, nil
	})
}

func ptr[T any](v T) *T {
	return &v
}
