package cmd

import (
	"io"
	"log/slog"
	"testing"
)

func TestRenderWikitext(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name     string
		source   string
		markdown bool
		summary  bool
		baseURL  string
		want     string
	}{
		{
			name:   "plain text strips emphasis",
			source: "An '''apple''' is a fruit.",
			want:   "An apple is a fruit.",
		},
		{
			name:     "markdown keeps emphasis",
			source:   "An '''apple''' is a fruit.",
			markdown: true,
			want:     "An **apple** is a fruit.",
		},
		{
			name:     "markdown link with base URL",
			source:   "See [[Pear]].",
			markdown: true,
			baseURL:  "https://en.wikipedia.org/w/api.php",
			want:     "See [Pear](https://en.wikipedia.org/w/index.php?title=Pear).",
		},
		{
			name:    "summary stops at first heading",
			source:  "Intro text.\n== Details ==\nBody text.",
			summary: true,
			want:    "Intro text.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := renderWikitext(tt.source, tt.markdown, tt.summary, tt.baseURL, logger)
			if err != nil {
				t.Fatalf("renderWikitext failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("renderWikitext() = %q, want %q", got, tt.want)
			}
		})
	}
}
