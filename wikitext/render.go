package wikitext

import (
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
)

// Format selects the output format of a Renderer.
type Format int

const (
	PlainText Format = iota
	Markdown
)

func (f Format) String() string {
	if f == Markdown {
		return "markdown"
	}
	return "plaintext"
}

// Renderer converts a parsed wikitext tree into a single output string.
//
// A Renderer itself holds no per-document state and is safe for concurrent
// use; every Render call owns its own traversal state. BaseURL is the
// wiki's page-view root used to build links and image references in
// Markdown output. When empty, links degrade to their display text and
// images to nothing.
type Renderer struct {
	Format  Format
	BaseURL string

	logger *slog.Logger
}

// NewRenderer creates a renderer for the given format. A nil logger falls
// back to slog.Default.
func NewRenderer(format Format, baseURL string, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{Format: format, BaseURL: baseURL, logger: logger}
}

// renderState is the mutable per-traversal state: the list tracker, the
// output buffer, and a deferred URL-construction error.
type renderState struct {
	listLevel int
	out       *strings.Builder
	err       error
}

// handlerFunc renders one node into the traversal state.
type handlerFunc func(*Renderer, *renderState, Node)

// Render walks the document depth-first and returns the finished string.
//
// In summary mode traversal stops entirely at the first top-level heading,
// so only the introduction paragraphs are rendered. The returned error is
// non-nil only when link construction failed on a malformed base URL.
func (r *Renderer) Render(doc *Container, summary bool) (string, error) {
	st := &renderState{out: &strings.Builder{}}
	for _, n := range doc.Nodes {
		if summary && n.Kind() == KindHeading {
			break
		}
		r.observe(st, n)
		r.dispatch(st, n)
		if st.err != nil {
			return "", st.err
		}
	}
	if st.listLevel > 0 {
		st.out.WriteString(listMarker(st.listLevel))
		st.listLevel = 0
	}
	return postProcess(st.out.String()), nil
}

// RenderWikitext parses raw wikitext and renders it in one step.
func (r *Renderer) RenderWikitext(source string, summary bool) (string, error) {
	return r.Render(Parse(source), summary)
}

// observe flushes the accumulated list marker when a contiguous run of
// list item tags ends. Exactly one marker is emitted per run.
func (r *Renderer) observe(st *renderState, n Node) {
	if st.listLevel == 0 {
		return
	}
	if tag, ok := n.(*Tag); ok && tag.Name == "li" {
		return
	}
	r.logger.Debug("ending list", "level", st.listLevel)
	st.out.WriteString(listMarker(st.listLevel))
	st.listLevel = 0
}

// listMarker renders a single bullet for a run of list items, indented by
// the approximate nesting depth. Source markup encodes deeper nesting as
// repeated adjacent markers, which the tracker counts but does not
// structurally nest.
func listMarker(level int) string {
	return strings.Repeat("  ", level-1) + "*"
}

// dispatch routes a node to its handler. The per-format override table is
// consulted first, then the plain-text base table. Kinds with no entry in
// either table are skipped so that node kinds this renderer does not model
// yet stay invisible instead of failing.
func (r *Renderer) dispatch(st *renderState, n Node) {
	if st.err != nil || n == nil {
		return
	}
	if r.Format == Markdown {
		if h, ok := markdownHandlers[n.Kind()]; ok {
			h(r, st, n)
			return
		}
	}
	if h, ok := plainHandlers[n.Kind()]; ok {
		h(r, st, n)
		return
	}
	r.logger.Debug("skipping unsupported node", "kind", int(n.Kind()))
}

// capture renders a node into a side buffer, sharing the traversal state,
// and returns the produced string. Used where a handler needs the rendered
// text before deciding how to wrap it.
func (r *Renderer) capture(st *renderState, n Node) string {
	prev := st.out
	var buf strings.Builder
	st.out = &buf
	r.dispatch(st, n)
	st.out = prev
	return buf.String()
}

// PageURL builds the page-view URL for a title by resolving
// "index.php?title=<title>" against the wiki base URL. The title is
// query-encoded, so spaces become '+'.
func PageURL(baseURL, title string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL %q: %w", baseURL, err)
	}
	q := url.Values{}
	q.Set("title", title)
	return base.ResolveReference(&url.URL{Path: "index.php", RawQuery: q.Encode()}).String(), nil
}

// blankRunRegex matches a whitespace run containing at least two newlines
// plus trailing whitespace. Dropped invisible nodes (categories, templates,
// comments) leave such runs behind.
var blankRunRegex = regexp.MustCompile(`\s+?\n\s+?\n\s+`)

// postProcess bounds the blank space left by dropped nodes and trims the
// final result.
func postProcess(s string) string {
	return strings.TrimSpace(blankRunRegex.ReplaceAllString(s, "\n\n"))
}
