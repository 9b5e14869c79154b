package wikitext

import "strings"

// removedTags are stripped wholesale: neither the tag nor its contents
// appear in rendered output, in any format.
var removedTags = map[string]bool{
	"gallery": true,
	"ref":     true,
}

// plainHandlers is the base handler table. It renders plain text and is
// the fallback for every format. Populated in init to break the
// initialization cycle with dispatch.
var plainHandlers map[Kind]handlerFunc

func init() {
	plainHandlers = map[Kind]handlerFunc{
		KindContainer:    renderContainer,
		KindText:         renderText,
		KindTag:          renderTagPlain,
		KindWikilink:     renderWikilinkPlain,
		KindExternalLink: renderExternalLink,
		KindHeading:      renderHeading,
	}
}

func renderContainer(r *Renderer, st *renderState, n Node) {
	for _, child := range n.(*Container).Nodes {
		r.dispatch(st, child)
	}
}

func renderText(r *Renderer, st *renderState, n Node) {
	st.out.WriteString(n.(*Text).Value)
}

// renderTagPlain drops tag markup, keeping only the contents. Removed
// tags lose their contents too. The list tracker is fed before the
// removal check.
func renderTagPlain(r *Renderer, st *renderState, n Node) {
	tag := n.(*Tag)
	if tag.Name == "li" {
		st.listLevel++
	}
	if removedTags[tag.Name] {
		return
	}
	if tag.Contents != nil {
		r.dispatch(st, tag.Contents)
	}
}

// renderWikilinkPlain emits the display text of an internal link, or the
// target title when none is set. File embeds and category links are
// invisible in plain text.
func renderWikilinkPlain(r *Renderer, st *renderState, n Node) {
	link := n.(*Wikilink)
	if strings.HasPrefix(link.Title, "File:") || strings.HasPrefix(link.Title, "Category:") {
		return
	}
	if link.Text != nil {
		r.dispatch(st, link.Text)
		return
	}
	st.out.WriteString(link.Title)
}

// renderExternalLink emits the display text, or the bare URL when none is
// set. Identical in every format.
func renderExternalLink(r *Renderer, st *renderState, n Node) {
	link := n.(*ExternalLink)
	if link.Text != nil {
		r.dispatch(st, link.Text)
		return
	}
	st.out.WriteString(link.URL)
}

// renderHeading emits Markdown-style hashes in every format; the heading
// title is trimmed for cleaner output. Level is not clamped.
func renderHeading(r *Renderer, st *renderState, n Node) {
	h := n.(*Heading)
	st.out.WriteString(strings.Repeat("#", h.Level))
	st.out.WriteString(" ")
	st.out.WriteString(strings.TrimSpace(r.capture(st, h.Title)))
}
