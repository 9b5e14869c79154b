// Package wikitext parses MediaWiki markup into a node tree and renders
// that tree as plain text or Markdown.
//
// The node model mirrors what MediaWiki-style parsers produce: a flat
// document container whose children are text runs, tags, links, headings,
// templates, and comments. Nodes are immutable once built; the renderer
// never modifies them.
package wikitext

// Kind identifies a node variant for handler dispatch.
type Kind int

const (
	KindContainer Kind = iota
	KindText
	KindTag
	KindWikilink
	KindExternalLink
	KindHeading
	KindTemplate
	KindComment
)

// Node is one parsed unit of wikitext. New kinds may appear as the parser
// grows; renderers skip kinds they have no handler for.
type Node interface {
	Kind() Kind
}

// Container holds an ordered sequence of child nodes. The document root is
// a Container, as is every node's child list.
type Container struct {
	Nodes []Node
}

func (c *Container) Kind() Kind { return KindContainer }

// append adds a node, coalescing adjacent text runs so multi-line prose
// stays a single Text node.
func (c *Container) append(n Node) {
	if t, ok := n.(*Text); ok && len(c.Nodes) > 0 {
		if prev, ok := c.Nodes[len(c.Nodes)-1].(*Text); ok {
			prev.Value += t.Value
			return
		}
	}
	c.Nodes = append(c.Nodes, n)
}

// Text is a literal string run.
type Text struct {
	Value string
}

func (t *Text) Kind() Kind { return KindText }

// Tag is an HTML-style or wiki-shorthand element. Bold ('''), italic ('')
// and list markers (*, #) parse into tags with WikiMarkup set. List marker
// tags carry nil Contents; the renderer's list tracker counts them.
type Tag struct {
	Name        string
	Contents    *Container
	WikiMarkup  bool
	SelfClosing bool
}

func (t *Tag) Kind() Kind { return KindTag }

// Wikilink is an internal link [[Title|display]]. Text is nil when no
// display text was given. Title may carry a namespace prefix such as
// "File:" or "Category:".
type Wikilink struct {
	Title string
	Text  *Container
}

func (w *Wikilink) Kind() Kind { return KindWikilink }

// ExternalLink is a bracketed external link [url display]. Text is nil
// when no display text was given.
type ExternalLink struct {
	URL  string
	Text *Container
}

func (e *ExternalLink) Kind() Kind { return KindExternalLink }

// Heading is a section heading. Level is the length of the `=` run; it is
// expected to be 1-6 but the renderer does not clamp it.
type Heading struct {
	Level int
	Title *Container
}

func (h *Heading) Kind() Kind { return KindHeading }

// Template is an unexpanded transclusion {{...}}. The raw inner markup is
// kept for callers that want it; renderers emit nothing for templates.
type Template struct {
	Raw string
}

func (t *Template) Kind() Kind { return KindTemplate }

// Comment is an HTML comment <!-- ... -->. Invisible in rendered output.
type Comment struct {
	Text string
}

func (c *Comment) Kind() Kind { return KindComment }
