package wikitext

import (
	"strings"
)

// Parse converts raw wikitext into a document tree. The parser is
// deliberately tolerant: anything it cannot make sense of stays in the
// output as literal text, so plain prose round-trips unchanged.
func Parse(source string) *Container {
	doc := &Container{}
	p := &parser{src: source}
	for p.pos < len(p.src) {
		if p.atLineStart() {
			if h, consumed := p.heading(); h != nil {
				doc.append(h)
				p.pos += consumed
				continue
			}
			if p.listMarkers(doc) {
				continue
			}
		}
		p.parseInline(doc)
	}
	return doc
}

// parseFragment parses markup that is already known to be inline content:
// link display text, tag contents, heading titles.
func parseFragment(src string) *Container {
	dst := &Container{}
	p := &parser{src: src}
	for p.pos < len(p.src) {
		p.parseInline(dst)
	}
	return dst
}

type parser struct {
	src string
	pos int
}

func (p *parser) atLineStart() bool {
	return p.pos == 0 || p.src[p.pos-1] == '\n'
}

// currentLine returns the text from pos up to (not including) the next
// newline.
func (p *parser) currentLine() string {
	if i := strings.IndexByte(p.src[p.pos:], '\n'); i >= 0 {
		return p.src[p.pos : p.pos+i]
	}
	return p.src[p.pos:]
}

// heading matches a whole line of the form "== Title ==" with equal-length
// marker runs. It returns the node and the number of bytes to consume (the
// line without its newline), or nil when the line is not a heading.
func (p *parser) heading() (*Heading, int) {
	line := p.currentLine()
	t := strings.TrimRight(line, " \t")
	lead := 0
	for lead < len(t) && t[lead] == '=' {
		lead++
	}
	if lead == 0 {
		return nil, 0
	}
	trail := 0
	for trail < len(t)-lead && t[len(t)-1-trail] == '=' {
		trail++
	}
	if trail != lead || len(t) <= lead+trail {
		return nil, 0
	}
	title := t[lead : len(t)-trail]
	return &Heading{Level: lead, Title: parseFragment(title)}, len(line)
}

// listMarkers consumes a leading run of list marker characters, emitting
// one marker tag per character. Consecutive markers approximate nesting;
// the renderer's list tracker counts them.
func (p *parser) listMarkers(dst *Container) bool {
	start := p.pos
	for p.pos < len(p.src) {
		name := ""
		switch p.src[p.pos] {
		case '*', '#':
			name = "li"
		case ';':
			name = "dt"
		case ':':
			name = "dd"
		}
		if name == "" {
			break
		}
		dst.append(&Tag{Name: name, WikiMarkup: true, SelfClosing: true})
		p.pos++
	}
	return p.pos > start
}

// inlineSpecial holds the bytes that interrupt a literal text run.
const inlineSpecial = "\n'<[{"

// parseInline scans inline markup into dst, consuming input up to and
// including the next newline at this nesting level. Emphasis built from
// apostrophe runs never crosses a line boundary; unclosed emphasis is
// closed implicitly at the newline.
func (p *parser) parseInline(dst *Container) {
	var frames []*Tag

	cur := func() *Container {
		if len(frames) > 0 {
			return frames[len(frames)-1].Contents
		}
		return dst
	}
	emit := func(s string) {
		if s != "" {
			cur().append(&Text{Value: s})
		}
	}
	isOpen := func(name string) bool {
		for _, f := range frames {
			if f.Name == name {
				return true
			}
		}
		return false
	}
	open := func(name string) {
		t := &Tag{Name: name, WikiMarkup: true, Contents: &Container{}}
		cur().append(t)
		frames = append(frames, t)
	}
	// close pops frames until the named one is gone. Frames above it are
	// closed too; wikitext in the wild rarely interleaves that deeply.
	closeEm := func(name string) {
		for len(frames) > 0 {
			top := frames[len(frames)-1]
			frames = frames[:len(frames)-1]
			if top.Name == name {
				return
			}
		}
	}
	toggle := func(name string) {
		if isOpen(name) {
			closeEm(name)
		} else {
			open(name)
		}
	}

	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '\n':
			p.pos++
			frames = frames[:0]
			dst.append(&Text{Value: "\n"})
			return

		case c == '\'':
			run := p.takeRun('\'')
			switch run {
			case 1:
				emit("'")
			case 2:
				toggle("i")
			case 3:
				toggle("b")
			case 4:
				emit("'")
				toggle("b")
			default:
				// Five apostrophes toggle both; extras are literal.
				emit(strings.Repeat("'", run-5))
				iOpen, bOpen := isOpen("i"), isOpen("b")
				switch {
				case iOpen && bOpen:
					frames = frames[:0]
				case iOpen:
					closeEm("i")
					open("b")
				case bOpen:
					closeEm("b")
					open("i")
				default:
					open("b")
					open("i")
				}
			}

		case c == '<':
			if n, consumed := p.angle(); n != nil {
				cur().append(n)
				p.pos += consumed
			} else {
				emit("<")
				p.pos++
			}

		case c == '{' && p.hasPrefix("{{"):
			if n, consumed := p.template(); n != nil {
				cur().append(n)
				p.pos += consumed
			} else {
				emit("{")
				p.pos++
			}

		case c == '[' && p.hasPrefix("[["):
			if n, consumed := p.wikilink(); n != nil {
				cur().append(n)
				p.pos += consumed
			} else {
				emit("[")
				p.pos++
			}

		case c == '[':
			if n, consumed := p.externalLink(); n != nil {
				cur().append(n)
				p.pos += consumed
			} else {
				emit("[")
				p.pos++
			}

		default:
			end := p.pos + 1
			for end < len(p.src) && strings.IndexByte(inlineSpecial, p.src[end]) < 0 {
				end++
			}
			emit(p.src[p.pos:end])
			p.pos = end
		}
	}
}

func (p *parser) hasPrefix(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

func (p *parser) takeRun(c byte) int {
	n := 0
	for p.pos+n < len(p.src) && p.src[p.pos+n] == c {
		n++
	}
	p.pos += n
	return n
}

// angle parses a construct starting with '<': an HTML comment or an
// HTML-style tag. Returns (nil, 0) when the input is not one of those, in
// which case the '<' stays literal.
func (p *parser) angle() (Node, int) {
	rest := p.src[p.pos:]
	if strings.HasPrefix(rest, "<!--") {
		end := strings.Index(rest[4:], "-->")
		if end < 0 {
			return nil, 0
		}
		return &Comment{Text: rest[4 : 4+end]}, 4 + end + 3
	}

	gt := strings.IndexByte(rest, '>')
	if gt < 0 {
		return nil, 0
	}
	inner := rest[1:gt]
	selfClosing := strings.HasSuffix(inner, "/")
	if selfClosing {
		inner = strings.TrimRight(inner[:len(inner)-1], " \t")
	}
	name := inner
	if i := strings.IndexAny(inner, " \t"); i >= 0 {
		name = inner[:i]
	}
	if !isTagName(name) {
		return nil, 0
	}
	name = strings.ToLower(name)

	if selfClosing {
		return &Tag{Name: name, SelfClosing: true}, gt + 1
	}

	body, total := matchCloseTag(rest[gt+1:], name)
	if total < 0 {
		return nil, 0
	}
	return &Tag{Name: name, Contents: parseFragment(body)}, gt + 1 + total
}

// matchCloseTag finds the matching </name> in src, honoring nested tags of
// the same name. It returns the body before the close tag and the number
// of bytes consumed including the close tag, or ("", -1) when unmatched.
func matchCloseTag(src, name string) (string, int) {
	lower := strings.ToLower(src)
	openPrefix := "<" + name
	closeTag := "</" + name + ">"
	depth := 1
	i := 0
	for i < len(lower) {
		if strings.HasPrefix(lower[i:], closeTag) {
			depth--
			if depth == 0 {
				return src[:i], i + len(closeTag)
			}
			i += len(closeTag)
			continue
		}
		if strings.HasPrefix(lower[i:], openPrefix) {
			after := i + len(openPrefix)
			if after < len(lower) && (lower[after] == '>' || lower[after] == ' ' || lower[after] == '\t') {
				depth++
				i = after
				continue
			}
		}
		i++
	}
	return "", -1
}

func isTagName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// template parses {{...}} with nesting, keeping the raw inner markup.
func (p *parser) template() (Node, int) {
	rest := p.src[p.pos:]
	depth := 0
	i := 0
	for i < len(rest) {
		switch {
		case strings.HasPrefix(rest[i:], "{{"):
			depth++
			i += 2
		case strings.HasPrefix(rest[i:], "}}"):
			depth--
			if depth == 0 {
				return &Template{Raw: rest[2:i]}, i + 2
			}
			i += 2
		default:
			i++
		}
	}
	return nil, 0
}

// wikilink parses [[Title]] or [[Title|display text]]. Display text keeps
// every pipe after the first, which matches how image options are carried.
func (p *parser) wikilink() (Node, int) {
	rest := p.src[p.pos:]
	depth := 0
	i := 0
	end := -1
	for i < len(rest) {
		switch {
		case strings.HasPrefix(rest[i:], "[["):
			depth++
			i += 2
		case strings.HasPrefix(rest[i:], "]]"):
			depth--
			if depth == 0 {
				end = i
			}
			i += 2
		default:
			i++
		}
		if end >= 0 {
			break
		}
	}
	if end < 0 {
		return nil, 0
	}
	inner := rest[2:end]
	link := &Wikilink{Title: inner}
	if pipe := strings.IndexByte(inner, '|'); pipe >= 0 {
		link.Title = inner[:pipe]
		link.Text = parseFragment(inner[pipe+1:])
	}
	return link, end + 2
}

// urlSchemes are the link prefixes that make a single bracket an external
// link rather than literal text.
var urlSchemes = []string{
	"http://", "https://", "ftp://", "ftps://",
	"irc://", "ircs://", "news:", "mailto:", "//",
}

func (p *parser) externalLink() (Node, int) {
	rest := p.src[p.pos:]
	inner := rest[1:]
	end := strings.IndexByte(inner, ']')
	if end < 0 {
		return nil, 0
	}
	content := inner[:end]
	if strings.ContainsAny(content, "\n") {
		return nil, 0
	}
	lower := strings.ToLower(content)
	scheme := false
	for _, s := range urlSchemes {
		if strings.HasPrefix(lower, s) {
			scheme = true
			break
		}
	}
	if !scheme {
		return nil, 0
	}
	link := &ExternalLink{URL: content}
	if sp := strings.IndexAny(content, " \t"); sp >= 0 {
		link.URL = content[:sp]
		display := strings.TrimLeft(content[sp+1:], " \t")
		if display != "" {
			link.Text = parseFragment(display)
		}
	}
	return link, 1 + end + 1
}
