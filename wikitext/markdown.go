package wikitext

import "strings"

// markdownDelimiters maps emphasis tag names to their Markdown form. All
// three delimiters are symmetric. "_" would also work for italics but
// breaks inside words, so "*" is used.
var markdownDelimiters = map[string]string{
	"b":      "**",
	"i":      "*",
	"strike": "~~",
}

// markdownHandlers overrides the base table for Markdown output. Kinds not
// listed here fall back to the plain-text handlers. Populated in init to
// break the initialization cycle with dispatch.
var markdownHandlers map[Kind]handlerFunc

func init() {
	markdownHandlers = map[Kind]handlerFunc{
		KindTag:      renderTagMarkdown,
		KindWikilink: renderWikilinkMarkdown,
	}
}

// renderTagMarkdown wraps emphasis tags in Markdown delimiters and passes
// unrecognized HTML tags through as literal markup. Wiki-shorthand tags
// with no Markdown form lose their wrapper, same as plain text.
func renderTagMarkdown(r *Renderer, st *renderState, n Node) {
	tag := n.(*Tag)
	if removedTags[tag.Name] {
		return
	}
	if tag.Name == "li" {
		st.listLevel++
	}
	delim := markdownDelimiters[tag.Name]
	switch {
	case delim != "":
		st.out.WriteString(delim)
	case !tag.WikiMarkup:
		st.out.WriteString("<" + tag.Name + ">")
	}
	if tag.Contents != nil {
		r.dispatch(st, tag.Contents)
	}
	switch {
	case delim != "":
		st.out.WriteString(delim)
	case !tag.WikiMarkup && !tag.SelfClosing:
		st.out.WriteString("</" + tag.Name + ">")
	}
}

// renderWikilinkMarkdown resolves internal links against the base URL.
// Categories are always invisible. File links become image references;
// without a base URL there is no usable target, so images vanish and
// ordinary links degrade to their display text.
func renderWikilinkMarkdown(r *Renderer, st *renderState, n Node) {
	link := n.(*Wikilink)
	if strings.HasPrefix(link.Title, "Category:") {
		return
	}
	isImage := strings.HasPrefix(link.Title, "File:")

	if r.BaseURL == "" {
		if !isImage {
			renderWikilinkPlain(r, st, n)
		}
		return
	}

	if isImage {
		target := strings.Replace(link.Title, "File:", "Special:Filepath/", 1)
		u, err := PageURL(r.BaseURL, target)
		if err != nil {
			st.err = err
			return
		}
		st.out.WriteString("![](")
		st.out.WriteString(u)
		st.out.WriteString(")")
		return
	}

	u, err := PageURL(r.BaseURL, link.Title)
	if err != nil {
		st.err = err
		return
	}
	st.out.WriteString("[")
	if link.Text != nil {
		r.dispatch(st, link.Text)
	} else {
		st.out.WriteString(link.Title)
	}
	st.out.WriteString("](")
	st.out.WriteString(u)
	st.out.WriteString(")")
}
