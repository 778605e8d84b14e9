package render

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	hlhtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"oss.terrastruct.com/d2/d2graph"
	"oss.terrastruct.com/d2/d2layouts/d2dagrelayout"
	"oss.terrastruct.com/d2/d2lib"
	"oss.terrastruct.com/d2/d2renderers/d2svg"
	"oss.terrastruct.com/d2/d2themes/d2themescatalog"
	"oss.terrastruct.com/d2/lib/textmeasure"

	"github.com/hesusruiz/mdpp/mdast"
)

// HTML renders a document to an HTML fragment. Code blocks are
// highlighted with chroma; with cfg.Diagrams set, fenced `d2` blocks are
// compiled by the embedded d2 engine and inlined as SVG. Reference and
// footnote resolution goes through idx; a miss renders the literal
// bracket form.
func HTML(doc *mdast.Document, idx *mdast.Indices, cfg Config) string {
	h := &htmlWriter{cfg: cfg, idx: idx}
	h.blocks(doc.Blocks)
	h.footnoteSection(doc)
	return h.sb.String()
}

type htmlWriter struct {
	cfg Config
	idx *mdast.Indices
	sb  strings.Builder
}

func (h *htmlWriter) blocks(blocks []mdast.Block) {
	for _, b := range blocks {
		h.block(b)
	}
}

func (h *htmlWriter) block(b mdast.Block) {
	switch b := b.(type) {
	case *mdast.Paragraph:
		h.sb.WriteString("<p>")
		h.inlines(b.Content)
		h.sb.WriteString("</p>\n")
	case *mdast.Heading:
		fmt.Fprintf(&h.sb, "<h%d>", b.Level)
		h.inlines(b.Content)
		fmt.Fprintf(&h.sb, "</h%d>\n", b.Level)
	case *mdast.ThematicBreak:
		h.sb.WriteString("<hr />\n")
	case *mdast.BlockQuote:
		h.sb.WriteString("<blockquote>\n")
		h.blocks(b.Blocks)
		h.sb.WriteString("</blockquote>\n")
	case *mdast.List:
		h.list(b)
	case *mdast.CodeBlock:
		h.codeBlock(b)
	case *mdast.HTMLBlock:
		h.sb.WriteString(b.Literal)
	case *mdast.LatexBlock:
		h.sb.WriteString("<p class=\"math display\">\\[")
		h.sb.WriteString(html.EscapeString(b.Literal))
		h.sb.WriteString("\\]</p>\n")
	case *mdast.LinkDefinition:
		// Definitions render nothing; they feed the index.
	case *mdast.FootnoteDefinition:
		// Bodies render in the footnote section.
	case *mdast.Table:
		h.table(b)
	case *mdast.GitHubAlert:
		word := alertWord(b)
		fmt.Fprintf(&h.sb, "<div class=\"markdown-alert markdown-alert-%s\">\n", strings.ToLower(word))
		fmt.Fprintf(&h.sb, "<p class=\"markdown-alert-title\">%s</p>\n", html.EscapeString(titleCase(word)))
		h.blocks(b.Blocks)
		h.sb.WriteString("</div>\n")
	case *mdast.Container:
		fmt.Fprintf(&h.sb, "<div class=\"container-%s\"", html.EscapeString(b.Kind))
		for _, pr := range b.Params {
			fmt.Fprintf(&h.sb, " data-%s=\"%s\"", html.EscapeString(pr.Key), html.EscapeString(pr.Value))
		}
		h.sb.WriteString(">\n")
		h.blocks(b.Blocks)
		h.sb.WriteString("</div>\n")
	case *mdast.Empty:
	}
}

func titleCase(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
}

func (h *htmlWriter) list(l *mdast.List) {
	tag := "ul"
	if l.Kind == mdast.Ordered {
		tag = "ol"
		if l.Start != 1 {
			fmt.Fprintf(&h.sb, "<ol start=\"%d\">\n", l.Start)
			tag = ""
		}
	}
	if tag != "" {
		fmt.Fprintf(&h.sb, "<%s>\n", tag)
	} else {
		tag = "ol"
	}
	for _, item := range l.Items {
		h.sb.WriteString("<li>")
		switch item.Task {
		case mdast.TaskIncomplete:
			h.sb.WriteString(`<input type="checkbox" disabled="" /> `)
		case mdast.TaskComplete:
			h.sb.WriteString(`<input type="checkbox" disabled="" checked="" /> `)
		}
		h.blocks(item.Blocks)
		h.sb.WriteString("</li>\n")
	}
	fmt.Fprintf(&h.sb, "</%s>\n", tag)
}

func (h *htmlWriter) codeBlock(b *mdast.CodeBlock) {
	lang := ""
	if f := strings.Fields(b.Info); len(f) > 0 {
		lang = f[0]
	}
	if h.cfg.Diagrams && strings.EqualFold(lang, "d2") {
		if svg, err := renderD2(b.Literal); err == nil {
			h.sb.Write(svg)
			h.sb.WriteString("\n")
			return
		}
		// Compile failure: fall through to a plain code block.
	}
	l := lexers.Get(lang)
	if l == nil {
		l = lexers.Analyse(b.Literal)
	}
	if l == nil {
		l = lexers.Fallback
	}
	l = chroma.Coalesce(l)
	s := styles.Get(h.cfg.HighlightStyle)
	f := hlhtml.New(hlhtml.Standalone(false), hlhtml.PreventSurroundingPre(true))
	it, err := l.Tokenise(nil, b.Literal)
	if err != nil {
		h.plainCodeBlock(b)
		return
	}
	h.sb.WriteString("<pre><code")
	if lang != "" {
		fmt.Fprintf(&h.sb, " class=\"language-%s\"", html.EscapeString(lang))
	}
	h.sb.WriteString(">")
	var rb bytes.Buffer
	if err := f.Format(&rb, s, it); err != nil {
		h.sb.WriteString(html.EscapeString(b.Literal))
	} else {
		h.sb.Write(rb.Bytes())
	}
	h.sb.WriteString("</code></pre>\n")
}

func (h *htmlWriter) plainCodeBlock(b *mdast.CodeBlock) {
	h.sb.WriteString("<pre><code>")
	h.sb.WriteString(html.EscapeString(b.Literal))
	h.sb.WriteString("</code></pre>\n")
}

// renderD2 compiles a d2 description with the embedded engine and
// returns the SVG document.
func renderD2(src string) ([]byte, error) {
	ruler, err := textmeasure.NewRuler()
	if err != nil {
		return nil, err
	}
	layout := func(ctx context.Context, g *d2graph.Graph) error {
		return d2dagrelayout.Layout(ctx, g, nil)
	}
	diagram, _, err := d2lib.Compile(context.Background(), src, &d2lib.CompileOptions{
		Layout: layout,
		Ruler:  ruler,
	})
	if err != nil {
		return nil, err
	}
	return d2svg.Render(diagram, &d2svg.RenderOpts{
		Pad:     d2svg.DEFAULT_PADDING,
		ThemeID: d2themescatalog.NeutralDefault.ID,
	})
}

func (h *htmlWriter) table(t *mdast.Table) {
	h.sb.WriteString("<table>\n")
	for ri, row := range t.Rows {
		if ri == 0 {
			h.sb.WriteString("<thead>\n")
		} else if ri == 1 {
			h.sb.WriteString("<tbody>\n")
		}
		h.sb.WriteString("<tr>")
		tag := "td"
		if ri == 0 {
			tag = "th"
		}
		for ci, cell := range row {
			if cell.RemovedByExtendedTable {
				continue
			}
			h.sb.WriteString("<" + tag)
			if ci < len(t.Alignments) {
				switch t.Alignments[ci] {
				case mdast.AlignLeft:
					h.sb.WriteString(` style="text-align: left"`)
				case mdast.AlignCenter:
					h.sb.WriteString(` style="text-align: center"`)
				case mdast.AlignRight:
					h.sb.WriteString(` style="text-align: right"`)
				}
			}
			if cell.Colspan > 1 {
				fmt.Fprintf(&h.sb, ` colspan="%d"`, cell.Colspan)
			}
			if cell.Rowspan > 1 {
				fmt.Fprintf(&h.sb, ` rowspan="%d"`, cell.Rowspan)
			}
			h.sb.WriteString(">")
			h.inlines(cell.Content)
			h.sb.WriteString("</" + tag + ">")
		}
		h.sb.WriteString("</tr>\n")
		if ri == 0 {
			h.sb.WriteString("</thead>\n")
		}
	}
	if len(t.Rows) > 1 {
		h.sb.WriteString("</tbody>\n")
	}
	h.sb.WriteString("</table>\n")
}

func (h *htmlWriter) inlines(inlines []mdast.Inline) {
	for _, in := range inlines {
		h.inline(in)
	}
}

func (h *htmlWriter) inline(in mdast.Inline) {
	switch in := in.(type) {
	case *mdast.Text:
		h.sb.WriteString(html.EscapeString(in.Text))
	case *mdast.LineBreak:
		h.sb.WriteString("<br />\n")
	case *mdast.Code:
		h.sb.WriteString("<code>")
		h.sb.WriteString(html.EscapeString(in.Literal))
		h.sb.WriteString("</code>")
	case *mdast.Latex:
		h.sb.WriteString("<span class=\"math inline\">\\(")
		h.sb.WriteString(html.EscapeString(in.Literal))
		h.sb.WriteString("\\)</span>")
	case *mdast.HTML:
		h.sb.WriteString(in.Literal)
	case *mdast.Link:
		h.anchor(in.Destination, in.Title, in.Content)
	case *mdast.LinkReference:
		if def, ok := h.idx.ResolveLink(in.Label); ok {
			h.anchor(def.Destination, def.Title, in.Content)
			return
		}
		// Unresolved: literal bracket form.
		h.sb.WriteString("[")
		h.inlines(in.Content)
		h.sb.WriteString("]")
	case *mdast.Image:
		fmt.Fprintf(&h.sb, "<img src=\"%s\" alt=\"%s\"", html.EscapeString(in.Destination), html.EscapeString(in.Alt))
		if in.Title != "" {
			fmt.Fprintf(&h.sb, " title=\"%s\"", html.EscapeString(in.Title))
		}
		if in.Attr != nil {
			if in.Attr.Width != "" {
				fmt.Fprintf(&h.sb, " width=\"%s\"", html.EscapeString(in.Attr.Width))
			}
			if in.Attr.Height != "" {
				fmt.Fprintf(&h.sb, " height=\"%s\"", html.EscapeString(in.Attr.Height))
			}
		}
		h.sb.WriteString(" />")
	case *mdast.Emphasis:
		h.sb.WriteString("<em>")
		h.inlines(in.Content)
		h.sb.WriteString("</em>")
	case *mdast.Strong:
		h.sb.WriteString("<strong>")
		h.inlines(in.Content)
		h.sb.WriteString("</strong>")
	case *mdast.Strikethrough:
		h.sb.WriteString("<del>")
		h.inlines(in.Content)
		h.sb.WriteString("</del>")
	case *mdast.Autolink:
		url := in.URL
		href := url
		if strings.HasPrefix(strings.ToLower(url), "www.") {
			href = "http://" + url
		} else if strings.Contains(url, "@") && !strings.Contains(url, "://") && !strings.Contains(url, ":") {
			href = "mailto:" + url
		}
		fmt.Fprintf(&h.sb, "<a href=\"%s\">%s</a>", html.EscapeString(href), html.EscapeString(url))
	case *mdast.FootnoteReference:
		if n, ok := h.idx.FootnoteNumbers[in.Label]; ok {
			fmt.Fprintf(&h.sb, "<sup id=\"fnref:%s\"><a href=\"#fn:%s\">%d</a></sup>", html.EscapeString(in.Label), html.EscapeString(in.Label), n)
			return
		}
		h.sb.WriteString(html.EscapeString("[^" + in.Label + "]"))
	case *mdast.EmptyInline:
	}
}

func (h *htmlWriter) anchor(dest, title string, content []mdast.Inline) {
	fmt.Fprintf(&h.sb, "<a href=\"%s\"", html.EscapeString(dest))
	if title != "" {
		fmt.Fprintf(&h.sb, " title=\"%s\"", html.EscapeString(title))
	}
	h.sb.WriteString(">")
	h.inlines(content)
	h.sb.WriteString("</a>")
}

// footnoteSection renders the bodies of all referenced footnote
// definitions in number order at the end of the fragment.
func (h *htmlWriter) footnoteSection(doc *mdast.Document) {
	if len(h.idx.FootnoteDefs) == 0 {
		return
	}
	ordered := make([]string, len(h.idx.FootnoteNumbers))
	for label, n := range h.idx.FootnoteNumbers {
		ordered[n-1] = label
	}
	h.sb.WriteString("<section class=\"footnotes\">\n<ol>\n")
	for _, label := range ordered {
		def := h.idx.FootnoteDefs[label]
		fmt.Fprintf(&h.sb, "<li id=\"fn:%s\">\n", html.EscapeString(label))
		h.blocks(def.Blocks)
		fmt.Fprintf(&h.sb, "<a href=\"#fnref:%s\">&#8617;</a>\n</li>\n", html.EscapeString(label))
	}
	h.sb.WriteString("</ol>\n</section>\n")
}
