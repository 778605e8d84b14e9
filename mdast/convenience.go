package mdast

import "strings"

// Convenience transforms for the common single-concern rewrites. Each
// returns a rebuilt document and leaves the input untouched.

// TransformText applies f to the text of every Text node, including text
// inside headings, table cells, link content and footnote bodies.
func TransformText(doc *Document, f func(string) string) *Document {
	t := &Transformer{Inline: func(in Inline) Inline {
		if txt, ok := in.(*Text); ok {
			return &Text{Text: f(txt.Text)}
		}
		return in
	}}
	return t.Transform(doc)
}

// TransformLinkURLs applies f to the destination of every inline Link
// and every LinkDefinition.
func TransformLinkURLs(doc *Document, f func(string) string) *Document {
	t := &Transformer{
		Inline: func(in Inline) Inline {
			if l, ok := in.(*Link); ok {
				return &Link{Content: l.Content, Destination: f(l.Destination), Title: l.Title}
			}
			return in
		},
		Block: func(b Block) Block {
			if d, ok := b.(*LinkDefinition); ok {
				return &LinkDefinition{Label: d.Label, Destination: f(d.Destination), Title: d.Title}
			}
			return b
		},
	}
	return t.Transform(doc)
}

// TransformImageURLs applies f to every image destination.
func TransformImageURLs(doc *Document, f func(string) string) *Document {
	t := &Transformer{Inline: func(in Inline) Inline {
		if img, ok := in.(*Image); ok {
			cp := *img
			cp.Destination = f(img.Destination)
			return &cp
		}
		return in
	}}
	return t.Transform(doc)
}

// TransformAutolinkURLs applies f to every autolink URL.
func TransformAutolinkURLs(doc *Document, f func(string) string) *Document {
	t := &Transformer{Inline: func(in Inline) Inline {
		if a, ok := in.(*Autolink); ok {
			return &Autolink{URL: f(a.URL)}
		}
		return in
	}}
	return t.Transform(doc)
}

// TransformCode applies f to the literal of every code block and inline
// code span. The info string is passed alongside ("" for spans and
// indented blocks).
func TransformCode(doc *Document, f func(info, literal string) string) *Document {
	t := &Transformer{
		Block: func(b Block) Block {
			if cb, ok := b.(*CodeBlock); ok {
				cp := *cb
				cp.Literal = f(cb.Info, cb.Literal)
				return &cp
			}
			return b
		},
		Inline: func(in Inline) Inline {
			if c, ok := in.(*Code); ok {
				return &Code{Literal: f("", c.Literal)}
			}
			return in
		},
	}
	return t.Transform(doc)
}

// TransformHTML applies f to every raw HTML block and inline span.
func TransformHTML(doc *Document, f func(string) string) *Document {
	t := &Transformer{
		Block: func(b Block) Block {
			if h, ok := b.(*HTMLBlock); ok {
				return &HTMLBlock{Literal: f(h.Literal)}
			}
			return b
		},
		Inline: func(in Inline) Inline {
			if h, ok := in.(*HTML); ok {
				return &HTML{Literal: f(h.Literal)}
			}
			return in
		},
	}
	return t.Transform(doc)
}

// RemoveEmptyText drops Text nodes whose text is empty, along with
// Empty and EmptyInline placeholder nodes.
func RemoveEmptyText(doc *Document) *Document {
	t := &Transformer{
		Inline: func(in Inline) Inline {
			switch in := in.(type) {
			case *Text:
				if in.Text == "" {
					return nil
				}
			case *EmptyInline:
				return nil
			}
			return in
		},
		Block: func(b Block) Block {
			if _, ok := b.(*Empty); ok {
				return nil
			}
			return b
		},
	}
	return t.Transform(doc)
}

// NormalizeWhitespace collapses runs of spaces, tabs and newlines inside
// every Text node into single spaces. Code, HTML and math literals are
// left alone.
func NormalizeWhitespace(doc *Document) *Document {
	return TransformText(doc, func(s string) string {
		return strings.Join(strings.Fields(s), " ")
	})
}
