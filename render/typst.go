package render

import (
	"fmt"
	"strings"

	"github.com/hesusruiz/mdpp/mdast"
)

// Typst renders a document to Typst markup: `=` heading runs, raw code
// fences, `#table` with spanning cells, `#footnote` bodies inlined at
// the reference site.
func Typst(doc *mdast.Document, idx *mdast.Indices, cfg Config) string {
	w := &typstWriter{cfg: cfg, idx: idx}
	w.blocks(doc.Blocks)
	return w.sb.String()
}

type typstWriter struct {
	cfg Config
	idx *mdast.Indices
	sb  strings.Builder
}

// typstEscape escapes the characters Typst gives markup meaning in
// running text.
func typstEscape(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '*', '_', '`', '#', '[', ']', '$', '@', '<', '>':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func (w *typstWriter) blocks(blocks []mdast.Block) {
	for _, b := range blocks {
		w.block(b)
	}
}

func (w *typstWriter) block(b mdast.Block) {
	switch b := b.(type) {
	case *mdast.Paragraph:
		w.inlines(b.Content)
		w.sb.WriteString("\n\n")
	case *mdast.Heading:
		w.sb.WriteString(strings.Repeat("=", b.Level) + " ")
		w.inlines(b.Content)
		w.sb.WriteString("\n\n")
	case *mdast.ThematicBreak:
		w.sb.WriteString("#line(length: 100%)\n\n")
	case *mdast.BlockQuote:
		w.sb.WriteString("#quote(block: true)[\n")
		w.blocks(b.Blocks)
		w.sb.WriteString("]\n\n")
	case *mdast.List:
		w.list(b)
	case *mdast.CodeBlock:
		lang := ""
		if f := strings.Fields(b.Info); len(f) > 0 {
			lang = f[0]
		}
		fence := codeFence(b.Literal)
		w.sb.WriteString(fence + lang + "\n")
		w.sb.WriteString(b.Literal)
		w.sb.WriteString(fence + "\n\n")
	case *mdast.HTMLBlock:
		// No HTML in Typst output.
	case *mdast.LatexBlock:
		w.sb.WriteString("$ " + b.Literal + " $\n\n")
	case *mdast.LinkDefinition:
	case *mdast.FootnoteDefinition:
	case *mdast.Table:
		w.table(b)
	case *mdast.GitHubAlert:
		word := titleCase(alertWord(b))
		w.sb.WriteString("#block(stroke: (left: 2pt), inset: 8pt)[\n*" + typstEscape(word) + "*\n\n")
		w.blocks(b.Blocks)
		w.sb.WriteString("]\n\n")
	case *mdast.Container:
		// Containers map to a named block; parameters travel as a
		// comment for downstream templates.
		if len(b.Params) > 0 {
			var parts []string
			for _, pr := range b.Params {
				parts = append(parts, pr.Key+"="+pr.Value)
			}
			w.sb.WriteString("// " + b.Kind + ": " + strings.Join(parts, " ") + "\n")
		}
		w.sb.WriteString("#block(inset: 8pt)[\n")
		w.blocks(b.Blocks)
		w.sb.WriteString("]\n\n")
	case *mdast.Empty:
	}
}

func (w *typstWriter) list(l *mdast.List) {
	for i, item := range l.Items {
		if l.Kind == mdast.Ordered {
			fmt.Fprintf(&w.sb, "%d. ", l.Start+i)
		} else {
			w.sb.WriteString("- ")
		}
		switch item.Task {
		case mdast.TaskIncomplete:
			w.sb.WriteString("☐ ")
		case mdast.TaskComplete:
			w.sb.WriteString("☑ ")
		}
		inner := &typstWriter{cfg: w.cfg, idx: w.idx}
		inner.blocks(item.Blocks)
		body := strings.TrimRight(inner.sb.String(), "\n")
		w.sb.WriteString(strings.ReplaceAll(body, "\n", "\n  "))
		w.sb.WriteString("\n")
	}
	w.sb.WriteString("\n")
}

func typstAlign(a mdast.Alignment) string {
	switch a {
	case mdast.AlignCenter:
		return "center"
	case mdast.AlignRight:
		return "right"
	default:
		return "left"
	}
}

func (w *typstWriter) table(t *mdast.Table) {
	aligns := make([]string, len(t.Alignments))
	for i, a := range t.Alignments {
		aligns[i] = typstAlign(a)
	}
	fmt.Fprintf(&w.sb, "#table(\n  columns: %d,\n  align: (%s),\n", len(t.Alignments), strings.Join(aligns, ", "))
	for ri, row := range t.Rows {
		w.sb.WriteString("  ")
		for _, cell := range row {
			if cell.RemovedByExtendedTable {
				continue
			}
			inner := &typstWriter{cfg: w.cfg, idx: w.idx}
			inner.inlines(cell.Content)
			content := inner.sb.String()
			if ri == 0 {
				content = "*" + content + "*"
			}
			switch {
			case cell.Colspan > 1 && cell.Rowspan > 1:
				fmt.Fprintf(&w.sb, "table.cell(colspan: %d, rowspan: %d)[%s], ", cell.Colspan, cell.Rowspan, content)
			case cell.Colspan > 1:
				fmt.Fprintf(&w.sb, "table.cell(colspan: %d)[%s], ", cell.Colspan, content)
			case cell.Rowspan > 1:
				fmt.Fprintf(&w.sb, "table.cell(rowspan: %d)[%s], ", cell.Rowspan, content)
			default:
				fmt.Fprintf(&w.sb, "[%s], ", content)
			}
		}
		w.sb.WriteString("\n")
	}
	w.sb.WriteString(")\n\n")
}

func (w *typstWriter) inlines(inlines []mdast.Inline) {
	for _, in := range inlines {
		w.inline(in)
	}
}

func (w *typstWriter) inline(in mdast.Inline) {
	switch in := in.(type) {
	case *mdast.Text:
		w.sb.WriteString(typstEscape(in.Text))
	case *mdast.LineBreak:
		w.sb.WriteString(" \\\n")
	case *mdast.Code:
		w.sb.WriteString("`" + in.Literal + "`")
	case *mdast.Latex:
		w.sb.WriteString("$" + in.Literal + "$")
	case *mdast.HTML:
		// Dropped.
	case *mdast.Link:
		w.typstLink(in.Destination, in.Content)
	case *mdast.LinkReference:
		if def, ok := w.idx.ResolveLink(in.Label); ok {
			w.typstLink(def.Destination, in.Content)
			return
		}
		w.sb.WriteString("\\[")
		w.inlines(in.Content)
		w.sb.WriteString("\\]")
	case *mdast.Image:
		args := []string{fmt.Sprintf("%q", in.Destination)}
		if in.Attr != nil {
			if in.Attr.Width != "" {
				args = append(args, "width: "+in.Attr.Width)
			}
			if in.Attr.Height != "" {
				args = append(args, "height: "+in.Attr.Height)
			}
		}
		w.sb.WriteString("#image(" + strings.Join(args, ", ") + ")")
	case *mdast.Emphasis:
		w.sb.WriteString("#emph[")
		w.inlines(in.Content)
		w.sb.WriteString("]")
	case *mdast.Strong:
		w.sb.WriteString("#strong[")
		w.inlines(in.Content)
		w.sb.WriteString("]")
	case *mdast.Strikethrough:
		w.sb.WriteString("#strike[")
		w.inlines(in.Content)
		w.sb.WriteString("]")
	case *mdast.Autolink:
		w.sb.WriteString(fmt.Sprintf("#link(%q)", in.URL))
	case *mdast.FootnoteReference:
		if def, ok := w.idx.FootnoteDefs[in.Label]; ok {
			inner := &typstWriter{cfg: w.cfg, idx: w.idx}
			inner.blocks(def.Blocks)
			w.sb.WriteString("#footnote[" + strings.TrimSpace(inner.sb.String()) + "]")
			return
		}
		w.sb.WriteString(typstEscape("[^" + in.Label + "]"))
	case *mdast.EmptyInline:
	}
}

func (w *typstWriter) typstLink(dest string, content []mdast.Inline) {
	w.sb.WriteString(fmt.Sprintf("#link(%q)[", dest))
	w.inlines(content)
	w.sb.WriteString("]")
}
