package render

import (
	"fmt"
	"strings"

	"github.com/hesusruiz/mdpp/mdast"
)

// LaTeX renders a document body to LaTeX. Table and code environments
// follow cfg.TableStyle and cfg.CodeBlockStyle; the document preamble
// (packages for longtabu, listings, minted, booktabs) is the caller's
// concern.
func LaTeX(doc *mdast.Document, idx *mdast.Indices, cfg Config) string {
	w := &latexWriter{cfg: cfg, idx: idx}
	w.blocks(doc.Blocks)
	return w.sb.String()
}

type latexWriter struct {
	cfg Config
	idx *mdast.Indices
	sb  strings.Builder
}

// latexEscape escapes the ten characters LaTeX treats specially in
// running text.
func latexEscape(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '&', '%', '$', '#', '_', '{', '}':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '~':
			sb.WriteString(`\textasciitilde{}`)
		case '^':
			sb.WriteString(`\textasciicircum{}`)
		case '\\':
			sb.WriteString(`\textbackslash{}`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func (w *latexWriter) blocks(blocks []mdast.Block) {
	for _, b := range blocks {
		w.block(b)
	}
}

var latexSections = []string{
	1: `\section`,
	2: `\subsection`,
	3: `\subsubsection`,
	4: `\paragraph`,
	5: `\subparagraph`,
	6: `\subparagraph`,
}

func (w *latexWriter) block(b mdast.Block) {
	switch b := b.(type) {
	case *mdast.Paragraph:
		w.inlines(b.Content)
		w.sb.WriteString("\n\n")
	case *mdast.Heading:
		level := b.Level
		if level > 6 {
			level = 6
		}
		w.sb.WriteString(latexSections[level] + "{")
		w.inlines(b.Content)
		w.sb.WriteString("}\n\n")
	case *mdast.ThematicBreak:
		w.sb.WriteString("\\begin{center}\\rule{0.5\\linewidth}{0.5pt}\\end{center}\n\n")
	case *mdast.BlockQuote:
		w.sb.WriteString("\\begin{quote}\n")
		w.blocks(b.Blocks)
		w.sb.WriteString("\\end{quote}\n\n")
	case *mdast.List:
		w.list(b)
	case *mdast.CodeBlock:
		w.codeBlock(b)
	case *mdast.HTMLBlock:
		// Raw HTML has no LaTeX rendition; emit it as a comment so the
		// output stays compilable.
		for _, line := range strings.Split(strings.TrimSuffix(b.Literal, "\n"), "\n") {
			w.sb.WriteString("% " + line + "\n")
		}
		w.sb.WriteString("\n")
	case *mdast.LatexBlock:
		w.sb.WriteString("\\[\n" + b.Literal + "\n\\]\n\n")
	case *mdast.LinkDefinition:
	case *mdast.FootnoteDefinition:
		// Bodies are emitted inline at the reference site.
	case *mdast.Table:
		w.table(b)
	case *mdast.GitHubAlert:
		word := titleCase(alertWord(b))
		w.sb.WriteString("\\begin{quote}\n\\textbf{" + latexEscape(word) + "}\n\n")
		w.blocks(b.Blocks)
		w.sb.WriteString("\\end{quote}\n\n")
	case *mdast.Container:
		w.sb.WriteString("\\begin{" + b.Kind + "}\n")
		w.blocks(b.Blocks)
		w.sb.WriteString("\\end{" + b.Kind + "}\n\n")
	case *mdast.Empty:
	}
}

func (w *latexWriter) list(l *mdast.List) {
	env := "itemize"
	if l.Kind == mdast.Ordered {
		env = "enumerate"
	}
	w.sb.WriteString("\\begin{" + env + "}\n")
	if l.Kind == mdast.Ordered && l.Start != 1 {
		fmt.Fprintf(&w.sb, "\\setcounter{enumi}{%d}\n", l.Start-1)
	}
	for _, item := range l.Items {
		switch item.Task {
		case mdast.TaskIncomplete:
			w.sb.WriteString("\\item[$\\square$] ")
		case mdast.TaskComplete:
			w.sb.WriteString("\\item[$\\boxtimes$] ")
		default:
			w.sb.WriteString("\\item ")
		}
		w.blocks(item.Blocks)
	}
	w.sb.WriteString("\\end{" + env + "}\n\n")
}

func (w *latexWriter) codeBlock(b *mdast.CodeBlock) {
	lang := ""
	if f := strings.Fields(b.Info); len(f) > 0 {
		lang = f[0]
	}
	switch w.cfg.CodeBlockStyle {
	case Listings:
		if lang != "" {
			fmt.Fprintf(&w.sb, "\\begin{lstlisting}[language=%s]\n", lang)
		} else {
			w.sb.WriteString("\\begin{lstlisting}\n")
		}
		w.sb.WriteString(b.Literal)
		w.sb.WriteString("\\end{lstlisting}\n\n")
	case Minted:
		if lang == "" {
			lang = "text"
		}
		fmt.Fprintf(&w.sb, "\\begin{minted}{%s}\n", lang)
		w.sb.WriteString(b.Literal)
		w.sb.WriteString("\\end{minted}\n\n")
	default:
		w.sb.WriteString("\\begin{verbatim}\n")
		w.sb.WriteString(b.Literal)
		w.sb.WriteString("\\end{verbatim}\n\n")
	}
}

func latexColumnSpec(aligns []mdast.Alignment) string {
	var sb strings.Builder
	for _, a := range aligns {
		sb.WriteByte(latexColumnLetter(a))
	}
	return sb.String()
}

func latexColumnLetter(a mdast.Alignment) byte {
	switch a {
	case mdast.AlignCenter:
		return 'c'
	case mdast.AlignRight:
		return 'r'
	default:
		return 'l'
	}
}

func (w *latexWriter) table(t *mdast.Table) {
	spec := latexColumnSpec(t.Alignments)
	var open, rule, midrule, close string
	switch w.cfg.TableStyle {
	case Longtabu:
		open = "\\begin{longtabu}{" + spec + "}\n"
		rule, midrule = "\\hline\n", "\\hline\n"
		close = "\\end{longtabu}\n\n"
	case Booktabs:
		open = "\\begin{tabular}{" + spec + "}\n\\toprule\n"
		rule, midrule = "\\bottomrule\n", "\\midrule\n"
		close = "\\end{tabular}\n\n"
	default:
		open = "\\begin{tabular}{" + spec + "}\n\\hline\n"
		rule, midrule = "\\hline\n", "\\hline\n"
		close = "\\end{tabular}\n\n"
	}
	w.sb.WriteString(open)
	for ri, row := range t.Rows {
		first := true
		for ci, cell := range row {
			if cell.RemovedByExtendedTable {
				continue
			}
			if !first {
				w.sb.WriteString(" & ")
			}
			first = false
			if cell.Colspan > 1 {
				align := mdast.AlignNone
				if ci < len(t.Alignments) {
					align = t.Alignments[ci]
				}
				fmt.Fprintf(&w.sb, "\\multicolumn{%d}{%c}{", cell.Colspan, latexColumnLetter(align))
				w.inlines(cell.Content)
				w.sb.WriteString("}")
				continue
			}
			if cell.Rowspan > 1 {
				fmt.Fprintf(&w.sb, "\\multirow{%d}{*}{", cell.Rowspan)
				w.inlines(cell.Content)
				w.sb.WriteString("}")
				continue
			}
			w.inlines(cell.Content)
		}
		w.sb.WriteString(" \\\\\n")
		if ri == 0 {
			w.sb.WriteString(midrule)
		}
	}
	w.sb.WriteString(rule)
	w.sb.WriteString(close)
}

func (w *latexWriter) inlines(inlines []mdast.Inline) {
	for _, in := range inlines {
		w.inline(in)
	}
}

func (w *latexWriter) inline(in mdast.Inline) {
	switch in := in.(type) {
	case *mdast.Text:
		w.sb.WriteString(latexEscape(in.Text))
	case *mdast.LineBreak:
		w.sb.WriteString("\\\\\n")
	case *mdast.Code:
		w.sb.WriteString("\\texttt{" + latexEscape(in.Literal) + "}")
	case *mdast.Latex:
		w.sb.WriteString("$" + in.Literal + "$")
	case *mdast.HTML:
		// Dropped: inline HTML has no LaTeX form.
	case *mdast.Link:
		w.sb.WriteString("\\href{" + latexEscapeURL(in.Destination) + "}{")
		w.inlines(in.Content)
		w.sb.WriteString("}")
	case *mdast.LinkReference:
		if def, ok := w.idx.ResolveLink(in.Label); ok {
			w.sb.WriteString("\\href{" + latexEscapeURL(def.Destination) + "}{")
			w.inlines(in.Content)
			w.sb.WriteString("}")
			return
		}
		w.sb.WriteString("[")
		w.inlines(in.Content)
		w.sb.WriteString("]")
	case *mdast.Image:
		opts := ""
		if in.Attr != nil {
			var parts []string
			if in.Attr.Width != "" {
				parts = append(parts, "width="+in.Attr.Width)
			}
			if in.Attr.Height != "" {
				parts = append(parts, "height="+in.Attr.Height)
			}
			if len(parts) > 0 {
				opts = "[" + strings.Join(parts, ",") + "]"
			}
		}
		w.sb.WriteString("\\includegraphics" + opts + "{" + latexEscapeURL(in.Destination) + "}")
	case *mdast.Emphasis:
		w.sb.WriteString("\\emph{")
		w.inlines(in.Content)
		w.sb.WriteString("}")
	case *mdast.Strong:
		w.sb.WriteString("\\textbf{")
		w.inlines(in.Content)
		w.sb.WriteString("}")
	case *mdast.Strikethrough:
		w.sb.WriteString("\\sout{")
		w.inlines(in.Content)
		w.sb.WriteString("}")
	case *mdast.Autolink:
		w.sb.WriteString("\\url{" + latexEscapeURL(in.URL) + "}")
	case *mdast.FootnoteReference:
		if def, ok := w.idx.FootnoteDefs[in.Label]; ok {
			w.sb.WriteString("\\footnote{")
			inner := &latexWriter{cfg: w.cfg, idx: w.idx}
			inner.blocks(def.Blocks)
			w.sb.WriteString(strings.TrimSpace(inner.sb.String()))
			w.sb.WriteString("}")
			return
		}
		w.sb.WriteString(latexEscape("[^" + in.Label + "]"))
	case *mdast.EmptyInline:
	}
}

// latexEscapeURL escapes only what breaks \href and \url arguments.
func latexEscapeURL(s string) string {
	r := strings.NewReplacer("%", "\\%", "#", "\\#", "{", "\\{", "}", "\\}")
	return r.Replace(s)
}
