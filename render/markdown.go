package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hesusruiz/mdpp/mdast"
)

// Markdown pretty-prints a document back to canonical Markdown: ATX
// headings, fenced code, `> ` quote prefixes, pipe tables and the
// container syntax round-trip. References stay references; no index is
// needed.
func Markdown(doc *mdast.Document, cfg Config) string {
	m := &mdWriter{cfg: cfg}
	m.blocks(doc.Blocks, "")
	return m.sb.String()
}

type mdWriter struct {
	cfg Config
	sb  strings.Builder
}

func (m *mdWriter) blocks(blocks []mdast.Block, prefix string) {
	for i, b := range blocks {
		if i > 0 {
			m.sb.WriteString(strings.TrimRight(prefix, " "))
			m.sb.WriteString("\n")
		}
		m.block(b, prefix)
	}
}

func (m *mdWriter) writeLines(text, prefix string) {
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		if line == "" {
			m.sb.WriteString(strings.TrimRight(prefix, " "))
		} else {
			m.sb.WriteString(prefix)
			m.sb.WriteString(line)
		}
		m.sb.WriteString("\n")
	}
}

func (m *mdWriter) block(b mdast.Block, prefix string) {
	switch b := b.(type) {
	case *mdast.Paragraph:
		m.writeLines(wrapText(mdInlines(b.Content), m.cfg.Width), prefix)
	case *mdast.Heading:
		if b.Kind == mdast.Setext {
			text := mdInlines(b.Content)
			m.writeLines(text, prefix)
			if b.Level == 1 {
				m.writeLines(strings.Repeat("=", max(3, len(text))), prefix)
			} else {
				m.writeLines(strings.Repeat("-", max(3, len(text))), prefix)
			}
			return
		}
		m.writeLines(strings.Repeat("#", b.Level)+" "+mdInlines(b.Content), prefix)
	case *mdast.ThematicBreak:
		m.writeLines("---", prefix)
	case *mdast.BlockQuote:
		inner := renderNested(m.cfg, b.Blocks)
		m.writeLines(prefixLines(inner, "> "), prefix)
	case *mdast.List:
		m.list(b, prefix)
	case *mdast.CodeBlock:
		if b.Kind == mdast.Indented {
			m.writeLines(prefixLines(strings.TrimSuffix(b.Literal, "\n"), "    "), prefix)
			return
		}
		fence := codeFence(b.Literal)
		m.writeLines(fence+b.Info, prefix)
		if b.Literal != "" {
			m.writeLines(strings.TrimSuffix(b.Literal, "\n"), prefix)
		}
		m.writeLines(fence, prefix)
	case *mdast.HTMLBlock:
		m.writeLines(strings.TrimSuffix(b.Literal, "\n"), prefix)
	case *mdast.LatexBlock:
		m.writeLines("$$", prefix)
		m.writeLines(b.Literal, prefix)
		m.writeLines("$$", prefix)
	case *mdast.LinkDefinition:
		line := "[" + mdInlines(b.Label) + "]: " + b.Destination
		if b.Title != "" {
			line += " \"" + b.Title + "\""
		}
		m.writeLines(line, prefix)
	case *mdast.FootnoteDefinition:
		inner := renderNested(m.cfg, b.Blocks)
		lines := strings.Split(strings.TrimSuffix(inner, "\n"), "\n")
		m.writeLines("[^"+b.Label+"]: "+lines[0], prefix)
		if len(lines) > 1 {
			m.writeLines(prefixLines(strings.Join(lines[1:], "\n"), "    "), prefix)
		}
	case *mdast.Table:
		m.table(b, prefix)
	case *mdast.GitHubAlert:
		marker := "[!" + alertWord(b) + "]"
		inner := renderNested(m.cfg, b.Blocks)
		m.writeLines("> "+marker, prefix)
		m.writeLines(prefixLines(inner, "> "), prefix)
	case *mdast.Container:
		open := ":::" + b.Kind
		if len(b.Params) > 0 {
			var parts []string
			for _, pr := range b.Params {
				parts = append(parts, fmt.Sprintf("%s=%q", pr.Key, pr.Value))
			}
			open += "{" + strings.Join(parts, " ") + "}"
		}
		m.writeLines(open, prefix)
		m.writeLines(renderNested(m.cfg, b.Blocks), prefix)
		m.writeLines(":::", prefix)
	case *mdast.Empty:
	}
}

func renderNested(cfg Config, blocks []mdast.Block) string {
	w := &mdWriter{cfg: cfg}
	w.blocks(blocks, "")
	return strings.TrimSuffix(w.sb.String(), "\n")
}

func prefixLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = strings.TrimRight(prefix, " ")
		} else {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func (m *mdWriter) list(l *mdast.List, prefix string) {
	for i, item := range l.Items {
		var marker string
		if l.Kind == mdast.Ordered {
			marker = fmt.Sprintf("%d%c ", l.Start+i, l.Marker)
		} else {
			marker = string(l.Marker) + " "
		}
		body := renderNested(m.cfg, item.Blocks)
		switch item.Task {
		case mdast.TaskIncomplete:
			body = "[ ] " + body
		case mdast.TaskComplete:
			body = "[x] " + body
		}
		indent := strings.Repeat(" ", len(marker))
		lines := strings.Split(body, "\n")
		m.writeLines(marker+lines[0], prefix)
		if len(lines) > 1 {
			m.writeLines(prefixLines(strings.Join(lines[1:], "\n"), indent), prefix)
		}
	}
}

func (m *mdWriter) table(t *mdast.Table, prefix string) {
	for ri, row := range t.Rows {
		var sb strings.Builder
		sb.WriteString("|")
		for ci, cell := range row {
			if cell.RemovedByExtendedTable {
				// A cell absorbed from above re-emits its `^^` marker;
				// one absorbed from the left stays a zero-width `||`.
				if tableCellMergedUp(t, ri, ci) {
					sb.WriteString(" ^^ |")
				} else {
					sb.WriteString("|")
				}
				continue
			}
			sb.WriteString(" ")
			sb.WriteString(mdInlines(cell.Content))
			sb.WriteString(" |")
		}
		m.writeLines(sb.String(), prefix)
		if ri == 0 {
			var db strings.Builder
			db.WriteString("|")
			for _, a := range t.Alignments {
				switch a {
				case mdast.AlignLeft:
					db.WriteString(" :--- |")
				case mdast.AlignCenter:
					db.WriteString(" :---: |")
				case mdast.AlignRight:
					db.WriteString(" ---: |")
				default:
					db.WriteString(" --- |")
				}
			}
			m.writeLines(db.String(), prefix)
		}
	}
}

// tableCellMergedUp reports whether the removed cell at (row, col) is
// covered by the rowspan of a cell above it rather than by the colspan
// of a cell to its left.
func tableCellMergedUp(t *mdast.Table, row, col int) bool {
	for r := row - 1; r >= 0; r-- {
		c := t.Rows[r][col]
		if c.RemovedByExtendedTable {
			continue
		}
		return c.Rowspan > row-r
	}
	return false
}

// blockStartRegexp matches text that would open a new block construct
// if it landed at the start of a line. Wrapping never breaks before it.
var blockStartRegexp = regexp.MustCompile(`^([0-9]{1,9}[.)][ \t]|[-+*][ \t]|#{1,6}[ \t]|>|:::|[-=_]+[ \t]*$)`)

// wrapText wraps rendered inline text at width columns. It breaks only
// at spaces outside code spans, math spans and bracketed constructs,
// and never where the next line would reparse as a list item, heading
// or quote. Existing line breaks are preserved, and a line with no safe
// break point stays long.
func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	var lines []string
	for len(line) > width {
		brk := -1
		depth, ticks := 0, 0
		math := false
	scan:
		for i := 0; i < len(line); i++ {
			switch line[i] {
			case '`':
				ticks++
			case '$':
				math = !math
			case '(', '[', '{':
				depth++
			case ')', ']', '}':
				depth--
			case ' ':
				if depth != 0 || ticks%2 != 0 || math || i == 0 {
					continue
				}
				if blockStartRegexp.MatchString(strings.TrimLeft(line[i+1:], " ")) {
					continue
				}
				if i <= width || brk < 0 {
					brk = i
				}
				if i > width {
					break scan
				}
			}
			if i > width && brk >= 0 {
				break scan
			}
		}
		if brk < 0 {
			break
		}
		lines = append(lines, strings.TrimRight(line[:brk], " "))
		line = strings.TrimLeft(line[brk+1:], " ")
	}
	return append(lines, line)
}

func alertWord(a *mdast.GitHubAlert) string {
	switch a.Type {
	case mdast.AlertNote:
		return "NOTE"
	case mdast.AlertTip:
		return "TIP"
	case mdast.AlertImportant:
		return "IMPORTANT"
	case mdast.AlertWarning:
		return "WARNING"
	case mdast.AlertCaution:
		return "CAUTION"
	}
	return a.CustomKind
}

// codeFence picks a backtick fence longer than any run in the literal.
func codeFence(literal string) string {
	n := 3
	run := 0
	for i := 0; i < len(literal); i++ {
		if literal[i] == '`' {
			run++
			if run >= n {
				n = run + 1
			}
		} else {
			run = 0
		}
	}
	return strings.Repeat("`", n)
}

func mdInlines(inlines []mdast.Inline) string {
	var sb strings.Builder
	for _, in := range inlines {
		mdInline(&sb, in)
	}
	return sb.String()
}

func mdInline(sb *strings.Builder, in mdast.Inline) {
	switch in := in.(type) {
	case *mdast.Text:
		sb.WriteString(in.Text)
	case *mdast.LineBreak:
		sb.WriteString("\\\n")
	case *mdast.Code:
		fence := "`"
		if strings.Contains(in.Literal, "`") {
			fence = "``"
		}
		sb.WriteString(fence)
		sb.WriteString(in.Literal)
		sb.WriteString(fence)
	case *mdast.Latex:
		sb.WriteString("$")
		sb.WriteString(in.Literal)
		sb.WriteString("$")
	case *mdast.HTML:
		sb.WriteString(in.Literal)
	case *mdast.Link:
		sb.WriteString("[")
		sb.WriteString(mdInlines(in.Content))
		sb.WriteString("](")
		sb.WriteString(in.Destination)
		if in.Title != "" {
			sb.WriteString(" \"")
			sb.WriteString(in.Title)
			sb.WriteString("\"")
		}
		sb.WriteString(")")
	case *mdast.LinkReference:
		text := mdInlines(in.Content)
		label := mdInlines(in.Label)
		if text == label {
			sb.WriteString("[")
			sb.WriteString(text)
			sb.WriteString("]")
		} else {
			sb.WriteString("[")
			sb.WriteString(text)
			sb.WriteString("][")
			sb.WriteString(label)
			sb.WriteString("]")
		}
	case *mdast.Image:
		sb.WriteString("![")
		sb.WriteString(in.Alt)
		sb.WriteString("](")
		sb.WriteString(in.Destination)
		if in.Title != "" {
			sb.WriteString(" \"")
			sb.WriteString(in.Title)
			sb.WriteString("\"")
		}
		sb.WriteString(")")
		if in.Attr != nil {
			var parts []string
			if in.Attr.Width != "" {
				parts = append(parts, "width="+in.Attr.Width)
			}
			if in.Attr.Height != "" {
				parts = append(parts, "height="+in.Attr.Height)
			}
			if len(parts) > 0 {
				sb.WriteString("{")
				sb.WriteString(strings.Join(parts, " "))
				sb.WriteString("}")
			}
		}
	case *mdast.Emphasis:
		sb.WriteString("*")
		sb.WriteString(mdInlines(in.Content))
		sb.WriteString("*")
	case *mdast.Strong:
		sb.WriteString("**")
		sb.WriteString(mdInlines(in.Content))
		sb.WriteString("**")
	case *mdast.Strikethrough:
		sb.WriteString("~~")
		sb.WriteString(mdInlines(in.Content))
		sb.WriteString("~~")
	case *mdast.Autolink:
		sb.WriteString("<")
		sb.WriteString(in.URL)
		sb.WriteString(">")
	case *mdast.FootnoteReference:
		sb.WriteString("[^")
		sb.WriteString(in.Label)
		sb.WriteString("]")
	case *mdast.EmptyInline:
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
