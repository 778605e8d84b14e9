package parser

import (
	"regexp"
	"strings"

	"github.com/hesusruiz/mdpp/mdast"
)

// Pipe tables, GFM-shaped with two extensions:
//
//   - a zero-width cell written as `||` merges into the cell on its
//     left, raising that cell's colspan;
//   - a body cell containing exactly `^^` merges into the cell above,
//     raising that cell's rowspan.
//
// Merged-away cells stay in the row with RemovedByExtendedTable set so
// that every row still lines up against the alignment list.

var tableDelimCellRegexp = regexp.MustCompile(`^:?-+:?$`)

func (p *blockParser) tryTable() bool {
	if p.pos+1 >= len(p.lines) {
		return false
	}
	header := p.lines[p.pos]
	if indentWidth(header) > 3 || !strings.ContainsRune(header, '|') {
		return false
	}
	aligns, ok := parseDelimiterRow(p.lines[p.pos+1])
	if !ok {
		return false
	}
	headerCells := splitRow(header)
	if len(headerCells) != len(aligns) {
		return false
	}
	p.pos += 2

	rows := [][]mdast.TableCell{makeRow(headerCells, len(aligns))}
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		if isBlank(line) || !strings.ContainsRune(line, '|') {
			break
		}
		rows = append(rows, makeRow(splitRow(line), len(aligns)))
		p.pos++
	}
	resolveSpans(rows)
	p.out = append(p.out, &mdast.Table{Rows: rows, Alignments: aligns})
	return true
}

func parseDelimiterRow(line string) ([]mdast.Alignment, bool) {
	if indentWidth(line) > 3 {
		return nil, false
	}
	trimmed := strings.TrimSpace(line)
	if !strings.ContainsRune(trimmed, '|') && !tableDelimCellRegexp.MatchString(trimmed) {
		return nil, false
	}
	cells := splitRow(line)
	if len(cells) == 0 {
		return nil, false
	}
	aligns := make([]mdast.Alignment, 0, len(cells))
	for _, c := range cells {
		c = strings.TrimSpace(c)
		if !tableDelimCellRegexp.MatchString(c) {
			return nil, false
		}
		switch {
		case strings.HasPrefix(c, ":") && strings.HasSuffix(c, ":"):
			aligns = append(aligns, mdast.AlignCenter)
		case strings.HasSuffix(c, ":"):
			aligns = append(aligns, mdast.AlignRight)
		case strings.HasPrefix(c, ":"):
			aligns = append(aligns, mdast.AlignLeft)
		default:
			aligns = append(aligns, mdast.AlignNone)
		}
	}
	return aligns, true
}

// splitRow splits a table line on unescaped pipes, dropping the outer
// empty fields produced by leading/trailing pipes. Cell text keeps its
// surrounding spaces; the distinction between `||` (a merge) and `| |`
// (a genuinely empty cell) depends on them.
func splitRow(line string) []string {
	line = strings.TrimLeft(line, " ")
	var cells []string
	var cur strings.Builder
	start := 0
	if strings.HasPrefix(line, "|") {
		start = 1
	}
	for i := start; i < len(line); i++ {
		switch line[i] {
		case '\\':
			if i+1 < len(line) && line[i+1] == '|' {
				cur.WriteByte('|')
				i++
			} else {
				cur.WriteByte('\\')
			}
		case '|':
			cells = append(cells, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(line[i])
		}
	}
	last := strings.TrimRight(cur.String(), " \t")
	if last != "" || !strings.HasSuffix(strings.TrimRight(line, " \t"), "|") {
		cells = append(cells, last)
	}
	return cells
}

// makeRow builds cells for one line, padding or truncating to the
// column count of the delimiter row.
func makeRow(raw []string, columns int) []mdast.TableCell {
	row := make([]mdast.TableCell, 0, columns)
	for i := 0; i < columns; i++ {
		cell := mdast.TableCell{Colspan: 1, Rowspan: 1}
		if i < len(raw) {
			text := raw[i]
			switch {
			case text == "":
				// Zero-width cell: absorbed by the cell to its left.
				cell.RemovedByExtendedTable = true
				cell.Colspan = 0
				cell.Rowspan = 0
			case strings.TrimSpace(text) == "^^":
				// Merges with the cell above; resolved per column later.
				cell.RemovedByExtendedTable = true
				cell.Colspan = 0
				cell.Rowspan = 0
				cell.Content = ParseInlines("^^")
			default:
				cell.Content = ParseInlines(strings.TrimSpace(text))
			}
		}
		row = append(row, cell)
	}
	return row
}

// resolveSpans walks the rectangular matrix and accumulates colspans
// (left neighbor) and rowspans (upper neighbor) onto the owning cells,
// blanking the absorbed ones.
func resolveSpans(rows [][]mdast.TableCell) {
	for ri := range rows {
		for ci := range rows[ri] {
			cell := &rows[ri][ci]
			if !cell.RemovedByExtendedTable {
				continue
			}
			if isRowspanMark(cell) && ri > 0 {
				if owner := spanOwnerAbove(rows, ri, ci); owner != nil {
					owner.Rowspan++
					cell.Content = nil
					continue
				}
			}
			cell.Content = nil
			if owner := spanOwnerLeft(rows[ri], ci); owner != nil {
				owner.Colspan++
			}
		}
	}
}

func isRowspanMark(cell *mdast.TableCell) bool {
	if len(cell.Content) != 1 {
		return false
	}
	t, ok := cell.Content[0].(*mdast.Text)
	return ok && t.Text == "^^"
}

func spanOwnerLeft(row []mdast.TableCell, ci int) *mdast.TableCell {
	for i := ci - 1; i >= 0; i-- {
		if !row[i].RemovedByExtendedTable {
			return &row[i]
		}
	}
	return nil
}

func spanOwnerAbove(rows [][]mdast.TableCell, ri, ci int) *mdast.TableCell {
	for i := ri - 1; i >= 0; i-- {
		if !rows[i][ci].RemovedByExtendedTable {
			return &rows[i][ci]
		}
	}
	return nil
}
