package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hesusruiz/mdpp/mdast"
)

func parseTable(t *testing.T, src string) *mdast.Table {
	t.Helper()
	doc := mustParse(t, src)
	if len(doc.Blocks) == 0 {
		t.Fatalf("no blocks parsed from %q", src)
	}
	table, ok := doc.Blocks[0].(*mdast.Table)
	if !ok {
		t.Fatalf("expected a table, got %T", doc.Blocks[0])
	}
	return table
}

func TestTableAlignments(t *testing.T) {
	table := parseTable(t, "| a | b | c | d |\n| --- | :-- | :-: | --: |\n")
	want := []mdast.Alignment{mdast.AlignNone, mdast.AlignLeft, mdast.AlignCenter, mdast.AlignRight}
	if diff := cmp.Diff(want, table.Alignments); diff != "" {
		t.Errorf("alignments mismatch (-want +got):\n%s", diff)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("expected only the header row, got %d rows", len(table.Rows))
	}
}

func TestTableColspan(t *testing.T) {
	table := parseTable(t, "| a || b |\n|---|---|---|\n| 1 | 2 | 3 |\n")

	header := table.Rows[0]
	if len(header) != len(table.Alignments) {
		t.Fatalf("header has %d cells for %d columns", len(header), len(table.Alignments))
	}
	if header[0].Colspan != 2 {
		t.Errorf("cell 0 colspan = %d, want 2", header[0].Colspan)
	}
	if !header[1].RemovedByExtendedTable {
		t.Error("cell 1 must be marked as absorbed")
	}
	if header[1].Content != nil {
		t.Errorf("absorbed cell kept content %v", header[1].Content)
	}
	if header[2].Colspan != 1 {
		t.Errorf("cell 2 colspan = %d, want 1", header[2].Colspan)
	}
}

func TestTableRowspan(t *testing.T) {
	table := parseTable(t, "| a | b |\n|---|---|\n| ^^ | c |\n| ^^ | d |\n")

	if got := table.Rows[0][0].Rowspan; got != 3 {
		t.Errorf("header cell rowspan = %d, want 3", got)
	}
	for ri := 1; ri < 3; ri++ {
		cell := table.Rows[ri][0]
		if !cell.RemovedByExtendedTable {
			t.Errorf("row %d cell 0 must be absorbed upward", ri)
		}
		if cell.Content != nil {
			t.Errorf("row %d absorbed cell kept content %v", ri, cell.Content)
		}
	}
}

func TestTableEmptyCellIsNotAMerge(t *testing.T) {
	// `| |` holds an empty cell of its own; only `||` merges.
	table := parseTable(t, "| a | b |\n|---|---|\n| 1 | |\n")
	cell := table.Rows[1][1]
	if cell.RemovedByExtendedTable {
		t.Error("a spaced empty cell must not be treated as a merge")
	}
	if cell.Colspan != 1 {
		t.Errorf("colspan = %d, want 1", cell.Colspan)
	}
}

func TestTableRowPadding(t *testing.T) {
	table := parseTable(t, "| a | b | c |\n|---|---|---|\n| 1 | 2 |\n| 1 | 2 | 3 | 4 |\n")
	for ri, row := range table.Rows {
		if len(row) != 3 {
			t.Errorf("row %d has %d cells, want 3", ri, len(row))
		}
	}
}

func TestTableNeedsDelimiterRow(t *testing.T) {
	doc := mustParse(t, "| just | pipes |\nno delimiter here\n")
	for _, b := range doc.Blocks {
		if _, ok := b.(*mdast.Table); ok {
			t.Fatal("a header without a delimiter row must not become a table")
		}
	}
}

func TestTableEscapedPipe(t *testing.T) {
	table := parseTable(t, "| a \\| b | c |\n|---|---|\n")
	want := []mdast.Inline{&mdast.Text{Text: "a | b"}}
	if diff := cmp.Diff(want, table.Rows[0][0].Content); diff != "" {
		t.Errorf("escaped pipe cell mismatch (-want +got):\n%s", diff)
	}
}
