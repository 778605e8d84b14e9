package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hesusruiz/mdpp/mdast"
)

func renderTypst(t *testing.T, src string) string {
	t.Helper()
	doc := reparse(t, src)
	return Typst(doc, mdast.BuildIndices(doc), NewConfig())
}

func TestTypstEscape(t *testing.T) {
	assert.Equal(t, `a \* b \# c \[d\]`, typstEscape("a * b # c [d]"))
	assert.Equal(t, `\<tag\> \@ref \$x`, typstEscape("<tag> @ref $x"))
}

func TestTypstBlocks(t *testing.T) {
	out := renderTypst(t, "## Sub\n\nWith *em* and **st**.\n")
	assert.True(t, strings.HasPrefix(out, "== Sub\n"))
	assert.Contains(t, out, "#emph[em]")
	assert.Contains(t, out, "#strong[st]")

	out = renderTypst(t, "> quoted\n")
	assert.Contains(t, out, "#quote(block: true)[")

	out = renderTypst(t, "---\n")
	assert.Contains(t, out, "#line(length: 100%)")
}

func TestTypstLists(t *testing.T) {
	out := renderTypst(t, "3. a\n4. b\n")
	assert.Contains(t, out, "3. a")
	assert.Contains(t, out, "4. b")

	out = renderTypst(t, "- [ ] open\n- [x] done\n")
	assert.Contains(t, out, "- ☐ open")
	assert.Contains(t, out, "- ☑ done")
}

func TestTypstTableSpans(t *testing.T) {
	out := renderTypst(t, "| a || b |\n|---|:-:|--:|\n| 1 | 2 | 3 |\n")
	assert.Contains(t, out, "columns: 3")
	assert.Contains(t, out, "align: (left, center, right)")
	assert.Contains(t, out, "table.cell(colspan: 2)[*a*]")

	out = renderTypst(t, "| a | b |\n|---|---|\n| ^^ | c |\n")
	assert.Contains(t, out, "table.cell(rowspan: 2)[*a*]")
}

func TestTypstLinksAndFootnotes(t *testing.T) {
	out := renderTypst(t, "[go](https://x)\n")
	assert.Contains(t, out, `#link("https://x")[go]`)

	out = renderTypst(t, "claim[^1]\n\n[^1]: proof\n")
	assert.Contains(t, out, "#footnote[proof]")

	out = renderTypst(t, "see <https://example.org>\n")
	assert.Contains(t, out, `#link("https://example.org")`)
}

func TestTypstCodeAndMath(t *testing.T) {
	out := renderTypst(t, "```go\nx := 1\n```\n")
	assert.Contains(t, out, "```go\nx := 1\n```")

	out = renderTypst(t, "$$\na + b\n$$\n")
	assert.Contains(t, out, "$ a + b $")
}
