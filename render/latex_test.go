package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hesusruiz/mdpp/mdast"
)

func renderLaTeX(t *testing.T, src string, cfg Config) string {
	t.Helper()
	doc := reparse(t, src)
	return LaTeX(doc, mdast.BuildIndices(doc), cfg)
}

func TestLatexEscape(t *testing.T) {
	assert.Equal(t, `Tom \& Jerry 100\%`, latexEscape("Tom & Jerry 100%"))
	assert.Equal(t, `a\_b \{c\} \$5 \#x`, latexEscape("a_b {c} $5 #x"))
	assert.Equal(t, `\textasciitilde{}\textasciicircum{}\textbackslash{}`, latexEscape(`~^\`))
}

func TestLatexBlocks(t *testing.T) {
	out := renderLaTeX(t, "# Top\n\n## Sub\n\nPlain **bold** and *soft*.\n", NewConfig())
	assert.Contains(t, out, `\section{Top}`)
	assert.Contains(t, out, `\subsection{Sub}`)
	assert.Contains(t, out, `\textbf{bold}`)
	assert.Contains(t, out, `\emph{soft}`)

	out = renderLaTeX(t, "> quoted\n", NewConfig())
	assert.Contains(t, out, "\\begin{quote}\nquoted")
}

func TestLatexCodeStyles(t *testing.T) {
	src := "```go\nx := 1\n```\n"

	out := renderLaTeX(t, src, NewConfig())
	assert.Contains(t, out, "\\begin{verbatim}\nx := 1\n\\end{verbatim}")

	out = renderLaTeX(t, src, NewConfig().WithCodeBlockStyle(Listings))
	assert.Contains(t, out, `\begin{lstlisting}[language=go]`)

	out = renderLaTeX(t, src, NewConfig().WithCodeBlockStyle(Minted))
	assert.Contains(t, out, `\begin{minted}{go}`)
}

func TestLatexTableStyles(t *testing.T) {
	src := "| a | b |\n|:--|--:|\n| 1 | 2 |\n"

	out := renderLaTeX(t, src, NewConfig())
	assert.Contains(t, out, `\begin{tabular}{lr}`)
	assert.Contains(t, out, `\hline`)

	out = renderLaTeX(t, src, NewConfig().WithTableStyle(Booktabs))
	assert.Contains(t, out, `\toprule`)
	assert.Contains(t, out, `\midrule`)
	assert.Contains(t, out, `\bottomrule`)

	out = renderLaTeX(t, src, NewConfig().WithTableStyle(Longtabu))
	assert.Contains(t, out, `\begin{longtabu}{lr}`)
}

func TestLatexTableSpans(t *testing.T) {
	out := renderLaTeX(t, "| a || b |\n|---|---|---|\n", NewConfig())
	assert.Contains(t, out, `\multicolumn{2}{l}{a}`)

	out = renderLaTeX(t, "| a || b |\n|:-:|:-:|---|\n", NewConfig())
	assert.Contains(t, out, `\multicolumn{2}{c}{a}`)

	out = renderLaTeX(t, "| a | b |\n|---|---|\n| ^^ | c |\n", NewConfig())
	assert.Contains(t, out, `\multirow{2}{*}{a}`)
}

func TestLatexFootnotesInline(t *testing.T) {
	out := renderLaTeX(t, "claim[^1]\n\n[^1]: proof here\n", NewConfig())
	require.Contains(t, out, `\footnote{proof here}`)

	out = renderLaTeX(t, "claim[^missing]\n", NewConfig())
	assert.Contains(t, out, `[\textasciicircum{}missing]`)
}

func TestLatexLinksAndURLs(t *testing.T) {
	out := renderLaTeX(t, "[go](https://x/100%)\n", NewConfig())
	assert.Contains(t, out, `\href{https://x/100\%}{go}`)

	out = renderLaTeX(t, "see <https://example.org>\n", NewConfig())
	assert.Contains(t, out, `\url{https://example.org}`)
}
