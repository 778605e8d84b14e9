// Package render holds the output backends that consume a parsed
// document: Markdown pretty-printing, HTML, LaTeX and Typst. Renderers
// never resolve references themselves; they go through mdast.Indices
// and fall back to the literal bracket form on a miss.
package render

// TableStyle selects the LaTeX environment used for tables.
type TableStyle int

const (
	Tabular TableStyle = iota
	Longtabu
	Booktabs
)

// CodeBlockStyle selects the LaTeX environment used for code blocks.
type CodeBlockStyle int

const (
	Verbatim CodeBlockStyle = iota
	Listings
	Minted
)

// Config carries renderer options. The zero value is not the default;
// use NewConfig and the With methods.
type Config struct {
	// Width is the target line width of the Markdown printer.
	Width int
	// TableStyle and CodeBlockStyle apply to the LaTeX backend.
	TableStyle     TableStyle
	CodeBlockStyle CodeBlockStyle
	// HighlightStyle is the chroma style name used by the HTML backend.
	HighlightStyle string
	// Diagrams enables rendering of fenced `d2` blocks to inline SVG in
	// the HTML backend. Without it they stay ordinary code blocks.
	Diagrams bool
}

// NewConfig returns the default configuration: width 80, tabular
// tables, verbatim code, github highlight style.
func NewConfig() Config {
	return Config{Width: 80, TableStyle: Tabular, CodeBlockStyle: Verbatim, HighlightStyle: "github"}
}

func (c Config) WithWidth(w int) Config {
	c.Width = w
	return c
}

func (c Config) WithTableStyle(s TableStyle) Config {
	c.TableStyle = s
	return c
}

func (c Config) WithCodeBlockStyle(s CodeBlockStyle) Config {
	c.CodeBlockStyle = s
	return c
}

func (c Config) WithHighlightStyle(name string) Config {
	c.HighlightStyle = name
	return c
}

func (c Config) WithDiagrams(on bool) Config {
	c.Diagrams = on
	return c
}
