// Package mdast defines the document tree produced by the parser and
// consumed by the renderers: a Document of Block nodes, where leaf text
// content is a sequence of Inline nodes. The two node families are
// closed sets; every consumer can switch exhaustively over them.
//
// Nodes are immutable once constructed. The parser is the only producer;
// anything downstream that needs a modified tree rebuilds nodes through
// the Transformer instead of mutating in place.
package mdast

// Document is the root of a parsed tree. It owns all of its content.
type Document struct {
	Blocks []Block
}

// Block is a block-level node. The set of implementations is closed.
type Block interface {
	block()
}

// Inline is an inline-level node. The set of implementations is closed.
type Inline interface {
	inline()
}

// HeadingKind distinguishes ATX (`# ...`) from Setext (underlined) headings.
type HeadingKind int

const (
	Atx HeadingKind = iota
	Setext
)

// ListKind distinguishes ordered from bullet lists.
type ListKind int

const (
	Bullet ListKind = iota
	Ordered
)

// TaskState is the checkbox state of a task-list item.
type TaskState int

const (
	NoTask TaskState = iota
	TaskIncomplete
	TaskComplete
)

// CodeKind distinguishes fenced from indented code blocks.
type CodeKind int

const (
	Fenced CodeKind = iota
	Indented
)

// Alignment is a table column alignment taken from the delimiter row.
type Alignment int

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// AlertType is the kind marker of a GitHub alert block quote.
type AlertType int

const (
	AlertNote AlertType = iota
	AlertTip
	AlertImportant
	AlertWarning
	AlertCaution
	AlertCustom
)

// Paragraph is a run of inline content terminated by a blank line or by
// the start of another block.
type Paragraph struct {
	Content []Inline
}

// Heading is an ATX or Setext heading. Level is 1-6 for ATX and 1-2 for
// Setext.
type Heading struct {
	Kind    HeadingKind
	Level   int
	Content []Inline
}

// ThematicBreak is a horizontal rule.
type ThematicBreak struct{}

// BlockQuote is a `>`-prefixed region reparsed as blocks.
type BlockQuote struct {
	Blocks []Block
}

// List holds ordered or bullet items. Start is the first ordinal of an
// ordered list. Marker is the bullet character (`-`, `+` or `*`) or the
// ordinal terminator (`.` or `)`); the Markdown renderer round-trips it.
type List struct {
	Kind   ListKind
	Start  int
	Marker byte
	Items  []ListItem
}

// ListItem is one item of a List, with an optional task checkbox.
type ListItem struct {
	Task   TaskState
	Blocks []Block
}

// CodeBlock is a fenced or indented code block. Literal is the raw text
// with no escaping applied; renderers escape for their target format.
// Info is the fence info string ("" for indented blocks).
type CodeBlock struct {
	Kind    CodeKind
	Info    string
	Literal string
}

// HTMLBlock is a raw HTML block passed through verbatim.
type HTMLBlock struct {
	Literal string
}

// LatexBlock is a display-math block delimited by `$$`.
type LatexBlock struct {
	Literal string
}

// LinkDefinition is a reference-link definition. Label is the raw inline
// sequence as written; it is the lookup key, compared structurally and
// never case-folded.
type LinkDefinition struct {
	Label       []Inline
	Destination string
	Title       string
}

// FootnoteDefinition binds a plain-string label to a block body.
type FootnoteDefinition struct {
	Label  string
	Blocks []Block
}

// Table is a row-major cell matrix. Row 0 is the header row. Cells
// absorbed by a colspan/rowspan of a preceding cell stay in the matrix
// with RemovedByExtendedTable set, so every row indexes against
// Alignments without adjustment.
type Table struct {
	Rows       [][]TableCell
	Alignments []Alignment
}

// TableCell is one cell of a Table.
type TableCell struct {
	Content                []Inline
	Colspan                int
	Rowspan                int
	RemovedByExtendedTable bool
}

// GitHubAlert is a block quote carrying an `[!NOTE]`-style marker on its
// first line. CustomKind holds the marker word when Type is AlertCustom.
type GitHubAlert struct {
	Type       AlertType
	CustomKind string
	Blocks     []Block
}

// ContainerParam is one key/value pair from a container's `{...}` block.
// Order is preserved; duplicate keys are kept as written.
type ContainerParam struct {
	Key   string
	Value string
}

// Container is the `:::kind{params} ... :::` block extension.
type Container struct {
	Kind   string
	Params []ContainerParam
	Blocks []Block
}

// Empty is a block with no content. The parser never emits it; it exists
// so transformers can blank a node without disturbing sibling indices.
type Empty struct{}

func (*Paragraph) block()          {}
func (*Heading) block()            {}
func (*ThematicBreak) block()      {}
func (*BlockQuote) block()         {}
func (*List) block()               {}
func (*CodeBlock) block()          {}
func (*HTMLBlock) block()          {}
func (*LatexBlock) block()         {}
func (*LinkDefinition) block()     {}
func (*FootnoteDefinition) block() {}
func (*Table) block()              {}
func (*GitHubAlert) block()        {}
func (*Container) block()          {}
func (*Empty) block()              {}

// Text is a literal text run. Soft line breaks inside a paragraph are
// kept as "\n" within the run.
type Text struct {
	Text string
}

// LineBreak is a hard line break (backslash or two-space form).
type LineBreak struct{}

// Code is an inline code span with delimiters stripped.
type Code struct {
	Literal string
}

// Latex is an inline math span delimited by `$`.
type Latex struct {
	Literal string
}

// HTML is a raw inline HTML tag, comment or similar construct.
type HTML struct {
	Literal string
}

// Link is an inline link with an explicit destination.
type Link struct {
	Content     []Inline
	Destination string
	Title       string
}

// LinkReference is an unresolved reference link. Label is the lookup key
// (raw inline sequence, structural comparison); Content is what renders
// whether or not the label resolves.
type LinkReference struct {
	Label   []Inline
	Content []Inline
}

// ImageAttr is the optional `{width=... height=...}` block after an
// image. Values carry their raw unit text, e.g. "100pt".
type ImageAttr struct {
	Width  string
	Height string
}

// Image is an inline image, optionally with a trailing attribute block.
type Image struct {
	Alt         string
	Destination string
	Title       string
	Attr        *ImageAttr
}

// Emphasis wraps content in single-delimiter emphasis.
type Emphasis struct {
	Content []Inline
}

// Strong wraps content in double-delimiter emphasis.
type Strong struct {
	Content []Inline
}

// Strikethrough wraps content in `~~` delimiters.
type Strikethrough struct {
	Content []Inline
}

// Autolink is a `<scheme:...>` or bare-URL autolink.
type Autolink struct {
	URL string
}

// FootnoteReference is an unresolved `[^label]` reference.
type FootnoteReference struct {
	Label string
}

// EmptyInline is the inline counterpart of Empty.
type EmptyInline struct{}

func (*Text) inline()              {}
func (*LineBreak) inline()         {}
func (*Code) inline()              {}
func (*Latex) inline()             {}
func (*HTML) inline()              {}
func (*Link) inline()              {}
func (*LinkReference) inline()     {}
func (*Image) inline()             {}
func (*Emphasis) inline()          {}
func (*Strong) inline()            {}
func (*Strikethrough) inline()     {}
func (*Autolink) inline()          {}
func (*FootnoteReference) inline() {}
func (*EmptyInline) inline()       {}
