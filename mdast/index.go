package mdast

import (
	"strconv"
	"strings"
)

// Indices are the deferred-resolution lookup tables built from a parsed
// document. LinkReference and FootnoteReference nodes stay unresolved in
// the tree; renderers resolve them here at render time. A label missing
// from its map is not an error: the renderer falls back to the literal
// bracket form.
type Indices struct {
	// FootnoteNumbers assigns 1-based numbers to footnote labels in
	// document order of their definitions.
	FootnoteNumbers map[string]int
	// FootnoteDefs maps a footnote label to its definition.
	FootnoteDefs map[string]*FootnoteDefinition
	// LinkDefs maps LabelKey of a definition's raw label to the
	// definition.
	LinkDefs map[string]*LinkDefinition
}

// BuildIndices walks doc in pre-order, descending into block quotes,
// lists, alerts, containers and footnote bodies, and collects every
// footnote and link definition. Later definitions with a duplicate label
// do not displace earlier ones.
func BuildIndices(doc *Document) *Indices {
	idx := &Indices{
		FootnoteNumbers: make(map[string]int),
		FootnoteDefs:    make(map[string]*FootnoteDefinition),
		LinkDefs:        make(map[string]*LinkDefinition),
	}
	idx.collect(doc.Blocks)
	return idx
}

func (idx *Indices) collect(blocks []Block) {
	for _, b := range blocks {
		switch b := b.(type) {
		case *FootnoteDefinition:
			if _, ok := idx.FootnoteDefs[b.Label]; !ok {
				idx.FootnoteDefs[b.Label] = b
				idx.FootnoteNumbers[b.Label] = len(idx.FootnoteNumbers) + 1
			}
			idx.collect(b.Blocks)
		case *LinkDefinition:
			key := LabelKey(b.Label)
			if _, ok := idx.LinkDefs[key]; !ok {
				idx.LinkDefs[key] = b
			}
		case *BlockQuote:
			idx.collect(b.Blocks)
		case *GitHubAlert:
			idx.collect(b.Blocks)
		case *Container:
			idx.collect(b.Blocks)
		case *List:
			for _, item := range b.Items {
				idx.collect(item.Blocks)
			}
		}
	}
}

// ResolveLink looks up a reference label. The second result reports
// whether a definition exists; callers render the literal fallback when
// it does not.
func (idx *Indices) ResolveLink(label []Inline) (*LinkDefinition, bool) {
	def, ok := idx.LinkDefs[LabelKey(label)]
	return def, ok
}

// LabelKey serializes an inline sequence into a comparison key for
// reference-label matching. Matching is structural over the raw inlines:
// node kinds and contents must coincide exactly. In particular there is
// no case folding, so `[Ex]` and `[ex]` are different labels.
func LabelKey(label []Inline) string {
	var sb strings.Builder
	labelKey(&sb, label)
	return sb.String()
}

func labelKey(sb *strings.Builder, inlines []Inline) {
	for _, in := range inlines {
		switch in := in.(type) {
		case *Text:
			keyPart(sb, "t", in.Text)
		case *Code:
			keyPart(sb, "c", in.Literal)
		case *Latex:
			keyPart(sb, "m", in.Literal)
		case *HTML:
			keyPart(sb, "h", in.Literal)
		case *Autolink:
			keyPart(sb, "a", in.URL)
		case *FootnoteReference:
			keyPart(sb, "f", in.Label)
		case *LineBreak:
			sb.WriteString("b;")
		case *Emphasis:
			sb.WriteString("e(")
			labelKey(sb, in.Content)
			sb.WriteString(")")
		case *Strong:
			sb.WriteString("s(")
			labelKey(sb, in.Content)
			sb.WriteString(")")
		case *Strikethrough:
			sb.WriteString("d(")
			labelKey(sb, in.Content)
			sb.WriteString(")")
		case *Link:
			keyPart(sb, "l", in.Destination)
			sb.WriteString("(")
			labelKey(sb, in.Content)
			sb.WriteString(")")
		case *LinkReference:
			sb.WriteString("r(")
			labelKey(sb, in.Label)
			sb.WriteString(")(")
			labelKey(sb, in.Content)
			sb.WriteString(")")
		case *Image:
			keyPart(sb, "i", in.Destination)
			keyPart(sb, "", in.Alt)
		case *EmptyInline:
		}
	}
}

func keyPart(sb *strings.Builder, tag, s string) {
	sb.WriteString(tag)
	sb.WriteString(strconv.Itoa(len(s)))
	sb.WriteString(":")
	sb.WriteString(s)
	sb.WriteString(";")
}
