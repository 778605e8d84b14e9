package mdast

// Transformer rebuilds a document bottom-up. Every field is optional.
// Children are transformed first; then the node, rebuilt around its new
// children, is handed to the matching func. A func returning nil removes
// the node from its parent's list. A Transformer with no funcs set is
// the identity: it returns a structurally equal copy of the input.
//
// ExpandBlock and ExpandInline allow one node to become zero or more
// nodes wherever a node list occurs; they run after the corresponding
// single-node func and see its result.
type Transformer struct {
	Block  func(Block) Block
	Inline func(Inline) Inline

	ExpandBlock  func(Block) []Block
	ExpandInline func(Inline) []Inline
}

// Transform rebuilds doc. The input document is not modified.
func (t *Transformer) Transform(doc *Document) *Document {
	return &Document{Blocks: t.TransformBlocks(doc.Blocks)}
}

// TransformBlocks rebuilds a block list, applying expansion.
func (t *Transformer) TransformBlocks(blocks []Block) []Block {
	out := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		nb := t.transformBlock(b)
		if nb == nil {
			continue
		}
		if t.ExpandBlock != nil {
			out = append(out, t.ExpandBlock(nb)...)
		} else {
			out = append(out, nb)
		}
	}
	return out
}

func (t *Transformer) transformBlock(b Block) Block {
	var nb Block
	switch b := b.(type) {
	case *Paragraph:
		nb = &Paragraph{Content: t.TransformInlines(b.Content)}
	case *Heading:
		nb = &Heading{Kind: b.Kind, Level: b.Level, Content: t.TransformInlines(b.Content)}
	case *ThematicBreak:
		nb = &ThematicBreak{}
	case *BlockQuote:
		nb = &BlockQuote{Blocks: t.TransformBlocks(b.Blocks)}
	case *List:
		items := make([]ListItem, 0, len(b.Items))
		for _, item := range b.Items {
			items = append(items, ListItem{Task: item.Task, Blocks: t.TransformBlocks(item.Blocks)})
		}
		nb = &List{Kind: b.Kind, Start: b.Start, Marker: b.Marker, Items: items}
	case *CodeBlock:
		cp := *b
		nb = &cp
	case *HTMLBlock:
		cp := *b
		nb = &cp
	case *LatexBlock:
		cp := *b
		nb = &cp
	case *LinkDefinition:
		nb = &LinkDefinition{Label: t.TransformInlines(b.Label), Destination: b.Destination, Title: b.Title}
	case *FootnoteDefinition:
		nb = &FootnoteDefinition{Label: b.Label, Blocks: t.TransformBlocks(b.Blocks)}
	case *Table:
		rows := make([][]TableCell, 0, len(b.Rows))
		for _, row := range b.Rows {
			nrow := make([]TableCell, 0, len(row))
			for _, cell := range row {
				cell.Content = t.TransformInlines(cell.Content)
				nrow = append(nrow, cell)
			}
			rows = append(rows, nrow)
		}
		aligns := make([]Alignment, len(b.Alignments))
		copy(aligns, b.Alignments)
		nb = &Table{Rows: rows, Alignments: aligns}
	case *GitHubAlert:
		nb = &GitHubAlert{Type: b.Type, CustomKind: b.CustomKind, Blocks: t.TransformBlocks(b.Blocks)}
	case *Container:
		params := make([]ContainerParam, len(b.Params))
		copy(params, b.Params)
		nb = &Container{Kind: b.Kind, Params: params, Blocks: t.TransformBlocks(b.Blocks)}
	case *Empty:
		nb = &Empty{}
	default:
		nb = b
	}
	if t.Block != nil {
		nb = t.Block(nb)
	}
	return nb
}

// TransformInlines rebuilds an inline list, applying expansion.
func (t *Transformer) TransformInlines(inlines []Inline) []Inline {
	out := make([]Inline, 0, len(inlines))
	for _, in := range inlines {
		ni := t.transformInline(in)
		if ni == nil {
			continue
		}
		if t.ExpandInline != nil {
			out = append(out, t.ExpandInline(ni)...)
		} else {
			out = append(out, ni)
		}
	}
	return out
}

func (t *Transformer) transformInline(in Inline) Inline {
	var ni Inline
	switch in := in.(type) {
	case *Text:
		cp := *in
		ni = &cp
	case *LineBreak:
		ni = &LineBreak{}
	case *Code:
		cp := *in
		ni = &cp
	case *Latex:
		cp := *in
		ni = &cp
	case *HTML:
		cp := *in
		ni = &cp
	case *Link:
		ni = &Link{Content: t.TransformInlines(in.Content), Destination: in.Destination, Title: in.Title}
	case *LinkReference:
		ni = &LinkReference{Label: t.TransformInlines(in.Label), Content: t.TransformInlines(in.Content)}
	case *Image:
		cp := *in
		if in.Attr != nil {
			attr := *in.Attr
			cp.Attr = &attr
		}
		ni = &cp
	case *Emphasis:
		ni = &Emphasis{Content: t.TransformInlines(in.Content)}
	case *Strong:
		ni = &Strong{Content: t.TransformInlines(in.Content)}
	case *Strikethrough:
		ni = &Strikethrough{Content: t.TransformInlines(in.Content)}
	case *Autolink:
		cp := *in
		ni = &cp
	case *FootnoteReference:
		cp := *in
		ni = &cp
	case *EmptyInline:
		ni = &EmptyInline{}
	default:
		ni = in
	}
	if t.Inline != nil {
		ni = t.Inline(ni)
	}
	return ni
}
