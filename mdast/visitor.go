package mdast

// Visitor walks a document read-only. Every field is optional: a nil
// func means "descend into children". A func returning false prunes the
// walk below its node (children are skipped); returning true continues
// with the default descent.
//
// The generic Block and Inline funcs fire for every node of their family
// before the kind-specific func, so a visitor can mix a catch-all with a
// handful of overrides.
type Visitor struct {
	Document func(*Document) bool
	Block    func(Block) bool
	Inline   func(Inline) bool

	Heading            func(*Heading) bool
	ListItem           func(*ListItem) bool
	CodeBlock          func(*CodeBlock) bool
	Table              func(*Table) bool
	TableCell          func(*TableCell) bool
	FootnoteDefinition func(*FootnoteDefinition) bool
	GitHubAlert        func(*GitHubAlert) bool
	Container          func(*Container) bool

	Text  func(*Text) bool
	Link  func(*Link) bool
	Image func(*Image) bool
}

// Walk traverses doc in pre-order.
func (v *Visitor) Walk(doc *Document) {
	if v.Document != nil && !v.Document(doc) {
		return
	}
	v.walkBlocks(doc.Blocks)
}

func (v *Visitor) walkBlocks(blocks []Block) {
	for _, b := range blocks {
		v.walkBlock(b)
	}
}

func (v *Visitor) walkBlock(b Block) {
	if v.Block != nil && !v.Block(b) {
		return
	}
	switch b := b.(type) {
	case *Paragraph:
		v.walkInlines(b.Content)
	case *Heading:
		if v.Heading != nil && !v.Heading(b) {
			return
		}
		v.walkInlines(b.Content)
	case *BlockQuote:
		v.walkBlocks(b.Blocks)
	case *List:
		for i := range b.Items {
			item := &b.Items[i]
			if v.ListItem != nil && !v.ListItem(item) {
				continue
			}
			v.walkBlocks(item.Blocks)
		}
	case *CodeBlock:
		if v.CodeBlock != nil {
			v.CodeBlock(b)
		}
	case *LinkDefinition:
		v.walkInlines(b.Label)
	case *FootnoteDefinition:
		if v.FootnoteDefinition != nil && !v.FootnoteDefinition(b) {
			return
		}
		v.walkBlocks(b.Blocks)
	case *Table:
		if v.Table != nil && !v.Table(b) {
			return
		}
		for _, row := range b.Rows {
			for i := range row {
				cell := &row[i]
				if v.TableCell != nil && !v.TableCell(cell) {
					continue
				}
				v.walkInlines(cell.Content)
			}
		}
	case *GitHubAlert:
		if v.GitHubAlert != nil && !v.GitHubAlert(b) {
			return
		}
		v.walkBlocks(b.Blocks)
	case *Container:
		if v.Container != nil && !v.Container(b) {
			return
		}
		v.walkBlocks(b.Blocks)
	}
}

func (v *Visitor) walkInlines(inlines []Inline) {
	for _, in := range inlines {
		v.walkInline(in)
	}
}

func (v *Visitor) walkInline(in Inline) {
	if v.Inline != nil && !v.Inline(in) {
		return
	}
	switch in := in.(type) {
	case *Text:
		if v.Text != nil {
			v.Text(in)
		}
	case *Emphasis:
		v.walkInlines(in.Content)
	case *Strong:
		v.walkInlines(in.Content)
	case *Strikethrough:
		v.walkInlines(in.Content)
	case *Link:
		if v.Link != nil && !v.Link(in) {
			return
		}
		v.walkInlines(in.Content)
	case *LinkReference:
		v.walkInlines(in.Label)
		v.walkInlines(in.Content)
	case *Image:
		if v.Image != nil {
			v.Image(in)
		}
	}
}
