// Package generic overlays a parsed document with one auxiliary payload
// per node. The overlay mirrors the tree shape without copying node
// contents, so attaching and stripping are cheap and Strip always
// returns the exact document the overlay was built from.
package generic

import "github.com/hesusruiz/mdpp/mdast"

// Node is one overlay node: the underlying document node plus a payload.
// Exactly one of Doc, Block or Inline is non-nil depending on position
// in the tree; Children mirror the underlying node's child lists in
// order (for tables, row-major; for lists, item bodies flattened per
// item in order).
type Node[T any] struct {
	Doc    *mdast.Document
	Block  mdast.Block
	Inline mdast.Inline

	Data     T
	Children []*Node[T]
}

// Attach builds an overlay for doc with zero-valued payloads.
func Attach[T any](doc *mdast.Document) *Node[T] {
	root := &Node[T]{Doc: doc}
	for _, b := range doc.Blocks {
		root.Children = append(root.Children, attachBlock[T](b))
	}
	return root
}

func attachBlock[T any](b mdast.Block) *Node[T] {
	n := &Node[T]{Block: b}
	switch b := b.(type) {
	case *mdast.Paragraph:
		n.attachInlines(b.Content)
	case *mdast.Heading:
		n.attachInlines(b.Content)
	case *mdast.BlockQuote:
		n.attachBlocks(b.Blocks)
	case *mdast.List:
		for _, item := range b.Items {
			n.attachBlocks(item.Blocks)
		}
	case *mdast.LinkDefinition:
		n.attachInlines(b.Label)
	case *mdast.FootnoteDefinition:
		n.attachBlocks(b.Blocks)
	case *mdast.Table:
		for _, row := range b.Rows {
			for _, cell := range row {
				n.attachInlines(cell.Content)
			}
		}
	case *mdast.GitHubAlert:
		n.attachBlocks(b.Blocks)
	case *mdast.Container:
		n.attachBlocks(b.Blocks)
	}
	return n
}

func attachInline[T any](in mdast.Inline) *Node[T] {
	n := &Node[T]{Inline: in}
	switch in := in.(type) {
	case *mdast.Emphasis:
		n.attachInlines(in.Content)
	case *mdast.Strong:
		n.attachInlines(in.Content)
	case *mdast.Strikethrough:
		n.attachInlines(in.Content)
	case *mdast.Link:
		n.attachInlines(in.Content)
	case *mdast.LinkReference:
		n.attachInlines(in.Label)
		n.attachInlines(in.Content)
	}
	return n
}

func (n *Node[T]) attachBlocks(blocks []mdast.Block) {
	for _, b := range blocks {
		n.Children = append(n.Children, attachBlock[T](b))
	}
}

func (n *Node[T]) attachInlines(inlines []mdast.Inline) {
	for _, in := range inlines {
		n.Children = append(n.Children, attachInline[T](in))
	}
}

// Strip returns the underlying document. Valid only on the root node.
func (n *Node[T]) Strip() *mdast.Document {
	return n.Doc
}

// Walk visits the overlay in pre-order. Returning false from f prunes
// the subtree below that node.
func (n *Node[T]) Walk(f func(*Node[T]) bool) {
	if !f(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(f)
	}
}

// Map rebuilds an overlay with payloads of a different type. The
// underlying document nodes are shared, not copied.
func Map[T, U any](n *Node[T], f func(T) U) *Node[U] {
	out := &Node[U]{Doc: n.Doc, Block: n.Block, Inline: n.Inline, Data: f(n.Data)}
	for _, c := range n.Children {
		out.Children = append(out.Children, Map(c, f))
	}
	return out
}
