package generic

import (
	"strconv"
	"testing"

	"github.com/hesusruiz/mdpp/mdast"
)

func overlayDoc() *mdast.Document {
	return &mdast.Document{Blocks: []mdast.Block{
		&mdast.Heading{Kind: mdast.Atx, Level: 1, Content: []mdast.Inline{
			&mdast.Text{Text: "Title"},
		}},
		&mdast.Paragraph{Content: []mdast.Inline{
			&mdast.Text{Text: "a "},
			&mdast.Emphasis{Content: []mdast.Inline{&mdast.Text{Text: "b"}}},
		}},
	}}
}

func TestAttachStripRoundTrip(t *testing.T) {
	doc := overlayDoc()
	root := Attach[int](doc)
	if root.Strip() != doc {
		t.Error("Strip must return the exact document the overlay was built from")
	}
	if len(root.Children) != 2 {
		t.Fatalf("root has %d children, want 2", len(root.Children))
	}
	if root.Children[0].Block != doc.Blocks[0] {
		t.Error("overlay must alias the underlying block, not copy it")
	}
}

func TestOverlayShape(t *testing.T) {
	root := Attach[struct{}](overlayDoc())
	para := root.Children[1]
	if len(para.Children) != 2 {
		t.Fatalf("paragraph overlay has %d children, want 2", len(para.Children))
	}
	emph := para.Children[1]
	if _, ok := emph.Inline.(*mdast.Emphasis); !ok {
		t.Fatalf("expected an emphasis overlay, got %T", emph.Inline)
	}
	if len(emph.Children) != 1 {
		t.Errorf("emphasis overlay has %d children, want 1", len(emph.Children))
	}
}

func TestWalkAndPrune(t *testing.T) {
	root := Attach[int](overlayDoc())
	visited := 0
	root.Walk(func(n *Node[int]) bool {
		visited++
		_, heading := n.Block.(*mdast.Heading)
		return !heading
	})
	// Root, heading (pruned below), paragraph, its two inlines, the text
	// inside the emphasis.
	if visited != 6 {
		t.Errorf("visited %d nodes, want 6", visited)
	}
}

func TestMap(t *testing.T) {
	root := Attach[int](overlayDoc())
	i := 0
	root.Walk(func(n *Node[int]) bool {
		n.Data = i
		i++
		return true
	})
	mapped := Map(root, strconv.Itoa)
	if mapped.Data != "0" {
		t.Errorf("root payload = %q, want \"0\"", mapped.Data)
	}
	if mapped.Children[1].Children[0].Data == "" {
		t.Error("payloads below the root were not mapped")
	}
	if mapped.Strip() != root.Strip() {
		t.Error("Map must share the underlying document")
	}
}
