package parser

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hesusruiz/mdpp/mdast"
)

func mustParse(t *testing.T, src string) *mdast.Document {
	t.Helper()
	doc, err := Parse(NewState(), src)
	if err != nil {
		t.Fatalf("Parse(%q) returned error: %v", src, err)
	}
	return doc
}

func TestHeadings(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []mdast.Block
	}{
		{
			name: "atx",
			in:   "## Hello *there*\n",
			want: []mdast.Block{&mdast.Heading{Kind: mdast.Atx, Level: 2, Content: []mdast.Inline{
				&mdast.Text{Text: "Hello "},
				&mdast.Emphasis{Content: []mdast.Inline{&mdast.Text{Text: "there"}}},
			}}},
		},
		{
			name: "atx closing hashes",
			in:   "# Hi ##\n",
			want: []mdast.Block{&mdast.Heading{Kind: mdast.Atx, Level: 1, Content: []mdast.Inline{&mdast.Text{Text: "Hi"}}}},
		},
		{
			name: "setext level one",
			in:   "Title\n=====\n",
			want: []mdast.Block{&mdast.Heading{Kind: mdast.Setext, Level: 1, Content: []mdast.Inline{&mdast.Text{Text: "Title"}}}},
		},
		{
			name: "setext level two wins over thematic break",
			in:   "Title\n---\n",
			want: []mdast.Block{&mdast.Heading{Kind: mdast.Setext, Level: 2, Content: []mdast.Inline{&mdast.Text{Text: "Title"}}}},
		},
		{
			name: "seven hashes is a paragraph",
			in:   "####### nope\n",
			want: []mdast.Block{&mdast.Paragraph{Content: []mdast.Inline{&mdast.Text{Text: "####### nope"}}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParse(t, tt.in)
			if diff := cmp.Diff(tt.want, got.Blocks); diff != "" {
				t.Errorf("parse mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestListBeatsEmphasis(t *testing.T) {
	got := mustParse(t, "* a *\n")
	want := []mdast.Block{&mdast.List{
		Kind:   mdast.Bullet,
		Marker: '*',
		Items: []mdast.ListItem{{
			Task:   mdast.NoTask,
			Blocks: []mdast.Block{&mdast.Paragraph{Content: []mdast.Inline{&mdast.Text{Text: "a *"}}}},
		}},
	}}
	if diff := cmp.Diff(want, got.Blocks); diff != "" {
		t.Errorf("parse mismatch (-want +got):\n%s", diff)
	}
}

func TestLists(t *testing.T) {
	t.Run("ordered start and nesting", func(t *testing.T) {
		got := mustParse(t, "3. three\n4. four\n")
		want := []mdast.Block{&mdast.List{
			Kind:   mdast.Ordered,
			Start:  3,
			Marker: '.',
			Items: []mdast.ListItem{
				{Blocks: []mdast.Block{&mdast.Paragraph{Content: []mdast.Inline{&mdast.Text{Text: "three"}}}}},
				{Blocks: []mdast.Block{&mdast.Paragraph{Content: []mdast.Inline{&mdast.Text{Text: "four"}}}}},
			},
		}}
		if diff := cmp.Diff(want, got.Blocks); diff != "" {
			t.Errorf("parse mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("task markers", func(t *testing.T) {
		got := mustParse(t, "- [x] done\n- [ ] todo\n")
		list, ok := got.Blocks[0].(*mdast.List)
		if !ok || len(list.Items) != 2 {
			t.Fatalf("expected one list with two items, got %+v", got.Blocks)
		}
		if list.Items[0].Task != mdast.TaskComplete {
			t.Errorf("first item task = %v, want TaskComplete", list.Items[0].Task)
		}
		if list.Items[1].Task != mdast.TaskIncomplete {
			t.Errorf("second item task = %v, want TaskIncomplete", list.Items[1].Task)
		}
	})

	t.Run("nested blocks inside an item", func(t *testing.T) {
		got := mustParse(t, "- a\n\n  b\n")
		list := got.Blocks[0].(*mdast.List)
		if len(list.Items) != 1 {
			t.Fatalf("expected a single item, got %d", len(list.Items))
		}
		if len(list.Items[0].Blocks) != 2 {
			t.Fatalf("expected two paragraphs in the item, got %+v", list.Items[0].Blocks)
		}
	})
}

func TestCodeBlocks(t *testing.T) {
	t.Run("fenced with info", func(t *testing.T) {
		got := mustParse(t, "```go\nfmt.Println(1)\n```\n")
		want := []mdast.Block{&mdast.CodeBlock{Kind: mdast.Fenced, Info: "go", Literal: "fmt.Println(1)\n"}}
		if diff := cmp.Diff(want, got.Blocks); diff != "" {
			t.Errorf("parse mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unclosed fence runs to the end", func(t *testing.T) {
		got := mustParse(t, "```\nx\n")
		want := []mdast.Block{&mdast.CodeBlock{Kind: mdast.Fenced, Literal: "x\n"}}
		if diff := cmp.Diff(want, got.Blocks); diff != "" {
			t.Errorf("parse mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("indented", func(t *testing.T) {
		got := mustParse(t, "    code\n")
		want := []mdast.Block{&mdast.CodeBlock{Kind: mdast.Indented, Literal: "code\n"}}
		if diff := cmp.Diff(want, got.Blocks); diff != "" {
			t.Errorf("parse mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestBlockQuotesAndAlerts(t *testing.T) {
	t.Run("quote", func(t *testing.T) {
		got := mustParse(t, "> hi\n> there\n")
		want := []mdast.Block{&mdast.BlockQuote{Blocks: []mdast.Block{
			&mdast.Paragraph{Content: []mdast.Inline{&mdast.Text{Text: "hi\nthere"}}},
		}}}
		if diff := cmp.Diff(want, got.Blocks); diff != "" {
			t.Errorf("parse mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("known alert types", func(t *testing.T) {
		for word, typ := range map[string]mdast.AlertType{
			"NOTE": mdast.AlertNote, "TIP": mdast.AlertTip, "IMPORTANT": mdast.AlertImportant,
			"WARNING": mdast.AlertWarning, "CAUTION": mdast.AlertCaution,
		} {
			got := mustParse(t, "> [!"+word+"]\n> body\n")
			alert, ok := got.Blocks[0].(*mdast.GitHubAlert)
			if !ok {
				t.Fatalf("[!%s]: expected a GitHubAlert, got %T", word, got.Blocks[0])
			}
			if alert.Type != typ {
				t.Errorf("[!%s]: type = %v, want %v", word, alert.Type, typ)
			}
		}
	})

	t.Run("custom alert keeps its marker", func(t *testing.T) {
		got := mustParse(t, "> [!DANGER]\n> body\n")
		alert := got.Blocks[0].(*mdast.GitHubAlert)
		if alert.Type != mdast.AlertCustom || alert.CustomKind != "DANGER" {
			t.Errorf("got type=%v kind=%q, want AlertCustom DANGER", alert.Type, alert.CustomKind)
		}
	})
}

func TestContainers(t *testing.T) {
	t.Run("round trip shape", func(t *testing.T) {
		got := mustParse(t, ":::note\nHello\n:::\n")
		want := []mdast.Block{&mdast.Container{
			Kind:   "note",
			Blocks: []mdast.Block{&mdast.Paragraph{Content: []mdast.Inline{&mdast.Text{Text: "Hello"}}}},
		}}
		if diff := cmp.Diff(want, got.Blocks); diff != "" {
			t.Errorf("parse mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("params quoted and bare", func(t *testing.T) {
		got := mustParse(t, ":::warn{level=\"high\" compact = yes}\nx\n:::\n")
		c := got.Blocks[0].(*mdast.Container)
		want := []mdast.ContainerParam{{Key: "level", Value: "high"}, {Key: "compact", Value: "yes"}}
		if diff := cmp.Diff(want, c.Params); diff != "" {
			t.Errorf("params mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("key without value rejects the opener", func(t *testing.T) {
		got := mustParse(t, ":::note{compact}\nx\n:::\n")
		for _, b := range got.Blocks {
			if _, ok := b.(*mdast.Container); ok {
				t.Fatalf("valueless param must not produce a container, got %+v", got.Blocks)
			}
		}
	})

	t.Run("kind may carry punctuation", func(t *testing.T) {
		got := mustParse(t, ":::my.note\nx\n:::\n")
		c, ok := got.Blocks[0].(*mdast.Container)
		if !ok || c.Kind != "my.note" {
			t.Fatalf("expected a my.note container, got %+v", got.Blocks[0])
		}
	})

	t.Run("unterminated opener degrades to a paragraph", func(t *testing.T) {
		got := mustParse(t, ":::note\nHello\n")
		for _, b := range got.Blocks {
			if _, ok := b.(*mdast.Container); ok {
				t.Fatalf("opener without a closing fence must not produce a container")
			}
		}
		para, ok := got.Blocks[0].(*mdast.Paragraph)
		if !ok {
			t.Fatalf("expected a paragraph, got %T", got.Blocks[0])
		}
		text := para.Content[0].(*mdast.Text).Text
		if !strings.HasPrefix(text, ":::note") {
			t.Errorf("paragraph = %q, want the literal :::note line", text)
		}
	})

	t.Run("no containers inside containers", func(t *testing.T) {
		got := mustParse(t, ":::outer\n:::inner\nx\n:::\n")
		outer := got.Blocks[0].(*mdast.Container)
		if len(outer.Blocks) != 1 {
			t.Fatalf("expected a single inner block, got %+v", outer.Blocks)
		}
		para, ok := outer.Blocks[0].(*mdast.Paragraph)
		if !ok {
			t.Fatalf("inner opener should degrade to a paragraph, got %T", outer.Blocks[0])
		}
		text := para.Content[0].(*mdast.Text).Text
		if !strings.HasPrefix(text, ":::inner") {
			t.Errorf("inner paragraph = %q, want the literal :::inner line", text)
		}
	})

	t.Run("trailing garbage after params rejects the opener", func(t *testing.T) {
		got := mustParse(t, ":::note bad\nX\n:::\n")
		for _, b := range got.Blocks {
			if _, ok := b.(*mdast.Container); ok {
				t.Fatalf("opener with trailing content must not produce a container")
			}
		}
	})
}

func TestDefinitions(t *testing.T) {
	t.Run("link definition", func(t *testing.T) {
		got := mustParse(t, "[ex]: https://x \"Title\"\n")
		want := []mdast.Block{&mdast.LinkDefinition{
			Label:       []mdast.Inline{&mdast.Text{Text: "ex"}},
			Destination: "https://x",
			Title:       "Title",
		}}
		if diff := cmp.Diff(want, got.Blocks); diff != "" {
			t.Errorf("parse mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("footnote definition with continuation", func(t *testing.T) {
		got := mustParse(t, "[^a]: first\n    second\n")
		def, ok := got.Blocks[0].(*mdast.FootnoteDefinition)
		if !ok {
			t.Fatalf("expected a FootnoteDefinition, got %T", got.Blocks[0])
		}
		if def.Label != "a" {
			t.Errorf("label = %q, want a", def.Label)
		}
		para := def.Blocks[0].(*mdast.Paragraph)
		if text := para.Content[0].(*mdast.Text).Text; text != "first\nsecond" {
			t.Errorf("body = %q, want the two joined lines", text)
		}
	})
}

func TestLatexBlocks(t *testing.T) {
	got := mustParse(t, "$$\nE = mc^2\n$$\n")
	want := []mdast.Block{&mdast.LatexBlock{Literal: "E = mc^2"}}
	if diff := cmp.Diff(want, got.Blocks); diff != "" {
		t.Errorf("parse mismatch (-want +got):\n%s", diff)
	}

	got = mustParse(t, "$$ a+b $$\n")
	want = []mdast.Block{&mdast.LatexBlock{Literal: "a+b"}}
	if diff := cmp.Diff(want, got.Blocks); diff != "" {
		t.Errorf("single-line mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTotality(t *testing.T) {
	// None of these may error; every input reduces to some document.
	inputs := []string{
		"",
		"\n\n\n",
		"[",
		"![](",
		":::",
		"|",
		"~~~",
		"> > > > deep",
		strings.Repeat("> ", 200) + "x\n",
		"\x00\x01\x02",
		"*_*_*_~~``$$",
	}
	for _, in := range inputs {
		doc, err := Parse(NewState(), in)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", in, err)
		}
		if doc == nil {
			t.Errorf("Parse(%q) returned a nil document", in)
		}
	}
}

func TestNestingDepthLimit(t *testing.T) {
	// Past the depth limit quote markers degrade to paragraph text
	// instead of recursing further.
	deep := strings.Repeat("> ", 2*DefaultMaxDepth) + "x\n"
	doc, err := Parse(NewState(), deep)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	depth := 0
	b := doc.Blocks[0]
	for {
		q, ok := b.(*mdast.BlockQuote)
		if !ok {
			break
		}
		depth++
		if len(q.Blocks) == 0 {
			break
		}
		b = q.Blocks[0]
	}
	if depth > DefaultMaxDepth {
		t.Errorf("quote nesting depth = %d, want at most %d", depth, DefaultMaxDepth)
	}
}

func TestStateDerivation(t *testing.T) {
	parent := NewState()
	child := parent.Derive("note")
	if parent.InContainer() {
		t.Error("deriving a child must not mutate the parent")
	}
	if !child.InContainer() {
		t.Error("child state must carry the derived container kind")
	}
	grand := child.Derive("inner")
	if got := grand.Containers(); len(got) != 2 || got[0] != "note" || got[1] != "inner" {
		t.Errorf("Containers() = %v, want [note inner]", got)
	}
	if got := child.Containers(); len(got) != 1 {
		t.Errorf("sibling-visible stack = %v, want [note]", got)
	}
}
