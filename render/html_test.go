package render

import (
	"strings"
	"testing"

	"github.com/hesusruiz/mdpp/mdast"
)

func renderHTML(t *testing.T, src string) string {
	t.Helper()
	doc := reparse(t, src)
	return HTML(doc, mdast.BuildIndices(doc), NewConfig())
}

func TestHTMLBasicBlocks(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "heading and emphasis",
			src:  "## A *b*\n",
			want: []string{"<h2>A <em>b</em></h2>"},
		},
		{
			name: "code block keeps language class",
			src:  "```go\nx := 1\n```\n",
			want: []string{"<pre><code class=\"language-go\">", "</code></pre>"},
		},
		{
			name: "ordered list with start",
			src:  "3. a\n4. b\n",
			want: []string{"<ol start=\"3\">", "<li>", "</ol>"},
		},
		{
			name: "task checkbox",
			src:  "- [x] done\n",
			want: []string{`<input type="checkbox" disabled="" checked="" />`},
		},
		{
			name: "text is escaped",
			src:  "a < b & c\n",
			want: []string{"a &lt; b &amp; c"},
		},
		{
			name: "inline math",
			src:  "the $x^2$ term\n",
			want: []string{"<span class=\"math inline\">\\(x^2\\)</span>"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderHTML(t, tt.src)
			for _, frag := range tt.want {
				if !strings.Contains(got, frag) {
					t.Errorf("output missing %q:\n%s", frag, got)
				}
			}
		})
	}
}

func TestHTMLAlert(t *testing.T) {
	got := renderHTML(t, "> [!WARNING]\n> careful\n")
	for _, frag := range []string{
		"markdown-alert markdown-alert-warning",
		"<p class=\"markdown-alert-title\">Warning</p>",
		"<p>careful</p>",
	} {
		if !strings.Contains(got, frag) {
			t.Errorf("alert output missing %q:\n%s", frag, got)
		}
	}
}

func TestHTMLContainer(t *testing.T) {
	got := renderHTML(t, ":::sidebar{width=\"30\"}\nHello\n:::\n")
	if !strings.Contains(got, `<div class="container-sidebar" data-width="30">`) {
		t.Errorf("container div missing:\n%s", got)
	}
}

func TestHTMLReferenceResolution(t *testing.T) {
	got := renderHTML(t, "see [docs][ref]\n\n[ref]: https://example.org \"Docs\"\n")
	if !strings.Contains(got, `<a href="https://example.org" title="Docs">docs</a>`) {
		t.Errorf("resolved reference missing:\n%s", got)
	}

	got = renderHTML(t, "see [missing]\n")
	if !strings.Contains(got, "[missing]") {
		t.Errorf("unresolved reference must stay literal:\n%s", got)
	}
	if strings.Contains(got, "<a ") {
		t.Errorf("unresolved reference must not produce an anchor:\n%s", got)
	}
}

func TestHTMLFootnotes(t *testing.T) {
	got := renderHTML(t, "a[^n]\n\n[^n]: the note\n")
	for _, frag := range []string{
		`<sup id="fnref:n"><a href="#fn:n">1</a></sup>`,
		`<section class="footnotes">`,
		`<li id="fn:n">`,
		"the note",
	} {
		if !strings.Contains(got, frag) {
			t.Errorf("footnote output missing %q:\n%s", frag, got)
		}
	}

	got = renderHTML(t, "a[^ghost]\n")
	if !strings.Contains(got, "[^ghost]") {
		t.Errorf("undefined footnote must stay literal:\n%s", got)
	}
}

func TestHTMLTableSpans(t *testing.T) {
	got := renderHTML(t, "| a || b |\n|---|:-:|---|\n| 1 | ^^ | 3 |\n| 4 | 5 | 6 |\n")
	for _, frag := range []string{
		`colspan="2"`,
		"<thead>", "<tbody>",
		`style="text-align: center"`,
	} {
		if !strings.Contains(got, frag) {
			t.Errorf("table output missing %q:\n%s", frag, got)
		}
	}
}

func TestHTMLAutolinkTargets(t *testing.T) {
	got := renderHTML(t, "go to www.example.com now\n")
	if !strings.Contains(got, `<a href="http://www.example.com">www.example.com</a>`) {
		t.Errorf("www autolink must gain a scheme:\n%s", got)
	}

	got = renderHTML(t, "mail <user@example.com>\n")
	if !strings.Contains(got, `href="mailto:user@example.com"`) {
		t.Errorf("email autolink must gain mailto:\n%s", got)
	}
}
