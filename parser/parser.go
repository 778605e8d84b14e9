// Package parser turns CommonMark text extended with GFM constructs
// (tables, task lists, strikethrough, autolinks, footnotes, alerts) and
// the `:::kind{params}` container syntax into an mdast.Document.
//
// The grammar is total: any input reduces to some document, because
// every recognizer that fails to match falls through to paragraph or
// literal-text accumulation. Recognizer failure never leaves a trace;
// parse state is passed by value and derived on descent, so a failed
// branch cannot corrupt what a sibling branch observes.
package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hesusruiz/mdpp/mdast"
)

// DefaultMaxDepth bounds block nesting (quotes, lists, containers,
// footnote bodies). A recognizer that would descend past the limit
// fails instead, so pathological inputs degrade to paragraph text
// rather than exhausting the stack.
const DefaultMaxDepth = 64

// State is the ambient parse context threaded through block recursion.
// It is a value: Derive and descend return modified copies and never
// touch the receiver, which is what lets a failed parse attempt back
// out without undoing anything.
type State struct {
	containers []string
	depth      int
	maxDepth   int
}

// NewState returns the initial state: empty container stack, default
// depth limit.
func NewState() State {
	return State{maxDepth: DefaultMaxDepth}
}

// WithMaxDepth returns a copy with a different nesting limit.
func (s State) WithMaxDepth(n int) State {
	s.maxDepth = n
	return s
}

// Derive returns a child state with kind pushed onto the container
// stack and the nesting depth advanced. The receiver is unchanged.
func (s State) Derive(kind string) State {
	cs := make([]string, len(s.containers), len(s.containers)+1)
	copy(cs, s.containers)
	s.containers = append(cs, kind)
	s.depth++
	return s
}

// descend returns a child state one nesting level deeper, for block
// constructs that are not containers.
func (s State) descend() State {
	s.depth++
	return s
}

// atLimit reports whether one more level of nesting would exceed the
// configured limit.
func (s State) atLimit() bool {
	return s.depth >= s.maxDepth
}

// InContainer reports whether any custom container is active. The
// container recognizer refuses to match while this is true.
func (s State) InContainer() bool {
	return len(s.containers) > 0
}

// Containers returns the active container kinds, outermost first.
func (s State) Containers() []string {
	out := make([]string, len(s.containers))
	copy(out, s.containers)
	return out
}

// ParseError is a top-level parse failure. With a total grammar this is
// reserved for genuine grammar gaps and should be rare.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("markdown parse error at line %d: %s", e.Line, e.Msg)
}

// Parse parses text into a document. The state seeds the container
// stack and depth limit; use NewState for a whole-document parse.
// Invalid UTF-8 sequences are replaced with U+FFFD before parsing.
func Parse(st State, text string) (*mdast.Document, error) {
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}
	text = strings.ReplaceAll(text, "\x00", "�")
	lines := splitLines(text)
	blocks := parseBlocks(st, lines)
	return &mdast.Document{Blocks: blocks}, nil
}

// splitLines splits on "\n", tolerating a missing final newline. CRLF
// is accepted and normalized here rather than rejected.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimSuffix(ln, "\r")
	}
	return lines
}
