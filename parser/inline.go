package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hesusruiz/mdpp/mdast"
)

// The inline parser converts one text span (a paragraph's accumulated
// content, a heading line, a table cell) into an inline sequence. It
// scans left to right building a flat list of pieces; emphasis, strong
// and strikethrough delimiters are recorded in a doubly linked stack and
// resolved afterwards, which turns matched delimiter runs into wrap
// markers on their pieces and leaves unmatched runs as literal text.

// ParseInlines parses a text span into inline nodes. The block parser
// calls this for every leaf span; it is exported because renderer-side
// tooling occasionally needs to parse fragments (reference labels,
// front-matter titles) the same way.
func ParseInlines(text string) []mdast.Inline {
	p := &inlineParser{text: text}
	p.delims.init()
	p.scan()
	p.processEmphasis()
	return p.assemble()
}

const (
	wrapEmphasis = byte('e')
	wrapStrong   = byte('s')
	wrapStrike   = byte('d')
)

// piece is one slot of the scanner's output. Either node is set, or
// text holds literal content (plain runs and delimiter runs). pre holds
// close markers emitted before the piece's own content, post holds open
// markers emitted after it.
type piece struct {
	pre  []byte
	node mdast.Inline
	text string
	post []byte
}

// delim is one entry of the delimiter stack.
type delim struct {
	typ      byte
	piece    *piece
	n        int
	canOpen  bool
	canClose bool
	prev     *delim
	next     *delim
}

// delimStack is a doubly linked list with sentinel ends.
type delimStack struct {
	bottom, top delim
}

func (s *delimStack) init() {
	s.bottom.next = &s.top
	s.top.prev = &s.bottom
}

func (s *delimStack) push(d *delim) {
	d.prev = s.top.prev
	d.next = &s.top
	s.top.prev.next = d
	s.top.prev = d
}

func unlink(d *delim) {
	d.prev.next = d.next
	d.next.prev = d.prev
}

type inlineParser struct {
	text    string
	pos     int
	pending strings.Builder
	pieces  []*piece
	delims  delimStack
}

func (p *inlineParser) flushText() {
	if p.pending.Len() == 0 {
		return
	}
	p.pieces = append(p.pieces, &piece{text: p.pending.String()})
	p.pending.Reset()
}

func (p *inlineParser) addNode(n mdast.Inline) {
	p.flushText()
	p.pieces = append(p.pieces, &piece{node: n})
}

func (p *inlineParser) scan() {
	text := p.text
	for p.pos < len(text) {
		switch b := text[p.pos]; b {
		case '\\':
			if p.pos+1 < len(text) && text[p.pos+1] == '\n' {
				p.trimTrailingSpaces()
				p.addNode(&mdast.LineBreak{})
				p.pos += 2
				p.skipLineLeading()
			} else if p.pos+1 < len(text) && isASCIIPunct(text[p.pos+1]) {
				p.pending.WriteByte(text[p.pos+1])
				p.pos += 2
			} else {
				p.pending.WriteByte('\\')
				p.pos++
			}
		case '`':
			p.consumeCodeSpan()
		case '$':
			p.consumeInlineMath()
		case '<':
			p.consumeAngle()
		case '!':
			if p.pos+1 < len(text) && text[p.pos+1] == '[' {
				if !p.consumeImage() {
					p.pending.WriteByte('!')
					p.pos++
				}
			} else {
				p.pending.WriteByte('!')
				p.pos++
			}
		case '[':
			if !p.consumeBracketed() {
				p.pending.WriteByte('[')
				p.pos++
			}
		case '*', '_':
			p.consumeDelimRun(b)
		case '~':
			p.consumeStrikeRun()
		case '\n':
			p.consumeNewline()
		default:
			if (b == 'h' || b == 'w' || b == 'H' || b == 'W') && p.atWordStart() && p.consumeBareURL() {
				continue
			}
			r, size := utf8.DecodeRuneInString(text[p.pos:])
			p.pending.WriteRune(r)
			p.pos += size
		}
	}
	p.trimTrailingSpaces()
	p.flushText()
}

func isASCIIPunct(b byte) bool {
	return strings.IndexByte("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", b) >= 0
}

// trimTrailingSpaces drops spaces at the end of the pending text, as
// happens at every line end.
func (p *inlineParser) trimTrailingSpaces() {
	s := p.pending.String()
	trimmed := strings.TrimRight(s, " \t")
	if len(trimmed) != len(s) {
		p.pending.Reset()
		p.pending.WriteString(trimmed)
	}
}

func (p *inlineParser) skipLineLeading() {
	for p.pos < len(p.text) && (p.text[p.pos] == ' ' || p.text[p.pos] == '\t') {
		p.pos++
	}
}

func (p *inlineParser) consumeNewline() {
	s := p.pending.String()
	trimmed := strings.TrimRight(s, " ")
	hard := len(s)-len(trimmed) >= 2
	p.pending.Reset()
	p.pending.WriteString(trimmed)
	if hard {
		p.addNode(&mdast.LineBreak{})
	} else {
		// Soft break, kept as a newline inside the text run.
		p.pending.WriteByte('\n')
	}
	p.pos++
	p.skipLineLeading()
}

// consumeCodeSpan handles backtick code spans: the closing run must have
// exactly the length of the opening run, and the longest such match is
// found by scanning forward run by run.
func (p *inlineParser) consumeCodeSpan() {
	text := p.text
	start := p.pos
	for p.pos < len(text) && text[p.pos] == '`' {
		p.pos++
	}
	n := p.pos - start
	cStart, cEnd := findBacktickRun(text, n, p.pos)
	if cStart < 0 {
		p.pending.WriteString(text[start:p.pos])
		return
	}
	content := normalizeCodeSpan(text[p.pos:cStart])
	p.addNode(&mdast.Code{Literal: content})
	p.pos = cEnd
}

// findBacktickRun finds the next run of exactly n backticks at or after
// from, returning its start and end offsets, or -1 if none exists.
func findBacktickRun(s string, n, from int) (int, int) {
	for i := from; i < len(s); {
		if s[i] != '`' {
			i++
			continue
		}
		j := i
		for j < len(s) && s[j] == '`' {
			j++
		}
		if j-i == n {
			return i, j
		}
		i = j
	}
	return -1, -1
}

func normalizeCodeSpan(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) >= 2 && s[0] == ' ' && s[len(s)-1] == ' ' && strings.Trim(s, " ") != "" {
		s = s[1 : len(s)-1]
	}
	return s
}

func (p *inlineParser) consumeInlineMath() {
	text := p.text
	for i := p.pos + 1; i < len(text); i++ {
		switch text[i] {
		case '\n':
			p.pending.WriteByte('$')
			p.pos++
			return
		case '\\':
			i++
		case '$':
			if i == p.pos+1 {
				p.pending.WriteByte('$')
				p.pos++
				return
			}
			p.addNode(&mdast.Latex{Literal: text[p.pos+1 : i]})
			p.pos = i + 1
			return
		}
	}
	p.pending.WriteByte('$')
	p.pos++
}

var (
	schemeAutolinkRegexp = regexp.MustCompile(`^<[a-zA-Z][a-zA-Z0-9+.-]{1,31}:[^\x00-\x19 <>]*>`)
	emailAutolinkRegexp  = regexp.MustCompile(`^<[^ \t\n<>@]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+>`)

	openTagRegexp = regexp.MustCompile(`^<[a-zA-Z][a-zA-Z0-9-]*` +
		`(?:[ \t\n]+[a-zA-Z_:][a-zA-Z0-9_.:-]*(?:[ \t\n]*=[ \t\n]*(?:[^ \t\n"'=<>` + "`" + `]+|'[^']*'|"[^"]*"))?)*` +
		`[ \t\n]*/?>`)
	closingTagRegexp  = regexp.MustCompile(`^</[a-zA-Z][a-zA-Z0-9-]*[ \t\n]*>`)
	htmlCommentRegexp = regexp.MustCompile(`^<!--(?:[^-]|-[^-])*-->`)
	htmlProcRegexp    = regexp.MustCompile(`^<\?[\s\S]*?\?>`)
	htmlDeclRegexp    = regexp.MustCompile(`^<![a-zA-Z][^>]*>`)
	htmlCDATARegexp   = regexp.MustCompile(`^<!\[CDATA\[[\s\S]*?\]\]>`)
)

func (p *inlineParser) consumeAngle() {
	rest := p.text[p.pos:]
	if m := schemeAutolinkRegexp.FindString(rest); m != "" {
		p.addNode(&mdast.Autolink{URL: m[1 : len(m)-1]})
		p.pos += len(m)
		return
	}
	if m := emailAutolinkRegexp.FindString(rest); m != "" {
		p.addNode(&mdast.Autolink{URL: m[1 : len(m)-1]})
		p.pos += len(m)
		return
	}
	for _, re := range []*regexp.Regexp{openTagRegexp, closingTagRegexp, htmlCommentRegexp, htmlProcRegexp, htmlCDATARegexp, htmlDeclRegexp} {
		if m := re.FindString(rest); m != "" {
			p.addNode(&mdast.HTML{Literal: m})
			p.pos += len(m)
			return
		}
	}
	p.pending.WriteByte('<')
	p.pos++
}

// atWordStart reports whether the current position may begin a GFM bare
// autolink: start of span, or after whitespace or one of ( * _ ~.
func (p *inlineParser) atWordStart() bool {
	if p.pending.Len() > 0 {
		s := p.pending.String()
		r, _ := utf8.DecodeLastRuneInString(s)
		return isUnicodeWhitespace(r) || r == '(' || r == '*' || r == '_' || r == '~'
	}
	if len(p.pieces) > 0 {
		return false
	}
	return true
}

func (p *inlineParser) consumeBareURL() bool {
	rest := p.text[p.pos:]
	var prefix int
	switch {
	case hasPrefixFold(rest, "https://"):
		prefix = 8
	case hasPrefixFold(rest, "http://"):
		prefix = 7
	case hasPrefixFold(rest, "www."):
		prefix = 4
	default:
		return false
	}
	end := prefix
	for end < len(rest) && rest[end] != ' ' && rest[end] != '\t' && rest[end] != '\n' && rest[end] != '<' {
		end++
	}
	url := rest[:end]
	url = trimURLTail(url)
	if len(url) <= prefix || !strings.Contains(url[prefix:], ".") {
		return false
	}
	p.addNode(&mdast.Autolink{URL: url})
	p.pos += len(url)
	return true
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// trimURLTail strips trailing punctuation from a bare autolink, keeping
// a final ')' only while the URL has more '(' than ')'.
func trimURLTail(url string) string {
	for len(url) > 0 {
		last := url[len(url)-1]
		if strings.IndexByte("!\"'*,.:;?_~", last) >= 0 {
			url = url[:len(url)-1]
			continue
		}
		if last == ')' && strings.Count(url, ")") > strings.Count(url, "(") {
			url = url[:len(url)-1]
			continue
		}
		break
	}
	return url
}

// matchBracket returns the offset of the ']' matching the '[' at open,
// honoring nesting and backslash escapes, or -1.
func matchBracket(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// parseLinkTail parses `(dest "title")` starting at s[0] == '('. The
// destination is either `<...>` or a bare run with balanced parentheses;
// the title is quoted with `"`, `'` or parentheses.
func parseLinkTail(s string) (dest, title string, n int, ok bool) {
	if len(s) == 0 || s[0] != '(' {
		return "", "", 0, false
	}
	i := 1
	i = skipLinkWhitespace(s, i)
	if i >= len(s) {
		return "", "", 0, false
	}
	if s[i] == '<' {
		end := strings.IndexAny(s[i+1:], "<>\n")
		if end < 0 || s[i+1+end] != '>' {
			return "", "", 0, false
		}
		dest = s[i+1 : i+1+end]
		i += end + 2
	} else {
		start := i
		depth := 0
		for i < len(s) {
			c := s[i]
			if c == '\\' && i+1 < len(s) {
				i += 2
				continue
			}
			if c == ' ' || c == '\t' || c == '\n' || c < 0x20 {
				break
			}
			if c == '(' {
				depth++
			} else if c == ')' {
				if depth == 0 {
					break
				}
				depth--
			}
			i++
		}
		if depth != 0 {
			return "", "", 0, false
		}
		dest = s[start:i]
	}
	i = skipLinkWhitespace(s, i)
	if i < len(s) && (s[i] == '"' || s[i] == '\'' || s[i] == '(') {
		openq := s[i]
		closeq := openq
		if openq == '(' {
			closeq = ')'
		}
		j := i + 1
		for j < len(s) && s[j] != closeq {
			if s[j] == '\\' {
				j++
			}
			j++
		}
		if j >= len(s) {
			return "", "", 0, false
		}
		title = s[i+1 : j]
		i = skipLinkWhitespace(s, j+1)
	}
	if i >= len(s) || s[i] != ')' {
		return "", "", 0, false
	}
	return unescapeString(dest), unescapeString(title), i + 1, true
}

func skipLinkWhitespace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n') {
		i++
	}
	return i
}

func unescapeString(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && isASCIIPunct(s[i+1]) {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// parseImageAttr parses the optional `{width=100pt height="50pt"}` block
// after an image. Only width and height survive; any other key is read
// and dropped. Values may be double-quoted or bare tokens.
func parseImageAttr(s string) (*mdast.ImageAttr, int, bool) {
	if len(s) == 0 || s[0] != '{' {
		return nil, 0, false
	}
	attr := &mdast.ImageAttr{}
	rest := s[1:]
	for {
		rest = strings.TrimLeft(rest, " \t")
		if rest == "" {
			return nil, 0, false
		}
		if rest[0] == '}' {
			return attr, len(s) - len(rest) + 1, true
		}
		key, r := readBareToken(rest)
		if key == "" || len(r) == 0 || r[0] != '=' {
			return nil, 0, false
		}
		val, r2, ok := readValueToken(r[1:])
		if !ok {
			return nil, 0, false
		}
		switch key {
		case "width":
			attr.Width = val
		case "height":
			attr.Height = val
		}
		rest = r2
	}
}

func (p *inlineParser) consumeImage() bool {
	text := p.text
	close := matchBracket(text, p.pos+1)
	if close < 0 {
		return false
	}
	alt := text[p.pos+2 : close]
	dest, title, n, ok := parseLinkTail(text[close+1:])
	if !ok {
		return false
	}
	img := &mdast.Image{Alt: unescapeString(alt), Destination: dest, Title: title}
	end := close + 1 + n
	if attr, an, ok := parseImageAttr(text[end:]); ok {
		img.Attr = attr
		end += an
	}
	p.addNode(img)
	p.pos = end
	return true
}

var footnoteRefRegexp = regexp.MustCompile(`^\[\^([^\s\[\]]+)\]`)

func (p *inlineParser) consumeBracketed() bool {
	text := p.text
	if m := footnoteRefRegexp.FindStringSubmatch(text[p.pos:]); m != nil {
		p.addNode(&mdast.FootnoteReference{Label: m[1]})
		p.pos += len(m[0])
		return true
	}
	close := matchBracket(text, p.pos)
	if close < 0 {
		return false
	}
	content := text[p.pos+1 : close]
	after := close + 1
	if after < len(text) && text[after] == '(' {
		if dest, title, n, ok := parseLinkTail(text[after:]); ok {
			p.addNode(&mdast.Link{Content: ParseInlines(content), Destination: dest, Title: title})
			p.pos = after + n
			return true
		}
	}
	if after < len(text) && text[after] == '[' {
		if lclose := matchBracket(text, after); lclose >= 0 {
			label := text[after+1 : lclose]
			inner := ParseInlines(content)
			ref := &mdast.LinkReference{Content: inner}
			if label == "" {
				ref.Label = ParseInlines(content)
			} else {
				ref.Label = ParseInlines(label)
			}
			p.addNode(ref)
			p.pos = lclose + 1
			return true
		}
	}
	inner := ParseInlines(content)
	p.addNode(&mdast.LinkReference{Label: ParseInlines(content), Content: inner})
	p.pos = close + 1
	return true
}

// consumeDelimRun reads a run of '*' or '_' and classifies it. Flanking
// follows the usual directional rules; underscore runs additionally
// refuse to open after an alphanumeric and to close before one, which is
// what keeps identifiers like PKG_CONFIG_PATH as plain text.
func (p *inlineParser) consumeDelimRun(b byte) {
	text := p.text
	start := p.pos
	for p.pos < len(text) && text[p.pos] == b {
		p.pos++
	}
	n := p.pos - start
	prev, hasPrev := p.prevRune(start)
	next, hasNext := nextRune(text, p.pos)

	left := hasNext && !isUnicodeWhitespace(next) &&
		(!isUnicodePunct(next) || !hasPrev || isUnicodeWhitespace(prev) || isUnicodePunct(prev))
	right := hasPrev && !isUnicodeWhitespace(prev) &&
		(!isUnicodePunct(prev) || !hasNext || isUnicodeWhitespace(next) || isUnicodePunct(next))

	canOpen, canClose := left, right
	if b == '_' {
		canOpen = left && !(hasPrev && isAlnum(prev))
		canClose = right && !(hasNext && isAlnum(next))
	}
	if !canOpen && !canClose {
		p.pending.WriteString(text[start:p.pos])
		return
	}
	p.flushText()
	pc := &piece{text: text[start:p.pos]}
	p.pieces = append(p.pieces, pc)
	p.delims.push(&delim{typ: b, piece: pc, n: n, canOpen: canOpen, canClose: canClose})
}

func (p *inlineParser) consumeStrikeRun() {
	text := p.text
	start := p.pos
	for p.pos < len(text) && text[p.pos] == '~' {
		p.pos++
	}
	n := p.pos - start
	if n != 2 {
		p.pending.WriteString(text[start:p.pos])
		return
	}
	prev, hasPrev := p.prevRune(start)
	next, hasNext := nextRune(text, p.pos)
	left := hasNext && !isUnicodeWhitespace(next) &&
		(!isUnicodePunct(next) || !hasPrev || isUnicodeWhitespace(prev) || isUnicodePunct(prev))
	right := hasPrev && !isUnicodeWhitespace(prev) &&
		(!isUnicodePunct(prev) || !hasNext || isUnicodeWhitespace(next) || isUnicodePunct(next))
	if !left && !right {
		p.pending.WriteString(text[start:p.pos])
		return
	}
	p.flushText()
	pc := &piece{text: text[start:p.pos]}
	p.pieces = append(p.pieces, pc)
	p.delims.push(&delim{typ: '~', piece: pc, n: n, canOpen: left, canClose: right})
}

// prevRune returns the rune just before byte offset pos, looking at the
// pending text first so that escaped characters count.
func (p *inlineParser) prevRune(pos int) (rune, bool) {
	if s := p.pending.String(); s != "" {
		r, _ := utf8.DecodeLastRuneInString(s)
		return r, true
	}
	if pos == 0 {
		return 0, false
	}
	r, _ := utf8.DecodeLastRuneInString(p.text[:pos])
	return r, true
}

func nextRune(s string, pos int) (rune, bool) {
	if pos >= len(s) {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s[pos:])
	return r, true
}

// processEmphasis pairs closing delimiter runs with the nearest
// compatible opener. Each pairing consumes one delimiter character per
// side when the shorter run has odd length and two otherwise, so
// `___x___` resolves inner emphasis first and wraps it in strong.
// Delimiters trapped between a matched pair are dropped from the stack,
// which keeps the produced wrap markers properly nested.
func (p *inlineParser) processEmphasis() {
	openersBottom := map[byte]*delim{}
	closer := p.delims.bottom.next
	for closer != &p.delims.top {
		if !closer.canClose {
			closer = closer.next
			continue
		}
		var opener *delim
		stop := openersBottom[closer.typ]
		for cand := closer.prev; cand != &p.delims.bottom && cand != stop; cand = cand.prev {
			if cand.canOpen && cand.typ == closer.typ {
				opener = cand
				break
			}
		}
		if opener == nil {
			openersBottom[closer.typ] = closer.prev
			if !closer.canOpen {
				next := closer.next
				unlink(closer)
				closer = next
			} else {
				closer = closer.next
			}
			continue
		}
		use := 1
		m := opener.n
		if closer.n < m {
			m = closer.n
		}
		if m%2 == 0 {
			use = 2
		}
		var marker byte
		switch {
		case closer.typ == '~':
			use = 2
			marker = wrapStrike
		case use == 2:
			marker = wrapStrong
		default:
			marker = wrapEmphasis
		}
		opener.piece.post = append([]byte{marker}, opener.piece.post...)
		closer.piece.pre = append(closer.piece.pre, marker)

		// Everything between the pair can no longer match outward.
		opener.next = closer
		closer.prev = opener

		opener.n -= use
		opener.piece.text = opener.piece.text[:opener.n]
		closer.n -= use
		closer.piece.text = closer.piece.text[use:]
		if opener.n == 0 {
			unlink(opener)
		}
		if closer.n == 0 {
			next := closer.next
			unlink(closer)
			closer = next
		}
	}
}

// assemble folds the piece list into a tree. Close markers pop the
// current wrap, open markers push one; processEmphasis guarantees the
// markers are balanced and properly nested.
func (p *inlineParser) assemble() []mdast.Inline {
	type frame struct {
		marker byte
		items  []mdast.Inline
	}
	stack := []frame{{}}
	emit := func(in mdast.Inline) {
		top := &stack[len(stack)-1]
		top.items = append(top.items, in)
	}
	for _, pc := range p.pieces {
		for _, m := range pc.pre {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			content := mergeTexts(top.items)
			switch m {
			case wrapStrong:
				emit(&mdast.Strong{Content: content})
			case wrapStrike:
				emit(&mdast.Strikethrough{Content: content})
			default:
				emit(&mdast.Emphasis{Content: content})
			}
		}
		if pc.node != nil {
			emit(pc.node)
		} else if pc.text != "" {
			emit(&mdast.Text{Text: pc.text})
		}
		for _, m := range pc.post {
			stack = append(stack, frame{marker: m})
		}
	}
	for len(stack) > 1 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stack[len(stack)-1].items = append(stack[len(stack)-1].items, top.items...)
	}
	return mergeTexts(stack[0].items)
}

// mergeTexts joins adjacent Text nodes and drops empty ones.
func mergeTexts(items []mdast.Inline) []mdast.Inline {
	out := make([]mdast.Inline, 0, len(items))
	for _, in := range items {
		if t, ok := in.(*mdast.Text); ok {
			if t.Text == "" {
				continue
			}
			if len(out) > 0 {
				if pt, ok := out[len(out)-1].(*mdast.Text); ok {
					out[len(out)-1] = &mdast.Text{Text: pt.Text + t.Text}
					continue
				}
			}
		}
		out = append(out, in)
	}
	return out
}
