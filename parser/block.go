package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hesusruiz/mdpp/mdast"
)

// The block parser works line by line. At each position the recognizers
// below are tried in a fixed order; the first that matches consumes its
// lines, and a recognizer that fails consumes nothing. Paragraph text
// accumulates until a blank line or a line that a higher-priority
// recognizer claims, so ordering between recognizers is load-bearing:
// `* a *` is a list because the list recognizer runs before paragraph
// accumulation ever hands the line to the inline parser.

var (
	thematicBreakRegexp = regexp.MustCompile(`^ {0,3}((\* *){3,}|(- *){3,}|(_ *){3,})$`)
	atxHeadingRegexp    = regexp.MustCompile(`^ {0,3}(#{1,6})(?:[ \t]+(.*))?$`)
	setextRegexp        = regexp.MustCompile(`^ {0,3}(=+|-+)[ \t]*$`)
	codeFenceRegexp     = regexp.MustCompile("^( {0,3})(`{3,}|~{3,})[ \t]*(.*)$")
	listMarkerRegexp    = regexp.MustCompile(`^( {0,3})(?:([-+*])|([0-9]{1,9})([.)]))([ \t]+.*|[ \t]*)$`)
	taskMarkerRegexp    = regexp.MustCompile(`^\[([ xX])\][ \t]+(.*)$`)
	footnoteDefRegexp   = regexp.MustCompile(`^ {0,3}\[\^([^\s\[\]]+)\]:[ \t]*(.*)$`)
	alertMarkerRegexp   = regexp.MustCompile(`^\[!([A-Za-z]+)\][ \t]*$`)
	latexFenceRegexp    = regexp.MustCompile(`^ {0,3}\$\$[ \t]*$`)

	htmlBlock1Regexp = regexp.MustCompile(`(?i)^ {0,3}<(pre|script|style|textarea)([ \t>]|$)`)
	htmlBlock1End    = regexp.MustCompile(`(?i)</(pre|script|style|textarea)>`)
	htmlBlock6Regexp = regexp.MustCompile(`(?i)^ {0,3}</?(address|article|aside|base|basefont|blockquote|body|caption|center|col|colgroup|dd|details|dialog|dir|div|dl|dt|fieldset|figcaption|figure|footer|form|frame|frameset|h1|h2|h3|h4|h5|h6|head|header|hr|html|iframe|legend|li|link|main|menu|menuitem|nav|noframes|ol|optgroup|option|p|param|section|source|summary|table|tbody|td|tfoot|th|thead|title|tr|track|ul)([ \t]|/?>|$)`)
	htmlBlock7Regexp = regexp.MustCompile(`^ {0,3}(<[a-zA-Z][a-zA-Z0-9-]*` +
		`(?:[ \t]+[a-zA-Z_:][a-zA-Z0-9_.:-]*(?:[ \t]*=[ \t]*(?:[^ \t"'=<>` + "`" + `]+|'[^']*'|"[^"]*"))?)*` +
		`[ \t]*/?>|</[a-zA-Z][a-zA-Z0-9-]*[ \t]*>)[ \t]*$`)
)

type blockParser struct {
	st    State
	lines []string
	pos   int
	out   []mdast.Block
	para  []string
}

func parseBlocks(st State, lines []string) []mdast.Block {
	p := &blockParser{st: st, lines: lines}
	p.run()
	return p.out
}

func (p *blockParser) run() {
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		if isBlank(line) {
			p.closeParagraph()
			p.pos++
			continue
		}
		if len(p.para) > 0 {
			if m := setextRegexp.FindStringSubmatch(line); m != nil {
				level := 2
				if m[1][0] == '=' {
					level = 1
				}
				p.out = append(p.out, &mdast.Heading{
					Kind:    mdast.Setext,
					Level:   level,
					Content: ParseInlines(p.paragraphText()),
				})
				p.para = nil
				p.pos++
				continue
			}
		}
		switch {
		case len(p.para) == 0 && indentWidth(line) >= 4:
			p.consumeIndentedCode()
		case p.tryFencedCode():
		case p.tryHTMLBlock():
		case p.tryThematicBreak():
		case p.tryATXHeading():
		case p.tryBlockQuote():
		case p.tryList():
		case len(p.para) == 0 && p.tryFootnoteDef():
		case len(p.para) == 0 && p.tryLinkDef():
		case p.tryContainer():
		case len(p.para) == 0 && p.tryLatexBlock():
		case len(p.para) == 0 && p.tryTable():
		default:
			p.para = append(p.para, strings.TrimLeft(line, " \t"))
			p.pos++
		}
	}
	p.closeParagraph()
}

func (p *blockParser) paragraphText() string {
	return strings.Join(p.para, "\n")
}

func (p *blockParser) closeParagraph() {
	if len(p.para) == 0 {
		return
	}
	p.out = append(p.out, &mdast.Paragraph{Content: ParseInlines(p.paragraphText())})
	p.para = nil
}

func (p *blockParser) tryThematicBreak() bool {
	if !thematicBreakRegexp.MatchString(p.lines[p.pos]) {
		return false
	}
	p.closeParagraph()
	p.out = append(p.out, &mdast.ThematicBreak{})
	p.pos++
	return true
}

func (p *blockParser) tryATXHeading() bool {
	m := atxHeadingRegexp.FindStringSubmatch(p.lines[p.pos])
	if m == nil {
		return false
	}
	content := strings.TrimRight(m[2], " \t")
	// An optional closing hash run is dropped.
	if i := strings.LastIndexByte(content, ' '); i >= 0 && strings.Trim(content[i+1:], "#") == "" && content[i+1:] != "" {
		content = strings.TrimRight(content[:i], " \t")
	} else if strings.Trim(content, "#") == "" {
		content = ""
	}
	p.closeParagraph()
	p.out = append(p.out, &mdast.Heading{
		Kind:    mdast.Atx,
		Level:   len(m[1]),
		Content: ParseInlines(content),
	})
	p.pos++
	return true
}

func (p *blockParser) tryFencedCode() bool {
	m := codeFenceRegexp.FindStringSubmatch(p.lines[p.pos])
	if m == nil {
		return false
	}
	fence := m[2]
	info := strings.TrimSpace(m[3])
	if fence[0] == '`' && strings.ContainsRune(info, '`') {
		return false
	}
	p.closeParagraph()
	indent := len(m[1])
	p.pos++
	var content []string
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		if cm := codeFenceRegexp.FindStringSubmatch(line); cm != nil &&
			cm[2][0] == fence[0] && len(cm[2]) >= len(fence) && strings.TrimSpace(cm[3]) == "" {
			p.pos++
			break
		}
		content = append(content, trimIndent(line, min(indent, indentWidth(line))))
		p.pos++
	}
	literal := strings.Join(content, "\n")
	if literal != "" {
		literal += "\n"
	}
	p.out = append(p.out, &mdast.CodeBlock{Kind: mdast.Fenced, Info: unescapeString(info), Literal: literal})
	return true
}

func (p *blockParser) consumeIndentedCode() {
	var content []string
	blanks := 0
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		if isBlank(line) {
			blanks++
			p.pos++
			continue
		}
		if indentWidth(line) < 4 {
			break
		}
		for ; blanks > 0; blanks-- {
			content = append(content, "")
		}
		content = append(content, trimIndent(line, 4))
		p.pos++
	}
	// Trailing blank lines stay outside the block.
	p.pos -= blanks
	p.out = append(p.out, &mdast.CodeBlock{Kind: mdast.Indented, Literal: strings.Join(content, "\n") + "\n"})
}

func (p *blockParser) tryHTMLBlock() bool {
	line := p.lines[p.pos]
	var endCond func(string) bool
	var endsAfterMatch bool
	switch {
	case htmlBlock1Regexp.MatchString(line):
		endCond, endsAfterMatch = htmlBlock1End.MatchString, true
	case strings.HasPrefix(strings.TrimLeft(line, " "), "<!--"):
		endCond, endsAfterMatch = func(s string) bool { return strings.Contains(s, "-->") }, true
	case strings.HasPrefix(strings.TrimLeft(line, " "), "<?"):
		endCond, endsAfterMatch = func(s string) bool { return strings.Contains(s, "?>") }, true
	case strings.HasPrefix(strings.TrimLeft(line, " "), "<![CDATA["):
		endCond, endsAfterMatch = func(s string) bool { return strings.Contains(s, "]]>") }, true
	case htmlBlock6Regexp.MatchString(line):
		endCond = isBlank
	case len(p.para) == 0 && htmlBlock7Regexp.MatchString(line):
		endCond = isBlank
	default:
		return false
	}
	p.closeParagraph()
	var content []string
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		if !endsAfterMatch && endCond(line) {
			break
		}
		content = append(content, line)
		p.pos++
		if endsAfterMatch && endCond(line) {
			break
		}
	}
	p.out = append(p.out, &mdast.HTMLBlock{Literal: strings.Join(content, "\n") + "\n"})
	return true
}

func stripQuoteMarker(line string) (string, bool) {
	if indentWidth(line) > 3 {
		return "", false
	}
	rest := strings.TrimLeft(line, " ")
	if !strings.HasPrefix(rest, ">") {
		return "", false
	}
	rest = rest[1:]
	if strings.HasPrefix(rest, " ") {
		rest = rest[1:]
	}
	return rest, true
}

func (p *blockParser) tryBlockQuote() bool {
	if _, ok := stripQuoteMarker(p.lines[p.pos]); !ok || p.st.atLimit() {
		return false
	}
	p.closeParagraph()
	var inner []string
	for p.pos < len(p.lines) {
		stripped, ok := stripQuoteMarker(p.lines[p.pos])
		if !ok {
			break
		}
		inner = append(inner, stripped)
		p.pos++
	}
	// A quote whose first line is an [!TYPE] marker is a GitHub alert.
	if len(inner) > 0 {
		if m := alertMarkerRegexp.FindStringSubmatch(inner[0]); m != nil {
			p.out = append(p.out, &mdast.GitHubAlert{
				Type:       alertType(m[1]),
				CustomKind: customKind(m[1]),
				Blocks:     parseBlocks(p.st.descend(), inner[1:]),
			})
			return true
		}
	}
	p.out = append(p.out, &mdast.BlockQuote{Blocks: parseBlocks(p.st.descend(), inner)})
	return true
}

func alertType(word string) mdast.AlertType {
	switch strings.ToUpper(word) {
	case "NOTE":
		return mdast.AlertNote
	case "TIP":
		return mdast.AlertTip
	case "IMPORTANT":
		return mdast.AlertImportant
	case "WARNING":
		return mdast.AlertWarning
	case "CAUTION":
		return mdast.AlertCaution
	}
	return mdast.AlertCustom
}

func customKind(word string) string {
	if alertType(word) == mdast.AlertCustom {
		return word
	}
	return ""
}

// listMarker describes a recognized list-item marker line.
type listMarker struct {
	bullet  byte // '-', '+' or '*'; 0 for ordered
	term    byte // '.' or ')' for ordered
	ordinal int
	width   int // columns up to and including the marker
	content string
}

func parseListMarker(line string) (listMarker, bool) {
	m := listMarkerRegexp.FindStringSubmatch(line)
	if m == nil {
		return listMarker{}, false
	}
	var lm listMarker
	lm.width = len(m[1]) + 1
	if m[2] != "" {
		lm.bullet = m[2][0]
	} else {
		lm.ordinal, _ = strconv.Atoi(m[3])
		lm.term = m[4][0]
		lm.width = len(m[1]) + len(m[3]) + 1
	}
	lm.content = m[5]
	return lm, true
}

// contentIndent computes where item content starts: marker width plus
// the spaces that follow, except that five or more spaces (or a blank
// rest) mean one space of separation with the rest as indented content.
func (lm listMarker) contentIndent() int {
	trimmed := strings.TrimLeft(lm.content, " \t")
	spaces := len(lm.content) - len(trimmed)
	if trimmed == "" || spaces > 4 {
		return lm.width + 1
	}
	return lm.width + spaces
}

func (lm listMarker) sameList(other listMarker) bool {
	return lm.bullet == other.bullet && lm.term == other.term
}

func (p *blockParser) tryList() bool {
	first, ok := parseListMarker(p.lines[p.pos])
	if !ok || p.st.atLimit() {
		return false
	}
	if len(p.para) > 0 {
		// Only a non-empty item can interrupt a paragraph, and an
		// ordered one only when numbered 1.
		if strings.TrimSpace(first.content) == "" {
			return false
		}
		if first.bullet == 0 && first.ordinal != 1 {
			return false
		}
	}
	p.closeParagraph()

	list := &mdast.List{Marker: first.bullet, Start: first.ordinal}
	if first.bullet == 0 {
		list.Kind = mdast.Ordered
		list.Marker = first.term
	}
	for p.pos < len(p.lines) {
		lm, ok := parseListMarker(p.lines[p.pos])
		if !ok || !lm.sameList(first) {
			break
		}
		p.pos++
		ci := lm.contentIndent()
		itemLines := []string{strings.TrimLeft(lm.content, " \t")}
		blanks := 0
		for p.pos < len(p.lines) {
			line := p.lines[p.pos]
			if isBlank(line) {
				blanks++
				p.pos++
				continue
			}
			if indentWidth(line) < ci {
				break
			}
			for ; blanks > 0; blanks-- {
				itemLines = append(itemLines, "")
			}
			itemLines = append(itemLines, trimIndent(line, ci))
			p.pos++
		}
		item := mdast.ListItem{Task: mdast.NoTask}
		if tm := taskMarkerRegexp.FindStringSubmatch(itemLines[0]); tm != nil {
			if tm[1] == " " {
				item.Task = mdast.TaskIncomplete
			} else {
				item.Task = mdast.TaskComplete
			}
			itemLines[0] = tm[2]
		}
		item.Blocks = parseBlocks(p.st.descend(), itemLines)
		list.Items = append(list.Items, item)
	}
	p.out = append(p.out, list)
	return true
}

func (p *blockParser) tryFootnoteDef() bool {
	m := footnoteDefRegexp.FindStringSubmatch(p.lines[p.pos])
	if m == nil || p.st.atLimit() {
		return false
	}
	p.pos++
	body := []string{m[2]}
	blanks := 0
	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		if isBlank(line) {
			blanks++
			p.pos++
			continue
		}
		if indentWidth(line) < 4 {
			break
		}
		for ; blanks > 0; blanks-- {
			body = append(body, "")
		}
		body = append(body, trimIndent(line, 4))
		p.pos++
	}
	p.out = append(p.out, &mdast.FootnoteDefinition{
		Label:  m[1],
		Blocks: parseBlocks(p.st.descend(), body),
	})
	return true
}

// tryLinkDef recognizes a single-line reference definition:
// `[label]: destination "optional title"`. The label is kept as the raw
// inline sequence it parses to; it is the lookup key later, compared
// structurally.
func (p *blockParser) tryLinkDef() bool {
	line := p.lines[p.pos]
	if indentWidth(line) > 3 {
		return false
	}
	trimmed := strings.TrimLeft(line, " ")
	if !strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "[^") {
		return false
	}
	close := matchBracket(trimmed, 0)
	if close < 0 || close+1 >= len(trimmed) || trimmed[close+1] != ':' {
		return false
	}
	label := trimmed[1:close]
	rest := strings.TrimLeft(trimmed[close+2:], " \t")
	if rest == "" {
		return false
	}
	var dest string
	if rest[0] == '<' {
		end := strings.IndexByte(rest, '>')
		if end < 0 {
			return false
		}
		dest = rest[1:end]
		rest = rest[end+1:]
	} else {
		end := strings.IndexAny(rest, " \t")
		if end < 0 {
			end = len(rest)
		}
		dest = rest[:end]
		rest = rest[end:]
	}
	rest = strings.TrimSpace(rest)
	var title string
	if rest != "" {
		if len(rest) < 2 || (rest[0] != '"' && rest[0] != '\'') || rest[len(rest)-1] != rest[0] {
			return false
		}
		title = rest[1 : len(rest)-1]
	}
	p.out = append(p.out, &mdast.LinkDefinition{
		Label:       ParseInlines(label),
		Destination: unescapeString(dest),
		Title:       unescapeString(title),
	})
	p.pos++
	return true
}

func (p *blockParser) tryLatexBlock() bool {
	line := p.lines[p.pos]
	if indentWidth(line) > 3 {
		return false
	}
	trimmed := strings.TrimRight(strings.TrimLeft(line, " "), " \t")
	if !strings.HasPrefix(trimmed, "$$") {
		return false
	}
	if len(trimmed) > 4 && strings.HasSuffix(trimmed, "$$") {
		// Single-line form: $$ ... $$
		p.out = append(p.out, &mdast.LatexBlock{Literal: strings.TrimSpace(trimmed[2 : len(trimmed)-2])})
		p.pos++
		return true
	}
	if trimmed != "$$" {
		return false
	}
	p.pos++
	var content []string
	for p.pos < len(p.lines) {
		if latexFenceRegexp.MatchString(p.lines[p.pos]) {
			p.pos++
			break
		}
		content = append(content, p.lines[p.pos])
		p.pos++
	}
	p.out = append(p.out, &mdast.LatexBlock{Literal: strings.Join(content, "\n")})
	return true
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
