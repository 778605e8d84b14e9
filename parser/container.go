package parser

import (
	"regexp"
	"strings"

	"github.com/hesusruiz/mdpp/mdast"
)

// Custom container blocks:
//
//	:::kind{key="value" other=bare}
//	...blocks...
//	:::
//
// The recognizer refuses to match while any container is already active
// on the state's stack, so a nested `:::` line inside a container falls
// through to paragraph text instead of opening an inner container.

var (
	containerOpenRegexp  = regexp.MustCompile(`^ {0,3}:::([^{ \t]+)(.*)$`)
	containerCloseRegexp = regexp.MustCompile(`^ {0,3}:::[ \t]*$`)
)

func (p *blockParser) tryContainer() bool {
	if p.st.InContainer() || p.st.atLimit() {
		return false
	}
	m := containerOpenRegexp.FindStringSubmatch(p.lines[p.pos])
	if m == nil {
		return false
	}
	kind := m[1]
	params, ok := parseContainerParams(m[2])
	if !ok {
		return false
	}
	// An opener without a closing fence is not a container at all; the
	// lines fall through to ordinary content handling.
	end := -1
	for i := p.pos + 1; i < len(p.lines); i++ {
		if containerCloseRegexp.MatchString(p.lines[i]) {
			end = i
			break
		}
	}
	if end < 0 {
		return false
	}
	p.closeParagraph()
	inner := p.lines[p.pos+1 : end]
	p.pos = end + 1
	p.out = append(p.out, &mdast.Container{
		Kind:   kind,
		Params: params,
		Blocks: parseBlocks(p.st.Derive(kind), inner),
	})
	return true
}

// parseContainerParams parses what follows the kind on the opening
// line: optional whitespace, an optional `{key="val" key2=bare}` block,
// then only whitespace. Anything else fails the whole recognizer, which
// sends the line back to ordinary content handling.
func parseContainerParams(rest string) ([]mdast.ContainerParam, bool) {
	rest = strings.TrimLeft(rest, " \t")
	if rest == "" {
		return nil, true
	}
	if rest[0] != '{' {
		return nil, false
	}
	var params []mdast.ContainerParam
	rest = rest[1:]
	for {
		rest = strings.TrimLeft(rest, " \t")
		if rest == "" {
			return nil, false
		}
		if rest[0] == '}' {
			rest = rest[1:]
			break
		}
		key, r := readBareToken(rest)
		if key == "" {
			return nil, false
		}
		// Every param is a key=value pair; the '=' may carry spaces on
		// either side. A key without a value fails the opener.
		r = strings.TrimLeft(r, " \t")
		if r == "" || r[0] != '=' {
			return nil, false
		}
		val, r2, ok := readValueToken(strings.TrimLeft(r[1:], " \t"))
		if !ok {
			return nil, false
		}
		params = append(params, mdast.ContainerParam{Key: key, Value: val})
		rest = r2
	}
	if strings.TrimSpace(rest) != "" {
		return nil, false
	}
	return params, true
}
