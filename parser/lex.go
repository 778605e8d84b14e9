package parser

import (
	"strings"
	"unicode"
)

// Low-level character classes and token readers shared by the block and
// inline parsers. Flanking classification (§ inline.go) treats the text
// boundary as whitespace, which these helpers encode with the ok flag.

func isUnicodeWhitespace(r rune) bool {
	return unicode.IsSpace(r)
}

// isUnicodePunct covers CommonMark's punctuation class, which takes in
// symbol characters as well as punctuation proper.
func isUnicodePunct(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isASCIILetter(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// isBareTokenByte reports bytes allowed in an unquoted value or key
// token: alphanumerics plus '-' and '_'.
func isBareTokenByte(b byte) bool {
	return isASCIILetter(b) || isDigit(b) || b == '-' || b == '_'
}

// readBareToken consumes a maximal run of bare-token bytes from s and
// returns the token and the rest. An empty token means no match.
func readBareToken(s string) (tok, rest string) {
	i := 0
	for i < len(s) && isBareTokenByte(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

// readQuotedValue consumes a double-quoted value. No escape processing
// happens inside the quotes; the value runs to the first closing quote.
func readQuotedValue(s string) (val, rest string, ok bool) {
	if len(s) < 2 || s[0] != '"' {
		return "", s, false
	}
	end := strings.IndexByte(s[1:], '"')
	if end < 0 {
		return "", s, false
	}
	return s[1 : 1+end], s[2+end:], true
}

// readValueToken reads either a quoted or a bare value.
func readValueToken(s string) (val, rest string, ok bool) {
	if val, rest, ok = readQuotedValue(s); ok {
		return val, rest, true
	}
	if tok, r := readBareToken(s); tok != "" {
		return tok, r, true
	}
	return "", s, false
}

// indentWidth returns the width of the leading indentation of line,
// counting a tab as advancing to the next multiple of 4.
func indentWidth(line string) int {
	w := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			w++
		case '\t':
			w += 4 - w%4
		default:
			return w
		}
	}
	return w
}

// trimIndent removes up to n columns of leading indentation, expanding
// a tab that straddles the boundary into the spaces left over.
func trimIndent(line string, n int) string {
	col := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			col++
		case '\t':
			next := col + 4 - col%4
			if next > n {
				return strings.Repeat(" ", next-n) + line[i+1:]
			}
			col = next
		default:
			return line[i:]
		}
		if col >= n {
			return line[i+1:]
		}
	}
	return ""
}

func isBlank(line string) bool {
	return strings.TrimRight(line, " \t") == ""
}
