package hgtext

import (
	"fmt"
	"strings"
)

// tokenize splits a line on whitespace, keeping double-quoted strings (with
// backslash escapes) inside one token.
func tokenize(line string) ([]string, error) {
	var toks []string
	var sb strings.Builder
	inQuote, escaped := false, false
	flush := func() {
		if sb.Len() > 0 {
			toks = append(toks, sb.String())
			sb.Reset()
		}
	}
	for _, r := range line {
		switch {
		case escaped:
			escaped = false
			sb.WriteRune(r)
		case inQuote && r == '\\':
			escaped = true
			sb.WriteRune(r)
		case r == '"':
			inQuote = !inQuote
			sb.WriteRune(r)
		case !inQuote && (r == ' ' || r == '\t'):
			flush()
		default:
			sb.WriteRune(r)
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote")
	}
	flush()
	return toks, nil
}

// splitLabel cuts "IN:OUT" at the first colon outside quotes.
func splitLabel(tok string) (in, out string, hasOut bool) {
	inQuote, escaped := false, false
	for i, r := range tok {
		switch {
		case escaped:
			escaped = false
		case inQuote && r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
		case !inQuote && r == ':':
			return tok[:i], tok[i+1:], true
		}
	}
	return tok, "", false
}
