// Package notation compiles place-notation expressions into flat token
// sequences.
//
// An expression is lexed, parsed into an AST (see ast.go) and then evaluated
// against a stage. The grammar, from lowest to highest precedence:
//
//	expr     := segment (op segment)*         op is one of , ; =
//	segment  := part ('.' part)*              dots are delimiters only
//	part     := atom* slice*                  slices must be trailing
//	atom     := N '(' expr ')' | '(' expr ')' | token
//
// A segment without parentheses is a single flat run and its slices apply to
// the whole run. The cross markers x, X and - are both delimiters and tokens.
// An optional "<symbol>|" prefix on the top-level text sets the stage.
package notation

import (
	"strings"
	"unicode"

	"pnengine/internal/stage"
)

// Token is one change of a lead: either the cross or a run of place symbols.
type Token string

// Cross is the canonical cross token.
const Cross Token = "x"

// IsCross reports whether t is a cross marker.
func (t Token) IsCross() bool {
	return len(t) == 1 && stage.IsCross(rune(t[0]))
}

// Places returns the sorted 1-based places of t that fall inside the stage.
// Unknown symbols are ignored. A cross has no places.
func (t Token) Places(n int) []int {
	if t.IsCross() {
		return nil
	}
	seen := make([]bool, stage.MaxStage+1)
	for _, r := range string(t) {
		if i := stage.IndexWithin(r, n); i > 0 {
			seen[i] = true
		}
	}
	var places []int
	for i, ok := range seen {
		if ok {
			places = append(places, i)
		}
	}
	return places
}

// Tokenize splits a flat run such as "12.34x56" into tokens. Dots and
// whitespace are delimiters; cross markers are delimiters that also emit
// a Cross token.
func Tokenize(flat string) []Token {
	var out []Token
	var buf strings.Builder
	flush := func() {
		if buf.Len() > 0 {
			out = append(out, Token(buf.String()))
			buf.Reset()
		}
	}
	for _, r := range flat {
		switch {
		case r == '.' || unicode.IsSpace(r):
			flush()
		case stage.IsCross(r):
			flush()
			out = append(out, Cross)
		default:
			buf.WriteRune(r)
		}
	}
	flush()
	return out
}

// Collapse renders tokens in compact notation. A dot separates two adjacent
// place tokens; crosses need no separator.
func Collapse(tokens []Token) string {
	var b strings.Builder
	for i, t := range tokens {
		if t.IsCross() {
			b.WriteString(string(Cross))
			continue
		}
		if i > 0 && !tokens[i-1].IsCross() {
			b.WriteByte('.')
		}
		b.WriteString(string(t))
	}
	return b.String()
}

// Strings converts tokens to plain strings.
func Strings(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = string(t)
	}
	return out
}
