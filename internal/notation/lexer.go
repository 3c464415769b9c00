package notation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"pnengine/internal/stage"
)

type lexKind int

const (
	lexEOF lexKind = iota
	lexText
	lexCross
	lexDot
	lexLParen
	lexRParen
	lexSlice
	lexOp
)

type lexeme struct {
	kind lexKind
	text string
	pos  int
}

func isOperator(r rune) bool { return r == ',' || r == ';' || r == '=' }

// lex splits src into lexemes. offset is added to every reported position so
// that errors point into the caller's original text. Parentheses and
// brackets are checked for balance here so that the parser never sees an
// unmatched pair.
func lex(src string, offset int) ([]lexeme, error) {
	var (
		out    []lexeme
		opens  []int
		buf    strings.Builder
		bufPos int
	)
	flush := func() {
		if buf.Len() > 0 {
			out = append(out, lexeme{kind: lexText, text: buf.String(), pos: bufPos})
			buf.Reset()
		}
	}

	for i := 0; i < len(src); {
		r, size := utf8.DecodeRuneInString(src[i:])
		pos := offset + i
		switch {
		case r == '(':
			flush()
			opens = append(opens, pos)
			out = append(out, lexeme{kind: lexLParen, text: "(", pos: pos})
		case r == ')':
			flush()
			if len(opens) == 0 {
				return nil, syntaxErrorf(pos, "unmatched %q", ")")
			}
			opens = opens[:len(opens)-1]
			out = append(out, lexeme{kind: lexRParen, text: ")", pos: pos})
		case r == '[':
			flush()
			end := -1
			for j := i + 1; j < len(src); j++ {
				if src[j] == '[' {
					break
				}
				if src[j] == ']' {
					end = j
					break
				}
			}
			if end < 0 {
				return nil, syntaxErrorf(pos, "unmatched %q", "[")
			}
			out = append(out, lexeme{kind: lexSlice, text: src[i : end+1], pos: pos})
			i = end + 1
			continue
		case r == ']':
			return nil, syntaxErrorf(pos, "unmatched %q", "]")
		case r == '|':
			return nil, syntaxErrorf(pos, "stage prefix %q is only allowed at the start", "|")
		case isOperator(r):
			flush()
			out = append(out, lexeme{kind: lexOp, text: string(r), pos: pos})
		case r == '.':
			flush()
			out = append(out, lexeme{kind: lexDot, text: ".", pos: pos})
		case stage.IsCross(r):
			flush()
			out = append(out, lexeme{kind: lexCross, text: string(Cross), pos: pos})
		case unicode.IsSpace(r):
			flush()
		default:
			if buf.Len() == 0 {
				bufPos = pos
			}
			buf.WriteRune(r)
		}
		i += size
	}
	flush()

	if len(opens) > 0 {
		return nil, syntaxErrorf(opens[len(opens)-1], "unmatched %q", "(")
	}
	out = append(out, lexeme{kind: lexEOF, pos: offset + len(src)})
	return out, nil
}
