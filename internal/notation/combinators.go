package notation

import (
	"fmt"
	"strings"

	"pnengine/internal/stage"
)

// DoubleUp makes a palindrome around the last token:
// [a b c] becomes [a b c b a]. Lists of length 0 or 1 are returned as is.
func DoubleUp(list []Token) []Token {
	out := append([]Token(nil), list...)
	for i := len(list) - 2; i >= 0; i-- {
		out = append(out, list[i])
	}
	return out
}

// DoubleUpInvert is DoubleUp with every appended token inverted.
func DoubleUpInvert(list []Token, n int) []Token {
	out := append([]Token(nil), list...)
	for i := len(list) - 2; i >= 0; i-- {
		out = append(out, InvertToken(list[i], n))
	}
	return out
}

// InvertToken mirrors each place of t through the middle of the stage and
// reverses the result, so "12" on six becomes "56". Characters outside the
// stage are kept.
func InvertToken(t Token, n int) Token {
	if t.IsCross() {
		return Cross
	}
	rs := []rune(string(t))
	out := make([]rune, len(rs))
	for i, r := range rs {
		m, _ := stage.Mirror(r, n)
		out[len(rs)-1-i] = m
	}
	return Token(out)
}

// MirrorExpand returns the places of t together with their mirror images,
// in alphabet order: "1" on six becomes "16".
func MirrorExpand(t Token, n int) (Token, error) {
	if t.IsCross() {
		return Cross, nil
	}
	n = stage.Clamp(n)
	places := t.Places(n)
	if len(places) == 0 {
		return "", fmt.Errorf("%w: %q on stage %d", ErrNoPlaces, string(t), n)
	}
	set := make([]bool, n+1)
	for _, p := range places {
		set[p] = true
		set[n+1-p] = true
	}
	var b strings.Builder
	for p := 1; p <= n; p++ {
		if set[p] {
			b.WriteByte(stage.Alphabet[p-1])
		}
	}
	return Token(b.String()), nil
}
