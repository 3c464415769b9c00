// Package stage holds the bell alphabet and the helpers that map between
// stages, positions and symbols.
//
// A stage is the number of bells in play, between MinStage and MaxStage.
// The working alphabet for stage n is the first n symbols of Alphabet, and
// that prefix is also "rounds", the identity row.
package stage

import (
	"errors"
	"fmt"
	"strings"
)

// Alphabet is the fixed symbol table. Position 1 is '1', position 10 is '0',
// 11 is 'E', 12 is 'T' and so on up to 30.
const Alphabet = "1234567890ETABCDFGHJKLMNPQRSUV"

const (
	MinStage = 1
	MaxStage = len(Alphabet)
)

// ErrInvalidSymbol is returned when a stage is requested from text that is not
// exactly one alphabet symbol.
var ErrInvalidSymbol = errors.New("invalid stage symbol")

// Clamp forces n into [MinStage, MaxStage].
func Clamp(n int) int {
	if n < MinStage {
		return MinStage
	}
	if n > MaxStage {
		return MaxStage
	}
	return n
}

// Rounds returns the identity row for the stage (clamped).
func Rounds(n int) string {
	return Alphabet[:Clamp(n)]
}

// Subset is the working alphabet of stage n. It is the same string as
// Rounds, read as a symbol set rather than a row.
func Subset(n int) string { return Rounds(n) }

// IndexOf returns the 1-based position of sym in the alphabet, or 0.
func IndexOf(sym rune) int {
	return strings.IndexRune(Alphabet, sym) + 1
}

// IndexWithin returns the 1-based position of sym if it belongs to the
// working alphabet of stage n, or 0.
func IndexWithin(sym rune, n int) int {
	i := IndexOf(sym)
	if i == 0 || i > n {
		return 0
	}
	return i
}

// SymbolAt returns the symbol at 1-based position pos.
func SymbolAt(pos int) (rune, bool) {
	if pos < MinStage || pos > MaxStage {
		return 0, false
	}
	return rune(Alphabet[pos-1]), true
}

// IsCross reports whether r is one of the cross markers.
func IsCross(r rune) bool {
	return r == 'x' || r == 'X' || r == '-'
}

// Mirror maps sym to the symbol at stage+1-position. Symbols outside the
// working alphabet are not mirrored.
func Mirror(sym rune, n int) (rune, bool) {
	n = Clamp(n)
	i := IndexWithin(sym, n)
	if i == 0 {
		return sym, false
	}
	return rune(Alphabet[n-i]), true
}

// FromSymbol resolves a stage from a prefix such as "8" or "T".
func FromSymbol(text string) (int, error) {
	text = strings.TrimSpace(text)
	if len(text) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSymbol, text)
	}
	i := IndexOf(rune(text[0]))
	if i == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSymbol, text)
	}
	return i, nil
}

// Symbol returns the alphabet symbol naming stage n, e.g. "E" for 11.
func Symbol(n int) string {
	return string(Alphabet[Clamp(n)-1])
}
