// Package perm implements the permutation and cycle algebra used to classify
// lead ends.
package perm

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyRow        = errors.New("empty row")
	ErrRowTooLong      = errors.New("row longer than alphabet")
	ErrInvalidSymbol   = errors.New("invalid symbol")
	ErrDuplicateSymbol = errors.New("duplicate symbol")
	ErrNoPerms         = errors.New("no permutations to compose")
)

// validateRow checks that row is a permutation of alphabet[:len(row)] and
// returns that prefix.
func validateRow(row, alphabet string) (string, error) {
	if row == "" {
		return "", ErrEmptyRow
	}
	if len(row) > len(alphabet) {
		return "", fmt.Errorf("%w: %d symbols, alphabet has %d", ErrRowTooLong, len(row), len(alphabet))
	}
	subset := alphabet[:len(row)]
	seen := make(map[byte]bool, len(row))
	for i := 0; i < len(row); i++ {
		c := row[i]
		if strings.IndexByte(subset, c) < 0 {
			return "", fmt.Errorf("%w %q at position %d of %q; expected one of %q", ErrInvalidSymbol, c, i+1, row, subset)
		}
		if seen[c] {
			return "", fmt.Errorf("%w %q in %q", ErrDuplicateSymbol, c, row)
		}
		seen[c] = true
	}
	return subset, nil
}

// DeriveCycles decomposes row, read as the image of alphabet[i] at position
// i, into disjoint cycles. Walks start from each unvisited symbol in alphabet
// order and follow the successor map, so "234561" gives ["123456"]. Fixed
// symbols appear as one-symbol cycles. The period is the LCM of the cycle
// lengths.
func DeriveCycles(row, alphabet string) ([]string, int, error) {
	subset, err := validateRow(row, alphabet)
	if err != nil {
		return nil, 0, err
	}
	succ := make(map[byte]byte, len(row))
	for i := 0; i < len(row); i++ {
		succ[subset[i]] = row[i]
	}
	cycles := walk(subset, func(b byte) byte { return succ[b] })
	return cycles, Period(cycles), nil
}

// walk extracts cycles of next, starting from each symbol of order in turn.
func walk(order string, next func(byte) byte) []string {
	seen := make(map[byte]bool, len(order))
	var cycles []string
	for i := 0; i < len(order); i++ {
		start := order[i]
		if seen[start] {
			continue
		}
		var b strings.Builder
		for s := start; !seen[s]; s = next(s) {
			seen[s] = true
			b.WriteByte(s)
		}
		cycles = append(cycles, b.String())
	}
	return cycles
}

// IsDifferential reports whether a cycle decomposition splits the bells into
// more than one working group. It is false for no cycles or a single fixed
// symbol, false when exactly one cycle has more than one symbol, and true
// otherwise.
func IsDifferential(cycles []string) bool {
	if len(cycles) == 0 {
		return false
	}
	if len(cycles) == 1 && len(cycles[0]) == 1 {
		return false
	}
	nonTrivial := 0
	for _, c := range cycles {
		if len(c) > 1 {
			nonTrivial++
		}
	}
	return nonTrivial != 1
}

// Period returns the LCM of the cycle lengths, 1 for none.
func Period(cycles []string) int {
	p := 1
	for _, c := range cycles {
		if len(c) > 0 {
			p = LCM(p, len(c))
		}
	}
	return p
}

// GCD returns the greatest common divisor of a and b.
func GCD(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// LCM returns the least common multiple of a and b.
func LCM(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return a / GCD(a, b) * b
}

// CanonicalRotation returns the rotation of cycle that sorts first, so two
// spellings of the same cycle compare equal.
func CanonicalRotation(cycle string) string {
	best := cycle
	for k := 1; k < len(cycle); k++ {
		if r := cycle[k:] + cycle[:k]; r < best {
			best = r
		}
	}
	return best
}
