package perm

import (
	"fmt"
	"sort"
	"strings"

	"pnengine/internal/stage"
)

// Perm is an immutable permutation held as a sorted list of cycle strings.
// Period and the differential flag are computed once at construction.
type Perm struct {
	cycles       []string
	alphabet     string
	period       int
	differential bool
}

// New builds a Perm from cycle strings over the standard alphabet. A symbol
// may appear in at most one cycle.
func New(cycles ...string) (Perm, error) {
	return newPerm(cycles, stage.Alphabet)
}

// MustNew is New for literals; it panics on invalid input.
func MustNew(cycles ...string) Perm {
	p, err := New(cycles...)
	if err != nil {
		panic(err)
	}
	return p
}

func newPerm(cycles []string, alphabet string) (Perm, error) {
	seen := make(map[rune]bool)
	sorted := make([]string, 0, len(cycles))
	for _, c := range cycles {
		if c == "" {
			return Perm{}, fmt.Errorf("empty cycle in %q", cycles)
		}
		for _, r := range c {
			if seen[r] {
				return Perm{}, fmt.Errorf("%w %q in cycles %q", ErrDuplicateSymbol, r, cycles)
			}
			seen[r] = true
		}
		sorted = append(sorted, c)
	}
	sort.Strings(sorted)
	return Perm{
		cycles:       sorted,
		alphabet:     alphabet,
		period:       Period(sorted),
		differential: IsDifferential(sorted),
	}, nil
}

// FromOneLine builds a Perm from a row in one-line notation over the first
// len(row) symbols of alphabet (stage.Alphabet when empty). Each cycle keeps
// its first symbol and lists the rest in reverse, so "1342" is stored as
// ["1", "243"].
func FromOneLine(row, alphabet string) (Perm, error) {
	if alphabet == "" {
		alphabet = stage.Alphabet
	}
	cycles, _, err := DeriveCycles(row, alphabet)
	if err != nil {
		return Perm{}, err
	}
	for i, c := range cycles {
		cycles[i] = c[:1] + reverse(c[1:])
	}
	return newPerm(cycles, alphabet)
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// Cycles returns a copy of the sorted cycles.
func (p Perm) Cycles() []string {
	return append([]string(nil), p.cycles...)
}

// Period is the order of the permutation.
func (p Perm) Period() int {
	if p.period == 0 {
		return 1
	}
	return p.period
}

// IsDifferential reports the differential classification of the cycles.
func (p Perm) IsDifferential() bool { return p.differential }

// Alphabet returns the symbol order used by ToOneLine.
func (p Perm) Alphabet() string {
	if p.alphabet == "" {
		return stage.Alphabet
	}
	return p.alphabet
}

// ToOneLine renders the permutation as a row. Within each cycle every
// symbol's image is the symbol before it; positions up to the highest one
// mentioned are written, unmentioned ones map to themselves. Symbols outside
// the alphabet are ignored.
func (p Perm) ToOneLine() string {
	alphabet := p.Alphabet()
	image := make(map[byte]byte)
	maxPos := 0
	for _, c := range p.cycles {
		for i := 0; i < len(c); i++ {
			image[c[(i+1)%len(c)]] = c[i]
			if pos := strings.IndexByte(alphabet, c[i]) + 1; pos > maxPos {
				maxPos = pos
			}
		}
	}
	out := make([]byte, maxPos)
	for i := 0; i < maxPos; i++ {
		sym := alphabet[i]
		if img, ok := image[sym]; ok {
			out[i] = img
		} else {
			out[i] = sym
		}
	}
	return string(out)
}

// Equal compares cycles structurally.
func (p Perm) Equal(other Perm) bool {
	if len(p.cycles) != len(other.cycles) {
		return false
	}
	for i := range p.cycles {
		if p.cycles[i] != other.cycles[i] {
			return false
		}
	}
	return true
}

func (p Perm) String() string {
	return formatCycles(p.cycles)
}

// Canonical renders p with every cycle turned to its first-sorting rotation,
// so "(1)(435627)" and "(274356)(1)" print the same.
func (p Perm) Canonical() string {
	cycles := make([]string, len(p.cycles))
	for i, c := range p.cycles {
		cycles[i] = CanonicalRotation(c)
	}
	sort.Strings(cycles)
	return formatCycles(cycles)
}

func formatCycles(cycles []string) string {
	if len(cycles) == 0 {
		return "()"
	}
	var b strings.Builder
	for _, c := range cycles {
		b.WriteByte('(')
		b.WriteString(c)
		b.WriteByte(')')
	}
	return b.String()
}

// Compose returns a followed by b: each symbol is first moved by a's cycles
// and then by b's. Cycles are read forwards (c[i] goes to c[i+1]) and the
// result is walked over the symbols of a then b in first-seen order.
// Symbols not listed in a permutation stay put.
func Compose(a, b Perm) Perm {
	var order []byte
	listed := make(map[byte]bool)
	for _, cs := range [][]string{a.cycles, b.cycles} {
		for _, c := range cs {
			for i := 0; i < len(c); i++ {
				if !listed[c[i]] {
					listed[c[i]] = true
					order = append(order, c[i])
				}
			}
		}
	}
	ma, mb := forward(a.cycles), forward(b.cycles)
	apply := func(m map[byte]byte, s byte) byte {
		if t, ok := m[s]; ok {
			return t
		}
		return s
	}
	cycles := walk(string(order), func(s byte) byte { return apply(mb, apply(ma, s)) })
	p, _ := newPerm(cycles, a.Alphabet())
	return p
}

func forward(cycles []string) map[byte]byte {
	m := make(map[byte]byte)
	for _, c := range cycles {
		for i := 0; i < len(c); i++ {
			m[c[i]] = c[(i+1)%len(c)]
		}
	}
	return m
}

// ComposeAll folds Compose over perms from the left.
func ComposeAll(perms []Perm) (Perm, error) {
	if len(perms) == 0 {
		return Perm{}, ErrNoPerms
	}
	acc := perms[0]
	for _, p := range perms[1:] {
		acc = Compose(acc, p)
	}
	return acc, nil
}
