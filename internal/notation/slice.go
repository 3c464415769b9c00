package notation

import (
	"fmt"
	"strconv"
	"strings"
)

// SliceKind selects how a SliceSpec walks its input.
type SliceKind int

const (
	SliceReverse  SliceKind = iota // [-]
	SliceRange                     // [a:b]
	SliceCircular                  // [a:>k] or [a:<k]
)

// SliceSpec is a parsed postfix slice.
type SliceSpec struct {
	Kind SliceKind
	Text string

	Start, Stop       int
	HasStart, HasStop bool

	// Circular only.
	Count    int
	HasCount bool
	Backward bool
}

func (s SliceSpec) String() string { return s.Text }

// ParseSlice parses bracketed slice text such as "[1:3]", "[-]" or "[2:>3]".
func ParseSlice(spec string) (SliceSpec, error) {
	s := strings.TrimSpace(spec)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return SliceSpec{}, fmt.Errorf("%w: spec must look like \"[...]\", got %q", ErrBadSlice, spec)
	}
	out := SliceSpec{Text: s}
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "-" {
		out.Kind = SliceReverse
		return out, nil
	}

	colon := strings.IndexByte(inner, ':')
	if colon < 0 {
		return SliceSpec{}, fmt.Errorf("%w: missing \":\" in %q", ErrBadSlice, spec)
	}
	left := strings.TrimSpace(inner[:colon])
	right := strings.TrimSpace(inner[colon+1:])

	if strings.HasPrefix(right, ">") || strings.HasPrefix(right, "<") {
		out.Kind = SliceCircular
		out.Backward = right[0] == '<'
		start, ok := parseIndex(left)
		if !ok {
			return SliceSpec{}, fmt.Errorf("%w: circular start must be an integer, got %q", ErrBadSlice, left)
		}
		out.Start, out.HasStart = start, true
		count := strings.TrimSpace(right[1:])
		if count != "" {
			if !isDigits(count) {
				return SliceSpec{}, fmt.Errorf("%w: count must be a non-negative integer, got %q", ErrBadSlice, count)
			}
			n, err := strconv.Atoi(count)
			if err != nil {
				return SliceSpec{}, fmt.Errorf("%w: count %q: %v", ErrBadSlice, count, err)
			}
			out.Count, out.HasCount = n, true
		}
		return out, nil
	}

	out.Kind = SliceRange
	if left != "" {
		v, ok := parseIndex(left)
		if !ok {
			return SliceSpec{}, fmt.Errorf("%w: invalid start index %q", ErrBadSlice, left)
		}
		out.Start, out.HasStart = v, true
	}
	if right != "" {
		v, ok := parseIndex(right)
		if !ok {
			return SliceSpec{}, fmt.Errorf("%w: invalid stop index %q", ErrBadSlice, right)
		}
		out.Stop, out.HasStop = v, true
	}
	return out, nil
}

// ApplySlice runs spec over list and returns a new slice; list is not
// modified.
func ApplySlice[T any](spec SliceSpec, list []T) ([]T, error) {
	n := len(list)
	switch spec.Kind {
	case SliceReverse:
		out := make([]T, n)
		for i, v := range list {
			out[n-1-i] = v
		}
		return out, nil

	case SliceCircular:
		if n == 0 {
			return nil, fmt.Errorf("%s: %w", spec.Text, ErrEmptyCircular)
		}
		count := n
		if spec.HasCount {
			count = spec.Count
		}
		if count > MaxTokens {
			return nil, fmt.Errorf("%s: count %d: %w", spec.Text, count, ErrTooManyTokens)
		}
		var out []T
		idx := mod(spec.Start, n)
		for t := 0; t < count; t++ {
			out = append(out, list[idx])
			if spec.Backward {
				idx = (idx - 1 + n) % n
			} else {
				idx = (idx + 1) % n
			}
		}
		return out, nil
	}

	if n == 0 {
		return []T{}, nil
	}
	norm := func(i int) int {
		if i < 0 {
			return mod(i, n)
		}
		if i > n {
			return n
		}
		return i
	}

	if !spec.HasStart || !spec.HasStop {
		start, stop := 0, n
		if spec.HasStart {
			start = norm(spec.Start)
		}
		if spec.HasStop {
			stop = norm(spec.Stop)
		}
		if start >= stop {
			return []T{}, nil
		}
		return append([]T(nil), list[start:stop]...), nil
	}

	start, stop := norm(spec.Start), norm(spec.Stop)
	switch {
	case start == stop:
		return []T{}, nil
	case start < stop:
		return append([]T(nil), list[start:stop]...), nil
	}
	// Both bounds given and start > stop: walk down, both ends included.
	if start > n-1 {
		start = n - 1
	}
	out := make([]T, 0, start-stop+1)
	for i := start; i >= stop; i-- {
		out = append(out, list[i])
	}
	return out, nil
}

// Slice parses spec and applies it to list.
func Slice[T any](list []T, spec string) ([]T, error) {
	s, err := ParseSlice(spec)
	if err != nil {
		return nil, err
	}
	return ApplySlice(s, list)
}

func parseIndex(s string) (int, bool) {
	body := strings.TrimLeft(s, "+-")
	if len(s)-len(body) > 1 || !isDigits(body) {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// mod is the true modulo; the result is always in [0, n).
func mod(i, n int) int {
	m := i % n
	if m < 0 {
		m += n
	}
	return m
}
