package notation

// Rotate moves the last k tokens to the front. Negative k rotates the other
// way.
func Rotate(tokens []Token, k int) []Token {
	n := len(tokens)
	if n == 0 {
		return nil
	}
	pivot := n - mod(k, n)
	out := make([]Token, 0, n)
	out = append(out, tokens[pivot:]...)
	return append(out, tokens[:pivot]...)
}

// Rotations lists every rotation of tokens in collapsed form, starting with
// the unrotated sequence.
func Rotations(tokens []Token) []string {
	out := make([]string, len(tokens))
	for k := range tokens {
		out[k] = Collapse(Rotate(tokens, k))
	}
	return out
}

// CanonicalRotation returns the rotation whose collapsed form sorts first.
func CanonicalRotation(tokens []Token) []Token {
	if len(tokens) == 0 {
		return nil
	}
	best, bestText := 0, ""
	for k := range tokens {
		text := Collapse(Rotate(tokens, k))
		if k == 0 || text < bestText {
			best, bestText = k, text
		}
	}
	return Rotate(tokens, best)
}

// AreRotations reports whether b is a rotation of a.
func AreRotations(a, b []Token) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	return Collapse(CanonicalRotation(a)) == Collapse(CanonicalRotation(b))
}
