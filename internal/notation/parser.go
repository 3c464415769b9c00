package notation

import (
	"fmt"
	"strconv"
	"strings"

	"pnengine/internal/stage"
)

// Option configures parsing and evaluation.
type Option func(*options)

type options struct {
	chained bool
}

// WithChainedOperators allows more than one ',', ';' or '=' at the same
// nesting depth. The operators then fold left, so "a,b,c" is "(a,b),c".
func WithChainedOperators(enabled bool) Option {
	return func(o *options) { o.chained = enabled }
}

func buildOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Parse parses text into an AST. A leading "<symbol>|" stage prefix is
// validated and skipped.
func Parse(text string, opts ...Option) (Node, error) {
	body, offset, _, err := splitStagePrefix(text)
	if err != nil {
		return nil, err
	}
	return parseBody(body, offset, buildOptions(opts))
}

func parseBody(body string, offset int, o options) (Node, error) {
	toks, err := lex(body, offset)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, opts: o}
	n, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != lexEOF {
		return nil, syntaxErrorf(t.pos, "unexpected %q", t.text)
	}
	return n, nil
}

// splitStagePrefix separates "<symbol>|" from the body. stageNum is 0 when
// there is no prefix.
func splitStagePrefix(text string) (body string, offset, stageNum int, err error) {
	bar := strings.IndexByte(text, '|')
	if bar < 0 {
		return text, 0, 0, nil
	}
	prefix := text[:bar]
	n, err := stage.FromSymbol(prefix)
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w from prefix %q", ErrInvalidStagePrefix, strings.TrimSpace(prefix))
	}
	return text[bar+1:], bar + 1, n, nil
}

type parser struct {
	toks []lexeme
	i    int
	opts options
}

func (p *parser) peek() lexeme { return p.toks[p.i] }

func (p *parser) next() lexeme {
	t := p.toks[p.i]
	if t.kind != lexEOF {
		p.i++
	}
	return t
}

// parseExpr reads segments separated by low-precedence operators. It stops
// at EOF or at a closing parenthesis, which the caller consumes.
func (p *parser) parseExpr() (Node, error) {
	left, err := p.parseSegment()
	if err != nil {
		return nil, err
	}
	var first *lexeme
	for p.peek().kind == lexOp {
		op := p.next()
		if first != nil && !p.opts.chained {
			return nil, &SyntaxError{
				Pos: op.pos,
				Msg: fmt.Sprintf("operator %q follows %q at index %d", op.text, first.text, first.pos),
				Err: ErrMultipleOperators,
			}
		}
		if first == nil {
			first = &op
		}
		right, err := p.parseSegment()
		if err != nil {
			return nil, err
		}
		left = &LowOpNode{Op: op.text[0], Left: left, Right: right, At: op.pos}
	}
	return left, nil
}

// segmentHasParens looks ahead to the end of the current segment.
func (p *parser) segmentHasParens() bool {
	for j := p.i; j < len(p.toks); j++ {
		switch p.toks[j].kind {
		case lexLParen:
			return true
		case lexRParen, lexOp, lexEOF:
			return false
		}
	}
	return false
}

func atSegmentEnd(t lexeme) bool {
	return t.kind == lexEOF || t.kind == lexOp || t.kind == lexRParen
}

func (p *parser) parseSegment() (Node, error) {
	pos := p.peek().pos
	if !p.segmentHasParens() {
		return p.parseFlat(pos)
	}

	var parts []Node
	for !atSegmentEnd(p.peek()) {
		if p.peek().kind == lexDot {
			p.next()
			continue
		}
		part, err := p.parsePart()
		if err != nil {
			return nil, err
		}
		if part != nil {
			parts = append(parts, part)
		}
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return &GroupNode{Items: parts, At: pos}, nil
}

// parseFlat reads a parenthesis-free segment. Its slices apply to the whole
// run.
func (p *parser) parseFlat(pos int) (Node, error) {
	group := &GroupNode{At: pos}
	var specs []SliceSpec
	for t := p.peek(); !atSegmentEnd(t); t = p.peek() {
		p.next()
		switch t.kind {
		case lexDot:
		case lexText, lexCross:
			if len(specs) > 0 {
				return nil, syntaxErrorf(t.pos, "slice must come after the tokens it applies to, found %q", t.text)
			}
			group.Items = append(group.Items, &TokenNode{Text: t.text, At: t.pos})
		case lexSlice:
			s, err := parseSliceAt(t)
			if err != nil {
				return nil, err
			}
			specs = append(specs, s)
		default:
			return nil, syntaxErrorf(t.pos, "unexpected %q", t.text)
		}
	}
	if len(specs) == 0 {
		return group, nil
	}
	return &SliceNode{Base: group, Specs: specs, At: pos}, nil
}

// parsePart reads atoms up to the next dot or segment end, followed by an
// optional slice chain. It returns nil for an empty part.
func (p *parser) parsePart() (Node, error) {
	pos := p.peek().pos
	var items []Node
	var specs []SliceSpec
	for t := p.peek(); !atSegmentEnd(t) && t.kind != lexDot; t = p.peek() {
		if t.kind == lexSlice {
			p.next()
			s, err := parseSliceAt(t)
			if err != nil {
				return nil, err
			}
			specs = append(specs, s)
			continue
		}
		if len(specs) > 0 {
			return nil, syntaxErrorf(t.pos, "slice must come after the group it applies to, found %q", t.text)
		}
		atom, err := p.parseAtom()
		if err != nil {
			return nil, err
		}
		items = append(items, atom)
	}

	if len(items) == 0 && len(specs) == 0 {
		return nil, nil
	}
	var base Node
	if len(items) == 1 {
		base = items[0]
	} else {
		base = &GroupNode{Items: items, At: pos}
	}
	if len(specs) == 0 {
		return base, nil
	}
	return &SliceNode{Base: base, Specs: specs, At: pos}, nil
}

func (p *parser) parseAtom() (Node, error) {
	t := p.next()
	switch t.kind {
	case lexCross:
		return &TokenNode{Text: string(Cross), At: t.pos}, nil
	case lexText:
		if isDigits(t.text) && p.peek().kind == lexLParen {
			count, err := strconv.Atoi(t.text)
			if err != nil {
				return nil, syntaxErrorf(t.pos, "repeat count %q out of range", t.text)
			}
			p.next()
			inner, err := p.parseParenBody()
			if err != nil {
				return nil, err
			}
			return &MultiplierNode{Count: count, Inner: inner, At: t.pos}, nil
		}
		return &TokenNode{Text: t.text, At: t.pos}, nil
	case lexLParen:
		return p.parseParenBody()
	}
	return nil, syntaxErrorf(t.pos, "unexpected %q", t.text)
}

// parseParenBody parses a sub-expression after its opening parenthesis and
// consumes the closing one.
func (p *parser) parseParenBody() (Node, error) {
	inner, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if t := p.next(); t.kind != lexRParen {
		return nil, syntaxErrorf(t.pos, "expected %q", ")")
	}
	return inner, nil
}

func parseSliceAt(t lexeme) (SliceSpec, error) {
	s, err := ParseSlice(t.text)
	if err != nil {
		return SliceSpec{}, &SyntaxError{Pos: t.pos, Msg: fmt.Sprintf("slice %s", t.text), Err: err}
	}
	return s, nil
}
