package notation

import (
	"fmt"

	"pnengine/internal/logging"
	"pnengine/internal/stage"
)

// evalContext is passed by value through the recursion. stage 0 means no
// stage was resolved.
type evalContext struct {
	stage int
}

// Evaluate compiles text into tokens. The stage comes from a leading
// "<symbol>|" prefix when present, otherwise from fallbackStage; a fallback
// of zero or less leaves the stage unresolved. The resolved stage (0 when
// unresolved) is returned with the tokens.
func Evaluate(text string, fallbackStage int, opts ...Option) ([]Token, int, error) {
	body, offset, n, err := splitStagePrefix(text)
	if err != nil {
		return nil, 0, err
	}
	if n == 0 && fallbackStage > 0 {
		n = stage.Clamp(fallbackStage)
	}
	node, err := parseBody(body, offset, buildOptions(opts))
	if err != nil {
		return nil, 0, err
	}
	tokens, err := eval(node, evalContext{stage: n})
	if err != nil {
		return nil, 0, err
	}
	logging.Get(logging.CategoryNotation).Debugw("evaluated notation",
		"text", text, "stage", n, "tokens", len(tokens))
	return tokens, n, nil
}

// EvaluateWithStage compiles text that carries no stage prefix using the
// given stage (0 or less for none).
func EvaluateWithStage(text string, n int, opts ...Option) ([]Token, error) {
	node, err := parseBody(text, 0, buildOptions(opts))
	if err != nil {
		return nil, err
	}
	if n > 0 {
		n = stage.Clamp(n)
	} else {
		n = 0
	}
	return eval(node, evalContext{stage: n})
}

// Eval evaluates an already parsed expression.
// Stages above MaxStage are clamped; 0 or less means no stage.
func Eval(node Node, n int) ([]Token, error) {
	if n > 0 {
		n = stage.Clamp(n)
	} else {
		n = 0
	}
	return eval(node, evalContext{stage: n})
}

func eval(n Node, ctx evalContext) ([]Token, error) {
	switch n := n.(type) {
	case nil:
		return nil, nil

	case *TokenNode:
		if len(n.Text) == 1 && stage.IsCross(rune(n.Text[0])) {
			return []Token{Cross}, nil
		}
		return []Token{Token(n.Text)}, nil

	case *GroupNode:
		var out []Token
		for _, it := range n.Items {
			part, err := eval(it, ctx)
			if err != nil {
				return nil, err
			}
			out = append(out, part...)
		}
		return out, nil

	case *SliceNode:
		list, err := eval(n.Base, ctx)
		if err != nil {
			return nil, err
		}
		for _, s := range n.Specs {
			list, err = ApplySlice(s, list)
			if err != nil {
				return nil, fmt.Errorf("slice at index %d: %w", n.At, err)
			}
		}
		return list, nil

	case *MultiplierNode:
		inner, err := eval(n.Inner, ctx)
		if err != nil {
			return nil, err
		}
		if len(inner) == 0 {
			return nil, nil
		}
		if n.Count > MaxTokens/len(inner) {
			return nil, &SyntaxError{Pos: n.At, Msg: fmt.Sprintf("repeat count %d", n.Count), Err: ErrTooManyTokens}
		}
		var out []Token
		for i := 0; i < n.Count; i++ {
			out = append(out, inner...)
		}
		return out, nil

	case *LowOpNode:
		left, err := eval(n.Left, ctx)
		if err != nil {
			return nil, err
		}
		right, err := eval(n.Right, ctx)
		if err != nil {
			return nil, err
		}
		return combine(n, left, right, ctx)
	}
	return nil, fmt.Errorf("unknown node %T", n)
}

func combine(n *LowOpNode, left, right []Token, ctx evalContext) ([]Token, error) {
	if n.Op == ',' {
		return append(DoubleUp(left), DoubleUp(right)...), nil
	}
	if ctx.stage == 0 {
		return nil, fmt.Errorf("operator %q at index %d %w (use a \"<symbol>|\" prefix)", string(n.Op), n.At, ErrStageRequired)
	}
	switch n.Op {
	case ';':
		return append(DoubleUpInvert(left, ctx.stage), DoubleUpInvert(right, ctx.stage)...), nil
	case '=':
		out := make([]Token, 0, len(left)+len(right))
		for _, t := range left {
			m, err := MirrorExpand(t, ctx.stage)
			if err != nil {
				return nil, fmt.Errorf("operator \"=\" at index %d: %w", n.At, err)
			}
			out = append(out, m)
		}
		return append(out, right...), nil
	}
	return nil, fmt.Errorf("unknown operator %q", string(n.Op))
}
