package notation

import (
	"fmt"
	"strings"
)

// Node is an element of a parsed expression.
type Node interface {
	Pos() int
	node()
}

// TokenNode is a single token from a flat run.
type TokenNode struct {
	Text string
	At   int
}

// GroupNode concatenates the results of its items.
type GroupNode struct {
	Items []Node
	At    int
}

// SliceNode applies a chain of slices to the result of Base.
type SliceNode struct {
	Base  Node
	Specs []SliceSpec
	At    int
}

// MultiplierNode repeats Inner Count times.
type MultiplierNode struct {
	Count int
	Inner Node
	At    int
}

// LowOpNode combines two operands with ',', ';' or '='. Chains are left
// nested.
type LowOpNode struct {
	Op    byte
	Left  Node
	Right Node
	At    int
}

func (n *TokenNode) Pos() int      { return n.At }
func (n *GroupNode) Pos() int      { return n.At }
func (n *SliceNode) Pos() int      { return n.At }
func (n *MultiplierNode) Pos() int { return n.At }
func (n *LowOpNode) Pos() int      { return n.At }

func (*TokenNode) node()      {}
func (*GroupNode) node()      {}
func (*SliceNode) node()      {}
func (*MultiplierNode) node() {}
func (*LowOpNode) node()      {}

// Format renders n as an S-expression, e.g.
//
//	(, (group 1 x 45) (slice (group 4 5) [1:2]))
func Format(n Node) string {
	var b strings.Builder
	format(&b, n)
	return b.String()
}

func format(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *TokenNode:
		b.WriteString(n.Text)
	case *GroupNode:
		b.WriteString("(group")
		for _, it := range n.Items {
			b.WriteByte(' ')
			format(b, it)
		}
		b.WriteByte(')')
	case *SliceNode:
		b.WriteString("(slice ")
		format(b, n.Base)
		for _, s := range n.Specs {
			b.WriteByte(' ')
			b.WriteString(s.Text)
		}
		b.WriteByte(')')
	case *MultiplierNode:
		fmt.Fprintf(b, "(repeat %d ", n.Count)
		format(b, n.Inner)
		b.WriteByte(')')
	case *LowOpNode:
		fmt.Fprintf(b, "(%c ", n.Op)
		format(b, n.Left)
		b.WriteByte(' ')
		format(b, n.Right)
		b.WriteByte(')')
	case nil:
		b.WriteString("()")
	default:
		fmt.Fprintf(b, "<%T>", n)
	}
}
