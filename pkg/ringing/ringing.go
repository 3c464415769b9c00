// Package ringing is the public face of pn: it re-exports the notation
// compiler, row generator, analyzer and permutation algebra so code outside
// this module can use them without reaching into internal packages.
package ringing

import (
	"fmt"

	"pnengine/internal/analysis"
	"pnengine/internal/notation"
	"pnengine/internal/perm"
	"pnengine/internal/rows"
	"pnengine/internal/stage"
)

// Re-export core types
type (
	Token       = notation.Token
	Node        = notation.Node
	Option      = notation.Option
	SyntaxError = notation.SyntaxError
	Rows        = rows.Result
	Report      = analysis.Report
	Perm        = perm.Perm
)

// Alphabet is the ordered set of bell symbols.
const Alphabet = stage.Alphabet

var (
	Evaluate             = notation.Evaluate
	EvaluateWithStage    = notation.EvaluateWithStage
	Parse                = notation.Parse
	Eval                 = notation.Eval
	WithChainedOperators = notation.WithChainedOperators
	Collapse             = notation.Collapse
	Tokenize             = notation.Tokenize
	Stedman              = notation.Stedman

	GenerateRows = rows.Generate
	Analyze      = analysis.Analyze

	NewPerm     = perm.New
	FromOneLine = perm.FromOneLine
	Compose     = perm.Compose
	ComposeAll  = perm.ComposeAll
)

// Re-export error sentinels
var (
	ErrSyntax             = notation.ErrSyntax
	ErrStageRequired      = notation.ErrStageRequired
	ErrInvalidStagePrefix = notation.ErrInvalidStagePrefix
	ErrMultipleOperators  = notation.ErrMultipleOperators
	ErrNoPlaces           = notation.ErrNoPlaces
	ErrInvalidSymbol      = perm.ErrInvalidSymbol
	ErrDuplicateSymbol    = perm.ErrDuplicateSymbol
	ErrEmptyRow           = perm.ErrEmptyRow
	ErrNoPerms            = perm.ErrNoPerms
)

// Result bundles the output of Run.
type Result struct {
	Tokens []Token
	Stage  int
	Rows   Rows
	Report Report
}

// Run evaluates expr, rings it until it comes round (or hits maxChanges)
// and analyzes the rows. Ringing needs a stage, so an expression that
// resolves none fails with ErrStageRequired.
func Run(expr string, fallbackStage, maxChanges int, opts ...Option) (Result, error) {
	tokens, n, err := notation.Evaluate(expr, fallbackStage, opts...)
	if err != nil {
		return Result{}, err
	}
	if n == 0 {
		return Result{}, fmt.Errorf("cannot ring %q: %w", expr, notation.ErrStageRequired)
	}
	gen := rows.Generate(tokens, n, maxChanges)
	return Result{
		Tokens: tokens,
		Stage:  n,
		Rows:   gen,
		Report: analysis.Analyze(tokens, n, gen.Rows),
	}, nil
}
