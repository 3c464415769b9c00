package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pnengine/internal/notation"
	"pnengine/pkg/ringing"
)

var (
	showAST       bool
	showCanonical bool
	rotateBy      int
	reportJSON    bool
)

// expandCmd compiles an expression into tokens
var expandCmd = &cobra.Command{
	Use:   "expand [expr]",
	Short: "Compile an expression into tokens",
	Long: `Compiles place notation into its flat token list and prints the
collapsed notation.

Examples:
  pn expand "8|x18x18x18x18,12"
  pn expand --ast "6|(x16)3,12"
  pn expand -s 8 --rotate 1 "x18x18x18x18,12"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExpand,
}

// rowsCmd prints the rows produced by an expression
var rowsCmd = &cobra.Command{
	Use:   "rows [expr]",
	Short: "Ring an expression from rounds and print every row",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRows,
}

// reportCmd analyzes the rows produced by an expression
var reportCmd = &cobra.Command{
	Use:   "report [expr]",
	Short: "Ring an expression and report on the result",
	Long: `Rings the expression until it comes round (or hits --max-changes) and
prints lead structure, lead-end cycles, tenor spread and repeated rows.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runReport,
}

func init() {
	expandCmd.Flags().BoolVar(&showAST, "ast", false, "Print the parsed expression tree")
	expandCmd.Flags().BoolVar(&showCanonical, "canonical", false, "Print the canonical rotation of the lead")
	expandCmd.Flags().IntVar(&rotateBy, "rotate", 0, "Rotate the tokens by N before printing")

	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "Print the report as JSON")
}

func runExpand(cmd *cobra.Command, args []string) error {
	expr := joinArgs(args)
	c := currentConfig()
	tokens, n, err := notation.Evaluate(expr, c.Stage, notationOptions()...)
	if err != nil {
		return fmt.Errorf("failed to expand %q: %w", expr, err)
	}
	if rotateBy != 0 {
		tokens = notation.Rotate(tokens, rotateBy)
	}
	logger.Debug("expanded notation", zap.String("expr", expr), zap.Int("stage", n), zap.Int("tokens", len(tokens)))

	p := newPrinter(cmd)
	stageText := "none"
	if n > 0 {
		stageText = strconv.Itoa(n)
	}
	lines := []string{
		p.Label("Stage", stageText),
		p.Label("Tokens", p.Tokens(tokens, " ")),
		p.Label("Notation", notation.Collapse(tokens)),
		p.Label("Length", strconv.Itoa(len(tokens))),
	}
	if showCanonical {
		lines = append(lines,
			p.Label("Canonical", notation.Collapse(notation.CanonicalRotation(tokens))),
			p.Label("Rotations", strconv.Itoa(distinctRotations(tokens))),
		)
	}
	if showAST {
		node, err := notation.Parse(expr, notationOptions()...)
		if err != nil {
			return fmt.Errorf("failed to parse %q: %w", expr, err)
		}
		lines = append(lines, p.Label("AST", notation.Format(node)))
	}
	for _, line := range lines {
		if err := p.Printf("%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

// distinctRotations counts the different leads reachable by rotating tokens.
func distinctRotations(tokens []notation.Token) int {
	seen := make(map[string]bool)
	for _, r := range notation.Rotations(tokens) {
		seen[r] = true
	}
	return len(seen)
}

func ring(expr string) (ringing.Result, error) {
	c := currentConfig()
	res, err := ringing.Run(expr, c.Stage, c.GetMaxChanges(), notationOptions()...)
	if err != nil {
		return res, fmt.Errorf("failed to ring %q: %w", expr, err)
	}
	if res.Rows.Truncated {
		logger.Warn("row generation hit the safety cutoff",
			zap.String("expr", expr), zap.Int("max_changes", c.GetMaxChanges()))
	}
	return res, nil
}

func runRows(cmd *cobra.Command, args []string) error {
	res, err := ring(joinArgs(args))
	if err != nil {
		return err
	}
	var highlights []string
	if currentConfig().Output.Highlight {
		highlights = res.Report.Highlights
	}
	return newPrinter(cmd).PrintRows(res.Rows.Rows, highlights, len(res.Tokens))
}

func runReport(cmd *cobra.Command, args []string) error {
	res, err := ring(joinArgs(args))
	if err != nil {
		return err
	}
	if reportJSON || currentConfig().Output.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res.Report)
	}
	return newPrinter(cmd).PrintReport(res.Report)
}
