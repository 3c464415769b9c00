package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pnengine/internal/notation"
	"pnengine/internal/perm"
	"pnengine/internal/stage"
)

var ringStedman bool

// permCmd shows the cycle structure of a row
var permCmd = &cobra.Command{
	Use:   "perm [row]",
	Short: "Show the cycles of a row",
	Long: `Reads a row in one-line form and prints its cycles, period and
whether it is differential.

Example:
  pn perm 135264`,
	Args: cobra.ExactArgs(1),
	RunE: runPerm,
}

// composeCmd composes permutations given as cycles
var composeCmd = &cobra.Command{
	Use:   "compose [perm]...",
	Short: "Compose permutations written as cycles",
	Long: `Each argument is one permutation, its cycles separated by commas,
spaces or parentheses. The permutations are applied left to right.

Examples:
  pn compose 1,472,653 1,473652
  pn compose "(12)" "(23)" "(13)"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompose,
}

// stedmanCmd prints Stedman for a stage
var stedmanCmd = &cobra.Command{
	Use:   "stedman [stage]",
	Short: "Print the notation of Stedman on an odd stage",
	Long: `The stage may be a number (7) or a bell symbol (E).

Example:
  pn stedman 7 --ring`,
	Args: cobra.ExactArgs(1),
	RunE: runStedman,
}

func init() {
	stedmanCmd.Flags().BoolVar(&ringStedman, "ring", false, "Also print the report for the plain course")
}

func runPerm(cmd *cobra.Command, args []string) error {
	p, err := perm.FromOneLine(args[0], "")
	if err != nil {
		return fmt.Errorf("failed to read row: %w", err)
	}
	out := newPrinter(cmd)
	differential := strconv.FormatBool(p.IsDifferential())
	if p.IsDifferential() {
		differential = out.Alert(differential)
	}
	for _, line := range []string{
		out.Label("Cycles", p.String()),
		out.Label("Period", strconv.Itoa(p.Period())),
		out.Label("Differential", differential),
		out.Label("One-line", p.ToOneLine()),
	} {
		if err := out.Printf("%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

// parseCycles splits "1,472,653" or "(1)(472)(653)" into cycles.
func parseCycles(arg string) []string {
	return strings.FieldsFunc(arg, func(r rune) bool {
		return r == ',' || r == ' ' || r == '(' || r == ')'
	})
}

func runCompose(cmd *cobra.Command, args []string) error {
	perms := make([]perm.Perm, 0, len(args))
	for _, arg := range args {
		p, err := perm.New(parseCycles(arg)...)
		if err != nil {
			return fmt.Errorf("failed to read permutation %q: %w", arg, err)
		}
		perms = append(perms, p)
	}
	result, err := perm.ComposeAll(perms)
	if err != nil {
		return err
	}
	logger.Debug("composed permutations", zap.Int("count", len(perms)), zap.Strings("cycles", result.Cycles()))

	out := newPrinter(cmd)
	for _, line := range []string{
		out.Label("Cycles", result.String()),
		out.Label("Canonical", result.Canonical()),
	} {
		if err := out.Printf("%s\n", line); err != nil {
			return err
		}
	}
	return out.Printf("%s\n", out.Label("Period", strconv.Itoa(result.Period())))
}

// parseStage accepts "7" or a bell symbol such as "E".
func parseStage(text string) (int, error) {
	if n, err := strconv.Atoi(text); err == nil {
		return n, nil
	}
	return stage.FromSymbol(text)
}

func runStedman(cmd *cobra.Command, args []string) error {
	n, err := parseStage(args[0])
	if err != nil {
		return fmt.Errorf("failed to read stage %q: %w", args[0], err)
	}
	pn, err := notation.Stedman(n)
	if err != nil {
		return err
	}
	out := newPrinter(cmd)
	if err := out.Printf("%s|%s\n", stage.Symbol(n), pn); err != nil {
		return err
	}
	if !ringStedman {
		return nil
	}
	res, err := ring(stage.Symbol(n) + "|" + pn)
	if err != nil {
		return err
	}
	return out.PrintReport(res.Report)
}
