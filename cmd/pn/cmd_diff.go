package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pnengine/internal/diff"
	"pnengine/internal/notation"
)

var diffContext int

// diffCmd compares the rows of two expressions
var diffCmd = &cobra.Command{
	Use:   "diff [expr-a] [expr-b]",
	Short: "Compare the rows of two expressions",
	Long: `Rings both expressions from rounds and prints a unified diff of their
rows, for example a plain course against a touch of the same method.

Example:
  pn diff "6|x16x16x16,12" "6|x16x16x16,14"`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().IntVar(&diffContext, "context", 3, "Unchanged rows shown around each change")
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	a, err := ring(args[0])
	if err != nil {
		return err
	}
	b, err := ring(args[1])
	if err != nil {
		return err
	}
	d := diff.NewEngine(diffContext).Rows(args[0], args[1], a.Rows.Rows, b.Rows.Rows)
	logger.Debug("diffed rows", zap.Int("added", d.Added), zap.Int("removed", d.Removed))

	out := newPrinter(cmd)
	if d.Equal() {
		return out.Println("rows are identical")
	}
	if err := out.PrintDiff(d); err != nil {
		return err
	}
	if err := out.Printf("%s\n", fmt.Sprintf("%d rows added, %d removed", d.Added, d.Removed)); err != nil {
		return err
	}
	if a.Stage == b.Stage && notation.AreRotations(a.Tokens, b.Tokens) {
		return out.Println("leads are rotations of each other")
	}
	return nil
}
