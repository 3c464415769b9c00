// Package diff compares the rows of two compositions line by line using the
// sergi/go-diff engine, grouping changes into unified-diff style hunks.
package diff

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LineType represents the type of diff line
type LineType int

const (
	LineContext LineType = iota // Row present in both
	LineAdded                   // Row only in the new rows
	LineRemoved                 // Row only in the old rows
)

// Line is a single row in a hunk. Index is the 0-based row index in the old
// rows for context and removed lines, in the new rows for added lines.
type Line struct {
	Index int
	Row   string
	Type  LineType
}

// Hunk represents a group of changes. Starts are 1-based as in unified diffs.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []Line
}

// RowDiff is the difference between two row lists.
type RowDiff struct {
	OldName string
	NewName string
	Added   int
	Removed int
	Hunks   []Hunk
}

// Equal reports whether the rows were identical.
func (d *RowDiff) Equal() bool { return d.Added == 0 && d.Removed == 0 }

// Engine computes row diffs.
type Engine struct {
	dmp          *diffmatchpatch.DiffMatchPatch
	contextLines int
}

// NewEngine creates an engine that keeps contextLines unchanged rows around
// each change.
func NewEngine(contextLines int) *Engine {
	if contextLines < 0 {
		contextLines = 0
	}
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0 // Disable timeout for accuracy
	return &Engine{dmp: dmp, contextLines: contextLines}
}

// Rows diffs oldRows against newRows.
func (e *Engine) Rows(oldName, newName string, oldRows, newRows []string) *RowDiff {
	d := &RowDiff{OldName: oldName, NewName: newName}

	// Line-level reduction: each row becomes one rune, so the diff never
	// splits a row.
	a, b, lineArray := e.dmp.DiffLinesToChars(joinRows(oldRows), joinRows(newRows))
	diffs := e.dmp.DiffMain(a, b, false)
	diffs = e.dmp.DiffCharsToLines(diffs, lineArray)

	ops := toLines(diffs)
	for _, op := range ops {
		switch op.Type {
		case LineAdded:
			d.Added++
		case LineRemoved:
			d.Removed++
		}
	}
	d.Hunks = group(ops, e.contextLines)
	return d
}

func joinRows(rows []string) string {
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(r)
		b.WriteByte('\n')
	}
	return b.String()
}

// toLines flattens diffmatchpatch output into one Line per row.
func toLines(diffs []diffmatchpatch.Diff) []Line {
	var lines []Line
	oldIdx, newIdx := 0, 0
	for _, df := range diffs {
		for _, row := range strings.SplitAfter(df.Text, "\n") {
			if row == "" {
				continue
			}
			row = strings.TrimSuffix(row, "\n")
			switch df.Type {
			case diffmatchpatch.DiffEqual:
				lines = append(lines, Line{Index: oldIdx, Row: row, Type: LineContext})
				oldIdx++
				newIdx++
			case diffmatchpatch.DiffDelete:
				lines = append(lines, Line{Index: oldIdx, Row: row, Type: LineRemoved})
				oldIdx++
			case diffmatchpatch.DiffInsert:
				lines = append(lines, Line{Index: newIdx, Row: row, Type: LineAdded})
				newIdx++
			}
		}
	}
	return lines
}

// group cuts lines into hunks. Changes closer than 2*context rows apart share
// a hunk.
func group(lines []Line, context int) []Hunk {
	var hunks []Hunk
	oldPos, newPos := 0, 0 // rows consumed before lines[i]
	start := -1
	lastChange := -1
	var hOld, hNew int

	flush := func(end int) {
		h := Hunk{OldStart: hOld + 1, NewStart: hNew + 1, Lines: append([]Line(nil), lines[start:end]...)}
		for _, l := range h.Lines {
			if l.Type != LineAdded {
				h.OldCount++
			}
			if l.Type != LineRemoved {
				h.NewCount++
			}
		}
		hunks = append(hunks, h)
		start = -1
	}

	// positions[i] holds the old/new row counts before lines[i].
	type pos struct{ old, new int }
	positions := make([]pos, len(lines)+1)
	for i, l := range lines {
		positions[i] = pos{oldPos, newPos}
		if l.Type != LineAdded {
			oldPos++
		}
		if l.Type != LineRemoved {
			newPos++
		}
	}
	positions[len(lines)] = pos{oldPos, newPos}

	for i, l := range lines {
		if l.Type == LineContext {
			if start >= 0 && i-lastChange > 2*context {
				flush(lastChange + context + 1)
			}
			continue
		}
		if start < 0 {
			start = i - context
			if start < 0 {
				start = 0
			}
			hOld, hNew = positions[start].old, positions[start].new
		}
		lastChange = i
	}
	if start >= 0 {
		end := lastChange + context + 1
		if end > len(lines) {
			end = len(lines)
		}
		flush(end)
	}
	return hunks
}

// Header returns the "@@ -a,b +c,d @@" line for h.
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldCount, h.NewStart, h.NewCount)
}

// Prefix returns the unified-diff marker for t.
func (t LineType) Prefix() string {
	switch t {
	case LineAdded:
		return "+"
	case LineRemoved:
		return "-"
	default:
		return " "
	}
}

// Format renders d as plain unified-diff text.
func Format(d *RowDiff) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- %s\n+++ %s\n", d.OldName, d.NewName)
	for _, h := range d.Hunks {
		b.WriteString(h.Header())
		b.WriteByte('\n')
		for _, l := range h.Lines {
			b.WriteString(l.Type.Prefix())
			b.WriteString(l.Row)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
