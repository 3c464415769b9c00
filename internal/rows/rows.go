// Package rows simulates a lead of place notation from rounds.
package rows

import (
	"pnengine/internal/logging"
	"pnengine/internal/notation"
	"pnengine/internal/stage"
)

// DefaultMaxChanges is used when Generate is given a non-positive cutoff.
const DefaultMaxChanges = 6000

// Result is the outcome of Generate.
type Result struct {
	Rows      []string // Rows[0] is rounds
	Leads     int      // full leads rung
	Returned  bool     // the last lead ended in rounds
	Truncated bool     // stopped by the cutoff
}

// Generate rings the tokens lead after lead starting from rounds. It stops
// after the first lead that ends in rounds, or once more than maxChanges
// changes have been rung (checked at lead ends only). An empty token list
// yields rounds alone.
func Generate(tokens []notation.Token, stageNum, maxChanges int) Result {
	n := stage.Clamp(stageNum)
	if maxChanges <= 0 {
		maxChanges = DefaultMaxChanges
	}
	rounds := stage.Rounds(n)
	res := Result{Rows: []string{rounds}}
	if len(tokens) == 0 {
		return res
	}

	cur := []byte(rounds)
	for len(res.Rows) <= maxChanges {
		for _, t := range tokens {
			apply(cur, t, n)
			res.Rows = append(res.Rows, string(cur))
		}
		res.Leads++
		if string(cur) == rounds {
			res.Returned = true
			return res
		}
	}
	res.Truncated = true
	logging.Get(logging.CategoryRows).Debugw("row generation hit cutoff",
		"stage", n, "max_changes", maxChanges, "rows", len(res.Rows), "leads", res.Leads)
	return res
}

// ApplyToken returns the row produced by ringing t from row.
func ApplyToken(row string, t notation.Token, stageNum int) string {
	b := []byte(row)
	apply(b, t, stage.Clamp(stageNum))
	return string(b)
}

// apply permutes row in place. A cross swaps every pair from the front. A
// place token keeps its places and swaps the remaining bells in adjacent
// pairs, scanning from lead.
func apply(row []byte, t notation.Token, n int) {
	if n > len(row) {
		n = len(row)
	}
	if t.IsCross() {
		for i := 0; i+1 < n; i += 2 {
			row[i], row[i+1] = row[i+1], row[i]
		}
		return
	}
	fixed := make([]bool, n+2)
	for _, p := range t.Places(n) {
		fixed[p] = true
	}
	for i := 1; i <= n; {
		if fixed[i] || i+1 > n || fixed[i+1] {
			i++
			continue
		}
		row[i-1], row[i] = row[i], row[i-1]
		i += 2
	}
}
