// Package analysis builds the report shown after generating rows: lead
// structure, lead-end cycles, backward tenors, tenor spread and repeated
// rows.
package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"pnengine/internal/logging"
	"pnengine/internal/notation"
	"pnengine/internal/perm"
	"pnengine/internal/stage"
)

// Report line prefixes understood by the presentation layer.
const (
	PrefixOK    = "[OK]"
	PrefixWarn  = "[WARN]"
	PrefixAlert = "[ALERT]"
)

// Coord locates a row by 1-based lead and 1-based step within the lead.
type Coord struct {
	Row  int `json:"row"`
	Lead int `json:"lead"`
	Step int `json:"step"`
}

func (c Coord) String() string { return fmt.Sprintf("(L:%d, R:%d)", c.Lead, c.Step) }

// DuplicateGroup is one row text that occurs more than once.
type DuplicateGroup struct {
	Row         string  `json:"row"`
	Occurrences []Coord `json:"occurrences"`
}

// Report is the result of Analyze.
type Report struct {
	Stage            int              `json:"stage"`
	Length           int              `json:"length"`
	LeadLength       int              `json:"lead_length"`
	FullLeads        int              `json:"full_leads"`
	Remainder        int              `json:"remainder"`
	Returned         bool             `json:"returned"`
	Notation         string           `json:"notation"`
	LeadEnd          string           `json:"lead_end,omitempty"`
	Cycles           []string         `json:"cycles,omitempty"`
	Period           int              `json:"period,omitempty"`
	Differential     bool             `json:"differential"`
	BackwardTenors   int              `json:"backward_tenors"`
	TopPairDistances []float64        `json:"top_pair_distances"`
	Duplicates       []DuplicateGroup `json:"duplicates,omitempty"`
	EarlyRounds      *Coord           `json:"early_rounds,omitempty"`
	Lines            []string         `json:"lines"`
	Highlights       []string         `json:"highlights"`
}

// Analyze inspects rows generated from tokens on the given stage. rows[0] is
// expected to be rounds. It never fails: a missing or malformed lead end
// simply leaves the cycle fields empty.
func Analyze(tokens []notation.Token, stageNum int, rows []string) Report {
	n := stage.Clamp(stageNum)
	rounds := stage.Rounds(n)

	r := Report{
		Stage:      n,
		LeadLength: len(tokens),
		Notation:   notation.Collapse(tokens),
		Highlights: []string{},
	}
	if r.LeadLength < 1 {
		r.LeadLength = 1
	}
	if len(rows) > 0 {
		r.Length = len(rows) - 1
		r.Returned = rows[len(rows)-1] == rounds
	}
	r.FullLeads = r.Length / r.LeadLength
	r.Remainder = r.Length % r.LeadLength

	var lines []string
	lines = append(lines, fmt.Sprintf("Length: %d", r.Length))
	lines = append(lines, fmt.Sprintf("Lead length: %d", r.LeadLength))
	leads := fmt.Sprintf("Leads: %d", r.FullLeads)
	if r.Remainder > 0 {
		leads += fmt.Sprintf(" + %d steps", r.Remainder)
	}
	lines = append(lines, leads)

	if r.LeadLength < len(rows) {
		r.LeadEnd = rows[r.LeadLength]
		lines = append(lines, "Lead end: "+r.LeadEnd)
	} else {
		lines = append(lines, "Lead end: (none)")
	}

	lines = append(lines, fmt.Sprintf("%s Expanded PN: %s (length %d)", PrefixOK, r.Notation, len(tokens)))

	if r.LeadEnd != "" {
		cycles, period, err := perm.DeriveCycles(r.LeadEnd, stage.Subset(n))
		if err != nil {
			logging.Get(logging.CategoryAnalysis).Warnw("lead end is not a valid row", "row", r.LeadEnd, "error", err)
			lines = append(lines, fmt.Sprintf("%s lead end %q is not a valid row: %v", PrefixAlert, r.LeadEnd, err))
		} else {
			r.Cycles, r.Period = cycles, period
			r.Differential = perm.IsDifferential(cycles)
			for _, c := range cycles {
				r.Highlights = append(r.Highlights, c[:1])
			}
			if r.Differential {
				lines = append(lines, fmt.Sprintf("%s DIFFERENTIAL: period=%d cycles=%s", PrefixWarn, period, strings.Join(cycles, ",")))
			}
		}
	}

	r.BackwardTenors = CountBackwardTenors(rows, n)
	if r.BackwardTenors > 0 {
		lines = append(lines, fmt.Sprintf("%s reverse tenors at backstroke (%d rows)", PrefixAlert, r.BackwardTenors))
	}

	r.TopPairDistances = TopPairDistances(n, rows)
	lines = append(lines, FormatDistances(r.TopPairDistances))

	r.Duplicates, r.EarlyRounds = FindRepeats(rows, r.LeadLength, rounds)
	for _, d := range r.Duplicates {
		where := make([]string, len(d.Occurrences))
		for i, c := range d.Occurrences {
			where[i] = c.String()
		}
		lines = append(lines, fmt.Sprintf("%s Duplicate rows: %d x %q: %s", PrefixWarn, len(d.Occurrences), d.Row, strings.Join(where, ", ")))
	}
	if r.EarlyRounds != nil {
		lines = append(lines, fmt.Sprintf("%s Rounds reached early at row %d %s", PrefixWarn, r.EarlyRounds.Row, r.EarlyRounds))
	}

	if !r.Returned {
		lines = append(lines, fmt.Sprintf("%s Did not return to rounds within safety cutoff (%d changes).", PrefixWarn, r.Length))
	}

	r.Lines = lines
	logging.Get(logging.CategoryAnalysis).Debugw("analyzed rows",
		"stage", n, "rows", len(rows), "differential", r.Differential, "duplicates", len(r.Duplicates))
	return r
}

// CountBackwardTenors counts backstroke rows (even indices) that end with the
// two highest bells reversed, such as "...87" on eight. Odd stages have no
// tenor pair at the back and always give 0.
func CountBackwardTenors(rows []string, stageNum int) int {
	n := stage.Clamp(stageNum)
	if n%2 != 0 || n < 2 {
		return 0
	}
	want := string([]byte{stage.Alphabet[n-1], stage.Alphabet[n-2]})
	count := 0
	for i := 0; i < len(rows); i += 2 {
		if strings.HasSuffix(rows[i], want) {
			count++
		}
	}
	return count
}

// TopPairDistances measures how far apart the two highest bells are in each
// row. Bucket d holds the percentage of rows in which they are d places
// apart; there is one bucket per place.
func TopPairDistances(stageNum int, rows []string) []float64 {
	n := stage.Clamp(stageNum)
	buckets := make([]float64, n)
	if n < 2 || len(rows) == 0 {
		return buckets
	}
	top, second := stage.Alphabet[n-1], stage.Alphabet[n-2]
	for _, row := range rows {
		i, j := strings.IndexByte(row, top), strings.IndexByte(row, second)
		if i < 0 || j < 0 {
			continue
		}
		d := i - j
		if d < 0 {
			d = -d
		}
		if d < n {
			buckets[d]++
		}
	}
	for d := range buckets {
		buckets[d] = buckets[d] * 100 / float64(len(rows))
	}
	return buckets
}

// FormatDistances renders distance buckets as "Top pair distances: 0:0% 1:40% ...".
func FormatDistances(buckets []float64) string {
	parts := make([]string, len(buckets))
	for d, v := range buckets {
		parts[d] = fmt.Sprintf("%d:%s%%", d, strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64))
	}
	return "Top pair distances: " + strings.Join(parts, " ")
}

// FindDuplicates returns the groups of repeated rows, see FindRepeats.
func FindDuplicates(rows []string, leadLength int) []DuplicateGroup {
	groups, _ := FindRepeats(rows, leadLength, "")
	return groups
}

// FindRepeats groups repeated rows, ignoring the final row (which is rounds
// again when the touch comes round), and returns the first place after the
// start where rounds occurs, if any. Groups are ordered by first occurrence.
func FindRepeats(rows []string, leadLength int, rounds string) ([]DuplicateGroup, *Coord) {
	if leadLength < 1 {
		leadLength = 1
	}
	if len(rows) < 2 {
		return nil, nil
	}
	coord := func(i int) Coord {
		return Coord{Row: i, Lead: i/leadLength + 1, Step: i%leadLength + 1}
	}

	var order []string
	seen := make(map[string][]Coord)
	var early *Coord
	for i, row := range rows[:len(rows)-1] {
		if _, ok := seen[row]; !ok {
			order = append(order, row)
		}
		seen[row] = append(seen[row], coord(i))
		if early == nil && i != 0 && row == rounds {
			c := coord(i)
			early = &c
		}
	}

	var groups []DuplicateGroup
	for _, row := range order {
		if occ := seen[row]; len(occ) >= 2 {
			groups = append(groups, DuplicateGroup{Row: row, Occurrences: occ})
		}
	}
	return groups, early
}
