// Package regression runs method batteries: YAML files listing place
// notation expressions together with the properties their rows must have.
// A battery guards the compiler against regressions the same way a golden
// file would, but stays readable to ringers.
package regression

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"pnengine/internal/analysis"
	"pnengine/internal/logging"
	"pnengine/internal/notation"
	"pnengine/internal/rows"
)

// SupportedVersion is the only battery format understood.
const SupportedVersion = 1

// ErrUnsupportedVersion is returned for batteries written in another format.
var ErrUnsupportedVersion = errors.New("unsupported battery version")

// Battery is a collection of methods to check.
type Battery struct {
	Version int      `yaml:"version"`
	Methods []Method `yaml:"methods"`
}

// Method is a single battery entry.
type Method struct {
	ID         string `yaml:"id"`
	Notation   string `yaml:"notation"`
	Stage      int    `yaml:"stage,omitempty"` // used when the notation has no prefix
	MaxChanges int    `yaml:"max_changes,omitempty"`
	Expect     Expect `yaml:"expect"`
}

// Expect lists the checked properties. Unset fields are not checked.
type Expect struct {
	Tokens       *int   `yaml:"tokens,omitempty"`
	Notation     string `yaml:"notation,omitempty"` // collapsed form
	LeadEnd      string `yaml:"lead_end,omitempty"`
	Leads        *int   `yaml:"leads,omitempty"`
	Returned     *bool  `yaml:"returned,omitempty"`
	Differential *bool  `yaml:"differential,omitempty"`
	Period       *int   `yaml:"period,omitempty"`
	// Error expects evaluation to fail with a message containing this text.
	Error string `yaml:"error,omitempty"`
}

// RunOptions tune RunBattery.
type RunOptions struct {
	Parallel              int // concurrent methods, at least 1
	MaxChanges            int // default cutoff for methods without their own
	AllowChainedOperators bool
}

// Result captures the outcome for one method.
type Result struct {
	MethodID   string           `json:"method_id"`
	Success    bool             `json:"success"`
	Failures   []string         `json:"failures,omitempty"`
	Error      string           `json:"error,omitempty"`
	DurationMs int64            `json:"duration_ms"`
	Report     *analysis.Report `json:"report,omitempty"`
}

// LoadBattery reads a YAML battery file from disk.
func LoadBattery(path string) (*Battery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var b Battery
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse battery YAML: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("invalid battery %s: %w", path, err)
	}
	return &b, nil
}

// Validate checks the version and that every method has a unique id and a
// notation.
func (b *Battery) Validate() error {
	if b.Version != SupportedVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, b.Version)
	}
	seen := make(map[string]bool, len(b.Methods))
	for i, m := range b.Methods {
		if strings.TrimSpace(m.ID) == "" {
			return fmt.Errorf("method %d has no id", i+1)
		}
		if seen[m.ID] {
			return fmt.Errorf("duplicate method id %q", m.ID)
		}
		seen[m.ID] = true
		if strings.TrimSpace(m.Notation) == "" {
			return fmt.Errorf("method %q has no notation", m.ID)
		}
	}
	return nil
}

// RunBattery checks every method, up to opts.Parallel at a time. Results
// keep battery order. A failing method does not stop the run; only context
// cancellation does, in which case the methods already checked are
// returned alongside the context error.
func RunBattery(ctx context.Context, b *Battery, opts RunOptions) ([]Result, error) {
	if b == nil || len(b.Methods) == 0 {
		return nil, nil
	}
	if b.Version != SupportedVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, b.Version)
	}

	parallel := opts.Parallel
	if parallel < 1 {
		parallel = 1
	}
	log := logging.Get(logging.CategoryBattery)
	log.Infow("running battery", "methods", len(b.Methods), "parallel", parallel)

	results := make([]Result, len(b.Methods))
	done := make([]bool, len(b.Methods))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i := range b.Methods {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = runMethod(b.Methods[i], opts)
			done[i] = true
			if !results[i].Success {
				log.Debugw("method failed", "id", b.Methods[i].ID,
					"error", results[i].Error, "failures", results[i].Failures)
			}
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		finished := make([]Result, 0, len(results))
		for i, r := range results {
			if done[i] {
				finished = append(finished, r)
			}
		}
		return finished, fmt.Errorf("battery interrupted: %w", err)
	}
	return results, nil
}

func runMethod(m Method, opts RunOptions) Result {
	start := time.Now()
	res := Result{MethodID: m.ID}

	tokens, n, err := notation.Evaluate(m.Notation, m.Stage,
		notation.WithChainedOperators(opts.AllowChainedOperators))
	if err != nil {
		if m.Expect.Error != "" && strings.Contains(err.Error(), m.Expect.Error) {
			res.Success = true
			return finish(res, start)
		}
		res.Error = err.Error()
		return finish(res, start)
	}
	if m.Expect.Error != "" {
		res.Failures = append(res.Failures, fmt.Sprintf("expected error containing %q, got %d tokens", m.Expect.Error, len(tokens)))
		return finish(res, start)
	}
	if n == 0 {
		res.Error = fmt.Sprintf("no stage for %q: add a prefix or a stage field", m.Notation)
		return finish(res, start)
	}

	maxChanges := m.MaxChanges
	if maxChanges <= 0 {
		maxChanges = opts.MaxChanges
	}
	gen := rows.Generate(tokens, n, maxChanges)
	report := analysis.Analyze(tokens, n, gen.Rows)
	res.Report = &report

	res.Failures = check(m.Expect, tokens, gen, report)
	res.Success = len(res.Failures) == 0
	return finish(res, start)
}

func finish(res Result, start time.Time) Result {
	res.DurationMs = time.Since(start).Milliseconds()
	return res
}

func check(want Expect, tokens []notation.Token, gen rows.Result, report analysis.Report) []string {
	var failures []string
	if want.Tokens != nil && *want.Tokens != len(tokens) {
		failures = append(failures, fmt.Sprintf("tokens = %d, want %d", len(tokens), *want.Tokens))
	}
	if want.Notation != "" && want.Notation != report.Notation {
		failures = append(failures, fmt.Sprintf("notation = %q, want %q", report.Notation, want.Notation))
	}
	if want.LeadEnd != "" && want.LeadEnd != report.LeadEnd {
		failures = append(failures, fmt.Sprintf("lead end = %q, want %q", report.LeadEnd, want.LeadEnd))
	}
	if want.Leads != nil && *want.Leads != gen.Leads {
		failures = append(failures, fmt.Sprintf("leads = %d, want %d", gen.Leads, *want.Leads))
	}
	if want.Returned != nil && *want.Returned != gen.Returned {
		failures = append(failures, fmt.Sprintf("returned = %t, want %t", gen.Returned, *want.Returned))
	}
	if want.Differential != nil && *want.Differential != report.Differential {
		failures = append(failures, fmt.Sprintf("differential = %t, want %t", report.Differential, *want.Differential))
	}
	if want.Period != nil && *want.Period != report.Period {
		failures = append(failures, fmt.Sprintf("period = %d, want %d", report.Period, *want.Period))
	}
	return failures
}

// Summarize counts passing and failing results.
func Summarize(results []Result) (passed, failed int) {
	for _, r := range results {
		if r.Success {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}

// DefaultBatteryPath returns the canonical battery path under dir.
func DefaultBatteryPath(dir string) string {
	return filepath.Join(dir, ".pn", "battery.yaml")
}
