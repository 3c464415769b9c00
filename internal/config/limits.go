package config

import (
	"fmt"

	"pnengine/internal/stage"
)

// MaxChangesLimit bounds max_changes so a typo cannot exhaust memory.
const MaxChangesLimit = 1_000_000

// Validate checks that values are within acceptable ranges.
func (c *Config) Validate() error {
	if c.Stage != 0 && (c.Stage < stage.MinStage || c.Stage > stage.MaxStage) {
		return fmt.Errorf("stage must be 0 (unset) or between %d and %d, got %d", stage.MinStage, stage.MaxStage, c.Stage)
	}
	if c.MaxChanges < 0 || c.MaxChanges > MaxChangesLimit {
		return fmt.Errorf("max_changes must be between 0 and %d, got %d", MaxChangesLimit, c.MaxChanges)
	}
	if c.Battery.Parallel < 0 {
		return fmt.Errorf("battery.parallel must be >= 0, got %d", c.Battery.Parallel)
	}
	switch c.Output.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("output.format must be text or json, got %q", c.Output.Format)
	}
	return c.Logging.Validate()
}
