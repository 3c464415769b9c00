package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pnengine/internal/config"
	"pnengine/internal/regression"
)

var (
	batteryParallel int
	forceInit       bool
)

// batteryCmd runs a method battery
var batteryCmd = &cobra.Command{
	Use:   "battery [file]",
	Short: "Check a YAML battery of methods",
	Long: `Runs every method in a battery file and compares the result with its
expectations. Exits non-zero when any method fails.

Without a file argument the battery.path config value is used, then
.pn/battery.yaml in the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBatteryCmd,
}

// configCmd groups config subcommands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the pn config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default config file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

func init() {
	batteryCmd.Flags().IntVar(&batteryParallel, "parallel", 0, "Methods checked at once (default from config)")

	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
}

func batteryPath(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	if p := currentConfig().Battery.Path; p != "" {
		return p
	}
	return regression.DefaultBatteryPath(".")
}

func runBatteryCmd(cmd *cobra.Command, args []string) error {
	path := batteryPath(args)
	b, err := regression.LoadBattery(path)
	if err != nil {
		return fmt.Errorf("failed to load battery: %w", err)
	}

	c := currentConfig()
	parallel := c.GetParallel()
	if batteryParallel > 0 {
		parallel = batteryParallel
	}

	baseCtx := cmd.Context()
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(baseCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Running battery", zap.String("path", path), zap.Int("methods", len(b.Methods)))
	results, runErr := regression.RunBattery(ctx, b, regression.RunOptions{
		Parallel:              parallel,
		MaxChanges:            c.GetMaxChanges(),
		AllowChainedOperators: c.AllowChainedOperators,
	})

	out := newPrinter(cmd)
	for _, r := range results {
		line := fmt.Sprintf("[OK] %s (%dms)", r.MethodID, r.DurationMs)
		if !r.Success {
			problems := r.Failures
			if r.Error != "" {
				problems = append([]string{r.Error}, problems...)
			}
			line = fmt.Sprintf("[ALERT] %s: %s", r.MethodID, strings.Join(problems, "; "))
		}
		if err := out.Printf("%s\n", out.ReportLine(line)); err != nil {
			return err
		}
	}
	if runErr != nil {
		return runErr
	}

	passed, failed := regression.Summarize(results)
	if err := out.Printf("%d passed, %d failed\n", passed, failed); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d methods failed", failed, len(results))
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultPath
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !forceInit {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	return newPrinter(cmd).Printf("Wrote %s\n", path)
}
