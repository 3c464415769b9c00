package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pnengine/internal/config"
	"pnengine/internal/logging"
	"pnengine/internal/notation"
	"pnengine/internal/present"
)

var (
	// Global flags
	configPath string
	stageFlag  int
	maxChanges int
	chained    bool
	verbose    bool
	noColor    bool

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pn",
	Short: "pn - place notation compiler and method analyzer",
	Long: `pn compiles change-ringing place notation into changes, rings them from
rounds and reports on the result.

Expressions may start with a stage prefix such as "8|". Without one the
--stage flag (or the config file) supplies the stage.

Examples:
  pn expand "8|x18x18x18x18,12"
  pn rows "6|x16x16x16,12"
  pn report "7|3.1.7.3.1.3.1.3.7.1.3.1"`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		applyFlags(cmd, loaded)
		cfg = loaded

		logCfg := cfg.Logging
		if verbose {
			logCfg.Level = "debug"
		}
		if _, err := logging.Configure(logCfg); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = logging.Get(logging.CategoryCLI).Desugar()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Sync()
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Config file")
	rootCmd.PersistentFlags().IntVarP(&stageFlag, "stage", "s", 0, "Stage for expressions without a prefix")
	rootCmd.PersistentFlags().IntVar(&maxChanges, "max-changes", config.DefaultMaxChanges, "Safety cutoff for row generation")
	rootCmd.PersistentFlags().BoolVar(&chained, "chained", false, "Allow chains of , ; = at one depth")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	// Add commands to root
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(rowsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(permCmd)
	rootCmd.AddCommand(composeCmd)
	rootCmd.AddCommand(stedmanCmd)
	rootCmd.AddCommand(batteryCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// applyFlags lets explicitly set flags win over the config file.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("stage") {
		c.Stage = stageFlag
	}
	if flags.Changed("max-changes") {
		c.MaxChanges = maxChanges
	}
	if flags.Changed("chained") {
		c.AllowChainedOperators = chained
	}
	if noColor {
		c.Output.Color = false
	}
}

// currentConfig returns the loaded config, or the defaults when a command
// runs without the root pre-run (as in tests).
func currentConfig() *config.Config {
	if cfg == nil {
		return config.DefaultConfig()
	}
	return cfg
}

func notationOptions() []notation.Option {
	return []notation.Option{notation.WithChainedOperators(currentConfig().AllowChainedOperators)}
}

func newPrinter(cmd *cobra.Command) *present.Printer {
	return present.NewPrinter(cmd.OutOrStdout(), currentConfig().Output.Color)
}

// joinArgs rebuilds an expression the shell split on whitespace.
func joinArgs(args []string) string {
	return strings.Join(args, " ")
}
