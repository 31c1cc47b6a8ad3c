// Package main implements the scriptengine CLI: run, validate, batch, and
// benchmark subcommands over the embedded script-execution engine.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/scriptlab/engine/internal/config"
	"github.com/scriptlab/engine/internal/logging"
)

var (
	verbose    bool
	workspace  string
	configPath string

	logger *zap.Logger
	cfg    *config.Config
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "scriptengine",
	Short: "scriptengine runs sandboxed ECMAScript modules under resource limits",
	Long: `scriptengine plans, validates, caches, and runs user-authored ECMAScript
modules under configurable resource constraints.

Run "scriptengine run <script>" to execute a script, "scriptengine validate
<script>" to plan without executing, "scriptengine batch <manifest>" to run
many scripts sequentially, or "scriptengine benchmark <script>" to time
repeated calls.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if verbose {
			cfg.Logging.DebugMode = true
			cfg.Logging.Level = "debug"
		}

		ws := workspace
		if ws == "" {
			ws, _ = os.Getwd()
		}
		if err := logging.Initialize(ws, cfg.Logging); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialise logging: %v\n", err)
		}

		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialise logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "scriptengine.yaml", "Path to scriptengine.yaml")

	rootCmd.AddCommand(runCmd, validateCmd, batchCmd, benchmarkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
