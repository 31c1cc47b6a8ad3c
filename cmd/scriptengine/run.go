package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scriptlab/engine/internal/engine"
)

var (
	runInputs   []string
	runValidate bool
)

var runCmd = &cobra.Command{
	Use:   "run <script>",
	Short: "Execute a script and print its result as JSON",
	Long: `Execute plans, caches, and invokes the script at <script> (pass "-" to
read from stdin), printing its result object as JSON on success.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringArrayVar(&runInputs, "input", nil, "key=value input, repeatable")
	runCmd.Flags().BoolVar(&runValidate, "strict", false, "Fail on missing required inputs with an explicit message")
}

func runRun(cmd *cobra.Command, args []string) error {
	source, err := readScript(args[0])
	if err != nil {
		return err
	}
	inputs, err := parseInputFlags(runInputs)
	if err != nil {
		return err
	}

	ctx := context.Background()
	econf := engineConfigFrom(cfg)

	start := time.Now()
	var result map[string]interface{}
	if runValidate {
		result, err = engine.ExecuteWithValidation(ctx, source, inputs, econf)
	} else {
		result, err = engine.Execute(ctx, source, inputs, econf)
	}
	elapsed := time.Since(start)

	if err != nil {
		if logger != nil {
			logger.Error("script call failed", zap.String("script", args[0]), zap.Duration("elapsed", elapsed), zap.Error(err))
		}
		return err
	}
	if logger != nil {
		logger.Info("script call completed", zap.String("script", args[0]), zap.Duration("elapsed", elapsed), zap.Int("outputs", len(result)))
	}

	return printJSON(result)
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
