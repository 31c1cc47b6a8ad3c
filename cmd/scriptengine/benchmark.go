package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scriptlab/engine/internal/engine"
)

var (
	benchmarkInputs     []string
	benchmarkIterations int
)

var benchmarkCmd = &cobra.Command{
	Use:   "benchmark <script>",
	Short: "Run a script repeatedly against fixed inputs and time each call",
	Args:  cobra.ExactArgs(1),
	RunE:  runBenchmark,
}

func init() {
	benchmarkCmd.Flags().StringArrayVar(&benchmarkInputs, "input", nil, "key=value input, repeatable")
	benchmarkCmd.Flags().IntVar(&benchmarkIterations, "iterations", 10, "Number of calls to time")
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	source, err := readScript(args[0])
	if err != nil {
		return err
	}
	inputs, err := parseInputFlags(benchmarkInputs)
	if err != nil {
		return err
	}

	result, err := engine.Benchmark(context.Background(), source, inputs, benchmarkIterations, engineConfigFrom(cfg))
	if err != nil {
		if logger != nil {
			logger.Error("benchmark failed", zap.String("script", args[0]), zap.Int("iterations", benchmarkIterations), zap.Error(err))
		}
		return err
	}
	if logger != nil {
		logger.Info("benchmark completed",
			zap.String("script", args[0]),
			zap.Int("iterations", benchmarkIterations),
			zap.Float64("avgMs", result.AverageTimeMs),
			zap.Float64("minMs", result.MinTimeMs),
			zap.Float64("maxMs", result.MaxTimeMs),
		)
	}
	return printJSON(result)
}
