package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scriptlab/engine/internal/engine"
)

var validateCmd = &cobra.Command{
	Use:   "validate <script>",
	Short: "Plan a script without executing it and report its IO schema",
	Long: `Validate runs surface validation plus the full dependency-tree plan
for <script> (pass "-" to read from stdin) without ever invoking it, then
prints the resulting IO schema and declared dependencies, or the validation
errors.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidateCmd,
}

func runValidateCmd(cmd *cobra.Command, args []string) error {
	source, err := readScript(args[0])
	if err != nil {
		return err
	}

	res := engine.Validate(context.Background(), source, engineConfigFrom(cfg))
	if !res.Valid {
		if logger != nil {
			logger.Warn("script validation failed", zap.String("script", args[0]), zap.Strings("errors", res.Errors))
		}
		for _, e := range res.Errors {
			fmt.Fprintln(os.Stderr, e)
		}
		return fmt.Errorf("validation failed")
	}
	if logger != nil {
		logger.Info("script validation passed", zap.String("script", args[0]), zap.Int("dependencies", len(res.Dependencies)))
	}

	return printJSON(map[string]interface{}{
		"valid":        true,
		"io":           res.IO,
		"dependencies": res.Dependencies,
	})
}
