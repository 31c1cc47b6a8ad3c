package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scriptlab/engine/internal/engine"
)

// batchManifestItem is one entry of the JSON array batch reads: either
// inline content or a path to a script file.
type batchManifestItem struct {
	ID      string                 `json:"id"`
	Content string                 `json:"content"`
	File    string                 `json:"file"`
	Inputs  map[string]interface{} `json:"inputs"`
}

var batchCmd = &cobra.Command{
	Use:   "batch <manifest.json>",
	Short: "Execute a JSON manifest of scripts sequentially",
	Long: `Batch reads a JSON array of {id, content|file, inputs} from
<manifest.json> (pass "-" to read from stdin) and runs each sequentially
against a fresh engine, printing a JSON array of {id, success, result|error}.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	raw, err := readScript(args[0])
	if err != nil {
		return err
	}

	var manifest []batchManifestItem
	if err := json.Unmarshal([]byte(raw), &manifest); err != nil {
		return fmt.Errorf("parsing manifest: %w", err)
	}

	items := make([]engine.BatchItem, 0, len(manifest))
	for i, m := range manifest {
		content := m.Content
		if content == "" && m.File != "" {
			content, err = readScript(m.File)
			if err != nil {
				return fmt.Errorf("manifest entry %d: %w", i, err)
			}
		}
		items = append(items, engine.BatchItem{ID: m.ID, Content: content, Inputs: m.Inputs})
	}

	start := time.Now()
	results := engine.ExecuteBatch(context.Background(), items, engineConfigFrom(cfg))
	elapsed := time.Since(start)

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
		}
	}
	if logger != nil {
		logger.Info("batch completed",
			zap.Int("total", len(results)),
			zap.Int("failed", failed),
			zap.Duration("elapsed", elapsed),
		)
	}

	if err := printJSON(results); err != nil {
		return err
	}

	if failed > 0 {
		os.Exit(1)
	}
	return nil
}
