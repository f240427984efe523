package cli

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/scout/internal/aggregate"
	"github.com/ppiankov/scout/internal/model"
	"github.com/ppiankov/scout/internal/worker"
)

var (
	extractWorkers int
	extractTimeout time.Duration
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <findings-file>",
	Short: "Extract people and corporate structure from research findings",
	Long: `Extract runs people and structure extraction over every finding in a
file (JSON or YAML; "-" reads JSON from stdin) and prints per-finding
results plus the structure merged in file order.

Example:
  scout extract research.json
  scout extract research.yaml --workers 8 -o yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().IntVar(&extractWorkers, "workers", 0, "concurrent extractions (default: concurrency.workers)")
	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", 5*time.Minute, "overall timeout")
}

type extractOutput struct {
	Results   []*worker.ExtractResult  `json:"results" yaml:"results"`
	Structure *model.DetectedStructure `json:"structure" yaml:"structure"`
	Failed    int                      `json:"failed,omitempty" yaml:"failed,omitempty"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	research, err := readFindings(args[0])
	if err != nil {
		return err
	}

	resolver, err := newResolver()
	if err != nil {
		return err
	}

	workers := cfg.Concurrency.Workers
	if extractWorkers > 0 {
		workers = extractWorkers
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), extractTimeout)
	defer cancel()

	logger.Info("extracting", zap.Int("findings", len(research.Findings)), zap.Int("workers", workers))
	results := worker.NewBatchExtractor(resolver, workers, logger).Run(ctx, research.Findings)

	out := extractOutput{Results: results}
	structures := make([]*model.DetectedStructure, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			out.Failed++
			logger.Warn("extraction failed", zap.String("finding", r.FindingID), zap.Error(r.Err))
			continue
		}
		structures = append(structures, r.Structure)
	}
	out.Structure = aggregate.Fold(structures...)

	if err := writeOutput(cmd.OutOrStdout(), cfg.Output.Format, out); err != nil {
		return err
	}
	if len(results) < len(research.Findings) {
		return eris.Errorf("extract: %d of %d findings processed: %v", len(results), len(research.Findings), ctx.Err())
	}
	return nil
}
