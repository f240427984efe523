package worker

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/ppiankov/scout/internal/extract"
	"github.com/ppiankov/scout/internal/model"
)

// Resolver extracts people and structure from one finding.
// Implemented by review.Resolver.
type Resolver interface {
	Resolve(ctx context.Context, f model.ResearchFinding) extract.Result
}

// ExtractJob extracts one finding
type ExtractJob struct {
	Index    int
	Finding  model.ResearchFinding
	Resolver Resolver
}

// Execute runs the extraction unless ctx is already done
func (j *ExtractJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &ExtractResult{Index: j.Index, Result: extract.Result{FindingID: j.Finding.ID}, Err: err}
	}
	return &ExtractResult{Index: j.Index, Result: j.Resolver.Resolve(ctx, j.Finding)}
}

// ExtractResult is the outcome of an ExtractJob
type ExtractResult struct {
	Index          int `json:"index" yaml:"index"`
	extract.Result `yaml:",inline"`
	Err            error `json:"-" yaml:"-"`
}

func (r *ExtractResult) GetError() error {
	return r.Err
}

// BatchExtractor extracts many findings concurrently
type BatchExtractor struct {
	resolver    Resolver
	concurrency int
	logger      *zap.Logger
}

// NewBatchExtractor creates a batch extractor
func NewBatchExtractor(resolver Resolver, concurrency int, logger *zap.Logger) *BatchExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchExtractor{
		resolver:    resolver,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Run extracts every finding and returns results in input order,
// so folding them gives the same aggregate as a sequential pass.
func (b *BatchExtractor) Run(ctx context.Context, findings []model.ResearchFinding) []*ExtractResult {
	if len(findings) == 0 {
		return []*ExtractResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, f := range findings {
		if !pool.Submit(&ExtractJob{Index: i, Finding: f, Resolver: b.resolver}) {
			b.logger.Warn("batch cancelled", zap.Int("submitted", i), zap.Int("total", len(findings)))
			break
		}
	}

	results := pool.Wait()

	out := make([]*ExtractResult, 0, len(results))
	for _, r := range results {
		out = append(out, r.(*ExtractResult))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })

	b.logger.Debug("batch extracted", zap.Int("findings", len(findings)), zap.Int("results", len(out)))
	return out
}
