package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/sst/internal/cache"
	"github.com/ppiankov/sst/internal/logging"
	"github.com/ppiankov/sst/internal/model"
	"github.com/ppiankov/sst/internal/pipeline"
)

// ErrEmptyClaim is returned for batch items without claim text
var ErrEmptyClaim = fmt.Errorf("%w: empty claim", model.ErrConfiguration)

// EvalJob evaluates one claim on its own pipeline
type EvalJob struct {
	Index     int
	Claim     model.Claim
	Mode      model.Mode
	Coherence float64 // Used when the claim has no coherence of its own
	Cache     cache.Cache
	CacheTTL  time.Duration
	Logger    *slog.Logger
}

// Execute runs the pipeline unless the report is already cached
func (j *EvalJob) Execute(ctx context.Context) Result {
	res := &EvalResult{Index: j.Index, Claim: j.Claim}

	if err := ctx.Err(); err != nil {
		res.Error = err
		return res
	}
	if strings.TrimSpace(j.Claim.Text) == "" {
		res.Error = ErrEmptyClaim
		return res
	}

	coherence := j.Coherence
	if j.Claim.Coherence != nil {
		coherence = *j.Claim.Coherence
	}

	var key string
	if j.Cache != nil {
		key = cache.Key(j.Mode, j.Claim.Text, j.Claim.Sources, coherence)
		if report, ok := j.Cache.Get(key); ok {
			res.Report = report
			res.Cached = true
			return res
		}
	}

	p, err := pipeline.New(j.Mode, pipeline.WithLogger(j.Logger))
	if err != nil {
		res.Error = err
		return res
	}
	res.Report = p.Run(j.Claim.Text, j.Claim.Sources, coherence)

	if j.Cache != nil {
		j.Cache.Set(key, res.Report, j.CacheTTL)
	}
	return res
}

// EvalResult represents the result of an evaluation job
type EvalResult struct {
	Index  int
	Claim  model.Claim
	Report *model.Report
	Cached bool
	Error  error
}

// GetError returns the error from the evaluation
func (r *EvalResult) GetError() error {
	return r.Error
}

// BatchProcessor evaluates many claims concurrently
type BatchProcessor struct {
	mode        model.Mode
	concurrency int
	coherence   float64
	cache       cache.Cache
	cacheTTL    time.Duration
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor
type BatchOption func(*BatchProcessor)

// WithCache memoizes reports so repeated claims are evaluated once
func WithCache(c cache.Cache, ttl time.Duration) BatchOption {
	return func(b *BatchProcessor) {
		b.cache = c
		b.cacheTTL = ttl
	}
}

// WithCoherence sets the initial coherence (0-100) for claims that carry none
func WithCoherence(coherence float64) BatchOption {
	return func(b *BatchProcessor) {
		b.coherence = coherence
	}
}

// NewBatchProcessor creates a new batch processor. The mode is validated here
// so a bad mode fails once instead of once per claim.
func NewBatchProcessor(mode model.Mode, concurrency int, opts ...BatchOption) (*BatchProcessor, error) {
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w %q", model.ErrInvalidMode, string(mode))
	}

	b := &BatchProcessor{
		mode:        mode,
		concurrency: concurrency,
		coherence:   pipeline.DefaultCoherenceScore,
		logger:      logging.New("batch"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// ProcessClaims evaluates claims concurrently and returns results in input order
func (b *BatchProcessor) ProcessClaims(ctx context.Context, claims []model.Claim) []*EvalResult {
	if len(claims) == 0 {
		return []*EvalResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	jobs := make([]Job, len(claims))
	for i, c := range claims {
		jobs[i] = &EvalJob{
			Index:     i,
			Claim:     c,
			Mode:      b.mode,
			Coherence: b.coherence,
			Cache:     b.cache,
			CacheTTL:  b.cacheTTL,
			Logger:    b.logger,
		}
	}

	started := time.Now()
	results := pool.Process(jobs)

	evalResults := make([]*EvalResult, len(results))
	for i, result := range results {
		evalResults[i] = result.(*EvalResult)
	}
	sort.Slice(evalResults, func(i, j int) bool {
		return evalResults[i].Index < evalResults[j].Index
	})

	b.logger.Debug("batch finished",
		"claims", len(claims),
		"completed", pool.Completed(),
		"workers", pool.Workers(),
		"elapsed", time.Since(started))

	return evalResults
}

// ProcessFile reads claims from a YAML file and evaluates them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*EvalResult, error) {
	claims, err := ReadClaimsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read claims: %w", err)
	}

	return b.ProcessClaims(ctx, claims), nil
}

// claimFile is the document form of a batch file
type claimFile struct {
	Claims []model.Claim `yaml:"claims"`
}

// ReadClaimsFromFile reads claims from YAML: either a list of
// {claim, sources, coherence} items or a document with a claims key
func ReadClaimsFromFile(filePath string) ([]model.Claim, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return ParseClaims(data)
}

// ParseClaims decodes batch YAML. Items with blank claims are rejected.
func ParseClaims(data []byte) ([]model.Claim, error) {
	var claims []model.Claim
	if err := yaml.Unmarshal(data, &claims); err != nil {
		var doc claimFile
		if docErr := yaml.Unmarshal(data, &doc); docErr != nil {
			return nil, fmt.Errorf("%w: parse claims: %v", model.ErrConfiguration, errors.Join(err, docErr))
		}
		claims = doc.Claims
	}

	for i := range claims {
		claims[i].Text = strings.TrimSpace(claims[i].Text)
		if claims[i].Text == "" {
			return nil, fmt.Errorf("item %d: %w", i+1, ErrEmptyClaim)
		}
	}

	return claims, nil
}
