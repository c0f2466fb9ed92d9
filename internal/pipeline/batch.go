package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/darklink/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of URLs checked at the same time.
const DefaultConcurrency = 10

// URLChecker checks one URL. *Checker implements it.
type URLChecker interface {
	Check(ctx context.Context, rawURL string) *model.URLResult
}

// BatchProcessor checks a list of URLs concurrently.
type BatchProcessor struct {
	checker     URLChecker
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets the logger.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets how many URLs are checked at once. Non-positive
// values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor around checker.
func NewBatchProcessor(checker URLChecker, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		checker:     checker,
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// Run checks every URL and returns the summary with results in input order.
// The result list always has one entry per URL. When ctx is cancelled, URLs
// not yet started get a failure result carrying the cancellation error, and
// the cancellation error is returned alongside the summary.
func (bp *BatchProcessor) Run(ctx context.Context, urls []string) (*model.RunSummary, error) {
	return bp.RunWithCallback(ctx, urls, nil)
}

// RunWithCallback is Run with callback invoked for every finished result.
// The callback runs on the worker goroutine that produced the result, so it
// must be safe for concurrent use.
func (bp *BatchProcessor) RunWithCallback(
	ctx context.Context,
	urls []string,
	callback func(result *model.URLResult, index int),
) (*model.RunSummary, error) {
	bp.logger.Info("starting batch",
		"total_urls", len(urls),
		"concurrency", bp.concurrency,
	)

	start := time.Now()
	results := make([]*model.URLResult, len(urls))

	var g errgroup.Group
	g.SetLimit(bp.concurrency)

	for i, u := range urls {
		g.Go(func() error {
			var result *model.URLResult
			if err := ctx.Err(); err != nil {
				result = model.NewURLResult(u, nil, nil, nil, err.Error())
			} else {
				result = bp.checker.Check(ctx, u)
			}

			results[i] = result

			bp.logger.Debug("url checked",
				"url", u,
				"index", i+1,
				"total", len(urls),
				"status", result.Status,
				"dark_link", result.DarkLink,
			)

			if callback != nil {
				callback(result, i)
			}
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // workers never return an error

	summary := model.NewRunSummary(results, start, time.Now())

	bp.logger.Info("batch complete",
		"total_urls", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"dark_links", summary.DarkLinks,
		"elapsed", summary.Elapsed(),
	)

	return summary, ctx.Err()
}
