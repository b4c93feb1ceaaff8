package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"JaundiceScanner/internal/domain"
)

// Batch fans the pipeline out over a URL list and supervises the group.
type Batch struct {
	pipeline      *Pipeline
	maxConcurrent int
	logger        *slog.Logger
}

// NewBatch constructs the orchestrator; maxConcurrent <= 0 means unlimited.
func NewBatch(pipeline *Pipeline, maxConcurrent int, logger *slog.Logger) *Batch {
	return &Batch{pipeline: pipeline, maxConcurrent: maxConcurrent, logger: logger}
}

// Run analyzes every URL concurrently and returns exactly one result per
// input URL. Per-URL failures are statuses inside the results; the first
// unmodeled failure cancels the remaining work and fails the whole batch
// with no partial results.
func (b *Batch) Run(ctx context.Context, urls []string) ([]domain.ArticleResult, error) {
	results := make([]domain.ArticleResult, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	if b.maxConcurrent > 0 {
		g.SetLimit(b.maxConcurrent)
	}

	for i, url := range urls {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("analyze %s: panic: %v", url, r)
				}
			}()

			result, err := b.pipeline.Process(gctx, url)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch of %d urls failed: %w", len(urls), err)
	}

	if b.logger != nil {
		b.logger.Debug("batch finished", "urls", len(urls))
	}
	return results, nil
}
