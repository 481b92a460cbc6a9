package usecase

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/github-lifecycle/internal/domain"
)

// Collector runs an Extractor over a batch of repositories.
type Collector struct {
	extractor   *Extractor
	concurrency int
	logger      *log.Logger
}

// NewCollector creates a Collector extracting up to concurrency repositories at once.
func NewCollector(extractor *Extractor, concurrency int, logger *log.Logger) *Collector {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Collector{
		extractor:   extractor,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Collect extracts every repository in urls. The result has one entry per url, in
// input order; a repository that failed is kept with nil Issues and its Err set.
func (c *Collector) Collect(ctx context.Context, urls []string, window Window, showProgress bool) ([]domain.RepositoryStats, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	c.logger.Printf("Usecase: Collecting %d repositories with concurrency %d...", len(urls), c.concurrency)

	results := make([]domain.RepositoryStats, len(urls))
	var eg errgroup.Group
	eg.SetLimit(c.concurrency)

	for i, url := range urls {
		eg.Go(func() error {
			if ctx.Err() != nil {
				results[i] = domain.RepositoryStats{URL: url, Err: ctx.Err()}
				return nil
			}
			repoStats, err := c.extractor.Extract(ctx, url, window, showProgress)
			if err != nil {
				c.logger.Printf("Usecase: Failed to extract %s: %v", url, err)
				results[i] = domain.RepositoryStats{URL: url, Err: err}
				return nil
			}
			results[i] = *repoStats
			return nil
		})
	}
	_ = eg.Wait()

	c.logger.Println("Usecase: Collection complete.")
	return results, ctx.Err()
}
