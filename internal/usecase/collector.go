// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"log"

	"github.com/naka-gawa/merged-pr-export/internal/config"
	"github.com/naka-gawa/merged-pr-export/internal/domain"
	"github.com/naka-gawa/merged-pr-export/internal/gateway"
)

// Collector is the use case for collecting merged pull requests.
// It pages through closed pull requests and enriches every merged one
// with its detail record.
type Collector struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
}

// NewCollector creates a new Collector instance.
func NewCollector(fetcher gateway.Fetcher, logger *log.Logger) *Collector {
	return &Collector{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Collect returns merged pull requests in the order the API lists them.
// It stops at the first empty page, or once at least cfg.MaxPRs records have
// been gathered. The cap is checked between pages only, so the result may
// exceed it by the merged items of the last page.
// Any fetch error aborts the whole collection.
func (c *Collector) Collect(ctx context.Context, cfg config.Config) ([]*domain.PullRequest, error) {
	c.logger.Printf("Usecase: Collecting merged pull requests for %s/%s...", cfg.Owner, cfg.Repo)

	var collected []*domain.PullRequest
	for page := 1; ; page++ {
		prs, err := c.fetcher.ListClosedPullRequests(ctx, cfg.Owner, cfg.Repo, page, cfg.PageSize)
		if err != nil {
			return nil, err
		}
		if len(prs) == 0 {
			c.logger.Printf("Usecase: Page %d is empty, reached end of history.", page)
			break
		}

		merged := 0
		for _, pr := range prs {
			if !pr.IsMerged() {
				continue
			}
			detail, err := c.fetcher.GetPullRequest(ctx, cfg.Owner, cfg.Repo, pr.Number)
			if err != nil {
				return nil, err
			}
			collected = append(collected, detail)
			merged++
		}
		c.logger.Printf("Usecase: Page %d had %d closed, %d merged (total %d).", page, len(prs), merged, len(collected))

		if len(collected) >= cfg.MaxPRs {
			break
		}
	}

	c.logger.Printf("Usecase: Collected %d merged pull requests.", len(collected))
	return collected, nil
}
