package scrape

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"jobscanner-engine/internal/domain"
	"jobscanner-engine/internal/store"
)

// Crawler runs one session: every configured term against every
// configured source, sequentially, feeding candidates to the store.
type Crawler struct {
	Store          *store.DB
	Sources        []Source
	Terms          []string
	PerSourceLimit int

	// Called after each successful insert (SSE refresh hook). Optional.
	OnNewJob func(j domain.JobListing)
}

// Run drains one (source, term) pair at a time. An adapter failure is
// counted and isolated; only a storage fault aborts the session, and
// then the summary-so-far is returned alongside the error.
func (c *Crawler) Run(ctx context.Context) (Summary, error) {
	sum := Summary{StartedAt: time.Now().UTC().Format(time.RFC3339)}
	defer func() { sum.FinishedAt = time.Now().UTC().Format(time.RFC3339) }()

	if len(c.Terms) == 0 {
		return sum, errors.New("crawl: no search terms configured")
	}

	for _, src := range c.Sources {
		for _, term := range c.Terms {
			if err := ctx.Err(); err != nil {
				return sum, err
			}

			log.Printf("[crawl] source=%s term=%q", src.Name(), term)
			candidates, err := src.Search(ctx, term, c.PerSourceLimit)
			if err != nil {
				log.Printf("[crawl] source=%s term=%q err=%v", src.Name(), term, err)
				sum.Failures++
				continue
			}

			sum.Found += len(candidates)
			for i := range candidates {
				inserted, err := c.Store.Insert(ctx, &candidates[i])
				switch {
				case errors.Is(err, domain.ErrInvalidListing):
					// one bad candidate never sinks its siblings
					log.Printf("[crawl] source=%s dropped invalid candidate url=%q", src.Name(), candidates[i].URL)
					sum.Dropped++
				case err != nil:
					return sum, fmt.Errorf("crawl: store insert: %w", err)
				case inserted:
					sum.Inserted++
					if c.OnNewJob != nil {
						c.OnNewJob(candidates[i])
					}
				default:
					sum.Duplicates++
				}
			}
		}
	}

	log.Printf("[crawl] done found=%d inserted=%d duplicates=%d dropped=%d failures=%d",
		sum.Found, sum.Inserted, sum.Duplicates, sum.Dropped, sum.Failures)
	return sum, nil
}
