package scrape

import (
	"context"
	"io"
	"log"

	"jobscanner-engine/internal/config"
	"jobscanner-engine/internal/domain"
	"jobscanner-engine/internal/scrape/googlecareers"
	"jobscanner-engine/internal/scrape/linkedin"
	"jobscanner-engine/internal/scrape/util"
	"jobscanner-engine/internal/store"
)

// RunSession builds sources from config and runs one crawl session.
// terms overrides cfg.Crawl.SearchTerms when non-empty. A source that
// cannot even be constructed (e.g. no browser installed) is counted as
// one failure and skipped; the session still runs the rest.
func RunSession(ctx context.Context, db *store.DB, cfg config.Config, terms []string, onNewJob func(domain.JobListing)) (Summary, error) {
	if len(terms) == 0 {
		terms = cfg.Crawl.SearchTerms
	}

	// one request per delay interval, shared across sources per host
	limiter := util.NewHostLimiter(1.0/float64(cfg.Crawl.DelaySeconds), 1)

	var sources []Source
	var closers []io.Closer
	preFailures := 0

	if cfg.Crawl.Sources.GoogleCareers.Enabled {
		gc, err := googlecareers.New(googlecareers.Config{
			MaxPages: cfg.Crawl.Sources.GoogleCareers.MaxPages,
			Headless: true,
		}, limiter)
		if err != nil {
			log.Printf("[crawl] source=google_careers unavailable: %v", err)
			preFailures++
		} else {
			sources = append(sources, gc)
			closers = append(closers, gc)
		}
	}
	if cfg.Crawl.Sources.LinkedIn.Enabled {
		sources = append(sources, linkedin.New(linkedin.Config{
			Location: cfg.Crawl.Sources.LinkedIn.Location,
			MaxPages: cfg.Crawl.Sources.LinkedIn.MaxPages,
		}, limiter))
	}
	defer func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}()

	c := &Crawler{
		Store:          db,
		Sources:        sources,
		Terms:          terms,
		PerSourceLimit: cfg.Crawl.PerSourceLimit,
		OnNewJob:       onNewJob,
	}
	sum, err := c.Run(ctx)
	sum.Failures += preFailures
	return sum, err
}
