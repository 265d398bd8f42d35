package httpapi

import (
	"context"
	"sync/atomic"

	"jobscanner-engine/internal/events"
	"jobscanner-engine/internal/scrape"
	"jobscanner-engine/internal/store"
)

type Deps struct {
	DB  *store.DB
	Hub *events.Hub

	// stores httpapi.CrawlStatus
	CrawlStatus *atomic.Value

	// Crawl entrypoint (inject for testability). Empty terms means
	// "use the configured defaults".
	RunCrawl func(ctx context.Context, terms []string) (scrape.Summary, error)
}

type CrawlStatus struct {
	Running     bool            `json:"is_running"`
	LastRunAt   string          `json:"last_run,omitempty"`
	LastError   string          `json:"error,omitempty"`
	LastResults *scrape.Summary `json:"last_results,omitempty"`
}
