package scrape

import (
	"context"

	"jobscanner-engine/internal/domain"
)

// Source turns one search term into zero or more candidate listings
// from one external job site. Implementations recover their own
// transient failures where they can; a returned error marks the whole
// (source, term) invocation as failed without aborting the session.
type Source interface {
	Name() string
	Search(ctx context.Context, term string, limit int) ([]domain.JobListing, error)
}

// Summary is the terminal result of one crawl session. Whatever was
// inserted before a later failure stays persisted.
type Summary struct {
	Found      int    `json:"found"`
	Inserted   int    `json:"inserted"`
	Duplicates int    `json:"duplicates"`
	Dropped    int    `json:"dropped"`
	Failures   int    `json:"failures"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at"`
}
