package domain

import (
	"errors"
	"strings"
)

// Job statuses. A listing is born "new"; downstream consumers move it
// to "processed". The crawler never touches status after insert.
const (
	StatusNew       = "new"
	StatusProcessed = "processed"
)

var ErrInvalidListing = errors.New("invalid job listing")

// JobListing is the single entity of the system. URL is the dedup key:
// the store enforces uniqueness, callers never pre-check.
type JobListing struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Company     string            `json:"company"`
	Location    string            `json:"location"`
	URL         string            `json:"url"`
	PostedDate  string            `json:"posted_date"`
	Description string            `json:"description"`
	Status      string            `json:"status"`
	Metadata    map[string]string `json:"metadata"`
}

// Normalize cleans the candidate in place and reports whether it is
// storable. Title, company and URL are required; an empty location is
// defaulted rather than rejected.
func (j *JobListing) Normalize() error {
	j.Title = CleanText(j.Title)
	j.Company = CleanText(j.Company)
	j.Location = CleanText(j.Location)
	j.URL = strings.TrimSpace(j.URL)

	if j.Title == "" || j.Company == "" || j.URL == "" {
		return ErrInvalidListing
	}
	if j.Location == "" {
		j.Location = "Unknown"
	}
	if j.Status == "" {
		j.Status = StatusNew
	}
	if j.Metadata == nil {
		j.Metadata = map[string]string{}
	}
	return nil
}

func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}
