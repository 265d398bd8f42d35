package googlecareers

import (
	"context"
	"testing"

	"jobscanner-engine/internal/scrape/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbsoluteURL(t *testing.T) {
	base := "https://careers.google.com"

	assert.Equal(t, "", absoluteURL(base, ""))
	assert.Equal(t, "https://careers.google.com/jobs/results/1", absoluteURL(base, "/jobs/results/1"))
	assert.Equal(t, "https://careers.google.com/jobs/results/1", absoluteURL(base, "jobs/results/1"))
	assert.Equal(t, "https://other.example/x", absoluteURL(base, "https://other.example/x"))
}

// Integration test: needs an installed playwright browser.
func TestSearch_Real(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser integration test in short mode")
	}

	s, err := New(Config{MaxPages: 1, Headless: true}, util.NewHostLimiter(1, 1))
	if err != nil {
		t.Skipf("playwright unavailable: %v", err)
	}
	defer s.Close()

	jobs, err := s.Search(context.Background(), "Staff Engineer", 5)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(jobs), 5)
	for _, j := range jobs {
		assert.Equal(t, "Google", j.Company)
		assert.NotEmpty(t, j.Title)
		assert.NotEmpty(t, j.URL)
		assert.Equal(t, "google_careers", j.Metadata["source"])
	}
}
