package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"jobscanner-engine/internal/domain"
	"jobscanner-engine/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	assert.Equal(t, "vp-engineering", Slug("VP Engineering"))
	assert.Equal(t, "staff-engineer", Slug("  Staff   Engineer  "))
	assert.Equal(t, "c-developer", Slug("C++ Developer"))
	assert.Equal(t, "", Slug("   "))
}

func TestWrite(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db.Pool))

	ctx := context.Background()
	_, err = db.Insert(ctx, &domain.JobListing{
		Title: "VP Engineering", Company: "Acme", Location: "NYC", URL: "https://1",
	})
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "snap")
	require.NoError(t, Write(ctx, db, dir, []string{"VP Engineering", "Director"}))

	var stats store.Stats
	readJSON(t, filepath.Join(dir, "stats.json"), &stats)
	assert.Equal(t, 1, stats.Total)

	var jobs []domain.JobListing
	readJSON(t, filepath.Join(dir, "jobs.json"), &jobs)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Acme", jobs[0].Company)

	var companies []store.CompanyGroup
	readJSON(t, filepath.Join(dir, "companies.json"), &companies)
	require.Len(t, companies, 1)

	var hits []domain.JobListing
	readJSON(t, filepath.Join(dir, "search", "vp-engineering.json"), &hits)
	assert.Len(t, hits, 1)

	// no matches still writes a valid (empty) file
	readJSON(t, filepath.Join(dir, "search", "director.json"), &hits)
	assert.Empty(t, hits)
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, v))
}
