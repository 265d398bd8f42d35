package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"jobscanner-engine/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db.Pool))
	return db
}

func job(title, company, url string) *domain.JobListing {
	return &domain.JobListing{
		Title:   title,
		Company: company,
		URL:     url,
		Metadata: map[string]string{
			"source": "test",
		},
	}
}

func TestInsert_Idempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	first := job("Staff Engineer", "Acme", "https://jobs/1")
	inserted, err := db.Insert(ctx, first)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Greater(t, first.ID, int64(0))

	// same URL again: a dup-skip, not an error
	second := job("Staff Engineer (repost)", "Acme", "https://jobs/1")
	inserted, err = db.Insert(ctx, second)
	require.NoError(t, err)
	assert.False(t, inserted)

	st, err := db.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Total)
}

func TestInsert_RejectsInvalid(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Insert(context.Background(), &domain.JobListing{Company: "Acme", URL: "https://jobs/1"})
	assert.ErrorIs(t, err, domain.ErrInvalidListing)

	st, err := db.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, st.Total)
}

func TestDedupInvariant(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	urls := []string{"https://a", "https://b", "https://a", "https://c", "https://b", "https://a"}
	for i, u := range urls {
		_, err := db.Insert(ctx, job("T", "C", u))
		require.NoError(t, err, "insert %d", i)
	}

	var rows, distinct int
	require.NoError(t, db.Pool.QueryRow(`SELECT COUNT(*), COUNT(DISTINCT url) FROM jobs;`).Scan(&rows, &distinct))
	assert.Equal(t, distinct, rows)
	assert.Equal(t, 3, rows)
}

func TestList_OrderAndFilters(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.Insert(ctx, job("Engineer", "Acme Corp", "https://jobs/1"))
	require.NoError(t, err)
	_, err = db.Insert(ctx, job("Manager", "Beta Inc", "https://jobs/2"))
	require.NoError(t, err)
	_, err = db.Insert(ctx, job("Director", "Acme Corp", "https://jobs/3"))
	require.NoError(t, err)

	all, err := db.List(ctx, ListOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// most-recently-inserted first
	assert.Equal(t, "Director", all[0].Title)
	assert.Equal(t, "Manager", all[1].Title)
	assert.Equal(t, "Engineer", all[2].Title)

	// company filter is a case-insensitive substring
	acme, err := db.List(ctx, ListOpts{Company: "acme"})
	require.NoError(t, err)
	assert.Len(t, acme, 2)

	// pagination
	page, err := db.List(ctx, ListOpts{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Manager", page[0].Title)
}

func TestList_StatusFilter(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	j := job("Engineer", "Acme", "https://jobs/1")
	_, err := db.Insert(ctx, j)
	require.NoError(t, err)
	_, err = db.Insert(ctx, job("Manager", "Acme", "https://jobs/2"))
	require.NoError(t, err)

	ok, err := db.UpdateStatus(ctx, j.ID, domain.StatusProcessed)
	require.NoError(t, err)
	assert.True(t, ok)

	processed, err := db.List(ctx, ListOpts{Status: domain.StatusProcessed})
	require.NoError(t, err)
	require.Len(t, processed, 1)
	assert.Equal(t, j.ID, processed[0].ID)
}

func TestStats_Consistency(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for _, u := range []string{"https://1", "https://2", "https://3"} {
		_, err := db.Insert(ctx, job("T", "C", u))
		require.NoError(t, err)
	}
	j, err := db.GetJob(ctx, 1)
	require.NoError(t, err)
	_, err = db.UpdateStatus(ctx, j.ID, domain.StatusProcessed)
	require.NoError(t, err)

	st, err := db.Stats(ctx)
	require.NoError(t, err)

	all, err := db.List(ctx, ListOpts{})
	require.NoError(t, err)
	assert.Equal(t, st.Total, len(all))

	sum := 0
	for _, n := range st.ByStatus {
		sum += n
	}
	assert.Equal(t, st.Total, sum)
	assert.Equal(t, 1, st.ByStatus[domain.StatusProcessed])
	assert.Equal(t, 2, st.ByStatus[domain.StatusNew])
}

func TestSearch_CaseInsensitiveSubstring(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	a := job("VP Engineering", "Acme", "https://1")
	_, err := db.Insert(ctx, a)
	require.NoError(t, err)

	b := job("Designer", "Engineering Partners", "https://2")
	_, err = db.Insert(ctx, b)
	require.NoError(t, err)

	c := job("Analyst", "Beta", "https://3")
	c.Description = "Works with the engineering org"
	_, err = db.Insert(ctx, c)
	require.NoError(t, err)

	d := job("Accountant", "Gamma", "https://4")
	_, err = db.Insert(ctx, d)
	require.NoError(t, err)

	got, err := db.Search(ctx, "ENGINEERING", 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	// same order as List's default
	assert.Equal(t, "Analyst", got[0].Title)
	assert.Equal(t, "Designer", got[1].Title)
	assert.Equal(t, "VP Engineering", got[2].Title)

	none, err := db.Search(ctx, "nosuchterm", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCompanies_Aggregation(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	mk := func(company, url, posted string) {
		j := job("Engineer", company, url)
		j.PostedDate = posted
		_, err := db.Insert(ctx, j)
		require.NoError(t, err)
	}

	mk("Acme", "https://1", "2024-01-01")
	mk("Acme", "https://2", "2024-03-01")
	mk("Beta", "https://3", "")
	mk("Gamma", "https://4", "2024-02-01")

	companies, err := db.Companies(ctx)
	require.NoError(t, err)
	require.Len(t, companies, 3)

	// sorted by job_count desc; Acme first
	assert.Equal(t, "Acme", companies[0].Name)
	assert.Equal(t, 2, companies[0].JobCount)
	assert.Equal(t, "2024-03-01", companies[0].LatestPosting)
	assert.Len(t, companies[0].Jobs, 2)

	// missing dates tolerated
	for _, c := range companies[1:] {
		assert.Equal(t, 1, c.JobCount)
	}

	st, err := db.Stats(ctx)
	require.NoError(t, err)
	total := 0
	for _, c := range companies {
		total += c.JobCount
	}
	assert.Equal(t, st.Total, total)
}

func TestGetJob_NotFound(t *testing.T) {
	db := openTestDB(t)
	_, err := db.GetJob(context.Background(), 42)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestMetadata_RoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	j := job("Engineer", "Acme", "https://1")
	j.Metadata = map[string]string{"source": "linkedin", "crawled_at": "2024-06-01T00:00:00Z"}
	_, err := db.Insert(ctx, j)
	require.NoError(t, err)

	got, err := db.GetJob(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, "linkedin", got.Metadata["source"])
	assert.Equal(t, "2024-06-01T00:00:00Z", got.Metadata["crawled_at"])
}
