package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"jobscanner-engine/internal/domain"
)

type ListOpts struct {
	Status  string // exact status match; empty = all
	Company string // case-insensitive substring; empty = all
	Limit   int
	Offset  int
}

type Stats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

type CompanyGroup struct {
	Name          string              `json:"name"`
	JobCount      int                 `json:"job_count"`
	LatestPosting string              `json:"latest_posting"`
	Jobs          []domain.JobListing `json:"jobs"`
}

const jobColumns = `id, title, company, location, url, posted_date, description, status, metadata`

// Insert adds a listing unless its URL is already stored. A URL
// collision is the expected dedup case and comes back as (false, nil);
// a candidate missing required fields fails with ErrInvalidListing.
func (d *DB) Insert(ctx context.Context, j *domain.JobListing) (inserted bool, err error) {
	if err := j.Normalize(); err != nil {
		return false, err
	}

	meta, err := json.Marshal(j.Metadata)
	if err != nil {
		return false, fmt.Errorf("marshal metadata: %w", err)
	}

	tx, err := d.Pool.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("insert job: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// relies on the UNIQUE constraint on url
	if _, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO jobs (title, company, location, url, posted_date, description, status, metadata)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		j.Title, j.Company, j.Location, j.URL, j.PostedDate, j.Description, j.Status, string(meta),
	); err != nil {
		return false, fmt.Errorf("insert job: %w", err)
	}

	// SQLite doesn't report rows affected reliably with IGNORE across
	// drivers; changes() inside the same transaction does.
	var changes int
	if err := tx.QueryRowContext(ctx, `SELECT changes();`).Scan(&changes); err != nil {
		return false, fmt.Errorf("insert job: %w", err)
	}
	if changes > 0 {
		if err := tx.QueryRowContext(ctx, `SELECT last_insert_rowid();`).Scan(&j.ID); err != nil {
			return false, fmt.Errorf("insert job: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("insert job: %w", err)
	}
	return changes > 0, nil
}

// List returns listings most-recently-inserted first (id desc).
func (d *DB) List(ctx context.Context, opts ListOpts) ([]domain.JobListing, error) {
	var where []string
	var args []any

	if opts.Status != "" {
		where = append(where, "status = ?")
		args = append(args, opts.Status)
	}
	if opts.Company != "" {
		where = append(where, "instr(lower(company), lower(?)) > 0")
		args = append(args, opts.Company)
	}

	query := "SELECT " + jobColumns + " FROM jobs"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	return d.queryJobs(ctx, query, args...)
}

// Search matches term as a case-insensitive substring of title,
// company or description. Order is the same as List's default; there
// is no ranking.
func (d *DB) Search(ctx context.Context, term string, limit int) ([]domain.JobListing, error) {
	query := "SELECT " + jobColumns + ` FROM jobs
WHERE instr(lower(title), lower(?)) > 0
   OR instr(lower(company), lower(?)) > 0
   OR instr(lower(description), lower(?)) > 0
ORDER BY id DESC`
	args := []any{term, term, term}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return d.queryJobs(ctx, query, args...)
}

func (d *DB) GetJob(ctx context.Context, id int64) (domain.JobListing, error) {
	jobs, err := d.queryJobs(ctx, "SELECT "+jobColumns+" FROM jobs WHERE id = ?", id)
	if err != nil {
		return domain.JobListing{}, err
	}
	if len(jobs) == 0 {
		return domain.JobListing{}, sql.ErrNoRows
	}
	return jobs[0], nil
}

// UpdateStatus is the downstream consumers' hook; the crawler never
// calls it.
func (d *DB) UpdateStatus(ctx context.Context, id int64, status string) (bool, error) {
	res, err := d.Pool.ExecContext(ctx, `UPDATE jobs SET status = ? WHERE id = ?;`, status, id)
	if err != nil {
		return false, fmt.Errorf("update status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (d *DB) Stats(ctx context.Context) (Stats, error) {
	st := Stats{ByStatus: map[string]int{}}

	rows, err := d.Pool.QueryContext(ctx, `SELECT status, COUNT(*) FROM jobs GROUP BY status;`)
	if err != nil {
		return st, fmt.Errorf("stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return st, err
		}
		st.ByStatus[status] = n
		st.Total += n
	}
	return st, rows.Err()
}

// Companies groups all listings by company, most postings first. Ties
// keep the order companies were first seen in the id-desc scan.
// latest_posting is the max posted_date, ignoring empty dates.
func (d *DB) Companies(ctx context.Context) ([]CompanyGroup, error) {
	jobs, err := d.List(ctx, ListOpts{})
	if err != nil {
		return nil, err
	}

	byName := map[string]*CompanyGroup{}
	var order []string
	for _, j := range jobs {
		g, ok := byName[j.Company]
		if !ok {
			g = &CompanyGroup{Name: j.Company}
			byName[j.Company] = g
			order = append(order, j.Company)
		}
		g.JobCount++
		g.Jobs = append(g.Jobs, j)
		if j.PostedDate != "" && j.PostedDate > g.LatestPosting {
			g.LatestPosting = j.PostedDate
		}
	}

	out := make([]CompanyGroup, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	sort.SliceStable(out, func(i, k int) bool { return out[i].JobCount > out[k].JobCount })
	return out, nil
}

func (d *DB) queryJobs(ctx context.Context, query string, args ...any) ([]domain.JobListing, error) {
	rows, err := d.Pool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var out []domain.JobListing
	for rows.Next() {
		var j domain.JobListing
		var metaJSON string
		if err := rows.Scan(
			&j.ID,
			&j.Title,
			&j.Company,
			&j.Location,
			&j.URL,
			&j.PostedDate,
			&j.Description,
			&j.Status,
			&metaJSON,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(metaJSON), &j.Metadata); err != nil {
			j.Metadata = map[string]string{}
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
