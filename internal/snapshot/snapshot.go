// Package snapshot dumps the read surface into flat JSON files for
// static hosting: stats.json, jobs.json, companies.json and one
// precomputed search result per configured term.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jobscanner-engine/internal/store"
)

func Write(ctx context.Context, db *store.DB, dir string, terms []string) error {
	if err := os.MkdirAll(filepath.Join(dir, "search"), 0o755); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	stats, err := db.Stats(ctx)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := writeFile(filepath.Join(dir, "stats.json"), stats); err != nil {
		return err
	}

	jobs, err := db.List(ctx, store.ListOpts{})
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := writeFile(filepath.Join(dir, "jobs.json"), jobs); err != nil {
		return err
	}

	companies, err := db.Companies(ctx)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := writeFile(filepath.Join(dir, "companies.json"), companies); err != nil {
		return err
	}

	for _, term := range terms {
		results, err := db.Search(ctx, term, 0)
		if err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
		name := Slug(term) + ".json"
		if err := writeFile(filepath.Join(dir, "search", name), results); err != nil {
			return err
		}
	}

	return writeFile(filepath.Join(dir, "generated.json"), map[string]string{
		"generated_at": time.Now().UTC().Format(time.RFC3339),
	})
}

// Slug turns "VP Engineering" into "vp-engineering".
func Slug(term string) string {
	term = strings.ToLower(strings.TrimSpace(term))
	var b strings.Builder
	lastDash := true
	for _, r := range term {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func writeFile(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot: marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	return nil
}
