package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy plus everything wrong
// with it. Configuration errors are rejected here, before any network
// or storage activity begins.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Crawl.SearchTerms = trimList(out.Crawl.SearchTerms)

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be in 1..65535")
	}

	if len(out.Crawl.SearchTerms) == 0 {
		res.addErr("crawl.search_terms must not be empty")
	}
	if out.Crawl.DelaySeconds <= 0 {
		res.addErr("crawl.delay_seconds must be > 0")
	} else if out.Crawl.DelaySeconds < 2 {
		res.addWarn("crawl.delay_seconds is very low (%d) and may trip anti-scraping defenses.", out.Crawl.DelaySeconds)
	}
	if out.Crawl.PerSourceLimit <= 0 {
		res.addErr("crawl.per_source_limit must be > 0")
	}

	if !out.Crawl.Sources.GoogleCareers.Enabled && !out.Crawl.Sources.LinkedIn.Enabled {
		res.addWarn("no sources enabled; a crawl session will report 0 new jobs.")
	}
	if out.Crawl.Sources.GoogleCareers.Enabled && out.Crawl.Sources.GoogleCareers.MaxPages <= 0 {
		res.addErr("crawl.sources.google_careers.max_pages must be > 0 when enabled")
	}
	if out.Crawl.Sources.LinkedIn.Enabled && out.Crawl.Sources.LinkedIn.MaxPages <= 0 {
		res.addErr("crawl.sources.linkedin.max_pages must be > 0 when enabled")
	}

	if out.Schedule.Enabled && out.Schedule.IntervalHours <= 0 {
		res.addErr("schedule.interval_hours must be > 0 when schedule.enabled=true")
	}
	if out.Snapshot.Enabled && strings.TrimSpace(out.Snapshot.Dir) == "" {
		res.addErr("snapshot.dir is required when snapshot.enabled=true")
	}

	return out, res
}
