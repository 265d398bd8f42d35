package linkedin

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jobscanner-engine/internal/domain"
	"jobscanner-engine/internal/scrape/util"

	"github.com/PuerkitoBio/goquery"
)

const pageSize = 25

type Config struct {
	BaseURL  string // override for tests; default public endpoint
	Location string // search location filter
	MaxPages int
}

// Scraper hits LinkedIn's public guest search endpoint. Each page is a
// bare HTML fragment of up to 25 job cards; no browser needed.
type Scraper struct {
	cfg     Config
	hc      *http.Client
	limiter *util.HostLimiter
}

func New(cfg Config, limiter *util.HostLimiter) *Scraper {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.linkedin.com"
	}
	if cfg.Location == "" {
		cfg.Location = "United States"
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 3
	}
	return &Scraper{
		cfg:     cfg,
		hc:      &http.Client{Timeout: 20 * time.Second},
		limiter: limiter,
	}
}

func (s *Scraper) Name() string { return "linkedin" }

func (s *Scraper) Search(ctx context.Context, term string, limit int) ([]domain.JobListing, error) {
	var out []domain.JobListing

	for page := 0; page < s.cfg.MaxPages; page++ {
		if limit > 0 && len(out) >= limit {
			break
		}

		jobs, err := s.fetchPage(ctx, term, page*pageSize)
		if err != nil {
			// partial results beat none; the caller counts this pair done
			log.Printf("[linkedin] term=%q page=%d err=%v", term, page, err)
			break
		}
		if len(jobs) == 0 {
			break
		}
		out = append(out, jobs...)
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	log.Printf("[linkedin] term=%q found=%d", term, len(out))
	return out, nil
}

func (s *Scraper) fetchPage(ctx context.Context, term string, start int) ([]domain.JobListing, error) {
	pageURL := fmt.Sprintf("%s/jobs-api/seeMoreJobPostings/search?keywords=%s&location=%s&start=%d",
		s.cfg.BaseURL, url.QueryEscape(term), url.QueryEscape(s.cfg.Location), start)

	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, pageURL); err != nil {
			return nil, err
		}
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	res, err := s.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("linkedin get: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("linkedin status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("linkedin parse fragment: %w", err)
	}

	crawledAt := time.Now().UTC().Format(time.RFC3339)

	var jobs []domain.JobListing
	cards := doc.Find(".job-search-card")
	if cards.Length() == 0 {
		cards = doc.Find(".base-card")
	}
	cards.Each(func(_ int, card *goquery.Selection) {
		j, ok := extractCard(card)
		if !ok {
			// one malformed card never sinks the page
			return
		}
		j.Metadata = map[string]string{
			"source":     "linkedin",
			"crawled_at": crawledAt,
		}
		jobs = append(jobs, j)
	})

	return jobs, nil
}

func extractCard(card *goquery.Selection) (domain.JobListing, bool) {
	var j domain.JobListing

	j.Title = domain.CleanText(card.Find(".base-search-card__title").First().Text())
	j.Company = domain.CleanText(card.Find(".base-search-card__subtitle").First().Text())
	j.Location = domain.CleanText(card.Find(".job-search-card__location").First().Text())

	link := card.Find("a.base-card__full-link").First()
	if link.Length() == 0 {
		link = card.Find("a[href]").First()
	}
	href, _ := link.Attr("href")
	j.URL = strings.TrimSpace(href)

	if dt, ok := card.Find("time[datetime]").First().Attr("datetime"); ok {
		j.PostedDate = strings.TrimSpace(dt)
	} else {
		j.PostedDate = time.Now().UTC().Format("2006-01-02")
	}

	// descriptions require a per-job page visit; left empty on purpose
	if j.Title == "" || j.Company == "" || j.URL == "" {
		return domain.JobListing{}, false
	}
	return j, true
}
