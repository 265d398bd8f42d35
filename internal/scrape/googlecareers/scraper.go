package googlecareers

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"jobscanner-engine/internal/domain"
	"jobscanner-engine/internal/scrape/util"

	"github.com/playwright-community/playwright-go"
)

type Config struct {
	BaseURL  string // override for tests; default careers.google.com
	MaxPages int    // scroll rounds per term
	Headless bool
}

// Scraper drives a headless browser because the careers results load
// dynamically; there is no fragment endpoint to hit directly.
type Scraper struct {
	cfg     Config
	pw      *playwright.Playwright
	browser playwright.Browser
	limiter *util.HostLimiter
}

func New(cfg Config, limiter *util.HostLimiter) (*Scraper, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://careers.google.com"
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 2
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("googlecareers: start playwright: %w", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("googlecareers: launch browser: %w", err)
	}

	return &Scraper{cfg: cfg, pw: pw, browser: browser, limiter: limiter}, nil
}

func (s *Scraper) Close() error {
	if s.browser != nil {
		_ = s.browser.Close()
	}
	if s.pw != nil {
		return s.pw.Stop()
	}
	return nil
}

func (s *Scraper) Name() string { return "google_careers" }

func (s *Scraper) Search(ctx context.Context, term string, limit int) ([]domain.JobListing, error) {
	page, err := s.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("googlecareers: new page: %w", err)
	}
	defer page.Close()

	searchURL := fmt.Sprintf("%s/jobs/results/?q=%s", s.cfg.BaseURL, url.QueryEscape(term))
	if s.limiter != nil {
		if err := s.limiter.WaitURL(ctx, searchURL); err != nil {
			return nil, err
		}
	}
	if _, err := page.Goto(searchURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return nil, fmt.Errorf("googlecareers: goto: %w", err)
	}

	if _, err := page.WaitForSelector(`[data-test-id="job-search-result"]`, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		// empty result page, not a failure
		log.Printf("[google_careers] term=%q no results", term)
		return nil, nil
	}

	// results load on scroll
	for i := 0; i < s.cfg.MaxPages; i++ {
		if _, err := page.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`); err != nil {
			break
		}
		page.WaitForTimeout(2000)
	}

	cards, err := page.Locator(`[data-test-id="job-search-result"]`).All()
	if err != nil {
		return nil, fmt.Errorf("googlecareers: locate cards: %w", err)
	}

	crawledAt := time.Now().UTC().Format(time.RFC3339)

	var jobs []domain.JobListing
	for _, card := range cards {
		if limit > 0 && len(jobs) >= limit {
			break
		}
		j, ok := s.extractCard(card)
		if !ok {
			continue
		}
		j.Metadata = map[string]string{
			"source":     "google_careers",
			"crawled_at": crawledAt,
		}
		jobs = append(jobs, j)
	}

	log.Printf("[google_careers] term=%q found=%d", term, len(jobs))
	return jobs, nil
}

func (s *Scraper) extractCard(card playwright.Locator) (domain.JobListing, bool) {
	var j domain.JobListing
	j.Company = "Google"

	title, _ := card.Locator(`[data-test-id="job-title"]`).First().TextContent(playwright.LocatorTextContentOptions{
		Timeout: playwright.Float(1000),
	})
	j.Title = domain.CleanText(title)

	loc, _ := card.Locator(`[data-test-id="job-location"]`).First().TextContent(playwright.LocatorTextContentOptions{
		Timeout: playwright.Float(1000),
	})
	j.Location = domain.CleanText(loc)

	href, _ := card.Locator("a").First().GetAttribute("href", playwright.LocatorGetAttributeOptions{
		Timeout: playwright.Float(1000),
	})
	j.URL = absoluteURL(s.cfg.BaseURL, strings.TrimSpace(href))

	j.PostedDate = time.Now().UTC().Format("2006-01-02")

	if j.Title == "" || j.URL == "" {
		return domain.JobListing{}, false
	}
	return j, true
}

func absoluteURL(base, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "/") {
		return base + href
	}
	return base + "/" + href
}
