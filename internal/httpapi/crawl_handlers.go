package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"jobscanner-engine/internal/events"
)

type CrawlHandler struct {
	Deps
}

type crawlRequest struct {
	SearchTerms []string `json:"search_terms"`
}

// Run triggers a crawl session in the background. One session at a
// time: a second trigger while running gets a 409.
func (h CrawlHandler) Run(w http.ResponseWriter, r *http.Request) {
	st, _ := h.CrawlStatus.Load().(CrawlStatus)
	if st.Running {
		writeErr(w, http.StatusConflict, "Crawl already in progress")
		return
	}

	var req crawlRequest
	if r.Body != nil {
		// absent/empty body means "configured defaults"
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	h.CrawlStatus.Store(CrawlStatus{
		Running:     true,
		LastRunAt:   st.LastRunAt,
		LastResults: st.LastResults,
	})
	h.Hub.Publish(events.TypeCrawlStarted, map[string]any{"search_terms": req.SearchTerms})

	go func() {
		sum, err := h.RunCrawl(context.Background(), req.SearchTerms)

		next := CrawlStatus{
			LastRunAt:   time.Now().UTC().Format(time.RFC3339),
			LastResults: &sum,
		}
		if err != nil {
			log.Printf("[api] crawl failed: %v", err)
			next.LastError = err.Error()
		}
		h.CrawlStatus.Store(next)
		h.Hub.Publish(events.TypeCrawlFinished, sum)
	}()

	writeData(w, http.StatusOK, map[string]any{
		"message":      "Crawl started",
		"search_terms": req.SearchTerms,
	})
}

func (h CrawlHandler) Status(w http.ResponseWriter, r *http.Request) {
	st, _ := h.CrawlStatus.Load().(CrawlStatus)
	writeData(w, http.StatusOK, st)
}
