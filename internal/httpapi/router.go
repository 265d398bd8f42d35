package httpapi

import "net/http"

func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	sh := StatsHandler{DB: d.DB}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.Health,
	}))
	mux.HandleFunc("/api/stats", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.Stats,
	}))
	mux.HandleFunc("/api/companies", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.Companies,
	}))

	jh := JobsHandler{DB: d.DB}
	mux.HandleFunc("/api/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.List,
	}))
	mux.HandleFunc("/api/jobs/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.GetByPath, // expects /api/jobs/{id}
	}))
	mux.HandleFunc("/api/search", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.Search,
	}))

	ch := CrawlHandler{Deps: d}
	mux.HandleFunc("/api/crawl", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ch.Run,
	}))
	mux.HandleFunc("/api/crawl/status", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Status,
	}))

	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	return mux
}
