package httpapi

import (
	"net/http"
	"time"

	"jobscanner-engine/internal/store"
)

type StatsHandler struct {
	DB *store.DB
}

func (h StatsHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbState := "connected"
	if err := h.DB.Pool.PingContext(r.Context()); err != nil {
		dbState = "unreachable"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  dbState,
		"version":   "1.0.0",
	})
}

func (h StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.DB.Stats(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, st)
}

func (h StatsHandler) Companies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.DB.Companies(r.Context())
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, map[string]any{
		"companies": companies,
		"total":     len(companies),
	})
}
