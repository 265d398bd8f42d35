package httpapi

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"jobscanner-engine/internal/store"
)

const (
	defaultListLimit   = 50
	defaultSearchLimit = 20
)

type JobsHandler struct {
	DB *store.DB
}

func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit, err := positiveInt(q.Get("limit"), defaultListLimit)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	offset, err := nonNegativeInt(q.Get("offset"), 0)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "offset must be a non-negative integer")
		return
	}

	jobs, err := h.DB.List(r.Context(), store.ListOpts{
		Status:  q.Get("status"),
		Company: q.Get("company"),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"jobs":     jobs,
		"total":    len(jobs),
		"limit":    limit,
		"offset":   offset,
		"has_more": len(jobs) == limit,
	})
}

func (h JobsHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		writeErr(w, http.StatusBadRequest, "invalid id")
		return
	}

	job, err := h.DB.GetJob(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeErr(w, http.StatusNotFound, "Job not found")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeData(w, http.StatusOK, job)
}

func (h JobsHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	term := strings.TrimSpace(q.Get("q"))
	if term == "" {
		writeErr(w, http.StatusBadRequest, "Search query is required")
		return
	}
	limit, err := positiveInt(q.Get("limit"), defaultSearchLimit)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	jobs, err := h.DB.Search(r.Context(), term, limit)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeData(w, http.StatusOK, map[string]any{
		"jobs":  jobs,
		"total": len(jobs),
		"query": term,
		"limit": limit,
	})
}

func positiveInt(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("not a positive integer")
	}
	return n, nil
}

func nonNegativeInt(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("not a non-negative integer")
	}
	return n, nil
}
