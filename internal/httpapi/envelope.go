package httpapi

import (
	"encoding/json"
	"net/http"
	"time"
)

// Envelope is the wire shape of every API response:
// {success, data, timestamp} on the happy path, {success, error} otherwise.
type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Envelope{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Envelope{
		Success:   false,
		Error:     msg,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func methodMux(m map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h, ok := m[r.Method]; ok {
			h(w, r)
			return
		}
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
