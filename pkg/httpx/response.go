package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes v as a JSON response with the given status code.
// Responses are marked uncacheable; everything this app returns is either
// session-scoped or an error.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the standard error envelope {error, message}.
func WriteError(w http.ResponseWriter, code int, kind, message string) {
	WriteJSON(w, code, map[string]string{
		"error":   kind,
		"message": message,
	})
}

// NoCache sets Cache-Control headers to prevent caching of sensitive
// responses.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
