// responses.go -- Package-wide HTTP response helpers.
//
// Bodies are marshaled rather than concatenated: provider error text passes
// through Error, and that text is not ours to trust.
package web

import (
	"encoding/json"
	"net/http"
)

// writeJSON writes v as a JSON body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body, err := json.Marshal(v)
	if err != nil {
		// Marshal of a map[string]string cannot realistically fail; keep the
		// status we already committed to.
		return
	}
	w.Write(body)
}

// Error returns a JSON {"error": message} response with the given status.
// Use for validation failures (400) and provider rejections (400).
func Error(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// InternalServerError logs the error and returns a generic 500 JSON response.
// Never exposes internal error details to prevent information leakage.
func InternalServerError(w http.ResponseWriter, r *http.Request, err error) {
	logError(r, "internal server error", "error", err)
	Error(w, http.StatusInternalServerError, "internal server error")
}

// Status returns a 200 JSON {"status": tag} response.
func Status(w http.ResponseWriter, tag string) {
	writeJSON(w, http.StatusOK, map[string]string{"status": tag})
}
