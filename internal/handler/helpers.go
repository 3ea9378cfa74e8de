// Package handler implements the HTTP endpoints of the accounts portal.
package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// decodeJSONBody decodes the request body into dst, restoring the body so it
// can be re-read downstream if needed.
func decodeJSONBody(r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	if len(body) == 0 {
		return io.EOF
	}

	return json.Unmarshal(body, dst)
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers already sent, nothing useful left to do
		return
	}
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// wantsJSON reports whether the client prefers a JSON body over an HTML
// redirect. Form posts from the browser get redirects; fetch calls get JSON.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.Contains(r.Header.Get("Content-Type"), "application/json")
}
