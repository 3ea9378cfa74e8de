package handler

import "net/http"

// Healthz reports process liveness
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Root sends the browser to the dashboard; the auth guard bounces
// unauthenticated sessions to /login from there.
func Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
