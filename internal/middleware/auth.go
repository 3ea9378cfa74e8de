// Package middleware provides HTTP middleware for session authentication.
package middleware

import (
	"net/http"
	"strings"

	"github.com/codenovous-harsh/duocortex-accounts-page/internal/backend"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/session"
)

// publicPaths never require a token. The payment status pages stay public:
// the gateway redirect can land before the cookie round-trips.
var publicPaths = []string{
	"/",
	"/login",
	"/signup",
	"/auth/",
	"/payment-status",
	"/event-payment-status",
	"/events",
	"/events/",
	"/healthz",
	"/metrics",
}

// SessionAuth loads the session into the request context and gates protected
// pages. Requests without a token are redirected to the login page, except
// while a federated token exchange is in flight.
func SessionAuth(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := store.Token(r)

			if token != "" {
				ctx := session.WithUser(r.Context(), &session.UserContext{
					Token: token,
					User:  store.Profile(r),
				})
				ctx = backend.WithToken(ctx, token)
				r = r.WithContext(ctx)
				next.ServeHTTP(w, r)
				return
			}

			if isPublic(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			// Guard flag: a federated exchange is persisting the token right
			// now; bouncing to /login here would race it
			if store.ProcessingAuth(r) {
				next.ServeHTTP(w, r)
				return
			}

			http.Redirect(w, r, "/login", http.StatusSeeOther)
		})
	}
}

func isPublic(path string) bool {
	for _, publicPath := range publicPaths {
		if path == publicPath {
			return true
		}
		if strings.HasSuffix(publicPath, "/") && strings.HasPrefix(path, publicPath) {
			return true
		}
	}
	return false
}
