package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codenovous-harsh/duocortex-accounts-page/internal/backend"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/models"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/session"
)

func authedRequest(t *testing.T, store *session.Store, target string) *http.Request {
	t.Helper()
	rec := httptest.NewRecorder()
	seed := httptest.NewRequest(http.MethodPost, "/login", nil)
	require.NoError(t, store.SaveLogin(rec, seed, "tok-1", &models.User{ID: "u1", Name: "Asha"}))

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, cookie := range rec.Result().Cookies() {
		req.AddCookie(cookie)
	}
	return req
}

func TestSessionAuth(t *testing.T) {
	store := session.NewStore("test-secret")

	var sawToken string
	var sawUser *session.UserContext
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawToken = backend.TokenFromContext(r.Context())
		sawUser, _ = session.UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	guard := SessionAuth(store)(next)

	t.Run("AuthenticatedRequestCarriesToken", func(t *testing.T) {
		sawToken, sawUser = "", nil
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, authedRequest(t, store, "/dashboard"))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "tok-1", sawToken)
		require.NotNil(t, sawUser)
		assert.Equal(t, "Asha", sawUser.User.Name)
	})

	t.Run("ProtectedPathRedirectsWithoutToken", func(t *testing.T) {
		for _, path := range []string{"/dashboard", "/wallet", "/withdraw", "/transactions"} {
			rec := httptest.NewRecorder()
			guard.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusSeeOther, rec.Code, "path %s", path)
			assert.Equal(t, "/login", rec.Header().Get("Location"), "path %s", path)
		}
	})

	t.Run("PublicPathsPassThrough", func(t *testing.T) {
		for _, path := range []string{"/login", "/signup", "/events", "/events/e1", "/payment-status", "/event-payment-status", "/healthz", "/auth/callback"} {
			rec := httptest.NewRecorder()
			guard.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusOK, rec.Code, "path %s", path)
		}
	})

	t.Run("ProcessingFlagSuppressesRedirect", func(t *testing.T) {
		rec := httptest.NewRecorder()
		seed := httptest.NewRequest(http.MethodPost, "/login", nil)
		require.NoError(t, store.SetProcessingAuth(rec, seed, true))

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		for _, cookie := range rec.Result().Cookies() {
			req.AddCookie(cookie)
		}

		out := httptest.NewRecorder()
		guard.ServeHTTP(out, req)
		assert.Equal(t, http.StatusOK, out.Code)
	})
}
