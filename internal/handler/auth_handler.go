package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/codenovous-harsh/duocortex-accounts-page/internal/logger"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/service"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/session"
)

// AuthHandler handles login, the federated callback, logout and signup
type AuthHandler struct {
	authService service.AuthService
	store       *session.Store
	log         *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService, store *session.Store, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		store:       store,
		log:         log,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Provider string `json:"provider"`
}

// LoginPage returns the login view state. Authenticated sessions are sent
// straight to the dashboard.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.store.Token(r) != "" {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": false,
		"providers":     []string{"google", "apple"},
	})
}

// Login handles both password login and the start of a federated flow. A
// request carrying a provider name begins the redirect to that provider;
// otherwise the credentials are exchanged for a backend token directly.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		if err := decodeJSONBody(r, &req); err != nil && err != io.EOF {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	} else {
		// Plain form posts land here
		req.Email = r.PostFormValue("email")
		req.Password = r.PostFormValue("password")
		req.Provider = r.PostFormValue("provider")
	}

	if req.Provider != "" {
		h.beginFederated(w, r, req.Provider)
		return
	}

	outcome, err := h.authService.LoginWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		h.log.WithError(err).Error("password login failed")
		writeError(w, http.StatusBadGateway, "Unable to sign in right now. Please try again.")
		return
	}

	if outcome.Kind == service.OutcomeFailed {
		writeError(w, http.StatusUnauthorized, outcome.Reason)
		return
	}

	if err := h.store.SaveLogin(w, r, outcome.Token, outcome.User); err != nil {
		h.log.WithError(err).Error("failed to persist session")
		writeError(w, http.StatusInternalServerError, "Unable to sign in right now. Please try again.")
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"user":     outcome.User,
			"redirect": "/dashboard",
		})
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) beginFederated(w http.ResponseWriter, r *http.Request, provider string) {
	outcome, err := h.authService.BeginFederated(r.Context(), provider)
	if err != nil {
		if errors.Is(err, service.ErrUnknownProvider) {
			writeError(w, http.StatusBadRequest, "Unknown sign-in provider")
			return
		}
		h.log.WithError(err).Error("failed to begin federated login")
		writeError(w, http.StatusBadGateway, "Unable to sign in right now. Please try again.")
		return
	}

	// The flag keeps the auth guard from bouncing the callback to /login
	// while the token exchange is still in flight
	if err := h.store.SetProcessingAuth(w, r, true); err != nil {
		h.log.WithError(err).Error("failed to set processing flag")
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]string{
			"authorizeUrl": outcome.AuthorizeURL,
		})
		return
	}
	http.Redirect(w, r, outcome.AuthorizeURL, http.StatusSeeOther)
}

// FederatedCallback completes a federated login. The provider redirects back
// with the state issued at the start plus the backend-exchanged token.
// Replayed callbacks for an already-processed session change nothing.
func (h *AuthHandler) FederatedCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	sess := service.FederatedSession{
		Provider:     query.Get("provider"),
		ProviderID:   query.Get("provider_id"),
		BackendToken: query.Get("token"),
	}

	outcome, err := h.authService.ProcessFederatedSession(r.Context(), query.Get("state"), sess)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionAlreadyProcessed):
			// First exchange already persisted the session; do nothing
			writeJSON(w, http.StatusOK, map[string]string{"status": "already_processed"})
		case errors.Is(err, service.ErrInvalidState):
			h.clearProcessing(w, r)
			http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		case errors.Is(err, service.ErrUnknownProvider):
			h.clearProcessing(w, r)
			writeError(w, http.StatusBadRequest, "Unknown sign-in provider")
		default:
			h.log.WithError(err).Error("federated callback failed")
			h.clearProcessing(w, r)
			writeError(w, http.StatusBadGateway, "Unable to sign in right now. Please try again.")
		}
		return
	}

	h.clearProcessing(w, r)

	if outcome.Kind == service.OutcomeFailed {
		http.Redirect(w, r, "/login?error=auth_failed", http.StatusSeeOther)
		return
	}

	if err := h.store.SaveLogin(w, r, outcome.Token, outcome.User); err != nil {
		h.log.WithError(err).Error("failed to persist session")
		http.Redirect(w, r, "/login?error=auth_failed", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *AuthHandler) clearProcessing(w http.ResponseWriter, r *http.Request) {
	if err := h.store.SetProcessingAuth(w, r, false); err != nil {
		h.log.WithError(err).Warn("failed to clear processing flag")
	}
}

// Logout tears down the session and returns to the login page
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(w, r); err != nil {
		h.log.WithError(err).Warn("failed to clear session")
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// SignupPage points new users at the mobile app, where account creation lives
func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Accounts are created in the DuoCortex app. Download the app to sign up, then log in here.",
	})
}
