package session

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/codenovous-harsh/duocortex-accounts-page/internal/models"
)

const (
	// durable cookie: bearer token + cached profile
	authSessionName = "portal-auth"
	// session-scoped cookie: transient flags and the post-payment return URL
	flashSessionName = "portal-flash"

	keyToken          = "access_token"
	keyProfile        = "user_info"
	keyProcessingAuth = "processing_auth"
	keyEventReturnURL = "event_return_url"
)

// Store wraps the cookie session store with typed accessors so no handler
// touches raw session values directly.
type Store struct {
	store *sessions.CookieStore
}

// NewStore creates a session store keyed with the configured secret
func NewStore(secret string) *Store {
	cs := sessions.NewCookieStore([]byte(secret))
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{store: cs}
}

// Token returns the stored bearer token, or "" when not logged in
func (s *Store) Token(r *http.Request) string {
	sess, _ := s.store.Get(r, authSessionName)
	token, _ := sess.Values[keyToken].(string)
	return token
}

// Profile returns the cached user profile, or nil when absent
func (s *Store) Profile(r *http.Request) *models.User {
	sess, _ := s.store.Get(r, authSessionName)
	raw, _ := sess.Values[keyProfile].(string)
	if raw == "" {
		return nil
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil
	}
	return &user
}

// SaveLogin persists the bearer token and profile
func (s *Store) SaveLogin(w http.ResponseWriter, r *http.Request, token string, user *models.User) error {
	sess, _ := s.store.Get(r, authSessionName)
	sess.Values[keyToken] = token
	if user != nil {
		raw, err := json.Marshal(user)
		if err != nil {
			return err
		}
		sess.Values[keyProfile] = string(raw)
	}
	return sess.Save(r, w)
}

// SaveProfile refreshes the cached profile without touching the token
func (s *Store) SaveProfile(w http.ResponseWriter, r *http.Request, user *models.User) error {
	sess, _ := s.store.Get(r, authSessionName)
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	sess.Values[keyProfile] = string(raw)
	return sess.Save(r, w)
}

// Clear invalidates the stored credentials, for logout and 401 handling
func (s *Store) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.store.Get(r, authSessionName)
	sess.Values = make(map[interface{}]interface{})
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// ProcessingAuth reports whether a federated token exchange is in flight.
// While set, the auth guard must not bounce the request to the login page.
func (s *Store) ProcessingAuth(r *http.Request) bool {
	sess, _ := s.store.Get(r, flashSessionName)
	flag, _ := sess.Values[keyProcessingAuth].(bool)
	return flag
}

// SetProcessingAuth sets or clears the in-flight exchange flag
func (s *Store) SetProcessingAuth(w http.ResponseWriter, r *http.Request, processing bool) error {
	sess, _ := s.store.Get(r, flashSessionName)
	sess.Options.MaxAge = 0
	if processing {
		sess.Values[keyProcessingAuth] = true
	} else {
		delete(sess.Values, keyProcessingAuth)
	}
	return sess.Save(r, w)
}

// EventReturnURL returns and removes the stored post-payment return URL
func (s *Store) EventReturnURL(w http.ResponseWriter, r *http.Request) string {
	sess, _ := s.store.Get(r, flashSessionName)
	returnURL, _ := sess.Values[keyEventReturnURL].(string)
	if returnURL != "" {
		delete(sess.Values, keyEventReturnURL)
		sess.Save(r, w)
	}
	return returnURL
}

// SetEventReturnURL stores the post-payment return URL before the checkout
// redirect replaces the page
func (s *Store) SetEventReturnURL(w http.ResponseWriter, r *http.Request, returnURL string) error {
	sess, _ := s.store.Get(r, flashSessionName)
	sess.Options.MaxAge = 0
	sess.Values[keyEventReturnURL] = returnURL
	return sess.Save(r, w)
}

// UserContext carries the authenticated user through the request context
type UserContext struct {
	Token string
	User  *models.User
}

type userContextKey struct{}

// WithUser returns a context carrying the session's user
func WithUser(ctx context.Context, uc *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, uc)
}

// UserFromContext returns the session's user, if authenticated
func UserFromContext(ctx context.Context) (*UserContext, bool) {
	uc, ok := ctx.Value(userContextKey{}).(*UserContext)
	return uc, ok && uc != nil
}
