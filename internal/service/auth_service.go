package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/codenovous-harsh/duocortex-accounts-page/internal/backend"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/models"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/repository"
)

// LoginOutcomeKind tags the variants of a login attempt
type LoginOutcomeKind string

const (
	// OutcomeDirectToken: password login returned a backend token directly
	OutcomeDirectToken LoginOutcomeKind = "direct_token"
	// OutcomeFederatedPendingExchange: the user was sent to the identity
	// provider; no backend token exists yet
	OutcomeFederatedPendingExchange LoginOutcomeKind = "federated_pending_exchange"
	// OutcomeFederatedExchanged: a provider session resolved with a backend
	// token attached and the exchange completed
	OutcomeFederatedExchanged LoginOutcomeKind = "federated_exchanged"
	// OutcomeFailed: the attempt failed with a user-facing reason
	OutcomeFailed LoginOutcomeKind = "failed"
)

// LoginOutcome is the tagged union driving the auth state machine. Exactly
// the fields for the tagged kind are set.
type LoginOutcome struct {
	Kind         LoginOutcomeKind
	Token        string
	User         *models.User
	Provider     string
	AuthorizeURL string
	Reason       string
}

// FederatedSession is a resolved identity-provider session. The provider's
// server-side callback attaches the backend-issued token before it reaches
// the portal.
type FederatedSession struct {
	Provider     string
	ProviderID   string
	BackendToken string
	BackendUser  *models.User
}

// id is the replay key for a provider session object
func (s FederatedSession) id() string {
	return fmt.Sprintf("%s-%s-%s", s.Provider, s.ProviderID, s.BackendToken)
}

var (
	// ErrSessionAlreadyProcessed means this provider session was exchanged
	// before; no second exchange or navigation must happen
	ErrSessionAlreadyProcessed = errors.New("oauth session already processed")
	// ErrUnknownProvider rejects providers outside the supported set
	ErrUnknownProvider = errors.New("unknown identity provider")
	// ErrInvalidState rejects callbacks whose state was not issued by us
	ErrInvalidState = errors.New("invalid oauth state")
)

const (
	oauthStateTTL    = 5 * time.Minute
	processedMarkTTL = 24 * time.Hour
	providerGoogle   = "google"
	providerApple    = "apple"
)

// AuthService reconciles password login and federated login into one
// outcome type
type AuthService interface {
	LoginWithPassword(ctx context.Context, email, password string) (*LoginOutcome, error)
	BeginFederated(ctx context.Context, provider string) (*LoginOutcome, error)
	ProcessFederatedSession(ctx context.Context, state string, sess FederatedSession) (*LoginOutcome, error)
	RefreshProfile(ctx context.Context) (*models.User, error)
}

type authService struct {
	backendClient *backend.Client
	authStateRepo repository.AuthStateRepository
	providerURLs  map[string]string
}

// NewAuthService creates a new auth service. providerURLs maps provider name
// to its authorize endpoint.
func NewAuthService(backendClient *backend.Client, authStateRepo repository.AuthStateRepository, providerURLs map[string]string) AuthService {
	return &authService{
		backendClient: backendClient,
		authStateRepo: authStateRepo,
		providerURLs:  providerURLs,
	}
}

// LoginWithPassword exchanges credentials for a backend token. The device id
// identifies this browser session to the backend.
func (s *authService) LoginWithPassword(ctx context.Context, email, password string) (*LoginOutcome, error) {
	if email == "" || password == "" {
		return &LoginOutcome{Kind: OutcomeFailed, Reason: "Please enter email and password"}, nil
	}

	deviceID := fmt.Sprintf("web-client-%d-%s", time.Now().UnixMilli(), uuid.NewString())

	resp, err := s.backendClient.Login(ctx, backend.LoginRequest{
		Email:    email,
		Password: password,
		DeviceID: deviceID,
	})
	if err != nil {
		if apiErr, ok := backend.AsAPIError(err); ok {
			return &LoginOutcome{Kind: OutcomeFailed, Reason: apiErr.Message}, nil
		}
		return nil, fmt.Errorf("login request failed: %w", err)
	}

	if resp.Token == "" {
		return &LoginOutcome{Kind: OutcomeFailed, Reason: "Invalid email or password"}, nil
	}

	return &LoginOutcome{
		Kind:  OutcomeDirectToken,
		Token: resp.Token,
		User:  resp.User,
	}, nil
}

// BeginFederated starts the provider redirect. The state parameter is cached
// with a short TTL and checked on callback.
func (s *authService) BeginFederated(ctx context.Context, provider string) (*LoginOutcome, error) {
	authorizeURL, ok := s.providerURLs[provider]
	if !ok {
		return nil, ErrUnknownProvider
	}

	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}

	if err := s.authStateRepo.SetState(ctx, state, oauthStateTTL); err != nil {
		return nil, fmt.Errorf("failed to cache state: %w", err)
	}

	params := url.Values{}
	params.Set("state", state)

	return &LoginOutcome{
		Kind:         OutcomeFederatedPendingExchange,
		Provider:     provider,
		AuthorizeURL: fmt.Sprintf("%s?%s", authorizeURL, params.Encode()),
	}, nil
}

// ProcessFederatedSession completes the exchange for a resolved provider
// session. Processing the same session twice returns
// ErrSessionAlreadyProcessed without a second exchange.
func (s *authService) ProcessFederatedSession(ctx context.Context, state string, sess FederatedSession) (*LoginOutcome, error) {
	valid, err := s.authStateRepo.TakeState(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("failed to validate state: %w", err)
	}
	if !valid {
		return nil, ErrInvalidState
	}

	if sess.Provider != providerGoogle && sess.Provider != providerApple {
		return nil, ErrUnknownProvider
	}

	if sess.BackendToken == "" {
		return &LoginOutcome{Kind: OutcomeFailed, Reason: "Authentication failed. Please try again."}, nil
	}

	fresh, err := s.authStateRepo.MarkSessionProcessed(ctx, sess.id(), processedMarkTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to mark session processed: %w", err)
	}
	if !fresh {
		return nil, ErrSessionAlreadyProcessed
	}

	user := sess.BackendUser
	if user == nil {
		// Exchange carried no profile; fetch it with the new token
		refreshed, err := s.backendClient.UserDetails(backend.WithToken(ctx, sess.BackendToken))
		if err == nil {
			user = refreshed
		}
	}

	return &LoginOutcome{
		Kind:     OutcomeFederatedExchanged,
		Token:    sess.BackendToken,
		User:     user,
		Provider: sess.Provider,
	}, nil
}

// RefreshProfile re-fetches the profile and balances with the caller's token
func (s *authService) RefreshProfile(ctx context.Context) (*models.User, error) {
	return s.backendClient.UserDetails(ctx)
}

func generateState() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
