package cashfree

import (
	"fmt"
	"net/url"
)

// Hosted checkout endpoints per gateway environment
const (
	sandboxCheckoutURL    = "https://sandbox.cashfree.com/pg/view/sessions/checkout"
	productionCheckoutURL = "https://payments.cashfree.com/pg/view/sessions/checkout"
)

// Config holds gateway credentials and environment selection
type Config struct {
	ClientID     string
	ClientSecret string
	Environment  string // "sandbox" or "production"
}

// Gateway builds hosted-checkout redirects for payment sessions. Checkout is
// redirect-based: the page navigates away, so a successful payment is never
// observed here — it is learned later through verification on the return URL.
type Gateway struct {
	config Config
}

// NewGateway creates a new checkout gateway adapter
func NewGateway(config Config) *Gateway {
	return &Gateway{config: config}
}

// ClientID returns the gateway client id header value
func (g *Gateway) ClientID() string {
	return g.config.ClientID
}

// ClientSecret returns the gateway client secret header value
func (g *Gateway) ClientSecret() string {
	return g.config.ClientSecret
}

// CheckoutURL returns the full-page redirect target for a payment session.
// An empty session id is a synchronous gateway error: the attempt is over
// before any redirect happens.
func (g *Gateway) CheckoutURL(sessionID string) (string, error) {
	if sessionID == "" {
		return "", ErrMissingSession
	}

	base := sandboxCheckoutURL
	if g.config.Environment == "production" {
		base = productionCheckoutURL
	}

	params := url.Values{}
	params.Set("payment_session_id", sessionID)
	return fmt.Sprintf("%s?%s", base, params.Encode()), nil
}

// IsSuccessStatus reports whether a backend order status means the payment
// went through. Anything outside this vocabulary is a failure.
func IsSuccessStatus(status string) bool {
	return status == "PAID" || status == "SUCCESS"
}
