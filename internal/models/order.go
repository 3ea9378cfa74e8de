package models

import (
	"github.com/shopspring/decimal"
)

// Payment state as reconciled by the verification flow.
// The portal never computes these itself; terminal state is learned from the
// backend after the checkout redirect returns.
type PaymentState string

const (
	PaymentProcessing PaymentState = "processing"
	PaymentSuccess    PaymentState = "success"
	PaymentFailed     PaymentState = "failed"
)

// PaymentOrder is the client-side projection of a backend payment order
type PaymentOrder struct {
	OrderID          string          `json:"order_id"`
	PaymentSessionID string          `json:"payment_session_id"`
	Amount           decimal.Decimal `json:"amount"`
	Status           string          `json:"status"`
}

// PaymentResult is the reconciled outcome of the verification flow
type PaymentResult struct {
	State     PaymentState `json:"state"`
	Message   string       `json:"message"`
	OrderID   string       `json:"order_id,omitempty"`
	PaymentID string       `json:"payment_id,omitempty"`
	Amount    string       `json:"amount,omitempty"`

	// RefreshedUser is set when the post-success balance refresh succeeded
	RefreshedUser *User `json:"-"`
}
