package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/codenovous-harsh/duocortex-accounts-page/internal/backend"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/cashfree"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/logger"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/models"
)

var (
	minTopUp = decimal.NewFromInt(1)
	maxTopUp = decimal.NewFromInt(10000)
)

// ErrAmountOutOfRange rejects top-up amounts outside 1..10000
var ErrAmountOutOfRange = errors.New("amount out of range")

// ValidateAmount checks a wallet top-up amount against the gateway limits
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThan(minTopUp) || amount.GreaterThan(maxTopUp) {
		return ErrAmountOutOfRange
	}
	return nil
}

// ProfileRefresher refreshes the cached user profile after a payment lands
type ProfileRefresher interface {
	RefreshProfile(ctx context.Context) (*models.User, error)
}

// PaymentService owns payment-session creation and verification. Initiate
// and verify are separate operations connected only by the order id: the
// checkout redirect replaces the page in between.
type PaymentService interface {
	CreatePaymentSession(ctx context.Context, amount decimal.Decimal, customer *models.User) (*models.PaymentOrder, error)
	CheckoutURL(sessionID string) (string, error)
	VerifyPayment(ctx context.Context, orderID, paymentID, amount string) *models.PaymentResult
}

type paymentService struct {
	backendClient *backend.Client
	gateway       *cashfree.Gateway
	profiles      ProfileRefresher
	log           *logger.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(backendClient *backend.Client, gateway *cashfree.Gateway, profiles ProfileRefresher, log *logger.Logger) PaymentService {
	return &paymentService{
		backendClient: backendClient,
		gateway:       gateway,
		profiles:      profiles,
		log:           log,
	}
}

// CreatePaymentSession validates the amount and creates a backend order with
// its gateway payment session. A gateway-side phone validation failure is
// surfaced as a distinct GatewayError so the caller can prompt for profile
// completion instead of showing generic copy.
func (s *paymentService) CreatePaymentSession(ctx context.Context, amount decimal.Decimal, customer *models.User) (*models.PaymentOrder, error) {
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}

	resp, err := s.backendClient.CreateOrder(ctx, backend.CreateOrderRequest{
		CustomerID:    customer.ID,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.DisplayPhone(),
		OrderAmount:   amount,
	}, s.gateway.ClientID(), s.gateway.ClientSecret())
	if err != nil {
		if apiErr, ok := backend.AsAPIError(err); ok && apiErr.Code != "" {
			return nil, &cashfree.GatewayError{Code: apiErr.Code, Message: apiErr.Message}
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if resp.PaymentSessionID == "" {
		return nil, cashfree.ErrMissingSession
	}

	return &models.PaymentOrder{
		OrderID:          resp.OrderID,
		PaymentSessionID: resp.PaymentSessionID,
		Amount:           amount,
		Status:           "processing",
	}, nil
}

// CheckoutURL hands the session id to the hosted checkout in redirect mode
func (s *paymentService) CheckoutURL(sessionID string) (string, error) {
	return s.gateway.CheckoutURL(sessionID)
}

// VerifyPayment reconciles the return-redirect into a terminal view state.
// processing -> success | failed, no further transitions and no retry.
func (s *paymentService) VerifyPayment(ctx context.Context, orderID, paymentID, amount string) *models.PaymentResult {
	if orderID == "" {
		// No backend call is made without an order identifier
		return &models.PaymentResult{
			State:   models.PaymentFailed,
			Message: "Invalid payment information. Please try again.",
		}
	}

	status, err := s.backendClient.OrderStatus(ctx, orderID)
	if err != nil {
		return &models.PaymentResult{
			State:   models.PaymentFailed,
			OrderID: orderID,
			Message: "Payment verification failed. If money was deducted, it will be refunded within 5-7 business days.",
		}
	}

	if !cashfree.IsSuccessStatus(status) {
		message := fmt.Sprintf("Payment verification failed: %s", status)
		if status == "" {
			message = "Payment verification failed: Unknown status"
		}
		return &models.PaymentResult{
			State:   models.PaymentFailed,
			OrderID: orderID,
			Message: message,
		}
	}

	result := &models.PaymentResult{
		State:     models.PaymentSuccess,
		OrderID:   orderID,
		PaymentID: paymentID,
		Amount:    amount,
		Message:   "Payment was successful!",
	}
	if amount != "" {
		result.Message = fmt.Sprintf("Payment of ₹%s was successful!", amount)
	}

	// Best effort balance refresh; a failure here never reverts the state
	if s.profiles != nil {
		user, err := s.profiles.RefreshProfile(ctx)
		if err != nil {
			s.log.WithField("order_id", orderID).WithError(err).Warn("profile refresh after payment failed")
		} else {
			result.RefreshedUser = user
		}
	}

	return result
}
