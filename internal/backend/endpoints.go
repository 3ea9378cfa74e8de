package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"github.com/codenovous-harsh/duocortex-accounts-page/internal/models"
)

// API endpoints
const (
	EndpointLogin              = "auth/login"
	EndpointUserDetails        = "user/user-details"
	EndpointRequestWithdrawal  = "user/request-withdrawal"
	EndpointCreateOrder        = "api/create-order"
	EndpointOrderStatus        = "api/get-order-status"
	EndpointQuizHistory        = "quizzes/history"
	EndpointEvents             = "events"
	EndpointCreateEventOrder   = "create-event-order"
	EndpointVerifyEventPayment = "verify-event-payment"
)

// LoginRequest is the password-login payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	DeviceID string `json:"device_id"`
}

// LoginResponse carries the backend-issued token and profile
type LoginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Login exchanges credentials for a bearer token
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.post(ctx, EndpointLogin, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type userDetailsResponse struct {
	User *models.User `json:"user"`
}

// UserDetails refreshes the cached profile and balances
func (c *Client) UserDetails(ctx context.Context) (*models.User, error) {
	var resp userDetailsResponse
	if err := c.get(ctx, EndpointUserDetails, "", &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, &APIError{StatusCode: http.StatusOK, Message: "user details missing from response"}
	}
	return resp.User, nil
}

// WithdrawalRequest is the bank payout request payload
type WithdrawalRequest struct {
	AccountHolderName string          `json:"accountHolderName"`
	AccountNumber     string          `json:"accountNumber"`
	BankName          string          `json:"bankName"`
	IFSCCode          string          `json:"ifscCode"`
	Amount            decimal.Decimal `json:"amount"`
}

// WithdrawalResponse is the backend's accept/reject answer
type WithdrawalResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Accepted reports whether the backend accepted the withdrawal request
func (r *WithdrawalResponse) Accepted() bool {
	return r.Success || r.Status == "success"
}

// RequestWithdrawal submits a withdrawal request
func (c *Client) RequestWithdrawal(ctx context.Context, req WithdrawalRequest) (*WithdrawalResponse, error) {
	var resp WithdrawalResponse
	if err := c.post(ctx, EndpointRequestWithdrawal, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateOrderRequest is the payment-session creation payload
type CreateOrderRequest struct {
	CustomerID    string          `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	CustomerPhone string          `json:"customer_phone"`
	OrderAmount   decimal.Decimal `json:"order_amount"`
}

// CreateOrderResponse carries the gateway session issued for the order
type CreateOrderResponse struct {
	PaymentSessionID string `json:"payment_session_id"`
	OrderID          string `json:"order_id"`
}

// CreateOrder creates a wallet top-up order. Gateway credentials travel in
// headers alongside the bearer token.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest, clientID, clientSecret string) (*CreateOrderResponse, error) {
	headers := map[string]string{
		"x-client-id":     clientID,
		"x-client-secret": clientSecret,
	}
	var resp CreateOrderResponse
	if err := c.do(ctx, http.MethodPost, EndpointCreateOrder, "", req, headers, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type orderStatusResponse struct {
	OrderStatus string `json:"order_status"`
	Status      string `json:"status"`
}

// OrderStatus looks up the terminal status of an order. The backend answers
// with either order_status or status depending on the order's age.
func (c *Client) OrderStatus(ctx context.Context, orderID string) (string, error) {
	var resp orderStatusResponse
	path := fmt.Sprintf("%s?order_id=%s", EndpointOrderStatus, url.QueryEscape(orderID))
	if err := c.get(ctx, EndpointOrderStatus, path, &resp); err != nil {
		return "", err
	}
	if resp.OrderStatus != "" {
		return resp.OrderStatus, nil
	}
	return resp.Status, nil
}

type quizHistoryResponse struct {
	History []models.QuizAttempt `json:"history"`
}

// QuizHistory lists the user's quiz attempts
func (c *Client) QuizHistory(ctx context.Context) ([]models.QuizAttempt, error) {
	var resp quizHistoryResponse
	if err := c.get(ctx, EndpointQuizHistory, "", &resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

type eventsResponse struct {
	Status string         `json:"status"`
	Data   []models.Event `json:"data"`
}

// Events lists upcoming events
func (c *Client) Events(ctx context.Context) ([]models.Event, error) {
	var resp eventsResponse
	if err := c.get(ctx, EndpointEvents, "", &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		return nil, &APIError{StatusCode: http.StatusOK, Message: "failed to load events"}
	}
	return resp.Data, nil
}

type eventResponse struct {
	Status string        `json:"status"`
	Data   *models.Event `json:"data"`
}

// EventByID fetches a single event
func (c *Client) EventByID(ctx context.Context, eventID string) (*models.Event, error) {
	var resp eventResponse
	if err := c.get(ctx, EndpointEvents, EndpointEvents+"/"+url.PathEscape(eventID), &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" || resp.Data == nil {
		return nil, &APIError{StatusCode: http.StatusOK, Message: "failed to load event details"}
	}
	return resp.Data, nil
}

// CreateEventOrderRequest attaches attendees and a contact email to an order
type CreateEventOrderRequest struct {
	EventID       string            `json:"eventId"`
	CustomerEmail string            `json:"customer_email"`
	Attendees     []models.Attendee `json:"attendees"`
}

type createEventOrderResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
	Code   string `json:"code"`
	Data   struct {
		PaymentSessionID string `json:"payment_session_id"`
		OrderID          string `json:"order_id"`
	} `json:"data"`
}

// CreateEventOrder creates an event registration order and its gateway session
func (c *Client) CreateEventOrder(ctx context.Context, req CreateEventOrderRequest) (*CreateOrderResponse, error) {
	var resp createEventOrderResponse
	if err := c.post(ctx, EndpointCreateEventOrder, req, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		message := resp.Error
		if message == "" {
			message = "failed to create event order"
		}
		return nil, &APIError{StatusCode: http.StatusOK, Code: resp.Code, Message: message}
	}
	return &CreateOrderResponse{
		PaymentSessionID: resp.Data.PaymentSessionID,
		OrderID:          resp.Data.OrderID,
	}, nil
}

// EventVerification is the verified event payment payload
type EventVerification struct {
	Event        *models.Event             `json:"eventDetails"`
	Registration *models.EventRegistration `json:"attendeeDetails"`
}

type verifyEventPaymentResponse struct {
	Status  string             `json:"status"`
	Message string             `json:"message"`
	Data    *EventVerification `json:"data"`
}

// VerifyEventPayment looks up the outcome of an event order after redirect
func (c *Client) VerifyEventPayment(ctx context.Context, orderID string) (*EventVerification, error) {
	var resp verifyEventPaymentResponse
	path := fmt.Sprintf("%s?order_id=%s", EndpointVerifyEventPayment, url.QueryEscape(orderID))
	if err := c.get(ctx, EndpointVerifyEventPayment, path, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" || resp.Data == nil {
		message := resp.Message
		if message == "" {
			message = "payment verification failed"
		}
		return nil, &APIError{StatusCode: http.StatusOK, Message: message}
	}
	return resp.Data, nil
}
