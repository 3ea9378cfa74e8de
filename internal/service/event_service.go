package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/codenovous-harsh/duocortex-accounts-page/internal/backend"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/cashfree"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/models"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/validation"
)

// ErrEventSoldOut rejects registration for events with no spots left
var ErrEventSoldOut = errors.New("event sold out")

// RegistrationError carries field-level validation errors for the form
type RegistrationError struct {
	Fields map[string]string
}

func (e *RegistrationError) Error() string {
	return "registration form is invalid"
}

// CapacityError is the local gender-capacity short-circuit. The backend
// re-validates authoritatively; concurrent registrations can still win.
type CapacityError struct {
	Gender    string
	SpotsLeft int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("Not enough %s spots available. Only %d %s spot(s) remaining.", e.Gender, e.SpotsLeft, e.Gender)
}

// EventOrder is the created order plus the return URL to restore after the
// checkout redirect
type EventOrder struct {
	OrderID          string
	PaymentSessionID string
	ReturnURL        string
}

// EventService owns event listing, registration validation and order
// creation. Registration hands off to the payment gateway for checkout.
type EventService interface {
	ListEvents(ctx context.Context) ([]models.Event, error)
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)
	Register(ctx context.Context, event *models.Event, email string, attendees []models.Attendee) (*EventOrder, error)
	VerifyEventPayment(ctx context.Context, orderID string) (*backend.EventVerification, error)
}

type eventService struct {
	backendClient *backend.Client
	validate      *validation.CustomValidator
	baseURL       string
}

// NewEventService creates a new event service. baseURL is the portal's own
// origin, used to build post-payment return URLs.
func NewEventService(backendClient *backend.Client, validate *validation.CustomValidator, baseURL string) EventService {
	return &eventService{
		backendClient: backendClient,
		validate:      validate,
		baseURL:       strings.TrimRight(baseURL, "/"),
	}
}

func (s *eventService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return s.backendClient.Events(ctx)
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	return s.backendClient.EventByID(ctx, eventID)
}

// ValidateRegistration checks the form before submission. The returned map
// is keyed per field so errors render next to their inputs.
func ValidateRegistration(v *validation.CustomValidator, email string, attendees []models.Attendee) map[string]string {
	errs := make(map[string]string)

	if strings.TrimSpace(email) == "" {
		errs["email"] = "Email is required"
	} else if !validation.ValidEmail(email) {
		errs["email"] = "Invalid email format"
	}

	for i, attendee := range attendees {
		if strings.TrimSpace(attendee.FullName) == "" {
			errs[fmt.Sprintf("attendees[%d].full_name", i)] = fmt.Sprintf("Attendee %d: Full name is required", i+1)
		}

		phone := strings.TrimSpace(attendee.PhoneNumber)
		if phone == "" {
			errs[fmt.Sprintf("attendees[%d].phone_number", i)] = fmt.Sprintf("Attendee %d: Phone number is required", i+1)
		} else if v.Var(phone, "indian_mobile") != nil {
			errs[fmt.Sprintf("attendees[%d].phone_number", i)] = fmt.Sprintf("Attendee %d: Invalid phone number (10 digits required)", i+1)
		}

		if strings.TrimSpace(attendee.CollegeName) == "" {
			errs[fmt.Sprintf("attendees[%d].college_name", i)] = fmt.Sprintf("Attendee %d: College name is required", i+1)
		}

		if attendee.Gender != "male" && attendee.Gender != "female" {
			errs[fmt.Sprintf("attendees[%d].gender", i)] = fmt.Sprintf("Attendee %d: Gender is required", i+1)
		}
	}

	return errs
}

// CheckGenderCapacity tallies submitted genders against the event's
// remaining per-gender capacity. Nil counters mean no ceiling.
func CheckGenderCapacity(event *models.Event, attendees []models.Attendee) error {
	maleCount := 0
	femaleCount := 0
	for _, a := range attendees {
		switch a.Gender {
		case "male":
			maleCount++
		case "female":
			femaleCount++
		}
	}

	if event.MaleSpotsLeft != nil && maleCount > *event.MaleSpotsLeft {
		return &CapacityError{Gender: "male", SpotsLeft: *event.MaleSpotsLeft}
	}
	if event.FemaleSpotsLeft != nil && femaleCount > *event.FemaleSpotsLeft {
		return &CapacityError{Gender: "female", SpotsLeft: *event.FemaleSpotsLeft}
	}
	return nil
}

// Register validates the form and creates the event order. The returned
// order carries the return URL the caller must persist before redirecting
// to checkout.
func (s *eventService) Register(ctx context.Context, event *models.Event, email string, attendees []models.Attendee) (*EventOrder, error) {
	if event.SoldOut() {
		return nil, ErrEventSoldOut
	}

	if errs := ValidateRegistration(s.validate, email, attendees); len(errs) > 0 {
		return nil, &RegistrationError{Fields: errs}
	}

	if err := CheckGenderCapacity(event, attendees); err != nil {
		return nil, err
	}

	trimmed := make([]models.Attendee, len(attendees))
	for i, a := range attendees {
		trimmed[i] = models.Attendee{
			FullName:    strings.TrimSpace(a.FullName),
			PhoneNumber: strings.TrimSpace(a.PhoneNumber),
			CollegeName: strings.TrimSpace(a.CollegeName),
			Gender:      a.Gender,
		}
	}

	resp, err := s.backendClient.CreateEventOrder(ctx, backend.CreateEventOrderRequest{
		EventID:       event.ID,
		CustomerEmail: strings.TrimSpace(email),
		Attendees:     trimmed,
	})
	if err != nil {
		return nil, translateEventOrderError(err)
	}

	if resp.PaymentSessionID == "" {
		return nil, cashfree.ErrMissingSession
	}

	returnURL := fmt.Sprintf("%s/event-payment-status?order_id=%s&eventId=%s",
		s.baseURL, url.QueryEscape(resp.OrderID), url.QueryEscape(event.ID))

	return &EventOrder{
		OrderID:          resp.OrderID,
		PaymentSessionID: resp.PaymentSessionID,
		ReturnURL:        returnURL,
	}, nil
}

func (s *eventService) VerifyEventPayment(ctx context.Context, orderID string) (*backend.EventVerification, error) {
	return s.backendClient.VerifyEventPayment(ctx, orderID)
}

// translateEventOrderError rewrites known backend error codes into
// user-facing copy
func translateEventOrderError(err error) error {
	apiErr, ok := backend.AsAPIError(err)
	if !ok {
		return err
	}

	if apiErr.Code == "already_registered" {
		return &backend.APIError{
			StatusCode: apiErr.StatusCode,
			Code:       apiErr.Code,
			Message:    "You are already registered for this event. Check your email for confirmation details.",
		}
	}
	if strings.Contains(apiErr.Message, "full") {
		return &backend.APIError{
			StatusCode: apiErr.StatusCode,
			Code:       apiErr.Code,
			Message:    "Sorry, this event is now full. No more spots available.",
		}
	}
	return apiErr
}
