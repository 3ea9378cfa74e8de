package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codenovous-harsh/duocortex-accounts-page/internal/backend"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/logger"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/models"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/service"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/session"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/validation"
)

// EventHandler serves event listing, detail, registration and the
// post-checkout verification page.
type EventHandler struct {
	eventService   service.EventService
	paymentService service.PaymentService
	store          *session.Store
	log            *logger.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService service.EventService, paymentService service.PaymentService, store *session.Store, log *logger.Logger) *EventHandler {
	return &EventHandler{
		eventService:   eventService,
		paymentService: paymentService,
		store:          store,
		log:            log,
	}
}

// Events lists upcoming events
func (h *EventHandler) Events(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.ListEvents(r.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to list events")
		writeError(w, http.StatusBadGateway, "Unable to load events. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
	})
}

// Event returns a single event's detail view
func (h *EventHandler) Event(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	event, err := h.eventService.GetEvent(r.Context(), eventID)
	if err != nil {
		if apiErr, ok := backend.AsAPIError(err); ok && apiErr.StatusCode == http.StatusNotFound {
			writeError(w, http.StatusNotFound, "Event not found")
			return
		}
		h.log.WithError(err).Error("failed to load event")
		writeError(w, http.StatusBadGateway, "Unable to load the event. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"event":   event,
		"soldOut": event.SoldOut(),
	})
}

type registerRequest struct {
	Email     string            `json:"email"`
	Attendees []models.Attendee `json:"attendees"`
}

// RegisterEvent validates the attendee form, creates a paid registration
// order and redirects to the hosted checkout. The return URL is stashed in
// the session first so the verification page can be restored afterwards.
func (h *EventHandler) RegisterEvent(w http.ResponseWriter, r *http.Request) {
	uc, ok := session.UserFromContext(r.Context())
	if !ok || uc.Token == "" {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	eventID := chi.URLParam(r, "eventID")

	var req registerRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	event, err := h.eventService.GetEvent(r.Context(), eventID)
	if err != nil {
		h.log.WithError(err).Error("failed to load event for registration")
		writeError(w, http.StatusBadGateway, "Unable to load the event. Please try again.")
		return
	}

	order, err := h.eventService.Register(r.Context(), event, req.Email, req.Attendees)
	if err != nil {
		h.writeRegisterError(w, err)
		return
	}

	if err := h.store.SetEventReturnURL(w, r, order.ReturnURL); err != nil {
		h.log.WithError(err).Warn("failed to stash return url")
	}

	checkoutURL, err := h.paymentService.CheckoutURL(order.PaymentSessionID)
	if err != nil {
		h.log.WithError(err).Error("failed to build checkout url")
		writeError(w, http.StatusBadGateway, "Unable to start the payment. Please try again.")
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"orderId":     order.OrderID,
			"checkoutUrl": checkoutURL,
			"returnUrl":   order.ReturnURL,
			"totalAmount": event.TotalAmount(len(req.Attendees)),
		})
		return
	}
	http.Redirect(w, r, checkoutURL, http.StatusSeeOther)
}

func (h *EventHandler) writeRegisterError(w http.ResponseWriter, err error) {
	var regErr *service.RegistrationError
	var capErr *service.CapacityError

	switch {
	case errors.As(err, &regErr):
		validation.WriteValidationErrorResponseFromMap(w, regErr.Fields)
	case errors.As(err, &capErr):
		writeError(w, http.StatusConflict, capErr.Error())
	case errors.Is(err, service.ErrEventSoldOut):
		writeError(w, http.StatusConflict, "This event is sold out.")
	default:
		if apiErr, ok := backend.AsAPIError(err); ok {
			writeError(w, http.StatusConflict, apiErr.Message)
			return
		}
		h.log.WithError(err).Error("event registration failed")
		writeError(w, http.StatusBadGateway, "Unable to complete your registration. Please try again.")
	}
}

// EventPaymentStatus verifies an event payment after the checkout redirect.
// Without an order id the page resolves to failed without touching the
// backend.
func (h *EventHandler) EventPaymentStatus(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("order_id")
	if orderID == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  models.PaymentFailed,
			"message": "Invalid payment information. Please try again.",
		})
		return
	}

	verification, err := h.eventService.VerifyEventPayment(r.Context(), orderID)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":  models.PaymentFailed,
			"orderId": orderID,
			"message": "Payment verification failed. If money was deducted, it will be refunded within 5-7 business days.",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       models.PaymentSuccess,
		"orderId":      orderID,
		"event":        verification.Event,
		"registration": verification.Registration,
		"message":      "Registration confirmed! See you at the event.",
	})
}
