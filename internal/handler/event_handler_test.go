package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codenovous-harsh/duocortex-accounts-page/internal/backend"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/logger"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/models"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/service"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/session"
)

type fakeEventService struct {
	events       []models.Event
	event        *models.Event
	order        *service.EventOrder
	registerErr  error
	verification *backend.EventVerification
	verifyErr    error
	verifyCalls  int
}

func (f *fakeEventService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return f.events, nil
}

func (f *fakeEventService) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	return f.event, nil
}

func (f *fakeEventService) Register(ctx context.Context, event *models.Event, email string, attendees []models.Attendee) (*service.EventOrder, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.order, nil
}

func (f *fakeEventService) VerifyEventPayment(ctx context.Context, orderID string) (*backend.EventVerification, error) {
	f.verifyCalls++
	return f.verification, f.verifyErr
}

func newEventHandler(events service.EventService, store *session.Store) *EventHandler {
	return NewEventHandler(events, &fakePaymentService{}, store, logger.NewLogger("test"))
}

func registerRequestFor(t *testing.T, eventID, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/events/"+eventID+"/register", strings.NewReader(body))

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("eventID", eventID)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	// signed-in session
	req = req.WithContext(session.WithUser(req.Context(), &session.UserContext{
		Token: "tok-1",
		User:  &models.User{ID: "u1", Email: "asha@example.com"},
	}))
	return req
}

func TestEventHandler_RegisterEvent(t *testing.T) {
	store := session.NewStore("test-secret")
	body := `{"email":"asha@example.com","attendees":[{"fullName":"Asha Rao","phoneNumber":"9876543210","collegeName":"IIT Delhi","gender":"female"}]}`

	t.Run("RedirectsToCheckoutAndStashesReturnURL", func(t *testing.T) {
		events := &fakeEventService{
			event: &models.Event{ID: "e1", SpotsLeft: 5},
			order: &service.EventOrder{
				OrderID:          "order-7",
				PaymentSessionID: "sess-7",
				ReturnURL:        "/event-payment-status?order_id=order-7&eventId=e1",
			},
		}
		h := newEventHandler(events, store)

		rec := httptest.NewRecorder()
		h.RegisterEvent(rec, registerRequestFor(t, "e1", body))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Contains(t, rec.Header().Get("Location"), "payment_session_id=sess-7")

		next := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, cookie := range rec.Result().Cookies() {
			next.AddCookie(cookie)
		}
		assert.Equal(t, "/event-payment-status?order_id=order-7&eventId=e1", store.EventReturnURL(httptest.NewRecorder(), next))
	})

	t.Run("JSONResponseCarriesTotalAmount", func(t *testing.T) {
		events := &fakeEventService{
			event: &models.Event{ID: "e1", SpotsLeft: 5, Price: decimal.NewFromInt(200)},
			order: &service.EventOrder{
				OrderID:          "order-8",
				PaymentSessionID: "sess-8",
				ReturnURL:        "/event-payment-status?order_id=order-8&eventId=e1",
			},
		}
		h := newEventHandler(events, store)

		twoAttendees := `{"email":"asha@example.com","attendees":[` +
			`{"fullName":"Asha Rao","phoneNumber":"9876543210","collegeName":"IIT Delhi","gender":"female"},` +
			`{"fullName":"Ravi Rao","phoneNumber":"9876543211","collegeName":"IIT Delhi","gender":"male"}]}`
		req := registerRequestFor(t, "e1", twoAttendees)
		req.Header.Set("Accept", "application/json")

		rec := httptest.NewRecorder()
		h.RegisterEvent(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "order-8", resp["orderId"])
		assert.Equal(t, "400", resp["totalAmount"])
	})

	t.Run("UnauthenticatedRedirectsToLogin", func(t *testing.T) {
		h := newEventHandler(&fakeEventService{}, store)

		req := httptest.NewRequest(http.MethodPost, "/events/e1/register", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.RegisterEvent(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("ValidationErrorsReturn422", func(t *testing.T) {
		events := &fakeEventService{
			event:       &models.Event{ID: "e1", SpotsLeft: 5},
			registerErr: &service.RegistrationError{Fields: map[string]string{"email": "Email is required"}},
		}
		h := newEventHandler(events, store)

		rec := httptest.NewRecorder()
		h.RegisterEvent(rec, registerRequestFor(t, "e1", `{"attendees":[]}`))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		var resp struct {
			Errors map[string]string `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Email is required", resp.Errors["email"])
	})

	t.Run("SoldOutReturnsConflict", func(t *testing.T) {
		events := &fakeEventService{
			event:       &models.Event{ID: "e1"},
			registerErr: service.ErrEventSoldOut,
		}
		h := newEventHandler(events, store)

		rec := httptest.NewRecorder()
		h.RegisterEvent(rec, registerRequestFor(t, "e1", body))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("CapacityErrorSurfaced", func(t *testing.T) {
		events := &fakeEventService{
			event:       &models.Event{ID: "e1", SpotsLeft: 5},
			registerErr: &service.CapacityError{Gender: "female", SpotsLeft: 1},
		}
		h := newEventHandler(events, store)

		rec := httptest.NewRecorder()
		h.RegisterEvent(rec, registerRequestFor(t, "e1", body))

		assert.Equal(t, http.StatusConflict, rec.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Not enough female spots available. Only 1 female spot(s) remaining.", resp["error"])
	})

	t.Run("BackendCopySurfaced", func(t *testing.T) {
		events := &fakeEventService{
			event: &models.Event{ID: "e1", SpotsLeft: 5},
			registerErr: &backend.APIError{
				StatusCode: http.StatusOK,
				Code:       "already_registered",
				Message:    "You are already registered for this event. Check your email for confirmation details.",
			},
		}
		h := newEventHandler(events, store)

		rec := httptest.NewRecorder()
		h.RegisterEvent(rec, registerRequestFor(t, "e1", body))

		assert.Equal(t, http.StatusConflict, rec.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp["error"], "already registered")
	})
}

func TestEventHandler_EventPaymentStatus(t *testing.T) {
	store := session.NewStore("test-secret")

	t.Run("MissingOrderIDFailsWithoutBackendCall", func(t *testing.T) {
		events := &fakeEventService{}
		h := newEventHandler(events, store)

		req := httptest.NewRequest(http.MethodGet, "/event-payment-status", nil)
		rec := httptest.NewRecorder()
		h.EventPaymentStatus(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, string(models.PaymentFailed), resp["status"])
		assert.Equal(t, 0, events.verifyCalls)
	})

	t.Run("VerifiedRegistrationRendered", func(t *testing.T) {
		events := &fakeEventService{
			verification: &backend.EventVerification{
				Event: &models.Event{ID: "e1", EventName: "Tech Summit"},
				Registration: &models.EventRegistration{
					Email:   "asha@example.com",
					OrderID: "order-7",
				},
			},
		}
		h := newEventHandler(events, store)

		req := httptest.NewRequest(http.MethodGet, "/event-payment-status?order_id=order-7", nil)
		rec := httptest.NewRecorder()
		h.EventPaymentStatus(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, string(models.PaymentSuccess), resp["status"])
		assert.Equal(t, 1, events.verifyCalls)
	})

	t.Run("VerificationFailureShowsRefundCopy", func(t *testing.T) {
		events := &fakeEventService{verifyErr: &backend.APIError{StatusCode: http.StatusOK, Message: "payment verification failed"}}
		h := newEventHandler(events, store)

		req := httptest.NewRequest(http.MethodGet, "/event-payment-status?order_id=order-7", nil)
		rec := httptest.NewRecorder()
		h.EventPaymentStatus(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, string(models.PaymentFailed), resp["status"])
		assert.Contains(t, resp["message"], "refunded")
	})
}
