package handler

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/codenovous-harsh/duocortex-accounts-page/internal/backend"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/cashfree"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/logger"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/models"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/service"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/session"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/validation"
)

// WalletHandler serves the dashboard, the wallet page, top-up initiation and
// payment verification.
type WalletHandler struct {
	paymentService service.PaymentService
	authService    service.AuthService
	store          *session.Store
	log            *logger.Logger
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(paymentService service.PaymentService, authService service.AuthService, store *session.Store, log *logger.Logger) *WalletHandler {
	return &WalletHandler{
		paymentService: paymentService,
		authService:    authService,
		store:          store,
		log:            log,
	}
}

// currentUser returns the freshest profile available: a live fetch when the
// backend is reachable, the session-cached copy otherwise. The bool reports
// whether the profile is live.
func (h *WalletHandler) currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool, error) {
	user, err := h.authService.RefreshProfile(r.Context())
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			return nil, false, err
		}
		uc, ok := session.UserFromContext(r.Context())
		if ok && uc.User != nil {
			return uc.User, false, nil
		}
		return nil, false, err
	}

	if err := h.store.SaveProfile(w, r, user); err != nil {
		h.log.WithError(err).Warn("failed to cache profile")
	}
	return user, true, nil
}

// Dashboard returns the signed-in overview: profile plus wallet balances
func (h *WalletHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user, live, err := h.currentUser(w, r)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			h.expireSession(w, r)
			return
		}
		writeError(w, http.StatusBadGateway, "Unable to load your profile. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":  user,
		"stale": !live,
	})
}

// WalletPage returns the wallet view state with top-up limits
func (h *WalletHandler) WalletPage(w http.ResponseWriter, r *http.Request) {
	user, live, err := h.currentUser(w, r)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			h.expireSession(w, r)
			return
		}
		writeError(w, http.StatusBadGateway, "Unable to load your wallet. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"coins":          user.Coins,
		"availableCoins": user.AvailableCoins,
		"stale":          !live,
		"topUp": map[string]int{
			"min": 1,
			"max": 10000,
		},
	})
}

type topUpRequest struct {
	Amount string `json:"amount"`
}

// TopUp creates a payment session for the requested amount and redirects
// the browser to the hosted checkout. Success is never observed here; the
// gateway returns the user to /payment-status.
func (h *WalletHandler) TopUp(w http.ResponseWriter, r *http.Request) {
	var req topUpRequest
	if err := decodeJSONBody(r, &req); err != nil {
		req.Amount = r.PostFormValue("amount")
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		validation.WriteValidationErrorResponseFromMap(w, map[string]string{
			"amount": "Please enter a valid amount",
		})
		return
	}

	user, _, err := h.currentUser(w, r)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			h.expireSession(w, r)
			return
		}
		writeError(w, http.StatusBadGateway, "Unable to start the payment. Please try again.")
		return
	}

	order, err := h.paymentService.CreatePaymentSession(r.Context(), amount, user)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAmountOutOfRange):
			validation.WriteValidationErrorResponseFromMap(w, map[string]string{
				"amount": "Please enter an amount between ₹1 and ₹10,000",
			})
		case cashfree.IsPhoneInvalid(err):
			// Distinct state: the client prompts for a phone number instead
			// of showing generic failure copy
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"code":  cashfree.CodePhoneInvalid,
				"error": "Please add a valid phone number to your profile before making a payment.",
			})
		case errors.Is(err, backend.ErrUnauthorized):
			h.expireSession(w, r)
		default:
			h.log.WithError(err).Error("failed to create payment session")
			writeError(w, http.StatusBadGateway, "Unable to start the payment. Please try again.")
		}
		return
	}

	checkoutURL, err := h.paymentService.CheckoutURL(order.PaymentSessionID)
	if err != nil {
		h.log.WithError(err).Error("failed to build checkout url")
		writeError(w, http.StatusBadGateway, "Unable to start the payment. Please try again.")
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]string{
			"orderId":     order.OrderID,
			"checkoutUrl": checkoutURL,
		})
		return
	}
	http.Redirect(w, r, checkoutURL, http.StatusSeeOther)
}

// PaymentStatus reconciles the gateway return-redirect into a terminal
// success or failed view. The refreshed balance, when the refresh worked,
// is persisted to the session before rendering.
func (h *WalletHandler) PaymentStatus(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	result := h.paymentService.VerifyPayment(
		r.Context(),
		query.Get("order_id"),
		query.Get("payment_id"),
		query.Get("amount"),
	)

	if result.RefreshedUser != nil {
		if err := h.store.SaveProfile(w, r, result.RefreshedUser); err != nil {
			h.log.WithError(err).Warn("failed to cache refreshed profile")
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    result.State,
		"message":   result.Message,
		"orderId":   result.OrderID,
		"paymentId": result.PaymentID,
		"amount":    result.Amount,
	})
}

// expireSession clears a rejected session and bounces to login
func (h *WalletHandler) expireSession(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(w, r); err != nil {
		h.log.WithError(err).Warn("failed to clear session")
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
