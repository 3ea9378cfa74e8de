package handler

import (
	"errors"
	"net/http"

	"github.com/codenovous-harsh/duocortex-accounts-page/internal/backend"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/logger"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/service"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/session"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/validation"
)

// WithdrawalHandler serves the withdrawal form and submits payout requests
type WithdrawalHandler struct {
	withdrawalService service.WithdrawalService
	authService       service.AuthService
	store             *session.Store
	log               *logger.Logger
}

// NewWithdrawalHandler creates a new withdrawal handler
func NewWithdrawalHandler(withdrawalService service.WithdrawalService, authService service.AuthService, store *session.Store, log *logger.Logger) *WithdrawalHandler {
	return &WithdrawalHandler{
		withdrawalService: withdrawalService,
		authService:       authService,
		store:             store,
		log:               log,
	}
}

// WithdrawPage returns the withdrawal view state with the available balance
func (h *WithdrawalHandler) WithdrawPage(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.RefreshProfile(r.Context())
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			h.expireSession(w, r)
			return
		}
		writeError(w, http.StatusBadGateway, "Unable to load your balance. Please try again.")
		return
	}

	if err := h.store.SaveProfile(w, r, user); err != nil {
		h.log.WithError(err).Warn("failed to cache profile")
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"availableCoins":    user.AvailableCoins,
		"minimumWithdrawal": 100,
	})
}

type withdrawRequest struct {
	Amount               string `json:"amount"`
	AccountHolderName    string `json:"accountHolderName"`
	AccountNumber        string `json:"accountNumber"`
	ConfirmAccountNumber string `json:"confirmAccountNumber"`
	BankName             string `json:"bankName"`
	IFSCCode             string `json:"ifscCode"`
}

// Withdraw validates the payout form against the live balance and submits
// it. Validation failures return the field-keyed error map; the form is
// never partially submitted.
func (h *WithdrawalHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req withdrawRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	form := service.WithdrawalForm{
		Amount:               req.Amount,
		AccountHolderName:    req.AccountHolderName,
		AccountNumber:        req.AccountNumber,
		ConfirmAccountNumber: req.ConfirmAccountNumber,
		BankName:             req.BankName,
		IFSCCode:             req.IFSCCode,
	}

	// The ceiling is the live balance, not the cached one
	user, err := h.authService.RefreshProfile(r.Context())
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			h.expireSession(w, r)
			return
		}
		writeError(w, http.StatusBadGateway, "Unable to verify your balance. Please try again.")
		return
	}

	if fieldErrors := h.withdrawalService.Validate(form, user.AvailableCoins); len(fieldErrors) > 0 {
		validation.WriteValidationErrorResponseFromMap(w, fieldErrors)
		return
	}

	resp, err := h.withdrawalService.Submit(r.Context(), form)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			h.expireSession(w, r)
			return
		}
		if apiErr, ok := backend.AsAPIError(err); ok {
			writeError(w, http.StatusBadRequest, apiErr.Message)
			return
		}
		h.log.WithError(err).Error("withdrawal submission failed")
		writeError(w, http.StatusBadGateway, "Unable to submit your withdrawal. Please try again.")
		return
	}

	message := resp.Message
	if message == "" {
		message = "Withdrawal request submitted successfully"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": message,
	})
}

func (h *WithdrawalHandler) expireSession(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(w, r); err != nil {
		h.log.WithError(err).Warn("failed to clear session")
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
