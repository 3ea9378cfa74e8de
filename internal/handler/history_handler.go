package handler

import (
	"errors"
	"net/http"

	"github.com/codenovous-harsh/duocortex-accounts-page/internal/backend"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/logger"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/service"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/session"
)

// HistoryHandler serves the quiz transaction history page
type HistoryHandler struct {
	historyService service.HistoryService
	store          *session.Store
	log            *logger.Logger
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(historyService service.HistoryService, store *session.Store, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
		store:          store,
		log:            log,
	}
}

// Transactions lists quiz wins and losses, filtered by the `filter` query
// param (all, wins or losses).
func (h *HistoryHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	var filter string
	switch r.URL.Query().Get("filter") {
	case "wins":
		filter = service.FilterWins
	case "losses":
		filter = service.FilterLosses
	default:
		filter = service.FilterAll
	}

	transactions, summary, err := h.historyService.Transactions(r.Context(), filter)
	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			if clearErr := h.store.Clear(w, r); clearErr != nil {
				h.log.WithError(clearErr).Warn("failed to clear session")
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		h.log.WithError(err).Error("failed to load quiz history")
		writeError(w, http.StatusBadGateway, "Unable to load your transactions. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"filter":       filter,
		"transactions": transactions,
		"summary":      summary,
	})
}
