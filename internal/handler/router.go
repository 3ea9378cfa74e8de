package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codenovous-harsh/duocortex-accounts-page/internal/logger"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/metrics"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/middleware"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/session"
)

// Deps bundles everything the router needs
type Deps struct {
	Auth       *AuthHandler
	Wallet     *WalletHandler
	Withdrawal *WithdrawalHandler
	Event      *EventHandler
	History    *HistoryHandler
	Store      *session.Store
	Log        *logger.Logger
	Metrics    *metrics.Metrics
}

// NewRouter wires every portal route behind the logging, metrics and
// session-auth middleware chain.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(logger.Middleware(deps.Log))
	r.Use(metrics.Middleware(deps.Metrics))
	r.Use(middleware.SessionAuth(deps.Store))

	r.Get("/", Root)
	r.Get("/healthz", Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/login", deps.Auth.LoginPage)
	r.Post("/login", deps.Auth.Login)
	r.Get("/auth/callback", deps.Auth.FederatedCallback)
	r.Post("/logout", deps.Auth.Logout)
	r.Get("/signup", deps.Auth.SignupPage)

	r.Get("/dashboard", deps.Wallet.Dashboard)
	r.Get("/wallet", deps.Wallet.WalletPage)
	r.Post("/wallet/topup", deps.Wallet.TopUp)
	r.Get("/payment-status", deps.Wallet.PaymentStatus)

	r.Get("/withdraw", deps.Withdrawal.WithdrawPage)
	r.Post("/withdraw", deps.Withdrawal.Withdraw)

	r.Get("/transactions", deps.History.Transactions)

	r.Get("/events", deps.Event.Events)
	r.Get("/events/{eventID}", deps.Event.Event)
	r.Post("/events/{eventID}/register", deps.Event.RegisterEvent)
	r.Get("/event-payment-status", deps.Event.EventPaymentStatus)

	return r
}
