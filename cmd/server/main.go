package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/codenovous-harsh/duocortex-accounts-page/internal/backend"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/cashfree"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/config"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/handler"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/logger"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/metrics"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/repository"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/service"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/session"
	"github.com/codenovous-harsh/duocortex-accounts-page/internal/validation"
)

func main() {
	// Load environment variables; absence is fine in containerized deploys
	if err := godotenv.Load(); err != nil {
		_ = godotenv.Load("config.env")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger("portal")
	m := metrics.NewMetrics("portal")

	// Redis holds OAuth state and processed-session markers
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.WithError(err).Fatal("failed to parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		cancel()
		log.WithError(err).Fatal("failed to connect to redis")
	}
	cancel()
	log.Info("connected to redis")

	store := session.NewStore(cfg.Session.Key)

	backendClient := backend.NewClient(cfg.Backend.BaseURL, backend.WithObserver(m))

	gateway := cashfree.NewGateway(cashfree.Config{
		ClientID:     cfg.Cashfree.ClientID,
		ClientSecret: cfg.Cashfree.ClientSecret,
		Environment:  cfg.Cashfree.Environment,
	})

	validate := validation.NewCustomValidator()

	authStateRepo := repository.NewAuthStateRepository(redisClient)

	providerURLs := map[string]string{
		"google": cfg.Auth.GoogleAuthorizeURL,
		"apple":  cfg.Auth.AppleAuthorizeURL,
	}
	for provider, authorizeURL := range providerURLs {
		if authorizeURL == "" {
			providerURLs[provider] = fmt.Sprintf("%s/auth/%s", cfg.Backend.BaseURL, provider)
		}
	}

	authService := service.NewAuthService(backendClient, authStateRepo, providerURLs)
	paymentService := service.NewPaymentService(backendClient, gateway, authService, log)
	withdrawalService := service.NewWithdrawalService(backendClient, validate)
	eventService := service.NewEventService(backendClient, validate, cfg.Server.BaseURL)
	historyService := service.NewHistoryService(backendClient)

	router := handler.NewRouter(handler.Deps{
		Auth:       handler.NewAuthHandler(authService, store, log),
		Wallet:     handler.NewWalletHandler(paymentService, authService, store, log),
		Withdrawal: handler.NewWithdrawalHandler(withdrawalService, authService, store, log),
		Event:      handler.NewEventHandler(eventService, paymentService, store, log),
		History:    handler.NewHistoryHandler(historyService, store, log),
		Store:      store,
		Log:        log,
		Metrics:    m,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Server.HTTPPort).Info("portal listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	if err := redisClient.Close(); err != nil {
		log.WithError(err).Warn("failed to close redis client")
	}
	log.Info("server stopped")
}
