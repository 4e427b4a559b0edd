package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	ivrhttp "github.com/ivrclaimassist/golang_services/internal/ivr_service/adapters/http"
	"github.com/ivrclaimassist/golang_services/internal/ivr_service/app"
	"github.com/ivrclaimassist/golang_services/internal/ivr_service/repository/postgres"
	"github.com/ivrclaimassist/golang_services/internal/ivr_service/repository/redisstore"
	"github.com/ivrclaimassist/golang_services/internal/ivr_service/twiml"
	"github.com/ivrclaimassist/golang_services/internal/platform/config"
	"github.com/ivrclaimassist/golang_services/internal/platform/database"
	"github.com/ivrclaimassist/golang_services/internal/platform/logger"
	"github.com/ivrclaimassist/golang_services/internal/platform/messagebroker"
	"github.com/ivrclaimassist/golang_services/internal/platform/redisclient"
)

const serviceName = "ivr_service"

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.LogLevel, serviceName)
	appLogger.Info("IVR service starting...", "port", cfg.ServerPort)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewDBPool(ctx, cfg.PostgresDSN)
	if err != nil {
		appLogger.Error("Failed to connect to PostgreSQL", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()
	appLogger.Info("Connected to PostgreSQL database")

	redisClient, err := redisclient.New(ctx, cfg.RedisAddr)
	if err != nil {
		appLogger.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", "addr", cfg.RedisAddr)

	// Step events are best-effort; a missing broker degrades to logs only.
	var events messagebroker.Publisher
	natsClient, err := messagebroker.NewNatsClient(cfg.NATSUrl, serviceName, appLogger)
	if err != nil {
		appLogger.Warn("NATS unavailable; call step events disabled", "error", err)
	} else {
		defer natsClient.Close()
		events = natsClient
		appLogger.Info("Connected to NATS", "url", cfg.NATSUrl)
	}

	identityRepo := postgres.NewPgIdentityRepository(dbPool, appLogger)
	claimRepo := postgres.NewPgClaimRepository(dbPool, appLogger)
	sessionStore := redisstore.NewRedisSessionStore(redisClient, cfg.SessionTTL(), appLogger)

	verifier := app.NewVerificationService(identityRepo, appLogger)
	claimService := app.NewClaimService(identityRepo, claimRepo, appLogger)
	callFlow := app.NewCallFlowService(sessionStore, verifier, claimService, events, appLogger)

	validate := validator.New()
	renderer := twiml.NewRenderer()
	ivrHandler := ivrhttp.NewIVRHandler(callFlow, renderer, validate, appLogger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(ivrhttp.PrometheusMetricsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/ivr", func(ivrRouter chi.Router) {
		ivrRouter.Use(ivrhttp.TwilioSignatureMiddleware(
			cfg.TwilioAuthToken, cfg.PublicBaseURL, cfg.TwilioValidateWebhooks, appLogger))
		ivrHandler.RegisterRoutes(ivrRouter)
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: r,
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		appLogger.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		appLogger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		appLogger.Error("Service exited with error", "error", err)
		os.Exit(1)
	}
	appLogger.Info("IVR service stopped")
}
