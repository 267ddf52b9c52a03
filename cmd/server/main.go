package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phuslu/log"

	"github.com/returntrack/returntrack-backend/internal/adapter/httpapi"
	"github.com/returntrack/returntrack-backend/internal/adapter/identity"
	"github.com/returntrack/returntrack-backend/internal/adapter/repository/postgres"
	"github.com/returntrack/returntrack-backend/internal/config"
	"github.com/returntrack/returntrack-backend/internal/domain"
	"github.com/returntrack/returntrack-backend/internal/usecase/access"
	"github.com/returntrack/returntrack-backend/internal/usecase/records"
	"github.com/returntrack/returntrack-backend/internal/usecase/registration"
)

func main() {
	// 1. Configuration and logging
	cfg := config.Load()

	logger := log.Logger{
		Level:      log.ParseLevel(cfg.LogLevel),
		TimeFormat: time.RFC3339,
		Writer:     &log.ConsoleWriter{ColorOutput: true},
	}

	// 2. Setup database
	db, err := postgres.NewDB(cfg.DBConnStr)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure schema")
	}

	// 3. Initialize repositories (Postgres)
	recordRepo := postgres.NewRecordRepository(db)
	profileRepo := postgres.NewProfileRepository(db)

	// 4. Initialize identity provider
	provider := identity.NewProvider(cfg.AuthBaseURL, cfg.AuthAPIKey)
	provider.OnSessionChange(func(session *domain.Session) {
		if session == nil {
			logger.Info().Msg("session ended")
			return
		}
		logger.Info().Str("user_id", session.UserID.String()).Msg("session established")
	})

	// 5. Initialize services (use cases)
	recordService := records.NewRecordService(recordRepo)
	registrationService := registration.NewRegistrationService(profileRepo)
	gate := access.NewGate(profileRepo)

	// 6. Start HTTP server
	apiServer := httpapi.NewServer(recordService, registrationService, gate, provider, logger, cfg.WindowMonths)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: apiServer.Router(cfg.CORSOrigins),
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to serve")
		}
	}()

	waitForShutdown(httpServer, logger)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(httpServer *http.Server, logger log.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info().Str("signal", sig.String()).Msg("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
	logger.Info().Msg("HTTP server stopped")
}
