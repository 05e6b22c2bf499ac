package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/korjavin/druglookup/internal/accounts"
	"github.com/korjavin/druglookup/internal/auth"
	"github.com/korjavin/druglookup/internal/config"
	"github.com/korjavin/druglookup/internal/drug"
	"github.com/korjavin/druglookup/internal/logging"
	"github.com/korjavin/druglookup/internal/rxnorm"
	"github.com/korjavin/druglookup/internal/server"
	"github.com/korjavin/druglookup/internal/store"
	"go.uber.org/zap"
)

func main() {
	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.SessionSecret == "" {
		logger.Fatal("SESSION_SECRET is required. Generate one with: openssl rand -base64 32")
	}

	// 2. Account store
	var backend accounts.Backend
	switch cfg.AccountsBackend {
	case config.BackendSQLite:
		st, err := store.New(cfg.DBPath)
		if err != nil {
			logger.Fatal("failed to initialize store", zap.Error(err))
		}
		defer st.Close()
		backend = st
		logger.Info("account database initialized", zap.String("path", cfg.DBPath))
	default:
		backend = accounts.NewFileBackend(cfg.AccountsFile)
		logger.Info("account file", zap.String("path", cfg.AccountsFile))
	}
	accts := accounts.NewService(backend)

	// 3. Drug gateway
	gateway := drug.NewGateway(rxnorm.New(cfg.RxNavBaseURL, cfg.RxNavTimeout), logger)

	// 4. Server
	sessions := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookies)
	srv, err := server.New(accts, gateway, sessions, logger, cfg.AllowedOrigins)
	if err != nil {
		logger.Fatal("failed to build server", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
