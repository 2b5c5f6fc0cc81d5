package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nkiryanov/reqtoken/internal/config"
	"github.com/nkiryanov/reqtoken/internal/handlers"
	"github.com/nkiryanov/reqtoken/internal/logger"
	"github.com/nkiryanov/reqtoken/internal/metrics"
	"github.com/nkiryanov/reqtoken/internal/repository"
	"github.com/nkiryanov/reqtoken/internal/service/authorizer"
	"github.com/nkiryanov/reqtoken/internal/service/issuer"
	"github.com/nkiryanov/reqtoken/internal/storage"
)

const shutdownTimeout = 5 * time.Second

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger logger.Logger
	store  repository.Storage
}

func NewServerApp(ctx context.Context, c *config.Config) (*ServerApp, error) {
	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config. Err: %w", err)
	}

	// Open token store
	store, err := storage.Open(ctx, c.StorageConfig(), logger)
	if err != nil {
		return nil, fmt.Errorf("error while opening token store. Err: %w", err)
	}

	// Initialize services
	m := metrics.New()

	issuerService, err := issuer.NewService(issuer.Config{}, store, logger, m)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("error while creating issuer service. Err: %w", err)
	}
	authorizerService, err := authorizer.NewService(store, logger, m)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("error while creating authorizer service. Err: %w", err)
	}

	mux := handlers.NewRouter(issuerService, authorizerService, m.Handler(), logger)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    mux,
		logger:     logger,
		store:      store,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
// Token store is closed when server stops
func (s *ServerApp) Run(ctx context.Context) error {
	defer func() {
		if err := s.store.Close(); err != nil {
			s.logger.Error("error while closing token store", "error", err.Error())
		}
	}()

	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); errors.Is(err, context.DeadlineExceeded) {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
