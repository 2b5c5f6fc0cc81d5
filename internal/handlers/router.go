package handlers

import (
	"context"
	"net/http"

	"github.com/nkiryanov/reqtoken/internal/handlers/middleware"
	"github.com/nkiryanov/reqtoken/internal/logger"
	"github.com/nkiryanov/reqtoken/internal/models"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

// metricsHandler may be nil, then /metrics is not served
func NewRouter(
	issuerService issuerService,
	authorizerService authorizerService,
	metricsHandler http.Handler,
	logger logger.Logger,
) http.Handler {
	root := http.NewServeMux()

	root.Handle("POST /tokens", handleIssueToken(issuerService, logger))
	root.Handle("OPTIONS /tokens", handleTokenPreflight())
	root.Handle("POST /authorize", handleAuthorize(authorizerService, logger))
	root.Handle("GET /healthz", handleHealth())

	if metricsHandler != nil {
		root.Handle("GET /metrics", metricsHandler)
	}

	handler := chain(root,
		middleware.RequestIDMiddleware,
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

type issuerService interface {
	// Issue new token for the username and store it
	Issue(ctx context.Context, username string) (models.TokenRecord, error)
}

type authorizerService interface {
	// Authorize access to the resource (methodArn) with the token
	// Has to return apperrors.ErrInvalidToken if token is not valid
	Authorize(ctx context.Context, token string, methodArn string) (models.AuthResponse, error)
}
