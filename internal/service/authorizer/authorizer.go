package authorizer

import (
	"context"
	"errors"

	"github.com/nkiryanov/reqtoken/internal/apperrors"
	"github.com/nkiryanov/reqtoken/internal/logger"
	"github.com/nkiryanov/reqtoken/internal/models"
	"github.com/nkiryanov/reqtoken/internal/repository"
)

type recorder interface {
	Authorized(allowed bool)
}

type noopRecorder struct{}

func (noopRecorder) Authorized(bool) {}

type AuthorizerService struct {
	tokenRepo repository.TokenRepo
	logger    logger.Logger
	metrics   recorder
}

// Create authorizer service
// metrics may be nil
func NewService(tokenRepo repository.TokenRepo, l logger.Logger, metrics recorder) (*AuthorizerService, error) {
	if tokenRepo == nil {
		return nil, errors.New("token repo must not be nil")
	}
	if l == nil {
		l = logger.NewNoOpLogger()
	}
	if metrics == nil {
		metrics = noopRecorder{}
	}

	return &AuthorizerService{
		tokenRepo: tokenRepo,
		logger:    l,
		metrics:   metrics,
	}, nil
}

// Authorize request to resource (methodArn) with the token
// Allow decision if token exists, apperrors.ErrInvalidToken otherwise
// Lookup errors and missing tokens are indistinguishable for the caller: cause is only logged
func (s *AuthorizerService) Authorize(ctx context.Context, token string, methodArn string) (models.AuthResponse, error) {
	s.logger.Info("received authorize request", "reqId", token, "methodArn", methodArn)

	if token == "" {
		s.metrics.Authorized(false)
		s.logger.Warn("empty authorization token")
		return models.AuthResponse{}, apperrors.ErrInvalidToken
	}

	_, err := s.tokenRepo.Get(ctx, token)
	if err != nil {
		s.metrics.Authorized(false)
		switch {
		case errors.Is(err, apperrors.ErrTokenNotFound):
			s.logger.Warn("token not found", "reqId", token)
		default:
			s.logger.Error("unable to read token", "reqId", token, "error", err.Error())
		}
		return models.AuthResponse{}, apperrors.ErrInvalidToken
	}

	s.metrics.Authorized(true)

	return models.NewAuthResponse(models.DefaultPrincipal, models.EffectAllow, methodArn), nil
}
