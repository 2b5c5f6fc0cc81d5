package issuer

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/nkiryanov/reqtoken/internal/logger"
	"github.com/nkiryanov/reqtoken/internal/models"
	"github.com/nkiryanov/reqtoken/internal/repository"
	"github.com/nkiryanov/reqtoken/internal/tokengen"
)

// Issuer with sensible defaults
type Config struct {
	// Random bytes per token
	// If not set than tokengen.DefaultLength is used
	TokenLength int

	// Source of randomness
	// If not set than crypto/rand is used
	Random io.Reader

	// Clock
	// If not set than time.Now is used
	Now func() time.Time
}

type recorder interface {
	TokenIssued()
	IssueFailed()
}

type noopRecorder struct{}

func (noopRecorder) TokenIssued() {}
func (noopRecorder) IssueFailed() {}

type IssuerService struct {
	tokenLength int
	random      io.Reader
	now         func() time.Time

	tokenRepo repository.TokenRepo
	logger    logger.Logger
	metrics   recorder
}

// Create issuer service
// metrics may be nil
func NewService(cfg Config, tokenRepo repository.TokenRepo, l logger.Logger, metrics recorder) (*IssuerService, error) {
	if tokenRepo == nil {
		return nil, errors.New("token repo must not be nil")
	}

	if cfg.TokenLength == 0 {
		cfg.TokenLength = tokengen.DefaultLength
	}
	if cfg.Random == nil {
		cfg.Random = rand.Reader
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if l == nil {
		l = logger.NewNoOpLogger()
	}
	if metrics == nil {
		metrics = noopRecorder{}
	}

	return &IssuerService{
		tokenLength: cfg.TokenLength,
		random:      cfg.Random,
		now:         cfg.Now,
		tokenRepo:   tokenRepo,
		logger:      l,
		metrics:     metrics,
	}, nil
}

// Issue new token for the user and store it
// Username is stored as is, even when empty
// Every call creates a new record
func (s *IssuerService) Issue(ctx context.Context, username string) (models.TokenRecord, error) {
	reqID, err := tokengen.Generate(s.random, s.tokenLength)
	if err != nil {
		s.metrics.IssueFailed()
		s.logger.Error("error while generating token", "error", err.Error())
		return models.TokenRecord{}, fmt.Errorf("token could not be generated. Err: %w", err)
	}

	s.logger.Info("received issue request", "reqId", reqID, "username", username)

	token := models.TokenRecord{
		ReqID: reqID,
		User:  username,
		// Stored with millisecond precision, keep in-memory value the same
		RequestTime: s.now().UTC().Truncate(time.Millisecond),
	}

	if err := s.tokenRepo.Save(ctx, token); err != nil {
		s.metrics.IssueFailed()
		s.logger.Error("error while saving token", "reqId", reqID, "error", err.Error())
		return models.TokenRecord{}, fmt.Errorf("token could not be saved. Err: %w", err)
	}

	s.metrics.TokenIssued()

	return token, nil
}
