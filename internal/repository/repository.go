package repository

import (
	"context"

	"github.com/nkiryanov/reqtoken/internal/models"
)

// Token repository interface
type TokenRepo interface {
	// Save token record
	// The write must be create-only: if token with the same ReqID exists has to return apperrors.ErrTokenExists
	Save(ctx context.Context, token models.TokenRecord) error

	// Get token record by its ReqID
	// If token not found must return apperrors.ErrTokenNotFound
	Get(ctx context.Context, reqID string) (models.TokenRecord, error)
}

// Storage is a token repository bound to an open connection
// Close must be called once the storage is not needed anymore
type Storage interface {
	TokenRepo

	Close() error
}
