package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nkiryanov/reqtoken/internal/apperrors"
	"github.com/nkiryanov/reqtoken/internal/models"
)

type TokenRepo struct {
	DB DBTX
}

const saveToken = `-- name: SaveToken
INSERT INTO auth_tokens (req_id, username, request_time)
VALUES ($1, $2, $3)
`

// Save token record
// Primary key keeps req_id unique: colliding token is reported as apperrors.ErrTokenExists
func (r *TokenRepo) Save(ctx context.Context, token models.TokenRecord) error {
	_, err := r.DB.Exec(ctx, saveToken, token.ReqID, token.User, token.RequestTime)

	var pgErr *pgconn.PgError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation:
		return fmt.Errorf("repo error: %w", apperrors.ErrTokenExists)
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

const getToken = `-- name: GetToken
SELECT req_id, username, request_time
FROM auth_tokens
WHERE req_id = $1
`

func (r *TokenRepo) Get(ctx context.Context, reqID string) (models.TokenRecord, error) {
	rows, _ := r.DB.Query(ctx, getToken, reqID)
	token, err := pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.TokenRecord, error) {
		var t models.TokenRecord
		err := row.Scan(&t.ReqID, &t.User, &t.RequestTime)
		return t, err
	})

	switch {
	case err == nil:
		return token, nil
	case errors.Is(err, pgx.ErrNoRows):
		return token, fmt.Errorf("repo error: %w", apperrors.ErrTokenNotFound)
	default:
		return token, fmt.Errorf("db error: %w", err)
	}
}
