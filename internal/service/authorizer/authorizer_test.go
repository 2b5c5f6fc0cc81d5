package authorizer

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/reqtoken/internal/apperrors"
	"github.com/nkiryanov/reqtoken/internal/logger"
	"github.com/nkiryanov/reqtoken/internal/models"
	"github.com/nkiryanov/reqtoken/internal/testutil"
)

const methodArn = "arn:aws:execute-api:us-east-1:123456789012:abcdef123/prod/GET/orders"

// Allow to use a function as token repo; Save is never called by authorizer
type getFunc func(ctx context.Context, reqID string) (models.TokenRecord, error)

func (f getFunc) Save(context.Context, models.TokenRecord) error {
	return errors.New("read only")
}

func (f getFunc) Get(ctx context.Context, reqID string) (models.TokenRecord, error) {
	return f(ctx, reqID)
}

type decisions struct {
	allowed, denied int
}

func (d *decisions) Authorized(allowed bool) {
	if allowed {
		d.allowed++
	} else {
		d.denied++
	}
}

func TestAuthorizer(t *testing.T) {
	store := testutil.OpenBadgerStore(t)

	err := store.Save(t.Context(), models.TokenRecord{ReqID: "q2fXb3s0Lq4wVx2kYc9aNA", User: "alice", RequestTime: time.Now()})
	require.NoError(t, err)

	t.Run("repo required", func(t *testing.T) {
		_, err := NewService(nil, nil, nil)

		require.Error(t, err)
	})

	t.Run("known token allowed", func(t *testing.T) {
		d := &decisions{}
		s, err := NewService(store, logger.NewNoOpLogger(), d)
		require.NoError(t, err)

		resp, err := s.Authorize(t.Context(), "q2fXb3s0Lq4wVx2kYc9aNA", methodArn)

		require.NoError(t, err)
		assert.Equal(t, "user", resp.PrincipalID)
		require.NotNil(t, resp.PolicyDocument)
		assert.Equal(t, "2012-10-17", resp.PolicyDocument.Version)
		require.Len(t, resp.PolicyDocument.Statement, 1)
		assert.Equal(t, models.Statement{
			Action:   "execute-api:Invoke",
			Effect:   "Allow",
			Resource: methodArn,
		}, resp.PolicyDocument.Statement[0])
		assert.Equal(t, map[string]any{
			"stringKey":  "stringval",
			"numberKey":  123,
			"booleanKey": true,
		}, resp.Context)
		assert.Equal(t, 1, d.allowed)
	})

	t.Run("no policy without resource", func(t *testing.T) {
		s, err := NewService(store, nil, nil)
		require.NoError(t, err)

		resp, err := s.Authorize(t.Context(), "q2fXb3s0Lq4wVx2kYc9aNA", "")

		require.NoError(t, err)
		assert.Equal(t, "user", resp.PrincipalID)
		assert.Nil(t, resp.PolicyDocument)
		assert.NotEmpty(t, resp.Context)
	})

	tests := []struct {
		name  string
		token string
		repo  getFunc
	}{
		{
			name:  "never issued token",
			token: "bogus",
			repo:  func(ctx context.Context, reqID string) (models.TokenRecord, error) { return store.Get(ctx, reqID) },
		},
		{
			name:  "empty token",
			token: "",
			repo: func(context.Context, string) (models.TokenRecord, error) {
				panic("store must not be called with empty token")
			},
		},
		{
			name:  "store failure",
			token: "q2fXb3s0Lq4wVx2kYc9aNA",
			repo: func(context.Context, string) (models.TokenRecord, error) {
				return models.TokenRecord{}, fmt.Errorf("db error: %w", errors.New("connection reset"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &decisions{}
			s, err := NewService(tt.repo, nil, d)
			require.NoError(t, err)

			resp, err := s.Authorize(t.Context(), tt.token, methodArn)

			require.Error(t, err)
			require.Equal(t, apperrors.ErrInvalidToken, err, "cause must not leak to the caller")
			assert.Equal(t, models.AuthResponse{}, resp, "no policy object on failure")
			assert.Equal(t, 1, d.denied)
		})
	}
}
