package postgres

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/reqtoken/internal/apperrors"
	"github.com/nkiryanov/reqtoken/internal/models"
	"github.com/nkiryanov/reqtoken/internal/testutil"
)

func mustParseTime(value string) time.Time {
	dt, err := time.Parse("2006-01-02 15:04:05Z07:00", value)
	if err != nil {
		panic(err)
	}
	return dt
}

func Test_TokenRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	token := models.TokenRecord{
		ReqID:       "q2fXb3s0Lq4wVx2kYc9aNA",
		User:        "alice",
		RequestTime: mustParseTime("2024-01-01 19:00:01Z"),
	}

	t.Run("save and get token", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := TokenRepo{DB: tx}

			err := repo.Save(t.Context(), token)
			require.NoError(t, err)

			got, err := repo.Get(t.Context(), token.ReqID)

			require.NoError(t, err)
			assert.Equal(t, token.ReqID, got.ReqID)
			assert.Equal(t, token.User, got.User)
			assert.WithinDuration(t, token.RequestTime, got.RequestTime, 0)
		})
	})

	t.Run("empty username stored verbatim", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := TokenRepo{DB: tx}
			anonymous := models.TokenRecord{ReqID: "anon", User: "", RequestTime: token.RequestTime}

			err := repo.Save(t.Context(), anonymous)
			require.NoError(t, err)

			got, err := repo.Get(t.Context(), "anon")
			require.NoError(t, err)
			assert.Equal(t, "", got.User)
		})
	})

	t.Run("save existed token fails", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := TokenRepo{DB: tx}
			err := repo.Save(t.Context(), token)
			require.NoError(t, err)

			err = repo.Save(t.Context(), models.TokenRecord{ReqID: token.ReqID, User: "mallory", RequestTime: time.Now()})

			require.Error(t, err)
			require.ErrorIs(t, err, apperrors.ErrTokenExists)
		})
	})

	t.Run("get not existed token", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			repo := TokenRepo{DB: tx}

			_, err := repo.Get(t.Context(), "bogus")

			require.Error(t, err)
			require.ErrorIs(t, err, apperrors.ErrTokenNotFound)
		})
	})
}
