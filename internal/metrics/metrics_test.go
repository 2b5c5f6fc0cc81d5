package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Run("counters", func(t *testing.T) {
		m := New()

		m.TokenIssued()
		m.TokenIssued()
		m.IssueFailed()
		m.Authorized(true)
		m.Authorized(false)
		m.Authorized(false)

		assert.Equal(t, 2.0, testutil.ToFloat64(m.issued))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.issueFailures))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.decisions.WithLabelValues("allow")))
		assert.Equal(t, 2.0, testutil.ToFloat64(m.decisions.WithLabelValues("deny")))
	})

	t.Run("instances are independent", func(t *testing.T) {
		first, second := New(), New()

		first.TokenIssued()

		assert.Equal(t, 0.0, testutil.ToFloat64(second.issued))
	})

	t.Run("handler exposes counters", func(t *testing.T) {
		m := New()
		m.TokenIssued()

		srv := httptest.NewServer(m.Handler())
		defer srv.Close()

		resp, err := http.Get(srv.URL)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		defer resp.Body.Close() //nolint:errcheck

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, string(body), "reqtoken_tokens_issued_total 1")
	})
}
