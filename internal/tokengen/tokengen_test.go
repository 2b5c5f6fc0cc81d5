package tokengen

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Run("url safe and 16 bytes", func(t *testing.T) {
		for range 200 {
			token, err := New()
			require.NoError(t, err)

			assert.Len(t, token, 22, "16 bytes encoded without padding must be 22 chars")
			assert.False(t, strings.ContainsAny(token, "+/="), "token must be url safe: %s", token)

			raw, err := Decode(token)
			require.NoError(t, err)
			assert.Len(t, raw, DefaultLength)
		}
	})

	t.Run("distinct tokens", func(t *testing.T) {
		seen := make(map[string]struct{}, 1000)
		for range 1000 {
			token, err := New()
			require.NoError(t, err)

			_, dup := seen[token]
			require.False(t, dup, "token generated twice: %s", token)
			seen[token] = struct{}{}
		}
	})

	t.Run("replaces unsafe base64 chars", func(t *testing.T) {
		// Standard alphabet encodes these bytes as "++++////"
		src := bytes.NewReader([]byte{0xfb, 0xef, 0xbe, 0xff, 0xff, 0xff})

		token, err := Generate(src, 6)

		require.NoError(t, err)
		assert.Equal(t, "----____", token)
	})

	t.Run("short reader fails", func(t *testing.T) {
		_, err := Generate(bytes.NewReader([]byte{1, 2, 3}), DefaultLength)

		require.Error(t, err)
	})

	t.Run("reader error is wrapped", func(t *testing.T) {
		boom := errors.New("entropy exhausted")

		_, err := Generate(iotest.ErrReader(boom), DefaultLength)

		require.ErrorIs(t, err, boom)
	})
}
