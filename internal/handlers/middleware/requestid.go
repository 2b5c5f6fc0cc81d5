package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/nkiryanov/reqtoken/internal/handlers/reqctx"
)

const RequestIDHeader = "X-Request-Id"

// Reuse request id from the client or generate a new one
// The id is echoed back in the response header and stored in the request context
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(reqctx.New(r.Context(), id)))
	})
}
