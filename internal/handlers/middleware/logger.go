package middleware

import (
	"net/http"
	"time"

	"github.com/nkiryanov/reqtoken/internal/handlers/reqctx"
)

type logger interface {
	Info(msg string, args ...any)
}

// responseRecorder remembers status and body size written by the handler
type responseRecorder struct {
	http.ResponseWriter
	status int
	size   int
}

func (rec *responseRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *responseRecorder) Write(p []byte) (int, error) {
	n, err := rec.ResponseWriter.Write(p)
	rec.size += n
	return n, err
}

// Log every served request
// Request id is taken from context, so RequestIDMiddleware has to run first
func LoggerMiddleware(l logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			reqID, _ := reqctx.FromContext(r.Context())
			l.Info(
				"got HTTP request",
				"method", r.Method,
				"uri", r.RequestURI,
				"duration", time.Since(start),
				"status", rec.status,
				"size", rec.size,
				"requestId", reqID,
			)
		})
	}
}
