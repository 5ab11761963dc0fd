// Package middleware provides HTTP middleware for the code logger's metrics endpoint:
// request logging with a request ID and panic recovery. It logs through zerolog.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// requestIdContextKey is a custom type for context key to store request IDs.
type requestIdContextKey string

const (
	requestIdKey    = requestIdContextKey("requestId")
	RequestIDHeader = "X-Request-ID"
)

// RequestID returns the request ID stored by RequestLogger, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIdKey).(string)
	return id
}

// RequestLogger tags each request with an ID in its context, its logger and the
// response headers. Scrapes are frequent, so requests are logged at debug level.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()

		requestID := newRequestId()
		ctx = context.WithValue(ctx, requestIdKey, requestID)
		ctx = log.With().Str("request_id", requestID).Logger().WithContext(ctx)

		w.Header().Set(RequestIDHeader, requestID)

		log.Ctx(ctx).Debug().
			Str("requestMethod", r.Method).
			Str("requestPath", r.URL.Path).
			Str("remoteIP", r.RemoteAddr).
			Msg("incoming request")

		defer func() {
			log.Ctx(ctx).Debug().
				Str("duration", fmt.Sprintf("%dms", time.Since(start).Milliseconds())).
				Msg("request completed")
		}()

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PanicHandler recovers from a panic in next, logs it with the stack trace and
// answers 500 if nothing was written yet, so the daemon keeps logging codes.
func PanicHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &responseWriter{ResponseWriter: w}
		defer func() {
			if err := recover(); err != nil {
				logger(r.Context()).Error().
					Str("panic", fmt.Sprintf("%v", err)).
					Str("stack_trace", string(debug.Stack())).
					Msg("panic occurred")

				if !rw.Written() {
					http.Error(rw, "unable to process request", http.StatusInternalServerError)
				}
			}
		}()
		next.ServeHTTP(rw, r)
	})
}

// logger returns the request logger, or the global logger when none is attached.
func logger(ctx context.Context) *zerolog.Logger {
	l := log.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &log.Logger
	}
	return l
}

// responseWriter records whether headers or body have been sent.
type responseWriter struct {
	http.ResponseWriter
	written bool
}

func (w *responseWriter) WriteHeader(code int) {
	w.written = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.written = true
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) Written() bool {
	return w.written
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// newRequestId generates a time-ordered UUID, falling back to a timestamp-based
// ID if UUID generation fails.
func newRequestId() string {
	u, err := uuid.NewV7()
	if err == nil {
		return u.String()
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}
