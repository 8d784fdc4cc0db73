package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"threadboard/internal/result"
)

type Middleware func(http.Handler) http.Handler

type contextKey string

const (
	emailKey     contextKey = "email"
	requestIDKey contextKey = "requestID"
)

const RequestIDHeader = "X-Request-ID"

// TokenValidator resolves a bearer token to the principal email.
type TokenValidator interface {
	ValidateToken(tokenString string) (string, error)
}

// WithPrincipal stores the authenticated email in ctx.
func WithPrincipal(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailKey, email)
}

// Principal returns the authenticated email, or "" for anonymous requests.
func Principal(ctx context.Context) string {
	email, _ := ctx.Value(emailKey).(string)
	return email
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func writeError(w http.ResponseWriter, status result.Status, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status.HTTPStatus())
	_ = json.NewEncoder(w).Encode(result.Error[result.Void](status, message))
}

// AuthMiddleware reads an optional "Authorization: Bearer <token>" header.
// Requests without one pass through anonymously; a malformed or invalid
// token is rejected with 401.
func AuthMiddleware(tokens TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeError(w, result.StatusUnauthorized, "Invalid token format")
				return
			}

			email, err := tokens.ValidateToken(parts[1])
			if err != nil {
				writeError(w, result.StatusUnauthorized, "Invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), email)))
		})
	}
}

// RequestIDMiddleware keeps an incoming X-Request-ID or generates one.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start),
				"request_id", RequestID(r.Context()),
			)
		})
	}
}

// RecoverMiddleware turns a panic into a 500 envelope.
func RecoverMiddleware(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if p := recover(); p != nil {
					logger.Error("panic while serving request",
						"panic", p,
						"path", r.URL.Path,
						"request_id", RequestID(r.Context()),
					)
					writeError(w, result.StatusInternal, "Internal Server Error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// Chain wraps h so that the first middleware is the innermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}
