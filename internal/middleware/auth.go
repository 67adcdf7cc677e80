package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/pkg/jwt"
)

// TokenValidator defines the interface for token validation
type TokenValidator interface {
	Validate(token string) (*jwt.Claims, error)
}

func unauthorized(w http.ResponseWriter, message string) {
	model.Fail[any](http.StatusUnauthorized, message, nil).WriteJSON(w, "")
}

func forbidden(w http.ResponseWriter, message string) {
	model.Fail[any](http.StatusForbidden, message, nil).WriteJSON(w, "")
}

// Auth returns a middleware that validates bearer tokens. Accounts sign in
// at the default tenant, so a valid token is accepted on every tenant; the
// tenant claim only records where it was issued.
func Auth(validator TokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token from Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				unauthorized(w, "invalid authorization header format")
				return
			}

			claims, err := validator.Validate(parts[1])
			if err != nil {
				switch {
				case errors.Is(err, jwt.ErrTokenExpired):
					unauthorized(w, "token expired")
				case errors.Is(err, jwt.ErrInvalidSignature):
					unauthorized(w, "invalid token signature")
				default:
					unauthorized(w, "invalid token")
				}
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, ClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests whose claims lack the admin role. It must
// run after Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaims(r.Context())
		if claims == nil {
			unauthorized(w, "authentication required")
			return
		}
		if !claims.IsAdmin() {
			forbidden(w, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClaimsKey is the context key for JWT claims
const ClaimsKey contextKey = "claims"

// GetUserID extracts the user ID from context
func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

// GetClaims extracts the JWT claims from context
func GetClaims(ctx context.Context) *jwt.Claims {
	if claims, ok := ctx.Value(ClaimsKey).(*jwt.Claims); ok {
		return claims
	}
	return nil
}
