package http

import (
	"context"
	"net/http"
	"strings"

	"cabanas-backend/internal/logger"
	"cabanas-backend/internal/security"
)

type contextKey string

const staffClaimsKey contextKey = "staff-claims"

// AuthMiddleware guards staff-only routes with a Bearer JWT.
type AuthMiddleware struct {
	tokenManager security.TokenManager
}

func NewAuthMiddleware(tm security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm}
}

// RequireStaff validates the token and injects the claims into the request
// context for handlers that need to know who acted.
func (m *AuthMiddleware) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "authorization token is not provided")
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := m.tokenManager.ValidateToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		ctx := context.WithValue(r.Context(), staffClaimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// StaffFromContext returns the claims injected by RequireStaff, or nil on a
// public route.
func StaffFromContext(ctx context.Context) *security.StaffClaims {
	claims, ok := ctx.Value(staffClaimsKey).(*security.StaffClaims)
	if !ok {
		return nil
	}
	return claims
}

// LoggingMiddleware logs every request at debug level.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		next.ServeHTTP(w, r)
	})
}
