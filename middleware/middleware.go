package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/manuelbmaa/management-system/logging"
	"github.com/manuelbmaa/management-system/utils"
)

type contextKey string

const claimsKey contextKey = "claims"

// JWTAuthMiddleware validates the bearer token and stores the verified
// claims in the request context. The role used for gating always comes
// from these claims, never from a client-supplied header.
func JWTAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			logging.Logger.Warnf("Event ID: JWT_AUTH_MISSING_HEADER, Description: Authorization header missing for request to %s %s", r.Method, r.URL.Path)
			http.Error(w, "Authorization header missing", http.StatusUnauthorized)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateToken(tokenStr)
		if err != nil {
			logging.Logger.Warnf("Event ID: JWT_AUTH_INVALID_TOKEN, Description: Invalid token provided for request to %s %s: %v", r.Method, r.URL.Path, err)
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

// ContextWithClaims returns a context carrying verified claims.
func ContextWithClaims(ctx context.Context, claims *utils.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the verified claims placed by JWTAuthMiddleware.
func ClaimsFromContext(ctx context.Context) (*utils.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*utils.Claims)
	return claims, ok
}

// RequireRole checks that the caller's verified role is one of allowedRoles.
func RequireRole(r *http.Request, allowedRoles ...string) error {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		return fmt.Errorf("role is missing in request context")
	}
	for _, role := range allowedRoles {
		if role == claims.Role {
			return nil
		}
	}
	return fmt.Errorf("access forbidden: user does not have the required role")
}
