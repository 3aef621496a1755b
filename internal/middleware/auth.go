package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// TokenVerifier checks a bearer token's signature and expiry.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (jwt.MapClaims, error)
}

// VersionChecker reports whether a token version is still current for an operator.
type VersionChecker interface {
	CheckTokenVersion(ctx context.Context, operatorID string, tokenVersion int) (bool, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	versions VersionChecker
	logr     *zap.Logger
}

type contextKey string

const (
	ContextOperatorIDKey contextKey = "operatorID"
	ContextAuthMethod    contextKey = "authMethod"
)

// NewAuthMiddleware creates a reusable JWT auth middleware instance
func NewAuthMiddleware(verifier TokenVerifier, versions VersionChecker, logr *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, versions: versions, logr: logr}
}

// JWTAuth validates the token and attaches operator info to request context
func (m *AuthMiddleware) JWTAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			http.Error(w, "invalid token format", http.StatusUnauthorized)
			return
		}

		claims, err := m.verifier.VerifyToken(tokenString)
		if err != nil {
			m.logr.Warn("token parse error", zap.Error(err))
			http.Error(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		operatorID, _ := claims["sub"].(string)
		authMethod, _ := claims["auth_method"].(string)
		tokenVersionFloat, _ := claims["ver"].(float64)

		valid, err := m.versions.CheckTokenVersion(r.Context(), operatorID, int(tokenVersionFloat))
		if err != nil {
			m.logr.Error("failed checking token version", zap.Error(err), zap.String("operator_id", operatorID))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if !valid {
			m.logr.Warn("token version invalid", zap.String("operator_id", operatorID))
			http.Error(w, "token revoked or invalid", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ContextOperatorIDKey, operatorID)
		ctx = context.WithValue(ctx, ContextAuthMethod, authMethod)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
