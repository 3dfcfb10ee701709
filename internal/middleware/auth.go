package middleware

import (
	"context"
	"net/http"
	"strings"

	"go-auth-service/internal/model"
	"go-auth-service/internal/token"
)

// RefreshCookieName is the cookie carrying the refresh token. It is scoped
// to the refresh endpoint path so it never rides along on other requests.
const RefreshCookieName = "refresh_token"

type tokenVerifier interface {
	VerifyAccess(tokenString string) (*token.Claims, error)
	VerifyRefresh(tokenString string) (*token.Claims, error)
}

type contextKey string

const (
	accessClaimsContextKey  contextKey = "access_claims"
	refreshClaimsContextKey contextKey = "refresh_claims"
)

type AuthMiddleware struct {
	verifier tokenVerifier
}

func NewAuthMiddleware(verifier tokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAccessToken guards routes behind a valid bearer access token.
func (m *AuthMiddleware) RequireAccessToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			writeUnauthorized(w, "UNAUTHORIZED", "missing or invalid authorization header")
			return
		}

		claims, err := m.verifier.VerifyAccess(strings.TrimSpace(header[7:]))
		if err != nil {
			writeUnauthorized(w, "UNAUTHORIZED", "invalid or expired access token")
			return
		}

		ctx := context.WithValue(r.Context(), accessClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRefreshCookie guards the refresh endpoint. It verifies the cookie's
// signature and expiry only; whether the user still has an active session is
// decided by the session service afterwards.
func (m *AuthMiddleware) RequireRefreshCookie(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(RefreshCookieName)
		if err != nil || strings.TrimSpace(cookie.Value) == "" {
			writeUnauthorized(w, "REFRESH_COOKIE_MISSING", "no refresh token found")
			return
		}

		claims, err := m.verifier.VerifyRefresh(cookie.Value)
		if err != nil {
			writeUnauthorized(w, "UNAUTHORIZED", "invalid or expired refresh token")
			return
		}

		ctx := context.WithValue(r.Context(), refreshClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func AccessClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(accessClaimsContextKey).(*token.Claims)
	return claims, ok
}

func RefreshClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(refreshClaimsContextKey).(*token.Claims)
	return claims, ok
}

func writeUnauthorized(w http.ResponseWriter, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = jsonEncode(w, model.ErrorResponse{Code: code, Message: message})
}
