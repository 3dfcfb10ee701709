package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"go-auth-service/internal/middleware"
	"go-auth-service/internal/model"
	"go-auth-service/internal/service"
	"go-auth-service/pkg/apierror"
)

type AuthHandler struct {
	sessions     *service.SessionService
	refreshTTL   time.Duration
	secureCookie bool
}

func NewAuthHandler(sessions *service.SessionService, refreshTTL time.Duration, secureCookie bool) *AuthHandler {
	return &AuthHandler{sessions: sessions, refreshTTL: refreshTTL, secureCookie: secureCookie}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}
	if err := payload.Validate(); err != nil {
		writeError(w, err)
		return
	}

	session, err := h.sessions.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setRefreshCookie(w, session.RefreshToken)
	writeJSON(w, http.StatusOK, model.NewLoginResponse(session.AccessToken, session.User))
}

// Refresh runs behind the refresh-cookie guard, which has already verified
// the cookie's signature and put its claims on the context.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.RefreshClaimsFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrRefreshCookieMissing)
		return
	}

	session, err := h.sessions.Refresh(r.Context(), claims.Subject)
	if err != nil {
		writeError(w, err)
		return
	}

	h.setRefreshCookie(w, session.RefreshToken)
	writeJSON(w, http.StatusOK, model.NewLoginResponse(session.AccessToken, session.User))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.AccessClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("UNAUTHORIZED", "authentication required", "", http.StatusUnauthorized))
		return
	}

	if err := h.sessions.Logout(r.Context(), claims.Subject); err != nil {
		writeError(w, err)
		return
	}

	h.clearRefreshCookie(w)
	w.WriteHeader(http.StatusOK)
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.RefreshCookieName,
		Value:    refreshToken,
		Path:     "/auth/refresh-token",
		MaxAge:   int(h.refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.RefreshCookieName,
		Value:    "",
		Path:     "/auth/refresh-token",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
}
