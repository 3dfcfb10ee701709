package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-auth-service/internal/model"
	"go-auth-service/internal/token"
	"go-auth-service/pkg/apierror"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := model.ErrorResponse{
		Code:    "INTERNAL_ERROR",
		Message: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	case errors.Is(err, model.ErrUserNotFound):
		// Distinguishing this from a wrong password leaks which check failed;
		// kept to match the existing contract.
		status = http.StatusBadRequest
		body.Code = "USER_NOT_FOUND"
		body.Message = "user with this email does not exist"
	case errors.Is(err, model.ErrInvalidCredentials):
		status = http.StatusBadRequest
		body.Code = "INVALID_CREDENTIALS"
		body.Message = "wrong password"
	case errors.Is(err, model.ErrEmailAlreadyRegistered):
		status = http.StatusBadRequest
		body.Code = "EMAIL_ALREADY_REGISTERED"
		body.Message = "user with this email already exists"
	case errors.Is(err, model.ErrNoActiveSession):
		status = http.StatusUnauthorized
		body.Code = "NO_ACTIVE_SESSION"
		body.Message = "user refresh token not found"
	case errors.Is(err, model.ErrRefreshCookieMissing):
		status = http.StatusUnauthorized
		body.Code = "REFRESH_COOKIE_MISSING"
		body.Message = "no refresh token found"
	case errors.Is(err, token.ErrExpired):
		status = http.StatusUnauthorized
		body.Code = "TOKEN_EXPIRED"
		body.Message = "token expired"
	case errors.Is(err, token.ErrSignatureInvalid), errors.Is(err, token.ErrMalformed):
		status = http.StatusUnauthorized
		body.Code = "TOKEN_INVALID"
		body.Message = "invalid token"
	case errors.Is(err, model.ErrInvalidInput):
		status = http.StatusBadRequest
		body.Code = "BAD_REQUEST"
		body.Message = "invalid input"
	default:
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	writeJSON(w, status, body)
}
