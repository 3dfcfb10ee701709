package model

import (
	"net/http"
	"strings"
	"unicode"

	"go-auth-service/pkg/apierror"
)

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r CreateUserRequest) Validate() error {
	if len(strings.TrimSpace(r.Name)) < 3 {
		return apierror.New("BAD_REQUEST", "name must be at least 3 characters long", "name", http.StatusBadRequest)
	}
	if !validEmail(r.Email) {
		return apierror.New("BAD_REQUEST", "email must be a valid email address", "email", http.StatusBadRequest)
	}
	if !validPassword(r.Password) {
		return apierror.New("BAD_REQUEST",
			"password must be at least 8 characters long and contain an uppercase letter, a lowercase letter, a number and a special character",
			"password", http.StatusBadRequest)
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	if !validEmail(r.Email) {
		return apierror.New("BAD_REQUEST", "email must be a valid email address", "email", http.StatusBadRequest)
	}
	if strings.TrimSpace(r.Password) == "" {
		return apierror.New("BAD_REQUEST", "password is required", "password", http.StatusBadRequest)
	}
	return nil
}

func validEmail(email string) bool {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	if strings.Contains(domain, "@") || !strings.Contains(domain, ".") {
		return false
	}
	return !strings.ContainsAny(email, " \t")
}

// validPassword enforces the sign-up policy: minimum 8 characters with at
// least one lowercase letter, one uppercase letter, one digit and one
// special character.
func validPassword(password string) bool {
	if len(password) < 8 {
		return false
	}

	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}

	return lower && upper && digit && special
}
