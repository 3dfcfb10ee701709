package model

import "time"

// LoginResponse is the body returned by login and refresh. The refresh token
// itself travels only in the HttpOnly cookie, never in the body.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
}

type UserResponse struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// ErrorResponse is the uniform error body for 4xx/5xx responses.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func NewLoginResponse(accessToken string, user User) LoginResponse {
	return LoginResponse{
		AccessToken: accessToken,
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
	}
}

func NewUserResponse(user User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
