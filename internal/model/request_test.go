package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateUserRequestValidate(t *testing.T) {
	t.Parallel()

	valid := CreateUserRequest{Name: "Ann", Email: "ann@example.com", Password: "Abcdef1!"}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name string
		req  CreateUserRequest
	}{
		{"name too short", CreateUserRequest{Name: "An", Email: "ann@example.com", Password: "Abcdef1!"}},
		{"name only spaces", CreateUserRequest{Name: "   ", Email: "ann@example.com", Password: "Abcdef1!"}},
		{"email without at", CreateUserRequest{Name: "Ann", Email: "ann.example.com", Password: "Abcdef1!"}},
		{"email without domain dot", CreateUserRequest{Name: "Ann", Email: "ann@example", Password: "Abcdef1!"}},
		{"password too short", CreateUserRequest{Name: "Ann", Email: "ann@example.com", Password: "Ab1!"}},
		{"password without uppercase", CreateUserRequest{Name: "Ann", Email: "ann@example.com", Password: "abcdef1!"}},
		{"password without digit", CreateUserRequest{Name: "Ann", Email: "ann@example.com", Password: "Abcdefg!"}},
		{"password without special", CreateUserRequest{Name: "Ann", Email: "ann@example.com", Password: "Abcdefg1"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Error(t, tc.req.Validate())
		})
	}
}

func TestLoginRequestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, LoginRequest{Email: "ann@example.com", Password: "Abcdef1!"}.Validate())
	require.Error(t, LoginRequest{Email: "", Password: "Abcdef1!"}.Validate())
	require.Error(t, LoginRequest{Email: "ann@example.com", Password: "  "}.Validate())
}
