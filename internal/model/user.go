package model

import "time"

// User is the durable account record. PasswordDigest and RefreshToken are
// internal state and never serialized outward; API responses use the view
// structs in response.go.
type User struct {
	ID             string
	Name           string
	Email          string
	PasswordDigest string
	RefreshToken   *string
	CreatedAt      time.Time
}
