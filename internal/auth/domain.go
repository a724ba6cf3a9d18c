package auth

import (
	"errors"
	"time"
)

// User represents an authenticated user account.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FirstName    string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Token is a persisted bearer token record.
type Token struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired reports whether the token is past its expiry.
func (t Token) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// Login failure modes; the handler maps them to the response messages.
var (
	ErrWrongEmail    = errors.New("wrong user email")
	ErrWrongPassword = errors.New("wrong user password")
)
