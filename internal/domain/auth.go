package domain

import (
	"context"
	"time"
)

// TokenIssuer signs an auth token for a user.
type TokenIssuer interface {
	Issue(userID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier validates a token and returns the user ID it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// AuthService handles signup and login for the HTTP layer.
type AuthService interface {
	SignUp(ctx context.Context, email, password, name string) (*User, error)
	LogIn(ctx context.Context, email, password string) (string, *User, error)
}
