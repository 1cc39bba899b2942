package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumemailer/internal/domain"
)

// fakeHasher prefixes instead of hashing so tests can see through it.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// fakeIssuer returns a deterministic token.
type fakeIssuer struct {
	err error
}

func (f fakeIssuer) Issue(userID, email string, expiry time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-for-" + userID, nil
}

func TestAuthService_SignUp(t *testing.T) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, fakeHasher{}, fakeIssuer{}, time.Hour)

	user, err := svc.SignUp(context.Background(), "  Jane@Example.COM ", "s3cretpass", "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, "hashed:s3cretpass", user.PasswordHash)
	assert.NotEmpty(t, user.ID)
}

func TestAuthService_SignUpDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	users.err = domain.ErrDuplicateEmail
	svc := NewAuthService(users, fakeHasher{}, fakeIssuer{}, time.Hour)

	_, err := svc.SignUp(context.Background(), "jane@example.com", "s3cretpass", "Jane")
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestAuthService_LogIn(t *testing.T) {
	users := newFakeUserRepo(&domain.User{
		ID:           "u1",
		Email:        "jane@example.com",
		PasswordHash: "hashed:s3cretpass",
	})
	svc := NewAuthService(users, fakeHasher{}, fakeIssuer{}, time.Hour)

	t.Run("success", func(t *testing.T) {
		token, user, err := svc.LogIn(context.Background(), "Jane@Example.com", "s3cretpass")
		require.NoError(t, err)
		assert.Equal(t, "token-for-u1", token)
		assert.Equal(t, "u1", user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.LogIn(context.Background(), "jane@example.com", "wrong")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.LogIn(context.Background(), "nobody@example.com", "s3cretpass")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}
