package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_IssueAndVerify(t *testing.T) {
	m := NewJWTManager("test-secret")

	token, err := m.Issue("u1", "jane@example.com", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestJWTManager_WrongSecretRejected(t *testing.T) {
	token, err := NewJWTManager("secret-a").Issue("u1", "jane@example.com", time.Hour)
	require.NoError(t, err)

	_, err = NewJWTManager("secret-b").Verify(token)
	assert.Error(t, err)
}

func TestJWTManager_ExpiredTokenRejected(t *testing.T) {
	m := NewJWTManager("test-secret")

	token, err := m.Issue("u1", "jane@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.Error(t, err)
}

func TestJWTManager_GarbageRejected(t *testing.T) {
	_, err := NewJWTManager("test-secret").Verify("not-a-token")
	assert.Error(t, err)
}
