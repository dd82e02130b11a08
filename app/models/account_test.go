package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
	assert.False(t, CheckPasswordHash("", hash))
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("secret123")
	require.NoError(t, err)
	h2, err := HashPassword("secret123")
	require.NoError(t, err)

	// same plaintext, different salts
	assert.NotEqual(t, h1, h2)
}

func TestCheckPasswordHashInvalidHash(t *testing.T) {
	assert.False(t, CheckPasswordHash("secret123", "not-a-bcrypt-hash"))
}

func TestNewAccountNormalizes(t *testing.T) {
	a, err := NewAccount("  Alice@Example.COM ", " ALICE ")
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", a.Email)
	assert.Equal(t, "alice", a.Username)
}

func TestNewAccountValidation(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		username string
	}{
		{"empty email", "", "alice"},
		{"invalid email", "not-an-email", "alice"},
		{"empty username", "alice@example.com", ""},
		{"short username", "alice@example.com", "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAccount(tt.email, tt.username)
			assert.Error(t, err)
		})
	}
}
