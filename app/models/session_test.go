package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionIsExpired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		expired   bool
	}{
		{"future", now.Add(time.Hour), false},
		{"past", now.Add(-time.Hour), true},
		{"exactly now", now, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Session{ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.expired, s.IsExpired(now))
		})
	}
}

func TestSessionPermitsAccount(t *testing.T) {
	active := uint(7)
	sess := Session{
		ActiveAccountID: &active,
		Accounts:        []Account{{ID: 7}, {ID: 9}},
	}

	assert.True(t, sess.PermitsAccount(7))

	// member of the set but not the active account
	assert.False(t, sess.PermitsAccount(9))

	// not a member at all
	assert.False(t, sess.PermitsAccount(3))
}

func TestSessionPermitsAccountNoActive(t *testing.T) {
	sess := Session{Accounts: []Account{{ID: 7}}}

	assert.False(t, sess.PermitsAccount(7))
}

func TestSessionPermitsAccountStaleActiveClaim(t *testing.T) {
	// active pointer references an account no longer in the set
	active := uint(4)
	sess := Session{
		ActiveAccountID: &active,
		Accounts:        []Account{{ID: 7}},
	}

	assert.False(t, sess.PermitsAccount(4))
}

func TestSessionTTL(t *testing.T) {
	assert.Equal(t, 30*24*time.Hour, SessionTTL)
}
