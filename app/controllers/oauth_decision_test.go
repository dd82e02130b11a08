package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notestackapp/notestack/app/models"
)

func TestDecideCallback(t *testing.T) {
	tests := []struct {
		name  string
		facts callbackFacts
		want  callbackAction
	}{
		{
			name:  "connection owned by caller",
			facts: callbackFacts{ConnectionAccountID: 1, CallerAccountID: 1},
			want:  actionAlreadyConnectedSelf,
		},
		{
			name:  "connection owned by someone else",
			facts: callbackFacts{ConnectionAccountID: 2, CallerAccountID: 1},
			want:  actionAlreadyConnectedOther,
		},
		{
			name:  "authenticated caller, fresh provider identity",
			facts: callbackFacts{CallerAccountID: 1},
			want:  actionLinkToCaller,
		},
		{
			name:  "known connection, anonymous caller",
			facts: callbackFacts{ConnectionAccountID: 2},
			want:  actionLogin,
		},
		{
			name:  "anonymous caller with matching email",
			facts: callbackFacts{EmailAccountID: 3},
			want:  actionLinkByEmail,
		},
		{
			name:  "brand new identity",
			facts: callbackFacts{},
			want:  actionOnboard,
		},
		{
			// branch order: an existing connection wins over an email match
			name:  "connection beats email match",
			facts: callbackFacts{ConnectionAccountID: 2, EmailAccountID: 3},
			want:  actionLogin,
		},
		{
			// an authenticated caller linking wins over an email match
			name:  "caller beats email match",
			facts: callbackFacts{CallerAccountID: 1, EmailAccountID: 3},
			want:  actionLinkToCaller,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decideCallback(tt.facts))
		})
	}
}

func TestDecideCallbackIdempotent(t *testing.T) {
	// repeated callbacks with an existing connection never reach a
	// mutating branch
	facts := callbackFacts{ConnectionAccountID: 1, CallerAccountID: 1}
	for i := 0; i < 3; i++ {
		assert.Equal(t, actionAlreadyConnectedSelf, decideCallback(facts))
	}
}

func TestClassifyLink(t *testing.T) {
	tests := []struct {
		name   string
		linked *models.Connection
		want   linkResult
	}{
		{
			name:   "fresh link for the intended account",
			linked: &models.Connection{AccountID: 1},
			want:   linkCreated,
		},
		{
			// a concurrent callback inserted first; the re-read returns
			// the winner's row, not a binding to the intended account
			name:   "race lost to another account",
			linked: &models.Connection{AccountID: 2},
			want:   linkRacedOther,
		},
		{
			// duplicate row deleted between the failed insert and the
			// re-read
			name:   "row gone after duplicate",
			linked: nil,
			want:   linkVanished,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyLink(tt.linked, 1))
		})
	}
}

func TestDecideLogin(t *testing.T) {
	tests := []struct {
		name       string
		accountID  uint
		has2FA     bool
		redirectTo string
		want       loginOutcome
	}{
		{
			name:       "no verification issues the session",
			accountID:  42,
			redirectTo: "/notes",
			want:       loginOutcome{},
		},
		{
			name:       "active verification defers to the challenge",
			accountID:  42,
			has2FA:     true,
			redirectTo: "/notes?page=2",
			want: loginOutcome{
				Deferred:  true,
				Challenge: "/verify?type=2fa&target=42&redirectTo=%2Fnotes%3Fpage%3D2",
			},
		},
		{
			name:       "challenge without a redirect target",
			accountID:  7,
			has2FA:     true,
			redirectTo: "",
			want: loginOutcome{
				Deferred:  true,
				Challenge: "/verify?type=2fa&target=7",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decideLogin(tt.accountID, tt.has2FA, tt.redirectTo))
		})
	}
}

func TestDeriveUsername(t *testing.T) {
	tests := []struct {
		name     string
		nickname string
		email    string
		want     string
	}{
		{"nickname preferred", "Alice42", "other@example.com", "alice42"},
		{"email local part fallback", "", "Bob.Smith@Example.com", "bob.smith"},
		{"invalid runes replaced", "al ice!", "", "al_ice_"},
		{"empty input", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveUsername(tt.nickname, tt.email))
		})
	}
}
