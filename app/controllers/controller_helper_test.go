package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeRedirectTarget(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"empty falls back", "", "/"},
		{"relative path kept", "/notes/7", "/notes/7"},
		{"path with query kept", "/notes?page=2", "/notes?page=2"},
		{"absolute URL rejected", "https://evil.example.com", "/"},
		{"protocol-relative rejected", "//evil.example.com", "/"},
		{"no leading slash rejected", "notes", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, safeRedirectTarget(tt.target, "/"))
		})
	}
}

func TestWithQuery(t *testing.T) {
	assert.Equal(t, "/verify?type=2fa", withQuery("/verify", "type", "2fa"))
	assert.Equal(t, "/verify?type=2fa&target=7", withQuery("/verify?type=2fa", "target", "7"))
	assert.Equal(t, "/verify", withQuery("/verify", "type", ""))
	assert.Equal(t, "/login?redirectTo=%2Fnotes%3Fpage%3D2", withQuery("/login", "redirectTo", "/notes?page=2"))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", firstNonEmpty("", "a", "b"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}
