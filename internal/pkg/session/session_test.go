package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginURL(t *testing.T) {
	assert.Equal(t, "/login", LoginURL(""))
	assert.Equal(t, "/login?redirectTo=%2Fnotes", LoginURL("/notes"))
	assert.Equal(t, "/login?redirectTo=%2Fnotes%3Fpage%3D2", LoginURL("/notes?page=2"))
}

func TestClaimedAccountID(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  uint
	}{
		{"uint", uint(7), 7},
		{"int", int(7), 7},
		{"uint64", uint64(7), 7},
		{"int64", int64(7), 7},
		{"numeric string", "7", 7},
		{"garbage string", "abc", 0},
		{"nil", nil, 0},
		{"unsupported type", 3.14, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, claimedAccountID(tt.value))
		})
	}
}
