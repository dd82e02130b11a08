package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notestackapp/notestack/app/models"
)

func TestParsePermission(t *testing.T) {
	tests := []struct {
		name    string
		perm    string
		want    PermissionRequirement
		wantErr bool
	}{
		{
			name: "action and entity only",
			perm: "read:note",
			want: PermissionRequirement{Action: "read", Entity: "note"},
		},
		{
			name: "single access",
			perm: "update:note:own",
			want: PermissionRequirement{Action: "update", Entity: "note", Access: []string{"own"}},
		},
		{
			name: "multiple access values",
			perm: "delete:note:own,any",
			want: PermissionRequirement{Action: "delete", Entity: "note", Access: []string{"own", "any"}},
		},
		{
			name: "wildcard access collapses to none",
			perm: "read:note:*",
			want: PermissionRequirement{Action: "read", Entity: "note"},
		},
		{name: "empty", perm: "", wantErr: true},
		{name: "missing entity", perm: "read:", wantErr: true},
		{name: "missing action", perm: ":note", wantErr: true},
		{name: "too many segments", perm: "a:b:c:d", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePermission(tt.perm)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPermissionRequirementMatches(t *testing.T) {
	stored := models.Permission{Action: "update", Entity: "note", Access: "own"}

	tests := []struct {
		name string
		req  PermissionRequirement
		want bool
	}{
		{
			name: "exact match",
			req:  PermissionRequirement{Action: "update", Entity: "note", Access: []string{"own"}},
			want: true,
		},
		{
			name: "access in requested set",
			req:  PermissionRequirement{Action: "update", Entity: "note", Access: []string{"own", "any"}},
			want: true,
		},
		{
			name: "no access constraint matches any stored level",
			req:  PermissionRequirement{Action: "update", Entity: "note"},
			want: true,
		},
		{
			name: "access not in requested set",
			req:  PermissionRequirement{Action: "update", Entity: "note", Access: []string{"any"}},
			want: false,
		},
		{
			name: "different action",
			req:  PermissionRequirement{Action: "delete", Entity: "note", Access: []string{"own"}},
			want: false,
		},
		{
			name: "different entity",
			req:  PermissionRequirement{Action: "update", Entity: "user", Access: []string{"own"}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.req.Matches(stored))
		})
	}
}

func TestPermissionRequirementString(t *testing.T) {
	req := PermissionRequirement{Action: "delete", Entity: "note", Access: []string{"own", "any"}}
	assert.Equal(t, "delete:note:own,any", req.String())

	req = PermissionRequirement{Action: "read", Entity: "note"}
	assert.Equal(t, "read:note", req.String())
}
