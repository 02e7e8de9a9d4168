package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
	}{
		{"admin", RoleAdmin},
		{"Admin", RoleAdmin},
		{"SuperAdmin", RoleSuperAdmin},
		{"superadmin", RoleSuperAdmin},
		{"sales", RoleStandard},
		{"user", RoleStandard},
	}
	for _, tc := range cases {
		got, err := ParseRole(tc.in)
		assert.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := ParseRole("  ")
	assert.Error(t, err)
}

func TestIsPrivileged(t *testing.T) {
	assert.True(t, IsPrivileged(RoleAdmin))
	assert.True(t, IsPrivileged(RoleSuperAdmin))
	assert.False(t, IsPrivileged(RoleStandard))
	assert.True(t, Requester{ID: 1, Role: RoleSuperAdmin}.IsPrivileged())
	assert.Equal(t, "SuperAdmin", RoleSuperAdmin.String())
}
