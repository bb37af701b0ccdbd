package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
	}{
		{"student", RoleStudent},
		{"staff", RoleStaff},
		{"admin", RoleAdmin},
		{"  Admin  ", RoleAdmin},
		{"STUDENT", RoleStudent},
	}
	for _, tc := range cases {
		got, err := ParseRole(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got)
	}

	for _, bad := range []string{"", "superuser", "students"} {
		_, err := ParseRole(bad)
		assert.ErrorIs(t, err, ErrUnknownRole, "input %q", bad)
	}
}

func TestEIDPrefix(t *testing.T) {
	assert.Equal(t, "STU", RoleStudent.EIDPrefix())
	assert.Equal(t, "STF", RoleStaff.EIDPrefix())
	assert.Equal(t, "ADM", RoleAdmin.EIDPrefix())
	assert.Equal(t, "", Role("guest").EIDPrefix())
}

func TestBypassesPayment(t *testing.T) {
	assert.True(t, RoleAdmin.BypassesPayment())
	assert.False(t, RoleStudent.BypassesPayment())
	assert.False(t, RoleStaff.BypassesPayment())
}
