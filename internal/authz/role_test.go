package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdministrator, ParseRole(1))
	assert.Equal(t, RoleCompanyOwner, ParseRole(2))
	assert.Equal(t, RoleCustomer, ParseRole(3))
	assert.Equal(t, RoleGuide, ParseRole(4))

	assert.Equal(t, RoleInvalid, ParseRole(0))
	assert.Equal(t, RoleInvalid, ParseRole(-1))
	assert.Equal(t, RoleInvalid, ParseRole(5))
}

func TestIsAdministrator(t *testing.T) {
	assert.True(t, RoleAdministrator.IsAdministrator())
	for _, r := range []Role{RoleCompanyOwner, RoleCustomer, RoleGuide, RoleInvalid} {
		assert.False(t, r.IsAdministrator(), r.String())
	}
}

func TestRoleNames(t *testing.T) {
	assert.Equal(t, "company owner", RoleCompanyOwner.String())
	assert.Equal(t, "Company Owner", RoleCompanyOwner.DisplayName())
	assert.Equal(t, "administrator", RoleAdministrator.String())
	assert.Equal(t, "Guide", RoleGuide.DisplayName())
	assert.Equal(t, "invalid", Role(77).String())
}
