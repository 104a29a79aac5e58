package authz

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Role classifies an account. The set is closed: policy code switches
// exhaustively over these values, so adding a role forces every policy
// to be revisited.
type Role int64

const (
	// RoleInvalid is the zero value; it never grants anything.
	RoleInvalid Role = 0
	// RoleAdministrator bypasses all company scoping.
	RoleAdministrator Role = 1
	// RoleCompanyOwner manages accounts belonging to their own company.
	RoleCompanyOwner Role = 2
	// RoleCustomer is the non-privileged default.
	RoleCustomer Role = 3
	// RoleGuide is a managed account role with no administrative rights.
	RoleGuide Role = 4
)

// ParseRole maps a stored role id to a Role. Unknown ids map to
// RoleInvalid so downstream policy checks fail closed.
func ParseRole(id int64) Role {
	switch Role(id) {
	case RoleAdministrator, RoleCompanyOwner, RoleCustomer, RoleGuide:
		return Role(id)
	default:
		return RoleInvalid
	}
}

// IsAdministrator reports whether the role carries the global override.
func (r Role) IsAdministrator() bool {
	return r == RoleAdministrator
}

// String returns the canonical role name as seeded in the roles table.
func (r Role) String() string {
	switch r {
	case RoleAdministrator:
		return "administrator"
	case RoleCompanyOwner:
		return "company owner"
	case RoleCustomer:
		return "customer"
	case RoleGuide:
		return "guide"
	default:
		return "invalid"
	}
}

var titleCaser = cases.Title(language.English)

// DisplayName returns the role name formatted for API responses.
func (r Role) DisplayName() string {
	return titleCaser.String(r.String())
}
