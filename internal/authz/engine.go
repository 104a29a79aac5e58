// Package authz implements the company-scoped authorization model for
// managed accounts. Decisions are pure functions over small value
// snapshots: no I/O, no shared state, safe for concurrent use.
package authz

import "errors"

// ErrPurgePolicyUndefined signals that no purge policy has been decided.
// Irreversible deletes stay disabled until an integrator defines one.
var ErrPurgePolicyUndefined = errors.New("authz: purge policy undefined")

// Actor is the authenticated party requesting an operation. CompanyID
// is zero when the actor has no company affiliation, which is only
// meaningful for administrators.
type Actor struct {
	ID        int64
	Role      Role
	CompanyID int64
}

// Company is the tenant whose roster is being acted on.
type Company struct {
	ID int64
}

// Account is the managed account targeted by an update or delete.
type Account struct {
	ID        int64
	Role      Role
	CompanyID int64
}

// Decision is the two-valued outcome of an authorization check. Deny is
// a normal result, not an error; Reason is set only on denial.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// CanViewRoster decides whether the actor may list the company's
// managed accounts at all. Which role tag to list is the caller's
// concern.
func CanViewRoster(actor Actor, company Company) Decision {
	if actor.Role.IsAdministrator() {
		return allow()
	}
	return requireCompanyScope(actor, company)
}

// CanCreateAccount decides whether the actor may create an account
// inside the given company. There is no target: the account does not
// exist yet, and the caller stamps it with the company id and role.
func CanCreateAccount(actor Actor, company Company) Decision {
	if actor.Role.IsAdministrator() {
		return allow()
	}
	return requireCompanyScope(actor, company)
}

// CanUpdateAccount decides whether the actor may modify the target
// account. Beyond company scope it requires the target to actually
// belong to the company being acted on, so a target id resolved outside
// the company cannot ride on a matching company argument.
func CanUpdateAccount(actor Actor, company Company, target Account) Decision {
	if actor.Role.IsAdministrator() {
		return allow()
	}
	if d := requireCompanyScope(actor, company); !d.Allowed {
		return d
	}
	if target.CompanyID != company.ID {
		return deny("target account belongs to a different company")
	}
	return allow()
}

// CanDeleteAccount decides whether the actor may soft-delete the target
// account. Same three-way company match as CanUpdateAccount.
func CanDeleteAccount(actor Actor, company Company, target Account) Decision {
	if actor.Role.IsAdministrator() {
		return allow()
	}
	if d := requireCompanyScope(actor, company); !d.Allowed {
		return d
	}
	if target.CompanyID != company.ID {
		return deny("target account belongs to a different company")
	}
	return allow()
}

// CanPurgeAccount gates the irreversible purge of a soft-deleted
// account. The policy is deliberately undefined: callers always receive
// a denial paired with ErrPurgePolicyUndefined, which is distinct from
// an ordinary Deny and must be resolved before purging is enabled.
func CanPurgeAccount(actor Actor, company Company, target Account) (Decision, error) {
	return deny("purge policy undefined"), ErrPurgePolicyUndefined
}

// requireCompanyScope applies the non-override stage: the actor must
// hold the company-management role and belong to the company in
// question. The switch is exhaustive over the closed role set; anything
// unrecognized fails closed.
func requireCompanyScope(actor Actor, company Company) Decision {
	if company.ID <= 0 {
		return deny("company not identified")
	}
	switch actor.Role {
	case RoleAdministrator:
		// Unreachable behind the override guard, kept so the switch
		// stays exhaustive.
		return allow()
	case RoleCompanyOwner:
		if actor.CompanyID != company.ID {
			return deny("actor belongs to a different company")
		}
		return allow()
	case RoleCustomer, RoleGuide:
		return deny("role cannot manage company accounts")
	default:
		return deny("unrecognized role")
	}
}
