package accounts

import (
	"time"

	"github.com/guidepost-hq/guidepost/internal/authz"
)

// Account is a managed account belonging to exactly one company. The
// company id is stamped at creation and never reassigned.
type Account struct {
	ID           int64
	CompanyID    int64
	Role         authz.Role
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// Target converts the account into the engine's target snapshot.
func (a Account) Target() authz.Account {
	return authz.Account{ID: a.ID, Role: a.Role, CompanyID: a.CompanyID}
}

// NewAccount carries validated input for account creation. The role and
// company are not part of it: both are stamped by the service from the
// route, never taken from the request body.
type NewAccount struct {
	Name     string
	Email    string
	Password string
}

// AccountUpdate carries validated input for account updates.
type AccountUpdate struct {
	Name  string
	Email string
}
