package auth

import (
	"time"

	"github.com/guidepost-hq/guidepost/internal/authz"
)

// User represents an authenticated account with its role and company
// affiliation resolved.
type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         authz.Role
	CompanyID    int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor converts the user into the engine's actor snapshot.
func (u *User) Actor() authz.Actor {
	return authz.Actor{ID: u.ID, Role: u.Role, CompanyID: u.CompanyID}
}
