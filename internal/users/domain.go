package users

import (
	"strings"
	"time"
)

// RoleSuperadmin is the distinguished elevated role. All other role labels are
// free-form; the model recognises exactly these two tiers.
const RoleSuperadmin = "superadmin"

// User represents a registered account. Accounts are created inactive and
// activated only through the onboarding workflow.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsSuperadmin reports whether the user holds the elevated role. The
// comparison is case-insensitive.
func (u *User) IsSuperadmin() bool {
	return u != nil && strings.EqualFold(u.Role, RoleSuperadmin)
}

// NewUser carries the fields needed to insert an account.
type NewUser struct {
	Name         string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
}
