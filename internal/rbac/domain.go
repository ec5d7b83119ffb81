package rbac

import (
	"fmt"
	"time"
)

// Action is a single CRUD action, identified by its one-letter code. The
// persisted permission string is a sequence of these codes; order and
// duplicates are irrelevant.
type Action byte

const (
	ActionCreate Action = 'C'
	ActionRead   Action = 'R'
	ActionUpdate Action = 'U'
	ActionDelete Action = 'D'
)

// String returns the one-letter code.
func (a Action) String() string {
	return string(rune(a))
}

func (a Action) bit() (uint8, bool) {
	switch a {
	case ActionCreate:
		return 1 << 0, true
	case ActionRead:
		return 1 << 1, true
	case ActionUpdate:
		return 1 << 2, true
	case ActionDelete:
		return 1 << 3, true
	}
	return 0, false
}

// ParseAction converts a one-letter code into an Action.
func ParseAction(s string) (Action, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("rbac: action must be a single character, got %q", s)
	}
	a := Action(s[0])
	if _, ok := a.bit(); !ok {
		return 0, fmt.Errorf("rbac: unknown action %q", s)
	}
	return a, nil
}

// ActionSet is the parsed form of a permission string.
type ActionSet uint8

// ParseActions parses a permission string into an ActionSet. Character order
// is irrelevant and duplicates are harmless.
func ParseActions(permissions string) (ActionSet, error) {
	var set ActionSet
	for i := 0; i < len(permissions); i++ {
		bit, ok := Action(permissions[i]).bit()
		if !ok {
			return 0, fmt.Errorf("rbac: unknown action %q in permission string %q", string(permissions[i]), permissions)
		}
		set |= ActionSet(bit)
	}
	return set, nil
}

// Has reports whether the set grants the action.
func (s ActionSet) Has(a Action) bool {
	bit, ok := a.bit()
	return ok && uint8(s)&bit != 0
}

// Resource names a protected capability, not a data row.
type Resource struct {
	ID   int64
	Name string
}

// Assignment grants a permission string to a user on a resource. At most one
// assignment exists per (user, resource); later grants replace earlier ones.
type Assignment struct {
	UserID      int64
	ResourceID  int64
	Permissions string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AssignmentRecord is the upsert result returned to callers.
type AssignmentRecord struct {
	UserEmail   string `json:"user"`
	Resource    string `json:"resource"`
	Permissions string `json:"permissions"`
}

// DenyReason classifies why a check denied.
type DenyReason string

const (
	// DenyResourceNotFound means the named resource does not exist, which is
	// distinct from a permission failure.
	DenyResourceNotFound DenyReason = "resource_not_found"
	// DenyMissingPermission means no assignment grants the action.
	DenyMissingPermission DenyReason = "missing_permission"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  DenyReason
	Action  Action
}

// Allow is the affirmative decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny builds a negative decision with the given reason.
func Deny(reason DenyReason, action Action) Decision {
	return Decision{Allowed: false, Reason: reason, Action: action}
}
