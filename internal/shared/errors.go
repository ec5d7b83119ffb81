package shared

import "errors"

var (
	// ErrInvalidCredentials indicates login failure. Unknown email and wrong
	// password map to the same error so responses carry no enumeration signal.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountNotApproved indicates valid credentials on a pending account.
	ErrAccountNotApproved = errors.New("account not approved")
	// ErrInvalidToken indicates a malformed, expired or badly signed token.
	ErrInvalidToken = errors.New("invalid token")
	// ErrIdentityNotFound indicates a valid token whose subject no longer exists.
	ErrIdentityNotFound = errors.New("identity not found")
	// ErrNotFound indicates a referenced entity is absent.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail indicates signup against an already registered email.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrForbidden indicates a role or approval secret mismatch.
	ErrForbidden = errors.New("forbidden")
)
