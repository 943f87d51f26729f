package account

import "errors"

var (
	// ErrEmailExists indicates a duplicate email address.
	ErrEmailExists = errors.New("email already exists")
	// ErrPhoneExists indicates a duplicate phone number.
	ErrPhoneExists = errors.New("phone already exists")
)
