package services

import "errors"

var (
	// ErrSellerNotFound is returned when a product names a seller that does
	// not exist in the seller database.
	ErrSellerNotFound = errors.New("seller not found")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password so callers cannot tell which one failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSellerInactive blocks logins for suspended sellers.
	ErrSellerInactive = errors.New("seller is inactive")

	// ErrSellerMismatch is returned when a request body names a seller other
	// than the caller's own.
	ErrSellerMismatch = errors.New("seller does not match token")
)
