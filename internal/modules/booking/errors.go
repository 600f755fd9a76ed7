package booking

import "errors"

var (
	ErrNotFound        = errors.New("booking not found")
	ErrListingNotFound = errors.New("van listing not found")
	ErrForbidden       = errors.New("not a party to this booking")
	ErrInvalidStatus   = errors.New("invalid booking status")
)
