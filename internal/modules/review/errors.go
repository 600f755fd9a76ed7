package review

import "errors"

var ErrListingNotFound = errors.New("van listing not found")
