package listing

import "errors"

var (
	ErrNotFound   = errors.New("van listing not found")
	ErrForbidden  = errors.New("not the owner of this van listing")
	ErrEmptyPatch = errors.New("no fields to update")
)
