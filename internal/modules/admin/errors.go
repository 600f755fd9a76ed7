package admin

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrSelfAction           = errors.New("admins cannot delete or demote themselves")
	ErrMigrationUnavailable = errors.New("no migration source configured")
)
