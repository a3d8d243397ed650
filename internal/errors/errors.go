package errors

import (
	"errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyInUse  = errors.New("email already in use")
	ErrUserNotFound       = errors.New("user not found")
	ErrSelfFollow         = errors.New("users cannot follow themselves")
	ErrAlreadyFollowing   = errors.New("already following this user")
	ErrNotFollowing       = errors.New("not following this user")
	ErrInvalidPayload     = errors.New("invalid event payload")
)
