package services

import "errors"

// Domain errors. Handlers map these to HTTP statuses with errors.Is;
// anything else surfaces as a generic server error whose detail is only
// logged, never returned to the caller.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrForbidden          = errors.New("you are not a member of this project")
	ErrOwnerOnly          = errors.New("only the project owner can invite members")
	ErrNotFound           = errors.New("resource not found")
	ErrUserNotFound       = errors.New("user not found with this email")
	ErrAlreadyMember      = errors.New("user is already a member of this project")
)
