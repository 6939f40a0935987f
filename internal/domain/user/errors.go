package user

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUserEmailExists       = errors.New("email already registered")
	ErrInvalidRole           = errors.New("invalid role")
	ErrUserAlreadyAssigned   = errors.New("user already belongs to a company")
	ErrUserNotInCompany      = errors.New("user is not a member of this company")
	ErrUserHasDependents     = errors.New("user is referenced by records that block deletion")
	ErrCannotRemoveLastAdmin = errors.New("cannot remove the last admin of a company")
)
