package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrRubricInUse        = errors.New("rubric still referenced")
	ErrBadSignature       = errors.New("bad signature")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user not active")
	ErrNotOwner           = errors.New("not the owner")
	ErrUnknownKind        = errors.New("unknown target kind")
)
