package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound   = errors.New("record not found")
	ErrRecordExists     = errors.New("record already exists")
	ErrInvalidKey       = errors.New("invalid record key")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrMalformedRecord  = errors.New("malformed record")
	ErrUnknownRole      = errors.New("unknown role")
)

type UnknownRoleError struct {
	Role string
}

func (e *UnknownRoleError) Error() string {
	return fmt.Sprintf("unknown role %q", e.Role)
}

func (e *UnknownRoleError) Unwrap() error {
	return ErrUnknownRole
}
