package store

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidAtom = errors.New("invalid atom")
)
