package reactive

import "errors"

var (
	ErrNotFound = errors.New("reactive not found")
	ErrInvalid  = errors.New("invalid reactive")
)
