package physics

import "errors"

var (
	ErrInvalidShape = errors.New("invalid shape")
	ErrNilBody      = errors.New("body is nil")
)
