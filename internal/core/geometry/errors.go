package geometry

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTriangle = errors.New("invalid triangle")
	ErrMalformedInput  = errors.New("malformed geometry input")
)

// GeometryError describes a failed triangle construction. Side names the
// offending edge, Other1 and Other2 are the lengths it was compared against.
type GeometryError struct {
	Op     string
	Side   string
	Length float64
	Other1 float64
	Other2 float64
	Reason string
	Err    error
}

func (e *GeometryError) Error() string {
	switch {
	case e.Side != "" && e.Err == ErrInvalidTriangle:
		return fmt.Sprintf("%s: %s: %s (%g) is too long for the other two sides (%g + %g)",
			e.Op, e.Err, e.Side, e.Length, e.Other1, e.Other2)
	case e.Side != "":
		return fmt.Sprintf("%s: %s: %s: %s", e.Op, e.Err, e.Side, e.Reason)
	case e.Reason != "":
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Err, e.Reason)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
}

func (e *GeometryError) Unwrap() error { return e.Err }
