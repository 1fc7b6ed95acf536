package params

import (
	"errors"
	"fmt"
)

var (
	ErrMissingGroup     = errors.New("missing parameter group")
	ErrInvalidValue     = errors.New("invalid parameter value")
	ErrUnknownParameter = errors.New("unknown parameter")
)

// ParameterError reports a problem with a parameter group or a single entry.
type ParameterError struct {
	Group  string
	Name   string
	Reason string
	Err    error
}

func (e *ParameterError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %s", e.Err, e.Group)
	}
	if e.Reason == "" {
		return fmt.Sprintf("%s: %s.%s", e.Err, e.Group, e.Name)
	}
	return fmt.Sprintf("%s: %s.%s: %s", e.Err, e.Group, e.Name, e.Reason)
}

func (e *ParameterError) Unwrap() error { return e.Err }
