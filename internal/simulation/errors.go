package simulation

import "errors"

var (
	ErrNoWorld       = errors.New("simulation world not created")
	ErrRunnerStopped = errors.New("frame runner stopped")
)
