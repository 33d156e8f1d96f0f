package game

import "errors"

var (
	// ErrNotFound is returned when an action references an unknown challenge.
	// The state is left unchanged.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyStarted is returned by Load once another action was applied.
	ErrAlreadyStarted = errors.New("state already started")
	// ErrUnknownAction is returned for actions the reducer does not handle.
	ErrUnknownAction = errors.New("unknown action")
)
