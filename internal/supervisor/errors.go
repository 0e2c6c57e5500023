package supervisor

import "errors"

// Sentinel errors for the taxonomy in the error handling design: callers can check
// against these with errors.Is.
var (
	ErrAlreadyStarted   = errors.New("container already started")
	ErrUnknownContainer = errors.New("unknown container")
	ErrBeingRemoved     = errors.New("container is being removed")
	ErrDuplicatePid     = errors.New("duplicate pid recovered for two containers")
	ErrUnsupported      = errors.New("unsupported platform")
)
