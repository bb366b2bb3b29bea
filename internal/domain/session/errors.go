package session

import "errors"

var (
	ErrNoToken           = errors.New("authentication failed: no token received")
	ErrNotSignedIn       = errors.New("authentication token missing, please sign in again")
	ErrNotCandidate      = errors.New("selection is not one of the available candidates")
	ErrNoPendingChoice   = errors.New("no pending selection for this session")
	ErrInvalidTransition = errors.New("invalid session state transition")
)
