package interception

import (
	"errors"
	"fmt"
)

// ErrAlreadyStarted is returned by Start when the session is already
// listening. This is a programming error in the calling test code, never
// retried.
var ErrAlreadyStarted = errors.New("interception session already started")

// ErrNotListening is returned when a mutation such as Override is attempted
// on a stopped session.
var ErrNotListening = errors.New("interception session is not listening")

// UnmatchedRequestError is raised under PolicyError when no handler matched
// an intercepted request. It carries the method and path so the failing
// test can report exactly which call was unmocked.
type UnmatchedRequestError struct {
	Method string
	Path   string
}

func (e *UnmatchedRequestError) Error() string {
	return fmt.Sprintf("no mock handler matched %s %s", e.Method, e.Path)
}
