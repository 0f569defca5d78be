package emby

import (
	"errors"
	"fmt"
)

// ErrNoSession is wrapped when the server lists no active session for the token.
var ErrNoSession = errors.New("no active session")

// APIError describes a failed call against the media server.
type APIError struct {
	Op     string
	Status int
	Body   string
	Err    error
}

func (e *APIError) Error() string {
	switch {
	case e.Err != nil && e.Status != 0:
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Body != "":
		return fmt.Sprintf("%s: request failed, %d: %s", e.Op, e.Status, e.Body)
	default:
		return fmt.Sprintf("%s: request failed, %d", e.Op, e.Status)
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}
