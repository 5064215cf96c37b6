package backend

import (
	"errors"
	"fmt"
)

// ErrTransport matches every TransportError with errors.Is.
var ErrTransport = errors.New("backend request failed")

// TransportError covers every way a backend call can fail: the request could
// not be sent, the status was not 2xx, or the body was not a valid account.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: backend returned %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}
