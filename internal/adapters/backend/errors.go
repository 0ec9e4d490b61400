package backend

import (
	"errors"
	"fmt"
)

// NetworkError reports an unreachable backend or a non-2xx reply to a read.
type NetworkError struct {
	Resource string
	Op       string
	Status   int // 0 when no response was received
	Err      error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: backend returned status %d", e.Op, e.Resource, e.Status)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Resource, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError reports a rejected create or update. Message is the
// backend's plain-text body when it sent one.
type ValidationError struct {
	Resource string
	Status   int
	Message  string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports a non-2xx reply to a get-by-id. The backend does
// not distinguish a missing record from a transient failure.
type NotFoundError struct {
	Resource string
	ID       int64
	Status   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: no se encontró el registro con ID %d", e.Resource, e.ID)
}

// IsNetwork reports whether err is or wraps a NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ValidationMessage returns the backend message of a ValidationError in err.
func ValidationMessage(err error) (string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message, true
	}
	return "", false
}
