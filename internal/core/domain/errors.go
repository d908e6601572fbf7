package domain

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound reports that the order (or a sub-resource it references) does not exist remotely.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyProcessed reports that the order already carries a split marker tag.
	ErrAlreadyProcessed = errors.New("already processed")

	// ErrRemoteTransport wraps network and HTTP-level failures talking to the remote API.
	ErrRemoteTransport = errors.New("remote transport error")
)

// FieldError is a single validation failure returned by the remote API.
type FieldError struct {
	Field   []string
	Message string
}

// RemoteValidationError is returned when the remote API answered with a non-empty
// list of field errors. It aborts the pipeline.
type RemoteValidationError struct {
	Operation string
	Errors    []FieldError
}

func (e *RemoteValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Message)
	}
	return e.Operation + ": " + strings.Join(msgs, "; ")
}

// NewRemoteValidationError returns nil when errs is empty so call sites can return it directly.
func NewRemoteValidationError(operation string, errs []FieldError) error {
	if len(errs) == 0 {
		return nil
	}
	return &RemoteValidationError{Operation: operation, Errors: errs}
}
