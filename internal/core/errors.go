package core

import (
	"errors"
)

// Reasons a submission is rejected locally. A rejected submission sends
// nothing and leaves the conversation untouched.
var (
	ErrEmptyMessage          = errors.New("message is empty")
	ErrBusy                  = errors.New("a request is already in flight")
	ErrNoPendingConfirmation = errors.New("no confirmation is pending")
	ErrRegenerateNotOffered  = errors.New("regenerate is not offered for this confirmation")
	ErrSkipNotOffered        = errors.New("skip preview is not offered for this confirmation")
)

// ValidationError marks a rejected submission, as opposed to a backend failure.
type ValidationError struct {
	Reason error
}

func (e *ValidationError) Error() string {
	return "rejected: " + e.Reason.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

func reject(reason error) error {
	return &ValidationError{Reason: reason}
}

// IsRejected reports whether err is a local rejection.
func IsRejected(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
