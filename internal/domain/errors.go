package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a caller-side precondition violation, such as
	// submitting an incomplete attempt.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidState marks a broken structural invariant in quiz content.
	ErrInvalidState = errors.New("invalid quiz state")
	// ErrNoQuiz is returned when a view is queried before any quiz was loaded.
	ErrNoQuiz = errors.New("no quiz loaded")
	// ErrStaleResponse is returned when a completed request was superseded or
	// its target was closed before the response arrived.
	ErrStaleResponse = errors.New("stale response discarded")
	// ErrSessionNotFound is returned when a shell session does not exist.
	ErrSessionNotFound = errors.New("session not found")
)

// Messages shown when a remote operation fails without a usable detail.
const (
	MsgGenerateFailed = "Failed to generate quiz"
	MsgHistoryFailed  = "Failed to fetch quiz history"
	MsgDetailFailed   = "Failed to fetch quiz details"
)

// RemoteError is a non-success response or transport failure from the remote
// quiz service. Message is safe to show to the user.
type RemoteError struct {
	Status  int
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("remote error (%d)", e.Status)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// NewRemoteError builds a RemoteError.
func NewRemoteError(status int, message string, err error) *RemoteError {
	return &RemoteError{Status: status, Message: message, Err: err}
}

// UserMessage extracts the human-readable message from err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote.Error()
	}
	return err.Error()
}

func invalidState(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}
