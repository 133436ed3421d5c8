package telegram

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrValidation matches every *ValidationError.
	ErrValidation = errors.New("telegram: invalid argument")

	// ErrRemoteRejection matches every *RemoteError.
	ErrRemoteRejection = errors.New("telegram: request rejected")

	// ErrTransportFailure matches every *TransportError.
	ErrTransportFailure = errors.New("telegram: transport failure")
)

// ValidationError is returned before any remote call when caller supplied
// arguments break a local invariant.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("telegram: invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// RemoteError is returned when the Bot API accepted the call but answered
// with ok=false. Code and Description are passed through verbatim.
type RemoteError struct {
	Method          string
	Code            int
	Description     string
	RetryAfter      time.Duration
	MigrateToChatID int64
}

func (e *RemoteError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("telegram %s: %d %s (retry after %s)", e.Method, e.Code, e.Description, e.RetryAfter)
	}
	return fmt.Sprintf("telegram %s: %d %s", e.Method, e.Code, e.Description)
}

func (e *RemoteError) Is(target error) bool {
	return target == ErrRemoteRejection
}

// IsFlood reports whether the rejection came from flood control.
func (e *RemoteError) IsFlood() bool {
	return e.RetryAfter > 0
}

func newRemoteError(method string, resp *APIResponse) *RemoteError {
	e := &RemoteError{
		Method:      method,
		Code:        resp.ErrorCode,
		Description: resp.Description,
	}
	if p := resp.Parameters; p != nil {
		e.RetryAfter = time.Duration(p.RetryAfter) * time.Second
		e.MigrateToChatID = p.MigrateToChatID
	}
	return e
}

// TransportError is returned when a call could not complete: network
// failure, timeout, cancellation or a response that is not a Bot API envelope.
type TransportError struct {
	Method string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("telegram %s: transport: %v", e.Method, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransportFailure
}

// RetryAfter extracts the flood-control wait from err, if any.
func RetryAfter(err error) (time.Duration, bool) {
	var re *RemoteError
	if errors.As(err, &re) && re.RetryAfter > 0 {
		return re.RetryAfter, true
	}
	return 0, false
}
