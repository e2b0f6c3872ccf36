package pool

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateOrInvalid indicates a registration with an empty or
	// already-used id, or a nil adapter.
	ErrDuplicateOrInvalid = errors.New("duplicate or invalid pool registration")

	// ErrUnknownPool indicates a selection referenced an unregistered pool id.
	ErrUnknownPool = errors.New("unknown pool")

	// ErrNoActivePool indicates stats were requested before any pool was selected.
	ErrNoActivePool = errors.New("no active pool selected")

	// ErrInvalidAddress indicates the wallet address failed the pool's format check.
	ErrInvalidAddress = errors.New("invalid wallet address format")

	// ErrPoolUnavailable indicates the pool could not serve a stats request:
	// transport failure, unexpected status, malformed payload or a
	// backend-reported error.
	ErrPoolUnavailable = errors.New("pool unavailable")
)

// UnavailableError describes why a pool request failed.
// It matches ErrPoolUnavailable with errors.Is and unwraps to the
// underlying transport or decode error when there is one.
type UnavailableError struct {
	Pool       string
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

func (e *UnavailableError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s unavailable (HTTP %d) at %s: %s", e.Pool, e.StatusCode, e.Endpoint, msg)
	}
	return fmt.Sprintf("%s unavailable at %s: %s", e.Pool, e.Endpoint, msg)
}

// Is reports ErrPoolUnavailable as a match.
func (e *UnavailableError) Is(target error) bool {
	return target == ErrPoolUnavailable
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// Unavailable builds an UnavailableError from a status or cause.
func Unavailable(pool, endpoint string, status int, msg string, err error) *UnavailableError {
	return &UnavailableError{
		Pool:       pool,
		Endpoint:   endpoint,
		StatusCode: status,
		Message:    msg,
		Err:        err,
	}
}

// IsUnavailable returns true if err is a pool availability failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrPoolUnavailable)
}

// IsSelectionError returns true if err came from pool selection or
// registration rather than from a backend.
func IsSelectionError(err error) bool {
	return errors.Is(err, ErrUnknownPool) ||
		errors.Is(err, ErrNoActivePool) ||
		errors.Is(err, ErrDuplicateOrInvalid)
}
