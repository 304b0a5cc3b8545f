package domain

import (
	"errors"
	"fmt"
)

// RetriableError defines an interface for errors that can be retried
type RetriableError interface {
	error
	IsRetriable() bool
}

// IsRetriable checks if an error is retriable
func IsRetriable(err error) bool {
	var re RetriableError
	if errors.As(err, &re) {
		return re.IsRetriable()
	}
	return false
}

// NetworkError represents a transport failure on the game connection.
// The terminal never reconnects on its own, so these are never retriable.
type NetworkError struct {
	Op  string // Operation that failed (e.g., "dial", "read", "write")
	Err error  // Underlying error
}

func (e *NetworkError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *NetworkError) IsRetriable() bool {
	return false
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new network error
func NewNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err}
}

// ValidationError is a local rejection of a user action. Nothing is sent to the server.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) IsRetriable() bool {
	return false
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation error for the given field
func NewValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

// ProtocolError represents an inbound frame that could not be decoded or handled.
type ProtocolError struct {
	Frame []byte
	Err   error
}

func (e *ProtocolError) Error() string {
	const maxShown = 128
	frame := e.Frame
	if len(frame) > maxShown {
		frame = frame[:maxShown]
	}
	return fmt.Sprintf("protocol error: %v (frame=%q)", e.Err, frame)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// Rejection is a server-authoritative refusal (ORDER_REJECT reason or ERROR code).
// The reason is surfaced verbatim and never retried.
type Rejection struct {
	Reason string
}

func (e *Rejection) Error() string {
	return "rejected by server: " + e.Reason
}

func (e *Rejection) IsRetriable() bool {
	return false
}

// ConfigError represents a configuration error (never retriable)
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) IsRetriable() bool {
	return false
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

var (
	// ErrNotConnected is returned when an action needs an open connection.
	ErrNotConnected = errors.New("not connected")

	// ErrInvalidQuantity is returned when an order quantity is not a positive integer.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")

	// ErrInvalidSide is returned when an order side is neither BUY nor SELL.
	ErrInvalidSide = errors.New("side must be BUY or SELL")

	// ErrMissingInviteCode is returned when joining without a lobby id.
	ErrMissingInviteCode = errors.New("missing invite code")

	// ErrStartNotAllowed is returned when the local player may not start the game.
	ErrStartNotAllowed = errors.New("only the host can start a game that is still in the lobby")

	// ErrUnknownSymbol is returned when a symbol is not in the configured set.
	ErrUnknownSymbol = errors.New("unknown symbol")
)
