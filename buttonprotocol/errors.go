package buttonprotocol

import (
	"errors"
	"fmt"
)

// Sentinel errors for the button protocol.
var (
	// ErrLineTooLong indicates a line exceeded MaxLineLength and was dropped.
	ErrLineTooLong = errors.New("line too long")

	// ErrInvalidPort indicates a port outside 1-65535.
	ErrInvalidPort = errors.New("invalid port")

	// ErrEmptyHost indicates a connection target without a host.
	ErrEmptyHost = errors.New("empty host")
)

// ConnectionError represents a failure to establish the stream to a sensor
// endpoint. It is terminal for that connection attempt.
type ConnectionError struct {
	Address string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("connection to %s failed: %s: %v", e.Address, e.Message, e.Cause)
	}
	return fmt.Sprintf("connection to %s failed: %s", e.Address, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// NewConnectionError creates a new connection error.
func NewConnectionError(address, message string, cause error) error {
	return &ConnectionError{Address: address, Message: message, Cause: cause}
}
