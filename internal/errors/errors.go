package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ObsError is the base interface for all ascent-obs errors.
type ObsError interface {
	error
	IsObsError() bool
}

// Compile-time verification that all error types implement ObsError.
var (
	_ ObsError = (*InvalidPathError)(nil)
	_ ObsError = (*ProcessStartError)(nil)
	_ ObsError = (*PipeError)(nil)
	_ ObsError = (*SerializationError)(nil)
	_ ObsError = (*DeserializationError)(nil)
	_ ObsError = (*EventManagerError)(nil)
	_ ObsError = (*TimeoutError)(nil)
	_ ObsError = (*ErrorEventError)(nil)
	_ ObsError = (*UnexpectedEventTypeError)(nil)
	_ ObsError = (*InvalidEventDataError)(nil)
	_ ObsError = (*ProcessError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrCommandSend indicates the outgoing queue is closed or the writer has stopped.
	ErrCommandSend = errors.New("command send failed: outgoing channel closed")

	// ErrRequestTimeout indicates a correlated request was not answered in time.
	ErrRequestTimeout = errors.New("request timeout")

	// ErrManagerShutdown indicates the event manager stopped before the request resolved.
	ErrManagerShutdown = errors.New("manager shutdown")

	// ErrWaiterReplaced indicates a waiter was superseded by a newer registration
	// for the same identifier.
	ErrWaiterReplaced = errors.New("waiter replaced by newer registration")

	// ErrTransportClosed indicates the worker transport was already shut down.
	ErrTransportClosed = errors.New("transport closed")

	// ErrClientNotConnected indicates the client is not connected.
	ErrClientNotConnected = errors.New("client not connected")

	// ErrClientAlreadyConnected indicates the client is already connected.
	ErrClientAlreadyConnected = errors.New("client already connected")

	// ErrClientClosed indicates the client has been closed and cannot be reused.
	ErrClientClosed = errors.New("client closed: clients are single-use, create a new one")

	// ErrAlreadyRecording indicates a capture with the same identifier is active.
	ErrAlreadyRecording = errors.New("recording already active")

	// ErrNotRecording indicates no capture with the identifier is active.
	ErrNotRecording = errors.New("recording not active")
)

// InvalidPathError indicates the worker executable could not be resolved.
type InvalidPathError struct {
	Path          string
	SearchedPaths []string
}

func (e *InvalidPathError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("invalid worker path: %s", e.Path)
	}

	return fmt.Sprintf("ascent-obs executable not found in: %v", e.SearchedPaths)
}

// IsObsError implements ObsError.
func (e *InvalidPathError) IsObsError() bool { return true }

// ProcessStartError indicates the worker process failed to launch.
type ProcessStartError struct {
	Path string
	Err  error
}

func (e *ProcessStartError) Error() string {
	return fmt.Sprintf("failed to start worker %s: %v", e.Path, e.Err)
}

func (e *ProcessStartError) Unwrap() error {
	return e.Err
}

// IsObsError implements ObsError.
func (e *ProcessStartError) IsObsError() bool { return true }

// PipeError indicates a stdio pipe to the worker failed. Op names the
// operation: "stdin", "stdout", "stderr" while acquiring, or "read",
// "write", "flush" while running.
type PipeError struct {
	Op  string
	Err error
}

func (e *PipeError) Error() string {
	return fmt.Sprintf("pipe %s failed: %v", e.Op, e.Err)
}

func (e *PipeError) Unwrap() error {
	return e.Err
}

// IsObsError implements ObsError.
func (e *PipeError) IsObsError() bool { return true }

// SerializationError indicates an outgoing command could not be encoded.
type SerializationError struct {
	Cmd int
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("failed to serialize command %d: %v", e.Cmd, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// IsObsError implements ObsError.
func (e *SerializationError) IsObsError() bool { return true }

// DeserializationError indicates incoming worker output could not be decoded.
// RawData carries the offending bytes (possibly truncated) when known.
type DeserializationError struct {
	RawData string
	Offset  int64
	Err     error
}

func (e *DeserializationError) Error() string {
	if e.RawData != "" {
		return fmt.Sprintf("failed to decode worker output at offset %d: %v (data: %q)",
			e.Offset, e.Err, e.RawData)
	}

	return fmt.Sprintf("failed to decode worker output: %v", e.Err)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}

// IsObsError implements ObsError.
func (e *DeserializationError) IsObsError() bool { return true }

// EventManagerError indicates the correlation engine failed a request.
type EventManagerError struct {
	Reason string
	Err    error
}

func (e *EventManagerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("event manager: %s: %v", e.Reason, e.Err)
	}

	return "event manager: " + e.Reason
}

func (e *EventManagerError) Unwrap() error {
	return e.Err
}

// IsObsError implements ObsError.
func (e *EventManagerError) IsObsError() bool { return true }

// TimeoutError indicates no matching notification arrived before the deadline.
type TimeoutError struct {
	Identifier int
	Expected   int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out waiting for event %d (identifier %d)", e.Expected, e.Identifier)
}

// Is reports ErrRequestTimeout as a match.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrRequestTimeout
}

// IsObsError implements ObsError.
func (e *TimeoutError) IsObsError() bool { return true }

// ErrorEventError indicates the worker answered a request with an event type
// the caller declared as an error.
type ErrorEventError struct {
	Identifier int
	EventType  int
	Payload    []byte
}

func (e *ErrorEventError) Error() string {
	return fmt.Sprintf("received error event type: %d (identifier %d)", e.EventType, e.Identifier)
}

// IsObsError implements ObsError.
func (e *ErrorEventError) IsObsError() bool { return true }

// UnexpectedEventTypeError indicates a decoder rejected the resolving notification.
type UnexpectedEventTypeError struct {
	Expected int
	Received int
}

func (e *UnexpectedEventTypeError) Error() string {
	return fmt.Sprintf("unexpected event type: expected %d, received %d", e.Expected, e.Received)
}

// IsObsError implements ObsError.
func (e *UnexpectedEventTypeError) IsObsError() bool { return true }

// InvalidEventDataError indicates a notification lacked data the caller required.
type InvalidEventDataError struct {
	EventType int
	Reason    string
}

func (e *InvalidEventDataError) Error() string {
	return fmt.Sprintf("invalid data for event %d: %s", e.EventType, e.Reason)
}

// IsObsError implements ObsError.
func (e *InvalidEventDataError) IsObsError() bool { return true }

// ProcessError indicates the worker exited abnormally. ExitCode is -1 when
// the process was terminated by a signal.
type ProcessError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("worker process failed (exit %d): %v", e.ExitCode, e.Err)
	}

	return fmt.Sprintf("worker process failed (exit %d): %s", e.ExitCode, strings.TrimSpace(e.Stderr))
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// IsObsError implements ObsError.
func (e *ProcessError) IsObsError() bool { return true }
