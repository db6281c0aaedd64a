package ascentobs

import "github.com/judehek/ascent-obs/internal/errors"

// Re-export error types from internal package

// ObsError is the base interface for all ascent-obs errors.
type ObsError = errors.ObsError

// InvalidPathError indicates the worker executable could not be resolved.
type InvalidPathError = errors.InvalidPathError

// ProcessStartError indicates the worker process failed to launch.
type ProcessStartError = errors.ProcessStartError

// PipeError indicates a stdio pipe to the worker failed.
type PipeError = errors.PipeError

// SerializationError indicates a command could not be encoded.
type SerializationError = errors.SerializationError

// DeserializationError indicates worker output or a payload could not be decoded.
type DeserializationError = errors.DeserializationError

// EventManagerError indicates the correlation engine failed a request.
type EventManagerError = errors.EventManagerError

// TimeoutError indicates no matching notification arrived in time.
type TimeoutError = errors.TimeoutError

// ErrorEventError indicates the worker answered with an error event.
type ErrorEventError = errors.ErrorEventError

// UnexpectedEventTypeError indicates a decoder rejected the resolving notification.
type UnexpectedEventTypeError = errors.UnexpectedEventTypeError

// InvalidEventDataError indicates a notification lacked required data.
type InvalidEventDataError = errors.InvalidEventDataError

// ProcessError indicates the worker exited abnormally.
type ProcessError = errors.ProcessError

// Re-export sentinel errors from internal package.
var (
	// ErrCommandSend indicates the outgoing queue is closed.
	ErrCommandSend = errors.ErrCommandSend

	// ErrRequestTimeout matches every TimeoutError.
	ErrRequestTimeout = errors.ErrRequestTimeout

	// ErrManagerShutdown indicates the event manager stopped first.
	ErrManagerShutdown = errors.ErrManagerShutdown

	// ErrWaiterReplaced indicates a newer request reused the identifier.
	ErrWaiterReplaced = errors.ErrWaiterReplaced

	// ErrTransportClosed indicates the worker transport was already shut down.
	ErrTransportClosed = errors.ErrTransportClosed

	// ErrClientNotConnected indicates the client is not connected.
	ErrClientNotConnected = errors.ErrClientNotConnected

	// ErrClientAlreadyConnected indicates the client is already connected.
	ErrClientAlreadyConnected = errors.ErrClientAlreadyConnected

	// ErrClientClosed indicates the client has been closed and cannot be reused.
	ErrClientClosed = errors.ErrClientClosed

	// ErrAlreadyRecording indicates a capture with the identifier is active.
	ErrAlreadyRecording = errors.ErrAlreadyRecording

	// ErrNotRecording indicates no capture with the identifier is active.
	ErrNotRecording = errors.ErrNotRecording
)
