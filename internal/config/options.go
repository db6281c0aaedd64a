package config

import (
	"log/slog"
	"time"
)

// Defaults applied when the corresponding Options field is unset.
const (
	DefaultBufferSize   = 128
	DefaultWritePacing  = time.Second
	DefaultPollInterval = 100 * time.Millisecond
	DefaultReplyGrace   = 200 * time.Millisecond
	DefaultPendingTTL   = 30 * time.Second

	DefaultRequestTimeout = 10 * time.Second
)

// Options configures the worker connection.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// WorkerPath is the explicit path to the ascent-obs executable.
	// If empty, the executable is searched in PATH and common locations.
	WorkerPath string

	// Channel is passed to the worker as --channel when non-empty.
	// Communication always happens over stdio regardless.
	Channel string

	// Env provides additional environment variables for the worker process.
	Env map[string]string

	// Cwd sets the working directory for the worker process.
	Cwd string

	// ExtraArgs provides arbitrary flags to pass to the worker.
	// If the value is nil, the flag is passed without a value (boolean flag).
	ExtraArgs map[string]*string

	// BufferSize is the capacity of both the outgoing command queue and the
	// incoming notification channel. Defaults to DefaultBufferSize.
	BufferSize int

	// WritePacing is the pause after each command written to the worker.
	// If nil, DefaultWritePacing is used. Zero disables pacing.
	WritePacing *time.Duration

	// PollInterval bounds how long the event loop blocks before sweeping
	// expired waiters. Defaults to DefaultPollInterval.
	PollInterval time.Duration

	// ReplyGrace is how long a caller waits beyond the request timeout for
	// the event loop to deliver a resolution. Defaults to DefaultReplyGrace.
	ReplyGrace time.Duration

	// PendingTTL is how long an unclaimed identified notification is kept
	// for a late-registering waiter. Defaults to DefaultPendingTTL.
	PendingTTL time.Duration

	// RequestTimeout bounds correlated recorder requests such as
	// QueryMachineInfo. Defaults to DefaultRequestTimeout.
	RequestTimeout time.Duration

	// Stderr is a callback invoked with each non-empty worker stderr line.
	Stderr func(string)

	// Transport allows injecting a custom transport implementation.
	// If nil, the default subprocess transport is created automatically.
	Transport Transport `json:"-"`
}

// EffectiveBufferSize returns BufferSize or its default.
func (o *Options) EffectiveBufferSize() int {
	if o.BufferSize <= 0 {
		return DefaultBufferSize
	}

	return o.BufferSize
}

// EffectiveWritePacing returns WritePacing or its default.
func (o *Options) EffectiveWritePacing() time.Duration {
	if o.WritePacing == nil {
		return DefaultWritePacing
	}

	if *o.WritePacing < 0 {
		return 0
	}

	return *o.WritePacing
}

// EffectivePollInterval returns PollInterval or its default.
func (o *Options) EffectivePollInterval() time.Duration {
	if o.PollInterval <= 0 {
		return DefaultPollInterval
	}

	return o.PollInterval
}

// EffectiveReplyGrace returns ReplyGrace or its default.
func (o *Options) EffectiveReplyGrace() time.Duration {
	if o.ReplyGrace <= 0 {
		return DefaultReplyGrace
	}

	return o.ReplyGrace
}

// EffectivePendingTTL returns PendingTTL or its default.
func (o *Options) EffectivePendingTTL() time.Duration {
	if o.PendingTTL <= 0 {
		return DefaultPendingTTL
	}

	return o.PendingTTL
}

// EffectiveRequestTimeout returns RequestTimeout or its default.
func (o *Options) EffectiveRequestTimeout() time.Duration {
	if o.RequestTimeout <= 0 {
		return DefaultRequestTimeout
	}

	return o.RequestTimeout
}
