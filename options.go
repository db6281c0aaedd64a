package ascentobs

import (
	"log/slog"
	"time"

	"github.com/judehek/ascent-obs/internal/config"
)

// Option configures Options using the functional options pattern.
type Option func(*Options)

// applyOptions applies functional options to a fresh Options struct.
func applyOptions(opts []Option) *Options {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// ===== Basic Configuration =====

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithWorkerPath sets the explicit path to the ascent-obs executable.
// If not set, ASCENT_OBS_PATH, PATH, and common install locations are searched.
func WithWorkerPath(path string) Option {
	return func(o *Options) {
		o.WorkerPath = path
	}
}

// WithChannel passes --channel id to the worker. Communication stays on
// stdio either way.
func WithChannel(id string) Option {
	return func(o *Options) {
		o.Channel = id
	}
}

// WithEnv provides additional environment variables for the worker.
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		o.Env = env
	}
}

// WithCwd sets the working directory for the worker process.
func WithCwd(cwd string) Option {
	return func(o *Options) {
		o.Cwd = cwd
	}
}

// WithExtraArgs passes arbitrary flags to the worker.
// A nil value is passed as a boolean flag.
func WithExtraArgs(args map[string]*string) Option {
	return func(o *Options) {
		o.ExtraArgs = args
	}
}

// ===== Queueing and Timing =====

// WithBufferSize sets the capacity of the outgoing command queue and the
// incoming notification channel.
func WithBufferSize(size int) Option {
	return func(o *Options) {
		o.BufferSize = size
	}
}

// WithWritePacing sets the pause after each command written to the worker.
// The worker expects roughly one second between commands; zero disables
// pacing.
func WithWritePacing(d time.Duration) Option {
	return func(o *Options) {
		o.WritePacing = &d
	}
}

// WithPollInterval sets how often the event loop sweeps expired waiters.
func WithPollInterval(d time.Duration) Option {
	return func(o *Options) {
		o.PollInterval = d
	}
}

// WithReplyGrace sets how long a correlated call waits past its timeout for
// the event loop to deliver a resolution.
func WithReplyGrace(d time.Duration) Option {
	return func(o *Options) {
		o.ReplyGrace = d
	}
}

// WithPendingTTL sets how long an unclaimed identified notification is kept
// for a late-registering waiter.
func WithPendingTTL(d time.Duration) Option {
	return func(o *Options) {
		o.PendingTTL = d
	}
}

// WithRequestTimeout sets the timeout Recorder uses for correlated requests.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.RequestTimeout = d
	}
}

// ===== Callbacks and Transport =====

// WithStderr sets a callback invoked with each non-empty worker stderr line.
func WithStderr(handler func(string)) Option {
	return func(o *Options) {
		o.Stderr = handler
	}
}

// WithTransport injects a custom transport implementation.
// The transport must implement the Transport interface.
func WithTransport(transport config.Transport) Option {
	return func(o *Options) {
		o.Transport = transport
	}
}

// WithOptions copies every field of base before later options apply. Use it
// to start from options loaded from a config file.
func WithOptions(base *Options) Option {
	return func(o *Options) {
		if base != nil {
			*o = *base
		}
	}
}
