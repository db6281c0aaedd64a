package ascentobs

import (
	"context"
)

// Client is a connection to one ascent-obs worker process.
//
// Fire-and-forget sends return once the command is queued. Correlated calls
// tag the command with an identifier and wait for the worker's notification
// carrying the same identifier; see SendAndWait for the typed form.
//
// Lifecycle: Clients are single-use. After Close(), create a new client with NewClient().
//
// Example usage:
//
//	client := ascentobs.NewClient()
//	defer client.Close()
//
//	if err := client.Start(ctx, ascentobs.WithLogger(slog.Default())); err != nil {
//	    log.Fatal(err)
//	}
//
//	err := client.RegisterCallback(ctx, ascentobs.EvtObsWarning, func(n *ascentobs.Notification) {
//	    log.Println("worker warning", string(n.Payload))
//	})
type Client interface {
	// Start launches the worker and the event loop.
	// Must be called before any other methods.
	// Returns InvalidPathError if the worker is not found, ProcessStartError
	// if it fails to launch.
	Start(ctx context.Context, opts ...Option) error

	// Send queues cmd with an optional identifier and payload. The payload
	// must encode to a JSON object; its members are written next to "cmd".
	Send(ctx context.Context, cmd int, id *int, payload any) error

	// SendSimple queues a command without payload.
	SendSimple(ctx context.Context, cmd int, id *int) error

	// Await sends cmd tagged with id and waits for the notification
	// described by spec. It returns the raw notification.
	Await(ctx context.Context, cmd int, id int, payload any, spec WaitSpec) (*Notification, error)

	// RegisterCallback invokes fn for every later notification of eventType.
	RegisterCallback(ctx context.Context, eventType int, fn Callback) error

	// NextIdentifier returns a fresh correlation identifier.
	NextIdentifier() int

	// IsReady reports whether the worker accepts commands.
	IsReady() bool

	// PID returns the worker process id, or 0 when unknown.
	PID() int

	// Err returns the error that stopped the event loop, if any.
	Err() error

	// Done is closed when the event loop stops.
	Done() <-chan struct{}

	// Close stops the event loop and shuts the worker down.
	// After Close(), the client cannot be reused. Safe to call multiple times.
	Close() error
}

// NewClient creates a new client.
//
// Call Start() with options to launch the worker:
//
//	client := NewClient()
//	err := client.Start(ctx,
//	    WithLogger(slog.Default()),
//	    WithWorkerPath("/opt/ascent/ascent-obs"),
//	)
func NewClient() Client {
	return newClientImpl()
}
