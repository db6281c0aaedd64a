package ascentobs

import (
	"context"

	"github.com/judehek/ascent-obs/internal/client"
)

// clientWrapper wraps the internal client to adapt it to the public interface.
type clientWrapper struct {
	impl *client.Client
}

// Compile-time check that *clientWrapper implements the Client interface.
var _ Client = (*clientWrapper)(nil)

// newClientImpl creates the internal client implementation.
func newClientImpl() Client {
	return &clientWrapper{impl: client.New()}
}

// Start launches the worker and the event loop.
func (c *clientWrapper) Start(ctx context.Context, opts ...Option) error {
	return c.impl.Start(ctx, applyOptions(opts))
}

// Send queues a command.
func (c *clientWrapper) Send(ctx context.Context, cmd int, id *int, payload any) error {
	return c.impl.Send(ctx, cmd, id, payload)
}

// SendSimple queues a command without payload.
func (c *clientWrapper) SendSimple(ctx context.Context, cmd int, id *int) error {
	return c.impl.SendSimple(ctx, cmd, id)
}

// Await sends a command and waits for its correlated notification.
func (c *clientWrapper) Await(
	ctx context.Context,
	cmd int,
	id int,
	payload any,
	spec WaitSpec,
) (*Notification, error) {
	return c.impl.Await(ctx, cmd, id, payload, spec)
}

// RegisterCallback registers an event callback.
func (c *clientWrapper) RegisterCallback(ctx context.Context, eventType int, fn Callback) error {
	return c.impl.RegisterCallback(ctx, eventType, fn)
}

// NextIdentifier returns a fresh correlation identifier.
func (c *clientWrapper) NextIdentifier() int {
	return c.impl.NextIdentifier()
}

// IsReady reports whether the worker accepts commands.
func (c *clientWrapper) IsReady() bool {
	return c.impl.IsReady()
}

// PID returns the worker process id.
func (c *clientWrapper) PID() int {
	return c.impl.PID()
}

// Err returns the error that stopped the event loop.
func (c *clientWrapper) Err() error {
	return c.impl.Err()
}

// Done is closed when the event loop stops.
func (c *clientWrapper) Done() <-chan struct{} {
	return c.impl.Done()
}

// Close stops the client.
func (c *clientWrapper) Close() error {
	return c.impl.Close()
}
