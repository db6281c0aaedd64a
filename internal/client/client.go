package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/judehek/ascent-obs/internal/config"
	"github.com/judehek/ascent-obs/internal/errors"
	"github.com/judehek/ascent-obs/internal/message"
	"github.com/judehek/ascent-obs/internal/protocol"
	"github.com/judehek/ascent-obs/internal/subprocess"
)

// WaitSpec describes the notification a correlated call waits for.
type WaitSpec struct {
	// Expected is the event type that resolves the call successfully.
	Expected int
	// ErrorTypes are event types that resolve the call with an ErrorEventError.
	ErrorTypes []int
	// Timeout bounds how long the event manager keeps the waiter.
	Timeout time.Duration
}

// Client is a connection to one ascent-obs worker.
type Client struct {
	log       *slog.Logger
	sessionID string
	options   *config.Options
	transport config.Transport
	manager   *protocol.EventManager

	// Errgroup for the manager watch goroutine
	eg *errgroup.Group

	// Lifecycle management
	mu        sync.Mutex
	done      chan struct{}
	connected bool
	closed    bool
	nextID    int
	closeOnce sync.Once
	closeErr  error
}

// New creates a new client. Call Start to launch the worker.
func New() *Client {
	return &Client{
		sessionID: ulid.Make().String(),
		done:      make(chan struct{}),
	}
}

// SessionID returns the unique identifier attached to this client's logs.
func (c *Client) SessionID() string {
	return c.sessionID
}

// Start launches the worker transport and the event manager.
//
// Returns InvalidPathError if the worker cannot be located,
// ProcessStartError if it fails to launch, ErrClientAlreadyConnected when
// called twice, or ErrClientClosed after Close.
func (c *Client) Start(ctx context.Context, options *config.Options) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errors.ErrClientClosed
	}

	if c.connected {
		return errors.ErrClientAlreadyConnected
	}

	if options == nil {
		options = &config.Options{}
	}

	log := options.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c.log = log.With("component", "client", "session_id", c.sessionID)
	c.options = options

	var transport config.Transport

	if options.Transport != nil {
		transport = options.Transport

		c.log.Debug("Using injected custom transport")
	} else {
		transport = subprocess.NewSupervisor(c.log, options)
	}

	if err := transport.Start(ctx); err != nil {
		return fmt.Errorf("start transport: %w", err)
	}

	c.transport = transport
	c.manager = protocol.NewEventManager(c.log, transport.Notifications(), options)

	c.eg = new(errgroup.Group)
	c.eg.Go(c.watchManager)

	c.connected = true
	c.log.Info("Client started successfully")

	return nil
}

// watchManager logs the cause when the event manager stops on its own.
func (c *Client) watchManager() error {
	select {
	case <-c.done:
		return nil
	case <-c.manager.Done():
	}

	if err := c.manager.Err(); err != nil {
		c.log.Error("Event manager stopped", "error", err)
	}

	return nil
}

// Err returns the error that stopped the event manager, if any. Correlated
// calls fail once it is set; fire-and-forget sends may still succeed.
func (c *Client) Err() error {
	c.mu.Lock()
	manager := c.manager
	c.mu.Unlock()

	if manager == nil {
		return nil
	}

	return manager.Err()
}

// closedChan is returned by Done before Start.
var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)

	return ch
}()

// Done is closed when the event manager stops, whether the worker exited or
// Close was called. Before Start it returns a closed channel.
func (c *Client) Done() <-chan struct{} {
	c.mu.Lock()
	manager := c.manager
	c.mu.Unlock()

	if manager == nil {
		return closedChan
	}

	return manager.Done()
}

// NextIdentifier returns a fresh correlation identifier, unique for the
// lifetime of this client. The counter starts at 1 and shares the id space
// with identifiers callers pick themselves; callers mixing both must skip
// ids they already hold.
func (c *Client) NextIdentifier() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++

	return c.nextID
}

// PID returns the worker process id when the transport exposes one.
func (c *Client) PID() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.transport.(interface{ PID() int }); ok {
		return p.PID()
	}

	return 0
}

// IsReady reports whether the worker accepts commands.
func (c *Client) IsReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.connected && c.transport.IsReady()
}

func (c *Client) active() (config.Transport, *protocol.EventManager, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, nil, errors.ErrClientClosed
	}

	if !c.connected {
		return nil, nil, errors.ErrClientNotConnected
	}

	return c.transport, c.manager, nil
}

// Send encodes cmd with an optional identifier and payload and queues it
// for the worker. A nil error means the command was queued, not that the
// worker processed it.
func (c *Client) Send(ctx context.Context, cmd int, id *int, payload any) error {
	transport, _, err := c.active()
	if err != nil {
		return err
	}

	line, err := message.EncodeCommand(cmd, id, payload)
	if err != nil {
		return err
	}

	if err := transport.Send(ctx, line); err != nil {
		c.log.Debug("Failed to queue command", "cmd", cmd, "error", err)

		return err
	}

	c.log.Debug("Command queued", "cmd", cmd)

	return nil
}

// SendSimple sends a command that carries no payload.
func (c *Client) SendSimple(ctx context.Context, cmd int, id *int) error {
	return c.Send(ctx, cmd, id, nil)
}

// Await sends cmd tagged with id and blocks until the event manager resolves
// the matching notification, the wait times out, or ctx is done.
//
// The local wait allows ReplyGrace beyond spec.Timeout so the manager's own
// timeout normally wins and the caller sees a TimeoutError from it.
func (c *Client) Await(
	ctx context.Context,
	cmd int,
	id int,
	payload any,
	spec WaitSpec,
) (*message.Notification, error) {
	_, manager, err := c.active()
	if err != nil {
		return nil, err
	}

	if err := c.Send(ctx, cmd, &id, payload); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(spec.Timeout)

	reply, err := manager.RegisterWaiter(ctx, id, spec.Expected, spec.ErrorTypes, deadline)
	if err != nil {
		return nil, err
	}

	c.log.Debug("Waiting for response",
		"identifier", id,
		"expected", spec.Expected,
		"expected_name", message.EventName(spec.Expected),
		"timeout", spec.Timeout,
	)

	timer := time.NewTimer(spec.Timeout + c.options.EffectiveReplyGrace())
	defer timer.Stop()

	select {
	case r := <-reply:
		if r.Err != nil {
			c.log.Debug("Request failed", "identifier", id, "error", r.Err)

			return nil, r.Err
		}

		return r.Notification, nil
	case <-timer.C:
		c.log.Warn("Timed out waiting for reply slot", "identifier", id)

		return nil, &errors.TimeoutError{Identifier: id, Expected: spec.Expected}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RegisterCallback invokes fn for every later notification of eventType.
// Callbacks run on the event loop and must not block.
func (c *Client) RegisterCallback(ctx context.Context, eventType int, fn protocol.Callback) error {
	_, manager, err := c.active()
	if err != nil {
		return err
	}

	return manager.RegisterCallback(ctx, eventType, fn)
}

// Close stops the event manager and shuts the worker down.
//
// After Close, the client cannot be reused - create a new client with New().
// This method is safe to call multiple times.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		wasConnected := c.connected
		c.connected = false
		c.mu.Unlock()

		if !wasConnected {
			return
		}

		c.log.Info("Closing client")

		close(c.done)

		c.manager.Stop()
		c.closeErr = c.transport.Shutdown()

		if err := c.eg.Wait(); err != nil && c.closeErr == nil {
			c.closeErr = err
		}

		c.log.Info("Client closed")
	})

	return c.closeErr
}
