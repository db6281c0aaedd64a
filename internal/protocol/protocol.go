package protocol

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/judehek/ascent-obs/internal/config"
	"github.com/judehek/ascent-obs/internal/errors"
	"github.com/judehek/ascent-obs/internal/message"
)

// controlBufferSize bounds queued control requests.
const controlBufferSize = 32

// Callback observes every notification of the event type it was registered
// for. Callbacks run on the event loop and must not block.
type Callback func(*message.Notification)

// Result is the single resolution delivered to a waiter.
type Result struct {
	Notification *message.Notification
	Err          error
}

// waiter is an in-flight request for one identifier.
type waiter struct {
	id         int
	expected   int
	errorTypes []int
	deadline   time.Time
	reply      chan Result
}

func (w *waiter) matches(event int) bool {
	return event == w.expected || slices.Contains(w.errorTypes, event)
}

// pendingEvent is a notification that arrived before its waiter.
type pendingEvent struct {
	notification *message.Notification
	received     time.Time
}

// controlRequest is a message into the event loop. Exactly one of waiter
// and callback is set. applied is closed once the loop has processed it.
type controlRequest struct {
	waiter    *waiter
	eventType int
	callback  Callback
	applied   chan struct{}
}

// EventManager matches notifications to waiters and broadcasts them to
// callbacks.
//
// The waiter, pending, and callback tables are owned by the event loop
// goroutine; every mutation arrives as a control request, so no lock guards
// them.
type EventManager struct {
	log           *slog.Logger
	notifications <-chan message.Incoming
	pollInterval  time.Duration
	pendingTTL    time.Duration

	control chan controlRequest

	// Loop-owned state.
	waiters   map[int]*waiter
	pending   map[int][]pendingEvent
	callbacks map[int][]Callback

	errMu    sync.RWMutex
	fatalErr error

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewEventManager creates an EventManager reading from notifications and
// starts its event loop.
func NewEventManager(log *slog.Logger, notifications <-chan message.Incoming, options *config.Options) *EventManager {
	m := &EventManager{
		log:           log.With("component", "event_manager"),
		notifications: notifications,
		pollInterval:  options.EffectivePollInterval(),
		pendingTTL:    options.EffectivePendingTTL(),
		control:       make(chan controlRequest, controlBufferSize),
		waiters:       make(map[int]*waiter, 8),
		pending:       make(map[int][]pendingEvent, 8),
		callbacks:     make(map[int][]Callback, 8),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
	}

	go m.run()

	return m
}

// RegisterWaiter registers interest in the notification for id whose event
// type is expected. A notification whose type is in errorTypes resolves the
// waiter with an ErrorEventError instead; other types for id are ignored.
//
// The returned channel receives exactly one Result: the match, an error
// event, a TimeoutError once deadline passes, or a shutdown error. A waiter
// already registered for id is replaced and resolved with ErrWaiterReplaced.
//
// RegisterWaiter returns once the event loop has applied the registration,
// so any notification read afterwards is matched against it. ctx bounds only
// the registration itself.
func (m *EventManager) RegisterWaiter(
	ctx context.Context,
	id int,
	expected int,
	errorTypes []int,
	deadline time.Time,
) (<-chan Result, error) {
	w := &waiter{
		id:         id,
		expected:   expected,
		errorTypes: slices.Clone(errorTypes),
		deadline:   deadline,
		reply:      make(chan Result, 1),
	}

	if err := m.submit(ctx, controlRequest{waiter: w}); err != nil {
		return nil, err
	}

	return w.reply, nil
}

// RegisterCallback registers fn for every subsequent notification of
// eventType. Callbacks for one type fire in registration order and live until
// the manager stops.
func (m *EventManager) RegisterCallback(ctx context.Context, eventType int, fn Callback) error {
	if fn == nil {
		return fmt.Errorf("register callback for event %d: nil callback", eventType)
	}

	return m.submit(ctx, controlRequest{eventType: eventType, callback: fn})
}

func (m *EventManager) submit(ctx context.Context, req controlRequest) error {
	select {
	case <-m.done:
		return m.shutdownError()
	default:
	}

	req.applied = make(chan struct{})

	select {
	case m.control <- req:
	case <-m.done:
		return m.shutdownError()
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-req.applied:
		return nil
	case <-m.done:
		// The loop may have applied the request just before exiting; the
		// shutdown cascade resolved the waiter in that case.
		select {
		case <-req.applied:
			return nil
		default:
			return m.shutdownError()
		}
	}
}

// Stop shuts the event loop down and waits for it to exit. Every outstanding
// waiter is resolved with a shutdown error. Stop is safe to call more than
// once.
func (m *EventManager) Stop() {
	m.stopOnce.Do(func() {
		m.log.Debug("Stopping event manager")
		close(m.stop)
	})

	<-m.done
}

// Done returns a channel that is closed when the event loop exits.
func (m *EventManager) Done() <-chan struct{} {
	return m.done
}

// Err returns the error that ended the event loop, or nil after a clean stop.
func (m *EventManager) Err() error {
	m.errMu.RLock()
	defer m.errMu.RUnlock()

	return m.fatalErr
}

func (m *EventManager) setFatalError(err error) {
	m.errMu.Lock()
	defer m.errMu.Unlock()

	if m.fatalErr == nil {
		m.fatalErr = err
	}
}

// shutdownError is returned to requests made after the loop stopped and
// delivered to waiters still outstanding when it does.
func (m *EventManager) shutdownError() error {
	if cause := m.Err(); cause != nil {
		return &errors.EventManagerError{
			Reason: "manager shutdown",
			Err:    fmt.Errorf("%w: %w", errors.ErrManagerShutdown, cause),
		}
	}

	return &errors.EventManagerError{Reason: "manager shutdown", Err: errors.ErrManagerShutdown}
}

func (m *EventManager) run() {
	defer close(m.done)

	m.log.Debug("Event loop started", "poll_interval", m.pollInterval)

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		m.drainControl()

		select {
		case <-m.stop:
			m.log.Info("Event manager received stop")
			m.shutdown()

			return

		case req := <-m.control:
			m.apply(req)

		case item, ok := <-m.notifications:
			if !ok {
				m.log.Info("Notification stream closed, stopping event manager")
				m.setFatalError(errors.ErrTransportClosed)
				m.shutdown()

				return
			}

			if item.Err != nil {
				m.log.Error("Event manager received error from reader", "error", item.Err)
				m.setFatalError(item.Err)
				m.shutdown()

				return
			}

			m.dispatch(item.Notification, time.Now())

		case <-ticker.C:
		}

		m.sweep(time.Now())
	}
}

// drainControl applies every queued control request without blocking so
// registrations take effect before the next notification is read.
func (m *EventManager) drainControl() {
	for {
		select {
		case req := <-m.control:
			m.apply(req)
		default:
			return
		}
	}
}

func (m *EventManager) apply(req controlRequest) {
	defer close(req.applied)

	if req.waiter != nil {
		m.addWaiter(req.waiter)

		return
	}

	m.callbacks[req.eventType] = append(m.callbacks[req.eventType], req.callback)
	m.log.Debug("Registered callback",
		"event", req.eventType,
		"event_name", message.EventName(req.eventType),
		"count", len(m.callbacks[req.eventType]),
	)
}

func (m *EventManager) addWaiter(w *waiter) {
	if old, ok := m.waiters[w.id]; ok {
		m.log.Warn("Replacing live waiter", "identifier", w.id, "expected", old.expected)
		m.resolve(old, Result{Err: &errors.EventManagerError{
			Reason: fmt.Sprintf("identifier %d re-registered", w.id),
			Err:    errors.ErrWaiterReplaced,
		}})
		delete(m.waiters, w.id)
	}

	queue := m.pending[w.id]
	for i, p := range queue {
		if !w.matches(p.notification.Event) {
			continue
		}

		if i > 0 {
			m.log.Debug("Discarding unmatched pending events", "identifier", w.id, "count", i)
		}

		if rest := queue[i+1:]; len(rest) > 0 {
			m.pending[w.id] = rest
		} else {
			delete(m.pending, w.id)
		}

		m.log.Debug("Waiter resolved from pending event", "identifier", w.id, "event", p.notification.Event)
		m.resolveWith(w, p.notification)

		return
	}

	if len(queue) > 0 {
		m.log.Warn("Pending events did not match waiter, discarding",
			"identifier", w.id,
			"expected", w.expected,
			"count", len(queue),
		)
		delete(m.pending, w.id)
	}

	m.waiters[w.id] = w
	m.log.Debug("Registered waiter",
		"identifier", w.id,
		"expected", w.expected,
		"expected_name", message.EventName(w.expected),
		"deadline", w.deadline,
	)
}

func (m *EventManager) dispatch(n *message.Notification, now time.Time) {
	callbacks := m.callbacks[n.Event]

	if id, ok := n.IdentifierValue(); ok {
		target := n
		if len(callbacks) > 0 {
			target = n.Clone()
		}

		if w, ok := m.waiters[id]; ok {
			if w.matches(n.Event) {
				delete(m.waiters, id)
				m.resolveWith(w, target)
			} else {
				m.log.Warn("Waiter received unexpected event type, continuing to wait",
					"identifier", id,
					"expected", w.expected,
					"received", n.Event,
				)
			}
		} else {
			m.log.Debug("No waiter for identifier, storing pending event", "identifier", id, "event", n.Event)
			m.pending[id] = append(m.pending[id], pendingEvent{notification: target, received: now})
		}
	}

	if len(callbacks) == 0 {
		return
	}

	m.log.Debug("Executing callbacks", "event", n.Event, "count", len(callbacks))

	for _, fn := range callbacks {
		m.invoke(fn, n)
	}
}

func (m *EventManager) invoke(fn Callback, n *message.Notification) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("Callback panicked", "event", n.Event, "panic", r)
		}
	}()

	fn(n)
}

// resolveWith resolves w from a notification that matched it.
func (m *EventManager) resolveWith(w *waiter, n *message.Notification) {
	if n.Event == w.expected {
		m.resolve(w, Result{Notification: n})

		return
	}

	m.log.Warn("Received error event for waiter", "identifier", w.id, "event", n.Event)
	m.resolve(w, Result{Err: &errors.ErrorEventError{
		Identifier: w.id,
		EventType:  n.Event,
		Payload:    n.Payload,
	}})
}

// resolve delivers r without blocking. The reply slot holds one result, so
// a full slot means the waiter was already resolved.
func (m *EventManager) resolve(w *waiter, r Result) {
	select {
	case w.reply <- r:
	default:
		m.log.Warn("Waiter reply dropped", "identifier", w.id)
	}
}

func (m *EventManager) sweep(now time.Time) {
	for id, w := range m.waiters {
		if now.Before(w.deadline) {
			continue
		}

		m.log.Warn("Waiter timed out", "identifier", id, "expected", w.expected)
		delete(m.waiters, id)
		delete(m.pending, id)
		m.resolve(w, Result{Err: &errors.TimeoutError{Identifier: id, Expected: w.expected}})
	}

	cutoff := now.Add(-m.pendingTTL)

	for id, queue := range m.pending {
		keep := slices.DeleteFunc(queue, func(p pendingEvent) bool {
			return p.received.Before(cutoff)
		})

		if len(keep) == 0 {
			m.log.Debug("Pending events expired", "identifier", id)
			delete(m.pending, id)
		} else {
			m.pending[id] = keep
		}
	}
}

func (m *EventManager) shutdown() {
	err := m.shutdownError()

	for id, w := range m.waiters {
		m.log.Warn("Notifying waiter about manager shutdown", "identifier", id)
		m.resolve(w, Result{Err: err})
	}

	clear(m.waiters)
	clear(m.pending)
	clear(m.callbacks)

	// Registrations queued behind the stop are rejected by submit once done
	// is closed; waiters among them still get a result.
	for {
		select {
		case req := <-m.control:
			if req.waiter != nil {
				m.resolve(req.waiter, Result{Err: err})
			}
		default:
			m.log.Info("Event manager stopped")

			return
		}
	}
}
