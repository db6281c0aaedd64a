package protocol

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/judehek/ascent-obs/internal/config"
	"github.com/judehek/ascent-obs/internal/errors"
	"github.com/judehek/ascent-obs/internal/message"
)

const testPoll = 10 * time.Millisecond

func newTestManager(t *testing.T) (*EventManager, chan message.Incoming) {
	t.Helper()

	notifications := make(chan message.Incoming, 64)
	manager := NewEventManager(slog.Default(), notifications, &config.Options{PollInterval: testPoll})
	t.Cleanup(manager.Stop)

	return manager, notifications
}

func notify(ch chan<- message.Incoming, event int, id *int) {
	ch <- message.Incoming{Notification: &message.Notification{Event: event, Identifier: id}}
}

func awaitResult(t *testing.T, reply <-chan Result) Result {
	t.Helper()

	select {
	case r := <-reply:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("waiter was never resolved")
	}

	return Result{}
}

func requireUnresolved(t *testing.T, reply <-chan Result, wait time.Duration) {
	t.Helper()

	select {
	case r := <-reply:
		t.Fatalf("waiter resolved unexpectedly: %+v", r)
	case <-time.After(wait):
	}
}

func farDeadline() time.Time {
	return time.Now().Add(time.Minute)
}

func TestEventManager_ResolvesMatchingNotification(t *testing.T) {
	manager, notifications := newTestManager(t)

	reply, err := manager.RegisterWaiter(context.Background(), 7, message.EvtReady, nil, farDeadline())
	require.NoError(t, err)

	notify(notifications, message.EvtReady, message.Ptr(7))

	r := awaitResult(t, reply)
	require.NoError(t, r.Err)
	require.Equal(t, message.EvtReady, r.Notification.Event)

	id, ok := r.Notification.IdentifierValue()
	require.True(t, ok)
	require.Equal(t, 7, id)
}

func TestEventManager_PendingEventClaimedByLateWaiter(t *testing.T) {
	manager, notifications := newTestManager(t)

	var seen sync.WaitGroup

	seen.Add(1)
	require.NoError(t, manager.RegisterCallback(context.Background(), message.EvtRecordingStarted, func(*message.Notification) {
		seen.Done()
	}))

	notify(notifications, message.EvtRecordingStarted, message.Ptr(7))
	seen.Wait()

	reply, err := manager.RegisterWaiter(context.Background(), 7, message.EvtRecordingStarted, nil, farDeadline())
	require.NoError(t, err)

	r := awaitResult(t, reply)
	require.NoError(t, r.Err)
	require.Equal(t, message.EvtRecordingStarted, r.Notification.Event)
}

func TestEventManager_ConcurrentIdentifiersResolveIndependently(t *testing.T) {
	manager, notifications := newTestManager(t)

	const n = 20

	replies := make([]<-chan Result, n)

	for i := range n {
		reply, err := manager.RegisterWaiter(context.Background(), i, message.EvtRecordingStarted, nil, farDeadline())
		require.NoError(t, err)

		replies[i] = reply
	}

	// Deliver in reverse order, each preceded by an unrelated event for the id.
	for i := n - 1; i >= 0; i-- {
		notify(notifications, message.EvtReady, message.Ptr(i))
		notify(notifications, message.EvtRecordingStarted, message.Ptr(i))
	}

	for i := range n {
		r := awaitResult(t, replies[i])
		require.NoError(t, r.Err)
		require.Equal(t, message.EvtRecordingStarted, r.Notification.Event)

		id, _ := r.Notification.IdentifierValue()
		require.Equal(t, i, id)
	}
}

func TestEventManager_ErrorEventType(t *testing.T) {
	manager, notifications := newTestManager(t)

	reply, err := manager.RegisterWaiter(context.Background(), 3, message.EvtRecordingStarted,
		[]int{message.EvtErr}, farDeadline())
	require.NoError(t, err)

	notifications <- message.Incoming{Notification: &message.Notification{
		Event:      message.EvtErr,
		Identifier: message.Ptr(3),
		Payload:    []byte(`{"code":-5,"desc":"missing file_output"}`),
	}}

	r := awaitResult(t, reply)
	require.Nil(t, r.Notification)

	var eventErr *errors.ErrorEventError
	require.ErrorAs(t, r.Err, &eventErr)
	require.Equal(t, message.EvtErr, eventErr.EventType)
	require.Equal(t, 3, eventErr.Identifier)
	require.JSONEq(t, `{"code":-5,"desc":"missing file_output"}`, string(eventErr.Payload))
}

func TestEventManager_UnexpectedTypeKeepsWaiting(t *testing.T) {
	manager, notifications := newTestManager(t)

	reply, err := manager.RegisterWaiter(context.Background(), 5, message.EvtRecordingStopped, nil, farDeadline())
	require.NoError(t, err)

	notify(notifications, message.EvtRecordingStopping, message.Ptr(5))
	requireUnresolved(t, reply, 5*testPoll)

	notify(notifications, message.EvtRecordingStopped, message.Ptr(5))

	r := awaitResult(t, reply)
	require.NoError(t, r.Err)
	require.Equal(t, message.EvtRecordingStopped, r.Notification.Event)
}

func TestEventManager_TimeoutWithinOnePollInterval(t *testing.T) {
	manager, _ := newTestManager(t)

	deadline := time.Now().Add(50 * time.Millisecond)

	reply, err := manager.RegisterWaiter(context.Background(), 11, message.EvtReady, nil, deadline)
	require.NoError(t, err)

	r := awaitResult(t, reply)
	resolvedAt := time.Now()

	require.ErrorIs(t, r.Err, errors.ErrRequestTimeout)

	var timeoutErr *errors.TimeoutError
	require.ErrorAs(t, r.Err, &timeoutErr)
	require.Equal(t, 11, timeoutErr.Identifier)
	require.Equal(t, message.EvtReady, timeoutErr.Expected)

	require.False(t, resolvedAt.Before(deadline))
	// Scheduling slack on loaded machines is allowed on top of the poll window.
	require.Less(t, resolvedAt.Sub(deadline), testPoll+200*time.Millisecond)
}

func TestEventManager_TimeoutDiscardsPendingForIdentifier(t *testing.T) {
	manager, notifications := newTestManager(t)

	reply, err := manager.RegisterWaiter(context.Background(), 4, message.EvtReady, nil, time.Now().Add(30*time.Millisecond))
	require.NoError(t, err)

	// Wrong type: ignored by the waiter, not stored.
	notify(notifications, message.EvtRecordingStopping, message.Ptr(4))

	r := awaitResult(t, reply)
	require.ErrorIs(t, r.Err, errors.ErrRequestTimeout)

	reply, err = manager.RegisterWaiter(context.Background(), 4, message.EvtRecordingStopping, nil, time.Now().Add(30*time.Millisecond))
	require.NoError(t, err)

	r = awaitResult(t, reply)
	require.ErrorIs(t, r.Err, errors.ErrRequestTimeout)
}

func TestEventManager_PendingQueueIsFIFO(t *testing.T) {
	manager, notifications := newTestManager(t)

	var seen sync.WaitGroup

	seen.Add(3)
	for _, event := range []int{message.EvtReady, message.EvtRecordingStarted, message.EvtRecordingStopped} {
		require.NoError(t, manager.RegisterCallback(context.Background(), event, func(*message.Notification) {
			seen.Done()
		}))
	}

	notify(notifications, message.EvtReady, message.Ptr(9))
	notify(notifications, message.EvtRecordingStarted, message.Ptr(9))
	notify(notifications, message.EvtRecordingStopped, message.Ptr(9))
	seen.Wait()

	// Ready precedes the first match and is discarded; Stopped stays pending.
	reply, err := manager.RegisterWaiter(context.Background(), 9, message.EvtRecordingStarted, nil, farDeadline())
	require.NoError(t, err)
	require.Equal(t, message.EvtRecordingStarted, awaitResult(t, reply).Notification.Event)

	reply, err = manager.RegisterWaiter(context.Background(), 9, message.EvtRecordingStopped, nil, farDeadline())
	require.NoError(t, err)
	require.Equal(t, message.EvtRecordingStopped, awaitResult(t, reply).Notification.Event)

	reply, err = manager.RegisterWaiter(context.Background(), 9, message.EvtReady, nil, time.Now().Add(30*time.Millisecond))
	require.NoError(t, err)
	require.ErrorIs(t, awaitResult(t, reply).Err, errors.ErrRequestTimeout)
}

func TestEventManager_PendingEventsExpire(t *testing.T) {
	notifications := make(chan message.Incoming, 4)
	manager := NewEventManager(slog.Default(), notifications, &config.Options{
		PollInterval: testPoll,
		PendingTTL:   20 * time.Millisecond,
	})
	t.Cleanup(manager.Stop)

	notify(notifications, message.EvtReady, message.Ptr(1))
	time.Sleep(100 * time.Millisecond)

	reply, err := manager.RegisterWaiter(context.Background(), 1, message.EvtReady, nil, time.Now().Add(30*time.Millisecond))
	require.NoError(t, err)
	require.ErrorIs(t, awaitResult(t, reply).Err, errors.ErrRequestTimeout)
}

func TestEventManager_CallbacksFireInOrderAlongsideWaiter(t *testing.T) {
	manager, notifications := newTestManager(t)

	var (
		mu    sync.Mutex
		order []string
	)

	record := func(name string) Callback {
		return func(n *message.Notification) {
			mu.Lock()
			defer mu.Unlock()

			order = append(order, name)
		}
	}

	require.NoError(t, manager.RegisterCallback(context.Background(), message.EvtObsWarning, record("first")))
	require.NoError(t, manager.RegisterCallback(context.Background(), message.EvtObsWarning, record("second")))

	reply, err := manager.RegisterWaiter(context.Background(), 2, message.EvtObsWarning, nil, farDeadline())
	require.NoError(t, err)

	notify(notifications, message.EvtObsWarning, message.Ptr(2))
	notify(notifications, message.EvtObsWarning, nil)

	r := awaitResult(t, reply)
	require.NoError(t, r.Err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return len(order) == 4
	}, time.Second, 5*time.Millisecond)

	require.Equal(t, []string{"first", "second", "first", "second"}, order)
}

func TestEventManager_CallbackPanicIsRecovered(t *testing.T) {
	manager, notifications := newTestManager(t)

	calls := make(chan struct{}, 2)

	require.NoError(t, manager.RegisterCallback(context.Background(), message.EvtVideoFileSplit, func(*message.Notification) {
		panic("callback bug")
	}))
	require.NoError(t, manager.RegisterCallback(context.Background(), message.EvtVideoFileSplit, func(*message.Notification) {
		calls <- struct{}{}
	}))

	notify(notifications, message.EvtVideoFileSplit, nil)
	notify(notifications, message.EvtVideoFileSplit, nil)

	for range 2 {
		select {
		case <-calls:
		case <-time.After(2 * time.Second):
			t.Fatal("callback after panicking callback did not run")
		}
	}

	select {
	case <-manager.Done():
		t.Fatal("event loop exited after callback panic")
	default:
	}
}

func TestEventManager_ReregisterReplacesWaiter(t *testing.T) {
	manager, notifications := newTestManager(t)

	first, err := manager.RegisterWaiter(context.Background(), 8, message.EvtReady, nil, farDeadline())
	require.NoError(t, err)

	second, err := manager.RegisterWaiter(context.Background(), 8, message.EvtReady, nil, farDeadline())
	require.NoError(t, err)

	r := awaitResult(t, first)
	require.ErrorIs(t, r.Err, errors.ErrWaiterReplaced)

	var managerErr *errors.EventManagerError
	require.ErrorAs(t, r.Err, &managerErr)

	notify(notifications, message.EvtReady, message.Ptr(8))
	require.NoError(t, awaitResult(t, second).Err)
}

func TestEventManager_StopResolvesOutstandingWaiters(t *testing.T) {
	notifications := make(chan message.Incoming)
	manager := NewEventManager(slog.Default(), notifications, &config.Options{PollInterval: testPoll})

	replies := make([]<-chan Result, 0, 3)

	for id := range 3 {
		reply, err := manager.RegisterWaiter(context.Background(), id, message.EvtReady, nil, farDeadline())
		require.NoError(t, err)

		replies = append(replies, reply)
	}

	manager.Stop()
	manager.Stop()

	for _, reply := range replies {
		r := awaitResult(t, reply)
		require.ErrorIs(t, r.Err, errors.ErrManagerShutdown)
	}

	require.NoError(t, manager.Err())

	_, err := manager.RegisterWaiter(context.Background(), 99, message.EvtReady, nil, farDeadline())
	require.ErrorIs(t, err, errors.ErrManagerShutdown)

	err = manager.RegisterCallback(context.Background(), message.EvtReady, func(*message.Notification) {})
	require.ErrorIs(t, err, errors.ErrManagerShutdown)
}

func TestEventManager_ReaderErrorIsFatal(t *testing.T) {
	manager, notifications := newTestManager(t)

	reply, err := manager.RegisterWaiter(context.Background(), 1, message.EvtReady, nil, farDeadline())
	require.NoError(t, err)

	readErr := &errors.PipeError{Op: "read", Err: stderrors.New("pipe broke")}
	notifications <- message.Incoming{Err: readErr}

	r := awaitResult(t, reply)
	require.ErrorIs(t, r.Err, errors.ErrManagerShutdown)
	require.ErrorIs(t, r.Err, readErr)

	<-manager.Done()
	require.ErrorIs(t, manager.Err(), readErr)

	_, err = manager.RegisterWaiter(context.Background(), 2, message.EvtReady, nil, farDeadline())

	var managerErr *errors.EventManagerError
	require.ErrorAs(t, err, &managerErr)
	require.ErrorIs(t, err, readErr)
}

func TestEventManager_ClosedStreamStopsLoop(t *testing.T) {
	notifications := make(chan message.Incoming)
	manager := NewEventManager(slog.Default(), notifications, &config.Options{PollInterval: testPoll})

	reply, err := manager.RegisterWaiter(context.Background(), 1, message.EvtReady, nil, farDeadline())
	require.NoError(t, err)

	close(notifications)

	r := awaitResult(t, reply)
	require.ErrorIs(t, r.Err, errors.ErrManagerShutdown)
	require.ErrorIs(t, manager.Err(), errors.ErrTransportClosed)

	manager.Stop()
}

func TestEventManager_RegisterHonoursContext(t *testing.T) {
	manager, _ := newTestManager(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// A cancelled context may still race with an accepting loop; both outcomes
	// are valid, but a cancelled registration must not leave a waiter behind.
	reply, err := manager.RegisterWaiter(ctx, 1, message.EvtReady, nil, time.Now().Add(20*time.Millisecond))
	if err != nil {
		require.ErrorIs(t, err, context.Canceled)

		return
	}

	require.ErrorIs(t, awaitResult(t, reply).Err, errors.ErrRequestTimeout)
}

func TestEventManager_NilCallbackRejected(t *testing.T) {
	manager, _ := newTestManager(t)

	require.Error(t, manager.RegisterCallback(context.Background(), message.EvtReady, nil))
}
