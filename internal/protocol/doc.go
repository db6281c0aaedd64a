// Package protocol correlates worker notifications with in-flight requests.
//
// The EventManager owns a single event loop that consumes control requests
// (register waiter, register callback, stop) and the notification stream
// produced by the subprocess reader. It resolves each waiter exactly once:
// with the matching notification, with an error event declared by the caller,
// with a timeout, or with a shutdown error.
//
// Example usage:
//
//	manager := protocol.NewEventManager(log, transport.Notifications(), options)
//	defer manager.Stop()
//
//	reply, err := manager.RegisterWaiter(ctx, 7, message.EvtRecordingStarted,
//		[]int{message.EvtErr}, time.Now().Add(5*time.Second))
//	if err != nil {
//		return err
//	}
//
//	result := <-reply
package protocol
