// Package config provides configuration types for the ascent-obs host library.
package config

import (
	"context"

	"github.com/judehek/ascent-obs/internal/message"
)

// Transport defines the interface for worker communication.
// Implement this to provide custom transports for testing, mocking,
// or alternative worker launch strategies.
//
// The default implementation is subprocess.Supervisor which spawns the
// worker executable and talks to it over stdio.
// Custom transports can be injected via Options.Transport.
type Transport interface {
	// Start launches the worker and begins reading its output.
	Start(ctx context.Context) error

	// Send enqueues one encoded command. A trailing newline is appended if
	// missing. Send blocks while the outgoing queue is full.
	Send(ctx context.Context, line []byte) error

	// Notifications yields decoded notifications and reader errors in arrival
	// order. The channel is closed when the reader stops.
	Notifications() <-chan message.Incoming

	// Shutdown stops the worker and joins every background goroutine.
	// It may be called only once; later calls return ErrTransportClosed.
	Shutdown() error

	// IsReady reports whether the worker is running and accepting commands.
	IsReady() bool
}
