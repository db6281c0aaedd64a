package subprocess

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"

	"github.com/judehek/ascent-obs/internal/errors"
	"github.com/judehek/ascent-obs/internal/message"
)

// readChunkSize is the size of each read from the worker's stdout.
const readChunkSize = 4096

// readNotifications reads r until EOF, forwarding every framed item to out
// in arrival order. It closes out on return.
//
// Forwarding gives up when ctx is done. A read error is forwarded as a
// PipeError and returned, unless closing reports an intentional shutdown.
func readNotifications(
	ctx context.Context,
	log *slog.Logger,
	r io.Reader,
	out chan<- message.Incoming,
	closing func() bool,
) error {
	defer close(out)
	defer log.Debug("Reader goroutine stopped")

	framer := NewFramer()
	chunk := make([]byte, readChunkSize)
	count := 0

	emit := func(item message.Incoming) bool {
		if item.Err != nil {
			log.Warn("Failed to decode worker output", "error", item.Err)
		} else {
			count++
			log.Debug("Received notification",
				"event", item.Notification.Event,
				"event_name", message.EventName(item.Notification.Event),
				"notification_count", count,
			)
		}

		select {
		case out <- item:
			return true
		case <-ctx.Done():
			return false
		}
	}

	for {
		n, err := r.Read(chunk)
		if n > 0 && !framer.Feed(chunk[:n], emit) {
			log.Debug("Notification consumer gone, stopping reader")

			return nil
		}

		if err == nil {
			continue
		}

		if stderrors.Is(err, io.EOF) {
			if rest := framer.Pending(); len(rest) > 0 {
				log.Warn("Worker output ended with incomplete data",
					"leftover_bytes", len(rest),
					"preview", preview(rest),
				)
			}

			log.Debug("Worker stdout closed")

			return nil
		}

		if closing() {
			log.Debug("Worker stdout read interrupted by shutdown", "error", err)

			return nil
		}

		pipeErr := &errors.PipeError{Op: "read", Err: err}
		log.Error("Failed to read worker stdout", "error", err)
		emit(message.Incoming{Err: pipeErr})

		return pipeErr
	}
}
