package subprocess

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/judehek/ascent-obs/internal/errors"
)

// writeCommands drains queue into w until the queue is closed or ctx is
// done. Each line is flushed on its own and followed by a pause of pacing.
// The first write failure ends the loop; nothing is retried. w is closed on
// return so the worker observes end of input.
func writeCommands(
	ctx context.Context,
	log *slog.Logger,
	w io.WriteCloser,
	queue <-chan []byte,
	pacing time.Duration,
) error {
	defer func() {
		if closeErr := w.Close(); closeErr != nil {
			log.Debug("Closing worker stdin", "error", closeErr)
		}

		log.Debug("Writer goroutine stopped")
	}()

	bw := bufio.NewWriter(w)
	sent := 0

	for {
		var (
			line []byte
			ok   bool
		)

		select {
		case <-ctx.Done():
			return nil
		case line, ok = <-queue:
			if !ok {
				return nil
			}
		}

		if _, err := bw.Write(line); err != nil {
			log.Error("Failed to write command to worker", "error", err)

			return &errors.PipeError{Op: "write", Err: err}
		}

		if err := bw.Flush(); err != nil {
			log.Error("Failed to flush command to worker", "error", err)

			return &errors.PipeError{Op: "flush", Err: err}
		}

		sent++
		log.Debug("Command written", "data_len", len(line), "sent_count", sent)

		if pacing <= 0 {
			continue
		}

		timer := time.NewTimer(pacing)

		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()

			return nil
		}
	}
}
