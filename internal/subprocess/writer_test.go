package subprocess

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/judehek/ascent-obs/internal/errors"
)

type recordingWriter struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	writes []time.Time
	closed bool
}

func (w *recordingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.writes = append(w.writes, time.Now())

	return w.buf.Write(p)
}

func (w *recordingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true

	return nil
}

type failingWriter struct {
	err    error
	closed bool
}

func (w *failingWriter) Write([]byte) (int, error) { return 0, w.err }
func (w *failingWriter) Close() error              { w.closed = true; return nil }

func TestWriteCommands_WritesInOrderAndClosesOnQueueClose(t *testing.T) {
	w := &recordingWriter{}
	queue := make(chan []byte, 3)
	queue <- []byte("{\"cmd\":2}\n")
	queue <- []byte("{\"cmd\":3}\n")
	queue <- []byte("{\"cmd\":4}\n")
	close(queue)

	err := writeCommands(context.Background(), slog.Default(), w, queue, 0)

	require.NoError(t, err)
	require.Equal(t, "{\"cmd\":2}\n{\"cmd\":3}\n{\"cmd\":4}\n", w.buf.String())
	require.Len(t, w.writes, 3)
	require.True(t, w.closed)
}

func TestWriteCommands_PacesWrites(t *testing.T) {
	w := &recordingWriter{}
	queue := make(chan []byte, 2)
	queue <- []byte("a\n")
	queue <- []byte("b\n")
	close(queue)

	pacing := 50 * time.Millisecond

	require.NoError(t, writeCommands(context.Background(), slog.Default(), w, queue, pacing))
	require.Len(t, w.writes, 2)
	require.GreaterOrEqual(t, w.writes[1].Sub(w.writes[0]), pacing)
}

func TestWriteCommands_PacingInterruptedByCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	w := &recordingWriter{}
	queue := make(chan []byte, 1)
	queue <- []byte("a\n")

	done := make(chan error, 1)

	go func() {
		done <- writeCommands(ctx, slog.Default(), w, queue, time.Hour)
	}()

	require.Eventually(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()

		return len(w.writes) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("writer stuck in pacing sleep")
	}
}

func TestWriteCommands_WriteFailureIsPipeError(t *testing.T) {
	boom := stderrors.New("broken pipe")
	w := &failingWriter{err: boom}
	queue := make(chan []byte, 2)
	queue <- []byte("a\n")
	queue <- []byte("b\n")

	err := writeCommands(context.Background(), slog.Default(), w, queue, 0)

	var pipeErr *errors.PipeError
	require.ErrorAs(t, err, &pipeErr)
	require.Equal(t, "flush", pipeErr.Op)
	require.ErrorIs(t, err, boom)
	require.True(t, w.closed)
	require.Len(t, queue, 1, "no retry and no further writes after failure")
}

func TestWriteCommands_LargeLineWriteFailure(t *testing.T) {
	w := &failingWriter{err: io.ErrClosedPipe}
	queue := make(chan []byte, 1)
	queue <- bytes.Repeat([]byte("x"), 8192)

	err := writeCommands(context.Background(), slog.Default(), w, queue, 0)

	var pipeErr *errors.PipeError
	require.ErrorAs(t, err, &pipeErr)
	require.Equal(t, "write", pipeErr.Op)
}
