package subprocess

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/judehek/ascent-obs/internal/cli"
	"github.com/judehek/ascent-obs/internal/config"
	"github.com/judehek/ascent-obs/internal/errors"
	"github.com/judehek/ascent-obs/internal/message"
)

// writerJoinTimeout bounds how long Shutdown waits for queued commands to
// drain before killing the worker regardless.
const writerJoinTimeout = 10 * time.Second

// Supervisor implements Transport by spawning the ascent-obs worker.
type Supervisor struct {
	log     *slog.Logger
	options *config.Options

	mu          sync.RWMutex // guards queue close against concurrent Send
	queue       chan []byte
	queueClosed bool
	started     atomic.Bool
	shutdown    atomic.Bool

	notifications chan message.Incoming
	stopSending   chan struct{}
	writerDone    chan struct{}
	writerErr     error

	proc     process
	cancel   context.CancelFunc
	group    *errgroup.Group
	closing  atomic.Bool
	exitCode atomic.Int64
}

// Compile-time verification that Supervisor implements the Transport interface.
var _ config.Transport = (*Supervisor)(nil)

// NewSupervisor creates a supervisor for the worker described by options.
//
// Executable discovery is deferred to Start, which searches:
//  1. The explicit path in options.WorkerPath (if provided)
//  2. The ASCENT_OBS_PATH environment variable
//  3. The system PATH
//  4. Common installation directories
func NewSupervisor(log *slog.Logger, options *config.Options) *Supervisor {
	size := options.EffectiveBufferSize()

	s := &Supervisor{
		log:           log.With("component", "supervisor"),
		options:       options,
		queue:         make(chan []byte, size),
		notifications: make(chan message.Incoming, size),
		stopSending:   make(chan struct{}),
		writerDone:    make(chan struct{}),
	}
	s.exitCode.Store(-1)

	return s
}

// Start discovers the worker, launches it with stdio pipes, and starts the
// writer, reader, and stderr goroutines.
//
// Returns InvalidPathError if the executable cannot be located,
// PipeError if a pipe cannot be acquired, or ProcessStartError if the
// process fails to launch.
func (s *Supervisor) Start(ctx context.Context) error {
	if s.started.Load() || s.shutdown.Load() {
		return errors.ErrTransportClosed
	}

	s.log.Info("Starting ascent-obs worker")

	discoverer := cli.NewDiscoverer(&cli.Config{
		WorkerPath: s.options.WorkerPath,
		Logger:     s.log,
	})

	workerPath, err := discoverer.Discover(ctx)
	if err != nil {
		return err
	}

	args := cli.BuildArgs(s.options)
	s.log.Debug("Built worker arguments", "worker_path", workerPath, "args", args)

	//nolint:gosec // G204: launching the configured worker executable is the purpose of this package
	cmd := exec.Command(workerPath, args...)
	cmd.Env = cli.BuildEnvironment(s.options)
	cmd.Dir = s.options.Cwd

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return &errors.PipeError{Op: "stdin", Err: err}
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &errors.PipeError{Op: "stdout", Err: err}
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return &errors.PipeError{Op: "stderr", Err: err}
	}

	if err := cmd.Start(); err != nil {
		s.log.Error("Failed to start worker process", "error", err)

		return &errors.ProcessStartError{Path: workerPath, Err: err}
	}

	s.log.Info("Worker started", "pid", cmd.Process.Pid)

	s.attach(&execProcess{cmd: cmd}, stdin, stdout, stderr)

	return nil
}

// attach takes ownership of a running process and its pipes and starts the
// background goroutines.
func (s *Supervisor) attach(proc process, stdin io.WriteCloser, stdout, stderr io.Reader) {
	lifecycle, cancel := context.WithCancel(context.Background())
	group, groupCtx := errgroup.WithContext(lifecycle)

	s.mu.Lock()
	s.proc = proc
	s.cancel = cancel
	s.group = group
	s.mu.Unlock()

	go func() {
		defer close(s.writerDone)

		s.writerErr = writeCommands(
			lifecycle,
			s.log.With("goroutine", "writer"),
			stdin,
			s.queue,
			s.options.EffectiveWritePacing(),
		)
	}()

	group.Go(func() error {
		return readNotifications(groupCtx, s.log.With("goroutine", "reader"), stdout, s.notifications, s.closing.Load)
	})

	group.Go(func() error {
		logStderr(s.log.With("goroutine", "stderr", "source", "worker_stderr"), stderr, s.options.Stderr, s.closing.Load)

		return nil
	})

	s.started.Store(true)
}

// Send enqueues one command line for the writer, appending a newline if
// missing. It blocks while the queue is full and fails with ErrCommandSend
// once the queue is closed or the writer has stopped.
func (s *Supervisor) Send(ctx context.Context, line []byte) error {
	if len(line) == 0 || line[len(line)-1] != '\n' {
		framed := make([]byte, len(line)+1)
		copy(framed, line)
		framed[len(line)] = '\n'
		line = framed
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started.Load() {
		return fmt.Errorf("%w: worker not started", errors.ErrCommandSend)
	}

	if s.queueClosed {
		return errors.ErrCommandSend
	}

	select {
	case <-s.stopSending:
		return errors.ErrCommandSend
	case <-s.writerDone:
		return errors.ErrCommandSend
	default:
	}

	select {
	case s.queue <- line:
		return nil
	case <-s.stopSending:
		return errors.ErrCommandSend
	case <-s.writerDone:
		return errors.ErrCommandSend
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Notifications returns the channel carrying reader output.
func (s *Supervisor) Notifications() <-chan message.Incoming {
	return s.notifications
}

// IsReady reports whether the worker is running and the writer is accepting
// commands.
func (s *Supervisor) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started.Load() || s.queueClosed {
		return false
	}

	select {
	case <-s.writerDone:
		return false
	default:
		return true
	}
}

// PID returns the worker process id, or 0 before Start.
func (s *Supervisor) PID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.proc == nil {
		return 0
	}

	return s.proc.Pid()
}

// ExitCode returns the worker exit code observed by Shutdown, or -1.
func (s *Supervisor) ExitCode() int {
	return int(s.exitCode.Load())
}

// Shutdown stops the worker:
//  1. close the command queue so no further sends succeed
//  2. wait for the writer to drain queued commands and exit
//  3. cancel the lifecycle so the reader stops forwarding
//  4. kill the worker and wait for it to exit
//  5. join the reader and stderr goroutines
//
// It returns the writer's terminal error, if any. Shutdown is single use;
// later calls return ErrTransportClosed.
func (s *Supervisor) Shutdown() error {
	if !s.shutdown.CompareAndSwap(false, true) {
		return errors.ErrTransportClosed
	}

	if !s.started.Load() {
		return nil
	}

	s.log.Info("Shutting down worker")

	// Unblock senders waiting on a full queue before taking the write lock.
	close(s.stopSending)

	s.mu.Lock()
	s.queueClosed = true
	close(s.queue)
	s.mu.Unlock()

	select {
	case <-s.writerDone:
	case <-time.After(writerJoinTimeout):
		s.log.Warn("Writer did not drain before timeout, killing worker", "timeout", writerJoinTimeout)
	}

	s.cancel()
	s.closing.Store(true)

	if err := s.proc.Kill(); err != nil {
		s.log.Warn("Failed to kill worker", "pid", s.proc.Pid(), "error", err)
	}

	code, err := s.proc.Wait()
	s.exitCode.Store(int64(code))

	if err != nil {
		s.log.Debug("Worker exited", "exit_code", code, "error", err)
	} else {
		s.log.Info("Worker exited", "exit_code", code)
	}

	<-s.writerDone

	if err := s.group.Wait(); err != nil {
		s.log.Debug("Reader finished with error", "error", err)
	}

	s.log.Info("Worker shutdown complete")

	return s.writerErr
}
