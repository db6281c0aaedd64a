package ascentobs

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"
	"time"

	"github.com/judehek/ascent-obs/internal/errors"
	"github.com/judehek/ascent-obs/internal/message"
)

// shutdownSendTimeout bounds queueing CmdShutdown during Recorder.Shutdown.
const shutdownSendTimeout = 5 * time.Second

// Recorder is a high-level handle on an ascent-obs worker. It wraps a Client
// with one method per worker command and tracks which captures it started.
type Recorder struct {
	client  Client
	log     *slog.Logger
	timeout time.Duration

	mu      sync.Mutex
	active  map[int]RecorderType
	queries map[int]struct{}
}

// StartRecorder launches the worker and returns a Recorder for it.
func StartRecorder(ctx context.Context, opts ...Option) (*Recorder, error) {
	options := applyOptions(opts)

	log := options.Logger
	if log == nil {
		log = NopLogger()
	}

	c := NewClient()
	if err := c.Start(ctx, opts...); err != nil {
		return nil, err
	}

	r := &Recorder{
		client:  c,
		log:     log.With("component", "recorder"),
		timeout: options.EffectiveRequestTimeout(),
		active:  make(map[int]RecorderType, 2),
		queries: make(map[int]struct{}),
	}

	// Captures that end on the worker's side are no longer active.
	for _, event := range []int{EvtRecordingStopped, EvtReplayStopped, EvtStreamingStopped} {
		if err := c.RegisterCallback(ctx, event, r.release); err != nil {
			_ = c.Close()

			return nil, err
		}
	}

	return r, nil
}

// Client returns the underlying client for commands Recorder does not wrap.
func (r *Recorder) Client() Client {
	return r.client
}

// Done is closed when the worker connection stops, either through Shutdown
// or because the worker exited. Err then reports the cause.
func (r *Recorder) Done() <-chan struct{} {
	return r.client.Done()
}

// Err returns the error that stopped the worker connection, if any.
func (r *Recorder) Err() error {
	return r.client.Err()
}

// Active returns a snapshot of the captures started through this Recorder
// and not yet stopped, keyed by identifier.
func (r *Recorder) Active() map[int]RecorderType {
	r.mu.Lock()
	defer r.mu.Unlock()

	return maps.Clone(r.active)
}

// IsRecording reports whether a capture with id is active.
func (r *Recorder) IsRecording(id int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.active[id]

	return ok
}

func (r *Recorder) reserve(id int, kind RecorderType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.active[id]; ok {
		return errors.ErrAlreadyRecording
	}

	if _, ok := r.queries[id]; ok {
		return fmt.Errorf("identifier %d held by a pending query: %w", id, errors.ErrAlreadyRecording)
	}

	r.active[id] = kind

	return nil
}

// acquireQueryID takes an identifier from the client counter that no
// capture holds and keeps it out of reserve until releaseQueryID.
func (r *Recorder) acquireQueryID() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		id := r.client.NextIdentifier()
		if r.inUse(id) {
			continue
		}

		r.queries[id] = struct{}{}

		return id
	}
}

// NextCaptureID returns an identifier from the client counter that neither
// an active capture nor a pending query holds.
func (r *Recorder) NextCaptureID() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		id := r.client.NextIdentifier()
		if !r.inUse(id) {
			return id
		}
	}
}

// inUse reports whether id is held. Callers hold r.mu.
func (r *Recorder) inUse(id int) bool {
	if _, ok := r.active[id]; ok {
		return true
	}

	_, ok := r.queries[id]

	return ok
}

func (r *Recorder) releaseQueryID(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.queries, id)
}

func (r *Recorder) forget(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.active, id)
}

func (r *Recorder) activeKind(id int) (RecorderType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kind, ok := r.active[id]
	if !ok {
		return 0, errors.ErrNotRecording
	}

	return kind, nil
}

func (r *Recorder) release(n *Notification) {
	if id, ok := n.IdentifierValue(); ok {
		r.forget(id)
	}
}

// ===== Fire-and-forget Commands =====

// StartCapture sends a start command for a recording, replay buffer, or
// stream. The worker answers with EvtReady and a started event, or EvtErr,
// all tagged with id.
func (r *Recorder) StartCapture(ctx context.Context, id int, settings StartCommandPayload) error {
	if err := r.reserve(id, settings.RecorderType); err != nil {
		return err
	}

	r.log.Info("Sending start command", "identifier", id, "recorder_type", settings.RecorderType.String())

	if err := r.client.Send(ctx, CmdStart, &id, settings); err != nil {
		r.forget(id)

		return err
	}

	return nil
}

// StopCapture stops the capture started with id.
func (r *Recorder) StopCapture(ctx context.Context, id int, kind RecorderType) error {
	if _, err := r.activeKind(id); err != nil {
		return err
	}

	r.log.Info("Sending stop command", "identifier", id, "recorder_type", kind.String())

	return r.client.Send(ctx, CmdStop, &id, StopCommandPayload{RecorderType: kind})
}

// SetVolume updates input and output volumes.
func (r *Recorder) SetVolume(ctx context.Context, audio AudioSettings) error {
	r.log.Info("Sending set volume command")

	return r.client.Send(ctx, CmdSetVolume, nil, SetVolumeCommandPayload{AudioSettings: &audio})
}

// GameFocusChanged tells the worker whether the game is in the foreground.
func (r *Recorder) GameFocusChanged(ctx context.Context, foreground bool, minimized *bool) error {
	r.log.Info("Sending game focus changed command", "game_foreground", foreground)

	return r.client.Send(ctx, CmdGameFocusChanged, nil, GameFocusChangedCommandPayload{
		GameForeground: foreground,
		IsMinimized:    minimized,
	})
}

// AddGameSource adds or updates the game capture source.
func (r *Recorder) AddGameSource(ctx context.Context, settings GameSourceSettings) error {
	r.log.Info("Sending add game source command")

	return r.client.Send(ctx, CmdAddGameSource, nil, settings)
}

// StartReplayCapture saves a clip from the replay buffer started with id.
func (r *Recorder) StartReplayCapture(ctx context.Context, id int, payload StartReplayCaptureCommandPayload) error {
	r.log.Info("Sending start replay capture command", "identifier", id, "path", payload.Path)

	return r.client.Send(ctx, CmdStartReplayCapture, &id, payload)
}

// StopReplayCapture stops an in-progress replay save for the buffer id.
func (r *Recorder) StopReplayCapture(ctx context.Context, id int) error {
	r.log.Info("Sending stop replay capture command", "identifier", id)

	return r.client.SendSimple(ctx, CmdStopReplayCapture, &id)
}

// UpdateTobiiGaze updates the gaze overlay source.
func (r *Recorder) UpdateTobiiGaze(ctx context.Context, settings TobiiSourceSettings) error {
	r.log.Info("Sending tobii gaze command")

	return r.client.Send(ctx, CmdTobiiGaze, nil, settings)
}

// SetBrb updates the "be right back" source.
func (r *Recorder) SetBrb(ctx context.Context, settings BrbSourceSettings) error {
	r.log.Info("Sending set brb command", "path", settings.Path)

	return r.client.Send(ctx, CmdSetBrb, nil, settings)
}

// SplitVideo closes the current file of recording id and continues in a
// new one. The recording must have on-demand splitting enabled.
func (r *Recorder) SplitVideo(ctx context.Context, id int) error {
	if _, err := r.activeKind(id); err != nil {
		return err
	}

	r.log.Info("Sending split video command", "identifier", id)

	return r.client.SendSimple(ctx, CmdSplitVideo, &id)
}

// ===== Correlated Commands =====

// QueryMachineInfo asks the worker for its audio devices and encoders.
func (r *Recorder) QueryMachineInfo(ctx context.Context) (*MachineInfo, error) {
	id := r.acquireQueryID()
	defer r.releaseQueryID(id)

	r.log.Info("Querying machine info", "identifier", id)

	info, err := SendAndWait(ctx, r.client, CmdQueryMachineInfo, id, nil,
		r.timeout, EvtQueryMachineInfo, []int{EvtErr}, DecodePayload[MachineInfo])
	if err != nil {
		return nil, err
	}

	return &info, nil
}

// StartRecording starts a video recording described by cfg under id and
// waits for the worker to report it started.
func (r *Recorder) StartRecording(ctx context.Context, id int, cfg *RecordingConfig) (*RecordingStartedEvent, error) {
	payload, err := cfg.StartPayload()
	if err != nil {
		return nil, err
	}

	if err := r.reserve(id, RecorderTypeVideo); err != nil {
		return nil, err
	}

	r.log.Info("Starting recording",
		"identifier", id,
		"output_file", cfg.OutputFile,
		"game_pid", cfg.GamePID,
		"encoder", cfg.EncoderID,
	)

	started, err := SendAndWait(ctx, r.client, CmdStart, id, payload,
		r.timeout, EvtRecordingStarted, []int{EvtErr}, DecodePayload[RecordingStartedEvent])
	if err != nil {
		r.forget(id)
		r.logStartFailure(id, err)

		return nil, err
	}

	r.log.Info("Recording started", "identifier", id, "source", started.Source)

	return &started, nil
}

func (r *Recorder) logStartFailure(id int, err error) {
	eventErr, ok := stderrors.AsType[*errors.ErrorEventError](err)
	if !ok {
		r.log.Error("Failed to start recording", "identifier", id, "error", err)

		return
	}

	n := &Notification{Event: eventErr.EventType, Payload: eventErr.Payload}

	if detail, ok, decodeErr := message.DecodePayload[ErrorEvent](n); ok && decodeErr == nil {
		r.log.Error("Worker rejected recording", "identifier", id, "code", detail.Code, "desc", detail.Desc)

		return
	}

	r.log.Error("Worker rejected recording", "identifier", id, "event", eventErr.EventType)
}

// StopRecording stops recording id and waits for the worker's final report.
func (r *Recorder) StopRecording(ctx context.Context, id int) (*RecordingStoppedEvent, error) {
	if _, err := r.activeKind(id); err != nil {
		return nil, err
	}

	r.log.Info("Stopping recording", "identifier", id)

	stopped, err := SendAndWait(ctx, r.client, CmdStop, id, StopCommandPayload{RecorderType: RecorderTypeVideo},
		r.timeout, EvtRecordingStopped, []int{EvtErr}, DecodePayload[RecordingStoppedEvent])

	r.forget(id)

	if err != nil {
		return nil, err
	}

	r.log.Info("Recording stopped", "identifier", id, "code", stopped.Code, "duration_ms", stopped.Duration)

	return &stopped, nil
}

// ===== Callbacks =====

// OnEvent registers fn for every notification of eventType.
func (r *Recorder) OnEvent(ctx context.Context, eventType int, fn Callback) error {
	return r.client.RegisterCallback(ctx, eventType, fn)
}

// OnError registers fn for every EvtErr notification. id is nil for errors
// not tied to a command.
func (r *Recorder) OnError(ctx context.Context, fn func(id *int, event ErrorEvent)) error {
	return onTyped(ctx, r, EvtErr, fn)
}

// OnRecordingStopped registers fn for every EvtRecordingStopped, including
// recordings the worker ended on its own.
func (r *Recorder) OnRecordingStopped(ctx context.Context, fn func(id *int, event RecordingStoppedEvent)) error {
	return onTyped(ctx, r, EvtRecordingStopped, fn)
}

// OnVideoFileSplit registers fn for every EvtVideoFileSplit.
func (r *Recorder) OnVideoFileSplit(ctx context.Context, fn func(id *int, event VideoFileSplitEvent)) error {
	return onTyped(ctx, r, EvtVideoFileSplit, fn)
}

// OnWarning registers fn for every EvtObsWarning.
func (r *Recorder) OnWarning(ctx context.Context, fn func(event ObsWarningEvent)) error {
	return onTyped(ctx, r, EvtObsWarning, func(_ *int, event ObsWarningEvent) {
		fn(event)
	})
}

func onTyped[T any](ctx context.Context, r *Recorder, eventType int, fn func(*int, T)) error {
	return r.client.RegisterCallback(ctx, eventType, func(n *Notification) {
		event, _, err := message.DecodePayload[T](n)
		if err != nil {
			r.log.Warn("Failed to decode event payload",
				"event", n.Event,
				"event_name", EventName(n.Event),
				"error", err,
			)

			return
		}

		fn(n.Identifier, event)
	})
}

// ===== Lifecycle =====

// Shutdown asks the worker to exit, then closes the client. The Recorder
// cannot be used afterwards.
func (r *Recorder) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownSendTimeout)
	defer cancel()

	r.log.Info("Sending shutdown command")

	if err := r.client.SendSimple(ctx, CmdShutdown, nil); err != nil {
		r.log.Debug("Shutdown command not queued", "error", err)
	}

	return r.client.Close()
}
