package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"

	ascentobs "github.com/judehek/ascent-obs"
	"github.com/judehek/ascent-obs/internal/encoders"
	"github.com/judehek/ascent-obs/internal/history"
)

// stopTimeout bounds the stop request after the recording context ends.
const stopTimeout = 30 * time.Second

type recordFlags struct {
	gamePID  int
	output   string
	encoder  string
	duration time.Duration
	id       int
}

func newRecordCommand(ctx *commandContext) *cobra.Command {
	var flags recordFlags

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a game until interrupted or for a fixed duration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecord(cmd, ctx, flags)
		},
	}

	cmd.Flags().IntVar(&flags.gamePID, "game-pid", 0, "Process id of the game to capture")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file (default: a new file in recording.output_dir)")
	cmd.Flags().StringVar(&flags.encoder, "encoder", "", `Encoder id or alias; "auto" picks the best available`)
	cmd.Flags().DurationVar(&flags.duration, "duration", 0, "Stop after this long (default: until interrupted)")
	cmd.Flags().IntVar(&flags.id, "id", 1, "Recording identifier sent to the worker")
	_ = cmd.MarkFlagRequired("game-pid")

	return cmd
}

func runRecord(cmd *cobra.Command, ctx *commandContext, flags recordFlags) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Paths.LockFile), 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}

	lock := flock.New(cfg.Paths.LockFile)

	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}

	if !locked {
		return errors.New("another ascentobs recording is already running")
	}
	defer lock.Unlock()

	store, err := ctx.openHistory(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	recorder, log, err := ctx.startRecorder(cmd.Context())
	if err != nil {
		return err
	}
	defer recorder.Shutdown()

	entryID := ulid.Make().String()

	output := strings.TrimSpace(flags.output)
	if output == "" {
		output = filepath.Join(cfg.Recording.OutputDir, entryID+".mp4")
	}

	encoder := flags.encoder
	if encoder == "" {
		encoder = cfg.Recording.Encoder
	}

	if encoder == "auto" {
		info, err := recorder.QueryMachineInfo(cmd.Context())
		if err != nil {
			return fmt.Errorf("query machine info: %w", err)
		}

		encoder = ascentobs.PreferredEncoder(info)
		log.Info("Selected encoder", "encoder", encoder)
	}

	encoder = encoders.Resolve(encoder)

	recording := ascentobs.NewRecordingConfig(output, flags.gamePID,
		ascentobs.WithEncoder(encoder),
		ascentobs.WithFPS(uint32(cfg.Recording.FPS)),
		ascentobs.WithResolution(uint32(cfg.Recording.Width), uint32(cfg.Recording.Height)),
		ascentobs.WithCursor(cfg.Recording.Cursor),
		ascentobs.WithSampleRate(uint32(cfg.Recording.SampleRate)),
		ascentobs.WithOnDemandSplit(cfg.Recording.OnDemandSplit),
	)

	entry := history.Entry{
		ID:         entryID,
		Identifier: flags.id,
		OutputFile: output,
		Encoder:    encoder,
		GamePID:    flags.gamePID,
		StartedAt:  time.Now(),
	}

	workerStopped := make(chan ascentobs.RecordingStoppedEvent, 1)
	if err := recorder.OnRecordingStopped(cmd.Context(), func(id *int, event ascentobs.RecordingStoppedEvent) {
		if id != nil && *id == flags.id {
			select {
			case workerStopped <- event:
			default:
			}
		}
	}); err != nil {
		return err
	}

	started, err := recorder.StartRecording(cmd.Context(), flags.id, recording)
	if err != nil {
		entry.Error = err.Error()
		recordHistory(cmd.Context(), log, store, entry)

		return fmt.Errorf("start recording: %w", err)
	}

	entry.Source = started.Source
	recordHistory(cmd.Context(), log, store, entry)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Recording %s (source: %s)\n", output, started.Source)

	stopped, err := waitAndStop(cmd.Context(), recorder, flags, workerStopped)
	entry.StoppedAt = time.Now()

	if err != nil {
		entry.Error = err.Error()
		recordHistory(context.WithoutCancel(cmd.Context()), log, store, entry)

		return fmt.Errorf("stop recording: %w", err)
	}

	entry.DurationMS = stopped.Duration
	entry.StopCode = stopped.Code
	entry.Error = stopped.LastError
	recordHistory(context.WithoutCancel(cmd.Context()), log, store, entry)

	fmt.Fprintf(out, "Stopped after %s\n", time.Duration(stopped.Duration)*time.Millisecond)

	return nil
}

// waitAndStop blocks until the duration passes, the command is interrupted,
// or the worker ends the recording on its own.
func waitAndStop(
	ctx context.Context,
	recorder *ascentobs.Recorder,
	flags recordFlags,
	workerStopped <-chan ascentobs.RecordingStoppedEvent,
) (*ascentobs.RecordingStoppedEvent, error) {
	var timer <-chan time.Time

	if flags.duration > 0 {
		t := time.NewTimer(flags.duration)
		defer t.Stop()

		timer = t.C
	}

	select {
	case <-timer:
	case <-ctx.Done():
	case event := <-workerStopped:
		return &event, nil
	case <-recorder.Done():
		return nil, fmt.Errorf("worker exited: %w", recorder.Err())
	}

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), stopTimeout)
	defer cancel()

	return recorder.StopRecording(stopCtx, flags.id)
}

func recordHistory(ctx context.Context, log *slog.Logger, store *history.Store, entry history.Entry) {
	if err := store.Record(ctx, entry); err != nil {
		log.Warn("Failed to record history", "entry_id", entry.ID, "error", err)
	}
}
