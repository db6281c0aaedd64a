// Package ascentobs drives the ascent-obs capture worker from Go.
//
// The worker is a separate process that reads newline-terminated JSON
// commands on stdin and writes a continuous stream of JSON notifications on
// stdout. This package spawns it, frames its output, and correlates
// notifications with the commands that caused them.
//
// # Recording
//
// For most uses, start a Recorder:
//
//	recorder, err := ascentobs.StartRecorder(ctx,
//	    ascentobs.WithLogger(slog.Default()),
//	    ascentobs.WithWorkerPath(`C:\Program Files\Ascent\obs\ascent-obs.exe`),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer recorder.Shutdown()
//
//	cfg := ascentobs.NewRecordingConfig("match.mp4", gamePID,
//	    ascentobs.WithFPS(30),
//	)
//
//	started, err := recorder.StartRecording(ctx, 101, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("capturing from", started.Source)
//
//	stopped, err := recorder.StopRecording(ctx, 101)
//
// # Low-level Client
//
// The Client exposes the raw command channel. Fire-and-forget commands
// return once queued; correlated calls wait for a notification carrying the
// same identifier:
//
//	err := ascentobs.WithClient(ctx, func(c ascentobs.Client) error {
//	    id := c.NextIdentifier()
//	    info, err := ascentobs.SendAndWait(ctx, c, ascentobs.CmdQueryMachineInfo, id, nil,
//	        5*time.Second, ascentobs.EvtQueryMachineInfo, nil,
//	        ascentobs.DecodePayload[ascentobs.MachineInfo])
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(len(info.VideoEncoders), "encoders")
//	    return nil
//	})
//
// # Error Handling
//
// All errors returned by this package implement ObsError. Use errors.As or
// errors.Is to inspect them:
//
//	var timeout *ascentobs.TimeoutError
//	if errors.As(err, &timeout) {
//	    // no reply for timeout.Identifier
//	}
//
//	if errors.Is(err, ascentobs.ErrManagerShutdown) {
//	    // the client is closing or the worker output ended
//	}
package ascentobs
