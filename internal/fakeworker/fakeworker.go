// Package fakeworker is a scripted stand-in for the ascent-obs worker used by
// tests. A test binary re-executes itself with EnvVar set and calls Run from
// TestMain, giving end-to-end tests a real child process that speaks the
// worker protocol without OBS.
package fakeworker

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/judehek/ascent-obs/internal/message"
)

// EnvVar switches a test binary into fake worker mode.
const EnvVar = "ASCENT_OBS_FAKE_WORKER"

// Modes selected through the value of EnvVar.
const (
	// ModeNormal answers commands the way the real worker does.
	ModeNormal = "normal"
	// ModeSilent reads commands but never answers.
	ModeSilent = "silent"
	// ModeNoisy prefixes every answer with malformed output.
	ModeNoisy = "noisy"
	// ModeCrash exits with status 3 after the first command.
	ModeCrash = "crash"
)

// Enabled reports whether the current process should act as a fake worker.
func Enabled() bool {
	return os.Getenv(EnvVar) != ""
}

// Main runs the fake worker on the process stdio and exits.
func Main() {
	os.Exit(Run(os.Getenv(EnvVar), os.Stdin, os.Stdout, os.Stderr))
}

// Env returns the environment entries that select mode in a child process.
func Env(mode string) map[string]string {
	return map[string]string{EnvVar: mode}
}

type incoming struct {
	Cmd        int             `json:"cmd"`
	Identifier *int            `json:"identifier"`
	FileOutput json.RawMessage `json:"file_output"`
	Recorder   int             `json:"recorder_type"`
}

// Run serves commands from stdin until end of input or CmdShutdown and
// returns the exit status.
func Run(mode string, stdin io.Reader, stdout, stderr io.Writer) int {
	fmt.Fprintln(stderr, "fake worker ready")
	fmt.Fprintln(stderr, "   ")

	scanner := bufio.NewScanner(stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		var cmd incoming
		if err := json.Unmarshal(scanner.Bytes(), &cmd); err != nil {
			fmt.Fprintf(stderr, "bad command: %v\n", err)

			continue
		}

		switch mode {
		case ModeSilent:
			if cmd.Cmd == message.CmdShutdown {
				return 0
			}

			continue
		case ModeCrash:
			fmt.Fprintln(stderr, "fatal: simulated crash")

			return 3
		case ModeNoisy:
			_, _ = io.WriteString(stdout, "garbage}")
		}

		if cmd.Cmd == message.CmdShutdown {
			return 0
		}

		for _, out := range respond(cmd) {
			// Split each value in two writes to exercise reassembly.
			half := len(out) / 2
			_, _ = stdout.Write(out[:half])
			_, _ = stdout.Write(out[half:])
		}
	}

	return 0
}

func respond(cmd incoming) [][]byte {
	id := cmd.Identifier

	switch cmd.Cmd {
	case message.CmdQueryMachineInfo:
		return encode(message.EvtQueryMachineInfo, id, message.MachineInfo{
			AudioInputDevices:  []message.AudioDevice{{"Microphone": "mic-1"}},
			AudioOutputDevices: []message.AudioDevice{{"Speakers": "spk-1"}},
			VideoEncoders: []message.VideoEncoderInfo{
				{Type: "jim_nvenc", Description: "NVIDIA NVENC H.264", Valid: true},
				{Type: "obs_x264", Description: "x264", Valid: true},
			},
			WinRTCaptureSupported: true,
		})

	case message.CmdStart:
		if message.RecorderType(cmd.Recorder) == message.RecorderTypeVideo && len(cmd.FileOutput) == 0 {
			return encode(message.EvtErr, id, message.ErrorEvent{
				Code: message.InitErrorMissingParam,
				Desc: "missing file_output",
			})
		}

		started := message.EvtRecordingStarted

		switch message.RecorderType(cmd.Recorder) {
		case message.RecorderTypeReplay:
			started = message.EvtReplayStarted
		case message.RecorderTypeStreaming:
			started = message.EvtStreamingStarted
		}

		out := encode(message.EvtReady, id, nil)

		return append(out, encode(started, id, message.RecordingStartedEvent{Source: "Game Capture"})...)

	case message.CmdStop:
		out := encode(message.EvtRecordingStopping, id, nil)

		return append(out, encode(message.EvtRecordingStopped, id, message.RecordingStoppedEvent{
			Code:     message.OutputSuccess,
			Duration: 1500,
		})...)

	case message.CmdSplitVideo:
		return encode(message.EvtVideoFileSplit, id, message.VideoFileSplitEvent{
			Duration:          1000,
			SplitFileDuration: 1000,
			Count:             1,
			Path:              "part-1.mp4",
			NextVideoPath:     "part-2.mp4",
		})

	case message.CmdStopReplayCapture:
		return encode(message.EvtReplayError, id, message.ReplayErrorEvent{
			Code: message.ReplayErrorStopCaptureNoCapture,
			Desc: "no capture in progress",
		})

	default:
		return nil
	}
}

func encode(event int, id *int, payload any) [][]byte {
	n := message.Notification{Event: event, Identifier: id}

	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			panic(err)
		}

		n.Payload = raw
	}

	out, err := json.Marshal(n)
	if err != nil {
		panic(err)
	}

	return [][]byte{out}
}
