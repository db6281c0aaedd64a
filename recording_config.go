package ascentobs

import (
	"fmt"
	"path/filepath"

	"github.com/judehek/ascent-obs/internal/encoders"
	"github.com/judehek/ascent-obs/internal/message"
)

// Recording defaults applied by NewRecordingConfig.
const (
	DefaultEncoder    = "jim_nvenc"
	DefaultFPS        = 60
	DefaultWidth      = 1920
	DefaultHeight     = 1080
	DefaultSampleRate = 48000
)

// RecordingConfig describes a game recording in the handful of settings most
// callers need. StartPayload expands it into a full start command.
type RecordingConfig struct {
	// OutputFile is where the worker writes the video. Required.
	OutputFile string
	// GamePID is the process id of the game to capture. Required.
	GamePID int

	EncoderID     string
	FPS           uint32
	Width         uint32
	Height        uint32
	ShowCursor    bool
	SampleRate    uint32
	OnDemandSplit bool
}

// RecordingOption adjusts a RecordingConfig.
type RecordingOption func(*RecordingConfig)

// NewRecordingConfig creates a recording of gamePID into outputFile with the
// default encoder, 60 fps, 1920x1080, cursor shown, and 48 kHz audio.
func NewRecordingConfig(outputFile string, gamePID int, opts ...RecordingOption) *RecordingConfig {
	cfg := &RecordingConfig{
		OutputFile: outputFile,
		GamePID:    gamePID,
		EncoderID:  DefaultEncoder,
		FPS:        DefaultFPS,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		ShowCursor: true,
		SampleRate: DefaultSampleRate,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithEncoder sets the video encoder id, e.g. "obs_x264". Short aliases
// such as "nvenc", "amf", "qsv", and "x264" are accepted.
func WithEncoder(id string) RecordingOption {
	return func(c *RecordingConfig) {
		c.EncoderID = id
	}
}

// WithFPS sets the recording frame rate.
func WithFPS(fps uint32) RecordingOption {
	return func(c *RecordingConfig) {
		c.FPS = fps
	}
}

// WithResolution sets the output resolution.
func WithResolution(width, height uint32) RecordingOption {
	return func(c *RecordingConfig) {
		c.Width = width
		c.Height = height
	}
}

// WithCursor sets whether the game cursor is captured.
func WithCursor(show bool) RecordingOption {
	return func(c *RecordingConfig) {
		c.ShowCursor = show
	}
}

// WithSampleRate sets the audio sample rate in Hz.
func WithSampleRate(rate uint32) RecordingOption {
	return func(c *RecordingConfig) {
		c.SampleRate = rate
	}
}

// WithOnDemandSplit allows Recorder.SplitVideo on the recording.
func WithOnDemandSplit(enabled bool) RecordingOption {
	return func(c *RecordingConfig) {
		c.OnDemandSplit = enabled
	}
}

// Validate reports the first invalid field.
func (c *RecordingConfig) Validate() error {
	switch {
	case c.OutputFile == "":
		return fmt.Errorf("recording config: output file is required")
	case filepath.Ext(c.OutputFile) == "":
		return fmt.Errorf("recording config: output file %q has no extension", c.OutputFile)
	case c.GamePID <= 0:
		return fmt.Errorf("recording config: game pid must be positive, got %d", c.GamePID)
	case c.EncoderID == "":
		return fmt.Errorf("recording config: encoder is required")
	case c.FPS == 0:
		return fmt.Errorf("recording config: fps must be positive")
	case c.Width == 0 || c.Height == 0:
		return fmt.Errorf("recording config: resolution %dx%d is invalid", c.Width, c.Height)
	case c.SampleRate == 0:
		return fmt.Errorf("recording config: sample rate must be positive")
	}

	return nil
}

// StartPayload validates the config and builds the start command for a
// video recording of the game.
func (c *RecordingConfig) StartPayload() (*StartCommandPayload, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	payload := &message.StartCommandPayload{
		RecorderType: message.RecorderTypeVideo,
		VideoSettings: &message.VideoSettings{
			FPS:          message.Ptr(c.FPS),
			BaseWidth:    message.Ptr(c.Width),
			BaseHeight:   message.Ptr(c.Height),
			OutputWidth:  message.Ptr(c.Width),
			OutputHeight: message.Ptr(c.Height),
			GameCursor:   message.Ptr(c.ShowCursor),
			VideoEncoder: message.VideoEncoderSettings{ID: encoders.Resolve(c.EncoderID)},
		},
		AudioSettings: &message.AudioSettings{
			SampleRate: message.Ptr(c.SampleRate),
		},
		FileOutput: &message.FileOutputSettings{
			Filename: c.OutputFile,
		},
		Sources: &message.SceneSettings{
			Game: &message.GameSourceSettings{
				ProcessID:  message.Ptr(c.GamePID),
				Foreground: message.Ptr(true),
			},
		},
	}

	if c.OnDemandSplit {
		payload.FileOutput.EnableOnDemandSplitVideo = message.Ptr(true)
	}

	return payload, nil
}

// PreferredEncoder picks the best H.264 encoder the worker reported as
// usable, falling back to x264.
func PreferredEncoder(info *MachineInfo) string {
	if info == nil {
		return encoders.IDx264
	}

	return encoders.Preferred(info.VideoEncoders)
}

// EncoderDisplayName returns a readable name for an encoder id or alias.
func EncoderDisplayName(id string) string {
	return encoders.DisplayName(id)
}
