package message

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// EncoderSettings holds encoder-specific options keyed by OBS setting name.
type EncoderSettings map[string]any

// AudioDeviceSettings configures one audio device.
type AudioDeviceSettings struct {
	DeviceID        string  `json:"deviceId,omitempty"`
	Volume          *int    `json:"volume,omitempty"`
	Mono            *bool   `json:"mono,omitempty"`
	UseDeviceTiming *bool   `json:"use_device_timing,omitempty"`
	Name            string  `json:"name,omitempty"`
	Type            *int    `json:"type,omitempty"`
	Enable          *bool   `json:"enable,omitempty"`
	Tracks          *uint32 `json:"tracks,omitempty"`
}

// AudioProcessCaptureSettings captures audio from a single process.
type AudioProcessCaptureSettings struct {
	ProcessName string  `json:"processName"`
	Enable      *bool   `json:"enable,omitempty"`
	Mono        *bool   `json:"mono,omitempty"`
	Volume      *int    `json:"volume,omitempty"`
	Tracks      *uint32 `json:"tracks,omitempty"`
}

// AudioExtraOptions carries less common audio options.
type AudioExtraOptions struct {
	SeparateTracks       *bool                         `json:"separateTracks,omitempty"`
	AudioCaptureProcess  string                        `json:"audioCaptureProcess,omitempty"`
	AudioCaptureProcess2 []AudioProcessCaptureSettings `json:"audioCaptureProcess2,omitempty"`
	SampleRate           *uint32                       `json:"sampleRate,omitempty"`
	Tracks               *uint32                       `json:"tracks,omitempty"`
	AudioSources         []AudioDeviceSettings         `json:"audioSources,omitempty"`
}

// AudioSettings configures recording audio.
type AudioSettings struct {
	Output       *AudioDeviceSettings `json:"output,omitempty"`
	Input        *AudioDeviceSettings `json:"input,omitempty"`
	ExtraOptions *AudioExtraOptions   `json:"extra_options,omitempty"`
	SampleRate   *uint32              `json:"sample_rate,omitempty"`
	Mono         *bool                `json:"mono,omitempty"`
}

// VideoEncoderSettings names the encoder and carries its options. The
// options are written next to "id" rather than nested.
type VideoEncoderSettings struct {
	ID       string
	Settings EncoderSettings
}

// MarshalJSON implements json.Marshaler. Settings keys are written in sorted
// order after "id"; a settings key named "id" is ignored.
func (s VideoEncoderSettings) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	id, err := json.Marshal(s.ID)
	if err != nil {
		return nil, err
	}

	buf.WriteString(`{"id":`)
	buf.Write(id)

	for _, key := range slices.Sorted(maps.Keys(s.Settings)) {
		if key == "id" {
			continue
		}

		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}

		v, err := json.Marshal(s.Settings[key])
		if err != nil {
			return nil, fmt.Errorf("encoder setting %q: %w", key, err)
		}

		buf.WriteByte(',')
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *VideoEncoderSettings) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	id, _ := fields["id"].(string)
	delete(fields, "id")

	s.ID = id
	s.Settings = nil

	if len(fields) > 0 {
		s.Settings = EncoderSettings(fields)
	}

	return nil
}

// VideoExtraOptions carries less common video options.
type VideoExtraOptions struct {
	EncoderCustomParameters EncoderSettings `json:"encoderCustomParameters,omitempty"`
	CustomParameters        EncoderSettings `json:"customParameters,omitempty"`
	ColorSpace              string          `json:"colorSpace,omitempty"`
	ColorFormat             string          `json:"colorFormat,omitempty"`
	FragmentedVideoFile     *bool           `json:"fragmentedVideoFile,omitempty"`
}

// VideoSettings configures the video pipeline.
type VideoSettings struct {
	FPS               *uint32              `json:"fps,omitempty"`
	BaseWidth         *uint32              `json:"base_width,omitempty"`
	BaseHeight        *uint32              `json:"base_height,omitempty"`
	OutputWidth       *uint32              `json:"output_width,omitempty"`
	OutputHeight      *uint32              `json:"output_height,omitempty"`
	CompatibilityMode *bool                `json:"compatibility_mode,omitempty"`
	GameCursor        *bool                `json:"game_cursor,omitempty"`
	VideoEncoder      VideoEncoderSettings `json:"video_encoder"`
	ExtraOptions      *VideoExtraOptions   `json:"extra_options,omitempty"`
}

// FileOutputSettings configures the recording file. The worker spells the
// split flag "spilt" on the wire.
type FileOutputSettings struct {
	Filename                 string `json:"filename,omitempty"`
	MaxFileSizeBytes         *int64 `json:"maxFileSizeBytes,omitempty"`
	MaxTimeSec               *int64 `json:"maxTimeSec,omitempty"`
	EnableOnDemandSplitVideo *bool  `json:"enable_on_demand_spilt_video,omitempty"`
	IncludeFullVideo         *bool  `json:"includeFullVideo,omitempty"`
}

// MonitorSourceSettings configures display capture.
type MonitorSourceSettings struct {
	Enable        *bool  `json:"enable,omitempty"`
	Force         *bool  `json:"force,omitempty"`
	MonitorHandle *int64 `json:"monitorHandle,omitempty"`
	Cursor        *bool  `json:"cursor,omitempty"`
}

// WindowCaptureSourceSettings configures window capture.
type WindowCaptureSourceSettings struct {
	Enable       *bool  `json:"enable,omitempty"`
	WindowHandle *int64 `json:"windowHandle,omitempty"`
	Cursor       *bool  `json:"cursor,omitempty"`
}

// GameSourceSettings configures game capture. It is also the payload of
// CmdAddGameSource.
type GameSourceSettings struct {
	ProcessID         *int      `json:"processId,omitempty"`
	Foreground        *bool     `json:"foreground,omitempty"`
	AllowTransparency *bool     `json:"allowTransparency,omitempty"`
	FlipType          *FlipType `json:"flipType,omitempty"`
}

// BrbSourceSettings configures the "be right back" image. It is also the
// payload of CmdSetBrb.
type BrbSourceSettings struct {
	Path  string `json:"path,omitempty"`
	Color *int   `json:"color,omitempty"`
}

// AuxSourceParameter is one setting on an auxiliary source. Type is
// 0 for int, 1 for bool, 2 for string, 3 for double.
type AuxSourceParameter struct {
	Name  string `json:"name"`
	Type  int    `json:"type"`
	Value any    `json:"value"`
}

// AuxSourceSettings adds an arbitrary OBS source to the scene.
type AuxSourceSettings struct {
	SourceID      string               `json:"sourceId"`
	Name          string               `json:"name"`
	Parameters    []AuxSourceParameter `json:"parameters,omitempty"`
	Transform     string               `json:"transform,omitempty"`
	PosX          *float32             `json:"posx,omitempty"`
	PosY          *float32             `json:"posy,omitempty"`
	ScaleX        *float32             `json:"scalex,omitempty"`
	ScaleY        *float32             `json:"scaley,omitempty"`
	SecondaryFile *bool                `json:"secondaryFile,omitempty"`
}

// TobiiSourceSettings configures the gaze overlay. It is also the payload
// of CmdTobiiGaze.
type TobiiSourceSettings struct {
	Window  string `json:"window,omitempty"`
	Visible *bool  `json:"visible,omitempty"`
}

// SceneSettings describes every capture source in the scene. It travels
// under the "sources" key of a start command.
type SceneSettings struct {
	Monitor           *MonitorSourceSettings       `json:"monitor,omitempty"`
	WindowCapture     *WindowCaptureSourceSettings `json:"windowCapture,omitempty"`
	Game              *GameSourceSettings          `json:"game,omitempty"`
	Brb               *BrbSourceSettings           `json:"brb,omitempty"`
	AuxSources        []AuxSourceSettings          `json:"auxSources,omitempty"`
	Tobii             *TobiiSourceSettings         `json:"tobii,omitempty"`
	KeepGameRecording *bool                        `json:"keepGameRecording,omitempty"`
}

// ReplaySettings configures the replay buffer.
type ReplaySettings struct {
	MaxTimeSec *int64 `json:"maxTimeSec,omitempty"`
}

// StreamingSettings configures a streaming output.
type StreamingSettings struct {
	Type      string `json:"type,omitempty"`
	ServerURL string `json:"serverUrl,omitempty"`
	StreamKey string `json:"streamKey,omitempty"`
	UseAuth   *bool  `json:"useAuth,omitempty"`
	Username  string `json:"username,omitempty"`
	Password  string `json:"password,omitempty"`
}

// StartCommandPayload is the payload of CmdStart.
type StartCommandPayload struct {
	RecorderType  RecorderType        `json:"recorder_type"`
	VideoSettings *VideoSettings      `json:"video_settings,omitempty"`
	AudioSettings *AudioSettings      `json:"audio_settings,omitempty"`
	FileOutput    *FileOutputSettings `json:"file_output,omitempty"`
	Sources       *SceneSettings      `json:"sources,omitempty"`
	Replay        *ReplaySettings     `json:"replay,omitempty"`
	Streaming     *StreamingSettings  `json:"streaming,omitempty"`
}

// StopCommandPayload is the payload of CmdStop.
type StopCommandPayload struct {
	RecorderType RecorderType `json:"recorder_type"`
}

// SetVolumeCommandPayload is the payload of CmdSetVolume.
type SetVolumeCommandPayload struct {
	AudioSettings *AudioSettings `json:"audio_settings,omitempty"`
}

// GameFocusChangedCommandPayload is the payload of CmdGameFocusChanged.
type GameFocusChangedCommandPayload struct {
	GameForeground bool  `json:"game_foreground"`
	IsMinimized    *bool `json:"is_minimized,omitempty"`
}

// StartReplayCaptureCommandPayload is the payload of CmdStartReplayCapture.
// HeadDuration is in milliseconds from the head of the buffer.
type StartReplayCaptureCommandPayload struct {
	HeadDuration    int64  `json:"head_duration"`
	Path            string `json:"path"`
	ThumbnailFolder string `json:"thumbnail_folder,omitempty"`
}

// Ptr returns a pointer to v, for filling optional settings fields.
func Ptr[T any](v T) *T {
	return &v
}
