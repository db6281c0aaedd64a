package message

import "encoding/json"

// AudioDevice maps a device display name to its device id.
type AudioDevice map[string]string

// VideoEncoderInfo describes an encoder reported by the worker.
type VideoEncoderInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Valid       bool   `json:"valid"`
	Status      string `json:"status,omitempty"`
	Code        string `json:"code,omitempty"`
}

// MachineInfo is the payload of EvtQueryMachineInfo. The audio keys are
// misspelled on the wire.
type MachineInfo struct {
	AudioInputDevices     []AudioDevice      `json:"adio_in_devs"`
	AudioOutputDevices    []AudioDevice      `json:"adio_out_devs"`
	VideoEncoders         []VideoEncoderInfo `json:"vid_encs"`
	WinRTCaptureSupported bool               `json:"winrt_capture_supported"`
}

// ErrorEvent is the payload of EvtErr.
type ErrorEvent struct {
	Code int             `json:"code"`
	Desc string          `json:"desc,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// RecordingStartedEvent is the payload of EvtRecordingStarted.
type RecordingStartedEvent struct {
	Source          string `json:"source"`
	IsWindowCapture *bool  `json:"is_window_capture,omitempty"`
}

// StatsData carries frame statistics attached to stop events.
type StatsData struct {
	SystemInfo        json.RawMessage `json:"system_info,omitempty"`
	PercentageLagged  *int            `json:"percentage_lagged,omitempty"`
	Drawn             *uint32         `json:"drawn,omitempty"`
	Lagged            *uint32         `json:"lagged,omitempty"`
	Dropped           *int            `json:"dropped,omitempty"`
	TotalFrames       *int            `json:"total_frames,omitempty"`
	PercentageDropped *int            `json:"percentage_dropped,omitempty"`
}

// RecordingStoppedEvent is the payload of EvtRecordingStopped. Code is one
// of the Output* values; Duration is in milliseconds.
type RecordingStoppedEvent struct {
	Code         int        `json:"code"`
	LastError    string     `json:"last_error,omitempty"`
	Duration     int64      `json:"duration"`
	OutputWidth  *uint32    `json:"output_width,omitempty"`
	OutputHeight *uint32    `json:"output_height,omitempty"`
	StatsData    *StatsData `json:"stats_data,omitempty"`
}

// DisplaySourceChangedEvent is the payload of EvtDisplaySourceChanged.
type DisplaySourceChangedEvent struct {
	Source string `json:"source"`
}

// VideoFileSplitEvent is the payload of EvtVideoFileSplit.
type VideoFileSplitEvent struct {
	Duration          int64   `json:"duration"`
	SplitFileDuration int64   `json:"split_file_duration"`
	FramePTS          int64   `json:"frame_pts"`
	Count             int     `json:"count"`
	Path              string  `json:"path"`
	NextVideoPath     string  `json:"next_video_path"`
	OutputWidth       *uint32 `json:"output_width,omitempty"`
	OutputHeight      *uint32 `json:"output_height,omitempty"`
}

// ReplayStartedEvent is the payload of EvtReplayStarted.
type ReplayStartedEvent struct {
	Source          string `json:"source"`
	IsWindowCapture *bool  `json:"is_window_capture,omitempty"`
}

// ReplayStoppedEvent is the payload of EvtReplayStopped.
type ReplayStoppedEvent struct {
	Code      int        `json:"code"`
	LastError string     `json:"last_error,omitempty"`
	StatsData *StatsData `json:"stats_data,omitempty"`
}

// ReplayCaptureVideoReadyEvent is the payload of EvtReplayCaptureVideoReady.
// VideoStartTime is unix epoch milliseconds.
type ReplayCaptureVideoReadyEvent struct {
	Duration        int64   `json:"duration"`
	VideoStartTime  int64   `json:"video_start_time"`
	Path            string  `json:"path"`
	ThumbnailFolder string  `json:"thumbnail_folder"`
	OutputWidth     *uint32 `json:"output_width,omitempty"`
	OutputHeight    *uint32 `json:"output_height,omitempty"`
	Disconnection   bool    `json:"disconnection"`
}

// ReplayErrorEvent is the payload of EvtReplayError.
type ReplayErrorEvent struct {
	Code int    `json:"code"`
	Desc string `json:"desc,omitempty"`
	Path string `json:"path,omitempty"`
}

// StreamingStartedEvent is the payload of EvtStreamingStarted.
type StreamingStartedEvent struct {
	Source string `json:"source"`
}

// StreamingStoppedEvent is the payload of EvtStreamingStopped.
type StreamingStoppedEvent struct {
	Code      int        `json:"code"`
	LastError string     `json:"last_error,omitempty"`
	StatsData *StatsData `json:"stats_data,omitempty"`
}

// ObsWarningEvent is the payload of EvtObsWarning.
type ObsWarningEvent struct {
	Message string          `json:"message"`
	Extra   json.RawMessage `json:"extra,omitempty"`
}
