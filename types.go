package ascentobs

import (
	"github.com/judehek/ascent-obs/internal/client"
	"github.com/judehek/ascent-obs/internal/config"
	"github.com/judehek/ascent-obs/internal/message"
	"github.com/judehek/ascent-obs/internal/protocol"
)

// Re-export types from internal packages

// ===== Options and Wire Types =====

// Options configures the worker connection.
type Options = config.Options

// Notification is one decoded unit of worker output.
type Notification = message.Notification

// Callback observes notifications of one event type. Callbacks run on the
// event loop and must not block.
type Callback = protocol.Callback

// WaitSpec describes the notification a correlated call waits for.
type WaitSpec = client.WaitSpec

// ===== Command Payloads =====

// StartCommandPayload is the payload of CmdStart.
type StartCommandPayload = message.StartCommandPayload

// StopCommandPayload is the payload of CmdStop.
type StopCommandPayload = message.StopCommandPayload

// SetVolumeCommandPayload is the payload of CmdSetVolume.
type SetVolumeCommandPayload = message.SetVolumeCommandPayload

// GameFocusChangedCommandPayload is the payload of CmdGameFocusChanged.
type GameFocusChangedCommandPayload = message.GameFocusChangedCommandPayload

// StartReplayCaptureCommandPayload is the payload of CmdStartReplayCapture.
type StartReplayCaptureCommandPayload = message.StartReplayCaptureCommandPayload

// ===== Settings =====

type (
	// EncoderSettings holds encoder-specific options.
	EncoderSettings = message.EncoderSettings
	// AudioDeviceSettings configures one audio device.
	AudioDeviceSettings = message.AudioDeviceSettings
	// AudioProcessCaptureSettings captures audio from a single process.
	AudioProcessCaptureSettings = message.AudioProcessCaptureSettings
	// AudioExtraOptions carries less common audio options.
	AudioExtraOptions = message.AudioExtraOptions
	// AudioSettings configures recording audio.
	AudioSettings = message.AudioSettings
	// VideoEncoderSettings names the encoder and carries its options.
	VideoEncoderSettings = message.VideoEncoderSettings
	// VideoExtraOptions carries less common video options.
	VideoExtraOptions = message.VideoExtraOptions
	// VideoSettings configures the video pipeline.
	VideoSettings = message.VideoSettings
	// FileOutputSettings configures the recording file.
	FileOutputSettings = message.FileOutputSettings
	// MonitorSourceSettings configures display capture.
	MonitorSourceSettings = message.MonitorSourceSettings
	// WindowCaptureSourceSettings configures window capture.
	WindowCaptureSourceSettings = message.WindowCaptureSourceSettings
	// GameSourceSettings configures game capture.
	GameSourceSettings = message.GameSourceSettings
	// BrbSourceSettings configures the "be right back" image.
	BrbSourceSettings = message.BrbSourceSettings
	// AuxSourceParameter is one setting on an auxiliary source.
	AuxSourceParameter = message.AuxSourceParameter
	// AuxSourceSettings adds an arbitrary OBS source to the scene.
	AuxSourceSettings = message.AuxSourceSettings
	// TobiiSourceSettings configures the gaze overlay.
	TobiiSourceSettings = message.TobiiSourceSettings
	// SceneSettings describes every capture source in the scene.
	SceneSettings = message.SceneSettings
	// ReplaySettings configures the replay buffer.
	ReplaySettings = message.ReplaySettings
	// StreamingSettings configures a streaming output.
	StreamingSettings = message.StreamingSettings
	// RecorderType selects which output a start or stop command targets.
	RecorderType = message.RecorderType
	// FlipType controls game capture flipping.
	FlipType = message.FlipType
	// RateControlMode is the encoder rate control strategy.
	RateControlMode = message.RateControlMode
)

// ===== Event Payloads =====

type (
	// AudioDevice maps a device name to its id.
	AudioDevice = message.AudioDevice
	// VideoEncoderInfo describes an encoder reported by the worker.
	VideoEncoderInfo = message.VideoEncoderInfo
	// MachineInfo is the payload of EvtQueryMachineInfo.
	MachineInfo = message.MachineInfo
	// ErrorEvent is the payload of EvtErr.
	ErrorEvent = message.ErrorEvent
	// RecordingStartedEvent is the payload of EvtRecordingStarted.
	RecordingStartedEvent = message.RecordingStartedEvent
	// StatsData carries frame statistics attached to stop events.
	StatsData = message.StatsData
	// RecordingStoppedEvent is the payload of EvtRecordingStopped.
	RecordingStoppedEvent = message.RecordingStoppedEvent
	// DisplaySourceChangedEvent is the payload of EvtDisplaySourceChanged.
	DisplaySourceChangedEvent = message.DisplaySourceChangedEvent
	// VideoFileSplitEvent is the payload of EvtVideoFileSplit.
	VideoFileSplitEvent = message.VideoFileSplitEvent
	// ReplayStartedEvent is the payload of EvtReplayStarted.
	ReplayStartedEvent = message.ReplayStartedEvent
	// ReplayStoppedEvent is the payload of EvtReplayStopped.
	ReplayStoppedEvent = message.ReplayStoppedEvent
	// ReplayCaptureVideoReadyEvent is the payload of EvtReplayCaptureVideoReady.
	ReplayCaptureVideoReadyEvent = message.ReplayCaptureVideoReadyEvent
	// ReplayErrorEvent is the payload of EvtReplayError.
	ReplayErrorEvent = message.ReplayErrorEvent
	// StreamingStartedEvent is the payload of EvtStreamingStarted.
	StreamingStartedEvent = message.StreamingStartedEvent
	// StreamingStoppedEvent is the payload of EvtStreamingStopped.
	StreamingStoppedEvent = message.StreamingStoppedEvent
	// ObsWarningEvent is the payload of EvtObsWarning.
	ObsWarningEvent = message.ObsWarningEvent
)

// ===== Codes =====

// Recorder types understood by the worker.
const (
	RecorderTypeVideo     = message.RecorderTypeVideo
	RecorderTypeReplay    = message.RecorderTypeReplay
	RecorderTypeStreaming = message.RecorderTypeStreaming
)

// Command identifiers.
const (
	CmdShutdown           = message.CmdShutdown
	CmdQueryMachineInfo   = message.CmdQueryMachineInfo
	CmdStart              = message.CmdStart
	CmdStop               = message.CmdStop
	CmdSetVolume          = message.CmdSetVolume
	CmdGameFocusChanged   = message.CmdGameFocusChanged
	CmdAddGameSource      = message.CmdAddGameSource
	CmdStartReplayCapture = message.CmdStartReplayCapture
	CmdStopReplayCapture  = message.CmdStopReplayCapture
	CmdTobiiGaze          = message.CmdTobiiGaze
	CmdSetBrb             = message.CmdSetBrb
	CmdSplitVideo         = message.CmdSplitVideo
)

// Event identifiers.
const (
	EvtQueryMachineInfo          = message.EvtQueryMachineInfo
	EvtErr                       = message.EvtErr
	EvtReady                     = message.EvtReady
	EvtRecordingStarted          = message.EvtRecordingStarted
	EvtRecordingStopping         = message.EvtRecordingStopping
	EvtRecordingStopped          = message.EvtRecordingStopped
	EvtDisplaySourceChanged      = message.EvtDisplaySourceChanged
	EvtVideoFileSplit            = message.EvtVideoFileSplit
	EvtReplayStarted             = message.EvtReplayStarted
	EvtReplayStopping            = message.EvtReplayStopping
	EvtReplayStopped             = message.EvtReplayStopped
	EvtReplayArmed               = message.EvtReplayArmed
	EvtReplayCaptureVideoStarted = message.EvtReplayCaptureVideoStarted
	EvtReplayCaptureVideoReady   = message.EvtReplayCaptureVideoReady
	EvtReplayError               = message.EvtReplayError
	EvtStreamingStarting         = message.EvtStreamingStarting
	EvtStreamingStarted          = message.EvtStreamingStarted
	EvtStreamingStopping         = message.EvtStreamingStopping
	EvtStreamingStopped          = message.EvtStreamingStopped
	EvtSwitchableDeviceDetected  = message.EvtSwitchableDeviceDetected
	EvtObsWarning                = message.EvtObsWarning
)

// EventName returns a stable snake_case name for an event code.
func EventName(event int) string {
	return message.EventName(event)
}

// Ptr returns a pointer to v, for filling optional settings fields.
func Ptr[T any](v T) *T {
	return message.Ptr(v)
}
