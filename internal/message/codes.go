package message

// Command identifiers.
const (
	CmdShutdown           = 1
	CmdQueryMachineInfo   = 2
	CmdStart              = 3
	CmdStop               = 4
	CmdSetVolume          = 5
	CmdGameFocusChanged   = 6
	CmdAddGameSource      = 7
	CmdStartReplayCapture = 8
	CmdStopReplayCapture  = 9
	CmdTobiiGaze          = 10
	CmdSetBrb             = 11
	CmdSplitVideo         = 12
)

// Event identifiers.
const (
	EvtQueryMachineInfo          = 1
	EvtErr                       = 2
	EvtReady                     = 3
	EvtRecordingStarted          = 4
	EvtRecordingStopping         = 5
	EvtRecordingStopped          = 6
	EvtDisplaySourceChanged      = 7
	EvtVideoFileSplit            = 8
	EvtReplayStarted             = 9
	EvtReplayStopping            = 10
	EvtReplayStopped             = 11
	EvtReplayArmed               = 12
	EvtReplayCaptureVideoStarted = 13
	EvtReplayCaptureVideoReady   = 14
	EvtReplayError               = 15
	EvtStreamingStarting         = 16
	EvtStreamingStarted          = 17
	EvtStreamingStopping         = 18
	EvtStreamingStopped          = 19
	EvtSwitchableDeviceDetected  = 20
	EvtObsWarning                = 21
)

// Start failures reported in the code field of an EvtErr payload.
const (
	InitErrorCurrentlyActive                  = -1
	InitErrorFailedToInit                     = -2
	InitErrorFailedToCreateScene              = -3
	InitErrorFailedToCreateSources            = -4
	InitErrorMissingParam                     = -5
	InitErrorUnsupportedVideoEncoder          = -6
	InitErrorFailedCreatingOutputFile         = -7
	InitErrorFailedCreatingVidEncoder         = -8
	InitErrorFailedCreatingAudEncoder         = -9
	InitErrorFailedStartingUpdateDriverError  = -10
	InitErrorFailedCreatingOutputAlreadyExist = -11
	InitErrorFailedCreatingOutputSignals      = -12
	InitErrorFailedStartingOutputRunning      = -13
	InitErrorFailedUnsupportedRecordingType   = -14
	InitErrorReplayStartError                 = -15
	InitErrorStreamStartNoServiceError        = -16
	InitErrorFailedStartingOutputWithObsError = -17
	InitErrorGameInjectionError               = -18
)

// Replay buffer failures.
const (
	ReplayErrorOffline                   = -1
	ReplayErrorStartCaptureObsError      = -2
	ReplayErrorStartCaptureAlreadyActive = -3
	ReplayErrorStopCaptureNoCapture      = -4
	ReplayErrorStopCaptureObsError       = -5
	ReplayErrorReplayObsError            = -6
	ReplayErrorReplayOfflineDelay        = -7
)

// Output stop codes.
const (
	OutputSuccess       = 0
	OutputBadPath       = -1
	OutputConnectFailed = -2
	OutputInvalidStream = -3
	OutputError         = -4
	OutputDisconnected  = -5
	OutputUnsupported   = -6
	OutputNoSpace       = -7
	OutputEncodeError   = -8
)

// Video subsystem codes.
const (
	VideoSuccess         = 0
	VideoFail            = -1
	VideoNotSupported    = -2
	VideoInvalidParam    = -3
	VideoCurrentlyActive = -4
	VideoModuleNotFound  = -5
)

// Audio track bitmask values.
const (
	AudioTrack1   uint32 = 1 << 0
	AudioTrack2   uint32 = 1 << 1
	AudioTrack3   uint32 = 1 << 2
	AudioTrack4   uint32 = 1 << 3
	AudioTrack5   uint32 = 1 << 4
	AudioTrack6   uint32 = 1 << 5
	AudioTrackAll uint32 = 0xFF
)

var eventNames = map[int]string{
	EvtQueryMachineInfo:          "query_machine_info",
	EvtErr:                       "error",
	EvtReady:                     "ready",
	EvtRecordingStarted:          "recording_started",
	EvtRecordingStopping:         "recording_stopping",
	EvtRecordingStopped:          "recording_stopped",
	EvtDisplaySourceChanged:      "display_source_changed",
	EvtVideoFileSplit:            "video_file_split",
	EvtReplayStarted:             "replay_started",
	EvtReplayStopping:            "replay_stopping",
	EvtReplayStopped:             "replay_stopped",
	EvtReplayArmed:               "replay_armed",
	EvtReplayCaptureVideoStarted: "replay_capture_video_started",
	EvtReplayCaptureVideoReady:   "replay_capture_video_ready",
	EvtReplayError:               "replay_error",
	EvtStreamingStarting:         "streaming_starting",
	EvtStreamingStarted:          "streaming_started",
	EvtStreamingStopping:         "streaming_stopping",
	EvtStreamingStopped:          "streaming_stopped",
	EvtSwitchableDeviceDetected:  "switchable_device_detected",
	EvtObsWarning:                "obs_warning",
}

// EventName returns a stable snake_case name for an event code, used in
// log attributes. Unknown codes yield "unknown".
func EventName(event int) string {
	if name, ok := eventNames[event]; ok {
		return name
	}

	return "unknown"
}
