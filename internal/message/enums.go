package message

import "fmt"

// RecorderType selects which output a start or stop command targets.
type RecorderType int

// Recorder types understood by the worker.
const (
	RecorderTypeVideo     RecorderType = 1
	RecorderTypeReplay    RecorderType = 2
	RecorderTypeStreaming RecorderType = 3
)

func (t RecorderType) String() string {
	switch t {
	case RecorderTypeVideo:
		return "video"
	case RecorderTypeReplay:
		return "replay"
	case RecorderTypeStreaming:
		return "streaming"
	default:
		return fmt.Sprintf("recorder_type(%d)", int(t))
	}
}

// ParseRecorderType converts a name produced by RecorderType.String back
// into a RecorderType.
func ParseRecorderType(s string) (RecorderType, error) {
	switch s {
	case "video":
		return RecorderTypeVideo, nil
	case "replay":
		return RecorderTypeReplay, nil
	case "streaming":
		return RecorderTypeStreaming, nil
	default:
		return 0, fmt.Errorf("unknown recorder type %q", s)
	}
}

// FlipType controls game capture flipping.
type FlipType uint8

// Flip types.
const (
	FlipNone       FlipType = 0
	FlipHorizontal FlipType = 1
	FlipVertical   FlipType = 2
)

// RateControlMode is the encoder rate control strategy.
type RateControlMode string

// Rate control modes.
const (
	RateControlCBR RateControlMode = "cbr"
	RateControlVBR RateControlMode = "vbr"
	RateControlCRF RateControlMode = "crf"
	RateControlCQP RateControlMode = "cqp"
)

// RateControlOption pairs a rate control mode with a display label.
type RateControlOption struct {
	Label string
	Value RateControlMode
}

// RateControlOptions lists every rate control mode, default first.
func RateControlOptions() []RateControlOption {
	return []RateControlOption{
		{Label: "Default (Constant Bitrate)", Value: RateControlCBR},
		{Label: "Variable Bitrate (VBR)", Value: RateControlVBR},
		{Label: "Constant Quality (CRF)", Value: RateControlCRF},
		{Label: "Constant Quantizer Parameter (CQP)", Value: RateControlCQP},
	}
}

// Valid reports whether m is a known mode.
func (m RateControlMode) Valid() bool {
	switch m {
	case RateControlCBR, RateControlVBR, RateControlCRF, RateControlCQP:
		return true
	default:
		return false
	}
}
