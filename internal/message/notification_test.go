package message

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotification_Unmarshal(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		wantErr     string
		wantEvent   int
		wantID      *int
		wantPayload string
	}{
		{
			name:      "event only",
			data:      `{"event":3}`,
			wantEvent: EvtReady,
		},
		{
			name:      "event and identifier",
			data:      `{"event":4,"identifier":42}`,
			wantEvent: EvtRecordingStarted,
			wantID:    Ptr(42),
		},
		{
			name:        "flattened payload",
			data:        `{"event":2,"identifier":5,"code":-6,"desc":"unsupported encoder"}`,
			wantEvent:   EvtErr,
			wantID:      Ptr(5),
			wantPayload: `{"code":-6,"desc":"unsupported encoder"}`,
		},
		{
			name:      "null identifier treated as absent",
			data:      `{"event":21,"identifier":null}`,
			wantEvent: EvtObsWarning,
		},
		{
			name:    "missing event",
			data:    `{"identifier":1}`,
			wantErr: "missing 'event'",
		},
		{
			name:    "null event",
			data:    `{"event":null}`,
			wantErr: "'event' field is null",
		},
		{
			name:    "string event",
			data:    `{"event":"ready"}`,
			wantErr: "'event' field",
		},
		{
			name:    "fractional identifier",
			data:    `{"event":1,"identifier":1.5}`,
			wantErr: "'identifier' field",
		},
		{
			name:    "not an object",
			data:    `[1,2,3]`,
			wantErr: "cannot unmarshal array",
		},
		{
			name:    "null document",
			data:    `null`,
			wantErr: "missing 'event'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Notification

			err := json.Unmarshal([]byte(tt.data), &n)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.wantEvent, n.Event)
			require.Equal(t, tt.wantID, n.Identifier)

			if tt.wantPayload == "" {
				require.False(t, n.HasPayload())
			} else {
				require.JSONEq(t, tt.wantPayload, string(n.Payload))
			}
		})
	}
}

func TestNotification_MarshalFlattens(t *testing.T) {
	n := Notification{
		Event:      EvtRecordingStopped,
		Identifier: Ptr(9),
		Payload:    json.RawMessage(`{"code":0,"duration":1500}`),
	}

	out, err := json.Marshal(n)
	require.NoError(t, err)
	require.Equal(t, `{"event":6,"identifier":9,"code":0,"duration":1500}`, string(out))

	var back Notification
	require.NoError(t, json.Unmarshal(out, &back))
	require.Equal(t, n.Event, back.Event)
	require.Equal(t, n.Identifier, back.Identifier)
	require.JSONEq(t, string(n.Payload), string(back.Payload))
}

func TestNotification_Decode(t *testing.T) {
	var n Notification
	require.NoError(t, json.Unmarshal(
		[]byte(`{"event":6,"identifier":1,"code":-7,"last_error":"disk full","duration":30000,"stats_data":{"dropped":3}}`),
		&n,
	))

	stopped, ok, err := DecodePayload[RecordingStoppedEvent](&n)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, OutputNoSpace, stopped.Code)
	require.Equal(t, "disk full", stopped.LastError)
	require.EqualValues(t, 30000, stopped.Duration)
	require.NotNil(t, stopped.StatsData)
	require.Equal(t, 3, *stopped.StatsData.Dropped)

	empty := &Notification{Event: EvtReady}
	_, ok, err = DecodePayload[RecordingStoppedEvent](empty)
	require.NoError(t, err)
	require.False(t, ok)

	bad := &Notification{Event: EvtErr, Payload: json.RawMessage(`{"code":"x"}`)}
	_, ok, err = DecodePayload[ErrorEvent](bad)
	require.True(t, ok)
	require.ErrorContains(t, err, "decode event 2 payload")
}

func TestNotification_MachineInfoWireNames(t *testing.T) {
	var n Notification
	require.NoError(t, json.Unmarshal([]byte(`{
		"event": 1,
		"identifier": 1,
		"adio_in_devs": [{"Microphone": "mic-1"}],
		"adio_out_devs": [{"Speakers": "spk-1"}],
		"vid_encs": [{"type": "jim_nvenc", "description": "NVENC", "valid": true}],
		"winrt_capture_supported": true
	}`), &n))

	info, ok, err := DecodePayload[MachineInfo](&n)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "mic-1", info.AudioInputDevices[0]["Microphone"])
	require.Equal(t, "spk-1", info.AudioOutputDevices[0]["Speakers"])
	require.Equal(t, "jim_nvenc", info.VideoEncoders[0].Type)
	require.True(t, info.WinRTCaptureSupported)
}

func TestNotification_CloneIsIndependent(t *testing.T) {
	orig := &Notification{Event: 1, Identifier: Ptr(4), Payload: json.RawMessage(`{"a":1}`)}
	c := orig.Clone()

	*c.Identifier = 5
	c.Payload[2] = 'b'

	require.Equal(t, 4, *orig.Identifier)
	require.Equal(t, `{"a":1}`, string(orig.Payload))
	require.Nil(t, (*Notification)(nil).Clone())
}

func TestEventName(t *testing.T) {
	require.Equal(t, "recording_stopped", EventName(EvtRecordingStopped))
	require.Equal(t, "unknown", EventName(99))
}

func TestRecorderType_StringAndParse(t *testing.T) {
	for _, rt := range []RecorderType{RecorderTypeVideo, RecorderTypeReplay, RecorderTypeStreaming} {
		parsed, err := ParseRecorderType(rt.String())
		require.NoError(t, err)
		require.Equal(t, rt, parsed)
	}

	_, err := ParseRecorderType("vhs")
	require.Error(t, err)
	require.Equal(t, "recorder_type(9)", RecorderType(9).String())
}

func TestRateControlOptions(t *testing.T) {
	opts := RateControlOptions()

	require.Len(t, opts, 4)
	require.Equal(t, RateControlCBR, opts[0].Value)
	require.Equal(t, "Default (Constant Bitrate)", opts[0].Label)

	for _, o := range opts {
		require.True(t, o.Value.Valid())
	}

	require.False(t, RateControlMode("abr").Valid())
}
