package ascentobs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRecordingConfig_Defaults(t *testing.T) {
	cfg := NewRecordingConfig("out.mp4", 1234)

	require.Equal(t, DefaultEncoder, cfg.EncoderID)
	require.EqualValues(t, DefaultFPS, cfg.FPS)
	require.EqualValues(t, DefaultWidth, cfg.Width)
	require.EqualValues(t, DefaultHeight, cfg.Height)
	require.True(t, cfg.ShowCursor)
	require.EqualValues(t, DefaultSampleRate, cfg.SampleRate)
	require.False(t, cfg.OnDemandSplit)
	require.NoError(t, cfg.Validate())
}

func TestRecordingConfig_StartPayload(t *testing.T) {
	cfg := NewRecordingConfig("C:/videos/match.mp4", 4242,
		WithEncoder("obs_x264"),
		WithFPS(30),
		WithResolution(1280, 720),
		WithCursor(false),
		WithSampleRate(44100),
		WithOnDemandSplit(true),
	)

	payload, err := cfg.StartPayload()
	require.NoError(t, err)

	require.Equal(t, RecorderTypeVideo, payload.RecorderType)
	require.Equal(t, "obs_x264", payload.VideoSettings.VideoEncoder.ID)
	require.EqualValues(t, 30, *payload.VideoSettings.FPS)
	require.EqualValues(t, 1280, *payload.VideoSettings.OutputWidth)
	require.EqualValues(t, 720, *payload.VideoSettings.BaseHeight)
	require.False(t, *payload.VideoSettings.GameCursor)
	require.EqualValues(t, 44100, *payload.AudioSettings.SampleRate)
	require.Equal(t, "C:/videos/match.mp4", payload.FileOutput.Filename)
	require.True(t, *payload.FileOutput.EnableOnDemandSplitVideo)
	require.Equal(t, 4242, *payload.Sources.Game.ProcessID)
	require.True(t, *payload.Sources.Game.Foreground)
}

func TestRecordingConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *RecordingConfig
		wantErr string
	}{
		{
			name:    "missing output",
			cfg:     NewRecordingConfig("", 1),
			wantErr: "output file is required",
		},
		{
			name:    "no extension",
			cfg:     NewRecordingConfig("capture", 1),
			wantErr: "no extension",
		},
		{
			name:    "bad pid",
			cfg:     NewRecordingConfig("out.mp4", 0),
			wantErr: "game pid",
		},
		{
			name:    "empty encoder",
			cfg:     NewRecordingConfig("out.mp4", 1, WithEncoder("")),
			wantErr: "encoder",
		},
		{
			name:    "zero fps",
			cfg:     NewRecordingConfig("out.mp4", 1, WithFPS(0)),
			wantErr: "fps",
		},
		{
			name:    "zero width",
			cfg:     NewRecordingConfig("out.mp4", 1, WithResolution(0, 1080)),
			wantErr: "resolution 0x1080",
		},
		{
			name:    "zero sample rate",
			cfg:     NewRecordingConfig("out.mp4", 1, WithSampleRate(0)),
			wantErr: "sample rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.ErrorContains(t, err, tt.wantErr)

			_, err = tt.cfg.StartPayload()
			require.Error(t, err)
		})
	}
}

func TestRecordingConfig_EncoderAlias(t *testing.T) {
	payload, err := NewRecordingConfig("out.mp4", 1, WithEncoder("qsv")).StartPayload()
	require.NoError(t, err)
	require.Equal(t, "obs_qsv11_v2", payload.VideoSettings.VideoEncoder.ID)
}

func TestPreferredEncoder(t *testing.T) {
	require.Equal(t, "obs_x264", PreferredEncoder(nil))

	info := &MachineInfo{VideoEncoders: []VideoEncoderInfo{
		{Type: "obs_x264", Valid: true},
		{Type: "h264_texture_amf", Valid: true},
	}}
	require.Equal(t, "h264_texture_amf", PreferredEncoder(info))
	require.Equal(t, "AMD AMF H.264", EncoderDisplayName("amf"))
}
