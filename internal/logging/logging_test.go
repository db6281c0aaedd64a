package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{input: "", want: slog.LevelInfo},
		{input: "debug", want: slog.LevelDebug},
		{input: " WARN ", want: slog.LevelWarn},
		{input: "warning", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLevel("verbose")
	require.ErrorContains(t, err, "unsupported value")
}

func TestNew_AutoUsesJSONForNonTerminal(t *testing.T) {
	var buf bytes.Buffer

	log, err := New(Options{Level: "info", Format: FormatAuto, Output: &buf})
	require.NoError(t, err)

	log.Info("Worker started", "pid", 42)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "Worker started", record["msg"])
	require.InDelta(t, 42, record["pid"], 0)
	require.False(t, IsTerminal(&buf))
}

func TestNew_TextFiltersLevel(t *testing.T) {
	var buf bytes.Buffer

	log, err := New(Options{Level: "warn", Format: FormatText, Output: &buf})
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown", "component", "supervisor")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "msg=shown")
	require.Contains(t, buf.String(), "component=supervisor")
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	require.ErrorContains(t, err, `unsupported value "xml"`)

	_, err = New(Options{Level: "loud"})
	require.Error(t, err)
}
