package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInvalidPathError(t *testing.T) {
	err := &InvalidPathError{
		SearchedPaths: []string{"/usr/bin/ascent-obs", "/opt/bin/ascent-obs"},
	}

	require.Equal(
		t,
		"ascent-obs executable not found in: [/usr/bin/ascent-obs /opt/bin/ascent-obs]",
		err.Error(),
	)
	require.True(t, err.IsObsError())

	explicit := &InvalidPathError{Path: "C:\\missing\\ascent-obs.exe"}
	require.Equal(t, "invalid worker path: C:\\missing\\ascent-obs.exe", explicit.Error())
}

func TestProcessStartError(t *testing.T) {
	root := errors.New("permission denied")
	err := &ProcessStartError{Path: "/bin/ascent-obs", Err: root}

	require.Equal(t, "failed to start worker /bin/ascent-obs: permission denied", err.Error())
	require.ErrorIs(t, err, root)
	require.True(t, err.IsObsError())
}

func TestPipeError(t *testing.T) {
	root := errors.New("broken pipe")
	err := &PipeError{Op: "write", Err: root}

	require.Equal(t, "pipe write failed: broken pipe", err.Error())
	require.ErrorIs(t, err, root)

	wrapped := fmt.Errorf("send: %w", err)
	pe, ok := errors.AsType[*PipeError](wrapped)
	require.True(t, ok)
	require.Equal(t, "write", pe.Op)
}

func TestDeserializationError(t *testing.T) {
	root := errors.New("invalid character 'x'")
	err := &DeserializationError{RawData: "x{}", Offset: 1, Err: root}

	require.Equal(t, `failed to decode worker output at offset 1: invalid character 'x' (data: "x{}")`, err.Error())
	require.ErrorIs(t, err, root)
	require.True(t, err.IsObsError())

	bare := &DeserializationError{Err: root}
	require.Equal(t, "failed to decode worker output: invalid character 'x'", bare.Error())
}

func TestEventManagerError(t *testing.T) {
	err := &EventManagerError{Reason: "waiter resolved", Err: ErrManagerShutdown}

	require.Equal(t, "event manager: waiter resolved: manager shutdown", err.Error())
	require.ErrorIs(t, err, ErrManagerShutdown)

	plain := &EventManagerError{Reason: "control channel closed"}
	require.Equal(t, "event manager: control channel closed", plain.Error())
	require.NoError(t, plain.Unwrap())
}

func TestTimeoutError_MatchesSentinel(t *testing.T) {
	err := &TimeoutError{Identifier: 7, Expected: 4}

	require.Equal(t, "timed out waiting for event 4 (identifier 7)", err.Error())
	require.ErrorIs(t, err, ErrRequestTimeout)
	require.ErrorIs(t, fmt.Errorf("wait: %w", err), ErrRequestTimeout)
}

func TestErrorEventError(t *testing.T) {
	err := &ErrorEventError{Identifier: 3, EventType: 2}

	require.Equal(t, "received error event type: 2 (identifier 3)", err.Error())
	require.True(t, err.IsObsError())
}

func TestUnexpectedEventTypeError(t *testing.T) {
	err := &UnexpectedEventTypeError{Expected: 1, Received: 6}

	require.Equal(t, "unexpected event type: expected 1, received 6", err.Error())
}

func TestProcessError(t *testing.T) {
	root := errors.New("signal: killed")
	err := &ProcessError{ExitCode: -1, Err: root}

	require.Equal(t, "worker process failed (exit -1): signal: killed", err.Error())
	require.ErrorIs(t, err, root)

	stderrOnly := &ProcessError{ExitCode: 2, Stderr: "obs init failed\n"}
	require.Equal(t, "worker process failed (exit 2): obs init failed", stderrOnly.Error())
	require.NoError(t, stderrOnly.Unwrap())
}
