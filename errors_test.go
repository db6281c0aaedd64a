package ascentobs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestErrors_ImplementObsError tests that every exported error type carries
// the ObsError marker.
func TestErrors_ImplementObsError(t *testing.T) {
	errs := []error{
		&InvalidPathError{Path: "/missing"},
		&ProcessStartError{Path: "/bin/worker", Err: fmt.Errorf("denied")},
		&PipeError{Op: "read", Err: fmt.Errorf("broken")},
		&SerializationError{Cmd: CmdStart, Err: fmt.Errorf("bad")},
		&DeserializationError{RawData: "garbage}", Err: fmt.Errorf("bad")},
		&EventManagerError{Reason: "manager shutdown", Err: ErrManagerShutdown},
		&TimeoutError{Identifier: 1, Expected: EvtQueryMachineInfo},
		&ErrorEventError{Identifier: 1, EventType: EvtErr},
		&UnexpectedEventTypeError{Expected: EvtRecordingStarted, Received: EvtReady},
		&InvalidEventDataError{EventType: EvtErr, Reason: "missing code"},
		&ProcessError{ExitCode: 3, Stderr: "fatal"},
	}

	for _, err := range errs {
		t.Run(fmt.Sprintf("%T", err), func(t *testing.T) {
			obsErr, ok := errors.AsType[ObsError](err)
			require.True(t, ok)
			require.True(t, obsErr.IsObsError())
			require.NotEmpty(t, err.Error())
		})
	}
}

// TestTimeoutError_MatchesSentinel tests errors.Is against ErrRequestTimeout.
func TestTimeoutError_MatchesSentinel(t *testing.T) {
	err := fmt.Errorf("query: %w", &TimeoutError{Identifier: 9, Expected: EvtQueryMachineInfo})

	require.ErrorIs(t, err, ErrRequestTimeout)
	require.Contains(t, err.Error(), "identifier 9")
}

// TestEventManagerError_Unwraps tests sentinel unwrapping through the
// manager error.
func TestEventManagerError_Unwraps(t *testing.T) {
	err := &EventManagerError{
		Reason: "manager shutdown",
		Err:    fmt.Errorf("%w: %w", ErrManagerShutdown, ErrTransportClosed),
	}

	require.ErrorIs(t, err, ErrManagerShutdown)
	require.ErrorIs(t, err, ErrTransportClosed)
}

// TestProcessError_Formatting tests stderr and wrapped-error forms.
func TestProcessError_Formatting(t *testing.T) {
	withStderr := &ProcessError{ExitCode: 1, Stderr: "  obs init failed\n"}
	require.Contains(t, withStderr.Error(), "exit 1")
	require.Contains(t, withStderr.Error(), "obs init failed")

	inner := fmt.Errorf("signal: killed")
	wrapped := &ProcessError{ExitCode: -1, Err: inner}
	require.ErrorIs(t, wrapped, inner)
	require.Contains(t, wrapped.Error(), "exit -1")
}

// TestInvalidPathError_Formatting tests both path forms.
func TestInvalidPathError_Formatting(t *testing.T) {
	explicit := &InvalidPathError{Path: "/opt/ascent-obs"}
	require.Contains(t, explicit.Error(), "/opt/ascent-obs")

	searched := &InvalidPathError{SearchedPaths: []string{"$PATH", "/usr/local/bin/ascent-obs"}}
	require.Contains(t, searched.Error(), "not found")
	require.Contains(t, searched.Error(), "/usr/local/bin/ascent-obs")
}
