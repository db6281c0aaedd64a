//go:build integration

package integration

import (
	"context"
	"errors"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ascentobs "github.com/judehek/ascent-obs"
)

// gamePIDEnvVar names a running game process to capture. Recording tests
// skip when it is unset.
const gamePIDEnvVar = "ASCENT_OBS_GAME_PID"

// skipIfWorkerNotInstalled skips the test if the error indicates the worker is not found.
func skipIfWorkerNotInstalled(t *testing.T, err error) {
	t.Helper()

	if _, ok := errors.AsType[*ascentobs.InvalidPathError](err); ok {
		t.Skip("ascent-obs worker not installed")
	}
}

// gamePID returns the pid from ASCENT_OBS_GAME_PID or skips the test.
func gamePID(t *testing.T) int {
	t.Helper()

	raw := os.Getenv(gamePIDEnvVar)
	if raw == "" {
		t.Skipf("%s not set", gamePIDEnvVar)
	}

	pid, err := strconv.Atoi(raw)
	require.NoError(t, err, "invalid %s", gamePIDEnvVar)

	return pid
}

// startRecorder launches the real worker and shuts it down on cleanup.
func startRecorder(t *testing.T, opts ...ascentobs.Option) *ascentobs.Recorder {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	recorder, err := ascentobs.StartRecorder(ctx, opts...)
	if err != nil {
		skipIfWorkerNotInstalled(t, err)
		t.Fatalf("StartRecorder failed: %v", err)
	}

	t.Cleanup(func() {
		_ = recorder.Shutdown()
	})

	return recorder
}
