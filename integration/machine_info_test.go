//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ascentobs "github.com/judehek/ascent-obs"
)

// TestRecorder_QueryMachineInfo tests the correlated machine info request.
func TestRecorder_QueryMachineInfo(t *testing.T) {
	recorder := startRecorder(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	info, err := recorder.QueryMachineInfo(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, info.VideoEncoders, "worker should report at least one encoder")

	for _, enc := range info.VideoEncoders {
		t.Logf("encoder %s valid=%v (%s)", enc.Type, enc.Valid, ascentobs.EncoderDisplayName(enc.Type))
	}

	require.NotEmpty(t, ascentobs.PreferredEncoder(info))
}

// TestStderrCallback_ReceivesOutput tests Stderr callback invocation.
func TestStderrCallback_ReceivesOutput(t *testing.T) {
	lines := make(chan string, 256)

	recorder := startRecorder(t, ascentobs.WithStderr(func(line string) {
		select {
		case lines <- line:
		default:
		}
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := recorder.QueryMachineInfo(ctx)
	require.NoError(t, err)

	t.Logf("Received %d stderr lines", len(lines))
}
