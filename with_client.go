package ascentobs

import (
	"context"
	"fmt"
	"time"
)

// withClientShutdownTimeout bounds the shutdown command sent before Close.
const withClientShutdownTimeout = 5 * time.Second

// WithClient starts a worker, hands the connected client to fn and tears the
// worker down when fn returns.
//
// Teardown asks the worker to exit with CmdShutdown before closing the
// client, so a recording left running by fn is finalized. Teardown failures
// are logged and never replace fn's error.
//
// Example usage:
//
//	err := ascentobs.WithClient(ctx, func(c ascentobs.Client) error {
//	    return c.SendSimple(ctx, ascentobs.CmdSplitVideo, ascentobs.Ptr(101))
//	},
//	    ascentobs.WithLogger(log),
//	    ascentobs.WithWorkerPath(path),
//	)
func WithClient(ctx context.Context, fn func(Client) error, opts ...Option) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	log := applyOptions(opts).Logger
	if log == nil {
		log = NopLogger()
	}

	client := NewClient()
	if err := client.Start(ctx, opts...); err != nil {
		return fmt.Errorf("failed to start client: %w", err)
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), withClientShutdownTimeout)
		defer cancel()

		if err := client.SendSimple(shutdownCtx, CmdShutdown, nil); err != nil {
			log.Debug("shutdown command not sent", "error", err)
		}

		if err := client.Close(); err != nil {
			log.Warn("failed to close client", "error", err)
		}
	}()

	return fn(client)
}
