package main

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	ascentobs "github.com/judehek/ascent-obs"
)

// version is reported to MCP clients.
var version = "dev"

func newMCPCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the recorder as MCP tools over stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			recorder, log, err := ctx.startRecorder(cmd.Context())
			if err != nil {
				return err
			}
			defer recorder.Shutdown()

			server := ascentobs.NewMCPServer(recorder, version, log)

			eg, egCtx := errgroup.WithContext(cmd.Context())

			eg.Go(func() error {
				log.Info("Serving MCP tools on stdio")

				return server.Run(egCtx, &mcp.StdioTransport{})
			})

			eg.Go(func() error {
				select {
				case <-egCtx.Done():
					return nil
				case <-recorder.Done():
					return fmt.Errorf("worker exited: %w", recorder.Err())
				}
			})

			if err := eg.Wait(); err != nil && cmd.Context().Err() == nil {
				return err
			}

			return nil
		},
	}
}
