package ascentobs

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	internalmcp "github.com/judehek/ascent-obs/internal/mcp"
)

// MCPServerName is the implementation name reported to MCP clients.
const MCPServerName = "ascent-obs"

// NewMCPServer exposes r as Model Context Protocol tools: query_machine_info,
// start_recording, stop_recording, split_video, and list_recordings.
//
// Example:
//
//	server := ascentobs.NewMCPServer(recorder, "1.0.0", log)
//	err := server.Run(ctx, &mcp.StdioTransport{})
func NewMCPServer(r *Recorder, version string, log *slog.Logger) *mcp.Server {
	return newToolServer(r, version, log).Server()
}

func newToolServer(r *Recorder, version string, log *slog.Logger) *internalmcp.ToolServer {
	if log == nil {
		log = NopLogger()
	}

	server := internalmcp.NewToolServer(MCPServerName, version)
	internalmcp.RegisterRecorderTools(server, recorderController{r}, log)

	return server
}

// recorderController adapts Recorder to the tool controller.
type recorderController struct {
	r *Recorder
}

var _ internalmcp.Controller = recorderController{}

func (c recorderController) QueryMachineInfo(ctx context.Context) (*MachineInfo, error) {
	return c.r.QueryMachineInfo(ctx)
}

func (c recorderController) StartRecording(
	ctx context.Context,
	req internalmcp.StartRequest,
) (int, *RecordingStartedEvent, error) {
	var opts []RecordingOption

	if req.Encoder != "" {
		opts = append(opts, WithEncoder(req.Encoder))
	}

	if req.FPS != 0 {
		opts = append(opts, WithFPS(req.FPS))
	}

	if req.Width != 0 && req.Height != 0 {
		opts = append(opts, WithResolution(req.Width, req.Height))
	}

	if req.OnDemandSplit {
		opts = append(opts, WithOnDemandSplit(true))
	}

	id := req.ID
	if id == 0 {
		id = c.r.NextCaptureID()
	}

	started, err := c.r.StartRecording(ctx, id, NewRecordingConfig(req.OutputFile, req.GamePID, opts...))
	if err != nil {
		return 0, nil, err
	}

	return id, started, nil
}

func (c recorderController) StopRecording(ctx context.Context, id int) (*RecordingStoppedEvent, error) {
	return c.r.StopRecording(ctx, id)
}

func (c recorderController) SplitVideo(ctx context.Context, id int) error {
	return c.r.SplitVideo(ctx, id)
}

func (c recorderController) Active() map[int]RecorderType {
	return c.r.Active()
}
