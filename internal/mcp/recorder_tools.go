package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/judehek/ascent-obs/internal/message"
)

// Tool names registered by RegisterRecorderTools.
const (
	ToolQueryMachineInfo = "query_machine_info"
	ToolStartRecording   = "start_recording"
	ToolStopRecording    = "stop_recording"
	ToolSplitVideo       = "split_video"
	ToolListRecordings   = "list_recordings"
)

// StartRequest is the argument of the start_recording tool. Zero values
// select the recorder defaults; a zero ID asks the controller to pick one.
type StartRequest struct {
	ID            int    `json:"id,omitempty"`
	OutputFile    string `json:"output_file"`
	GamePID       int    `json:"game_pid"`
	Encoder       string `json:"encoder,omitempty"`
	FPS           uint32 `json:"fps,omitempty"`
	Width         uint32 `json:"width,omitempty"`
	Height        uint32 `json:"height,omitempty"`
	OnDemandSplit bool   `json:"on_demand_split,omitempty"`
}

// Controller is the recorder surface the tools drive.
type Controller interface {
	QueryMachineInfo(ctx context.Context) (*message.MachineInfo, error)
	StartRecording(ctx context.Context, req StartRequest) (int, *message.RecordingStartedEvent, error)
	StopRecording(ctx context.Context, id int) (*message.RecordingStoppedEvent, error)
	SplitVideo(ctx context.Context, id int) error
	Active() map[int]message.RecorderType
}

type idArgs struct {
	ID int `json:"id"`
}

type activeRecording struct {
	ID   int    `json:"id"`
	Type string `json:"recorder_type"`
}

// RegisterRecorderTools adds the recorder tools to s.
func RegisterRecorderTools(s *ToolServer, c Controller, log *slog.Logger) {
	log = log.With("component", "mcp")

	s.AddTool(
		NewTool(ToolQueryMachineInfo,
			"List the audio devices and video encoders available to the recorder.",
			ObjectSchema(nil)),
		func(ctx context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			info, err := c.QueryMachineInfo(ctx)
			if err != nil {
				log.Warn("Tool failed", "tool", ToolQueryMachineInfo, "error", err)

				return ErrorResult(err.Error()), nil
			}

			return JSONResult(info), nil
		},
	)

	s.AddTool(
		NewTool(ToolStartRecording,
			"Start recording a game process to a video file.",
			ObjectSchema(map[string]string{
				"id":              "int",
				"output_file":     "string",
				"game_pid":        "int",
				"encoder":         "string",
				"fps":             "int",
				"width":           "int",
				"height":          "int",
				"on_demand_split": "bool",
			}, "output_file", "game_pid")),
		func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, err := DecodeArguments[StartRequest](req)
			if err != nil {
				return ErrorResult(err.Error()), nil
			}

			id, started, err := c.StartRecording(ctx, args)
			if err != nil {
				log.Warn("Tool failed", "tool", ToolStartRecording, "error", err)

				return ErrorResult(err.Error()), nil
			}

			return JSONResult(map[string]any{
				"id":     id,
				"source": started.Source,
			}), nil
		},
	)

	s.AddTool(
		NewTool(ToolStopRecording,
			"Stop a recording and report its duration.",
			SimpleSchema(map[string]string{"id": "int"})),
		func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, err := DecodeArguments[idArgs](req)
			if err != nil {
				return ErrorResult(err.Error()), nil
			}

			stopped, err := c.StopRecording(ctx, args.ID)
			if err != nil {
				log.Warn("Tool failed", "tool", ToolStopRecording, "id", args.ID, "error", err)

				return ErrorResult(err.Error()), nil
			}

			return JSONResult(stopped), nil
		},
	)

	s.AddTool(
		NewTool(ToolSplitVideo,
			"Close the current file of a recording and continue in a new one.",
			SimpleSchema(map[string]string{"id": "int"})),
		func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, err := DecodeArguments[idArgs](req)
			if err != nil {
				return ErrorResult(err.Error()), nil
			}

			if err := c.SplitVideo(ctx, args.ID); err != nil {
				return ErrorResult(err.Error()), nil
			}

			return TextResult(fmt.Sprintf("split requested for recording %d", args.ID)), nil
		},
	)

	s.AddTool(
		NewTool(ToolListRecordings,
			"List the captures currently active.",
			ObjectSchema(nil)),
		func(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			active := c.Active()
			list := make([]activeRecording, 0, len(active))

			for _, id := range slices.Sorted(maps.Keys(active)) {
				list = append(list, activeRecording{ID: id, Type: active[id].String()})
			}

			return JSONResult(list), nil
		},
	)
}
