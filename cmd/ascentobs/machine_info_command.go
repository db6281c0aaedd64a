package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	ascentobs "github.com/judehek/ascent-obs"
)

func newMachineInfoCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "machine-info",
		Short: "List audio devices and video encoders seen by the worker",
		RunE: func(cmd *cobra.Command, _ []string) error {
			recorder, _, err := ctx.startRecorder(cmd.Context())
			if err != nil {
				return err
			}
			defer recorder.Shutdown()

			info, err := recorder.QueryMachineInfo(cmd.Context())
			if err != nil {
				return fmt.Errorf("query machine info: %w", err)
			}

			out := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")

				return enc.Encode(info)
			}

			fmt.Fprintln(out, renderMachineInfo(info))

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw worker response as JSON")

	return cmd
}

func renderMachineInfo(info *ascentobs.MachineInfo) string {
	preferred := ascentobs.PreferredEncoder(info)

	encoderRows := make([][]string, 0, len(info.VideoEncoders))
	for _, enc := range info.VideoEncoders {
		mark := ""
		if enc.Type == preferred {
			mark = "*"
		}

		valid := "no"
		if enc.Valid {
			valid = "yes"
		}

		encoderRows = append(encoderRows, []string{mark, enc.Type, ascentobs.EncoderDisplayName(enc.Type), valid})
	}

	deviceRows := make([][]string, 0, len(info.AudioInputDevices)+len(info.AudioOutputDevices))
	deviceRows = appendDevices(deviceRows, "input", info.AudioInputDevices)
	deviceRows = appendDevices(deviceRows, "output", info.AudioOutputDevices)

	winrt := "no"
	if info.WinRTCaptureSupported {
		winrt = "yes"
	}

	return renderTable([]string{"", "Encoder", "Name", "Valid"}, encoderRows, nil) +
		"\n" + renderTable([]string{"Direction", "Device", "ID"}, deviceRows, nil) +
		"\nWinRT capture supported: " + winrt
}

func appendDevices(rows [][]string, direction string, devices []ascentobs.AudioDevice) [][]string {
	for _, device := range devices {
		for _, name := range slices.Sorted(maps.Keys(device)) {
			rows = append(rows, []string{direction, name, device[name]})
		}
	}

	return rows
}
