package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/judehek/ascent-obs/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past recordings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := ctx.openHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if len(entries) == 0 {
				fmt.Fprintln(out, "No recordings")

				return nil
			}

			fmt.Fprintln(out, renderHistory(entries))

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 for all)")

	return cmd
}

func renderHistory(entries []history.Entry) string {
	rows := make([][]string, 0, len(entries))

	for _, e := range entries {
		duration := "-"
		if e.DurationMS > 0 {
			duration = (time.Duration(e.DurationMS) * time.Millisecond).String()
		}

		status := "ok"

		switch {
		case e.Error != "":
			status = e.Error
		case e.StoppedAt.IsZero():
			status = "running"
		}

		rows = append(rows, []string{
			e.StartedAt.Local().Format(time.DateTime),
			strconv.Itoa(e.Identifier),
			e.OutputFile,
			e.Encoder,
			duration,
			status,
		})
	}

	return renderTable(
		[]string{"Started", "ID", "Output", "Encoder", "Duration", "Status"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignLeft},
	)
}
