package main

import (
	"github.com/spf13/cobra"
)

// skipConfigAnnotation marks commands that run without loading the config.
const skipConfigAnnotation = "skipConfigLoad"

func newRootCommand() *cobra.Command {
	var flags globalFlags

	ctx := newCommandContext(&flags)

	rootCmd := &cobra.Command{
		Use:           "ascentobs",
		Short:         "Record games through the ascent-obs worker",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx.logOutput = cmd.ErrOrStderr()

			if cmd.Annotations[skipConfigAnnotation] == "true" {
				return nil
			}

			_, err := ctx.ensureConfig()

			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "", "Configuration file path")
	pf.StringVar(&flags.worker, "worker", "", "Path to the ascent-obs executable")
	pf.StringVar(&flags.channel, "channel", "", "Channel id passed to the worker")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log format: auto, text, json")

	rootCmd.AddCommand(newMachineInfoCommand(ctx))
	rootCmd.AddCommand(newRecordCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newMCPCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
