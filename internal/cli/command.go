package cli

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/judehek/ascent-obs/internal/config"
)

// ChannelFlag is the worker flag naming an optional channel id.
const ChannelFlag = "--channel"

// BuildArgs constructs the worker command line arguments.
//
// The channel id is passed first when configured; extra flags follow in
// sorted key order so the command line is deterministic.
func BuildArgs(options *config.Options) []string {
	args := make([]string, 0, 2+2*len(options.ExtraArgs))

	if options.Channel != "" {
		args = append(args, ChannelFlag, options.Channel)
	}

	for _, key := range slices.Sorted(maps.Keys(options.ExtraArgs)) {
		value := options.ExtraArgs[key]
		if value == nil {
			args = append(args, "--"+key)
		} else {
			args = append(args, "--"+key, *value)
		}
	}

	return args
}

// BuildEnvironment constructs the environment variables for the worker process.
func BuildEnvironment(options *config.Options) []string {
	env := os.Environ()

	for _, key := range slices.Sorted(maps.Keys(options.Env)) {
		env = append(env, fmt.Sprintf("%s=%s", key, options.Env[key]))
	}

	return env
}
