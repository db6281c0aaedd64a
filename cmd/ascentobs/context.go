package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	ascentobs "github.com/judehek/ascent-obs"
	"github.com/judehek/ascent-obs/internal/config"
	"github.com/judehek/ascent-obs/internal/history"
	"github.com/judehek/ascent-obs/internal/logging"
)

type globalFlags struct {
	config    string
	worker    string
	channel   string
	logLevel  string
	logFormat string
}

type commandContext struct {
	flags *globalFlags

	configOnce sync.Once
	config     *config.File
	configErr  error

	// logOutput receives logs; the root command points it at its stderr.
	logOutput io.Writer
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.File, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.LoadFile(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err

			return
		}

		c.config = cfg
	})

	return c.config, c.configErr
}

func (c *commandContext) logger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if c.flags.logLevel != "" {
		level = c.flags.logLevel
	}

	format := cfg.Logging.Format
	if c.flags.logFormat != "" {
		format = c.flags.logFormat
	}

	return logging.New(logging.Options{Level: level, Format: format, Output: c.logOutput})
}

// recorderOptions merges flags over the config file.
func (c *commandContext) recorderOptions(log *slog.Logger) ([]ascentobs.Option, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	opts := &config.Options{
		Logger:     log,
		WorkerPath: strings.TrimSpace(c.flags.worker),
		Channel:    strings.TrimSpace(c.flags.channel),
	}
	cfg.ApplyTo(opts)

	return []ascentobs.Option{ascentobs.WithOptions(opts)}, nil
}

func (c *commandContext) startRecorder(ctx context.Context) (*ascentobs.Recorder, *slog.Logger, error) {
	log, err := c.logger()
	if err != nil {
		return nil, nil, err
	}

	opts, err := c.recorderOptions(log)
	if err != nil {
		return nil, nil, err
	}

	recorder, err := ascentobs.StartRecorder(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("start worker: %w", err)
	}

	return recorder, log, nil
}

func (c *commandContext) openHistory(ctx context.Context) (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		return nil, err
	}

	if err := store.Init(ctx); err != nil {
		_ = store.Close()

		return nil, fmt.Errorf("init history: %w", err)
	}

	return store, nil
}
