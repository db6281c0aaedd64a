package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Worker contains worker launch and transport tuning.
type Worker struct {
	Path                  string `toml:"path"`
	Channel               string `toml:"channel"`
	BufferSize            int    `toml:"buffer_size"`
	WritePacingMS         int    `toml:"write_pacing_ms"`
	PollIntervalMS        int    `toml:"poll_interval_ms"`
	ReplyGraceMS          int    `toml:"reply_grace_ms"`
	PendingTTLSeconds     int    `toml:"pending_ttl_seconds"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// Recording contains defaults for recordings started from the CLI.
type Recording struct {
	OutputDir     string `toml:"output_dir"`
	Encoder       string `toml:"encoder"`
	FPS           int    `toml:"fps"`
	Width         int    `toml:"width"`
	Height        int    `toml:"height"`
	Cursor        bool   `toml:"cursor"`
	SampleRate    int    `toml:"sample_rate"`
	OnDemandSplit bool   `toml:"on_demand_split"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Paths contains state file locations.
type Paths struct {
	LockFile  string `toml:"lock_file"`
	HistoryDB string `toml:"history_db"`
}

// File is the on-disk configuration used by the ascent-obs command.
type File struct {
	Worker    Worker    `toml:"worker"`
	Recording Recording `toml:"recording"`
	Logging   Logging   `toml:"logging"`
	Paths     Paths     `toml:"paths"`
}

// DefaultFile returns the configuration used when no file exists.
func DefaultFile() File {
	return File{
		Worker: Worker{
			BufferSize:            DefaultBufferSize,
			WritePacingMS:         int(DefaultWritePacing / time.Millisecond),
			PollIntervalMS:        int(DefaultPollInterval / time.Millisecond),
			ReplyGraceMS:          int(DefaultReplyGrace / time.Millisecond),
			PendingTTLSeconds:     int(DefaultPendingTTL / time.Second),
			RequestTimeoutSeconds: 10,
		},
		Recording: Recording{
			OutputDir:  "~/Videos/ascent",
			Encoder:    "jim_nvenc",
			FPS:        60,
			Width:      1920,
			Height:     1080,
			Cursor:     true,
			SampleRate: 48000,
		},
		Logging: Logging{
			Level:  "info",
			Format: "auto",
		},
		Paths: Paths{
			LockFile:  "~/.cache/ascent-obs/recorder.lock",
			HistoryDB: "~/.local/share/ascent-obs/history.db",
		},
	}
}

// DefaultFilePath returns the absolute path of the default configuration file.
func DefaultFilePath() (string, error) {
	return ExpandPath("~/.config/ascent-obs/config.toml")
}

// SampleFile returns a commented sample configuration.
func SampleFile() string {
	return sampleConfig
}

// LoadFile locates, parses, and validates a configuration file. A missing
// file is not an error; defaults are returned with exists set to false.
func LoadFile(path string) (*File, string, bool, error) {
	cfg := DefaultFile()

	resolved, exists, err := resolveFilePath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()

		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolved, exists, nil
}

// Validate checks value ranges.
func (f *File) Validate() error {
	switch {
	case f.Worker.BufferSize <= 0:
		return errors.New("worker.buffer_size must be positive")
	case f.Worker.WritePacingMS < 0:
		return errors.New("worker.write_pacing_ms must not be negative")
	case f.Worker.PollIntervalMS <= 0:
		return errors.New("worker.poll_interval_ms must be positive")
	case f.Worker.RequestTimeoutSeconds <= 0:
		return errors.New("worker.request_timeout_seconds must be positive")
	case f.Recording.FPS <= 0:
		return errors.New("recording.fps must be positive")
	case f.Recording.Width <= 0 || f.Recording.Height <= 0:
		return errors.New("recording.width and recording.height must be positive")
	}

	switch f.Logging.Format {
	case "auto", "text", "json":
	default:
		return fmt.Errorf("logging.format %q must be auto, text, or json", f.Logging.Format)
	}

	return nil
}

// RequestTimeout returns the configured correlated request timeout.
func (f *File) RequestTimeout() time.Duration {
	return time.Duration(f.Worker.RequestTimeoutSeconds) * time.Second
}

// ApplyTo copies worker settings into opts. Fields already set on opts win.
func (f *File) ApplyTo(opts *Options) {
	if opts.WorkerPath == "" {
		opts.WorkerPath = f.Worker.Path
	}

	if opts.Channel == "" {
		opts.Channel = f.Worker.Channel
	}

	if opts.BufferSize == 0 {
		opts.BufferSize = f.Worker.BufferSize
	}

	if opts.WritePacing == nil {
		pacing := time.Duration(f.Worker.WritePacingMS) * time.Millisecond
		opts.WritePacing = &pacing
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = time.Duration(f.Worker.PollIntervalMS) * time.Millisecond
	}

	if opts.ReplyGrace == 0 {
		opts.ReplyGrace = time.Duration(f.Worker.ReplyGraceMS) * time.Millisecond
	}

	if opts.PendingTTL == 0 {
		opts.PendingTTL = time.Duration(f.Worker.PendingTTLSeconds) * time.Second
	}

	if opts.RequestTimeout == 0 {
		opts.RequestTimeout = f.RequestTimeout()
	}
}

func (f *File) normalize() error {
	f.Logging.Level = strings.ToLower(strings.TrimSpace(f.Logging.Level))
	f.Logging.Format = strings.ToLower(strings.TrimSpace(f.Logging.Format))

	if f.Logging.Format == "" {
		f.Logging.Format = "auto"
	}

	for _, p := range []*string{&f.Worker.Path, &f.Recording.OutputDir, &f.Paths.LockFile, &f.Paths.HistoryDB} {
		expanded, err := ExpandPath(strings.TrimSpace(*p))
		if err != nil {
			return err
		}

		*p = expanded
	}

	return nil
}

func resolveFilePath(path string) (string, bool, error) {
	if path == "" {
		var err error

		path, err = DefaultFilePath()
		if err != nil {
			return "", false, err
		}
	}

	expanded, err := ExpandPath(path)
	if err != nil {
		return "", false, err
	}

	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}

		return "", false, fmt.Errorf("stat config: %w", err)
	}

	if info.IsDir() {
		return "", false, fmt.Errorf("config path %q is a directory", expanded)
	}

	return expanded, true, nil
}

// ExpandPath resolves a leading ~ and returns an absolute, cleaned path.
// Empty input is returned unchanged.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}

	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}

		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}

	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}

	return absolute, nil
}
