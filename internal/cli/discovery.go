package cli

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/judehek/ascent-obs/internal/errors"
)

const (
	// ExecutableName is the worker binary name searched in PATH.
	ExecutableName = "ascent-obs"

	// PathEnvVar overrides discovery when set to an existing file.
	PathEnvVar = "ASCENT_OBS_PATH"
)

// Config holds configuration for worker discovery.
type Config struct {
	// WorkerPath is an explicit executable path that skips all searching.
	WorkerPath string

	// Logger is an optional logger for discovery operations.
	// If nil, a default no-op logger is used.
	Logger *slog.Logger
}

// Discoverer locates the worker binary.
type Discoverer interface {
	// Discover returns the path to the worker executable or an
	// InvalidPathError listing every location searched.
	Discover(ctx context.Context) (string, error)
}

// discoverer implements the Discoverer interface.
type discoverer struct {
	cfg *Config
	log *slog.Logger
}

// Compile-time verification that discoverer implements Discoverer.
var _ Discoverer = (*discoverer)(nil)

// NewDiscoverer creates a new worker discoverer with the given configuration.
func NewDiscoverer(cfg *Config) Discoverer {
	if cfg == nil {
		cfg = &Config{}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
	}

	return &discoverer{
		cfg: cfg,
		log: log,
	}
}

// Discover locates the worker binary.
func (d *discoverer) Discover(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	d.log.Debug("Discovering ascent-obs executable")

	if d.cfg.WorkerPath != "" {
		d.log.Debug("Using explicit worker path", "worker_path", d.cfg.WorkerPath)

		if isFile(d.cfg.WorkerPath) {
			return d.cfg.WorkerPath, nil
		}

		return "", &errors.InvalidPathError{Path: d.cfg.WorkerPath}
	}

	searchedPaths := make([]string, 0, 6)

	if envPath := os.Getenv(PathEnvVar); envPath != "" {
		if isFile(envPath) {
			d.log.Debug("Found worker via environment", "path", envPath)

			return envPath, nil
		}

		searchedPaths = append(searchedPaths, "$"+PathEnvVar+"="+envPath)
	}

	if path, err := exec.LookPath(ExecutableName); err == nil {
		d.log.Debug("Found worker in PATH", "path", path)

		return path, nil
	}

	searchedPaths = append(searchedPaths, "$PATH")

	for _, path := range commonPaths() {
		searchedPaths = append(searchedPaths, path)

		if isFile(path) {
			d.log.Debug("Found worker at common path", "path", path)

			return path, nil
		}
	}

	d.log.Warn("ascent-obs executable not found in any searched paths", "searched_paths", searchedPaths)

	return "", &errors.InvalidPathError{SearchedPaths: searchedPaths}
}

func commonPaths() []string {
	if runtime.GOOS == "windows" {
		paths := make([]string, 0, 2)

		for _, env := range []string{"ProgramFiles", "LOCALAPPDATA"} {
			if base := os.Getenv(env); base != "" {
				paths = append(paths, filepath.Join(base, "Ascent", "obs", ExecutableName+".exe"))
			}
		}

		return paths
	}

	paths := []string{
		"/usr/local/bin/" + ExecutableName,
		"/usr/bin/" + ExecutableName,
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".local/bin", ExecutableName))
	}

	return paths
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && !info.IsDir()
}
