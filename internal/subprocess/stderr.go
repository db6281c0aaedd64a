package subprocess

import (
	"bufio"
	"io"
	"log/slog"
	"strings"
)

// maxStderrLineSize bounds a single stderr line.
const maxStderrLineSize = 1024 * 1024

// logStderr forwards every non-empty worker stderr line to the log at warn
// level and to callback when set.
func logStderr(log *slog.Logger, r io.Reader, callback func(string), closing func() bool) {
	defer log.Debug("Stderr goroutine stopped")

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxStderrLineSize)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		log.Warn("Worker stderr", "line", line)

		if callback != nil {
			callback(line)
		}
	}

	if err := scanner.Err(); err != nil && !closing() {
		log.Debug("Stderr scanner error", "error", err)
	}
}
