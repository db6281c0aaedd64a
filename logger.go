package ascentobs

import (
	"log/slog"
)

// NopLogger returns a logger that drops every record. It is the default when
// no logger option is given.
func NopLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
