// Package subprocess runs the ascent-obs worker as a child process and
// moves bytes between it and the host.
//
// A Supervisor owns the process and three background goroutines: a writer
// that drains a bounded command queue into the worker's stdin, a reader that
// splits the worker's unframed stdout into notifications, and a stderr
// logger. Shutdown tears them down in a fixed order so that every goroutine
// is joined before it returns.
package subprocess
