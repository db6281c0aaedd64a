// Package cli locates the ascent-obs worker executable and builds the
// command line used to launch it.
//
// # Discovery
//
// The Discoverer interface locates the worker binary:
//
//	discoverer := cli.NewDiscoverer(&cli.Config{
//	    WorkerPath: "",           // Optional explicit path
//	    Logger:     slog.Default(),
//	})
//	workerPath, err := discoverer.Discover(ctx)
//
// Discovery searches in the following order:
//  1. Explicit path in Config.WorkerPath (if provided)
//  2. The ASCENT_OBS_PATH environment variable
//  3. System PATH
//  4. Common installation directories for the current platform
//
// # Command Building
//
//	args := cli.BuildArgs(options)
//	env := cli.BuildEnvironment(options)
package cli
