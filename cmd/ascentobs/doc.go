// Command ascentobs drives the ascent-obs recording worker from the shell.
//
// It lists the machine's encoders and audio devices, records a game to a
// file, keeps a history of recordings, and serves the recorder to agents
// as MCP tools over stdio.
package main
