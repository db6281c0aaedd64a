// Package client implements the communication facade over the ascent-obs
// worker.
//
// A Client owns one worker transport and one protocol.EventManager. It
// offers fire-and-forget sends, correlated request/response calls that wait
// for a specific notification, and event callbacks. Clients are single-use:
// after Close, create a new one.
package client
