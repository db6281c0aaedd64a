// Package errors defines error types for the ascent-obs host library.
//
// Every failure surfaced by the communication layer is one of the structured
// types below or wraps one of the sentinel values. All types support error
// unwrapping and can be checked using errors.Is, errors.As, and errors.AsType.
package errors
