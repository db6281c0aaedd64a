// Package message defines the wire vocabulary spoken with the ascent-obs
// worker: incoming notifications, outgoing command encoding, numeric command
// and event codes, and the typed payloads carried by both directions.
//
// The worker emits a stream of JSON objects without delimiters. Each object
// carries an integer "event", an optional integer "identifier", and any
// number of event-specific fields at the top level. Commands travel the other
// way as one JSON object per line with "cmd", an optional "identifier", and
// the command payload flattened alongside them.
package message
