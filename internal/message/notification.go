package message

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	errMissingEvent = errors.New("notification missing 'event' field")
	errNullEvent    = errors.New("notification 'event' field is null")
)

// Notification is one event emitted by the worker.
//
// Payload holds every top-level field other than "event" and "identifier",
// re-encoded as a JSON object. It is nil when the worker sent no extra fields.
type Notification struct {
	Event      int
	Identifier *int
	Payload    json.RawMessage
}

// Incoming is one item delivered from the reader to the correlation engine.
// Exactly one of Notification and Err is set.
type Incoming struct {
	Notification *Notification
	Err          error
}

// IdentifierValue returns the identifier and whether one was present.
func (n *Notification) IdentifierValue() (int, bool) {
	if n.Identifier == nil {
		return 0, false
	}

	return *n.Identifier, true
}

// HasPayload reports whether the notification carried extra fields.
func (n *Notification) HasPayload() bool {
	return len(n.Payload) > 0
}

// Decode unmarshals the payload into v. It returns false without touching v
// when the notification has no payload.
func (n *Notification) Decode(v any) (bool, error) {
	if !n.HasPayload() {
		return false, nil
	}

	if err := json.Unmarshal(n.Payload, v); err != nil {
		return true, fmt.Errorf("decode event %d payload: %w", n.Event, err)
	}

	return true, nil
}

// Clone returns a deep copy so that independent observers cannot alias
// each other's payload bytes.
func (n *Notification) Clone() *Notification {
	if n == nil {
		return nil
	}

	c := &Notification{Event: n.Event}

	if n.Identifier != nil {
		id := *n.Identifier
		c.Identifier = &id
	}

	if n.Payload != nil {
		c.Payload = bytes.Clone(n.Payload)
	}

	return c
}

// DecodePayload decodes the payload of n into a fresh T.
// The boolean result is false when n has no payload.
func DecodePayload[T any](n *Notification) (T, bool, error) {
	var v T

	ok, err := n.Decode(&v)

	return v, ok, err
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Notification) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	if fields == nil {
		return errMissingEvent
	}

	rawEvent, ok := fields["event"]
	if !ok {
		return errMissingEvent
	}

	if bytes.Equal(rawEvent, []byte("null")) {
		return errNullEvent
	}

	var event int
	if err := json.Unmarshal(rawEvent, &event); err != nil {
		return fmt.Errorf("notification 'event' field: %w", err)
	}

	var identifier *int

	if rawID, ok := fields["identifier"]; ok && !bytes.Equal(rawID, []byte("null")) {
		var id int
		if err := json.Unmarshal(rawID, &id); err != nil {
			return fmt.Errorf("notification 'identifier' field: %w", err)
		}

		identifier = &id
	}

	delete(fields, "event")
	delete(fields, "identifier")

	var payload json.RawMessage

	if len(fields) > 0 {
		encoded, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("notification payload: %w", err)
		}

		payload = encoded
	}

	n.Event = event
	n.Identifier = identifier
	n.Payload = payload

	return nil
}

// MarshalJSON implements json.Marshaler, flattening the payload back to the
// top level the way the worker emits it.
func (n Notification) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, `{"event":%d`, n.Event)

	if n.Identifier != nil {
		fmt.Fprintf(&buf, `,"identifier":%d`, *n.Identifier)
	}

	if err := appendObjectBody(&buf, n.Payload); err != nil {
		return nil, err
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}
