package message

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/judehek/ascent-obs/internal/errors"
)

// Command is an instruction sent to the worker. Payload may be nil or any
// value that encodes to a JSON object; its fields are written alongside
// "cmd" and "identifier" rather than nested.
type Command struct {
	Cmd        int
	Identifier *int
	Payload    any
}

// Encode serializes the command as a single JSON object without a trailing
// newline. Payloads that do not encode to an object, or that redefine "cmd"
// or "identifier", fail with a SerializationError.
func (c Command) Encode() ([]byte, error) {
	var raw []byte

	if c.Payload != nil {
		encoded, err := json.Marshal(c.Payload)
		if err != nil {
			return nil, &errors.SerializationError{Cmd: c.Cmd, Err: err}
		}

		raw = encoded
	}

	if err := checkReservedKeys(raw); err != nil {
		return nil, &errors.SerializationError{Cmd: c.Cmd, Err: err}
	}

	var buf bytes.Buffer

	fmt.Fprintf(&buf, `{"cmd":%d`, c.Cmd)

	if c.Identifier != nil {
		fmt.Fprintf(&buf, `,"identifier":%d`, *c.Identifier)
	}

	if err := appendObjectBody(&buf, raw); err != nil {
		return nil, &errors.SerializationError{Cmd: c.Cmd, Err: err}
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// EncodeCommand is shorthand for Command{...}.Encode.
func EncodeCommand(cmd int, identifier *int, payload any) ([]byte, error) {
	return Command{Cmd: cmd, Identifier: identifier, Payload: payload}.Encode()
}

func checkReservedKeys(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return err
	}

	for _, key := range []string{"cmd", "identifier"} {
		if _, ok := fields[key]; ok {
			return fmt.Errorf("payload redefines reserved field %q", key)
		}
	}

	return nil
}

// appendObjectBody writes the members of the JSON object raw, preceded by a
// comma, into buf. Empty, null, and {} payloads write nothing.
func appendObjectBody(buf *bytes.Buffer, raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] != '{' {
		return fmt.Errorf("payload must encode to a JSON object, got %.20s", trimmed)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return err
	}

	body := compact.Bytes()
	inner := body[1 : len(body)-1]

	if len(inner) == 0 {
		return nil
	}

	buf.WriteByte(',')
	buf.Write(inner)

	return nil
}
