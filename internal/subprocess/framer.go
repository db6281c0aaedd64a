package subprocess

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"

	"github.com/judehek/ascent-obs/internal/errors"
	"github.com/judehek/ascent-obs/internal/message"
)

// previewLimit caps raw data carried in errors and log lines.
const previewLimit = 100

// Framer extracts JSON values from an unframed byte stream. Values may span
// chunk boundaries and several values may arrive in one chunk.
//
// A Framer is not safe for concurrent use.
type Framer struct {
	buf     []byte
	drained int64
}

// NewFramer creates an empty framer.
func NewFramer() *Framer {
	return &Framer{}
}

// Feed appends chunk to the accumulation buffer and emits one item per
// complete value, in stream order. Truncated trailing data is retained for
// the next call. Malformed data yields a DeserializationError item and the
// framer resynchronizes at the next '{'.
//
// emit returns false when the consumer has gone away; Feed then stops and
// returns false. Bytes of values already emitted are still drained.
func (f *Framer) Feed(chunk []byte, emit func(message.Incoming) bool) bool {
	f.buf = append(f.buf, chunk...)

	consumed := 0
	alive := true

	for consumed < len(f.buf) && alive {
		rest := f.buf[consumed:]

		dec := json.NewDecoder(bytes.NewReader(rest))

		var raw json.RawMessage

		err := dec.Decode(&raw)

		switch {
		case err == nil:
			end := int(dec.InputOffset())
			alive = emit(f.decode(raw, consumed))
			consumed += end

		case stderrors.Is(err, io.EOF):
			// Only whitespace remains.
			consumed = len(f.buf)

		case stderrors.Is(err, io.ErrUnexpectedEOF):
			// Incomplete value; wait for more bytes.
			f.drain(consumed)

			return true

		default:
			skip := 1

			if syn, ok := stderrors.AsType[*json.SyntaxError](err); ok && syn.Offset > 1 {
				skip = int(syn.Offset)
			}

			alive = emit(message.Incoming{Err: &errors.DeserializationError{
				RawData: preview(rest),
				Offset:  f.drained + int64(consumed),
				Err:     err,
			}})

			consumed += resyncPoint(rest, skip)
		}
	}

	f.drain(consumed)

	return alive
}

// Pending returns the bytes received but not yet consumed.
func (f *Framer) Pending() []byte {
	return f.buf
}

func (f *Framer) decode(raw json.RawMessage, at int) message.Incoming {
	var n message.Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		return message.Incoming{Err: &errors.DeserializationError{
			RawData: preview(raw),
			Offset:  f.drained + int64(at),
			Err:     err,
		}}
	}

	return message.Incoming{Notification: &n}
}

func (f *Framer) drain(n int) {
	if n == 0 {
		return
	}

	f.drained += int64(n)
	f.buf = append(f.buf[:0], f.buf[n:]...)
}

// resyncPoint returns how many bytes of rest to discard after a syntax
// error: up to the first '{' at or after skip, or all of rest if none.
func resyncPoint(rest []byte, skip int) int {
	if skip >= len(rest) {
		return len(rest)
	}

	if i := bytes.IndexByte(rest[skip:], '{'); i >= 0 {
		return skip + i
	}

	return len(rest)
}

func preview(data []byte) string {
	if len(data) > previewLimit {
		return string(data[:previewLimit])
	}

	return string(data)
}
