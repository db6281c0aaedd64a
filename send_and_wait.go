package ascentobs

import (
	"context"
	"time"

	"github.com/judehek/ascent-obs/internal/errors"
	"github.com/judehek/ascent-obs/internal/message"
)

// Decoder turns the resolving notification into a typed result. Returning
// ok=false marks the notification as not applicable.
type Decoder[T any] func(n *Notification) (value T, ok bool, err error)

// SendAndWait sends cmd tagged with id and waits up to timeout for the
// notification of type expected, then decodes it.
//
// A notification whose type is in errorTypes fails the call with an
// ErrorEventError. A decoder reporting ok=false yields an
// UnexpectedEventTypeError; a decoder error yields a DeserializationError.
func SendAndWait[T any](
	ctx context.Context,
	c Client,
	cmd int,
	id int,
	payload any,
	timeout time.Duration,
	expected int,
	errorTypes []int,
	decode Decoder[T],
) (T, error) {
	var zero T

	n, err := c.Await(ctx, cmd, id, payload, WaitSpec{
		Expected:   expected,
		ErrorTypes: errorTypes,
		Timeout:    timeout,
	})
	if err != nil {
		return zero, err
	}

	value, ok, err := decode(n)
	if err != nil {
		return zero, &errors.DeserializationError{RawData: string(n.Payload), Err: err}
	}

	if !ok {
		return zero, &errors.UnexpectedEventTypeError{Expected: expected, Received: n.Event}
	}

	return value, nil
}

// DecodePayload is the stock Decoder: it unmarshals the notification payload
// into T and reports ok=false when there is no payload.
func DecodePayload[T any](n *Notification) (T, bool, error) {
	return message.DecodePayload[T](n)
}

// Ignore is a Decoder for calls that only need the notification to arrive.
func Ignore(*Notification) (struct{}, bool, error) {
	return struct{}{}, true, nil
}
