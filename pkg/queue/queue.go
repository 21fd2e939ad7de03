// Package queue defines the job queue contract and a worker pool that
// consumes it with at-least-once semantics.
package queue

import (
	"context"
	"errors"
)

// ErrPermanent marks a handler failure that must not be retried. Wrap it:
// fmt.Errorf("%w: bad payload", queue.ErrPermanent).
var ErrPermanent = errors.New("permanent failure")

var ErrSettled = errors.New("delivery already settled")

// Delivery is one message handed to a worker. Exactly one of Ack or Nack
// should be called.
type Delivery interface {
	Body() []byte
	Ack() error
	// Nack rejects the message. Without requeue it is dead-lettered.
	Nack(requeue bool) error
}

// Source yields deliveries until ctx is done or the underlying transport
// closes the channel.
type Source interface {
	Deliveries(ctx context.Context) (<-chan Delivery, error)
}

type Publisher interface {
	Publish(ctx context.Context, body []byte) error
}
