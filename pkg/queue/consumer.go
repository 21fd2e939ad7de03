package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
)

type Consumer[T any] interface {
	Consume(ctx context.Context, dependencies T) error
}

// Handler processes one delivery. Returning nil acknowledges it.
type Handler[T any] func(ctx context.Context, msg Delivery, dependencies T) error

// ExhaustedHandler runs once a delivery has used up its tries, right before
// it is dead-lettered.
type ExhaustedHandler[T any] func(ctx context.Context, msg Delivery, dependencies T, err error)

type Options struct {
	Workers         int
	MaxTries        uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func (o Options) withDefaults() Options {
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.MaxTries == 0 {
		o.MaxTries = 5
	}
	if o.InitialInterval <= 0 {
		o.InitialInterval = backoff.DefaultInitialInterval
	}
	if o.MaxInterval <= 0 {
		o.MaxInterval = 10 * time.Second
	}
	return o
}

type consumer[T any] struct {
	source      Source
	handler     Handler[T]
	onExhausted ExhaustedHandler[T]
	opts        Options
}

func NewConsumer[T any](
	source Source,
	opts Options,
	handler Handler[T],
	onExhausted ExhaustedHandler[T],
) Consumer[T] {
	return &consumer[T]{
		source:      source,
		handler:     handler,
		onExhausted: onExhausted,
		opts:        opts.withDefaults(),
	}
}

func (c *consumer[T]) Consume(ctx context.Context, dependencies T) error {
	deliveries, err := c.source.Deliveries(ctx)
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().
		Int("workers", c.opts.Workers).
		Uint("max_tries", c.opts.MaxTries).
		Msg("consumer started")

	jobs := make(chan Delivery, c.opts.Workers)
	var wg sync.WaitGroup
	for i := 1; i <= c.opts.Workers; i++ {
		wg.Add(1)
		go func(workerId int) {
			defer wg.Done()
			logger := zerolog.Ctx(ctx).With().Int("worker_id", workerId).Logger()
			workerCtx := logger.WithContext(ctx)
			for msg := range jobs {
				c.handle(workerCtx, msg, dependencies)
			}
		}(i)
	}

	for {
		select {
		case delivery, ok := <-deliveries:
			if !ok {
				close(jobs)
				wg.Wait()
				return nil
			}

			jobs <- delivery
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		}
	}
}

func (c *consumer[T]) handle(ctx context.Context, msg Delivery, dependencies T) {
	if ctx.Err() != nil {
		requeue(ctx, msg)
		return
	}

	operation := func() (struct{}, error) {
		err := c.handler(ctx, msg, dependencies)
		if errors.Is(err, ErrPermanent) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.opts.InitialInterval
	bo.MaxInterval = c.opts.MaxInterval

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(c.opts.MaxTries),
		backoff.WithMaxElapsedTime(0),
	)
	if err == nil {
		if ackErr := msg.Ack(); ackErr != nil {
			zerolog.Ctx(ctx).Error().Err(ackErr).Msg("failed to acknowledge message")
		}
		return
	}

	// Shutting down: hand the message back rather than dead-letter it.
	if ctx.Err() != nil {
		requeue(ctx, msg)
		return
	}

	zerolog.Ctx(ctx).Error().Err(err).Msg("failed to handle message after all retries")
	if c.onExhausted != nil {
		c.onExhausted(ctx, msg, dependencies, err)
	}
	if nackErr := msg.Nack(false); nackErr != nil {
		zerolog.Ctx(ctx).Error().Err(nackErr).Msg("failed to nack message to send to DLQ")
	}
}

func requeue(ctx context.Context, msg Delivery) {
	if err := msg.Nack(true); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to requeue message")
	}
}
