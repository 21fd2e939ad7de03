package rabbitmq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"videoflix/config"
	"videoflix/pkg/queue"
)

// Source consumes the transcoding queue with manual acknowledgement.
type Source struct {
	conn     *amqp.Connection
	cfg      *config.RabbitMQ
	prefetch int
}

func NewSource(conn *amqp.Connection, cfg *config.RabbitMQ, prefetch int) *Source {
	if prefetch < 1 {
		prefetch = 1
	}
	return &Source{conn: conn, cfg: cfg, prefetch: prefetch}
}

func (s *Source) Deliveries(ctx context.Context) (<-chan queue.Delivery, error) {
	ch, err := s.conn.Channel()
	if err != nil {
		return nil, err
	}

	if err := declare(ctx, ch, s.cfg); err != nil {
		_ = ch.Close()
		return nil, err
	}

	if err := ch.Qos(s.prefetch, 0, false); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("queue", QueueName).Msg("failed to set QoS")
		_ = ch.Close()
		return nil, err
	}

	msgs, err := ch.Consume(QueueName, "", false, false, false, false, nil)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("queue", QueueName).Msg("failed to consume queue")
		_ = ch.Close()
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("queue", QueueName).
		Str("exchange", s.cfg.ExchangeName).
		Str("routing_key", RoutingKey).
		Int("prefetch", s.prefetch).
		Msg("transcoding consumer started")

	out := make(chan queue.Delivery)
	go func() {
		defer close(out)
		defer ch.Close()
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					zerolog.Ctx(ctx).Warn().Str("queue", QueueName).Msg("delivery channel closed")
					return
				}
				select {
				case out <- delivery{msg: msg}:
				case <-ctx.Done():
					_ = msg.Nack(false, true)
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

type delivery struct {
	msg amqp.Delivery
}

func (d delivery) Body() []byte {
	return d.msg.Body
}

func (d delivery) Ack() error {
	return d.msg.Ack(false)
}

func (d delivery) Nack(requeue bool) error {
	return d.msg.Nack(false, requeue)
}
