package rabbitmq

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"videoflix/config"
)

const (
	QueueName     = "transcoding_queue"
	RoutingKey    = "transcoding.request"
	DLXName       = "transcoding_exchange_dlx"
	DLQName       = "transcoding_queue_dlq"
	DLQRoutingKey = "dlq.transcoding.request"
)

// declare sets up the work queue and its dead-letter queue. Both sides call
// it, so whichever starts first creates the topology.
func declare(ctx context.Context, ch *amqp.Channel, cfg *config.RabbitMQ) error {
	exchangeName := cfg.ExchangeName

	err := ch.ExchangeDeclare(exchangeName, cfg.Kind, true, false, false, false, nil)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("exchange", exchangeName).Msg("failed to declare exchange")
		return err
	}

	err = ch.ExchangeDeclare(DLXName, cfg.Kind, true, false, false, false, nil)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("exchange", DLXName).Msg("failed to declare dlx")
		return err
	}

	dlq, err := ch.QueueDeclare(DLQName, true, false, false, false, nil)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("queue", DLQName).Msg("failed to declare dlq")
		return err
	}

	err = ch.QueueBind(dlq.Name, DLQRoutingKey, DLXName, false, nil)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to bind dlq")
		return err
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    DLXName,
		"x-dead-letter-routing-key": DLQRoutingKey,
	}
	q, err := ch.QueueDeclare(QueueName, true, false, false, false, args)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("queue", QueueName).Msg("failed to declare queue")
		return err
	}

	err = ch.QueueBind(q.Name, RoutingKey, exchangeName, false, nil)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("queue", QueueName).Msg("failed to bind queue")
		return err
	}
	return nil
}
