package service

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"videoflix/dto"
	"videoflix/pkg/queue"
)

// Enqueuer publishes transcode requests. Delivery is at-least-once and
// messages are not deduplicated.
type Enqueuer struct {
	publisher queue.Publisher
}

func NewEnqueuer(publisher queue.Publisher) *Enqueuer {
	return &Enqueuer{publisher: publisher}
}

func (e *Enqueuer) Enqueue(ctx context.Context, message dto.JobMessage) error {
	body, err := json.Marshal(message)
	if err != nil {
		return err
	}
	if err := e.publisher.Publish(ctx, body); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("job_id", message.JobId.String()).Msg("failed to publish job")
		return err
	}
	zerolog.Ctx(ctx).Info().
		Str("job_id", message.JobId.String()).
		Uint("video_id", message.VideoId).
		Msg("job enqueued")
	return nil
}
