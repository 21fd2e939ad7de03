// Package handler adapts queue deliveries to service calls.
package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"videoflix/dto"
	"videoflix/pkg/queue"
	"videoflix/service"
)

type ServiceDependencies struct {
	TranscodeService service.Service
}

func decode(msg queue.Delivery) (dto.JobMessage, error) {
	var job dto.JobMessage
	if err := json.Unmarshal(msg.Body(), &job); err != nil {
		return job, fmt.Errorf("%w: decode job message: %v", queue.ErrPermanent, err)
	}
	if job.JobId == uuid.Nil {
		return job, fmt.Errorf("%w: job message without jobId", queue.ErrPermanent)
	}
	return job, nil
}

func JobHandler(ctx context.Context, msg queue.Delivery, deps ServiceDependencies) error {
	job, err := decode(msg)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to unmarshal job message")
		return err
	}

	return deps.TranscodeService.Process(ctx, job)
}

// JobExhausted records the final job status before the message is
// dead-lettered.
func JobExhausted(ctx context.Context, msg queue.Delivery, deps ServiceDependencies, cause error) {
	job, err := decode(msg)
	if err != nil {
		return
	}
	if err := deps.TranscodeService.MarkExhausted(ctx, job, cause); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("job_id", job.JobId.String()).Msg("failed to mark exhausted job")
	}
}
