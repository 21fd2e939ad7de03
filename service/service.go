package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"videoflix/config"
	"videoflix/constant"
	"videoflix/dto"
	"videoflix/entities"
	"videoflix/metrics"
	"videoflix/pkg/lock"
	"videoflix/repository"
)

type Service interface {
	Process(ctx context.Context, message dto.JobMessage) error
	// MarkExhausted settles a job whose retries ran out: PARTIAL when some
	// renditions exist, FAILED otherwise.
	MarkExhausted(ctx context.Context, message dto.JobMessage, cause error) error
}

type service struct {
	repo     repository.Repository
	pipeline *Pipeline
	locker   lock.Locker
	cfg      *config.Config
	group    singleflight.Group
}

// errAlreadyCompleted ends a run whose job finished while it waited for the
// lease.
var errAlreadyCompleted = errors.New("job already completed")

func (s *service) Process(ctx context.Context, message dto.JobMessage) error {
	logger := zerolog.Ctx(ctx).With().
		Str("job_id", message.JobId.String()).
		Uint("video_id", message.VideoId).
		Logger()
	ctx = logger.WithContext(ctx)

	zerolog.Ctx(ctx).Info().Msg("processing job")
	job, err := s.repo.FindJobById(ctx, message.JobId)
	if errors.Is(err, repository.ErrNotFound) {
		zerolog.Ctx(ctx).Warn().Msg("job does not exist, dropping message")
		return nil
	}
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to find job by id")
		return err
	}

	if job.Status == constant.JobStatusCompleted {
		zerolog.Ctx(ctx).Info().Msg("job already completed")
		return nil
	}

	key := "video:" + strconv.FormatUint(uint64(job.VideoID), 10)
	shared, err, _ := s.group.Do(key, func() (any, error) {
		return s.transcode(ctx, key, job)
	})
	switch {
	case errors.Is(err, ErrDuplicateRun):
		// The lease holder owns the job status.
		zerolog.Ctx(ctx).Info().Msg("video is being transcoded elsewhere")
		return nil
	case errors.Is(err, errAlreadyCompleted):
		// The run may have been shared with another job of the same video.
		own, findErr := s.repo.FindJobById(ctx, job.ID)
		if findErr != nil {
			return findErr
		}
		if own.Status != constant.JobStatusCompleted {
			return fmt.Errorf("shared run for %s skipped, retrying", key)
		}
		zerolog.Ctx(ctx).Info().Msg("job completed while waiting for the lease")
		return nil
	}
	result, _ := shared.(*Result)
	return s.finish(ctx, job, result, err)
}

// transcode runs the pipeline while holding the cross-process lease for the
// video. Concurrent callers in this process share one run via singleflight.
// The job is only marked PROCESSING once the lease is held.
func (s *service) transcode(ctx context.Context, key string, job *entities.Job) (*Result, error) {
	lease, err := s.locker.Acquire(ctx, key)
	if errors.Is(err, lock.ErrLocked) {
		return nil, ErrDuplicateRun
	}
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to acquire transcode lock")
		return nil, err
	}
	defer func() {
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to release transcode lock")
		}
	}()

	current, err := s.repo.FindJobById(ctx, job.ID)
	if err != nil {
		return nil, err
	}
	if current.Status == constant.JobStatusCompleted {
		return nil, errAlreadyCompleted
	}
	if err := s.repo.StartJob(ctx, job.ID); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to update job status")
		return nil, err
	}

	video, err := s.repo.FindVideoById(ctx, job.VideoID)
	if errors.Is(err, repository.ErrNotFound) {
		zerolog.Ctx(ctx).Error().Msg("video does not exist")
		return nil, errors.Join(ErrNonRetryable, err)
	}
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to find video")
		return nil, err
	}

	workDir := filepath.Join(s.cfg.Transcode.WorkDir, job.ID.String())
	defer os.RemoveAll(workDir)

	return s.pipeline.Run(ctx, video, workDir)
}

// finish records the outcome of a run on the job. Errors other than
// non-retryable ones are returned so the queue retries the message.
func (s *service) finish(ctx context.Context, job *entities.Job, result *Result, err error) error {
	status, reason := constant.JobStatusPending, ""
	switch {
	case errors.Is(err, ErrNonRetryable):
		status, reason = constant.JobStatusFailed, err.Error()
		err = nil
	case err != nil:
		reason = err.Error()
	case result.Complete():
		status = constant.JobStatusCompleted
	default:
		status, reason = constant.JobStatusPartial, "thumbnail not produced"
	}

	if updateErr := s.repo.UpdateStatusJob(context.WithoutCancel(ctx), status, job.ID, reason); updateErr != nil {
		zerolog.Ctx(ctx).Error().Err(updateErr).Msg("failed to update job status")
	}
	if status.Terminal() {
		metrics.IncJob(string(status))
	}
	if err == nil && result != nil {
		zerolog.Ctx(ctx).Info().
			Int("renditions", len(result.Renditions)).
			Bool("thumbnail", result.Thumbnail).
			Str("status", string(status)).
			Msg("job finished")
	}
	return err
}

func (s *service) MarkExhausted(ctx context.Context, message dto.JobMessage, cause error) error {
	status := constant.JobStatusFailed
	available, err := s.repo.ListAvailable(ctx, message.VideoId)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if len(available) > 0 {
		status = constant.JobStatusPartial
	}

	reason := ""
	if cause != nil {
		reason = cause.Error()
	}
	if err := s.repo.UpdateStatusJob(ctx, status, message.JobId, reason); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	metrics.IncJob(string(status))
	zerolog.Ctx(ctx).Warn().
		Str("job_id", message.JobId.String()).
		Str("status", string(status)).
		Int("renditions", len(available)).
		Msg("job retries exhausted")
	return nil
}

func NewService(repo repository.Repository, pipeline *Pipeline, locker lock.Locker, cfg *config.Config) Service {
	if locker == nil {
		locker = lock.Nop{}
	}
	return &service{
		repo:     repo,
		pipeline: pipeline,
		locker:   locker,
		cfg:      cfg,
	}
}
