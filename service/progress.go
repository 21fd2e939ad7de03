package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"videoflix/entities"
	"videoflix/metrics"
	"videoflix/repository"
)

// ProgressService keeps one playback position per (user, video).
type ProgressService struct {
	repo repository.Repository
	now  func() time.Time
}

func NewProgressService(repo repository.Repository) *ProgressService {
	return &ProgressService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Upsert records position for the pair. Concurrent writers resolve to the
// last committed value.
func (s *ProgressService) Upsert(ctx context.Context, userID, videoID uint, position float64) (*entities.Progress, error) {
	if math.IsNaN(position) || math.IsInf(position, 0) || position < 0 {
		return nil, fmt.Errorf("%w: position_in_seconds must be a finite number >= 0", ErrInvalidRequest)
	}
	if _, err := s.repo.FindVideoById(ctx, videoID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: video %d", ErrNotFound, videoID)
		}
		return nil, err
	}

	progress := &entities.Progress{
		UserID:          userID,
		VideoID:         videoID,
		PositionSeconds: position,
		UpdatedAt:       s.now(),
	}
	if err := s.repo.UpsertProgress(ctx, progress); err != nil {
		return nil, err
	}
	metrics.IncProgressUpdate()
	return progress, nil
}

// Read returns 0 when nothing was recorded for the pair.
func (s *ProgressService) Read(ctx context.Context, userID, videoID uint) (float64, error) {
	progress, err := s.repo.FindProgress(ctx, userID, videoID)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return progress.PositionSeconds, nil
}

func (s *ProgressService) ListInProgress(ctx context.Context, userID uint) ([]*entities.Progress, error) {
	return s.repo.ListInProgress(ctx, userID)
}
