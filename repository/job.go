package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"videoflix/constant"
	"videoflix/entities"
)

type JobRepository interface {
	CreateJob(ctx context.Context, job *entities.Job) error
	FindJobById(ctx context.Context, id uuid.UUID) (*entities.Job, error)
	StartJob(ctx context.Context, id uuid.UUID) error
	UpdateStatusJob(ctx context.Context, status constant.JobStatus, id uuid.UUID, reason string) error
}

func (r *repo) CreateJob(ctx context.Context, job *entities.Job) error {
	return r.conn(ctx).Create(job).Error
}

func (r *repo) FindJobById(ctx context.Context, id uuid.UUID) (*entities.Job, error) {
	job := &entities.Job{}
	if err := r.conn(ctx).First(job, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return job, nil
}

// StartJob moves the job in flight and counts the attempt.
func (r *repo) StartJob(ctx context.Context, id uuid.UUID) error {
	res := r.conn(ctx).Model(&entities.Job{}).Where("id = ?", id).Updates(map[string]any{
		"status":   constant.JobStatusProcessing,
		"attempts": gorm.Expr("attempts + 1"),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) UpdateStatusJob(ctx context.Context, status constant.JobStatus, id uuid.UUID, reason string) error {
	res := r.conn(ctx).Model(&entities.Job{}).Where("id = ?", id).Updates(map[string]any{
		"status":     status,
		"last_error": reason,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
