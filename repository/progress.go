package repository

import (
	"context"

	"gorm.io/gorm/clause"
	"videoflix/entities"
)

type ProgressRepository interface {
	UpsertProgress(ctx context.Context, progress *entities.Progress) error
	FindProgress(ctx context.Context, userID, videoID uint) (*entities.Progress, error)
	ListInProgress(ctx context.Context, userID uint) ([]*entities.Progress, error)
}

// UpsertProgress writes the position for (user, video) in a single statement;
// concurrent writers resolve to whichever commits last.
func (r *repo) UpsertProgress(ctx context.Context, progress *entities.Progress) error {
	return r.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"position_seconds", "updated_at"}),
	}).Create(progress).Error
}

func (r *repo) FindProgress(ctx context.Context, userID, videoID uint) (*entities.Progress, error) {
	progress := &entities.Progress{}
	err := r.conn(ctx).First(progress, "user_id = ? AND video_id = ?", userID, videoID).Error
	if err != nil {
		return nil, translate(err)
	}
	return progress, nil
}

// ListInProgress returns records with a positive position, most recently
// updated first.
func (r *repo) ListInProgress(ctx context.Context, userID uint) ([]*entities.Progress, error) {
	var records []*entities.Progress
	err := r.conn(ctx).
		Preload("Video").
		Where("user_id = ? AND position_seconds > 0", userID).
		Order("updated_at DESC, video_id DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
