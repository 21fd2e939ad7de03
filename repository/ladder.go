package repository

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm/clause"
	"videoflix/constant"
	"videoflix/entities"
)

// ErrRenditionAbsent means the video exists but the resolution has not been
// encoded yet.
var ErrRenditionAbsent = errors.New("rendition not available")

// LadderRepository maps a video to its encoded renditions and thumbnail. It
// never looks at the files themselves.
type LadderRepository interface {
	GetRendition(ctx context.Context, videoID uint, res constant.Resolution) (*entities.Rendition, error)
	PutRendition(ctx context.Context, videoID uint, res constant.Resolution, path string, size int64) error
	ListAvailable(ctx context.Context, videoID uint) ([]constant.Resolution, error)
	ListRenditions(ctx context.Context, videoID uint) ([]*entities.Rendition, error)
	SetThumbnail(ctx context.Context, videoID uint, path string) error
}

func (r *repo) GetRendition(ctx context.Context, videoID uint, res constant.Resolution) (*entities.Rendition, error) {
	rendition := &entities.Rendition{}
	err := r.conn(ctx).First(rendition, "video_id = ? AND resolution = ?", videoID, res).Error
	if err == nil {
		return rendition, nil
	}
	if err = translate(err); !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err := r.videoExists(ctx, videoID); err != nil {
		return nil, err
	}
	return nil, ErrRenditionAbsent
}

// PutRendition inserts or overwrites the ladder entry in one statement.
func (r *repo) PutRendition(ctx context.Context, videoID uint, res constant.Resolution, path string, size int64) error {
	rendition := &entities.Rendition{
		VideoID:    videoID,
		Resolution: res,
		Path:       path,
		Size:       size,
	}
	return r.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "video_id"}, {Name: "resolution"}},
		DoUpdates: clause.AssignmentColumns([]string{"path", "size", "updated_at"}),
	}).Create(rendition).Error
}

func (r *repo) ListRenditions(ctx context.Context, videoID uint) ([]*entities.Rendition, error) {
	if err := r.videoExists(ctx, videoID); err != nil {
		return nil, err
	}
	var renditions []*entities.Rendition
	if err := r.conn(ctx).Where("video_id = ?", videoID).Find(&renditions).Error; err != nil {
		return nil, err
	}
	sort.Slice(renditions, func(i, j int) bool {
		return renditions[i].Resolution < renditions[j].Resolution
	})
	return renditions, nil
}

func (r *repo) ListAvailable(ctx context.Context, videoID uint) ([]constant.Resolution, error) {
	renditions, err := r.ListRenditions(ctx, videoID)
	if err != nil {
		return nil, err
	}
	available := make([]constant.Resolution, 0, len(renditions))
	for _, rendition := range renditions {
		available = append(available, rendition.Resolution)
	}
	return available, nil
}

func (r *repo) SetThumbnail(ctx context.Context, videoID uint, path string) error {
	res := r.conn(ctx).Model(&entities.Video{}).Where("id = ?", videoID).Update("thumbnail_path", path)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) videoExists(ctx context.Context, videoID uint) error {
	var count int64
	if err := r.conn(ctx).Model(&entities.Video{}).Where("id = ?", videoID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}
