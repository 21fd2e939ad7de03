package repository

import (
	"context"

	"videoflix/constant"
	"videoflix/entities"
)

type VideoRepository interface {
	CreateVideo(ctx context.Context, video *entities.Video) error
	FindVideoById(ctx context.Context, id uint) (*entities.Video, error)
	ListVideos(ctx context.Context, genre constant.Genre) ([]*entities.Video, error)
}

func (r *repo) CreateVideo(ctx context.Context, video *entities.Video) error {
	return translate(r.conn(ctx).Create(video).Error)
}

func (r *repo) FindVideoById(ctx context.Context, id uint) (*entities.Video, error) {
	video := &entities.Video{}
	if err := r.conn(ctx).First(video, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return video, nil
}

// ListVideos returns newest uploads first. An empty genre lists everything.
func (r *repo) ListVideos(ctx context.Context, genre constant.Genre) ([]*entities.Video, error) {
	var videos []*entities.Video
	q := r.conn(ctx).Order("uploaded_at DESC, id DESC")
	if genre != "" {
		q = q.Where("genre = ?", genre)
	}
	if err := q.Find(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}
