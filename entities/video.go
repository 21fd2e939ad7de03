package entities

import (
	"time"
	"videoflix/constant"
)

type Video struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Title         string         `json:"title" gorm:"type:varchar(255);not null"`
	Description   string         `json:"description" gorm:"type:text"`
	Genre         constant.Genre `json:"genre" gorm:"type:varchar(50);not null;index:idx_videos_genre"`
	SourcePath    string         `json:"source_path" gorm:"type:varchar(255);not null;uniqueIndex:idx_videos_source_path"`
	ThumbnailPath *string        `json:"thumbnail_path" gorm:"type:varchar(255)"`
	OwnerID       uint           `json:"owner_id" gorm:"index:idx_videos_owner_id"`
	UploadedAt    time.Time      `json:"uploaded_at" gorm:"not null;autoCreateTime"`
}

func (Video) TableName() string {
	return "videos"
}
