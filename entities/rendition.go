package entities

import (
	"time"
	"videoflix/constant"
)

// Rendition is one encoded copy of a video. A row exists only once the file
// is fully written at Path.
type Rendition struct {
	ID         uint                `json:"id" gorm:"primaryKey"`
	VideoID    uint                `json:"video_id" gorm:"not null;uniqueIndex:idx_renditions_video_resolution"`
	Resolution constant.Resolution `json:"resolution" gorm:"type:varchar(10);not null;uniqueIndex:idx_renditions_video_resolution"`
	Path       string              `json:"path" gorm:"type:varchar(255);not null"`
	Size       int64               `json:"size" gorm:"not null"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

func (Rendition) TableName() string {
	return "renditions"
}
