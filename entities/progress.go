package entities

import "time"

type Progress struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserID          uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_progress_user_video"`
	VideoID         uint      `json:"video_id" gorm:"not null;uniqueIndex:idx_progress_user_video"`
	PositionSeconds float64   `json:"position_in_seconds" gorm:"not null"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"not null;index:idx_progress_updated_at"`

	Video *Video `json:"video,omitempty" gorm:"foreignKey:VideoID"`
}

func (Progress) TableName() string {
	return "video_progress"
}
