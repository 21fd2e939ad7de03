package dto

import (
	"github.com/google/uuid"
	"time"
)

type JobMessage struct {
	JobId   uuid.UUID `json:"jobId"`
	VideoId uint      `json:"videoId"`
}

type ProgressRequest struct {
	VideoId         *uint    `json:"video_id"`
	PositionSeconds *float64 `json:"position_in_seconds"`
}

type ProgressResponse struct {
	VideoId         uint    `json:"video_id"`
	PositionSeconds float64 `json:"position_in_seconds"`
}

type UploadResponse struct {
	Detail string    `json:"detail"`
	Id     uint      `json:"id"`
	JobId  uuid.UUID `json:"job_id"`
}

type VideoListItem struct {
	Id           uint      `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailUrl *string   `json:"thumbnail"`
	UploadDate   time.Time `json:"upload_date"`
	Genre        string    `json:"genre"`
}

type VideoDetail struct {
	Id                   uint              `json:"id"`
	Title                string            `json:"title"`
	Description          string            `json:"description"`
	ThumbnailUrl         *string           `json:"thumbnail"`
	Genre                string            `json:"genre"`
	UploadDate           time.Time         `json:"upload_date"`
	AvailableResolutions map[string]string `json:"available_resolutions"`
	Resolution           *string           `json:"resolution"`
	VideoUrl             *string           `json:"video_url"`
	LastPosition         float64           `json:"last_position"`
}

type ContinueWatchingItem struct {
	VideoListItem
	PositionSeconds float64   `json:"position_in_seconds"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type JobStatusResponse struct {
	Id        uuid.UUID `json:"id"`
	VideoId   uint      `json:"video_id"`
	Status    string    `json:"status"`
	Attempts  int       `json:"attempts"`
	LastError string    `json:"last_error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}
