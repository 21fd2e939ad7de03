package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"videoflix/config"
	"videoflix/constant"
	"videoflix/dto"
	"videoflix/entities"
	"videoflix/repository"
	"videoflix/storage"
)

const (
	maxTitleLength = 255
	maxKeyAttempts = 5
)

type JobEnqueuer interface {
	Enqueue(ctx context.Context, message dto.JobMessage) error
}

type UploadInput struct {
	Title       string
	Description string
	Genre       string
	FileName    string
	File        io.Reader
	OwnerID     uint
}

// CatalogService owns video metadata and the single path that turns an upload
// into a transcode job.
type CatalogService struct {
	repo     repository.Repository
	store    storage.Store
	enqueuer JobEnqueuer
	progress *ProgressService
	app      config.App
}

func NewCatalogService(repo repository.Repository, store storage.Store, enqueuer JobEnqueuer, progress *ProgressService, app config.App) *CatalogService {
	return &CatalogService{
		repo:     repo,
		store:    store,
		enqueuer: enqueuer,
		progress: progress,
		app:      app,
	}
}

// Upload creates the video and a PENDING job and stores the original in one
// transaction, then enqueues the job exactly once. Every video gets its own
// original key.
func (s *CatalogService) Upload(ctx context.Context, in UploadInput) (*entities.Video, *entities.Job, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || len(title) > maxTitleLength {
		return nil, nil, fmt.Errorf("%w: title must be 1 to %d characters", ErrInvalidRequest, maxTitleLength)
	}
	genre := constant.Genre(strings.TrimSpace(in.Genre))
	if !genre.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown genre %q", ErrInvalidRequest, in.Genre)
	}
	name := cleanFileName(in.FileName)
	if name == "" || in.File == nil {
		return nil, nil, fmt.Errorf("%w: original_file is required", ErrInvalidRequest)
	}

	video := &entities.Video{
		Title:       title,
		Description: in.Description,
		Genre:       genre,
		OwnerID:     in.OwnerID,
	}
	job := &entities.Job{
		ID:      uuid.New(),
		Status:  constant.JobStatusPending,
		JobType: constant.JobTypeTranscoder,
	}

	key, err := s.availableKey(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	// The unique index on source_path reserves the key; a concurrent upload
	// of the same name loses the insert and retries under a suffixed key.
	for attempt := 1; ; attempt++ {
		err = s.create(ctx, video, job, key, in.File)
		if !errors.Is(err, repository.ErrDuplicateKey) || attempt == maxKeyAttempts {
			break
		}
		zerolog.Ctx(ctx).Debug().Str("key", key).Msg("original key taken, retrying")
		key = suffixedKey(name)
	}
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("key", key).Msg("failed to create video")
		return nil, nil, err
	}

	if err := s.enqueue(ctx, job); err != nil {
		return video, job, err
	}
	return video, job, nil
}

// Requeue starts a fresh transcode job for an existing video.
func (s *CatalogService) Requeue(ctx context.Context, videoID uint) (*entities.Job, error) {
	if _, err := s.findVideo(ctx, videoID); err != nil {
		return nil, err
	}
	job := &entities.Job{
		ID:      uuid.New(),
		VideoID: videoID,
		Status:  constant.JobStatusPending,
		JobType: constant.JobTypeTranscoder,
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, err
	}
	if err := s.enqueue(ctx, job); err != nil {
		return job, err
	}
	return job, nil
}

func (s *CatalogService) enqueue(ctx context.Context, job *entities.Job) error {
	err := s.enqueuer.Enqueue(ctx, dto.JobMessage{JobId: job.ID, VideoId: job.VideoID})
	if err == nil {
		return nil
	}
	if updateErr := s.repo.UpdateStatusJob(context.WithoutCancel(ctx), constant.JobStatusFailed, job.ID, err.Error()); updateErr != nil {
		zerolog.Ctx(ctx).Error().Err(updateErr).Msg("failed to update job status")
	}
	job.Status = constant.JobStatusFailed
	return fmt.Errorf("enqueue transcode job: %w", err)
}

// create inserts the video and its job and stores the original under key,
// all in one transaction. Bytes already written are removed when the
// transaction does not commit.
func (s *CatalogService) create(ctx context.Context, video *entities.Video, job *entities.Job, key string, file io.Reader) error {
	video.ID = 0
	video.SourcePath = key
	stored := false
	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		if err := s.repo.CreateVideo(ctx, video); err != nil {
			return err
		}
		job.VideoID = video.ID
		if err := s.repo.CreateJob(ctx, job); err != nil {
			return err
		}

		stored = true
		size, err := s.store.Save(ctx, key, file)
		if err != nil {
			return fmt.Errorf("store original: %w", err)
		}
		zerolog.Ctx(ctx).Info().Str("key", key).Int64("size", size).Msg("original stored")
		return nil
	})
	if err != nil && stored {
		if delErr := s.store.Delete(context.WithoutCancel(ctx), key); delErr != nil {
			zerolog.Ctx(ctx).Error().Err(delErr).Str("key", key).Msg("failed to remove orphaned original")
		}
	}
	return err
}

// availableKey returns videos/original/{name}, or a suffixed variant when a
// file already sits at that key so rendition keys derived from it stay
// unique.
func (s *CatalogService) availableKey(ctx context.Context, name string) (string, error) {
	key := OriginalKey(name)
	exists, err := s.store.Exists(ctx, key)
	if err != nil || !exists {
		return key, err
	}
	return suffixedKey(name), nil
}

func suffixedKey(name string) string {
	ext := path.Ext(name)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return OriginalKey(strings.TrimSuffix(name, ext) + "_" + suffix + ext)
}

func (s *CatalogService) List(ctx context.Context, genre string) ([]dto.VideoListItem, error) {
	g := constant.Genre(strings.TrimSpace(genre))
	if g != "" && !g.Valid() {
		return nil, fmt.Errorf("%w: unknown genre %q", ErrInvalidRequest, genre)
	}
	videos, err := s.repo.ListVideos(ctx, g)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VideoListItem, 0, len(videos))
	for _, video := range videos {
		items = append(items, s.listItem(video))
	}
	return items, nil
}

// Detail describes a video and the renditions it can be streamed in. When
// requested is empty the 720p rendition is chosen, falling back to the
// highest available. userID is nil for anonymous callers.
func (s *CatalogService) Detail(ctx context.Context, videoID uint, requested string, userID *uint) (*dto.VideoDetail, error) {
	video, err := s.findVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	renditions, err := s.repo.ListRenditions(ctx, videoID)
	if err != nil {
		return nil, err
	}

	urls := make(map[string]string, len(renditions))
	byResolution := make(map[constant.Resolution]*entities.Rendition, len(renditions))
	for _, rendition := range renditions {
		urls[rendition.Resolution.String()] = s.streamURL(videoID, rendition)
		byResolution[rendition.Resolution] = rendition
	}

	var chosen *entities.Rendition
	if requested = strings.TrimSpace(requested); requested != "" {
		res, err := constant.ParseResolution(requested)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		if chosen = byResolution[res]; chosen == nil {
			return nil, fmt.Errorf("%w: resolution %s is not available", ErrInvalidRequest, res)
		}
	} else if chosen = byResolution[constant.Resolution720p]; chosen == nil && len(renditions) > 0 {
		chosen = renditions[len(renditions)-1]
	}

	detail := &dto.VideoDetail{
		Id:                   video.ID,
		Title:                video.Title,
		Description:          video.Description,
		ThumbnailUrl:         s.thumbnailURL(video),
		Genre:                string(video.Genre),
		UploadDate:           video.UploadedAt,
		AvailableResolutions: urls,
	}
	if chosen != nil {
		label := chosen.Resolution.String()
		url := urls[label]
		detail.Resolution = &label
		detail.VideoUrl = &url
	}
	if userID != nil {
		if detail.LastPosition, err = s.progress.Read(ctx, *userID, videoID); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

// ContinueWatching lists the user's started videos, most recent first.
func (s *CatalogService) ContinueWatching(ctx context.Context, userID uint) ([]dto.ContinueWatchingItem, error) {
	records, err := s.progress.ListInProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ContinueWatchingItem, 0, len(records))
	for _, record := range records {
		if record.Video == nil {
			continue
		}
		items = append(items, dto.ContinueWatchingItem{
			VideoListItem:   s.listItem(record.Video),
			PositionSeconds: record.PositionSeconds,
			UpdatedAt:       record.UpdatedAt,
		})
	}
	return items, nil
}

func (s *CatalogService) JobStatus(ctx context.Context, jobID uuid.UUID) (*dto.JobStatusResponse, error) {
	job, err := s.repo.FindJobById(ctx, jobID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: job %s", ErrNotFound, jobID)
	}
	if err != nil {
		return nil, err
	}
	return &dto.JobStatusResponse{
		Id:        job.ID,
		VideoId:   job.VideoID,
		Status:    string(job.Status),
		Attempts:  job.Attempts,
		LastError: job.LastError,
		CreatedAt: job.CreatedAt,
		UpdatedAt: job.UpdatedAt,
	}, nil
}

func (s *CatalogService) findVideo(ctx context.Context, videoID uint) (*entities.Video, error) {
	video, err := s.repo.FindVideoById(ctx, videoID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: video %d", ErrNotFound, videoID)
	}
	return video, err
}

func (s *CatalogService) listItem(video *entities.Video) dto.VideoListItem {
	return dto.VideoListItem{
		Id:           video.ID,
		Title:        video.Title,
		Description:  video.Description,
		ThumbnailUrl: s.thumbnailURL(video),
		UploadDate:   video.UploadedAt,
		Genre:        string(video.Genre),
	}
}

func (s *CatalogService) url(p string) string {
	return fmt.Sprintf("%s://%s%s", s.app.Protocol, s.app.Host, p)
}

func (s *CatalogService) streamURL(videoID uint, rendition *entities.Rendition) string {
	return s.url(fmt.Sprintf("/video/%d/stream/%s/%s", videoID, rendition.Resolution, path.Base(rendition.Path)))
}

func (s *CatalogService) thumbnailURL(video *entities.Video) *string {
	if video.ThumbnailPath == nil {
		return nil
	}
	u := s.url(fmt.Sprintf("/video/%d/thumbnail", video.ID))
	return &u
}

// cleanFileName keeps the base name and replaces anything outside
// [A-Za-z0-9._-] with an underscore.
func cleanFileName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == ".." || name == "/" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '-' || r == '_') {
			return r
		}
		return '_'
	}, name)
}
