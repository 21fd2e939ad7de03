package service

import (
	"context"
	"errors"
	"fmt"
	"path"

	"videoflix/constant"
	"videoflix/repository"
	"videoflix/storage"
)

// Stream is an open media file. The caller owns it and must Close it.
type Stream struct {
	storage.Object
	Name        string
	ContentType string
}

type StreamService struct {
	repo  repository.Repository
	store storage.Store
}

func NewStreamService(repo repository.Repository, store storage.Store) *StreamService {
	return &StreamService{repo: repo, store: store}
}

// Open resolves (video, resolution, filename) to the rendition's file. Any
// missing piece, including a filename that does not match the rendition,
// is ErrNotFound.
func (s *StreamService) Open(ctx context.Context, videoID uint, res constant.Resolution, filename string) (*Stream, error) {
	rendition, err := s.repo.GetRendition(ctx, videoID, res)
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrRenditionAbsent) {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if err != nil {
		return nil, err
	}
	if path.Base(rendition.Path) != filename {
		return nil, fmt.Errorf("%w: no file %q for video %d at %s", ErrNotFound, filename, videoID, res)
	}
	return s.open(ctx, rendition.Path)
}

// OpenThumbnail opens the video's thumbnail image.
func (s *StreamService) OpenThumbnail(ctx context.Context, videoID uint) (*Stream, error) {
	video, err := s.repo.FindVideoById(ctx, videoID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: video %d", ErrNotFound, videoID)
	}
	if err != nil {
		return nil, err
	}
	if video.ThumbnailPath == nil {
		return nil, fmt.Errorf("%w: video %d has no thumbnail", ErrNotFound, videoID)
	}
	return s.open(ctx, *video.ThumbnailPath)
}

func (s *StreamService) open(ctx context.Context, key string) (*Stream, error) {
	obj, err := s.store.Open(ctx, key)
	if errors.Is(err, storage.ErrNotExist) {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if err != nil {
		return nil, err
	}

	return &Stream{Object: obj, Name: path.Base(key), ContentType: storage.ContentType(key)}, nil
}
