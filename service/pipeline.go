package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"videoflix/constant"
	"videoflix/entities"
	"videoflix/metrics"
	"videoflix/repository"
	"videoflix/storage"
)

// Result describes what one pipeline run produced.
type Result struct {
	Renditions []constant.Resolution
	Thumbnail  bool
}

// Complete reports whether every resolution and the thumbnail were written.
func (r *Result) Complete() bool {
	return r != nil && len(r.Renditions) == len(constant.Ladder()) && r.Thumbnail
}

// Pipeline encodes a video's source into the resolution ladder and a
// thumbnail. It never retries; re-running overwrites the same keys.
type Pipeline struct {
	ladder  repository.LadderRepository
	store   storage.Store
	encoder Encoder
}

func NewPipeline(ladder repository.LadderRepository, store storage.Store, encoder Encoder) *Pipeline {
	return &Pipeline{ladder: ladder, store: store, encoder: encoder}
}

// Run encodes the ladder in ascending order while the thumbnail is extracted
// alongside. A failing encode stops the remaining resolutions; a failing
// thumbnail only leaves Result.Thumbnail false.
func (p *Pipeline) Run(ctx context.Context, video *entities.Video, workDir string) (*Result, error) {
	if err := os.MkdirAll(workDir, os.ModePerm); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to create work dir")
		return nil, err
	}

	src, err := p.store.Fetch(ctx, video.SourcePath, workDir)
	if errors.Is(err, storage.ErrNotExist) || errors.Is(err, storage.ErrInvalidKey) {
		zerolog.Ctx(ctx).Error().Err(err).Str("source", video.SourcePath).Msg("source file missing")
		return nil, errors.Join(ErrNonRetryable, err)
	}
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to fetch source file")
		return nil, err
	}

	base := BaseName(video.SourcePath)
	result := &Result{}

	var g errgroup.Group
	g.Go(func() error {
		if err := p.thumbnail(ctx, video.ID, src, base, workDir); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("thumbnail not produced")
			return nil
		}
		result.Thumbnail = true
		return nil
	})
	g.Go(func() error {
		for _, res := range constant.Ladder() {
			if err := p.rendition(ctx, video.ID, src, base, workDir, res); err != nil {
				return err
			}
			result.Renditions = append(result.Renditions, res)
		}
		return nil
	})

	return result, g.Wait()
}

func (p *Pipeline) rendition(ctx context.Context, videoID uint, src, base, workDir string, res constant.Resolution) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logger := zerolog.Ctx(ctx).With().Str("resolution", res.String()).Logger()

	key := RenditionKey(base, res)
	dst := filepath.Join(workDir, filepath.Base(key))

	started := time.Now()
	err := p.encoder.Encode(ctx, src, dst, res.Height())
	metrics.ObserveRendition(res.String(), err == nil, time.Since(started))
	if err != nil {
		logger.Error().Err(err).Msg("failed to encode rendition")
		return fmt.Errorf("%w: encode %s: %w", ErrExternalTool, res, err)
	}
	defer os.Remove(dst)

	size, err := p.store.Put(ctx, key, dst)
	if err != nil {
		logger.Error().Err(err).Str("key", key).Msg("failed to store rendition")
		return err
	}

	if err := p.ladder.PutRendition(ctx, videoID, res, key, size); err != nil {
		logger.Error().Err(err).Msg("failed to record rendition")
		return err
	}

	logger.Info().Str("key", key).Int64("size", size).Dur("took", time.Since(started)).Msg("rendition ready")
	return nil
}

func (p *Pipeline) thumbnail(ctx context.Context, videoID uint, src, base, workDir string) error {
	key := ThumbnailKey(base)
	dst := filepath.Join(workDir, filepath.Base(key))

	started := time.Now()
	if err := p.encoder.Thumbnail(ctx, src, dst); err != nil {
		return fmt.Errorf("%w: thumbnail: %w", ErrExternalTool, err)
	}
	metrics.ObserveThumbnail(time.Since(started))
	defer os.Remove(dst)

	if _, err := p.store.Put(ctx, key, dst); err != nil {
		return err
	}
	if err := p.ladder.SetThumbnail(ctx, videoID, key); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().Str("key", key).Msg("thumbnail ready")
	return nil
}
