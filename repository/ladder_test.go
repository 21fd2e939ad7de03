package repository_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"videoflix/constant"
	"videoflix/entities"
	"videoflix/repository"
	"videoflix/testutil"
)

func TestLadder_GetRendition(t *testing.T) {
	ctx := testutil.Context(t)
	repo := testutil.NewRepo(t)
	video := testutil.CreateVideo(t, repo, "clip.mp4")

	_, err := repo.GetRendition(ctx, video.ID, constant.Resolution720p)
	assert.ErrorIs(t, err, repository.ErrRenditionAbsent)

	_, err = repo.GetRendition(ctx, video.ID+100, constant.Resolution720p)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, repo.PutRendition(ctx, video.ID, constant.Resolution720p, "videos/720p/clip_720p.mp4", 2048))

	got, err := repo.GetRendition(ctx, video.ID, constant.Resolution720p)
	require.NoError(t, err)
	assert.Equal(t, constant.Resolution720p, got.Resolution)
	assert.Equal(t, "videos/720p/clip_720p.mp4", got.Path)
	assert.EqualValues(t, 2048, got.Size)
}

func TestLadder_PutRenditionOverwrites(t *testing.T) {
	ctx := testutil.Context(t)
	repo := testutil.NewRepo(t)
	video := testutil.CreateVideo(t, repo, "clip.mp4")

	for _, size := range []int64{100, 250} {
		for _, res := range constant.Ladder() {
			require.NoError(t, repo.PutRendition(ctx, video.ID, res, "videos/"+res.String()+"/clip_"+res.String()+".mp4", size))
		}
	}

	var count int64
	require.NoError(t, repo.GetDB().Model(&entities.Rendition{}).Where("video_id = ?", video.ID).Count(&count).Error)
	assert.EqualValues(t, 4, count)

	got, err := repo.GetRendition(ctx, video.ID, constant.Resolution1080p)
	require.NoError(t, err)
	assert.EqualValues(t, 250, got.Size)
}

func TestLadder_ListAvailableIsOrdered(t *testing.T) {
	ctx := testutil.Context(t)
	repo := testutil.NewRepo(t)
	video := testutil.CreateVideo(t, repo, "clip.mp4")

	available, err := repo.ListAvailable(ctx, video.ID)
	require.NoError(t, err)
	assert.Empty(t, available)

	require.NoError(t, repo.PutRendition(ctx, video.ID, constant.Resolution1080p, "b", 1))
	require.NoError(t, repo.PutRendition(ctx, video.ID, constant.Resolution180p, "a", 1))

	available, err = repo.ListAvailable(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, []constant.Resolution{constant.Resolution180p, constant.Resolution1080p}, available)

	_, err = repo.ListAvailable(ctx, 9999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLadder_ConcurrentReadersSeeWholeRows(t *testing.T) {
	ctx := testutil.Context(t)
	repo := testutil.NewRepo(t)
	video := testutil.CreateVideo(t, repo, "clip.mp4")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for _, res := range constant.Ladder() {
			assert.NoError(t, repo.PutRendition(ctx, video.ID, res, "videos/"+res.String(), int64(res.Height())))
		}
	}()
	go func() {
		defer wg.Done()
		seen := 0
		for i := 0; i < 50; i++ {
			renditions, err := repo.ListRenditions(ctx, video.ID)
			if !assert.NoError(t, err) {
				return
			}
			assert.GreaterOrEqual(t, len(renditions), seen, "ladder must never shrink")
			seen = len(renditions)
			for _, r := range renditions {
				assert.Equal(t, "videos/"+r.Resolution.String(), r.Path)
				assert.EqualValues(t, r.Resolution.Height(), r.Size)
			}
		}
	}()
	wg.Wait()
}

func TestLadder_SetThumbnail(t *testing.T) {
	ctx := testutil.Context(t)
	repo := testutil.NewRepo(t)
	video := testutil.CreateVideo(t, repo, "clip.mp4")

	require.NoError(t, repo.SetThumbnail(ctx, video.ID, "videos/thumbnails/clip.jpg"))
	got, err := repo.FindVideoById(ctx, video.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ThumbnailPath)
	assert.Equal(t, "videos/thumbnails/clip.jpg", *got.ThumbnailPath)

	assert.ErrorIs(t, repo.SetThumbnail(ctx, 9999, "x"), repository.ErrNotFound)
}
