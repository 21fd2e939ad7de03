package service_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"videoflix/constant"
	"videoflix/service"
	"videoflix/testutil"
)

func TestStream_Open(t *testing.T) {
	ctx := testutil.Context(t)
	repo := testutil.NewRepo(t)
	store := testutil.NewStore(t)
	video := testutil.CreateVideo(t, repo, "clip.mp4")
	streams := service.NewStreamService(repo, store)

	const key = "videos/360p/clip_360p.mp4"
	_, err := store.Save(ctx, key, strings.NewReader("rendition"))
	require.NoError(t, err)
	require.NoError(t, repo.PutRendition(ctx, video.ID, constant.Resolution360p, key, 9))

	stream, err := streams.Open(ctx, video.ID, constant.Resolution360p, "clip_360p.mp4")
	require.NoError(t, err)
	defer stream.Close()
	assert.EqualValues(t, 9, stream.Size())
	assert.Equal(t, "video/mp4", stream.ContentType)
	data, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, "rendition", string(data))
}

func TestStream_OpenMissing(t *testing.T) {
	ctx := testutil.Context(t)
	repo := testutil.NewRepo(t)
	store := testutil.NewStore(t)
	video := testutil.CreateVideo(t, repo, "clip.mp4")
	streams := service.NewStreamService(repo, store)
	require.NoError(t, repo.PutRendition(ctx, video.ID, constant.Resolution180p, "videos/180p/clip_180p.mp4", 9))

	tests := []struct {
		name     string
		videoID  uint
		res      constant.Resolution
		filename string
	}{
		{"unknown video", 999, constant.Resolution180p, "clip_180p.mp4"},
		{"absent resolution", video.ID, constant.Resolution720p, "clip_720p.mp4"},
		{"wrong filename", video.ID, constant.Resolution180p, "other.mp4"},
		{"file not on disk", video.ID, constant.Resolution180p, "clip_180p.mp4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := streams.Open(ctx, tt.videoID, tt.res, tt.filename)
			assert.ErrorIs(t, err, service.ErrNotFound)
		})
	}

	_, err := streams.OpenThumbnail(ctx, video.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
