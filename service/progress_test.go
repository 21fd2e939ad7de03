package service_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"videoflix/service"
	"videoflix/testutil"
)

func TestProgress_UpsertAndRead(t *testing.T) {
	ctx := testutil.Context(t)
	repo := testutil.NewRepo(t)
	video := testutil.CreateVideo(t, repo, "clip.mp4")
	progress := service.NewProgressService(repo)

	position, err := progress.Read(ctx, 1, video.ID)
	require.NoError(t, err)
	assert.Zero(t, position)

	_, err = progress.Upsert(ctx, 1, video.ID, 12.5)
	require.NoError(t, err)
	record, err := progress.Upsert(ctx, 1, video.ID, 20.0)
	require.NoError(t, err)
	assert.Equal(t, 20.0, record.PositionSeconds)

	position, err = progress.Read(ctx, 1, video.ID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, position)

	position, err = progress.Read(ctx, 2, video.ID)
	require.NoError(t, err)
	assert.Zero(t, position)
}

func TestProgress_Rejects(t *testing.T) {
	ctx := testutil.Context(t)
	repo := testutil.NewRepo(t)
	video := testutil.CreateVideo(t, repo, "clip.mp4")
	progress := service.NewProgressService(repo)

	for _, position := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := progress.Upsert(ctx, 1, video.ID, position)
		assert.ErrorIs(t, err, service.ErrInvalidRequest, position)
	}

	_, err := progress.Upsert(ctx, 1, 999, 10)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
