package repository_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"videoflix/entities"
	"videoflix/repository"
	"videoflix/testutil"
)

func TestProgress_UpsertKeepsOneRow(t *testing.T) {
	ctx := testutil.Context(t)
	repo := testutil.NewRepo(t)
	video := testutil.CreateVideo(t, repo, "clip.mp4")
	now := time.Now().UTC()

	require.NoError(t, repo.UpsertProgress(ctx, &entities.Progress{UserID: 1, VideoID: video.ID, PositionSeconds: 12.5, UpdatedAt: now}))
	require.NoError(t, repo.UpsertProgress(ctx, &entities.Progress{UserID: 1, VideoID: video.ID, PositionSeconds: 20.0, UpdatedAt: now.Add(time.Second)}))

	var count int64
	require.NoError(t, repo.GetDB().Model(&entities.Progress{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	got, err := repo.FindProgress(ctx, 1, video.ID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, got.PositionSeconds)
}

func TestProgress_FindMissing(t *testing.T) {
	ctx := testutil.Context(t)
	repo := testutil.NewRepo(t)

	_, err := repo.FindProgress(ctx, 1, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProgress_ConcurrentUpsertsLastWriteWins(t *testing.T) {
	ctx := testutil.Context(t)
	repo := testutil.NewRepo(t)
	video := testutil.CreateVideo(t, repo, "clip.mp4")

	positions := []float64{5, 10, 15, 20, 25, 30, 35, 40}
	var wg sync.WaitGroup
	for _, pos := range positions {
		wg.Add(1)
		go func(pos float64) {
			defer wg.Done()
			assert.NoError(t, repo.UpsertProgress(ctx, &entities.Progress{UserID: 7, VideoID: video.ID, PositionSeconds: pos, UpdatedAt: time.Now()}))
		}(pos)
	}
	wg.Wait()

	var records []entities.Progress
	require.NoError(t, repo.GetDB().Where("user_id = ?", 7).Find(&records).Error)
	require.Len(t, records, 1)
	assert.Contains(t, positions, records[0].PositionSeconds)
}

func TestProgress_ListInProgressOrdering(t *testing.T) {
	ctx := testutil.Context(t)
	repo := testutil.NewRepo(t)
	first := testutil.CreateVideo(t, repo, "a.mp4")
	second := testutil.CreateVideo(t, repo, "b.mp4")
	unstarted := testutil.CreateVideo(t, repo, "c.mp4")
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.UpsertProgress(ctx, &entities.Progress{UserID: 1, VideoID: first.ID, PositionSeconds: 10, UpdatedAt: base}))
	require.NoError(t, repo.UpsertProgress(ctx, &entities.Progress{UserID: 1, VideoID: second.ID, PositionSeconds: 3, UpdatedAt: base.Add(time.Minute)}))
	require.NoError(t, repo.UpsertProgress(ctx, &entities.Progress{UserID: 1, VideoID: unstarted.ID, PositionSeconds: 0, UpdatedAt: base.Add(2 * time.Minute)}))
	require.NoError(t, repo.UpsertProgress(ctx, &entities.Progress{UserID: 2, VideoID: first.ID, PositionSeconds: 99, UpdatedAt: base}))

	records, err := repo.ListInProgress(ctx, 1)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, second.ID, records[0].VideoID)
	assert.Equal(t, first.ID, records[1].VideoID)
	require.NotNil(t, records[0].Video)
	assert.Equal(t, second.Title, records[0].Video.Title)
}
