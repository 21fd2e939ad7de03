package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"videoflix/constant"
	"videoflix/entities"
	"videoflix/repository"
	"videoflix/testutil"
)

func TestCreateVideo_SourcePathIsUnique(t *testing.T) {
	ctx := testutil.Context(t)
	repo := testutil.NewRepo(t)
	first := testutil.CreateVideo(t, repo, "clip.mp4")

	err := repo.CreateVideo(ctx, &entities.Video{
		Title:      "Copy",
		Genre:      constant.GenreDrama,
		SourcePath: first.SourcePath,
	})
	assert.ErrorIs(t, err, repository.ErrDuplicateKey)

	videos, err := repo.ListVideos(ctx, "")
	require.NoError(t, err)
	assert.Len(t, videos, 1)
}
