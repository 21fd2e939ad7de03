// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"videoflix/config"
	"videoflix/constant"
	"videoflix/entities"
	"videoflix/repository"
	"videoflix/storage"
)

// NewDB opens a migrated sqlite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "videoflix.sqlite") + "?_busy_timeout=5000&_foreign_keys=on"
	db, err := config.NewDB(config.Database{Driver: config.DatabaseDriverSQLite, DSN: dsn}, constant.EnvironmentProduction.String())
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(context.Background(), db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewRepo returns a repository over a fresh database.
func NewRepo(t *testing.T) repository.Repository {
	t.Helper()
	return repository.NewRepo(NewDB(t))
}

// Context carries a logger that discards output.
func Context(t *testing.T) context.Context {
	t.Helper()
	return zerolog.Nop().WithContext(t.Context())
}

// CreateVideo stores a catalog entry whose source key is videos/original/<name>.
func CreateVideo(t *testing.T, repo repository.Repository, name string) *entities.Video {
	t.Helper()

	video := &entities.Video{
		Title:       fmt.Sprintf("Video %s", name),
		Description: "test video",
		Genre:       constant.GenreDrama,
		SourcePath:  "videos/original/" + name,
	}
	require.NoError(t, repo.CreateVideo(context.Background(), video))
	return video
}

// NewStore returns a local store rooted in a temp dir.
func NewStore(t *testing.T) *storage.Local {
	t.Helper()
	store, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	return store
}

// CreateVideoWithSource stores content as the video's original and creates
// the catalog entry.
func CreateVideoWithSource(t *testing.T, repo repository.Repository, store storage.Store, name, content string) *entities.Video {
	t.Helper()
	video := CreateVideo(t, repo, name)
	_, err := store.Save(context.Background(), video.SourcePath, strings.NewReader(content))
	require.NoError(t, err)
	return video
}
