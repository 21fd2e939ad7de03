package server

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"videoflix/config"
	"videoflix/pkg/lock"
	"videoflix/storage"
	"videoflix/testutil"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Database: config.Database{Driver: config.DatabaseDriverSQLite, DSN: filepath.Join(t.TempDir(), "videoflix.sqlite")},
		Queue:    config.Queue{Driver: QueueDriverMemory, MaxTries: 2},
		Storage:  config.Storage{Driver: storage.DriverLocal, MediaRoot: t.TempDir()},
	}
}

func TestNewDependencies_MemoryQueue(t *testing.T) {
	deps, err := NewDependencies(testutil.Context(t), testConfig(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Close() })

	assert.Same(t, deps.Publisher, deps.Source)
	assert.IsType(t, lock.Nop{}, deps.Locker)
	assert.NotNil(t, deps.App(testConfig(t)).Catalog)
	assert.NotNil(t, deps.TranscodeService(testConfig(t)))
}

func TestNewDependencies_UnknownQueueDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Queue.Driver = "kafka"

	_, err := NewDependencies(testutil.Context(t), cfg)
	assert.ErrorContains(t, err, "unknown queue driver")
}
