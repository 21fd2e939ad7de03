package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"videoflix/config"
	"videoflix/pkg/lock"
	"videoflix/pkg/queue"
	"videoflix/pkg/rabbitmq"
	"videoflix/repository"
	"videoflix/service"
	"videoflix/storage"
)

const (
	QueueDriverRabbitMQ = "rabbitmq"
	QueueDriverMemory   = "memory"
)

// Dependencies are the long lived clients shared by the HTTP server and the
// transcode workers.
type Dependencies struct {
	DB        *gorm.DB
	Repo      repository.Repository
	Store     storage.Store
	Publisher queue.Publisher
	Source    queue.Source
	Locker    lock.Locker

	closers []func() error
}

func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	deps := &Dependencies{}
	if err := deps.open(ctx, cfg); err != nil {
		_ = deps.Close()
		return nil, err
	}
	return deps, nil
}

func (deps *Dependencies) open(ctx context.Context, cfg *config.Config) (err error) {
	deps.DB, err = config.NewDB(cfg.Database, cfg.App.Environment)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if sqlDB, dbErr := deps.DB.DB(); dbErr == nil {
		deps.closers = append(deps.closers, sqlDB.Close)
	}
	deps.Repo = repository.NewRepo(deps.DB)

	deps.Store, err = storage.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	switch cfg.Queue.Driver {
	case QueueDriverRabbitMQ, "":
		conn, err := config.NewRabbitMQConn(ctx, cfg.RabbitMQ)
		if err != nil {
			return fmt.Errorf("connect rabbitmq: %w", err)
		}
		deps.closers = append(deps.closers, conn.Close)
		publisher, err := rabbitmq.NewPublisher(ctx, conn, cfg.RabbitMQ)
		if err != nil {
			return fmt.Errorf("open publisher: %w", err)
		}
		deps.closers = append(deps.closers, publisher.Close)
		deps.Publisher = publisher
		deps.Source = rabbitmq.NewSource(conn, cfg.RabbitMQ, cfg.Server.Workers)
	case QueueDriverMemory:
		zerolog.Ctx(ctx).Warn().Msg("using in-memory queue, jobs are lost on restart")
		memory := queue.NewMemory()
		deps.Publisher = memory
		deps.Source = memory
	default:
		return fmt.Errorf("unknown queue driver: %s (supported: rabbitmq, memory)", cfg.Queue.Driver)
	}

	deps.Locker = lock.Nop{}
	client, err := config.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if client != nil {
		deps.closers = append(deps.closers, client.Close)
		deps.Locker = lock.NewRedis(client, cfg.Redis.LockTTL)
	}

	return nil
}

// App builds the HTTP facing services.
func (deps *Dependencies) App(cfg *config.Config) *App {
	progress := service.NewProgressService(deps.Repo)
	return &App{
		Catalog:  service.NewCatalogService(deps.Repo, deps.Store, service.NewEnqueuer(deps.Publisher), progress, cfg.App),
		Progress: progress,
		Streams:  service.NewStreamService(deps.Repo, deps.Store),
		Tokens:   deps.Repo,
	}
}

// TranscodeService builds the worker side service using ffmpeg.
func (deps *Dependencies) TranscodeService(cfg *config.Config) service.Service {
	pipeline := service.NewPipeline(deps.Repo, deps.Store, service.NewFFmpeg(cfg.Transcode))
	return service.NewService(deps.Repo, pipeline, deps.Locker, cfg)
}

// Close releases clients in reverse order of creation.
func (deps *Dependencies) Close() error {
	var errs []error
	for i := len(deps.closers) - 1; i >= 0; i-- {
		if err := deps.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	deps.closers = nil
	return errors.Join(errs...)
}
