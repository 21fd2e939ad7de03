package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"videoflix/config"
	"videoflix/constant"
	jobHandler "videoflix/handler"
	"videoflix/pkg/queue"
	"videoflix/repository"
)

type Options struct {
	// Migrate creates missing tables before serving.
	Migrate bool
}

func RunHttp(cfg *config.Config, opts Options) error {
	ctx, cancel := signal.NotifyContext(setupLogger(cfg), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Bool("isProduction", cfg.App.Environment == constant.EnvironmentProduction.String()).Send()
	if cfg.App.Environment == constant.EnvironmentProduction.String() {
		gin.SetMode(gin.ReleaseMode)
	}

	deps, err := NewDependencies(ctx, cfg)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("NewDependencies")
		return err
	}
	defer deps.Close()

	if opts.Migrate {
		if err := repository.Migrate(ctx, deps.DB); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	consumerDone := make(chan struct{})
	if cfg.Server.Workers > 0 {
		go func() {
			defer close(consumerDone)
			if err := consume(ctx, cfg, deps); err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Msg("Transcode consumer error")
			}
		}()
	} else {
		close(consumerDone)
	}

	r := NewRouter(*zerolog.Ctx(ctx), deps.App(cfg))

	handler := http.Server{
		Handler:           r,
		Addr:              fmt.Sprintf(":%s", cfg.Server.HttpPort),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Str("addr", handler.Addr).Msg("start http server")
		if err := handler.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zerolog.Ctx(ctx).Error().Str("env", cfg.App.Environment).Msg(err.Error())
			cancel()
		}
	}()

	<-ctx.Done()
	zerolog.Ctx(ctx).Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer shutdownCancel()
	if err := handler.Shutdown(shutdownCtx); err != nil {
		zerolog.Ctx(ctx).Error().Str("env", cfg.App.Environment).Msg(err.Error())
	}

	<-consumerDone
	zerolog.Ctx(ctx).Info().Str("env", cfg.App.Environment).Msg("server shutdown")
	return nil
}

// RunWorker consumes transcode jobs until interrupted.
func RunWorker(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(setupLogger(cfg), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Queue.Driver == QueueDriverMemory {
		return errors.New("worker needs a shared queue; the memory driver only works inside the server process")
	}

	deps, err := NewDependencies(ctx, cfg)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("NewDependencies")
		return err
	}
	defer deps.Close()

	if err := consume(ctx, cfg, deps); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().Msg("worker stopped")
	return nil
}

func consume(ctx context.Context, cfg *config.Config, deps *Dependencies) error {
	serviceDeps := jobHandler.ServiceDependencies{
		TranscodeService: deps.TranscodeService(cfg),
	}
	consumer := queue.NewConsumer(deps.Source, queue.Options{
		Workers:  max(cfg.Server.Workers, 1),
		MaxTries: cfg.Queue.MaxTries,
	}, jobHandler.JobHandler, jobHandler.JobExhausted)

	err := consumer.Consume(ctx, serviceDeps)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// RunCommand runs fn with a logger-carrying context and initialised
// dependencies. It backs the one-shot CLI commands.
func RunCommand(cfg *config.Config, fn func(ctx context.Context, deps *Dependencies) error) error {
	ctx, cancel := signal.NotifyContext(setupLogger(cfg), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	deps, err := NewDependencies(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()
	return fn(ctx, deps)
}

func setupLogger(cfg *config.Config) context.Context {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.App.Environment == constant.EnvironmentDevelop.String() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Log to standard output
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	return ctx
}
