package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"videoflix/config"
	server2 "videoflix/server"
)

func requeue(config *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "requeue <video-id>",
		Short: "schedule a new transcode job for an existing video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid video id %q: %w", args[0], err)
			}
			return server2.RunCommand(config, func(ctx context.Context, deps *server2.Dependencies) error {
				job, err := deps.App(config).Catalog.Requeue(ctx, uint(videoID))
				if err != nil {
					return err
				}
				zerolog.Ctx(ctx).Info().Uint("videoId", job.VideoID).Str("jobId", job.ID.String()).Msg("transcode job queued")
				return nil
			})
		},
	}
}
