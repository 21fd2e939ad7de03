package cmd

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"videoflix/config"
	"videoflix/repository"
	server2 "videoflix/server"
)

func migrate(config *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "create or update database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return server2.RunCommand(config, func(ctx context.Context, deps *server2.Dependencies) error {
				if err := repository.Migrate(ctx, deps.DB); err != nil {
					return err
				}
				zerolog.Ctx(ctx).Info().Msg("migration finished")
				return nil
			})
		},
	}
}
