package cmd

import (
	"github.com/spf13/cobra"
	"videoflix/config"
)

func Root(config *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "videoflix",
		Short:        "video catalog, streaming and transcoding",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(server(config))
	rootCmd.AddCommand(worker(config))
	rootCmd.AddCommand(migrate(config))
	rootCmd.AddCommand(requeue(config))
	rootCmd.AddCommand(token(config))
	return rootCmd
}
