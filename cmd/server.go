package cmd

import (
	"github.com/spf13/cobra"
	"videoflix/config"
	server2 "videoflix/server"
)

func server(config *config.Config) *cobra.Command {
	var opts server2.Options
	cmd := &cobra.Command{
		Use:   "server",
		Short: "start http server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return server2.RunHttp(config, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.Migrate, "migrate", false, "create missing tables before serving")
	return cmd
}

func worker(config *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "consume transcode jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return server2.RunWorker(config)
		},
	}
}
