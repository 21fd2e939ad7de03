package cmd

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"videoflix/config"
	server2 "videoflix/server"
)

func token(config *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "token <user-id>",
		Short: "print the API token of a user, creating one if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user id %q: %w", args[0], err)
			}
			key, err := newTokenKey()
			if err != nil {
				return err
			}
			return server2.RunCommand(config, func(ctx context.Context, deps *server2.Dependencies) error {
				t, err := deps.Repo.GetOrCreateToken(ctx, uint(userID), key)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), t.Key)
				return nil
			})
		},
	}
}

func newTokenKey() (string, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
