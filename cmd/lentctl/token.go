package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/SergeyKozhin/lent-tracker-backend/internal/pkg/jwt"
	"github.com/spf13/cobra"
)

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token [user id]",
		Short: "Mint an access token signed with SECRET, for development",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}
			if conf.Secret == "" {
				return errors.New("SECRET must be set")
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}

			ttl, _ := cmd.Flags().GetDuration("ttl")
			token, err := jwt.NewManager(conf.Secret, ttl).CreateToken(id)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")

	return cmd
}
