package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/K17UN3/shift-manage/internal/core/service"
	"github.com/K17UN3/shift-manage/pkg/logger"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage staff accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Create the first administrator",
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		if username == "" || password == "" {
			return errors.New("--username and --password are required")
		}
		return bootstrap(cmd, username, password)
	},
}

func bootstrap(cmd *cobra.Command, username, password string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	auth := service.NewAuthService(st.Users, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth"))
	user, created, err := auth.Bootstrap(ctx, username, password)
	if err != nil {
		return err
	}
	if !created {
		fmt.Fprintf(cmd.OutOrStdout(), "user %q already exists (id %s)\n", user.Username, user.ID)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "administrator %q created (id %s)\n", user.Username, user.ID)
	return nil
}

func init() {
	bootstrapCmd.Flags().String("username", "admin", "Administrator username")
	bootstrapCmd.Flags().String("password", "", "Administrator password")

	userCmd.AddCommand(bootstrapCmd)
	rootCmd.AddCommand(userCmd)
}
