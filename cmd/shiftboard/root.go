package main

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/K17UN3/shift-manage/internal/infrastructure/config"
	"github.com/K17UN3/shift-manage/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "shiftboard",
	Short: "Shift scheduling service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Overload(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the environment and initialises the process logger.
func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "shiftboard",
	})
	return cfg, nil
}
