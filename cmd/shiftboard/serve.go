package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/K17UN3/shift-manage/internal/api"
	"github.com/K17UN3/shift-manage/internal/api/handler"
	"github.com/K17UN3/shift-manage/internal/core/service"
	"github.com/K17UN3/shift-manage/internal/infrastructure/db/redis"
	"github.com/K17UN3/shift-manage/internal/infrastructure/queue"
	"github.com/K17UN3/shift-manage/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	log := logger.Get()

	weekStart, err := cfg.Weekday()
	if err != nil {
		return err
	}
	roles := cfg.Roles()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("close store")
		}
	}()

	readiness := map[string]handler.Pinger{"store": st}
	opts := service.ShiftOptions{Roles: roles, WeekStart: weekStart}
	if cfg.Redis.Enabled {
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer client.Close()
		cache := redis.NewSummaryCache(client, cfg.Redis.TTL)
		opts.Cache = cache
		readiness["cache"] = cache
	}

	shifts := service.NewShiftService(st.Shifts, st.Users, opts, logger.Component("shifts"))
	users := service.NewUserService(st.Users, roles, logger.Component("users"))
	auth := service.NewAuthService(st.Users, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth"))

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewRollupDispatcher(cfg.Rollup.Workers, cfg.Rollup.BufferSize, shifts, logger.Component("rollup"))
	if opts.Cache != nil {
		shifts.UseRollupQueue(dispatcher)
		users.UseSummaryCache(opts.Cache)
	}
	dispatcher.Start(workerCtx)

	e := api.NewRouter(api.Dependencies{
		Auth:      auth,
		Shifts:    shifts,
		Users:     users,
		Roles:     roles,
		JWTSecret: cfg.JWTSecret,
		Readiness: readiness,
		Logger:    logger.Component("http"),
		Metrics:   true,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("driver", cfg.StoreDriver).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		cancelWorkers()
		dispatcher.Wait()
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	cancelWorkers()
	dispatcher.Wait()
	return nil
}
