package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"distr-calc/internal/config"
	"distr-calc/internal/logger"
	core "distr-calc/internal/service/core"
	server "distr-calc/internal/service/server"
	"distr-calc/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	var configPath string

	cmd := &cobra.Command{
		Use:          "calcd",
		Short:        "Serve the calculator HTTP API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", os.Getenv("CALC_CONFIG"), "path to a YAML config file")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if err := logger.InitLogger(cfg.Log); err != nil {
		logger.Warn("logger fell back to stderr", zap.Error(err))
	}
	defer logger.Sync()

	if cfg.Log.Level != logger.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	logger.Info("starting calcd",
		zap.Int("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Driver),
	)

	calculator := core.NewCalculator(store, logger.Named("calculator"))
	srv := server.NewServer(calculator, logger.Named("http"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx, fmt.Sprintf(":%d", cfg.Server.Port))
}
