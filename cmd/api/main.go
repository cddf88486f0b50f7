package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dish-namer/internal/api"
	"dish-namer/internal/core/engine"
	"dish-namer/internal/core/namedb"
	"dish-namer/internal/infrastructure/config"
	"dish-namer/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(common.LogConfig{
		Level:   cfg.LogLevel,
		Dir:     cfg.LogDir,
		Service: cfg.App.Name,
		Console: true,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer common.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng, err := engine.Initialize(ctx, cfg)
	if err != nil {
		common.LogError("Failed to initialize engine", zap.Error(err))
		return err
	}
	defer eng.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api.SetupRouter(cfg, eng),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.Bool("debug", cfg.App.Debug),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	if path := eng.WatchPath(); cfg.Data.Watch && path != "" {
		watcher := namedb.NewWatcher(path, cfg.Data.WatchDebounce, eng.Reload)
		g.Go(func() error {
			// 監看失敗不影響服務，只是失去自動重新載入
			if err := watcher.Run(gCtx); err != nil {
				common.LogWarn("Data watcher stopped", zap.Error(err))
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gCtx.Done()
		common.LogInfo("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		common.LogError("Server stopped with error", zap.Error(err))
		return err
	}
	common.LogInfo("Server exited")
	return nil
}
