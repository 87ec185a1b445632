package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/niranjcn/ConfessIt/internal/app"
	"github.com/niranjcn/ConfessIt/internal/core/config"
	"github.com/niranjcn/ConfessIt/internal/core/logger"
	"github.com/niranjcn/ConfessIt/internal/core/server"
	"github.com/niranjcn/ConfessIt/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.NewWithRotate(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File,
		cfg.Log.MaxSizeMB, cfg.Log.MaxBackups, cfg.Log.MaxAgeDays, cfg.Log.Compress)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer a.Close()

	h := cfg.App.HTTP
	srv := server.BuildServer(
		server.Addr(h.Host, h.Port),
		router.NewAPIEngine(a.Deps()),
		time.Duration(h.ReadTimeoutSec)*time.Second,
		time.Duration(h.WriteTimeoutSec)*time.Second,
		time.Duration(h.IdleTimeoutSec)*time.Second,
	)
	log.Info("confessit api starting",
		zap.String("env", cfg.App.Env),
		zap.String("ledger", cfg.Ledger.Backend),
		zap.Strings("origins", h.AllowedOrigins),
	)
	if err := server.Run(ctx, srv, log, 10*time.Second); err != nil {
		log.Error("api server", zap.Error(err))
		return
	}
	log.Info("confessit api stopped gracefully")
}
