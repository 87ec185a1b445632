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

	"github.com/niranjcn/ConfessIt/internal/app"
	"github.com/niranjcn/ConfessIt/internal/core/config"
	"github.com/niranjcn/ConfessIt/internal/core/logger"
	"github.com/niranjcn/ConfessIt/internal/core/server"
	"github.com/niranjcn/ConfessIt/internal/transport/http/router"
)

// The admin binary shares stores with the api binary but listens on the
// admin address only. Use a persistent db driver; memory stores are per process.
func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.New(cfg.Log.Level, cfg.Log.JSON)
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log.Named("admin"))
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer a.Close()

	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	srv := server.BuildServer(addr, router.NewAdminEngine(a.Deps()), 5*time.Second, 10*time.Second, 60*time.Second)
	log.Info("confessit admin starting", zap.String("addr", addr))
	if err := server.Run(ctx, srv, log, 10*time.Second); err != nil {
		log.Error("admin server", zap.Error(err))
		return
	}
	log.Info("confessit admin stopped gracefully")
}
