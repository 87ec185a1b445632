package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/niranjcn/ConfessIt/internal/core/auth"
	"github.com/niranjcn/ConfessIt/internal/core/config"
	"github.com/niranjcn/ConfessIt/internal/core/database"
	"github.com/niranjcn/ConfessIt/internal/core/kv"
	"github.com/niranjcn/ConfessIt/internal/core/server"
	"github.com/niranjcn/ConfessIt/internal/domain"
	"github.com/niranjcn/ConfessIt/internal/repo"
	"github.com/niranjcn/ConfessIt/internal/service"
	"github.com/niranjcn/ConfessIt/internal/transport/http/router"
)

var ErrUnknownBackend = errors.New("unknown ledger backend")

// App holds the long-lived collaborators shared by both binaries.
type App struct {
	Config      *config.Config
	Log         *zap.Logger
	Tokens      *auth.JWTer
	Users       *service.UserService
	Confessions *service.ConfessionService

	closers []func() error
}

// New opens the stores selected by cfg, builds the services and bootstraps
// the admin account.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Log: log}
	a.Tokens = &auth.JWTer{
		Secret:   []byte(cfg.JWT.Secret),
		Issuer:   cfg.JWT.Issuer,
		TTL:      cfg.JWT.TTL(),
		AdminTTL: cfg.JWT.AdminTTL(),
		Leeway:   cfg.JWT.Leeway(),
	}

	users, db, err := a.openUsers(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	confessions, err := a.openLedger(ctx, cfg, db)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Users = service.NewUserService(users, a.Tokens, service.AdminIdentity{
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
	}, log.Named("users"))
	a.Confessions = service.NewConfessionService(confessions, log.Named("confessions"))

	if err := a.Users.EnsureAdmin(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) openUsers(cfg *config.Config) (domain.UserRepository, *gorm.DB, error) {
	if cfg.DB.Driver == "memory" {
		a.Log.Warn("using in-memory store; data is lost on restart")
		return repo.NewMemUserRepo(), nil, nil
	}
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Log:                a.Log,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		a.closers = append(a.closers, sqlDB.Close)
	}
	a.Log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := repo.Migrate(db); err != nil {
			return nil, nil, fmt.Errorf("automigrate: %w", err)
		}
		a.Log.Info("automigrate done")
	}
	return repo.NewUserRepo(db), db, nil
}

func (a *App) openLedger(ctx context.Context, cfg *config.Config, db *gorm.DB) (domain.ConfessionRepository, error) {
	switch cfg.Ledger.Backend {
	case "", "db":
		if db == nil {
			return repo.NewMemConfessionRepo(), nil
		}
		return repo.NewConfessionRepo(db), nil
	case "redis":
		rdb, err := kv.Open(ctx, kv.Opts{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rdb.Close)
		a.Log.Info("redis ledger connected", zap.String("addr", cfg.Redis.Addr))
		return repo.NewRedisConfessionRepo(rdb), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Ledger.Backend)
}

// Deps feeds the HTTP engines.
func (a *App) Deps() router.Deps {
	mode := "debug"
	if a.Config.App.Env == "prod" || a.Config.App.Env == "production" {
		mode = "release"
	}
	return router.Deps{
		Log:         a.Log,
		Tokens:      a.Tokens,
		Users:       a.Users,
		Confessions: a.Confessions,
		Limits:      a.Config.Limits,
		Server:      server.Options{Mode: mode, AllowedOrigins: a.Config.App.HTTP.AllowedOrigins},
	}
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Log.Warn("close", zap.Error(err))
		}
	}
	a.closers = nil
}
