package app

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/niranjcn/ConfessIt/internal/core/config"
	"github.com/niranjcn/ConfessIt/internal/core/database"
	"github.com/niranjcn/ConfessIt/pkg/utils"
)

func init() { utils.HashPasswordCost = bcrypt.MinCost }

func memConfig() *config.Config {
	c := &config.Config{}
	c.App.Env = "test"
	c.JWT.Secret = "app-secret"
	c.JWT.Issuer = "confessit"
	c.JWT.AccessTokenTTLMin = 60
	c.JWT.AdminTokenTTLMin = 120
	c.Admin.Email = "admin@confessit.local"
	c.Admin.Password = "admin-pass"
	c.DB.Driver = "memory"
	c.Ledger.Backend = "db"
	return c
}

func TestNew_Memory(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, memConfig(), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	s, err := a.Users.AdminLogin(ctx, "admin-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, s.Token)

	c, err := a.Confessions.Create(ctx, s.User.ID, "Sam", "hello")
	require.NoError(t, err)
	_, err = a.Confessions.Like(ctx, c.ID, "someone")
	require.NoError(t, err)

	d := a.Deps()
	assert.Same(t, a.Users, d.Users)
	assert.Equal(t, "debug", d.Server.Mode)
}

func TestNew_RedisLedger(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := memConfig()
	cfg.Ledger.Backend = "redis"
	cfg.Redis.Addr = mr.Addr()

	ctx := context.Background()
	a, err := New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	c, err := a.Confessions.Create(ctx, "u1", "Sam", "hello")
	require.NoError(t, err)
	got, err := a.Confessions.Like(ctx, c.ID, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Likes)
	assert.True(t, mr.Exists("confessit:confession:"+c.ID))
}

func TestNew_Errors(t *testing.T) {
	cfg := memConfig()
	cfg.Ledger.Backend = "kafka"
	_, err := New(context.Background(), cfg, zap.NewNop())
	assert.ErrorIs(t, err, ErrUnknownBackend)

	cfg = memConfig()
	cfg.DB.Driver = "sqlite"
	_, err = New(context.Background(), cfg, zap.NewNop())
	assert.ErrorIs(t, err, database.ErrUnsupportedDriver)
}
