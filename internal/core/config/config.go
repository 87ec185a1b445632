package config

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
	AllowedOrigins  []string
}
type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type Log struct {
	Level      string
	JSON       bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
	AdminTokenTTLMin  int
	LeewaySec         int
}

func (j JWT) TTL() time.Duration      { return time.Duration(j.AccessTokenTTLMin) * time.Minute }
func (j JWT) AdminTTL() time.Duration { return time.Duration(j.AdminTokenTTLMin) * time.Minute }
func (j JWT) Leeway() time.Duration   { return time.Duration(j.LeewaySec) * time.Second }

// Admin identity: the account whose email matches is the admin; Password
// guards /admin/login.
type Admin struct {
	Email    string
	Password string
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string // postgres | mysql | memory
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

// Ledger where confessions and their voter sets live: db | redis
type Ledger struct {
	Backend string
}

type Limits struct {
	RPS          float64
	Burst        int
	PerIPRPS     float64
	PerIPBurst   int
	Concurrency  int64
	MaxBodyBytes int64
	TimeoutSec   int
}

type Config struct {
	App    App
	Log    Log
	JWT    JWT
	Admin  Admin
	DB     DB
	Ledger Ledger
	Redis  Redis `mapstructure:"redis"`
	Limits Limits
}

var ErrMissingSecret = errors.New("jwt.secret is required")

func Load(path string) *Config {
	c, err := LoadFile(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return c
}

// LoadFile reads YAML at path (optional) with APP_* env overrides.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// env-only deployments
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !os.IsNotExist(err) {
			return nil, err
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return nil, ErrMissingSecret
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "confessit")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 5000)
	v.SetDefault("app.http.readTimeoutSec", 5)
	v.SetDefault("app.http.writeTimeoutSec", 10)
	v.SetDefault("app.http.idleTimeoutSec", 60)
	v.SetDefault("app.http.allowedOrigins", []string{"http://localhost:5173"})
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 5001)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.maxSizeMB", 100)
	v.SetDefault("log.maxBackups", 7)
	v.SetDefault("log.maxAgeDays", 30)

	// AutomaticEnv only sees keys viper already knows about.
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "confessit")
	v.SetDefault("jwt.accessTokenTTLMin", 60)
	v.SetDefault("jwt.adminTokenTTLMin", 120)
	v.SetDefault("jwt.leewaySec", 0)
	v.SetDefault("admin.email", "")
	v.SetDefault("admin.password", "")

	v.SetDefault("db.driver", "memory")
	v.SetDefault("db.dsn", "")
	v.SetDefault("db.maxOpenConns", 20)
	v.SetDefault("db.maxIdleConns", 10)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("db.autoMigrate", true)
	v.SetDefault("db.logLevel", "warn")

	v.SetDefault("ledger.backend", "db")
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.perIPRPS", 20)
	v.SetDefault("limits.perIPBurst", 40)
	v.SetDefault("limits.concurrency", 300)
	v.SetDefault("limits.maxBodyBytes", 1<<20)
	v.SetDefault("limits.timeoutSec", 10)
}
