package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Store backends accepted by TASKX_STORE.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
)

type Config struct {
	APIURL   string `env:"TASKX_API_URL,   default=http://localhost:5000/api"`
	Env      string `env:"TASKX_ENV,       default=development"`
	LogLevel string `env:"TASKX_LOG_LEVEL, default=warn"`
	Store    string `env:"TASKX_STORE,     default=sqlite"`

	SQLite SQLiteConfig
	Redis  RedisConfig
	Mongo  MongoConfig
	Web    WebConfig
}

type SQLiteConfig struct {
	// Path defaults to <user config dir>/taskx/session.db.
	Path string `env:"TASKX_SQLITE_PATH"`
}

type RedisConfig struct {
	Addr     string `env:"TASKX_REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"TASKX_REDIS_PASSWORD"`
	DB       int    `env:"TASKX_REDIS_DB,       default=0"`
	Prefix   string `env:"TASKX_REDIS_PREFIX,   default=taskx:"`
}

type MongoConfig struct {
	URI      string `env:"TASKX_MONGO_URI,   default=mongodb://localhost:27017"`
	Database string `env:"TASKX_MONGO_DB,    default=taskx"`
	Owner    string `env:"TASKX_MONGO_OWNER, default=default"`
}

type WebConfig struct {
	Port         string   `env:"TASKX_WEB_PORT,      default=8080"`
	Root         string   `env:"TASKX_WEB_ROOT,      default=./web"`
	LoginPage    string   `env:"TASKX_LOGIN_PAGE,    default=/login.html"`
	HomePage     string   `env:"TASKX_HOME_PAGE,     default=/dashboard.html"`
	CookieSecure bool     `env:"TASKX_COOKIE_SECURE, default=false"`
	PublicPages  []string `env:"TASKX_PUBLIC_PAGES,  default=/,/index.html,/login.html,/register.html"`
}

// IsDevelopment enables console logging.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads a .env file from the working directory when present, then the
// process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom reads configuration from l. Tests use envconfig.MapLookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}

	switch cfg.Store {
	case StoreMemory, StoreSQLite, StoreRedis, StoreMongo:
	default:
		return nil, fmt.Errorf("config: unknown TASKX_STORE %q", cfg.Store)
	}

	if cfg.SQLite.Path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = os.TempDir()
		}
		cfg.SQLite.Path = filepath.Join(dir, "taskx", "session.db")
	}
	return &cfg, nil
}
