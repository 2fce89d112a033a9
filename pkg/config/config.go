package config

import (
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	configFileENV     = "CONFIG_FILE"
	defaultConfigFile = "/config/config.yaml"
)

// Session backends.
const (
	SessionBackendDatabase = "database"
	SessionBackendRedis    = "redis"
)

type Config struct {
	Environment string `koanf:"environment" default:"production"`
	// Development exposes full error diagnostics on error pages.
	Development bool `koanf:"development"`

	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count" default:"5"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay" default:"2s"`
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout" default:"5s"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseFilePath          string        `koanf:"database_file_path" required:"true"`

	ServerHost string `koanf:"server_host" default:"0.0.0.0"`
	ServerPort int    `koanf:"server_port" default:"3000"`

	SessionSecret  string        `koanf:"session_secret" required:"true"`
	SessionMaxAge  time.Duration `koanf:"session_max_age" default:"168h"`
	SessionBackend string        `koanf:"session_backend" default:"database"`

	// SessionSweepInterval is how often expired database sessions are removed.
	SessionSweepInterval time.Duration `koanf:"session_sweep_interval" default:"1h"`

	RedisAddr     string `koanf:"redis_addr" default:"localhost:6379"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	PageSize    int `koanf:"page_size" default:"10"`
	MaxPageSize int `koanf:"max_page_size" default:"50"`
}

// New loads the configuration from the optional YAML file named by
// CONFIG_FILE and then from environment variables, which take precedence.
func New() (*Config, error) {
	k := koanf.New(".")

	path := os.Getenv(configFileENV)
	if path == "" {
		path = defaultConfigFile
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", path)
		}
	}

	keys := knownKeys()
	err := k.Load(env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if _, ok := keys[key]; !ok {
			return ""
		}
		return key
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := checkRequired(cfg); err != nil {
		return nil, err
	}
	if cfg.SessionBackend != SessionBackendDatabase && cfg.SessionBackend != SessionBackendRedis {
		return nil, errors.Errorf("invalid session_backend %q: must be %q or %q", cfg.SessionBackend, SessionBackendDatabase, SessionBackendRedis)
	}
	if cfg.Environment == "development" {
		cfg.Development = true
	}

	return cfg, nil
}

// NewForTest returns a configuration suitable for tests: an in-memory
// database and a fixed session secret.
func NewForTest() *Config {
	cfg := &Config{
		Environment:      "test",
		DatabaseFilePath: ":memory:",
		ServerHost:       "127.0.0.1",
		SessionSecret:    "test-session-secret",
	}
	_ = defaults.Set(cfg)
	return cfg
}

func knownKeys() map[string]struct{} {
	keys := map[string]struct{}{}
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		keys[t.Field(i).Tag.Get("koanf")] = struct{}{}
	}
	return keys
}

func checkRequired(cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Tag.Get("required") != "true" || !v.Field(i).IsZero() {
			continue
		}
		key := toSnakeCase(field.Name)
		return errors.Errorf("missing required config: set %s env var or %s in config file", strings.ToUpper(key), key)
	}
	return nil
}

func toSnakeCase(s string) string {
	return strcase.ToSnake(s)
}
