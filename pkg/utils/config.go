package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix         = "TRAINER"
	devJWTSecret      = "dev-secret-change-me"
	defaultHubTimeout = 30 * time.Second
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Hub      HubConfig
	Auth     AuthConfig
	Log      LogConfig
	GRPC     GRPCConfig
	Mirror   MirrorConfig
}

type AppConfig struct {
	Name string
	Env  string
	Addr string
}

type DatabaseConfig struct {
	Path        string
	BusyTimeout time.Duration
}

// HubConfig points at the upstream taxonomy Hub.
type HubConfig struct {
	BaseURL      string
	Token        string
	APIKey       string
	Timeout      time.Duration
	MaxRetries   int
	RetryBackoff time.Duration
}

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

type LogConfig struct {
	Level  string
	Format string
	Output string
}

type GRPCConfig struct {
	Addr string
}

// MirrorConfig drives the local Hub mirror used for development.
type MirrorConfig struct {
	Addr     string
	Fixtures string
}

// Load reads .env (if any), an optional config.yaml and TRAINER_* variables.
// Environment variables win over the file.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path searches the
// working directory and ./config.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Addr: v.GetString("app.addr"),
		},
		Database: DatabaseConfig{
			Path:        v.GetString("database.path"),
			BusyTimeout: v.GetDuration("database.busy_timeout"),
		},
		Hub: HubConfig{
			BaseURL:      v.GetString("hub.base_url"),
			Token:        v.GetString("hub.token"),
			APIKey:       v.GetString("hub.api_key"),
			Timeout:      v.GetDuration("hub.timeout"),
			MaxRetries:   v.GetInt("hub.max_retries"),
			RetryBackoff: v.GetDuration("hub.retry_backoff"),
		},
		Auth: AuthConfig{
			JWTSecret:   v.GetString("auth.jwt_secret"),
			JWTIssuer:   v.GetString("auth.jwt_issuer"),
			JWTDuration: v.GetDuration("auth.jwt_ttl"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		GRPC: GRPCConfig{
			Addr: v.GetString("grpc.addr"),
		},
		Mirror: MirrorConfig{
			Addr:     v.GetString("mirror.addr"),
			Fixtures: v.GetString("mirror.fixtures"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "colortrainer"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Addr == "" {
		cfg.App.Addr = ":8080"
	}
	if cfg.Database.BusyTimeout <= 0 {
		cfg.Database.BusyTimeout = 5 * time.Second
	}
	if cfg.Hub.Timeout <= 0 {
		cfg.Hub.Timeout = defaultHubTimeout
	}
	if cfg.Hub.RetryBackoff <= 0 {
		cfg.Hub.RetryBackoff = time.Second
	}
	cfg.Hub.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Hub.BaseURL), "/")
	if cfg.Auth.JWTSecret == "" && !cfg.IsProduction() {
		cfg.Auth.JWTSecret = devJWTSecret
	}
	if cfg.Auth.JWTIssuer == "" {
		cfg.Auth.JWTIssuer = "colortrainer"
	}
	if cfg.Auth.JWTDuration <= 0 {
		cfg.Auth.JWTDuration = 24 * time.Hour
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		if cfg.IsProduction() {
			cfg.Log.Format = "json"
		} else {
			cfg.Log.Format = "console"
		}
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}
	if cfg.GRPC.Addr == "" {
		cfg.GRPC.Addr = ":9090"
	}
	if cfg.Mirror.Addr == "" {
		cfg.Mirror.Addr = ":8090"
	}
	if cfg.Mirror.Fixtures == "" {
		cfg.Mirror.Fixtures = "fixtures/hub.yaml"
	}
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

func (c *Config) validate() error {
	if c.IsProduction() && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == devJWTSecret) {
		return errors.New("auth.jwt_secret must be set in production")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return errors.New("auth.jwt_secret must be at least 16 characters")
	}
	if c.Hub.MaxRetries < 0 {
		return errors.New("hub.max_retries must not be negative")
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	if c.Hub.BaseURL != "" {
		if err := validateURL(c.Hub.BaseURL); err != nil {
			return fmt.Errorf("hub.base_url: %w", err)
		}
	}
	return nil
}

// RequireHub reports whether the Hub connection is usable for a sync run.
func (h HubConfig) RequireHub() error {
	if h.BaseURL == "" {
		return fmt.Errorf("hub.base_url is required (set %s_HUB_BASE_URL)", EnvPrefix)
	}
	if h.Token == "" && h.APIKey == "" {
		return fmt.Errorf("hub.token or hub.api_key is required (set %s_HUB_TOKEN / %s_HUB_API_KEY)", EnvPrefix, EnvPrefix)
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("host is required")
	}
	return nil
}
