package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Session   SessionConfig
	OAuth     OAuthConfig     `mapstructure:"oauth"`
	Identity  IdentityConfig  `mapstructure:"identity"`
	I18n      I18nConfig      `mapstructure:"i18n"`
	Log       LogConfig       `mapstructure:"log"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// set from command line flags
	Seed bool `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// StorageConfig selects where documents live (Driver: memory or mysql)
// and how lesson content references are turned into URLs
// (Content: local or minio).
type StorageConfig struct {
	Driver        string        `mapstructure:"driver"`
	Content       string        `mapstructure:"content"`
	LocalBaseURL  string        `mapstructure:"local_base_url"`
	MinioEndpoint string        `mapstructure:"minio_endpoint"`
	MinioAccessID string        `mapstructure:"minio_access_key"`
	MinioSecret   string        `mapstructure:"minio_secret_key"`
	MinioBucket   string        `mapstructure:"minio_bucket"`
	MinioUseSSL   bool          `mapstructure:"minio_use_ssl"`
	PresignExpiry time.Duration `mapstructure:"presign_minutes"`
}

// SessionConfig covers the signed client cookie and the identity
// session lifetime.
type SessionConfig struct {
	Secret     string        `mapstructure:"secret"`
	CookieName string        `mapstructure:"cookie_name"`
	TTL        time.Duration `mapstructure:"ttl_hours"`
	Secure     bool          `mapstructure:"secure"`
}

type OAuthConfig struct {
	GoogleClientID     string `mapstructure:"google_client_id"`
	GoogleClientSecret string `mapstructure:"google_client_secret"`
	GoogleRedirectURL  string `mapstructure:"google_redirect_url"`
	StateSecret        string `mapstructure:"state_secret"`
}

type IdentityConfig struct {
	AdminEmail string `mapstructure:"admin_email"`
}

type I18nConfig struct {
	DefaultLanguage string `mapstructure:"default_language"`
}

type LogConfig struct {
	File string `mapstructure:"file"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

const (
	DriverMemory = "memory"
	DriverMySQL  = "mysql"

	ContentLocal = "local"
	ContentMinio = "minio"
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("LEARNHUB")
	v.AutomaticEnv()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.content", ContentLocal)
	v.SetDefault("storage.presign_minutes", 15)
	v.SetDefault("session.cookie_name", "learnhub_client")
	v.SetDefault("session.ttl_hours", 24*7)
	v.SetDefault("identity.admin_email", "fffgamer066@gmail.com")
	v.SetDefault("i18n.default_language", "en")
	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("rate_limit.max_requests", 300)
	v.SetDefault("rate_limit.window_minutes", 1)

	// Database
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	v.BindEnv("server.mode", "SERVER_MODE")

	// Session / OAuth
	v.BindEnv("session.secret", "SESSION_SECRET")
	v.BindEnv("oauth.google_client_id", "GOOGLE_CLIENT_ID")
	v.BindEnv("oauth.google_client_secret", "GOOGLE_CLIENT_SECRET")
	v.BindEnv("oauth.google_redirect_url", "GOOGLE_REDIRECT_URL")
	v.BindEnv("oauth.state_secret", "OAUTH_STATE_SECRET")

	// Storage
	v.BindEnv("storage.driver", "STORAGE_DRIVER")
	v.BindEnv("storage.content", "STORAGE_CONTENT")
	v.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	v.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Session.TTL = cfg.Session.TTL * time.Hour
	cfg.Storage.PresignExpiry = cfg.Storage.PresignExpiry * time.Minute

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Storage.Content == ContentLocal && cfg.Storage.LocalBaseURL == "" {
		cfg.Storage.LocalBaseURL = "/static/"
	}
	if dir := filepath.Dir(cfg.Log.File); dir != "." {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			os.MkdirAll(dir, 0755)
		}
	}

	return &cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Mode == "release" && len(c.Session.Secret) < 32 {
		return fmt.Errorf("session secret is too short (%d chars), must be at least 32 characters in release mode", len(c.Session.Secret))
	}
	switch c.Storage.Driver {
	case DriverMemory, DriverMySQL:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	switch c.Storage.Content {
	case ContentLocal, ContentMinio:
	default:
		return fmt.Errorf("unknown content storage %q", c.Storage.Content)
	}
	if c.RateLimit.MaxRequests <= 0 || c.RateLimit.WindowMinutes <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}
	return nil
}

// GoogleEnabled reports whether federated sign-in is configured.
func (c *Config) GoogleEnabled() bool {
	return c.OAuth.GoogleClientID != "" && c.OAuth.GoogleClientSecret != ""
}
