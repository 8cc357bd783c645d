package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Session   SessionConfig   `mapstructure:"session"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Receipt   ReceiptConfig   `mapstructure:"receipt"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
}

type DatabaseConfig struct {
	// Driver is one of sqlite3 (cgo), sqlite (pure Go) or postgres.
	Driver         string `mapstructure:"driver"`
	DSN            string `mapstructure:"dsn"`
	MaxConnections int    `mapstructure:"max_connections"`
	AutoMigrate    bool   `mapstructure:"auto_migrate"`
}

type SessionConfig struct {
	Secret     string        `mapstructure:"secret"`
	TTL        time.Duration `mapstructure:"ttl"`
	CookieName string        `mapstructure:"cookie_name"`
	Secure     bool          `mapstructure:"secure"`
}

type StorageConfig struct {
	ScratchDir     string        `mapstructure:"scratch_dir"`
	ArtifactMaxAge time.Duration `mapstructure:"artifact_max_age"`
	SweepInterval  time.Duration `mapstructure:"sweep_interval"`
}

type ReceiptConfig struct {
	LogoPath string `mapstructure:"logo_path"`
}

type RateLimitConfig struct {
	// AuthPerMinute caps login and signup posts per client. Zero disables the limit.
	AuthPerMinute int `mapstructure:"auth_per_minute"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.max_upload_bytes", 10<<20)

	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.dsn", "users.db")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.auto_migrate", true)

	// registered so SESSION_SECRET is picked up by Unmarshal
	v.SetDefault("session.secret", "")
	v.SetDefault("session.secure", false)
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.cookie_name", "bursar_session")

	v.SetDefault("storage.scratch_dir", "generated/scratch")
	v.SetDefault("storage.artifact_max_age", 15*time.Minute)
	v.SetDefault("storage.sweep_interval", 5*time.Minute)

	v.SetDefault("receipt.logo_path", "static/logo.jpg")

	v.SetDefault("rate_limit.auth_per_minute", 30)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
}

// Load reads the YAML file at path, overlaid with environment variables
// (SESSION_SECRET, SERVER_PORT, ...). A .env file in the working directory is
// loaded first when present. A missing config file is not an error: defaults
// and the environment are enough to boot.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if c.Session.Secret == "" {
		return errors.New("session.secret is required (set SESSION_SECRET)")
	}
	switch c.Database.Driver {
	case "sqlite3", "sqlite", "postgres":
	default:
		return errors.New("database.driver must be one of sqlite3, sqlite, postgres")
	}
	if c.Storage.ScratchDir == "" {
		return errors.New("storage.scratch_dir is required")
	}
	if c.Storage.SweepInterval <= 0 {
		return errors.New("storage.sweep_interval must be positive")
	}
	if c.Server.MaxUploadBytes <= 0 {
		return errors.New("server.max_upload_bytes must be positive")
	}
	return nil
}
