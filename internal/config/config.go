package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"db"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Log      LogConfig      `mapstructure:"log"`
	Session  SessionConfig  `mapstructure:"session"`
	Checkout CheckoutConfig `mapstructure:"checkout"`
}

type ServerConfig struct {
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type DBConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"maxOpenConns"`
}

// StorageConfig locates the local key-value store (one JSON file per key)
type StorageConfig struct {
	Dir string `mapstructure:"dir"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// SessionConfig selects the identity provider used by login and register
type SessionConfig struct {
	Provider    string        `mapstructure:"provider"`
	Latency     time.Duration `mapstructure:"latency"`
	TokenSecret string        `mapstructure:"token_secret"`
}

// CheckoutConfig selects the order submitter
type CheckoutConfig struct {
	Submitter     string        `mapstructure:"submitter"`
	SubmitLatency time.Duration `mapstructure:"submit_latency"`
}

// LoadConfig loads configuration from config.yaml and environment variables
func LoadConfig() (*Config, error) {
	return Load("")
}

// Load reads configuration from the given file, or searches the default
// locations when path is empty. A missing config file is not an error; every
// key has a default.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./deploy/")
		v.AddConfigPath("./")
		v.AddConfigPath("$HOME/.storefront/")
		v.AddConfigPath("/etc/storefront/")
	}

	// Enable environment variable override with STOREFRONT_ prefix
	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("db.dsn", "root:@tcp(127.0.0.1:3306)/storefront?parseTime=true")
	v.SetDefault("db.maxOpenConns", 10)
	v.SetDefault("storage.dir", defaultStorageDir())
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.development", false)
	v.SetDefault("session.provider", "mock")
	v.SetDefault("session.latency", time.Second)
	v.SetDefault("session.token_secret", "storefront-dev-secret")
	v.SetDefault("checkout.submitter", "mock")
	v.SetDefault("checkout.submit_latency", 2*time.Second)
}

func defaultStorageDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".storefront", "data")
	}
	return filepath.Join(home, ".storefront", "data")
}
