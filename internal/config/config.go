package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	GRPCServer GRPCServerConfig `yaml:"grpc_server"`
	Rendezvous RendezvousConfig `yaml:"rendezvous"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

type AppConfig struct {
	Environment string `yaml:"environment" env:"APP_ENV" env-default:"dev" env-required:"true"`
	Name        string `yaml:"name" env:"APP_NAME" env-required:"true"`
	Version     string `yaml:"version" env:"APP_VERSION" env-required:"true"`
}

type GRPCServerConfig struct {
	Port           string        `yaml:"port" env:"GRPC_PORT" env-default:"50051" env-required:"true"`
	MaxIdle        time.Duration `yaml:"max_idle" env:"GRPC_MAX_IDLE" env-default:"30s"`
	Timeout        time.Duration `yaml:"timeout" env:"GRPC_TIMEOUT" env-default:"5s"`
	ShutdownPeriod time.Duration `yaml:"shutdown_period" env:"GRPC_SHUTDOWN_PERIOD" env-default:"7s"`
}

type RendezvousConfig struct {
	Shards int `yaml:"shards" env:"RENDEZVOUS_SHARDS" env-default:"16"`
	// ReadTimeout bounds a single Read call; zero waits until the client gives up.
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"RENDEZVOUS_READ_TIMEOUT" env-default:"0s"`
	MaxKeyLength int           `yaml:"max_key_length" env:"RENDEZVOUS_MAX_KEY_LENGTH" env-default:"256"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED"`
	Port    string `yaml:"port" env:"METRICS_PORT" env-default:"9090"`
	Path    string `yaml:"path" env:"METRICS_PATH" env-default:"/metrics"`
}

func (c *Config) Validate() error {
	// Validate AppConfig
	if c.App.Environment == "" {
		return fmt.Errorf("app environment is required")
	}
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Version == "" {
		return fmt.Errorf("app version is required")
	}

	// Validate GRPCServerConfig
	if c.GRPCServer.Port == "" {
		return fmt.Errorf("GRPC port is required")
	}
	if c.GRPCServer.MaxIdle <= 0 {
		return fmt.Errorf("GRPC max idle time must be positive")
	}
	if c.GRPCServer.Timeout <= 0 {
		return fmt.Errorf("GRPC timeout must be positive")
	}
	if c.GRPCServer.ShutdownPeriod <= 0 {
		return fmt.Errorf("shutdown period must be positive")
	}

	// Validate RendezvousConfig
	if c.Rendezvous.Shards <= 0 {
		return fmt.Errorf("rendezvous shards must be positive")
	}
	if c.Rendezvous.ReadTimeout < 0 {
		return fmt.Errorf("rendezvous read timeout cannot be negative")
	}
	if c.Rendezvous.MaxKeyLength <= 0 {
		return fmt.Errorf("rendezvous max key length must be positive")
	}

	// Validate MetricsConfig
	if c.Metrics.Enabled {
		if c.Metrics.Port == "" {
			return fmt.Errorf("metrics port is required when metrics are enabled")
		}
		if c.Metrics.Path == "" || c.Metrics.Path[0] != '/' {
			return fmt.Errorf("metrics path must start with '/'")
		}
	}

	return nil
}

func Load(configPath string) (Config, error) {
	if configPath == "" {
		return Config{}, fmt.Errorf("CONFIG_PATH environment variable must be set")
	}

	fileInfo, err := os.Stat(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config file does not exist: %q", configPath)
		}
		return Config{}, err
	}
	if fileInfo.IsDir() {
		return Config{}, fmt.Errorf("config path %q is a directory, not a file", configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
