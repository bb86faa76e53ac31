package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), "config*.yaml")
	require.NoError(t, err)

	_, err = tmpFile.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())

	return tmpFile.Name()
}

func TestLoad_ValidConfigFile(t *testing.T) {
	require := require.New(t)

	path := writeConfig(t, `
app:
  environment: test
  name: test-app
  version: 0.1.0
grpc_server:
  port: "50051"
  max_idle: 30s
  timeout: 5s
  shutdown_period: 7s
rendezvous:
  shards: 8
  read_timeout: 2s
  max_key_length: 64
metrics:
  enabled: true
  port: "9091"
  path: /prom
`)

	cfg, err := Load(path)
	require.NoError(err)

	assert := assert.New(t)

	assert.Equal("test", cfg.App.Environment)
	assert.Equal("test-app", cfg.App.Name)
	assert.Equal("0.1.0", cfg.App.Version)
	assert.Equal("50051", cfg.GRPCServer.Port)
	assert.Equal(30*time.Second, cfg.GRPCServer.MaxIdle)
	assert.Equal(5*time.Second, cfg.GRPCServer.Timeout)
	assert.Equal(7*time.Second, cfg.GRPCServer.ShutdownPeriod)
	assert.Equal(8, cfg.Rendezvous.Shards)
	assert.Equal(2*time.Second, cfg.Rendezvous.ReadTimeout)
	assert.Equal(64, cfg.Rendezvous.MaxKeyLength)
	assert.True(cfg.Metrics.Enabled)
	assert.Equal("9091", cfg.Metrics.Port)
	assert.Equal("/prom", cfg.Metrics.Path)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
app:
  environment: dev
  name: app
  version: 1.0.0
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "50051", cfg.GRPCServer.Port)
	assert.Equal(30*time.Second, cfg.GRPCServer.MaxIdle)
	assert.Equal(16, cfg.Rendezvous.Shards)
	assert.Zero(t, cfg.Rendezvous.ReadTimeout)
	assert.Equal(256, cfg.Rendezvous.MaxKeyLength)
	assert.Equal("/metrics", cfg.Metrics.Path)
}

func TestLoad_InvalidConfigFile(t *testing.T) {
	path := writeConfig(t, `
app:
  environment: test
  name: test-app
  version: 0.1.0
grpc_server:
  port: ""
  max_idle: -30s
  timeout: 0s
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	require.Error(t, err)
}

func TestLoad_EmptyPath(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)
}

func TestLoad_ConfigPathIsDirectory(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
}

func validConfig() Config {
	return Config{
		App: AppConfig{Environment: "dev", Name: "app", Version: "1.0.0"},
		GRPCServer: GRPCServerConfig{
			Port:           "50051",
			MaxIdle:        30 * time.Second,
			Timeout:        5 * time.Second,
			ShutdownPeriod: 7 * time.Second,
		},
		Rendezvous: RendezvousConfig{Shards: 4, MaxKeyLength: 16},
		Metrics:    MetricsConfig{Enabled: true, Port: "9090", Path: "/metrics"},
	}
}

func TestValidate(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	for name, mutate := range map[string]func(*Config){
		"empty environment":   func(c *Config) { c.App.Environment = "" },
		"empty port":          func(c *Config) { c.GRPCServer.Port = "" },
		"negative max idle":   func(c *Config) { c.GRPCServer.MaxIdle = -time.Second },
		"zero shutdown":       func(c *Config) { c.GRPCServer.ShutdownPeriod = 0 },
		"zero shards":         func(c *Config) { c.Rendezvous.Shards = 0 },
		"negative read limit": func(c *Config) { c.Rendezvous.ReadTimeout = -time.Second },
		"zero key length":     func(c *Config) { c.Rendezvous.MaxKeyLength = 0 },
		"relative metrics":    func(c *Config) { c.Metrics.Path = "metrics" },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}

	cfg = validConfig()
	cfg.Metrics = MetricsConfig{Enabled: false}
	require.NoError(t, cfg.Validate(), "metrics settings are ignored when disabled")
}
