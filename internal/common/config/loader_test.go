package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_FullConfig(t *testing.T) {
	path := writeConfig(t, `
app:
  name: assignment-workers
  version: 1.2.0
camunda:
  broker_address: localhost:26500
database:
  redis:
    address: localhost:6379
    db: 2
logging:
  level: debug
  format: json
matching:
  strategy: munkres
  max_val: 1000000
  scale_factor: 100
  cache_ttl: 120
registry:
  path: configs/activity-registry.json
workers:
  calculate-assignment-score:
    enabled: true
    max_jobs_active: 8
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "1.2.0", cfg.App.Version)
	assert.Equal(t, "localhost:26500", cfg.Camunda.BrokerAddress)
	assert.Equal(t, "localhost:6379", cfg.Database.Redis.Address)
	assert.Equal(t, 2, cfg.Database.Redis.DB)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "munkres", cfg.Matching.Strategy)
	assert.Equal(t, int64(1000000), cfg.Matching.MaxVal)
	assert.Equal(t, int64(100), cfg.Matching.ScaleFactor)
	assert.Equal(t, 2*time.Minute, cfg.Matching.CacheTTLDuration())
	assert.Equal(t, "configs/activity-registry.json", cfg.Registry.Path)

	w := cfg.Workers["calculate-assignment-score"]
	assert.True(t, w.Enabled)
	assert.Equal(t, 8, w.MaxJobsActive)
	assert.Equal(t, 30000, w.Timeout, "timeout defaulted")
	assert.Equal(t, 3, w.MaxRetries, "max retries defaulted")

	assert.NoError(t, cfg.ValidateForWorkers())
}

func TestLoadFromFile_Defaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, "app:\n  name: x\n"))
	require.NoError(t, err)

	assert.Equal(t, "lapjv", cfg.Matching.Strategy)
	assert.Equal(t, int64(2147483647), cfg.Matching.MaxVal)
	assert.Equal(t, int64(100), cfg.Matching.ScaleFactor)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Empty(t, cfg.Database.Redis.Address)

	assert.Error(t, cfg.ValidateForWorkers(), "broker address is required for workers")
}

func TestLoadFromFile_EnvOverrides(t *testing.T) {
	t.Setenv("MATCHING_STRATEGY", "MUNKRES")
	t.Setenv("MATCHING_MAX_VAL", "5000")
	t.Setenv("BROKER_HOST", "zeebe:26500")

	cfg, err := LoadFromFile(writeConfig(t, `
camunda:
  broker_address: ${BROKER_HOST}
`))
	require.NoError(t, err)

	assert.Equal(t, "munkres", cfg.Matching.Strategy)
	assert.Equal(t, int64(5000), cfg.Matching.MaxVal)
	assert.Equal(t, "zeebe:26500", cfg.Camunda.BrokerAddress)
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"negative max val", "matching:\n  max_val: -1\n"},
		{"negative scale", "matching:\n  scale_factor: -100\n"},
		{"negative ttl", "matching:\n  cache_ttl: -5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestLoadFromFile_UnknownStrategyCheckedForWorkersOnly(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, "camunda:\n  broker_address: zeebe:26500\nmatching:\n  strategy: greedy\n"))
	require.NoError(t, err, "the CLI may still override the strategy")
	assert.Equal(t, "greedy", cfg.Matching.Strategy)

	err = cfg.ValidateForWorkers()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "matching.strategy")
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGetWorkerConfig(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"calculate-assignment-score": {Enabled: false, MaxJobsActive: 2, Timeout: 100, MaxRetries: 1},
	}}

	got := GetWorkerConfig(cfg, "calculate-assignment-score")
	assert.Equal(t, 2, got.MaxJobsActive)
	assert.False(t, IsWorkerEnabled(cfg, "calculate-assignment-score"))

	fallback := GetWorkerConfig(cfg, "unknown")
	assert.True(t, fallback.Enabled)
	assert.Equal(t, 5, fallback.MaxJobsActive)
	assert.True(t, IsWorkerEnabled(cfg, "unknown"))

	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}

func TestLoadFromFile_UnsetEnvExpandsEmpty(t *testing.T) {
	t.Setenv("UNSET_REDIS_ADDRESS_FOR_TEST", "")

	cfg, err := LoadFromFile(writeConfig(t, `
database:
  redis:
    address: ${UNSET_REDIS_ADDRESS_FOR_TEST}
observability:
  jaeger_endpoint: http://jaeger:14268/api/traces
`))
	require.NoError(t, err)

	assert.Empty(t, cfg.Database.Redis.Address, "caching stays disabled")
	assert.Equal(t, "http://jaeger:14268/api/traces", cfg.Observability.JaegerEndpoint)
}

func TestLoadFromFile_RepositoryConfig(t *testing.T) {
	t.Setenv("ZEEBE_ADDRESS", "zeebe:26500")

	cfg, err := LoadFromFile(filepath.Join("..", "..", "..", "configs", "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "zeebe:26500", cfg.Camunda.BrokerAddress)
	assert.Equal(t, "lapjv", cfg.Matching.Strategy)
	assert.True(t, IsWorkerEnabled(cfg, "calculate-assignment-score"))
	assert.NoError(t, cfg.ValidateForWorkers())
}
