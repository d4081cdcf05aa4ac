// internal/workers/matching/calculate-assignment-score/config.go
package calculateassignmentscore

import (
	"fmt"
	"time"

	"assignment-workers/internal/common/config"
	"assignment-workers/internal/common/validation"
	"assignment-workers/internal/matching"
	"assignment-workers/pkg/registry"
)

type Config struct {
	Timeout     time.Duration
	MaxRetries  int
	Settings    matching.Settings
	InputSchema validation.JSONSchema
}

// LoadConfig derives the worker configuration from the application config.
// The input schema comes from the activity registry when one is configured,
// otherwise the built-in schema is used.
func LoadConfig(cfg *config.Config) (*Config, error) {
	wcfg := config.GetWorkerConfig(cfg, TaskType)

	schema, err := registry.InputSchema(cfg.Registry.Path, TaskType)
	if err != nil {
		return nil, fmt.Errorf("load input schema: %w", err)
	}
	if schema == nil {
		schema = GetInputSchema()
	}

	return &Config{
		Timeout:    config.GetDuration(wcfg.Timeout),
		MaxRetries: wcfg.MaxRetries,
		Settings: matching.Settings{
			Strategy:    cfg.Matching.Strategy,
			MaxVal:      cfg.Matching.MaxVal,
			ScaleFactor: cfg.Matching.ScaleFactor,
		},
		InputSchema: schema,
	}, nil
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:     30 * time.Second,
		MaxRetries:  3,
		Settings:    matching.DefaultSettings(),
		InputSchema: GetInputSchema(),
	}
}
