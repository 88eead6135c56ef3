package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingAPIKey is returned when no API key is found in the secrets
// file or the environment. It is fatal at startup.
var ErrMissingAPIKey = errors.New("openrouter_api_key missing from secrets file and environment")

// Config holds all grove configuration, loaded once at process start.
type Config struct {
	APIKey             string     `yaml:"openrouter_api_key"`
	OrchestratorModel  string     `yaml:"orchestrator_model"`
	WorkerModel        string     `yaml:"worker_model"`
	ZDREnabled         bool       `yaml:"zdr_enabled"`
	PreferredProviders []string   `yaml:"preferred_providers"`
	CostLimits         CostLimits `yaml:"cost_limits"`
	DBPath             string     `yaml:"db_path"`
}

// CostLimits caps spending per period. A limit <= 0 disables that check.
type CostLimits struct {
	DailyUSD   float64 `yaml:"daily_usd"`
	MonthlyUSD float64 `yaml:"monthly_usd"`
}

// Default returns a Config with built-in defaults for non-sensitive values.
func Default() *Config {
	return &Config{
		OrchestratorModel:  "minimax/minimax-m2",
		WorkerModel:        "deepseek/deepseek-v3.2",
		ZDREnabled:         true,
		PreferredProviders: []string{"Together", "Fireworks"},
		CostLimits: CostLimits{
			DailyUSD:   10.0,
			MonthlyUSD: 50.0,
		},
		DBPath: "grove.db",
	}
}

// Load reads the secrets file at path and overlays environment variables.
// The secrets file is a flat JSON object (parsed via YAML, a JSON superset);
// a missing file is not an error. OPENROUTER_API_KEY always overrides the
// file's API key, GROVE_WORKER_MODEL overrides the worker model. A .env
// file in the working directory is loaded first if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// no secrets file, env only
	case err != nil:
		return nil, fmt.Errorf("read secrets: %w", err)
	default:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse secrets: %w", err)
		}
	}

	if key := os.Getenv("OPENROUTER_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if model := os.Getenv("GROVE_WORKER_MODEL"); model != "" {
		cfg.WorkerModel = model
	}

	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	return cfg, nil
}
