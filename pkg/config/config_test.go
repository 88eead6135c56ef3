package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeSecrets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "secrets.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.WorkerModel != "deepseek/deepseek-v3.2" {
		t.Errorf("expected deepseek/deepseek-v3.2, got %s", cfg.WorkerModel)
	}
	if !cfg.ZDREnabled {
		t.Error("expected ZDR enabled by default")
	}
	if cfg.CostLimits.DailyUSD != 10.0 {
		t.Errorf("expected daily limit 10.0, got %v", cfg.CostLimits.DailyUSD)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("GROVE_WORKER_MODEL", "")

	path := writeSecrets(t, `{
  "openrouter_api_key": "sk-or-file-key",
  "worker_model": "deepseek/deepseek-r1",
  "zdr_enabled": false,
  "preferred_providers": ["Fireworks"],
  "cost_limits": {"daily_usd": 2.5, "monthly_usd": 20}
}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIKey != "sk-or-file-key" {
		t.Errorf("api key = %s, want sk-or-file-key", cfg.APIKey)
	}
	if cfg.WorkerModel != "deepseek/deepseek-r1" {
		t.Errorf("worker model = %s, want deepseek/deepseek-r1", cfg.WorkerModel)
	}
	if cfg.ZDREnabled {
		t.Error("expected ZDR disabled by file")
	}
	if len(cfg.PreferredProviders) != 1 || cfg.PreferredProviders[0] != "Fireworks" {
		t.Errorf("providers = %v, want [Fireworks]", cfg.PreferredProviders)
	}
	if cfg.CostLimits.DailyUSD != 2.5 {
		t.Errorf("daily limit = %v, want 2.5", cfg.CostLimits.DailyUSD)
	}
	// Unset fields keep their defaults.
	if cfg.OrchestratorModel != "minimax/minimax-m2" {
		t.Errorf("orchestrator model = %s, want default", cfg.OrchestratorModel)
	}
}

func TestLoadEnvOverridesFileKey(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-or-env-key")
	t.Setenv("GROVE_WORKER_MODEL", "")

	path := writeSecrets(t, `{"openrouter_api_key": "sk-or-file-key"}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIKey != "sk-or-env-key" {
		t.Errorf("api key = %s, want env value", cfg.APIKey)
	}
}

func TestLoadEnvWorkerModel(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-or-env-key")
	t.Setenv("GROVE_WORKER_MODEL", "deepseek/deepseek-v3.1")

	path := writeSecrets(t, `{"worker_model": "deepseek/deepseek-r1"}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.WorkerModel != "deepseek/deepseek-v3.1" {
		t.Errorf("worker model = %s, want env value", cfg.WorkerModel)
	}
}

func TestLoadMissingFileEnvOnly(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "sk-or-env-key")
	t.Setenv("GROVE_WORKER_MODEL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIKey != "sk-or-env-key" {
		t.Errorf("api key = %s, want env value", cfg.APIKey)
	}
}

func TestLoadMissingKey(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("GROVE_WORKER_MODEL", "")

	path := writeSecrets(t, `{"worker_model": "deepseek/deepseek-r1"}`)

	_, err := Load(path)
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}
