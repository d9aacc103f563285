package config

import (
	"testing"
	"time"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("default port = %q, want 8080", cfg.Port)
	}
	if cfg.StorageBackend != BackendHTTP {
		t.Errorf("default backend = %q, want http", cfg.StorageBackend)
	}
	if cfg.WinScore != 0.85 {
		t.Errorf("default win score = %f, want 0.85", cfg.WinScore)
	}
	if cfg.CompareTimeout != 20*time.Second {
		t.Errorf("default compare timeout = %s, want 20s", cfg.CompareTimeout)
	}
	if cfg.ServerAddress() != "0.0.0.0:8080" {
		t.Errorf("server address = %q", cfg.ServerAddress())
	}
}

func TestLoadFromEnvValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"invalid port", map[string]string{"PORT": "not-a-port"}},
		{"port out of range", map[string]string{"PORT": "70000"}},
		{"unknown backend", map[string]string{"STORAGE_BACKEND": "s3"}},
		{"azure without credentials", map[string]string{"STORAGE_BACKEND": "azure"}},
		{"win score out of range", map[string]string{"WIN_SCORE": "1.5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := LoadFromEnv(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "azure")
	t.Setenv("AZURE_ACCOUNT_NAME", "acct")
	t.Setenv("AZURE_ACCOUNT_KEY", "a2V5")
	t.Setenv("FAST_MODE", "true")
	t.Setenv("WORKERS", "4")
	t.Setenv("WIN_SCORE", "0.9")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}
	if cfg.StorageBackend != BackendAzure || cfg.AzureAccountName != "acct" {
		t.Errorf("azure settings not applied: %+v", cfg)
	}
	if !cfg.FastMode || cfg.Workers != 4 || cfg.WinScore != 0.9 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}
