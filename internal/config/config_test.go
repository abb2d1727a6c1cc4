package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.ServerPort != "8080" {
			t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
		}
		if cfg.OperatorStore != "mizojerseyhome" {
			t.Errorf("OperatorStore = %q", cfg.OperatorStore)
		}
		if cfg.DefaultCategory != "all" {
			t.Errorf("DefaultCategory = %q", cfg.DefaultCategory)
		}
		if cfg.NavTimeout() != 30*time.Second {
			t.Errorf("NavTimeout = %v, want 30s", cfg.NavTimeout())
		}
		if cfg.SelectorTimeout() != 10*time.Second {
			t.Errorf("SelectorTimeout = %v, want 10s", cfg.SelectorTimeout())
		}
		if cfg.PageDelay() != 2*time.Second {
			t.Errorf("PageDelay = %v, want 2s", cfg.PageDelay())
		}
		if cfg.StoreDelay() != 5*time.Second {
			t.Errorf("StoreDelay = %v, want 5s", cfg.StoreDelay())
		}
		if cfg.MaxRetries != 2 {
			t.Errorf("MaxRetries = %d, want 2", cfg.MaxRetries)
		}
		if !cfg.Headless {
			t.Error("Headless = false, want true by default")
		}
		if cfg.JobStatusTTL() != 24*time.Hour {
			t.Errorf("JobStatusTTL = %v, want 24h", cfg.JobStatusTTL())
		}
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("OPERATOR_STORE", "zealevince")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.ServerPort != "9090" {
			t.Errorf("ServerPort = %q, want env override 9090", cfg.ServerPort)
		}
		if cfg.OperatorStore != "zealevince" {
			t.Errorf("OperatorStore = %q, want env override", cfg.OperatorStore)
		}
	})
}
