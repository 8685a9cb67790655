package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_ENV", "nonexistent")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 3001 {
		t.Fatalf("port = %d", cfg.Port)
	}
	if cfg.MaxUploadBytes != 100<<20 {
		t.Fatalf("max_upload_bytes = %d", cfg.MaxUploadBytes)
	}
	if cfg.PingPeriod != 54*time.Second {
		t.Fatalf("ping_period = %v", cfg.PingPeriod)
	}
	if cfg.HostOnlyUploads {
		t.Fatalf("uploads default to open, not host-only")
	}
	if cfg.RateLimit != 100 || cfg.RateWindow != 15*time.Minute {
		t.Fatalf("rate limit defaults = %d/%v", cfg.RateLimit, cfg.RateWindow)
	}
}
