package config

import (
	"testing"
	"time"
)

func TestLoadSyncDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !cfg.Sync.Enabled {
		t.Error("sync must default to enabled")
	}
	if cfg.Sync.RetryAttempts != 3 {
		t.Errorf("retry attempts = %d, want 3", cfg.Sync.RetryAttempts)
	}
	want := []time.Duration{time.Minute, 5 * time.Minute, 15 * time.Minute}
	if len(cfg.Sync.RetryDelays) != len(want) {
		t.Fatalf("retry delays = %v, want %v", cfg.Sync.RetryDelays, want)
	}
	for i, d := range want {
		if cfg.Sync.RetryDelays[i] != d {
			t.Errorf("delay[%d] = %v, want %v", i, cfg.Sync.RetryDelays[i], d)
		}
	}
}

func TestLoadSyncRetryDelaysFromEnv(t *testing.T) {
	t.Setenv("CHP_SYNC_RETRY_DELAYS", "30s,2m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(cfg.Sync.RetryDelays) != 2 ||
		cfg.Sync.RetryDelays[0] != 30*time.Second ||
		cfg.Sync.RetryDelays[1] != 2*time.Minute {
		t.Errorf("retry delays = %v, want [30s 2m]", cfg.Sync.RetryDelays)
	}
}
