package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "REDIS_ADDR", "CACHE_TTL", "COLLECTION_TTL", "STORE_TIMEOUT", "BACKFILL_ON_START"} {
		t.Setenv(k, "")
	}
	t.Setenv("JWT_SECRET", "s")

	cfg := Load()
	if cfg.Port != "8080" || cfg.RedisAddr != "" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.CacheTTL != time.Hour || cfg.CollectionTTL != 30*time.Minute || cfg.StoreTimeout != 3*time.Second {
		t.Fatalf("unexpected durations %+v", cfg)
	}
	if cfg.BackfillOnStart {
		t.Fatalf("backfill should be off by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("BACKFILL_ON_START", "true")

	cfg := Load()
	if cfg.RedisAddr != "localhost:6379" || cfg.RedisDB != 2 {
		t.Fatalf("unexpected redis config %+v", cfg)
	}
	if cfg.CacheTTL != 90*time.Second || !cfg.BackfillOnStart {
		t.Fatalf("unexpected overrides %+v", cfg)
	}
}
