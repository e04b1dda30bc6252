package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_NAME", "talentmatch")
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("JWT_ACCESS_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.App.AppName != "talentmatch" || cfg.App.HTTPPort != "8080" {
		t.Fatalf("app config = %+v", cfg.App)
	}
	if cfg.Engine.CacheTTL != 10*time.Minute {
		t.Fatalf("cache ttl = %v, want 10m default", cfg.Engine.CacheTTL)
	}
	if cfg.Engine.DistanceTimeout != 150*time.Millisecond {
		t.Fatalf("distance timeout = %v, want 150ms default", cfg.Engine.DistanceTimeout)
	}
	if cfg.Ingest.Workers != 6 || cfg.Ingest.Pages != 2 || cfg.Ingest.RateLimitRPS != 4 {
		t.Fatalf("ingest defaults = %+v", cfg.Ingest)
	}
	if cfg.Database.PoolMaxConns != 10 {
		t.Fatalf("pool max conns = %d, want 10", cfg.Database.PoolMaxConns)
	}
}

func TestLoadReportsAllMissingVariables(t *testing.T) {
	t.Setenv("APP_NAME", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("JWT_ACCESS_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "")

	_, err := Load()
	if !errors.Is(err, errMissingRequiredEnv) {
		t.Fatalf("want errMissingRequiredEnv, got %v", err)
	}
	for _, key := range []string{"APP_NAME", "APP_ENV", "HTTP_PORT", "JWT_ACCESS_SECRET", "JWT_REFRESH_SECRET"} {
		if !strings.Contains(err.Error(), key) {
			t.Fatalf("error %q does not name %s", err.Error(), key)
		}
	}
}

func TestOptDurationFormats(t *testing.T) {
	t.Setenv("TEST_DURATION", "45s")
	if d := optDuration("TEST_DURATION", time.Minute); d != 45*time.Second {
		t.Fatalf("parsed %v, want 45s", d)
	}

	// Bare numbers read as seconds.
	t.Setenv("TEST_DURATION", "90")
	if d := optDuration("TEST_DURATION", time.Minute); d != 90*time.Second {
		t.Fatalf("parsed %v, want 90s", d)
	}

	t.Setenv("TEST_DURATION", "nonsense")
	if d := optDuration("TEST_DURATION", time.Minute); d != time.Minute {
		t.Fatalf("parsed %v, want the default", d)
	}

	t.Setenv("TEST_DURATION", "")
	if d := optDuration("TEST_DURATION", time.Minute); d != time.Minute {
		t.Fatalf("parsed %v, want the default", d)
	}
}

func TestOptInt(t *testing.T) {
	t.Setenv("TEST_INT", "12")
	if v := optInt("TEST_INT", 3); v != 12 {
		t.Fatalf("parsed %d, want 12", v)
	}
	t.Setenv("TEST_INT", "abc")
	if v := optInt("TEST_INT", 3); v != 3 {
		t.Fatalf("parsed %d, want the default", v)
	}
}
