package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadUsesDefaultsAndYAMLOverrides(t *testing.T) {
	clearConfigEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
discovery:
  page_size_default: 25
  overfetch_multiplier: 4
  exclusion_predicate_cap: 100
  radius_max_km: 200
limits:
  swipes_per_minute: 30
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Discovery.PageSizeDefault != 25 {
		t.Fatalf("unexpected default page size: %d", cfg.Discovery.PageSizeDefault)
	}
	if cfg.Discovery.OverfetchMultiplier != 4 {
		t.Fatalf("unexpected overfetch multiplier: %d", cfg.Discovery.OverfetchMultiplier)
	}
	if cfg.Discovery.ExclusionPredicateCap != 100 {
		t.Fatalf("unexpected exclusion predicate cap: %d", cfg.Discovery.ExclusionPredicateCap)
	}
	if cfg.Discovery.RadiusMaxKM != 200 {
		t.Fatalf("unexpected max radius: %d", cfg.Discovery.RadiusMaxKM)
	}
	if cfg.Limits.SwipesPerMinute != 30 {
		t.Fatalf("unexpected swipes per minute: %d", cfg.Limits.SwipesPerMinute)
	}

	// untouched keys keep their defaults
	if cfg.Discovery.PageSizeMax != Default().Discovery.PageSizeMax {
		t.Fatalf("unexpected max page size: %d", cfg.Discovery.PageSizeMax)
	}
	if cfg.HTTP.Addr != Default().HTTP.Addr {
		t.Fatalf("unexpected http addr: %s", cfg.HTTP.Addr)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Postgres.DSN != Default().Postgres.DSN {
		t.Fatalf("unexpected postgres dsn: %s", cfg.Postgres.DSN)
	}
}

func TestEnvOverridesWinOverYAML(t *testing.T) {
	clearConfigEnv(t)

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	yaml := `
http:
  addr: ":9999"
discovery:
  page_size_default: 25
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("DISCOVERY_PAGE_SIZE_DEFAULT", "10")
	t.Setenv("JWT_SECRET", "env-secret")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.HTTP.Addr != ":7070" {
		t.Fatalf("unexpected http addr: %s", cfg.HTTP.Addr)
	}
	if cfg.Discovery.PageSizeDefault != 10 {
		t.Fatalf("unexpected default page size: %d", cfg.Discovery.PageSizeDefault)
	}
	if cfg.Auth.JWTSecret != "env-secret" {
		t.Fatalf("unexpected jwt secret: %s", cfg.Auth.JWTSecret)
	}
}

func TestEnvOverrideRejectsMalformedInt(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DISCOVERY_PAGE_SIZE_MAX", "not-a-number")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for malformed int override")
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_ENV", "HTTP_ADDR", "HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT", "HTTP_IDLE_TIMEOUT",
		"LOG_LEVEL", "POSTGRES_DSN", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BUCKET", "S3_USE_SSL",
		"JWT_SECRET", "JWT_ACCESS_TTL",
		"DISCOVERY_PAGE_SIZE_DEFAULT", "DISCOVERY_PAGE_SIZE_MAX", "DISCOVERY_OVERFETCH_MULTIPLIER",
		"DISCOVERY_EXCLUSION_PREDICATE_CAP", "DISCOVERY_RADIUS_DEFAULT_KM", "DISCOVERY_RADIUS_MAX_KM",
		"LIMITS_SWIPES_PER_MINUTE", "LIMITS_SWIPES_PER_10SEC",
		"RETENTION_EXACT_GEO_TTL", "RETENTION_SWEEP_INTERVAL",
	}
	for _, key := range keys {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}
