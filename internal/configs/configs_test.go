package configs

import "testing"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENVIRONMENT", "PORT", "HISTORY_LIMIT", "ALLOWED_ORIGINS", "JWT_SECRET",
		"S3_BUCKET_NAME", "S3_ENDPOINT", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY",
		"DATABASE_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Environment != "development" {
		t.Errorf("Environment = %q", cfg.Environment)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.HistoryLimit != 512 {
		t.Errorf("HistoryLimit = %d", cfg.HistoryLimit)
	}
	if cfg.SnapshotArchiveEnabled() {
		t.Error("snapshot archive enabled with no S3 configuration")
	}
	if cfg.DatabaseDSN == "" {
		t.Error("development DSN default missing")
	}
}

func TestLoadConfigInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric port", "PORT", "abc"},
		{"privileged port", "PORT", "80"},
		{"port out of range", "PORT", "70000"},
		{"non-numeric history limit", "HISTORY_LIMIT", "many"},
		{"zero history limit", "HISTORY_LIMIT", "0"},
		{"negative history limit", "HISTORY_LIMIT", "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := LoadConfig(); err == nil {
				t.Errorf("LoadConfig accepted %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestLoadConfigProductionRequiresSecrets(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("production config accepted without JWT_SECRET")
	}

	t.Setenv("JWT_SECRET", "secret")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("production config accepted without DATABASE_URL")
	}

	t.Setenv("DATABASE_URL", "postgres://prod/db")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("fully specified production config rejected: %v", err)
	}
	if cfg.JWTSecret != "secret" {
		t.Errorf("JWTSecret = %q", cfg.JWTSecret)
	}
}

func TestLoadConfigS3AllOrNothing(t *testing.T) {
	clearEnv(t)
	t.Setenv("S3_BUCKET_NAME", "snapshots")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("partial S3 configuration accepted")
	}

	t.Setenv("S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("S3_ACCESS_KEY_ID", "key")
	t.Setenv("S3_SECRET_ACCESS_KEY", "secret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("complete S3 configuration rejected: %v", err)
	}
	if !cfg.SnapshotArchiveEnabled() {
		t.Error("snapshot archive not enabled with full S3 configuration")
	}
}

func TestLoadConfigAllowedOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com ,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.AllowedOrigins[0] != "https://a.example.com" || cfg.AllowedOrigins[1] != "https://b.example.com" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}
