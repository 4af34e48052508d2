package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_ADDR", "DATABASE_URL", "RATES_FILE", "CORS_ALLOWED_ORIGINS", "READ_TIMEOUT", "MAX_BODY_BYTES"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Addr != ":8080" || cfg.MigrationsDir != "migrations" || cfg.MaxBodyBytes != 1048576 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.ReadTimeout != 15*time.Second {
		t.Fatalf("unexpected read timeout %v", cfg.ReadTimeout)
	}
	if cfg.ArchiveEnabled() {
		t.Fatal("archive should be off without DATABASE_URL")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("WRITE_TIMEOUT", "1m")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("MAX_BODY_BYTES", "not-a-number")

	cfg := Load()
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, []string{"https://a.example", "https://b.example"}) {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.WriteTimeout != time.Minute || cfg.RunMigrations {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.MaxBodyBytes != 1048576 {
		t.Fatalf("expected fallback body limit, got %d", cfg.MaxBodyBytes)
	}
}

func TestValidate(t *testing.T) {
	base := Config{JWTSecret: "dev", MaxBodyBytes: 4096, ReadTimeout: time.Second, WriteTimeout: time.Second}
	if err := base.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET is required"},
		{"weak production secret", func(c *Config) { c.Environment = "production" }, "at least 32 characters"},
		{"production archive without key", func(c *Config) {
			c.Environment = "production"
			c.JWTSecret = strings.Repeat("s", 32)
			c.DatabaseURL = "postgres://localhost/nlpayroll"
		}, "DATA_ENCRYPTION_KEY"},
		{"wildcard cors in production", func(c *Config) {
			c.Environment = "production"
			c.JWTSecret = strings.Repeat("s", 32)
			c.CORSAllowedOrigins = []string{"*"}
		}, "CORS_ALLOWED_ORIGINS"},
		{"small body limit", func(c *Config) { c.MaxBodyBytes = 10 }, "MAX_BODY_BYTES"},
		{"zero timeout", func(c *Config) { c.ReadTimeout = 0 }, "READ_TIMEOUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}
