package config

import (
	"testing"
	"time"
)

// validConfig returns a config that passes Validate, tests mutate one field.
func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.App.Environment = "dev"
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults in dev are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "empty app name",
			mutate:  func(c *Config) { c.App.Name = "" },
			wantErr: true,
		},
		{
			name:    "unknown environment",
			mutate:  func(c *Config) { c.App.Environment = "staging" },
			wantErr: true,
		},
		{
			name:    "empty db path",
			mutate:  func(c *Config) { c.DB.Path = "" },
			wantErr: true,
		},
		{
			name:    "empty migrations path",
			mutate:  func(c *Config) { c.DB.MigrationsPath = "" },
			wantErr: true,
		},
		{
			name:    "well-known port",
			mutate:  func(c *Config) { c.HTTP.Port = 80 },
			wantErr: true,
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.HTTP.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "zero read timeout",
			mutate:  func(c *Config) { c.HTTP.Timeouts.Read = 0 },
			wantErr: true,
		},
		{
			name:    "negative limiter rps",
			mutate:  func(c *Config) { c.Limiter.RPS = -1 },
			wantErr: true,
		},
		{
			name:    "empty s3 endpoint",
			mutate:  func(c *Config) { c.S3.Endpoint = "" },
			wantErr: true,
		},
		{
			name:    "empty s3 bucket",
			mutate:  func(c *Config) { c.S3.Bucket = "" },
			wantErr: true,
		},
		{
			name:    "zero session ttl",
			mutate:  func(c *Config) { c.Auth.SessionTTL = 0 },
			wantErr: true,
		},
		{
			name:    "missing s3 keys allowed in dev",
			mutate:  func(c *Config) { c.S3.AccessKey = "" },
			wantErr: false,
		},
		{
			name: "missing s3 keys rejected in prod",
			mutate: func(c *Config) {
				c.App.Environment = "prod"
				c.S3.AccessKey = ""
				c.S3.SecretKey = ""
			},
			wantErr: true,
		},
		{
			name: "prod with keys is valid",
			mutate: func(c *Config) {
				c.App.Environment = "prod"
				c.S3.AccessKey = "key"
				c.S3.SecretKey = "secret"
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected an error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestDefaultConfigHasSaneTimeouts(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.HTTP.Timeouts.Read <= 0 || cfg.HTTP.Timeouts.Write <= 0 {
		t.Error("default timeouts must be positive")
	}
	if cfg.Auth.SessionTTL < time.Hour {
		t.Errorf("default session ttl suspiciously short: %s", cfg.Auth.SessionTTL)
	}
}
