package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv unsets every variable Load reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_FILE", "PORT", "ENVIRONMENT", "LOG_LEVEL", "GCP_PROJECT", "SECRET_ID",
		"HTTP_TIMEOUT", "CHROME_TLS", "SESSION_DB", "MIN_CLIENT_VERSION",
		"API_BASE_URL", "VITE_API_BASE_URL", "API_TOKEN",
		"CLOUDINARY_CLOUD_NAME", "VITE_CLOUDINARY_CLOUD_NAME",
		"GOOGLE_CLIENT_ID", "VITE_GOOGLE_CLIENT_ID",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	// Keep any developer .env out of the test.
	t.Chdir(t.TempDir())
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("API_BASE_URL", "https://api.example.com/")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("CHROME_TLS", "true")
	t.Setenv("MIN_CLIENT_VERSION", "v1.2.0")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %s, want 9090", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", cfg.LogLevel)
	}
	if cfg.Partner.APIBaseURL != "https://api.example.com" {
		t.Errorf("APIBaseURL = %s, want trailing slash trimmed", cfg.Partner.APIBaseURL)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("HTTPTimeout = %v, want 5s", cfg.HTTPTimeout)
	}
	if !cfg.ChromeTLS {
		t.Error("ChromeTLS = false, want true")
	}
	if got := cfg.Partner.CDNBase(); got != "https://res.cloudinary.com/demo/image/upload" {
		t.Errorf("CDNBase = %s", got)
	}
	if cfg.SessionDB != "partner-session.db" {
		t.Errorf("SessionDB = %s, want default", cfg.SessionDB)
	}
}

func TestLoadViteFallbacks(t *testing.T) {
	clearEnv(t)
	t.Setenv("VITE_API_BASE_URL", "http://localhost:5000")
	t.Setenv("VITE_GOOGLE_CLIENT_ID", "client-1")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Partner.APIBaseURL != "http://localhost:5000" {
		t.Errorf("APIBaseURL = %s", cfg.Partner.APIBaseURL)
	}
	if cfg.Partner.GoogleClientID != "client-1" {
		t.Errorf("GoogleClientID = %s", cfg.Partner.GoogleClientID)
	}
	if cfg.HTTPTimeout != 20*time.Second {
		t.Errorf("HTTPTimeout = %v, want default 20s", cfg.HTTPTimeout)
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	if err := os.WriteFile(".env", []byte("API_BASE_URL=https://dotenv.example.com\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("API_BASE_URL") })

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Partner.APIBaseURL != "https://dotenv.example.com" {
		t.Errorf("APIBaseURL = %s, want value from .env", cfg.Partner.APIBaseURL)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing base url",
			env:     map[string]string{},
			wantErr: "api_base_url is required",
		},
		{
			name:    "bad scheme",
			env:     map[string]string{"API_BASE_URL": "ftp://x"},
			wantErr: "scheme must be http or https",
		},
		{
			name:    "bad timeout",
			env:     map[string]string{"API_BASE_URL": "https://x", "HTTP_TIMEOUT": "soon"},
			wantErr: "parsing HTTP_TIMEOUT",
		},
		{
			name:    "bad min version",
			env:     map[string]string{"API_BASE_URL": "https://x", "MIN_CLIENT_VERSION": "1.2"},
			wantErr: "not a semver",
		},
		{
			name:    "production without project",
			env:     map[string]string{"API_BASE_URL": "https://x", "ENVIRONMENT": "production"},
			wantErr: "GCP_PROJECT required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(context.Background())
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want containing %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"port": "7070",
		"http_timeout": "3s",
		"min_client_version": "v2.0.0",
		"partner": {
			"api_base_url": "https://file.example.com",
			"cloudinary_cloud_name": "filecloud"
		}
	}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != "7070" || cfg.HTTPTimeout != 3*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %s, want development default", cfg.Environment)
	}
	if cfg.Partner.CloudinaryCloudName != "filecloud" {
		t.Errorf("CloudinaryCloudName = %s", cfg.Partner.CloudinaryCloudName)
	}
}

func TestOverlay(t *testing.T) {
	base := PartnerConfig{APIBaseURL: "https://env", CloudinaryCloudName: "env"}
	got := overlay(base, PartnerConfig{APIToken: "secret", CloudinaryCloudName: "sm"})
	if got.APIBaseURL != "https://env" || got.APIToken != "secret" || got.CloudinaryCloudName != "sm" {
		t.Errorf("overlay = %+v", got)
	}
}
