// Package config handles loading and validation of service configuration.
// Supports both development (env vars, .env) and production (Secret Manager) modes.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/joho/godotenv"
	"golang.org/x/mod/semver"

	"partner-sync/internal/normalize"
)

// Config holds all service configuration.
// Environment determines whether secrets load from env vars (development) or Secret Manager (production).
type Config struct {
	// Server settings
	Port        string
	Environment string // "development" or "production"
	LogLevel    string // "debug", "info", "warn", "error"

	// GCP settings (required in production)
	GCPProject string
	SecretID   string

	// Backend client settings
	HTTPTimeout time.Duration
	ChromeTLS   bool

	// SessionDB is the sqlite DSN of the durable identity store.
	SessionDB string

	// MinClientVersion rejects gateway callers that announce an older
	// semver in the Partner-Session header. Empty disables the check.
	MinClientVersion string

	Partner PartnerConfig
}

// PartnerConfig contains backend settings.
// In production, this is loaded from Secret Manager as JSON.
// In development, loaded from individual env vars or CONFIG_FILE.
type PartnerConfig struct {
	APIBaseURL          string `json:"api_base_url"`
	APIToken            string `json:"api_token,omitempty"`
	CloudinaryCloudName string `json:"cloudinary_cloud_name,omitempty"`
	GoogleClientID      string `json:"google_client_id,omitempty"`
}

// CDNBase returns the asset CDN prefix used to resolve bare public ids.
func (p PartnerConfig) CDNBase() string {
	return normalize.CDNBase(p.CloudinaryCloudName)
}

// Load reads configuration from file, environment, or Secret Manager.
// Priority: CONFIG_FILE (if set) → ENV vars / Secret Manager.
// A .env file in the working directory is loaded first when present;
// variables already set in the process win over it.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load() // .env is optional

	if configPath := os.Getenv("CONFIG_FILE"); configPath != "" {
		return loadFromFile(configPath)
	}

	timeout, err := durationEnv("HTTP_TIMEOUT", 20*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:             envOrDefault("PORT", "8080"),
		Environment:      envOrDefault("ENVIRONMENT", "development"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		GCPProject:       os.Getenv("GCP_PROJECT"),
		SecretID:         envOrDefault("SECRET_ID", "partner-sync"),
		HTTPTimeout:      timeout,
		ChromeTLS:        boolEnv("CHROME_TLS"),
		SessionDB:        envOrDefault("SESSION_DB", "partner-session.db"),
		MinClientVersion: os.Getenv("MIN_CLIENT_VERSION"),
	}

	cfg.loadFromEnv()
	if cfg.Environment == "production" {
		if cfg.GCPProject == "" {
			return nil, fmt.Errorf("GCP_PROJECT required in production environment")
		}
		if err := cfg.loadFromSecretManager(ctx); err != nil {
			return nil, fmt.Errorf("loading partner config: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile reads all configuration from a JSON file.
// Used for local development to avoid multiple ENV vars.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var fileConfig struct {
		Port             string        `json:"port"`
		Environment      string        `json:"environment"`
		LogLevel         string        `json:"log_level"`
		HTTPTimeout      string        `json:"http_timeout"`
		ChromeTLS        bool          `json:"chrome_tls"`
		SessionDB        string        `json:"session_db"`
		MinClientVersion string        `json:"min_client_version"`
		Partner          PartnerConfig `json:"partner"`
	}
	if err := json.Unmarshal(data, &fileConfig); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	timeout := 20 * time.Second
	if fileConfig.HTTPTimeout != "" {
		if timeout, err = time.ParseDuration(fileConfig.HTTPTimeout); err != nil {
			return nil, fmt.Errorf("parsing http_timeout: %w", err)
		}
	}

	cfg := &Config{
		Port:             withDefault(fileConfig.Port, "8080"),
		Environment:      withDefault(fileConfig.Environment, "development"),
		LogLevel:         withDefault(fileConfig.LogLevel, "info"),
		HTTPTimeout:      timeout,
		ChromeTLS:        fileConfig.ChromeTLS,
		SessionDB:        withDefault(fileConfig.SessionDB, "partner-session.db"),
		MinClientVersion: fileConfig.MinClientVersion,
		Partner:          fileConfig.Partner,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// withDefault returns val if non-empty, otherwise defaultVal.
func withDefault(val, defaultVal string) string {
	if val != "" {
		return val
	}
	return defaultVal
}

// loadFromSecretManager overlays secrets from GCP Secret Manager onto the
// env-derived partner config. Only non-empty secret fields override.
// Secret name format: projects/{project}/secrets/{secret_id}/versions/latest
func (c *Config) loadFromSecretManager(ctx context.Context) error {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("creating secret manager client: %w", err)
	}
	defer client.Close()

	secretName := fmt.Sprintf("projects/%s/secrets/%s/versions/latest",
		c.GCPProject, c.SecretID)

	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretName,
	})
	if err != nil {
		return fmt.Errorf("accessing secret %s: %w", secretName, err)
	}

	var secret PartnerConfig
	if err := json.Unmarshal(result.Payload.Data, &secret); err != nil {
		return fmt.Errorf("parsing secret JSON: %w", err)
	}
	c.Partner = overlay(c.Partner, secret)
	return nil
}

func overlay(base, over PartnerConfig) PartnerConfig {
	base.APIBaseURL = withDefault(over.APIBaseURL, base.APIBaseURL)
	base.APIToken = withDefault(over.APIToken, base.APIToken)
	base.CloudinaryCloudName = withDefault(over.CloudinaryCloudName, base.CloudinaryCloudName)
	base.GoogleClientID = withDefault(over.GoogleClientID, base.GoogleClientID)
	return base
}

// loadFromEnv reads partner config from individual environment variables.
// The VITE_ names are accepted so a front-end .env can be reused as-is.
func (c *Config) loadFromEnv() {
	c.Partner = PartnerConfig{
		APIBaseURL:          firstEnv("API_BASE_URL", "VITE_API_BASE_URL"),
		APIToken:            os.Getenv("API_TOKEN"),
		CloudinaryCloudName: firstEnv("CLOUDINARY_CLOUD_NAME", "VITE_CLOUDINARY_CLOUD_NAME"),
		GoogleClientID:      firstEnv("GOOGLE_CLIENT_ID", "VITE_GOOGLE_CLIENT_ID"),
	}
}

// validate checks that all required configuration fields are present.
func (c *Config) validate() error {
	if c.Partner.APIBaseURL == "" {
		return fmt.Errorf("api_base_url is required")
	}
	u, err := url.Parse(c.Partner.APIBaseURL)
	if err != nil {
		return fmt.Errorf("invalid api_base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid api_base_url: scheme must be http or https")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive")
	}
	if c.MinClientVersion != "" && !semver.IsValid(c.MinClientVersion) {
		return fmt.Errorf("min_client_version %q is not a semver (want vMAJOR.MINOR.PATCH)", c.MinClientVersion)
	}
	c.Partner.APIBaseURL = strings.TrimSuffix(c.Partner.APIBaseURL, "/")
	return nil
}

// envOrDefault returns the environment variable value or the default if not set.
func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// firstEnv returns the first non-empty variable among keys.
func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func boolEnv(key string) bool {
	v, _ := strconv.ParseBool(os.Getenv(key))
	return v
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return d, nil
}
