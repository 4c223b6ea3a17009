// Package config loads SDTM Studio's runtime configuration from the
// environment, with per-key getEnv* helpers and documented defaults.
package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default values
const (
	DefaultHost = "0.0.0.0"
	DefaultPort = "8080"

	DefaultOutputDir      = "./export"
	DefaultMappingRepoDir = "./mappings"
	DefaultJobStoreDBPath = "./sdtm-studio.db"

	DefaultMaxUploadBytes = 500 << 20 // matches ingest.MaxFileBytes

	DefaultRequireExplicitMapping = true
	DefaultMinConfidence          = 0.5

	DefaultExportRateLimit = 10
	DefaultRateLimitWindow = time.Minute
	DefaultTrustedProxies  = "127.0.0.1,::1"

	DefaultOpenAIModel      = "gpt-4o-mini"
	DefaultAIRequestTimeout = 10 * time.Second
	DefaultAIMaxSampleRows  = 5
)

// Config is the process-wide configuration for cmd/server and cmd/cli:
// require_explicit_mapping, AI-assist toggle, CT preference, max upload
// bytes, job-store path.
type Config struct {
	// Server
	Host           string
	Port           string
	CORSOrigins    []string
	TrustedProxies []string

	// Storage
	OutputDir      string
	MappingRepoDir string
	JobStoreDBPath string

	// Ingest
	MaxUploadBytes int64

	// Mapping/transform
	RequireExplicitMapping bool
	MinConfidence          float64
	PreferredCT            []string

	// Export
	ExportRateLimit int
	RateLimitWindow time.Duration

	// AI-assist
	AIEnabled        bool
	OpenAIAPIKey     string
	OpenAIModel      string
	AIRequestTimeout time.Duration
	AIMaxSampleRows  int
}

// LoadConfig reads Config from the environment, falling back to defaults.
func LoadConfig() *Config {
	openAIAPIKey := getEnv("OPENAI_API_KEY", "")
	aiEnabled := getEnvBool("AI_ASSIST_ENABLED", openAIAPIKey != "")

	if aiEnabled {
		slog.Info("AI-assist mapping suggestions enabled")
	} else {
		slog.Info("AI-assist mapping suggestions disabled")
	}

	return &Config{
		Host:           getEnv("HOST", DefaultHost),
		Port:           getEnv("PORT", DefaultPort),
		CORSOrigins:    splitCSV(getEnv("CORS_ORIGINS", "")),
		TrustedProxies: splitCSV(getEnv("TRUSTED_PROXIES", DefaultTrustedProxies)),

		OutputDir:      getEnv("OUTPUT_DIR", DefaultOutputDir),
		MappingRepoDir: getEnv("MAPPING_REPO_DIR", DefaultMappingRepoDir),
		JobStoreDBPath: getEnv("JOBSTORE_DB_PATH", DefaultJobStoreDBPath),

		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),

		RequireExplicitMapping: getEnvBool("REQUIRE_EXPLICIT_MAPPING", DefaultRequireExplicitMapping),
		MinConfidence:          getEnvFloat64("MIN_CONFIDENCE", DefaultMinConfidence),
		PreferredCT:            splitCSV(getEnv("PREFERRED_CT", "")),

		ExportRateLimit: getEnvInt("EXPORT_RATE_LIMIT", DefaultExportRateLimit),
		RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", DefaultRateLimitWindow),

		AIEnabled:        aiEnabled,
		OpenAIAPIKey:     openAIAPIKey,
		OpenAIModel:      getEnv("OPENAI_MODEL", DefaultOpenAIModel),
		AIRequestTimeout: getEnvDuration("AI_REQUEST_TIMEOUT", DefaultAIRequestTimeout),
		AIMaxSampleRows:  getEnvInt("AI_MAX_SAMPLE_ROWS", DefaultAIMaxSampleRows),
	}
}

// ValidateConfig checks config values and returns an error on failure.
// Call after LoadConfig to fail fast on invalid configuration.
func ValidateConfig(cfg *Config) error {
	if cfg.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if cfg.Port != "" {
		if _, err := strconv.Atoi(cfg.Port); err != nil {
			return fmt.Errorf("PORT must be numeric, got %q", cfg.Port)
		}
	}
	if cfg.MinConfidence < 0 || cfg.MinConfidence > 1 {
		return fmt.Errorf("MIN_CONFIDENCE must be in range 0..1")
	}
	if cfg.ExportRateLimit <= 0 {
		return fmt.Errorf("EXPORT_RATE_LIMIT must be positive")
	}
	if len(cfg.TrustedProxies) == 0 {
		return fmt.Errorf("TRUSTED_PROXIES must have at least one entry")
	}
	for _, proxy := range cfg.TrustedProxies {
		if proxy == "" {
			return fmt.Errorf("TRUSTED_PROXIES must not contain empty entries")
		}
		if net.ParseIP(proxy) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(proxy); err == nil {
			continue
		}
		return fmt.Errorf("TRUSTED_PROXIES entry %q must be a valid IP or CIDR", proxy)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt64(key string, fallback int64) int64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat64(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	var items []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
