// Package aiassist wraps github.com/openai/openai-go/v3 to offer an
// advisory mapping suggestion for target variables the deterministic
// scorer (internal/mapping) left Unmapped. It never blocks or replaces
// the deterministic pipeline: any failure, timeout, or disablement
// degrades to "no suggestion".
package aiassist

import (
	"os"
	"time"

	"github.com/yourorg/sdtm-studio/internal/mapping"
)

// ConfidenceCeiling caps every AI suggestion strictly below the
// deterministic suggestion floor (mapping.MinConfidence) so an AI guess can
// never silently outrank a deterministic match.
const ConfidenceCeiling = mapping.MinConfidence - 0.05

// Config configures the AI-assist client.
type Config struct {
	Enabled        bool
	APIKey         string
	Model          string
	RequestTimeout time.Duration
	MaxSampleRows  int
}

// DefaultConfig returns the out-of-the-box AI-assist configuration:
// disabled unless the host opts in, gpt-4o-mini as a cheap structured-output
// model, a conservative request timeout, and a handful of sample rows.
func DefaultConfig() Config {
	return Config{
		Enabled:        false,
		Model:          "gpt-4o-mini",
		RequestTimeout: 10 * time.Second,
		MaxSampleRows:  5,
	}
}

// resolveAPIKey falls back to the OPENAI_API_KEY environment variable
// when the config doesn't carry one explicitly.
func resolveAPIKey(cfg Config) string {
	if cfg.APIKey != "" {
		return cfg.APIKey
	}
	return os.Getenv("OPENAI_API_KEY")
}
