package provider

import (
	"os"
	"time"
)

// DefaultTimeout bounds every embedding HTTP call unless overridden.
const DefaultTimeout = 30 * time.Second

// Config carries the normalized construction parameters for a provider
// client. The registry fills Model and APIKeyEnv with per-provider defaults
// before construction, so adapters can rely on both being set (except for
// providers that need no credential).
type Config struct {
	// Model name, e.g. "text-embedding-3-small".
	Model string

	// APIKey, when set, is used directly and no environment lookup happens.
	APIKey string

	// APIKeyEnv names the environment variable holding the credential.
	APIKeyEnv string

	// Endpoint overrides the provider's default API base URL.
	Endpoint string

	// Timeout bounds each HTTP call. Zero means DefaultTimeout.
	Timeout time.Duration
}

// timeout returns the effective HTTP timeout.
func (c Config) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

// resolveAPIKey resolves the credential for a provider: an explicit key wins,
// otherwise the configured environment slot is read. An empty slot is a
// *CredentialsError so callers can tell "missing key" from "provider broken".
func resolveAPIKey(providerID string, cfg Config) (string, error) {
	if cfg.APIKey != "" {
		return cfg.APIKey, nil
	}

	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return "", &CredentialsError{Provider: providerID, EnvVar: cfg.APIKeyEnv}
	}
	return key, nil
}
