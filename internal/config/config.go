// Package config holds the process configuration. Everything is read
// from the environment (CATNIP_* variables); there is no config file.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

var v *viper.Viper

// Initialize sets up the viper configuration singleton.
// Should be called once at application startup.
func Initialize() {
	v = viper.New()

	// Automatic environment variable binding.
	// E.g., CATNIP_DB, CATNIP_RPC_ADDR, CATNIP_LOG_LEVEL.
	v.SetEnvPrefix("CATNIP")

	// Replace hyphens and dots with underscores for env var mapping.
	// This allows CATNIP_RPC_ADDR to map to the "rpc-addr" key.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Storage
	v.SetDefault("db", "catnip.db")

	// Ingestion RPC endpoint. When "socket" is set the server listens
	// on a unix socket; otherwise it binds the TCP address.
	v.SetDefault("socket", "")
	v.SetDefault("rpc-addr", "127.0.0.1:50051")

	// Read API
	v.SetDefault("http-addr", "127.0.0.1:8080")
	v.SetDefault("api-major-version", "0")
	v.SetDefault("api-minor-version", "1")

	// Logging
	v.SetDefault("log-level", "info")
	v.SetDefault("log-file", "")

	// Server tuning
	v.SetDefault("max-conns", 100)
	v.SetDefault("request-timeout", "30s")
	v.SetDefault("stream-pace", "20ms")
}

// GetString retrieves a string configuration value
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetBool retrieves a boolean configuration value
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetInt retrieves an integer configuration value
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// GetDuration retrieves a duration configuration value
func GetDuration(key string) time.Duration {
	if v == nil {
		return 0
	}
	return v.GetDuration(key)
}

// Set sets a configuration value (used by tests and flag overrides)
func Set(key string, value interface{}) {
	if v != nil {
		v.Set(key, value)
	}
}
