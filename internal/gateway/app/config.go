package app

import (
	"os"
	"strconv"
	"time"
)

// Key modes accepted in GATEWAY_KEY_MODE.
const (
	KeyModeEphemeral = "ephemeral"
	KeyModeFile      = "file"
	KeyModeSecret    = "secret"
)

type Config struct {
	Issuer         string // Issuer claim for tokens (default: tenantgate)
	Algorithm      string // JWT signing algorithm (RS256, EdDSA, HS256) (default: EdDSA)
	RSABits        int    // RSA key size for ephemeral RS256 keys (default: 2048)
	KeyMode        string // ephemeral, file or secret (default: ephemeral)
	PrivateKeyFile string // PEM private key, required in file mode
	SharedSecret   string // HS256 secret, required in secret mode

	DatabaseFile   string        // SQLite identity store (default: ./gateway.db)
	TenantsFile    string        // YAML tenant partitions; empty means only the default tenant
	PepperFile     string        // Password pepper (default: ./pepper)
	SystemType     string        // External system for company mappings (default: meetingtrakker)
	CORSOrigin     string        // Access-Control-Allow-Origin (default: *)
	ConnectTimeout time.Duration // Tenant pool construction deadline (default: 10s)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Issuer:         getEnvOrDefault("GATEWAY_ISSUER", "tenantgate"),
		Algorithm:      getEnvOrDefault("GATEWAY_ALGORITHM", "EdDSA"),
		RSABits:        getEnvIntOrDefault("GATEWAY_RSA_BITS", 2048),
		KeyMode:        getEnvOrDefault("GATEWAY_KEY_MODE", KeyModeEphemeral),
		PrivateKeyFile: os.Getenv("GATEWAY_PRIVATE_KEY_FILE"),
		SharedSecret:   os.Getenv("GATEWAY_SHARED_SECRET"),

		DatabaseFile:   getEnvOrDefault("GATEWAY_DATABASE_FILE", "gateway.db"),
		TenantsFile:    os.Getenv("GATEWAY_TENANTS_FILE"),
		PepperFile:     getEnvOrDefault("GATEWAY_PEPPER_FILE", "pepper"),
		SystemType:     getEnvOrDefault("GATEWAY_SYSTEM_TYPE", "meetingtrakker"),
		CORSOrigin:     getEnvOrDefault("GATEWAY_CORS_ORIGIN", "*"),
		ConnectTimeout: getEnvDurationOrDefault("GATEWAY_CONNECT_TIMEOUT", 10*time.Second),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
