package util

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/polok-dev98/agentpro/pkg/logger"
)

// LoadEnv loads a .env file if one exists. Missing files are not an error;
// deployments configure the process through real environment variables.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using system environment variables")
	}
}

// GetEnv returns the value of an environment variable or an empty string.
func GetEnv(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return ""
	}
	return value
}

// GetEnvString returns the value of an environment variable or the default.
func GetEnvString(key string, defaultValue string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	return value
}

// GetEnvInt returns the value of an environment variable parsed as an int,
// or the default when unset or unparsable.
func GetEnvInt(key string, defaultValue int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// GetEnvFloat returns the value of an environment variable parsed as a
// float64, or the default when unset or unparsable.
func GetEnvFloat(key string, defaultValue float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// GetEnvBool returns the value of an environment variable parsed as a bool.
// Only the literals "true" and "false" are accepted.
func GetEnvBool(key string, defaultValue bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	if value == "true" || value == "false" {
		return value == "true"
	}
	return defaultValue
}
