package config

import (
	"os"
	"strconv"
)

// GetEnv reads an environment variable, returning "" when unset
func GetEnv(key string) string {
	return os.Getenv(key)
}

// GetEnvInt reads an integer environment variable, falling back to the
// provided default when the variable is unset or not a number
func GetEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

// GetEnvInt64 is GetEnvInt for int64 values (e.g. byte sizes)
func GetEnvInt64(key string, fallback int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
