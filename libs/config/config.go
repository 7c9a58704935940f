package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

func String(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

// Bool accepts the usual truthy spellings (1, true, yes, on); anything else set is false.
func Bool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return IsTruthy(v)
}

func IsTruthy(s string) bool {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}

// Int returns fallback when the variable is unset, unparseable or below min.
func Int(key string, fallback, min int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v < min {
		return fallback
	}
	return v
}

// Seconds reads an integer number of seconds.
func Seconds(key string, fallback time.Duration) time.Duration {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return fallback
	}
	return time.Duration(v) * time.Second
}
