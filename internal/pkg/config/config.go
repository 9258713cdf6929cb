// Package config reads application settings from a YAML file with
// environment overrides.
package config

import (
	"errors"
	"io"
	"strings"
	"time"
)

// ErrMissingKey is wrapped by Require when a mandatory setting is blank.
var ErrMissingKey = errors.New("config: missing required key")

// Config is the read side used by the composition root and the modules.
// Getters return the zero value for absent or unparsable keys.
type Config interface {
	io.Closer

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetInt32(key string) int32
	GetFloat64(key string) float64

	// GetSecond and GetMinute read an integer and scale it, so
	// "otp_ttl_minutes: 10" yields 10m.
	GetSecond(key string) time.Duration
	GetMinute(key string) time.Duration

	// GetArray accepts a YAML sequence or a comma-separated string.
	GetArray(key string) []string
}

// Require reports every key whose string value is blank, so startup can fail
// once with the full list instead of key by key.
func Require(cfg Config, keys ...string) error {
	var missing []string
	for _, key := range keys {
		if strings.TrimSpace(cfg.GetString(key)) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return errors.Join(ErrMissingKey, errors.New(strings.Join(missing, ", ")))
}
