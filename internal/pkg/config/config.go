// Package config reads typed settings from a YAML file overlaid with
// environment variables.
//
// Keys are dot separated ("otp.expiry.unit"); the matching environment
// variable is the upper-cased key with dots replaced by underscores
// ("OTP_EXPIRY_UNIT").
package config

import (
	"io"
	"time"
)

// Config retrieves configuration values. Missing or unconvertible keys yield
// the zero value.
type Config interface {
	io.Closer

	IsSet(key string) bool
	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetInt64(key string) int64
	GetUint(key string) uint
	GetFloat64(key string) float64

	// GetSecond reads an integer number of seconds.
	GetSecond(key string) time.Duration

	// GetArray splits a comma separated value, dropping empty elements.
	GetArray(key string) []string

	// OnChange registers fn to run after the file is reloaded.
	OnChange(fn func())
}
