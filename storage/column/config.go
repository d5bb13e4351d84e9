package column

import (
	"github.com/go-kit/log"
)

// Config holds column decoding configuration
type Config struct {
	Logger log.Logger

	// MaxValueLength bounds a single binary or string element. A length
	// stream asking for more is treated as corrupt instead of allocating.
	MaxValueLength int

	// StrictUTF8 makes string columns reject values that are not valid UTF-8.
	StrictUTF8 bool
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Logger:         log.NewNopLogger(),
		MaxValueLength: 256 * 1024 * 1024,
		StrictUTF8:     false,
	}
}

// Option is a functional option for configuration
type Option func(*Config)

// WithLogger sets the logger used for construction and error reporting
func WithLogger(l log.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}

// WithMaxValueLength sets the largest accepted binary/string element
func WithMaxValueLength(n int) Option {
	return func(c *Config) {
		c.MaxValueLength = n
	}
}

// WithStrictUTF8 enables UTF-8 validation of string columns
func WithStrictUTF8(enabled bool) Option {
	return func(c *Config) {
		c.StrictUTF8 = enabled
	}
}

func newConfig(opts []Option) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
