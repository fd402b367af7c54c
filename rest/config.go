package rest

import (
	"time"

	"github.com/kbukum/reststack/errors"
	"github.com/kbukum/reststack/httpclient"
	"github.com/kbukum/reststack/validation"
	"github.com/kbukum/reststack/version"
)

// DefaultTimeout bounds a whole call, including reading the body.
const DefaultTimeout = 30 * time.Second

// Config describes a client in configuration files.
type Config struct {
	// Endpoint is the absolute base URI relative targets resolve against.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" validate:"required,absurl"`
	// Timeout bounds each call. Zero means DefaultTimeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
	// UserAgent defaults to reststack/<version>.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
	// Headers are sent with every call.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
	// TLS configures server verification and client certificates.
	TLS *httpclient.TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = version.UserAgent()
	}
}

// Validate checks the configuration and returns an INVALID_CONFIG error.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.TLS.Validate(); err != nil {
		return errors.InvalidConfig(err.Error()).WithCause(err)
	}
	return nil
}

func (c *Config) options() []Option {
	opts := []Option{WithTimeout(c.Timeout), WithUserAgent(c.UserAgent)}
	if c.TLS != nil {
		opts = append(opts, WithTLS(c.TLS))
	}
	for k, v := range c.Headers {
		opts = append(opts, WithHeader(k, v))
	}
	return opts
}
