package main

import (
	"fmt"
	"net/url"

	"github.com/kbukum/reststack/config"
	"github.com/kbukum/reststack/observability"
	"github.com/kbukum/reststack/rest"
	"github.com/kbukum/reststack/version"
)

const appName = "reststack"

// cliConfig is loaded from ./.reststack.yml (and the other config search
// paths) and RESTSTACK_* environment variables, then overridden by flags.
//
//	name: reststack
//	client:
//	  endpoint: https://api.example.com/v1/
//	  timeout: 10s
//	  headers:
//	    X-Api-Key: secret
//	telemetry:
//	  enabled: true
//	  endpoint: localhost:4318
type cliConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Client    rest.Config     `yaml:"client" mapstructure:"client"`
	Telemetry telemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

// telemetryConfig turns on OTLP export of client spans and metrics.
type telemetryConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// ApplyDefaults fills unset fields. The CLI logs errors only unless debug
// is on, so call logs do not interleave with the printed envelope.
func (c *cliConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = appName
	}
	if !c.Debug && c.Logging.Level == "" {
		c.Logging.Level = "error"
	}
	c.ServiceConfig.ApplyDefaults()
	c.Client.ApplyDefaults()
}

// Validate checks the service and client sections.
func (c *cliConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Client.Validate(); err != nil {
		return fmt.Errorf("config.client: %w", err)
	}
	return nil
}

func (t telemetryConfig) tracer(name, env string) observability.TracerConfig {
	cfg := observability.DefaultTracerConfig(name)
	cfg.ServiceVersion = version.Version
	cfg.Environment = env
	if t.Endpoint != "" {
		cfg.Endpoint = t.Endpoint
		cfg.Insecure = t.Insecure
	}
	if t.SampleRate > 0 {
		cfg.SampleRate = t.SampleRate
	}
	return cfg
}

func (t telemetryConfig) meter(name, env string) observability.MeterConfig {
	cfg := observability.DefaultMeterConfig(name)
	cfg.ServiceVersion = version.Version
	cfg.Environment = env
	if t.Endpoint != "" {
		cfg.Endpoint = t.Endpoint
		cfg.Insecure = t.Insecure
	}
	return cfg
}

// loadConfig reads the configuration and applies flag overrides. Without a
// configured endpoint, an absolute target supplies its own origin.
func loadConfig(f *flags, target string) (*cliConfig, error) {
	cfg := &cliConfig{}

	var opts []config.LoaderOption
	if f.configFile != "" {
		opts = append(opts, config.WithConfigFile(f.configFile))
	}
	if err := config.LoadConfig(appName, cfg, opts...); err != nil {
		return nil, err
	}

	if f.endpoint != "" {
		cfg.Client.Endpoint = f.endpoint
	}
	if cfg.Client.Endpoint == "" {
		cfg.Client.Endpoint = originOf(target)
	}
	if f.timeout > 0 {
		cfg.Client.Timeout = f.timeout
	}
	if f.verbose {
		cfg.Debug = true
		cfg.Logging.Level = "debug"
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// originOf returns "scheme://host" of an absolute target, or "".
func originOf(target string) string {
	u, err := url.Parse(target)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return ""
	}
	return (&url.URL{Scheme: u.Scheme, Host: u.Host}).String()
}
