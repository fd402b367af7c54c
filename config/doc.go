// Package config loads reststack configuration from a YAML file, an optional
// .env file and the process environment.
//
// Loading is layered: the config file is read first, then variables from the
// .env file are exported, and finally every environment variable carrying the
// program prefix overrides the matching key. RESTSTACK_CLIENT_TIMEOUT sets
// client.timeout and RESTSTACK_CLIENT_USER_AGENT sets client.user_agent.
//
// # Usage
//
//	var cfg CLIConfig
//	err := config.LoadConfig("reststack", &cfg, config.WithConfigFile(path))
package config
