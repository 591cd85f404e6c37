// Package config loads the service configuration from an optional YAML file.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Configuration holds all configuration for the loantrack API.
type Configuration struct {
	Server  ServerConfig  `yaml:"server,omitempty"`
	Banner  BannerConfig  `yaml:"banner,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// ServerConfig holds the HTTP listener options.
type ServerConfig struct {
	ListenAddress       string `yaml:"listenAddress,omitempty"`
	ReadTimeoutSeconds  int    `yaml:"readTimeoutSeconds,omitempty"`
	WriteTimeoutSeconds int    `yaml:"writeTimeoutSeconds,omitempty"`
}

// BannerConfig holds the transient status banner options.
type BannerConfig struct {
	TTLSeconds int `yaml:"ttlSeconds,omitempty"`
}

// LoggingConfig holds logging configuration options.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // json, console
}

// LoadConfiguration reads the YAML-formatted configuration at configPath.
// A missing file is not an error; defaults apply.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.AutomaticEnv()

	v.SetDefault("server.listenAddress", ":8080")
	v.SetDefault("server.readTimeoutSeconds", 15)
	v.SetDefault("server.writeTimeoutSeconds", 15)
	v.SetDefault("banner.ttlSeconds", 4)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file, %s", err)
		}
	}

	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}
