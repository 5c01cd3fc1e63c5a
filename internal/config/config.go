// Package config resolves the server configuration from the global
// config file, environment variables, and built-in defaults.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

const (
	// GlobalConfigDir is the name of the global config directory in home.
	GlobalConfigDir = ".timekeep"

	// GlobalConfigFileName is the name of the global config file.
	GlobalConfigFileName = "config.toml"

	// DefaultHost is the default listen host.
	DefaultHost = "0.0.0.0"

	// DefaultPort is the default listen port.
	DefaultPort = 5000

	// DefaultDatabasePath is the default SQLite database location.
	DefaultDatabasePath = "tasks.db"
)

// Config is the resolved server configuration. Precedence order
// (highest to lowest): environment variables, ~/.timekeep/config.toml,
// built-in defaults. Command-line flags are applied by the caller on
// top of the resolved value.
type Config struct {
	Host         string
	Port         int
	DatabasePath string
}

// configFile is the raw TOML structure of the global config.
type configFile struct {
	Server struct {
		Host string `toml:"host"`
		Port *int   `toml:"port"`
	} `toml:"server"`
	Database struct {
		Path string `toml:"path"`
	} `toml:"database"`
}

// Load resolves the configuration using the user's home directory.
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return LoadFromDir(homeDir)
}

// LoadFromDir resolves configuration using the specified directory as
// home. This is useful for testing. A missing config file is not an
// error; a malformed one is.
func LoadFromDir(homeDir string) (*Config, error) {
	cfg := &Config{
		Host:         DefaultHost,
		Port:         DefaultPort,
		DatabasePath: DefaultDatabasePath,
	}

	configPath := filepath.Join(homeDir, GlobalConfigDir, GlobalConfigFileName)
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		var raw configFile
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config TOML: %w", err)
		}

		if raw.Server.Host != "" {
			cfg.Host = raw.Server.Host
		}
		if raw.Server.Port != nil {
			cfg.Port = *raw.Server.Port
		}
		if raw.Database.Path != "" {
			cfg.DatabasePath = raw.Database.Path
		}
	}

	// Environment overrides keep compatibility with existing deployments.
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}

	return cfg, nil
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
