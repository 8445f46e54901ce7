// Package config loads battle server configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// BattleServer holds all configuration for the battle engine host.
type BattleServer struct {
	LogLevel string `yaml:"log_level"`

	// Driver
	TickIntervalMs  int `yaml:"tick_interval_ms"`
	AutosaveSeconds int `yaml:"autosave_seconds"`

	// Database
	Database DatabaseConfig `yaml:"database"`
}

// TickInterval returns the driver tick interval.
func (c BattleServer) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

// AutosaveInterval returns the persistence flush interval.
func (c BattleServer) AutosaveInterval() time.Duration {
	return time.Duration(c.AutosaveSeconds) * time.Second
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultBattleServer returns BattleServer config with sensible defaults.
func DefaultBattleServer() BattleServer {
	return BattleServer{
		LogLevel:        "info",
		TickIntervalMs:  1000,
		AutosaveSeconds: 60,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "autopvp",
			Password: "autopvp",
			DBName:   "autopvp",
			SSLMode:  "disable",
		},
	}
}

// LoadBattleServer loads battle server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadBattleServer(path string) (BattleServer, error) {
	cfg := DefaultBattleServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
