// Package config loads sitebuilder settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

// Storage drivers accepted in [storage].driver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverMongo    = "mongodb"
)

// Config is the whole configuration file.
type Config struct {
	DataDir string  `toml:"data_dir"`
	Storage Storage `toml:"storage"`
	Publish Publish `toml:"publish"`
	Preview Preview `toml:"preview"`
	Log     Log     `toml:"log"`
}

// Storage selects the draft store.
type Storage struct {
	Driver   string `toml:"driver"`
	DSN      string `toml:"dsn"`
	Database string `toml:"database"` // mongodb only
}

// Publish configures where sites are written and when.
type Publish struct {
	OutputDir string     `toml:"output_dir"`
	Schedule  []Schedule `toml:"schedule"`
}

// Schedule publishes one draft on a cron expression.
type Schedule struct {
	DraftID string `toml:"draft_id"`
	Cron    string `toml:"cron"`
}

// Preview configures the HTTP preview server.
type Preview struct {
	Addr string `toml:"addr"`
}

// Log configures the logger.
type Log struct {
	Level string `toml:"level"`
}

// DefaultDataDir is ~/.local/share/sitebuilder.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".local", "share", "sitebuilder")
}

// DefaultPath is the config file looked up when --config is not given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "sitebuilder.toml"
	}
	return filepath.Join(dir, "sitebuilder", "config.toml")
}

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{
		DataDir: DefaultDataDir(),
		Storage: Storage{Driver: DriverSQLite, Database: "sitebuilder"},
		Preview: Preview{Addr: "127.0.0.1:8080"},
		Log:     Log{Level: "info"},
	}
	c.fillDefaults()
	return c
}

// Load reads path over the defaults. A missing file is not an error when
// optional is true.
func Load(path string, optional bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && optional {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	c := Default()
	c.Storage.DSN = ""
	c.Publish.OutputDir = ""
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.fillDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// fillDefaults derives paths that depend on DataDir.
func (c *Config) fillDefaults() {
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir()
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = DriverSQLite
	}
	if c.Storage.DSN == "" && c.Storage.Driver == DriverSQLite {
		c.Storage.DSN = filepath.Join(c.DataDir, "sitebuilder.db")
	}
	if c.Publish.OutputDir == "" {
		c.Publish.OutputDir = filepath.Join(c.DataDir, "public")
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverPostgres, DriverMySQL:
	case DriverMongo:
		if c.Storage.Database == "" {
			return errors.New("config: storage.database is required for mongodb")
		}
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.DSN == "" {
		return fmt.Errorf("config: storage.dsn is required for %s", c.Storage.Driver)
	}
	for i, s := range c.Publish.Schedule {
		if strings.TrimSpace(s.DraftID) == "" {
			return fmt.Errorf("config: publish.schedule[%d]: draft_id is empty", i)
		}
		if _, err := cron.ParseStandard(s.Cron); err != nil {
			return fmt.Errorf("config: publish.schedule[%d]: invalid cron %q: %w", i, s.Cron, err)
		}
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	return nil
}

// LogLevel returns the configured level, info when unparsable.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
