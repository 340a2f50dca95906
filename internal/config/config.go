// Package config loads and validates the sqlite-cli configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultLedgerTable = "_migrations"
	defaultLogLevel    = "info"
	defaultLogMaxSize  = 10
	defaultLogMaxFiles = 5
)

var ErrInvalidConfig = errors.New("config: invalid config")

type Config struct {
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
}

type DatabaseConfig struct {
	// Path is the database file, or ":memory:" for a transient database.
	// Empty means the CLI requires an explicit --db flag.
	Path        string `toml:"path"`
	LedgerTable string `toml:"ledger_table"`
}

type LoggingConfig struct {
	Level     string `toml:"level"`
	File      string `toml:"file"`
	MaxSizeMB int    `toml:"max_size_mb"`
	MaxFiles  int    `toml:"max_files"`
}

func DefaultConfig() Config {
	return Config{
		Database: DatabaseConfig{
			LedgerTable: defaultLedgerTable,
		},
		Logging: LoggingConfig{
			Level:     defaultLogLevel,
			MaxSizeMB: defaultLogMaxSize,
			MaxFiles:  defaultLogMaxFiles,
		},
	}
}

// Load reads the TOML file at path over the defaults. An empty path or a
// missing file yields the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: logging.level %q (want debug, info, warn or error)", ErrInvalidConfig, c.Logging.Level)
	}
	if c.Logging.MaxSizeMB <= 0 {
		return fmt.Errorf("%w: logging.max_size_mb must be positive", ErrInvalidConfig)
	}
	if c.Logging.MaxFiles <= 0 {
		return fmt.Errorf("%w: logging.max_files must be positive", ErrInvalidConfig)
	}
	if c.Database.LedgerTable == "" {
		return fmt.Errorf("%w: database.ledger_table must not be empty", ErrInvalidConfig)
	}
	return nil
}
