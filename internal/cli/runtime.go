package cli

import (
	"errors"
	"log/slog"
	"os"

	sqlite "github.com/grdsdev/sqlite-go"
	"github.com/grdsdev/sqlite-go/internal/config"
	"github.com/grdsdev/sqlite-go/internal/log"
)

// newLogger builds the CLI logger from config: a rotating file when one is
// configured, stderr otherwise. The returned func releases the writer.
func newLogger(cfg config.LoggingConfig) (*slog.Logger, func(), error) {
	if cfg.File == "" {
		return log.NewLogger(cfg.Level, os.Stderr), func() {}, nil
	}
	w, err := log.NewRotatingWriter(log.RotationConfig{
		File:      cfg.File,
		MaxSizeMB: cfg.MaxSizeMB,
		MaxFiles:  cfg.MaxFiles,
	})
	if err != nil {
		return nil, nil, err
	}
	return log.NewLogger(cfg.Level, w), func() { _ = w.Close() }, nil
}

// openDatabase resolves the database path from the --db flag, falling back
// to the config file.
func openDatabase(flagPath string, cfg config.Config) (*sqlite.Conn, error) {
	path := flagPath
	if path == "" {
		path = cfg.Database.Path
	}
	if path == "" {
		return nil, errors.New("no database: pass --db or set database.path in the config file")
	}
	return sqlite.Open(path)
}
