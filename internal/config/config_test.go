package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
	require.Equal(t, "_migrations", cfg.Database.LedgerTable)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `
[database]
path = "/tmp/app.db"
ledger_table = "schema_history"

[logging]
level = "debug"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/app.db", cfg.Database.Path)
	require.Equal(t, "schema_history", cfg.Database.LedgerTable)
	require.Equal(t, "debug", cfg.Logging.Level)
	// Untouched sections keep their defaults.
	require.Equal(t, 10, cfg.Logging.MaxSizeMB)
}

func TestLoadRejectsBadLevel(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `
[logging]
level = "loud"
`)
	_, err := Load(path)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `[database`)
	_, err := Load(path)
	require.Error(t, err)
}
