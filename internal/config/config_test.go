package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	// given
	path := filepath.Join(t.TempDir(), "application.yaml")
	yaml := "db:\n  path: /var/lib/ledger.sqlite\n  busytimeout: 250\nledger:\n  listlimit: 20\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	// when
	cfg, err := Load(path)

	// then
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/ledger.sqlite", cfg.Database.Path)
	assert.Equal(t, 250, cfg.Database.BusyTimeout)
	assert.Equal(t, 20, cfg.Ledger.ListLimit)
	assert.Equal(t, 3, cfg.Ledger.MaxBudgetLines)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	// given
	path := filepath.Join(t.TempDir(), "application.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ledger:\n  listlimit: 20\n"), 0644))
	t.Setenv("POCKETLEDGER_LEDGER_LISTLIMIT", "7")
	t.Setenv("POCKETLEDGER_LOG_LEVEL", "debug")

	// when
	cfg, err := Load(path)

	// then
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Ledger.ListLimit)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "application.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db: [unclosed"), 0644))

	_, err := Load(path)

	assert.Error(t, err)
}

func TestApplication_Validate(t *testing.T) {
	t.Run("should accept the defaults", func(t *testing.T) {
		assert.NoError(t, Defaults().Validate())
	})

	t.Run("should report every problem at once", func(t *testing.T) {
		// given
		cfg := Defaults()
		cfg.Database.Path = " "
		cfg.Database.BusyTimeout = -1
		cfg.Ledger.ListLimit = 0
		cfg.Ledger.MaxBudgetLines = 11
		cfg.Log.Level = "loud"

		// when
		err := cfg.Validate()

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db.path cannot be empty")
		assert.Contains(t, err.Error(), "db.busytimeout -1")
		assert.Contains(t, err.Error(), "ledger.listlimit 0")
		assert.Contains(t, err.Error(), "ledger.maxbudgetlines 11")
		assert.Contains(t, err.Error(), `log.level "loud"`)
	})
}
