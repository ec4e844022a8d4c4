package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default("St Mary's")
	assert.Equal(t, "St Mary's", cfg.Parish.Name)
	assert.Equal(t, "contributions.db", cfg.Database.Path)
	assert.Equal(t, "standard", cfg.Statement.Format)
	assert.Equal(t, "01-01", cfg.Fiscal.YearStart)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "churchregister.yaml")

	cfg := Default("St Mary's")
	cfg.Logging.Level = "debug"
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}
