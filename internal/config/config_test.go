package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/axq-tools/axq/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"), false)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"), true)
	assert.Error(t, err)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "axq.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"search_timeout: 3s\nformat: json\nretry_attempts: 5\n"), 0o644))

	cfg, err := config.Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.SearchTimeout.Std())
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 5, cfg.RetryAttempts)
	// Untouched keys keep their defaults.
	assert.Equal(t, config.Default().PathTimeout, cfg.PathTimeout)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"zero timeout":  "search_timeout: 0\n",
		"bad format":    "format: csv\n",
		"zero attempts": "retry_attempts: 0\n",
		"bad level":     "log_level: loud\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "axq.yaml")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
			_, err := config.Load(path, true)
			assert.Error(t, err)
		})
	}
}
