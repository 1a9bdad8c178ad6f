package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/axq-tools/axq/internal/config"
	"github.com/axq-tools/axq/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultOptions() *Options {
	return &Options{Config: config.Default(), Logger: logging.NewNop()}
}

func TestNewEngine_BuiltInDemoTree(t *testing.T) {
	eng, reg, err := NewEngine(defaultOptions())
	require.NoError(t, err)
	require.NotNil(t, reg)

	apps, err := eng.Applications(context.Background())
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "TextEdit", apps[0].Name)

	root, err := eng.ApplicationTree(context.Background(), 1042)
	require.NoError(t, err)
	matches, err := eng.FindElements(context.Background(), root, "AXButton", "")
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	// The instrumented provider should have recorded calls by now.
	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNewEngine_SnapshotFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
applications:
  - name: Demo
    pid: 7
    root:
      role: AXApplication
      title: Demo
`), 0o644))

	opts := defaultOptions()
	opts.Config.Snapshot = path
	eng, _, err := NewEngine(opts)
	require.NoError(t, err)

	apps, err := eng.Applications(context.Background())
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "Demo", apps[0].Name)
}

func TestNewEngine_MissingSnapshotFails(t *testing.T) {
	opts := defaultOptions()
	opts.Config.Snapshot = filepath.Join(t.TempDir(), "nope.yaml")
	_, _, err := NewEngine(opts)
	assert.Error(t, err)
}
