package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()

	assert.Equal(t, "console", c.Reporter)
	assert.Equal(t, DefaultConcurrency, c.Concurrency)
	assert.False(t, c.GetBail())
	assert.False(t, c.GetFailOnWarning())
	assert.True(t, c.IsDefault())
}

func TestFindAndLoadConfig(t *testing.T) {
	t.Run("no file returns defaults", func(t *testing.T) {
		c, err := FindAndLoadConfig(t.TempDir())
		require.NoError(t, err)
		assert.True(t, c.IsDefault())
	})

	t.Run("first matching filename wins", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".pathmatchrc"), []byte(`{"reporter": "tap"}`), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "pathmatch.config.json"), []byte(`{"reporter": "junit", "bail": true}`), 0644))

		c, err := FindAndLoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "junit", c.Reporter)
		assert.True(t, c.GetBail())
		assert.Equal(t, DefaultConcurrency, c.Concurrency)
	})

	t.Run("schemaDir is relative to the config file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".pathmatch.config.json"), []byte(`{"schemaDir": "schemas"}`), 0644))

		c, err := FindAndLoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "schemas"), c.SchemaDir)
		assert.False(t, c.IsDefault())
	})

	t.Run("invalid JSON", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".pathmatchrc.json"), []byte(`{bail`), 0644))

		_, err := FindAndLoadConfig(dir)
		assert.Error(t, err)
	})
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	base := &Config{Reporter: "console", Concurrency: 5, Bail: BoolPtr(true), Verbose: BoolPtr(true)}
	other := &Config{Reporter: "json", Bail: BoolPtr(false), FailOnWarning: BoolPtr(true)}

	merged := base.Merge(other)

	assert.Equal(t, "json", merged.Reporter)
	assert.Equal(t, 5, merged.Concurrency)
	assert.False(t, merged.GetBail(), "explicit false overrides")
	assert.True(t, merged.GetVerbose(), "unset keeps base value")
	assert.True(t, merged.GetFailOnWarning())
	assert.Same(t, base, base.Merge(nil))
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".pathmatch.config.json")
	c := &Config{Reporter: "tap", Concurrency: 2, NoColor: BoolPtr(true)}

	require.NoError(t, c.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "tap", loaded.Reporter)
	assert.Equal(t, 2, loaded.Concurrency)
	assert.True(t, loaded.GetNoColor())
}
