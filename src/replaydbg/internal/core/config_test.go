package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigDir(t *testing.T, files map[string]string) string {
	dir := t.TempDir()
	for name, contents := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0644))
	}
	return dir
}

func TestNewConfig(t *testing.T) {
	t.Run("loads the files listed in meta.yaml", func(t *testing.T) {
		dir := writeConfigDir(t, map[string]string{
			"meta.yaml": "files:\n  - base.yaml\n  - development.yaml\n",
			"base.yaml": `
logging:
  level: info
server:
  listenAddress: "127.0.0.1:50505"
`,
			"development.yaml": `
logging:
  level: debug
`,
		})
		t.Setenv("REPLAYDBG_CONFIG_DIR", dir)

		provider, err := NewConfig()
		require.NoError(t, err)
		require.NotNil(t, provider)

		// Later files override earlier ones.
		assert.Equal(t, "debug", provider.Get("logging.level").String())
		assert.Equal(t, "127.0.0.1:50505", provider.Get("server.listenAddress").String())
	})

	t.Run("skips listed files that do not exist", func(t *testing.T) {
		dir := writeConfigDir(t, map[string]string{
			"meta.yaml": "files:\n  - base.yaml\n  - secrets.yaml\n",
			"base.yaml": "logging:\n  level: info\n",
		})
		t.Setenv("REPLAYDBG_CONFIG_DIR", dir)

		provider, err := NewConfig()
		require.NoError(t, err)
		assert.Equal(t, "info", provider.Get("logging.level").String())
	})

	t.Run("expands environment variables", func(t *testing.T) {
		dir := writeConfigDir(t, map[string]string{
			"meta.yaml": "files:\n  - base.yaml\n",
			"base.yaml": "engine:\n  driver: ${REPLAYDBG_ENGINE_DRIVER:\"\"}\n",
		})
		t.Setenv("REPLAYDBG_CONFIG_DIR", dir)
		t.Setenv("REPLAYDBG_ENGINE_DRIVER", "rrkit")

		provider, err := NewConfig()
		require.NoError(t, err)
		assert.Equal(t, "rrkit", provider.Get("engine.driver").String())
	})

	t.Run("fails when the config directory doesn't exist", func(t *testing.T) {
		t.Setenv("REPLAYDBG_CONFIG_DIR", "/nonexistent/path")
		provider, err := NewConfig()
		assert.Error(t, err)
		assert.Nil(t, provider)
	})

	t.Run("fails when no listed file exists", func(t *testing.T) {
		dir := writeConfigDir(t, map[string]string{
			"meta.yaml": "files:\n  - missing.yaml\n",
		})
		t.Setenv("REPLAYDBG_CONFIG_DIR", dir)

		_, err := NewConfig()
		assert.Error(t, err)
	})
}

func TestConfig_Name(t *testing.T) {
	dir := writeConfigDir(t, map[string]string{
		"meta.yaml": "files:\n  - base.yaml\n",
		"base.yaml": "logging:\n  level: info\n",
	})
	t.Setenv("REPLAYDBG_CONFIG_DIR", dir)

	provider, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "config", provider.Name())
}

func TestGetConfigDir(t *testing.T) {
	tests := []struct {
		name           string
		setupEnv       func()
		expectedResult string
	}{
		{
			name: "returns environment variable when set",
			setupEnv: func() {
				os.Setenv("REPLAYDBG_CONFIG_DIR", "/custom/config/path")
			},
			expectedResult: "/custom/config/path",
		},
		{
			name: "returns default path when environment variable not set",
			setupEnv: func() {
				os.Unsetenv("REPLAYDBG_CONFIG_DIR")
			},
			expectedResult: "src/replaydbg/config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupEnv()
			t.Cleanup(func() {
				os.Unsetenv("REPLAYDBG_CONFIG_DIR")
			})

			result := getConfigDir()
			assert.Equal(t, tt.expectedResult, result)
		})
	}
}
