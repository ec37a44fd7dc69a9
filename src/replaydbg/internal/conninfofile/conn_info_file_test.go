package conninfofile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tracekit/replaydbg/src/replaydbg/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func newStaticConfig(t *testing.T, data map[string]interface{}) config.Provider {
	cfg, err := config.NewStaticProvider(data)
	require.NoError(t, err)
	return cfg
}

func TestNew(t *testing.T) {
	lifecycleMock := fxtest.NewLifecycle(t)

	tests := []struct {
		name     string
		cfg      map[string]interface{}
		wantPath string
		wantErr  bool
	}{
		{
			name:     "configured path",
			cfg:      map[string]interface{}{"connInfoFilePath": "/tmp/conn.json"},
			wantPath: "/tmp/conn.json",
		},
		{
			name:     "empty path selects synchronous mode",
			cfg:      map[string]interface{}{},
			wantPath: "",
		},
		{
			name:    "malformed value",
			cfg:     map[string]interface{}{"connInfoFilePath": []string{"not", "a", "string"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New(Params{
				Config:    newStaticConfig(t, tt.cfg),
				Lifecycle: lifecycleMock,
				Logger:    zap.NewNop().Sugar(),
				FS:        fs.New(),
			})

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantPath, got.Path())
			}
		})
	}
}

func TestUpdateField(t *testing.T) {
	t.Run("multiple successful updates", func(t *testing.T) {
		infofile := filepath.Join(t.TempDir(), "conn.json")

		m := module{
			infofile:     infofile,
			logger:       zap.NewNop().Sugar(),
			fs:           fs.New(),
			fileContents: make(map[string]string),
		}

		// Make several step by step updates and confirm file contents are as expected
		steps := []struct {
			key        string
			value      string
			expectJSON string
		}{
			{
				key:        FieldAddress,
				value:      "127.0.0.1:50505",
				expectJSON: "{\"debugger-address\":\"127.0.0.1:50505\"}",
			},
			{
				key:        FieldAddress,
				value:      "127.0.0.1:50506",
				expectJSON: "{\"debugger-address\":\"127.0.0.1:50506\"}",
			},
			{
				key:        FieldPid,
				value:      "4242",
				expectJSON: "{\"debugger-address\":\"127.0.0.1:50506\",\"target-pid\":\"4242\"}",
			},
		}

		for _, step := range steps {
			err := m.UpdateField(step.key, step.value)
			assert.NoError(t, err)
			assert.Equal(t, step.value, m.fileContents[step.key])
			contents, err := os.ReadFile(infofile)
			assert.NoError(t, err)
			assert.Equal(t, step.expectJSON, string(contents))
		}
	})

	t.Run("no path configured", func(t *testing.T) {
		m := module{
			logger:       zap.NewNop().Sugar(),
			fs:           fs.New(),
			fileContents: make(map[string]string),
		}
		assert.Error(t, m.UpdateField(FieldAddress, "value"))
	})

	t.Run("file write failure", func(t *testing.T) {
		// A directory instead of a file forces a write failure.
		m := module{
			infofile:     t.TempDir(),
			logger:       zap.NewNop().Sugar(),
			fs:           fs.New(),
			fileContents: make(map[string]string),
		}
		assert.Error(t, m.UpdateField(FieldAddress, "value"))
	})
}

func TestOnStop(t *testing.T) {
	t.Run("file removed", func(t *testing.T) {
		infofile := filepath.Join(t.TempDir(), "conn.json")

		m := module{
			infofile:     infofile,
			logger:       zap.NewNop().Sugar(),
			fs:           fs.New(),
			fileContents: make(map[string]string),
		}
		require.NoError(t, m.UpdateField(FieldAddress, "127.0.0.1:50505"))

		_, err := os.Stat(infofile)
		require.NoError(t, err)

		// Ensure no error return and file no longer present on disk.
		assert.NoError(t, m.OnStop(context.Background()))
		_, err = os.Stat(infofile)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("nothing written, nothing removed", func(t *testing.T) {
		m := module{
			infofile:     filepath.Join(t.TempDir(), "conn.json"),
			logger:       zap.NewNop().Sugar(),
			fs:           fs.New(),
			fileContents: make(map[string]string),
		}
		assert.NoError(t, m.OnStop(context.Background()))
	})
}
