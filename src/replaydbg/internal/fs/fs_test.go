package fs

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMkdirAll(t *testing.T) {
	dir := t.TempDir()
	fs := New()
	err := fs.MkdirAll(path.Join(dir, "foo/bar"))
	assert.NoError(t, err)
}

func TestFileExists(t *testing.T) {
	t.Run("exists", func(t *testing.T) {
		filePath := path.Join(t.TempDir(), "conn.json")
		require.NoError(t, os.WriteFile(filePath, []byte("{}"), 0644))

		fs := New()
		result, err := fs.FileExists(filePath)
		assert.NoError(t, err)
		assert.True(t, result)
	})

	t.Run("does not exist", func(t *testing.T) {
		fs := New()
		result, err := fs.FileExists(path.Join(t.TempDir(), "missing"))
		assert.NoError(t, err)
		assert.False(t, result)
	})

	t.Run("directory is not a file", func(t *testing.T) {
		fs := New()
		result, err := fs.FileExists(t.TempDir())
		assert.NoError(t, err)
		assert.False(t, result)
	})
}

func TestReadWriteRemove(t *testing.T) {
	filePath := path.Join(t.TempDir(), "conn.json")
	fs := New()

	require.NoError(t, fs.WriteFile(filePath, []byte(`{"target-pid":"42"}`)))

	contents, err := fs.ReadFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, `{"target-pid":"42"}`, string(contents))

	require.NoError(t, fs.Remove(filePath))
	_, err = fs.ReadFile(filePath)
	assert.Error(t, err)
}
