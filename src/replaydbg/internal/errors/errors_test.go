package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundCheckpoint(t *testing.T) {
	t.Run("direct error", func(t *testing.T) {
		id, ok := NotFoundCheckpoint(&CheckpointNotFoundError{ID: 7})
		require.True(t, ok)
		assert.Equal(t, 7, id)
	})

	t.Run("wrapped error", func(t *testing.T) {
		err := fmt.Errorf("restarting: %w", &CheckpointNotFoundError{ID: 7})
		id, ok := NotFoundCheckpoint(err)
		require.True(t, ok)
		assert.Equal(t, 7, id)
	})

	t.Run("unrelated error", func(t *testing.T) {
		_, ok := NotFoundCheckpoint(New("something else"))
		assert.False(t, ok)
	})
}

func TestIsResolution(t *testing.T) {
	assert.True(t, IsResolution(&CheckpointNotFoundError{ID: 1}))
	assert.False(t, IsResolution(New("not a resolution error")))
	assert.False(t, IsResolution(nil))
}

func TestIsResource(t *testing.T) {
	inner := New("out of shared memory")
	err := &ResourceExhaustedError{Op: "checkpoint clone", Err: inner}

	assert.True(t, IsResource(err))
	assert.True(t, IsResource(fmt.Errorf("saving: %w", err)))
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "checkpoint clone")
	assert.False(t, IsResource(inner))
}

func TestIsProtocol(t *testing.T) {
	assert.True(t, IsProtocol(ErrUnsupportedRequest))
	assert.True(t, IsProtocol(fmt.Errorf("dispatch: %w", ErrDiversionInactive)))
	assert.False(t, IsProtocol(ErrDetached))
	assert.False(t, IsProtocol(&ResourceExhaustedError{Op: "fork", Err: New("x")}))
}
