package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDriver struct{ Driver }

func TestRegisterOpen(t *testing.T) {
	t.Run("open returns the registered driver", func(t *testing.T) {
		d := &stubDriver{}
		Register("stub-open", d)

		got, err := Open("stub-open")
		require.NoError(t, err)
		assert.Same(t, d, got)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Open("never-registered")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown driver")
	})

	t.Run("duplicate registration panics", func(t *testing.T) {
		Register("stub-dup", &stubDriver{})
		assert.Panics(t, func() {
			Register("stub-dup", &stubDriver{})
		})
	})

	t.Run("nil registration panics", func(t *testing.T) {
		assert.Panics(t, func() {
			Register("stub-nil", nil)
		})
	})
}

func TestDrivers(t *testing.T) {
	Register("stub-list-b", &stubDriver{})
	Register("stub-list-a", &stubDriver{})

	names := Drivers()
	assert.Contains(t, names, "stub-list-a")
	assert.Contains(t, names, "stub-list-b")
	assert.IsIncreasing(t, names)
}
