package mapper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tracekit/replaydbg/src/replaydbg/engine/enginetest"
	"github.com/tracekit/replaydbg/src/replaydbg/entity"
	"github.com/tracekit/replaydbg/src/replaydbg/factory"
	"github.com/tracekit/replaydbg/src/replaydbg/internal/errors"
	"github.com/tracekit/replaydbg/src/replaydbg/model"
)

func TestCheckpointMapping(t *testing.T) {
	sess := enginetest.NewReplaySession(10)
	now := time.Now()

	e := &entity.Checkpoint{
		ID:            3,
		Session:       sess,
		ElapsedEvents: 5,
		CreatedAt:     now,
	}

	m := CheckpointToModel(e)
	require.NotNil(t, m)
	assert.Equal(t, e.ID, m.ID)
	assert.Equal(t, e.ElapsedEvents, m.ElapsedEvents)

	back, err := ModelToCheckpoint(m)
	require.NoError(t, err)
	assert.Equal(t, e, back)
}

func TestModelToCheckpointNil(t *testing.T) {
	var m *model.Checkpoint
	_, err := ModelToCheckpoint(m)
	assert.Error(t, err)
}

func TestContextToConnectionUUID(t *testing.T) {
	t.Run("uuid present", func(t *testing.T) {
		id := factory.UUID()
		ctx := context.WithValue(context.Background(), entity.ConnectionContextKey, id)

		got, err := ContextToConnectionUUID(ctx)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	})

	t.Run("uuid missing", func(t *testing.T) {
		_, err := ContextToConnectionUUID(context.Background())
		assert.ErrorIs(t, err, errors.ErrNoConnection)
	})
}
