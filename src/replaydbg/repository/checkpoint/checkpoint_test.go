package checkpoint

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tracekit/replaydbg/src/replaydbg/engine/enginetest"
	"github.com/tracekit/replaydbg/src/replaydbg/internal/errors"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/goleak"
)

func TestCheckpointRepository(t *testing.T) {
	testScope := tally.NewTestScope("testing", make(map[string]string, 0))
	t.Run("should Save and Get successfully", func(t *testing.T) {
		sess := enginetest.NewReplaySession(100)
		sess.Events = 42

		repository := New(testScope)

		err := repository.Save(context.Background(), 7, sess)
		require.NoError(t, err)
		val, err := repository.Get(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, 7, val.ID)
		assert.Equal(t, uint64(42), val.ElapsedEvents)
	})

	t.Run("should fail to get something that was not Saved", func(t *testing.T) {
		repository := New(testScope)

		_, err := repository.Get(context.Background(), 99)
		require.Error(t, err)
		var nf *errors.CheckpointNotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, 99, nf.ID)
	})

	t.Run("should reject a nil session", func(t *testing.T) {
		repository := New(testScope)
		assert.Error(t, repository.Save(context.Background(), 1, nil))
	})
}

func TestSaveFreezesState(t *testing.T) {
	ctx := context.Background()
	testScope := tally.NewTestScope("testing", make(map[string]string, 0))
	repository := New(testScope)

	sess := enginetest.NewReplaySession(100)
	sess.Events = 10
	require.NoError(t, repository.Save(ctx, 1, sess))

	// The stored clone keeps its state even as the live session moves on.
	sess.Events = 50
	saved, err := repository.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), saved.ElapsedEvents)
	assert.Equal(t, uint64(10), saved.Session.ElapsedEventCount())
}

func TestSaveOverwrite(t *testing.T) {
	ctx := context.Background()
	testScope := tally.NewTestScope("testing", make(map[string]string, 0))
	repository := New(testScope)

	sess := enginetest.NewReplaySession(100)
	sess.Events = 5
	require.NoError(t, repository.Save(ctx, 1, sess))

	sess.Events = 20
	require.NoError(t, repository.Save(ctx, 1, sess))

	saved, err := repository.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(20), saved.ElapsedEvents)

	count, err := repository.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSaveClonefailure(t *testing.T) {
	ctx := context.Background()
	testScope := tally.NewTestScope("testing", make(map[string]string, 0))
	repository := New(testScope)

	sess := enginetest.NewReplaySession(100)
	sess.CloneErr = errors.New("out of shared memory")

	err := repository.Save(ctx, 1, sess)
	require.Error(t, err)
	assert.True(t, errors.IsResource(err))

	// Failed saves leave nothing behind.
	count, err := repository.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	testScope := tally.NewTestScope("testing", make(map[string]string, 0))
	repository := New(testScope)

	sess := enginetest.NewReplaySession(100)
	require.NoError(t, repository.Save(ctx, 1, sess))
	require.NoError(t, repository.Save(ctx, 2, sess))

	// First deletion is successful. Multiple deletions return no error.
	assert.NoError(t, repository.Delete(ctx, 2))
	assert.NoError(t, repository.Delete(ctx, 2))
	_, err := repository.Get(ctx, 2)
	assert.Error(t, err)

	// Other checkpoint unaffected.
	result, err := repository.Get(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, result.ID)
}

func TestIDsAndCount(t *testing.T) {
	ctx := context.Background()
	testScope := tally.NewTestScope("testing", make(map[string]string, 0))
	repository := New(testScope)

	sess := enginetest.NewReplaySession(100)

	// New empty repository
	count, err := repository.Count(ctx)
	assert.Equal(t, 0, count)
	assert.NoError(t, err)

	require.NoError(t, repository.Save(ctx, 3, sess))
	require.NoError(t, repository.Save(ctx, 1, sess))
	require.NoError(t, repository.Save(ctx, 2, sess))

	ids, err := repository.IDs(ctx)
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ids)

	count, _ = repository.Count(ctx)
	assert.Equal(t, 3, count)

	repository.Delete(ctx, 2)
	ids, _ = repository.IDs(ctx)
	assert.Equal(t, []int{1, 3}, ids)
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
