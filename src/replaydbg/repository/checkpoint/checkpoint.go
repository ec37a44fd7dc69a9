// Package checkpoint stores saved replay states, indexed by caller-chosen
// integer ids.
package checkpoint

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/tracekit/replaydbg/src/replaydbg/engine"
	"github.com/tracekit/replaydbg/src/replaydbg/entity"
	"github.com/tracekit/replaydbg/src/replaydbg/internal/errors"
	"github.com/tracekit/replaydbg/src/replaydbg/mapper"
	"github.com/tracekit/replaydbg/src/replaydbg/model"
	tally "github.com/uber-go/tally/v4"
)

// Repository is an entity-scoped store of checkpoints. Checkpoints outlive a
// single debugging session: a detach never clears the store.
type Repository interface {
	// Save clones sess and stores the clone under id, replacing any
	// existing checkpoint with that id. A failed clone is a fatal resource
	// error, never a partial save.
	Save(ctx context.Context, id int, sess engine.ReplaySession) error
	// Get returns the checkpoint stored under id, or a
	// CheckpointNotFoundError if there isn't one.
	Get(ctx context.Context, id int) (*entity.Checkpoint, error)
	// Delete removes the checkpoint stored under id if it exists, or does
	// nothing if it doesn't.
	Delete(ctx context.Context, id int) error
	// IDs returns the live checkpoint ids in ascending order.
	IDs(ctx context.Context) ([]int, error)
	// Count returns the number of live checkpoints.
	Count(ctx context.Context) (int, error)
}

type repository struct {
	mu       sync.Mutex
	memstore map[int]*model.Checkpoint
	stats    tally.Scope
}

// New returns a repository backed by an in-memory keyed store.
func New(stats tally.Scope) Repository {
	return &repository{
		memstore: make(map[int]*model.Checkpoint),
		stats:    stats,
	}
}

// Save stores an independent clone of sess under id.
func (r *repository) Save(ctx context.Context, id int, sess engine.ReplaySession) error {
	if sess == nil {
		return errors.New("can't save nil session")
	}

	clone, err := sess.Clone()
	if err != nil {
		return &errors.ResourceExhaustedError{Op: "checkpoint clone", Err: err}
	}

	c := &entity.Checkpoint{
		ID:            id,
		Session:       clone,
		ElapsedEvents: clone.ElapsedEventCount(),
		CreatedAt:     time.Now(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.memstore[id] = mapper.CheckpointToModel(c)
	r.stats.Gauge("live_checkpoints").Update(float64(len(r.memstore)))
	return nil
}

// Get returns the checkpoint stored under id.
func (r *repository) Get(ctx context.Context, id int) (*entity.Checkpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.memstore[id]
	if !ok {
		return nil, &errors.CheckpointNotFoundError{ID: id}
	}
	return mapper.ModelToCheckpoint(m)
}

// Delete removes the checkpoint stored under id; missing ids are a no-op.
func (r *repository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.memstore, id)
	r.stats.Gauge("live_checkpoints").Update(float64(len(r.memstore)))
	return nil
}

// IDs returns the live checkpoint ids in ascending order.
func (r *repository) IDs(ctx context.Context) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := lo.Keys(r.memstore)
	sort.Ints(ids)
	return ids, nil
}

// Count returns the number of live checkpoints.
func (r *repository) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.memstore), nil
}
