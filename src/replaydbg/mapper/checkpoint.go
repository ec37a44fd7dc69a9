// Package mapper converts between entity and model representations, and
// extracts request-scoped values from contexts.
package mapper

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/tracekit/replaydbg/src/replaydbg/entity"
	"github.com/tracekit/replaydbg/src/replaydbg/internal/errors"
	"github.com/tracekit/replaydbg/src/replaydbg/model"
)

// CheckpointToModel converts a Checkpoint entity to its storage model.
func CheckpointToModel(c *entity.Checkpoint) *model.Checkpoint {
	return &model.Checkpoint{
		ID:            c.ID,
		Session:       c.Session,
		ElapsedEvents: c.ElapsedEvents,
		CreatedAt:     c.CreatedAt,
	}
}

// ModelToCheckpoint converts a stored checkpoint back to its entity form.
func ModelToCheckpoint(m *model.Checkpoint) (*entity.Checkpoint, error) {
	if m == nil {
		return nil, errors.New("can't map nil checkpoint")
	}
	return &entity.Checkpoint{
		ID:            m.ID,
		Session:       m.Session,
		ElapsedEvents: m.ElapsedEvents,
		CreatedAt:     m.CreatedAt,
	}, nil
}

// ContextToConnectionUUID returns the connection UUID carried by ctx.
func ContextToConnectionUUID(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(entity.ConnectionContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.ErrNoConnection
	}
	return id, nil
}
