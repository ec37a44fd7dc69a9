package entity

import (
	"time"

	"github.com/tracekit/replaydbg/src/replaydbg/engine"
)

// Checkpoint is a named, restorable snapshot of replay state. Ids are
// caller-chosen and opaque; the Session is a frozen clone owned by the
// checkpoint.
type Checkpoint struct {
	ID            int                  `json:"id" zap:"id"`
	Session       engine.ReplaySession `json:"-" zap:"-"`
	ElapsedEvents uint64               `json:"elapsedEvents" zap:"elapsedEvents"`
	CreatedAt     time.Time            `json:"createdAt" zap:"createdAt"`
}
