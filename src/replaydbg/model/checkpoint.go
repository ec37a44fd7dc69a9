// Package model contains the storage representations persisted by the
// repositories.
package model

import (
	"time"

	"github.com/tracekit/replaydbg/src/replaydbg/engine"
)

// Checkpoint is the stored form of a saved replay state. The Session handle
// is an independent clone frozen at save time; it shares no mutable state
// with the live session.
type Checkpoint struct {
	ID            int
	Session       engine.ReplaySession
	ElapsedEvents uint64
	CreatedAt     time.Time
}
