package debugserver

import (
	"context"

	"github.com/tracekit/replaydbg/src/replaydbg/engine"
	ierrors "github.com/tracekit/replaydbg/src/replaydbg/internal/errors"
	"github.com/tracekit/replaydbg/src/replaydbg/protocol"
	"go.uber.org/zap"
)

// maybeRestartSession rewinds the live session to the requested source: a
// stored checkpoint, or the restart anchor the debugger originally attached
// at. A missing checkpoint is a resolution error answered on the wire with
// no state mutation. On success the current session is discarded and
// replaced by a fresh clone of the source; any active diversion is torn down
// first, unconditionally, because diversion state is invalid once the
// underlying timeline moves.
func (s *server) maybeRestartSession(ctx context.Context, req protocol.Request) error {
	var source engine.ReplaySession
	if req.FromCheckpoint {
		cp, err := s.checkpoints.Get(ctx, req.CheckpointID)
		if err != nil {
			if ierrors.IsResolution(err) {
				s.logger.Infow("restart target not found", zap.Int("checkpoint", req.CheckpointID))
				return s.gateway.SendReply(ctx, protocol.ErrorReply("E.checkpoint"))
			}
			return err
		}
		source = cp.Session
	} else {
		if s.restartAnchor == nil {
			return s.gateway.SendReply(ctx, protocol.ErrorReply("E.restart"))
		}
		source = s.restartAnchor
	}

	// The timeline is about to move; whatever the diversion was poking at
	// no longer exists.
	if err := s.diversion.TearDown(ctx); err != nil {
		s.logger.Warnw("tearing down diversion for restart", zap.Error(err))
	}

	fresh, err := source.Clone()
	if err != nil {
		return s.fatalResource("restart clone", err)
	}
	s.session = fresh
	s.exhausted = false
	s.stats.Counter("restarts").Inc(1)
	s.logger.Infow("session restarted",
		zap.Bool("fromCheckpoint", req.FromCheckpoint),
		zap.Int("checkpoint", req.CheckpointID),
		zap.Uint64("elapsedEvents", s.session.ElapsedEventCount()))

	return s.gateway.SendReply(ctx, protocol.StoppedReply())
}
