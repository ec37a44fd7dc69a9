package debugserver

import (
	"context"
	"fmt"

	"github.com/tracekit/replaydbg/src/replaydbg/entity"
	ierrors "github.com/tracekit/replaydbg/src/replaydbg/internal/errors"
	"github.com/tracekit/replaydbg/src/replaydbg/mapper"
	"github.com/tracekit/replaydbg/src/replaydbg/protocol"
	"go.uber.org/zap"
)

// processDebuggerRequests drains client requests through the dispatcher
// until a request resumes replay execution; the driver loop then advances
// the timeline. Returns ErrDetached when the client leaves. The attached
// connection's UUID rides on the context so downstream logs and errors can
// be correlated to the connection they served.
func (s *server) processDebuggerRequests(ctx context.Context) error {
	if ident, ok := s.gateway.Connection(); ok {
		ctx = context.WithValue(ctx, entity.ConnectionContextKey, ident.UUID)
	}

	for {
		req, err := s.gateway.NextRequest(ctx)
		if err != nil {
			return err
		}

		if req.Kind == protocol.RequestDetach {
			if err := s.gateway.SendReply(ctx, protocol.OK()); err != nil {
				s.logger.Warnw("acknowledging detach", zap.Error(err))
			}
			return ierrors.ErrDetached
		}

		resume, err := s.dispatch(ctx, req)
		if err != nil {
			return err
		}
		if resume {
			return nil
		}
	}
}

// dispatch routes one decoded request. The class is computed once; classes
// are checked in priority order: magic write, step pre-processing, restart,
// then generic handling against the diversion or the replay session.
// The returned bool reports whether the request resumes replay execution.
func (s *server) dispatch(ctx context.Context, req protocol.Request) (bool, error) {
	class := entity.Classify(req, s.magic)
	s.stats.Tagged(map[string]string{"class": class.String()}).Counter("dispatched").Inc(1)
	if connID, err := mapper.ContextToConnectionUUID(ctx); err == nil {
		s.logger.Debugw("dispatching request",
			zap.Stringer("kind", req.Kind),
			zap.Stringer("class", class),
			zap.Stringer("conn", connID))
	}

	switch class {
	case entity.ClassMagicWrite:
		return false, s.processMagicCommand(ctx, req)

	case entity.ClassStep:
		// Keep breakpoint/watchpoint state consistent with the instruction
		// about to execute before the request is answered, even if the
		// answer could come from cached state. Inside a diversion the
		// forked engine owns its own step semantics.
		if !s.diversion.Active() {
			if err := s.session.SingleStepTask(s.session.CurrentTask()); err != nil {
				return false, fmt.Errorf("event single-step: %w", err)
			}
		}
		return s.dispatchGeneric(ctx, req)

	case entity.ClassRestart:
		return false, s.maybeRestartSession(ctx, req)

	default:
		return s.dispatchGeneric(ctx, req)
	}
}

// dispatchGeneric answers a request from the current replay session, or
// routes it into the diversion when one is live. Requests that need mutable
// or non-deterministic execution fork a diversion first.
func (s *server) dispatchGeneric(ctx context.Context, req protocol.Request) (bool, error) {
	if s.diversion.Active() {
		return s.dispatchWithinDiversion(ctx, req)
	}

	if req.RequiresMutableExecution() {
		if err := s.diversion.Enter(ctx, s.session, s.session.CurrentTask()); err != nil {
			if ierrors.IsResource(err) {
				return false, err
			}
			return false, s.gateway.SendReply(ctx, protocol.ErrorReply("E.diversion"))
		}
		return s.dispatchWithinDiversion(ctx, req)
	}

	if req.IsResumeExecution() || req.Kind == protocol.RequestStep {
		// Resume replay; the driver loop advances and sends the stop reply.
		return true, nil
	}

	reply, err := s.session.HandleRequest(s.session.CurrentTask(), req)
	switch {
	case err == nil:
	case ierrors.IsProtocol(err):
		// Answerable on the wire; the connection and session state stay
		// intact.
		s.logger.Debugw("request not handled by replay", zap.Stringer("kind", req.Kind), zap.Error(err))
		reply = protocol.ErrorReply("E.unsupported")
	default:
		return false, fmt.Errorf("handling %v request: %w", req.Kind, err)
	}
	return false, s.gateway.SendReply(ctx, reply)
}

// dispatchWithinDiversion forwards the request into the live diversion. A
// resume-execution request drains the diversion and is re-dispatched against
// the replay session.
func (s *server) dispatchWithinDiversion(ctx context.Context, req protocol.Request) (bool, error) {
	reply, resumeReq, err := s.diversion.Dispatch(ctx, req)
	if err != nil {
		if ierrors.IsResource(err) {
			return false, err
		}
		return false, s.gateway.SendReply(ctx, protocol.ErrorReply("E.diversion"))
	}

	if resumeReq != nil {
		// The diversion is gone; the request that ended it belongs to the
		// replay session.
		return s.dispatch(ctx, *resumeReq)
	}
	return false, s.gateway.SendReply(ctx, reply)
}

// processMagicCommand interprets a write to the reserved side-channel
// address as a control command. The write never reaches replay or diversion
// state.
func (s *server) processMagicCommand(ctx context.Context, req protocol.Request) error {
	cmd, err := protocol.ParseMagicCommand(req.Value)
	if err != nil {
		s.logger.Warnw("malformed magic write", zap.Error(err))
		return s.gateway.SendReply(ctx, protocol.ErrorReply("E.magic"))
	}

	switch cmd.Op {
	case protocol.MagicSaveCheckpoint:
		if err := s.checkpoints.Save(ctx, cmd.CheckpointID, s.session); err != nil {
			if ierrors.IsResource(err) {
				return err
			}
			return s.gateway.SendReply(ctx, protocol.ErrorReply("E.checkpoint"))
		}
		s.logger.Infow("checkpoint saved",
			zap.Int("id", cmd.CheckpointID),
			zap.Uint64("elapsedEvents", s.session.ElapsedEventCount()))
	case protocol.MagicDeleteCheckpoint:
		if err := s.checkpoints.Delete(ctx, cmd.CheckpointID); err != nil {
			return err
		}
	}
	return s.gateway.SendReply(ctx, protocol.OK())
}

// fatalResource logs an unrecoverable resource failure. Cloning and forking
// must never partially succeed, so the error propagates out of the driver
// loop and terminates the server.
func (s *server) fatalResource(op string, err error) error {
	werr := &ierrors.ResourceExhaustedError{Op: op, Err: err}
	s.logger.Errorw("fatal resource failure", zap.String("op", op), zap.Error(err))
	return werr
}
