package debugserver

import (
	"context"

	"github.com/tracekit/replaydbg/src/replaydbg/engine"
	"go.uber.org/zap"
)

// shouldAttach evaluates the attach target against current replay progress.
// Must be called before the next event is scheduled: advancing replay
// mutates the very state tested here, and testing afterwards would allow a
// one-event race past the intended attach point.
func (s *server) shouldAttach() bool {
	task := s.session.CurrentTask()
	if task == nil {
		return false
	}
	if s.target.Pid != 0 && task.Pid() != s.target.Pid {
		return false
	}
	if s.target.RequireExec && !task.HasExeced() {
		return false
	}
	return s.session.ElapsedEventCount() >= s.target.Event
}

// maybeConnectDebugger attaches a debugger connection once the trace has
// reached the requested state. Either way the server accepts on its own
// endpoint; in deferred mode it first publishes connection parameters once
// so an outside launcher knows where to point the client.
func (s *server) maybeConnectDebugger(ctx context.Context) error {
	if s.debuggerActive || s.detached {
		return nil
	}
	if !s.shouldAttach() {
		return nil
	}

	if s.connInfo.Path() != "" && !s.paramsPublished {
		if err := s.publishConnParams(); err != nil {
			return err
		}
		s.paramsPublished = true
		s.logger.Infow("connection parameters published",
			zap.String("file", s.connInfo.Path()))
	}

	addr := s.listener.Addr()
	s.logger.Infow("waiting for debugger", zap.String("addr", addr))
	conn, err := s.listener.Accept(ctx)
	if err != nil {
		return err
	}

	return s.attach(ctx, conn, addr)
}

// attach takes ownership of an open connection and snapshots the restart
// anchor: the state the debugger first saw, used to satisfy plain restart
// requests without re-reading the trace.
func (s *server) attach(ctx context.Context, conn engine.Conn, addr string) error {
	if _, err := s.gateway.Attach(ctx, conn, addr); err != nil {
		return err
	}

	anchor, err := s.session.Clone()
	if err != nil {
		return s.fatalResource("restart anchor clone", err)
	}
	s.restartAnchor = anchor
	s.debuggerActive = true
	s.logger.Infow("debugger active",
		zap.Uint64("elapsedEvents", s.session.ElapsedEventCount()))
	return nil
}
