// Package debugserver orchestrates an interactive debugging session over a
// recorded execution: it drives deterministic replay one event at a time,
// attaches the remote debugger at the configured point in the timeline, and
// dispatches each decoded request to replay state, checkpoint/restart
// handling, or a forked diversion.
package debugserver

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tracekit/replaydbg/src/replaydbg/controller/diversion"
	"github.com/tracekit/replaydbg/src/replaydbg/engine"
	"github.com/tracekit/replaydbg/src/replaydbg/entity"
	debuggerclient "github.com/tracekit/replaydbg/src/replaydbg/gateway/debugger-client"
	"github.com/tracekit/replaydbg/src/replaydbg/internal/conninfofile"
	ierrors "github.com/tracekit/replaydbg/src/replaydbg/internal/errors"
	"github.com/tracekit/replaydbg/src/replaydbg/protocol"
	"github.com/tracekit/replaydbg/src/replaydbg/repository/checkpoint"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	_configKeyListenAddress = "server.listenAddress"
	_configKeyFreeRun       = "server.freeRunAfterDetach"
)

// RunConfig carries the per-invocation parameters: which trace to replay and
// where in its timeline to attach the debugger. Immutable once the server
// starts.
type RunConfig struct {
	TraceDir string
	Target   entity.Target
}

// Controller serves the replay of one recorded trace to a remote debugger.
type Controller interface {
	// Serve opens the trace and runs the replay driver loop until the
	// timeline is exhausted or the client detaches with free-run disabled.
	Serve(ctx context.Context) error
	// EmergencyDebug opens a debugger connection immediately and
	// synchronously for a single already-faulted task, bypassing the
	// target/event attach machinery. A nil task targets the trace's
	// current task. Last-resort diagnostics.
	EmergencyDebug(ctx context.Context, t engine.Task) error
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Config      config.Provider
	Logger      *zap.SugaredLogger
	Stats       tally.Scope
	Checkpoints checkpoint.Repository
	Diversion   diversion.Controller
	Gateway     debuggerclient.Gateway
	ConnInfo    conninfofile.ConnInfoFile
	Driver      engine.Driver
	Run         RunConfig
	Magic       entity.MagicWritePolicy
}

type server struct {
	target   entity.Target
	traceDir string
	magic    entity.MagicWritePolicy

	listenAddr string
	// freeRun selects whether replay continues to completion after the
	// client detaches, or the server exits.
	freeRun bool

	// session drives replay. Exactly one session is current at a time; all
	// requests that touch recorded-process state go through it.
	session engine.ReplaySession
	// restartAnchor is the session the live session was forked from at
	// attach time, kept so a plain restart can rewind without re-reading
	// the trace. Discarded on detach.
	restartAnchor engine.ReplaySession
	// debuggerActive is false while we wait for the session to reach the
	// requested state before talking to the debugger.
	debuggerActive bool
	// paramsPublished records that deferred-mode connection parameters have
	// been written.
	paramsPublished bool
	// detached means the client left and the attach point is already
	// passed; no further attach condition can trigger.
	detached bool
	// exhausted means the recorded timeline has no further events.
	exhausted bool

	listener    engine.Listener
	driver      engine.Driver
	checkpoints checkpoint.Repository
	diversion   diversion.Controller
	gateway     debuggerclient.Gateway
	connInfo    conninfofile.ConnInfoFile

	logger *zap.SugaredLogger
	stats  tally.Scope
}

// New constructs the debug server controller.
func New(p Params) (Controller, error) {
	s := &server{
		target:      p.Run.Target,
		traceDir:    p.Run.TraceDir,
		magic:       p.Magic,
		driver:      p.Driver,
		checkpoints: p.Checkpoints,
		diversion:   p.Diversion,
		gateway:     p.Gateway,
		connInfo:    p.ConnInfo,
		logger:      p.Logger,
		stats:       p.Stats.SubScope("debug_server"),
	}

	if err := p.Config.Get(_configKeyListenAddress).Populate(&s.listenAddr); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKeyListenAddress, err)
	}
	if s.listenAddr == "" {
		return nil, fmt.Errorf("missing field %q in config", _configKeyListenAddress)
	}
	if err := p.Config.Get(_configKeyFreeRun).Populate(&s.freeRun); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKeyFreeRun, err)
	}

	return s, nil
}

// Serve runs the replay driver loop. One iteration checks the connection
// lifecycle, drains client requests while attached, and advances replay by
// exactly one scheduled event. The lifecycle check runs strictly before the
// advance: advancing mutates the state the attach condition is tested
// against.
func (s *server) Serve(ctx context.Context) error {
	sess, err := s.driver.OpenTrace(s.traceDir)
	if err != nil {
		return fmt.Errorf("opening trace %q: %w", s.traceDir, err)
	}
	s.session = sess

	s.listener, err = s.driver.Listen(s.listenAddr)
	if err != nil {
		return fmt.Errorf("opening debugger endpoint: %w", err)
	}
	defer s.listener.Close()

	s.logger.Infow("serving replay",
		zap.String("traceDir", s.traceDir),
		zap.Int("targetPid", s.target.Pid),
		zap.Uint64("targetEvent", s.target.Event))

	for {
		if err := s.maybeConnectDebugger(ctx); err != nil {
			return err
		}

		if s.debuggerActive {
			if err := s.processDebuggerRequests(ctx); err != nil {
				cont, serr := s.handleServeError(ctx, err)
				if !cont {
					return serr
				}
				continue
			}
		}

		if s.exhausted {
			if !s.debuggerActive {
				return nil
			}
			// Still attached: the client was told the timeline ended and
			// may yet restart to a checkpoint. Nothing to advance.
			continue
		}

		if err := s.replayOneStep(ctx); err != nil {
			cont, serr := s.handleServeError(ctx, err)
			if !cont {
				return serr
			}
		}
	}
}

// handleServeError decides what a failure inside the driver loop means for
// the loop itself. A detach, whether signalled by a read or by a reply write
// against a dead connection, runs the cancellation path and then either ends
// the loop or free-runs; anything else aborts the server.
func (s *server) handleServeError(ctx context.Context, err error) (bool, error) {
	if err != ierrors.ErrDetached {
		return false, err
	}
	if derr := s.handleDetach(ctx); derr != nil {
		return false, derr
	}
	if !s.freeRun {
		s.logger.Infow("client detached, exiting")
		return false, nil
	}
	s.logger.Infow("client detached, free-running to completion")
	return true, nil
}

// replayOneStep advances the replay session by one scheduled recorded event
// and reports the outcome to an attached client.
func (s *server) replayOneStep(ctx context.Context) error {
	status, err := s.session.AdvanceOneEvent()
	if err != nil {
		return fmt.Errorf("advancing replay: %w", err)
	}
	s.stats.Counter("events_replayed").Inc(1)

	if status == engine.StatusExhausted {
		s.exhausted = true
		s.logger.Infow("recorded timeline exhausted",
			zap.Uint64("elapsedEvents", s.session.ElapsedEventCount()))
		if s.debuggerActive {
			// Report exhaustion rather than terminating silently: the
			// client still expects replay semantics.
			return s.gateway.SendReply(ctx, protocol.ExitedReply())
		}
		return nil
	}

	if s.debuggerActive {
		return s.gateway.SendReply(ctx, protocol.StoppedReply())
	}
	return nil
}

// handleDetach runs the cancellation path: tear down any active diversion,
// discard the restart anchor, and close the connection. The checkpoint
// store is left untouched; checkpoints outlive a debugging session.
func (s *server) handleDetach(ctx context.Context) error {
	err := multierr.Combine(
		s.diversion.TearDown(ctx),
		s.gateway.Detach(ctx),
	)
	s.restartAnchor = nil
	s.debuggerActive = false
	s.detached = true
	return err
}

// EmergencyDebug opens the endpoint and blocks for a client, then answers
// requests targeting t until the client detaches or resumes. It does not
// consult the attach target and performs no replay driving.
func (s *server) EmergencyDebug(ctx context.Context, t engine.Task) error {
	if s.session == nil && s.traceDir != "" {
		sess, err := s.driver.OpenTrace(s.traceDir)
		if err != nil {
			return fmt.Errorf("opening trace %q: %w", s.traceDir, err)
		}
		s.session = sess
	}
	if t == nil && s.session != nil {
		t = s.session.CurrentTask()
	}
	if t == nil {
		return ierrors.New("emergency debug needs a task")
	}

	ln, err := s.driver.Listen(s.listenAddr)
	if err != nil {
		return fmt.Errorf("opening debugger endpoint: %w", err)
	}
	defer ln.Close()

	s.logger.Warnw("emergency debugger attach",
		zap.Int("pid", t.Pid()), zap.Int("tid", t.Tid()), zap.String("addr", ln.Addr()))

	conn, err := ln.Accept(ctx)
	if err != nil {
		return err
	}
	if _, err := s.gateway.Attach(ctx, conn, ln.Addr()); err != nil {
		return err
	}
	defer s.gateway.Detach(ctx)

	for {
		req, err := s.gateway.NextRequest(ctx)
		if err == ierrors.ErrDetached {
			return nil
		}
		if err != nil {
			return err
		}
		switch {
		case req.Kind == protocol.RequestDetach:
			return s.gateway.SendReply(ctx, protocol.OK())
		case req.IsResumeExecution():
			// There is nothing to resume in emergency mode; the faulted
			// task stays where it is.
			if err := s.gateway.SendReply(ctx, protocol.StoppedReply()); err != nil {
				return err
			}
		case s.session != nil:
			reply, herr := s.session.HandleRequest(t, req)
			if herr != nil {
				reply = protocol.ErrorReply("E.emergency")
			}
			if err := s.gateway.SendReply(ctx, reply); err != nil {
				return err
			}
		default:
			if err := s.gateway.SendReply(ctx, protocol.ErrorReply("E.emergency")); err != nil {
				return err
			}
		}
	}
}

// publishConnParams writes the connection parameters for the external client
// launcher. Called once per server instance.
func (s *server) publishConnParams() error {
	task := s.session.CurrentTask()
	return multierr.Combine(
		s.connInfo.UpdateField(conninfofile.FieldAddress, s.listener.Addr()),
		s.connInfo.UpdateField(conninfofile.FieldTraceDir, s.traceDir),
		s.connInfo.UpdateField(conninfofile.FieldPid, strconv.Itoa(task.Pid())),
	)
}
