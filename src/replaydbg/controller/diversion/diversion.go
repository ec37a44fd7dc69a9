// Package diversion controls the lifecycle of a forked, mutable execution
// derived from a replay snapshot. The diversion answers requests that must
// not touch the replay timeline; the replay session it was forked from is
// never mutated while the diversion lives.
package diversion

import (
	"context"
	"sync"

	"github.com/tracekit/replaydbg/src/replaydbg/engine"
	"github.com/tracekit/replaydbg/src/replaydbg/internal/errors"
	"github.com/tracekit/replaydbg/src/replaydbg/protocol"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// State is the diversion lifecycle state.
type State int

const (
	// StateAbsent means no diversion exists.
	StateAbsent State = iota
	// StateActive means a diversion exists and holds at least one reference.
	StateActive
	// StateDraining means the reference count has just reached zero and
	// teardown is pending.
	StateDraining
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateDraining:
		return "draining"
	default:
		return "absent"
	}
}

// Controller owns the diversion session lifecycle. All methods are called
// from the single replay control thread; the mutex only guards against
// misuse, not concurrent dispatch.
type Controller interface {
	// Enter forks a new diversion from replay, with task as the initial
	// execution target. replay is used as a read-only template. The caller
	// holds the base reference until a resume-execution request drops it.
	Enter(ctx context.Context, replay engine.ReplaySession, task engine.Task) error
	// Dispatch answers req from the diversion's state. If the diversion
	// does not resolve the request itself (a resume-execution request), the
	// request is returned for re-dispatch against the replay session and
	// the diversion drains.
	Dispatch(ctx context.Context, req protocol.Request) (protocol.Reply, *protocol.Request, error)
	// TearDown forces teardown regardless of references, used on detach and
	// restart where diversion state is invalid. Idempotent.
	TearDown(ctx context.Context) error
	// Active reports whether a diversion is live.
	Active() bool
	// State returns the current lifecycle state.
	State() State
}

type controller struct {
	mu      sync.Mutex
	state   State
	session engine.DiversionSession
	refs    int

	forker engine.Forker
	logger *zap.SugaredLogger
	stats  tally.Scope
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Forker engine.Forker
	Logger *zap.SugaredLogger
	Stats  tally.Scope
}

// New constructs a diversion controller in the Absent state.
func New(p Params) Controller {
	return &controller{
		forker: p.Forker,
		logger: p.Logger,
		stats:  p.Stats.SubScope("diversion"),
	}
}

func (c *controller) Enter(ctx context.Context, replay engine.ReplaySession, task engine.Task) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateAbsent {
		return errors.New("diversion already exists")
	}

	sess, err := c.forker.ForkFrom(replay, task)
	if err != nil {
		return &errors.ResourceExhaustedError{Op: "diversion fork", Err: err}
	}

	c.session = sess
	c.refs = 1
	c.state = StateActive
	c.stats.Counter("entered").Inc(1)
	c.logger.Debugw("diversion entered",
		zap.Int("pid", task.Pid()), zap.Int("tid", task.Tid()))
	return nil
}

func (c *controller) Dispatch(ctx context.Context, req protocol.Request) (protocol.Reply, *protocol.Request, error) {
	sess, release, err := c.acquire()
	if err != nil {
		return protocol.Reply{}, nil, err
	}
	// The guard guarantees the reference drops even on error paths; the
	// last drop performs teardown.
	defer func() {
		if rerr := release(); rerr != nil {
			c.logger.Errorw("diversion teardown failed", zap.Error(rerr))
		}
	}()

	reply, handled, err := sess.Step(req)
	if err != nil {
		return protocol.Reply{}, nil, err
	}
	if !handled {
		// Resume-execution exit point: drop the base reference so the
		// deferred release drains the diversion, and hand the request back
		// for replay-session dispatch.
		c.dropBase()
		resume := req
		return protocol.Reply{}, &resume, nil
	}
	return reply, nil, nil
}

func (c *controller) TearDown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateAbsent {
		return nil
	}
	return c.teardownLocked()
}

func (c *controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateActive
}

func (c *controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// acquire takes a reference to the live diversion and returns it with a
// release func. Release of the last reference tears the diversion down.
func (c *controller) acquire() (engine.DiversionSession, func() error, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateActive {
		return nil, nil, errors.ErrDiversionInactive
	}
	c.refs++
	sess := c.session

	var once sync.Once
	release := func() error {
		var err error
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.refs--
			if c.refs == 0 && c.state != StateAbsent {
				c.state = StateDraining
				err = c.teardownLocked()
			}
		})
		return err
	}
	return sess, release, nil
}

// dropBase releases the reference taken by Enter.
func (c *controller) dropBase() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateActive && c.refs > 0 {
		c.refs--
	}
}

// teardownLocked destroys the session exactly once and resets to Absent.
func (c *controller) teardownLocked() error {
	var err error
	if c.session != nil {
		err = multierr.Append(err, c.session.Teardown())
	}
	c.session = nil
	c.refs = 0
	c.state = StateAbsent
	c.stats.Counter("torn_down").Inc(1)
	c.logger.Debugw("diversion torn down")
	return err
}
