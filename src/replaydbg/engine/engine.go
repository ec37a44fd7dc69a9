// Package engine declares the contracts consumed from the record/replay
// backend: deterministic replay sessions, forked diversion sessions, and the
// decoded-protocol connection endpoints. Implementations live outside this
// module and register themselves as drivers, in the manner of database/sql.
package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/tracekit/replaydbg/src/replaydbg/protocol"
)

//go:generate mockgen -source=engine.go -destination=../enginemock/mocks.go -package=enginemock

// StepStatus is the outcome of advancing replay by one scheduled event.
type StepStatus int

const (
	// StatusRunning means the timeline has further events.
	StatusRunning StepStatus = iota
	// StatusExhausted means the recorded timeline has no further events.
	StatusExhausted
)

// Task is an opaque handle to one recorded thread.
type Task interface {
	Pid() int
	Tid() int
	// HasExeced reports whether the task has completed its program
	// replacement in the recorded timeline.
	HasExeced() bool
}

// ReplaySession is the deterministic replay engine's current state. It is
// read-only with respect to the recorded trace: requests answered through it
// never change what the trace will replay.
type ReplaySession interface {
	// Clone returns an independent copy of the session state. A failed
	// clone is a resource error; callers must treat it as fatal because a
	// partial clone would corrupt determinism guarantees.
	Clone() (ReplaySession, error)
	// AdvanceOneEvent replays exactly one scheduled recorded event.
	AdvanceOneEvent() (StepStatus, error)
	// CurrentTask returns the task scheduled for the next event.
	CurrentTask() Task
	// ElapsedEventCount returns the number of recorded events replayed so
	// far.
	ElapsedEventCount() uint64
	// SingleStepTask forces a single instruction step of the recorded
	// execution, used to keep breakpoint and watchpoint state consistent
	// before a step request is answered.
	SingleStepTask(t Task) error
	// HandleRequest answers a read-only request from replay state. Requests
	// the session does not implement fail with an error matching
	// errors.ErrUnsupportedRequest.
	HandleRequest(t Task, req protocol.Request) (protocol.Reply, error)
}

// DiversionSession is a mutable execution forked from a replay snapshot. It
// never mutates the session it was forked from.
type DiversionSession interface {
	// Step services one request inside the diversion. handled is false when
	// the diversion does not resolve the request itself (a resume-execution
	// request); the caller must then re-dispatch the request against the
	// replay session.
	Step(req protocol.Request) (reply protocol.Reply, handled bool, err error)
	// Teardown releases the diversion's resources. Called exactly once.
	Teardown() error
}

// Forker creates diversion sessions.
type Forker interface {
	// ForkFrom forks a mutable execution from replay state, with t as the
	// initial execution target. replay is used as a read-only template.
	ForkFrom(replay ReplaySession, t Task) (DiversionSession, error)
}

// Conn is an open debugger connection as exposed by the wire codec: framing,
// checksums and byte syntax are already stripped away.
type Conn interface {
	// NextRequest blocks until the client sends the next request, the
	// client detaches (io.EOF), or ctx is done.
	NextRequest(ctx context.Context) (protocol.Request, error)
	// SendReply answers the most recent request.
	SendReply(ctx context.Context, rep protocol.Reply) error
	Close() error
}

// Listener accepts debugger connections on a protocol endpoint.
type Listener interface {
	// Accept blocks until a client connects or ctx is done.
	Accept(ctx context.Context) (Conn, error)
	// Addr is the endpoint address clients should connect to.
	Addr() string
	Close() error
}

// Driver bundles the backend's entry points: trace replay, diversion
// forking, and the protocol endpoint.
type Driver interface {
	// OpenTrace opens a recorded trace for replay from the beginning.
	OpenTrace(dir string) (ReplaySession, error)
	// Forker returns the diversion forker for sessions of this driver.
	Forker() Forker
	// Listen opens the debugger protocol endpoint.
	Listen(addr string) (Listener, error)
}

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Driver)
)

// Register makes a backend available under the given name. It panics on a
// duplicate or nil registration, matching database/sql semantics.
func Register(name string, d Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if d == nil {
		panic("engine: Register driver is nil")
	}
	if _, dup := drivers[name]; dup {
		panic("engine: Register called twice for driver " + name)
	}
	drivers[name] = d
}

// Open returns the driver registered under name.
func Open(name string) (Driver, error) {
	driversMu.RLock()
	defer driversMu.RUnlock()
	d, ok := drivers[name]
	if !ok {
		return nil, fmt.Errorf("engine: unknown driver %q (forgotten import?)", name)
	}
	return d, nil
}

// Drivers returns the names of the registered drivers, sorted.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
