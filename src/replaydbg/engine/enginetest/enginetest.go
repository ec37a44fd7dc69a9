// Package enginetest provides in-memory fakes of the engine contracts for
// tests that need stateful behavior across a whole driver-loop run.
package enginetest

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/tracekit/replaydbg/src/replaydbg/engine"
	ierrors "github.com/tracekit/replaydbg/src/replaydbg/internal/errors"
	"github.com/tracekit/replaydbg/src/replaydbg/protocol"
)

// Task is a fake recorded thread.
type Task struct {
	ProcID   int
	ThreadID int
	Execed   bool
}

// Pid implements engine.Task.
func (t *Task) Pid() int { return t.ProcID }

// Tid implements engine.Task.
func (t *Task) Tid() int { return t.ThreadID }

// HasExeced implements engine.Task.
func (t *Task) HasExeced() bool { return t.Execed }

// ReplaySession is a fake deterministic replay session. Its observable state
// is the elapsed-event counter and a memory map; clones copy both, so
// checkpoint-freezing and isolation properties are testable.
type ReplaySession struct {
	Events      uint64
	TotalEvents uint64
	Task        *Task
	Memory      map[uint64][]byte

	// ExecAtEvent marks the event count at which the task completes its
	// program replacement.
	ExecAtEvent uint64

	CloneErr error
	// HandleErr, when set, fails every HandleRequest with it.
	HandleErr error
	Steps     int
	Clones    int
}

// NewReplaySession returns a session over a timeline of totalEvents events.
func NewReplaySession(totalEvents uint64) *ReplaySession {
	return &ReplaySession{
		TotalEvents: totalEvents,
		Task:        &Task{ProcID: 1000, ThreadID: 1000, Execed: true},
		Memory:      map[uint64][]byte{},
	}
}

// Clone implements engine.ReplaySession.
func (s *ReplaySession) Clone() (engine.ReplaySession, error) {
	if s.CloneErr != nil {
		return nil, s.CloneErr
	}
	s.Clones++
	mem := make(map[uint64][]byte, len(s.Memory))
	for k, v := range s.Memory {
		mem[k] = append([]byte(nil), v...)
	}
	task := *s.Task
	return &ReplaySession{
		Events:      s.Events,
		TotalEvents: s.TotalEvents,
		Task:        &task,
		Memory:      mem,
		ExecAtEvent: s.ExecAtEvent,
	}, nil
}

// AdvanceOneEvent implements engine.ReplaySession.
func (s *ReplaySession) AdvanceOneEvent() (engine.StepStatus, error) {
	if s.Events >= s.TotalEvents {
		return engine.StatusExhausted, nil
	}
	s.Events++
	if s.Events >= s.ExecAtEvent {
		s.Task.Execed = true
	}
	if s.Events >= s.TotalEvents {
		return engine.StatusExhausted, nil
	}
	return engine.StatusRunning, nil
}

// CurrentTask implements engine.ReplaySession.
func (s *ReplaySession) CurrentTask() engine.Task { return s.Task }

// ElapsedEventCount implements engine.ReplaySession.
func (s *ReplaySession) ElapsedEventCount() uint64 { return s.Events }

// SingleStepTask implements engine.ReplaySession.
func (s *ReplaySession) SingleStepTask(t engine.Task) error {
	s.Steps++
	return nil
}

// HandleRequest implements engine.ReplaySession. Reads are answered from the
// memory map; anything else is unsupported.
func (s *ReplaySession) HandleRequest(t engine.Task, req protocol.Request) (protocol.Reply, error) {
	if s.HandleErr != nil {
		return protocol.Reply{}, s.HandleErr
	}
	switch req.Kind {
	case protocol.RequestReadMem:
		return protocol.DataReply(append([]byte(nil), s.Memory[req.Addr]...)), nil
	case protocol.RequestReadRegs, protocol.RequestQuery:
		return protocol.OK(), nil
	default:
		return protocol.Reply{}, fmt.Errorf("%v: %w", req.Kind, ierrors.ErrUnsupportedRequest)
	}
}

// DiversionSession is a fake forked execution. Writes land in its own memory
// copy; resume-execution requests are reported as unhandled.
type DiversionSession struct {
	Memory    map[uint64][]byte
	Handled   int
	Teardowns int
	StepErr   error
}

// Step implements engine.DiversionSession.
func (d *DiversionSession) Step(req protocol.Request) (protocol.Reply, bool, error) {
	if d.StepErr != nil {
		return protocol.Reply{}, false, d.StepErr
	}
	if req.IsResumeExecution() {
		return protocol.Reply{}, false, nil
	}
	d.Handled++
	switch req.Kind {
	case protocol.RequestWriteMem:
		d.Memory[req.Addr] = append([]byte(nil), req.Value...)
		return protocol.OK(), true, nil
	case protocol.RequestReadMem:
		return protocol.DataReply(append([]byte(nil), d.Memory[req.Addr]...)), true, nil
	default:
		return protocol.OK(), true, nil
	}
}

// Teardown implements engine.DiversionSession.
func (d *DiversionSession) Teardown() error {
	d.Teardowns++
	return nil
}

// Forker is a fake engine.Forker that forks DiversionSessions with a copy of
// the template's memory.
type Forker struct {
	Forks    int
	ForkErr  error
	LastFork *DiversionSession
}

// ForkFrom implements engine.Forker.
func (f *Forker) ForkFrom(replay engine.ReplaySession, t engine.Task) (engine.DiversionSession, error) {
	if f.ForkErr != nil {
		return nil, f.ForkErr
	}
	f.Forks++
	mem := map[uint64][]byte{}
	if rs, ok := replay.(*ReplaySession); ok {
		for k, v := range rs.Memory {
			mem[k] = append([]byte(nil), v...)
		}
	}
	f.LastFork = &DiversionSession{Memory: mem}
	return f.LastFork, nil
}

// Conn is a fake codec connection fed by a scripted request queue. When the
// queue drains, NextRequest reports client disconnect via io.EOF.
type Conn struct {
	mu       sync.Mutex
	requests []protocol.Request
	Replies  []protocol.Reply
	Closed   bool

	// ReplyErr, when set, fails every subsequent SendReply with it.
	ReplyErr error
}

// NewConn returns a connection that will serve the given requests in order.
func NewConn(requests ...protocol.Request) *Conn {
	return &Conn{requests: requests}
}

// Push appends further scripted requests.
func (c *Conn) Push(requests ...protocol.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, requests...)
}

// NextRequest implements engine.Conn.
func (c *Conn) NextRequest(ctx context.Context) (protocol.Request, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.requests) == 0 {
		return protocol.Request{}, io.EOF
	}
	req := c.requests[0]
	c.requests = c.requests[1:]
	return req, nil
}

// SendReply implements engine.Conn.
func (c *Conn) SendReply(ctx context.Context, rep protocol.Reply) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ReplyErr != nil {
		return c.ReplyErr
	}
	c.Replies = append(c.Replies, rep)
	return nil
}

// Close implements engine.Conn.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Closed = true
	return nil
}

// Listener is a fake endpoint that hands out a prepared connection.
type Listener struct {
	Conn    *Conn
	Accepts int
	Address string
}

// Accept implements engine.Listener.
func (l *Listener) Accept(ctx context.Context) (engine.Conn, error) {
	l.Accepts++
	return l.Conn, nil
}

// Addr implements engine.Listener.
func (l *Listener) Addr() string {
	if l.Address == "" {
		return "127.0.0.1:50505"
	}
	return l.Address
}

// Close implements engine.Listener.
func (l *Listener) Close() error { return nil }

// Driver bundles the fakes into an engine.Driver.
type Driver struct {
	Session  *ReplaySession
	Fork     *Forker
	Endpoint *Listener
	OpenErr  error
}

// OpenTrace implements engine.Driver.
func (d *Driver) OpenTrace(dir string) (engine.ReplaySession, error) {
	if d.OpenErr != nil {
		return nil, d.OpenErr
	}
	return d.Session, nil
}

// Forker implements engine.Driver.
func (d *Driver) Forker() engine.Forker { return d.Fork }

// Listen implements engine.Driver.
func (d *Driver) Listen(addr string) (engine.Listener, error) {
	return d.Endpoint, nil
}
