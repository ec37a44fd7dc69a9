// Package entity contains the domain types for the replaydbg server.
package entity

import (
	"github.com/gofrs/uuid"
	"github.com/tracekit/replaydbg/src/replaydbg/protocol"
)

type keyType string

// ConnectionContextKey indicates the key to be used to identify the connection UUID in the context.
const ConnectionContextKey keyType = "ConnectionUUID"

// FirstProcess selects the first recorded process when used as Target.Pid.
const FirstProcess = 0

// Target selects which recorded process to attach the debugger to, and at
// which point in the recorded timeline. Immutable once the server starts.
type Target struct {
	// Pid is the recorded process to debug, or FirstProcess to debug
	// whichever process the trace starts with.
	Pid int `yaml:"pid"`
	// RequireExec defers attachment until the target process has completed
	// its program replacement (exec).
	RequireExec bool `yaml:"requireExec"`
	// Event is the minimum elapsed-event count before attaching.
	Event uint64 `yaml:"event"`
}

// NewTarget returns a Target with the default attach policy: first process,
// after it has exec'd, at the earliest event.
func NewTarget() Target {
	return Target{Pid: FirstProcess, RequireExec: true, Event: 0}
}

// Class is the classification of a request, computed once per request. The
// dispatcher routes on it; the order of the constants is the priority order
// of the classification rules.
type Class int

const (
	// ClassMagicWrite is a write to the reserved side-channel address,
	// interpreted as a control command rather than a memory write.
	ClassMagicWrite Class = iota
	// ClassStep is a single-step request, which needs event pre-processing
	// before generic handling.
	ClassStep
	// ClassRestart rewinds the session and invalidates any diversion.
	ClassRestart
	// ClassGeneric is everything else, answered from replay state or routed
	// to an active diversion.
	ClassGeneric
)

// String implements fmt.Stringer for metrics tags and logs.
func (c Class) String() string {
	switch c {
	case ClassMagicWrite:
		return "magic_write"
	case ClassStep:
		return "step"
	case ClassRestart:
		return "restart"
	default:
		return "generic"
	}
}

// MagicWritePolicy decides whether a memory write is the reserved
// side-channel convention. The exact address/value convention is owned by
// the tooling that plants the writes, so the predicate is injected rather
// than hard-coded.
type MagicWritePolicy func(addr uint64, value []byte) bool

// FixedAddrMagicPolicy recognizes writes to a single reserved address.
func FixedAddrMagicPolicy(addr uint64) MagicWritePolicy {
	return func(a uint64, value []byte) bool {
		return a == addr && len(value) > 0
	}
}

// Classify computes the Class of a request under the given magic-write
// policy. Rules apply in priority order: magic write, step, restart,
// generic.
func Classify(req protocol.Request, magic MagicWritePolicy) Class {
	switch {
	case req.Kind == protocol.RequestWriteMem && magic != nil && magic(req.Addr, req.Value):
		return ClassMagicWrite
	case req.Kind == protocol.RequestStep:
		return ClassStep
	case req.Kind == protocol.RequestRestart:
		return ClassRestart
	default:
		return ClassGeneric
	}
}

// Connection identifies a live debugger connection. Exactly one may exist
// per server instance.
type Connection struct {
	UUID uuid.UUID `json:"uuid" zap:"uuid"`
	// Addr is the remote endpoint, when known.
	Addr string `json:"addr" zap:"addr"`
}
