// Package protocol defines the decoded form of the remote debugger protocol:
// the requests produced by the wire codec and the replies handed back to it.
// Byte-level framing, checksums and command syntax are owned by the codec
// and never appear here.
package protocol

import (
	"encoding/binary"
	"fmt"
)

// ThreadID identifies a recorded thread within the target process.
type ThreadID struct {
	Pid int `json:"pid"`
	Tid int `json:"tid"`
}

// RequestKind enumerates the decoded debugger request kinds.
type RequestKind int

const (
	// RequestNone is the zero value; it is never dispatched.
	RequestNone RequestKind = iota
	// RequestStep single-steps one thread of the target.
	RequestStep
	// RequestContinue resumes execution of the target.
	RequestContinue
	// RequestRestart rewinds the session to a checkpoint or to the point
	// the debugger originally attached at.
	RequestRestart
	// RequestReadMem reads target memory.
	RequestReadMem
	// RequestWriteMem writes target memory.
	RequestWriteMem
	// RequestReadRegs reads thread registers.
	RequestReadRegs
	// RequestWriteRegs writes thread registers.
	RequestWriteRegs
	// RequestCallFunction executes a function in the target.
	RequestCallFunction
	// RequestQuery is a read-only query about target or session state.
	RequestQuery
	// RequestDetach ends the debugging session.
	RequestDetach
)

// String implements fmt.Stringer for metrics tags and logs.
func (k RequestKind) String() string {
	switch k {
	case RequestStep:
		return "step"
	case RequestContinue:
		return "continue"
	case RequestRestart:
		return "restart"
	case RequestReadMem:
		return "read_mem"
	case RequestWriteMem:
		return "write_mem"
	case RequestReadRegs:
		return "read_regs"
	case RequestWriteRegs:
		return "write_regs"
	case RequestCallFunction:
		return "call_function"
	case RequestQuery:
		return "query"
	case RequestDetach:
		return "detach"
	default:
		return "none"
	}
}

// Request is a single decoded debugger request.
type Request struct {
	Kind   RequestKind `json:"kind"`
	Thread ThreadID    `json:"thread"`

	// Addr and Value carry the payload of memory and register operations.
	Addr  uint64 `json:"addr,omitempty"`
	Value []byte `json:"value,omitempty"`

	// FromCheckpoint selects the restart source for RequestRestart: when
	// true, restart from the checkpoint named by CheckpointID; otherwise
	// restart from the point the debugger attached at.
	FromCheckpoint bool `json:"fromCheckpoint,omitempty"`
	CheckpointID   int  `json:"checkpointId,omitempty"`
}

// IsResumeExecution reports whether the request resumes execution of the
// replay timeline. A resume request is the defined exit point of a
// diversion: it must be re-dispatched against the replay session.
func (r Request) IsResumeExecution() bool {
	return r.Kind == RequestContinue
}

// RequiresMutableExecution reports whether honoring the request needs a
// forked execution, because it would otherwise write to the recorded
// timeline or run non-deterministic code.
func (r Request) RequiresMutableExecution() bool {
	switch r.Kind {
	case RequestWriteMem, RequestWriteRegs, RequestCallFunction:
		return true
	default:
		return false
	}
}

// ReplyKind enumerates reply shapes handed back to the wire codec.
type ReplyKind int

const (
	// ReplyOK acknowledges a request with no payload.
	ReplyOK ReplyKind = iota
	// ReplyData carries a payload (memory/register contents, query results).
	ReplyData
	// ReplyStopped reports the target stopped after a resume request.
	ReplyStopped
	// ReplyError is a protocol-level negative reply; session state is
	// unchanged.
	ReplyError
	// ReplyExited reports that the recorded timeline is exhausted.
	ReplyExited
)

// Reply is the protocol-independent form of a reply to one Request.
type Reply struct {
	Kind ReplyKind `json:"kind"`
	Data []byte    `json:"data,omitempty"`
	// Err is a short machine-readable error token for ReplyError.
	Err string `json:"err,omitempty"`
}

// OK returns an acknowledgement reply.
func OK() Reply { return Reply{Kind: ReplyOK} }

// DataReply returns a reply carrying payload bytes.
func DataReply(data []byte) Reply { return Reply{Kind: ReplyData, Data: data} }

// StoppedReply reports that the target stopped.
func StoppedReply() Reply { return Reply{Kind: ReplyStopped} }

// ErrorReply returns a negative reply with the given token.
func ErrorReply(token string) Reply { return Reply{Kind: ReplyError, Err: token} }

// ExitedReply reports timeline exhaustion to the client.
func ExitedReply() Reply { return Reply{Kind: ReplyExited} }

// MagicOp enumerates the control commands carried by a magic write.
type MagicOp byte

const (
	// MagicSaveCheckpoint saves the current session under the id in the
	// write payload.
	MagicSaveCheckpoint MagicOp = 0x01
	// MagicDeleteCheckpoint deletes the checkpoint named in the payload.
	MagicDeleteCheckpoint MagicOp = 0x02
)

// MagicCommand is a decoded magic-write payload.
type MagicCommand struct {
	Op           MagicOp
	CheckpointID int
}

// ParseMagicCommand decodes the payload of a recognized magic write: one op
// byte followed by a little-endian uint32 checkpoint id.
func ParseMagicCommand(value []byte) (MagicCommand, error) {
	if len(value) != 5 {
		return MagicCommand{}, fmt.Errorf("magic write payload must be 5 bytes, got %d", len(value))
	}
	op := MagicOp(value[0])
	switch op {
	case MagicSaveCheckpoint, MagicDeleteCheckpoint:
	default:
		return MagicCommand{}, fmt.Errorf("unknown magic op %#x", byte(op))
	}
	return MagicCommand{
		Op:           op,
		CheckpointID: int(binary.LittleEndian.Uint32(value[1:])),
	}, nil
}

// EncodeMagicCommand is the inverse of ParseMagicCommand, used by tooling
// and tests to plant magic writes.
func EncodeMagicCommand(cmd MagicCommand) []byte {
	out := make([]byte, 5)
	out[0] = byte(cmd.Op)
	binary.LittleEndian.PutUint32(out[1:], uint32(cmd.CheckpointID))
	return out
}
