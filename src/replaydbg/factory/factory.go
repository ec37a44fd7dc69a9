// Package factory provides user-defined factories for values used across
// tests.
package factory

import (
	"github.com/gofrs/uuid"
	"github.com/tracekit/replaydbg/src/replaydbg/protocol"
)

// UUID is a user-defined factory for a random uuid.UUID.
func UUID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

// StepRequest is a factory for a single-step request targeting tid.
func StepRequest(tid int) protocol.Request {
	return protocol.Request{Kind: protocol.RequestStep, Thread: protocol.ThreadID{Tid: tid}}
}

// ContinueRequest is a factory for a resume-execution request.
func ContinueRequest() protocol.Request {
	return protocol.Request{Kind: protocol.RequestContinue}
}

// DetachRequest is a factory for a detach request.
func DetachRequest() protocol.Request {
	return protocol.Request{Kind: protocol.RequestDetach}
}

// ReadMemRequest is a factory for a memory read at addr.
func ReadMemRequest(addr uint64) protocol.Request {
	return protocol.Request{Kind: protocol.RequestReadMem, Addr: addr}
}

// WriteMemRequest is a factory for a memory write of value at addr.
func WriteMemRequest(addr uint64, value []byte) protocol.Request {
	return protocol.Request{Kind: protocol.RequestWriteMem, Addr: addr, Value: value}
}

// CallFunctionRequest is a factory for an inferior function call, which
// requires a diversion.
func CallFunctionRequest(addr uint64) protocol.Request {
	return protocol.Request{Kind: protocol.RequestCallFunction, Addr: addr}
}

// RestartFromCheckpoint is a factory for a restart targeting checkpoint id.
func RestartFromCheckpoint(id int) protocol.Request {
	return protocol.Request{Kind: protocol.RequestRestart, FromCheckpoint: true, CheckpointID: id}
}

// RestartFromAnchor is a factory for a restart targeting the attach point.
func RestartFromAnchor() protocol.Request {
	return protocol.Request{Kind: protocol.RequestRestart}
}

// MagicSaveWrite is a factory for a magic write that saves a checkpoint.
func MagicSaveWrite(addr uint64, id int) protocol.Request {
	return protocol.Request{
		Kind:  protocol.RequestWriteMem,
		Addr:  addr,
		Value: protocol.EncodeMagicCommand(protocol.MagicCommand{Op: protocol.MagicSaveCheckpoint, CheckpointID: id}),
	}
}

// MagicDeleteWrite is a factory for a magic write that deletes a checkpoint.
func MagicDeleteWrite(addr uint64, id int) protocol.Request {
	return protocol.Request{
		Kind:  protocol.RequestWriteMem,
		Addr:  addr,
		Value: protocol.EncodeMagicCommand(protocol.MagicCommand{Op: protocol.MagicDeleteCheckpoint, CheckpointID: id}),
	}
}
