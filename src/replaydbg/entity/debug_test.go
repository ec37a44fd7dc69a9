package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tracekit/replaydbg/src/replaydbg/protocol"
)

func TestNewTarget(t *testing.T) {
	target := NewTarget()
	assert.Equal(t, FirstProcess, target.Pid)
	assert.True(t, target.RequireExec)
	assert.Equal(t, uint64(0), target.Event)
}

func TestClassify(t *testing.T) {
	magic := FixedAddrMagicPolicy(0xFFFFD0D0)

	tests := []struct {
		name string
		req  protocol.Request
		want Class
	}{
		{
			name: "write to the reserved address is a magic write",
			req:  protocol.Request{Kind: protocol.RequestWriteMem, Addr: 0xFFFFD0D0, Value: []byte{0x01}},
			want: ClassMagicWrite,
		},
		{
			name: "write elsewhere is generic",
			req:  protocol.Request{Kind: protocol.RequestWriteMem, Addr: 0x1000, Value: []byte{0x01}},
			want: ClassGeneric,
		},
		{
			name: "empty write to the reserved address is generic",
			req:  protocol.Request{Kind: protocol.RequestWriteMem, Addr: 0xFFFFD0D0},
			want: ClassGeneric,
		},
		{
			name: "read of the reserved address is generic",
			req:  protocol.Request{Kind: protocol.RequestReadMem, Addr: 0xFFFFD0D0},
			want: ClassGeneric,
		},
		{
			name: "step",
			req:  protocol.Request{Kind: protocol.RequestStep},
			want: ClassStep,
		},
		{
			name: "restart",
			req:  protocol.Request{Kind: protocol.RequestRestart},
			want: ClassRestart,
		},
		{
			name: "continue is generic",
			req:  protocol.Request{Kind: protocol.RequestContinue},
			want: ClassGeneric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.req, magic))
		})
	}

	t.Run("nil policy never classifies magic", func(t *testing.T) {
		req := protocol.Request{Kind: protocol.RequestWriteMem, Addr: 0xFFFFD0D0, Value: []byte{0x01}}
		assert.Equal(t, ClassGeneric, Classify(req, nil))
	})
}

func TestClassString(t *testing.T) {
	assert.Equal(t, "magic_write", ClassMagicWrite.String())
	assert.Equal(t, "step", ClassStep.String())
	assert.Equal(t, "restart", ClassRestart.String())
	assert.Equal(t, "generic", ClassGeneric.String())
}
