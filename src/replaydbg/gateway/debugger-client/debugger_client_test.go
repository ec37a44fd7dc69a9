package debuggerclient

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tracekit/replaydbg/src/replaydbg/engine/enginetest"
	"github.com/tracekit/replaydbg/src/replaydbg/enginemock"
	"github.com/tracekit/replaydbg/src/replaydbg/factory"
	ierrors "github.com/tracekit/replaydbg/src/replaydbg/internal/errors"
	"github.com/tracekit/replaydbg/src/replaydbg/protocol"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func newTestGateway() Gateway {
	return New(Params{
		Logger: zap.NewNop().Sugar(),
		Stats:  tally.NewTestScope("testing", make(map[string]string, 0)),
	})
}

func TestAttachDetach(t *testing.T) {
	ctx := context.Background()

	t.Run("should attach and expose the connection identity", func(t *testing.T) {
		g := newTestGateway()
		conn := enginetest.NewConn()

		id, err := g.Attach(ctx, conn, "127.0.0.1:50505")
		require.NoError(t, err)
		assert.True(t, g.Active())

		ident, ok := g.Connection()
		require.True(t, ok)
		assert.Equal(t, id, ident.UUID)
		assert.Equal(t, "127.0.0.1:50505", ident.Addr)
	})

	t.Run("should reject a second connection", func(t *testing.T) {
		g := newTestGateway()
		_, err := g.Attach(ctx, enginetest.NewConn(), "a")
		require.NoError(t, err)

		_, err = g.Attach(ctx, enginetest.NewConn(), "b")
		assert.ErrorIs(t, err, ierrors.ErrConnectionExists)
	})

	t.Run("detach closes the connection and is a no-op when absent", func(t *testing.T) {
		g := newTestGateway()
		conn := enginetest.NewConn()
		_, err := g.Attach(ctx, conn, "a")
		require.NoError(t, err)

		assert.NoError(t, g.Detach(ctx))
		assert.True(t, conn.Closed)
		assert.False(t, g.Active())
		_, ok := g.Connection()
		assert.False(t, ok)

		assert.NoError(t, g.Detach(ctx))
	})

	t.Run("a fresh connection can attach after detach", func(t *testing.T) {
		g := newTestGateway()
		first, err := g.Attach(ctx, enginetest.NewConn(), "a")
		require.NoError(t, err)
		require.NoError(t, g.Detach(ctx))

		second, err := g.Attach(ctx, enginetest.NewConn(), "b")
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}

func TestNextRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("should hand out decoded requests in order", func(t *testing.T) {
		g := newTestGateway()
		conn := enginetest.NewConn(factory.ReadMemRequest(0x10), factory.ContinueRequest())
		_, err := g.Attach(ctx, conn, "a")
		require.NoError(t, err)

		req, err := g.NextRequest(ctx)
		require.NoError(t, err)
		assert.Equal(t, protocol.RequestReadMem, req.Kind)

		req, err = g.NextRequest(ctx)
		require.NoError(t, err)
		assert.Equal(t, protocol.RequestContinue, req.Kind)
	})

	t.Run("client disconnect surfaces as ErrDetached", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		conn := enginemock.NewMockConn(ctrl)
		conn.EXPECT().NextRequest(gomock.Any()).Return(protocol.Request{}, io.EOF)

		g := newTestGateway()
		_, err := g.Attach(ctx, conn, "a")
		require.NoError(t, err)

		_, err = g.NextRequest(ctx)
		assert.ErrorIs(t, err, ierrors.ErrDetached)
	})

	t.Run("should fail with no connection attached", func(t *testing.T) {
		g := newTestGateway()
		_, err := g.NextRequest(ctx)
		assert.ErrorIs(t, err, ierrors.ErrNoConnection)

		err = g.SendReply(ctx, protocol.OK())
		assert.ErrorIs(t, err, ierrors.ErrNoConnection)
	})
}

func TestSendReply(t *testing.T) {
	ctx := context.Background()

	t.Run("should write the reply to the connection", func(t *testing.T) {
		g := newTestGateway()
		conn := enginetest.NewConn()
		_, err := g.Attach(ctx, conn, "a")
		require.NoError(t, err)

		require.NoError(t, g.SendReply(ctx, protocol.DataReply([]byte{0x01})))
		require.Len(t, conn.Replies, 1)
		assert.Equal(t, protocol.ReplyData, conn.Replies[0].Kind)
	})

	t.Run("a write against a dead connection surfaces as ErrDetached", func(t *testing.T) {
		for _, cause := range []error{io.EOF, io.ErrClosedPipe, net.ErrClosed, syscall.EPIPE, syscall.ECONNRESET} {
			g := newTestGateway()
			conn := enginetest.NewConn()
			conn.ReplyErr = cause
			_, err := g.Attach(ctx, conn, "a")
			require.NoError(t, err)

			err = g.SendReply(ctx, protocol.OK())
			assert.ErrorIs(t, err, ierrors.ErrDetached, "cause %v", cause)
		}
	})

	t.Run("other write faults pass through unmapped", func(t *testing.T) {
		g := newTestGateway()
		conn := enginetest.NewConn()
		conn.ReplyErr = errors.New("encoding overflow")
		_, err := g.Attach(ctx, conn, "a")
		require.NoError(t, err)

		err = g.SendReply(ctx, protocol.OK())
		require.Error(t, err)
		assert.NotErrorIs(t, err, ierrors.ErrDetached)
	})
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
