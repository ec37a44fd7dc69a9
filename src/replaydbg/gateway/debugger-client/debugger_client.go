// Package debuggerclient manages the single live debugger connection: it
// enforces the one-connection invariant, hands decoded requests to the
// dispatcher, and carries replies back to the wire codec.
package debuggerclient

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"syscall"

	"github.com/gofrs/uuid"
	"github.com/tracekit/replaydbg/src/replaydbg/engine"
	"github.com/tracekit/replaydbg/src/replaydbg/entity"
	ierrors "github.com/tracekit/replaydbg/src/replaydbg/internal/errors"
	"github.com/tracekit/replaydbg/src/replaydbg/protocol"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Gateway owns the live debugger connection. At most one connection exists
// per server instance; attaching a second without detaching the first is an
// error.
type Gateway interface {
	// Attach takes ownership of an open connection. Fails with
	// ErrConnectionExists if a connection is already attached.
	Attach(ctx context.Context, conn engine.Conn, addr string) (uuid.UUID, error)
	// Detach closes and forgets the current connection. Detaching with no
	// connection attached is a no-op.
	Detach(ctx context.Context) error
	// Active reports whether a connection is attached.
	Active() bool
	// Connection returns the identity of the attached connection.
	Connection() (entity.Connection, bool)

	// NextRequest blocks until the client sends the next request. A client
	// disconnect surfaces as ErrDetached.
	NextRequest(ctx context.Context) (protocol.Request, error)
	// SendReply answers the most recent request. A write against a closed
	// connection surfaces as ErrDetached.
	SendReply(ctx context.Context, rep protocol.Reply) error
}

type gateway struct {
	mu    sync.Mutex
	conn  engine.Conn
	ident entity.Connection

	logger *zap.SugaredLogger
	stats  tally.Scope
}

// Params are inbound parameters to initialize the gateway.
type Params struct {
	fx.In

	Logger *zap.SugaredLogger
	Stats  tally.Scope
}

// New returns a Gateway with no connection attached.
func New(p Params) Gateway {
	return &gateway{
		logger: p.Logger,
		stats:  p.Stats.SubScope("debugger_conn"),
	}
}

func (g *gateway) Attach(ctx context.Context, conn engine.Conn, addr string) (uuid.UUID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.conn != nil {
		return uuid.Nil, ierrors.ErrConnectionExists
	}

	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, err
	}

	g.conn = conn
	g.ident = entity.Connection{UUID: id, Addr: addr}
	g.stats.Counter("attached").Inc(1)
	g.logger.Infow("debugger attached", zap.Stringer("uuid", id), zap.String("addr", addr))
	return id, nil
}

func (g *gateway) Detach(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.conn == nil {
		return nil
	}

	err := g.conn.Close()
	g.logger.Infow("debugger detached", zap.Stringer("uuid", g.ident.UUID))
	g.conn = nil
	g.ident = entity.Connection{}
	g.stats.Counter("detached").Inc(1)
	return err
}

func (g *gateway) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.conn != nil
}

func (g *gateway) Connection() (entity.Connection, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ident, g.conn != nil
}

func (g *gateway) NextRequest(ctx context.Context) (protocol.Request, error) {
	conn, err := g.current()
	if err != nil {
		return protocol.Request{}, err
	}

	req, err := conn.NextRequest(ctx)
	if connClosed(err) {
		return protocol.Request{}, ierrors.ErrDetached
	}
	if err != nil {
		return protocol.Request{}, err
	}
	g.stats.Tagged(map[string]string{"kind": req.Kind.String()}).Counter("requests").Inc(1)
	return req, nil
}

func (g *gateway) SendReply(ctx context.Context, rep protocol.Reply) error {
	conn, err := g.current()
	if err != nil {
		return err
	}
	if err := conn.SendReply(ctx, rep); err != nil {
		if connClosed(err) {
			return ierrors.ErrDetached
		}
		return err
	}
	return nil
}

// connClosed reports whether err means the peer went away, as opposed to a
// malformed packet or some other transport fault.
func connClosed(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET)
}

func (g *gateway) current() (engine.Conn, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.conn == nil {
		return nil, ierrors.ErrNoConnection
	}
	return g.conn, nil
}
