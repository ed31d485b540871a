package tcp

import (
	"context"
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/draftboard/draftboard/internal/application/collab"
	"github.com/draftboard/draftboard/internal/domain/draft"
	"github.com/draftboard/draftboard/internal/domain/session"
	"github.com/draftboard/draftboard/internal/protocol"
)

// Engine is the coordinator surface the transport drives. Implemented by
// collab.Service.
type Engine interface {
	Register(ctx context.Context, p collab.Peer, user session.UserSession)
	InitialState(p collab.Peer)
	RequestEdit(p collab.Peer)
	SubmitAction(p collab.Peer, a draft.Action)
	CompleteEdit(ctx context.Context, p collab.Peer)
	Disconnect(p collab.Peer)
}

// Conn handles one client connection: a blocking read loop that forwards
// typed messages to the engine, and a Send side used by broadcasts. It
// isolates the coordinator from raw I/O.
type Conn struct {
	id     uuid.UUID
	conn   net.Conn
	codec  *protocol.Codec
	logger zerolog.Logger

	closeOnce sync.Once
}

func newConn(nc net.Conn, logger zerolog.Logger) *Conn {
	id := uuid.New()
	return &Conn{
		id:     id,
		conn:   nc,
		codec:  protocol.NewCodec(nc),
		logger: logger.With().Str("conn_id", id.String()).Logger(),
	}
}

func (c *Conn) ID() uuid.UUID { return c.id }

// Send writes msg to the client. Safe for concurrent use.
func (c *Conn) Send(msg *protocol.Message) error {
	return c.codec.Write(msg)
}

// Close shuts the underlying connection, unblocking the read loop.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		_ = c.conn.Close()
	})
}

// serve runs the read loop until the client exits or the transport fails;
// either way the engine runs full disconnection handling exactly once.
func (c *Conn) serve(ctx context.Context, engine Engine) {
	defer engine.Disconnect(c)
	for {
		msg, err := c.codec.Read()
		if err != nil {
			c.logger.Debug().Err(err).Msg("connection read ended")
			return
		}
		if !c.handle(ctx, engine, msg) {
			return
		}
	}
}

// handle dispatches one inbound message. It returns false when the client
// announced an exit.
func (c *Conn) handle(ctx context.Context, engine Engine, msg *protocol.Message) bool {
	switch msg.Type {
	case protocol.TypeRegister:
		user, ok := msg.Data.(session.UserSession)
		if !ok {
			c.logger.Warn().Msg("REGISTER without session payload ignored")
			return true
		}
		user.Addr = remoteHost(c.conn)
		engine.Register(ctx, c, user)
	case protocol.TypeInitialState:
		engine.InitialState(c)
	case protocol.TypeEditRequest:
		engine.RequestEdit(c)
	case protocol.TypeEditAction:
		action, ok := msg.Data.(draft.Action)
		if !ok {
			c.logger.Warn().Msg("EDIT_ACTION without action payload ignored")
			return true
		}
		engine.SubmitAction(c, action)
	case protocol.TypeEditComplete:
		engine.CompleteEdit(ctx, c)
	case protocol.TypeExit:
		return false
	default:
		// Unrecognized types are ignored without a response.
		c.logger.Debug().Str("type", string(msg.Type)).Msg("unrecognized message type ignored")
	}
	return true
}

func remoteHost(nc net.Conn) string {
	addr := nc.RemoteAddr().String()
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
