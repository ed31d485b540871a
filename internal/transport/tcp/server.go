// Package tcp accepts client connections and runs one handler goroutine
// per connection, each blocked on its connection's next inbound message.
package tcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/rs/zerolog"
)

// Server owns the listening endpoint.
type Server struct {
	engine Engine
	logger zerolog.Logger

	ln net.Listener
	wg sync.WaitGroup
}

// NewServer creates a server dispatching into engine.
func NewServer(engine Engine, logger zerolog.Logger) *Server {
	return &Server{
		engine: engine,
		logger: logger.With().Str("component", "tcp").Logger(),
	}
}

// Listen binds addr. Failing to acquire the endpoint is fatal to startup,
// so this is separate from Serve.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.ln = ln
	s.logger.Info().Str("addr", ln.Addr().String()).Msg("listening for clients")
	return nil
}

// Addr returns the bound address.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Serve accepts connections until the listener is closed.
func (s *Server) Serve(ctx context.Context) error {
	for {
		nc, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		c := newConn(nc, s.logger)
		s.logger.Info().Str("remote", nc.RemoteAddr().String()).Msg("client connected")
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			c.serve(ctx, s.engine)
		}()
	}
}

// Shutdown stops accepting and waits for handlers to drain. Connections
// themselves are closed by the coordinator's shutdown path.
func (s *Server) Shutdown() {
	if s.ln != nil {
		_ = s.ln.Close()
	}
	s.wg.Wait()
}
