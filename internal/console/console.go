// Package console is the operator control surface: a line-oriented
// command listener, normally attached to stdin.
package console

import (
	"bufio"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Listener reads operator commands and invokes stop on "stop server".
// stop may refuse (a client is editing); the listener then keeps reading.
type Listener struct {
	in     io.Reader
	stop   func() error
	logger zerolog.Logger
}

func New(in io.Reader, stop func() error, logger zerolog.Logger) *Listener {
	return &Listener{
		in:     in,
		stop:   stop,
		logger: logger.With().Str("component", "console").Logger(),
	}
}

// Run blocks until a stop command is accepted or the input ends.
func (l *Listener) Run() {
	scanner := bufio.NewScanner(l.in)
	for scanner.Scan() {
		cmd := strings.ToLower(strings.TrimSpace(scanner.Text()))
		switch cmd {
		case "":
		case "stop server":
			if err := l.stop(); err != nil {
				l.logger.Warn().Err(err).Msg("stop refused")
				continue
			}
			return
		default:
			l.logger.Info().Str("command", cmd).Msg("unknown console command")
		}
	}
}
