package console

import (
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestStopCommandInvokesStop(t *testing.T) {
	calls := 0
	l := New(strings.NewReader("Stop Server\n"), func() error {
		calls++
		return nil
	}, zerolog.Nop())

	l.Run()
	assert.Equal(t, 1, calls)
}

func TestStopRefusedKeepsListening(t *testing.T) {
	calls := 0
	l := New(strings.NewReader("stop server\nstop server\n"), func() error {
		calls++
		if calls == 1 {
			return errors.New("cannot stop while a client is editing")
		}
		return nil
	}, zerolog.Nop())

	l.Run()
	assert.Equal(t, 2, calls)
}

func TestUnknownCommandsIgnored(t *testing.T) {
	calls := 0
	l := New(strings.NewReader("status\n\nshutdown please\n"), func() error {
		calls++
		return nil
	}, zerolog.Nop())

	l.Run()
	assert.Equal(t, 0, calls, "only 'stop server' may stop the process")
}
