package protocol

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftboard/draftboard/internal/domain/draft"
	"github.com/draftboard/draftboard/internal/domain/session"
)

func TestCodecStreamRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	c := NewCodec(&buf)

	reg := &Message{
		Type: TypeRegister,
		Data: session.UserSession{Username: "alice", StudentID: "s-001", Addr: "10.0.0.1"},
	}
	act := &Message{
		Type:   TypeEditAction,
		Data:   draft.NewContent("line", []byte(`{"x":1}`), "alice"),
		Origin: "s-001",
	}
	require.NoError(t, c.Write(reg))
	require.NoError(t, c.Write(act))

	got, err := c.Read()
	require.NoError(t, err)
	assert.Equal(t, TypeRegister, got.Type)
	u, ok := got.Data.(session.UserSession)
	require.True(t, ok, "REGISTER data should decode as UserSession")
	assert.Equal(t, "s-001", u.StudentID)

	got, err = c.Read()
	require.NoError(t, err)
	assert.Equal(t, TypeEditAction, got.Type)
	assert.Equal(t, "s-001", got.Origin)
	a, ok := got.Data.(draft.Action)
	require.True(t, ok, "EDIT_ACTION data should decode as Action")
	assert.Equal(t, draft.KindContent, a.Kind)
	assert.Equal(t, []byte(`{"x":1}`), a.Payload)
}

func TestCodecReadOnClosedStream(t *testing.T) {
	c := NewCodec(&bytes.Buffer{})
	_, err := c.Read()
	require.Error(t, err, "empty stream reads as EOF, the implicit exit signal")
}
