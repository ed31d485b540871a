// Package protocol defines the wire envelope exchanged between clients and
// the server: a gob stream of Message values over one persistent, ordered
// connection per session.
package protocol

import (
	"encoding/gob"

	"github.com/draftboard/draftboard/internal/domain/draft"
	"github.com/draftboard/draftboard/internal/domain/session"
)

// Type discriminates protocol messages.
type Type string

const (
	// client -> server
	TypeRegister     Type = "REGISTER"
	TypeInitialState Type = "INITIAL_STATE"
	TypeEditRequest  Type = "EDIT_REQUEST"
	TypeEditAction   Type = "EDIT_ACTION"
	TypeEditComplete Type = "EDIT_COMPLETE"
	TypeExit         Type = "EXIT"

	// server -> client
	TypeUpdateUsers  Type = "UPDATE_USERS"
	TypeEditGranted  Type = "EDIT_GRANTED"
	TypeEditRejected Type = "EDIT_REJECTED"
	TypeUpdateDraft  Type = "UPDATE_DRAFT"
)

// Message is the single wire envelope. Data's concrete type depends on
// Type; Origin carries the identity the message speaks for, when any.
type Message struct {
	Type   Type
	Data   any
	Origin string
}

func init() {
	gob.Register(session.UserSession{})
	gob.Register([]session.UserSession{})
	gob.Register(draft.Action{})
	gob.Register([]draft.Action{})
	gob.Register("")
}
