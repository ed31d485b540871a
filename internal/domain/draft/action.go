package draft

import (
	"time"

	"github.com/google/uuid"
)

// Kind discriminates edit actions. The engine interprets only the two
// control kinds; everything else is opaque content replayed verbatim.
type Kind string

const (
	KindUndo    Kind = "UNDO"
	KindRedo    Kind = "REDO"
	KindContent Kind = "CONTENT"
)

// Action is one edit operation in the draft history.
type Action struct {
	ActionID uuid.UUID `json:"actionId"`
	Kind     Kind      `json:"kind"`
	// Shape identifies the content variant (line, rect, freehand, ...).
	// Opaque to the engine.
	Shape   string    `json:"shape,omitempty"`
	Payload []byte    `json:"payload,omitempty"`
	Author  string    `json:"author,omitempty"`
	At      time.Time `json:"at"`
}

// NewContent builds an ordinary content action.
func NewContent(shape string, payload []byte, author string) Action {
	return Action{
		ActionID: uuid.New(),
		Kind:     KindContent,
		Shape:    shape,
		Payload:  payload,
		Author:   author,
		At:       time.Now().UTC(),
	}
}

// NewUndoMarker builds the reserved undo control action.
func NewUndoMarker(author string) Action {
	return Action{ActionID: uuid.New(), Kind: KindUndo, Author: author, At: time.Now().UTC()}
}

// NewRedoMarker builds the reserved redo control action.
func NewRedoMarker(author string) Action {
	return Action{ActionID: uuid.New(), Kind: KindRedo, Author: author, At: time.Now().UTC()}
}

// IsControl reports whether the action is an undo or redo marker rather
// than content.
func (a Action) IsControl() bool {
	return a.Kind == KindUndo || a.Kind == KindRedo
}
