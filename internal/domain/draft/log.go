package draft

import (
	"context"
	"errors"
)

var (
	ErrNotEditor     = errors.New("session is not the current editor")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Checkpointer persists the committed history. Implementations replace the
// stored snapshot wholesale on every save.
type Checkpointer interface {
	Save(ctx context.Context, committed []Action) error
	Load(ctx context.Context) ([]Action, error)
}

// Log is the append-only action history plus the active editor's uncommitted
// working set. It is not safe for concurrent use; the coordinator serializes
// all access.
type Log struct {
	store Checkpointer

	committed []Action
	pending   []Action
	undoStack []Action
	redoStack []Action

	// editor is the student ID of the session whose turn is open, empty
	// when the lock is free. Only that session may touch pending and the
	// stacks.
	editor string
}

// NewLog creates an empty log backed by store.
func NewLog(store Checkpointer) *Log {
	return &Log{store: store}
}

// Restore loads the committed history from the checkpoint store.
func (l *Log) Restore(ctx context.Context) error {
	committed, err := l.store.Load(ctx)
	if err != nil {
		return err
	}
	l.committed = committed
	return nil
}

// BeginTurn opens an editing turn for editor. Any previous uncommitted
// state is discarded first.
func (l *Log) BeginTurn(editor string) {
	l.discard()
	l.editor = editor
}

// Editor returns the student ID of the open turn, empty when none.
func (l *Log) Editor() string {
	return l.editor
}

// Append records a content action for the current editor. Appending new
// work invalidates any redo history.
func (l *Log) Append(a Action, by string) error {
	if l.editor == "" || by != l.editor {
		return ErrNotEditor
	}
	l.pending = append(l.pending, a)
	l.redoStack = nil
	return nil
}

// Undo removes the editor's most recent pending action. The undone action
// lands on both stacks: the undo stack keeps the turn's audit of undone
// work, the redo stack makes it re-appliable.
func (l *Log) Undo(by string) (Action, error) {
	if l.editor == "" || by != l.editor {
		return Action{}, ErrNotEditor
	}
	if len(l.pending) == 0 {
		return Action{}, ErrNothingToUndo
	}
	last := l.pending[len(l.pending)-1]
	l.pending = l.pending[:len(l.pending)-1]
	l.undoStack = append(l.undoStack, last)
	l.redoStack = append(l.redoStack, last)
	return last, nil
}

// Redo re-applies the most recently undone action.
func (l *Log) Redo(by string) (Action, error) {
	if l.editor == "" || by != l.editor {
		return Action{}, ErrNotEditor
	}
	if len(l.redoStack) == 0 {
		return Action{}, ErrNothingToRedo
	}
	top := l.redoStack[len(l.redoStack)-1]
	l.redoStack = l.redoStack[:len(l.redoStack)-1]
	l.pending = append(l.pending, top)
	return top, nil
}

// Commit moves pending onto committed in order, persists the snapshot and
// closes the turn. A checkpoint write failure is returned but the in-memory
// commit stands; durability is best-effort.
func (l *Log) Commit(ctx context.Context) error {
	l.committed = append(l.committed, l.pending...)
	l.pending = nil
	l.undoStack = nil
	l.redoStack = nil
	l.editor = ""
	return l.store.Save(ctx, l.committed)
}

// Discard drops the open turn's uncommitted state without committing.
// Used when the editor disconnects.
func (l *Log) Discard() {
	l.discard()
}

func (l *Log) discard() {
	l.pending = nil
	l.undoStack = nil
	l.redoStack = nil
	l.editor = ""
}

// CurrentState returns committed followed by pending: the full
// reconstructable draft as of now.
func (l *Log) CurrentState() []Action {
	state := make([]Action, 0, len(l.committed)+len(l.pending))
	state = append(state, l.committed...)
	state = append(state, l.pending...)
	return state
}

// Checkpoint persists the committed history without touching the open turn.
func (l *Log) Checkpoint(ctx context.Context) error {
	return l.store.Save(ctx, l.committed)
}

// Clear empties the whole history and persists the empty state. Full reset
// only; not part of normal client flows.
func (l *Log) Clear(ctx context.Context) error {
	l.committed = nil
	l.discard()
	return l.store.Save(ctx, l.committed)
}

// CommittedLen and PendingLen report history sizes for the admin surface.
func (l *Log) CommittedLen() int { return len(l.committed) }

func (l *Log) PendingLen() int { return len(l.pending) }

// UndoDepth and RedoDepth report stack sizes.
func (l *Log) UndoDepth() int { return len(l.undoStack) }

func (l *Log) RedoDepth() int { return len(l.redoStack) }
