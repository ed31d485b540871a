// Package collab is the collaboration coordinator: the single
// serialization point for session registration, the edit-lock protocol,
// operation handling and broadcasts. One mutex covers the session
// registry, the lock and the action log, so every request is validated,
// applied and broadcast as one atomic unit.
package collab

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/draftboard/draftboard/internal/domain/draft"
	"github.com/draftboard/draftboard/internal/domain/session"
	"github.com/draftboard/draftboard/internal/protocol"
)

// ErrEditingInProgress rejects a shutdown while a client holds the edit
// lock.
var ErrEditingInProgress = errors.New("cannot stop while a client is editing")

// Service coordinates all shared collaboration state.
type Service struct {
	mu   sync.Mutex
	hub  *hub
	log  *draft.Log
	lock draft.Lock

	directory session.Directory
	grace     time.Duration
	logger    zerolog.Logger
}

// NewService creates the coordinator. grace is how long shutdown waits for
// exit notices to flush before closing connections.
func NewService(log *draft.Log, directory session.Directory, grace time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		hub:       newHub(),
		log:       log,
		directory: directory,
		grace:     grace,
		logger:    logger.With().Str("service", "collab").Logger(),
	}
}

// Register adds p to the online set under user, refreshes the identity
// directory and broadcasts the new roster. A second connection for the
// same student ID replaces the first.
func (s *Service) Register(ctx context.Context, p Peer, user session.UserSession) {
	s.mu.Lock()
	defer s.mu.Unlock()

	known, err := s.directory.Lookup(ctx, user.StudentID)
	if err != nil {
		s.logger.Error().Err(err).Str("student_id", user.StudentID).Msg("directory lookup failed, registering in memory only")
	}
	if err := s.directory.Upsert(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("student_id", user.StudentID).Msg("directory upsert failed, registering in memory only")
	}

	if prev := s.hub.byStudentID(user.StudentID); prev != nil && prev.peer.ID() != p.ID() {
		s.hub.remove(prev.peer.ID())
		prev.peer.Close()
		s.logger.Info().Str("student_id", user.StudentID).Msg("replaced previous connection for identity")
	}
	s.hub.add(p, user)

	s.logger.Info().
		Str("student_id", user.StudentID).
		Str("username", user.Username).
		Bool("returning", known != nil).
		Int("online", s.hub.size()).
		Msg("session registered")
	s.broadcastRosterLocked()
}

// InitialState replies to p with the full reconstructable draft. Read-only:
// it never touches lock state.
func (s *Service) InitialState(p Peer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := &protocol.Message{Type: protocol.TypeInitialState, Data: s.log.CurrentState()}
	if err := p.Send(msg); err != nil {
		s.dropLocked([]uuid.UUID{p.ID()})
	}
}

// RequestEdit runs the single-writer gate: grant when free, otherwise
// reject with the current holder's identity.
func (s *Service) RequestEdit(p Peer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.hub.get(p.ID())
	if c == nil {
		return
	}

	granted, holder := s.lock.Acquire(c.user.StudentID)
	var reply *protocol.Message
	if granted {
		s.log.BeginTurn(c.user.StudentID)
		reply = &protocol.Message{Type: protocol.TypeEditGranted, Origin: c.user.StudentID}
		s.logger.Info().Str("student_id", c.user.StudentID).Msg("edit lock granted")
	} else {
		reply = &protocol.Message{Type: protocol.TypeEditRejected, Origin: holder}
		s.logger.Info().Str("student_id", c.user.StudentID).Str("holder", holder).Msg("edit lock rejected")
	}
	if err := c.peer.Send(reply); err != nil {
		s.dropLocked([]uuid.UUID{p.ID()})
	}
}

// SubmitAction applies an action from p: undo and redo markers drive the
// log's stacks, anything else is appended as content. Effective actions
// are broadcast to every other session; requests from a non-editor are
// silently ignored.
func (s *Service) SubmitAction(p Peer, a draft.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.hub.get(p.ID())
	if c == nil {
		return
	}

	switch a.Kind {
	case draft.KindUndo:
		if _, err := s.log.Undo(c.user.StudentID); err != nil {
			s.logger.Debug().Err(err).Str("student_id", c.user.StudentID).Msg("undo ignored")
			return
		}
	case draft.KindRedo:
		if _, err := s.log.Redo(c.user.StudentID); err != nil {
			s.logger.Debug().Err(err).Str("student_id", c.user.StudentID).Msg("redo ignored")
			return
		}
	default:
		if err := s.log.Append(a, c.user.StudentID); err != nil {
			s.logger.Debug().Err(err).Str("student_id", c.user.StudentID).Msg("action ignored")
			return
		}
	}

	msg := &protocol.Message{Type: protocol.TypeEditAction, Data: a, Origin: c.user.StudentID}
	s.dropLocked(s.hub.broadcastExcept(msg, p.ID()))
}

// CompleteEdit commits the editor's pending work to durable history, frees
// the lock and signals every session to refresh the draft. Only the lock
// holder may complete.
func (s *Service) CompleteEdit(ctx context.Context, p Peer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.hub.get(p.ID())
	if c == nil || !s.lock.HeldBy(c.user.StudentID) {
		return
	}

	if err := s.log.Commit(ctx); err != nil {
		// Durability is best-effort: the in-memory commit stands.
		s.logger.Error().Err(err).Msg("checkpoint write failed on commit")
	}
	s.lock.Release()
	s.logger.Info().
		Str("student_id", c.user.StudentID).
		Int("committed", s.log.CommittedLen()).
		Msg("edit committed")

	s.dropLocked(s.hub.broadcastAll(&protocol.Message{Type: protocol.TypeUpdateDraft}))
}

// Disconnect removes p from the online set, forcibly releasing the lock
// and discarding uncommitted work when p was the editor, then broadcasts
// the new roster. Safe to call more than once.
func (s *Service) Disconnect(p Peer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.hub.remove(p.ID())
	p.Close()
	if c == nil {
		return
	}
	s.releaseIfEditorLocked(c.user.StudentID)
	s.logger.Info().Str("student_id", c.user.StudentID).Int("online", s.hub.size()).Msg("session disconnected")
	s.broadcastRosterLocked()
}

// Shutdown broadcasts an exit notice, pauses so sends can flush, closes
// every connection and checkpoints the committed history. Refused while an
// editor is active unless force is set (OS-level termination cannot be
// told no); a forced shutdown discards the editor's uncommitted work.
func (s *Service) Shutdown(ctx context.Context, force bool) error {
	s.mu.Lock()
	if s.lock.Held() && !force {
		s.mu.Unlock()
		return ErrEditingInProgress
	}
	if s.lock.Held() {
		s.logger.Warn().Str("holder", s.lock.Holder()).Msg("forced shutdown while editing, uncommitted work discarded")
		s.lock.Release()
		s.log.Discard()
	}
	s.hub.broadcastAll(&protocol.Message{Type: protocol.TypeExit, Data: "server is shutting down"})
	peers := make([]Peer, 0, s.hub.size())
	for _, c := range s.hub.clients {
		peers = append(peers, c.peer)
	}
	s.hub = newHub()
	s.mu.Unlock()

	time.Sleep(s.grace)
	for _, p := range peers {
		p.Close()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.log.Checkpoint(ctx); err != nil {
		s.logger.Error().Err(err).Msg("final checkpoint failed")
		return err
	}
	s.logger.Info().Int("committed", s.log.CommittedLen()).Msg("shutdown complete")
	return nil
}

// Roster returns the online identities for the admin surface.
func (s *Service) Roster() []session.UserSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hub.roster()
}

// Editor returns the current lock holder's student ID, empty when free.
func (s *Service) Editor() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lock.Holder()
}

// Editing reports whether the edit lock is held.
func (s *Service) Editing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lock.Held()
}

// DraftStats reports history sizes for the admin surface.
func (s *Service) DraftStats() (committed, pending int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.CommittedLen(), s.log.PendingLen()
}

func (s *Service) releaseIfEditorLocked(studentID string) {
	if !s.lock.HeldBy(studentID) {
		return
	}
	s.lock.Release()
	dropped := s.log.PendingLen()
	s.log.Discard()
	s.logger.Warn().Str("student_id", studentID).Int("dropped_actions", dropped).Msg("editor left, edit lock released without commit")
}

func (s *Service) broadcastRosterLocked() {
	msg := &protocol.Message{Type: protocol.TypeUpdateUsers, Data: s.hub.roster()}
	s.dropLocked(s.hub.broadcastAll(msg))
}

// dropLocked disconnects peers whose delivery failed. Removing them
// changes the roster, which is itself broadcast; the loop runs until a
// roster broadcast reaches everyone still connected.
func (s *Service) dropLocked(ids []uuid.UUID) {
	for len(ids) > 0 {
		removed := false
		for _, id := range ids {
			c := s.hub.remove(id)
			if c == nil {
				continue
			}
			removed = true
			s.releaseIfEditorLocked(c.user.StudentID)
			c.peer.Close()
			s.logger.Info().Str("student_id", c.user.StudentID).Msg("session dropped after failed delivery")
		}
		if !removed {
			return
		}
		msg := &protocol.Message{Type: protocol.TypeUpdateUsers, Data: s.hub.roster()}
		ids = s.hub.broadcastAll(msg)
	}
}
