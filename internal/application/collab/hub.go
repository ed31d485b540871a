package collab

import (
	"github.com/google/uuid"

	"github.com/draftboard/draftboard/internal/domain/session"
	"github.com/draftboard/draftboard/internal/protocol"
)

// Peer is the outbound side of one connected session. Implementations
// must allow Send and Close from any goroutine.
type Peer interface {
	ID() uuid.UUID
	Send(msg *protocol.Message) error
	Close()
}

// client couples a peer with its registered identity.
type client struct {
	peer Peer
	user session.UserSession
}

// hub is the session registry and broadcast fabric. It carries no lock of
// its own: every access happens under the coordinator's mutex.
type hub struct {
	clients map[uuid.UUID]*client
}

func newHub() *hub {
	return &hub{clients: make(map[uuid.UUID]*client)}
}

func (h *hub) add(p Peer, user session.UserSession) {
	h.clients[p.ID()] = &client{peer: p, user: user}
}

func (h *hub) remove(id uuid.UUID) *client {
	c, ok := h.clients[id]
	if !ok {
		return nil
	}
	delete(h.clients, id)
	return c
}

func (h *hub) get(id uuid.UUID) *client {
	return h.clients[id]
}

// byStudentID returns the connected client registered under studentID.
func (h *hub) byStudentID(studentID string) *client {
	for _, c := range h.clients {
		if c.user.StudentID == studentID {
			return c
		}
	}
	return nil
}

// roster snapshots the online identities, deduplicated by student ID.
func (h *hub) roster() []session.UserSession {
	seen := make(map[string]struct{}, len(h.clients))
	users := make([]session.UserSession, 0, len(h.clients))
	for _, c := range h.clients {
		if _, ok := seen[c.user.StudentID]; ok {
			continue
		}
		seen[c.user.StudentID] = struct{}{}
		users = append(users, c.user)
	}
	return users
}

func (h *hub) size() int {
	return len(h.clients)
}

// broadcastAll delivers msg to every client, best effort, and returns the
// IDs of clients whose send failed.
func (h *hub) broadcastAll(msg *protocol.Message) []uuid.UUID {
	return h.broadcastExcept(msg, uuid.Nil)
}

// broadcastExcept is broadcastAll minus the originating client.
func (h *hub) broadcastExcept(msg *protocol.Message, origin uuid.UUID) []uuid.UUID {
	var failed []uuid.UUID
	for id, c := range h.clients {
		if id == origin {
			continue
		}
		if err := c.peer.Send(msg); err != nil {
			failed = append(failed, id)
		}
	}
	return failed
}
