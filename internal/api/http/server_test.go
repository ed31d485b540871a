package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/draftboard/draftboard/internal/application/collab"
	"github.com/draftboard/draftboard/internal/domain/draft"
	"github.com/draftboard/draftboard/internal/domain/session"
	"github.com/draftboard/draftboard/internal/domain/session/mocks"
	"github.com/draftboard/draftboard/internal/protocol"
)

type nullStore struct{}

func (nullStore) Save(context.Context, []draft.Action) error   { return nil }
func (nullStore) Load(context.Context) ([]draft.Action, error) { return nil, nil }

type nullPeer struct{ id uuid.UUID }

func (p nullPeer) ID() uuid.UUID              { return p.id }
func (nullPeer) Send(*protocol.Message) error { return nil }
func (nullPeer) Close()                       {}

func getJSON(t *testing.T, h http.Handler, path string) map[string]interface{} {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAdminEndpoints(t *testing.T) {
	dir := &mocks.MockDirectory{}
	dir.On("Lookup", mock.Anything, mock.Anything).Return(nil, nil)
	dir.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	dir.On("ListAll", mock.Anything).Return([]session.UserSession{
		{Username: "alice", StudentID: "s-001"},
	}, nil)

	svc := collab.NewService(draft.NewLog(nullStore{}), dir, 0, zerolog.Nop())
	p := nullPeer{id: uuid.New()}
	svc.Register(context.Background(), p, session.UserSession{Username: "alice", StudentID: "s-001"})
	svc.RequestEdit(p)

	router := NewServer(svc, dir).Router()

	body := getJSON(t, router, "/healthz")
	assert.Equal(t, "ok", body["status"])

	body = getJSON(t, router, "/v1/roster")
	assert.Equal(t, float64(1), body["online"])

	body = getJSON(t, router, "/v1/editor")
	assert.Equal(t, true, body["editing"])
	assert.Equal(t, "s-001", body["editor"])

	body = getJSON(t, router, "/v1/draft")
	assert.Equal(t, float64(0), body["committed"])

	body = getJSON(t, router, "/v1/directory")
	assert.Equal(t, float64(1), body["count"])
}
