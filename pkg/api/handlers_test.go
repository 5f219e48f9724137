package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/quill/pkg/access"
	"github.com/quillhq/quill/pkg/directory"
	"github.com/quillhq/quill/pkg/documents"
	"github.com/quillhq/quill/pkg/identity"
	"github.com/quillhq/quill/pkg/observability"
	"github.com/quillhq/quill/pkg/rooms"
	"github.com/quillhq/quill/pkg/views"
)

// fakeStore is a minimal in-memory rooms.Store
type fakeStore struct {
	rooms    map[string]*rooms.Room
	failWith error
}

func (f *fakeStore) CreateRoom(ctx context.Context, params rooms.CreateRoomParams) (*rooms.Room, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if _, exists := f.rooms[params.ID]; exists {
		return nil, &rooms.ConflictError{RoomID: params.ID}
	}
	room := &rooms.Room{
		ID:              params.ID,
		Metadata:        params.Metadata,
		UsersAccesses:   params.UsersAccesses,
		DefaultAccesses: params.DefaultAccesses,
	}
	f.rooms[params.ID] = room
	return room, nil
}

func (f *fakeStore) GetRoom(ctx context.Context, roomID string) (*rooms.Room, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	room, exists := f.rooms[roomID]
	if !exists {
		return nil, &rooms.NotFoundError{RoomID: roomID}
	}
	return room, nil
}

func (f *fakeStore) UpdateRoom(ctx context.Context, roomID string, update rooms.RoomUpdate) (*rooms.Room, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	room, exists := f.rooms[roomID]
	if !exists {
		return nil, &rooms.NotFoundError{RoomID: roomID}
	}
	for k, v := range update.Metadata {
		room.Metadata[k] = v
	}
	if update.UsersAccesses != nil {
		room.UsersAccesses = update.UsersAccesses
	}
	if update.DefaultAccesses != nil {
		room.DefaultAccesses = *update.DefaultAccesses
	}
	return room, nil
}

func (f *fakeStore) DeleteRoom(ctx context.Context, roomID string) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, exists := f.rooms[roomID]; !exists {
		return &rooms.NotFoundError{RoomID: roomID}
	}
	delete(f.rooms, roomID)
	return nil
}

type fakeDirectory struct {
	records []directory.UserRecord
}

func (f *fakeDirectory) LookupByIDs(ctx context.Context, ids []string) ([]directory.UserRecord, error) {
	return f.records, nil
}

func (f *fakeDirectory) LookupByEmails(ctx context.Context, emails []string) ([]directory.UserRecord, error) {
	return f.records, nil
}

type apiEnv struct {
	server *Server
	store  *fakeStore
	dir    *fakeDirectory
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()

	store := &fakeStore{rooms: make(map[string]*rooms.Room)}
	dir := &fakeDirectory{}
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)
	service := documents.NewService(
		store,
		directory.NewResolver(dir),
		views.Nop{},
		logger,
		observability.NewMetrics(prometheus.NewRegistry()),
	)

	return &apiEnv{
		server: NewServer(service, logger, nil),
		store:  store,
		dir:    dir,
	}
}

// do issues a request as the given principal; a nil principal means
// unauthenticated
func (e *apiEnv) do(t *testing.T, method, path string, body interface{}, p *identity.Principal) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	r := httptest.NewRequest(method, path, &buf)
	if p != nil {
		r = r.WithContext(identity.WithPrincipal(r.Context(), p))
	}

	w := httptest.NewRecorder()
	e.server.ServeHTTP(w, r)
	return w
}

var alice = &identity.Principal{UserID: "user_alice", Email: "alice@x.com", Name: "Alice"}

func (e *apiEnv) createDocument(t *testing.T, p *identity.Principal) DocumentResponse {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/documents", nil, p)
	require.Equal(t, http.StatusCreated, w.Code)

	var doc DocumentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	return doc
}

func TestCreateDocument(t *testing.T) {
	t.Run("creates untitled document for caller", func(t *testing.T) {
		env := newAPIEnv(t)

		doc := env.createDocument(t, alice)
		assert.NotEmpty(t, doc.ID)
		assert.Equal(t, rooms.DefaultTitle, doc.Title)
		assert.Equal(t, "user_alice", doc.CreatorID)
		assert.Equal(t, "alice@x.com", doc.CreatorEmail)
	})

	t.Run("requires authentication", func(t *testing.T) {
		env := newAPIEnv(t)

		w := env.do(t, http.MethodPost, "/api/documents", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("maps upstream unavailability to 503", func(t *testing.T) {
		env := newAPIEnv(t)
		env.store.failWith = &rooms.UnavailableError{Op: "create room", Err: fmt.Errorf("down")}

		w := env.do(t, http.MethodPost, "/api/documents", nil, alice)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestGetDocument(t *testing.T) {
	t.Run("returns document with derived role", func(t *testing.T) {
		env := newAPIEnv(t)
		created := env.createDocument(t, alice)

		w := env.do(t, http.MethodGet, "/api/documents/"+created.ID, nil, alice)
		require.Equal(t, http.StatusOK, w.Code)

		var doc DocumentResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
		assert.Equal(t, created.ID, doc.ID)
		assert.Equal(t, access.RoleEditor, doc.Role)
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		env := newAPIEnv(t)

		w := env.do(t, http.MethodGet, "/api/documents/missing", nil, alice)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("caller without access is 403", func(t *testing.T) {
		env := newAPIEnv(t)
		created := env.createDocument(t, alice)

		// close the room to unlisted users
		room := env.store.rooms[created.ID]
		room.DefaultAccesses = access.List{}

		stranger := &identity.Principal{UserID: "user_s", Email: "stranger@z.com"}
		w := env.do(t, http.MethodGet, "/api/documents/"+created.ID, nil, stranger)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestUpdateDocument(t *testing.T) {
	t.Run("renames the document", func(t *testing.T) {
		env := newAPIEnv(t)
		created := env.createDocument(t, alice)

		w := env.do(t, http.MethodPatch, "/api/documents/"+created.ID, UpdateTitleRequest{Title: "Launch Plan"}, alice)
		require.Equal(t, http.StatusOK, w.Code)

		var doc DocumentResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
		assert.Equal(t, "Launch Plan", doc.Title)
		assert.Equal(t, "alice@x.com", doc.CreatorEmail)
	})

	t.Run("empty title is 400", func(t *testing.T) {
		env := newAPIEnv(t)
		created := env.createDocument(t, alice)

		w := env.do(t, http.MethodPatch, "/api/documents/"+created.ID, UpdateTitleRequest{}, alice)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		env := newAPIEnv(t)

		w := env.do(t, http.MethodPatch, "/api/documents/missing", UpdateTitleRequest{Title: "x"}, alice)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteDocument(t *testing.T) {
	t.Run("delete is terminal", func(t *testing.T) {
		env := newAPIEnv(t)
		created := env.createDocument(t, alice)

		w := env.do(t, http.MethodDelete, "/api/documents/"+created.ID, nil, alice)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = env.do(t, http.MethodGet, "/api/documents/"+created.ID, nil, alice)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = env.do(t, http.MethodDelete, "/api/documents/"+created.ID, nil, alice)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListMembersEndpoint(t *testing.T) {
	t.Run("excludes the caller and filters by search", func(t *testing.T) {
		env := newAPIEnv(t)
		created := env.createDocument(t, alice)

		room := env.store.rooms[created.ID]
		room.UsersAccesses["bob@y.com"] = access.EditorAccess()
		room.UsersAccesses["carol@y.com"] = access.ViewerAccess()

		w := env.do(t, http.MethodGet, "/api/documents/"+created.ID+"/members", nil, alice)
		require.Equal(t, http.StatusOK, w.Code)

		var resp MembersResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []string{"bob@y.com", "carol@y.com"}, resp.Emails)

		w = env.do(t, http.MethodGet, "/api/documents/"+created.ID+"/members?search=CAROL", nil, alice)
		require.Equal(t, http.StatusOK, w.Code)

		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, []string{"carol@y.com"}, resp.Emails)
	})
}

func TestListUsersEndpoint(t *testing.T) {
	t.Run("returns hydrated members", func(t *testing.T) {
		env := newAPIEnv(t)
		created := env.createDocument(t, alice)
		env.dir.records = []directory.UserRecord{
			{ID: "user_alice", Name: "Alice", Email: "alice@x.com", Avatar: "https://img/a.png"},
		}

		w := env.do(t, http.MethodGet, "/api/documents/"+created.ID+"/users", nil, alice)
		require.Equal(t, http.StatusOK, w.Code)

		var resp UsersResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Users, 1)
		assert.Equal(t, "Alice", resp.Users[0].Name)
		assert.Equal(t, access.RoleEditor, resp.Users[0].Role)
	})
}
