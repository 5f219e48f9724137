package documents

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/quillhq/quill/pkg/access"
	"github.com/quillhq/quill/pkg/directory"
	"github.com/quillhq/quill/pkg/observability"
	"github.com/quillhq/quill/pkg/rooms"
	"github.com/quillhq/quill/pkg/views"
)

// Service orchestrates document lifecycle operations over the room
// store, the directory resolver and the view invalidator. All
// collaborators are injected; the service holds no ambient globals.
type Service struct {
	store       rooms.Store
	resolver    *directory.Resolver
	invalidator views.Invalidator
	logger      *observability.Logger
	metrics     *observability.Metrics

	newRoomID func() string
}

// NewService creates a document service
func NewService(store rooms.Store, resolver *directory.Resolver, invalidator views.Invalidator, logger *observability.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		store:       store,
		resolver:    resolver,
		invalidator: invalidator,
		logger:      logger,
		metrics:     metrics,
		newRoomID:   uuid.NewString,
	}
}

// Create provisions a new document room owned by the given user. The
// owner is always an editor; defaultAccesses also grants write so a
// shared link is editable until the owner tightens the access list.
func (s *Service) Create(ctx context.Context, ownerID, ownerEmail string) (*rooms.Room, error) {
	if ownerID == "" {
		return nil, &rooms.ValidationError{Field: "ownerId", Reason: "must not be empty"}
	}
	if ownerEmail == "" {
		return nil, &rooms.ValidationError{Field: "ownerEmail", Reason: "must not be empty"}
	}

	params := rooms.CreateRoomParams{
		ID: s.newRoomID(),
		Metadata: map[string]string{
			rooms.MetaCreatorID:    ownerID,
			rooms.MetaCreatorEmail: ownerEmail,
			rooms.MetaTitle:        rooms.DefaultTitle,
		},
		UsersAccesses: map[string]access.List{
			ownerEmail: access.EditorAccess(),
		},
		DefaultAccesses: access.EditorAccess(),
	}

	start := time.Now()
	room, err := s.store.CreateRoom(ctx, params)
	s.metrics.ObserveRoomOperation("create", err, time.Since(start))
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"room_id": room.ID,
		"creator": ownerEmail,
	}).Info("document created")

	s.invalidateListing(ctx)
	return room, nil
}

// Get fetches a room and derives the caller's effective role. A caller
// with neither a listed access nor a default grant is rejected.
func (s *Service) Get(ctx context.Context, roomID, callerEmail string) (*rooms.Room, access.Role, error) {
	start := time.Now()
	room, err := s.store.GetRoom(ctx, roomID)
	s.metrics.ObserveRoomOperation("get", err, time.Since(start))
	if err != nil {
		return nil, "", err
	}

	role, ok := room.RoleFor(callerEmail)
	if !ok {
		return nil, "", &rooms.AccessDeniedError{RoomID: roomID, Email: callerEmail}
	}

	return room, role, nil
}

// UpdateTitle renames a document. Only the title metadata key is sent;
// creator identity and access lists are untouched by construction.
func (s *Service) UpdateTitle(ctx context.Context, roomID, title string) (*rooms.Room, error) {
	start := time.Now()
	room, err := s.store.UpdateRoom(ctx, roomID, rooms.RoomUpdate{
		Metadata: map[string]string{rooms.MetaTitle: title},
	})
	s.metrics.ObserveRoomOperation("update", err, time.Since(start))
	if err != nil {
		return nil, err
	}

	s.invalidateRoomView(ctx, roomID)
	return room, nil
}

// Delete removes a document room. Terminal: subsequent operations on the
// id report not-found, including a repeated delete.
func (s *Service) Delete(ctx context.Context, roomID string) error {
	start := time.Now()
	err := s.store.DeleteRoom(ctx, roomID)
	s.metrics.ObserveRoomOperation("delete", err, time.Since(start))
	if err != nil {
		return err
	}

	s.logger.WithField("room_id", roomID).Info("document deleted")

	s.invalidateRoomView(ctx, roomID)
	s.invalidateListing(ctx)
	return nil
}

// invalidateRoomView signals staleness of one room's rendered view.
// Failures are logged and dropped: the room mutation already succeeded
// and a stale view heals on the next invalidation.
func (s *Service) invalidateRoomView(ctx context.Context, roomID string) {
	err := s.invalidator.InvalidateRoom(ctx, roomID)
	s.metrics.ObserveViewInvalidation("room", err)
	if err != nil {
		s.logger.WithError(err).WithField("room_id", roomID).Warn("failed to invalidate room view")
	}
}

// invalidateListing signals staleness of the aggregate document listing
func (s *Service) invalidateListing(ctx context.Context) {
	err := s.invalidator.InvalidateListing(ctx)
	s.metrics.ObserveViewInvalidation("listing", err)
	if err != nil {
		s.logger.WithError(err).Warn("failed to invalidate listing view")
	}
}
