package rooms

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quillhq/quill/pkg/access"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresStore implements Store against a local Postgres database for
// self-hosted deployments that run without the hosted collaboration
// backend. The realtime sync channel is out of scope here; only room
// access and metadata records are persisted.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a Postgres-backed room store
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// CreateRoom inserts a new room record. A duplicate id is reported as a
// ConflictError via the conditional insert, never by racing a prior read.
func (s *PostgresStore) CreateRoom(ctx context.Context, params CreateRoomParams) (*Room, error) {
	if params.ID == "" {
		return nil, &ValidationError{Field: "roomId", Reason: "must not be empty"}
	}

	metadata, usersAccesses, defaultAccesses, err := encodeRoomFields(params.Metadata, params.UsersAccesses, params.DefaultAccesses)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO rooms (id, metadata, users_accesses, default_accesses, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (id) DO NOTHING
	`
	result, err := s.db.ExecContext(ctx, query, params.ID, metadata, usersAccesses, defaultAccesses)
	if err != nil {
		return nil, &UnavailableError{Op: "create room", Err: err}
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, &UnavailableError{Op: "create room", Err: err}
	}
	if rowsAffected == 0 {
		return nil, &ConflictError{RoomID: params.ID}
	}

	return s.GetRoom(ctx, params.ID)
}

// GetRoom fetches a room record by id
func (s *PostgresStore) GetRoom(ctx context.Context, roomID string) (*Room, error) {
	if roomID == "" {
		return nil, &ValidationError{Field: "roomId", Reason: "must not be empty"}
	}

	query := `
		SELECT id, metadata, users_accesses, default_accesses, created_at, updated_at
		FROM rooms
		WHERE id = $1
	`
	var (
		room                 Room
		metadataRaw          []byte
		usersAccessesRaw     []byte
		defaultAccessesRaw   []byte
		createdAt, updatedAt time.Time
	)
	err := s.db.QueryRowContext(ctx, query, roomID).Scan(
		&room.ID, &metadataRaw, &usersAccessesRaw, &defaultAccessesRaw, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{RoomID: roomID}
	}
	if err != nil {
		return nil, &UnavailableError{Op: "get room", Err: err}
	}

	if err := decodeRoomFields(&room, metadataRaw, usersAccessesRaw, defaultAccessesRaw); err != nil {
		return nil, err
	}
	room.CreatedAt = createdAt
	room.UpdatedAt = updatedAt

	return &room, nil
}

// UpdateRoom merges the supplied fields into the stored record. Metadata
// keys are merged with jsonb concatenation so unspecified keys survive.
func (s *PostgresStore) UpdateRoom(ctx context.Context, roomID string, update RoomUpdate) (*Room, error) {
	if roomID == "" {
		return nil, &ValidationError{Field: "roomId", Reason: "must not be empty"}
	}

	query := `
		UPDATE rooms
		SET metadata = metadata || COALESCE($2::jsonb, '{}'::jsonb),
		    users_accesses = COALESCE($3::jsonb, users_accesses),
		    default_accesses = COALESCE($4::jsonb, default_accesses),
		    updated_at = NOW()
		WHERE id = $1
	`

	var metadataArg, usersAccessesArg, defaultAccessesArg interface{}
	if update.Metadata != nil {
		data, err := json.Marshal(update.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to encode metadata: %w", err)
		}
		metadataArg = data
	}
	if update.UsersAccesses != nil {
		data, err := json.Marshal(update.UsersAccesses)
		if err != nil {
			return nil, fmt.Errorf("failed to encode users accesses: %w", err)
		}
		usersAccessesArg = data
	}
	if update.DefaultAccesses != nil {
		data, err := json.Marshal(update.DefaultAccesses)
		if err != nil {
			return nil, fmt.Errorf("failed to encode default accesses: %w", err)
		}
		defaultAccessesArg = data
	}

	result, err := s.db.ExecContext(ctx, query, roomID, metadataArg, usersAccessesArg, defaultAccessesArg)
	if err != nil {
		return nil, &UnavailableError{Op: "update room", Err: err}
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, &UnavailableError{Op: "update room", Err: err}
	}
	if rowsAffected == 0 {
		return nil, &NotFoundError{RoomID: roomID}
	}

	return s.GetRoom(ctx, roomID)
}

// DeleteRoom removes a room record. Deleting an absent room reports
// NotFoundError so a repeated delete stays observable but harmless.
func (s *PostgresStore) DeleteRoom(ctx context.Context, roomID string) error {
	if roomID == "" {
		return &ValidationError{Field: "roomId", Reason: "must not be empty"}
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, roomID)
	if err != nil {
		return &UnavailableError{Op: "delete room", Err: err}
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return &UnavailableError{Op: "delete room", Err: err}
	}
	if rowsAffected == 0 {
		return &NotFoundError{RoomID: roomID}
	}

	return nil
}

// encodeRoomFields marshals the jsonb columns for insert
func encodeRoomFields(metadata map[string]string, usersAccesses map[string]access.List, defaultAccesses access.List) ([]byte, []byte, []byte, error) {
	metadataRaw, err := json.Marshal(metadata)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode metadata: %w", err)
	}
	usersAccessesRaw, err := json.Marshal(usersAccesses)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode users accesses: %w", err)
	}
	defaultAccessesRaw, err := json.Marshal(defaultAccesses)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode default accesses: %w", err)
	}
	return metadataRaw, usersAccessesRaw, defaultAccessesRaw, nil
}

// decodeRoomFields unmarshals the jsonb columns into a Room
func decodeRoomFields(room *Room, metadataRaw, usersAccessesRaw, defaultAccessesRaw []byte) error {
	if err := json.Unmarshal(metadataRaw, &room.Metadata); err != nil {
		return fmt.Errorf("failed to decode metadata: %w", err)
	}
	if err := json.Unmarshal(usersAccessesRaw, &room.UsersAccesses); err != nil {
		return fmt.Errorf("failed to decode users accesses: %w", err)
	}
	if err := json.Unmarshal(defaultAccessesRaw, &room.DefaultAccesses); err != nil {
		return fmt.Errorf("failed to decode default accesses: %w", err)
	}
	return nil
}
