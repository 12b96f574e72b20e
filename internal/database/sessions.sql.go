package database

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

const createSession = `-- name: CreateSession :one
INSERT INTO sessions (id, status)
VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET updated_at = CURRENT_TIMESTAMP
RETURNING id, status, created_at, updated_at
`

type CreateSessionParams struct {
	ID     uuid.UUID
	Status string
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) (Session, error) {
	row := q.db.QueryRowContext(ctx, createSession, arg.ID, arg.Status)
	var i Session
	err := row.Scan(
		&i.ID,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateSessionStatus = `-- name: UpdateSessionStatus :exec
UPDATE sessions 
SET status=$1, updated_at = CURRENT_TIMESTAMP
WHERE id=$2
`

type UpdateSessionStatusParams struct {
	Status string
	ID     uuid.UUID
}

func (q *Queries) UpdateSessionStatus(ctx context.Context, arg UpdateSessionStatusParams) error {
	_, err := q.db.ExecContext(ctx, updateSessionStatus, arg.Status, arg.ID)
	return err
}

const upsertSessionSnapshot = `-- name: UpsertSessionSnapshot :exec
INSERT INTO session_snapshots (session_id, key, data)
VALUES ($1, $2, $3)
ON CONFLICT (session_id, key)
DO UPDATE SET
    data = EXCLUDED.data,
    updated_at = CURRENT_TIMESTAMP
`

type UpsertSessionSnapshotParams struct {
	SessionID uuid.UUID
	Key       string
	Data      json.RawMessage
}

func (q *Queries) UpsertSessionSnapshot(ctx context.Context, arg UpsertSessionSnapshotParams) error {
	_, err := q.db.ExecContext(ctx, upsertSessionSnapshot, arg.SessionID, arg.Key, arg.Data)
	return err
}

const getSessionSnapshot = `-- name: GetSessionSnapshot :one
SELECT session_id, key, data, updated_at FROM session_snapshots
WHERE session_id=$1 AND key=$2
`

type GetSessionSnapshotParams struct {
	SessionID uuid.UUID
	Key       string
}

func (q *Queries) GetSessionSnapshot(ctx context.Context, arg GetSessionSnapshotParams) (SessionSnapshot, error) {
	row := q.db.QueryRowContext(ctx, getSessionSnapshot, arg.SessionID, arg.Key)
	var i SessionSnapshot
	err := row.Scan(
		&i.SessionID,
		&i.Key,
		&i.Data,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteSessionSnapshot = `-- name: DeleteSessionSnapshot :exec
DELETE FROM session_snapshots WHERE session_id=$1 AND key=$2
`

type DeleteSessionSnapshotParams struct {
	SessionID uuid.UUID
	Key       string
}

func (q *Queries) DeleteSessionSnapshot(ctx context.Context, arg DeleteSessionSnapshotParams) error {
	_, err := q.db.ExecContext(ctx, deleteSessionSnapshot, arg.SessionID, arg.Key)
	return err
}
