package database

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

const createOrUpdateParseResult = `-- name: CreateOrUpdateParseResult :exec
INSERT INTO parse_results (
resume_id, session_id, profile, filled)
VALUES ( $1, $2, $3, $4)
ON CONFLICT (resume_id)
DO UPDATE SET
    profile = EXCLUDED.profile,
    filled = EXCLUDED.filled,
    updated_at = CURRENT_TIMESTAMP
`

type CreateOrUpdateParseResultParams struct {
	ResumeID  uuid.UUID
	SessionID uuid.UUID
	Profile   json.RawMessage
	Filled    json.RawMessage
}

func (q *Queries) CreateOrUpdateParseResult(ctx context.Context, arg CreateOrUpdateParseResultParams) error {
	_, err := q.db.ExecContext(ctx, createOrUpdateParseResult,
		arg.ResumeID,
		arg.SessionID,
		arg.Profile,
		arg.Filled,
	)
	return err
}
