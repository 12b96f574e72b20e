package database

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ParseResult struct {
	ID        uuid.UUID
	ResumeID  uuid.UUID
	SessionID uuid.UUID
	Profile   json.RawMessage
	Filled    json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Resume struct {
	ID               uuid.UUID
	OriginalFilename string
	Mime             string
	SizeBytes        int64
	StorageProvider  string
	ObjectKey        string
	StorageUrl       string
	UploadStatus     string
	CreatedAt        time.Time
	SessionID        uuid.UUID
}

type Session struct {
	ID        uuid.UUID
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type SessionSnapshot struct {
	SessionID uuid.UUID
	Key       string
	Data      json.RawMessage
	UpdatedAt time.Time
}
