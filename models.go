package main

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/muhammadolammi/pragatiworker/internal/database"
	"github.com/muhammadolammi/pragatiworker/internal/intake"
	"github.com/muhammadolammi/pragatiworker/internal/session"
	"github.com/streadway/amqp"
)

type R2Config struct {
	AccountID string
	Bucket    string
	AccessKey string
	SecretKey string
}

type WorkerConfig struct {
	DB          *database.Queries
	Store       session.Store
	Pipeline    *intake.Pipeline
	R2          *R2Config
	R2Client    *s3.Client
	RabbitConn  *amqp.Connection
	RABBITMQUrl string
	Queue       string
	Exchange    string
}

// UploadMessage is published by the upload service once a resume is stored in R2. Without a
// resume id the newest resume of the session is processed.
type UploadMessage struct {
	ResumeID  uuid.UUID `json:"resume_id"`
	SessionID uuid.UUID `json:"session_id"`
}

type SessionUpdate struct {
	SessionID uuid.UUID `json:"session_id"`
	ResumeID  uuid.UUID `json:"resume_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Filled    []string  `json:"filled,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Status values shared by sessions, resumes and published updates.
const (
	statusProcessing = "processing"
	statusCompleted  = "completed"
	statusFailed     = "failed"
)
