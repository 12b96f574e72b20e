package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadolammi/pragatiworker/internal/autofill"
	"github.com/muhammadolammi/pragatiworker/internal/config"
	"github.com/muhammadolammi/pragatiworker/internal/database"
	"github.com/muhammadolammi/pragatiworker/internal/extract"
	"github.com/muhammadolammi/pragatiworker/internal/intake"
	"github.com/muhammadolammi/pragatiworker/internal/session"
	"github.com/spf13/cobra"
	"github.com/streadway/amqp"
)

var workerCount int

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume uploaded resumes from the queue",
	Long:  `Start a pool of workers that download resumes from R2, parse them and pre-fill the stored session.`,
	RunE:  runWorker,
}

func init() {
	workerCmd.Flags().IntVar(&workerCount, "workers", 0, "Number of consumers (overrides WORKERS)")
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if workerCount > 0 {
		cfg.Workers = workerCount
	}
	if err := cfg.ValidateWorker(); err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, queries, err := openDatabase(cfg.DBURL)
	if err != nil {
		return err
	}
	defer db.Close()

	r2Config := r2ConfigFrom(cfg)
	r2Client, err := newR2Client(ctx, r2Config)
	if err != nil {
		return err
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return fmt.Errorf("error connecting to RabbitMQ: %w", err)
	}
	defer conn.Close()

	workerConfig := WorkerConfig{
		DB:          queries,
		Store:       &session.PostgresStore{DB: queries},
		Pipeline:    intake.New(newEnricher(ctx, cfg), autofill.New(autofill.NoHighlight{}, nil)),
		R2:          r2Config,
		R2Client:    r2Client,
		RabbitConn:  conn,
		RABBITMQUrl: cfg.RabbitMQURL,
		Queue:       cfg.UploadQueue,
		Exchange:    cfg.UpdatesExchange,
	}
	workerConfig.Pipeline.Limits.MaxBytes = cfg.MaxUploadBytes

	log.Printf("Starting %d workers consumer pool", cfg.Workers)
	workerConfig.StartConsumerWorkerPool(cfg.Workers)
	return nil
}

// retry retries a function up to `attempts` times with linear backoff
func retry[T any](attempts int, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		wait := time.Duration(500*(i+1)) * time.Millisecond
		time.Sleep(wait)
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

// processUpload downloads one resume, parses it and fills the session it belongs to.
// Network and DB calls are retried; extraction failures are terminal for the file.
func processUpload(ctx context.Context, msg *UploadMessage, workerConfig *WorkerConfig) (*intake.Outcome, error) {
	resume, err := retry(3, func() (database.Resume, error) {
		return workerConfig.latestResume(ctx, *msg)
	})
	if err != nil {
		return nil, fmt.Errorf("error getting resume for session %s: %w", msg.SessionID, err)
	}
	msg.ResumeID = resume.ID

	fileBytes, err := retry(3, func() ([]byte, error) {
		return DownloadFromR2(ctx, workerConfig.R2Client, workerConfig.R2.Bucket, resume.ObjectKey)
	})
	if err != nil {
		return nil, fmt.Errorf("file download error: %w", err)
	}

	state, err := session.LoadState(ctx, workerConfig.Store, msg.SessionID)
	if errors.Is(err, session.ErrNotFound) {
		state = session.New(msg.SessionID)
	} else if err != nil {
		return nil, fmt.Errorf("error loading session %s: %w", msg.SessionID, err)
	}

	doc := extract.Document{
		Name:      resume.OriginalFilename,
		MediaType: resume.Mime,
		Size:      resume.SizeBytes,
		Data:      fileBytes,
	}
	outcome, err := workerConfig.Pipeline.Run(ctx, doc, state.Form())
	if err != nil {
		return nil, err
	}
	state.MarkUploaded(resume.OriginalFilename)

	_, err = retry(3, func() (any, error) {
		return nil, session.SaveProgress(ctx, workerConfig.Store, state)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save session after retries: %w", err)
	}

	profileJSON, err := json.Marshal(outcome.Profile)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal profile: %w", err)
	}
	filledJSON, err := json.Marshal(outcome.Filled)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal filled fields: %w", err)
	}
	_, err = retry(3, func() (any, error) {
		return nil, workerConfig.DB.CreateOrUpdateParseResult(ctx, database.CreateOrUpdateParseResultParams{
			ResumeID:  resume.ID,
			SessionID: msg.SessionID,
			Profile:   profileJSON,
			Filled:    filledJSON,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save parse result after retries: %w", err)
	}
	return outcome, nil
}

// latestResume returns the named resume, or the newest one of the session when the message
// carries no resume id.
func (workerConfig *WorkerConfig) latestResume(ctx context.Context, msg UploadMessage) (database.Resume, error) {
	if msg.ResumeID != uuid.Nil {
		return workerConfig.DB.GetResume(ctx, msg.ResumeID)
	}
	resumes, err := workerConfig.DB.GetResumesBySession(ctx, msg.SessionID)
	if err != nil {
		return database.Resume{}, err
	}
	if len(resumes) == 0 {
		return database.Resume{}, sql.ErrNoRows
	}
	return resumes[0], nil
}

func (workerConfig *WorkerConfig) setStatus(ctx context.Context, msg UploadMessage, status, message string, filled []string) {
	if err := workerConfig.DB.UpdateSessionStatus(ctx, database.UpdateSessionStatusParams{
		Status: status,
		ID:     msg.SessionID,
	}); err != nil {
		log.Printf("⚠️ failed to update session %s status: %v", msg.SessionID, err)
	}
	if msg.ResumeID != uuid.Nil {
		if err := workerConfig.DB.UpdateResumeUploadStatus(ctx, database.UpdateResumeUploadStatusParams{
			UploadStatus: status,
			ID:           msg.ResumeID,
		}); err != nil {
			log.Printf("⚠️ failed to update resume %s status: %v", msg.ResumeID, err)
		}
	}

	err := publishSessionUpdate(workerConfig.RabbitConn, workerConfig.Exchange, SessionUpdate{
		SessionID: msg.SessionID,
		ResumeID:  msg.ResumeID,
		Status:    status,
		Message:   message,
		Filled:    filled,
		Timestamp: time.Now(),
	})
	if err != nil {
		log.Println("failed to publish update:", err)
	}
}

func worker(id int, workerConfig *WorkerConfig, wg *sync.WaitGroup) {
	defer wg.Done()
	conn, err := amqp.Dial(workerConfig.RABBITMQUrl)
	if err != nil {
		log.Fatal("error dialling rabbitmq: " + err.Error())
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal("error connecting to rabbitmq channel: " + err.Error())
	}
	defer ch.Close()
	_, err = ch.QueueDeclare(
		workerConfig.Queue, // queue name
		true,               // durable (survives broker restarts)
		false,              // auto-delete when unused
		false,              // exclusive
		false,              // no-wait
		nil,                // arguments
	)
	if err != nil {
		log.Fatalf("Failed to declare queue: %v", err)
	}

	msgs, err := ch.Consume(
		workerConfig.Queue, // queue name
		"",                 // consumer tag
		true,               // auto-ack
		false,              // exclusive
		false,              // no-local
		false,              // no-wait
		nil,                // arguments
	)
	if err != nil {
		log.Fatal("error consuming rabbitmq message: " + err.Error())
	}

	for delivery := range msgs {
		ctx := context.Background()
		msg := UploadMessage{}
		if err := json.Unmarshal(delivery.Body, &msg); err != nil {
			log.Printf("⚠️ error unmarshalling message body. err: %v", err)
			continue
		}
		log.Printf("Worker %d processing resume. session_id: %s resume_id: %s", id+1, msg.SessionID, msg.ResumeID)

		workerConfig.setStatus(ctx, msg, statusProcessing, "resume analysis started", nil)

		outcome, err := processUpload(ctx, &msg, workerConfig)
		if err != nil {
			log.Printf("⚠️ resume %s failed: %v", msg.ResumeID, err)
			workerConfig.setStatus(ctx, msg, statusFailed, failureMessage(err), nil)
			continue
		}
		workerConfig.setStatus(ctx, msg, statusCompleted, "resume analysed", outcome.Filled.Filled)
	}
}

// failureMessage is what the student sees for a failed upload.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, extract.ErrFileTooLarge):
		return "File is too large. Please upload a resume under 5 MB."
	case errors.Is(err, extract.ErrUnsupportedFormat):
		return "Unsupported file type. Please upload a PDF, DOCX or TXT file."
	case errors.Is(err, extract.ErrExtractionUnavailable):
		return "Could not read text from this file. Please fill the form manually."
	default:
		return "resume analysis failed"
	}
}

func (workerConfig *WorkerConfig) StartConsumerWorkerPool(numWorkers int) {
	var wg sync.WaitGroup
	wg.Add(numWorkers)

	for i := range numWorkers {
		log.Println("worker id ", i+1, "started")
		go worker(i, workerConfig, &wg)
	}
	wg.Wait() // block until all workers finish
}
