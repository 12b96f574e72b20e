package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	_ "github.com/lib/pq"
	"github.com/muhammadolammi/pragatiworker/internal/config"
	"github.com/muhammadolammi/pragatiworker/internal/database"
	"github.com/muhammadolammi/pragatiworker/internal/inference"
	"github.com/muhammadolammi/pragatiworker/internal/session"
	"github.com/streadway/amqp"
)

func r2ConfigFrom(cfg *config.Config) *R2Config {
	return &R2Config{
		AccountID: cfg.R2AccountID,
		Bucket:    cfg.R2Bucket,
		AccessKey: cfg.R2AccessKey,
		SecretKey: cfg.R2SecretKey,
	}
}

// Complete reports whether every R2 setting is present.
func (r *R2Config) Complete() bool {
	return r != nil && r.AccountID != "" && r.Bucket != "" && r.AccessKey != "" && r.SecretKey != ""
}

func newR2Client(ctx context.Context, r2 *R2Config) (*s3.Client, error) {
	awsConfig, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r2.AccessKey, r2.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating aws config: %w", err)
	}
	return s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r2.AccountID))
	}), nil
}

// --- Object storage ---

func DownloadFromR2(ctx context.Context, client *s3.Client, bucket, key string) ([]byte, error) {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object: %w", err)
	}
	defer out.Body.Close()

	buf := new(bytes.Buffer)
	_, err = io.Copy(buf, out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return buf.Bytes(), nil
}

func UploadToR2(ctx context.Context, client *s3.Client, bucket, key, contentType string, data []byte) error {
	_, err := client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

// --- Wiring ---

func openDatabase(dbURL string) (*sql.DB, *database.Queries, error) {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening db: %w", err)
	}
	return db, database.New(db), nil
}

// newSessionStore picks Postgres when DB_URL is set and a JSON directory otherwise.
func newSessionStore(cfg *config.Config) (session.Store, func(), error) {
	if cfg.DBURL != "" {
		db, queries, err := openDatabase(cfg.DBURL)
		if err != nil {
			return nil, nil, err
		}
		return &session.PostgresStore{DB: queries}, func() { db.Close() }, nil
	}
	store, err := session.NewFileStore(cfg.SessionDir)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {}, nil
}

// newEnricher returns nil when no model key is configured.
func newEnricher(ctx context.Context, cfg *config.Config) inference.Enricher {
	if !cfg.EnrichmentEnabled() {
		return nil
	}
	enricher, err := inference.NewGeminiEnricher(ctx, inference.Config{
		APIKey:   cfg.GoogleAPIKey,
		Model:    cfg.GeminiModel,
		Interval: cfg.EnrichInterval,
	})
	if err != nil {
		log.Printf("⚠️ enrichment disabled: %v", err)
		return nil
	}
	return enricher
}

// --- Messaging ---

func publishSessionUpdate(rabbitConn *amqp.Connection, exchange string, update SessionUpdate) error {
	ch, err := rabbitConn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(update)
	if err != nil {
		return err
	}
	routingKey := fmt.Sprintf("session.%s", update.SessionID)

	return ch.Publish(
		exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
