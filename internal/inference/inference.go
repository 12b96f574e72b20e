// Package inference optionally asks a hosted model for profile fields the heuristics missed.
// Every failure degrades to the locally parsed profile.
package inference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"

	"github.com/muhammadolammi/pragatiworker/internal/profile"
)

var ErrEmptyResponse = errors.New("empty agent response")

// Enricher returns a profile inferred from resume text.
type Enricher interface {
	Enrich(ctx context.Context, text string) (*profile.Profile, error)
}

// GeminiEnricher runs the profile agent through an ADK runner.
type GeminiEnricher struct {
	AppName  string
	Runner   *runner.Runner
	Sessions session.Service
	Limiter  *rate.Limiter
}

// Config configures NewGeminiEnricher.
type Config struct {
	APIKey    string
	Model     string
	AgentName string
	// Interval is the minimum spacing between model calls.
	Interval time.Duration
	Burst    int
}

func NewGeminiEnricher(ctx context.Context, cfg Config) (*GeminiEnricher, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("missing api key")
	}
	if cfg.AgentName == "" {
		cfg.AgentName = "resume_profile_parser"
	}
	parser, err := NewAgent(ctx, cfg.APIKey, cfg.Model, cfg.AgentName)
	if err != nil {
		return nil, err
	}
	sessions := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        parser.Name(),
		Agent:          parser,
		SessionService: sessions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	limit := rate.Inf
	if cfg.Interval > 0 {
		limit = rate.Every(cfg.Interval)
	}
	return &GeminiEnricher{
		AppName:  parser.Name(),
		Runner:   r,
		Sessions: sessions,
		Limiter:  rate.NewLimiter(limit, max(1, cfg.Burst)),
	}, nil
}

// Enrich sends the resume text in a throwaway agent session and decodes the final response.
func (g *GeminiEnricher) Enrich(ctx context.Context, text string) (*profile.Profile, error) {
	if g.Limiter != nil {
		if err := g.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	created, err := g.Sessions.Create(ctx, &session.CreateRequest{
		AppName:   g.AppName,
		UserID:    "student",
		SessionID: uuid.NewString(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent session: %w", err)
	}
	defer func() {
		err := g.Sessions.Delete(context.WithoutCancel(ctx), &session.DeleteRequest{
			AppName:   created.Session.AppName(),
			UserID:    created.Session.UserID(),
			SessionID: created.Session.ID(),
		})
		if err != nil {
			log.Printf("[Inference] failed to delete agent session: %v", err)
		}
	}()

	stream := g.Runner.Run(ctx, created.Session.UserID(), created.Session.ID(), &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{Text: "Resume:\n" + text},
		},
	}, agent.RunConfig{})

	var output string
	for event, err := range stream {
		if err != nil {
			return nil, err
		}
		if event != nil && event.IsFinalResponse() && event.Content != nil && len(event.Content.Parts) > 0 {
			output = event.Content.Parts[0].Text
		}
	}
	return DecodeProfile(output)
}

// CleanJSON strips a surrounding markdown code fence from a model reply.
func CleanJSON(input string) string {
	clean := strings.TrimSpace(input)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimPrefix(clean, "```json")
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
	}
	clean = strings.TrimLeft(clean, "\r\n")
	clean = strings.TrimSuffix(clean, "```")

	return strings.TrimSpace(clean)
}

// DecodeProfile parses a model reply. Numeric values are accepted where the profile holds text.
func DecodeProfile(raw string) (*profile.Profile, error) {
	cleaned := CleanJSON(raw)
	if cleaned == "" {
		return nil, ErrEmptyResponse
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return nil, fmt.Errorf("json unmarshal error: %w", err)
	}
	for k, v := range fields {
		switch n := v.(type) {
		case float64:
			fields[k] = strconv.FormatFloat(n, 'f', -1, 64)
		case nil:
			delete(fields, k)
		}
	}
	normalized, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	var p profile.Profile
	if err := json.Unmarshal(normalized, &p); err != nil {
		return nil, fmt.Errorf("json unmarshal error: %w", err)
	}
	return &p, nil
}

// Resolve returns local completed with whatever e can add. Local values always win; an error
// from e is logged and local is returned as is.
func Resolve(ctx context.Context, e Enricher, local *profile.Profile, text string) *profile.Profile {
	if local == nil {
		local = &profile.Profile{}
	}
	if e == nil {
		return local
	}
	remote, err := e.Enrich(ctx, text)
	if err != nil {
		log.Printf("[Inference] ⚠️ remote enrichment unavailable, using local profile: %v", err)
		return local
	}
	merged := *local
	merged.Languages = append([]string(nil), local.Languages...)
	merged.Skills = append([]string(nil), local.Skills...)
	merged.FillFrom(remote)
	return &merged
}
