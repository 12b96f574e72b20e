package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/muhammadolammi/pragatiworker/internal/autofill"
	"github.com/muhammadolammi/pragatiworker/internal/config"
	"github.com/muhammadolammi/pragatiworker/internal/extract"
	"github.com/muhammadolammi/pragatiworker/internal/form"
	"github.com/muhammadolammi/pragatiworker/internal/intake"
	"github.com/muhammadolammi/pragatiworker/internal/match"
	"github.com/muhammadolammi/pragatiworker/internal/profile"
	"github.com/muhammadolammi/pragatiworker/internal/progress"
	"github.com/muhammadolammi/pragatiworker/internal/session"
	"github.com/spf13/cobra"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server for the registration wizard: sessions, resume upload, step validation and matching.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Details string `json:"details,omitempty"`
}

// apiServer holds what the handlers share.
type apiServer struct {
	sessions  *session.Registry
	pipeline  *intake.Pipeline
	validator *form.Validator
	regions   *profile.RegionTable
	catalog   []match.Listing
	culture   match.RandomSource
	clock     progress.Clock

	// optional resume archive
	r2       *R2Config
	r2Client *s3.Client
}

func newAPIServer(store session.Store, pipeline *intake.Pipeline) *apiServer {
	return &apiServer{
		sessions:  session.NewRegistry(store),
		pipeline:  pipeline,
		validator: form.NewValidator(nil),
		regions:   profile.DefaultRegions(),
		catalog:   match.Catalog(),
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if servePort != "" {
		cfg.Port = servePort
	}
	if err := cfg.ValidateServe(); err != nil {
		return err
	}
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, closeStore, err := newSessionStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer closeStore()

	highlighter := autofill.NewTimedHighlighter(autofill.DefaultHighlightDuration)
	defer highlighter.Stop()
	pipeline := intake.New(newEnricher(ctx, cfg), autofill.New(highlighter, nil))
	pipeline.Limits.MaxBytes = cfg.MaxUploadBytes
	srv := newAPIServer(store, pipeline)

	if r2 := r2ConfigFrom(cfg); r2.Complete() {
		client, err := newR2Client(ctx, r2)
		if err != nil {
			log.Printf("⚠️ resume archive disabled: %v", err)
		} else {
			srv.r2, srv.r2Client = r2, client
			log.Println("Archiving uploaded resumes to R2")
		}
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.routes(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s...", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Println("Server exited")
	return nil
}

func (s *apiServer) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})

	api := router.Group("/api")
	{
		sessions := api.Group("/sessions")
		{
			sessions.POST("", s.createSession)
			sessions.GET("/:id", s.getSession)
			sessions.DELETE("/:id", s.resetSession)
			sessions.POST("/:id/resume", s.uploadResume)
			sessions.POST("/:id/steps/:step/validate", s.validateStep)
			sessions.GET("/:id/progress/:flow", s.streamProgress)
		}
		api.POST("/match", s.matchInternships)
		api.POST("/quota", s.checkQuota)
		api.POST("/gaps", s.analyzeGaps)
	}
	return router
}

func abortWithError(c *gin.Context, code int, message string, err error) {
	resp := ErrorResponse{Error: message, Code: code}
	if err != nil {
		resp.Details = err.Error()
	}
	c.AbortWithStatusJSON(code, resp)
}

// loadSession resolves the :id parameter. It writes the error response itself.
func (s *apiServer) loadSession(c *gin.Context) (*session.State, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session id", err)
		return nil, false
	}
	state, err := s.sessions.Get(c.Request.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		abortWithError(c, http.StatusNotFound, "Session not found", nil)
		return nil, false
	}
	if err != nil {
		log.Printf("[Sessions] load %s: %v", id, err)
		abortWithError(c, http.StatusInternalServerError, "Failed to load session", err)
		return nil, false
	}
	return state, true
}

type sessionResponse struct {
	ID   uuid.UUID     `json:"id"`
	User *session.User `json:"user,omitempty"`
	session.Progress
}

func viewSession(state *session.State) sessionResponse {
	return sessionResponse{ID: state.ID, User: state.User(), Progress: state.Snapshot()}
}

func (s *apiServer) createSession(c *gin.Context) {
	var user session.User
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&user); err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}
	state := s.sessions.Create(c.Request.Context())
	if user != (session.User{}) {
		state.SetUser(user)
		s.sessions.Save(c.Request.Context(), state)
	}
	c.JSON(http.StatusCreated, viewSession(state))
}

func (s *apiServer) getSession(c *gin.Context) {
	state, ok := s.loadSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, viewSession(state))
}

func (s *apiServer) resetSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session id", err)
		return
	}
	err = s.sessions.Reset(c.Request.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		abortWithError(c, http.StatusNotFound, "Session not found", nil)
		return
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to reset session", err)
		return
	}
	c.Status(http.StatusNoContent)
}

type uploadResponse struct {
	*intake.Outcome
	Form         map[string]string `json:"form"`
	CustomSkills []string          `json:"customSkills"`
	Highlighted  []string          `json:"highlighted"`
}

func (s *apiServer) uploadResume(c *gin.Context) {
	state, ok := s.loadSession(c)
	if !ok {
		return
	}
	limit := s.pipeline.Limits.MaxBytes
	if limit > 0 {
		// multipart framing needs some room on top of the file itself
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+64*1024)
	}

	file, header, err := c.Request.FormFile("resume")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			abortWithError(c, http.StatusRequestEntityTooLarge, "File is too large", extract.ErrFileTooLarge)
			return
		}
		abortWithError(c, http.StatusBadRequest, "Resume file is required", err)
		return
	}
	defer file.Close()

	doc := extract.Document{
		Name:      header.Filename,
		MediaType: header.Header.Get("Content-Type"),
		Size:      header.Size,
	}
	// size is checked before the body is read
	if err := extract.Admit(doc, s.pipeline.Limits); err != nil {
		s.uploadFailed(c, doc, err)
		return
	}
	doc.Data, err = io.ReadAll(file)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Failed to read resume file", err)
		return
	}
	log.Printf("[Upload] Received resume %s (%d bytes) for session %s", doc.Name, len(doc.Data), state.ID)

	outcome, err := s.pipeline.Run(c.Request.Context(), doc, state.Form())
	if err != nil {
		s.uploadFailed(c, doc, err)
		return
	}
	state.MarkUploaded(doc.Name)
	s.sessions.Save(c.Request.Context(), state)
	s.archive(c.Request.Context(), state.ID, doc)

	highlighted := []string{}
	for _, id := range outcome.Filled.Filled {
		if state.Form().Highlighted(id) {
			highlighted = append(highlighted, id)
		}
	}
	c.JSON(http.StatusOK, uploadResponse{
		Outcome:      outcome,
		Form:         state.Form().Values(),
		CustomSkills: state.Form().CustomSkills.List(),
		Highlighted:  highlighted,
	})
}

func (s *apiServer) uploadFailed(c *gin.Context, doc extract.Document, err error) {
	log.Printf("[Upload] ⚠️ %s rejected: %v", doc.Name, err)
	switch {
	case errors.Is(err, extract.ErrFileTooLarge):
		abortWithError(c, http.StatusRequestEntityTooLarge, "File is too large", err)
	case errors.Is(err, extract.ErrUnsupportedFormat):
		abortWithError(c, http.StatusUnsupportedMediaType, "Unsupported file type", err)
	case errors.Is(err, extract.ErrExtractionUnavailable):
		abortWithError(c, http.StatusUnprocessableEntity, "Could not read text from this file, please fill the form manually", err)
	default:
		abortWithError(c, http.StatusInternalServerError, "Resume analysis failed", err)
	}
}

// archive stores the original upload in R2 when configured. Failures are only logged.
func (s *apiServer) archive(ctx context.Context, sessionID uuid.UUID, doc extract.Document) {
	if s.r2Client == nil {
		return
	}
	key := fmt.Sprintf("resumes/%s/%s%s", sessionID, uuid.NewString(), filepath.Ext(doc.Name))
	if err := UploadToR2(ctx, s.r2Client, s.r2.Bucket, key, extract.ResolveMediaType(doc), doc.Data); err != nil {
		log.Printf("[Upload] ⚠️ archive %s failed: %v", key, err)
	}
}

type validateRequest struct {
	Values       map[string]string `json:"values"`
	CustomSkills []string          `json:"customSkills"`
}

type validateResponse struct {
	Valid       bool `json:"valid"`
	CurrentStep int  `json:"currentStep"`
	MaxStep     int  `json:"maxStep"`
}

func (s *apiServer) validateStep(c *gin.Context) {
	state, ok := s.loadSession(c)
	if !ok {
		return
	}
	step, err := strconv.Atoi(c.Param("step"))
	if err != nil || step < 1 || step > form.Steps {
		abortWithError(c, http.StatusBadRequest, "Invalid step", err)
		return
	}
	var req validateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}
	s.applyValues(state, req)

	if err := s.validator.ValidateStep(state.Form(), step); err != nil {
		var fieldErr *form.ValidationError
		if errors.As(err, &fieldErr) {
			s.sessions.Save(c.Request.Context(), state)
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorResponse{
				Error:   fieldErr.Message,
				Code:    http.StatusUnprocessableEntity,
				Details: fieldErr.Field,
			})
			return
		}
		abortWithError(c, http.StatusBadRequest, "Validation failed", err)
		return
	}
	if step < form.Steps {
		state.GoTo(step + 1)
	}
	s.sessions.Save(c.Request.Context(), state)

	current, furthest := state.Step()
	c.JSON(http.StatusOK, validateResponse{Valid: true, CurrentStep: current, MaxStep: furthest})
}

// applyValues overlays submitted values on the form. A changed state refreshes the district
// options first so a matching district survives.
func (s *apiServer) applyValues(state *session.State, req validateRequest) {
	f := state.Form()
	if len(req.Values) > 0 {
		for _, section := range []string{form.SectionEducation, form.SectionSkills} {
			if err := f.EnsureSection(section); err != nil {
				log.Printf("[Validate] ⚠️ build %s section: %v", section, err)
			}
		}
		merged := f.Values()
		maps.Copy(merged, req.Values)
		if st, ok := req.Values[form.FieldState]; ok && st != f.Value(form.FieldState) {
			_ = f.SetOptions(form.FieldDistrict, s.regions.Districts(st))
		}
		f.Restore(merged)
	}
	if req.CustomSkills != nil {
		f.CustomSkills.Clear()
		for _, skill := range req.CustomSkills {
			f.CustomSkills.Add(skill)
		}
	}
}

// streamProgress replays a built-in progress flow as server-sent events. A client disconnect
// cancels the run.
func (s *apiServer) streamProgress(c *gin.Context) {
	state, ok := s.loadSession(c)
	if !ok {
		return
	}
	steps, ok := progress.Flow(c.Param("flow"))
	if !ok {
		abortWithError(c, http.StatusNotFound, "Unknown progress flow", nil)
		return
	}

	events := make(chan progress.Event)
	runner := progress.NewRunner(steps, s.clock)
	done := make(chan error, 1)
	go func() {
		defer close(events)
		done <- runner.Run(c.Request.Context(), func(e progress.Event) { events <- e })
	}()

	c.Stream(func(w io.Writer) bool {
		e, more := <-events
		if !more {
			return false
		}
		c.SSEvent(e.Phase.String(), e)
		return e.Phase == progress.Running
	})
	runner.Cancel()
	for range events {
	}

	if err := <-done; err == nil && c.Param("flow") == "analysis" {
		state.MarkAnalysisComplete()
		s.sessions.Save(context.WithoutCancel(c.Request.Context()), state)
	}
}

type matchRequest struct {
	SessionID  string   `json:"sessionId"`
	Skills     []string `json:"skills"`
	Location   string   `json:"location"`
	CareerGoal string   `json:"careerGoal"`
}

type matchResponse struct {
	Results      []match.RankedListing `json:"results"`
	Skills       []string              `json:"skills"`
	HiddenSkills []string              `json:"hiddenSkills"`
	CareerPath   string                `json:"careerPath"`
}

// matchInternships ranks the catalog for the given skills, or for a session's form when
// sessionId is set and no skills are given.
func (s *apiServer) matchInternships(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.SessionID != "" {
		id, err := uuid.Parse(req.SessionID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid session id", err)
			return
		}
		state, err := s.sessions.Get(c.Request.Context(), id)
		if err != nil {
			abortWithError(c, http.StatusNotFound, "Session not found", err)
			return
		}
		f := state.Form()
		if len(req.Skills) == 0 {
			req.Skills = f.SelectedSkills()
		}
		if req.Location == "" {
			req.Location = f.Value(form.FieldDistrict)
		}
		if req.CareerGoal == "" {
			req.CareerGoal = f.Value(form.FieldCareerGoal)
		}
	}

	skills := match.SkillsOrDefault(req.Skills)
	results := match.Rank(s.catalog, match.Candidate{Skills: skills, Location: req.Location}, s.culture)
	c.JSON(http.StatusOK, matchResponse{
		Results:      results,
		Skills:       skills,
		HiddenSkills: match.InferHiddenSkills(skills),
		CareerPath:   match.InferCareerPath(skills, req.CareerGoal),
	})
}

type quotaRequest struct {
	Allocation []match.Allocated `json:"allocation"`
}

func (s *apiServer) checkQuota(c *gin.Context) {
	var req quotaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	c.JSON(http.StatusOK, match.CheckQuotaCompliance(req.Allocation))
}

type gapsRequest struct {
	Role   string         `json:"role"`
	Skills map[string]int `json:"skills" binding:"dive,min=0,max=100"`
}

// analyzeGaps compares self-rated skill levels (0-100) against the requirements for a role.
func (s *apiServer) analyzeGaps(c *gin.Context) {
	var req gapsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	c.JSON(http.StatusOK, match.AnalyzeGaps(req.Skills, req.Role))
}
