package main

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muhammadolammi/pragatiworker/internal/autofill"
	"github.com/muhammadolammi/pragatiworker/internal/form"
	"github.com/muhammadolammi/pragatiworker/internal/intake"
	"github.com/muhammadolammi/pragatiworker/internal/match"
	"github.com/muhammadolammi/pragatiworker/internal/session"
)

const sampleResume = `Ravi Kumar
Phone: 9123456789 | Email: ravi@example.com
Gender: Male
Lives in Jaipur, Rajasthan. PIN 302001
Skills: Java, Spring, Rust`

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

// streamRecorder satisfies http.CloseNotifier, which gin's Stream requires.
type streamRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func (r *streamRecorder) CloseNotify() <-chan bool { return r.closed }

type instantClock struct{}

func (instantClock) After(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

func newTestServer(t *testing.T) (*apiServer, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := newAPIServer(session.NewMemoryStore(), intake.New(nil, autofill.New(autofill.NoHighlight{}, nil)))
	srv.culture = fixedSource(0.5)
	srv.clock = instantClock{}
	return srv, srv.routes()
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func uploadFile(t *testing.T, router http.Handler, id uuid.UUID, name string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("resume", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+id.String()+"/resume", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createSession(t *testing.T, router http.Handler) sessionResponse {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp sessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSessions_CreateAndGet(t *testing.T) {
	_, router := newTestServer(t)

	created := createSession(t, router)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, 1, created.CurrentStep)

	w := doJSON(t, router, http.MethodGet, "/api/sessions/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/sessions/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/sessions/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, http.StatusBadRequest, errResp.Code)
}

func TestSessions_CreateWithUser(t *testing.T) {
	_, router := newTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/sessions", session.User{FirstName: "Asha", Email: "asha@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	var resp sessionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.User)
	assert.Equal(t, "Asha", resp.User.FirstName)
}

func TestUploadResume_FillsSession(t *testing.T) {
	srv, router := newTestServer(t)
	created := createSession(t, router)

	w := uploadFile(t, router, created.ID, "resume.txt", []byte(sampleResume))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Profile      map[string]any    `json:"profile"`
		Form         map[string]string `json:"form"`
		CustomSkills []string          `json:"customSkills"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "9123456789", resp.Form[form.FieldPhone])
	assert.Equal(t, "jaipur", resp.Form[form.FieldDistrict])
	assert.Equal(t, "male", resp.Form[form.GroupGender])
	assert.Contains(t, resp.CustomSkills, "Rust")

	state, err := srv.sessions.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "resume.txt", state.Snapshot().UploadedFileName)
}

func TestUploadResume_ReportsHighlightedControls(t *testing.T) {
	tests := []struct {
		name        string
		highlighter autofill.Highlighter
		wantMarked  bool
	}{
		{"timed highlighter marks filled controls", autofill.NewTimedHighlighter(time.Minute), true},
		{"no highlighter marks nothing", autofill.NoHighlight{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if h, ok := tt.highlighter.(*autofill.TimedHighlighter); ok {
				t.Cleanup(h.Stop)
			}
			srv, router := newTestServer(t)
			srv.pipeline = intake.New(nil, autofill.New(tt.highlighter, nil))
			created := createSession(t, router)

			w := uploadFile(t, router, created.ID, "resume.txt", []byte(sampleResume))
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var resp struct {
				Autofill    autofill.Result `json:"autofill"`
				Highlighted []string        `json:"highlighted"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.Contains(t, resp.Autofill.Filled, form.FieldPhone)
			if tt.wantMarked {
				assert.Equal(t, resp.Autofill.Filled, resp.Highlighted)
			} else {
				assert.NotNil(t, resp.Highlighted)
				assert.Empty(t, resp.Highlighted)
			}
		})
	}
}

func TestUploadResume_Rejections(t *testing.T) {
	srv, router := newTestServer(t)
	srv.pipeline.Limits.MaxBytes = 256
	created := createSession(t, router)

	tests := []struct {
		name    string
		file    string
		content []byte
		want    int
	}{
		{"too large", "resume.txt", bytes.Repeat([]byte("a"), 300), http.StatusRequestEntityTooLarge},
		{"image", "photo.png", []byte("png"), http.StatusUnsupportedMediaType},
		{"legacy word", "resume.doc", []byte("binary"), http.StatusUnsupportedMediaType},
		{"too short", "resume.txt", []byte("Asha"), http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := uploadFile(t, router, created.ID, tt.file, tt.content)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}

	state, err := srv.sessions.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Empty(t, state.Form().Values())
}

func TestUploadResume_MissingFile(t *testing.T) {
	_, router := newTestServer(t)
	created := createSession(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/sessions/"+created.ID.String()+"/resume", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateStep(t *testing.T) {
	_, router := newTestServer(t)
	created := createSession(t, router)
	path := "/api/sessions/" + created.ID.String() + "/steps/1/validate"

	w := doJSON(t, router, http.MethodPost, path, validateRequest{Values: map[string]string{
		form.FieldPhone:   "12345",
		form.FieldPincode: "302001",
	}})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, "phone", errResp.Details)

	w = doJSON(t, router, http.MethodPost, path, validateRequest{Values: map[string]string{
		form.FieldPhone: "9123456789",
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp validateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Equal(t, 2, resp.CurrentStep)
	assert.Equal(t, 2, resp.MaxStep)
}

func TestValidateStep_SkillsAndDistrict(t *testing.T) {
	srv, router := newTestServer(t)
	created := createSession(t, router)

	w := doJSON(t, router, http.MethodPost, "/api/sessions/"+created.ID.String()+"/steps/3/validate", validateRequest{})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/sessions/"+created.ID.String()+"/steps/3/validate", validateRequest{
		Values:       map[string]string{form.FieldState: "rajasthan", form.FieldDistrict: "jaipur"},
		CustomSkills: []string{"Rust"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	state, err := srv.sessions.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "jaipur", state.Form().Value(form.FieldDistrict))
	assert.Equal(t, []string{"Rust"}, state.Form().CustomSkills.List())
}

func TestValidateStep_BadStep(t *testing.T) {
	_, router := newTestServer(t)
	created := createSession(t, router)

	for _, step := range []string{"0", "6", "two"} {
		w := doJSON(t, router, http.MethodPost, "/api/sessions/"+created.ID.String()+"/steps/"+step+"/validate", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, step)
	}
}

func TestResetSession(t *testing.T) {
	srv, router := newTestServer(t)
	created := createSession(t, router)
	require.Equal(t, http.StatusOK, uploadFile(t, router, created.ID, "resume.txt", []byte(sampleResume)).Code)

	w := doJSON(t, router, http.MethodDelete, "/api/sessions/"+created.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	state, err := srv.sessions.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Empty(t, state.Form().Values())
	assert.Zero(t, state.Form().CustomSkills.Len())
}

func TestMatchInternships(t *testing.T) {
	_, router := newTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/match", matchRequest{})
	require.Equal(t, http.StatusOK, w.Code)
	var resp matchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, match.DefaultSkills, resp.Skills)
	assert.Len(t, resp.Results, len(match.Catalog()))
	for i := 1; i < len(resp.Results); i++ {
		assert.GreaterOrEqual(t, resp.Results[i-1].MatchScore, resp.Results[i].MatchScore)
	}
	for _, r := range resp.Results {
		assert.Equal(t, 50, r.CultureFit)
		assert.Equal(t, 70, r.LocationMatch)
	}
	assert.Equal(t, []string{"Communication", "Team Collaboration"}, resp.HiddenSkills[:2])
	assert.NotEmpty(t, resp.CareerPath)
}

func TestMatchInternships_FromSession(t *testing.T) {
	_, router := newTestServer(t)
	created := createSession(t, router)
	require.Equal(t, http.StatusOK, uploadFile(t, router, created.ID, "resume.txt", []byte(sampleResume)).Code)

	w := doJSON(t, router, http.MethodPost, "/api/match", matchRequest{SessionID: created.ID.String()})
	require.Equal(t, http.StatusOK, w.Code)
	var resp matchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Skills, "Rust")
}

func TestCheckQuota(t *testing.T) {
	_, router := newTestServer(t)

	w := doJSON(t, router, http.MethodPost, "/api/quota", quotaRequest{Allocation: []match.Allocated{
		{Category: "sc", Gender: "female", AreaType: "rural"},
		{Category: "general", Gender: "male", AreaType: "urban"},
	}})
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]match.QuotaStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp["female"].Compliant)
	assert.False(t, resp["ews"].Compliant)
	assert.Equal(t, 1, resp["scst"].Count)
}

func TestAnalyzeGaps(t *testing.T) {
	_, router := newTestServer(t)

	tests := []struct {
		name     string
		body     any
		want     int
		wantRole string
	}{
		{"known role", gapsRequest{Role: "backend", Skills: map[string]int{"Python": 85}}, http.StatusOK, "backend"},
		{"unknown role falls back", gapsRequest{Role: "designer"}, http.StatusOK, "fullstack"},
		{"level above 100", gapsRequest{Skills: map[string]int{"Go": 140}}, http.StatusBadRequest, ""},
		{"negative level", gapsRequest{Skills: map[string]int{"Go": -1}}, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/gaps", tt.body)
			require.Equal(t, tt.want, w.Code, w.Body.String())
			if tt.want != http.StatusOK {
				return
			}
			var resp match.GapAnalysis
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantRole, resp.Role)
			assert.NotEmpty(t, resp.Critical)
		})
	}
}

func TestStreamProgress(t *testing.T) {
	srv, router := newTestServer(t)
	created := createSession(t, router)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+created.ID.String()+"/progress/analysis", nil)
	w := &streamRecorder{ResponseRecorder: httptest.NewRecorder(), closed: make(chan bool)}
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Equal(t, 5, strings.Count(body, "event:running"))
	assert.Contains(t, body, "event:completed")
	assert.Contains(t, body, "Document Processing...")

	state, err := srv.sessions.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, state.Snapshot().AnalysisComplete)

	notFound := doJSON(t, router, http.MethodGet, "/api/sessions/"+created.ID.String()+"/progress/unknown", nil)
	assert.Equal(t, http.StatusNotFound, notFound.Code)
}
