// Package session holds the per-student wizard state and persists snapshots of it.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/muhammadolammi/pragatiworker/internal/form"
	"github.com/muhammadolammi/pragatiworker/internal/profile"
)

// Snapshot keys.
const (
	KeyUser     = "student-user"
	KeyProgress = "student-progress"
)

// User is the signed-in student.
type User struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

// Progress is the persisted shape of a session.
type Progress struct {
	CurrentStep      int               `json:"currentStep"`
	MaxStep          int               `json:"maxStep"`
	StudentData      map[string]string `json:"studentData"`
	CustomSkills     []string          `json:"customSkills,omitempty"`
	UploadedFileName string            `json:"uploadedFileName,omitempty"`
	AnalysisComplete bool              `json:"analysisComplete"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// State is one student's wizard session. Handlers share it by pointer.
type State struct {
	ID uuid.UUID

	mu               sync.Mutex
	user             *User
	currentStep      int
	maxStep          int
	uploadedFileName string
	analysisComplete bool
	updatedAt        time.Time
	form             *form.State
}

// New returns a fresh session at step one.
func New(id uuid.UUID) *State {
	s := &State{ID: id}
	s.resetLocked()
	return s
}

// Reset discards everything but the ID. Form values and custom skills go together.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *State) resetLocked() {
	s.user = nil
	s.currentStep = 1
	s.maxStep = 1
	s.uploadedFileName = ""
	s.analysisComplete = false
	s.form = form.NewStandard()
	s.updatedAt = time.Now().UTC()
}

// Form returns the live form of the session.
func (s *State) Form() *form.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

func (s *State) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *State) SetUser(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
	s.touchLocked()
}

// Step returns the current and furthest reached wizard steps.
func (s *State) Step() (current, furthest int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentStep, s.maxStep
}

// GoTo moves to step, which may not exceed one past the furthest step reached.
func (s *State) GoTo(step int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if step < 1 || step > form.Steps || step > s.maxStep+1 {
		return false
	}
	s.currentStep = step
	s.maxStep = max(s.maxStep, step)
	s.touchLocked()
	return true
}

// MarkUploaded records the file name of an analysed resume.
func (s *State) MarkUploaded(fileName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadedFileName = fileName
	s.touchLocked()
}

func (s *State) MarkAnalysisComplete() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analysisComplete = true
	s.touchLocked()
}

func (s *State) touchLocked() {
	s.updatedAt = time.Now().UTC()
}

// Snapshot captures the session for persistence.
func (s *State) Snapshot() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Progress{
		CurrentStep:      s.currentStep,
		MaxStep:          s.maxStep,
		StudentData:      s.form.Values(),
		CustomSkills:     s.form.CustomSkills.List(),
		UploadedFileName: s.uploadedFileName,
		AnalysisComplete: s.analysisComplete,
		UpdatedAt:        s.updatedAt,
	}
}

// Restore rebuilds the session from a snapshot. Every form section is built so saved values of
// later steps land in their controls, and district options follow the saved state.
func (s *State) Restore(p Progress) {
	f := form.NewStandard()
	for _, section := range []string{form.SectionEducation, form.SectionSkills} {
		_ = f.EnsureSection(section)
	}
	if state := p.StudentData[form.FieldState]; state != "" {
		_ = f.SetOptions(form.FieldDistrict, profile.DefaultRegions().Districts(state))
	}
	f.Restore(p.StudentData)
	for _, skill := range p.CustomSkills {
		f.CustomSkills.Add(skill)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentStep = max(1, p.CurrentStep)
	s.maxStep = max(s.currentStep, p.MaxStep)
	s.uploadedFileName = p.UploadedFileName
	s.analysisComplete = p.AnalysisComplete
	s.updatedAt = p.UpdatedAt
	s.form = f
}
