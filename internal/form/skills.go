package form

import (
	"slices"
	"strings"
	"sync"
)

// CustomSkillSet holds free-text skills the student added beyond the checkbox list.
type CustomSkillSet struct {
	mu     sync.Mutex
	skills []string
}

func NewCustomSkillSet(skills ...string) *CustomSkillSet {
	s := &CustomSkillSet{}
	for _, skill := range skills {
		s.Add(skill)
	}
	return s
}

// Add appends skill unless it is blank or already present ignoring case.
func (s *CustomSkillSet) Add(skill string) bool {
	skill = strings.TrimSpace(skill)
	if skill == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexLocked(skill) >= 0 {
		return false
	}
	s.skills = append(s.skills, skill)
	return true
}

// Remove drops skill, ignoring case.
func (s *CustomSkillSet) Remove(skill string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexLocked(strings.TrimSpace(skill))
	if i < 0 {
		return false
	}
	s.skills = slices.Delete(s.skills, i, i+1)
	return true
}

func (s *CustomSkillSet) Contains(skill string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexLocked(strings.TrimSpace(skill)) >= 0
}

// List returns the skills in insertion order.
func (s *CustomSkillSet) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.skills)
}

func (s *CustomSkillSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.skills)
}

// Clear empties the set.
func (s *CustomSkillSet) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skills = nil
}

func (s *CustomSkillSet) indexLocked(skill string) int {
	return slices.IndexFunc(s.skills, func(existing string) bool {
		return strings.EqualFold(existing, skill)
	})
}
