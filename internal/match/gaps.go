package match

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed requirements.yaml
var requirementsYAML []byte

// Gap tier thresholds, in level points below the requirement.
const (
	CriticalGap = 60
	ModerateGap = 30
)

// RoleCategory is the category reported for skills that only a role asks for.
const RoleCategory = "role"

type SkillLevel struct {
	Skill string `yaml:"skill"`
	Level int    `yaml:"level"`
}

type CategoryRequirements struct {
	Category string       `yaml:"category"`
	Skills   []SkillLevel `yaml:"skills"`
}

// Requirements is the expected skill profile used by AnalyzeGaps.
type Requirements struct {
	DefaultRole   string                  `yaml:"defaultRole"`
	DefaultWeight int                     `yaml:"defaultWeight"`
	Industry      []CategoryRequirements  `yaml:"industry"`
	Roles         map[string][]SkillLevel `yaml:"roles"`
	Weights       map[string]int          `yaml:"weights"`
}

type Gap struct {
	Skill    string  `json:"skill"`
	Category string  `json:"category"`
	Required int     `json:"required"`
	Current  int     `json:"current"`
	Gap      int     `json:"gap"`
	Impact   float64 `json:"impact"`
}

// GapAnalysis buckets every required skill by how far the student falls short.
// Critical and Moderate are ordered by impact, highest first.
type GapAnalysis struct {
	Role     string `json:"role"`
	Critical []Gap  `json:"criticalGaps"`
	Moderate []Gap  `json:"moderateGaps"`
	Minor    []Gap  `json:"minorGaps"`
	Strong   []Gap  `json:"strongAreas"`
}

// LoadRequirements reads a requirements table.
func LoadRequirements(r io.Reader) (*Requirements, error) {
	var req Requirements
	if err := yaml.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("decode requirements: %w", err)
	}
	if len(req.Industry) == 0 && len(req.Roles) == 0 {
		return nil, errors.New("requirements table is empty")
	}
	if req.DefaultWeight <= 0 {
		req.DefaultWeight = 50
	}
	return &req, nil
}

var (
	requirementsOnce sync.Once
	requirements     *Requirements
)

// DefaultRequirements returns the embedded table. Callers must not modify it.
func DefaultRequirements() *Requirements {
	requirementsOnce.Do(func() {
		var err error
		requirements, err = LoadRequirements(bytes.NewReader(requirementsYAML))
		if err != nil {
			panic(err)
		}
	})
	return requirements
}

// AnalyzeGaps compares self-rated skill levels against the embedded requirements for role.
func AnalyzeGaps(current map[string]int, role string) GapAnalysis {
	return DefaultRequirements().Analyze(current, role)
}

// Analyze compares current levels (keyed by skill, case-insensitive, missing means 0) against
// the industry table with the role's levels laid over it. An unknown role falls back to
// DefaultRole.
func (r *Requirements) Analyze(current map[string]int, role string) GapAnalysis {
	role = strings.ToLower(strings.TrimSpace(role))
	roleSkills, ok := r.Roles[role]
	if !ok {
		role = r.DefaultRole
		roleSkills = r.Roles[role]
	}

	levels := make(map[string]int, len(current))
	for skill, level := range current {
		levels[strings.ToLower(skill)] = level
	}
	overrides := make(map[string]int, len(roleSkills))
	for _, s := range roleSkills {
		overrides[strings.ToLower(s.Skill)] = s.Level
	}

	out := GapAnalysis{Role: role}
	seen := map[string]bool{}
	for _, cat := range r.Industry {
		for _, s := range cat.Skills {
			key := strings.ToLower(s.Skill)
			if seen[key] {
				continue
			}
			seen[key] = true
			required := s.Level
			if lvl, ok := overrides[key]; ok {
				required = lvl
			}
			out.add(r.gap(s.Skill, cat.Category, required, levels[key]))
		}
	}
	for _, s := range roleSkills {
		key := strings.ToLower(s.Skill)
		if seen[key] {
			continue
		}
		seen[key] = true
		out.add(r.gap(s.Skill, RoleCategory, s.Level, levels[key]))
	}

	byImpact := func(gaps []Gap) {
		sort.SliceStable(gaps, func(i, j int) bool { return gaps[i].Impact > gaps[j].Impact })
	}
	byImpact(out.Critical)
	byImpact(out.Moderate)
	return out
}

func (r *Requirements) gap(skill, category string, required, current int) Gap {
	g := Gap{Skill: skill, Category: category, Required: required, Current: current, Gap: required - current}
	weight, ok := r.Weights[skill]
	if !ok {
		weight = r.DefaultWeight
	}
	g.Impact = math.Min(100, float64(g.Gap)/100*float64(weight))
	return g
}

func (a *GapAnalysis) add(g Gap) {
	switch {
	case g.Gap > CriticalGap:
		a.Critical = append(a.Critical, g)
	case g.Gap > ModerateGap:
		a.Moderate = append(a.Moderate, g)
	case g.Gap > 0:
		a.Minor = append(a.Minor, g)
	default:
		a.Strong = append(a.Strong, g)
	}
}
