package match

import (
	"slices"
	"strings"
)

// maxHiddenSkills caps the soft skills InferHiddenSkills reports.
const maxHiddenSkills = 4

var baseHiddenSkills = []string{"Communication", "Team Collaboration"}

var hiddenSkillMap = map[string][]string{
	"JavaScript":       {"Problem Solving", "Logical Thinking"},
	"Python":           {"Data Analysis", "Analytical Skills"},
	"React":            {"UI/UX Understanding", "Component Architecture"},
	"SQL":              {"Database Design", "Query Optimization"},
	"Machine Learning": {"Statistical Analysis", "Pattern Recognition"},
}

// InferHiddenSkills derives soft skills from technical ones. The two baseline skills always come
// first, so the result never exceeds two inferred additions.
func InferHiddenSkills(technical []string) []string {
	out := slices.Clone(baseHiddenSkills)
	for _, skill := range technical {
		for _, hidden := range hiddenSkillMap[skill] {
			if !slices.Contains(out, hidden) {
				out = append(out, hidden)
			}
		}
	}
	if len(out) > maxHiddenSkills {
		out = out[:maxHiddenSkills]
	}
	return out
}

// InferCareerPath suggests a track from the selected skills, then from the free-text goal.
func InferCareerPath(skills []string, careerGoal string) string {
	goal := strings.ToLower(careerGoal)
	switch {
	case slices.Contains(skills, "Python") && slices.Contains(skills, "Machine Learning"):
		return "AI/ML Engineer & Data Scientist"
	case slices.Contains(skills, "React") && slices.Contains(skills, "JavaScript"):
		return "Full-Stack Web Developer"
	case strings.Contains(goal, "data"):
		return "Data Analyst & Business Intelligence"
	case strings.Contains(goal, "mobile"):
		return "Mobile App Developer"
	default:
		return "Software Developer & Technical Consultant"
	}
}

// DefaultSkills stands in when a student has selected nothing yet.
var DefaultSkills = []string{"JavaScript", "Python", "React", "SQL", "Node.js"}

// SkillsOrDefault returns skills, or DefaultSkills when the list is empty.
func SkillsOrDefault(skills []string) []string {
	if len(skills) == 0 {
		return slices.Clone(DefaultSkills)
	}
	return skills
}
