package match

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tierTable = `
defaultRole: any
industry:
  - category: core
    skills:
      - {skill: X, level: 100}
roles:
  any: []
`

func tierOf(a GapAnalysis) string {
	switch {
	case len(a.Critical) == 1:
		return "critical"
	case len(a.Moderate) == 1:
		return "moderate"
	case len(a.Minor) == 1:
		return "minor"
	case len(a.Strong) == 1:
		return "strong"
	}
	return ""
}

func TestAnalyze_TierBoundaries(t *testing.T) {
	req, err := LoadRequirements(strings.NewReader(tierTable))
	require.NoError(t, err)
	assert.Equal(t, 50, req.DefaultWeight)

	tests := []struct {
		current int
		gap     int
		tier    string
	}{
		{39, 61, "critical"},
		{40, 60, "moderate"},
		{69, 31, "moderate"},
		{70, 30, "minor"},
		{99, 1, "minor"},
		{100, 0, "strong"},
		{120, -20, "strong"},
	}
	for _, tt := range tests {
		t.Run(tt.tier, func(t *testing.T) {
			a := req.Analyze(map[string]int{"x": tt.current}, "any")
			assert.Equal(t, tt.tier, tierOf(a), "gap %d", tt.gap)

			all := append(append(append(a.Critical, a.Moderate...), a.Minor...), a.Strong...)
			require.Len(t, all, 1)
			assert.Equal(t, tt.gap, all[0].Gap)
			assert.InDelta(t, float64(tt.gap)/100*50, all[0].Impact, 1e-9)
		})
	}
}

func TestAnalyze_OrdersByImpact(t *testing.T) {
	req, err := LoadRequirements(strings.NewReader(`
defaultRole: any
industry:
  - category: core
    skills:
      - {skill: Low, level: 100}
      - {skill: Mid, level: 80}
      - {skill: Capped, level: 70}
      - {skill: ModA, level: 40}
      - {skill: ModB, level: 50}
roles:
  any: []
weights:
  Mid: 90
  Capped: 200
  ModB: 90
`))
	require.NoError(t, err)

	a := req.Analyze(nil, "any")

	var critical []string
	for _, g := range a.Critical {
		critical = append(critical, g.Skill)
	}
	assert.Equal(t, []string{"Capped", "Mid", "Low"}, critical)
	assert.Equal(t, 100.0, a.Critical[0].Impact)
	assert.InDelta(t, 72.0, a.Critical[1].Impact, 1e-9)
	assert.InDelta(t, 50.0, a.Critical[2].Impact, 1e-9)

	require.Len(t, a.Moderate, 2)
	assert.Equal(t, "ModB", a.Moderate[0].Skill)
	assert.Equal(t, "ModA", a.Moderate[1].Skill)
}

func TestAnalyzeGaps_EmbeddedTable(t *testing.T) {
	tests := []struct {
		name string
		role string
		want string
	}{
		{"unknown role falls back", "devops", "fullstack"},
		{"role is case-insensitive", " Frontend ", "frontend"},
		{"backend", "backend", "backend"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnalyzeGaps(nil, tt.role).Role)
		})
	}

	t.Run("role levels override industry levels", func(t *testing.T) {
		a := AnalyzeGaps(map[string]int{"javascript": 85}, "fullstack")
		var strong []string
		for _, g := range a.Strong {
			strong = append(strong, g.Skill)
		}
		assert.Contains(t, strong, "JavaScript")

		require.NotEmpty(t, a.Critical)
		assert.Equal(t, "AWS", a.Critical[0].Skill)
		assert.InDelta(t, 80.75, a.Critical[0].Impact, 1e-9)
	})

	t.Run("role only skills are added", func(t *testing.T) {
		a := AnalyzeGaps(nil, "frontend")
		var found *Gap
		for _, g := range a.Critical {
			if g.Skill == "CSS" {
				found = &g
			}
		}
		require.NotNil(t, found)
		assert.Equal(t, RoleCategory, found.Category)
		assert.Equal(t, 80, found.Required)
	})
}

func TestLoadRequirements_Empty(t *testing.T) {
	_, err := LoadRequirements(strings.NewReader("defaultRole: x\n"))
	assert.Error(t, err)
}
