// Package match scores internship listings against a student's skills and location.
package match

import (
	"math"
	"math/rand/v2"
	"sort"
	"strings"
)

// Component weights of the composite match score.
const (
	SkillWeight    = 0.6
	LocationWeight = 0.2
	CultureWeight  = 0.2
)

const (
	neutralSkillScore  = 50
	noPreferenceScore  = 70
	sameLocationScore  = 100
	otherLocationScore = 40
	maxComponentScore  = 100
)

// Listing is one internship offer.
type Listing struct {
	ID       int      `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Company  string   `json:"company" yaml:"company"`
	Location string   `json:"location" yaml:"location"`
	Skills   []string `json:"skills" yaml:"skills"`
	Stipend  string   `json:"stipend" yaml:"stipend"`
	Duration string   `json:"duration" yaml:"duration"`
}

// RankedListing is a listing with its rounded score breakdown.
type RankedListing struct {
	Listing
	MatchScore    int `json:"matchScore"`
	SkillMatch    int `json:"skillMatch"`
	LocationMatch int `json:"locationMatch"`
	CultureFit    int `json:"cultureFit"`
}

// Candidate is what the matcher knows about a student.
type Candidate struct {
	Skills   []string `json:"skills"`
	Location string   `json:"location,omitempty"`
}

// RandomSource supplies the placeholder culture-fit draw in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// SkillOverlap is the percentage of required skills the candidate covers. A required skill is
// covered when a possessed skill contains it or is contained by it, ignoring case. With either
// list empty the overlap is neutral, 50.
func SkillOverlap(required, possessed []string) float64 {
	if len(required) == 0 || len(possessed) == 0 {
		return neutralSkillScore
	}
	matched := 0
	for _, r := range required {
		r = strings.ToLower(r)
		for _, p := range possessed {
			p = strings.ToLower(p)
			if strings.Contains(p, r) || strings.Contains(r, p) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(required)) * 100
}

// LocationMatch compares a listing location with the candidate preference, ignoring case.
func LocationMatch(location, preference string) float64 {
	if preference == "" {
		return noPreferenceScore
	}
	loc := strings.ToLower(location)
	pref := strings.ToLower(preference)
	if strings.Contains(loc, pref) || strings.Contains(pref, loc) {
		return sameLocationScore
	}
	return otherLocationScore
}

// Rank scores every listing and orders them by descending match score. Listings with equal
// scores keep their input order. A nil culture source uses the global generator.
func Rank(listings []Listing, c Candidate, culture RandomSource) []RankedListing {
	if culture == nil {
		culture = globalSource{}
	}
	out := make([]RankedListing, len(listings))
	for i, l := range listings {
		skill := SkillOverlap(l.Skills, c.Skills)
		location := LocationMatch(l.Location, c.Location)
		fit := culture.Float64() * maxComponentScore
		score := skill*SkillWeight + location*LocationWeight + fit*CultureWeight
		out[i] = RankedListing{
			Listing:       l,
			MatchScore:    round(score),
			SkillMatch:    round(skill),
			LocationMatch: round(location),
			CultureFit:    round(fit),
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchScore > out[j].MatchScore
	})
	return out
}

func round(f float64) int {
	return int(math.Round(f))
}
