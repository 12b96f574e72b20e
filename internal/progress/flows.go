package progress

import "time"

// AnalysisSteps is shown while an uploaded resume is analysed.
var AnalysisSteps = []Step{
	{Status: "Document Processing...", Detail: "Extracting text and formatting from your resume", Duration: 1500 * time.Millisecond},
	{Status: "NLP Analysis...", Detail: "Understanding your experience and skills", Duration: 2000 * time.Millisecond},
	{Status: "Skill Inference...", Detail: "Identifying hidden skills and abilities", Duration: 1800 * time.Millisecond},
	{Status: "Career Mapping...", Detail: "Analyzing your career aspirations", Duration: 1200 * time.Millisecond},
	{Status: "Profile Building...", Detail: "Creating your comprehensive profile", Duration: 1000 * time.Millisecond},
}

// MatchingSteps is shown while internships are matched.
var MatchingSteps = []Step{
	{Status: "Analyzing your profile...", Duration: 1500 * time.Millisecond},
	{Status: "Scanning 2,847 companies...", Duration: 2000 * time.Millisecond},
	{Status: "Running optimization algorithms...", Duration: 1800 * time.Millisecond},
	{Status: "Calculating success probabilities...", Duration: 1200 * time.Millisecond},
	{Status: "Finalizing matches...", Duration: 1000 * time.Millisecond},
}

// Flow names a built-in step list.
func Flow(name string) ([]Step, bool) {
	switch name {
	case "analysis":
		return AnalysisSteps, true
	case "matching":
		return MatchingSteps, true
	}
	return nil, false
}
