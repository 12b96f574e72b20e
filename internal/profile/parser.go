package profile

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	emailRegex    = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRegex    = regexp.MustCompile(`(?:^|\D)(?:\+91[-\s]?)?([6-9]\d{4})[-\s]?(\d{5})(?:\D|$)`)
	dobRegex      = regexp.MustCompile(`(?i)(?:DOB|D\.O\.B\.|Date of Birth)\s*[:\-]?\s*((?:\d{1,2}[/\-.]\d{1,2}[/\-.](?:19|20)\d{2})|(?:(?:19|20)\d{2}[/\-.]\d{1,2}[/\-.]\d{1,2}))`)
	genderRegex   = regexp.MustCompile(`(?i)\bGender\s*[:\-]?\s*(Male|Female|Other)\b`)
	githubRegex   = regexp.MustCompile(`(?i)https?://(?:www\.)?github\.com/[^\s)]+`)
	linkedinRegex = regexp.MustCompile(`(?i)https?://(?:www\.)?linkedin\.com/[^\s)]+`)
	cgpaRegex     = regexp.MustCompile(`(?i)(?:CGPA|GPA)[:\s]*([0-9]+(?:\.[0-9]{1,2})?)`)
	yearRegex     = regexp.MustCompile(`\b20(?:2[3-9]|30)\b`)

	skillsSectionRegex = regexp.MustCompile(`(?is)skills\s*[:\-]?\s*(.{0,400})`)
	skillDelimiter     = regexp.MustCompile(`[,•|]`)
	objectiveRegex     = regexp.MustCompile(`(?is)(?:objective|summary|career objective)\s*[:\-]?\s*(.{0,400})`)

	englishRegex = regexp.MustCompile(`(?i)\benglish\b`)
	hindiRegex   = regexp.MustCompile(`(?i)\bhindi\b`)
)

// keywordRule maps the first matching pattern in a family to a value.
type keywordRule struct {
	pattern *regexp.Regexp
	value   string
}

var educationLevelRules = []keywordRule{
	{regexp.MustCompile(`(?i)\b(?:m\.?tech|m\.e\.|master of technology|mca|mba)\b`), "post-graduation"},
	{regexp.MustCompile(`(?i)\b(?:b\.?tech|b\.e\.|bachelor of (?:engineering|technology)|bca)\b`), "graduation"},
	{regexp.MustCompile(`(?i)\bdiploma\b`), "diploma"},
	{regexp.MustCompile(`(?i)\b(?:12th|xii)\b`), "12th"},
}

var courseRules = []keywordRule{
	{regexp.MustCompile(`(?i)computer[\s-]science|\bcse\b|\binformation technology\b`), "btech-cse"},
	{regexp.MustCompile(`(?i)electronics|\bece\b`), "btech-ece"},
	{regexp.MustCompile(`(?i)\bmechanical\b`), "btech-mech"},
	{regexp.MustCompile(`(?i)\bbca\b`), "bca"},
	{regexp.MustCompile(`(?i)\bmca\b`), "mca"},
	{regexp.MustCompile(`(?i)\bm\.?tech\b`), "mtech"},
	{regexp.MustCompile(`(?i)\bmba\b`), "mba"},
}

var yearOfStudyRules = []keywordRule{
	{regexp.MustCompile(`(?i)\b1st year\b`), "1"},
	{regexp.MustCompile(`(?i)\b2nd year\b`), "2"},
	{regexp.MustCompile(`(?i)\b3rd year\b`), "3"},
	{regexp.MustCompile(`(?i)\b4th year\b`), "4"},
	{regexp.MustCompile(`(?i)\bfinal year\b`), "final"},
}

var collegeLineRegex = regexp.MustCompile(`(?i)college|university|institute`)

func firstRule(rules []keywordRule, text string) string {
	for _, r := range rules {
		if r.pattern.MatchString(text) {
			return r.value
		}
	}
	return ""
}

// Parser runs the field rules over resume text.
type Parser struct {
	regions    *RegionTable
	vocabulary []string
}

// NewParser uses the given tables; nil falls back to the embedded defaults.
func NewParser(regions *RegionTable, vocabulary []string) *Parser {
	if regions == nil {
		regions = DefaultRegions()
	}
	if vocabulary == nil {
		vocabulary = DefaultVocabulary()
	}
	return &Parser{regions: regions, vocabulary: vocabulary}
}

// Parse parses text with the embedded tables.
func Parse(text string) *Profile {
	return NewParser(nil, nil).Parse(text)
}

// Parse never fails: sparse input yields a sparser profile. Every rule runs independently.
func (p *Parser) Parse(text string) *Profile {
	out := &Profile{}
	lower := strings.ToLower(text)

	out.Email = emailRegex.FindString(text)
	// Grouped numbers such as "98765 43210" are joined back into ten digits.
	if m := phoneRegex.FindStringSubmatch(text); m != nil {
		out.Phone = m[1] + m[2]
	}
	out.DateOfBirth = extractDOB(text)
	if m := genderRegex.FindStringSubmatch(text); m != nil {
		out.Gender = strings.ToLower(m[1])
	}

	p.detectAddress(text, lower, out)

	out.GithubURL = githubRegex.FindString(text)
	out.LinkedinURL = linkedinRegex.FindString(text)

	if m := cgpaRegex.FindStringSubmatch(text); m != nil {
		if f, err := strconv.ParseFloat(m[1], 64); err == nil {
			out.CGPA = strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	for _, y := range yearRegex.FindAllString(text, -1) {
		if y > out.PassingYear {
			out.PassingYear = y
		}
	}

	out.EducationLevel = firstRule(educationLevelRules, text)
	out.Course = firstRule(courseRules, text)
	out.CollegeName = extractCollege(text)
	out.YearOfStudy = firstRule(yearOfStudyRules, text)

	if englishRegex.MatchString(text) {
		out.Languages = append(out.Languages, "english")
	}
	if hindiRegex.MatchString(text) {
		out.Languages = append(out.Languages, "hindi")
	}

	out.Skills = p.extractSkills(text, lower)

	if m := objectiveRegex.FindStringSubmatch(text); m != nil {
		out.CareerGoal = strings.TrimSpace(m[1])
	}
	return out
}

// extractDOB normalizes the labelled date to YYYY-MM-DD. Whichever end of the match has four
// digits is the year; no calendar validation happens.
func extractDOB(text string) string {
	m := dobRegex.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	raw := strings.NewReplacer(".", "-", "/", "-").Replace(m[1])
	parts := strings.Split(raw, "-")
	if len(parts) != 3 {
		return ""
	}
	for i := range parts {
		if len(parts[i]) < 2 {
			parts[i] = "0" + parts[i]
		}
	}
	if len(parts[0]) == 4 {
		return parts[0] + "-" + parts[1] + "-" + parts[2]
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0]
}

func extractCollege(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if collegeLineRegex.MatchString(line) {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func (p *Parser) extractSkills(text, lower string) []string {
	skills := newSkillList(nil)
	for _, s := range p.vocabulary {
		if strings.Contains(lower, strings.ToLower(s)) {
			skills.add(s)
		}
	}

	if m := skillsSectionRegex.FindStringSubmatch(text); m != nil {
		section := strings.ReplaceAll(m[1], "\n", ", ")
		for _, token := range skillDelimiter.Split(section, -1) {
			skills.add(token)
		}
	}
	return skills.items
}

// skillList keeps insertion order and rejects case-insensitive duplicates.
type skillList struct {
	items []string
	seen  map[string]bool
}

func newSkillList(initial []string) *skillList {
	l := &skillList{seen: make(map[string]bool)}
	for _, s := range initial {
		l.add(s)
	}
	return l
}

func (l *skillList) add(skill string) {
	skill = strings.TrimSpace(skill)
	key := strings.ToLower(skill)
	if skill == "" || l.seen[key] || len(l.items) >= MaxSkills {
		return
	}
	l.seen[key] = true
	l.items = append(l.items, skill)
}
