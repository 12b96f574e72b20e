// Package profile parses resume text into a sparse candidate profile using fixed heuristics.
//
// Every field is optional. An empty string or nil slice means the field was not detected;
// the parser never reports a field as explicitly empty.
package profile

// Profile is the set of candidate fields detected in one resume.
type Profile struct {
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Gender      string `json:"gender,omitempty"`

	State    string `json:"state,omitempty"`
	District string `json:"district,omitempty"`
	Pincode  string `json:"pincode,omitempty"`
	AreaType string `json:"areaType,omitempty"`
	Category string `json:"category,omitempty"`

	GithubURL   string `json:"githubUrl,omitempty"`
	LinkedinURL string `json:"linkedinUrl,omitempty"`

	CGPA           string `json:"cgpa,omitempty"`
	PassingYear    string `json:"passingYear,omitempty"`
	EducationLevel string `json:"educationLevel,omitempty"`
	Course         string `json:"course,omitempty"`
	CollegeName    string `json:"collegeName,omitempty"`
	YearOfStudy    string `json:"yearOfStudy,omitempty"`

	Languages  []string `json:"languages,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	CareerGoal string   `json:"careerGoalText,omitempty"`
}

// MaxSkills caps the detected skill list.
const MaxSkills = 25

// IsEmpty reports whether nothing at all was detected.
func (p *Profile) IsEmpty() bool {
	if p == nil {
		return true
	}
	for _, v := range p.scalars() {
		if *v != "" {
			return false
		}
	}
	return len(p.Languages) == 0 && len(p.Skills) == 0
}

// FillFrom copies every field of other that p has not detected itself. Skills from other are
// appended after p's own, deduplicated, up to MaxSkills.
func (p *Profile) FillFrom(other *Profile) {
	if other == nil {
		return
	}
	mine := p.scalars()
	theirs := other.scalars()
	for i := range mine {
		if *mine[i] == "" {
			*mine[i] = *theirs[i]
		}
	}
	if len(p.Languages) == 0 {
		p.Languages = append([]string(nil), other.Languages...)
	}

	skills := newSkillList(p.Skills)
	for _, s := range other.Skills {
		skills.add(s)
	}
	p.Skills = skills.items
}

func (p *Profile) scalars() []*string {
	return []*string{
		&p.Email, &p.Phone, &p.DateOfBirth, &p.Gender,
		&p.State, &p.District, &p.Pincode, &p.AreaType, &p.Category,
		&p.GithubURL, &p.LinkedinURL,
		&p.CGPA, &p.PassingYear, &p.EducationLevel, &p.Course, &p.CollegeName, &p.YearOfStudy,
		&p.CareerGoal,
	}
}
