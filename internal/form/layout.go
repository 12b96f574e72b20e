package form

import (
	"fmt"

	"github.com/muhammadolammi/pragatiworker/internal/profile"
)

// Section names of the registration wizard.
const (
	SectionBasic     = "basic"
	SectionEducation = "education"
	SectionSkills    = "skills"
)

// Control IDs and group names shared by the standard layout, auto-fill and validation.
const (
	FieldPhone          = "phone"
	FieldDOB            = "dob"
	FieldState          = "state"
	FieldDistrict       = "district"
	FieldPincode        = "pincode"
	FieldEducationLevel = "education-level"
	FieldCourse         = "course"
	FieldCollege        = "college"
	FieldYear           = "year"
	FieldCGPA           = "cgpa"
	FieldPassingYear    = "passing-year"
	FieldGithub         = "github"
	FieldLinkedin       = "linkedin"
	FieldCareerGoal     = "career-goal"

	GroupGender    = "gender"
	GroupAreaType  = "area-type"
	GroupCategory  = "category"
	GroupLanguages = "languages"
	GroupSkills    = "tech-skills"
)

// Steps is the number of wizard steps.
const Steps = 5

// NewStandard returns an empty form with the basic section built and the education and skills
// sections deferred until something needs them.
func NewStandard() *State {
	s := New(StandardLayout(profile.DefaultRegions(), profile.DefaultVocabulary()))
	if err := s.EnsureSection(SectionBasic); err != nil {
		panic(err)
	}
	return s
}

// StandardLayout builds the registration wizard sections from the region and skill tables.
func StandardLayout(regions *profile.RegionTable, skills []string) Builder {
	return func(section string) ([]Control, error) {
		switch section {
		case SectionBasic:
			return basicSection(regions), nil
		case SectionEducation:
			return educationSection(), nil
		case SectionSkills:
			return skillsSection(skills), nil
		}
		return nil, fmt.Errorf("unknown section %q", section)
	}
}

func basicSection(regions *profile.RegionTable) []Control {
	controls := []Control{
		{ID: FieldPhone, Name: FieldPhone, Kind: Text, Label: "Mobile Number"},
		{ID: FieldDOB, Name: FieldDOB, Kind: Text, Label: "Date of Birth"},
	}
	controls = append(controls, radios(GroupGender, "male", "female", "other")...)
	controls = append(controls,
		Control{ID: FieldState, Name: FieldState, Kind: Select, Label: "State", Options: regions.StateNames()},
		Control{ID: FieldDistrict, Name: FieldDistrict, Kind: Select, Label: "District"},
		Control{ID: FieldPincode, Name: FieldPincode, Kind: Text, Label: "Pincode"},
	)
	controls = append(controls, radios(GroupAreaType, "urban", "rural")...)
	controls = append(controls, radios(GroupCategory, "general", "obc", "sc", "st", "ews")...)
	return controls
}

func educationSection() []Control {
	controls := []Control{
		{ID: FieldEducationLevel, Name: FieldEducationLevel, Kind: Select, Label: "Education Level",
			Options: []string{"12th", "diploma", "graduation", "post-graduation"}},
		{ID: FieldCourse, Name: FieldCourse, Kind: Select, Label: "Course",
			Options: []string{"btech-cse", "btech-it", "btech-ece", "btech-mech", "bca", "bcom", "bba", "mca", "mtech", "mba"}},
		{ID: FieldCollege, Name: FieldCollege, Kind: Text, Label: "College / University"},
		{ID: FieldYear, Name: FieldYear, Kind: Select, Label: "Current Year",
			Options: []string{"1", "2", "3", "4", "final"}},
		{ID: FieldCGPA, Name: FieldCGPA, Kind: Text, Label: "CGPA / Percentage"},
		{ID: FieldPassingYear, Name: FieldPassingYear, Kind: Select, Label: "Expected Passing Year",
			Options: []string{"2024", "2025", "2026", "2027", "2028"}},
	}
	for _, lang := range []string{"english", "hindi", "regional"} {
		controls = append(controls, Control{ID: lang, Name: GroupLanguages, Kind: Checkbox, Label: lang, Value: lang})
	}
	return controls
}

func skillsSection(skills []string) []Control {
	controls := make([]Control, 0, len(skills)+3)
	for i, s := range skills {
		controls = append(controls, Control{
			ID:    fmt.Sprintf("tech-%d", i),
			Name:  GroupSkills,
			Kind:  Checkbox,
			Label: s,
			Value: s,
		})
	}
	return append(controls,
		Control{ID: FieldGithub, Name: FieldGithub, Kind: Text, Label: "GitHub Profile"},
		Control{ID: FieldLinkedin, Name: FieldLinkedin, Kind: Text, Label: "LinkedIn Profile"},
		Control{ID: FieldCareerGoal, Name: FieldCareerGoal, Kind: Text, Label: "Career Goals"},
	)
}

func radios(group string, ids ...string) []Control {
	out := make([]Control, len(ids))
	for i, id := range ids {
		out[i] = Control{ID: id, Name: group, Kind: Radio, Label: id, Value: id}
	}
	return out
}

// SelectedSkills returns the ticked skill labels followed by the custom skills.
func (s *State) SelectedSkills() []string {
	var out []string
	for _, c := range s.Group(GroupSkills) {
		if c.Checked {
			out = append(out, SkillLabel(c))
		}
	}
	return append(out, s.CustomSkills.List()...)
}
