// Package autofill writes a parsed profile into the registration form without overwriting
// anything the student already entered.
package autofill

import (
	"log"
	"slices"
	"strings"

	"github.com/muhammadolammi/pragatiworker/internal/form"
	"github.com/muhammadolammi/pragatiworker/internal/profile"
)

// DistrictSource lists the district option values for a state.
type DistrictSource interface {
	Districts(state string) []string
}

// Result reports what one run touched. An empty Filled list means nothing changed.
type Result struct {
	Filled       []string `json:"filled"`
	CustomSkills []string `json:"customSkills,omitempty"`
}

type Mapper struct {
	Highlighter Highlighter
	Districts   DistrictSource
}

// New returns a Mapper. Nil arguments select the timed highlighter and the embedded region table.
func New(h Highlighter, districts DistrictSource) *Mapper {
	if h == nil {
		h = NewTimedHighlighter(DefaultHighlightDuration)
	}
	if districts == nil {
		districts = profile.DefaultRegions()
	}
	return &Mapper{Highlighter: h, Districts: districts}
}

type run struct {
	m      *Mapper
	f      *form.State
	result Result
}

// Apply fills every empty control that has a detected value. Running it twice with the same
// profile leaves the form unchanged the second time.
func (m *Mapper) Apply(p *profile.Profile, f *form.State) Result {
	r := &run{m: m, f: f}
	if p == nil {
		return r.result
	}

	r.section(form.SectionBasic)
	r.text(form.FieldPhone, p.Phone)
	r.text(form.FieldDOB, p.DateOfBirth)
	if p.Gender != "" {
		id := p.Gender
		if id != "male" && id != "female" {
			id = "other"
		}
		r.radio(form.GroupGender, id)
	}
	r.location(p.State, p.District)
	r.text(form.FieldPincode, p.Pincode)
	r.radio(form.GroupAreaType, p.AreaType)
	r.radio(form.GroupCategory, p.Category)

	r.section(form.SectionEducation)
	r.text(form.FieldEducationLevel, p.EducationLevel)
	r.text(form.FieldCourse, p.Course)
	r.text(form.FieldCollege, p.CollegeName)
	r.text(form.FieldYear, p.YearOfStudy)
	r.text(form.FieldCGPA, p.CGPA)
	r.text(form.FieldPassingYear, p.PassingYear)
	for _, lang := range p.Languages {
		r.checkbox(form.GroupLanguages, lang)
	}

	r.section(form.SectionSkills)
	r.text(form.FieldGithub, p.GithubURL)
	r.text(form.FieldLinkedin, p.LinkedinURL)
	r.text(form.FieldCareerGoal, p.CareerGoal)
	r.skills(p.Skills)

	return r.result
}

func (r *run) section(name string) {
	if err := r.f.EnsureSection(name); err != nil {
		log.Printf("[AutoFill] section %s unavailable: %v", name, err)
	}
}

func (r *run) touch(id string) {
	r.result.Filled = append(r.result.Filled, id)
	r.m.Highlighter.Highlight(r.f, id)
}

func (r *run) text(id, value string) {
	if value == "" || !r.f.Has(id) || r.f.Value(id) != "" {
		return
	}
	if err := r.f.SetValue(id, value); err != nil {
		return
	}
	r.touch(id)
}

func (r *run) radio(group, id string) {
	if id == "" || r.f.GroupChecked(group) {
		return
	}
	c, ok := r.f.Control(id)
	if !ok || c.Kind != form.Radio || c.Name != group {
		return
	}
	if err := r.f.Check(id); err == nil {
		r.touch(id)
	}
}

func (r *run) checkbox(group, id string) {
	c, ok := r.f.Control(id)
	if !ok || c.Kind != form.Checkbox || c.Name != group || c.Checked {
		return
	}
	if err := r.f.Check(id); err == nil {
		r.touch(id)
	}
}

// location fills the state, then offers the state's districts and picks the detected one when
// it is among them. A district the student already chose is left alone.
func (r *run) location(state, district string) {
	r.text(form.FieldState, state)
	if !r.f.Has(form.FieldDistrict) || r.f.Value(form.FieldDistrict) != "" {
		return
	}
	current := r.f.Value(form.FieldState)
	if current == "" {
		return
	}
	options := r.m.Districts.Districts(current)
	if err := r.f.SetOptions(form.FieldDistrict, options); err != nil {
		return
	}
	district = strings.ToLower(district)
	if district != "" && slices.Contains(options, district) {
		r.text(form.FieldDistrict, district)
	}
}

// skills ticks matching checkboxes by label and adds every other skill to the custom list.
func (r *run) skills(skills []string) {
	boxes := r.f.Group(form.GroupSkills)
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		i := slices.IndexFunc(boxes, func(c form.Control) bool {
			return strings.EqualFold(form.SkillLabel(c), skill)
		})
		if i >= 0 {
			if !boxes[i].Checked {
				if err := r.f.Check(boxes[i].ID); err == nil {
					boxes[i].Checked = true
					r.touch(boxes[i].ID)
				}
			}
			continue
		}
		if r.f.CustomSkills.Add(skill) {
			r.result.CustomSkills = append(r.result.CustomSkills, skill)
		}
	}
}
