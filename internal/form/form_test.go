package form

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStandard_DefersSections(t *testing.T) {
	s := NewStandard()
	assert.True(t, s.HasSection(SectionBasic))
	assert.False(t, s.HasSection(SectionEducation))
	assert.False(t, s.Has(FieldCollege))

	require.NoError(t, s.EnsureSection(SectionEducation))
	assert.True(t, s.Has(FieldCollege))
	assert.Error(t, s.EnsureSection("payments"))
}

func TestState_EnsureSectionKeepsExistingValues(t *testing.T) {
	s := NewStandard()
	require.NoError(t, s.SetValue(FieldPhone, "9876543210"))
	require.NoError(t, s.EnsureSection(SectionBasic))
	assert.Equal(t, "9876543210", s.Value(FieldPhone))
}

func TestState_SelectRejectsUnknownOption(t *testing.T) {
	s := NewStandard()
	require.NoError(t, s.SetValue(FieldState, "karnataka"))
	assert.Error(t, s.SetValue(FieldState, "atlantis"))
	assert.Equal(t, "karnataka", s.Value(FieldState))

	assert.ErrorIs(t, s.SetValue("nope", "x"), ErrUnknownControl)
}

func TestState_SetOptionsDropsStaleValue(t *testing.T) {
	s := NewStandard()
	require.NoError(t, s.SetOptions(FieldDistrict, []string{"pune", "mumbai"}))
	require.NoError(t, s.SetValue(FieldDistrict, "pune"))

	require.NoError(t, s.SetOptions(FieldDistrict, []string{"pune", "nagpur"}))
	assert.Equal(t, "pune", s.Value(FieldDistrict))

	require.NoError(t, s.SetOptions(FieldDistrict, []string{"jaipur"}))
	assert.Empty(t, s.Value(FieldDistrict))
}

func TestState_RadioGroupIsExclusive(t *testing.T) {
	s := NewStandard()
	require.NoError(t, s.Check("male"))
	require.NoError(t, s.Check("female"))

	assert.False(t, s.Checked("male"))
	assert.True(t, s.Checked("female"))
	assert.True(t, s.GroupChecked(GroupGender))
	assert.False(t, s.GroupChecked(GroupCategory))
	assert.Error(t, s.Check(FieldPhone))
}

func TestState_ValuesRoundTrip(t *testing.T) {
	s := NewStandard()
	require.NoError(t, s.EnsureSection(SectionSkills))
	require.NoError(t, s.SetValue(FieldPincode, "411001"))
	require.NoError(t, s.Check("obc"))
	require.NoError(t, s.Check("tech-0"))

	values := s.Values()
	assert.Equal(t, map[string]string{
		FieldPincode:  "411001",
		GroupCategory: "obc",
		"tech-0":      "Python",
	}, values)

	restored := NewStandard()
	require.NoError(t, restored.EnsureSection(SectionSkills))
	restored.Restore(values)
	assert.Equal(t, values, restored.Values())
}

func TestState_SelectedSkills(t *testing.T) {
	s := NewStandard()
	require.NoError(t, s.EnsureSection(SectionSkills))
	require.NoError(t, s.Check("tech-1"))
	s.CustomSkills.Add("Rust")

	assert.Equal(t, []string{"Java", "Rust"}, s.SelectedSkills())
}

func TestCustomSkillSet(t *testing.T) {
	set := NewCustomSkillSet("Rust", "rust", " ", "Tableau")
	assert.Equal(t, []string{"Rust", "Tableau"}, set.List())
	assert.True(t, set.Contains("RUST"))

	assert.False(t, set.Add("TABLEAU"))
	assert.True(t, set.Remove("rust"))
	assert.False(t, set.Remove("rust"))
	assert.Equal(t, 1, set.Len())

	set.Clear()
	assert.Zero(t, set.Len())
}

func validBasic(t *testing.T) *State {
	t.Helper()
	s := NewStandard()
	require.NoError(t, s.SetValue(FieldPhone, "+91 9876543210"))
	require.NoError(t, s.SetValue(FieldDOB, "2002-03-15"))
	require.NoError(t, s.SetValue(FieldPincode, "411001"))
	return s
}

func TestValidateStep_Basic(t *testing.T) {
	now := func() time.Time { return time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC) }
	v := NewValidator(now)

	tests := []struct {
		name  string
		field string
		value string
		fail  string
	}{
		{"valid", "", "", ""},
		{"landline", FieldPhone, "0201234567", FieldPhone},
		{"short phone", FieldPhone, "98765", FieldPhone},
		{"too young", FieldDOB, "2015-01-01", FieldDOB},
		{"too old", FieldDOB, "1950-01-01", FieldDOB},
		{"unparseable dob", FieldDOB, "15/03/2002", FieldDOB},
		{"empty dob skips age", FieldDOB, "", ""},
		{"short pincode", FieldPincode, "41100", FieldPincode},
		{"missing pincode", FieldPincode, "", FieldPincode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validBasic(t)
			if tt.field != "" {
				require.NoError(t, s.SetValue(tt.field, tt.value))
			}
			err := v.ValidateStep(s, 1)
			if tt.fail == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrValidationFailed)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.fail, verr.Field)
			assert.NotEmpty(t, verr.Message)
		})
	}
}

func TestValidateStep_Skills(t *testing.T) {
	v := NewValidator(nil)

	s := NewStandard()
	require.NoError(t, s.EnsureSection(SectionSkills))
	err := v.ValidateStep(s, 3)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, GroupSkills, verr.Field)

	s.CustomSkills.Add("Rust")
	assert.NoError(t, v.ValidateStep(s, 3))

	tests := []struct {
		name  string
		field string
		value string
		ok    bool
	}{
		{"github profile", FieldGithub, "https://github.com/ashaverma", true},
		{"github without scheme", FieldGithub, "github.com/asha_v/repo", true},
		{"github wrong host", FieldGithub, "https://gitlab.com/asha", false},
		{"linkedin profile", FieldLinkedin, "https://www.linkedin.com/in/asha-verma", true},
		{"linkedin company", FieldLinkedin, "linkedin.com/company/pragati", true},
		{"linkedin feed", FieldLinkedin, "https://linkedin.com/feed", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, s.SetValue(FieldGithub, ""))
			require.NoError(t, s.SetValue(FieldLinkedin, ""))
			require.NoError(t, s.SetValue(tt.field, tt.value))
			err := v.ValidateStep(s, 3)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestValidateStep_OtherSteps(t *testing.T) {
	v := NewValidator(nil)
	s := NewStandard()
	assert.NoError(t, v.ValidateStep(s, 2))
	assert.NoError(t, v.ValidateStep(s, 5))
	assert.Error(t, v.ValidateStep(s, 0))
	assert.Error(t, v.ValidateStep(s, Steps+1))
}
