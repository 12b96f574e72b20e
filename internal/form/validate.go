package form

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var ErrValidationFailed = errors.New("validation failed")

// ValidationError names the first field that blocks advancing past a step.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

var (
	mobileRegex   = regexp.MustCompile(`^(\+91\s?)?[6-9]\d{9}$`)
	pincodeRegex  = regexp.MustCompile(`^\d{6}$`)
	githubRegex   = regexp.MustCompile(`^(https?://)?(www\.)?github\.com/[A-Za-z0-9_-]+(/.+)?$`)
	linkedinRegex = regexp.MustCompile(`^(https?://)?(www\.)?linkedin\.com/(in|company)/[A-Za-z0-9_-]+(/.+)?$`)
)

const (
	MinAge = 16
	MaxAge = 60
)

var messages = map[string]string{
	"mobile_in":    "Enter a valid Indian mobile number.",
	"age_range":    fmt.Sprintf("Age must be between %d and %d years.", MinAge, MaxAge),
	"pincode_in":   "Enter a valid 6-digit pincode.",
	"min":          "Select at least one skill or add a custom skill.",
	"github_url":   "Enter a valid GitHub URL.",
	"linkedin_url": "Enter a valid LinkedIn URL.",
}

type basicStep struct {
	Phone   string `json:"phone" validate:"mobile_in"`
	DOB     string `json:"dob" validate:"omitempty,age_range"`
	Pincode string `json:"pincode" validate:"pincode_in"`
}

type skillsStep struct {
	Skills   int    `json:"tech-skills" validate:"min=1"`
	Github   string `json:"github" validate:"omitempty,github_url"`
	Linkedin string `json:"linkedin" validate:"omitempty,linkedin_url"`
}

// Validator runs the per-step checks of the wizard.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// NewValidator returns a Validator; now supplies the reference time for the age check and
// defaults to time.Now.
func NewValidator(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	v := &Validator{validate: validator.New(), now: now}
	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v.validate, "mobile_in", matches(mobileRegex))
	mustRegister(v.validate, "pincode_in", matches(pincodeRegex))
	mustRegister(v.validate, "github_url", matches(githubRegex))
	mustRegister(v.validate, "linkedin_url", matches(linkedinRegex))
	mustRegister(v.validate, "age_range", v.ageInRange)
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s: %v", tag, err))
	}
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// ageInRange accepts a YYYY-MM-DD birth date whose age in Julian years lies within the bounds.
func (v *Validator) ageInRange(fl validator.FieldLevel) bool {
	dob, err := time.Parse(time.DateOnly, fl.Field().String())
	if err != nil {
		return false
	}
	years := v.now().Sub(dob).Hours() / (365.25 * 24)
	return years >= MinAge && years <= MaxAge
}

// ValidateStep checks the controls of one wizard step. Steps without extra checks always pass.
// A failure is a *ValidationError for the first offending field.
func (v *Validator) ValidateStep(s *State, step int) error {
	if step < 1 || step > Steps {
		return fmt.Errorf("unknown step %d", step)
	}
	var target any
	switch step {
	case 1:
		target = basicStep{
			Phone:   s.Value(FieldPhone),
			DOB:     s.Value(FieldDOB),
			Pincode: s.Value(FieldPincode),
		}
	case 3:
		target = skillsStep{
			Skills:   len(s.SelectedSkills()),
			Github:   strings.TrimSpace(s.Value(FieldGithub)),
			Linkedin: strings.TrimSpace(s.Value(FieldLinkedin)),
		}
	default:
		return nil
	}
	return v.check(target)
}

func (v *Validator) check(target any) error {
	err := v.validate.Struct(target)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	first := fieldErrs[0]
	msg, ok := messages[first.Tag()]
	if !ok {
		msg = fmt.Sprintf("failed %s check", first.Tag())
	}
	return &ValidationError{Field: first.Field(), Message: msg}
}
