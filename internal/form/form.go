// Package form models the student registration wizard: its controls, lazily built sections
// and the custom skill list.
package form

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Kind is the type of an input control.
type Kind int

const (
	Text Kind = iota
	Select
	Radio
	Checkbox
)

// Control is one input of the form. Radio and checkbox controls sharing a Name form a group.
type Control struct {
	ID          string
	Name        string
	Kind        Kind
	Label       string
	Value       string
	Checked     bool
	Options     []string
	Highlighted bool
}

// Builder constructs the controls of a section that has not been rendered yet.
type Builder func(section string) ([]Control, error)

var ErrUnknownControl = errors.New("unknown control")

// State is the live form. It is safe for concurrent use so highlight timers can revert
// appearance from their own goroutine.
type State struct {
	mu       sync.Mutex
	controls map[string]*Control
	order    []string
	sections map[string]bool
	builder  Builder

	CustomSkills *CustomSkillSet
}

// New returns a form whose sections are built on demand by builder.
func New(builder Builder) *State {
	return &State{
		controls:     make(map[string]*Control),
		sections:     make(map[string]bool),
		builder:      builder,
		CustomSkills: NewCustomSkillSet(),
	}
}

// EnsureSection builds section if it is not present yet.
func (s *State) EnsureSection(section string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sections[section] {
		return nil
	}
	if s.builder == nil {
		return fmt.Errorf("no builder for section %q", section)
	}
	controls, err := s.builder(section)
	if err != nil {
		return fmt.Errorf("build section %q: %w", section, err)
	}
	for i := range controls {
		c := controls[i]
		if _, exists := s.controls[c.ID]; exists {
			continue
		}
		s.controls[c.ID] = &c
		s.order = append(s.order, c.ID)
	}
	s.sections[section] = true
	return nil
}

// HasSection reports whether a section has been built.
func (s *State) HasSection(section string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sections[section]
}

// Has reports whether a control exists.
func (s *State) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.controls[id]
	return ok
}

// Control returns a copy of the control.
func (s *State) Control(id string) (Control, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.controls[id]
	if !ok {
		return Control{}, false
	}
	out := *c
	out.Options = slices.Clone(c.Options)
	return out, true
}

// Value returns the value of a text or select control.
func (s *State) Value(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.controls[id]; ok {
		return c.Value
	}
	return ""
}

// SetValue writes a text or select control. A select only accepts one of its options.
func (s *State) SetValue(id, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.controls[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownControl, id)
	}
	switch c.Kind {
	case Text:
	case Select:
		if value != "" && !slices.Contains(c.Options, value) {
			return fmt.Errorf("%q is not an option of %s", value, id)
		}
	default:
		return fmt.Errorf("%s is not a value control", id)
	}
	c.Value = value
	return nil
}

// Checked reports whether a radio or checkbox is ticked.
func (s *State) Checked(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.controls[id]; ok {
		return c.Checked
	}
	return false
}

// Check ticks a checkbox, or selects a radio and clears the rest of its group.
func (s *State) Check(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.controls[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownControl, id)
	}
	switch c.Kind {
	case Checkbox:
	case Radio:
		for _, other := range s.controls {
			if other.Kind == Radio && other.Name == c.Name {
				other.Checked = false
			}
		}
	default:
		return fmt.Errorf("%s is not checkable", id)
	}
	c.Checked = true
	return nil
}

// Uncheck clears a checkbox.
func (s *State) Uncheck(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.controls[id]; ok {
		c.Checked = false
	}
}

// GroupChecked reports whether any control named name is ticked.
func (s *State) GroupChecked(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.controls {
		if c.Name == name && c.Checked {
			return true
		}
	}
	return false
}

// Group returns copies of the controls named name, in construction order.
func (s *State) Group(name string) []Control {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Control
	for _, id := range s.order {
		if c := s.controls[id]; c.Name == name {
			out = append(out, *c)
		}
	}
	return out
}

// Options returns the options of a select.
func (s *State) Options(id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.controls[id]; ok {
		return slices.Clone(c.Options)
	}
	return nil
}

// SetOptions replaces the options of a select. A current value that is no longer offered is
// cleared, the way a re-rendered select drops it.
func (s *State) SetOptions(id string, options []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.controls[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownControl, id)
	}
	c.Options = slices.Clone(options)
	if c.Value != "" && !slices.Contains(c.Options, c.Value) {
		c.Value = ""
	}
	return nil
}

// SetHighlight toggles the visual marker on a control.
func (s *State) SetHighlight(id string, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.controls[id]; ok {
		c.Highlighted = on
	}
}

// Highlighted reports whether a control currently carries the visual marker.
func (s *State) Highlighted(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.controls[id]; ok {
		return c.Highlighted
	}
	return false
}

// Values snapshots the form the way a submitted form encodes it: text and select controls by
// ID, ticked radios by group name, ticked checkboxes by ID with their value.
func (s *State) Values() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string)
	for _, id := range s.order {
		c := s.controls[id]
		switch c.Kind {
		case Text, Select:
			if c.Value != "" {
				out[c.ID] = c.Value
			}
		case Radio:
			if c.Checked {
				out[c.Name] = c.ID
			}
		case Checkbox:
			if c.Checked {
				out[c.ID] = checkboxValue(c)
			}
		}
	}
	return out
}

// Restore writes a snapshot produced by Values back into the built controls.
func (s *State) Restore(values map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		c := s.controls[id]
		switch c.Kind {
		case Text:
			c.Value = values[c.ID]
		case Select:
			if v := values[c.ID]; v == "" || len(c.Options) == 0 || slices.Contains(c.Options, v) {
				c.Value = v
			}
		case Radio:
			c.Checked = values[c.Name] == c.ID
		case Checkbox:
			_, c.Checked = values[c.ID]
		}
	}
}

func checkboxValue(c *Control) string {
	if c.Value != "" {
		return c.Value
	}
	return c.Label
}

// SkillLabel is the text a skill checkbox is matched against.
func SkillLabel(c Control) string {
	return strings.TrimSpace(checkboxValue(&c))
}
