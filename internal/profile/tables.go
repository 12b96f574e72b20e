package profile

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed regions.yaml
var regionsYAML []byte

//go:embed skills.yaml
var skillsYAML []byte

// StateEntry lists the keywords that identify a state and the districts its select offers.
type StateEntry struct {
	Name      string   `yaml:"name"`
	Keywords  []string `yaml:"keywords"`
	Districts []string `yaml:"districts"`
}

// RegionTable is the address lookup used for state, district and area type inference.
type RegionTable struct {
	States []StateEntry      `yaml:"states"`
	Cities map[string]string `yaml:"cities"`
	Metros []string          `yaml:"metros"`
}

// LoadRegions decodes a region table. Keywords are lowercased so matching stays case-insensitive.
func LoadRegions(r io.Reader) (*RegionTable, error) {
	var table RegionTable
	if err := yaml.NewDecoder(r).Decode(&table); err != nil {
		return nil, fmt.Errorf("decode region table: %w", err)
	}
	if len(table.States) == 0 {
		return nil, fmt.Errorf("region table has no states")
	}

	for i := range table.States {
		table.States[i].Name = strings.ToLower(strings.TrimSpace(table.States[i].Name))
		table.States[i].Keywords = lowerAll(table.States[i].Keywords)
	}
	cities := make(map[string]string, len(table.Cities))
	for city, district := range table.Cities {
		cities[strings.ToLower(city)] = strings.ToLower(district)
	}
	table.Cities = cities
	table.Metros = lowerAll(table.Metros)
	return &table, nil
}

// Districts returns the district select values offered for a state.
func (t *RegionTable) Districts(state string) []string {
	state = strings.ToLower(state)
	for _, s := range t.States {
		if s.Name == state {
			return lowerAll(s.Districts)
		}
	}
	return nil
}

// StateNames returns the state select values in table order.
func (t *RegionTable) StateNames() []string {
	names := make([]string, 0, len(t.States))
	for _, s := range t.States {
		names = append(names, s.Name)
	}
	return names
}

type vocabularyFile struct {
	Skills []string `yaml:"skills"`
}

// LoadVocabulary decodes a known-skill list.
func LoadVocabulary(r io.Reader) ([]string, error) {
	var v vocabularyFile
	if err := yaml.NewDecoder(r).Decode(&v); err != nil {
		return nil, fmt.Errorf("decode skill vocabulary: %w", err)
	}
	return v.Skills, nil
}

var (
	defaultOnce       sync.Once
	defaultRegions    *RegionTable
	defaultVocabulary []string
)

func loadDefaults() {
	defaultOnce.Do(func() {
		regions, err := LoadRegions(bytes.NewReader(regionsYAML))
		if err != nil {
			panic(err)
		}
		vocabulary, err := LoadVocabulary(bytes.NewReader(skillsYAML))
		if err != nil {
			panic(err)
		}
		defaultRegions = regions
		defaultVocabulary = vocabulary
	})
}

// DefaultRegions is the embedded region table, decoded once.
func DefaultRegions() *RegionTable {
	loadDefaults()
	return defaultRegions
}

// DefaultVocabulary is the embedded known-skill list, decoded once.
func DefaultVocabulary() []string {
	loadDefaults()
	return append([]string(nil), defaultVocabulary...)
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(strings.TrimSpace(s))
	}
	return out
}
