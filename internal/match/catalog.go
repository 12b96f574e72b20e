package match

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed listings.yaml
var listingsYAML []byte

type catalogFile struct {
	Listings []Listing `yaml:"listings"`
}

// LoadCatalog reads a listing catalog.
func LoadCatalog(r io.Reader) ([]Listing, error) {
	var f catalogFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}
	if len(f.Listings) == 0 {
		return nil, errors.New("catalog has no listings")
	}
	return f.Listings, nil
}

var (
	catalogOnce sync.Once
	catalog     []Listing
)

// Catalog returns a copy of the embedded mock listings.
func Catalog() []Listing {
	catalogOnce.Do(func() {
		var err error
		catalog, err = LoadCatalog(bytes.NewReader(listingsYAML))
		if err != nil {
			panic(err)
		}
	})
	return slices.Clone(catalog)
}
