package fir

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Gazetteer is the on-disk list of known localities, e.g.
//
//	localities:
//	  - Karol Bagh
//	  - R.S. Puram
type Gazetteer struct {
	Localities []string `yaml:"localities"`
}

// ParseGazetteer decodes a YAML gazetteer document.
func ParseGazetteer(data []byte) (Gazetteer, error) {
	var g Gazetteer
	if err := yaml.Unmarshal(data, &g); err != nil {
		return Gazetteer{}, fmt.Errorf("failed to unmarshal gazetteer: %w", err)
	}
	return g, nil
}

// LoadGazetteer reads a gazetteer file from path.
func LoadGazetteer(path string) (Gazetteer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Gazetteer{}, fmt.Errorf("read gazetteer: %w", err)
	}
	return ParseGazetteer(data)
}

// Option returns an Option that installs the gazetteer's localities. An empty
// gazetteer keeps the defaults.
func (g Gazetteer) Option() Option {
	if len(g.Localities) == 0 {
		return func(*Extractor) {}
	}
	return WithKnownLocalities(g.Localities...)
}
