package pagecheck

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Markers are the configurable strings a check looks for. Sensitive markers
// are matched against visible text, extra-window markers against HTML.
type Markers struct {
	Sensitive   []string `yaml:"sensitive" json:"sensitive"`
	ExtraWindow []string `yaml:"extra_window" json:"extraWindow"`
}

// DefaultMarkers are placeholders meant to be replaced per site.
func DefaultMarkers() Markers {
	return Markers{
		Sensitive: []string{
			"sensitive_term_one",
			"sensitive_term_two",
			"sensitive_term_three",
			"sensitive_term_four",
		},
		ExtraWindow: []string{
			"extra_window_pattern_one",
			"extra_window_pattern_two",
			"overlay_pattern",
			"new_window_script_pattern",
		},
	}
}

// LoadMarkers reads a YAML marker file; an empty path gives the defaults.
func LoadMarkers(path string) (Markers, error) {
	if path == "" {
		return DefaultMarkers(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Markers{}, fmt.Errorf("failed to read markers file: %w", err)
	}
	var m Markers
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Markers{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return m, nil
}
