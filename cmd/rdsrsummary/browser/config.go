package browser

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SaveToYAML writes the state to a YAML configuration file.
func SaveToYAML(state *State, path string) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// LoadFromYAML reads a YAML configuration file into a state.
func LoadFromYAML(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var state State
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Reject date strings the filter engine would not accept at apply time
	if _, err := ToFilterSpec(state.Filter); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &state, nil
}
