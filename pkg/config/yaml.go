package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadYAML loads configuration from a YAML file.
// Unknown keys are rejected so typos do not pass silently.
func LoadYAML(path string, target interface{}) error {
	// #nosec G304 -- path is provided by the operator on the command line.
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read YAML file %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && err != io.EOF {
		return fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return nil
}

func encodeYAML(w io.Writer, config interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(config); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return enc.Close()
}
