// Package config provides JSON/YAML configuration loading with environment variable expansion.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Validator is an interface for configuration validation.
type Validator interface {
	Validate() error
}

// isJSON reports whether filename should be handled as JSON rather than YAML.
func isJSON(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".json")
}

// Load loads configuration from a JSON or YAML file with environment variable expansion.
// Fields missing from the file keep the values already present in target.
func Load[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	if isJSON(filename) {
		if len(bytes.TrimSpace(expandedData)) > 0 {
			err = json.Unmarshal(expandedData, target)
		}
	} else {
		err = yaml.Unmarshal(expandedData, target)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	if validator, ok := any(target).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}

	return nil
}

// LoadIfExists is Load for optional files. It reports false and leaves target
// untouched (apart from validation) when filename does not exist.
func LoadIfExists[T any](filename string, target *T) (bool, error) {
	if _, err := os.Stat(filename); errors.Is(err, fs.ErrNotExist) {
		if validator, ok := any(target).(Validator); ok {
			if err := validator.Validate(); err != nil {
				return false, fmt.Errorf("config validation failed: %w", err)
			}
		}
		return false, nil
	}
	return true, Load(filename, target)
}

// Encode serialises v in the format implied by filename's extension:
// indented JSON for .json, YAML otherwise.
func Encode[T any](filename string, v *T) ([]byte, error) {
	if isJSON(filename) {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode config %s: %w", filename, err)
		}
		return append(data, '\n'), nil
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config %s: %w", filename, err)
	}
	return data, nil
}
