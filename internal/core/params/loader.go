package params

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadJSON loads a parameter set from a JSON reader.
func LoadJSON(r io.Reader) (*Set, error) {
	var s Set
	dec := json.NewDecoder(r)
	if err := dec.Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadYAML loads a parameter set from a YAML reader.
func LoadYAML(r io.Reader) (*Set, error) {
	var s Set
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile picks the decoder from the file extension and validates the result.
func LoadFile(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var s *Set
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		s, err = LoadJSON(f)
	case ".yaml", ".yml":
		s, err = LoadYAML(f)
	default:
		return nil, fmt.Errorf("unsupported parameter file extension: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err = s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// WriteYAML encodes the set as YAML.
func WriteYAML(w io.Writer, s *Set) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}
