package roster

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// fileFormat is the YAML layout:
//
//	classes:
//	  4 AMANAH: [ALI BIN ABU, SITI AMINAH]
//	  4 BESTARI:
//	    - CHONG WEI
type fileFormat struct {
	Classes map[string][]string `yaml:"classes"`
}

// FileDirectory reads the roster from a YAML file on every load.
type FileDirectory struct {
	path string
}

// NewFileDirectory creates a FileDirectory for path.
func NewFileDirectory(path string) *FileDirectory {
	return &FileDirectory{path: path}
}

// LoadClasses parses the file. A missing file is an empty roster so the
// game falls back to free-text names.
func (d *FileDirectory) LoadClasses(_ context.Context) (Classes, error) {
	data, err := os.ReadFile(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Classes{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML decodes a roster document.
func ParseYAML(data []byte) (Classes, error) {
	var doc fileFormat
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	return Normalize(doc.Classes), nil
}

// MarshalYAML encodes classes in the file layout.
func MarshalYAML(c Classes) ([]byte, error) {
	return yaml.Marshal(fileFormat{Classes: c})
}
