package registry

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileFormat is the YAML layout of a registry file:
//
//	shelves:
//	  - nid: n1
//	    name: Dairy
//	  - nid: n2
//	    name: Bakery
type fileFormat struct {
	Shelves []Entry `yaml:"shelves"`
}

// LoadFile reads a YAML registry file into a Memory registry. Entries with
// an empty nid are rejected; a repeated nid keeps the last name.
func LoadFile(path string) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML parses registry YAML into a Memory registry.
func ParseYAML(data []byte) (*Memory, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse registry file: %w", err)
	}

	names := make(map[string]string, len(f.Shelves))
	for i, e := range f.Shelves {
		nid := strings.TrimSpace(e.NID)
		if nid == "" {
			return nil, fmt.Errorf("registry entry %d has no nid", i)
		}
		names[nid] = e.Name
	}
	return NewMemory(names), nil
}
