package spec

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the design document name looked up in a project directory.
const ProjectFile = "design.yaml"

// Load reads a design from a YAML file.
func Load(path string) (*Design, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading design file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a design from YAML bytes.
func Parse(data []byte) (*Design, error) {
	var d Design
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing design YAML: %w", err)
	}
	return &d, nil
}

// LoadProject loads a design from a project directory.
// It looks for design.yaml in the given directory.
func LoadProject(projectDir string) (*Design, error) {
	return Load(filepath.Join(projectDir, ProjectFile))
}
