package classify

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed rules/*.yaml
var builtin embed.FS

// Parse decodes one organization's rule table. Unknown keys are rejected so
// that a misspelled limit cannot silently disable it.
func Parse(data []byte) (Organization, error) {
	var org Organization
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&org); err != nil {
		return Organization{}, fmt.Errorf("parsing rule table: %w", err)
	}
	return org, nil
}

// LoadFile reads one organization's rule table from a YAML file.
func LoadFile(path string) (Organization, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Organization{}, fmt.Errorf("reading rule table: %w", err)
	}
	org, err := Parse(data)
	if err != nil {
		return Organization{}, fmt.Errorf("%s: %w", path, err)
	}
	return org, nil
}

// LoadDir reads every *.yaml rule table in dir, in file name order.
func LoadDir(dir string) ([]Organization, error) {
	return loadFS(os.DirFS(dir), ".", dir)
}

// Builtin returns the rule tables compiled into the binary.
func Builtin() ([]Organization, error) {
	return loadFS(builtin, "rules", "rules")
}

func loadFS(fsys fs.FS, dir, label string) ([]Organization, error) {
	names, err := fs.Glob(fsys, filepath.ToSlash(filepath.Join(dir, "*.yaml")))
	if err != nil {
		return nil, fmt.Errorf("listing rule tables in %s: %w", label, err)
	}
	sort.Strings(names)

	orgs := make([]Organization, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading rule table %s: %w", name, err)
		}
		org, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		orgs = append(orgs, org)
	}
	return orgs, nil
}

var defaultEngine = sync.OnceValue(func() *Engine {
	orgs, err := Builtin()
	if err != nil {
		panic(fmt.Sprintf("classify: built-in rule tables: %v", err))
	}
	e, err := NewEngine(orgs)
	if err != nil {
		panic(fmt.Sprintf("classify: built-in rule tables: %v", err))
	}
	return e
})

// Default returns the engine over the built-in rule tables. It panics if the
// tables fail validation; call it during startup.
func Default() *Engine {
	return defaultEngine()
}
