/*
File    : mana/manifest/manifest.go
*/

// Package manifest reads and writes package.toml: a [package] section with
// name, version, description, license and authors, plus a [dependencies]
// table of name = "version" pairs.
package manifest

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the manifest file name at the project root.
const FileName = "package.toml"

// Package is the [package] section.
type Package struct {
	Name        string   `toml:"name"`
	Version     string   `toml:"version"`
	Description string   `toml:"description"`
	License     string   `toml:"license"`
	Authors     []string `toml:"authors"`
}

// Manifest is the whole package.toml.
type Manifest struct {
	Package      Package           `toml:"package"`
	Dependencies map[string]string `toml:"dependencies"`
}

// New creates a minimal manifest for a fresh project.
func New(name string) *Manifest {
	return &Manifest{
		Package: Package{
			Name:    name,
			Version: "0.1.0",
		},
		Dependencies: make(map[string]string),
	}
}

// Load reads and parses a package.toml file.
func Load(path string) (*Manifest, error) {
	m := &Manifest{Dependencies: make(map[string]string)}
	if _, err := toml.DecodeFile(path, m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return m, nil
}

// Save writes the manifest back to disk. Dependencies render sorted so
// repeated saves produce identical files.
func (m *Manifest) Save(path string) error {
	var sb strings.Builder
	sb.WriteString("[package]\n")
	fmt.Fprintf(&sb, "name = %q\n", m.Package.Name)
	fmt.Fprintf(&sb, "version = %q\n", m.Package.Version)
	if m.Package.Description != "" {
		fmt.Fprintf(&sb, "description = %q\n", m.Package.Description)
	}
	if m.Package.License != "" {
		fmt.Fprintf(&sb, "license = %q\n", m.Package.License)
	}
	if len(m.Package.Authors) > 0 {
		sb.WriteString("authors = [")
		for i, author := range m.Package.Authors {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%q", author)
		}
		sb.WriteString("]\n")
	}

	sb.WriteString("\n[dependencies]\n")
	names := make([]string, 0, len(m.Dependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&sb, "%s = %q\n", name, m.Dependencies[name])
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// AddDependency records a dependency; an empty version means "latest".
func (m *Manifest) AddDependency(name, version string) {
	if m.Dependencies == nil {
		m.Dependencies = make(map[string]string)
	}
	if version == "" {
		version = "*"
	}
	m.Dependencies[name] = version
}

// RemoveDependency drops a dependency; it reports whether it was present.
func (m *Manifest) RemoveDependency(name string) bool {
	if _, ok := m.Dependencies[name]; !ok {
		return false
	}
	delete(m.Dependencies, name)
	return true
}
