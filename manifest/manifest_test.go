/*
File    : mana/manifest/manifest_test.go
*/
package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManifest_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	m := New("demo")
	m.Package.Description = "a demo project"
	m.Package.License = "MIT"
	m.Package.Authors = []string{"someone"}
	m.AddDependency("graphics", "1.2.0")
	m.AddDependency("net", "")
	assert.NoError(t, m.Save(path))

	loaded, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "demo", loaded.Package.Name)
	assert.Equal(t, "0.1.0", loaded.Package.Version)
	assert.Equal(t, "a demo project", loaded.Package.Description)
	assert.Equal(t, []string{"someone"}, loaded.Package.Authors)
	assert.Equal(t, "1.2.0", loaded.Dependencies["graphics"])
	assert.Equal(t, "*", loaded.Dependencies["net"])
}

func TestManifest_ParsesUnquotedSections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	content := `[package]
name = "tool"
version = "2.0.0"

[dependencies]
json = "0.3"
`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "tool", m.Package.Name)
	assert.Equal(t, "0.3", m.Dependencies["json"])
}

func TestManifest_AddRemoveDependency(t *testing.T) {
	m := New("demo")
	m.AddDependency("x", "1.0")
	assert.True(t, m.RemoveDependency("x"))
	assert.False(t, m.RemoveDependency("x"))
}

func TestManifest_SaveDeterministic(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.toml")
	b := filepath.Join(dir, "b.toml")

	m := New("demo")
	m.AddDependency("zeta", "1.0")
	m.AddDependency("alpha", "2.0")
	assert.NoError(t, m.Save(a))
	assert.NoError(t, m.Save(b))

	first, _ := os.ReadFile(a)
	second, _ := os.ReadFile(b)
	assert.Equal(t, string(first), string(second))
}
