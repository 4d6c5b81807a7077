/*
File    : mana/driver/driver_test.go
*/
package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mana-lang/mana/diag"
	"github.com/mana-lang/mana/parser"
)

// writeFile is a test helper creating one source file.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDriver_CompileHelloWorld(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.mana", `module m
fn main() -> i32 {
    println("hi")
    return 0
}`)

	d := New()
	result, err := d.Compile(path, false)
	assert.NoError(t, err)
	assert.False(t, d.Sink.HasErrors(), "diagnostics: %v", d.Sink.Diagnostics)
	assert.Contains(t, result.Output, "mana::println")
}

func TestDriver_ImportResolution(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "util.mana", `module util
pub fn helper() -> i32 { return 7 }`)
	path := writeFile(t, dir, "main.mana", `module m
import "util"
fn main() -> i32 { return helper() }`)

	d := New()
	result, err := d.Compile(path, false)
	assert.NoError(t, err)
	assert.False(t, d.Sink.HasErrors(), "diagnostics: %v", d.Sink.Diagnostics)
	assert.Contains(t, result.Output, "int32_t helper()")
}

func TestDriver_ImportCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.mana", `module a
import "b"
pub fn fa() -> i32 { return 1 }`)
	writeFile(t, dir, "b.mana", `module b
import "a"
pub fn fb() -> i32 { return 2 }`)
	path := writeFile(t, dir, "main.mana", `module m
import "a"
import "b"
fn main() -> i32 { return fa() + fb() }`)

	d := New()
	result, err := d.Compile(path, false)
	assert.NoError(t, err)
	assert.False(t, d.Sink.HasErrors(), "diagnostics: %v", d.Sink.Diagnostics)

	// Each file is analyzed once despite the cycle
	count := 0
	for _, decl := range result.Module.Decls {
		if fn, ok := decl.(*parser.FunctionDecl); ok && fn.Name == "fa" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestDriver_VisibilityViolation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "util.mana", `module util
fn secret() -> i32 { return 7 }`)
	path := writeFile(t, dir, "main.mana", `module m
import "util"
fn main() -> i32 { return secret() }`)

	d := New()
	_, err := d.Compile(path, false)
	assert.NoError(t, err)
	assert.True(t, d.Sink.HasErrors())

	found := false
	for _, diagnostic := range d.Sink.Diagnostics {
		if diagnostic.Kind == diag.Error &&
			diagnostic.Message == "'secret' is private in module 'util'" {
			found = true
		}
	}
	assert.True(t, found, "diagnostics: %v", d.Sink.Diagnostics)
}

func TestDriver_CacheSoundness(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.mana", `module m
fn main() -> i32 { return 0 }`)

	d := New()
	assert.NoError(t, d.EnableCache(filepath.Join(dir, "cache")))

	first, err := d.Compile(path, false)
	assert.NoError(t, err)
	assert.False(t, first.CacheHit)

	second := New()
	assert.NoError(t, second.EnableCache(filepath.Join(dir, "cache")))
	cached, err := second.Compile(path, false)
	assert.NoError(t, err)
	assert.True(t, cached.CacheHit)
	assert.Equal(t, first.Output, cached.Output)

	// A fresh compile with the cache disabled produces the same output
	third := New()
	fresh, err := third.Compile(path, false)
	assert.NoError(t, err)
	assert.Equal(t, first.Output, fresh.Output)
}

func TestDriver_ErrorsPreventEmission(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.mana", `module m
fn main() -> i32 {
    const x: i32 = 1
    x = 2
    return 0
}`)

	d := New()
	result, err := d.Compile(path, false)
	assert.NoError(t, err)
	assert.True(t, d.Sink.HasErrors())
	assert.Equal(t, "", result.Output)
}

func TestDriver_DumpAst(t *testing.T) {
	d := New()
	result := d.CompileSource(`module m
fn main() -> i32 { return 0 }`, false)
	out := DumpAst(result.Module)
	assert.Contains(t, out, "Module m")
	assert.Contains(t, out, "Function main -> i32")
}

func TestDriver_GenerateDocs(t *testing.T) {
	d := New()
	result := d.CompileSource(`module geometry
/// A point in the plane.
pub struct Point { x: f64, y: f64 }
/// Euclidean distance from the origin.
pub fn norm(p: Point) -> f64 { return sqrt(p.x * p.x + p.y * p.y) }
fn main() -> i32 { return 0 }`, false)
	assert.False(t, d.Sink.HasErrors(), "diagnostics: %v", d.Sink.Diagnostics)

	docs := GenerateDocs(result.Module)
	assert.Contains(t, docs, "# Module geometry")
	assert.Contains(t, docs, "## struct Point")
	assert.Contains(t, docs, "A point in the plane.")
	assert.Contains(t, docs, "## fn norm(p: Point) -> f64")
	assert.Contains(t, docs, "Euclidean distance from the origin.")
}

func TestDriver_FormatSource(t *testing.T) {
	input := `module m
fn main() -> i32 {
        let x = 1


      if x > 0 {
   println("positive")
        }
    return x
}
`
	formatted := FormatSource(input)
	assert.Contains(t, formatted, "\n    let x = 1\n")
	assert.Contains(t, formatted, "\n    if x > 0 {\n        println(\"positive\")\n    }\n")
	// Blank runs collapse to one
	assert.NotContains(t, formatted, "\n\n\n")

	// Formatting is idempotent
	assert.Equal(t, formatted, FormatSource(formatted))
}

func TestDriver_FormatRewritesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.mana", "module m\nfn main() -> i32 {\nreturn 0\n}\n")

	diffText, changed, err := Format(path)
	assert.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, diffText, "+    return 0")

	// A second run has nothing to do
	_, changed, err = Format(path)
	assert.NoError(t, err)
	assert.False(t, changed)
}

func TestDriver_DumpTokens(t *testing.T) {
	out := DumpTokens("let x = 1")
	assert.Contains(t, out, "let")
	assert.Contains(t, out, "Identifier")
}
