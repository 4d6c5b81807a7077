/*
File    : mana/driver/driver.go
*/

// Package driver assembles the compilation pipeline: source loading,
// recursive cycle-safe import resolution, semantic analysis, the
// middle-end passes, emission, the on-disk cache, and the build/run/test
// orchestration around the emitted C++.
package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mana-lang/mana/cache"
	"github.com/mana-lang/mana/diag"
	"github.com/mana-lang/mana/emitter"
	"github.com/mana-lang/mana/lexer"
	"github.com/mana-lang/mana/middle"
	"github.com/mana-lang/mana/parser"
	"github.com/mana-lang/mana/semantic"
)

// SourceExtension is appended to file-import paths.
const SourceExtension = ".mana"

// Driver runs compilations. It owns the diagnostic sink and lends it to
// every stage.
type Driver struct {
	Sink    *diag.Sink
	Cache   *cache.Cache
	NoCache bool
}

// New creates a driver with a fresh sink. The cache stays nil until
// EnableCache.
func New() *Driver {
	return &Driver{Sink: diag.NewSink()}
}

// EnableCache opens the on-disk cache at dir.
func (d *Driver) EnableCache(dir string) error {
	opened, err := cache.Open(dir)
	if err != nil {
		return err
	}
	d.Cache = opened
	return nil
}

// Result is the outcome of one compilation.
type Result struct {
	Module   *parser.Module
	Source   string // concatenated source text of every resolved file
	Output   string // emitted C++ (empty when errors prevented emission)
	CacheHit bool
}

// LoadModule reads and parses a root source file and resolves its file
// imports recursively. Import resolution is cycle-safe through a visited
// set keyed by canonical path; each file is analyzed once. Imported
// declarations merge ahead of the importer's own, tagged with their
// module of origin.
func (d *Driver) LoadModule(path string) (*parser.Module, string, error) {
	visited := make(map[string]bool)
	return d.loadModuleRec(path, visited)
}

// loadModuleRec is the recursive worker behind LoadModule.
func (d *Driver) loadModuleRec(path string, visited map[string]bool) (*parser.Module, string, error) {
	canonical, err := filepath.Abs(path)
	if err != nil {
		canonical = path
	}
	if visited[canonical] {
		// Already merged somewhere up the chain: contribute nothing
		return &parser.Module{Name: "", Decls: nil}, "", nil
	}
	visited[canonical] = true

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	source := string(data)

	mod := parser.New(source, d.Sink).ParseModule()

	merged := &parser.Module{Name: mod.Name}
	allSource := source

	for _, decl := range mod.Decls {
		imp, ok := decl.(*parser.ImportDecl)
		if !ok {
			merged.Decls = append(merged.Decls, decl)
			continue
		}
		if !imp.IsFile {
			// Dotted module imports are reserved for the standard
			// library; the file resolver ignores them
			continue
		}

		importPath := imp.Path
		if !strings.HasSuffix(importPath, SourceExtension) {
			importPath += SourceExtension
		}
		resolved := filepath.Join(filepath.Dir(path), importPath)

		sub, subSource, err := d.loadModuleRec(resolved, visited)
		if err != nil {
			d.Sink.Error(fmt.Sprintf("cannot resolve import %q: %v", imp.Path, err), imp.Line, imp.Column)
			continue
		}
		allSource += "\n" + subSource

		// Tag the imported declarations with their module of origin so
		// visibility checks can reject private cross-module use
		for _, subDecl := range sub.Decls {
			tagSourceModule(subDecl, sub.Name)
			merged.Decls = append(merged.Decls, subDecl)
		}
	}

	return merged, allSource, nil
}

// tagSourceModule stamps a declaration with its module of origin when the
// node kind carries one.
func tagSourceModule(decl parser.Decl, module string) {
	switch d := decl.(type) {
	case *parser.FunctionDecl:
		if d.SourceModule == "" {
			d.SourceModule = module
		}
	case *parser.StructDecl:
		if d.SourceModule == "" {
			d.SourceModule = module
		}
	case *parser.EnumDecl:
		if d.SourceModule == "" {
			d.SourceModule = module
		}
	case *parser.TraitDecl:
		if d.SourceModule == "" {
			d.SourceModule = module
		}
	case *parser.GlobalDecl:
		if d.SourceModule == "" {
			d.SourceModule = module
		}
	}
}

// Compile runs the whole pipeline on one root file. testMode emits the
// test-runner harness instead of the user main. Emission runs only when
// the error count is zero.
func (d *Driver) Compile(path string, testMode bool) (*Result, error) {
	mod, source, err := d.LoadModule(path)
	if err != nil {
		return nil, err
	}
	result := &Result{Module: mod, Source: source}

	// Cache lookup keys on the combined source of every resolved file
	if d.Cache != nil && !d.NoCache && !testMode {
		if d.Cache.IsCached(path, source) {
			if output, ok := d.Cache.Get(path); ok {
				result.Output = output
				result.CacheHit = true
				return result, nil
			}
		}
	}

	semantic.NewAnalyzer(d.Sink).Analyze(mod)

	// Middle-end: for-lowering, dead-code elimination, inliner marker
	middle.LowerFors(mod)
	middle.EliminateDeadCode(mod)
	middle.Inline(mod)

	if d.Sink.HasErrors() {
		return result, nil
	}

	result.Output = emitter.NewEmitter().Emit(mod, testMode)

	if d.Cache != nil && !d.NoCache && !testMode {
		if err := d.Cache.Store(path, source, result.Output); err != nil {
			return result, err
		}
	}
	return result, nil
}

// CompileSource compiles source text directly (REPL and tests); no import
// resolution and no cache.
func (d *Driver) CompileSource(source string, testMode bool) *Result {
	mod := parser.New(source, d.Sink).ParseModule()
	result := &Result{Module: mod, Source: source}

	semantic.NewAnalyzer(d.Sink).Analyze(mod)
	middle.LowerFors(mod)
	middle.EliminateDeadCode(mod)
	middle.Inline(mod)

	if d.Sink.HasErrors() {
		return result
	}
	result.Output = emitter.NewEmitter().Emit(mod, testMode)
	return result
}

// DumpAst renders a parsed module as an indented tree (the --ast flag).
func DumpAst(mod *parser.Module) string {
	printer := &parser.AstPrinter{}
	printer.PrintModule(mod)
	return printer.String()
}

// DumpTokens renders the token stream of one source text (REPL :tokens).
func DumpTokens(source string) string {
	lex := lexer.NewLexer(source)
	var sb strings.Builder
	for _, token := range lex.ConsumeTokens() {
		fmt.Fprintf(&sb, "%-16s %q  [%d:%d]\n", string(token.Type), token.Literal, token.Line, token.Column)
	}
	return sb.String()
}

// RenderDiagnostics formats the sink against a source file for terminal
// output.
func (d *Driver) RenderDiagnostics(fileName, source string) string {
	var sb strings.Builder
	renderer := diag.NewRenderer(fileName, source)
	renderer.Render(&sb, d.Sink)
	return sb.String()
}
