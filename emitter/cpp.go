/*
File    : mana/emitter/cpp.go
*/

/*
Package emitter walks the typed AST and produces C++ source text. Emission
is a translation, not a compilation: the output relies on the fixed
runtime header (RuntimeHeader) for Option, Result, Vec, HashMap and the
helper set, and must compile in the target toolchain with no further
transformation.

Declaration ordering: type aliases, then structs, then enums, then trait
interfaces, then trait-impl wrappers, then forward declarations of every
free function, then full definitions. Name-mangling counters are instance
fields reset at the start of each module emission, so emitting the same
module twice produces byte-identical output.
*/
package emitter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mana-lang/mana/parser"
)

// Emitter holds per-module emission state.
type Emitter struct {
	Buf bytes.Buffer

	// implMethods records Type_method spellings for method-call rewriting.
	implMethods map[string]bool
	// adtEnums records enums with data variants (tagged-union lowering).
	adtEnums map[string]bool

	// Mangling counters: reset per module so emission is deterministic.
	matchCounter       int
	tryCounter         int
	destructureCounter int
	whileLetCounter    int
	optCounter         int
	coalesceCounter    int
	orCounter          int
	deferCounter       int

	// tryExprIDs marks try operands already extracted into preceding
	// statements by the statement-level pre-pass.
	tryExprIDs map[*parser.TryExpr]int

	// testMode replaces main with a generated test-runner harness.
	testMode bool
}

// NewEmitter creates an emitter.
func NewEmitter() *Emitter {
	return &Emitter{
		implMethods: make(map[string]bool),
		adtEnums:    make(map[string]bool),
		tryExprIDs:  make(map[*parser.TryExpr]int),
	}
}

// printf appends formatted text to the output buffer.
func (em *Emitter) printf(format string, args ...interface{}) {
	fmt.Fprintf(&em.Buf, format, args...)
}

// write appends literal text to the output buffer.
func (em *Emitter) write(text string) {
	em.Buf.WriteString(text)
}

// indent writes n levels of four-space indentation.
func (em *Emitter) indent(n int) {
	for i := 0; i < n; i++ {
		em.write("    ")
	}
}

// Emit translates a whole module and returns the C++ source. testMode
// swaps the user main for a generated test-runner harness.
func (em *Emitter) Emit(mod *parser.Module, testMode bool) string {
	em.Buf.Reset()
	em.testMode = testMode
	em.matchCounter = 0
	em.tryCounter = 0
	em.destructureCounter = 0
	em.whileLetCounter = 0
	em.optCounter = 0
	em.coalesceCounter = 0
	em.orCounter = 0
	em.deferCounter = 0
	em.tryExprIDs = make(map[*parser.TryExpr]int)

	// Pre-pass: record impl methods and ADT enums so call sites and
	// match arms lower correctly regardless of declaration order
	em.implMethods = make(map[string]bool)
	em.adtEnums = make(map[string]bool)
	for _, decl := range mod.Decls {
		switch d := decl.(type) {
		case *parser.ImplDecl:
			for _, method := range d.Methods {
				em.implMethods[d.TypeName+"_"+method.Name] = true
			}
		case *parser.FunctionDecl:
			if d.Receiver != "" {
				em.implMethods[d.Receiver+"_"+d.Name] = true
			}
		case *parser.EnumDecl:
			if d.HasData() {
				em.adtEnums[d.Name] = true
			}
		}
	}

	em.write("// Generated by the mana compiler\n")
	em.write("#include <cstdint>\n")
	em.write("#include <string>\n")
	em.write("#include <array>\n")
	em.write("#include <vector>\n")
	em.write("#include <tuple>\n")
	em.write("#include <cmath>\n")
	em.write("#include <type_traits>\n")
	em.write("#include <variant>\n")
	em.write("#include <future>\n")
	em.printf("#include %q\n", RuntimeHeaderName)

	// Use declarations: stdlib paths become comments, project paths
	// become includes
	for _, decl := range mod.Decls {
		use, ok := decl.(*parser.UseDecl)
		if !ok {
			continue
		}
		path := strings.Join(use.Path, "::")
		if strings.HasPrefix(path, "std::") || len(use.Path) > 0 && use.Path[0] == "std" {
			em.write("// use " + path)
			if use.Glob {
				em.write("::*")
			}
			if len(use.Names) > 0 {
				em.write("::{" + strings.Join(use.Names, ", ") + "}")
			}
			if use.Alias != "" {
				em.write(" as " + use.Alias)
			}
			em.write(";\n")
		} else {
			em.printf("#include %q\n", strings.Join(use.Path, "/")+".h")
		}
	}
	em.write("\n")

	// Type aliases first, so structs can use them
	for _, decl := range mod.Decls {
		if alias, ok := decl.(*parser.TypeAliasDecl); ok {
			em.printf("using %s = %s;\n", alias.Name, MapType(alias.Target))
		}
	}
	em.write("\n")

	// Structs, then enums
	for _, decl := range mod.Decls {
		if d, ok := decl.(*parser.StructDecl); ok {
			em.emitStruct(d)
		}
	}
	for _, decl := range mod.Decls {
		if d, ok := decl.(*parser.EnumDecl); ok {
			em.emitEnum(d)
		}
	}

	// Trait interfaces
	for _, decl := range mod.Decls {
		if trait, ok := decl.(*parser.TraitDecl); ok {
			em.emitTraitInterface(trait)
		}
	}

	// Trait-impl wrapper classes with their factory helpers
	for _, decl := range mod.Decls {
		if impl, ok := decl.(*parser.ImplDecl); ok && impl.TraitName != "" {
			em.emitTraitImplWrapper(impl)
		}
	}

	// Forward declarations of every free function
	for _, decl := range mod.Decls {
		if fn, ok := decl.(*parser.FunctionDecl); ok {
			if fn.Name == "main" && fn.Receiver == "" {
				continue
			}
			em.emitFunctionSignature(fn, false)
			em.write(";\n")
		}
		if impl, ok := decl.(*parser.ImplDecl); ok {
			for _, method := range impl.Methods {
				em.emitFunctionSignature(method, false)
				em.write(";\n")
			}
		}
	}
	em.write("\n")

	// Full definitions in source order
	for _, decl := range mod.Decls {
		switch d := decl.(type) {
		case *parser.FunctionDecl:
			if em.testMode && d.Name == "main" && d.Receiver == "" {
				continue
			}
			em.emitFunction(d)
		case *parser.ImplDecl:
			for _, method := range d.Methods {
				em.emitFunction(method)
			}
		case *parser.GlobalDecl:
			em.emitGlobal(d)
		}
	}

	if em.testMode {
		em.emitTestRunner(mod)
	}

	return em.Buf.String()
}
