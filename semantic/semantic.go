/*
File    : mana/semantic/semantic.go
*/

/*
Package semantic implements the two-pass analyzer for Mana modules.

Pass one registers every top-level function, struct, enum, trait and type
alias so forward references succeed. Pass two walks each declaration and
checks its body: name resolution over a scope stack, type checking,
trait-bound validation, exhaustiveness analysis, and control-flow checks.
A module-wide constant-folding pass then rewrites pure literal arithmetic
into folded literals in place, and a final pass reports unused variables.

All errors are collected into the diagnostic sink; analysis continues
across errors using the unknown type as a silently-absorbing value so
secondary errors do not cascade.
*/
package semantic

import (
	"strconv"
	"strings"

	"github.com/mana-lang/mana/diag"
	"github.com/mana-lang/mana/parser"
	"github.com/mana-lang/mana/scope"
	"github.com/mana-lang/mana/types"
)

// Analyzer holds the analysis state for one module (plus any file-imported
// modules merged into it by the driver).
type Analyzer struct {
	Diag   *diag.Sink
	Scopes *scope.Stack

	Structs       map[string]*parser.StructDecl
	Enums         map[string]*parser.EnumDecl
	Traits        map[string]*parser.TraitDecl
	Funcs         map[string]*parser.FunctionDecl
	TypeAliases   map[string]string
	TestFunctions []*parser.FunctionDecl

	// TraitImpls records type name -> set of implemented traits.
	TraitImpls map[string]map[string]bool

	// BuiltinFuncs names every builtin, for method fall-through and
	// did-you-mean candidates.
	BuiltinFuncs map[string]bool

	ImportedModules []string
	CurrentModule   string

	currentReturn   types.Type
	currentReceiver types.Type
	loopDepth       int

	// Unused-variable tracking: declared name -> read yet?
	variableUsed map[string]bool
	variableLoc  map[string][2]int
}

// NewAnalyzer creates an analyzer writing into the given sink.
func NewAnalyzer(sink *diag.Sink) *Analyzer {
	return &Analyzer{
		Diag:            sink,
		Scopes:          scope.NewStack(),
		Structs:         make(map[string]*parser.StructDecl),
		Enums:           make(map[string]*parser.EnumDecl),
		Traits:          make(map[string]*parser.TraitDecl),
		Funcs:           make(map[string]*parser.FunctionDecl),
		TypeAliases:     make(map[string]string),
		TraitImpls:      make(map[string]map[string]bool),
		BuiltinFuncs:    make(map[string]bool),
		variableUsed:    make(map[string]bool),
		variableLoc:     make(map[string][2]int),
		currentReturn:   types.UnknownType(),
		currentReceiver: types.UnknownType(),
	}
}

// Analyze runs both passes plus folding and the unused-variable report.
// Two runs on the same AST produce identical diagnostic streams: maps feed
// only keyed lookups, and every diagnostic-producing walk visits nodes in
// source order.
func (an *Analyzer) Analyze(mod *parser.Module) {
	an.CurrentModule = mod.Name
	an.registerBuiltins()

	// First pass: register all declarations so forward references succeed
	for _, decl := range mod.Decls {
		an.registerDeclaration(decl)
	}

	// Second pass: analyze declaration bodies in source order
	for _, decl := range mod.Decls {
		an.visitDecl(decl)
	}

	// Constant folding rewrites pure literal expressions in place
	an.FoldModule(mod)

	// Report declared-but-never-read variables
	an.checkUnusedVariables(mod)
}

// mangleScopedName turns Type::member into the flat Type_member spelling
// used for symbol lookup and emission.
func mangleScopedName(name string) string {
	return strings.Replace(name, "::", "_", 1)
}

// registerDeclaration is pass one: bind the declaration's name (and nested
// names for impls) into the module scope.
func (an *Analyzer) registerDeclaration(decl parser.Decl) {
	switch d := decl.(type) {
	case *parser.FunctionDecl:
		sym := &scope.Symbol{
			Name:         d.Name,
			Type:         an.parseTypeName(d.ReturnType),
			Pub:          d.Pub,
			SourceModule: d.SourceModule,
			Generics:     d.Generics,
			Line:         d.Line,
			Column:       d.Column,
		}
		for _, clause := range d.Where {
			sym.Constraints = append(sym.Constraints, scope.Constraint{
				Param:  clause.Param,
				Traits: clause.Traits,
			})
		}
		if d.Receiver != "" {
			// Method syntax fn Type.method registers under its mangled
			// spelling so method calls resolve
			sym.Name = d.Receiver + "_" + d.Name
			an.Scopes.Top.Declare(sym)
			an.Funcs[sym.Name] = d
		} else {
			an.Scopes.Top.Declare(sym)
			an.Funcs[d.Name] = d
		}
		if d.Test {
			an.TestFunctions = append(an.TestFunctions, d)
		}

	case *parser.StructDecl:
		an.Scopes.Top.Declare(&scope.Symbol{
			Name:         d.Name,
			Type:         types.MakeStruct(d.Name),
			Pub:          d.Pub,
			SourceModule: d.SourceModule,
		})
		an.Structs[d.Name] = d

	case *parser.EnumDecl:
		an.Scopes.Top.Declare(&scope.Symbol{
			Name:         d.Name,
			Type:         types.MakeEnum(d.Name),
			Pub:          d.Pub,
			SourceModule: d.SourceModule,
		})
		an.Enums[d.Name] = d

	case *parser.TraitDecl:
		an.Scopes.Top.Declare(&scope.Symbol{
			Name:         d.Name,
			Type:         types.UnknownType(),
			Pub:          d.Pub,
			SourceModule: d.SourceModule,
		})
		an.Traits[d.Name] = d

	case *parser.TypeAliasDecl:
		if _, exists := an.TypeAliases[d.Name]; exists {
			an.Diag.Error("type alias already defined: "+d.Name, d.Line, d.Column)
			return
		}
		an.TypeAliases[d.Name] = d.Target
	}
}

// visitDecl is pass two: check one declaration's body.
func (an *Analyzer) visitDecl(decl parser.Decl) {
	switch d := decl.(type) {
	case *parser.UseDecl:
		an.ImportedModules = append(an.ImportedModules, strings.Join(d.Path, "::"))
		for _, name := range d.Names {
			an.Scopes.Top.Declare(&scope.Symbol{Name: name, Type: types.UnknownType()})
		}

	case *parser.ImportDecl:
		// File imports were resolved and merged by the driver already

	case *parser.FunctionDecl:
		an.checkWhereClauses(d)
		an.visitFunctionBody(d, d.Receiver)

	case *parser.GlobalDecl:
		t := an.parseTypeName(d.TypeName)
		if d.Value != nil {
			rhs := an.visitExpr(d.Value)
			if d.TypeName == "auto" {
				t = rhs
				d.TypeName = an.inferTypeName(rhs)
			}
		}
		an.Scopes.Top.Declare(&scope.Symbol{
			Name:         d.Name,
			Type:         t,
			Mutable:      d.Mutable,
			Pub:          d.Pub,
			SourceModule: d.SourceModule,
		})

	case *parser.StructDecl:
		// Only field default values need checking here
		for i := range d.Fields {
			field := &d.Fields[i]
			if field.Default != nil {
				expected := an.parseTypeName(field.TypeName)
				actual := an.visitExpr(field.Default)
				if !actual.Equals(expected) && !actual.IsUnknown() && !expected.IsUnknown() {
					an.Diag.Error("default value type mismatch for field '"+field.Name+"'",
						field.Line, field.Column)
				}
			}
		}

	case *parser.EnumDecl, *parser.TraitDecl, *parser.TypeAliasDecl:
		// Fully handled during registration

	case *parser.ImplDecl:
		an.visitImpl(d)
	}
}

// checkWhereClauses validates that each where clause names a declared type
// parameter and known traits.
func (an *Analyzer) checkWhereClauses(fn *parser.FunctionDecl) {
	for _, clause := range fn.Where {
		found := false
		for _, tp := range fn.Generics {
			if tp == clause.Param {
				found = true
				break
			}
		}
		if !found {
			an.Diag.Error("where clause references unknown type parameter '"+clause.Param+"'",
				fn.Line, fn.Column)
		}
		for _, traitName := range clause.Traits {
			if !an.isKnownTrait(traitName) {
				an.Diag.Error("where clause references unknown trait '"+traitName+"'",
					fn.Line, fn.Column)
			}
		}
	}
}

// isKnownTrait reports whether a trait name is declared, an operator
// trait, or one of the implicitly-implemented built-in traits.
func (an *Analyzer) isKnownTrait(name string) bool {
	if _, ok := an.Traits[name]; ok {
		return true
	}
	if operatorTraits[name] {
		return true
	}
	for _, impls := range builtinTraitImpls {
		if impls[name] {
			return true
		}
	}
	return false
}

// visitFunctionBody opens the function scope, binds self and the
// parameters, checks the body, and enforces return coverage.
func (an *Analyzer) visitFunctionBody(fn *parser.FunctionDecl, receiverType string) {
	if fn.Body == nil {
		return
	}
	an.Scopes.Push()

	if receiverType != "" && !fn.Static {
		receiver := an.parseTypeName(receiverType)
		an.currentReceiver = receiver
		an.Scopes.Top.Declare(&scope.Symbol{Name: "self", Type: receiver, Mutable: true})
	}

	for _, param := range fn.Params {
		an.Scopes.Top.Declare(&scope.Symbol{
			Name:    param.Name,
			Type:    an.parseTypeName(param.TypeName),
			Mutable: true,
		})
		if param.Default != nil {
			an.visitExpr(param.Default)
		}
	}

	savedReturn := an.currentReturn
	an.currentReturn = an.parseTypeName(fn.ReturnType)
	an.visitStmt(fn.Body)

	// Return coverage for non-void functions; main gets an implicit 0
	if an.currentReturn.Kind != types.Void &&
		!(fn.Name == "main" && fn.Receiver == "") {
		if !AlwaysReturns(fn.Body) {
			an.Diag.Error("function '"+fn.Name+"' does not return a value on all code paths",
				fn.Line, fn.Column)
		}
	}

	an.Scopes.Pop()
	an.currentReturn = savedReturn
	an.currentReceiver = types.UnknownType()
}

// visitImpl checks an impl block: the target type exists, a trait impl
// provides exactly the trait's associated types, and every method body
// checks with self bound (unless static).
func (an *Analyzer) visitImpl(impl *parser.ImplDecl) {
	_, isStruct := an.Structs[impl.TypeName]
	_, isEnum := an.Enums[impl.TypeName]
	if !isStruct && !isEnum {
		an.Diag.Error("impl for unknown type", impl.Line, impl.Column)
		return
	}

	if impl.TraitName != "" {
		trait, known := an.Traits[impl.TraitName]
		if !known && !operatorTraits[impl.TraitName] {
			an.Diag.Error("impl for unknown trait", impl.Line, impl.Column)
			return
		}

		if known {
			provided := make(map[string]bool)
			for _, binding := range impl.AssocTypes {
				provided[binding.Name] = true
			}
			// Every declared associated type must be assigned
			for _, name := range trait.AssocTypes {
				if !provided[name] {
					an.Diag.Error("missing associated type '"+name+"' in impl for "+impl.TraitName,
						impl.Line, impl.Column)
				}
			}
			// Extraneous assignments error
			declared := make(map[string]bool)
			for _, name := range trait.AssocTypes {
				declared[name] = true
			}
			for _, binding := range impl.AssocTypes {
				if !declared[binding.Name] {
					an.Diag.Error("unknown associated type '"+binding.Name+"' in impl for "+impl.TraitName,
						binding.Line, binding.Column)
				}
			}
		}

		if an.TraitImpls[impl.TypeName] == nil {
			an.TraitImpls[impl.TypeName] = make(map[string]bool)
		}
		an.TraitImpls[impl.TypeName][impl.TraitName] = true
	}

	// Impl constants register under their mangled name
	for _, c := range impl.Consts {
		an.Scopes.Top.Declare(&scope.Symbol{
			Name: impl.TypeName + "_" + c.Name,
			Type: an.parseTypeName(c.TypeName),
		})
		if c.Value != nil {
			an.visitExpr(c.Value)
		}
	}

	for _, method := range impl.Methods {
		qualified := impl.TypeName + "_" + method.Name
		an.Scopes.Top.Declare(&scope.Symbol{
			Name: qualified,
			Type: an.parseTypeName(method.ReturnType),
		})
		an.Funcs[qualified] = method
		an.visitFunctionBody(method, impl.TypeName)
	}
}

// parseTypeName canonicalizes a type string from the parser into a Type
// value. Aliases resolve recursively; int/float alias the 64-bit forms;
// all integer widths collapse to the integer category (the spelling
// survives in OriginalName and is honored only at emission).
func (an *Analyzer) parseTypeName(name string) types.Type {
	resolved := name
	for i := 0; i < 16; i++ {
		target, ok := an.TypeAliases[resolved]
		if !ok {
			break
		}
		resolved = target
	}

	switch resolved {
	case "int":
		resolved = "i64"
	case "float":
		resolved = "f64"
	}

	switch resolved {
	case "i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64":
		return types.MakeInt(resolved)
	case "f32", "f64":
		return types.MakeFloat(resolved)
	case "bool":
		return types.Boolean()
	case "char":
		return types.CharType()
	case "string":
		return types.Str()
	case "void", "":
		return types.VoidType()
	case "auto":
		return types.UnknownType()
	}

	// dyn TraitName keeps its full spelling for the emitter
	if strings.HasPrefix(resolved, "dyn ") {
		t := types.UnknownType()
		t.StructName = resolved
		return t
	}

	// Pointer: *T
	if strings.HasPrefix(resolved, "*") {
		return types.MakePointer(resolved[1:])
	}

	// References: &T / &mut T
	if strings.HasPrefix(resolved, "&") {
		if strings.HasPrefix(resolved, "&mut ") {
			return types.MakeMutReference(resolved[5:])
		}
		return types.MakeReference(resolved[1:])
	}

	// Array: [N]T or []T
	if strings.HasPrefix(resolved, "[") {
		if close := strings.IndexByte(resolved, ']'); close >= 0 {
			sizeText := resolved[1:close]
			size := 0
			if sizeText != "" {
				size, _ = strconv.Atoi(sizeText)
			}
			return types.MakeArray(resolved[close+1:], size)
		}
	}

	// Tuple: (T1, T2, ...)
	if strings.HasPrefix(resolved, "(") && strings.HasSuffix(resolved, ")") {
		return types.MakeTuple(name)
	}

	baseName := resolved
	if angle := strings.IndexByte(resolved, '<'); angle >= 0 {
		baseName = resolved[:angle]
	}

	// Built-in generic containers keep their full spelling
	if baseName == "Vec" || baseName == "Result" || baseName == "Option" || baseName == "HashMap" {
		t := types.UnknownType()
		t.StructName = resolved
		return t
	}

	if _, ok := an.Structs[baseName]; ok {
		return types.MakeStruct(name)
	}
	if _, ok := an.Enums[baseName]; ok {
		return types.MakeEnum(name)
	}
	return types.UnknownType()
}

// inferTypeName converts a Type back to its textual spelling for storage
// in the AST (used after inference so the emitter sees a concrete type).
func (an *Analyzer) inferTypeName(t types.Type) string {
	switch t.Kind {
	case types.Unknown:
		if t.StructName != "" {
			return t.StructName
		}
		return "auto"
	case types.Array:
		if t.ArraySize > 0 {
			return "[" + strconv.Itoa(t.ArraySize) + "]" + t.ElementType
		}
		return "[]" + t.ElementType
	}
	return t.Name()
}

// checkVisibility errors when a symbol from another source module is used
// without being pub.
func (an *Analyzer) checkVisibility(sym *scope.Symbol, line, column int) bool {
	if sym == nil {
		return true
	}
	if sym.SourceModule != "" && sym.SourceModule != an.CurrentModule && !sym.Pub {
		an.Diag.Error("'"+sym.Name+"' is private in module '"+sym.SourceModule+"'", line, column)
		return false
	}
	return true
}

// typeImplementsTrait consults recorded impls first, then the implicit
// implementations of the built-in types.
func (an *Analyzer) typeImplementsTrait(typeName, traitName string) bool {
	if impls, ok := an.TraitImpls[typeName]; ok {
		return impls[traitName]
	}
	if impls, ok := builtinTraitImpls[typeName]; ok {
		return impls[traitName]
	}
	return false
}

// checkTraitBounds validates one inferred binding against the traits its
// where clause requires.
func (an *Analyzer) checkTraitBounds(typeParam string, concrete types.Type, required []string, line, column int) bool {
	typeName := concrete.Name()
	for _, traitName := range required {
		if !an.typeImplementsTrait(typeName, traitName) {
			an.Diag.Error("type '"+typeName+"' does not implement trait '"+traitName+
				"' required by type parameter '"+typeParam+"'", line, column)
			return false
		}
	}
	return true
}

// markVariableUsed records that a declared name was read.
func (an *Analyzer) markVariableUsed(name string) {
	an.variableUsed[name] = true
}

// trackVariable records a declaration for the unused-variable report.
func (an *Analyzer) trackVariable(name string, line, column int) {
	if _, seen := an.variableUsed[name]; !seen {
		an.variableUsed[name] = false
		an.variableLoc[name] = [2]int{line, column}
	}
}

// checkUnusedVariables reports every declared name never read, walking the
// module in source order so the warning stream is deterministic. Names
// beginning with '_' are exempt.
func (an *Analyzer) checkUnusedVariables(mod *parser.Module) {
	reportIn := func(fn *parser.FunctionDecl) {
		if fn == nil || fn.Body == nil {
			return
		}
		walkVarDecls(fn.Body, func(v *parser.VarDeclStmt) {
			used, tracked := an.variableUsed[v.Name]
			if tracked && !used && !strings.HasPrefix(v.Name, "_") {
				an.Diag.Warning("unused variable '"+v.Name+"' (prefix with '_' to silence)",
					v.Line, v.Column)
			}
		})
	}
	for _, decl := range mod.Decls {
		switch d := decl.(type) {
		case *parser.FunctionDecl:
			reportIn(d)
		case *parser.ImplDecl:
			for _, method := range d.Methods {
				reportIn(method)
			}
		}
	}
}

// walkVarDecls visits every VarDeclStmt in a statement subtree in source
// order.
func walkVarDecls(stmt parser.Stmt, fn func(*parser.VarDeclStmt)) {
	switch s := stmt.(type) {
	case *parser.BlockStmt:
		for _, inner := range s.Statements {
			walkVarDecls(inner, fn)
		}
	case *parser.VarDeclStmt:
		fn(s)
	case *parser.IfStmt:
		walkVarDecls(s.Then, fn)
		if s.Else != nil {
			walkVarDecls(s.Else, fn)
		}
	case *parser.WhileStmt:
		walkVarDecls(s.Body, fn)
	case *parser.ForStmt:
		if s.Init != nil {
			walkVarDecls(s.Init, fn)
		}
		walkVarDecls(s.Body, fn)
	case *parser.ForInStmt:
		walkVarDecls(s.Body, fn)
	case *parser.LoopStmt:
		walkVarDecls(s.Body, fn)
	case *parser.DeferStmt:
		walkVarDecls(s.Body, fn)
	case *parser.ScopeStmt:
		walkVarDecls(s.Body, fn)
	}
}
