/*
File    : mana/semantic/semantic_test.go
*/
package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mana-lang/mana/diag"
	"github.com/mana-lang/mana/parser"
)

// analyze parses and analyzes one source string, returning the module and
// the sink.
func analyze(t *testing.T, src string) (*parser.Module, *diag.Sink) {
	t.Helper()
	sink := diag.NewSink()
	mod := parser.New(src, sink).ParseModule()
	assert.False(t, sink.HasErrors(), "parse errors: %v", sink.Diagnostics)
	NewAnalyzer(sink).Analyze(mod)
	return mod, sink
}

// errorMessages extracts the messages of all Error diagnostics.
func errorMessages(sink *diag.Sink) []string {
	var messages []string
	for _, d := range sink.Diagnostics {
		if d.Kind == diag.Error {
			messages = append(messages, d.Message)
		}
	}
	return messages
}

// warningMessages extracts the messages of all Warning diagnostics.
func warningMessages(sink *diag.Sink) []string {
	var messages []string
	for _, d := range sink.Diagnostics {
		if d.Kind == diag.Warning {
			messages = append(messages, d.Message)
		}
	}
	return messages
}

func TestSemantic_HelloWorld(t *testing.T) {
	_, sink := analyze(t, `module m
fn main() -> i32 {
    println("hi")
    return 0
}`)
	assert.False(t, sink.HasErrors(), "diagnostics: %v", sink.Diagnostics)
}

func TestSemantic_ForwardReference(t *testing.T) {
	_, sink := analyze(t, `module m
fn main() -> i32 { return f() }
fn f() -> i32 { return 7 }`)
	assert.False(t, sink.HasErrors(), "diagnostics: %v", sink.Diagnostics)
}

func TestSemantic_ImmutableAssignment(t *testing.T) {
	_, sink := analyze(t, `module m
fn main() -> i32 {
    const x: i32 = 3
    x = 4
    return 0
}`)
	assert.Equal(t, 1, sink.ErrorCount())
	assert.Contains(t, errorMessages(sink)[0], "cannot assign to immutable variable 'x'")
}

func TestSemantic_DidYouMean(t *testing.T) {
	_, sink := analyze(t, `module m
fn main() -> i32 {
    printn("hi")
    return 0
}`)
	assert.True(t, sink.HasErrors())
	found := false
	for _, d := range sink.Diagnostics {
		if d.Kind == diag.Error && d.Suggestion == "println" {
			found = true
		}
	}
	assert.True(t, found, "expected a 'println' suggestion, got %v", sink.Diagnostics)
}

func TestSemantic_NonExhaustiveMatch(t *testing.T) {
	_, sink := analyze(t, `module m
variant E { A(i32), B }
fn main() -> i32 {
    let e: E = E::A(5)
    return match e {
        E::A(n) => n,
    }
}`)
	warnings := warningMessages(sink)
	count := 0
	for _, w := range warnings {
		if w == "non-exhaustive match: missing variants E::B" {
			count++
		}
	}
	assert.Equal(t, 1, count, "warnings: %v", warnings)
}

func TestSemantic_ExhaustiveMatchNoWarning(t *testing.T) {
	_, sink := analyze(t, `module m
variant E { A(i32), B }
fn main() -> i32 {
    let e: E = E::A(5)
    return match e {
        E::A(n) => n,
        E::B => 0,
    }
}`)
	for _, w := range warningMessages(sink) {
		assert.NotContains(t, w, "non-exhaustive")
	}
	assert.False(t, sink.HasErrors(), "diagnostics: %v", sink.Diagnostics)
}

func TestSemantic_ConstantFolding(t *testing.T) {
	mod, sink := analyze(t, `module m
fn main() -> i32 {
    let x: i32 = 2 + 3 * 4
    return x
}`)
	assert.False(t, sink.HasErrors(), "diagnostics: %v", sink.Diagnostics)

	fn := mod.Decls[0].(*parser.FunctionDecl)
	varDecl := fn.Body.Statements[0].(*parser.VarDeclStmt)
	lit, ok := varDecl.Init.(*parser.LiteralExpr)
	assert.True(t, ok, "initializer should be folded to a literal, got %T", varDecl.Init)
	assert.Equal(t, "14", lit.Value)
}

func TestSemantic_FoldedFloatFormat(t *testing.T) {
	mod, _ := analyze(t, `module m
fn main() -> i32 {
    let x: f64 = 1.0 / 3.0
    return 0
}`)
	fn := mod.Decls[0].(*parser.FunctionDecl)
	varDecl := fn.Body.Statements[0].(*parser.VarDeclStmt)
	lit, ok := varDecl.Init.(*parser.LiteralExpr)
	assert.True(t, ok)
	assert.Equal(t, parser.LitFloat, lit.Kind)
	assert.Contains(t, lit.Value, ".")
}

func TestSemantic_TypeMismatch(t *testing.T) {
	_, sink := analyze(t, `module m
fn main() -> i32 {
    let x: string = 5
    return 0
}`)
	assert.True(t, sink.HasErrors())
	assert.Contains(t, errorMessages(sink)[0], "type mismatch")
}

func TestSemantic_ReturnCoverage(t *testing.T) {
	_, sink := analyze(t, `module m
fn f(flag: bool) -> i32 {
    if flag { return 1 }
}
fn main() -> i32 { return 0 }`)
	assert.True(t, sink.HasErrors())
	assert.Contains(t, errorMessages(sink)[0], "does not return a value on all code paths")
}

func TestSemantic_MainImplicitReturn(t *testing.T) {
	_, sink := analyze(t, `module m
fn main() -> i32 {
    println("no explicit return")
}`)
	assert.False(t, sink.HasErrors(), "diagnostics: %v", sink.Diagnostics)
}

func TestSemantic_BreakOutsideLoop(t *testing.T) {
	_, sink := analyze(t, `module m
fn main() -> i32 {
    break
    return 0
}`)
	assert.True(t, sink.HasErrors())
	assert.Contains(t, errorMessages(sink)[0], "break outside loop")
}

func TestSemantic_UnreachableCode(t *testing.T) {
	_, sink := analyze(t, `module m
fn main() -> i32 {
    return 0
    println("never")
}`)
	warnings := warningMessages(sink)
	assert.Equal(t, 1, len(warnings))
	assert.Contains(t, warnings[0], "unreachable code")
}

func TestSemantic_UnusedVariable(t *testing.T) {
	_, sink := analyze(t, `module m
fn main() -> i32 {
    let unused = 1
    let _ignored = 2
    let used = 3
    return used
}`)
	warnings := warningMessages(sink)
	assert.Equal(t, 1, len(warnings), "warnings: %v", warnings)
	assert.Contains(t, warnings[0], "unused variable 'unused'")
}

func TestSemantic_TraitBounds(t *testing.T) {
	_, sink := analyze(t, `module m
struct Blob { data: i32 }
fn show<T>(x: T) -> void where T: Display {
    println("x")
}
fn main() -> i32 {
    show(1)
    show(Blob{1})
    return 0
}`)
	messages := errorMessages(sink)
	assert.Equal(t, 1, len(messages), "errors: %v", messages)
	assert.Contains(t, messages[0], "does not implement trait 'Display'")
}

func TestSemantic_TraitImplSatisfiesBound(t *testing.T) {
	_, sink := analyze(t, `module m
trait Display {
    fn show(self) -> string;
}
struct Blob { data: i32 }
impl Display for Blob {
    fn show(self) -> string { return "blob" }
}
fn show_it<T>(x: T) -> void where T: Display {
    println("x")
}
fn main() -> i32 {
    show_it(Blob{1})
    return 0
}`)
	assert.False(t, sink.HasErrors(), "diagnostics: %v", sink.Diagnostics)
}

func TestSemantic_MissingAssocType(t *testing.T) {
	_, sink := analyze(t, `module m
trait Container {
    type Item;
    fn get(self) -> i32;
}
struct BoxOne { value: i32 }
impl Container for BoxOne {
    fn get(self) -> i32 { return self.value }
}
fn main() -> i32 { return 0 }`)
	assert.True(t, sink.HasErrors())
	assert.Contains(t, errorMessages(sink)[0], "missing associated type 'Item'")
}

func TestSemantic_ExtraAssocType(t *testing.T) {
	_, sink := analyze(t, `module m
trait Container {
    fn get(self) -> i32;
}
struct BoxOne { value: i32 }
impl Container for BoxOne {
    type Item = i32;
    fn get(self) -> i32 { return self.value }
}
fn main() -> i32 { return 0 }`)
	assert.True(t, sink.HasErrors())
	assert.Contains(t, errorMessages(sink)[0], "unknown associated type 'Item'")
}

func TestSemantic_SelfOutsideMethod(t *testing.T) {
	_, sink := analyze(t, `module m
fn main() -> i32 {
    let x = self
    return 0
}`)
	assert.True(t, sink.HasErrors())
	assert.Contains(t, errorMessages(sink)[0], "'self' used outside of method")
}

func TestSemantic_UnknownStructField(t *testing.T) {
	_, sink := analyze(t, `module m
struct Point { x: f64, y: f64 }
fn main() -> i32 {
    let p = Point{x: 1.0, y: 2.0}
    let z = p.z
    return 0
}`)
	assert.True(t, sink.HasErrors())
	assert.Contains(t, errorMessages(sink)[0], "unknown struct member 'z'")
}

func TestSemantic_BitwiseOnBool(t *testing.T) {
	_, sink := analyze(t, `module m
fn main() -> i32 {
    let x = true & false
    return 0
}`)
	assert.True(t, sink.HasErrors())
	assert.Contains(t, errorMessages(sink)[0], "bitwise operator")
}

func TestSemantic_StringConcat(t *testing.T) {
	_, sink := analyze(t, `module m
fn main() -> i32 {
    let s = "a" + "b"
    println(s)
    return 0
}`)
	assert.False(t, sink.HasErrors(), "diagnostics: %v", sink.Diagnostics)
}

func TestSemantic_MethodCallAnnotation(t *testing.T) {
	mod, sink := analyze(t, `module m
struct Point { x: f64, y: f64 }
impl Point {
    fn norm(self) -> f64 { return self.x }
}
fn main() -> i32 {
    let p = Point{x: 1.0, y: 2.0}
    let n = p.norm()
    println(f"{n}")
    return 0
}`)
	assert.False(t, sink.HasErrors(), "diagnostics: %v", sink.Diagnostics)

	fn := mod.Decls[2].(*parser.FunctionDecl)
	call := fn.Body.Statements[1].(*parser.VarDeclStmt).Init.(*parser.MethodCallExpr)
	assert.Equal(t, "Point", call.ObjectType)
}

func TestSemantic_EnumConstructorArity(t *testing.T) {
	_, sink := analyze(t, `module m
variant E { A(i32), B }
fn main() -> i32 {
    let e: E = E::A(1, 2)
    return 0
}`)
	assert.True(t, sink.HasErrors())
	assert.Contains(t, errorMessages(sink)[0], "wrong number of arguments")
}

func TestSemantic_Determinism(t *testing.T) {
	src := `module m
variant E { A(i32), B, C }
fn main() -> i32 {
    let unusedone = 1
    let unusedtwo = undeclared_name
    return match e_missing {
        E::A(n) => n,
    }
}`
	first := diag.NewSink()
	modA := parser.New(src, first).ParseModule()
	NewAnalyzer(first).Analyze(modA)

	second := diag.NewSink()
	modB := parser.New(src, second).ParseModule()
	NewAnalyzer(second).Analyze(modB)

	assert.Equal(t, first.Diagnostics, second.Diagnostics)
}

func TestSemantic_OrRequiresResult(t *testing.T) {
	_, sink := analyze(t, `module m
fn main() -> i32 {
    let x = 5 or return 1
    return 0
}`)
	assert.True(t, sink.HasErrors())
	assert.Contains(t, errorMessages(sink)[0], "'or' operator requires Result type")
}
