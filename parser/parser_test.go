/*
File    : mana/parser/parser_test.go
*/
package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mana-lang/mana/diag"
)

// parseSource is a test helper: parse a module and return it with its sink.
func parseSource(t *testing.T, src string) (*Module, *diag.Sink) {
	t.Helper()
	sink := diag.NewSink()
	mod := New(src, sink).ParseModule()
	assert.NotNil(t, mod)
	return mod, sink
}

// parseClean parses a module and asserts no errors were recorded.
func parseClean(t *testing.T, src string) *Module {
	t.Helper()
	mod, sink := parseSource(t, src)
	assert.False(t, sink.HasErrors(), "unexpected errors: %v", sink.Diagnostics)
	return mod
}

func TestParser_HelloWorld(t *testing.T) {
	mod := parseClean(t, `module m
fn main() -> i32 {
    println("hi")
    return 0
}`)
	assert.Equal(t, "m", mod.Name)
	assert.Equal(t, 1, len(mod.Decls))

	fn, ok := mod.Decls[0].(*FunctionDecl)
	assert.True(t, ok)
	assert.Equal(t, "main", fn.Name)
	assert.Equal(t, "i32", fn.ReturnType)
	assert.Equal(t, 2, len(fn.Body.Statements))
}

func TestParser_MainDefaultsToI32(t *testing.T) {
	mod := parseClean(t, `module m
fn main() { return 0 }`)
	fn := mod.Decls[0].(*FunctionDecl)
	assert.Equal(t, "i32", fn.ReturnType)
}

func TestParser_FunctionForms(t *testing.T) {
	mod := parseClean(t, `module m
pub fn add(a: i32, b: i32 = 2) -> i32 { return a + b }
async fn fetch(url: string) -> string { return url }
extern fn puts(s: string) -> i32
fn Point.norm(self) -> f64 { return 0.0 }
fn id<T>(x: T) -> T where T: Clone { return x }
#[test]
fn check_add() -> void { assert(true) }`)

	assert.Equal(t, 6, len(mod.Decls))

	add := mod.Decls[0].(*FunctionDecl)
	assert.True(t, add.Pub)
	assert.Equal(t, 2, len(add.Params))
	assert.NotNil(t, add.Params[1].Default)

	fetch := mod.Decls[1].(*FunctionDecl)
	assert.True(t, fetch.Async)

	puts := mod.Decls[2].(*FunctionDecl)
	assert.True(t, puts.Extern)
	assert.Nil(t, puts.Body)

	norm := mod.Decls[3].(*FunctionDecl)
	assert.Equal(t, "Point", norm.Receiver)
	assert.Equal(t, "norm", norm.Name)
	assert.True(t, norm.HasSelf)

	id := mod.Decls[4].(*FunctionDecl)
	assert.Equal(t, []string{"T"}, id.Generics)
	assert.Equal(t, 1, len(id.Where))
	assert.Equal(t, "T", id.Where[0].Param)
	assert.Equal(t, []string{"Clone"}, id.Where[0].Traits)

	test := mod.Decls[5].(*FunctionDecl)
	assert.True(t, test.Test)
}

func TestParser_StructAndEnum(t *testing.T) {
	mod := parseClean(t, `module m
struct Point { x: f64, y: f64 = 0.0 }
struct Pair<A, B> { first: A, second: B }
enum Color { Red, Green = 5, Blue }
variant Shape {
    Circle(f64),
    Rect { w: f64, h: f64 },
    Empty,
}`)

	point := mod.Decls[0].(*StructDecl)
	assert.Equal(t, 2, len(point.Fields))
	assert.NotNil(t, point.Fields[1].Default)

	pair := mod.Decls[1].(*StructDecl)
	assert.Equal(t, []string{"A", "B"}, pair.Generics)

	color := mod.Decls[2].(*EnumDecl)
	assert.False(t, color.HasData())
	assert.True(t, color.Variants[1].HasDiscriminant)
	assert.Equal(t, int64(5), color.Variants[1].Discriminant)
	assert.Equal(t, int64(6), color.Variants[2].Discriminant)

	shape := mod.Decls[3].(*EnumDecl)
	assert.True(t, shape.HasData())
	assert.Equal(t, []string{"f64"}, shape.Variants[0].TupleTypes)
	assert.Equal(t, 2, len(shape.Variants[1].Fields))
	assert.True(t, shape.Variants[2].IsUnit())
}

func TestParser_TraitAndImpl(t *testing.T) {
	mod := parseClean(t, `module m
trait Shape {
    type Unit;
    fn area(self) -> f64;
    fn describe(self) -> string { return "shape" }
}
impl Shape for Circle {
    type Unit = f64;
    const PI: f64 = 3.14159;
    fn area(self) -> f64 { return 1.0 }
    static fn make() -> Circle { return Circle{1.0} }
}
impl Circle {
    fn radius(self) -> f64 { return 1.0 }
}`)

	trait := mod.Decls[0].(*TraitDecl)
	assert.Equal(t, []string{"Unit"}, trait.AssocTypes)
	assert.Equal(t, 2, len(trait.Methods))
	assert.Nil(t, trait.Methods[0].Body)
	assert.NotNil(t, trait.Methods[1].Body)

	impl := mod.Decls[1].(*ImplDecl)
	assert.Equal(t, "Shape", impl.TraitName)
	assert.Equal(t, "Circle", impl.TypeName)
	assert.Equal(t, 1, len(impl.AssocTypes))
	assert.Equal(t, 1, len(impl.Consts))
	assert.Equal(t, 2, len(impl.Methods))
	assert.True(t, impl.Methods[1].Static)

	inherent := mod.Decls[2].(*ImplDecl)
	assert.Equal(t, "", inherent.TraitName)
	assert.Equal(t, "Circle", inherent.TypeName)
}

func TestParser_ImportsAndUse(t *testing.T) {
	mod := parseClean(t, `module m
import "lib/util"
import std::io
use std::io::*
use std::collections::{HashMap, HashSet}
pub use std::fmt as formatting
type Id = i64
MAX: i32 = 100`)

	fileImport := mod.Decls[0].(*ImportDecl)
	assert.True(t, fileImport.IsFile)
	assert.Equal(t, "lib/util", fileImport.Path)

	modImport := mod.Decls[1].(*ImportDecl)
	assert.False(t, modImport.IsFile)
	assert.Equal(t, "std::io", modImport.Path)

	glob := mod.Decls[2].(*UseDecl)
	assert.True(t, glob.Glob)

	selective := mod.Decls[3].(*UseDecl)
	assert.Equal(t, []string{"HashMap", "HashSet"}, selective.Names)

	aliased := mod.Decls[4].(*UseDecl)
	assert.True(t, aliased.Pub)
	assert.Equal(t, "formatting", aliased.Alias)

	alias := mod.Decls[5].(*TypeAliasDecl)
	assert.Equal(t, "Id", alias.Name)
	assert.Equal(t, "i64", alias.Target)

	global := mod.Decls[6].(*GlobalDecl)
	assert.Equal(t, "MAX", global.Name)
	assert.Equal(t, "i32", global.TypeName)
}

// statement test case: source inside a wrapper function, plus a check
type stmtTest struct {
	Name  string
	Src   string
	Check func(t *testing.T, stmts []Stmt)
}

// parseBody parses statements inside a wrapper function body.
func parseBody(t *testing.T, body string) []Stmt {
	t.Helper()
	mod := parseClean(t, "module m\nfn f() -> void {\n"+body+"\n}")
	fn := mod.Decls[0].(*FunctionDecl)
	return fn.Body.Statements
}

func TestParser_Statements(t *testing.T) {
	tests := []stmtTest{
		{
			Name: "let and const",
			Src:  "let x = 1\nconst y: i32 = 2",
			Check: func(t *testing.T, stmts []Stmt) {
				x := stmts[0].(*VarDeclStmt)
				assert.True(t, x.Mutable)
				assert.Equal(t, "auto", x.TypeName)
				y := stmts[1].(*VarDeclStmt)
				assert.False(t, y.Mutable)
				assert.Equal(t, "i32", y.TypeName)
			},
		},
		{
			Name: "typed declaration without let",
			Src:  "count: i64 = 0",
			Check: func(t *testing.T, stmts []Stmt) {
				v := stmts[0].(*VarDeclStmt)
				assert.Equal(t, "count", v.Name)
				assert.Equal(t, "i64", v.TypeName)
			},
		},
		{
			Name: "compound assignment desugars",
			Src:  "x += 2",
			Check: func(t *testing.T, stmts []Stmt) {
				a := stmts[0].(*AssignStmt)
				assert.Equal(t, "x", a.TargetName)
				bin := a.Value.(*BinaryExpr)
				assert.Equal(t, "+", bin.Op)
			},
		},
		{
			Name: "increment desugars",
			Src:  "i++",
			Check: func(t *testing.T, stmts []Stmt) {
				a := stmts[0].(*AssignStmt)
				bin := a.Value.(*BinaryExpr)
				assert.Equal(t, "+", bin.Op)
				lit := bin.Right.(*LiteralExpr)
				assert.Equal(t, "1", lit.Value)
			},
		},
		{
			Name: "member assignment",
			Src:  "p.x = 3",
			Check: func(t *testing.T, stmts []Stmt) {
				a := stmts[0].(*AssignStmt)
				assert.True(t, a.IsComplexTarget())
				_, ok := a.TargetExpr.(*MemberAccessExpr)
				assert.True(t, ok)
			},
		},
		{
			Name: "index assignment",
			Src:  "v[0] = 3",
			Check: func(t *testing.T, stmts []Stmt) {
				a := stmts[0].(*AssignStmt)
				_, ok := a.TargetExpr.(*IndexExpr)
				assert.True(t, ok)
			},
		},
		{
			Name: "tuple destructuring",
			Src:  "let (a, b) = pair",
			Check: func(t *testing.T, stmts []Stmt) {
				ds := stmts[0].(*DestructureStmt)
				assert.True(t, ds.IsTuple)
				assert.Equal(t, 2, len(ds.Bindings))
				assert.Equal(t, "0", ds.Bindings[0].FieldName)
			},
		},
		{
			Name: "struct destructuring",
			Src:  "{x, y}: Point = p",
			Check: func(t *testing.T, stmts []Stmt) {
				ds := stmts[0].(*DestructureStmt)
				assert.True(t, ds.IsStruct)
				assert.Equal(t, "Point", ds.TypeName)
			},
		},
		{
			Name: "array destructuring",
			Src:  "[a, b, c]: [3]i32 = xs",
			Check: func(t *testing.T, stmts []Stmt) {
				ds := stmts[0].(*DestructureStmt)
				assert.False(t, ds.IsStruct)
				assert.False(t, ds.IsTuple)
				assert.Equal(t, 3, len(ds.Bindings))
			},
		},
		{
			Name: "if let",
			Src:  "if let Some(v) = opt { return }",
			Check: func(t *testing.T, stmts []Stmt) {
				s := stmts[0].(*IfStmt)
				assert.True(t, s.IsIfLet)
				assert.Equal(t, "Some", s.PatternKind)
				assert.Equal(t, "v", s.PatternVar)
			},
		},
		{
			Name: "while let",
			Src:  "while let Ok(line) = next() { use_line(line) }",
			Check: func(t *testing.T, stmts []Stmt) {
				s := stmts[0].(*WhileStmt)
				assert.True(t, s.IsWhileLet)
				assert.Equal(t, "Ok", s.PatternKind)
			},
		},
		{
			Name: "three part for",
			Src:  "for i: i32 = 0; i < 10; i++ { work(i) }",
			Check: func(t *testing.T, stmts []Stmt) {
				s := stmts[0].(*ForStmt)
				assert.NotNil(t, s.Init)
				assert.NotNil(t, s.Condition)
				assert.NotNil(t, s.Step)
			},
		},
		{
			Name: "for in range",
			Src:  "for i in 0..10 { work(i) }",
			Check: func(t *testing.T, stmts []Stmt) {
				s := stmts[0].(*ForInStmt)
				assert.Equal(t, "i", s.VarName)
				_, ok := s.Iterable.(*RangeExpr)
				assert.True(t, ok)
			},
		},
		{
			Name: "for in destructuring",
			Src:  "for (k, v) in entries { work(k, v) }",
			Check: func(t *testing.T, stmts []Stmt) {
				s := stmts[0].(*ForInStmt)
				assert.True(t, s.IsDestructure)
				assert.Equal(t, []string{"k", "v"}, s.VarNames)
			},
		},
		{
			Name: "loop break continue",
			Src:  "loop { break 1\ncontinue }",
			Check: func(t *testing.T, stmts []Stmt) {
				loop := stmts[0].(*LoopStmt)
				body := loop.Body.(*BlockStmt)
				br := body.Statements[0].(*BreakStmt)
				assert.NotNil(t, br.Value)
				_, ok := body.Statements[1].(*ContinueStmt)
				assert.True(t, ok)
			},
		},
		{
			Name: "defer block",
			Src:  "defer { cleanup() }",
			Check: func(t *testing.T, stmts []Stmt) {
				d := stmts[0].(*DeferStmt)
				assert.NotNil(t, d.Body)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			test.Check(t, parseBody(t, test.Src))
		})
	}
}

// parseExpr parses a single expression from an initializer position.
func parseExpr(t *testing.T, src string) Expr {
	t.Helper()
	stmts := parseBody(t, "let probe = "+src)
	return stmts[0].(*VarDeclStmt).Init
}

func TestParser_Precedence(t *testing.T) {
	// 2 + 3 * 4 parses as 2 + (3 * 4)
	expr := parseExpr(t, "2 + 3 * 4")
	add := expr.(*BinaryExpr)
	assert.Equal(t, "+", add.Op)
	mul := add.Right.(*BinaryExpr)
	assert.Equal(t, "*", mul.Op)
}

func TestParser_PowerRightAssociative(t *testing.T) {
	// 2 ** 3 ** 2 parses as 2 ** (3 ** 2)
	expr := parseExpr(t, "2 ** 3 ** 2")
	outer := expr.(*BinaryExpr)
	assert.Equal(t, "**", outer.Op)
	left := outer.Left.(*LiteralExpr)
	assert.Equal(t, "2", left.Value)
	inner := outer.Right.(*BinaryExpr)
	assert.Equal(t, "**", inner.Op)
}

func TestParser_ExpressionForms(t *testing.T) {
	_, isRange := parseExpr(t, "1..=5").(*RangeExpr)
	assert.True(t, isRange)

	try, isTry := parseExpr(t, "read()?").(*TryExpr)
	assert.True(t, isTry)
	_, isCall := try.Operand.(*CallExpr)
	assert.True(t, isCall)

	chain, isChain := parseExpr(t, "user?.name").(*OptionalChainExpr)
	assert.True(t, isChain)
	assert.Equal(t, "name", chain.MemberName)
	assert.False(t, chain.IsMethodCall)

	coalesce, isCoalesce := parseExpr(t, "opt ?? 0").(*NullCoalesceExpr)
	assert.True(t, isCoalesce)
	assert.NotNil(t, coalesce.Default)

	cast, isCast := parseExpr(t, "x as f64").(*CastExpr)
	assert.True(t, isCast)
	assert.Equal(t, "f64", cast.TargetType)

	await, isAwait := parseExpr(t, "task.await").(*AwaitExpr)
	assert.True(t, isAwait)
	assert.NotNil(t, await.Operand)

	tupleIdx, isTupleIdx := parseExpr(t, "pair.0").(*TupleIndexExpr)
	assert.True(t, isTupleIdx)
	assert.Equal(t, 0, tupleIdx.Index)

	slice, isSlice := parseExpr(t, "xs[1..3]").(*SliceExpr)
	assert.True(t, isSlice)
	assert.False(t, slice.Inclusive)

	fill, isFill := parseExpr(t, "[0; 16]").(*ArrayLiteralExpr)
	assert.True(t, isFill)
	assert.True(t, fill.IsFill())
}

func TestParser_CallsAndLiterals(t *testing.T) {
	call := parseExpr(t, "mix(1, scale: 2.0)").(*CallExpr)
	assert.Equal(t, []string{"", "scale"}, call.ArgNames)

	static := parseExpr(t, "Vec::new()").(*CallExpr)
	assert.Equal(t, "Vec::new", static.FuncName)

	scope := parseExpr(t, "Color::Red").(*ScopeAccessExpr)
	assert.Equal(t, "Color", scope.ScopeName)
	assert.Equal(t, "Red", scope.MemberName)

	named := parseExpr(t, "Point{x: 1.0, y: 2.0}").(*StructLiteralExpr)
	assert.True(t, named.Named)
	assert.Equal(t, 2, len(named.Fields))

	positional := parseExpr(t, "Point{1.0, 2.0}").(*StructLiteralExpr)
	assert.False(t, positional.Named)

	generic := parseExpr(t, "Pair<i32, i32>{1, 2}").(*StructLiteralExpr)
	assert.Equal(t, "<i32, i32>", generic.GenericArgs)

	method := parseExpr(t, "v.push(1)").(*MethodCallExpr)
	assert.Equal(t, "push", method.MethodName)
}

func TestParser_Closures(t *testing.T) {
	plain := parseExpr(t, "|x: i32| x + 1").(*ClosureExpr)
	assert.True(t, plain.ByRef)
	assert.Equal(t, 1, len(plain.Params))
	assert.Equal(t, "i32", plain.Params[0].TypeName)
	assert.NotNil(t, plain.BodyExpr)

	empty := parseExpr(t, "|| 42").(*ClosureExpr)
	assert.Equal(t, 0, len(empty.Params))

	block := parseExpr(t, "|x| -> i32 { return x }").(*ClosureExpr)
	assert.Equal(t, "i32", block.ReturnType)
	assert.True(t, block.HasBlock())

	moved := parseExpr(t, "move |x| x").(*ClosureExpr)
	assert.False(t, moved.ByRef)

	captures := parseExpr(t, "[a, &b, move c]|x| x").(*ClosureExpr)
	assert.True(t, captures.ExplicitCaptures)
	assert.Equal(t, 3, len(captures.Captures))
	assert.Equal(t, CaptureByValue, captures.Captures[0].Mode)
	assert.Equal(t, CaptureByRef, captures.Captures[1].Mode)
	assert.Equal(t, CaptureByMove, captures.Captures[2].Mode)
}

func TestParser_MatchExpression(t *testing.T) {
	expr := parseExpr(t, `match e {
        E::A(n) => n,
        E::B => 0,
        1 | 2 => 3,
        0..=9 => 4,
        Some(x) if x > 0 => x,
        _ => -1,
    }`)
	m := expr.(*MatchExpr)
	assert.False(t, m.IsWhen)
	assert.True(t, m.HasDefault)
	assert.Equal(t, 6, len(m.Arms))

	enumPat := m.Arms[0].Patterns[0].(*EnumPattern)
	assert.Equal(t, "E", enumPat.EnumName)
	assert.Equal(t, "A", enumPat.VariantName)
	assert.Equal(t, []string{"n"}, enumPat.Bindings)

	unit := m.Arms[1].Patterns[0].(*EnumPattern)
	assert.True(t, unit.IsUnitPattern())

	assert.Equal(t, 2, len(m.Arms[2].Patterns))

	_, isRange := m.Arms[3].Patterns[0].(*RangeExpr)
	assert.True(t, isRange)

	some := m.Arms[4].Patterns[0].(*OptionPattern)
	assert.Equal(t, "Some", some.Kind)
	assert.Equal(t, "x", some.Binding)
	assert.NotNil(t, m.Arms[4].Guard)

	wild := m.Arms[5].Patterns[0].(*IdentifierExpr)
	assert.Equal(t, "_", wild.Name)
}

func TestParser_WhenExpression(t *testing.T) {
	expr := parseExpr(t, `when x {
        1 -> "one"
        2 -> "two"
        _ -> "many"
    }`)
	m := expr.(*MatchExpr)
	assert.True(t, m.IsWhen)
	assert.Equal(t, 3, len(m.Arms))
	assert.True(t, m.HasDefault)
}

func TestParser_LowercasePatternSpellings(t *testing.T) {
	expr := parseExpr(t, `match r { ok(v) => v, err(e) => 0, }`)
	m := expr.(*MatchExpr)
	okPat := m.Arms[0].Patterns[0].(*OptionPattern)
	assert.Equal(t, "Ok", okPat.Kind)
	errPat := m.Arms[1].Patterns[0].(*OptionPattern)
	assert.Equal(t, "Err", errPat.Kind)
}

func TestParser_OrControlFlow(t *testing.T) {
	orRet := parseExpr(t, "read() or return 1").(*OrElseExpr)
	assert.NotNil(t, orRet.FallbackStmt)

	orBlock := parseExpr(t, "read() or { panic() }").(*OrElseExpr)
	assert.True(t, orBlock.HasBlock())

	orDefault := parseExpr(t, "read() or 0").(*OrElseExpr)
	assert.NotNil(t, orDefault.DefaultExpr)
}

func TestParser_FString(t *testing.T) {
	expr := parseExpr(t, `f"pi is {pi:.2f} and x is {x}"`)
	fstr := expr.(*FStringExpr)
	assert.Equal(t, 4, len(fstr.Parts))
	assert.False(t, fstr.Parts[0].IsExpr)
	assert.Equal(t, "pi is ", fstr.Parts[0].Literal)
	assert.True(t, fstr.Parts[1].IsExpr)
	assert.Equal(t, ".2f", fstr.Parts[1].FormatSpec)
	assert.True(t, fstr.Parts[3].IsExpr)
	assert.Equal(t, "", fstr.Parts[3].FormatSpec)
}

func TestParser_IfExpression(t *testing.T) {
	expr := parseExpr(t, "if flag { 1 } else { 2 }")
	ifExpr := expr.(*IfExpr)
	assert.NotNil(t, ifExpr.Condition)
	assert.NotNil(t, ifExpr.Then)
	assert.NotNil(t, ifExpr.Else)
}

func TestParser_DocCommentsAttach(t *testing.T) {
	mod := parseClean(t, `module m
/// Adds numbers.
/// Slowly.
fn add(a: i32, b: i32) -> i32 { return a + b }`)
	fn := mod.Decls[0].(*FunctionDecl)
	assert.Equal(t, []string{"Adds numbers.", "Slowly."}, fn.Doc)
}

func TestParser_ErrorRecovery(t *testing.T) {
	// Broken declaration followed by a valid one: the error is recorded
	// and the valid declaration still parses.
	mod, sink := parseSource(t, `module m
fn broken( { }
fn ok() -> i32 { return 0 }`)
	assert.True(t, sink.HasErrors())

	found := false
	for _, decl := range mod.Decls {
		if fn, ok := decl.(*FunctionDecl); ok && fn.Name == "ok" {
			found = true
		}
	}
	assert.True(t, found, "expected declaration after the broken one to parse")
}

func TestParser_StatementRecovery(t *testing.T) {
	mod, sink := parseSource(t, `module m
fn f() -> void {
    let = 5
    let x = 1
}`)
	assert.True(t, sink.HasErrors())
	fn := mod.Decls[0].(*FunctionDecl)

	found := false
	for _, stmt := range fn.Body.Statements {
		if v, ok := stmt.(*VarDeclStmt); ok && v.Name == "x" {
			found = true
		}
	}
	assert.True(t, found, "expected statement after the broken one to parse")
}

func TestParser_NonPanicOnGarbage(t *testing.T) {
	inputs := []string{
		"",
		"module",
		"module m fn",
		"module m \x00\x01",
		"module m struct {",
		"module m fn f() -> i32 { return (((((",
	}
	for _, input := range inputs {
		sink := diag.NewSink()
		mod := New(input, sink).ParseModule()
		assert.NotNil(t, mod, "input %q", input)
	}
}

func TestParser_AstPrinter(t *testing.T) {
	mod := parseClean(t, `module m
fn main() -> i32 { return 2 + 3 }`)
	printer := &AstPrinter{}
	printer.PrintModule(mod)
	out := printer.String()
	assert.Contains(t, out, "Module m")
	assert.Contains(t, out, "Function main -> i32")
	assert.Contains(t, out, "Binary +")
}
