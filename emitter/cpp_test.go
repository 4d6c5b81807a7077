/*
File    : mana/emitter/cpp_test.go
*/
package emitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mana-lang/mana/diag"
	"github.com/mana-lang/mana/middle"
	"github.com/mana-lang/mana/parser"
	"github.com/mana-lang/mana/semantic"
)

// compile runs the full front and middle end, then emits. Parse and
// semantic errors fail the test.
func compile(t *testing.T, src string) string {
	t.Helper()
	sink := diag.NewSink()
	mod := parser.New(src, sink).ParseModule()
	semantic.NewAnalyzer(sink).Analyze(mod)
	assert.False(t, sink.HasErrors(), "diagnostics: %v", sink.Diagnostics)
	middle.LowerFors(mod)
	middle.EliminateDeadCode(mod)
	middle.Inline(mod)
	return NewEmitter().Emit(mod, false)
}

func TestEmitter_HelloWorld(t *testing.T) {
	out := compile(t, `module m
fn main() -> i32 {
    println("hi")
    return 0
}`)
	assert.Contains(t, out, `#include "mana_runtime.h"`)
	assert.Contains(t, out, "int32_t main(")
	assert.Contains(t, out, `mana::println(std::string("hi"))`)
	assert.Contains(t, out, "return 0;")
}

func TestEmitter_ForwardReference(t *testing.T) {
	out := compile(t, `module m
fn main() -> i32 { return f() }
fn f() -> i32 { return 7 }`)
	// The forward declaration precedes both definitions
	fwd := strings.Index(out, "int32_t f();")
	def := strings.Index(out, "int32_t f() {")
	assert.True(t, fwd >= 0, "missing forward declaration")
	assert.True(t, def > fwd)
}

func TestEmitter_Replay(t *testing.T) {
	src := `module m
variant E { A(i32), B }
fn main() -> i32 {
    let e: E = E::A(5)
    let r = match e { E::A(n) => n, E::B => 0, }
    let t = (parse_int("3")? , 1)
    return r
}`
	sink := diag.NewSink()
	mod := parser.New(src, sink).ParseModule()
	semantic.NewAnalyzer(sink).Analyze(mod)
	middle.LowerFors(mod)

	first := NewEmitter().Emit(mod, false)
	second := NewEmitter().Emit(mod, false)
	assert.Equal(t, first, second)
}

func TestEmitter_UnitEnum(t *testing.T) {
	out := compile(t, `module m
enum Color { Red, Green = 5, Blue }
fn main() -> i32 {
    let c = Color::Green
    return 0
}`)
	assert.Contains(t, out, "enum class Color {")
	assert.Contains(t, out, "Green = 5")
	assert.NotContains(t, out, "ColorTag")
}

func TestEmitter_AdtEnumTaggedUnion(t *testing.T) {
	out := compile(t, `module m
variant Shape {
    Circle(f64),
    Rect { w: f64, h: f64 },
    Empty,
}
fn main() -> i32 { return 0 }`)
	assert.Contains(t, out, "struct Shape_Circle {")
	assert.Contains(t, out, "double _0;")
	assert.Contains(t, out, "struct Shape_Rect {")
	assert.Contains(t, out, "enum class ShapeTag {")
	assert.Contains(t, out, "ShapeTag tag;")
	assert.Contains(t, out, "std::variant<std::monostate, Shape_Circle, Shape_Rect> data;")
	assert.Contains(t, out, "static Shape Circle(double v0)")
	assert.Contains(t, out, "static Shape Empty()")
}

func TestEmitter_MatchLowering(t *testing.T) {
	out := compile(t, `module m
variant E { A(i32), B }
fn main() -> i32 {
    let e: E = E::A(5)
    return match e {
        E::A(n) => n,
        E::B => 0,
    }
}`)
	// Immediately-invoked lambda with tag comparison and payload binding
	assert.Contains(t, out, "[&]() {")
	assert.Contains(t, out, "__match_value_0.tag == ETag::A")
	assert.Contains(t, out, "std::get<E_A>(__match_value_0.data)")
	assert.Contains(t, out, "auto n = __data_0._0;")
	assert.Contains(t, out, `throw std::runtime_error("non-exhaustive match")`)
	// The constructor call for the initializer
	assert.Contains(t, out, "E::A(5)")
}

func TestEmitter_MatchWildcardNoThrow(t *testing.T) {
	out := compile(t, `module m
fn main() -> i32 {
    let x = 2
    return match x { 1 => 10, _ => 0, }
}`)
	assert.NotContains(t, out, "non-exhaustive match")
}

func TestEmitter_ConstantFoldingSurvives(t *testing.T) {
	out := compile(t, `module m
fn main() -> i32 {
    let x: i32 = 2 + 3 * 4
    return x
}`)
	assert.Contains(t, out, "int32_t x = 14;")
	assert.NotContains(t, out, "2 + 3 * 4")
}

func TestEmitter_TryStatementExtraction(t *testing.T) {
	out := compile(t, `module m
fn parse(s: string) -> Result<i64, string> {
    let n = parse_int(s)?
    return Ok(n)
}
fn main() -> i32 { return 0 }`)
	assert.Contains(t, out, "auto __try_0 = mana::parse_int(s);")
	assert.Contains(t, out, "if (__try_0.__is_err()) return mana::Err(__try_0.__unwrap_err());")
	assert.Contains(t, out, "auto n = __try_0.__unwrap_ok();")
}

func TestEmitter_NullCoalesceSingleAccessor(t *testing.T) {
	out := compile(t, `module m
fn main() -> i32 {
    let v = parse_int("4") ?? 0
    println(f"{v}")
    return 0
}`)
	assert.Contains(t, out, "mana::opt_or(mana::parse_int(")
	assert.NotContains(t, out, "is_some() ? ")
}

func TestEmitter_DeferScopeGuard(t *testing.T) {
	out := compile(t, `module m
fn main() -> i32 {
    defer { println("bye") }
    println("hi")
    return 0
}`)
	assert.Contains(t, out, "mana::ScopeGuard __defer_0([&]() {")
	assert.Contains(t, out, `mana::println(std::string("bye"))`)
}

func TestEmitter_MethodMangling(t *testing.T) {
	out := compile(t, `module m
struct Point { x: f64, y: f64 }
impl Point {
    fn norm(self) -> f64 { return self.x }
    static fn origin() -> Point { return Point{0.0, 0.0} }
}
fn main() -> i32 {
    let p = Point{1.0, 2.0}
    let n = p.norm()
    let o = Point::origin()
    println(f"{n} {o.x}")
    return 0
}`)
	assert.Contains(t, out, "double Point_norm(Point& self)")
	assert.Contains(t, out, "Point_norm(p)")
	assert.Contains(t, out, "Point Point_origin()")
	assert.Contains(t, out, "Point_origin()")
	assert.NotContains(t, out, "Point_origin(Point& self")
}

func TestEmitter_TraitLowering(t *testing.T) {
	out := compile(t, `module m
trait Shape {
    fn area(self) -> f64;
    fn describe(self) -> string { return "shape" }
}
struct Circle { r: f64 }
impl Shape for Circle {
    fn area(self) -> f64 { return self.r * self.r }
    fn describe(self) -> string { return "circle" }
}
fn main() -> i32 { return 0 }`)
	assert.Contains(t, out, "class IShape {")
	assert.Contains(t, out, "virtual double area() = 0;")
	assert.Contains(t, out, "virtual std::string describe();")
	assert.Contains(t, out, "class Circle_Shape_Impl : public IShape {")
	assert.Contains(t, out, "Circle& inner_;")
	assert.Contains(t, out, "return Circle_area(inner_);")
	assert.Contains(t, out, "std::unique_ptr<IShape> make_Shape(Circle& obj)")
}

func TestEmitter_ClosureCaptures(t *testing.T) {
	out := compile(t, `module m
fn main() -> i32 {
    let a = 1
    let b = 2
    let c = 3
    let f = [a, &b, move c]|x: i32| x + a + b + c
    let g = move |x: i32| x
    let h = |x: i32| x
    return 0
}`)
	assert.Contains(t, out, "[a, &b, c = std::move(c)](int32_t x) mutable")
	assert.Contains(t, out, "[=](int32_t x)")
	assert.Contains(t, out, "[&](int32_t x)")
}

func TestEmitter_AsyncAwait(t *testing.T) {
	out := compile(t, `module m
async fn work() -> i32 { return 42 }
fn main() -> i32 {
    let task = work()
    return task.await
}`)
	assert.Contains(t, out, "std::future<int32_t> work(")
	assert.Contains(t, out, "std::async(std::launch::async")
	assert.Contains(t, out, "task.get()")
}

func TestEmitter_ForInRange(t *testing.T) {
	out := compile(t, `module m
fn main() -> i32 {
    for i in 0..10 { println(f"{i}") }
    return 0
}`)
	assert.Contains(t, out, "for (int64_t i = 0; i < 10; ++i)")
}

func TestEmitter_StringMethodDispatch(t *testing.T) {
	out := compile(t, `module m
fn main() -> i32 {
    let s = "hello world"
    let up = s.to_uppercase()
    println(up)
    return 0
}`)
	assert.Contains(t, out, "mana::to_uppercase(s)")
}

func TestEmitter_FStringFormatSpec(t *testing.T) {
	out := compile(t, `module m
fn main() -> i32 {
    let pi = 3.14159
    println(f"pi = {pi:.2f}")
    return 0
}`)
	assert.Contains(t, out, "mana::format_spec(pi, std::string(\".2f\"))")
	assert.Contains(t, out, `std::string("pi = ")`)
}

func TestEmitter_PowerOperator(t *testing.T) {
	out := compile(t, `module m
fn main() -> i32 {
    let x = 2.0
    let y = x ** 3.0
    println(f"{y}")
    return 0
}`)
	assert.Contains(t, out, "std::pow(x, 3")
}

func TestEmitter_TestRunnerMode(t *testing.T) {
	src := `module m
#[test]
fn check_math() -> void {
    assert_eq(2 + 2, 4)
}
fn main() -> i32 { return 0 }`
	sink := diag.NewSink()
	mod := parser.New(src, sink).ParseModule()
	semantic.NewAnalyzer(sink).Analyze(mod)
	out := NewEmitter().Emit(mod, true)

	assert.Contains(t, out, "check_math();")
	assert.Contains(t, out, "running 1 test(s)")
	// The user main is replaced by the runner harness
	assert.Equal(t, 1, strings.Count(out, "int main()"))
	assert.NotContains(t, out, "int32_t main(")
}

func TestEmitter_GenericFunctionTemplate(t *testing.T) {
	out := compile(t, `module m
fn identity<T>(x: T) -> T { return x }
fn main() -> i32 { return identity(5) }`)
	assert.Contains(t, out, "template<typename T>")
	assert.Contains(t, out, "T identity(T x)")
}

func TestEmitter_RuntimeHeaderFixed(t *testing.T) {
	// The runtime ships the pieces emission relies on
	assert.Contains(t, RuntimeHeader, "class Option")
	assert.Contains(t, RuntimeHeader, "class Result")
	assert.Contains(t, RuntimeHeader, "class Vec")
	assert.Contains(t, RuntimeHeader, "class HashMap")
	assert.Contains(t, RuntimeHeader, "class ScopeGuard")
	assert.Contains(t, RuntimeHeader, "opt_or")
	assert.Contains(t, RuntimeHeader, "slice_inclusive")
	assert.Contains(t, RuntimeHeader, "fill_array")
}
