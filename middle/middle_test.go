/*
File    : mana/middle/middle_test.go
*/
package middle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mana-lang/mana/diag"
	"github.com/mana-lang/mana/parser"
)

// parseModule is a test helper building a module from source.
func parseModule(t *testing.T, src string) *parser.Module {
	t.Helper()
	sink := diag.NewSink()
	mod := parser.New(src, sink).ParseModule()
	assert.False(t, sink.HasErrors(), "parse errors: %v", sink.Diagnostics)
	return mod
}

// dump renders a module for structural comparison.
func dump(mod *parser.Module) string {
	printer := &parser.AstPrinter{}
	printer.PrintModule(mod)
	return printer.String()
}

func TestForLowering_RewritesToWhile(t *testing.T) {
	mod := parseModule(t, `module m
fn main() -> i32 {
    for i: i32 = 0; i < 10; i++ {
        println(f"{i}")
    }
    return 0
}`)
	LowerFors(mod)

	fn := mod.Decls[0].(*parser.FunctionDecl)
	block, ok := fn.Body.Statements[0].(*parser.BlockStmt)
	assert.True(t, ok, "for should lower to a block, got %T", fn.Body.Statements[0])

	// { init; while (cond) { body...; step } }
	assert.Equal(t, 2, len(block.Statements))
	_, isInit := block.Statements[0].(*parser.VarDeclStmt)
	assert.True(t, isInit)

	while, isWhile := block.Statements[1].(*parser.WhileStmt)
	assert.True(t, isWhile)
	inner := while.Body.(*parser.BlockStmt)
	assert.Equal(t, 2, len(inner.Statements))
	_, isStep := inner.Statements[1].(*parser.AssignStmt)
	assert.True(t, isStep)
}

func TestForLowering_Nested(t *testing.T) {
	mod := parseModule(t, `module m
fn main() -> i32 {
    for i: i32 = 0; i < 3; i++ {
        for j: i32 = 0; j < 3; j++ {
            println(f"{i} {j}")
        }
    }
    return 0
}`)
	LowerFors(mod)

	// No ForStmt may survive anywhere in the tree
	var hasFor func(parser.Stmt) bool
	hasFor = func(stmt parser.Stmt) bool {
		switch s := stmt.(type) {
		case *parser.ForStmt:
			return true
		case *parser.BlockStmt:
			for _, inner := range s.Statements {
				if hasFor(inner) {
					return true
				}
			}
		case *parser.WhileStmt:
			return hasFor(s.Body)
		case *parser.IfStmt:
			return hasFor(s.Then) || (s.Else != nil && hasFor(s.Else))
		}
		return false
	}
	fn := mod.Decls[0].(*parser.FunctionDecl)
	assert.False(t, hasFor(fn.Body))
}

func TestForLowering_Idempotent(t *testing.T) {
	src := `module m
fn main() -> i32 {
    for i: i32 = 0; i < 10; i += 2 {
        if i > 5 {
            for j: i32 = 0; j < i; j++ { println(f"{j}") }
        }
    }
    return 0
}`
	mod := parseModule(t, src)
	LowerFors(mod)
	once := dump(mod)
	LowerFors(mod)
	twice := dump(mod)
	assert.Equal(t, once, twice)
}

func TestDeadCode_RemovesAfterReturn(t *testing.T) {
	mod := parseModule(t, `module m
fn main() -> i32 {
    return 0
    println("never")
    println("also never")
}`)
	EliminateDeadCode(mod)

	fn := mod.Decls[0].(*parser.FunctionDecl)
	assert.Equal(t, 1, len(fn.Body.Statements))
	_, isReturn := fn.Body.Statements[0].(*parser.ReturnStmt)
	assert.True(t, isReturn)
}

func TestDeadCode_RemovesAfterTerminatingIf(t *testing.T) {
	mod := parseModule(t, `module m
fn main() -> i32 {
    if true {
        return 1
    } else {
        return 2
    }
    println("never")
}`)
	EliminateDeadCode(mod)

	fn := mod.Decls[0].(*parser.FunctionDecl)
	assert.Equal(t, 1, len(fn.Body.Statements))
	_, isIf := fn.Body.Statements[0].(*parser.IfStmt)
	assert.True(t, isIf)
}

func TestDeadCode_KeepsReachable(t *testing.T) {
	mod := parseModule(t, `module m
fn main() -> i32 {
    if true {
        return 1
    }
    println("reachable")
    return 0
}`)
	EliminateDeadCode(mod)

	fn := mod.Decls[0].(*parser.FunctionDecl)
	assert.Equal(t, 3, len(fn.Body.Statements))
}

func TestDeadCode_NestedBlocks(t *testing.T) {
	mod := parseModule(t, `module m
fn main() -> i32 {
    while true {
        break
        println("never")
    }
    return 0
}`)
	EliminateDeadCode(mod)

	fn := mod.Decls[0].(*parser.FunctionDecl)
	while := fn.Body.Statements[0].(*parser.WhileStmt)
	body := while.Body.(*parser.BlockStmt)
	assert.Equal(t, 1, len(body.Statements))
}

func TestDeadCode_Idempotent(t *testing.T) {
	src := `module m
fn main() -> i32 {
    if true { return 1 } else { return 2 }
    println("never")
}`
	mod := parseModule(t, src)
	EliminateDeadCode(mod)
	once := dump(mod)
	EliminateDeadCode(mod)
	twice := dump(mod)
	assert.Equal(t, once, twice)
}

func TestInline_NoOp(t *testing.T) {
	src := `module m
fn main() -> i32 { return add(1, 2) }
fn add(a: i32, b: i32) -> i32 { return a + b }`
	mod := parseModule(t, src)
	before := dump(mod)
	Inline(mod)
	assert.Equal(t, before, dump(mod))
}
