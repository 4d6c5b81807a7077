/*
File    : mana/semantic/controlflow.go
*/
package semantic

import "github.com/mana-lang/mana/parser"

// AlwaysReturns is the structural analysis behind the return-coverage
// check of non-void functions; Diverges below extends it for `or` fallback
// blocks. It is conservative: loops and matches count as not returning.
func AlwaysReturns(stmt parser.Stmt) bool {
	switch s := stmt.(type) {
	case nil:
		return false
	case *parser.ReturnStmt:
		return true
	case *parser.BlockStmt:
		for _, inner := range s.Statements {
			if AlwaysReturns(inner) {
				return true
			}
		}
		return false
	case *parser.IfStmt:
		// Both branches must return; a missing else might fall through
		if s.Else == nil {
			return false
		}
		return AlwaysReturns(s.Then) && AlwaysReturns(s.Else)
	}
	return false
}

// Diverges is AlwaysReturns extended with break and continue; it decides
// whether an `or` fallback can fall through.
func Diverges(stmt parser.Stmt) bool {
	switch s := stmt.(type) {
	case nil:
		return false
	case *parser.ReturnStmt, *parser.BreakStmt, *parser.ContinueStmt:
		return true
	case *parser.BlockStmt:
		for _, inner := range s.Statements {
			if Diverges(inner) {
				return true
			}
		}
		return false
	case *parser.IfStmt:
		if s.Else == nil {
			return false
		}
		return Diverges(s.Then) && Diverges(s.Else)
	case *parser.ExprStmt:
		// A trailing panic-style call diverges
		if call, ok := s.Expr.(*parser.CallExpr); ok {
			return call.FuncName == "panic"
		}
	}
	return false
}
