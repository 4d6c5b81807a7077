/*
File    : mana/middle/deadcode.go
*/
package middle

import "github.com/mana-lang/mana/parser"

// isTerminator reports whether a statement unconditionally leaves the
// block: return, break or continue.
func isTerminator(stmt parser.Stmt) bool {
	switch stmt.(type) {
	case *parser.ReturnStmt, *parser.BreakStmt, *parser.ContinueStmt:
		return true
	}
	return false
}

// alwaysTerminates reports whether a statement always leaves its block:
// a terminator, a block containing one, or an if whose branches both
// terminate.
func alwaysTerminates(stmt parser.Stmt) bool {
	switch s := stmt.(type) {
	case nil:
		return false
	case *parser.BlockStmt:
		for _, inner := range s.Statements {
			if alwaysTerminates(inner) {
				return true
			}
		}
		return false
	case *parser.IfStmt:
		if s.Then == nil || s.Else == nil {
			return false
		}
		return alwaysTerminates(s.Then) && alwaysTerminates(s.Else)
	}
	return isTerminator(stmt)
}

// EliminateDeadCode removes unreachable statements inside every function
// body: everything after a statement that always terminates in the same
// block, and everything after an if whose branches both terminate.
// Running the pass twice yields the same AST as running it once.
func EliminateDeadCode(mod *parser.Module) {
	for _, decl := range mod.Decls {
		switch d := decl.(type) {
		case *parser.FunctionDecl:
			eliminateInBlock(d.Body)
		case *parser.ImplDecl:
			for _, method := range d.Methods {
				eliminateInBlock(method.Body)
			}
		}
	}
}

// eliminateInBlock truncates a block at its first always-terminating
// statement, descending into nested bodies first.
func eliminateInBlock(block *parser.BlockStmt) {
	if block == nil {
		return
	}

	kept := block.Statements[:0]
	terminated := false
	for _, stmt := range block.Statements {
		if terminated {
			continue
		}

		switch s := stmt.(type) {
		case *parser.BlockStmt:
			eliminateInBlock(s)
		case *parser.IfStmt:
			if then, ok := s.Then.(*parser.BlockStmt); ok {
				eliminateInBlock(then)
			}
			if elseBlock, ok := s.Else.(*parser.BlockStmt); ok {
				eliminateInBlock(elseBlock)
			}
		case *parser.WhileStmt:
			if body, ok := s.Body.(*parser.BlockStmt); ok {
				eliminateInBlock(body)
			}
		case *parser.LoopStmt:
			if body, ok := s.Body.(*parser.BlockStmt); ok {
				eliminateInBlock(body)
			}
		case *parser.ForInStmt:
			if body, ok := s.Body.(*parser.BlockStmt); ok {
				eliminateInBlock(body)
			}
		case *parser.DeferStmt:
			if body, ok := s.Body.(*parser.BlockStmt); ok {
				eliminateInBlock(body)
			}
		}

		kept = append(kept, stmt)
		if alwaysTerminates(stmt) {
			terminated = true
		}
	}
	block.Statements = kept
}
