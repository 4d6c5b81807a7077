/*
File    : mana/middle/forlowering.go
*/

// Package middle holds the middle-end passes that run between semantic
// analysis and emission: for-lowering, dead-code elimination, and a no-op
// inliner marker. Each pass rewrites the AST structurally in place.
package middle

import "github.com/mana-lang/mana/parser"

// LowerFors rewrites every three-part for loop in the module into the
// equivalent block form:
//
//	for (init; cond; step) body   =>   { init; while (cond) { body; step } }
//
// Nested lowerings run bottom-up, and running the pass twice yields the
// same AST as running it once (the rewrite leaves no ForStmt behind).
func LowerFors(mod *parser.Module) {
	for _, decl := range mod.Decls {
		switch d := decl.(type) {
		case *parser.FunctionDecl:
			lowerBlock(d.Body)
		case *parser.ImplDecl:
			for _, method := range d.Methods {
				lowerBlock(method.Body)
			}
		}
	}
}

// lowerBlock lowers every statement of a block in place.
func lowerBlock(block *parser.BlockStmt) {
	if block == nil {
		return
	}
	for i, stmt := range block.Statements {
		block.Statements[i] = lowerStmt(stmt)
	}
}

// lowerFor builds the block-and-while replacement for one for loop,
// lowering the body first so nested fors rewrite bottom-up.
func lowerFor(f *parser.ForStmt) parser.Stmt {
	outer := &parser.BlockStmt{Position: f.Position}

	if f.Init != nil {
		outer.Statements = append(outer.Statements, f.Init)
	}

	inner := &parser.BlockStmt{Position: f.Position}
	if f.Body != nil {
		if body, ok := f.Body.(*parser.BlockStmt); ok {
			lowerBlock(body)
			inner.Statements = append(inner.Statements, body.Statements...)
		} else {
			inner.Statements = append(inner.Statements, lowerStmt(f.Body))
		}
	}
	if f.Step != nil {
		inner.Statements = append(inner.Statements, lowerStmt(f.Step))
	}

	outer.Statements = append(outer.Statements, &parser.WhileStmt{
		Position:  f.Position,
		Condition: f.Condition,
		Body:      inner,
	})
	return outer
}

// lowerStmt lowers one statement, descending into nested bodies.
func lowerStmt(stmt parser.Stmt) parser.Stmt {
	switch s := stmt.(type) {
	case nil:
		return nil
	case *parser.ForStmt:
		return lowerFor(s)
	case *parser.BlockStmt:
		lowerBlock(s)
		return s
	case *parser.IfStmt:
		if s.Then != nil {
			s.Then = lowerStmt(s.Then)
		}
		if s.Else != nil {
			s.Else = lowerStmt(s.Else)
		}
		return s
	case *parser.WhileStmt:
		if s.Body != nil {
			s.Body = lowerStmt(s.Body)
		}
		return s
	case *parser.LoopStmt:
		if s.Body != nil {
			s.Body = lowerStmt(s.Body)
		}
		return s
	case *parser.ForInStmt:
		if s.Body != nil {
			s.Body = lowerStmt(s.Body)
		}
		return s
	case *parser.DeferStmt:
		if s.Body != nil {
			s.Body = lowerStmt(s.Body)
		}
		return s
	case *parser.ScopeStmt:
		if s.Body != nil {
			s.Body = lowerStmt(s.Body)
		}
		return s
	}
	return stmt
}
