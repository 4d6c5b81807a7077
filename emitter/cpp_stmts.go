/*
File    : mana/emitter/cpp_stmts.go
*/
package emitter

import "github.com/mana-lang/mana/parser"

// patternMethods maps an if-let/while-let pattern kind to the runtime
// check and unwrap calls.
func patternMethods(kind string) (check string, unwrap string) {
	switch kind {
	case "Some", "some":
		return "is_some()", "unwrap()"
	case "None", "none":
		return "is_none()", ""
	case "Ok", "ok":
		return "is_ok()", "unwrap()"
	case "Err", "err":
		return "is_err()", "unwrap_err()"
	}
	return "is_some()", "unwrap()"
}

// extractTryExprs is the statement-level pre-pass for the ? operator: each
// try sub-expression hoists into a preceding statement
//
//	auto __try_N = expr;
//	if (__try_N.__is_err()) return mana::Err(__try_N.__unwrap_err());
//
// so the enclosing function propagates. The extractor descends binary,
// unary, call, method, index and cast nodes; the hoisted node later emits
// as __try_N.__unwrap_ok().
func (em *Emitter) extractTryExprs(expr parser.Expr, ind int) {
	switch e := expr.(type) {
	case nil:
		return
	case *parser.TryExpr:
		id := em.tryCounter
		em.tryCounter++
		em.tryExprIDs[e] = id
		em.indent(ind)
		em.printf("auto __try_%d = ", id)
		em.emitExpr(e.Operand)
		em.write(";\n")
		em.indent(ind)
		em.printf("if (__try_%d.__is_err()) return mana::Err(__try_%d.__unwrap_err());\n", id, id)
	case *parser.BinaryExpr:
		em.extractTryExprs(e.Left, ind)
		em.extractTryExprs(e.Right, ind)
	case *parser.UnaryExpr:
		em.extractTryExprs(e.Right, ind)
	case *parser.CallExpr:
		for _, arg := range e.Args {
			em.extractTryExprs(arg, ind)
		}
	case *parser.MethodCallExpr:
		em.extractTryExprs(e.Object, ind)
		for _, arg := range e.Args {
			em.extractTryExprs(arg, ind)
		}
	case *parser.IndexExpr:
		em.extractTryExprs(e.Base, ind)
		em.extractTryExprs(e.Index, ind)
	case *parser.CastExpr:
		em.extractTryExprs(e.Operand, ind)
	}
}

// emitStmt emits one statement at the given indent level.
func (em *Emitter) emitStmt(stmt parser.Stmt, ind int) {
	switch s := stmt.(type) {
	case nil:
		return

	case *parser.BlockStmt:
		em.write("{\n")
		for _, inner := range s.Statements {
			em.emitStmt(inner, ind+1)
		}
		em.indent(ind)
		em.write("}")

	case *parser.VarDeclStmt:
		if s.Init != nil {
			em.extractTryExprs(s.Init, ind)
		}
		em.indent(ind)
		if s.TypeName != "" {
			em.write(MapType(s.TypeName) + " ")
		} else {
			em.write("auto ")
		}
		em.write(s.Name)
		if s.Init != nil {
			em.write(" = ")
			em.emitExpr(s.Init)
		}
		em.write(";\n")

	case *parser.DestructureStmt:
		id := em.destructureCounter
		em.destructureCounter++
		em.indent(ind)
		em.printf("auto __ds_%d = ", id)
		em.emitExpr(s.Init)
		em.write(";\n")
		for i := range s.Bindings {
			em.indent(ind)
			em.printf("auto %s = ", s.Bindings[i].Name)
			switch {
			case s.IsTuple:
				em.printf("std::get<%d>(__ds_%d)", i, id)
			case s.IsStruct:
				em.printf("__ds_%d.%s", id, s.Bindings[i].FieldName)
			default:
				em.printf("__ds_%d[%d]", id, i)
			}
			em.write(";\n")
		}

	case *parser.AssignStmt:
		em.extractTryExprs(s.Value, ind)
		em.indent(ind)
		if s.IsComplexTarget() {
			em.emitExpr(s.TargetExpr)
		} else {
			em.write(s.TargetName)
		}
		em.write(" " + s.Op + " ")
		em.emitExpr(s.Value)
		em.write(";\n")

	case *parser.IfStmt:
		em.indent(ind)
		if s.IsIfLet {
			check, unwrap := patternMethods(s.PatternKind)
			em.write("if (")
			em.emitExpr(s.PatternExpr)
			em.write("." + check + ") {\n")
			if s.PatternVar != "" && unwrap != "" {
				em.indent(ind + 1)
				em.printf("auto %s = ", s.PatternVar)
				em.emitExpr(s.PatternExpr)
				em.write("." + unwrap + ";\n")
			}
			if block, ok := s.Then.(*parser.BlockStmt); ok {
				for _, inner := range block.Statements {
					em.emitStmt(inner, ind+1)
				}
			}
			em.indent(ind)
			em.write("}")
		} else {
			em.write("if (")
			em.emitExpr(s.Condition)
			em.write(") ")
			em.emitStmt(s.Then, ind)
		}
		if s.Else != nil {
			em.write(" else ")
			switch s.Else.(type) {
			case *parser.IfStmt:
				// else-if chains re-enter emitStmt, which indents itself
				em.write("\n")
				em.emitStmt(s.Else, ind)
				return
			default:
				em.emitStmt(s.Else, ind)
			}
		}
		em.write("\n")

	case *parser.WhileStmt:
		em.indent(ind)
		if s.IsWhileLet {
			id := em.whileLetCounter
			em.whileLetCounter++
			check, unwrap := patternMethods(s.PatternKind)
			em.write("while (true) {\n")
			em.indent(ind + 1)
			em.printf("auto __wl_%d = ", id)
			em.emitExpr(s.PatternExpr)
			em.write(";\n")
			em.indent(ind + 1)
			em.printf("if (!__wl_%d.%s) break;\n", id, check)
			if s.PatternVar != "" && unwrap != "" {
				em.indent(ind + 1)
				em.printf("auto %s = __wl_%d.%s;\n", s.PatternVar, id, unwrap)
			}
			if block, ok := s.Body.(*parser.BlockStmt); ok {
				for _, inner := range block.Statements {
					em.emitStmt(inner, ind+1)
				}
			}
			em.indent(ind)
			em.write("}\n")
		} else {
			em.write("while (")
			em.emitExpr(s.Condition)
			em.write(") ")
			em.emitStmt(s.Body, ind)
			em.write("\n")
		}

	case *parser.ForInStmt:
		em.indent(ind)
		if rangeExpr, ok := s.Iterable.(*parser.RangeExpr); ok {
			em.printf("for (int64_t %s = ", s.VarName)
			em.emitExpr(rangeExpr.Start)
			em.printf("; %s ", s.VarName)
			if rangeExpr.Inclusive {
				em.write("<= ")
			} else {
				em.write("< ")
			}
			em.emitExpr(rangeExpr.End)
			em.printf("; ++%s) ", s.VarName)
		} else if s.IsDestructure {
			em.write("for (auto& [")
			for i, name := range s.VarNames {
				if i > 0 {
					em.write(", ")
				}
				em.write(name)
			}
			em.write("] : ")
			em.emitExpr(s.Iterable)
			em.write(") ")
		} else {
			em.printf("for (auto %s : ", s.VarName)
			em.emitExpr(s.Iterable)
			em.write(") ")
		}
		em.emitStmt(s.Body, ind)
		em.write("\n")

	case *parser.ForStmt:
		// For loops normally lower in the middle-end; emit the direct
		// C++ form when one survives
		em.indent(ind)
		em.write("for (")
		if varDecl, ok := s.Init.(*parser.VarDeclStmt); ok {
			if varDecl.TypeName != "" {
				em.write(MapType(varDecl.TypeName) + " ")
			} else {
				em.write("auto ")
			}
			em.write(varDecl.Name)
			if varDecl.Init != nil {
				em.write(" = ")
				em.emitExpr(varDecl.Init)
			}
		}
		em.write("; ")
		em.emitExpr(s.Condition)
		em.write("; ")
		if assign, ok := s.Step.(*parser.AssignStmt); ok {
			if assign.IsComplexTarget() {
				em.emitExpr(assign.TargetExpr)
			} else {
				em.write(assign.TargetName)
			}
			em.write(" " + assign.Op + " ")
			em.emitExpr(assign.Value)
		}
		em.write(") ")
		em.emitStmt(s.Body, ind)
		em.write("\n")

	case *parser.LoopStmt:
		em.indent(ind)
		em.write("while (true) ")
		em.emitStmt(s.Body, ind)
		em.write("\n")

	case *parser.BreakStmt:
		em.indent(ind)
		if s.Value != nil {
			em.write("__loop_result = ")
			em.emitExpr(s.Value)
			em.write("; ")
		}
		em.write("break;\n")

	case *parser.ContinueStmt:
		em.indent(ind)
		em.write("continue;\n")

	case *parser.ReturnStmt:
		if s.Value != nil {
			em.extractTryExprs(s.Value, ind)
		}
		em.indent(ind)
		em.write("return")
		if s.Value != nil {
			em.write(" ")
			em.emitExpr(s.Value)
		}
		em.write(";\n")

	case *parser.DeferStmt:
		// defer lowers to a scope guard running the block on any exit
		// from the enclosing scope
		id := em.deferCounter
		em.deferCounter++
		em.indent(ind)
		em.printf("mana::ScopeGuard __defer_%d([&]() {\n", id)
		if block, ok := s.Body.(*parser.BlockStmt); ok {
			for _, inner := range block.Statements {
				em.emitStmt(inner, ind+1)
			}
		}
		em.indent(ind)
		em.write("});\n")

	case *parser.ScopeStmt:
		em.indent(ind)
		em.write("{\n")
		if block, ok := s.Body.(*parser.BlockStmt); ok {
			for _, inner := range block.Statements {
				em.emitStmt(inner, ind+1)
			}
		}
		em.indent(ind)
		em.write("}\n")

	case *parser.ExprStmt:
		em.extractTryExprs(s.Expr, ind)
		em.indent(ind)
		if call, ok := s.Expr.(*parser.CallExpr); ok && len(call.Args) > 1 &&
			(call.FuncName == "print" || call.FuncName == "println") {
			// Variadic print forms stream each argument in turn
			em.write("([&]{ ")
			for _, arg := range call.Args {
				em.write("std::cout << ")
				em.emitExpr(arg)
				em.write("; ")
			}
			if call.FuncName == "println" {
				em.write("std::cout << std::endl; ")
			}
			em.write("}());\n")
			return
		}
		em.emitExpr(s.Expr)
		em.write(";\n")
	}
}
