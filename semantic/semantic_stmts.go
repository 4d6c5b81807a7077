/*
File    : mana/semantic/semantic_stmts.go
*/
package semantic

import (
	"strconv"
	"strings"

	"github.com/mana-lang/mana/parser"
	"github.com/mana-lang/mana/scope"
	"github.com/mana-lang/mana/types"
)

// visitStmt type-checks one statement.
func (an *Analyzer) visitStmt(stmt parser.Stmt) {
	switch s := stmt.(type) {
	case *parser.BlockStmt:
		an.Scopes.Push()
		hasTerminator := false
		terminatorLine := 0
		for _, inner := range s.Statements {
			if hasTerminator {
				// One unreachable-code warning per block, then stop descending
				line, column := inner.Pos()
				an.Diag.Warning("unreachable code after line "+strconv.Itoa(terminatorLine), line, column)
				break
			}
			an.visitStmt(inner)
			switch inner.(type) {
			case *parser.ReturnStmt, *parser.BreakStmt, *parser.ContinueStmt:
				hasTerminator = true
				terminatorLine, _ = inner.Pos()
			}
		}
		an.Scopes.Pop()

	case *parser.VarDeclStmt:
		t := an.parseTypeName(s.TypeName)
		if s.Init != nil {
			rhs := an.visitExpr(s.Init)
			if s.TypeName == "auto" || s.TypeName == "" {
				// Inference: adopt the initializer's type and store the
				// spelling back into the AST for emission
				t = rhs
				s.TypeName = an.inferTypeName(rhs)
			} else if !t.Equals(rhs) && !rhs.IsUnknown() && !t.IsUnknown() {
				an.Diag.Error("type mismatch in variable initialization: expected "+
					t.Name()+", got "+rhs.Name(), s.Line, s.Column)
			}
		}
		if !an.Scopes.Top.Declare(&scope.Symbol{
			Name:    s.Name,
			Type:    t,
			Mutable: s.Mutable,
			Line:    s.Line,
			Column:  s.Column,
		}) {
			an.Diag.Error("redeclaration of '"+s.Name+"' in the same scope", s.Line, s.Column)
		}
		an.trackVariable(s.Name, s.Line, s.Column)

	case *parser.AssignStmt:
		var targetType types.Type
		if s.IsComplexTarget() {
			targetType = an.visitExpr(s.TargetExpr)
		} else {
			sym, ok := an.Scopes.Top.LookUp(s.TargetName)
			if !ok {
				message := "assignment to undeclared variable '" + s.TargetName + "'"
				suggestion := an.findSimilarName(s.TargetName)
				if suggestion != "" {
					an.Diag.ErrorWithSuggestion(message, suggestion, s.Line, s.Column)
				} else {
					an.Diag.Error(message, s.Line, s.Column)
				}
				return
			}
			if !sym.Mutable {
				an.Diag.Error("cannot assign to immutable variable '"+s.TargetName+"'", s.Line, s.Column)
				return
			}
			targetType = sym.Type
		}
		rhs := an.visitExpr(s.Value)
		if !rhs.Equals(targetType) && !rhs.IsUnknown() && !targetType.IsUnknown() {
			an.Diag.Error("type mismatch in assignment: expected "+targetType.Name()+
				", got "+rhs.Name(), s.Line, s.Column)
		}

	case *parser.IfStmt:
		if s.IsIfLet {
			exprType := an.visitExpr(s.PatternExpr)
			inner := an.patternInnerType(s.PatternKind, exprType)
			an.Scopes.Push()
			if s.PatternVar != "" {
				an.Scopes.Top.Declare(&scope.Symbol{Name: s.PatternVar, Type: inner})
			}
			an.visitStmt(s.Then)
			an.Scopes.Pop()
		} else {
			cond := an.visitExpr(s.Condition)
			if cond.Kind != types.Bool && !cond.IsUnknown() {
				an.Diag.Error("if condition must be bool, got "+cond.Name(), s.Line, s.Column)
			}
			an.visitStmt(s.Then)
		}
		if s.Else != nil {
			an.visitStmt(s.Else)
		}

	case *parser.WhileStmt:
		an.loopDepth++
		if s.IsWhileLet {
			exprType := an.visitExpr(s.PatternExpr)
			inner := an.patternInnerType(s.PatternKind, exprType)
			an.Scopes.Push()
			if s.PatternVar != "" {
				an.Scopes.Top.Declare(&scope.Symbol{Name: s.PatternVar, Type: inner})
			}
			an.visitStmt(s.Body)
			an.Scopes.Pop()
		} else {
			cond := an.visitExpr(s.Condition)
			if cond.Kind != types.Bool && !cond.IsUnknown() {
				an.Diag.Error("while condition must be bool, got "+cond.Name(), s.Line, s.Column)
			}
			an.visitStmt(s.Body)
		}
		an.loopDepth--

	case *parser.ForStmt:
		an.Scopes.Push()
		if s.Init != nil {
			an.visitStmt(s.Init)
		}
		cond := an.visitExpr(s.Condition)
		if cond.Kind != types.Bool && !cond.IsUnknown() {
			an.Diag.Error("for condition must be bool, got "+cond.Name(), s.Line, s.Column)
		}
		if s.Step != nil {
			an.visitStmt(s.Step)
		}
		an.loopDepth++
		an.visitStmt(s.Body)
		an.loopDepth--
		an.Scopes.Pop()

	case *parser.ForInStmt:
		iterType := types.UnknownType()
		if s.Iterable != nil {
			iterType = an.visitExpr(s.Iterable)
		}
		an.Scopes.Push()
		elemType := an.iterableElementType(iterType)
		if s.IsDestructure {
			for _, name := range s.VarNames {
				an.Scopes.Top.Declare(&scope.Symbol{Name: name, Type: types.UnknownType(), Mutable: true})
			}
		} else {
			an.Scopes.Top.Declare(&scope.Symbol{Name: s.VarName, Type: elemType, Mutable: true})
		}
		an.loopDepth++
		an.visitStmt(s.Body)
		an.loopDepth--
		an.Scopes.Pop()

	case *parser.LoopStmt:
		an.loopDepth++
		an.visitStmt(s.Body)
		an.loopDepth--

	case *parser.BreakStmt:
		if an.loopDepth == 0 {
			an.Diag.Error("break outside loop", s.Line, s.Column)
		}
		if s.Value != nil {
			an.visitExpr(s.Value)
		}

	case *parser.ContinueStmt:
		if an.loopDepth == 0 {
			an.Diag.Error("continue outside loop", s.Line, s.Column)
		}

	case *parser.ReturnStmt:
		if s.Value != nil {
			v := an.visitExpr(s.Value)
			if !v.Equals(an.currentReturn) && !v.IsUnknown() && !an.currentReturn.IsUnknown() {
				an.Diag.Error("return type mismatch: expected "+an.currentReturn.Name()+
					", got "+v.Name(), s.Line, s.Column)
			}
		}

	case *parser.DeferStmt:
		an.visitStmt(s.Body)

	case *parser.ScopeStmt:
		an.visitStmt(s.Body)

	case *parser.ExprStmt:
		an.visitExpr(s.Expr)

	case *parser.DestructureStmt:
		an.visitDestructure(s)
	}
}

// visitDestructure binds the names of a tuple/struct/array destructuring,
// typing each binding from the initializer when possible.
func (an *Analyzer) visitDestructure(s *parser.DestructureStmt) {
	initType := types.UnknownType()
	if s.Init != nil {
		initType = an.visitExpr(s.Init)
	}

	baseType := initType
	if s.TypeName != "auto" {
		baseType = an.parseTypeName(s.TypeName)
	}

	var tupleElems []string
	if s.IsTuple && baseType.Kind == types.Tuple {
		tupleElems = splitTypeList(strings.TrimSuffix(strings.TrimPrefix(baseType.StructName, "("), ")"))
	}

	for i := range s.Bindings {
		binding := &s.Bindings[i]
		bindingType := types.UnknownType()

		switch {
		case s.IsTuple:
			if i < len(tupleElems) {
				bindingType = an.parseTypeName(tupleElems[i])
			}
		case s.IsStruct:
			if structDecl, ok := an.Structs[s.TypeName]; ok {
				for _, field := range structDecl.Fields {
					if field.Name == binding.FieldName {
						bindingType = an.parseTypeName(field.TypeName)
						break
					}
				}
			}
		default:
			if baseType.Kind == types.Array {
				bindingType = an.parseTypeName(baseType.ElementType)
			}
		}

		an.Scopes.Top.Declare(&scope.Symbol{
			Name:    binding.Name,
			Type:    bindingType,
			Mutable: true,
			Line:    binding.Line,
			Column:  binding.Column,
		})
		an.trackVariable(binding.Name, binding.Line, binding.Column)
	}
}

// patternInnerType extracts the type an if-let/while-let pattern binds:
// Some pulls T from Option<T>, Ok pulls T and Err pulls E from
// Result<T, E>. None binds nothing.
func (an *Analyzer) patternInnerType(kind string, exprType types.Type) types.Type {
	name := exprType.StructName
	switch normalizePatternKind(kind) {
	case "Some":
		if inner, ok := genericInner(name, "Option"); ok {
			return an.parseTypeName(inner)
		}
	case "Ok":
		if inner, ok := genericInner(name, "Result"); ok {
			parts := splitTypeList(inner)
			if len(parts) >= 1 {
				return an.parseTypeName(parts[0])
			}
		}
	case "Err":
		if inner, ok := genericInner(name, "Result"); ok {
			parts := splitTypeList(inner)
			if len(parts) >= 2 {
				return an.parseTypeName(parts[1])
			}
		}
	}
	return types.UnknownType()
}

// normalizePatternKind folds the lowercase constructor spellings onto the
// capitalized ones using the parser's fixed synonym table.
func normalizePatternKind(kind string) string {
	switch kind {
	case "some":
		return "Some"
	case "ok":
		return "Ok"
	case "err":
		return "Err"
	case "none":
		return "None"
	}
	return kind
}

// genericInner returns the argument text of base<...>, e.g.
// genericInner("Result<i32, string>", "Result") -> "i32, string".
func genericInner(name, base string) (string, bool) {
	prefix := base + "<"
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ">") {
		return "", false
	}
	return name[len(prefix) : len(name)-1], true
}

// splitTypeList splits "T1, T2, T3" at top-level commas, respecting angle
// brackets and parentheses in nested generics.
func splitTypeList(inner string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i <= len(inner); i++ {
		var ch byte = ','
		if i < len(inner) {
			ch = inner[i]
		}
		switch ch {
		case '(', '<', '[':
			depth++
		case ')', '>', ']':
			depth--
		case ',':
			if depth == 0 {
				part := strings.TrimSpace(inner[start:i])
				if part != "" {
					parts = append(parts, part)
				}
				start = i + 1
			}
		}
	}
	return parts
}

// iterableElementType guesses the element type of a for-in iterable:
// arrays and Vec<T> yield their element, ranges yield integers, an
// iterable of unknown type yields i64, and anything else is unknown.
func (an *Analyzer) iterableElementType(iterType types.Type) types.Type {
	switch iterType.Kind {
	case types.Array:
		return an.parseTypeName(iterType.ElementType)
	case types.Int:
		return iterType
	}
	if inner, ok := genericInner(iterType.StructName, "Vec"); ok {
		return an.parseTypeName(inner)
	}
	if iterType.IsUnknown() {
		return types.MakeInt("i64")
	}
	return types.UnknownType()
}
