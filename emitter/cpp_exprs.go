/*
File    : mana/emitter/cpp_exprs.go
*/
package emitter

import (
	"strings"

	"github.com/mana-lang/mana/parser"
)

// emitExpr emits one expression.
func (em *Emitter) emitExpr(expr parser.Expr) {
	switch e := expr.(type) {
	case nil:
		return

	case *parser.IdentifierExpr:
		em.write(e.Name)

	case *parser.LiteralExpr:
		switch e.Kind {
		case parser.LitString:
			em.write("std::string(\"" + escapeCppString(e.Value) + "\")")
		case parser.LitChar:
			em.write("'" + escapeCppString(e.Value) + "'")
		default:
			em.write(e.Value)
		}

	case *parser.BinaryExpr:
		if e.Op == "**" {
			em.write("std::pow(")
			em.emitExpr(e.Left)
			em.write(", ")
			em.emitExpr(e.Right)
			em.write(")")
			return
		}
		em.write("(")
		em.emitExpr(e.Left)
		em.write(" " + e.Op + " ")
		em.emitExpr(e.Right)
		em.write(")")

	case *parser.UnaryExpr:
		op := e.Op
		if op == "&mut" {
			op = "&"
		}
		em.write("(" + op)
		em.emitExpr(e.Right)
		em.write(")")

	case *parser.CallExpr:
		em.emitCall(e)

	case *parser.MethodCallExpr:
		em.emitMethodCall(e)

	case *parser.IndexExpr:
		em.emitExpr(e.Base)
		em.write(".at(")
		em.emitExpr(e.Index)
		em.write(")")

	case *parser.SliceExpr:
		if e.Inclusive {
			em.write("mana::slice_inclusive(")
		} else {
			em.write("mana::slice(")
		}
		em.emitExpr(e.Base)
		em.write(", ")
		if e.Start != nil {
			em.emitExpr(e.Start)
		} else {
			em.write("0")
		}
		em.write(", ")
		if e.End != nil {
			em.emitExpr(e.End)
		} else {
			em.write("-1")
		}
		em.write(")")

	case *parser.MemberAccessExpr:
		em.emitExpr(e.Object)
		em.write("." + e.MemberName)

	case *parser.ArrayLiteralExpr:
		if e.IsFill() {
			em.write("mana::fill_array(")
			em.emitExpr(e.FillValue)
			em.write(", ")
			em.emitExpr(e.FillCount)
			em.write(")")
			return
		}
		em.write("{")
		for i, element := range e.Elements {
			if i > 0 {
				em.write(", ")
			}
			em.emitExpr(element)
		}
		em.write("}")

	case *parser.StructLiteralExpr:
		em.write(MapType(e.TypeName + e.GenericArgs))
		em.write("{")
		for i := range e.Fields {
			if i > 0 {
				em.write(", ")
			}
			if e.Named && e.Fields[i].Name != "" {
				em.write("." + e.Fields[i].Name + " = ")
			}
			em.emitExpr(e.Fields[i].Value)
		}
		em.write("}")

	case *parser.ScopeAccessExpr:
		if e.MemberName == "new" {
			em.write("mana::" + e.ScopeName + "<>{}")
			return
		}
		if em.adtEnums[e.ScopeName] {
			// Unit variant of an ADT enum: call its named constructor
			em.write(e.ScopeName + "::" + e.MemberName + "()")
			return
		}
		em.write(e.ScopeName + "::" + e.MemberName)

	case *parser.SelfExpr:
		em.write("self")

	case *parser.TupleExpr:
		em.write("std::make_tuple(")
		for i, element := range e.Elements {
			if i > 0 {
				em.write(", ")
			}
			em.emitExpr(element)
		}
		em.write(")")

	case *parser.TupleIndexExpr:
		em.printf("std::get<%d>(", e.Index)
		em.emitExpr(e.Tuple)
		em.write(")")

	case *parser.RangeExpr:
		// Bare ranges only appear in contexts that consume them (for-in,
		// slices); a surviving one has no direct value form
		em.write("/* range */")

	case *parser.MatchExpr:
		em.emitMatch(e)

	case *parser.ClosureExpr:
		em.emitClosure(e)

	case *parser.TryExpr:
		if id, extracted := em.tryExprIDs[e]; extracted {
			em.printf("__try_%d.__unwrap_ok()", id)
			return
		}
		// Value position: unwrap or abort
		id := em.tryCounter
		em.tryCounter++
		em.write("[&]() {\n")
		em.printf("        auto __try_%d = ", id)
		em.emitExpr(e.Operand)
		em.write(";\n")
		em.printf("        if (__try_%d.__is_err()) {\n", id)
		em.write("            throw std::runtime_error(\"error propagation\");\n")
		em.write("        }\n")
		em.printf("        return __try_%d.__unwrap_ok();\n", id)
		em.write("    }()")

	case *parser.AwaitExpr:
		em.emitExpr(e.Operand)
		em.write(".get()")

	case *parser.OptionalChainExpr:
		em.emitOptionalChain(e)

	case *parser.NullCoalesceExpr:
		// Single-branch accessor: no separate is_some/unwrap pair
		em.write("mana::opt_or(")
		em.emitExpr(e.Option)
		em.write(", ")
		em.emitExpr(e.Default)
		em.write(")")

	case *parser.NoneExpr:
		em.write("mana::None")

	case *parser.OptionPattern:
		switch e.Kind {
		case "None":
			em.write("mana::None")
		default:
			em.write("mana::" + e.Kind + "(" + e.Binding + ")")
		}

	case *parser.CastExpr:
		em.write("static_cast<" + MapType(e.TargetType) + ">(")
		em.emitExpr(e.Operand)
		em.write(")")

	case *parser.IfExpr:
		em.write("(")
		em.emitExpr(e.Condition)
		em.write(" ? ")
		em.emitExpr(e.Then)
		em.write(" : ")
		em.emitExpr(e.Else)
		em.write(")")

	case *parser.OrElseExpr:
		em.emitOrElse(e)

	case *parser.FStringExpr:
		em.emitFString(e)

	default:
		em.write("/* unknown expr */")
	}
}

// emitCall rewrites builtins into runtime-namespaced calls and Type::func
// into the mangled Type_func form before emitting the argument list.
func (em *Emitter) emitCall(e *parser.CallExpr) {
	name := e.FuncName

	if scopePos := strings.Index(name, "::"); scopePos >= 0 {
		typeName := name[:scopePos]
		method := name[scopePos+2:]
		if method == "new" && (typeName == "HashMap" || typeName == "Vec" ||
			typeName == "HashSet" || typeName == "Deque") {
			em.write("mana::" + typeName + "<>{}")
			return
		}
		if em.adtEnums[typeName] {
			// ADT variant constructor keeps its scoped spelling
			em.write(typeName + "::" + method + "(")
			for i, arg := range e.Args {
				if i > 0 {
					em.write(", ")
				}
				em.emitExpr(arg)
			}
			em.write(")")
			return
		}
		name = typeName + "_" + method
	}

	if name == "None" {
		em.write("mana::None")
		return
	}
	if mapped, ok := builtinDispatch[name]; ok {
		name = mapped
	}

	em.write(name + "(")
	for i, arg := range e.Args {
		if i > 0 {
			em.write(", ")
		}
		em.emitExpr(arg)
	}
	em.write(")")
}

// emitMethodCall rewrites method call sites: impl methods emit in their
// free-function form Type_method(object, args); string-method names on
// non-Vec receivers emit as global runtime calls; everything else stays a
// native member call (builtin containers).
func (em *Emitter) emitMethodCall(e *parser.MethodCallExpr) {
	implName := ""
	if e.ObjectType != "" {
		base := e.ObjectType
		if angle := strings.IndexByte(base, '<'); angle >= 0 {
			base = base[:angle]
		}
		implName = base + "_" + e.MethodName
	}

	if implName != "" && em.implMethods[implName] {
		em.write(implName + "(")
		em.emitExpr(e.Object)
		for _, arg := range e.Args {
			em.write(", ")
			em.emitExpr(arg)
		}
		em.write(")")
		return
	}

	if stringMethods[e.MethodName] && !strings.Contains(e.ObjectType, "Vec") {
		em.write("mana::" + e.MethodName + "(")
		em.emitExpr(e.Object)
		for _, arg := range e.Args {
			em.write(", ")
			em.emitExpr(arg)
		}
		em.write(")")
		return
	}

	em.emitExpr(e.Object)
	em.write("." + e.MethodName + "(")
	for i, arg := range e.Args {
		if i > 0 {
			em.write(", ")
		}
		em.emitExpr(arg)
	}
	em.write(")")
}

// emitMatch lowers a match expression to an immediately-invoked lambda
// capturing the enclosing scope by reference, evaluating arms in declared
// order. Without a wildcard arm the lambda ends by raising a
// non-exhaustive-match error so unmatched cases never fall through.
func (em *Emitter) emitMatch(e *parser.MatchExpr) {
	id := em.matchCounter
	em.matchCounter++

	em.write("[&]() {\n")
	em.printf("        auto __match_value_%d = ", id)
	em.emitExpr(e.Value)
	em.write(";\n")

	for armIdx := range e.Arms {
		arm := &e.Arms[armIdx]

		isWildcard := false
		if len(arm.Patterns) == 1 {
			if ident, ok := arm.Patterns[0].(*parser.IdentifierExpr); ok && ident.Name == "_" {
				isWildcard = true
			}
		}
		isBinding := len(arm.Patterns) == 0 && arm.Binding != ""

		switch {
		case isWildcard:
			em.write("        return ")
			em.emitArmResult(arm)
			em.write(";\n")

		case isBinding:
			em.printf("        auto %s = __match_value_%d;\n", arm.Binding, id)
			if arm.Guard != nil {
				em.write("        if (")
				em.emitExpr(arm.Guard)
				em.write(") return ")
			} else {
				em.write("        return ")
			}
			em.emitArmResult(arm)
			em.write(";\n")

		default:
			if enumPat, ok := arm.Patterns[0].(*parser.EnumPattern); ok && em.adtEnums[enumPat.EnumName] {
				em.emitAdtArm(arm, enumPat, id)
				continue
			}
			em.write("        if (")
			if len(arm.Patterns) > 1 {
				em.write("(")
			}
			for i, pattern := range arm.Patterns {
				if i > 0 {
					em.write(" || ")
				}
				em.emitPatternCondition(pattern, id)
			}
			if len(arm.Patterns) > 1 {
				em.write(")")
			}
			if arm.Guard != nil {
				em.write(" && (")
				em.emitExpr(arm.Guard)
				em.write(")")
			}
			em.write(") return ")
			em.emitArmResult(arm)
			em.write(";\n")
		}
	}

	if !e.HasDefault {
		em.write("        throw std::runtime_error(\"non-exhaustive match\");\n")
	}
	em.write("    }()")
}

// emitArmResult emits an arm body: expression arms emit inline, block
// arms emit as a nested immediately-invoked lambda.
func (em *Emitter) emitArmResult(arm *parser.MatchArm) {
	if arm.HasBlock() {
		em.write("[&]() {\n")
		for _, inner := range arm.ResultBlock.Statements {
			em.emitStmt(inner, 3)
		}
		em.write("        }()")
		return
	}
	em.emitExpr(arm.Result)
}

// emitPatternCondition emits the comparison for one simple-value, range
// or enum-value pattern against the match temporary.
func (em *Emitter) emitPatternCondition(pattern parser.Expr, id int) {
	switch pat := pattern.(type) {
	case *parser.RangeExpr:
		em.printf("(__match_value_%d >= ", id)
		em.emitExpr(pat.Start)
		em.printf(" && __match_value_%d ", id)
		if pat.Inclusive {
			em.write("<= ")
		} else {
			em.write("< ")
		}
		em.emitExpr(pat.End)
		em.write(")")
	case *parser.ScopeAccessExpr:
		if em.adtEnums[pat.ScopeName] {
			em.printf("__match_value_%d.tag == %sTag::%s", id, pat.ScopeName, pat.MemberName)
		} else {
			em.printf("__match_value_%d == %s::%s", id, pat.ScopeName, pat.MemberName)
		}
	case *parser.EnumPattern:
		// Unit pattern of a scalar enum reached through an or-pattern
		em.printf("__match_value_%d == %s::%s", id, pat.EnumName, pat.VariantName)
	default:
		em.printf("__match_value_%d == ", id)
		em.emitExpr(pattern)
	}
}

// emitAdtArm emits one tagged-union arm: compare the tag, extract the
// payload from the variant, bind each field as a local, then return the
// arm result (guard applies after binding).
func (em *Emitter) emitAdtArm(arm *parser.MatchArm, pat *parser.EnumPattern, id int) {
	em.printf("        if (__match_value_%d.tag == %sTag::%s) {\n", id, pat.EnumName, pat.VariantName)

	if len(pat.Bindings) > 0 {
		em.printf("            auto __data_%d = std::get<%s_%s>(__match_value_%d.data);\n",
			id, pat.EnumName, pat.VariantName, id)
		for j, binding := range pat.Bindings {
			if binding != "_" {
				em.printf("            auto %s = __data_%d._%d;\n", binding, id, j)
			}
		}
	} else if len(pat.FieldBindings) > 0 {
		em.printf("            auto __data_%d = std::get<%s_%s>(__match_value_%d.data);\n",
			id, pat.EnumName, pat.VariantName, id)
		for _, fb := range pat.FieldBindings {
			em.printf("            auto %s = __data_%d.%s;\n", fb[1], id, fb[0])
		}
	}

	if arm.Guard != nil {
		em.write("            if (")
		em.emitExpr(arm.Guard)
		em.write(") ")
	} else {
		em.write("            ")
	}
	em.write("return ")
	em.emitArmResult(arm)
	em.write(";\n")
	em.write("        }\n")
}

// emitClosure emits a C++ lambda with an explicit capture list. The
// default is [&] (or [=] for move closures); explicit captures map
// element by element, and any move capture makes the lambda mutable.
func (em *Emitter) emitClosure(e *parser.ClosureExpr) {
	em.write("[")
	if e.ExplicitCaptures && len(e.Captures) > 0 {
		for i, capture := range e.Captures {
			if i > 0 {
				em.write(", ")
			}
			switch capture.Mode {
			case parser.CaptureByRef:
				em.write("&" + capture.Name)
			case parser.CaptureByValue:
				em.write(capture.Name)
			case parser.CaptureByMove:
				em.write(capture.Name + " = std::move(" + capture.Name + ")")
			}
		}
	} else if e.ByRef {
		em.write("&")
	} else {
		em.write("=")
	}
	em.write("](")

	for i, param := range e.Params {
		if i > 0 {
			em.write(", ")
		}
		if param.TypeName != "" {
			em.write(MapType(param.TypeName) + " ")
		} else {
			em.write("auto ")
		}
		em.write(param.Name)
	}
	em.write(")")

	for _, capture := range e.Captures {
		if capture.Mode == parser.CaptureByMove {
			em.write(" mutable")
			break
		}
	}

	if e.ReturnType != "" {
		em.write(" -> " + MapType(e.ReturnType))
	}

	if e.HasBlock() {
		em.write(" {\n")
		for _, inner := range e.BodyBlock.Statements {
			em.emitStmt(inner, 2)
		}
		em.write("    }")
	} else {
		em.write(" { return ")
		em.emitExpr(e.BodyExpr)
		em.write("; }")
	}
}

// emitOptionalChain emits a?.member as an inline lambda: None when the
// receiver is empty, otherwise the wrapped access.
func (em *Emitter) emitOptionalChain(e *parser.OptionalChainExpr) {
	id := em.optCounter
	em.optCounter++

	access := func() {
		em.printf("__opt_%d.unwrap().%s", id, e.MemberName)
		if e.IsMethodCall {
			em.write("(")
			for i, arg := range e.Args {
				if i > 0 {
					em.write(", ")
				}
				em.emitExpr(arg)
			}
			em.write(")")
		}
	}

	em.write("[&]() {\n")
	em.printf("        auto __opt_%d = ", id)
	em.emitExpr(e.Object)
	em.write(";\n")
	em.printf("        if (__opt_%d.is_none()) return mana::make_none<decltype(", id)
	access()
	em.write(")>();\n")
	em.write("        return mana::Option<decltype(")
	access()
	em.write(")>(mana::Some(")
	access()
	em.write("));\n")
	em.write("    }()")
}

// emitOrElse emits `expr or fallback` as an inline lambda: unwrap on
// is_ok, otherwise run the diverging fallback or return the default.
func (em *Emitter) emitOrElse(e *parser.OrElseExpr) {
	id := em.orCounter
	em.orCounter++

	em.write("[&]() {\n")
	em.printf("        auto __or_%d = ", id)
	em.emitExpr(e.Lhs)
	em.write(";\n")
	em.printf("        if (__or_%d.is_ok()) return __or_%d.unwrap();\n", id, id)
	switch {
	case e.HasBlock():
		for _, inner := range e.FallbackBlock.Statements {
			em.emitStmt(inner, 2)
		}
	case e.FallbackStmt != nil:
		em.emitStmt(e.FallbackStmt, 2)
	case e.DefaultExpr != nil:
		em.write("        return ")
		em.emitExpr(e.DefaultExpr)
		em.write(";\n")
	}
	em.write("    }()")
}

// emitFString emits an interpolated string as a concatenation of its
// literal fragments and stringified embedded expressions; per-expression
// format specs route through the runtime formatter.
func (em *Emitter) emitFString(e *parser.FStringExpr) {
	if len(e.Parts) == 0 {
		em.write("std::string(\"\")")
		return
	}
	em.write("(std::string(\"\")")
	for i := range e.Parts {
		part := &e.Parts[i]
		em.write(" + ")
		if part.IsExpr {
			if part.FormatSpec != "" {
				em.write("mana::format_spec(")
				em.emitExpr(part.Expr)
				em.write(", std::string(\"" + escapeCppString(part.FormatSpec) + "\"))")
			} else {
				em.write("mana::to_string(")
				em.emitExpr(part.Expr)
				em.write(")")
			}
		} else {
			em.write("std::string(\"" + escapeCppString(part.Literal) + "\")")
		}
	}
	em.write(")")
}
