/*
File    : mana/semantic/semantic_exprs.go
*/
package semantic

import (
	"strconv"
	"strings"

	"github.com/mana-lang/mana/parser"
	"github.com/mana-lang/mana/scope"
	"github.com/mana-lang/mana/types"
)

// visitExpr types one expression, recording diagnostics for rule
// violations. Unknown operands absorb silently so one error does not
// cascade into many.
func (an *Analyzer) visitExpr(expr parser.Expr) types.Type {
	switch e := expr.(type) {
	case nil:
		return types.UnknownType()

	case *parser.LiteralExpr:
		switch e.Kind {
		case parser.LitBool:
			return types.Boolean()
		case parser.LitString:
			return types.Str()
		case parser.LitChar:
			return types.CharType()
		case parser.LitFloat:
			return types.F64()
		default:
			return types.I32()
		}

	case *parser.IdentifierExpr:
		sym, ok := an.Scopes.Top.LookUp(e.Name)
		if !ok {
			message := "use of undeclared identifier '" + e.Name + "'"
			suggestion := an.findSimilarName(e.Name)
			if suggestion != "" {
				an.Diag.ErrorWithSuggestion(message, suggestion, e.Line, e.Column)
			} else {
				an.Diag.Error(message, e.Line, e.Column)
			}
			return types.UnknownType()
		}
		an.checkVisibility(sym, e.Line, e.Column)
		an.markVariableUsed(e.Name)
		return sym.Type

	case *parser.BinaryExpr:
		return an.visitBinary(e)

	case *parser.UnaryExpr:
		operand := an.visitExpr(e.Right)
		switch e.Op {
		case "&":
			return types.MakeReference(operand.Name())
		case "&mut":
			return types.MakeMutReference(operand.Name())
		case "*":
			switch operand.Kind {
			case types.Pointer, types.Reference, types.MutReference:
				return an.parseTypeName(operand.ElementType)
			}
			if !operand.IsUnknown() {
				an.Diag.Error("cannot dereference non-pointer type "+operand.Name(), e.Line, e.Column)
			}
			return types.UnknownType()
		case "!":
			if operand.Kind != types.Bool && !operand.IsUnknown() {
				an.Diag.Error("operand of '!' must be bool, got "+operand.Name(), e.Line, e.Column)
				return types.UnknownType()
			}
			return types.Boolean()
		case "~":
			if operand.Kind != types.Int && !operand.IsUnknown() {
				an.Diag.Error("operand of '~' must be an integer, got "+operand.Name(), e.Line, e.Column)
				return types.UnknownType()
			}
			return operand
		}
		return operand

	case *parser.CallExpr:
		return an.visitCall(e)

	case *parser.MethodCallExpr:
		return an.visitMethodCall(e)

	case *parser.IndexExpr:
		base := an.visitExpr(e.Base)
		an.visitExpr(e.Index)
		if base.Kind == types.Array {
			return an.parseTypeName(base.ElementType)
		}
		if inner, ok := genericInner(base.StructName, "Vec"); ok {
			return an.parseTypeName(inner)
		}
		return types.UnknownType()

	case *parser.SliceExpr:
		base := an.visitExpr(e.Base)
		if e.Start != nil {
			an.visitExpr(e.Start)
		}
		if e.End != nil {
			an.visitExpr(e.End)
		}
		return base

	case *parser.RangeExpr:
		start := an.visitExpr(e.Start)
		an.visitExpr(e.End)
		return start

	case *parser.ArrayLiteralExpr:
		if e.IsFill() {
			elem := an.visitExpr(e.FillValue)
			an.visitExpr(e.FillCount)
			return types.MakeArray(an.inferTypeName(elem), 0)
		}
		if len(e.Elements) == 0 {
			return types.UnknownType() // empty array needs an explicit type
		}
		elemType := an.visitExpr(e.Elements[0])
		for _, element := range e.Elements[1:] {
			t := an.visitExpr(element)
			if !t.Equals(elemType) && !t.IsUnknown() && !elemType.IsUnknown() {
				line, column := element.Pos()
				an.Diag.Error("array elements have inconsistent types: "+
					elemType.Name()+" vs "+t.Name(), line, column)
			}
		}
		return types.MakeArray(an.inferTypeName(elemType), len(e.Elements))

	case *parser.MemberAccessExpr:
		return an.visitMemberAccess(e)

	case *parser.TupleExpr:
		var sb strings.Builder
		sb.WriteByte('(')
		for i, element := range e.Elements {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(an.inferTypeName(an.visitExpr(element)))
		}
		sb.WriteByte(')')
		return types.MakeTuple(sb.String())

	case *parser.TupleIndexExpr:
		tupleType := an.visitExpr(e.Tuple)
		if tupleType.Kind != types.Tuple {
			if !tupleType.IsUnknown() {
				an.Diag.Error("tuple index on non-tuple type "+tupleType.Name(), e.Line, e.Column)
			}
			return types.UnknownType()
		}
		elems := splitTypeList(strings.TrimSuffix(strings.TrimPrefix(tupleType.StructName, "("), ")"))
		if e.Index < 0 || e.Index >= len(elems) {
			an.Diag.Error("tuple index out of bounds: index "+strconv.Itoa(e.Index)+
				" on tuple with "+strconv.Itoa(len(elems))+" elements", e.Line, e.Column)
			return types.UnknownType()
		}
		return an.parseTypeName(elems[e.Index])

	case *parser.StructLiteralExpr:
		return an.visitStructLiteral(e)

	case *parser.ScopeAccessExpr:
		return an.visitScopeAccess(e)

	case *parser.SelfExpr:
		if an.currentReceiver.IsUnknown() {
			an.Diag.Error("'self' used outside of method", e.Line, e.Column)
			return types.UnknownType()
		}
		return an.currentReceiver

	case *parser.NoneExpr:
		// None is compatible with any Option<T>; a marker type carries it
		t := types.MakeStruct("None")
		return t

	case *parser.MatchExpr:
		return an.visitMatch(e)

	case *parser.ClosureExpr:
		return an.visitClosure(e)

	case *parser.TryExpr:
		operand := an.visitExpr(e.Operand)
		name := operand.Name()
		if inner, ok := genericInner(name, "Result"); ok {
			parts := splitTypeList(inner)
			if len(parts) >= 1 {
				return an.parseTypeName(parts[0])
			}
		}
		if inner, ok := genericInner(name, "Option"); ok {
			return an.parseTypeName(inner)
		}
		if !operand.IsUnknown() {
			an.Diag.Error("'?' operator requires Result or Option, got "+name, e.Line, e.Column)
		}
		return types.UnknownType()

	case *parser.OptionalChainExpr:
		an.visitExpr(e.Object)
		if e.IsMethodCall {
			for _, arg := range e.Args {
				an.visitExpr(arg)
			}
		}
		// The result is Option<T> of the member's type; unknown suffices
		return types.UnknownType()

	case *parser.NullCoalesceExpr:
		an.visitExpr(e.Option)
		return an.visitExpr(e.Default)

	case *parser.AwaitExpr:
		an.visitExpr(e.Operand)
		return types.UnknownType()

	case *parser.CastExpr:
		an.visitExpr(e.Operand)
		return an.parseTypeName(e.TargetType)

	case *parser.IfExpr:
		cond := an.visitExpr(e.Condition)
		if cond.Kind != types.Bool && !cond.IsUnknown() {
			an.Diag.Error("if condition must be bool, got "+cond.Name(), e.Line, e.Column)
		}
		thenType := an.visitExpr(e.Then)
		elseType := an.visitExpr(e.Else)
		if !thenType.Equals(elseType) && !thenType.IsUnknown() && !elseType.IsUnknown() {
			an.Diag.Error("if expression branches have different types: "+
				thenType.Name()+" vs "+elseType.Name(), e.Line, e.Column)
		}
		if thenType.IsUnknown() {
			return elseType
		}
		return thenType

	case *parser.OrElseExpr:
		return an.visitOrElse(e)

	case *parser.FStringExpr:
		for i := range e.Parts {
			if e.Parts[i].IsExpr && e.Parts[i].Expr != nil {
				an.visitExpr(e.Parts[i].Expr)
			}
		}
		return types.Str()

	case *parser.OptionPattern, *parser.EnumPattern:
		// Patterns are matched structurally, not evaluated
		return types.UnknownType()
	}

	return types.UnknownType()
}

// visitBinary applies the binary typing rules: comparisons return bool,
// short-circuit logic requires bool operands, arithmetic on two numerics
// returns the left operand's type, and + concatenates strings. Bitwise
// operators require integers (booleans are rejected).
func (an *Analyzer) visitBinary(e *parser.BinaryExpr) types.Type {
	left := an.visitExpr(e.Left)
	right := an.visitExpr(e.Right)

	switch e.Op {
	case "==", "!=", "<", "<=", ">", ">=":
		return types.Boolean()
	case "&&", "||":
		if left.Kind != types.Bool && !left.IsUnknown() {
			an.Diag.Error("left operand of '"+e.Op+"' must be bool, got "+left.Name(), e.Line, e.Column)
			return types.UnknownType()
		}
		if right.Kind != types.Bool && !right.IsUnknown() {
			an.Diag.Error("right operand of '"+e.Op+"' must be bool, got "+right.Name(), e.Line, e.Column)
			return types.UnknownType()
		}
		return types.Boolean()
	case "&", "|", "^", "<<", ">>":
		// Integer-only; bitwise on booleans is a type error
		if (left.Kind == types.Int || left.IsUnknown()) &&
			(right.Kind == types.Int || right.IsUnknown()) {
			if left.IsUnknown() {
				return right
			}
			return left
		}
		an.Diag.Error("bitwise operator '"+e.Op+"' requires integer operands, got "+
			left.Name()+" and "+right.Name(), e.Line, e.Column)
		return types.UnknownType()
	}

	if left.IsUnknown() || right.IsUnknown() {
		if left.IsUnknown() {
			return right
		}
		return left
	}

	// Arithmetic on two numerics returns the left operand's type
	if left.IsNumeric() && right.IsNumeric() {
		return left
	}

	// String concatenation
	if e.Op == "+" && left.Kind == types.String && right.Kind == types.String {
		return types.Str()
	}

	an.Diag.Error("invalid binary operator operands: cannot apply '"+e.Op+"' to "+
		left.Name()+" and "+right.Name(), e.Line, e.Column)
	return types.UnknownType()
}

// visitCall checks a named call: symbol lookup (with Type::func mangling),
// visibility, enum variant constructors, named-argument reordering,
// generic inference, and trait-bound validation.
func (an *Analyzer) visitCall(e *parser.CallExpr) types.Type {
	lookupName := mangleScopedName(e.FuncName)

	sym, found := an.Scopes.Top.LookUp(lookupName)
	if found {
		an.checkVisibility(sym, e.Line, e.Column)
	} else {
		// Enum variant constructor: Enum::Variant(args)
		if t, handled := an.visitEnumConstructor(e); handled {
			return t
		}
		message := "call to undeclared function '" + e.FuncName + "'"
		suggestion := an.findSimilarName(e.FuncName)
		if suggestion != "" {
			an.Diag.ErrorWithSuggestion(message, suggestion, e.Line, e.Column)
		} else {
			an.Diag.Error(message, e.Line, e.Column)
		}
		return types.UnknownType()
	}

	// Named arguments: match names to parameters, positional arguments
	// fill the remaining slots in order
	if fn, ok := an.Funcs[lookupName]; ok && hasNamedArgs(e.ArgNames) {
		e.Args, e.ArgNames = an.reorderNamedArgs(e.Args, e.ArgNames, fn, e.Line, e.Column)
	}

	argTypes := make([]types.Type, 0, len(e.Args))
	for _, arg := range e.Args {
		if arg != nil {
			argTypes = append(argTypes, an.visitExpr(arg))
		} else {
			argTypes = append(argTypes, types.UnknownType())
		}
	}

	// Infer generic bindings from argument shapes
	bindings := map[string]types.Type{}
	fn := an.Funcs[lookupName]
	if fn != nil && len(fn.Generics) > 0 {
		bindings = an.inferTypeBindings(fn, argTypes)
	}

	// Validate every where bound once the binding is inferred
	for _, constraint := range sym.Constraints {
		if concrete, ok := bindings[constraint.Param]; ok {
			an.checkTraitBounds(constraint.Param, concrete, constraint.Traits, e.Line, e.Column)
		}
	}

	// Substitute inferred bindings into the return type
	if fn != nil && len(bindings) > 0 {
		retType := substituteTypeParams(fn.ReturnType, bindings)
		if retType != fn.ReturnType {
			return an.parseTypeName(retType)
		}
		if concrete, ok := bindings[fn.ReturnType]; ok {
			return concrete
		}
	}

	return sym.Type
}

// visitEnumConstructor handles Enum::Variant(args) calls; the second
// return reports whether the call was an enum constructor at all.
func (an *Analyzer) visitEnumConstructor(e *parser.CallExpr) (types.Type, bool) {
	sep := strings.Index(e.FuncName, "::")
	if sep < 0 {
		return types.UnknownType(), false
	}
	enumName := e.FuncName[:sep]
	variantName := e.FuncName[sep+2:]
	enumDecl, ok := an.Enums[enumName]
	if !ok {
		return types.UnknownType(), false
	}

	for i := range enumDecl.Variants {
		variant := &enumDecl.Variants[i]
		if variant.Name != variantName {
			continue
		}
		switch {
		case len(variant.TupleTypes) > 0:
			if len(e.Args) != len(variant.TupleTypes) {
				an.Diag.Error("wrong number of arguments for enum variant '"+variantName+
					"': expected "+strconv.Itoa(len(variant.TupleTypes))+
					", got "+strconv.Itoa(len(e.Args)), e.Line, e.Column)
				return types.UnknownType(), true
			}
		case len(variant.Fields) > 0:
			if len(e.Args) != len(variant.Fields) {
				an.Diag.Error("wrong number of arguments for enum variant '"+variantName+"'",
					e.Line, e.Column)
				return types.UnknownType(), true
			}
		default:
			if len(e.Args) != 0 {
				an.Diag.Error("unit variant '"+variantName+"' takes no arguments", e.Line, e.Column)
				return types.UnknownType(), true
			}
		}
		for _, arg := range e.Args {
			an.visitExpr(arg)
		}
		return types.MakeEnum(enumName), true
	}

	an.Diag.Error("unknown variant '"+variantName+"' for enum '"+enumName+"'", e.Line, e.Column)
	return types.UnknownType(), true
}

// hasNamedArgs reports whether any argument carried a name.
func hasNamedArgs(names []string) bool {
	for _, name := range names {
		if name != "" {
			return true
		}
	}
	return false
}

// reorderNamedArgs rebuilds the argument list in parameter order: named
// arguments land on their parameter, positional arguments fill the
// remaining slots in order. Duplicate or unknown names error.
func (an *Analyzer) reorderNamedArgs(args []parser.Expr, names []string, fn *parser.FunctionDecl, line, column int) ([]parser.Expr, []string) {
	reordered := make([]parser.Expr, len(fn.Params))
	posIdx := 0

	for i, arg := range args {
		if names[i] == "" {
			for posIdx < len(reordered) && reordered[posIdx] != nil {
				posIdx++
			}
			if posIdx < len(reordered) {
				reordered[posIdx] = arg
				posIdx++
			}
			continue
		}
		found := false
		for j := range fn.Params {
			if fn.Params[j].Name == names[i] {
				if reordered[j] != nil {
					an.Diag.Error("duplicate argument for parameter '"+names[i]+"'", line, column)
				} else {
					reordered[j] = arg
				}
				found = true
				break
			}
		}
		if !found {
			an.Diag.Error("unknown parameter name '"+names[i]+"'", line, column)
		}
	}

	// Unfilled trailing slots take the parameter defaults at emission;
	// drop them here so argument counts stay consistent
	for len(reordered) > 0 && reordered[len(reordered)-1] == nil {
		reordered = reordered[:len(reordered)-1]
	}
	return reordered, make([]string, len(reordered))
}

// inferTypeBindings infers generic parameter bindings from the textual
// argument-parameter match: direct type-parameter positions bind
// immediately; container positions like Vec<T> against Vec<i32> bind the
// inner name. Once bound, a parameter stays bound for the whole call.
func (an *Analyzer) inferTypeBindings(fn *parser.FunctionDecl, argTypes []types.Type) map[string]types.Type {
	bindings := make(map[string]types.Type)
	for i := 0; i < len(fn.Params) && i < len(argTypes); i++ {
		paramType := fn.Params[i].TypeName
		for _, tp := range fn.Generics {
			if _, bound := bindings[tp]; bound {
				continue
			}
			if paramType == tp {
				bindings[tp] = argTypes[i]
				break
			}
			// Container match: Vec<T> against Vec<i32>
			open := strings.IndexByte(paramType, '<')
			close := strings.LastIndexByte(paramType, '>')
			if open >= 0 && close > open && strings.TrimSpace(paramType[open+1:close]) == tp {
				argName := argTypes[i].Name()
				argOpen := strings.IndexByte(argName, '<')
				argClose := strings.LastIndexByte(argName, '>')
				if argOpen >= 0 && argClose > argOpen {
					bindings[tp] = an.parseTypeName(strings.TrimSpace(argName[argOpen+1 : argClose]))
				}
			}
		}
	}
	return bindings
}

// substituteTypeParams replaces whole-word occurrences of each bound type
// parameter inside a return-type spelling.
func substituteTypeParams(retType string, bindings map[string]types.Type) string {
	isWordByte := func(b byte) bool {
		return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
	}
	for tp, concrete := range bindings {
		pos := 0
		for {
			idx := strings.Index(retType[pos:], tp)
			if idx < 0 {
				break
			}
			idx += pos
			beforeOK := idx == 0 || !isWordByte(retType[idx-1])
			afterOK := idx+len(tp) >= len(retType) || !isWordByte(retType[idx+len(tp)])
			if beforeOK && afterOK {
				retType = retType[:idx] + concrete.Name() + retType[idx+len(tp):]
				pos = idx + len(concrete.Name())
			} else {
				pos = idx + 1
			}
		}
	}
	return retType
}

// visitMethodCall types the receiver, annotates the call with the
// receiver's static type for emission, reorders named arguments, and
// falls through to builtins for unknown methods.
func (an *Analyzer) visitMethodCall(e *parser.MethodCallExpr) types.Type {
	objType := an.visitExpr(e.Object)
	if name := objType.Name(); name != "" && name != "<unknown>" {
		e.ObjectType = name
	}

	if hasNamedArgs(e.ArgNames) && e.ObjectType != "" {
		qualified := e.ObjectType + "_" + e.MethodName
		if fn, ok := an.Funcs[qualified]; ok {
			e.Args, e.ArgNames = an.reorderNamedArgs(e.Args, e.ArgNames, fn, e.Line, e.Column)
		}
	}

	for _, arg := range e.Args {
		if arg != nil {
			an.visitExpr(arg)
		}
	}

	// Result/Option predicates type as bool
	switch e.MethodName {
	case "is_ok", "is_err", "is_some", "is_none":
		return types.Boolean()
	}

	// User method: RecvType_method registered by the impl pass
	if e.ObjectType != "" {
		base := e.ObjectType
		if angle := strings.IndexByte(base, '<'); angle >= 0 {
			base = base[:angle]
		}
		if sym, ok := an.Scopes.Top.LookUp(base + "_" + e.MethodName); ok {
			return sym.Type
		}
	}

	// Builtin fall-through: string helpers and friends keep working as
	// methods even without a user impl
	if an.BuiltinFuncs[e.MethodName] || builtinStringMethods[e.MethodName] {
		if sym, ok := an.Scopes.Top.LookUp(e.MethodName); ok {
			return sym.Type
		}
	}

	return types.UnknownType()
}

// visitMemberAccess types object.member, following through references
// transparently; unknown struct fields error.
func (an *Analyzer) visitMemberAccess(e *parser.MemberAccessExpr) types.Type {
	objType := an.visitExpr(e.Object)

	if objType.Kind == types.Reference || objType.Kind == types.MutReference {
		objType = an.parseTypeName(objType.ElementType)
	}

	if objType.Kind == types.Struct {
		base := objType.StructName
		if angle := strings.IndexByte(base, '<'); angle >= 0 {
			base = base[:angle]
		}
		if structDecl, ok := an.Structs[base]; ok {
			for _, field := range structDecl.Fields {
				if field.Name == e.MemberName {
					return an.parseTypeName(field.TypeName)
				}
			}
			an.Diag.Error("unknown struct member '"+e.MemberName+"' on type "+objType.Name(),
				e.Line, e.Column)
		}
	}
	return types.UnknownType()
}

// visitStructLiteral checks both named and positional struct literals
// against the declaration.
func (an *Analyzer) visitStructLiteral(e *parser.StructLiteralExpr) types.Type {
	fullName := e.TypeName + e.GenericArgs
	baseName := e.TypeName

	// Built-in generic containers pass through
	if baseName == "Vec" || baseName == "Result" || baseName == "Option" || baseName == "HashMap" {
		for i := range e.Fields {
			an.visitExpr(e.Fields[i].Value)
		}
		t := types.UnknownType()
		t.StructName = fullName
		return t
	}

	structDecl, ok := an.Structs[baseName]
	if !ok {
		message := "unknown struct type '" + fullName + "'"
		suggestion := an.findSimilarName(baseName)
		if suggestion != "" {
			an.Diag.ErrorWithSuggestion(message, suggestion, e.Line, e.Column)
		} else {
			an.Diag.Error(message, e.Line, e.Column)
		}
		return types.UnknownType()
	}

	if sym, found := an.Scopes.Top.LookUp(baseName); found {
		an.checkVisibility(sym, e.Line, e.Column)
	}

	// Generic struct literals skip field type checks: the parameters have
	// no concrete meaning until substitution at emission
	generic := len(structDecl.Generics) > 0

	if e.Named {
		for i := range e.Fields {
			init := &e.Fields[i]
			found := false
			for _, field := range structDecl.Fields {
				if field.Name == init.Name {
					found = true
					expected := an.parseTypeName(field.TypeName)
					actual := an.visitExpr(init.Value)
					if !generic && !actual.Equals(expected) && !actual.IsUnknown() && !expected.IsUnknown() {
						an.Diag.Error("type mismatch in struct field initialization",
							init.Line, init.Column)
					}
					break
				}
			}
			if !found {
				an.Diag.Error("unknown struct field '"+init.Name+"'", init.Line, init.Column)
			}
		}
	} else {
		if len(e.Fields) > len(structDecl.Fields) {
			an.Diag.Error("too many initializers for struct", e.Line, e.Column)
		}
		for i := 0; i < len(e.Fields) && i < len(structDecl.Fields); i++ {
			expected := an.parseTypeName(structDecl.Fields[i].TypeName)
			actual := an.visitExpr(e.Fields[i].Value)
			if !generic && !actual.Equals(expected) && !actual.IsUnknown() && !expected.IsUnknown() {
				an.Diag.Error("type mismatch in struct field initialization",
					e.Fields[i].Line, e.Fields[i].Column)
			}
		}
	}

	return types.MakeStruct(fullName)
}

// visitScopeAccess types A::B: an enum variant reference or an impl
// constant.
func (an *Analyzer) visitScopeAccess(e *parser.ScopeAccessExpr) types.Type {
	if enumDecl, ok := an.Enums[e.ScopeName]; ok {
		if sym, found := an.Scopes.Top.LookUp(e.ScopeName); found {
			an.checkVisibility(sym, e.Line, e.Column)
		}
		found := false
		for i := range enumDecl.Variants {
			if enumDecl.Variants[i].Name == e.MemberName {
				found = true
				break
			}
		}
		if !found {
			an.Diag.Error("unknown enum variant '"+e.MemberName+"' for enum '"+e.ScopeName+"'",
				e.Line, e.Column)
		}
		return types.MakeEnum(e.ScopeName)
	}

	// Impl constant: Type::CONST registered as Type_CONST
	if sym, ok := an.Scopes.Top.LookUp(e.ScopeName + "_" + e.MemberName); ok {
		return sym.Type
	}

	an.Diag.Error("unknown scope '"+e.ScopeName+"'", e.Line, e.Column)
	return types.UnknownType()
}

// visitMatch types the scrutinee and every arm, requires a single result
// type, binds pattern variables in per-arm scopes, and warns about
// non-exhaustive enum matches naming the missing variants.
func (an *Analyzer) visitMatch(e *parser.MatchExpr) types.Type {
	valueType := an.visitExpr(e.Value)
	resultType := types.UnknownType()

	for i := range e.Arms {
		arm := &e.Arms[i]
		createdScope := false

		if arm.Binding != "" {
			an.Scopes.Push()
			createdScope = true
			an.Scopes.Top.Declare(&scope.Symbol{Name: arm.Binding, Type: valueType, Mutable: true})
		}

		if len(arm.Patterns) > 0 {
			createdScope = an.bindArmPattern(arm.Patterns[0], valueType, createdScope)
		}

		if arm.Guard != nil {
			guardType := an.visitExpr(arm.Guard)
			if guardType.Kind != types.Bool && !guardType.IsUnknown() {
				an.Diag.Error("match guard must be bool, got "+guardType.Name(), arm.Line, arm.Column)
			}
		}

		var armType types.Type
		if arm.HasBlock() {
			an.visitStmt(arm.ResultBlock)
			armType = types.UnknownType()
		} else {
			armType = an.visitExpr(arm.Result)
		}

		if createdScope {
			an.Scopes.Pop()
		}

		if resultType.IsUnknown() {
			resultType = armType
		} else if !armType.Equals(resultType) && !armType.IsUnknown() {
			an.Diag.Error("match arms have different types", arm.Line, arm.Column)
		}
	}

	an.checkExhaustiveness(e, valueType)
	return resultType
}

// bindArmPattern opens a scope (when needed) and declares the names bound
// by the arm's first pattern. It returns whether a scope is now open.
func (an *Analyzer) bindArmPattern(pattern parser.Expr, valueType types.Type, scopeOpen bool) bool {
	openScope := func() {
		if !scopeOpen {
			an.Scopes.Push()
			scopeOpen = true
		}
	}

	switch pat := pattern.(type) {
	case *parser.OptionPattern:
		if pat.Binding != "" {
			openScope()
			inner := an.patternInnerType(pat.Kind, valueType)
			an.Scopes.Top.Declare(&scope.Symbol{Name: pat.Binding, Type: inner, Mutable: true})
		}

	case *parser.EnumPattern:
		enumDecl, ok := an.Enums[pat.EnumName]
		if !ok {
			return scopeOpen
		}
		for i := range enumDecl.Variants {
			variant := &enumDecl.Variants[i]
			if variant.Name != pat.VariantName {
				continue
			}
			if pat.IsUnitPattern() {
				break
			}
			openScope()
			if pat.IsTuple && len(variant.TupleTypes) > 0 {
				for j := 0; j < len(pat.Bindings) && j < len(variant.TupleTypes); j++ {
					if pat.Bindings[j] == "_" {
						continue
					}
					an.Scopes.Top.Declare(&scope.Symbol{
						Name:    pat.Bindings[j],
						Type:    an.parseTypeName(variant.TupleTypes[j]),
						Mutable: true,
					})
				}
			} else if !pat.IsTuple && len(variant.Fields) > 0 {
				for _, binding := range pat.FieldBindings {
					for _, field := range variant.Fields {
						if field.Name == binding[0] {
							an.Scopes.Top.Declare(&scope.Symbol{
								Name:    binding[1],
								Type:    an.parseTypeName(field.TypeName),
								Mutable: true,
							})
							break
						}
					}
				}
			}
			break
		}

	case *parser.IdentifierExpr:
		if pat.Name == "_" {
			// Wildcard binds nothing
		} else if pat.Name != "" && pat.Name[0] >= 'a' && pat.Name[0] <= 'z' {
			// Lowercase identifier binds the matched value
			openScope()
			an.Scopes.Top.Declare(&scope.Symbol{Name: pat.Name, Type: valueType, Mutable: true})
		} else {
			// Constant comparison: resolve the name
			an.visitExpr(pat)
		}

	case *parser.RangeExpr, *parser.LiteralExpr:
		// Literal and range patterns need no bindings

	default:
		an.visitExpr(pattern)
	}

	return scopeOpen
}

// checkExhaustiveness warns when an enum match omits variants without a
// wildcard arm, naming every missing variant.
func (an *Analyzer) checkExhaustiveness(e *parser.MatchExpr, valueType types.Type) {
	enumDecl, ok := an.Enums[valueType.StructName]
	if !ok {
		return
	}

	covered := make(map[string]bool)
	hasWildcard := e.HasDefault
	for i := range e.Arms {
		for _, pattern := range e.Arms[i].Patterns {
			switch pat := pattern.(type) {
			case *parser.IdentifierExpr:
				if pat.Name == "_" {
					hasWildcard = true
				}
			case *parser.EnumPattern:
				covered[pat.VariantName] = true
			case *parser.ScopeAccessExpr:
				covered[pat.MemberName] = true
			}
		}
	}
	if hasWildcard {
		return
	}

	var missing []string
	for i := range enumDecl.Variants {
		if !covered[enumDecl.Variants[i].Name] {
			missing = append(missing, enumDecl.Name+"::"+enumDecl.Variants[i].Name)
		}
	}
	if len(missing) > 0 {
		an.Diag.Warning("non-exhaustive match: missing variants "+strings.Join(missing, ", "),
			e.Line, e.Column)
	}
}

// visitClosure opens the parameter scope, types the body, and returns a
// function type joining the parameter spellings with the body type.
func (an *Analyzer) visitClosure(e *parser.ClosureExpr) types.Type {
	an.Scopes.Push()

	var paramTypes []string
	for _, param := range e.Params {
		paramType := types.UnknownType()
		if param.TypeName != "" {
			paramType = an.parseTypeName(param.TypeName)
		}
		an.Scopes.Top.Declare(&scope.Symbol{Name: param.Name, Type: paramType, Mutable: true})
		paramTypes = append(paramTypes, paramType.Name())
	}

	var bodyType types.Type
	if e.HasBlock() {
		an.visitStmt(e.BodyBlock)
		if e.ReturnType != "" {
			bodyType = an.parseTypeName(e.ReturnType)
		} else {
			bodyType = types.VoidType()
		}
	} else {
		bodyType = an.visitExpr(e.BodyExpr)
	}

	an.Scopes.Pop()
	return types.MakeFunction(strings.Join(paramTypes, ", "), bodyType.Name())
}

// visitOrElse checks `expr or fallback`: the left side must be a Result,
// the fallback must provably diverge (or supply a default), and the whole
// expression produces the unwrapped success type.
func (an *Analyzer) visitOrElse(e *parser.OrElseExpr) types.Type {
	lhsType := an.visitExpr(e.Lhs)
	name := lhsType.Name()

	inner, isResult := genericInner(name, "Result")
	if !isResult && !lhsType.IsUnknown() {
		an.Diag.Error("'or' operator requires Result type, got '"+name+"'", e.Line, e.Column)
		return types.UnknownType()
	}

	switch {
	case e.HasBlock():
		an.visitStmt(e.FallbackBlock)
		if !Diverges(e.FallbackBlock) {
			an.Diag.Error("'or' block must not fall through (must return, break, or continue)",
				e.Line, e.Column)
		}
	case e.FallbackStmt != nil:
		an.visitStmt(e.FallbackStmt)
	case e.DefaultExpr != nil:
		an.visitExpr(e.DefaultExpr)
	}

	if isResult {
		parts := splitTypeList(inner)
		if len(parts) >= 1 {
			return an.parseTypeName(parts[0])
		}
	}
	return types.UnknownType()
}
