/*
File    : mana/parser/expr_node.go
*/
package parser

// LiteralKind tags a LiteralExpr with the kind of value it holds.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitString
	LitChar
	LitBool
)

// IdentifierExpr is a bare name reference. Inside patterns, the name "_" is
// the wildcard and an uppercase-initial name compares against a constant
// instead of binding.
type IdentifierExpr struct {
	Position
	Name string
}

func (*IdentifierExpr) exprNode() {}

// LiteralExpr is a literal value; Value holds the source text (escape
// processing already applied for strings and chars).
type LiteralExpr struct {
	Position
	Value string
	Kind  LiteralKind
}

func (*LiteralExpr) exprNode() {}

// IsNumeric reports whether the literal is an int or float.
func (l *LiteralExpr) IsNumeric() bool { return l.Kind == LitInt || l.Kind == LitFloat }

// BinaryExpr applies a binary operator; Op holds the operator spelling.
type BinaryExpr struct {
	Position
	Op    string
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// UnaryExpr applies a prefix operator: ! - ~ & &mut *.
type UnaryExpr struct {
	Position
	Op    string
	Right Expr
}

func (*UnaryExpr) exprNode() {}

// CallExpr calls a function by name with positional and named arguments.
// ArgNames runs parallel to Args; the empty string marks a positional
// argument.
type CallExpr struct {
	Position
	FuncName string
	Args     []Expr
	ArgNames []string
}

func (*CallExpr) exprNode() {}

// MethodCallExpr calls a method on a receiver. ObjectType is filled in by
// the semantic analyzer with the receiver's static type so the emitter can
// mangle the call into its free-function form.
type MethodCallExpr struct {
	Position
	Object     Expr
	MethodName string
	Args       []Expr
	ArgNames   []string
	ObjectType string
}

func (*MethodCallExpr) exprNode() {}

// IndexExpr indexes a collection: base[index].
type IndexExpr struct {
	Position
	Base  Expr
	Index Expr
}

func (*IndexExpr) exprNode() {}

// SliceExpr slices a collection: base[start..end] or base[start..=end].
// Start and End are optional.
type SliceExpr struct {
	Position
	Base      Expr
	Start     Expr
	End       Expr
	Inclusive bool
}

func (*SliceExpr) exprNode() {}

// RangeExpr is start..end or start..=end.
type RangeExpr struct {
	Position
	Start     Expr
	End       Expr
	Inclusive bool
}

func (*RangeExpr) exprNode() {}

// ArrayLiteralExpr is [a, b, c] or the fill form [value; count].
type ArrayLiteralExpr struct {
	Position
	Elements  []Expr
	FillValue Expr
	FillCount Expr
}

func (*ArrayLiteralExpr) exprNode() {}

// IsFill reports whether the literal uses the [value; count] form.
func (a *ArrayLiteralExpr) IsFill() bool { return a.FillValue != nil }

// MemberAccessExpr accesses a field: object.member. Access follows through
// references transparently during analysis.
type MemberAccessExpr struct {
	Position
	Object     Expr
	MemberName string
}

func (*MemberAccessExpr) exprNode() {}

// TupleExpr is a tuple literal (a, b, ...). A parenthesized single
// expression is not a tuple.
type TupleExpr struct {
	Position
	Elements []Expr
}

func (*TupleExpr) exprNode() {}

// TupleIndexExpr accesses one tuple element: tuple.0, tuple.1, ...
type TupleIndexExpr struct {
	Position
	Tuple Expr
	Index int
}

func (*TupleIndexExpr) exprNode() {}

// StructFieldInit is one field initializer of a struct literal; Name is
// empty for the positional form.
type StructFieldInit struct {
	Name   string
	Value  Expr
	Line   int
	Column int
}

// StructLiteralExpr constructs a struct value: T{x: 1} or T{1, 2}.
// GenericArgs preserves the original generic-argument text when present
// (e.g. "<i32>" in Pair<i32>{...}).
type StructLiteralExpr struct {
	Position
	TypeName    string
	GenericArgs string
	Fields      []StructFieldInit
	Named       bool
}

func (*StructLiteralExpr) exprNode() {}

// ScopeAccessExpr is A::B — an enum variant or a static member.
type ScopeAccessExpr struct {
	Position
	ScopeName  string
	MemberName string
}

func (*ScopeAccessExpr) exprNode() {}

// SelfExpr is the method receiver reference.
type SelfExpr struct {
	Position
}

func (*SelfExpr) exprNode() {}

// MatchArm is one branch of a match/when expression: one or more patterns,
// an optional guard, and either a result expression or a block body. An arm
// may bind the matched value to a single name.
type MatchArm struct {
	Patterns    []Expr
	Guard       Expr
	Result      Expr
	ResultBlock *BlockStmt
	Binding     string
	Line        int
	Column      int
}

// HasBlock reports whether the arm body is a block rather than an expression.
func (a *MatchArm) HasBlock() bool { return a.ResultBlock != nil }

// MatchExpr matches a value against arms in declared order. The when form
// (IsWhen) differs only in surface syntax (-> instead of =>). HasDefault is
// set when a wildcard arm is present; the analyzer uses it for
// exhaustiveness checking.
type MatchExpr struct {
	Position
	Value      Expr
	Arms       []MatchArm
	HasDefault bool
	IsWhen     bool
}

func (*MatchExpr) exprNode() {}

// ClosureParam is one closure parameter with an optional type.
type ClosureParam struct {
	Name     string
	TypeName string
	Line     int
	Column   int
}

// CaptureMode selects how a closure captures one variable.
type CaptureMode int

const (
	CaptureByRef CaptureMode = iota
	CaptureByValue
	CaptureByMove
)

// CaptureSpec is one entry of an explicit capture list [x, &y, move z].
type CaptureSpec struct {
	Name string
	Mode CaptureMode
}

// ClosureExpr is |params| expr or |params| { block }, with an optional
// explicit capture list or a trailing `move` applying to the whole closure.
// Without explicit captures the default is by-reference.
type ClosureExpr struct {
	Position
	Params           []ClosureParam
	ReturnType       string
	BodyExpr         Expr
	BodyBlock        *BlockStmt
	ByRef            bool
	Captures         []CaptureSpec
	ExplicitCaptures bool
}

func (*ClosureExpr) exprNode() {}

// HasBlock reports whether the closure body is a block.
func (c *ClosureExpr) HasBlock() bool { return c.BodyBlock != nil }

// TryExpr is the postfix ? operator: unwraps Result/Option or propagates
// the failure to the caller.
type TryExpr struct {
	Position
	Operand Expr
}

func (*TryExpr) exprNode() {}

// OptionalChainExpr is a?.field or a?.method(args): None when the receiver
// is empty, otherwise the wrapped access.
type OptionalChainExpr struct {
	Position
	Object       Expr
	MemberName   string
	IsMethodCall bool
	Args         []Expr
	ArgNames     []string
}

func (*OptionalChainExpr) exprNode() {}

// NullCoalesceExpr is option ?? default.
type NullCoalesceExpr struct {
	Position
	Option  Expr
	Default Expr
}

func (*NullCoalesceExpr) exprNode() {}

// AwaitExpr is expr.await on a future.
type AwaitExpr struct {
	Position
	Operand Expr
}

func (*AwaitExpr) exprNode() {}

// CastExpr is expr as T, accepted for numeric and pointer conversions.
type CastExpr struct {
	Position
	Operand    Expr
	TargetType string
}

func (*CastExpr) exprNode() {}

// IfExpr is the expression form of if: if cond { a } else { b }.
type IfExpr struct {
	Position
	Condition Expr
	Then      Expr
	Else      Expr
}

func (*IfExpr) exprNode() {}

// OrElseExpr is `expr or fallback`: the left side produces a Result, and the
// right side must diverge (return/break/continue or a terminating block) or
// supply a default value.
type OrElseExpr struct {
	Position
	Lhs           Expr
	FallbackBlock *BlockStmt
	FallbackStmt  Stmt
	DefaultExpr   Expr
}

func (*OrElseExpr) exprNode() {}

// HasBlock reports whether the fallback is a block.
func (o *OrElseExpr) HasBlock() bool { return o.FallbackBlock != nil }

// FStringPart is one segment of an interpolated string: either a literal
// fragment or an embedded expression with an optional format spec.
type FStringPart struct {
	IsExpr     bool
	Literal    string
	Expr       Expr
	FormatSpec string
}

// FStringExpr is f"..." with literal fragments interleaved with embedded
// expressions.
type FStringExpr struct {
	Position
	Parts []FStringPart
}

func (*FStringExpr) exprNode() {}

// NoneExpr is the None literal for Option types.
type NoneExpr struct {
	Position
}

func (*NoneExpr) exprNode() {}

// OptionPattern matches Some(x), None, Ok(x) or Err(e) in match arms and
// if-let/while-let heads. Lower- and upper-case constructor spellings are
// both accepted and normalized to the capitalized form.
type OptionPattern struct {
	Position
	Kind    string // "Some", "Ok", "Err" or "None"
	Binding string // bound variable (empty for None)
}

func (*OptionPattern) exprNode() {}

// EnumPattern destructures an enum variant: Enum::Variant,
// Enum::Variant(a, b, _) or Enum::Variant{field: x}.
type EnumPattern struct {
	Position
	EnumName      string
	VariantName   string
	Bindings      []string    // tuple-position bindings ("_" discards)
	FieldBindings [][2]string // struct-form pairs: field name, bound name
	IsTuple       bool
}

func (*EnumPattern) exprNode() {}

// IsUnitPattern reports whether the pattern binds nothing.
func (e *EnumPattern) IsUnitPattern() bool {
	return len(e.Bindings) == 0 && len(e.FieldBindings) == 0
}
