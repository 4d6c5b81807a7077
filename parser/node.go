/*
File    : mana/parser/node.go
*/
package parser

// The Mana AST is a sum type with three top-level kinds: declarations,
// statements and expressions. Every node carries the source position of its
// first token. Nodes own their children; the tree is a strict tree with no
// sharing and no parent back-pointers.

// Position records where a node begins in the source (1-indexed).
// It is embedded in every AST node.
type Position struct {
	Line   int
	Column int
}

// Pos returns the line and column of the node's first token.
func (p Position) Pos() (int, int) { return p.Line, p.Column }

// Node is the interface implemented by every AST node.
type Node interface {
	Pos() (line int, column int)
}

// Decl is a top-level declaration (function, struct, enum, trait, impl, ...).
type Decl interface {
	Node
	declNode()
}

// Stmt is a statement inside a block.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression producing a value.
type Expr interface {
	Node
	exprNode()
}

// Module is the root of a parsed source file: the module name from the
// `module NAME` header followed by its declarations in source order.
type Module struct {
	Name  string
	Decls []Decl
}

// ---------------------------------------------------------------------------
// Declarations
// ---------------------------------------------------------------------------

// ImportDecl is either a file import (import "relative/path") or a dotted
// module import (import a::b::c, reserved for the standard library).
type ImportDecl struct {
	Position
	Path   string // file path, or joined dotted path
	IsFile bool   // true for the quoted form
}

func (*ImportDecl) declNode() {}

// UseDecl brings names from another module into scope.
// Forms: use a::b, use a::b::*, use a::{x, y}, use a::b as c, pub use a::b.
type UseDecl struct {
	Position
	Path  []string // the dotted path segments
	Glob  bool     // trailing ::*
	Names []string // selective {a, b} list (empty when absent)
	Alias string   // `as alias` (empty when absent)
	Pub   bool
}

func (*UseDecl) declNode() {}

// Param is one value parameter of a function: name, declared type and an
// optional default value.
type Param struct {
	Name     string
	TypeName string
	Default  Expr
	Line     int
	Column   int
}

// WhereClause binds one generic parameter to a list of trait names:
// where T: A + B.
type WhereClause struct {
	Param  string
	Traits []string
}

// FunctionDecl is a free function, method (Receiver non-empty), trait method
// signature (Body nil with Extern false inside a trait) or test function.
type FunctionDecl struct {
	Position
	Name         string
	Receiver     string // receiver type for `fn Type.method(...)` syntax
	Generics     []string
	Params       []Param
	ReturnType   string // empty means void ("main" defaults to i32)
	Where        []WhereClause
	Pub          bool
	Async        bool
	Static       bool
	Extern       bool
	Test         bool // flagged by #[test]
	HasSelf      bool // first parameter was `self`
	SourceModule string // module of origin (set by the driver for file imports)
	Body         *BlockStmt
	Doc          []string // attached /// doc comment lines
}

func (*FunctionDecl) declNode() {}

// StructField is one named field of a struct declaration.
type StructField struct {
	Name     string
	TypeName string
	Default  Expr
	Pub      bool
	Line     int
	Column   int
}

// StructDecl declares a struct with ordered named fields.
type StructDecl struct {
	Position
	Name         string
	Generics     []string
	Fields       []StructField
	Pub          bool
	SourceModule string
	Doc          []string
}

func (*StructDecl) declNode() {}

// EnumVariant is one variant of an enum: unit, tuple-shaped (TupleTypes) or
// struct-shaped (Fields), optionally with an explicit integer discriminant.
type EnumVariant struct {
	Name            string
	TupleTypes      []string
	Fields          []StructField
	HasDiscriminant bool
	Discriminant    int64
	Line            int
	Column          int
}

// IsUnit reports whether the variant carries no payload.
func (v *EnumVariant) IsUnit() bool {
	return len(v.TupleTypes) == 0 && len(v.Fields) == 0
}

// EnumDecl declares an enum (the `variant` keyword is a synonym).
type EnumDecl struct {
	Position
	Name         string
	Generics     []string
	Variants     []EnumVariant
	Pub          bool
	SourceModule string
	Doc          []string
}

func (*EnumDecl) declNode() {}

// HasData reports whether any variant carries a payload.
func (e *EnumDecl) HasData() bool {
	for i := range e.Variants {
		if !e.Variants[i].IsUnit() {
			return true
		}
	}
	return false
}

// TraitDecl declares a trait: associated type names plus method signatures,
// each optionally carrying a default body.
type TraitDecl struct {
	Position
	Name         string
	AssocTypes   []string
	Methods      []*FunctionDecl
	Pub          bool
	SourceModule string
	Doc          []string
}

func (*TraitDecl) declNode() {}

// AssocTypeBinding assigns an associated type inside an impl block:
// type Name = T;
type AssocTypeBinding struct {
	Name     string
	TypeName string
	Line     int
	Column   int
}

// ImplDecl is an impl block, either inherent (TraitName empty) or a trait
// implementation (impl Trait for Type).
type ImplDecl struct {
	Position
	TypeName   string
	TraitName  string
	AssocTypes []AssocTypeBinding
	Consts     []*GlobalDecl
	Methods    []*FunctionDecl
}

func (*ImplDecl) declNode() {}

// GlobalDecl is a top-level constant or global variable, also used for
// `const NAME: T = expr;` entries nested in impl blocks.
type GlobalDecl struct {
	Position
	Name         string
	TypeName     string
	Value        Expr
	Mutable      bool
	Pub          bool
	SourceModule string
	Doc          []string
}

func (*GlobalDecl) declNode() {}

// TypeAliasDecl declares a type alias: type Name = Target.
type TypeAliasDecl struct {
	Position
	Name   string
	Target string
	Pub    bool
	Doc    []string
}

func (*TypeAliasDecl) declNode() {}
