/*
File    : mana/parser/ast_printer.go
*/
package parser

import (
	"bytes"
	"fmt"
	"strings"
)

const printerIndentSize = 2

// AstPrinter renders an AST module as an indented tree, one node per line.
// It backs the --ast flag and the REPL's :ast command.
type AstPrinter struct {
	Indent int
	Buf    bytes.Buffer
}

// String returns the rendered tree.
func (p *AstPrinter) String() string {
	return p.Buf.String()
}

// line writes one indented line.
func (p *AstPrinter) line(format string, args ...interface{}) {
	p.Buf.WriteString(strings.Repeat(" ", p.Indent))
	fmt.Fprintf(&p.Buf, format, args...)
	p.Buf.WriteByte('\n')
}

// nested runs fn with the indent level raised by one step.
func (p *AstPrinter) nested(fn func()) {
	p.Indent += printerIndentSize
	fn()
	p.Indent -= printerIndentSize
}

// PrintModule renders a whole module.
func (p *AstPrinter) PrintModule(mod *Module) {
	p.line("Module %s", mod.Name)
	p.nested(func() {
		for _, decl := range mod.Decls {
			p.PrintDecl(decl)
		}
	})
}

// PrintDecl renders one declaration subtree.
func (p *AstPrinter) PrintDecl(decl Decl) {
	switch d := decl.(type) {
	case *ImportDecl:
		if d.IsFile {
			p.line("Import %q", d.Path)
		} else {
			p.line("Import %s", d.Path)
		}
	case *UseDecl:
		suffix := ""
		if d.Glob {
			suffix = "::*"
		} else if len(d.Names) > 0 {
			suffix = "::{" + strings.Join(d.Names, ", ") + "}"
		}
		if d.Alias != "" {
			suffix += " as " + d.Alias
		}
		p.line("Use %s%s", strings.Join(d.Path, "::"), suffix)
	case *FunctionDecl:
		name := d.Name
		if d.Receiver != "" {
			name = d.Receiver + "." + name
		}
		flags := ""
		if d.Pub {
			flags += " pub"
		}
		if d.Async {
			flags += " async"
		}
		if d.Static {
			flags += " static"
		}
		if d.Extern {
			flags += " extern"
		}
		if d.Test {
			flags += " test"
		}
		p.line("Function %s -> %s%s", name, d.ReturnType, flags)
		p.nested(func() {
			for _, param := range d.Params {
				p.line("Param %s: %s", param.Name, param.TypeName)
			}
			if d.Body != nil {
				p.PrintStmt(d.Body)
			}
		})
	case *StructDecl:
		p.line("Struct %s", d.Name)
		p.nested(func() {
			for _, field := range d.Fields {
				p.line("Field %s: %s", field.Name, field.TypeName)
			}
		})
	case *EnumDecl:
		p.line("Enum %s", d.Name)
		p.nested(func() {
			for i := range d.Variants {
				v := &d.Variants[i]
				switch {
				case len(v.TupleTypes) > 0:
					p.line("Variant %s(%s)", v.Name, strings.Join(v.TupleTypes, ", "))
				case len(v.Fields) > 0:
					p.line("Variant %s {%d fields}", v.Name, len(v.Fields))
				case v.HasDiscriminant:
					p.line("Variant %s = %d", v.Name, v.Discriminant)
				default:
					p.line("Variant %s", v.Name)
				}
			}
		})
	case *TraitDecl:
		p.line("Trait %s", d.Name)
		p.nested(func() {
			for _, assoc := range d.AssocTypes {
				p.line("AssocType %s", assoc)
			}
			for _, method := range d.Methods {
				p.PrintDecl(method)
			}
		})
	case *ImplDecl:
		if d.TraitName != "" {
			p.line("Impl %s for %s", d.TraitName, d.TypeName)
		} else {
			p.line("Impl %s", d.TypeName)
		}
		p.nested(func() {
			for _, assoc := range d.AssocTypes {
				p.line("AssocType %s = %s", assoc.Name, assoc.TypeName)
			}
			for _, c := range d.Consts {
				p.PrintDecl(c)
			}
			for _, method := range d.Methods {
				p.PrintDecl(method)
			}
		})
	case *GlobalDecl:
		p.line("Global %s: %s", d.Name, d.TypeName)
		p.nested(func() { p.PrintExpr(d.Value) })
	case *TypeAliasDecl:
		p.line("TypeAlias %s = %s", d.Name, d.Target)
	default:
		p.line("UnknownDecl")
	}
}

// PrintStmt renders one statement subtree.
func (p *AstPrinter) PrintStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *BlockStmt:
		p.line("Block")
		p.nested(func() {
			for _, inner := range s.Statements {
				p.PrintStmt(inner)
			}
		})
	case *VarDeclStmt:
		kind := "Let"
		if !s.Mutable {
			kind = "Const"
		}
		p.line("%s %s: %s", kind, s.Name, s.TypeName)
		p.nested(func() { p.PrintExpr(s.Init) })
	case *AssignStmt:
		if s.IsComplexTarget() {
			p.line("Assign")
			p.nested(func() {
				p.PrintExpr(s.TargetExpr)
				p.PrintExpr(s.Value)
			})
		} else {
			p.line("Assign %s", s.TargetName)
			p.nested(func() { p.PrintExpr(s.Value) })
		}
	case *DestructureStmt:
		names := make([]string, len(s.Bindings))
		for i, b := range s.Bindings {
			names[i] = b.Name
		}
		p.line("Destructure (%s): %s", strings.Join(names, ", "), s.TypeName)
		p.nested(func() { p.PrintExpr(s.Init) })
	case *IfStmt:
		if s.IsIfLet {
			p.line("IfLet %s(%s)", s.PatternKind, s.PatternVar)
			p.nested(func() { p.PrintExpr(s.PatternExpr) })
		} else {
			p.line("If")
			p.nested(func() { p.PrintExpr(s.Condition) })
		}
		p.nested(func() {
			p.PrintStmt(s.Then)
			if s.Else != nil {
				p.line("Else")
				p.nested(func() { p.PrintStmt(s.Else) })
			}
		})
	case *WhileStmt:
		if s.IsWhileLet {
			p.line("WhileLet %s(%s)", s.PatternKind, s.PatternVar)
			p.nested(func() { p.PrintExpr(s.PatternExpr) })
		} else {
			p.line("While")
			p.nested(func() { p.PrintExpr(s.Condition) })
		}
		p.nested(func() { p.PrintStmt(s.Body) })
	case *ForStmt:
		p.line("For")
		p.nested(func() {
			if s.Init != nil {
				p.PrintStmt(s.Init)
			}
			p.PrintExpr(s.Condition)
			if s.Step != nil {
				p.PrintStmt(s.Step)
			}
			p.PrintStmt(s.Body)
		})
	case *ForInStmt:
		if s.IsDestructure {
			p.line("ForIn (%s)", strings.Join(s.VarNames, ", "))
		} else {
			p.line("ForIn %s", s.VarName)
		}
		p.nested(func() {
			p.PrintExpr(s.Iterable)
			p.PrintStmt(s.Body)
		})
	case *LoopStmt:
		p.line("Loop")
		p.nested(func() { p.PrintStmt(s.Body) })
	case *BreakStmt:
		p.line("Break")
		if s.Value != nil {
			p.nested(func() { p.PrintExpr(s.Value) })
		}
	case *ContinueStmt:
		p.line("Continue")
	case *ReturnStmt:
		p.line("Return")
		if s.Value != nil {
			p.nested(func() { p.PrintExpr(s.Value) })
		}
	case *DeferStmt:
		p.line("Defer")
		p.nested(func() { p.PrintStmt(s.Body) })
	case *ScopeStmt:
		p.line("Scope %s", s.Name)
		p.nested(func() { p.PrintStmt(s.Body) })
	case *ExprStmt:
		p.line("ExprStmt")
		p.nested(func() { p.PrintExpr(s.Expr) })
	default:
		p.line("UnknownStmt")
	}
}

// PrintExpr renders one expression subtree.
func (p *AstPrinter) PrintExpr(expr Expr) {
	switch e := expr.(type) {
	case nil:
		p.line("<nil>")
	case *IdentifierExpr:
		p.line("Identifier %s", e.Name)
	case *LiteralExpr:
		p.line("Literal %q", e.Value)
	case *BinaryExpr:
		p.line("Binary %s", e.Op)
		p.nested(func() {
			p.PrintExpr(e.Left)
			p.PrintExpr(e.Right)
		})
	case *UnaryExpr:
		p.line("Unary %s", e.Op)
		p.nested(func() { p.PrintExpr(e.Right) })
	case *CallExpr:
		p.line("Call %s", e.FuncName)
		p.nested(func() {
			for _, arg := range e.Args {
				p.PrintExpr(arg)
			}
		})
	case *MethodCallExpr:
		p.line("MethodCall .%s", e.MethodName)
		p.nested(func() {
			p.PrintExpr(e.Object)
			for _, arg := range e.Args {
				p.PrintExpr(arg)
			}
		})
	case *IndexExpr:
		p.line("Index")
		p.nested(func() {
			p.PrintExpr(e.Base)
			p.PrintExpr(e.Index)
		})
	case *SliceExpr:
		p.line("Slice inclusive=%t", e.Inclusive)
		p.nested(func() {
			p.PrintExpr(e.Base)
			if e.Start != nil {
				p.PrintExpr(e.Start)
			}
			if e.End != nil {
				p.PrintExpr(e.End)
			}
		})
	case *RangeExpr:
		p.line("Range inclusive=%t", e.Inclusive)
		p.nested(func() {
			p.PrintExpr(e.Start)
			p.PrintExpr(e.End)
		})
	case *ArrayLiteralExpr:
		if e.IsFill() {
			p.line("ArrayFill")
			p.nested(func() {
				p.PrintExpr(e.FillValue)
				p.PrintExpr(e.FillCount)
			})
		} else {
			p.line("Array (%d elements)", len(e.Elements))
			p.nested(func() {
				for _, el := range e.Elements {
					p.PrintExpr(el)
				}
			})
		}
	case *MemberAccessExpr:
		p.line("Member .%s", e.MemberName)
		p.nested(func() { p.PrintExpr(e.Object) })
	case *TupleExpr:
		p.line("Tuple (%d elements)", len(e.Elements))
		p.nested(func() {
			for _, el := range e.Elements {
				p.PrintExpr(el)
			}
		})
	case *TupleIndexExpr:
		p.line("TupleIndex .%d", e.Index)
		p.nested(func() { p.PrintExpr(e.Tuple) })
	case *StructLiteralExpr:
		p.line("StructLiteral %s%s", e.TypeName, e.GenericArgs)
		p.nested(func() {
			for _, field := range e.Fields {
				if field.Name != "" {
					p.line("Field %s", field.Name)
					p.nested(func() { p.PrintExpr(field.Value) })
				} else {
					p.PrintExpr(field.Value)
				}
			}
		})
	case *ScopeAccessExpr:
		p.line("ScopeAccess %s::%s", e.ScopeName, e.MemberName)
	case *SelfExpr:
		p.line("Self")
	case *MatchExpr:
		kind := "Match"
		if e.IsWhen {
			kind = "When"
		}
		p.line("%s (%d arms, default=%t)", kind, len(e.Arms), e.HasDefault)
		p.nested(func() {
			p.PrintExpr(e.Value)
			for i := range e.Arms {
				arm := &e.Arms[i]
				p.line("Arm")
				p.nested(func() {
					for _, pat := range arm.Patterns {
						p.PrintExpr(pat)
					}
					if arm.Guard != nil {
						p.line("Guard")
						p.nested(func() { p.PrintExpr(arm.Guard) })
					}
					if arm.HasBlock() {
						p.PrintStmt(arm.ResultBlock)
					} else {
						p.PrintExpr(arm.Result)
					}
				})
			}
		})
	case *ClosureExpr:
		p.line("Closure (%d params)", len(e.Params))
		p.nested(func() {
			if e.HasBlock() {
				p.PrintStmt(e.BodyBlock)
			} else {
				p.PrintExpr(e.BodyExpr)
			}
		})
	case *TryExpr:
		p.line("Try")
		p.nested(func() { p.PrintExpr(e.Operand) })
	case *OptionalChainExpr:
		p.line("OptionalChain ?.%s", e.MemberName)
		p.nested(func() { p.PrintExpr(e.Object) })
	case *NullCoalesceExpr:
		p.line("NullCoalesce")
		p.nested(func() {
			p.PrintExpr(e.Option)
			p.PrintExpr(e.Default)
		})
	case *AwaitExpr:
		p.line("Await")
		p.nested(func() { p.PrintExpr(e.Operand) })
	case *CastExpr:
		p.line("Cast as %s", e.TargetType)
		p.nested(func() { p.PrintExpr(e.Operand) })
	case *IfExpr:
		p.line("IfExpr")
		p.nested(func() {
			p.PrintExpr(e.Condition)
			p.PrintExpr(e.Then)
			p.PrintExpr(e.Else)
		})
	case *OrElseExpr:
		p.line("OrElse")
		p.nested(func() {
			p.PrintExpr(e.Lhs)
			if e.FallbackBlock != nil {
				p.PrintStmt(e.FallbackBlock)
			}
			if e.FallbackStmt != nil {
				p.PrintStmt(e.FallbackStmt)
			}
			if e.DefaultExpr != nil {
				p.PrintExpr(e.DefaultExpr)
			}
		})
	case *FStringExpr:
		p.line("FString (%d parts)", len(e.Parts))
		p.nested(func() {
			for i := range e.Parts {
				part := &e.Parts[i]
				if part.IsExpr {
					p.PrintExpr(part.Expr)
				} else {
					p.line("Fragment %q", part.Literal)
				}
			}
		})
	case *NoneExpr:
		p.line("None")
	case *OptionPattern:
		p.line("OptionPattern %s(%s)", e.Kind, e.Binding)
	case *EnumPattern:
		p.line("EnumPattern %s::%s", e.EnumName, e.VariantName)
	default:
		p.line("UnknownExpr")
	}
}
