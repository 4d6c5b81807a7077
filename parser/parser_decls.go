/*
File    : mana/parser/parser_decls.go
*/
package parser

import "github.com/mana-lang/mana/lexer"

// parseDeclaration parses one top-level declaration. Doc comments
// accumulate until the next non-doc token and attach to the declaration
// they precede. Returns nil when no declaration could be parsed; the
// caller synchronizes.
func (par *Parser) parseDeclaration() Decl {
	// Collect doc comments preceding the declaration
	var doc []string
	for par.check(lexer.DOC_COMMENT) {
		doc = append(doc, par.advance().Literal)
	}

	if par.match(lexer.IMPORT_KEY) {
		return par.parseImportDecl()
	}

	// Attributes: #[name]; #[test] flags a test function
	isTest := false
	for par.match(lexer.HASH_OP) {
		par.expect(lexer.LEFT_BRACKET, "expected '[' after '#'")
		if par.expect(lexer.IDENTIFIER_ID, "expected attribute name") {
			if par.previous().Literal == "test" {
				isTest = true
			}
		}
		par.expect(lexer.RIGHT_BRACKET, "expected ']' after attribute")
	}

	isPub := par.match(lexer.PUB_KEY)

	if par.match(lexer.USE_KEY) {
		return par.parseUseDecl(isPub)
	}

	if par.match(lexer.EXTERN_KEY) {
		par.expect(lexer.FN_KEY, "expected 'fn' after 'extern'")
		return par.parseFunctionDecl(fnFlags{Pub: isPub, Extern: true, Test: isTest, Doc: doc})
	}
	if par.match(lexer.ASYNC_KEY) {
		par.expect(lexer.FN_KEY, "expected 'fn' after 'async'")
		return par.parseFunctionDecl(fnFlags{Pub: isPub, Async: true, Test: isTest, Doc: doc})
	}
	if par.match(lexer.STATIC_KEY) {
		par.expect(lexer.FN_KEY, "expected 'fn' after 'static'")
		return par.parseFunctionDecl(fnFlags{Pub: isPub, Static: true, Test: isTest, Doc: doc})
	}
	if par.match(lexer.FN_KEY) {
		return par.parseFunctionDecl(fnFlags{Pub: isPub, Test: isTest, Doc: doc})
	}
	if par.match(lexer.STRUCT_KEY) {
		return par.parseStructDecl(isPub, doc)
	}
	if par.match(lexer.ENUM_KEY) || par.match(lexer.VARIANT_KEY) {
		return par.parseEnumDecl(isPub, doc)
	}
	if par.match(lexer.TRAIT_KEY) {
		return par.parseTraitDecl(isPub, doc)
	}
	if par.match(lexer.IMPL_KEY) {
		return par.parseImplDecl()
	}
	if par.match(lexer.TYPE_KEY) {
		return par.parseTypeAliasDecl(isPub, doc)
	}
	if par.match(lexer.CONST_KEY) {
		return par.parseGlobalDecl(isPub, false, doc)
	}

	// Top-level global: name : Type = expr
	if par.check(lexer.IDENTIFIER_ID) && par.checkNext(lexer.COLON_DELIM) {
		return par.parseGlobalDecl(isPub, true, doc)
	}

	par.errorAt("unexpected top-level declaration")
	return nil
}

// parseImportDecl parses `import "path"` (file import) or
// `import a::b::c` (dotted module import, reserved for the stdlib).
func (par *Parser) parseImportDecl() Decl {
	tok := par.peek()

	if par.match(lexer.STRING_LIT) {
		path := par.previous().Literal
		par.optionalSemicolon()
		return &ImportDecl{
			Position: Position{tok.Line, tok.Column},
			Path:     path,
			IsFile:   true,
		}
	}

	if !par.expect(lexer.IDENTIFIER_ID, "expected import name") {
		return nil
	}
	path := par.previous().Literal
	for par.match(lexer.SCOPE_OP) {
		if !par.expect(lexer.IDENTIFIER_ID, "expected identifier after '::'") {
			break
		}
		path += "::" + par.previous().Literal
	}
	par.optionalSemicolon()
	return &ImportDecl{
		Position: Position{tok.Line, tok.Column},
		Path:     path,
		IsFile:   false,
	}
}

// parseUseDecl parses the use forms: use a::b, use a::*, use a::{x, y},
// use a::b as c.
func (par *Parser) parseUseDecl(isPub bool) Decl {
	tok := par.peek()
	use := &UseDecl{Position: Position{tok.Line, tok.Column}, Pub: isPub}

	if !par.expect(lexer.IDENTIFIER_ID, "expected module path") {
		return nil
	}
	use.Path = []string{par.previous().Literal}

	for par.match(lexer.SCOPE_OP) {
		if par.match(lexer.MUL_OP) {
			use.Glob = true
			par.optionalSemicolon()
			return use
		}
		if par.match(lexer.LEFT_BRACE) {
			for {
				if !par.expect(lexer.IDENTIFIER_ID, "expected name in use") {
					break
				}
				use.Names = append(use.Names, par.previous().Literal)
				if !par.match(lexer.COMMA_DELIM) {
					break
				}
			}
			par.expect(lexer.RIGHT_BRACE, "expected '}' in use")
			par.optionalSemicolon()
			return use
		}
		if !par.expect(lexer.IDENTIFIER_ID, "expected identifier after '::'") {
			break
		}
		use.Path = append(use.Path, par.previous().Literal)
	}

	if par.match(lexer.AS_KEY) {
		if par.expect(lexer.IDENTIFIER_ID, "expected alias name") {
			use.Alias = par.previous().Literal
		}
	}
	par.optionalSemicolon()
	return use
}

// parseTypeName parses a type in source form and returns its canonical
// textual spelling. Handles pointers, references, dyn traits, arrays,
// tuples, Self paths and generic arguments.
func (par *Parser) parseTypeName() string {
	// Pointer type: *T
	if par.match(lexer.MUL_OP) {
		return "*" + par.parseTypeName()
	}

	// Reference type: &T or &mut T
	if par.match(lexer.BIT_AND_OP) {
		if par.match(lexer.MUT_KEY) {
			return "&mut " + par.parseTypeName()
		}
		return "&" + par.parseTypeName()
	}

	// Dynamic trait object: dyn TraitName
	if par.match(lexer.DYN_KEY) {
		if par.expect(lexer.IDENTIFIER_ID, "expected trait name after 'dyn'") {
			return "dyn " + par.previous().Literal
		}
		return "dyn"
	}

	// Array type: [N]T or []T
	if par.match(lexer.LEFT_BRACKET) {
		size := ""
		if par.match(lexer.INT_LIT) {
			size = par.previous().Literal
		}
		par.expect(lexer.RIGHT_BRACKET, "expected ']' in array type")
		return "[" + size + "]" + par.parseTypeName()
	}

	// Tuple type: (T1, T2, ...)
	if par.match(lexer.LEFT_PAREN) {
		result := "("
		if !par.check(lexer.RIGHT_PAREN) {
			result += par.parseTypeName()
			for par.match(lexer.COMMA_DELIM) {
				result += ", " + par.parseTypeName()
			}
		}
		par.expect(lexer.RIGHT_PAREN, "expected ')' in tuple type")
		return result + ")"
	}

	// Self, or Self::Item
	if par.match(lexer.SELF_KEY) {
		name := "Self"
		if par.match(lexer.SCOPE_OP) {
			if par.expect(lexer.IDENTIFIER_ID, "expected associated type name after 'Self::'") {
				name += "::" + par.previous().Literal
			}
		}
		return name
	}

	if !par.expect(lexer.IDENTIFIER_ID, "expected type name") {
		return "unknown"
	}
	name := par.previous().Literal

	// Path with associated type: TypeName::AssociatedType
	if par.match(lexer.SCOPE_OP) {
		if par.expect(lexer.IDENTIFIER_ID, "expected type name after '::'") {
			name += "::" + par.previous().Literal
		}
	}

	// Generic type arguments: Type<T, U>
	if par.match(lexer.LT_OP) {
		name += "<" + par.parseTypeName()
		for par.match(lexer.COMMA_DELIM) {
			name += ", " + par.parseTypeName()
		}
		par.expect(lexer.GT_OP, "expected '>' after type arguments")
		name += ">"
	}

	return name
}

// fnFlags carries the modifiers collected before a function declaration.
type fnFlags struct {
	Pub    bool
	Async  bool
	Static bool
	Extern bool
	Test   bool
	Doc    []string
}

// parseFunctionDecl parses a function after the `fn` keyword, supporting
// method syntax fn Type.method(...), generic parameters, default parameter
// values, where clauses and bodiless extern functions. A `main` without an
// explicit return type defaults to i32.
func (par *Parser) parseFunctionDecl(flags fnFlags) Decl {
	if !par.expect(lexer.IDENTIFIER_ID, "expected function name") {
		return nil
	}
	first := par.previous()

	fn := &FunctionDecl{
		Position: Position{first.Line, first.Column},
		Name:     first.Literal,
		Pub:      flags.Pub,
		Async:    flags.Async,
		Static:   flags.Static,
		Extern:   flags.Extern,
		Test:     flags.Test,
		Doc:      flags.Doc,
	}

	// Method syntax: fn Type.method(...)
	if par.match(lexer.DOT_OP) {
		fn.Receiver = first.Literal
		if par.expect(lexer.IDENTIFIER_ID, "expected method name after '.'") {
			fn.Name = par.previous().Literal
		}
	}

	// Generic parameters: fn foo<T, U>(...)
	if par.match(lexer.LT_OP) {
		for {
			if !par.expect(lexer.IDENTIFIER_ID, "expected type parameter name") {
				break
			}
			fn.Generics = append(fn.Generics, par.previous().Literal)
			if !par.match(lexer.COMMA_DELIM) {
				break
			}
		}
		par.expect(lexer.GT_OP, "expected '>' after type parameters")
	}

	par.expect(lexer.LEFT_PAREN, "expected '('")

	if !par.check(lexer.RIGHT_PAREN) {
		for {
			// 'self' receiver parameter: only first, only in methods
			if par.check(lexer.SELF_KEY) {
				par.advance()
				fn.HasSelf = true
				if par.match(lexer.COMMA_DELIM) {
					continue
				}
				break
			}

			if !par.expect(lexer.IDENTIFIER_ID, "expected parameter name") {
				break
			}
			name := par.previous()
			par.expect(lexer.COLON_DELIM, "expected ':' after parameter name")
			param := Param{
				Name:     name.Literal,
				TypeName: par.parseTypeName(),
				Line:     name.Line,
				Column:   name.Column,
			}
			// Default value: = expression
			if par.match(lexer.ASSIGN_OP) {
				param.Default = par.parseExpression()
			}
			fn.Params = append(fn.Params, param)

			if !par.match(lexer.COMMA_DELIM) {
				break
			}
		}
	}
	par.expect(lexer.RIGHT_PAREN, "expected ')'")

	// Return type; main without one defaults to i32
	if par.match(lexer.ARROW_OP) {
		fn.ReturnType = par.parseTypeName()
	} else if fn.Name == "main" && fn.Receiver == "" {
		fn.ReturnType = "i32"
	} else {
		par.errorAt("expected '->' and return type")
		return nil
	}

	// Optional where clause: where T: A + B, U: C
	if par.match(lexer.WHERE_KEY) {
		for {
			clause := WhereClause{}
			if !par.expect(lexer.IDENTIFIER_ID, "expected type parameter in where clause") {
				break
			}
			clause.Param = par.previous().Literal
			par.expect(lexer.COLON_DELIM, "expected ':' after type parameter in where clause")
			for {
				if !par.expect(lexer.IDENTIFIER_ID, "expected trait name in where clause") {
					break
				}
				clause.Traits = append(clause.Traits, par.previous().Literal)
				if !par.match(lexer.PLUS_OP) {
					break
				}
			}
			fn.Where = append(fn.Where, clause)
			if !par.match(lexer.COMMA_DELIM) {
				break
			}
		}
	}

	if fn.Extern {
		// Extern functions have no body
		par.optionalSemicolon()
		return fn
	}

	fn.Body = par.parseBlock()
	if fn.Body == nil {
		return nil
	}
	return fn
}

// parseStructDecl parses a struct after the `struct` keyword: optional
// generics, then fields with required type and optional default value.
func (par *Parser) parseStructDecl(isPub bool, doc []string) Decl {
	if !par.expect(lexer.IDENTIFIER_ID, "expected struct name") {
		return nil
	}
	name := par.previous()

	s := &StructDecl{
		Position: Position{name.Line, name.Column},
		Name:     name.Literal,
		Pub:      isPub,
		Doc:      doc,
	}

	if par.match(lexer.LT_OP) {
		for {
			if !par.expect(lexer.IDENTIFIER_ID, "expected type parameter name") {
				break
			}
			s.Generics = append(s.Generics, par.previous().Literal)
			if !par.match(lexer.COMMA_DELIM) {
				break
			}
		}
		par.expect(lexer.GT_OP, "expected '>' after type parameters")
	}

	par.expect(lexer.LEFT_BRACE, "expected '{' after struct name")

	for !par.check(lexer.RIGHT_BRACE) && !par.isAtEnd() {
		fieldPub := par.match(lexer.PUB_KEY)
		if !par.expect(lexer.IDENTIFIER_ID, "expected field name") {
			break
		}
		fieldName := par.previous()
		par.expect(lexer.COLON_DELIM, "expected ':' after field name")
		field := StructField{
			Name:     fieldName.Literal,
			TypeName: par.parseTypeName(),
			Pub:      fieldPub,
			Line:     fieldName.Line,
			Column:   fieldName.Column,
		}
		if par.match(lexer.ASSIGN_OP) {
			field.Default = par.parseExpression()
		}
		s.Fields = append(s.Fields, field)

		// Comma or semicolon separate fields; both optional before '}'
		if !par.match(lexer.COMMA_DELIM) && !par.match(lexer.SEMICOLON_DELIM) {
			if !par.check(lexer.RIGHT_BRACE) {
				par.errorAt("expected ',' or '}' after field")
				break
			}
		}
	}

	par.expect(lexer.RIGHT_BRACE, "expected '}' after struct fields")
	return s
}

// parseEnumDecl parses an enum (or its `variant` synonym): unit variants,
// tuple variants Name(T1, T2), struct variants Name { f: T } and explicit
// discriminants Name = N.
func (par *Parser) parseEnumDecl(isPub bool, doc []string) Decl {
	if !par.expect(lexer.IDENTIFIER_ID, "expected enum name") {
		return nil
	}
	name := par.previous()

	e := &EnumDecl{
		Position: Position{name.Line, name.Column},
		Name:     name.Literal,
		Pub:      isPub,
		Doc:      doc,
	}

	if par.match(lexer.LT_OP) {
		for {
			if !par.expect(lexer.IDENTIFIER_ID, "expected type parameter name") {
				break
			}
			e.Generics = append(e.Generics, par.previous().Literal)
			if !par.match(lexer.COMMA_DELIM) {
				break
			}
		}
		par.expect(lexer.GT_OP, "expected '>' after type parameters")
	}

	par.expect(lexer.LEFT_BRACE, "expected '{' after enum name")

	var nextValue int64
	for !par.check(lexer.RIGHT_BRACE) && !par.isAtEnd() {
		if !par.expect(lexer.IDENTIFIER_ID, "expected variant name") {
			break
		}
		nameTok := par.previous()
		variant := EnumVariant{
			Name:         nameTok.Literal,
			Discriminant: nextValue,
			Line:         nameTok.Line,
			Column:       nameTok.Column,
		}

		if par.match(lexer.LEFT_PAREN) {
			// Tuple variant: Variant(T1, T2)
			if !par.check(lexer.RIGHT_PAREN) {
				for {
					variant.TupleTypes = append(variant.TupleTypes, par.parseTypeName())
					if !par.match(lexer.COMMA_DELIM) {
						break
					}
				}
			}
			par.expect(lexer.RIGHT_PAREN, "expected ')' after tuple variant types")
		} else if par.match(lexer.LEFT_BRACE) {
			// Struct variant: Variant { field: Type, ... }
			for !par.check(lexer.RIGHT_BRACE) && !par.isAtEnd() {
				if !par.expect(lexer.IDENTIFIER_ID, "expected field name in struct variant") {
					break
				}
				fieldName := par.previous()
				par.expect(lexer.COLON_DELIM, "expected ':' after field name")
				variant.Fields = append(variant.Fields, StructField{
					Name:     fieldName.Literal,
					TypeName: par.parseTypeName(),
					Line:     fieldName.Line,
					Column:   fieldName.Column,
				})
				if !par.check(lexer.RIGHT_BRACE) {
					par.expect(lexer.COMMA_DELIM, "expected ',' after struct variant field")
				} else {
					par.match(lexer.COMMA_DELIM)
				}
			}
			par.expect(lexer.RIGHT_BRACE, "expected '}' after struct variant fields")
		} else if par.match(lexer.ASSIGN_OP) {
			// Explicit discriminant: Variant = 10
			if par.expect(lexer.INT_LIT, "expected integer value for enum variant") {
				variant.HasDiscriminant = true
				variant.Discriminant = parseIntLiteral(par.previous().Literal)
				nextValue = variant.Discriminant
			}
		}

		e.Variants = append(e.Variants, variant)
		nextValue++

		if !par.check(lexer.RIGHT_BRACE) {
			par.expect(lexer.COMMA_DELIM, "expected ',' after enum variant")
		} else {
			par.match(lexer.COMMA_DELIM)
		}
	}

	par.expect(lexer.RIGHT_BRACE, "expected '}' after enum variants")
	return e
}

// parseTraitDecl parses a trait body: associated type declarations and
// method signatures with optional default bodies.
func (par *Parser) parseTraitDecl(isPub bool, doc []string) Decl {
	if !par.expect(lexer.IDENTIFIER_ID, "expected trait name") {
		return nil
	}
	name := par.previous()

	trait := &TraitDecl{
		Position: Position{name.Line, name.Column},
		Name:     name.Literal,
		Pub:      isPub,
		Doc:      doc,
	}

	par.expect(lexer.LEFT_BRACE, "expected '{' after trait name")

	for !par.check(lexer.RIGHT_BRACE) && !par.isAtEnd() {
		// Associated type: type Item;
		if par.match(lexer.TYPE_KEY) {
			if par.expect(lexer.IDENTIFIER_ID, "expected associated type name") {
				trait.AssocTypes = append(trait.AssocTypes, par.previous().Literal)
			}
			par.optionalSemicolon()
			continue
		}

		if !par.expect(lexer.FN_KEY, "expected 'fn' or 'type' in trait body") {
			break
		}
		if !par.expect(lexer.IDENTIFIER_ID, "expected method name") {
			break
		}
		methodName := par.previous()
		method := &FunctionDecl{
			Position: Position{methodName.Line, methodName.Column},
			Name:     methodName.Literal,
			Receiver: trait.Name,
		}

		par.expect(lexer.LEFT_PAREN, "expected '('")
		if !par.check(lexer.RIGHT_PAREN) {
			for {
				if par.check(lexer.SELF_KEY) {
					par.advance()
					method.HasSelf = true
					if !par.check(lexer.RIGHT_PAREN) && !par.check(lexer.COMMA_DELIM) {
						par.errorAt("'self' must be first parameter")
					}
				} else {
					if !par.expect(lexer.IDENTIFIER_ID, "expected parameter name") {
						break
					}
					pName := par.previous()
					par.expect(lexer.COLON_DELIM, "expected ':' after parameter name")
					method.Params = append(method.Params, Param{
						Name:     pName.Literal,
						TypeName: par.parseTypeName(),
						Line:     pName.Line,
						Column:   pName.Column,
					})
				}
				if !par.match(lexer.COMMA_DELIM) {
					break
				}
			}
		}
		par.expect(lexer.RIGHT_PAREN, "expected ')'")
		par.expect(lexer.ARROW_OP, "expected '->'")
		method.ReturnType = par.parseTypeName()

		// Optional default implementation
		if par.check(lexer.LEFT_BRACE) {
			method.Body = par.parseBlock()
		} else {
			par.optionalSemicolon()
		}

		trait.Methods = append(trait.Methods, method)
	}

	par.expect(lexer.RIGHT_BRACE, "expected '}' after trait methods")
	return trait
}

// parseImplDecl parses `impl Trait for Type { ... }` or the inherent form
// `impl Type { ... }`; bodies contain associated type assignments,
// constants and methods (optionally `static`).
func (par *Parser) parseImplDecl() Decl {
	if !par.expect(lexer.IDENTIFIER_ID, "expected trait or type name") {
		return nil
	}
	first := par.previous()

	impl := &ImplDecl{Position: Position{first.Line, first.Column}}

	if par.match(lexer.FOR_KEY) {
		impl.TraitName = first.Literal
		if par.expect(lexer.IDENTIFIER_ID, "expected type name after 'for'") {
			impl.TypeName = par.previous().Literal
		}
	} else {
		impl.TypeName = first.Literal
	}

	par.expect(lexer.LEFT_BRACE, "expected '{' after impl")

	for !par.check(lexer.RIGHT_BRACE) && !par.isAtEnd() {
		// Associated type assignment: type Item = ConcreteType;
		if par.match(lexer.TYPE_KEY) {
			if !par.expect(lexer.IDENTIFIER_ID, "expected associated type name") {
				continue
			}
			nameTok := par.previous()
			par.expect(lexer.ASSIGN_OP, "expected '=' after associated type name")
			impl.AssocTypes = append(impl.AssocTypes, AssocTypeBinding{
				Name:     nameTok.Literal,
				TypeName: par.parseTypeName(),
				Line:     nameTok.Line,
				Column:   nameTok.Column,
			})
			par.optionalSemicolon()
			continue
		}

		// Constant: const NAME: Type = value;
		if par.match(lexer.CONST_KEY) {
			if !par.expect(lexer.IDENTIFIER_ID, "expected constant name") {
				continue
			}
			nameTok := par.previous()
			par.expect(lexer.COLON_DELIM, "expected ':' after constant name")
			typeName := par.parseTypeName()
			par.expect(lexer.ASSIGN_OP, "expected '=' after constant type")
			value := par.parseExpression()
			par.optionalSemicolon()
			impl.Consts = append(impl.Consts, &GlobalDecl{
				Position: Position{nameTok.Line, nameTok.Column},
				Name:     nameTok.Literal,
				TypeName: typeName,
				Value:    value,
			})
			continue
		}

		isStatic := par.match(lexer.STATIC_KEY)
		if !par.expect(lexer.FN_KEY, "expected 'fn', 'const', 'type', or 'static' in impl block") {
			break
		}
		fn := par.parseFunctionDecl(fnFlags{})
		if fn != nil {
			if method, ok := fn.(*FunctionDecl); ok {
				method.Receiver = impl.TypeName
				method.Static = isStatic
				impl.Methods = append(impl.Methods, method)
			}
		}
	}

	par.expect(lexer.RIGHT_BRACE, "expected '}' after impl methods")
	return impl
}

// parseTypeAliasDecl parses `type Name = Target`.
func (par *Parser) parseTypeAliasDecl(isPub bool, doc []string) Decl {
	nameTok := par.peek()
	if !par.expect(lexer.IDENTIFIER_ID, "expected type alias name") {
		return nil
	}
	name := par.previous().Literal
	par.expect(lexer.ASSIGN_OP, "expected '=' after type alias name")
	target := par.parseTypeName()
	par.optionalSemicolon()
	return &TypeAliasDecl{
		Position: Position{nameTok.Line, nameTok.Column},
		Name:     name,
		Target:   target,
		Pub:      isPub,
		Doc:      doc,
	}
}

// parseGlobalDecl parses a top-level constant or global variable:
// `const NAME: T = expr` / `NAME: T = expr`.
func (par *Parser) parseGlobalDecl(isPub, mutable bool, doc []string) Decl {
	if !par.expect(lexer.IDENTIFIER_ID, "expected name") {
		return nil
	}
	nameTok := par.previous()
	typeName := "auto"
	if par.match(lexer.COLON_DELIM) {
		typeName = par.parseTypeName()
	}
	par.expect(lexer.ASSIGN_OP, "expected '='")
	value := par.parseExpression()
	par.optionalSemicolon()
	return &GlobalDecl{
		Position: Position{nameTok.Line, nameTok.Column},
		Name:     nameTok.Literal,
		TypeName: typeName,
		Value:    value,
		Mutable:  mutable,
		Pub:      isPub,
		Doc:      doc,
	}
}
