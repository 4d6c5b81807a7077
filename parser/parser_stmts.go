/*
File    : mana/parser/parser_stmts.go
*/
package parser

import (
	"strconv"

	"github.com/mana-lang/mana/lexer"
)

// parseBlock parses a braced statement sequence. A failing statement
// triggers statement-level synchronization and parsing continues.
func (par *Parser) parseBlock() *BlockStmt {
	tok := par.peek()
	if !par.expect(lexer.LEFT_BRACE, "expected '{'") {
		return nil
	}
	block := &BlockStmt{Position: Position{tok.Line, tok.Column}}

	for !par.check(lexer.RIGHT_BRACE) && !par.isAtEnd() {
		stmt := par.parseStatement()
		if stmt == nil {
			par.synchronizeStatement()
			continue
		}
		block.Statements = append(block.Statements, stmt)
	}

	par.expect(lexer.RIGHT_BRACE, "expected '}'")
	return block
}

// compoundOps maps compound-assignment token types to the underlying
// binary operator used in the desugared form.
var compoundOps = map[lexer.TokenType]string{
	lexer.PLUS_ASSIGN:      "+",
	lexer.MINUS_ASSIGN:     "-",
	lexer.MUL_ASSIGN:       "*",
	lexer.DIV_ASSIGN:       "/",
	lexer.MOD_ASSIGN:       "%",
	lexer.POW_ASSIGN:       "**",
	lexer.BIT_AND_ASSIGN:   "&",
	lexer.BIT_OR_ASSIGN:    "|",
	lexer.BIT_XOR_ASSIGN:   "^",
	lexer.BIT_LEFT_ASSIGN:  "<<",
	lexer.BIT_RIGHT_ASSIGN: ">>",
}

// parseStatement dispatches on the current token to the statement parsers,
// with a dedicated lookahead sequence for declarations, assignments,
// compound assignments, ++/-- and destructuring forms.
func (par *Parser) parseStatement() Stmt {
	if par.match(lexer.IF_KEY) {
		return par.parseIfStatement()
	}
	if par.match(lexer.WHILE_KEY) {
		return par.parseWhileStatement()
	}
	if par.match(lexer.LOOP_KEY) {
		return par.parseLoopStatement()
	}
	if par.match(lexer.FOR_KEY) {
		return par.parseForStatement()
	}
	if par.match(lexer.RETURN_KEY) {
		return par.parseReturnStatement()
	}
	if par.match(lexer.BREAK_KEY) {
		return par.parseBreakStatement()
	}
	if par.match(lexer.CONTINUE_KEY) {
		tok := par.previous()
		par.optionalSemicolon()
		return &ContinueStmt{Position: Position{tok.Line, tok.Column}}
	}
	if par.match(lexer.DEFER_KEY) {
		tok := par.previous()
		body := par.parseBlock()
		return &DeferStmt{Position: Position{tok.Line, tok.Column}, Body: body}
	}
	if par.match(lexer.SCOPE_KEY) {
		return par.parseScopeStatement()
	}
	if par.match(lexer.LET_KEY) {
		return par.parseLetStatement()
	}
	if par.match(lexer.CONST_KEY) {
		return par.parseConstStatement()
	}

	// Struct destructuring: {a, b, c}: Type = expr
	if par.check(lexer.LEFT_BRACE) && par.looksLikeStructDestructure() {
		return par.parseDestructureStatement(true)
	}

	// Array destructuring: [a, b, c]: [N]Type = expr
	// (distinguished from an array-literal expression by the ':' after ']')
	if par.check(lexer.LEFT_BRACKET) && par.checkNext(lexer.IDENTIFIER_ID) {
		scan := par.Pos + 2
		for scan < len(par.Tokens) && par.tokenAt(scan) != lexer.RIGHT_BRACKET {
			scan++
		}
		if par.tokenAt(scan+1) == lexer.COLON_DELIM {
			return par.parseDestructureStatement(false)
		}
	}

	// Declaration: name: Type = expr
	if par.check(lexer.IDENTIFIER_ID) && par.checkNext(lexer.COLON_DELIM) {
		return par.parseVarDeclStatement()
	}

	// Assignment: name = expr
	if par.check(lexer.IDENTIFIER_ID) && par.checkNext(lexer.ASSIGN_OP) {
		return par.parseAssignStatement()
	}

	// Increment/decrement: name++ / name-- desugar to name = name +/- 1
	if par.check(lexer.IDENTIFIER_ID) &&
		(par.checkNext(lexer.INCR_OP) || par.checkNext(lexer.DECR_OP)) {
		name := par.advance()
		op := "+"
		if par.advance().Type == lexer.DECR_OP {
			op = "-"
		}
		par.optionalSemicolon()
		return desugarCompound(name, op, &LiteralExpr{
			Position: Position{name.Line, name.Column}, Value: "1", Kind: LitInt,
		})
	}

	// Compound assignment: name op= expr desugars to name = name op expr
	if par.check(lexer.IDENTIFIER_ID) {
		if op, ok := compoundOps[par.tokenAt(par.Pos+1)]; ok {
			name := par.advance()
			par.advance() // the compound operator
			rhs := par.parseExpression()
			par.optionalSemicolon()
			return desugarCompound(name, op, rhs)
		}
	}

	// Block as statement
	if par.check(lexer.LEFT_BRACE) {
		return par.parseBlock()
	}

	// Member or index assignment: expr.field = value / v[i] = value.
	// Parse the lhs as a postfix expression, then look for '='.
	if par.check(lexer.IDENTIFIER_ID) || par.check(lexer.SELF_KEY) {
		saved := par.Pos
		lhs := par.parsePostfix()

		if par.match(lexer.ASSIGN_OP) {
			rhs := par.parseExpression()
			par.optionalSemicolon()
			line, column := lhs.Pos()
			assign := &AssignStmt{Position: Position{line, column}, Value: rhs, Op: "="}
			if id, ok := lhs.(*IdentifierExpr); ok {
				assign.TargetName = id.Name
			} else {
				assign.TargetExpr = lhs
			}
			return assign
		}

		// Not an assignment: rewind and parse as an expression statement
		par.Pos = saved
	}

	return par.parseExpressionStatement()
}

// desugarCompound builds `name = name op rhs` at the name's position.
func desugarCompound(name lexer.Token, op string, rhs Expr) Stmt {
	pos := Position{name.Line, name.Column}
	return &AssignStmt{
		Position:   pos,
		TargetName: name.Literal,
		Op:         "=",
		Value: &BinaryExpr{
			Position: pos,
			Op:       op,
			Left:     &IdentifierExpr{Position: pos, Name: name.Literal},
			Right:    rhs,
		},
	}
}

// looksLikeStructDestructure scans ahead from a '{' for the shape
// `{ident, ident, ...}:` so a leading block statement is not misread.
func (par *Parser) looksLikeStructDestructure() bool {
	scan := par.Pos + 1
	for {
		if par.tokenAt(scan) != lexer.IDENTIFIER_ID {
			return false
		}
		scan++
		if par.tokenAt(scan) == lexer.COMMA_DELIM {
			scan++
			continue
		}
		break
	}
	if par.tokenAt(scan) != lexer.RIGHT_BRACE {
		return false
	}
	return par.tokenAt(scan+1) == lexer.COLON_DELIM
}

// parseVarDeclStatement parses `name: Type = expr`.
func (par *Parser) parseVarDeclStatement() Stmt {
	par.expect(lexer.IDENTIFIER_ID, "expected variable name")
	name := par.previous()
	par.expect(lexer.COLON_DELIM, "expected ':'")
	typeName := par.parseTypeName()
	par.expect(lexer.ASSIGN_OP, "expected '='")
	init := par.parseExpression()
	par.optionalSemicolon()

	return &VarDeclStmt{
		Position: Position{name.Line, name.Column},
		Name:     name.Literal,
		TypeName: typeName,
		Init:     init,
		Mutable:  true,
	}
}

// parseLetStatement parses the let forms, including tuple destructuring
// `let (a, b) = expr` and the explicit (redundant) `let mut`.
func (par *Parser) parseLetStatement() Stmt {
	par.match(lexer.MUT_KEY)

	// Tuple destructuring: let (a, b, c) = ...
	if par.match(lexer.LEFT_PAREN) {
		tok := par.previous()
		ds := &DestructureStmt{
			Position: Position{tok.Line, tok.Column},
			IsTuple:  true,
		}
		index := 0
		if !par.check(lexer.RIGHT_PAREN) {
			for {
				if !par.expect(lexer.IDENTIFIER_ID, "expected variable name in tuple pattern") {
					break
				}
				name := par.previous()
				ds.Bindings = append(ds.Bindings, DestructureBinding{
					Name:      name.Literal,
					FieldName: strconv.Itoa(index),
					Line:      name.Line,
					Column:    name.Column,
				})
				index++
				if !par.match(lexer.COMMA_DELIM) {
					break
				}
			}
		}
		par.expect(lexer.RIGHT_PAREN, "expected ')' after tuple pattern")

		ds.TypeName = "auto"
		if par.match(lexer.COLON_DELIM) {
			ds.TypeName = par.parseTypeName()
		}
		par.expect(lexer.ASSIGN_OP, "expected '='")
		ds.Init = par.parseExpression()
		par.optionalSemicolon()
		return ds
	}

	if !par.expect(lexer.IDENTIFIER_ID, "expected variable name after 'let'") {
		return nil
	}
	name := par.previous()

	typeName := "auto"
	if par.match(lexer.COLON_DELIM) {
		typeName = par.parseTypeName()
	}
	par.expect(lexer.ASSIGN_OP, "expected '='")
	init := par.parseExpression()
	par.optionalSemicolon()

	return &VarDeclStmt{
		Position: Position{name.Line, name.Column},
		Name:     name.Literal,
		TypeName: typeName,
		Init:     init,
		Mutable:  true,
	}
}

// parseConstStatement parses `const name[: type] = expr` (immutable).
func (par *Parser) parseConstStatement() Stmt {
	if !par.expect(lexer.IDENTIFIER_ID, "expected variable name after 'const'") {
		return nil
	}
	name := par.previous()

	typeName := "auto"
	if par.match(lexer.COLON_DELIM) {
		typeName = par.parseTypeName()
	}
	par.expect(lexer.ASSIGN_OP, "expected '='")
	init := par.parseExpression()
	par.optionalSemicolon()

	return &VarDeclStmt{
		Position: Position{name.Line, name.Column},
		Name:     name.Literal,
		TypeName: typeName,
		Init:     init,
		Mutable:  false,
	}
}

// parseAssignStatement parses `name = expr`.
func (par *Parser) parseAssignStatement() Stmt {
	par.expect(lexer.IDENTIFIER_ID, "expected assignment target")
	name := par.previous()
	par.expect(lexer.ASSIGN_OP, "expected '='")
	rhs := par.parseExpression()
	par.optionalSemicolon()

	return &AssignStmt{
		Position:   Position{name.Line, name.Column},
		TargetName: name.Literal,
		Value:      rhs,
		Op:         "=",
	}
}

// parseDestructureStatement parses `{a, b}: Type = expr` (isStruct) or
// `[a, b]: [N]Type = expr`.
func (par *Parser) parseDestructureStatement(isStruct bool) Stmt {
	tok := par.peek()
	ds := &DestructureStmt{
		Position: Position{tok.Line, tok.Column},
		IsStruct: isStruct,
	}

	if isStruct {
		par.expect(lexer.LEFT_BRACE, "expected '{' for struct destructuring")
		for !par.check(lexer.RIGHT_BRACE) && !par.isAtEnd() {
			if !par.expect(lexer.IDENTIFIER_ID, "expected field name") {
				break
			}
			name := par.previous()
			ds.Bindings = append(ds.Bindings, DestructureBinding{
				Name:      name.Literal,
				FieldName: name.Literal,
				Line:      name.Line,
				Column:    name.Column,
			})
			if !par.match(lexer.COMMA_DELIM) {
				break
			}
		}
		par.expect(lexer.RIGHT_BRACE, "expected '}' after destructuring pattern")
	} else {
		par.expect(lexer.LEFT_BRACKET, "expected '[' for array destructuring")
		index := 0
		for !par.check(lexer.RIGHT_BRACKET) && !par.isAtEnd() {
			if !par.expect(lexer.IDENTIFIER_ID, "expected variable name") {
				break
			}
			name := par.previous()
			ds.Bindings = append(ds.Bindings, DestructureBinding{
				Name:      name.Literal,
				FieldName: strconv.Itoa(index),
				Line:      name.Line,
				Column:    name.Column,
			})
			index++
			if !par.match(lexer.COMMA_DELIM) {
				break
			}
		}
		par.expect(lexer.RIGHT_BRACKET, "expected ']' after destructuring pattern")
	}

	par.expect(lexer.COLON_DELIM, "expected ':' after destructuring pattern")
	ds.TypeName = par.parseTypeName()
	par.expect(lexer.ASSIGN_OP, "expected '=' in destructuring statement")
	ds.Init = par.parseExpression()
	par.optionalSemicolon()
	return ds
}

// parseScopeStatement parses `scope name = expr` and the block form
// `scope name { ... }`.
func (par *Parser) parseScopeStatement() Stmt {
	if !par.expect(lexer.IDENTIFIER_ID, "expected scope name") {
		return nil
	}
	name := par.previous()
	s := &ScopeStmt{Position: Position{name.Line, name.Column}, Name: name.Literal}

	if par.check(lexer.LEFT_BRACE) {
		s.Body = par.parseBlock()
		return s
	}

	par.expect(lexer.ASSIGN_OP, "expected '='")
	init := par.parseExpression()
	par.optionalSemicolon()
	s.Body = &BlockStmt{
		Position: s.Position,
		Statements: []Stmt{&ExprStmt{
			Position: s.Position,
			Expr:     init,
		}},
	}
	return s
}

// parseReturnStatement parses `return [expr]`.
func (par *Parser) parseReturnStatement() Stmt {
	tok := par.previous()
	r := &ReturnStmt{Position: Position{tok.Line, tok.Column}}
	if !par.check(lexer.SEMICOLON_DELIM) && !par.check(lexer.RIGHT_BRACE) {
		r.Value = par.parseExpression()
	}
	par.optionalSemicolon()
	return r
}

// parseBreakStatement parses `break [expr]`; the value is optional and a
// following statement keyword ends the break.
func (par *Parser) parseBreakStatement() Stmt {
	tok := par.previous()
	b := &BreakStmt{Position: Position{tok.Line, tok.Column}}
	switch par.peek().Type {
	case lexer.SEMICOLON_DELIM, lexer.RIGHT_BRACE,
		lexer.LET_KEY, lexer.RETURN_KEY, lexer.IF_KEY, lexer.WHILE_KEY,
		lexer.FOR_KEY, lexer.BREAK_KEY, lexer.CONTINUE_KEY:
	default:
		b.Value = par.parseExpression()
	}
	par.optionalSemicolon()
	return b
}

// parseCondition parses a control-flow head expression. An identifier
// immediately followed by '{' is taken as the identifier (the brace opens
// the body), and struct literals are not parsed at the top level.
func (par *Parser) parseCondition() Expr {
	if par.check(lexer.IDENTIFIER_ID) && par.checkNext(lexer.LEFT_BRACE) {
		tok := par.advance()
		return &IdentifierExpr{Position: Position{tok.Line, tok.Column}, Name: tok.Literal}
	}
	return par.parseLogicalOr()
}

// parseIfStatement parses `if cond { ... } [else ...]` and the if-let form
// `if let Some(x) = expr { ... }`.
func (par *Parser) parseIfStatement() Stmt {
	tok := par.previous()
	stmt := &IfStmt{Position: Position{tok.Line, tok.Column}}

	if par.match(lexer.LET_KEY) {
		stmt.IsIfLet = true
		if par.check(lexer.NONE_KEY) {
			par.advance()
			stmt.PatternKind = "None"
		} else if par.expect(lexer.IDENTIFIER_ID, "expected pattern name (Some, Ok, Err, None)") {
			stmt.PatternKind = par.previous().Literal
		}
		if par.match(lexer.LEFT_PAREN) {
			if par.expect(lexer.IDENTIFIER_ID, "expected variable name in pattern") {
				stmt.PatternVar = par.previous().Literal
			}
			par.expect(lexer.RIGHT_PAREN, "expected ')' after pattern variable")
		}
		par.expect(lexer.ASSIGN_OP, "expected '=' after pattern")
		stmt.PatternExpr = par.parseCondition()
	} else {
		stmt.Condition = par.parseCondition()
	}

	stmt.Then = par.parseBlock()

	if par.match(lexer.ELSE_KEY) {
		if par.match(lexer.IF_KEY) {
			stmt.Else = par.parseIfStatement()
		} else {
			stmt.Else = par.parseBlock()
		}
	}

	return stmt
}

// parseWhileStatement parses `while cond { ... }` and the while-let form.
func (par *Parser) parseWhileStatement() Stmt {
	tok := par.previous()
	stmt := &WhileStmt{Position: Position{tok.Line, tok.Column}}

	if par.match(lexer.LET_KEY) {
		stmt.IsWhileLet = true
		if par.check(lexer.NONE_KEY) {
			par.advance()
			stmt.PatternKind = "None"
		} else if par.expect(lexer.IDENTIFIER_ID, "expected pattern name (Some, Ok, Err)") {
			stmt.PatternKind = par.previous().Literal
		}
		if par.match(lexer.LEFT_PAREN) {
			if par.expect(lexer.IDENTIFIER_ID, "expected variable name in pattern") {
				stmt.PatternVar = par.previous().Literal
			}
			par.expect(lexer.RIGHT_PAREN, "expected ')' after pattern variable")
		}
		par.expect(lexer.ASSIGN_OP, "expected '=' after pattern")
		stmt.PatternExpr = par.parseCondition()
	} else {
		stmt.Condition = par.parseCondition()
	}

	stmt.Body = par.parseBlock()
	return stmt
}

// parseLoopStatement parses `loop { ... }`.
func (par *Parser) parseLoopStatement() Stmt {
	tok := par.previous()
	return &LoopStmt{
		Position: Position{tok.Line, tok.Column},
		Body:     par.parseBlock(),
	}
}

// parseForStatement parses the three for forms: destructuring for-in
// `for (k, v) in pairs`, simple for-in `for x in xs`, and the numeric
// three-part loop `for init; cond; step { ... }`.
func (par *Parser) parseForStatement() Stmt {
	tok := par.previous()
	pos := Position{tok.Line, tok.Column}

	// Destructuring for-in: for (key, value) in iterable { body }
	if par.check(lexer.LEFT_PAREN) {
		par.advance()
		var names []string
		for !par.check(lexer.RIGHT_PAREN) && !par.isAtEnd() {
			if !par.expect(lexer.IDENTIFIER_ID, "expected variable name in destructuring") {
				break
			}
			names = append(names, par.previous().Literal)
			if !par.match(lexer.COMMA_DELIM) {
				break
			}
		}
		par.expect(lexer.RIGHT_PAREN, "expected ')' after destructuring pattern")
		par.expect(lexer.IN_KEY, "expected 'in' after destructuring pattern")
		iterable := par.parseCondition()
		body := par.parseBlock()
		return &ForInStmt{
			Position:      pos,
			VarNames:      names,
			IsDestructure: true,
			Iterable:      iterable,
			Body:          body,
		}
	}

	// Simple for-in: for x in iterable { body }
	if par.check(lexer.IDENTIFIER_ID) && par.checkNext(lexer.IN_KEY) {
		par.advance()
		name := par.previous()
		par.advance() // 'in'
		iterable := par.parseCondition()
		body := par.parseBlock()
		return &ForInStmt{
			Position: pos,
			VarName:  name.Literal,
			Iterable: iterable,
			Body:     body,
		}
	}

	// Three-part loop: for i: i32 = 0; i < 10; i++ { body }
	var init Stmt
	if par.check(lexer.IDENTIFIER_ID) && par.checkNext(lexer.COLON_DELIM) {
		par.advance()
		name := par.previous()
		par.advance() // ':'
		typeName := par.parseTypeName()
		par.expect(lexer.ASSIGN_OP, "expected '='")
		init = &VarDeclStmt{
			Position: Position{name.Line, name.Column},
			Name:     name.Literal,
			TypeName: typeName,
			Init:     par.parseExpression(),
			Mutable:  true,
		}
	} else if par.check(lexer.IDENTIFIER_ID) && par.checkNext(lexer.ASSIGN_OP) {
		par.advance()
		name := par.previous()
		par.advance() // '='
		init = &AssignStmt{
			Position:   Position{name.Line, name.Column},
			TargetName: name.Literal,
			Value:      par.parseExpression(),
			Op:         "=",
		}
	}
	par.expect(lexer.SEMICOLON_DELIM, "expected ';' after for init")

	cond := par.parseExpression()
	par.expect(lexer.SEMICOLON_DELIM, "expected ';' after for condition")

	var step Stmt
	if par.check(lexer.IDENTIFIER_ID) {
		next := par.tokenAt(par.Pos + 1)
		switch {
		case next == lexer.ASSIGN_OP:
			name := par.advance()
			par.advance() // '='
			step = &AssignStmt{
				Position:   Position{name.Line, name.Column},
				TargetName: name.Literal,
				Value:      par.parseExpression(),
				Op:         "=",
			}
		case next == lexer.INCR_OP || next == lexer.DECR_OP:
			name := par.advance()
			op := "+"
			if par.advance().Type == lexer.DECR_OP {
				op = "-"
			}
			step = desugarCompound(name, op, &LiteralExpr{
				Position: Position{name.Line, name.Column}, Value: "1", Kind: LitInt,
			})
		default:
			if op, ok := compoundOps[next]; ok {
				name := par.advance()
				par.advance() // the compound operator
				step = desugarCompound(name, op, par.parseExpression())
			}
		}
	}

	body := par.parseBlock()
	return &ForStmt{Position: pos, Init: init, Condition: cond, Step: step, Body: body}
}

// parseExpressionStatement wraps an expression as a statement.
func (par *Parser) parseExpressionStatement() Stmt {
	tok := par.peek()
	expr := par.parseExpression()
	par.optionalSemicolon()
	return &ExprStmt{Position: Position{tok.Line, tok.Column}, Expr: expr}
}
