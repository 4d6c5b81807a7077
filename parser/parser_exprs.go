/*
File    : mana/parser/parser_exprs.go
*/
package parser

import (
	"strconv"

	"github.com/mana-lang/mana/lexer"
)

// Expression grammar, precedence low to high:
//
//	or-control-flow
//	?? (null coalesce)
//	|| (logical or)
//	&& (logical and)
//	|  (bitwise or)
//	^  (bitwise xor)
//	&  (bitwise and)
//	== !=
//	<  <=  >  >=
//	<< >>  (with .. / ..= ranges peeled off at the same level)
//	+  -
//	*  /  %  (with right-associative ** one tier higher)
//	unary  !  -  ~  &  &mut  *
//	postfix  call index slice member tuple-index .await ?. ? as
//	primary

// parseExpression parses a full expression at the lowest precedence.
func (par *Parser) parseExpression() Expr {
	return par.parseOrControlFlow()
}

// parseOrControlFlow parses `expr or fallback` where the fallback is a
// block, a diverging statement (return/break/continue) or a default value.
func (par *Parser) parseOrControlFlow() Expr {
	left := par.parseNullCoalesce()

	if par.match(lexer.OR_KEY) {
		tok := par.previous()
		orExpr := &OrElseExpr{Position: Position{tok.Line, tok.Column}, Lhs: left}

		switch {
		case par.check(lexer.LEFT_BRACE):
			orExpr.FallbackBlock = par.parseBlock()
		case par.match(lexer.RETURN_KEY):
			retTok := par.previous()
			ret := &ReturnStmt{Position: Position{retTok.Line, retTok.Column}}
			if !par.check(lexer.SEMICOLON_DELIM) && !par.check(lexer.RIGHT_BRACE) {
				ret.Value = par.parseExpression()
			}
			orExpr.FallbackStmt = ret
		case par.match(lexer.BREAK_KEY):
			brTok := par.previous()
			orExpr.FallbackStmt = &BreakStmt{Position: Position{brTok.Line, brTok.Column}}
		case par.match(lexer.CONTINUE_KEY):
			coTok := par.previous()
			orExpr.FallbackStmt = &ContinueStmt{Position: Position{coTok.Line, coTok.Column}}
		default:
			orExpr.DefaultExpr = par.parseNullCoalesce()
		}
		return orExpr
	}

	return left
}

// parseNullCoalesce parses `option ?? default`, left-associative.
func (par *Parser) parseNullCoalesce() Expr {
	left := par.parseLogicalOr()
	for par.match(lexer.NULL_COALESCE_OP) {
		tok := par.previous()
		right := par.parseLogicalOr()
		left = &NullCoalesceExpr{
			Position: Position{tok.Line, tok.Column},
			Option:   left,
			Default:  right,
		}
	}
	return left
}

// binaryTier builds one left-associative binary precedence tier.
func (par *Parser) binaryTier(next func() Expr, kinds ...lexer.TokenType) Expr {
	left := next()
	for {
		matched := false
		for _, kind := range kinds {
			if par.match(kind) {
				matched = true
				break
			}
		}
		if !matched {
			return left
		}
		op := par.previous()
		right := next()
		left = &BinaryExpr{
			Position: Position{op.Line, op.Column},
			Op:       op.Literal,
			Left:     left,
			Right:    right,
		}
	}
}

func (par *Parser) parseLogicalOr() Expr {
	return par.binaryTier(par.parseLogicalAnd, lexer.OR_OP)
}

func (par *Parser) parseLogicalAnd() Expr {
	return par.binaryTier(par.parseBitwiseOr, lexer.AND_OP)
}

func (par *Parser) parseBitwiseOr() Expr {
	return par.binaryTier(par.parseBitwiseXor, lexer.BIT_OR_OP)
}

func (par *Parser) parseBitwiseXor() Expr {
	return par.binaryTier(par.parseBitwiseAnd, lexer.BIT_XOR_OP)
}

func (par *Parser) parseBitwiseAnd() Expr {
	return par.binaryTier(par.parseEquality, lexer.BIT_AND_OP)
}

func (par *Parser) parseEquality() Expr {
	return par.binaryTier(par.parseRelational, lexer.EQ_OP, lexer.NE_OP)
}

func (par *Parser) parseRelational() Expr {
	return par.binaryTier(par.parseShift, lexer.LT_OP, lexer.LE_OP, lexer.GT_OP, lexer.GE_OP)
}

// parseShift parses << and >>; ranges live at the same level and are
// peeled off into a RangeExpr when .. or ..= follows the left operand.
func (par *Parser) parseShift() Expr {
	left := par.parseAdditive()

	if par.check(lexer.RANGE_OP) || par.check(lexer.RANGE_INCL_OP) {
		inclusive := par.check(lexer.RANGE_INCL_OP)
		tok := par.advance()
		right := par.parseAdditive()
		return &RangeExpr{
			Position:  Position{tok.Line, tok.Column},
			Start:     left,
			End:       right,
			Inclusive: inclusive,
		}
	}

	for par.match(lexer.BIT_LEFT_OP) || par.match(lexer.BIT_RIGHT_OP) {
		op := par.previous()
		right := par.parseAdditive()
		left = &BinaryExpr{
			Position: Position{op.Line, op.Column},
			Op:       op.Literal,
			Left:     left,
			Right:    right,
		}
	}
	return left
}

func (par *Parser) parseAdditive() Expr {
	return par.binaryTier(par.parseMultiplicative, lexer.PLUS_OP, lexer.MINUS_OP)
}

func (par *Parser) parseMultiplicative() Expr {
	return par.binaryTier(par.parsePower, lexer.MUL_OP, lexer.DIV_OP, lexer.MOD_OP)
}

// parsePower parses the right-associative power operator.
func (par *Parser) parsePower() Expr {
	left := par.parseUnary()
	if par.match(lexer.POW_OP) {
		op := par.previous()
		right := par.parsePower() // right-associative: recurse
		return &BinaryExpr{
			Position: Position{op.Line, op.Column},
			Op:       op.Literal,
			Left:     left,
			Right:    right,
		}
	}
	return left
}

// parseUnary parses the prefix operators ! - ~ & &mut *.
func (par *Parser) parseUnary() Expr {
	if par.match(lexer.BIT_AND_OP) {
		op := par.previous()
		spelling := "&"
		if par.match(lexer.MUT_KEY) {
			spelling = "&mut"
		}
		return &UnaryExpr{
			Position: Position{op.Line, op.Column},
			Op:       spelling,
			Right:    par.parseUnary(),
		}
	}
	if par.match(lexer.NOT_OP) || par.match(lexer.MINUS_OP) ||
		par.match(lexer.BIT_NOT_OP) || par.match(lexer.MUL_OP) {
		op := par.previous()
		return &UnaryExpr{
			Position: Position{op.Line, op.Column},
			Op:       op.Literal,
			Right:    par.parseUnary(),
		}
	}
	return par.parsePostfix()
}

// parseArguments parses a parenthesized argument list supporting named
// arguments `name: value`; the opening '(' is already consumed. Returns
// the arguments and the parallel name list (empty string = positional).
func (par *Parser) parseArguments() ([]Expr, []string) {
	var args []Expr
	var names []string
	if !par.check(lexer.RIGHT_PAREN) {
		for {
			if par.check(lexer.IDENTIFIER_ID) && par.checkNext(lexer.COLON_DELIM) {
				name := par.advance()
				par.advance() // ':'
				names = append(names, name.Literal)
				args = append(args, par.parseExpression())
			} else {
				names = append(names, "")
				args = append(args, par.parseExpression())
			}
			if !par.match(lexer.COMMA_DELIM) {
				break
			}
		}
	}
	par.expect(lexer.RIGHT_PAREN, "expected ')'")
	return args, names
}

// parsePostfix parses the postfix forms: indexing, slicing, member access,
// tuple index, method calls, .await, optional chaining, try and casts.
func (par *Parser) parsePostfix() Expr {
	expr := par.parsePrimary()

	for {
		switch {
		case par.match(lexer.LEFT_BRACKET):
			tok := par.previous()
			index := par.parseExpression()
			par.expect(lexer.RIGHT_BRACKET, "expected ']'")

			// A range index is a slice: base[start..end]
			if rangeExpr, ok := index.(*RangeExpr); ok {
				expr = &SliceExpr{
					Position:  Position{tok.Line, tok.Column},
					Base:      expr,
					Start:     rangeExpr.Start,
					End:       rangeExpr.End,
					Inclusive: rangeExpr.Inclusive,
				}
			} else {
				expr = &IndexExpr{
					Position: Position{tok.Line, tok.Column},
					Base:     expr,
					Index:    index,
				}
			}

		case par.match(lexer.DOT_OP):
			tok := par.previous()

			// Tuple index: tuple.0, tuple.1
			if par.match(lexer.INT_LIT) {
				expr = &TupleIndexExpr{
					Position: Position{tok.Line, tok.Column},
					Tuple:    expr,
					Index:    int(parseIntLiteral(par.previous().Literal)),
				}
				continue
			}

			// Await: expr.await
			if par.match(lexer.AWAIT_KEY) {
				expr = &AwaitExpr{
					Position: Position{tok.Line, tok.Column},
					Operand:  expr,
				}
				continue
			}

			if !par.expect(lexer.IDENTIFIER_ID, "expected member name after '.'") {
				return expr
			}
			member := par.previous()

			if par.match(lexer.LEFT_PAREN) {
				args, names := par.parseArguments()
				expr = &MethodCallExpr{
					Position:   Position{tok.Line, tok.Column},
					Object:     expr,
					MethodName: member.Literal,
					Args:       args,
					ArgNames:   names,
				}
			} else {
				expr = &MemberAccessExpr{
					Position:   Position{tok.Line, tok.Column},
					Object:     expr,
					MemberName: member.Literal,
				}
			}

		case par.match(lexer.QUESTION_DOT_OP):
			tok := par.previous()
			if !par.expect(lexer.IDENTIFIER_ID, "expected identifier after '?.'") {
				return expr
			}
			member := par.previous()
			chain := &OptionalChainExpr{
				Position:   Position{tok.Line, tok.Column},
				Object:     expr,
				MemberName: member.Literal,
			}
			if par.match(lexer.LEFT_PAREN) {
				chain.IsMethodCall = true
				chain.Args, chain.ArgNames = par.parseArguments()
			}
			expr = chain

		case par.match(lexer.QUESTION_OP):
			tok := par.previous()
			expr = &TryExpr{
				Position: Position{tok.Line, tok.Column},
				Operand:  expr,
			}

		case par.match(lexer.AS_KEY):
			tok := par.previous()
			expr = &CastExpr{
				Position:   Position{tok.Line, tok.Column},
				Operand:    expr,
				TargetType: par.parseTypeName(),
			}

		case par.check(lexer.LEFT_PAREN):
			// Calls are only supported on identifiers (handled in primary)
			tok := par.peek()
			par.Diag.Error("function call on non-identifier not supported", tok.Line, tok.Column)
			return expr

		default:
			return expr
		}
	}
}

// looksLikeTypeName reports whether an identifier can open a struct
// literal: it has an uppercase initial.
func looksLikeTypeName(name string) bool {
	if name == "" {
		return false
	}
	if name[0] >= 'A' && name[0] <= 'Z' {
		return true
	}
	return false
}

// parsePrimary parses the primary forms. On failure it records an error
// and yields a placeholder literal so higher-level parsing can continue.
func (par *Parser) parsePrimary() Expr {
	tok := par.peek()
	pos := Position{tok.Line, tok.Column}

	switch {
	case par.match(lexer.INT_LIT):
		return &LiteralExpr{Position: pos, Value: par.previous().Literal, Kind: LitInt}
	case par.match(lexer.FLOAT_LIT):
		return &LiteralExpr{Position: pos, Value: par.previous().Literal, Kind: LitFloat}
	case par.match(lexer.STRING_LIT), par.match(lexer.RAW_STRING), par.match(lexer.MULTI_STRING):
		return &LiteralExpr{Position: pos, Value: par.previous().Literal, Kind: LitString}
	case par.match(lexer.CHAR_LIT):
		return &LiteralExpr{Position: pos, Value: par.previous().Literal, Kind: LitChar}
	case par.match(lexer.FSTRING_LIT):
		return par.parseFString(par.previous())
	case par.match(lexer.TRUE_KEY), par.match(lexer.FALSE_KEY):
		return &LiteralExpr{Position: pos, Value: par.previous().Literal, Kind: LitBool}
	case par.match(lexer.SELF_KEY):
		return &SelfExpr{Position: pos}
	case par.match(lexer.NONE_KEY):
		return &NoneExpr{Position: pos}
	case par.match(lexer.MATCH_KEY):
		return par.parseMatchExpression(false)
	case par.match(lexer.WHEN_KEY):
		return par.parseMatchExpression(true)
	}

	// If expression: if cond { expr } else { expr }
	if par.match(lexer.IF_KEY) {
		cond := par.parseCondition()
		par.expect(lexer.LEFT_BRACE, "expected '{' after if condition")
		thenExpr := par.parseExpression()
		par.expect(lexer.RIGHT_BRACE, "expected '}' after then expression")
		par.expect(lexer.ELSE_KEY, "if expression requires else branch")
		par.expect(lexer.LEFT_BRACE, "expected '{' after else")
		elseExpr := par.parseExpression()
		par.expect(lexer.RIGHT_BRACE, "expected '}' after else expression")
		return &IfExpr{Position: pos, Condition: cond, Then: thenExpr, Else: elseExpr}
	}

	// Parenthesized group, unit tuple or tuple literal
	if par.match(lexer.LEFT_PAREN) {
		if par.match(lexer.RIGHT_PAREN) {
			return &TupleExpr{Position: pos}
		}
		first := par.parseExpression()
		if par.match(lexer.COMMA_DELIM) {
			tuple := &TupleExpr{Position: pos}
			tuple.Elements = append(tuple.Elements, first)
			if !par.check(lexer.RIGHT_PAREN) {
				tuple.Elements = append(tuple.Elements, par.parseExpression())
				for par.match(lexer.COMMA_DELIM) {
					if par.check(lexer.RIGHT_PAREN) {
						break
					}
					tuple.Elements = append(tuple.Elements, par.parseExpression())
				}
			}
			par.expect(lexer.RIGHT_PAREN, "expected ')' after tuple elements")
			return tuple
		}
		par.expect(lexer.RIGHT_PAREN, "expected ')'")
		return first
	}

	// Move closure: move |params| expr
	if par.match(lexer.MOVE_KEY) {
		if par.check(lexer.BIT_OR_OP) || par.check(lexer.OR_OP) {
			closure := par.parseClosureExpression()
			if cl, ok := closure.(*ClosureExpr); ok {
				cl.ByRef = false
			}
			return closure
		}
		par.errorAt("expected '|' after 'move' for closure")
	}

	// Explicit capture list: [x, &y, move z]|params| expr
	// (distinguished from an array literal by a '|' after the ']')
	if par.check(lexer.LEFT_BRACKET) && par.looksLikeCaptureList() {
		return par.parseClosureWithCaptures()
	}

	// Closures: || body (empty params) or |params| body
	if par.check(lexer.OR_OP) || par.check(lexer.BIT_OR_OP) {
		return par.parseClosureExpression()
	}

	// Array literal: [a, b, c] or fill form [value; count]
	if par.match(lexer.LEFT_BRACKET) {
		arr := &ArrayLiteralExpr{Position: pos}
		if !par.check(lexer.RIGHT_BRACKET) {
			first := par.parseExpression()
			if par.match(lexer.SEMICOLON_DELIM) {
				arr.FillValue = first
				arr.FillCount = par.parseExpression()
			} else {
				arr.Elements = append(arr.Elements, first)
				for par.match(lexer.COMMA_DELIM) {
					if par.check(lexer.RIGHT_BRACKET) {
						break
					}
					arr.Elements = append(arr.Elements, par.parseExpression())
				}
			}
		}
		par.expect(lexer.RIGHT_BRACKET, "expected ']'")
		return arr
	}

	if par.match(lexer.IDENTIFIER_ID) {
		id := par.previous()

		// Scope access A::B, upgraded to a call when followed by '('
		if par.match(lexer.SCOPE_OP) {
			if !par.expect(lexer.IDENTIFIER_ID, "expected identifier after '::'") {
				return &IdentifierExpr{Position: pos, Name: id.Literal}
			}
			member := par.previous()
			if par.match(lexer.LEFT_PAREN) {
				args, names := par.parseArguments()
				return &CallExpr{
					Position: pos,
					FuncName: id.Literal + "::" + member.Literal,
					Args:     args,
					ArgNames: names,
				}
			}
			return &ScopeAccessExpr{
				Position:   pos,
				ScopeName:  id.Literal,
				MemberName: member.Literal,
			}
		}

		// Call: name(args)
		if par.match(lexer.LEFT_PAREN) {
			args, names := par.parseArguments()
			return &CallExpr{Position: pos, FuncName: id.Literal, Args: args, ArgNames: names}
		}

		// Struct literal: TypeName{...} or TypeName<T>{...}. Only taken
		// when the identifier looks like a type name, so block braces in
		// control-flow heads stay block braces.
		if looksLikeTypeName(id.Literal) && (par.check(lexer.LEFT_BRACE) || par.check(lexer.LT_OP)) {
			genericArgs := ""
			if par.match(lexer.LT_OP) {
				genericArgs = "<" + par.parseTypeName()
				for par.match(lexer.COMMA_DELIM) {
					genericArgs += ", " + par.parseTypeName()
				}
				par.expect(lexer.GT_OP, "expected '>' after type arguments")
				genericArgs += ">"
				if !par.check(lexer.LEFT_BRACE) {
					par.errorAt("expected '{' after generic type")
					return &IdentifierExpr{Position: pos, Name: id.Literal}
				}
			}

			if par.match(lexer.LEFT_BRACE) {
				lit := &StructLiteralExpr{
					Position:    pos,
					TypeName:    id.Literal,
					GenericArgs: genericArgs,
				}
				if !par.check(lexer.RIGHT_BRACE) {
					first := true
					for {
						if first && par.check(lexer.IDENTIFIER_ID) && par.checkNext(lexer.COLON_DELIM) {
							lit.Named = true
						}
						first = false

						init := StructFieldInit{
							Line:   par.peek().Line,
							Column: par.peek().Column,
						}
						if lit.Named {
							if !par.expect(lexer.IDENTIFIER_ID, "expected field name") {
								break
							}
							init.Name = par.previous().Literal
							par.expect(lexer.COLON_DELIM, "expected ':' after field name")
						}
						init.Value = par.parseExpression()
						lit.Fields = append(lit.Fields, init)

						if !par.match(lexer.COMMA_DELIM) {
							break
						}
						if par.check(lexer.RIGHT_BRACE) {
							break
						}
					}
				}
				par.expect(lexer.RIGHT_BRACE, "expected '}'")
				return lit
			}
		}

		return &IdentifierExpr{Position: pos, Name: id.Literal}
	}

	par.errorAt("expected expression")
	// Recover with a placeholder literal
	return &LiteralExpr{Position: pos, Value: "0", Kind: LitInt}
}

// looksLikeCaptureList scans ahead from a '[' for the shape
// `[captures] |` so array literals are left alone.
func (par *Parser) looksLikeCaptureList() bool {
	next := par.tokenAt(par.Pos + 1)
	if next != lexer.BIT_AND_OP && next != lexer.MOVE_KEY && next != lexer.IDENTIFIER_ID {
		return false
	}
	depth := 1
	scan := par.Pos + 1
	for scan < len(par.Tokens) && depth > 0 {
		switch par.tokenAt(scan) {
		case lexer.LEFT_BRACKET:
			depth++
		case lexer.RIGHT_BRACKET:
			depth--
		case lexer.SEMICOLON_DELIM:
			// The fill form [value; count] is never a capture list
			return false
		}
		scan++
	}
	return par.tokenAt(scan) == lexer.BIT_OR_OP
}

// parseClosureParams parses the |param, param: type| list; the opening '|'
// is already consumed. Underscore parameters receive generated names.
func (par *Parser) parseClosureParams(closure *ClosureExpr) {
	if !par.check(lexer.BIT_OR_OP) {
		underscores := 0
		for {
			param := ClosureParam{Line: par.peek().Line, Column: par.peek().Column}
			if par.match(lexer.UNDERSCORE_ID) {
				param.Name = "_unused_" + strconv.Itoa(underscores)
				underscores++
			} else {
				if !par.expect(lexer.IDENTIFIER_ID, "expected parameter name or '_'") {
					break
				}
				param.Name = par.previous().Literal
			}
			if par.match(lexer.COLON_DELIM) {
				param.TypeName = par.parseTypeName()
			}
			closure.Params = append(closure.Params, param)
			if !par.match(lexer.COMMA_DELIM) {
				break
			}
		}
	}
	par.expect(lexer.BIT_OR_OP, "expected '|' after closure parameters")
}

// parseClosureBody parses the optional return type and the body.
func (par *Parser) parseClosureBody(closure *ClosureExpr) {
	if par.match(lexer.ARROW_OP) {
		closure.ReturnType = par.parseTypeName()
	}
	if par.check(lexer.LEFT_BRACE) {
		closure.BodyBlock = par.parseBlock()
	} else {
		closure.BodyExpr = par.parseExpression()
	}
}

// parseClosureExpression parses |params| body; a bare '||' token is the
// empty parameter list.
func (par *Parser) parseClosureExpression() Expr {
	tok := par.peek()
	closure := &ClosureExpr{Position: Position{tok.Line, tok.Column}, ByRef: true}

	if par.match(lexer.OR_OP) {
		// '||' lexes as one token: empty parameter list
		par.parseClosureBody(closure)
		return closure
	}

	par.expect(lexer.BIT_OR_OP, "expected '|' to start closure")
	par.parseClosureParams(closure)
	par.parseClosureBody(closure)
	return closure
}

// parseClosureWithCaptures parses [x, &y, move z]|params| body.
func (par *Parser) parseClosureWithCaptures() Expr {
	tok := par.peek()
	par.expect(lexer.LEFT_BRACKET, "expected '[' for capture list")

	closure := &ClosureExpr{
		Position:         Position{tok.Line, tok.Column},
		ByRef:            true,
		ExplicitCaptures: true,
	}

	if !par.check(lexer.RIGHT_BRACKET) {
		for {
			var capture CaptureSpec
			switch {
			case par.match(lexer.BIT_AND_OP):
				capture.Mode = CaptureByRef
				if !par.expect(lexer.IDENTIFIER_ID, "expected identifier after '&' in capture") {
					break
				}
				capture.Name = par.previous().Literal
			case par.match(lexer.MOVE_KEY):
				capture.Mode = CaptureByMove
				if !par.expect(lexer.IDENTIFIER_ID, "expected identifier after 'move' in capture") {
					break
				}
				capture.Name = par.previous().Literal
			case par.match(lexer.IDENTIFIER_ID):
				capture.Mode = CaptureByValue
				capture.Name = par.previous().Literal
			default:
				par.errorAt("expected capture specification")
			}
			if capture.Name == "" {
				break
			}
			closure.Captures = append(closure.Captures, capture)
			if !par.match(lexer.COMMA_DELIM) {
				break
			}
		}
	}
	par.expect(lexer.RIGHT_BRACKET, "expected ']' after capture list")

	if par.match(lexer.OR_OP) {
		// '||' after the capture list: empty parameter list
		par.parseClosureBody(closure)
		return closure
	}
	par.expect(lexer.BIT_OR_OP, "expected '|' after capture list")
	par.parseClosureParams(closure)
	par.parseClosureBody(closure)
	return closure
}
