/*
File    : mana/parser/parser_match.go
*/
package parser

import "github.com/mana-lang/mana/lexer"

// optionPatternKinds is the fixed synonym table for Option/Result
// constructor spellings: both capitalized and lowercase forms are accepted
// and normalized to the capitalized spelling.
var optionPatternKinds = map[string]string{
	"Some": "Some", "some": "Some",
	"Ok": "Ok", "ok": "Ok",
	"Err": "Err", "err": "Err",
	"None": "None", "none": "None",
}

// parseMatchExpression parses match/when. The two forms differ only in
// surface syntax: match arms use `=>` and comma separators, when arms use
// `->` with optional commas.
func (par *Parser) parseMatchExpression(isWhen bool) Expr {
	tok := par.previous()
	matchExpr := &MatchExpr{
		Position: Position{tok.Line, tok.Column},
		IsWhen:   isWhen,
	}

	// The scrutinee: an identifier followed by '{' is the identifier (the
	// brace opens the arm list), a parenthesized value is parsed in full,
	// anything else avoids struct literals.
	if par.check(lexer.IDENTIFIER_ID) && par.checkNext(lexer.LEFT_BRACE) {
		idTok := par.advance()
		matchExpr.Value = &IdentifierExpr{
			Position: Position{idTok.Line, idTok.Column},
			Name:     idTok.Literal,
		}
	} else if par.match(lexer.LEFT_PAREN) {
		matchExpr.Value = par.parseExpression()
		par.expect(lexer.RIGHT_PAREN, "expected ')' after match value")
	} else {
		matchExpr.Value = par.parseLogicalOr()
	}

	par.expect(lexer.LEFT_BRACE, "expected '{' after match value")

	for !par.check(lexer.RIGHT_BRACE) && !par.isAtEnd() {
		arm := MatchArm{Line: par.peek().Line, Column: par.peek().Column}

		pattern, isBinding, isWildcard := par.parseOnePattern(&arm)
		if pattern == nil && !isBinding {
			par.errorAt("expected pattern in match arm")
			return matchExpr
		}
		if pattern != nil {
			arm.Patterns = append(arm.Patterns, pattern)
		}
		if isWildcard || isBinding {
			matchExpr.HasDefault = true
		}

		// Or-patterns: p | p | ...
		for par.match(lexer.BIT_OR_OP) {
			next, _, wild := par.parseOnePattern(&arm)
			if next == nil {
				par.errorAt("expected pattern after '|'")
				break
			}
			arm.Patterns = append(arm.Patterns, next)
			if wild {
				matchExpr.HasDefault = true
			}
		}

		// Optional guard: if condition
		if par.match(lexer.IF_KEY) {
			arm.Guard = par.parseExpression()
		}

		if isWhen {
			par.expect(lexer.ARROW_OP, "expected '->' after pattern")
		} else {
			par.expect(lexer.FAT_ARROW_OP, "expected '=>' after pattern")
		}

		// Arm body: block or expression
		if par.check(lexer.LEFT_BRACE) {
			arm.ResultBlock = par.parseBlock()
		} else {
			arm.Result = par.parseExpression()
		}
		matchExpr.Arms = append(matchExpr.Arms, arm)

		// match style requires commas between arms; when style makes them
		// optional; a trailing comma is always allowed
		if !par.check(lexer.RIGHT_BRACE) {
			if isWhen {
				par.match(lexer.COMMA_DELIM)
			} else {
				par.expect(lexer.COMMA_DELIM, "expected ',' after match arm")
			}
		} else {
			par.match(lexer.COMMA_DELIM)
		}
	}

	par.expect(lexer.RIGHT_BRACE, "expected '}' after match arms")
	return matchExpr
}

// parseOnePattern parses a single pattern of a match arm: wildcard,
// literal, range, Option/Result constructor, enum variant, or identifier.
// A bare identifier directly followed by a guard or arm arrow becomes the
// arm's binding instead of a pattern (isBinding). isWildcard reports a `_`.
func (par *Parser) parseOnePattern(arm *MatchArm) (pattern Expr, isBinding bool, isWildcard bool) {
	tok := par.peek()
	pos := Position{tok.Line, tok.Column}

	switch {
	case par.match(lexer.NONE_KEY):
		return &OptionPattern{Position: pos, Kind: "None"}, false, false

	case par.match(lexer.UNDERSCORE_ID):
		return &IdentifierExpr{Position: pos, Name: "_"}, false, true

	case par.match(lexer.INT_LIT), par.match(lexer.FLOAT_LIT):
		lit := par.previous()
		kind := LitInt
		if lit.Type == lexer.FLOAT_LIT {
			kind = LitFloat
		}
		start := &LiteralExpr{Position: pos, Value: lit.Literal, Kind: kind}

		// Range pattern: lit..lit or lit..=lit
		if par.match(lexer.RANGE_OP) || par.match(lexer.RANGE_INCL_OP) {
			inclusive := par.previous().Type == lexer.RANGE_INCL_OP
			rangePat := &RangeExpr{Position: pos, Start: start, Inclusive: inclusive}
			if par.match(lexer.INT_LIT) || par.match(lexer.FLOAT_LIT) {
				end := par.previous()
				endKind := LitInt
				if end.Type == lexer.FLOAT_LIT {
					endKind = LitFloat
				}
				rangePat.End = &LiteralExpr{
					Position: Position{end.Line, end.Column},
					Value:    end.Literal,
					Kind:     endKind,
				}
			} else {
				par.errorAt("expected number after range operator")
			}
			return rangePat, false, false
		}
		return start, false, false

	case par.match(lexer.STRING_LIT):
		return &LiteralExpr{Position: pos, Value: par.previous().Literal, Kind: LitString}, false, false

	case par.match(lexer.CHAR_LIT):
		return &LiteralExpr{Position: pos, Value: par.previous().Literal, Kind: LitChar}, false, false

	case par.match(lexer.TRUE_KEY), par.match(lexer.FALSE_KEY):
		return &LiteralExpr{Position: pos, Value: par.previous().Literal, Kind: LitBool}, false, false

	case par.match(lexer.IDENTIFIER_ID):
		name := par.previous()

		// Option/Result constructor pattern: Some(x), ok(v), Err(e), ...
		if kind, ok := optionPatternKinds[name.Literal]; ok && par.check(lexer.LEFT_PAREN) {
			par.advance()
			binding := ""
			if par.expect(lexer.IDENTIFIER_ID, "expected binding variable name in pattern") {
				binding = par.previous().Literal
			}
			par.expect(lexer.RIGHT_PAREN, "expected ')' after binding variable")
			return &OptionPattern{Position: pos, Kind: kind, Binding: binding}, false, false
		}
		if kind, ok := optionPatternKinds[name.Literal]; ok && kind == "None" {
			return &OptionPattern{Position: pos, Kind: "None"}, false, false
		}

		// Enum variant pattern: Enum::Variant with optional bindings
		if par.match(lexer.SCOPE_OP) {
			if !par.expect(lexer.IDENTIFIER_ID, "expected variant name after '::'") {
				return nil, false, false
			}
			variant := par.previous()
			enumPat := &EnumPattern{
				Position:    pos,
				EnumName:    name.Literal,
				VariantName: variant.Literal,
				IsTuple:     true,
			}

			if par.match(lexer.LEFT_PAREN) {
				// Tuple destructuring: Enum::Variant(x, y, _)
				for !par.check(lexer.RIGHT_PAREN) && !par.isAtEnd() {
					if par.match(lexer.UNDERSCORE_ID) {
						enumPat.Bindings = append(enumPat.Bindings, "_")
					} else if par.expect(lexer.IDENTIFIER_ID, "expected binding name in pattern") {
						enumPat.Bindings = append(enumPat.Bindings, par.previous().Literal)
					} else {
						break
					}
					if !par.check(lexer.RIGHT_PAREN) {
						par.expect(lexer.COMMA_DELIM, "expected ',' between pattern bindings")
					}
				}
				par.expect(lexer.RIGHT_PAREN, "expected ')' after pattern bindings")
			} else if par.match(lexer.LEFT_BRACE) {
				// Struct destructuring: Enum::Variant { field: x }
				enumPat.IsTuple = false
				for !par.check(lexer.RIGHT_BRACE) && !par.isAtEnd() {
					if !par.expect(lexer.IDENTIFIER_ID, "expected field name in pattern") {
						break
					}
					fieldName := par.previous().Literal
					bindingName := fieldName
					if par.match(lexer.COLON_DELIM) {
						if par.expect(lexer.IDENTIFIER_ID, "expected binding name after ':'") {
							bindingName = par.previous().Literal
						}
					}
					enumPat.FieldBindings = append(enumPat.FieldBindings, [2]string{fieldName, bindingName})
					if !par.check(lexer.RIGHT_BRACE) {
						par.expect(lexer.COMMA_DELIM, "expected ',' between field bindings")
					}
				}
				par.expect(lexer.RIGHT_BRACE, "expected '}' after field bindings")
			}
			return enumPat, false, false
		}

		// A lowercase identifier right before the guard or arrow binds the
		// matched value; anything else compares against a constant.
		if arm.Binding == "" && (par.check(lexer.IF_KEY) || par.check(lexer.FAT_ARROW_OP) || par.check(lexer.ARROW_OP)) &&
			!(name.Literal[0] >= 'A' && name.Literal[0] <= 'Z') {
			arm.Binding = name.Literal
			return nil, true, false
		}
		return &IdentifierExpr{Position: pos, Name: name.Literal}, false, false
	}

	return nil, false, false
}
