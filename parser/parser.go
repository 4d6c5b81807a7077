/*
File    : mana/parser/parser.go
*/

/*
Package parser implements the Mana frontend: the AST node types and a
recursive-descent parser with a Pratt-style precedence ladder for
expressions.

The parser converts the lexer's token stream into an AST module. It handles:
- Declarations (functions, structs, enums, traits, impls, imports, aliases)
- Statements (declarations, assignments, control flow, destructuring)
- Expressions (the full precedence ladder up to postfix and primary forms)
- Patterns (match/when arms, if-let and while-let heads)
- Operator precedence and associativity (right-associative power)

Errors are recorded into the diagnostic sink rather than aborting: on a
mismatch the parser records an error at the offending token and
synchronizes, either to the next declaration keyword (module scope) or to
the next statement keyword (block scope). A recoverable primary failure
yields a placeholder literal so higher-level parsing can continue.
*/
package parser

import (
	"fmt"
	"strconv"

	"github.com/mana-lang/mana/diag"
	"github.com/mana-lang/mana/lexer"
)

// Parser holds the token stream, the cursor, and the diagnostic sink
// borrowed from the driver.
type Parser struct {
	Tokens []lexer.Token
	Pos    int
	Diag   *diag.Sink
}

// NewParser creates a parser over a pre-lexed token stream. The stream must
// be terminated by an EOF token (lexer.Tokenize guarantees this).
func NewParser(tokens []lexer.Token, sink *diag.Sink) *Parser {
	if len(tokens) == 0 {
		tokens = []lexer.Token{lexer.NewTokenWithMetadata(lexer.EOF_TYPE, "", 1, 1)}
	}
	return &Parser{Tokens: tokens, Pos: 0, Diag: sink}
}

// New creates a parser directly from source text.
func New(src string, sink *diag.Sink) *Parser {
	lex := lexer.NewLexer(src)
	return NewParser(lex.Tokenize(), sink)
}

// peek returns the current token without consuming it.
func (par *Parser) peek() lexer.Token {
	if par.Pos >= len(par.Tokens) {
		return par.Tokens[len(par.Tokens)-1]
	}
	return par.Tokens[par.Pos]
}

// previous returns the most recently consumed token.
func (par *Parser) previous() lexer.Token {
	if par.Pos == 0 {
		return par.Tokens[0]
	}
	return par.Tokens[par.Pos-1]
}

// isAtEnd reports whether the cursor reached the EOF token.
func (par *Parser) isAtEnd() bool {
	return par.peek().Type == lexer.EOF_TYPE
}

// check reports whether the current token has the given type.
func (par *Parser) check(kind lexer.TokenType) bool {
	if par.isAtEnd() {
		return false
	}
	return par.peek().Type == kind
}

// checkNext reports whether the token after the current one has the given type.
func (par *Parser) checkNext(kind lexer.TokenType) bool {
	if par.Pos+1 >= len(par.Tokens) {
		return false
	}
	return par.Tokens[par.Pos+1].Type == kind
}

// tokenAt returns the token type at an absolute stream position, or EOF.
func (par *Parser) tokenAt(pos int) lexer.TokenType {
	if pos >= len(par.Tokens) {
		return lexer.EOF_TYPE
	}
	return par.Tokens[pos].Type
}

// advance consumes the current token and returns it.
func (par *Parser) advance() lexer.Token {
	if !par.isAtEnd() {
		par.Pos++
	}
	return par.previous()
}

// match consumes the current token when it has the given type.
func (par *Parser) match(kind lexer.TokenType) bool {
	if par.check(kind) {
		par.advance()
		return true
	}
	return false
}

// expect consumes the current token when it has the given type, recording
// an error at the peeked token otherwise.
func (par *Parser) expect(kind lexer.TokenType, msg string) bool {
	if par.check(kind) {
		par.advance()
		return true
	}
	tok := par.peek()
	par.Diag.Error(msg, tok.Line, tok.Column)
	return false
}

// errorAt records an error at the current token.
func (par *Parser) errorAt(format string, args ...interface{}) {
	tok := par.peek()
	par.Diag.Error(fmt.Sprintf(format, args...), tok.Line, tok.Column)
}

// optionalSemicolon consumes a semicolon if present. Semicolons are
// optional everywhere in statement and declaration position.
func (par *Parser) optionalSemicolon() {
	par.match(lexer.SEMICOLON_DELIM)
}

// synchronize advances to the next declaration boundary after a module-level
// parse error.
func (par *Parser) synchronize() {
	par.advance()
	for !par.isAtEnd() {
		// A semicolon or closing brace usually ends the broken construct
		if par.previous().Type == lexer.SEMICOLON_DELIM {
			return
		}
		if par.previous().Type == lexer.RIGHT_BRACE {
			return
		}
		switch par.peek().Type {
		case lexer.FN_KEY, lexer.STRUCT_KEY, lexer.ENUM_KEY, lexer.VARIANT_KEY,
			lexer.TRAIT_KEY, lexer.IMPL_KEY, lexer.TYPE_KEY, lexer.USE_KEY,
			lexer.IMPORT_KEY, lexer.PUB_KEY, lexer.CONST_KEY, lexer.ASYNC_KEY,
			lexer.EXTERN_KEY:
			return
		}
		par.advance()
	}
}

// synchronizeStatement advances to the next statement boundary within the
// current block, stopping at ';' or '}'.
func (par *Parser) synchronizeStatement() {
	for !par.isAtEnd() && !par.check(lexer.RIGHT_BRACE) {
		if par.previous().Type == lexer.SEMICOLON_DELIM {
			return
		}
		if par.match(lexer.SEMICOLON_DELIM) {
			return
		}
		switch par.peek().Type {
		case lexer.LET_KEY, lexer.IF_KEY, lexer.WHILE_KEY, lexer.FOR_KEY,
			lexer.RETURN_KEY, lexer.BREAK_KEY, lexer.CONTINUE_KEY,
			lexer.DEFER_KEY, lexer.LOOP_KEY, lexer.SCOPE_KEY, lexer.CONST_KEY,
			lexer.MATCH_KEY, lexer.WHEN_KEY:
			return
		}
		par.advance()
	}
}

// ParseModule parses a whole source file: the `module NAME` header followed
// by declarations until end of file. Parsing always terminates; the
// returned module is non-nil even when errors were recorded.
func (par *Parser) ParseModule() *Module {
	par.expect(lexer.MODULE_KEY, "expected 'module'")
	name := "main"
	if par.expect(lexer.IDENTIFIER_ID, "expected module name") {
		name = par.previous().Literal
	}
	par.optionalSemicolon()

	mod := &Module{Name: name, Decls: make([]Decl, 0)}

	for !par.isAtEnd() {
		decl := par.parseDeclaration()
		if decl == nil {
			par.synchronize()
			continue
		}
		mod.Decls = append(mod.Decls, decl)
	}

	return mod
}

// parseIntLiteral converts a token literal to int64, tolerating garbage.
func parseIntLiteral(text string) int64 {
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0
	}
	return value
}
