/*
File    : mana/parser/parser_fstring.go
*/
package parser

import (
	"strings"

	"github.com/mana-lang/mana/diag"
	"github.com/mana-lang/mana/lexer"
)

// parseFString splits an f-string token into its parts: literal fragments
// interleaved with embedded expressions, each expression carrying an
// optional format spec after ':' (f"pi = {pi:.2f}"). Embedded expressions
// are parsed by a nested sub-parser over the brace contents.
func (par *Parser) parseFString(tok lexer.Token) Expr {
	fstr := &FStringExpr{Position: Position{tok.Line, tok.Column}}
	text := tok.Literal

	var literal strings.Builder
	i := 0
	for i < len(text) {
		ch := text[i]
		if ch == '{' {
			// Flush the pending literal fragment
			if literal.Len() > 0 {
				fstr.Parts = append(fstr.Parts, FStringPart{Literal: literal.String()})
				literal.Reset()
			}

			// Collect the brace contents, tracking nesting
			depth := 1
			start := i + 1
			j := start
			for j < len(text) && depth > 0 {
				switch text[j] {
				case '{':
					depth++
				case '}':
					depth--
				}
				if depth > 0 {
					j++
				}
			}
			if depth != 0 {
				par.Diag.Error("unterminated '{' in f-string", tok.Line, tok.Column)
				return fstr
			}
			inner := text[start:j]
			i = j + 1

			// Split off a trailing format spec: {expr:spec}. The colon must
			// be at top level of the brace contents.
			exprText := inner
			formatSpec := ""
			if colon := strings.LastIndexByte(inner, ':'); colon >= 0 && !strings.ContainsAny(inner[:colon], "({[") {
				exprText = inner[:colon]
				formatSpec = inner[colon+1:]
			}

			part := FStringPart{IsExpr: true, FormatSpec: formatSpec}
			part.Expr = par.parseEmbeddedExpr(exprText, tok.Line, tok.Column)
			fstr.Parts = append(fstr.Parts, part)
			continue
		}
		literal.WriteByte(ch)
		i++
	}

	if literal.Len() > 0 {
		fstr.Parts = append(fstr.Parts, FStringPart{Literal: literal.String()})
	}
	return fstr
}

// parseEmbeddedExpr parses one embedded f-string expression with a nested
// parser. Diagnostics from the sub-parse land at the f-string's own
// position, since column offsets inside the processed literal no longer
// correspond to source columns.
func (par *Parser) parseEmbeddedExpr(text string, line, column int) Expr {
	sub := diag.NewSink()
	inner := New(text, sub)
	expr := inner.parseExpression()
	for i := range sub.Diagnostics {
		d := sub.Diagnostics[i]
		d.Line = line
		d.Column = column
		par.Diag.Add(d)
	}
	return expr
}
