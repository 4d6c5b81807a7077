/*
File    : mana/lexer/lexer_test.go
*/
package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// represents a test case for ConsumeTokens
// Input: source code
// ExpectedTokens: list of expected tokens
type TestConsumeToken struct {
	Input          string
	ExpectedTokens []Token
}

// TestLexer_ConsumeTokens tests basic operator, literal and identifier scanning
func TestLexer_ConsumeTokens(t *testing.T) {

	tests := []TestConsumeToken{
		{
			Input: ` 123 + 2   31 - 12 `,
			ExpectedTokens: []Token{
				NewToken(INT_LIT, "123"),
				NewToken(PLUS_OP, "+"),
				NewToken(INT_LIT, "2"),
				NewToken(INT_LIT, "31"),
				NewToken(MINUS_OP, "-"),
				NewToken(INT_LIT, "12"),
			},
		},
		{
			Input: ` { } + []  abc - a12 `,
			ExpectedTokens: []Token{
				NewToken(LEFT_BRACE, "{"),
				NewToken(RIGHT_BRACE, "}"),
				NewToken(PLUS_OP, "+"),
				NewToken(LEFT_BRACKET, "["),
				NewToken(RIGHT_BRACKET, "]"),
				NewToken(IDENTIFIER_ID, "abc"),
				NewToken(MINUS_OP, "-"),
				NewToken(IDENTIFIER_ID, "a12"),
			},
		},
		{
			Input: ` << >> ~ | & ^ <<= >>= `,
			ExpectedTokens: []Token{
				NewToken(BIT_LEFT_OP, "<<"),
				NewToken(BIT_RIGHT_OP, ">>"),
				NewToken(BIT_NOT_OP, "~"),
				NewToken(BIT_OR_OP, "|"),
				NewToken(BIT_AND_OP, "&"),
				NewToken(BIT_XOR_OP, "^"),
				NewToken(BIT_LEFT_ASSIGN, "<<="),
				NewToken(BIT_RIGHT_ASSIGN, ">>="),
			},
		},
		{
			Input: `:: -> => .. ..= ?. ?? ? ** **= ++ -- #`,
			ExpectedTokens: []Token{
				NewToken(SCOPE_OP, "::"),
				NewToken(ARROW_OP, "->"),
				NewToken(FAT_ARROW_OP, "=>"),
				NewToken(RANGE_OP, ".."),
				NewToken(RANGE_INCL_OP, "..="),
				NewToken(QUESTION_DOT_OP, "?."),
				NewToken(NULL_COALESCE_OP, "??"),
				NewToken(QUESTION_OP, "?"),
				NewToken(POW_OP, "**"),
				NewToken(POW_ASSIGN, "**="),
				NewToken(INCR_OP, "++"),
				NewToken(DECR_OP, "--"),
				NewToken(HASH_OP, "#"),
			},
		},
		{
			Input: `fn main() -> i32 { return 0; }`,
			ExpectedTokens: []Token{
				NewToken(FN_KEY, "fn"),
				NewToken(IDENTIFIER_ID, "main"),
				NewToken(LEFT_PAREN, "("),
				NewToken(RIGHT_PAREN, ")"),
				NewToken(ARROW_OP, "->"),
				NewToken(IDENTIFIER_ID, "i32"),
				NewToken(LEFT_BRACE, "{"),
				NewToken(RETURN_KEY, "return"),
				NewToken(INT_LIT, "0"),
				NewToken(SEMICOLON_DELIM, ";"),
				NewToken(RIGHT_BRACE, "}"),
			},
		},
		{
			Input: `match e { E::A(n) => n, _ => 0 }`,
			ExpectedTokens: []Token{
				NewToken(MATCH_KEY, "match"),
				NewToken(IDENTIFIER_ID, "e"),
				NewToken(LEFT_BRACE, "{"),
				NewToken(IDENTIFIER_ID, "E"),
				NewToken(SCOPE_OP, "::"),
				NewToken(IDENTIFIER_ID, "A"),
				NewToken(LEFT_PAREN, "("),
				NewToken(IDENTIFIER_ID, "n"),
				NewToken(RIGHT_PAREN, ")"),
				NewToken(FAT_ARROW_OP, "=>"),
				NewToken(IDENTIFIER_ID, "n"),
				NewToken(COMMA_DELIM, ","),
				NewToken(UNDERSCORE_ID, "_"),
				NewToken(FAT_ARROW_OP, "=>"),
				NewToken(INT_LIT, "0"),
				NewToken(RIGHT_BRACE, "}"),
			},
		},
	}

	for _, test := range tests {
		lex := NewLexer(test.Input)
		tokens := lex.ConsumeTokens()
		assert.Equal(t, len(test.ExpectedTokens), len(tokens), "token count for %q", test.Input)
		for i, expected := range test.ExpectedTokens {
			assert.Equal(t, expected.Type, tokens[i].Type, "token %d type in %q", i, test.Input)
			assert.Equal(t, expected.Literal, tokens[i].Literal, "token %d literal in %q", i, test.Input)
		}
	}
}

// TestLexer_Keywords verifies every reserved word maps to its keyword token
func TestLexer_Keywords(t *testing.T) {
	for word, tokenType := range KEYWORDS_MAP {
		lex := NewLexer(word)
		tokens := lex.ConsumeTokens()
		assert.Equal(t, 1, len(tokens))
		assert.Equal(t, tokenType, tokens[0].Type)
		assert.Equal(t, word, tokens[0].Literal)
	}
}

// TestLexer_NumberForms covers prefixes, underscores and float detection
func TestLexer_NumberForms(t *testing.T) {
	tests := []struct {
		Input    string
		Type     TokenType
		Expected string
	}{
		{"42", INT_LIT, "42"},
		{"1_000_000", INT_LIT, "1000000"},
		{"0b1010", INT_LIT, "10"},
		{"0o755", INT_LIT, "493"},
		{"0xFF", INT_LIT, "255"},
		{"0x_ff", INT_LIT, "255"},
		{"3.14", FLOAT_LIT, "3.14"},
		{"6.022e23", FLOAT_LIT, "6.022e23"},
		{"1E-9", FLOAT_LIT, "1E-9"},
		{"2e10", FLOAT_LIT, "2e10"},
	}

	for _, test := range tests {
		lex := NewLexer(test.Input)
		tokens := lex.ConsumeTokens()
		assert.Equal(t, 1, len(tokens), "input %q", test.Input)
		assert.Equal(t, test.Type, tokens[0].Type, "input %q", test.Input)
		assert.Equal(t, test.Expected, tokens[0].Literal, "input %q", test.Input)
	}
}

// TestLexer_RangeAfterInt ensures 1..5 is not read as a float
func TestLexer_RangeAfterInt(t *testing.T) {
	lex := NewLexer("1..5")
	tokens := lex.ConsumeTokens()
	assert.Equal(t, 3, len(tokens))
	assert.Equal(t, INT_LIT, tokens[0].Type)
	assert.Equal(t, RANGE_OP, tokens[1].Type)
	assert.Equal(t, INT_LIT, tokens[2].Type)
}

// TestLexer_Strings covers plain, raw, multi-line, f-string and char literals
func TestLexer_Strings(t *testing.T) {
	tests := []struct {
		Input    string
		Type     TokenType
		Expected string
	}{
		{`"hello"`, STRING_LIT, "hello"},
		{`"a\nb\t\"c\""`, STRING_LIT, "a\nb\t\"c\""},
		{`r"a\nb"`, RAW_STRING, `a\nb`},
		{`"""line1
line2"""`, MULTI_STRING, "line1\nline2"},
		{`f"x = {x}"`, FSTRING_LIT, "x = {x}"},
		{`'a'`, CHAR_LIT, "a"},
		{`'\n'`, CHAR_LIT, "\n"},
		{`'\0'`, CHAR_LIT, "\x00"},
	}

	for _, test := range tests {
		lex := NewLexer(test.Input)
		tokens := lex.ConsumeTokens()
		assert.Equal(t, 1, len(tokens), "input %q", test.Input)
		assert.Equal(t, test.Type, tokens[0].Type, "input %q", test.Input)
		assert.Equal(t, test.Expected, tokens[0].Literal, "input %q", test.Input)
	}
}

// TestLexer_Comments checks that ordinary comments are dropped while
// doc comments are kept as tokens
func TestLexer_Comments(t *testing.T) {
	src := `// plain comment
/// Adds two numbers.
/* block
   comment */
fn`
	lex := NewLexer(src)
	tokens := lex.ConsumeTokens()
	assert.Equal(t, 2, len(tokens))
	assert.Equal(t, DOC_COMMENT, tokens[0].Type)
	assert.Equal(t, "Adds two numbers.", tokens[0].Literal)
	assert.Equal(t, FN_KEY, tokens[1].Type)
}

// TestLexer_Positions verifies line/column metadata on tokens
func TestLexer_Positions(t *testing.T) {
	src := "let x\n  = 5"
	lex := NewLexer(src)
	tokens := lex.ConsumeTokens()

	assert.Equal(t, 4, len(tokens))
	assert.Equal(t, 1, tokens[0].Line)
	assert.Equal(t, 1, tokens[0].Column)
	assert.Equal(t, 1, tokens[1].Line)
	assert.Equal(t, 5, tokens[1].Column)
	assert.Equal(t, 2, tokens[2].Line)
	assert.Equal(t, 3, tokens[2].Column)
	assert.Equal(t, 2, tokens[3].Line)
	assert.Equal(t, 5, tokens[3].Column)
}

// TestLexer_InvalidCharsSkipped ensures unrecognized characters produce no
// token and do not stop the scan
func TestLexer_InvalidCharsSkipped(t *testing.T) {
	lex := NewLexer("a @ b $ c")
	tokens := lex.ConsumeTokens()
	assert.Equal(t, 3, len(tokens))
	for i, name := range []string{"a", "b", "c"} {
		assert.Equal(t, IDENTIFIER_ID, tokens[i].Type)
		assert.Equal(t, name, tokens[i].Literal)
	}
}

// TestLexer_Totality: tokenization of arbitrary input terminates with EOF
func TestLexer_Totality(t *testing.T) {
	inputs := []string{
		"",
		"\x00\x01\x02",
		`"unterminated`,
		`"""unterminated`,
		"f\"open {",
		"'",
		"0x",
		"@@@@",
	}
	for _, input := range inputs {
		lex := NewLexer(input)
		tokens := lex.Tokenize()
		assert.NotEmpty(t, tokens, "input %q", input)
		assert.Equal(t, EOF_TYPE, tokens[len(tokens)-1].Type, "input %q", input)
	}
}
