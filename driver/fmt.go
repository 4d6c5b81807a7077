/*
File    : mana/driver/fmt.go
*/
package driver

import (
	"fmt"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/mana-lang/mana/lexer"
)

// FormatSource normalizes a source file's layout: lines re-indent by
// brace depth (four spaces per level), trailing whitespace drops, and
// runs of blank lines collapse to one. Only whitespace changes, so
// formatting is idempotent; lines inside a triple-quoted string are
// handled like any other line, so that string's contents can change.
func FormatSource(source string) string {
	lines := strings.Split(source, "\n")

	// Tokenize once to learn the brace depth at the start of each line;
	// the lexer skips strings and comments, so braces inside them do not
	// disturb the depth.
	lex := lexer.NewLexer(source)
	depthAt := make(map[int]int, len(lines))
	depth := 0
	lastLine := 0
	for _, token := range lex.Tokenize() {
		if token.Line > lastLine {
			start := depth
			if token.Type == lexer.RIGHT_BRACE || token.Type == lexer.RIGHT_PAREN ||
				token.Type == lexer.RIGHT_BRACKET {
				start--
			}
			for line := lastLine + 1; line <= token.Line; line++ {
				depthAt[line] = start
			}
			lastLine = token.Line
		}
		switch token.Type {
		case lexer.LEFT_BRACE, lexer.LEFT_PAREN, lexer.LEFT_BRACKET:
			depth++
		case lexer.RIGHT_BRACE, lexer.RIGHT_PAREN, lexer.RIGHT_BRACKET:
			depth--
		}
	}

	var sb strings.Builder
	blankRun := 0
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			blankRun++
			if blankRun > 1 || i == len(lines)-1 {
				continue
			}
			sb.WriteString("\n")
			continue
		}
		blankRun = 0

		indent := depthAt[i+1]
		if indent < 0 {
			indent = 0
		}
		sb.WriteString(strings.Repeat("    ", indent))
		sb.WriteString(trimmed)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Format rewrites a file in place when formatting changes it and returns
// a unified diff of the rewrite (empty when nothing changed).
func Format(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", path, err)
	}
	original := string(data)
	formatted := FormatSource(original)
	if formatted == original {
		return "", false, nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(formatted),
		FromFile: path,
		ToFile:   path + " (formatted)",
		Context:  2,
	})
	if err != nil {
		return "", false, err
	}
	if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
		return "", false, fmt.Errorf("writing %s: %w", path, err)
	}
	return diff, true, nil
}
