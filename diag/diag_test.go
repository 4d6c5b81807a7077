/*
File    : mana/diag/diag_test.go
*/
package diag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSink_OrderAndCounts(t *testing.T) {
	sink := NewSink()
	sink.Error("first", 1, 1)
	sink.Warning("second", 2, 1)
	sink.Note("third", 2, 3)
	sink.Error("fourth", 3, 1)

	assert.Equal(t, 4, len(sink.Diagnostics))
	assert.Equal(t, "first", sink.Diagnostics[0].Message)
	assert.Equal(t, "fourth", sink.Diagnostics[3].Message)
	assert.Equal(t, 2, sink.ErrorCount())
	assert.Equal(t, 1, sink.WarningCount())
	assert.True(t, sink.HasErrors())

	sink.Clear()
	assert.False(t, sink.HasErrors())
	assert.Equal(t, 0, len(sink.Diagnostics))
}

func TestSink_DefaultSpanLength(t *testing.T) {
	sink := NewSink()
	sink.Error("oops", 1, 1)
	assert.Equal(t, 1, sink.Diagnostics[0].SpanLength)
}

func TestRenderer_Layout(t *testing.T) {
	source := "module m\nfn main() -> i32 {\n    retur 0\n}\n"
	sink := NewSink()
	sink.Add(Diagnostic{
		Kind:       Error,
		Message:    "use of undeclared identifier 'retur'",
		Line:       3,
		Column:     5,
		SpanLength: 5,
		Suggestion: "return",
	})

	renderer := NewRenderer("main.mana", source)
	renderer.NoColor = true
	var sb strings.Builder
	renderer.Render(&sb, sink)
	out := sb.String()

	assert.Contains(t, out, "error: use of undeclared identifier 'retur'")
	assert.Contains(t, out, "--> main.mana:3:5")
	// Source line with one line of context above and below
	assert.Contains(t, out, "fn main() -> i32 {")
	assert.Contains(t, out, "retur 0")
	assert.Contains(t, out, "^^^^^")
	assert.Contains(t, out, "help: did you mean 'return'?")
	assert.Contains(t, out, "1 error(s) generated")
}

func TestRenderer_SecondarySpans(t *testing.T) {
	source := "line one\nline two\nline three\n"
	sink := NewSink()
	sink.Add(Diagnostic{
		Kind:    Error,
		Message: "conflict",
		Line:    3,
		Column:  1,
		Secondary: []Span{
			{Line: 1, Column: 1, Length: 4, Label: "first declared here"},
		},
	})

	renderer := NewRenderer("x.mana", source)
	renderer.NoColor = true
	var sb strings.Builder
	renderer.Render(&sb, sink)
	out := sb.String()

	assert.Contains(t, out, "--> x.mana:1:1 first declared here")
	assert.Contains(t, out, "line one")
}
