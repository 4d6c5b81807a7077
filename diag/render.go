/*
File    : mana/diag/render.go
*/
package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Color definitions for diagnostic rendering:
// - red: errors
// - yellow: warnings
// - cyan: notes and arrow lines
// - green: help and suggestions
var (
	redColor    = color.New(color.FgRed, color.Bold)
	yellowColor = color.New(color.FgYellow, color.Bold)
	cyanColor   = color.New(color.FgCyan)
	greenColor  = color.New(color.FgGreen)
)

// Renderer formats diagnostics against the source text they refer to.
//
// Each diagnostic prints as:
//
//	KIND: message
//	  --> FILE:LINE:COLUMN
//	   |  <line above, when available>
//	   |  <the source line>
//	   |        ^^^^
//	   |  <line below, when available>
//
// with the caret line underlining SpanLength columns starting at the
// diagnostic's column. Secondary spans render as additional indented
// arrow+line blocks with their labels.
type Renderer struct {
	FileName string
	Lines    []string
	NoColor  bool
}

// NewRenderer creates a renderer for one source file.
func NewRenderer(fileName, source string) *Renderer {
	return &Renderer{
		FileName: fileName,
		Lines:    strings.Split(source, "\n"),
	}
}

// kindColor returns the color used for a diagnostic kind's label.
func kindColor(k Kind) *color.Color {
	switch k {
	case Error:
		return redColor
	case Warning:
		return yellowColor
	case Note:
		return cyanColor
	default:
		return greenColor
	}
}

// sourceLine returns the 1-indexed source line, or "" when out of range.
func (r *Renderer) sourceLine(line int) (string, bool) {
	if line < 1 || line > len(r.Lines) {
		return "", false
	}
	return r.Lines[line-1], true
}

// Render writes every diagnostic in the sink to w, in insertion order.
func (r *Renderer) Render(w io.Writer, sink *Sink) {
	for i := range sink.Diagnostics {
		r.RenderOne(w, &sink.Diagnostics[i])
	}
	if count := sink.ErrorCount(); count > 0 {
		r.printColored(w, redColor, fmt.Sprintf("%d error(s) generated\n", count))
	}
}

// RenderOne writes a single diagnostic to w.
func (r *Renderer) RenderOne(w io.Writer, d *Diagnostic) {
	label := d.Kind.String()
	if d.Code != "" {
		label = fmt.Sprintf("%s[%s]", label, d.Code)
	}
	r.printColored(w, kindColor(d.Kind), fmt.Sprintf("%s: ", label))
	fmt.Fprintf(w, "%s\n", d.Message)

	r.printColored(w, cyanColor, fmt.Sprintf("  --> %s:%d:%d\n", r.FileName, d.Line, d.Column))
	r.renderSpan(w, d.Line, d.Column, d.SpanLength, true)

	for _, sec := range d.Secondary {
		r.printColored(w, cyanColor, fmt.Sprintf("    --> %s:%d:%d %s\n", r.FileName, sec.Line, sec.Column, sec.Label))
		r.renderSpan(w, sec.Line, sec.Column, sec.Length, false)
	}

	if d.Suggestion != "" {
		r.printColored(w, greenColor, fmt.Sprintf("  help: did you mean '%s'?\n", d.Suggestion))
	}
	if d.Help != "" {
		r.printColored(w, greenColor, fmt.Sprintf("  help: %s\n", d.Help))
	}
}

// renderSpan prints the source line with one line of context above and
// below when available, and a caret line underlining the span.
func (r *Renderer) renderSpan(w io.Writer, line, column, length int, withContext bool) {
	if length < 1 {
		length = 1
	}
	gutter := len(fmt.Sprintf("%d", line+1))

	if withContext {
		if above, ok := r.sourceLine(line - 1); ok {
			fmt.Fprintf(w, " %*d | %s\n", gutter, line-1, above)
		}
	}
	src, ok := r.sourceLine(line)
	if !ok {
		return
	}
	fmt.Fprintf(w, " %*d | %s\n", gutter, line, src)

	// Caret line: pad to the error column, then underline the span
	pad := strings.Repeat(" ", gutter)
	indent := column - 1
	if indent < 0 {
		indent = 0
	}
	carets := strings.Repeat("^", length)
	fmt.Fprintf(w, " %s | %s", pad, strings.Repeat(" ", indent))
	r.printColored(w, redColor, carets+"\n")

	if withContext {
		if below, ok := r.sourceLine(line + 1); ok {
			fmt.Fprintf(w, " %*d | %s\n", gutter, line+1, below)
		}
	}
}

// printColored writes through the color when enabled, plain otherwise.
func (r *Renderer) printColored(w io.Writer, c *color.Color, text string) {
	if r.NoColor {
		fmt.Fprint(w, text)
		return
	}
	c.Fprint(w, text)
}
