/*
File    : mana/repl/repl.go

Package repl implements the interactive Read-Eval-Print Loop for the Mana
compiler. Each snippet is wrapped in an implicit main, run through the
full pipeline, and the resulting diagnostics or emitted C++ are shown.
Meta commands:
- :tokens SRC  shows the token stream of a snippet
- :ast         shows the AST of the last snippet
- :emit        shows the emitted C++ of the last snippet
- :quit        leaves the REPL

The REPL uses the readline library for line editing and command history.
*/
package repl

import (
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/mana-lang/mana/driver"
)

// Color definitions for REPL output:
// - blueColor: separators
// - yellowColor: version info and emitted output
// - redColor: diagnostics
// - greenColor: banner and success messages
// - cyanColor: instructions
var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

// Repl is one interactive session.
type Repl struct {
	Banner  string
	Version string
	Line    string
	Prompt  string

	lastSource string
	lastOutput string
}

// NewRepl creates a session with the standard banner.
func NewRepl(version string) *Repl {
	return &Repl{
		Banner:  "  mana — a small systems language",
		Version: version,
		Line:    strings.Repeat("-", 60),
		Prompt:  "mana> ",
	}
}

// PrintBannerInfo displays the welcome banner and usage instructions.
func (r *Repl) PrintBannerInfo(writer io.Writer) {
	blueColor.Fprintf(writer, "%s\n", r.Line)
	greenColor.Fprintf(writer, "%s\n", r.Banner)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	yellowColor.Fprintln(writer, "Version: "+r.Version)
	cyanColor.Fprintln(writer, "Type Mana code and press enter; it compiles inside an implicit main.")
	cyanColor.Fprintln(writer, "Commands: :tokens SRC, :ast, :emit, :quit")
	blueColor.Fprintf(writer, "%s\n", r.Line)
}

// wrapSnippet builds a compilable module around one snippet. Snippets
// that already start with a module header pass through unchanged.
func wrapSnippet(snippet string) string {
	if strings.HasPrefix(strings.TrimSpace(snippet), "module ") {
		return snippet
	}
	return "module repl\nfn main() -> i32 {\n" + snippet + "\nreturn 0\n}\n"
}

// Start runs the main loop until :quit or EOF.
func (r *Repl) Start(writer io.Writer) {
	r.PrintBannerInfo(writer)

	rl, err := readline.New(r.Prompt)
	if err != nil {
		redColor.Fprintf(writer, "cannot start readline: %v\n", err)
		return
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			// EOF or interrupt
			writer.Write([]byte("Good Bye!\n"))
			break
		}

		line = strings.Trim(line, " \n\t\r")
		if line == "" {
			continue
		}
		if line == ":quit" || line == ".exit" {
			writer.Write([]byte("Good Bye!\n"))
			break
		}
		rl.SaveHistory(line)

		switch {
		case strings.HasPrefix(line, ":tokens "):
			writer.Write([]byte(driver.DumpTokens(strings.TrimPrefix(line, ":tokens "))))
		case line == ":ast":
			r.showAst(writer)
		case line == ":emit":
			if r.lastOutput == "" {
				redColor.Fprintln(writer, "nothing emitted yet")
			} else {
				yellowColor.Fprintln(writer, r.lastOutput)
			}
		default:
			r.execute(writer, line)
		}
	}
}

// showAst re-parses the last snippet and prints its tree.
func (r *Repl) showAst(writer io.Writer) {
	if r.lastSource == "" {
		redColor.Fprintln(writer, "no snippet compiled yet")
		return
	}
	d := driver.New()
	result := d.CompileSource(r.lastSource, false)
	writer.Write([]byte(driver.DumpAst(result.Module)))
}

// execute compiles one snippet and reports diagnostics or success.
func (r *Repl) execute(writer io.Writer, line string) {
	source := wrapSnippet(line)
	d := driver.New()
	result := d.CompileSource(source, false)

	if len(d.Sink.Diagnostics) > 0 {
		redColor.Fprint(writer, d.RenderDiagnostics("<repl>", source))
	}
	if d.Sink.HasErrors() {
		return
	}

	r.lastSource = source
	r.lastOutput = result.Output
	greenColor.Fprintln(writer, "ok (use :emit to see the C++)")
}
