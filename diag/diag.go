/*
File    : mana/diag/diag.go
*/

// Package diag implements the diagnostic sink threaded through every
// compiler stage. Stages never abort on a single error: they record a
// diagnostic, recover, and keep going until the sink is drained at a
// natural boundary. The sink preserves insertion order.
package diag

// Kind classifies a diagnostic.
type Kind int

const (
	// Error prevents emission.
	Error Kind = iota
	// Warning does not prevent emission.
	Warning
	// Note attaches context to a preceding diagnostic.
	Note
	// Help carries a suggestion.
	Help
)

// String returns the rendered label of the kind.
func (k Kind) String() string {
	switch k {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	case Help:
		return "help"
	}
	return "unknown"
}

// Span is a secondary source span attached to a diagnostic, rendered as an
// additional labeled arrow+line block.
type Span struct {
	Line   int
	Column int
	Length int
	Label  string
}

// Diagnostic is one recorded problem: kind, message and primary location,
// plus optional code, help text, suggestion and secondary spans.
type Diagnostic struct {
	Kind       Kind
	Message    string
	Line       int
	Column     int
	SpanLength int
	Code       string
	Help       string
	Suggestion string
	Secondary  []Span
}

// Sink collects diagnostics in insertion order. It is owned by the driver
// and borrowed by every stage; access is exclusive, never concurrent.
type Sink struct {
	Diagnostics []Diagnostic
}

// NewSink creates an empty diagnostic sink.
func NewSink() *Sink {
	return &Sink{Diagnostics: make([]Diagnostic, 0)}
}

// Add appends a fully-formed diagnostic.
func (s *Sink) Add(d Diagnostic) {
	if d.SpanLength < 1 {
		d.SpanLength = 1
	}
	s.Diagnostics = append(s.Diagnostics, d)
}

// Error records an error at a source position.
func (s *Sink) Error(message string, line, column int) {
	s.Add(Diagnostic{Kind: Error, Message: message, Line: line, Column: column})
}

// Warning records a warning at a source position.
func (s *Sink) Warning(message string, line, column int) {
	s.Add(Diagnostic{Kind: Warning, Message: message, Line: line, Column: column})
}

// Note records a note at a source position.
func (s *Sink) Note(message string, line, column int) {
	s.Add(Diagnostic{Kind: Note, Message: message, Line: line, Column: column})
}

// HelpAt records a help hint at a source position.
func (s *Sink) HelpAt(message string, line, column int) {
	s.Add(Diagnostic{Kind: Help, Message: message, Line: line, Column: column})
}

// ErrorWithSuggestion records an error carrying a did-you-mean suggestion.
func (s *Sink) ErrorWithSuggestion(message, suggestion string, line, column int) {
	s.Add(Diagnostic{Kind: Error, Message: message, Suggestion: suggestion, Line: line, Column: column})
}

// ErrorCount returns the number of Error diagnostics recorded so far.
func (s *Sink) ErrorCount() int {
	count := 0
	for i := range s.Diagnostics {
		if s.Diagnostics[i].Kind == Error {
			count++
		}
	}
	return count
}

// WarningCount returns the number of Warning diagnostics recorded so far.
func (s *Sink) WarningCount() int {
	count := 0
	for i := range s.Diagnostics {
		if s.Diagnostics[i].Kind == Warning {
			count++
		}
	}
	return count
}

// HasErrors reports whether any Error diagnostic was recorded. Emission
// runs only when this is false.
func (s *Sink) HasErrors() bool {
	return s.ErrorCount() > 0
}

// Clear drops all recorded diagnostics.
func (s *Sink) Clear() {
	s.Diagnostics = s.Diagnostics[:0]
}
