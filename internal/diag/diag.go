// Package diag provides the uniform error value used by every compiler
// phase: a diagnostic has a kind, a message and an optional source location.
// Phases never raise through each other; they return diagnostics and let the
// driver decide what happens next.
package diag

import (
	"fmt"
	"strings"
)

// Kind is a closed enumeration of diagnostic categories.
type Kind int

const (
	LexError Kind = iota
	ParseError
	TypeError
	UndefinedVariable
	UndefinedFunction
	UndefinedType
	Redefinition
	InvalidOperation
	SemanticError
	IOError
)

var kindNames = [...]string{
	"LexError",
	"ParseError",
	"TypeError",
	"UndefinedVariable",
	"UndefinedFunction",
	"UndefinedType",
	"Redefinition",
	"InvalidOperation",
	"SemanticError",
	"IOError",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "UnknownKind"
	}
	return kindNames[k]
}

// Position is a 1-based line/column source location.
type Position struct {
	Line   int
	Column int
}

func (p Position) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Severity classifies a Diagnostic for exit-code and stream purposes.
type Severity int

const (
	SevError Severity = iota
	SevWarning
)

func (s Severity) String() string {
	if s == SevWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is a single error or warning value produced by a phase.
type Diagnostic struct {
	Kind     Kind
	Message  string
	Location Position // zero value means "no location"
	HasLoc   bool
}

// New creates a located diagnostic.
func New(kind Kind, pos Position, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), Location: pos, HasLoc: true}
}

// NewUnlocated creates a diagnostic with no source location (e.g. IOError).
func NewUnlocated(kind Kind, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Severity returns SevWarning for a SemanticError whose message mentions
// "unused" (case-insensitive); every other diagnostic is SevError. This
// mirrors the original compiler's warning-demotion rule exactly.
func (d Diagnostic) Severity() Severity {
	if d.Kind == SemanticError && strings.Contains(strings.ToLower(d.Message), "unused") {
		return SevWarning
	}
	return SevError
}

// String renders the diagnostic in the user-visible one-line format:
// "<severity>: <kind>: <message> [at <line>:<col>]"
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(d.Severity().String())
	b.WriteString(": ")
	b.WriteString(d.Kind.String())
	b.WriteString(": ")
	b.WriteString(d.Message)
	if d.HasLoc {
		fmt.Fprintf(&b, " [at %s]", d.Location)
	}
	return b.String()
}

// List is an ordered collection of diagnostics accumulated by a phase.
type List []Diagnostic

// Add appends a diagnostic to the list.
func (l *List) Add(d Diagnostic) {
	*l = append(*l, d)
}

// Errors returns only the SevError diagnostics, preserving order.
func (l List) Errors() List {
	out := make(List, 0, len(l))
	for _, d := range l {
		if d.Severity() == SevError {
			out = append(out, d)
		}
	}
	return out
}

// Warnings returns only the SevWarning diagnostics, preserving order.
func (l List) Warnings() List {
	out := make(List, 0, len(l))
	for _, d := range l {
		if d.Severity() == SevWarning {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors reports whether the list contains at least one SevError diagnostic.
// A phase with a non-empty error list is a failed phase.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity() == SevError {
			return true
		}
	}
	return false
}
