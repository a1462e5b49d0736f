// Package diagnostics implements spec.md §6/§7's Log collaborator: the
// severity model, the closed diagnostic-kind taxonomy, and the single-line
// wire format every diagnostic renders to.
//
// Formatting follows the teacher's CompilerError design
// (_examples/CWBudde-go-dws/internal/errors): a caret-annotated
// source-context renderer for humans, kept alongside the machine-readable
// one-liner spec.md §6 mandates for the compiler driver's own contract.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/dineshkummarc/TheDS-next2Tinder/internal/lexer"
)

// Severity is one of the two levels spec.md §7 defines.
type Severity int

const (
	Warning Severity = iota
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Kind is spec.md §7's closed diagnostic taxonomy.
type Kind string

const (
	Redefinition            Kind = "Redefinition"
	StmtNotAllowed          Kind = "StmtNotAllowed"
	DefaultArgNotAllowed    Kind = "DefaultArgNotAllowed"
	FunctionBody            Kind = "FunctionBody"
	UndefinedSymbol         Kind = "UndefinedSymbol"
	NotUseableType          Kind = "NotUseableType"
	BadNullableType         Kind = "BadNullableType"
	TypeMismatch            Kind = "TypeMismatch"
	UnaryOpNotFound         Kind = "UnaryOpNotFound"
	BinaryOpNotFound        Kind = "BinaryOpNotFound"
	InvalidCast             Kind = "InvalidCast"
	BadSafeDereference      Kind = "BadSafeDereference"
	BadMemberAccess         Kind = "BadMemberAccess"
	CallNotFound            Kind = "CallNotFound"
	MultipleOverloadsFound  Kind = "MultipleOverloadsFound"
	BadThis                 Kind = "BadThis"
	VoidReturn              Kind = "VoidReturn"
	NotAllPathsReturnValue  Kind = "NotAllPathsReturnValue"
	UseBeforeDefinition     Kind = "UseBeforeDefinition"
	OverloadChangedModifier Kind = "OverloadChangedModifier"
	NoOverloadContext       Kind = "NoOverloadContext"
	NoListContext           Kind = "NoListContext"
	MetaTypeExpr            Kind = "MetaTypeExpr"
	BadTypeParamCount       Kind = "BadTypeParamCount"
	BadKeyword              Kind = "BadKeyword"

	DeadCode            Kind = "DeadCode"
	NullDereference     Kind = "NullDereference"
	NullableDereference Kind = "NullableDereference"

	// SyntaxError covers the tokenizer/parser's own unrecoverable
	// conditions (spec.md §7's last paragraph: unterminated literals,
	// unexpected EOF, bad integer bases) — a separate bucket from the
	// semantic-pass taxonomy above, which spec.md §7 itself distinguishes.
	SyntaxError Kind = "SyntaxError"
)

// warningKinds is the closed set of Kinds that start life as warnings;
// every other Kind is an error (spec.md §7).
var warningKinds = map[Kind]bool{
	DeadCode:            true,
	NullDereference:     true,
	NullableDereference: true,
}

// DefaultSeverity returns the severity a Kind reports at before any
// warnings-as-errors policy (SPEC_FULL.md §4.12) is applied.
func DefaultSeverity(k Kind) Severity {
	if warningKinds[k] {
		return Warning
	}
	return Error
}

// Diagnostic is one reported problem.
type Diagnostic struct {
	Kind     Kind
	Severity Severity
	Message  string
	Pos      lexer.Position
}

// String renders the diagnostic in spec.md §6's wire format:
// "<file>:<line>:<column>: <severity>: <text>", or
// "<unprintable location>: <severity>: <text>" absent a location.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos.String(), d.Severity, d.Message)
}

// Log accumulates diagnostics in source-traversal order across the pass
// pipeline (spec.md §5's ordering guarantee, §9's warning-ordering note).
type Log struct {
	diagnostics      []Diagnostic
	warningsAsErrors bool
}

// NewLog creates an empty Log. warningsAsErrors promotes every Warning
// diagnostic's effective severity to Error for HasErrors purposes, without
// altering the diagnostic's own recorded Severity (SPEC_FULL.md §4.12).
func NewLog(warningsAsErrors bool) *Log {
	return &Log{warningsAsErrors: warningsAsErrors}
}

// Report appends a diagnostic with kind's default severity.
func (l *Log) Report(kind Kind, pos lexer.Position, format string, args ...any) {
	l.diagnostics = append(l.diagnostics, Diagnostic{
		Kind:     kind,
		Severity: DefaultSeverity(kind),
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	})
}

// ReportSeverity appends a diagnostic with an explicit severity, overriding
// kind's default. Used for SyntaxError, whose severity comes from the raw
// scanner's own Issue (lexer.Issue.IsFatal/Warning) rather than from a
// per-Kind default.
func (l *Log) ReportSeverity(kind Kind, severity Severity, pos lexer.Position, format string, args ...any) {
	l.diagnostics = append(l.diagnostics, Diagnostic{
		Kind:     kind,
		Severity: severity,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
	})
}

// Diagnostics returns every diagnostic reported so far, in report order.
func (l *Log) Diagnostics() []Diagnostic { return l.diagnostics }

// HasErrors reports whether any diagnostic is an Error, or — under
// warningsAsErrors — whether any diagnostic was reported at all, warnings
// included.
func (l *Log) HasErrors() bool {
	for _, d := range l.diagnostics {
		if d.Severity == Error {
			return true
		}
		if l.warningsAsErrors && d.Severity == Warning {
			return true
		}
	}
	return false
}

// Format renders every diagnostic, one per line, in the §6 wire format.
func Format(diags []Diagnostic) string {
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}
