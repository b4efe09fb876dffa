// Package diag defines the diagnostic vocabulary shared by every compiler
// stage: severities, labeled spans, notes, and rendering against source text.
// Syntax, type, and runtime errors all flow through this one shape so a single
// pipeline formats them.
package diag

import (
	"fmt"

	"github.com/nx-lang/nx-go/internal/source"
)

// Severity classifies how serious a diagnostic is.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

// String returns the lowercase severity name used in rendered output.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// LabelStyle distinguishes the primary label from secondary context labels.
type LabelStyle int

const (
	StylePrimary LabelStyle = iota
	StyleSecondary
)

// Label attaches a message to a span of the source.
type Label struct {
	Span    source.Span
	Message string
	Style   LabelStyle
}

// Diagnostic is a severity-tagged message anchored at a primary span,
// with optional extra labels and free-form notes.
//
// Builders return a modified copy; a Diagnostic is never mutated after
// it has been handed to a caller.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	Span     source.Span
	File     source.FileId
	Labels   []Label
	Notes    []string
}

// Errorf builds an error diagnostic with a formatted message.
func Errorf(span source.Span, code, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
		File:     source.NoFile,
	}
}

// Warningf builds a warning diagnostic with a formatted message.
func Warningf(span source.Span, code, format string, args ...any) Diagnostic {
	d := Errorf(span, code, format, args...)
	d.Severity = SeverityWarning
	return d
}

// Infof builds an info diagnostic with a formatted message.
func Infof(span source.Span, code, format string, args ...any) Diagnostic {
	d := Errorf(span, code, format, args...)
	d.Severity = SeverityInfo
	return d
}

// WithLabel returns a copy with an extra label appended.
func (d Diagnostic) WithLabel(span source.Span, style LabelStyle, format string, args ...any) Diagnostic {
	labels := make([]Label, len(d.Labels), len(d.Labels)+1)
	copy(labels, d.Labels)
	d.Labels = append(labels, Label{
		Span:    span,
		Message: fmt.Sprintf(format, args...),
		Style:   style,
	})
	return d
}

// WithNote returns a copy with a note line appended. Notes render after the
// source snippet, prefixed with "help:".
func (d Diagnostic) WithNote(format string, args ...any) Diagnostic {
	notes := make([]string, len(d.Notes), len(d.Notes)+1)
	copy(notes, d.Notes)
	d.Notes = append(notes, fmt.Sprintf(format, args...))
	return d
}

// WithFile returns a copy attributed to the given source file.
func (d Diagnostic) WithFile(id source.FileId) Diagnostic {
	d.File = id
	return d
}

// IsError reports whether the diagnostic has error severity.
func (d Diagnostic) IsError() bool { return d.Severity == SeverityError }

// HasErrors reports whether any diagnostic in the slice has error severity.
func HasErrors(ds []Diagnostic) bool {
	for _, d := range ds {
		if d.IsError() {
			return true
		}
	}
	return false
}

// CountSeverity returns how many diagnostics carry the given severity.
func CountSeverity(ds []Diagnostic, sev Severity) int {
	n := 0
	for _, d := range ds {
		if d.Severity == sev {
			n++
		}
	}
	return n
}
