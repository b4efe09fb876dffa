package interp

import (
	"fmt"
	"strings"

	"github.com/nx-lang/nx-go/internal/diag"
	"github.com/nx-lang/nx-go/internal/source"
)

// ErrorKind classifies a runtime failure.
type ErrorKind int

const (
	DivisionByZero ErrorKind = iota
	NullOperation
	UndefinedVariable
	TypeMismatch
	ParameterCountMismatch
	StackOverflow
	OperationLimitExceeded
	MissingReturn
	FunctionNotFound
	IndexOutOfBounds
	InvalidOperation
	MatchNonExhaustive
)

var errorKindNames = [...]string{
	DivisionByZero:         "DivisionByZero",
	NullOperation:          "NullOperation",
	UndefinedVariable:      "UndefinedVariable",
	TypeMismatch:           "TypeMismatch",
	ParameterCountMismatch: "ParameterCountMismatch",
	StackOverflow:          "StackOverflow",
	OperationLimitExceeded: "OperationLimitExceeded",
	MissingReturn:          "MissingReturn",
	FunctionNotFound:       "FunctionNotFound",
	IndexOutOfBounds:       "IndexOutOfBounds",
	InvalidOperation:       "InvalidOperation",
	MatchNonExhaustive:     "MatchNonExhaustive",
}

func (k ErrorKind) String() string {
	if int(k) < len(errorKindNames) {
		return errorKindNames[k]
	}
	return "Unknown"
}

// StackFrame is one entry of a captured call stack.
type StackFrame struct {
	Function string
	CallSite source.Span
}

// RuntimeError is a recoverable evaluation failure. It carries the source
// location of the failing operation and the call stack captured at the
// moment of failure, outermost call first.
type RuntimeError struct {
	Kind      ErrorKind
	Message   string
	Location  source.Span
	CallStack []StackFrame
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Diagnostic converts the error into the shared diagnostic shape, with the
// call stack attached as a note, innermost call first.
func (e *RuntimeError) Diagnostic(ix *source.LineIndex) diag.Diagnostic {
	d := diag.Errorf(e.Location, "R"+fmt.Sprintf("%04d", int(e.Kind)+1), "%s", e.Message)
	if len(e.CallStack) > 0 {
		var sb strings.Builder
		sb.WriteString("call stack:")
		for i := len(e.CallStack) - 1; i >= 0; i-- {
			frame := e.CallStack[i]
			if ix != nil {
				pos := ix.Position(frame.CallSite.Start)
				fmt.Fprintf(&sb, "\n  %s [line: %d, column: %d]", frame.Function, pos.Line, pos.Column)
			} else {
				fmt.Fprintf(&sb, "\n  %s", frame.Function)
			}
		}
		d = d.WithNote("%s", sb.String())
	}
	return d
}

// Render formats the error against its source through the shared diagnostic
// pipeline.
func (e *RuntimeError) Render(fileName, text string) string {
	ix := source.NewLineIndex(text)
	r := diag.NewRenderer()
	r.Color = diag.ColorNever
	return r.Render(e.Diagnostic(ix), fileName, text)
}

func newError(kind ErrorKind, span source.Span, stack []StackFrame, format string, args ...any) *RuntimeError {
	frames := make([]StackFrame, len(stack))
	copy(frames, stack)
	return &RuntimeError{
		Kind:      kind,
		Message:   fmt.Sprintf(format, args...),
		Location:  span,
		CallStack: frames,
	}
}
