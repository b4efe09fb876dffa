// Package nx is the public surface of the NX language core: parse, check,
// and execute, plus the value constructors embedders need to call NX
// functions. Everything here is a thin veneer over the internal pipeline;
// all entry points are safe for concurrent use.
package nx

import (
	"github.com/nx-lang/nx-go/internal/checker"
	"github.com/nx-lang/nx-go/internal/diag"
	"github.com/nx-lang/nx-go/internal/hir"
	"github.com/nx-lang/nx-go/internal/interp"
	"github.com/nx-lang/nx-go/internal/parser"
)

// Re-exported result and data types.
type (
	// ParseResult is the outcome of parsing: tree, diagnostics, source id.
	ParseResult = parser.ParseResult
	// TypeCheckResult is the outcome of the full front-end: module,
	// diagnostics, and per-expression types.
	TypeCheckResult = checker.Result
	// Session accumulates sources for batch checking.
	Session = checker.Session
	// Module is an immutable lowered module ready for execution.
	Module = hir.Module
	// Diagnostic is the shared diagnostic shape of every stage.
	Diagnostic = diag.Diagnostic
	// Value is a runtime value.
	Value = interp.Value
	// RuntimeError is a recoverable execution failure with a call stack.
	RuntimeError = interp.RuntimeError
	// ResourceLimits caps recursion depth and evaluation steps.
	ResourceLimits = interp.ResourceLimits
)

// Runtime value constructors and concrete types.
type (
	IntValue     = interp.IntValue
	FloatValue   = interp.FloatValue
	StringValue  = interp.StringValue
	BoolValue    = interp.BoolValue
	NullValue    = interp.NullValue
	ArrayValue   = interp.ArrayValue
	ElementValue = interp.ElementValue
)

// ParseStr parses NX source text into a lossless syntax tree.
func ParseStr(source, fileName string) *ParseResult {
	return parser.ParseStr(source, fileName)
}

// ParseFile reads and parses a file, reporting IO and encoding problems as
// diagnostics.
func ParseFile(path string) *ParseResult {
	return parser.ParseFile(path)
}

// CheckStr parses, lowers, and type-checks source text.
func CheckStr(source, fileName string) *TypeCheckResult {
	return checker.CheckStr(source, fileName)
}

// CheckFile reads and checks a file from disk.
func CheckFile(path string) *TypeCheckResult {
	return checker.CheckFile(path)
}

// NewSession creates a type-check session for a batch of sources. Sessions
// are safe for concurrent use.
func NewSession() *Session {
	return checker.NewSession()
}

// DefaultLimits returns the production resource limits.
func DefaultLimits() ResourceLimits { return interp.DefaultLimits() }

// TestingLimits returns lowered limits for deterministic tests.
func TestingLimits() ResourceLimits { return interp.TestingLimits() }

// Execute runs a named function of a checked module against argument
// values under the default resource limits.
func Execute(module *Module, function string, args []Value) (Value, *RuntimeError) {
	return interp.New(module).ExecuteFunction(function, args)
}

// ExecuteWithLimits runs a named function under explicit limits.
func ExecuteWithLimits(module *Module, function string, args []Value, limits ResourceLimits) (Value, *RuntimeError) {
	return interp.New(module).ExecuteFunction(function, args, interp.WithLimits(limits))
}

// Int builds an int value.
func Int(v int64) Value { return &interp.IntValue{Value: v} }

// Float builds a float value.
func Float(v float64) Value { return &interp.FloatValue{Value: v} }

// Str builds a string value.
func Str(v string) Value { return &interp.StringValue{Value: v} }

// Bool builds a boolean value.
func Bool(v bool) Value { return &interp.BoolValue{Value: v} }

// Null builds the null value.
func Null() Value { return &interp.NullValue{} }

// Array builds an array value from elements.
func Array(elems ...Value) Value { return &interp.ArrayValue{Elements: elems} }

// RenderDiagnostics formats diagnostics against their source for terminal
// display, without color.
func RenderDiagnostics(ds []Diagnostic, fileName, source string) string {
	r := diag.NewRenderer()
	r.Color = diag.ColorNever
	return r.RenderAll(ds, fileName, source)
}

// RenderDiagnosticsColor formats diagnostics with ANSI color forced on.
func RenderDiagnosticsColor(ds []Diagnostic, fileName, source string) string {
	r := diag.NewRenderer()
	r.Color = diag.ColorAlways
	return r.RenderAll(ds, fileName, source)
}
