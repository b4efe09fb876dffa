package interp

import (
	"github.com/nx-lang/nx-go/internal/source"
)

// ResourceLimits bounds one execution: the maximum call depth and the
// maximum number of evaluation steps.
type ResourceLimits struct {
	RecursionLimit int
	OperationLimit int
}

// DefaultLimits returns the production limits.
func DefaultLimits() ResourceLimits {
	return ResourceLimits{RecursionLimit: 1000, OperationLimit: 1_000_000}
}

// TestingLimits lowers both caps so limit behavior is cheap to exercise in
// tests.
func TestingLimits() ResourceLimits {
	return ResourceLimits{RecursionLimit: 16, OperationLimit: 2_000}
}

// Environment is a lexical scope mapping names to values, chained through
// outer for nested scopes.
type Environment struct {
	store map[string]Value
	outer *Environment
}

// NewEnvironment creates a root environment.
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Value)}
}

// NewEnclosedEnvironment creates a child scope of outer.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	return &Environment{store: make(map[string]Value), outer: outer}
}

// Get resolves a name through the scope chain, innermost first.
func (e *Environment) Get(name string) (Value, bool) {
	if v, ok := e.store[name]; ok {
		return v, true
	}
	if e.outer != nil {
		return e.outer.Get(name)
	}
	return nil, false
}

// Define binds a name in this scope, shadowing any outer binding.
func (e *Environment) Define(name string, v Value) {
	e.store[name] = v
}

// CallFrame records one function invocation: its name, where it was called
// from, and the argument values it was bound with.
type CallFrame struct {
	Function string
	CallSite source.Span
	Params   []Value
}

// ExecutionContext owns the mutable state of one execute call: the scope
// stack, the call stack, the operation counter, and the immutable limits.
// A context is created per call and never shared.
type ExecutionContext struct {
	env    *Environment
	frames []CallFrame
	ops    int
	limits ResourceLimits
}

// NewExecutionContext creates a context with the given limits.
func NewExecutionContext(limits ResourceLimits) *ExecutionContext {
	return &ExecutionContext{env: NewEnvironment(), limits: limits}
}

// Limits returns the context's resource limits.
func (ctx *ExecutionContext) Limits() ResourceLimits { return ctx.limits }

// stack converts the current call frames into the StackFrame shape used by
// RuntimeError.
func (ctx *ExecutionContext) stack() []StackFrame {
	frames := make([]StackFrame, len(ctx.frames))
	for i, f := range ctx.frames {
		frames[i] = StackFrame{Function: f.Function, CallSite: f.CallSite}
	}
	return frames
}

// Operations returns the number of evaluation steps performed so far.
func (ctx *ExecutionContext) Operations() int { return ctx.ops }

// step counts one evaluation step, failing when the operation limit is
// exhausted.
func (ctx *ExecutionContext) step(span source.Span) *RuntimeError {
	ctx.ops++
	if ctx.ops > ctx.limits.OperationLimit {
		return newError(OperationLimitExceeded, span, ctx.stack(),
			"operation limit of %d exceeded", ctx.limits.OperationLimit)
	}
	return nil
}

// pushScope enters a nested lexical scope.
func (ctx *ExecutionContext) pushScope() {
	ctx.env = NewEnclosedEnvironment(ctx.env)
}

// popScope leaves the current scope.
func (ctx *ExecutionContext) popScope() {
	if ctx.env.outer != nil {
		ctx.env = ctx.env.outer
	}
}

// pushFrame enters a function call, enforcing the recursion limit. The new
// scope replaces the environment: function bodies see only their parameters
// (module functions resolve through the module, not the environment).
func (ctx *ExecutionContext) pushFrame(frame CallFrame, span source.Span) (*Environment, *RuntimeError) {
	if len(ctx.frames) >= ctx.limits.RecursionLimit {
		return nil, newError(StackOverflow, span, ctx.stack(),
			"recursion limit of %d exceeded while calling '%s'",
			ctx.limits.RecursionLimit, frame.Function)
	}
	ctx.frames = append(ctx.frames, frame)
	saved := ctx.env
	ctx.env = NewEnvironment()
	return saved, nil
}

// popFrame leaves a function call and restores the caller's environment.
func (ctx *ExecutionContext) popFrame(saved *Environment) {
	ctx.frames = ctx.frames[:len(ctx.frames)-1]
	ctx.env = saved
}

// CallDepth returns the current call-stack depth.
func (ctx *ExecutionContext) CallDepth() int { return len(ctx.frames) }
