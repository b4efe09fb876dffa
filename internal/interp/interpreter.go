package interp

import (
	"github.com/nx-lang/nx-go/internal/hir"
	"github.com/nx-lang/nx-go/internal/source"
)

// Interpreter executes functions of one immutable module. It holds no
// mutable state of its own, so a single Interpreter may serve concurrent
// calls; each call owns its ExecutionContext.
type Interpreter struct {
	module  *hir.Module
	aliases map[string]hir.TypeRefId
}

// Option configures one execute call.
type Option func(*callConfig)

type callConfig struct {
	limits ResourceLimits
}

// WithLimits overrides the default resource limits for a call.
func WithLimits(limits ResourceLimits) Option {
	return func(c *callConfig) { c.limits = limits }
}

// New creates an interpreter over a lowered module.
func New(module *hir.Module) *Interpreter {
	aliases := make(map[string]hir.TypeRefId, len(module.Aliases))
	for _, alias := range module.Aliases {
		aliases[alias.Name] = alias.TypeRef
	}
	return &Interpreter{module: module, aliases: aliases}
}

// ExecuteFunction runs a named function against argument values. The
// function must exist, the argument count must match, and each argument
// must fit the declared parameter type; violations surface as runtime
// errors, never panics.
func (in *Interpreter) ExecuteFunction(name string, args []Value, opts ...Option) (Value, *RuntimeError) {
	cfg := callConfig{limits: DefaultLimits()}
	for _, opt := range opts {
		opt(&cfg)
	}

	fn, _, ok := in.module.FunctionByName(name)
	if !ok {
		return nil, newError(FunctionNotFound, source.Span{}, nil,
			"function '%s' is not defined in this module", name)
	}
	if len(args) != len(fn.Params) {
		return nil, newError(ParameterCountMismatch, fn.Span, nil,
			"'%s' takes %d parameter(s), got %d", name, len(fn.Params), len(args))
	}
	for i, arg := range args {
		if !in.typeRefAccepts(fn.Params[i].TypeRef, arg, 0) {
			return nil, newError(TypeMismatch, fn.Params[i].Span, nil,
				"argument %d of '%s': parameter '%s' does not accept a %s value",
				i+1, name, fn.Params[i].Name, arg.Type())
		}
	}

	ctx := NewExecutionContext(cfg.limits)
	ctx.frames = append(ctx.frames, CallFrame{
		Function: name,
		CallSite: fn.Span,
		Params:   append([]Value{}, args...),
	})
	for i, param := range fn.Params {
		ctx.env.Define(param.Name, args[i])
	}
	return in.eval(fn.Body, ctx)
}

// typeRefAccepts is the boundary re-validation of argument values against
// declared parameter types. The checker has proven this statically for
// typed callers; the interpreter still refuses ill-typed values arriving
// through the API.
func (in *Interpreter) typeRefAccepts(id hir.TypeRefId, v Value, depth int) bool {
	if id == hir.NoTypeRef || depth > 32 {
		return true
	}
	ref := in.module.TypeRef(id)
	switch ref.Kind {
	case hir.TypeRefNamed:
		switch ref.Name {
		case "int", "long":
			_, ok := v.(*IntValue)
			return ok
		case "float", "double":
			_, ok := v.(*FloatValue)
			return ok
		case "string":
			_, ok := v.(*StringValue)
			return ok
		case "boolean":
			_, ok := v.(*BoolValue)
			return ok
		case "void":
			return IsNull(v)
		case "object", "element":
			return true
		default:
			if aliased, ok := in.aliases[ref.Name]; ok {
				return in.typeRefAccepts(aliased, v, depth+1)
			}
			return true
		}
	case hir.TypeRefNullable:
		if IsNull(v) {
			return true
		}
		return in.typeRefAccepts(ref.Elem, v, depth+1)
	case hir.TypeRefArray:
		arr, ok := v.(*ArrayValue)
		if !ok {
			return false
		}
		for _, elem := range arr.Elements {
			if !in.typeRefAccepts(ref.Elem, elem, depth+1) {
				return false
			}
		}
		return true
	case hir.TypeRefFunction:
		_, ok := v.(*FunctionValue)
		return ok
	default:
		return true
	}
}

// eval is the recursive tree walker. Every entry counts one operation step;
// scopes and frames are pushed and popped on every path.
func (in *Interpreter) eval(id hir.ExprId, ctx *ExecutionContext) (Value, *RuntimeError) {
	if id == hir.NoExpr {
		return &NullValue{}, nil
	}
	expr := in.module.Expr(id)
	if err := ctx.step(expr.Span); err != nil {
		return nil, err
	}

	switch expr.Kind {
	case hir.ExprError:
		return nil, newError(InvalidOperation, expr.Span, ctx.stack(),
			"cannot evaluate an expression that failed to compile")

	case hir.ExprLiteral:
		return literalValue(expr.Lit), nil

	case hir.ExprIdent:
		if v, ok := ctx.env.Get(expr.Name); ok {
			return v, nil
		}
		if fn, _, ok := in.module.FunctionByName(expr.Name); ok {
			params := make([]string, len(fn.Params))
			for i, p := range fn.Params {
				params[i] = p.Name
			}
			return &FunctionValue{Name: fn.Name, Params: params, Body: fn.Body}, nil
		}
		return nil, newError(UndefinedVariable, expr.Span, ctx.stack(),
			"variable '%s' is not defined", expr.Name)

	case hir.ExprUnit:
		return &NullValue{}, nil

	case hir.ExprBinary:
		return in.evalBinary(expr, ctx)

	case hir.ExprUnary:
		return in.evalUnary(expr, ctx)

	case hir.ExprMember:
		return in.evalMember(expr, ctx)

	case hir.ExprCall:
		return in.evalCall(expr, ctx)

	case hir.ExprBlock:
		return in.evalBlock(expr, ctx)

	case hir.ExprArray:
		elems := make([]Value, 0, len(expr.List))
		for _, eid := range expr.List {
			v, err := in.eval(eid, ctx)
			if err != nil {
				return nil, err
			}
			elems = append(elems, v)
		}
		return &ArrayValue{Elements: elems}, nil

	case hir.ExprIndex:
		return in.evalIndex(expr, ctx)

	case hir.ExprIf:
		return in.evalIf(expr, ctx)

	case hir.ExprIfIs, hir.ExprSwitch:
		return in.evalMatch(expr, ctx)

	case hir.ExprFor:
		return in.evalFor(expr, ctx)

	case hir.ExprInterpolation:
		return in.eval(expr.X, ctx)

	case hir.ExprElement:
		return in.evalElement(expr, ctx)
	}

	return nil, newError(InvalidOperation, expr.Span, ctx.stack(),
		"unsupported expression kind %s", expr.Kind)
}

func literalValue(lit hir.Literal) Value {
	switch lit.Kind {
	case hir.LitInt:
		return &IntValue{Value: lit.Int}
	case hir.LitFloat:
		return &FloatValue{Value: lit.Float}
	case hir.LitString:
		return &StringValue{Value: lit.Str}
	case hir.LitBool:
		return &BoolValue{Value: lit.Bool}
	default:
		return &NullValue{}
	}
}

func (in *Interpreter) evalBlock(expr *hir.Expr, ctx *ExecutionContext) (Value, *RuntimeError) {
	ctx.pushScope()
	defer ctx.popScope()

	for _, sid := range expr.Stmts {
		stmt := in.module.Stmt(sid)
		v, err := in.eval(stmt.Expr, ctx)
		if err != nil {
			return nil, err
		}
		if stmt.Kind == hir.StmtLet {
			ctx.env.Define(stmt.Name, v)
		}
	}
	return in.eval(expr.X, ctx)
}

func (in *Interpreter) evalIf(expr *hir.Expr, ctx *ExecutionContext) (Value, *RuntimeError) {
	cond, err := in.eval(expr.X, ctx)
	if err != nil {
		return nil, err
	}
	b, ok := cond.(*BoolValue)
	if !ok {
		return nil, newError(TypeMismatch, in.module.Expr(expr.X).Span, ctx.stack(),
			"if condition must be a boolean, got %s", cond.Type())
	}
	if b.Value {
		return in.eval(expr.Y, ctx)
	}
	return in.eval(expr.Z, ctx)
}

// evalMatch covers 'if E is { … }' and both switch forms. The scrutinee is
// evaluated once; arms are tried in source order and only the first
// matching arm's body runs.
func (in *Interpreter) evalMatch(expr *hir.Expr, ctx *ExecutionContext) (Value, *RuntimeError) {
	var scrutinee Value
	if expr.X != hir.NoExpr {
		v, err := in.eval(expr.X, ctx)
		if err != nil {
			return nil, err
		}
		scrutinee = v
	}

	for _, arm := range expr.Arms {
		if len(arm.Patterns) == 0 {
			return in.eval(arm.Body, ctx)
		}
		for _, pat := range arm.Patterns {
			pv, err := in.eval(pat, ctx)
			if err != nil {
				return nil, err
			}
			matched := false
			if scrutinee != nil {
				matched = Equals(scrutinee, pv)
			} else {
				b, ok := pv.(*BoolValue)
				if !ok {
					return nil, newError(TypeMismatch, in.module.Expr(pat).Span, ctx.stack(),
						"switch condition must be a boolean, got %s", pv.Type())
				}
				matched = b.Value
			}
			if matched {
				return in.eval(arm.Body, ctx)
			}
		}
	}
	return nil, newError(MatchNonExhaustive, expr.Span, ctx.stack(),
		"no case matched and there is no else arm")
}

func (in *Interpreter) evalFor(expr *hir.Expr, ctx *ExecutionContext) (Value, *RuntimeError) {
	src, err := in.eval(expr.X, ctx)
	if err != nil {
		return nil, err
	}
	arr, ok := src.(*ArrayValue)
	if !ok {
		return nil, newError(TypeMismatch, in.module.Expr(expr.X).Span, ctx.stack(),
			"for needs an array to iterate, got %s", src.Type())
	}

	results := make([]Value, 0, len(arr.Elements))
	for i, elem := range arr.Elements {
		ctx.pushScope()
		ctx.env.Define(expr.Name, elem)
		if expr.IndexName != "" {
			ctx.env.Define(expr.IndexName, &IntValue{Value: int64(i)})
		}
		v, err := in.eval(expr.Y, ctx)
		ctx.popScope()
		if err != nil {
			return nil, err
		}
		results = append(results, v)
	}
	return &ArrayValue{Elements: results}, nil
}

func (in *Interpreter) evalCall(expr *hir.Expr, ctx *ExecutionContext) (Value, *RuntimeError) {
	callee := in.module.Expr(expr.X)
	if callee.Kind != hir.ExprIdent {
		// Future closure values would be handled here; today only named
		// module functions are callable.
		return nil, newError(InvalidOperation, callee.Span, ctx.stack(),
			"only named functions can be called")
	}

	fn, _, ok := in.module.FunctionByName(callee.Name)
	if !ok {
		return nil, newError(FunctionNotFound, callee.Span, ctx.stack(),
			"function '%s' is not defined", callee.Name)
	}
	if len(expr.List) != len(fn.Params) {
		return nil, newError(ParameterCountMismatch, expr.Span, ctx.stack(),
			"'%s' takes %d parameter(s), got %d", fn.Name, len(fn.Params), len(expr.List))
	}

	args := make([]Value, len(expr.List))
	for i, aid := range expr.List {
		v, err := in.eval(aid, ctx)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	saved, err := ctx.pushFrame(CallFrame{
		Function: fn.Name,
		CallSite: expr.Span,
		Params:   append([]Value{}, args...),
	}, expr.Span)
	if err != nil {
		return nil, err
	}
	for i, param := range fn.Params {
		ctx.env.Define(param.Name, args[i])
	}
	result, evalErr := in.eval(fn.Body, ctx)
	ctx.popFrame(saved)
	return result, evalErr
}

func (in *Interpreter) evalMember(expr *hir.Expr, ctx *ExecutionContext) (Value, *RuntimeError) {
	base, err := in.eval(expr.X, ctx)
	if err != nil {
		return nil, err
	}
	elem, ok := base.(*ElementValue)
	if !ok {
		return nil, newError(InvalidOperation, expr.Span, ctx.stack(),
			"member access needs an element value, got %s", base.Type())
	}
	if v, found := elem.Property(expr.Name); found {
		return v, nil
	}
	return nil, newError(InvalidOperation, expr.Span, ctx.stack(),
		"element <%s> has no property '%s'", elem.Tag, expr.Name)
}

func (in *Interpreter) evalIndex(expr *hir.Expr, ctx *ExecutionContext) (Value, *RuntimeError) {
	base, err := in.eval(expr.X, ctx)
	if err != nil {
		return nil, err
	}
	idx, err := in.eval(expr.Y, ctx)
	if err != nil {
		return nil, err
	}
	arr, ok := base.(*ArrayValue)
	if !ok {
		return nil, newError(TypeMismatch, in.module.Expr(expr.X).Span, ctx.stack(),
			"only arrays can be indexed, got %s", base.Type())
	}
	iv, ok := idx.(*IntValue)
	if !ok {
		return nil, newError(TypeMismatch, in.module.Expr(expr.Y).Span, ctx.stack(),
			"array index must be an int, got %s", idx.Type())
	}
	if iv.Value < 0 || iv.Value >= int64(len(arr.Elements)) {
		return nil, newError(IndexOutOfBounds, expr.Span, ctx.stack(),
			"index %d is out of bounds for an array of length %d", iv.Value, len(arr.Elements))
	}
	return arr.Elements[iv.Value], nil
}

func (in *Interpreter) evalElement(expr *hir.Expr, ctx *ExecutionContext) (Value, *RuntimeError) {
	elem := in.module.Element(expr.Element)
	out := &ElementValue{Tag: elem.Tag}

	for _, pid := range elem.Properties {
		prop := in.module.Property(pid)
		v, err := in.eval(prop.Value, ctx)
		if err != nil {
			return nil, err
		}
		out.Properties = append(out.Properties, ElementProperty{Key: prop.Key, Value: v})
	}
	for _, child := range elem.Children {
		v, err := in.eval(child, ctx)
		if err != nil {
			return nil, err
		}
		// Markup control forms yield arrays of items; splice them in.
		if arr, ok := v.(*ArrayValue); ok && in.isMarkupChild(child) {
			out.Children = append(out.Children, arr.Elements...)
			continue
		}
		out.Children = append(out.Children, v)
	}
	return out, nil
}

// isMarkupChild reports whether an element child is a markup control form
// whose array result should splice into the parent's child list.
func (in *Interpreter) isMarkupChild(id hir.ExprId) bool {
	expr := in.module.Expr(id)
	if expr.Kind == hir.ExprInterpolation && expr.X != hir.NoExpr {
		expr = in.module.Expr(expr.X)
	}
	return expr.Markup && (expr.Kind == hir.ExprFor || expr.Kind == hir.ExprSwitch ||
		expr.Kind == hir.ExprIf || expr.Kind == hir.ExprIfIs)
}
