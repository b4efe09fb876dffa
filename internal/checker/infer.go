package checker

import (
	"github.com/nx-lang/nx-go/internal/diag"
	"github.com/nx-lang/nx-go/internal/hir"
	"github.com/nx-lang/nx-go/internal/types"
)

// checkExpr assigns a type to the expression and records it. Expressions
// that fail a rule take the error type so one mistake produces one
// diagnostic.
func (c *checker) checkExpr(id hir.ExprId, env *env) types.Type {
	if id == hir.NoExpr {
		return types.ErrType
	}
	t := c.inferExpr(id, env)
	c.exprTypes[id] = t
	return t
}

func (c *checker) inferExpr(id hir.ExprId, env *env) types.Type {
	expr := c.module.Expr(id)
	switch expr.Kind {
	case hir.ExprError:
		return types.ErrType

	case hir.ExprLiteral:
		switch expr.Lit.Kind {
		case hir.LitString:
			return types.String
		case hir.LitInt:
			return types.Int
		case hir.LitFloat:
			return types.Float
		case hir.LitBool:
			return types.Boolean
		default:
			return types.Null
		}

	case hir.ExprIdent:
		if t, ok := env.lookup(expr.Name); ok {
			return c.resolveVars(t)
		}
		// Lowering already reported unresolved names; this is a defensive
		// fallback for symbols it could not type.
		return types.ErrType

	case hir.ExprUnit:
		return types.Void

	case hir.ExprBinary:
		return c.inferBinary(expr, env)

	case hir.ExprUnary:
		return c.inferUnary(expr, env)

	case hir.ExprMember:
		return c.inferMember(expr, env)

	case hir.ExprCall:
		return c.inferCall(expr, env)

	case hir.ExprBlock:
		return c.inferBlock(expr, env)

	case hir.ExprArray:
		return c.inferArray(expr, env)

	case hir.ExprIndex:
		return c.inferIndex(expr, env)

	case hir.ExprIf:
		return c.inferIf(expr, env)

	case hir.ExprIfIs, hir.ExprSwitch:
		return c.inferMatch(expr, env)

	case hir.ExprFor:
		return c.inferFor(expr, env)

	case hir.ExprInterpolation:
		return c.checkExpr(expr.X, env)

	case hir.ExprElement:
		return c.checkElement(expr.Element, env)
	}
	return types.ErrType
}

func (c *checker) inferBinary(expr *hir.Expr, env *env) types.Type {
	left := c.checkExpr(expr.X, env)
	right := c.checkExpr(expr.Y, env)
	if types.IsError(left) || types.IsError(right) {
		return types.ErrType
	}

	switch expr.Op {
	case hir.OpAdd, hir.OpSub, hir.OpMul, hir.OpDiv:
		return c.inferArithmetic(expr, left, right)
	case hir.OpAnd, hir.OpOr:
		ok := c.requireCompatible(types.Boolean, left, c.module.Expr(expr.X).Span, "logical operand")
		ok = c.requireCompatible(types.Boolean, right, c.module.Expr(expr.Y).Span, "logical operand") && ok
		if !ok {
			return types.ErrType
		}
		return types.Boolean
	case hir.OpEq, hir.OpNe:
		return c.inferEquality(expr, left, right)
	case hir.OpLt, hir.OpGt, hir.OpLe, hir.OpGe:
		return c.inferOrdering(expr, left, right)
	}
	return types.ErrType
}

// inferArithmetic enforces the numeric rules: both int, both float, or
// string concatenation with '+'. int and float never mix implicitly.
func (c *checker) inferArithmetic(expr *hir.Expr, left, right types.Type) types.Type {
	ul, ur := c.stripNullableWarn(left, expr.X), c.stripNullableWarn(right, expr.Y)

	if expr.Op == hir.OpAdd && ul == types.String && ur == types.String {
		return types.String
	}
	if ul == types.Int && ur == types.Int {
		return types.Int
	}
	if ul == types.Float && ur == types.Float {
		return types.Float
	}
	if (ul == types.Int && ur == types.Float) || (ul == types.Float && ur == types.Int) {
		c.errorf(expr.Span, "E2001",
			"operands of '%s' mix int and float; convert one operand explicitly", expr.Op)
		return types.ErrType
	}

	desc := "two ints or two floats"
	if expr.Op == hir.OpAdd {
		desc = "two ints, two floats, or two strings"
	}
	c.errorf(expr.Span, "E2001", "type mismatch: '%s' needs %s; found %s and %s",
		expr.Op, desc, left, right)
	return types.ErrType
}

// stripNullableWarn unwraps aliases, warning when a nullable numeric or
// string reaches an operator without a null check.
func (c *checker) stripNullableWarn(t types.Type, operand hir.ExprId) types.Type {
	u := types.Underlying(t)
	if nullable, ok := u.(*types.Nullable); ok {
		inner := types.Underlying(nullable.Elem)
		c.warnf(c.module.Expr(operand).Span, "W2004",
			"possibly null value of type %s used in an operation without a null check", t)
		return inner
	}
	return u
}

func (c *checker) inferEquality(expr *hir.Expr, left, right types.Type) types.Type {
	// Equality with null is always defined.
	ul, ur := types.Underlying(left), types.Underlying(right)
	if ul == types.Null || ur == types.Null {
		return types.Boolean
	}
	if !types.Compatible(left, right) && !types.Compatible(right, left) {
		c.errorf(expr.Span, "E2001",
			"cannot compare %s with %s", left, right)
		return types.ErrType
	}
	return types.Boolean
}

func (c *checker) inferOrdering(expr *hir.Expr, left, right types.Type) types.Type {
	ul := c.stripNullableWarn(left, expr.X)
	ur := c.stripNullableWarn(right, expr.Y)
	bothInt := ul == types.Int && ur == types.Int
	bothFloat := ul == types.Float && ur == types.Float
	bothString := ul == types.String && ur == types.String
	if !bothInt && !bothFloat && !bothString {
		c.errorf(expr.Span, "E2001",
			"ordering comparison needs two ints, two floats, or two strings; found %s and %s",
			left, right)
		return types.ErrType
	}
	return types.Boolean
}

func (c *checker) inferUnary(expr *hir.Expr, env *env) types.Type {
	operand := c.checkExpr(expr.X, env)
	if types.IsError(operand) {
		return types.ErrType
	}
	switch expr.Op {
	case hir.OpNeg:
		u := c.stripNullableWarn(operand, expr.X)
		if u != types.Int && u != types.Float {
			c.errorf(expr.Span, "E2001", "unary '-' needs int or float, found %s", operand)
			return types.ErrType
		}
		return u
	case hir.OpNot:
		if !c.requireCompatible(types.Boolean, operand, c.module.Expr(expr.X).Span, "'!' operand") {
			return types.ErrType
		}
		return types.Boolean
	}
	return types.ErrType
}

func (c *checker) inferMember(expr *hir.Expr, env *env) types.Type {
	base := c.checkExpr(expr.X, env)
	if types.IsError(base) {
		return types.ErrType
	}
	u := types.Underlying(base)
	if u == types.Element || u == types.Object {
		// Element properties are dynamically shaped; accesses resolve at
		// runtime.
		return types.Object
	}
	d := diag.Errorf(expr.Span, "E2006", "type %s has no member '%s'", base, expr.Name).
		WithFile(c.module.SourceId)
	if hint, ok := c.memberSuggestion(expr); ok {
		d = d.WithNote("did you mean '%s'?", hint)
	}
	c.diags = append(c.diags, d)
	return types.ErrType
}

// memberSuggestion offers a near-miss property name when the base is a
// literal element whose keys are known statically.
func (c *checker) memberSuggestion(expr *hir.Expr) (string, bool) {
	base := c.module.Expr(expr.X)
	if base.Kind != hir.ExprElement {
		return "", false
	}
	elem := c.module.Element(base.Element)
	var keys []string
	for _, pid := range elem.Properties {
		keys = append(keys, c.module.Property(pid).Key)
	}
	return hir.ClosestName(expr.Name, keys)
}

func (c *checker) inferCall(expr *hir.Expr, env *env) types.Type {
	callee := c.checkExpr(expr.X, env)
	argTypes := make([]types.Type, len(expr.List))
	for i, arg := range expr.List {
		argTypes[i] = c.checkExpr(arg, env)
	}
	if types.IsError(callee) {
		return types.ErrType
	}

	fn, ok := types.Underlying(callee).(*types.Function)
	if !ok {
		c.errorf(c.module.Expr(expr.X).Span, "E2001",
			"this expression is not callable (its type is %s)", callee)
		return types.ErrType
	}
	if len(argTypes) != len(fn.Params) {
		c.errorf(expr.Span, "E2003",
			"wrong number of arguments: expected %d, got %d", len(fn.Params), len(argTypes))
		return c.resolveVars(fn.Return)
	}
	for i, at := range argTypes {
		c.requireCompatible(fn.Params[i], at, c.module.Expr(expr.List[i]).Span, "argument")
	}
	return c.resolveVars(fn.Return)
}

func (c *checker) inferBlock(expr *hir.Expr, env *env) types.Type {
	inner := newEnv(env)
	for _, sid := range expr.Stmts {
		c.checkStmt(sid, inner)
	}
	if expr.X == hir.NoExpr {
		return types.Void
	}
	return c.checkExpr(expr.X, inner)
}

func (c *checker) checkStmt(id hir.StmtId, env *env) {
	stmt := c.module.Stmt(id)
	switch stmt.Kind {
	case hir.StmtExpr:
		c.checkExpr(stmt.Expr, env)
	case hir.StmtLet:
		initT := c.checkExpr(stmt.Expr, env)
		if stmt.TypeRef != hir.NoTypeRef {
			declared := c.typeFromRef(stmt.TypeRef)
			c.requireCompatible(declared, initT, stmt.Span, "let binding")
			env.bind(stmt.Name, declared)
			return
		}
		if initT == nil {
			initT = c.freshVar()
		}
		env.bind(stmt.Name, initT)
	}
}

func (c *checker) inferArray(expr *hir.Expr, env *env) types.Type {
	if len(expr.List) == 0 {
		return &types.Array{Elem: c.freshVar()}
	}
	elemT := c.checkExpr(expr.List[0], env)
	for _, eid := range expr.List[1:] {
		t := c.checkExpr(eid, env)
		joined, ok := types.Common(elemT, t)
		if !ok {
			c.errorf(c.module.Expr(eid).Span, "E2001",
				"array element type %s is incompatible with %s", t, elemT)
			elemT = types.ErrType
			continue
		}
		elemT = joined
	}
	return &types.Array{Elem: elemT}
}

func (c *checker) inferIndex(expr *hir.Expr, env *env) types.Type {
	base := c.checkExpr(expr.X, env)
	idx := c.checkExpr(expr.Y, env)
	c.requireCompatible(types.Int, idx, c.module.Expr(expr.Y).Span, "index")
	if types.IsError(base) {
		return types.ErrType
	}
	arr, ok := types.Underlying(base).(*types.Array)
	if !ok {
		c.errorf(c.module.Expr(expr.X).Span, "E2001",
			"only arrays can be indexed; this expression has type %s", base)
		return types.ErrType
	}
	return arr.Elem
}

func (c *checker) inferIf(expr *hir.Expr, env *env) types.Type {
	cond := c.checkExpr(expr.X, env)
	c.requireCompatible(types.Boolean, cond, c.module.Expr(expr.X).Span, "if condition")

	thenT := c.checkExpr(expr.Y, env)
	elseT := c.checkExpr(expr.Z, env)
	joined, ok := types.Common(thenT, elseT)
	if !ok {
		c.errorf(expr.Span, "E2001",
			"if branches have incompatible types %s and %s", thenT, elseT)
		return types.ErrType
	}
	return joined
}

// inferMatch covers both 'if E is { … }' and switch forms. With a
// scrutinee, patterns must be compatible with it; without one, each pattern
// position holds a boolean condition.
func (c *checker) inferMatch(expr *hir.Expr, env *env) types.Type {
	var scrutinee types.Type
	if expr.X != hir.NoExpr {
		scrutinee = c.checkExpr(expr.X, env)
	}

	result := types.Type(types.ErrType)
	first := true
	for _, arm := range expr.Arms {
		for _, pat := range arm.Patterns {
			patT := c.checkExpr(pat, env)
			span := c.module.Expr(pat).Span
			if scrutinee != nil {
				if !types.Compatible(scrutinee, patT) && !types.Compatible(patT, scrutinee) {
					c.errorf(span, "E2001",
						"pattern of type %s can never match a value of type %s", patT, scrutinee)
				}
			} else {
				c.requireCompatible(types.Boolean, patT, span, "switch condition")
			}
		}
		bodyT := c.checkExpr(arm.Body, env)
		if first {
			result = bodyT
			first = false
			continue
		}
		joined, ok := types.Common(result, bodyT)
		if !ok {
			c.errorf(arm.Span, "E2001",
				"arm type %s is incompatible with earlier arms of type %s", bodyT, result)
			result = types.ErrType
			continue
		}
		result = joined
	}
	return result
}

func (c *checker) inferFor(expr *hir.Expr, env *env) types.Type {
	srcT := c.checkExpr(expr.X, env)
	elemT := types.Type(types.ErrType)
	if !types.IsError(srcT) {
		if arr, ok := types.Underlying(srcT).(*types.Array); ok {
			elemT = arr.Elem
		} else {
			c.errorf(c.module.Expr(expr.X).Span, "E2001",
				"for needs an array to iterate; this expression has type %s", srcT)
		}
	}

	loop := newEnv(env)
	loop.bind(expr.Name, elemT)
	if expr.IndexName != "" {
		loop.bind(expr.IndexName, types.Int)
	}
	bodyT := c.checkExpr(expr.Y, loop)
	return &types.Array{Elem: bodyT}
}

// checkElement types an element expression in the enclosing environment.
// Children and property values are checked; when the tag resolves to a
// function, properties check against its parameter list, otherwise
// structurally.
func (c *checker) checkElement(id hir.ElementId, env *env) types.Type {
	elem := c.module.Element(id)

	sig, tagIsFunction := c.funcs[elem.Tag]
	var fn *hir.Function
	if tagIsFunction {
		fnPtr, _, ok := c.module.FunctionByName(elem.Tag)
		if ok {
			fn = fnPtr
		}
	}

	seen := map[string]bool{}
	for _, pid := range elem.Properties {
		prop := c.module.Property(pid)
		valT := c.checkExpr(prop.Value, env)
		seen[prop.Key] = true

		if fn == nil {
			continue
		}
		idx := -1
		for i, param := range fn.Params {
			if param.Name == prop.Key {
				idx = i
				break
			}
		}
		if idx < 0 {
			d := diag.Errorf(prop.Span, "E2007",
				"'%s' has no property '%s'", elem.Tag, prop.Key).
				WithFile(c.module.SourceId)
			var names []string
			for _, param := range fn.Params {
				names = append(names, param.Name)
			}
			if hint, ok := hir.ClosestName(prop.Key, names); ok {
				d = d.WithNote("did you mean '%s'?", hint)
			}
			c.diags = append(c.diags, d)
			continue
		}
		c.requireCompatible(sig.Params[idx], valT, prop.Span, "property value")
	}

	if fn != nil {
		for _, param := range fn.Params {
			if !seen[param.Name] {
				c.errorf(elem.Span, "E2008",
					"missing property '%s' required by '%s'", param.Name, elem.Tag)
			}
		}
	}

	for _, child := range elem.Children {
		c.checkExpr(child, env)
	}
	return types.Element
}
