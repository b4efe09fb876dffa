package interp

import (
	"github.com/nx-lang/nx-go/internal/hir"
)

// evalBinary evaluates binary operators. Logical operators short-circuit;
// everything else evaluates operands left to right.
func (in *Interpreter) evalBinary(expr *hir.Expr, ctx *ExecutionContext) (Value, *RuntimeError) {
	if expr.Op == hir.OpAnd || expr.Op == hir.OpOr {
		return in.evalLogical(expr, ctx)
	}

	left, err := in.eval(expr.X, ctx)
	if err != nil {
		return nil, err
	}
	right, err := in.eval(expr.Y, ctx)
	if err != nil {
		return nil, err
	}

	switch expr.Op {
	case hir.OpAdd, hir.OpSub, hir.OpMul, hir.OpDiv:
		return in.evalArithmetic(expr, left, right, ctx)
	case hir.OpEq:
		return &BoolValue{Value: Equals(left, right)}, nil
	case hir.OpNe:
		return &BoolValue{Value: !Equals(left, right)}, nil
	case hir.OpLt, hir.OpGt, hir.OpLe, hir.OpGe:
		return in.evalOrdering(expr, left, right, ctx)
	}
	return nil, newError(InvalidOperation, expr.Span, ctx.stack(),
		"unsupported operator '%s'", expr.Op)
}

func (in *Interpreter) evalLogical(expr *hir.Expr, ctx *ExecutionContext) (Value, *RuntimeError) {
	left, err := in.eval(expr.X, ctx)
	if err != nil {
		return nil, err
	}
	lb, ok := left.(*BoolValue)
	if !ok {
		if IsNull(left) {
			return nil, newError(NullOperation, in.module.Expr(expr.X).Span, ctx.stack(),
				"cannot use null as a boolean operand")
		}
		return nil, newError(TypeMismatch, in.module.Expr(expr.X).Span, ctx.stack(),
			"'%s' needs boolean operands, got %s", expr.Op, left.Type())
	}

	// Short-circuit before touching the right operand.
	if expr.Op == hir.OpAnd && !lb.Value {
		return &BoolValue{Value: false}, nil
	}
	if expr.Op == hir.OpOr && lb.Value {
		return &BoolValue{Value: true}, nil
	}

	right, err := in.eval(expr.Y, ctx)
	if err != nil {
		return nil, err
	}
	rb, ok := right.(*BoolValue)
	if !ok {
		if IsNull(right) {
			return nil, newError(NullOperation, in.module.Expr(expr.Y).Span, ctx.stack(),
				"cannot use null as a boolean operand")
		}
		return nil, newError(TypeMismatch, in.module.Expr(expr.Y).Span, ctx.stack(),
			"'%s' needs boolean operands, got %s", expr.Op, right.Type())
	}
	return &BoolValue{Value: rb.Value}, nil
}

// evalArithmetic implements + - * / over matching operand types: 64-bit
// two's-complement for ints, IEEE-754 for floats, concatenation for string
// '+'. Division by zero raises for both ints and floats; floats do not
// produce infinities here.
func (in *Interpreter) evalArithmetic(expr *hir.Expr, left, right Value, ctx *ExecutionContext) (Value, *RuntimeError) {
	if IsNull(left) || IsNull(right) {
		return nil, newError(NullOperation, expr.OpSpan, ctx.stack(),
			"cannot apply '%s' to null", expr.Op)
	}

	if ls, ok := left.(*StringValue); ok && expr.Op == hir.OpAdd {
		if rs, ok := right.(*StringValue); ok {
			return &StringValue{Value: ls.Value + rs.Value}, nil
		}
	}

	if li, ok := left.(*IntValue); ok {
		ri, ok := right.(*IntValue)
		if !ok {
			return nil, in.arithmeticMismatch(expr, left, right, ctx)
		}
		switch expr.Op {
		case hir.OpAdd:
			return &IntValue{Value: li.Value + ri.Value}, nil
		case hir.OpSub:
			return &IntValue{Value: li.Value - ri.Value}, nil
		case hir.OpMul:
			return &IntValue{Value: li.Value * ri.Value}, nil
		case hir.OpDiv:
			if ri.Value == 0 {
				return nil, newError(DivisionByZero, expr.OpSpan, ctx.stack(),
					"division by zero")
			}
			return &IntValue{Value: li.Value / ri.Value}, nil
		}
	}

	if lf, ok := left.(*FloatValue); ok {
		rf, ok := right.(*FloatValue)
		if !ok {
			return nil, in.arithmeticMismatch(expr, left, right, ctx)
		}
		switch expr.Op {
		case hir.OpAdd:
			return &FloatValue{Value: lf.Value + rf.Value}, nil
		case hir.OpSub:
			return &FloatValue{Value: lf.Value - rf.Value}, nil
		case hir.OpMul:
			return &FloatValue{Value: lf.Value * rf.Value}, nil
		case hir.OpDiv:
			if rf.Value == 0 {
				return nil, newError(DivisionByZero, expr.OpSpan, ctx.stack(),
					"division by zero")
			}
			return &FloatValue{Value: lf.Value / rf.Value}, nil
		}
	}

	return nil, in.arithmeticMismatch(expr, left, right, ctx)
}

func (in *Interpreter) arithmeticMismatch(expr *hir.Expr, left, right Value, ctx *ExecutionContext) *RuntimeError {
	return newError(TypeMismatch, expr.OpSpan, ctx.stack(),
		"cannot apply '%s' to %s and %s", expr.Op, left.Type(), right.Type())
}

// evalOrdering implements < > <= >= over ints, floats, and strings.
// Ordering against null raises NullOperation; only equality is defined for
// null.
func (in *Interpreter) evalOrdering(expr *hir.Expr, left, right Value, ctx *ExecutionContext) (Value, *RuntimeError) {
	if IsNull(left) || IsNull(right) {
		return nil, newError(NullOperation, expr.OpSpan, ctx.stack(),
			"cannot order null values; only equality is defined for null")
	}

	var cmp int
	switch lv := left.(type) {
	case *IntValue:
		rv, ok := right.(*IntValue)
		if !ok {
			return nil, in.arithmeticMismatch(expr, left, right, ctx)
		}
		switch {
		case lv.Value < rv.Value:
			cmp = -1
		case lv.Value > rv.Value:
			cmp = 1
		}
	case *FloatValue:
		rv, ok := right.(*FloatValue)
		if !ok {
			return nil, in.arithmeticMismatch(expr, left, right, ctx)
		}
		switch {
		case lv.Value < rv.Value:
			cmp = -1
		case lv.Value > rv.Value:
			cmp = 1
		}
	case *StringValue:
		rv, ok := right.(*StringValue)
		if !ok {
			return nil, in.arithmeticMismatch(expr, left, right, ctx)
		}
		switch {
		case lv.Value < rv.Value:
			cmp = -1
		case lv.Value > rv.Value:
			cmp = 1
		}
	default:
		return nil, newError(InvalidOperation, expr.OpSpan, ctx.stack(),
			"values of type %s cannot be ordered", left.Type())
	}

	var result bool
	switch expr.Op {
	case hir.OpLt:
		result = cmp < 0
	case hir.OpGt:
		result = cmp > 0
	case hir.OpLe:
		result = cmp <= 0
	case hir.OpGe:
		result = cmp >= 0
	}
	return &BoolValue{Value: result}, nil
}

func (in *Interpreter) evalUnary(expr *hir.Expr, ctx *ExecutionContext) (Value, *RuntimeError) {
	operand, err := in.eval(expr.X, ctx)
	if err != nil {
		return nil, err
	}
	if IsNull(operand) {
		return nil, newError(NullOperation, expr.Span, ctx.stack(),
			"cannot apply '%s' to null", expr.Op)
	}

	switch expr.Op {
	case hir.OpNeg:
		switch v := operand.(type) {
		case *IntValue:
			return &IntValue{Value: -v.Value}, nil
		case *FloatValue:
			return &FloatValue{Value: -v.Value}, nil
		}
		return nil, newError(TypeMismatch, expr.Span, ctx.stack(),
			"unary '-' needs an int or float, got %s", operand.Type())
	case hir.OpNot:
		if b, ok := operand.(*BoolValue); ok {
			return &BoolValue{Value: !b.Value}, nil
		}
		return nil, newError(TypeMismatch, expr.Span, ctx.stack(),
			"'!' needs a boolean, got %s", operand.Type())
	}
	return nil, newError(InvalidOperation, expr.Span, ctx.stack(),
		"unsupported unary operator '%s'", expr.Op)
}
