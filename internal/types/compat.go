package types

// Compatible reports whether a value of type actual can be used where
// expected is required. The relation is structural:
//
//   - primitives match themselves; int and float never mix implicitly
//   - T? accepts T, null, and U? when U is compatible with T
//   - T[] accepts U[] when U is compatible with T
//   - function types match pairwise over parameters and return
//   - object accepts any non-void value
//   - the error type is compatible in both directions to stop cascades
//
// Inference variables compare compatible here; the checker resolves them by
// propagation before compatibility becomes load-bearing.
func Compatible(expected, actual Type) bool {
	if expected == nil || actual == nil {
		return false
	}
	if IsError(expected) || IsError(actual) {
		return true
	}
	if _, ok := expected.(*InferVar); ok {
		return true
	}
	if _, ok := actual.(*InferVar); ok {
		return true
	}

	exp := Underlying(expected)
	act := Underlying(actual)
	if IsError(exp) || IsError(act) {
		return true
	}

	switch e := exp.(type) {
	case *Primitive:
		if e == Object {
			return act != Void
		}
		return exp == act
	case *Nullable:
		if act == Null {
			return true
		}
		if an, ok := act.(*Nullable); ok {
			return Compatible(e.Elem, an.Elem)
		}
		return Compatible(e.Elem, act)
	case *Array:
		aa, ok := act.(*Array)
		return ok && Compatible(e.Elem, aa.Elem)
	case *Function:
		af, ok := act.(*Function)
		if !ok || len(e.Params) != len(af.Params) {
			return false
		}
		for i := range e.Params {
			if !Compatible(e.Params[i], af.Params[i]) {
				return false
			}
		}
		return Compatible(e.Return, af.Return)
	default:
		return false
	}
}

// Common returns the least type both a and b are compatible with, for
// joining branch and array-element types. ok is false when no common type
// exists.
func Common(a, b Type) (Type, bool) {
	if a == nil || b == nil {
		return ErrType, false
	}
	if IsError(a) {
		return b, true
	}
	if IsError(b) {
		return a, true
	}

	ua, ub := Underlying(a), Underlying(b)
	if ua == Null && ub == Null {
		return Null, true
	}
	// null joins with T as T?.
	if ua == Null {
		if _, already := ub.(*Nullable); already {
			return b, true
		}
		return &Nullable{Elem: b}, true
	}
	if ub == Null {
		if _, already := ua.(*Nullable); already {
			return a, true
		}
		return &Nullable{Elem: a}, true
	}

	if Compatible(a, b) {
		return a, true
	}
	if Compatible(b, a) {
		return b, true
	}
	return ErrType, false
}
