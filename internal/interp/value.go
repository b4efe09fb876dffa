// Package interp provides the tree-walking interpreter and runtime for NX.
package interp

import (
	"strconv"
	"strings"

	"github.com/nx-lang/nx-go/internal/hir"
)

// Value represents a runtime value. All runtime values implement this
// interface; the interpreter never stores raw interface{} values.
type Value interface {
	// Type returns the runtime type name of the value (e.g. "int").
	Type() string
	// String returns the display representation of the value.
	String() string
}

// IntValue is a 64-bit signed integer.
type IntValue struct {
	Value int64
}

func (v *IntValue) Type() string   { return "int" }
func (v *IntValue) String() string { return strconv.FormatInt(v.Value, 10) }

// FloatValue is a 64-bit IEEE-754 float.
type FloatValue struct {
	Value float64
}

func (v *FloatValue) Type() string   { return "float" }
func (v *FloatValue) String() string { return strconv.FormatFloat(v.Value, 'g', -1, 64) }

// StringValue owns its text.
type StringValue struct {
	Value string
}

func (v *StringValue) Type() string   { return "string" }
func (v *StringValue) String() string { return v.Value }

// BoolValue is a boolean.
type BoolValue struct {
	Value bool
}

func (v *BoolValue) Type() string { return "boolean" }
func (v *BoolValue) String() string {
	if v.Value {
		return "true"
	}
	return "false"
}

// NullValue is the null literal's value and the result of void expressions.
type NullValue struct{}

func (v *NullValue) Type() string   { return "null" }
func (v *NullValue) String() string { return "null" }

// ArrayValue owns its elements.
type ArrayValue struct {
	Elements []Value
}

func (v *ArrayValue) Type() string { return "array" }
func (v *ArrayValue) String() string {
	parts := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// FunctionValue is reserved for first-class functions. Evaluating an
// identifier that names a module function yields one; calls resolve their
// callee by name, so a FunctionValue itself is never called.
type FunctionValue struct {
	Name   string
	Params []string
	Body   hir.ExprId
}

func (v *FunctionValue) Type() string   { return "function" }
func (v *FunctionValue) String() string { return "<function " + v.Name + ">" }

// ElementProperty is one evaluated key=value pair on an element value.
type ElementProperty struct {
	Key   string
	Value Value
}

// ElementValue is an evaluated markup element: tag, properties in source
// order, and evaluated children.
type ElementValue struct {
	Tag        string
	Properties []ElementProperty
	Children   []Value
}

func (v *ElementValue) Type() string { return "element" }
func (v *ElementValue) String() string {
	var sb strings.Builder
	sb.WriteString("<" + v.Tag)
	for _, p := range v.Properties {
		sb.WriteString(" " + p.Key + "=" + p.Value.String())
	}
	if len(v.Children) == 0 {
		sb.WriteString(" />")
		return sb.String()
	}
	sb.WriteString(">")
	for _, child := range v.Children {
		sb.WriteString(child.String())
	}
	sb.WriteString("</" + v.Tag + ">")
	return sb.String()
}

// Property returns the value of a property by key.
func (v *ElementValue) Property(key string) (Value, bool) {
	for _, p := range v.Properties {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// IsNull reports whether the value is null.
func IsNull(v Value) bool {
	_, ok := v.(*NullValue)
	return ok
}

// Equals implements value equality for scalars, null, and arrays. Values of
// different runtime types are never equal, except that comparing anything
// with null is defined and yields false unless both are null.
func Equals(a, b Value) bool {
	switch av := a.(type) {
	case *NullValue:
		return IsNull(b)
	case *IntValue:
		bv, ok := b.(*IntValue)
		return ok && av.Value == bv.Value
	case *FloatValue:
		bv, ok := b.(*FloatValue)
		return ok && av.Value == bv.Value
	case *StringValue:
		bv, ok := b.(*StringValue)
		return ok && av.Value == bv.Value
	case *BoolValue:
		bv, ok := b.(*BoolValue)
		return ok && av.Value == bv.Value
	case *ArrayValue:
		bv, ok := b.(*ArrayValue)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equals(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	}
	return false
}
