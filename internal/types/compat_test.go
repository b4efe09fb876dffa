package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrimitiveCompatibility(t *testing.T) {
	assert.True(t, Compatible(Int, Int))
	assert.True(t, Compatible(String, String))
	// int and float require explicit conversion.
	assert.False(t, Compatible(Int, Float))
	assert.False(t, Compatible(Float, Int))
	assert.False(t, Compatible(Boolean, Int))
	assert.False(t, Compatible(String, Null))
}

func TestNullableCompatibility(t *testing.T) {
	optInt := &Nullable{Elem: Int}
	assert.True(t, Compatible(optInt, Int))
	assert.True(t, Compatible(optInt, Null))
	assert.True(t, Compatible(optInt, &Nullable{Elem: Int}))
	assert.False(t, Compatible(optInt, Float))
	// The bare type does not accept null or its nullable counterpart.
	assert.False(t, Compatible(Int, Null))
	assert.False(t, Compatible(Int, optInt))
}

func TestArrayCompatibility(t *testing.T) {
	assert.True(t, Compatible(&Array{Elem: Int}, &Array{Elem: Int}))
	assert.False(t, Compatible(&Array{Elem: Int}, &Array{Elem: Float}))
	assert.True(t, Compatible(
		&Array{Elem: &Nullable{Elem: Int}},
		&Array{Elem: &Nullable{Elem: Int}}))
	assert.False(t, Compatible(&Array{Elem: Int}, Int))
}

func TestFunctionCompatibility(t *testing.T) {
	f := &Function{Params: []Type{Int, String}, Return: Boolean}
	same := &Function{Params: []Type{Int, String}, Return: Boolean}
	assert.True(t, Compatible(f, same))
	assert.False(t, Compatible(f, &Function{Params: []Type{Int}, Return: Boolean}))
	assert.False(t, Compatible(f, &Function{Params: []Type{Int, String}, Return: Int}))
}

func TestAliasCompatibility(t *testing.T) {
	id := &Named{Name: "Id", Underlying: Int}
	assert.True(t, Compatible(id, Int))
	assert.True(t, Compatible(Int, id))
	assert.False(t, Compatible(id, Float))
}

func TestErrorSilencesCascades(t *testing.T) {
	assert.True(t, Compatible(ErrType, Int))
	assert.True(t, Compatible(String, ErrType))
}

func TestObjectAcceptsNonVoid(t *testing.T) {
	assert.True(t, Compatible(Object, Int))
	assert.True(t, Compatible(Object, &Array{Elem: String}))
	assert.False(t, Compatible(Object, Void))
}

func TestInferVarIsPermissive(t *testing.T) {
	v := &InferVar{Id: 1}
	assert.True(t, Compatible(v, Int))
	assert.True(t, Compatible(Int, v))
}

func TestCommonType(t *testing.T) {
	got, ok := Common(Int, Int)
	require.True(t, ok)
	assert.Equal(t, Type(Int), got)

	// null joins with int as int?.
	got, ok = Common(Null, Int)
	require.True(t, ok)
	nullable, isNullable := got.(*Nullable)
	require.True(t, isNullable)
	assert.Equal(t, Type(Int), nullable.Elem)

	got, ok = Common(Int, Null)
	require.True(t, ok)
	_, isNullable = got.(*Nullable)
	assert.True(t, isNullable)

	// int? joins with null as itself.
	optInt := &Nullable{Elem: Int}
	got, ok = Common(optInt, Null)
	require.True(t, ok)
	assert.Equal(t, Type(optInt), got)

	_, ok = Common(Int, String)
	assert.False(t, ok)

	got, ok = Common(ErrType, String)
	require.True(t, ok)
	assert.Equal(t, Type(String), got)
}
