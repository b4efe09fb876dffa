package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringSpellings(t *testing.T) {
	assert.Equal(t, "int", Int.String())
	assert.Equal(t, "int[]", (&Array{Elem: Int}).String())
	assert.Equal(t, "string?", (&Nullable{Elem: String}).String())
	assert.Equal(t, "(int, float) => boolean",
		(&Function{Params: []Type{Int, Float}, Return: Boolean}).String())
	assert.Equal(t, "Id", (&Named{Name: "Id", Underlying: Int}).String())
	assert.Equal(t, "<error>", ErrType.String())
	assert.Equal(t, "t3", (&InferVar{Id: 3}).String())
}

func TestUnderlyingResolvesAliasChains(t *testing.T) {
	id := &Named{Name: "Id", Underlying: Int}
	userId := &Named{Name: "UserId", Underlying: id}
	assert.Equal(t, Type(Int), Underlying(userId))
	// Unresolved aliases degrade to the error type.
	assert.True(t, IsError(Underlying(&Named{Name: "Broken"})))
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric(Int))
	assert.True(t, IsNumeric(Float))
	assert.True(t, IsNumeric(&Named{Name: "Id", Underlying: Int}))
	assert.False(t, IsNumeric(String))
	assert.False(t, IsNumeric(Boolean))
}
