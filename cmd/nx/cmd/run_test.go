package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nx-lang/nx-go/pkg/nx"
)

func TestParseArgument(t *testing.T) {
	assert.Equal(t, nx.Int(42), parseArgument("42"))
	assert.Equal(t, nx.Int(-7), parseArgument("-7"))
	assert.Equal(t, nx.Float(1.5), parseArgument("1.5"))
	assert.Equal(t, nx.Bool(true), parseArgument("true"))
	assert.Equal(t, nx.Bool(false), parseArgument("false"))
	assert.Equal(t, nx.Null(), parseArgument("null"))
	assert.Equal(t, nx.Str("hello"), parseArgument("hello"))
	assert.Equal(t, nx.Array(nx.Int(1), nx.Int(2)), parseArgument("[1, 2]"))
	assert.Equal(t, nx.Array(), parseArgument("[]"))
	assert.Equal(t, nx.Array(nx.Str("a"), nx.Bool(true)), parseArgument("[a,true]"))
}
