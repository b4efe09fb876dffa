package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nx-lang/nx-go/internal/lexer"
	"github.com/nx-lang/nx-go/internal/source"
)

func tok(tt lexer.TokenType, lit string, start, end int) lexer.Token {
	return lexer.Token{Type: tt, Literal: lit, Span: source.NewSpan(start, end)}
}

func TestNodeSpanCoversChildren(t *testing.T) {
	inner := NewNode(KindIdentExpr, source.Span{}, TokenChild(tok(lexer.IDENT, "x", 4, 5)))
	n := NewNode(KindBinaryExpr, source.Span{},
		NodeChild(inner),
		TokenChild(tok(lexer.PLUS, "+", 6, 7)),
		NodeChild(NewNode(KindIdentExpr, source.Span{}, TokenChild(tok(lexer.IDENT, "y", 8, 9)))),
	)
	assert.Equal(t, source.NewSpan(4, 9), n.Span)
}

func TestEmptyNodeUsesFallbackSpan(t *testing.T) {
	n := NewNode(KindError, source.NewSpan(3, 3))
	assert.Equal(t, source.NewSpan(3, 3), n.Span)
	assert.Equal(t, 0, n.ChildCount())
}

func TestChildAccessors(t *testing.T) {
	name := NewNode(KindTagName, source.Span{}, TokenChild(tok(lexer.IDENT, "p", 1, 2)))
	prop := NewNode(KindProperty, source.Span{}, TokenChild(tok(lexer.IDENT, "id", 3, 5)))
	n := NewNode(KindElementSelfClosing, source.Span{},
		TokenChild(tok(lexer.LESS, "<", 0, 1)),
		NodeChild(name),
		NodeChild(prop),
		TokenChild(tok(lexer.SLASH_GREATER, "/>", 6, 8)),
	)

	assert.Len(t, n.Nodes(), 2)
	assert.Len(t, n.Tokens(), 2)
	assert.Equal(t, name, n.FirstOfKind(KindTagName))
	assert.Nil(t, n.FirstOfKind(KindTextRun))
	assert.Len(t, n.NodesOfKind(KindProperty), 1)

	lt, ok := n.FirstToken(lexer.LESS)
	require.True(t, ok)
	assert.Equal(t, "<", lt.Literal)
	_, ok = n.FirstToken(lexer.GREATER)
	assert.False(t, ok)

	assert.Equal(t, Child{}, n.ChildAt(99))
}

func TestTreeTextOfRoundTrip(t *testing.T) {
	src := "<p>hi</p>"
	tree := &Tree{Root: NewNode(KindModule, source.NewSpan(0, len(src))), Text: src}
	assert.Equal(t, src, tree.TextOf(tree.Root.Span))
	assert.Equal(t, "hi", tree.TextOf(source.NewSpan(3, 5)))
	// Out-of-range spans clip instead of panicking.
	assert.Equal(t, "", tree.TextOf(source.NewSpan(50, 60)))
}

func TestWalkStopsOnFalse(t *testing.T) {
	leaf := NewNode(KindIdentExpr, source.NewSpan(0, 1))
	mid := NewNode(KindGroupExpr, source.Span{}, NodeChild(leaf))
	root := NewNode(KindModule, source.Span{}, NodeChild(mid))
	tree := &Tree{Root: root}

	var visited []Kind
	tree.Walk(func(n *Node) bool {
		visited = append(visited, n.Kind)
		return n.Kind != KindGroupExpr
	})
	assert.Equal(t, []Kind{KindModule, KindGroupExpr}, visited)
}

func TestKindPredicates(t *testing.T) {
	assert.True(t, KindElement.IsElement())
	assert.True(t, KindElementRawText.IsElement())
	assert.False(t, KindLetStmt.IsElement())
	assert.True(t, KindBinaryExpr.IsExpr())
	assert.True(t, KindElementSelfClosing.IsExpr())
	assert.False(t, KindParam.IsExpr())
	assert.True(t, KindNullableType.IsTypeRef())
	assert.False(t, KindBlockExpr.IsTypeRef())
}
