package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nx-lang/nx-go/internal/lexer"
	"github.com/nx-lang/nx-go/internal/syntax"
)

func TestSelfClosingElement(t *testing.T) {
	tree, node := parseExprOf(t, `<img src="logo.png" width=100 />`)
	require.Equal(t, syntax.KindElementSelfClosing, node.Kind)
	assert.Equal(t, "img", tagNameText(node.FirstOfKind(syntax.KindTagName)))

	props := node.NodesOfKind(syntax.KindProperty)
	require.Len(t, props, 2)
	key, _ := props[0].FirstToken(lexer.IDENT)
	assert.Equal(t, "src", key.Literal)
	assert.Equal(t, `src="logo.png"`, tree.TextOf(props[0].Span))
}

func TestKebabCasePropertyAndTag(t *testing.T) {
	_, node := parseExprOf(t, `<my-widget data-value=1 />`)
	assert.Equal(t, "my-widget", tagNameText(node.FirstOfKind(syntax.KindTagName)))
	props := node.NodesOfKind(syntax.KindProperty)
	require.Len(t, props, 1)
	key, _ := props[0].FirstToken(lexer.IDENT)
	assert.Equal(t, "data-value", key.Literal)
}

func TestQualifiedTagName(t *testing.T) {
	_, node := parseExprOf(t, `<ui.button label="go" />`)
	assert.Equal(t, "ui.button", tagNameText(node.FirstOfKind(syntax.KindTagName)))
}

func TestContainerElementMixedContent(t *testing.T) {
	src := "let <g name:string /> = { <p>Hello {name}</p> }"
	res := ParseStr(src, "greet.nx")
	require.True(t, res.IsOk(), "diagnostics: %v", res.Errors)

	var p *syntax.Node
	res.Tree.Walk(func(n *syntax.Node) bool {
		if n.Kind == syntax.KindElement {
			p = n
			return false
		}
		return true
	})
	require.NotNil(t, p)

	// Content is exactly one text run and one interpolation, no trailing text.
	var content []*syntax.Node
	for _, child := range p.Nodes() {
		if child.Kind == syntax.KindTextRun || child.Kind == syntax.KindInterpolation {
			content = append(content, child)
		}
	}
	require.Len(t, content, 2)
	assert.Equal(t, syntax.KindTextRun, content[0].Kind)
	assert.Equal(t, "Hello ", content[0].Tokens()[0].Literal)
	assert.Equal(t, syntax.KindInterpolation, content[1].Kind)
	ident := content[1].FirstOfKind(syntax.KindIdentExpr)
	require.NotNil(t, ident)
	assert.Equal(t, "name", res.Tree.TextOf(ident.Span))

	// Raw round-trip of the whole element equals the original slice.
	assert.Equal(t, "<p>Hello {name}</p>", res.Tree.TextOf(p.Span))
}

func TestNestedElements(t *testing.T) {
	_, node := parseExprOf(t, "<ul><li>a</li><li>b</li></ul>")
	require.Equal(t, syntax.KindElement, node.Kind)
	items := node.NodesOfKind(syntax.KindElement)
	assert.Len(t, items, 2)
}

func TestEntitiesAndEscapesInContent(t *testing.T) {
	tree, node := parseExprOf(t, `<p>fish &amp; chips \{and\} &#33;</p>`)
	run := node.FirstOfKind(syntax.KindTextRun)
	require.NotNil(t, run)

	var decoded string
	for _, tok := range run.Tokens() {
		decoded += tok.Literal
	}
	assert.Equal(t, "fish & chips {and} !", decoded)
	// The lossless tree still spells the original bytes.
	assert.Equal(t, `fish &amp; chips \{and\} &#33;`, tree.TextOf(run.Span))
}

func TestTypedTextElement(t *testing.T) {
	_, node := parseExprOf(t, "<title:string>Hi {1 + 2}</title>")
	require.Equal(t, syntax.KindElementTypedText, node.Kind)
	assert.NotNil(t, node.FirstOfKind(syntax.KindNamedType))
	assert.NotNil(t, node.FirstOfKind(syntax.KindTextRun))
	assert.NotNil(t, node.FirstOfKind(syntax.KindInterpolation))
}

func TestRawTextElement(t *testing.T) {
	tree, node := parseExprOf(t, "<code:string raw>{not} an &amp; interpolation</code>")
	require.Equal(t, syntax.KindElementRawText, node.Kind)
	run := node.FirstOfKind(syntax.KindTextRun)
	require.NotNil(t, run)
	toks := run.Tokens()
	require.Len(t, toks, 1)
	assert.Equal(t, lexer.RAW_TEXT, toks[0].Type)
	// Raw bodies are opaque: braces and entities stay verbatim.
	assert.Equal(t, "{not} an &amp; interpolation", toks[0].Literal)
	assert.Equal(t, "{not} an &amp; interpolation", tree.TextOf(run.Span))
}

func TestElementPropertyWithExpression(t *testing.T) {
	_, node := parseExprOf(t, "<box width={2 * margin} />")
	props := node.NodesOfKind(syntax.KindProperty)
	require.Len(t, props, 1)
	inter := props[0].FirstOfKind(syntax.KindInterpolation)
	require.NotNil(t, inter)
	assert.NotNil(t, inter.FirstOfKind(syntax.KindBinaryExpr))
}

func TestTopLevelElementItem(t *testing.T) {
	tree := parseOk(t, "<app><main /></app>")
	require.Len(t, tree.Root.NodesOfKind(syntax.KindElement), 1)
}

func TestWhitespacePreservedInContent(t *testing.T) {
	_, node := parseExprOf(t, "<pre>  spaced\n\tout  </pre>")
	run := node.FirstOfKind(syntax.KindTextRun)
	require.NotNil(t, run)
	assert.Equal(t, "  spaced\n\tout  ", run.Tokens()[0].Literal)
}
