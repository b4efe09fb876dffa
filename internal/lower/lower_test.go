package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nx-lang/nx-go/internal/diag"
	"github.com/nx-lang/nx-go/internal/hir"
	"github.com/nx-lang/nx-go/internal/parser"
)

// lowerSrc parses and lowers source, failing the test on parse errors.
func lowerSrc(t *testing.T, src string) *Result {
	t.Helper()
	res := parser.ParseStr(src, "test.nx")
	require.True(t, res.IsOk(), "parse diagnostics: %v", res.Errors)
	return Lower(res.Tree)
}

// lowerOk additionally requires lowering to be diagnostic-free.
func lowerOk(t *testing.T, src string) *hir.Module {
	t.Helper()
	res := lowerSrc(t, src)
	require.Empty(t, res.Diagnostics, "lowering diagnostics: %v", res.Diagnostics)
	return res.Module
}

func TestLowerSimpleFunction(t *testing.T) {
	m := lowerOk(t, "let <add a:int b:int /> = { a + b }")
	fn, _, ok := m.FunctionByName("add")
	require.True(t, ok)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name)
	assert.Equal(t, hir.TypeRefNamed, m.TypeRef(fn.Params[0].TypeRef).Kind)
	assert.Equal(t, "int", m.TypeRef(fn.Params[0].TypeRef).Name)

	body := m.Expr(fn.Body)
	require.Equal(t, hir.ExprBlock, body.Kind)
	require.NotEqual(t, hir.NoExpr, body.X)

	sum := m.Expr(body.X)
	require.Equal(t, hir.ExprBinary, sum.Kind)
	assert.Equal(t, hir.OpAdd, sum.Op)
	assert.Equal(t, hir.ExprIdent, m.Expr(sum.X).Kind)
	assert.Equal(t, "a", m.Expr(sum.X).Name)
}

func TestSpansCopiedToHIR(t *testing.T) {
	src := "let <add a:int b:int /> = { a + b }"
	m := lowerOk(t, src)
	fn, _, _ := m.FunctionByName("add")
	sum := m.Expr(m.Expr(fn.Body).X)
	assert.Equal(t, "a + b", src[sum.Span.Start:sum.Span.End])
}

func TestParensFoldAway(t *testing.T) {
	m := lowerOk(t, "let <f /> = { (1 + 2) * 3 }")
	fn, _, _ := m.FunctionByName("f")
	mul := m.Expr(m.Expr(fn.Body).X)
	require.Equal(t, hir.ExprBinary, mul.Kind)
	// The grouped operand lowers directly to the inner binary node.
	assert.Equal(t, hir.ExprBinary, m.Expr(mul.X).Kind)
}

func TestLiteralDecoding(t *testing.T) {
	m := lowerOk(t, `let <f /> = { [1_000, 0xFF, 1.5, "s", true, null] }`)
	fn, _, _ := m.FunctionByName("f")
	arr := m.Expr(m.Expr(fn.Body).X)
	require.Equal(t, hir.ExprArray, arr.Kind)
	require.Len(t, arr.List, 6)

	assert.Equal(t, int64(1000), m.Expr(arr.List[0]).Lit.Int)
	assert.Equal(t, int64(255), m.Expr(arr.List[1]).Lit.Int)
	assert.Equal(t, 1.5, m.Expr(arr.List[2]).Lit.Float)
	assert.Equal(t, "s", m.Expr(arr.List[3]).Lit.Str)
	assert.Equal(t, true, m.Expr(arr.List[4]).Lit.Bool)
	assert.Equal(t, hir.LitNull, m.Expr(arr.List[5]).Lit.Kind)
}

func TestUndefinedIdentifier(t *testing.T) {
	res := lowerSrc(t, "let <f count:int /> = { cuont }")
	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.Equal(t, "E1001", d.Code)
	assert.Contains(t, d.Message, "cuont")
	require.NotEmpty(t, d.Notes)
	assert.Contains(t, d.Notes[0], "count")

	// The use site lowers to an error expression, not a crash.
	fn, _, _ := res.Module.FunctionByName("f")
	assert.Equal(t, hir.ExprError, res.Module.Expr(res.Module.Expr(fn.Body).X).Kind)
}

func TestForwardReferenceResolves(t *testing.T) {
	m := lowerOk(t, "let <f /> = { g() }\nlet <g /> = { 1 }")
	fn, _, _ := m.FunctionByName("f")
	call := m.Expr(m.Expr(fn.Body).X)
	require.Equal(t, hir.ExprCall, call.Kind)
	assert.Equal(t, hir.ExprIdent, m.Expr(call.X).Kind)
}

func TestDuplicateFunctionReported(t *testing.T) {
	res := lowerSrc(t, "let <f /> = { 1 }\nlet <f /> = { 2 }")
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "E1002", res.Diagnostics[0].Code)
	require.Len(t, res.Diagnostics[0].Labels, 1)
	assert.Equal(t, diag.StyleSecondary, res.Diagnostics[0].Labels[0].Style)
}

func TestDuplicateLetInSameScope(t *testing.T) {
	res := lowerSrc(t, "let <f /> = { let x = 1 let x = 2 x }")
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "E1003", res.Diagnostics[0].Code)
}

func TestShadowingAcrossBlocksAllowed(t *testing.T) {
	m := lowerOk(t, "let <f x:int /> = { let y = { let x = 2 x } x + y }")
	_, _, ok := m.FunctionByName("f")
	assert.True(t, ok)
}

func TestLetOrderVisibility(t *testing.T) {
	// A binding is visible to the statements after it, not before.
	res := lowerSrc(t, "let <f /> = { let a = b let b = 1 a }")
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "E1001", res.Diagnostics[0].Code)
	assert.Contains(t, res.Diagnostics[0].Message, "'b'")
}

func TestForLoopBindings(t *testing.T) {
	m := lowerOk(t, "let <f xs:int[] /> = { for x, i in xs : x + i /for }")
	fn, _, _ := m.FunctionByName("f")
	loop := m.Expr(m.Expr(fn.Body).X)
	require.Equal(t, hir.ExprFor, loop.Kind)
	assert.Equal(t, "x", loop.Name)
	assert.Equal(t, "i", loop.IndexName)
}

func TestForVariableNotVisibleOutside(t *testing.T) {
	res := lowerSrc(t, "let <f xs:int[] /> = { let a = for x in xs : x /for x }")
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "E1001", res.Diagnostics[0].Code)
}

func TestMatchArmsLowered(t *testing.T) {
	m := lowerOk(t, `let <icon s:string /> = { if s is { "ok": 1 "warn": 2 else: 3 /if } }`)
	fn, _, _ := m.FunctionByName("icon")
	match := m.Expr(m.Expr(fn.Body).X)
	require.Equal(t, hir.ExprIfIs, match.Kind)
	require.Len(t, match.Arms, 3)
	assert.Len(t, match.Arms[0].Patterns, 1)
	assert.Empty(t, match.Arms[2].Patterns, "else arm has no patterns")
}

func TestElementLowering(t *testing.T) {
	m := lowerOk(t, `let <g name:string /> = { <p class="x">Hello {name}</p> }`)
	fn, _, _ := m.FunctionByName("g")
	elemExpr := m.Expr(m.Expr(fn.Body).X)
	require.Equal(t, hir.ExprElement, elemExpr.Kind)

	elem := m.Element(elemExpr.Element)
	assert.Equal(t, "p", elem.Tag)
	assert.False(t, elem.Raw)
	require.Len(t, elem.Properties, 1)
	assert.Equal(t, "class", m.Property(elem.Properties[0]).Key)

	require.Len(t, elem.Children, 2)
	text := m.Expr(elem.Children[0])
	assert.Equal(t, hir.ExprLiteral, text.Kind)
	assert.Equal(t, "Hello ", text.Lit.Str)
	assert.Equal(t, hir.ExprInterpolation, m.Expr(elem.Children[1]).Kind)
}

func TestTextRunEntityDecoding(t *testing.T) {
	m := lowerOk(t, `<p>a &amp; b \{c\}</p>`)
	require.Len(t, m.Items, 1)
	elem := m.Element(m.Items[0].Element)
	require.Len(t, elem.Children, 1)
	assert.Equal(t, "a & b {c}", m.Expr(elem.Children[0]).Lit.Str)
}

func TestRawElementKeepsBytes(t *testing.T) {
	m := lowerOk(t, "let <f /> = { <code:string raw>a &amp; \\{b\\}</code> }")
	fn, _, _ := m.FunctionByName("f")
	elem := m.Element(m.Expr(m.Expr(fn.Body).X).Element)
	assert.True(t, elem.Raw)
	assert.Equal(t, "string", elem.TextType)
	require.Len(t, elem.Children, 1)
	assert.Equal(t, `a &amp; \{b\}`, m.Expr(elem.Children[0]).Lit.Str)
}

func TestMarkupFlagOnControlForms(t *testing.T) {
	m := lowerOk(t, "let <f ok:boolean /> = { <div>{if ok : <a/> else : <b/> /if}</div> }")
	fn, _, _ := m.FunctionByName("f")
	div := m.Element(m.Expr(m.Expr(fn.Body).X).Element)
	require.Len(t, div.Children, 1)
	interp := m.Expr(div.Children[0])
	require.Equal(t, hir.ExprInterpolation, interp.Kind)
	assert.True(t, m.Expr(interp.X).Markup)
}

func TestTypeRefLowering(t *testing.T) {
	m := lowerOk(t, "type F = (int, string?) => boolean[]")
	require.Len(t, m.Aliases, 1)
	fnRef := m.TypeRef(m.Aliases[0].TypeRef)
	require.Equal(t, hir.TypeRefFunction, fnRef.Kind)
	require.Len(t, fnRef.Params, 2)
	assert.Equal(t, hir.TypeRefNullable, m.TypeRef(fnRef.Params[1]).Kind)
	assert.Equal(t, hir.TypeRefArray, m.TypeRef(fnRef.Return).Kind)
}

func TestSequenceTypeLowersToArray(t *testing.T) {
	m := lowerOk(t, "type S = int...")
	ref := m.TypeRef(m.Aliases[0].TypeRef)
	assert.Equal(t, hir.TypeRefArray, ref.Kind)
	assert.Equal(t, "int", m.TypeRef(ref.Elem).Name)
}

func TestLoweringIsTotalOnBrokenInput(t *testing.T) {
	// Parse errors still produce a module with error sinks.
	res := parser.ParseStr("let <f /> = { 1 + }\nlet <g = junk", "broken.nx")
	require.NotNil(t, res.Tree)
	lowered := Lower(res.Tree)
	require.NotNil(t, lowered.Module)
	_, _, ok := lowered.Module.FunctionByName("f")
	assert.True(t, ok)
}

func TestImportsLowered(t *testing.T) {
	m := lowerOk(t, "import ui.widgets\nimport core")
	require.Len(t, m.Imports, 2)
	assert.Equal(t, "ui.widgets", m.Imports[0].Path)
	assert.Equal(t, "core", m.Imports[1].Path)
}

func TestItemsKeepSourceOrder(t *testing.T) {
	m := lowerOk(t, "type A = int\nlet <f /> = { 1 }\ntype B = string\n<app />")
	require.Len(t, m.Items, 4)
	assert.Equal(t, hir.ItemTypeAlias, m.Items[0].Kind)
	assert.Equal(t, hir.ItemFunction, m.Items[1].Kind)
	assert.Equal(t, hir.ItemTypeAlias, m.Items[2].Kind)
	assert.Equal(t, hir.ItemElement, m.Items[3].Kind)
	assert.Equal(t, "A", m.Aliases[m.Items[0].Alias].Name)
	assert.Equal(t, "B", m.Aliases[m.Items[2].Alias].Name)
}
