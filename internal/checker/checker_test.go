package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nx-lang/nx-go/internal/diag"
	"github.com/nx-lang/nx-go/internal/hir"
	"github.com/nx-lang/nx-go/internal/types"
)

// checkOk checks source that must produce no diagnostics at all.
func checkOk(t *testing.T, src string) *Result {
	t.Helper()
	res := CheckStr(src, "test.nx")
	require.Empty(t, res.Diagnostics, "unexpected diagnostics: %v", res.Diagnostics)
	return res
}

// firstError returns the first error-severity diagnostic.
func firstError(t *testing.T, res *Result) diag.Diagnostic {
	t.Helper()
	for _, d := range res.Diagnostics {
		if d.IsError() {
			return d
		}
	}
	t.Fatal("expected an error diagnostic")
	return diag.Diagnostic{}
}

// bodyType returns the checked type of a function's body.
func bodyType(t *testing.T, res *Result, name string) types.Type {
	t.Helper()
	fn, _, ok := res.Module.FunctionByName(name)
	require.True(t, ok)
	typ, present := res.ExprTypes[fn.Body]
	require.True(t, present, "body of %s was not typed", name)
	return typ
}

func TestArithmeticTypes(t *testing.T) {
	res := checkOk(t, "let <add a:int b:int /> = { a + b }")
	assert.Equal(t, types.Type(types.Int), bodyType(t, res, "add"))

	res = checkOk(t, "let <scale a:float b:float /> = { a * b }")
	assert.Equal(t, types.Type(types.Float), bodyType(t, res, "scale"))

	res = checkOk(t, `let <greet a:string b:string /> = { a + b }`)
	assert.Equal(t, types.Type(types.String), bodyType(t, res, "greet"))
}

func TestIntPlusStringIsError(t *testing.T) {
	res := CheckStr(`let <bad /> = { 1 + "x" }`, "bad.nx")
	assert.False(t, res.IsOk())
	d := firstError(t, res)
	assert.Equal(t, "E2001", d.Code)
	assert.Contains(t, d.Message, "int")
	assert.Contains(t, d.Message, "string")

	// One mistake, one diagnostic: the error type silences cascades.
	errs := 0
	for _, di := range res.Diagnostics {
		if di.IsError() {
			errs++
		}
	}
	assert.Equal(t, 1, errs)
}

func TestIntFloatNeverMix(t *testing.T) {
	res := CheckStr("let <bad a:int b:float /> = { a + b }", "mix.nx")
	assert.False(t, res.IsOk())
	assert.Contains(t, firstError(t, res).Message, "convert")
}

func TestDivisionKeepsStaticType(t *testing.T) {
	res := checkOk(t, "let <div a:int b:int /> = { a / b }")
	assert.Equal(t, types.Type(types.Int), bodyType(t, res, "div"))
}

func TestComparisonRules(t *testing.T) {
	checkOk(t, "let <f a:int b:int /> = { a < b }")
	checkOk(t, `let <f a:string b:string /> = { a < b }`)
	checkOk(t, "let <f a:boolean b:boolean /> = { a == b }")

	// Ordering on booleans is rejected; only equality is allowed.
	res := CheckStr("let <f a:boolean b:boolean /> = { a < b }", "ord.nx")
	assert.False(t, res.IsOk())
}

func TestLogicalOperators(t *testing.T) {
	res := checkOk(t, "let <f a:boolean b:boolean /> = { a && b || !a }")
	assert.Equal(t, types.Type(types.Boolean), bodyType(t, res, "f"))

	bad := CheckStr("let <f a:int /> = { a && true }", "log.nx")
	assert.False(t, bad.IsOk())
}

func TestUnaryMinus(t *testing.T) {
	res := checkOk(t, "let <f a:int /> = { -a }")
	assert.Equal(t, types.Type(types.Int), bodyType(t, res, "f"))

	bad := CheckStr(`let <f a:string /> = { -a }`, "neg.nx")
	assert.False(t, bad.IsOk())
}

func TestNullAssignableToNullable(t *testing.T) {
	checkOk(t, "let <f /> = { let x: int? = null x }")
	bad := CheckStr("let <f /> = { let x: int = null x }", "null.nx")
	assert.False(t, bad.IsOk())
}

func TestEqualityWithNullAllowed(t *testing.T) {
	checkOk(t, "let <f a:int? /> = { a == null }")
}

func TestNullableMisuseWarns(t *testing.T) {
	res := CheckStr("let <f a:int? b:int /> = { a + b }", "warn.nx")
	// A warning, not an error: the program still checks.
	assert.True(t, res.IsOk())
	found := false
	for _, d := range res.Diagnostics {
		if d.Code == "W2004" && d.Severity == diag.SeverityWarning {
			found = true
		}
	}
	assert.True(t, found, "expected a null-misuse warning, got %v", res.Diagnostics)
}

func TestLetAnnotationMismatch(t *testing.T) {
	res := CheckStr(`let <f /> = { let x: int = "s" x }`, "ann.nx")
	assert.False(t, res.IsOk())
	assert.Equal(t, "E2001", firstError(t, res).Code)
}

func TestLetInference(t *testing.T) {
	res := checkOk(t, "let <f /> = { let x = 1.5 x }")
	assert.Equal(t, types.Type(types.Float), bodyType(t, res, "f"))
}

func TestDeclaredReturnChecked(t *testing.T) {
	checkOk(t, "let <f /> : int = { 1 }")
	res := CheckStr(`let <f /> : int = { "s" }`, "ret.nx")
	assert.False(t, res.IsOk())
}

func TestInferredReturnPropagates(t *testing.T) {
	res := checkOk(t, "let <one /> = { 1 }\nlet <two /> = { one() + 1 }")
	assert.Equal(t, types.Type(types.Int), bodyType(t, res, "two"))
}

func TestCallArityAndTypes(t *testing.T) {
	src := "let <add a:int b:int /> = { a + b }\n"
	checkOk(t, src+"let <f /> = { add(1, 2) }")

	res := CheckStr(src+"let <f /> = { add(1) }", "arity.nx")
	assert.False(t, res.IsOk())
	assert.Equal(t, "E2003", firstError(t, res).Code)

	res = CheckStr(src+`let <f /> = { add(1, "x") }`, "argt.nx")
	assert.False(t, res.IsOk())
	assert.Equal(t, "E2001", firstError(t, res).Code)
}

func TestNotCallable(t *testing.T) {
	res := CheckStr("let <f a:int /> = { a(1) }", "call.nx")
	assert.False(t, res.IsOk())
	assert.Contains(t, firstError(t, res).Message, "not callable")
}

func TestArrayLiteralCommonType(t *testing.T) {
	res := checkOk(t, "let <f /> = { [1, 2, 3] }")
	arr, ok := bodyType(t, res, "f").(*types.Array)
	require.True(t, ok)
	assert.Equal(t, types.Type(types.Int), arr.Elem)

	// null joins into a nullable element type.
	res = checkOk(t, "let <f /> = { [null, 1] }")
	arr, ok = bodyType(t, res, "f").(*types.Array)
	require.True(t, ok)
	_, isNullable := arr.Elem.(*types.Nullable)
	assert.True(t, isNullable)

	bad := CheckStr(`let <f /> = { [1, "x"] }`, "mixed.nx")
	assert.False(t, bad.IsOk())
}

func TestIndexing(t *testing.T) {
	res := checkOk(t, "let <f xs:int[] /> = { xs[0] }")
	assert.Equal(t, types.Type(types.Int), bodyType(t, res, "f"))

	bad := CheckStr(`let <f xs:int[] /> = { xs["k"] }`, "idx.nx")
	assert.False(t, bad.IsOk())

	bad = CheckStr("let <f x:int /> = { x[0] }", "idx2.nx")
	assert.False(t, bad.IsOk())
}

func TestIfBranchTypes(t *testing.T) {
	res := checkOk(t, "let <max a:int b:int /> = { if a > b : a else : b /if }")
	assert.Equal(t, types.Type(types.Int), bodyType(t, res, "max"))

	bad := CheckStr(`let <f c:boolean /> = { if c : 1 else : "s" /if }`, "br.nx")
	assert.False(t, bad.IsOk())

	bad = CheckStr("let <f c:int /> = { if c : 1 else : 2 /if }", "cond.nx")
	assert.False(t, bad.IsOk())
}

func TestMatchPatternCompatibility(t *testing.T) {
	checkOk(t, `let <icon s:string /> = { if s is { "ok": 1 "warn": 2 /if } }`)

	res := CheckStr(`let <icon s:string /> = { if s is { 1: 1 /if } }`, "pat.nx")
	assert.False(t, res.IsOk())
	assert.Contains(t, firstError(t, res).Message, "never match")
}

func TestSwitchConditionListNeedsBooleans(t *testing.T) {
	checkOk(t, `let <f a:int /> = { switch case a > 1: "big" default: "small" /switch }`)
	res := CheckStr(`let <f a:int /> = { switch case a: "big" default: "s" /switch }`, "sw.nx")
	assert.False(t, res.IsOk())
}

func TestForLoopTypes(t *testing.T) {
	res := checkOk(t, "let <squares n:int[] /> = { for x in n : x * x /for }")
	arr, ok := bodyType(t, res, "squares").(*types.Array)
	require.True(t, ok)
	assert.Equal(t, types.Type(types.Int), arr.Elem)

	// Index binding is an int.
	checkOk(t, "let <f xs:string[] /> = { for s, i in xs : i /for }")

	bad := CheckStr("let <f x:int /> = { for v in x : v /for }", "for.nx")
	assert.False(t, bad.IsOk())
}

func TestElementHasElementType(t *testing.T) {
	res := checkOk(t, "let <f /> = { <p>hi</p> }")
	assert.Equal(t, types.Type(types.Element), bodyType(t, res, "f"))
}

func TestElementPropertiesCheckAgainstFunction(t *testing.T) {
	src := "let <card title:string width:int /> = { <div>{title}</div> }\n"
	checkOk(t, src+`let <page /> = { <card title="hello" width=3 /> }`)

	res := CheckStr(src+`let <page /> = { <card title="x" width="wide" /> }`, "prop.nx")
	assert.False(t, res.IsOk())
	assert.Equal(t, "E2001", firstError(t, res).Code)

	res = CheckStr(src+`let <page /> = { <card titel="x" width=1 /> }`, "prop2.nx")
	assert.False(t, res.IsOk())
	d := firstError(t, res)
	assert.Equal(t, "E2007", d.Code)
	require.NotEmpty(t, d.Notes)
	assert.Contains(t, d.Notes[0], "title")
}

func TestMissingRequiredProperty(t *testing.T) {
	src := "let <card title:string /> = { <div>{title}</div> }\n"
	res := CheckStr(src+"let <page /> = { <card /> }", "miss.nx")
	assert.False(t, res.IsOk())
	assert.Equal(t, "E2008", firstError(t, res).Code)
}

func TestTypeAliases(t *testing.T) {
	checkOk(t, "type Id = int\nlet <f x:Id /> = { x + 1 }")

	res := CheckStr("let <f x:Missing /> = { x }", "ut.nx")
	assert.False(t, res.IsOk())
	assert.Equal(t, "E2002", firstError(t, res).Code)
}

func TestUndefinedTypeSuggestion(t *testing.T) {
	res := CheckStr("let <f x:strng /> = { x }", "sug.nx")
	d := firstError(t, res)
	assert.Equal(t, "E2002", d.Code)
	require.NotEmpty(t, d.Notes)
	assert.Contains(t, d.Notes[0], "string")
}

func TestCircularTypeDetected(t *testing.T) {
	res := CheckStr("type A = B\ntype B = A", "cyc.nx")
	assert.False(t, res.IsOk())
	found := 0
	for _, d := range res.Diagnostics {
		if d.Code == "E2005" {
			found++
		}
	}
	assert.Equal(t, 1, found, "a cycle is reported exactly once")
}

func TestSelfReferentialAlias(t *testing.T) {
	res := CheckStr("type A = A", "self.nx")
	assert.False(t, res.IsOk())
	assert.Equal(t, "E2005", firstError(t, res).Code)
}

func TestAliasOfAliasResolves(t *testing.T) {
	checkOk(t, "type A = int\ntype B = A\nlet <f x:B /> = { x + 1 }")
}

func TestMemberOnPrimitiveRejected(t *testing.T) {
	res := CheckStr("let <f a:int /> = { a.size }", "mem.nx")
	assert.False(t, res.IsOk())
	assert.Equal(t, "E2006", firstError(t, res).Code)
}

func TestEveryExpressionGetsType(t *testing.T) {
	res := checkOk(t, "let <f a:int b:int /> = { let c = a + b if c > 0 : c else : -c /if }")
	fn, _, _ := res.Module.FunctionByName("f")
	require.NotEqual(t, hir.NoExpr, fn.Body)
	// Spot-check that the map is densely populated.
	assert.GreaterOrEqual(t, len(res.ExprTypes), 8)
}

func TestLongAndDoubleSpellIntAndFloat(t *testing.T) {
	res := checkOk(t, "let <f a:long b:long /> = { a + b }")
	assert.Equal(t, types.Type(types.Int), bodyType(t, res, "f"))

	res = checkOk(t, "let <g x:double /> = { x * 2.0 }")
	assert.Equal(t, types.Type(types.Float), bodyType(t, res, "g"))
}
