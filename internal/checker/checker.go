// Package checker implements the NX type checker: local inference over the
// HIR with explicit parameter types, structural compatibility, and error
// types as recovery sinks. Every expression receives a type; failures are
// reported once and silenced downstream.
package checker

import (
	"os"
	"sort"

	"github.com/nx-lang/nx-go/internal/diag"
	"github.com/nx-lang/nx-go/internal/hir"
	"github.com/nx-lang/nx-go/internal/lower"
	"github.com/nx-lang/nx-go/internal/parser"
	"github.com/nx-lang/nx-go/internal/source"
	"github.com/nx-lang/nx-go/internal/types"
)

// Result is the outcome of checking one source file. Diagnostics include
// those of the parse and lowering stages, in source order per stage.
type Result struct {
	Module      *hir.Module
	Diagnostics []diag.Diagnostic
	ExprTypes   map[hir.ExprId]types.Type
	SourceId    source.FileId
}

// IsOk reports whether no error-severity diagnostic was produced by any
// stage.
func (r *Result) IsOk() bool { return !diag.HasErrors(r.Diagnostics) }

// CheckStr parses, lowers, and type-checks a source string.
func CheckStr(src, fileName string) *Result {
	return checkWithId(src, fileName, 0)
}

// CheckFile reads and checks a file from disk.
func CheckFile(path string) *Result {
	data, err := os.ReadFile(path)
	if err != nil {
		d := diag.Errorf(source.Span{}, "E0005", "cannot read %s: %v", path, err)
		return &Result{Diagnostics: []diag.Diagnostic{d}}
	}
	return CheckStr(string(data), path)
}

func checkWithId(src, fileName string, id source.FileId) *Result {
	parsed := parser.ParseWithId(src, fileName, id)
	result := &Result{
		Diagnostics: parsed.Errors,
		ExprTypes:   map[hir.ExprId]types.Type{},
		SourceId:    parsed.SourceId,
	}
	if parsed.Tree == nil {
		return result
	}

	lowered := lower.Lower(parsed.Tree)
	result.Module = lowered.Module
	result.Diagnostics = append(result.Diagnostics, lowered.Diagnostics...)

	c := newChecker(lowered.Module)
	c.checkModule()
	result.Diagnostics = append(result.Diagnostics, c.diags...)
	result.ExprTypes = c.exprTypes
	return result
}

// checker holds the state for checking one module.
type checker struct {
	module    *hir.Module
	diags     []diag.Diagnostic
	exprTypes map[hir.ExprId]types.Type

	aliases   map[string]*types.Named
	funcs     map[string]*types.Function
	inferVars map[int]types.Type
	nextVar   int
}

func newChecker(m *hir.Module) *checker {
	return &checker{
		module:    m,
		exprTypes: map[hir.ExprId]types.Type{},
		aliases:   map[string]*types.Named{},
		funcs:     map[string]*types.Function{},
		inferVars: map[int]types.Type{},
	}
}

func (c *checker) errorf(span source.Span, code, format string, args ...any) diag.Diagnostic {
	d := diag.Errorf(span, code, format, args...).WithFile(c.module.SourceId)
	c.diags = append(c.diags, d)
	return d
}

func (c *checker) warnf(span source.Span, code, format string, args ...any) {
	c.diags = append(c.diags, diag.Warningf(span, code, format, args...).WithFile(c.module.SourceId))
}

func (c *checker) freshVar() *types.InferVar {
	c.nextVar++
	return &types.InferVar{Id: c.nextVar}
}

// resolveVars substitutes solved inference variables in t.
func (c *checker) resolveVars(t types.Type) types.Type {
	switch v := t.(type) {
	case *types.InferVar:
		if solved, ok := c.inferVars[v.Id]; ok {
			return c.resolveVars(solved)
		}
		return v
	case *types.Array:
		return &types.Array{Elem: c.resolveVars(v.Elem)}
	case *types.Nullable:
		return &types.Nullable{Elem: c.resolveVars(v.Elem)}
	default:
		return t
	}
}

// checkModule drives the three phases: alias resolution, signature
// construction, and body checking in declaration order.
func (c *checker) checkModule() {
	c.resolveAliases()
	c.buildSignatures()

	for i := range c.module.Functions() {
		c.checkFunction(hir.FunctionId(i))
	}
	moduleEnv := newEnv(nil)
	for name, sig := range c.funcs {
		moduleEnv.bind(name, sig)
	}
	for _, item := range c.module.Items {
		if item.Kind == hir.ItemElement {
			c.checkElement(item.Element, moduleEnv)
		}
	}
}

// resolveAliases converts every 'type Name = T' into a Named type,
// detecting cycles by visited-set traversal. A cycle is reported once,
// anchored at the first alias encountered on it.
func (c *checker) resolveAliases() {
	byName := map[string]*hir.TypeAlias{}
	for i := range c.module.Aliases {
		alias := &c.module.Aliases[i]
		if _, dup := byName[alias.Name]; dup {
			continue // duplicate already reported during lowering
		}
		byName[alias.Name] = alias
		c.aliases[alias.Name] = &types.Named{Name: alias.Name, Id: i}
	}

	// Resolve in declaration order so diagnostics are deterministic. Each
	// alias resolves exactly once; a cycle leaves the error type behind.
	reported := map[string]bool{}
	for i := range c.module.Aliases {
		alias := &c.module.Aliases[i]
		named, ok := c.aliases[alias.Name]
		if !ok || byName[alias.Name] != alias || named.Underlying != nil {
			continue
		}
		visiting := map[string]bool{alias.Name: true}
		named.Underlying = c.resolveAliasRef(alias.TypeRef, visiting, byName, reported, alias.Span)
	}
}

func (c *checker) resolveAliasRef(id hir.TypeRefId, visiting map[string]bool, byName map[string]*hir.TypeAlias, reported map[string]bool, anchor source.Span) types.Type {
	if id == hir.NoTypeRef {
		return types.ErrType
	}
	ref := c.module.TypeRef(id)
	switch ref.Kind {
	case hir.TypeRefNamed:
		if prim, ok := primitiveByName(ref.Name); ok {
			return prim
		}
		alias, isAlias := byName[ref.Name]
		if !isAlias {
			return c.undefinedType(ref)
		}
		if visiting[ref.Name] {
			if !reported[ref.Name] {
				reported[ref.Name] = true
				c.errorf(anchor, "E2005", "circular type definition involving '%s'", ref.Name)
			}
			return types.ErrType
		}
		named := c.aliases[ref.Name]
		if named.Underlying == nil {
			visiting[ref.Name] = true
			named.Underlying = c.resolveAliasRef(alias.TypeRef, visiting, byName, reported, anchor)
		}
		return named
	case hir.TypeRefArray:
		return &types.Array{Elem: c.resolveAliasRef(ref.Elem, visiting, byName, reported, anchor)}
	case hir.TypeRefNullable:
		return &types.Nullable{Elem: c.resolveAliasRef(ref.Elem, visiting, byName, reported, anchor)}
	case hir.TypeRefFunction:
		fn := &types.Function{Return: c.resolveAliasRef(ref.Return, visiting, byName, reported, anchor)}
		for _, p := range ref.Params {
			fn.Params = append(fn.Params, c.resolveAliasRef(p, visiting, byName, reported, anchor))
		}
		return fn
	default:
		return types.ErrType
	}
}

// primitiveByName maps primitive spellings to their types. long and double
// spell the same 64-bit types as int and float.
func primitiveByName(name string) (types.Type, bool) {
	switch name {
	case "string":
		return types.String, true
	case "int", "long":
		return types.Int, true
	case "float", "double":
		return types.Float, true
	case "boolean":
		return types.Boolean, true
	case "void":
		return types.Void, true
	case "object":
		return types.Object, true
	case "element":
		return types.Element, true
	}
	return nil, false
}

// typeFromRef converts a syntactic type reference into a Type, reporting
// undefined names.
func (c *checker) typeFromRef(id hir.TypeRefId) types.Type {
	if id == hir.NoTypeRef {
		return types.ErrType
	}
	ref := c.module.TypeRef(id)
	switch ref.Kind {
	case hir.TypeRefNamed:
		if prim, ok := primitiveByName(ref.Name); ok {
			return prim
		}
		if named, ok := c.aliases[ref.Name]; ok {
			return named
		}
		return c.undefinedType(ref)
	case hir.TypeRefArray:
		return &types.Array{Elem: c.typeFromRef(ref.Elem)}
	case hir.TypeRefNullable:
		return &types.Nullable{Elem: c.typeFromRef(ref.Elem)}
	case hir.TypeRefFunction:
		fn := &types.Function{Return: c.typeFromRef(ref.Return)}
		for _, p := range ref.Params {
			fn.Params = append(fn.Params, c.typeFromRef(p))
		}
		return fn
	default:
		return types.ErrType
	}
}

func (c *checker) undefinedType(ref *hir.TypeRef) types.Type {
	d := diag.Errorf(ref.Span, "E2002", "undefined type '%s'", ref.Name).
		WithFile(c.module.SourceId)
	var candidates []string
	for name := range c.aliases {
		candidates = append(candidates, name)
	}
	sort.Strings(candidates)
	candidates = append(candidates,
		"string", "int", "long", "float", "double", "boolean", "void", "object")
	if hint, ok := hir.ClosestName(ref.Name, candidates); ok {
		d = d.WithNote("did you mean '%s'?", hint)
	}
	c.diags = append(c.diags, d)
	return types.ErrType
}

// buildSignatures assigns every function its type before any body is
// checked, so calls resolve regardless of declaration order. An omitted
// return type becomes an inference variable solved when the body is
// checked.
func (c *checker) buildSignatures() {
	for i := range c.module.Functions() {
		fn := c.module.Function(hir.FunctionId(i))
		sig := &types.Function{}
		for _, param := range fn.Params {
			sig.Params = append(sig.Params, c.typeFromRef(param.TypeRef))
		}
		if fn.Return != hir.NoTypeRef {
			sig.Return = c.typeFromRef(fn.Return)
		} else {
			sig.Return = c.freshVar()
		}
		c.funcs[fn.Name] = sig
	}
}

// checkFunction checks one body against its signature.
func (c *checker) checkFunction(id hir.FunctionId) {
	fn := c.module.Function(id)
	sig := c.funcs[fn.Name]

	// Module-level names sit in the root frame; parameters shadow them.
	root := newEnv(nil)
	for name, fnSig := range c.funcs {
		root.bind(name, fnSig)
	}
	env := newEnv(root)
	for i, param := range fn.Params {
		env.bind(param.Name, sig.Params[i])
	}

	bodyT := c.checkExpr(fn.Body, env)

	if fn.Return != hir.NoTypeRef {
		declared := sig.Return
		bodySpan := c.module.Expr(fn.Body).Span
		c.requireCompatible(declared, bodyT, bodySpan, "function body")
		return
	}
	// Inferred return: solve the variable by propagation.
	if v, ok := sig.Return.(*types.InferVar); ok {
		c.inferVars[v.Id] = bodyT
		sig.Return = c.resolveVars(bodyT)
	}
}

// requireCompatible reports a TypeMismatch when actual does not fit
// expected. A nullable value in a non-null slot degrades to a null-misuse
// warning rather than a hard error.
func (c *checker) requireCompatible(expected, actual types.Type, span source.Span, context string) bool {
	expected = c.resolveVars(expected)
	actual = c.resolveVars(actual)
	if types.Compatible(expected, actual) {
		return true
	}
	if nullable, ok := types.Underlying(actual).(*types.Nullable); ok {
		if types.Compatible(expected, nullable.Elem) {
			c.warnf(span, "W2004",
				"possibly null value of type %s used where %s is expected without a null check",
				actual, expected)
			return true
		}
	}
	c.errorf(span, "E2001", "type mismatch in %s: expected %s, found %s",
		context, expected, actual)
	return false
}
