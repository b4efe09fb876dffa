// Package lower projects the concrete syntax tree into the HIR. Lowering is
// total: malformed subtrees become error expressions instead of aborting, so
// every syntactically accepted CST produces a Module. Along the way it
// builds the lexical scope tree, resolves names, and reports undefined
// identifiers and duplicate definitions.
package lower

import (
	"strings"

	"github.com/nx-lang/nx-go/internal/diag"
	"github.com/nx-lang/nx-go/internal/hir"
	"github.com/nx-lang/nx-go/internal/lexer"
	"github.com/nx-lang/nx-go/internal/source"
	"github.com/nx-lang/nx-go/internal/syntax"
)

// Result carries the lowered module and the diagnostics lowering produced.
type Result struct {
	Module      *hir.Module
	Diagnostics []diag.Diagnostic
}

// Lower builds a Module from a parsed tree. The returned module is complete
// even when diagnostics are present.
func Lower(tree *syntax.Tree) *Result {
	lo := &lowerer{
		tree:   tree,
		module: hir.NewModule(tree.File),
	}
	lo.scope = lo.module.Scope
	lo.run()
	return &Result{Module: lo.module, Diagnostics: lo.diags}
}

type lowerer struct {
	tree   *syntax.Tree
	module *hir.Module
	scope  *hir.Scope
	diags  []diag.Diagnostic
}

func (lo *lowerer) errorf(span source.Span, code, format string, args ...any) {
	lo.diags = append(lo.diags,
		diag.Errorf(span, code, format, args...).WithFile(lo.tree.File))
}

func (lo *lowerer) pushScope() { lo.scope = hir.NewScope(lo.scope) }
func (lo *lowerer) popScope()  { lo.scope = lo.scope.Outer() }

// run lowers the module in two passes: first bind every item name in the
// module scope so definitions can reference each other regardless of order,
// then lower the item bodies (aliases before functions so parameter types
// resolve). Items are recorded in source order, which is user-observable.
func (lo *lowerer) run() {
	root := lo.tree.Root

	type pending struct {
		node *syntax.Node
		sym  *hir.Symbol
	}
	var fns []pending

	for _, item := range root.Nodes() {
		switch item.Kind {
		case syntax.KindImport:
			lo.lowerImport(item)
		case syntax.KindTypeDef:
			lo.declareTypeAlias(item)
		case syntax.KindFunctionDef:
			if sym := lo.declareFunction(item); sym != nil {
				fns = append(fns, pending{node: item, sym: sym})
			}
		}
	}

	lowered := map[*syntax.Node]hir.Item{}
	for _, item := range root.Nodes() {
		if item.Kind == syntax.KindTypeDef {
			if it, ok := lo.lowerTypeAlias(item); ok {
				lowered[item] = it
			}
		}
	}
	for _, p := range fns {
		lowered[p.node] = lo.lowerFunction(p.node, p.sym)
	}
	for _, item := range root.Nodes() {
		if item.Kind.IsElement() {
			id := lo.lowerExpr(item)
			expr := lo.module.Expr(id)
			if expr.Kind == hir.ExprElement {
				lowered[item] = hir.Item{Kind: hir.ItemElement, Element: expr.Element}
			}
		}
	}

	for _, item := range root.Nodes() {
		if it, ok := lowered[item]; ok {
			lo.module.Items = append(lo.module.Items, it)
		}
	}
}

func (lo *lowerer) lowerImport(node *syntax.Node) {
	var parts []string
	for _, tok := range node.Tokens() {
		if tok.Type == lexer.IDENT {
			parts = append(parts, tok.Literal)
		}
	}
	lo.module.Imports = append(lo.module.Imports, hir.Import{
		Path: strings.Join(parts, "."),
		Span: node.Span,
	})
}

// declareFunction binds the function name in the module scope. Returns nil
// when the definition is too broken to carry a name.
func (lo *lowerer) declareFunction(node *syntax.Node) *hir.Symbol {
	nameNode := node.FirstOfKind(syntax.KindTagName)
	if nameNode == nil || len(nameNode.Tokens()) == 0 {
		return nil
	}
	name := lo.tree.TextOf(nameNode.Span)
	sym := &hir.Symbol{Name: name, Kind: hir.SymbolFunction, Span: nameNode.Span}
	if prev, ok := lo.scope.Define(sym); !ok {
		lo.diags = append(lo.diags, diag.Errorf(nameNode.Span, "E1002",
			"duplicate definition of '%s'", name).
			WithFile(lo.tree.File).
			WithLabel(prev.Span, diag.StyleSecondary, "first defined here"))
		return nil
	}
	return sym
}

func (lo *lowerer) declareTypeAlias(node *syntax.Node) {
	name, ok := node.FirstToken(lexer.IDENT)
	if !ok {
		return
	}
	sym := &hir.Symbol{Name: name.Literal, Kind: hir.SymbolType, Span: name.Span}
	if _, defined := lo.scope.Define(sym); !defined {
		lo.errorf(name.Span, "E1002", "duplicate definition of '%s'", name.Literal)
	}
}

func (lo *lowerer) lowerTypeAlias(node *syntax.Node) (hir.Item, bool) {
	name, ok := node.FirstToken(lexer.IDENT)
	if !ok {
		return hir.Item{}, false
	}
	var ref hir.TypeRefId = hir.NoTypeRef
	for _, child := range node.Nodes() {
		if child.Kind.IsTypeRef() {
			ref = lo.lowerTypeRef(child)
			break
		}
	}
	lo.module.Aliases = append(lo.module.Aliases, hir.TypeAlias{
		Name:    name.Literal,
		TypeRef: ref,
		Span:    node.Span,
	})
	return hir.Item{Kind: hir.ItemTypeAlias, Alias: len(lo.module.Aliases) - 1}, true
}

func (lo *lowerer) lowerFunction(node *syntax.Node, sym *hir.Symbol) hir.Item {
	fn := hir.Function{Span: node.Span, Return: hir.NoTypeRef, Body: hir.NoExpr}
	fn.Name = sym.Name

	// Parameters bind in a scope enclosing the body.
	lo.pushScope()
	defer lo.popScope()

	for _, paramNode := range node.NodesOfKind(syntax.KindParam) {
		nameTok, ok := paramNode.FirstToken(lexer.IDENT)
		if !ok {
			continue
		}
		ref := hir.NoTypeRef
		for _, child := range paramNode.Nodes() {
			if child.Kind.IsTypeRef() {
				ref = lo.lowerTypeRef(child)
				break
			}
		}
		if ref == hir.NoTypeRef {
			ref = lo.module.AddTypeRef(hir.TypeRef{Kind: hir.TypeRefError, Span: paramNode.Span})
		}
		param := hir.Param{Name: nameTok.Literal, TypeRef: ref, Span: paramNode.Span}
		fn.Params = append(fn.Params, param)
		lo.scope.Define(&hir.Symbol{
			Name: param.Name,
			Kind: hir.SymbolParameter,
			Span: nameTok.Span,
		})
	}

	// Optional declared return type: a type-ref node directly under the
	// definition (parameter types live inside KindParam nodes).
	for _, child := range node.Nodes() {
		if child.Kind.IsTypeRef() {
			fn.Return = lo.lowerTypeRef(child)
			break
		}
	}

	if body := lo.bodyNode(node); body != nil {
		fn.Body = lo.lowerExpr(body)
	} else {
		fn.Body = lo.module.AddExpr(hir.Expr{Kind: hir.ExprError, Span: node.Span})
	}

	id := lo.module.AddFunction(fn)
	sym.Func = id
	return hir.Item{Kind: hir.ItemFunction, Function: id}
}

// bodyNode finds the expression node after '=' in a function definition.
func (lo *lowerer) bodyNode(def *syntax.Node) *syntax.Node {
	children := def.Children()
	seenAssign := false
	for _, c := range children {
		if c.Token != nil && c.Token.Type == lexer.ASSIGN {
			seenAssign = true
			continue
		}
		if seenAssign && c.Node != nil && c.Node.Kind.IsExpr() {
			return c.Node
		}
	}
	return nil
}
