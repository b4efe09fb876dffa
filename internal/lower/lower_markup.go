package lower

import (
	"strings"

	"github.com/nx-lang/nx-go/internal/hir"
	"github.com/nx-lang/nx-go/internal/lexer"
	"github.com/nx-lang/nx-go/internal/syntax"
)

// lowerElement lowers any of the element node shapes into an ExprElement
// with its payload in the element arena. Text runs collapse into string
// literals carrying the decoded text; interpolations and child elements stay
// separate children in source order.
func (lo *lowerer) lowerElement(node *syntax.Node) hir.ExprId {
	elem := hir.Element{
		Span: node.Span,
		Raw:  node.Kind == syntax.KindElementRawText,
	}

	if nameNode := node.FirstOfKind(syntax.KindTagName); nameNode != nil {
		elem.Tag = lo.tree.TextOf(nameNode.Span)
	}

	// A typed-text element's type tag is a NamedType directly under the
	// element node.
	if node.Kind == syntax.KindElementTypedText || node.Kind == syntax.KindElementRawText {
		if typeNode := node.FirstOfKind(syntax.KindNamedType); typeNode != nil {
			elem.TextType = lo.tree.TextOf(typeNode.Span)
		}
	}

	for _, prop := range node.NodesOfKind(syntax.KindProperty) {
		elem.Properties = append(elem.Properties, lo.lowerProperty(prop))
	}

	for _, child := range node.Nodes() {
		switch child.Kind {
		case syntax.KindTextRun:
			elem.Children = append(elem.Children, lo.lowerTextRun(child))
		case syntax.KindInterpolation:
			id := lo.lowerExpr(child)
			lo.markMarkup(id)
			elem.Children = append(elem.Children, id)
		case syntax.KindElement, syntax.KindElementSelfClosing,
			syntax.KindElementTypedText, syntax.KindElementRawText:
			elem.Children = append(elem.Children, lo.lowerElement(child))
		}
	}

	elemId := lo.module.AddElement(elem)
	return lo.module.AddExpr(hir.Expr{
		Kind: hir.ExprElement, Span: node.Span, Element: elemId,
	})
}

// markMarkup flags control forms reached through a markup interpolation so
// the interpreter splices their array results into the element's children.
func (lo *lowerer) markMarkup(id hir.ExprId) {
	expr := lo.module.Expr(id)
	inner := expr
	if expr.Kind == hir.ExprInterpolation && expr.X != hir.NoExpr {
		inner = lo.module.Expr(expr.X)
	}
	switch inner.Kind {
	case hir.ExprIf, hir.ExprIfIs, hir.ExprSwitch, hir.ExprFor:
		inner.Markup = true
	}
}

// lowerTextRun concatenates the decoded literals of a text run into one
// string literal expression. Raw runs keep their bytes verbatim; decoded
// runs have entities and escapes already resolved by the lexer.
func (lo *lowerer) lowerTextRun(node *syntax.Node) hir.ExprId {
	var sb strings.Builder
	for _, tok := range node.Tokens() {
		sb.WriteString(tok.Literal)
	}
	return lo.module.AddExpr(hir.Expr{
		Kind: hir.ExprLiteral,
		Span: node.Span,
		Lit:  hir.Literal{Kind: hir.LitString, Str: sb.String()},
	})
}

func (lo *lowerer) lowerProperty(node *syntax.Node) hir.PropertyId {
	prop := hir.Property{Span: node.Span, Value: hir.NoExpr}
	if key, ok := node.FirstToken(lexer.IDENT); ok {
		prop.Key = key.Literal
	}
	for _, child := range node.Nodes() {
		if child.Kind == syntax.KindInterpolation {
			if inner := firstExprNode(child); inner != nil {
				prop.Value = lo.lowerExpr(inner)
			}
			break
		}
		if child.Kind.IsExpr() {
			prop.Value = lo.lowerExpr(child)
			break
		}
	}
	if prop.Value == hir.NoExpr {
		prop.Value = lo.module.AddExpr(hir.Expr{Kind: hir.ExprError, Span: node.Span})
	}
	return lo.module.AddProperty(prop)
}

// lowerTypeRef lowers a syntactic type reference. Sequence types (T...)
// lower to arrays; the two spell the same runtime shape.
func (lo *lowerer) lowerTypeRef(node *syntax.Node) hir.TypeRefId {
	switch node.Kind {
	case syntax.KindNamedType:
		var parts []string
		for _, tok := range node.Tokens() {
			if tok.Type == lexer.IDENT || tok.Type == lexer.RAW || tok.Type.IsPrimitiveType() {
				parts = append(parts, tok.Literal)
			}
		}
		return lo.module.AddTypeRef(hir.TypeRef{
			Kind: hir.TypeRefNamed, Span: node.Span, Name: strings.Join(parts, "."),
		})

	case syntax.KindArrayType, syntax.KindSequenceType:
		elem := lo.lowerChildTypeRef(node)
		return lo.module.AddTypeRef(hir.TypeRef{
			Kind: hir.TypeRefArray, Span: node.Span, Elem: elem,
		})

	case syntax.KindNullableType:
		elem := lo.lowerChildTypeRef(node)
		return lo.module.AddTypeRef(hir.TypeRef{
			Kind: hir.TypeRefNullable, Span: node.Span, Elem: elem,
		})

	case syntax.KindFunctionType:
		nodes := node.Nodes()
		ref := hir.TypeRef{Kind: hir.TypeRefFunction, Span: node.Span, Return: hir.NoTypeRef}
		for i, child := range nodes {
			if !child.Kind.IsTypeRef() {
				continue
			}
			if i == len(nodes)-1 {
				ref.Return = lo.lowerTypeRef(child)
			} else {
				ref.Params = append(ref.Params, lo.lowerTypeRef(child))
			}
		}
		return lo.module.AddTypeRef(ref)
	}

	return lo.module.AddTypeRef(hir.TypeRef{Kind: hir.TypeRefError, Span: node.Span})
}

func (lo *lowerer) lowerChildTypeRef(node *syntax.Node) hir.TypeRefId {
	for _, child := range node.Nodes() {
		if child.Kind.IsTypeRef() {
			return lo.lowerTypeRef(child)
		}
	}
	return lo.module.AddTypeRef(hir.TypeRef{Kind: hir.TypeRefError, Span: node.Span})
}
