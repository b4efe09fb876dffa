package parser

import (
	"github.com/nx-lang/nx-go/internal/lexer"
	"github.com/nx-lang/nx-go/internal/source"
	"github.com/nx-lang/nx-go/internal/syntax"
)

// parseModule parses the whole file: a sequence of imports, type aliases,
// and function definitions. An unrecognized token is reported once and the
// parser synchronizes to the next item keyword, so every broken top-level
// item produces its own diagnostic.
func (p *parser) parseModule() *syntax.Node {
	var children []syntax.Child
	for !p.at(lexer.EOF) {
		switch p.tok.Type {
		case lexer.IMPORT:
			children = append(children, syntax.NodeChild(p.parseImport()))
		case lexer.TYPE:
			children = append(children, syntax.NodeChild(p.parseTypeDef()))
		case lexer.LET:
			children = append(children, syntax.NodeChild(p.parseFunctionDef()))
		case lexer.LESS:
			// Top-level element item.
			children = append(children, syntax.NodeChild(p.parseElement()))
		default:
			start := p.tok.Span
			p.errorHere("E0102", "expected 'let', 'type', 'import', or an element at top level, found %s", p.describeCurrent())
			skipped := p.syncTo(itemStarters, lexer.ModeNormal)
			children = append(children, syntax.NodeChild(errorNode(start.Merge(skipped))))
		}
		p.burnFuel(lexer.ModeNormal)
	}
	return syntax.NewNode(syntax.KindModule, source.NewSpan(0, len(p.file.Text)), children...)
}

// parseImport parses 'import Name(.Name)*'.
func (p *parser) parseImport() *syntax.Node {
	var children []syntax.Child
	children = append(children, syntax.TokenChild(p.bump(lexer.ModeNormal)))

	name, ok := p.expect(lexer.IDENT, lexer.ModeNormal, "after 'import'")
	if !ok {
		p.syncTo(itemStarters, lexer.ModeNormal)
		return syntax.NewNode(syntax.KindImport, p.tok.Span, children...)
	}
	children = append(children, syntax.TokenChild(name))
	for p.at(lexer.DOT) {
		children = append(children, syntax.TokenChild(p.bump(lexer.ModeNormal)))
		seg, ok := p.expect(lexer.IDENT, lexer.ModeNormal, "after '.' in import path")
		if !ok {
			break
		}
		children = append(children, syntax.TokenChild(seg))
	}
	return syntax.NewNode(syntax.KindImport, name.Span, children...)
}

// parseTypeDef parses 'type Name = TypeRef'.
func (p *parser) parseTypeDef() *syntax.Node {
	var children []syntax.Child
	children = append(children, syntax.TokenChild(p.bump(lexer.ModeNormal)))

	name, ok := p.expect(lexer.IDENT, lexer.ModeNormal, "after 'type'")
	if ok {
		children = append(children, syntax.TokenChild(name))
	}
	if eq, ok := p.expect(lexer.ASSIGN, lexer.ModeNormal, "in type definition"); ok {
		children = append(children, syntax.TokenChild(eq))
		children = append(children, syntax.NodeChild(p.parseTypeRef()))
	} else {
		p.syncTo(itemStarters, lexer.ModeNormal)
	}
	return syntax.NewNode(syntax.KindTypeDef, name.Span, children...)
}

// parseFunctionDef parses a function definition:
//
//	let <name p1:T1 p2:T2 /> [: TypeRef] = { body }
//
// The tag form reuses markup lexing for the name and parameters, so function
// names follow markup identifier rules.
func (p *parser) parseFunctionDef() *syntax.Node {
	var children []syntax.Child
	letTok := p.bump(lexer.ModeNormal)
	children = append(children, syntax.TokenChild(letTok))

	if lt, ok := p.expect(lexer.LESS, lexer.ModeMarkup, "after 'let'"); ok {
		children = append(children, syntax.TokenChild(lt))
	} else {
		p.syncTo(itemStarters, lexer.ModeNormal)
		return syntax.NewNode(syntax.KindFunctionDef, letTok.Span, children...)
	}

	children = append(children, syntax.NodeChild(p.parseTagName()))

	// Parameters.
	for p.at(lexer.IDENT) || p.at(lexer.RAW) {
		children = append(children, syntax.NodeChild(p.parseParam()))
		p.relex(lexer.ModeMarkup)
		p.burnFuel(lexer.ModeMarkup)
	}

	if close, ok := p.expect(lexer.SLASH_GREATER, lexer.ModeNormal, "to close the function signature"); ok {
		children = append(children, syntax.TokenChild(close))
	} else {
		p.syncTo(signatureSync, lexer.ModeNormal)
		if p.at(lexer.SLASH_GREATER) {
			children = append(children, syntax.TokenChild(p.bump(lexer.ModeNormal)))
		}
	}

	// Optional declared return type.
	if p.at(lexer.COLON) {
		children = append(children, syntax.TokenChild(p.bump(lexer.ModeNormal)))
		children = append(children, syntax.NodeChild(p.parseTypeRef()))
	}

	if eq, ok := p.expect(lexer.ASSIGN, lexer.ModeNormal, "before the function body"); ok {
		children = append(children, syntax.TokenChild(eq))
		if p.at(lexer.LBRACE) {
			children = append(children, syntax.NodeChild(p.parseBlockExpr()))
		} else {
			children = append(children, syntax.NodeChild(p.parseExpr(precLowest)))
		}
	} else {
		p.syncTo(itemStarters, lexer.ModeNormal)
	}
	return syntax.NewNode(syntax.KindFunctionDef, letTok.Span, children...)
}

// parseParam parses 'name : TypeRef' inside a function signature.
func (p *parser) parseParam() *syntax.Node {
	var children []syntax.Child
	name := p.bump(lexer.ModeNormal)
	children = append(children, syntax.TokenChild(name))

	if colon, ok := p.expect(lexer.COLON, lexer.ModeNormal, "after parameter name"); ok {
		children = append(children, syntax.TokenChild(colon))
		children = append(children, syntax.NodeChild(p.parseTypeRef()))
	} else {
		children = append(children, syntax.NodeChild(errorNode(p.tok.Span)))
	}
	return syntax.NewNode(syntax.KindParam, name.Span, children...)
}

// parseBlockExpr parses '{ stmt* }': a sequence of let bindings and
// expression statements whose trailing expression is the block's value.
func (p *parser) parseBlockExpr() *syntax.Node {
	var children []syntax.Child
	open := p.bump(lexer.ModeNormal)
	children = append(children, syntax.TokenChild(open))

	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		if p.at(lexer.LET) {
			children = append(children, syntax.NodeChild(p.parseLetStmt()))
		} else {
			expr := p.parseExpr(precLowest)
			children = append(children, syntax.NodeChild(
				syntax.NewNode(syntax.KindExprStmt, expr.Span, syntax.NodeChild(expr))))
			if expr.Kind == syntax.KindError {
				p.syncTo(blockSync, lexer.ModeNormal)
			}
		}
		p.burnFuel(lexer.ModeNormal)
	}

	if rb, ok := p.expect(lexer.RBRACE, lexer.ModeNormal, "to close the block"); ok {
		children = append(children, syntax.TokenChild(rb))
	}
	return syntax.NewNode(syntax.KindBlockExpr, open.Span, children...)
}

// parseLetStmt parses 'let name [: TypeRef] = expr' inside a block.
func (p *parser) parseLetStmt() *syntax.Node {
	var children []syntax.Child
	letTok := p.bump(lexer.ModeNormal)
	children = append(children, syntax.TokenChild(letTok))

	name, ok := p.expect(lexer.IDENT, lexer.ModeNormal, "after 'let'")
	if !ok {
		p.syncTo(blockSync, lexer.ModeNormal)
		return syntax.NewNode(syntax.KindLetStmt, letTok.Span, children...)
	}
	children = append(children, syntax.TokenChild(name))

	if p.at(lexer.COLON) {
		children = append(children, syntax.TokenChild(p.bump(lexer.ModeNormal)))
		children = append(children, syntax.NodeChild(p.parseTypeRef()))
	}

	if eq, ok := p.expect(lexer.ASSIGN, lexer.ModeNormal, "in let binding"); ok {
		children = append(children, syntax.TokenChild(eq))
		children = append(children, syntax.NodeChild(p.parseExpr(precLowest)))
	} else {
		p.syncTo(blockSync, lexer.ModeNormal)
	}
	return syntax.NewNode(syntax.KindLetStmt, letTok.Span, children...)
}

// parseTypeRef parses a type reference: a named (possibly qualified or
// primitive) type with postfix '[]', '?', and '...' modifiers, or a function
// type '(T, …) => T'.
func (p *parser) parseTypeRef() *syntax.Node {
	p.relex(lexer.ModeNormal)

	var base *syntax.Node
	switch {
	case p.at(lexer.LPAREN):
		base = p.parseFunctionType()
	case p.at(lexer.IDENT) || p.tok.Type.IsPrimitiveType():
		var children []syntax.Child
		name := p.bump(lexer.ModeNormal)
		children = append(children, syntax.TokenChild(name))
		for p.at(lexer.DOT) {
			children = append(children, syntax.TokenChild(p.bump(lexer.ModeNormal)))
			if seg, ok := p.expect(lexer.IDENT, lexer.ModeNormal, "after '.' in type name"); ok {
				children = append(children, syntax.TokenChild(seg))
			} else {
				break
			}
		}
		base = syntax.NewNode(syntax.KindNamedType, name.Span, children...)
	default:
		p.errorHere("E0103", "expected a type, found %s", p.describeCurrent())
		return errorNode(p.tok.Span)
	}

	// Postfix modifiers bind left-to-right: int[]? is a nullable array.
	for {
		switch p.tok.Type {
		case lexer.LBRACK:
			open := p.bump(lexer.ModeNormal)
			closeTok, _ := p.expect(lexer.RBRACK, lexer.ModeNormal, "to close '[' in array type")
			base = syntax.NewNode(syntax.KindArrayType, base.Span,
				syntax.NodeChild(base), syntax.TokenChild(open), syntax.TokenChild(closeTok))
		case lexer.QUESTION:
			q := p.bump(lexer.ModeNormal)
			base = syntax.NewNode(syntax.KindNullableType, base.Span,
				syntax.NodeChild(base), syntax.TokenChild(q))
		case lexer.ELLIPSIS:
			e := p.bump(lexer.ModeNormal)
			base = syntax.NewNode(syntax.KindSequenceType, base.Span,
				syntax.NodeChild(base), syntax.TokenChild(e))
		default:
			return base
		}
	}
}

// parseFunctionType parses '(T, …) => T'.
func (p *parser) parseFunctionType() *syntax.Node {
	var children []syntax.Child
	open := p.bump(lexer.ModeNormal)
	children = append(children, syntax.TokenChild(open))

	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		children = append(children, syntax.NodeChild(p.parseTypeRef()))
		if p.at(lexer.COMMA) {
			children = append(children, syntax.TokenChild(p.bump(lexer.ModeNormal)))
			continue
		}
		break
	}
	if rp, ok := p.expect(lexer.RPAREN, lexer.ModeNormal, "to close the parameter type list"); ok {
		children = append(children, syntax.TokenChild(rp))
	}
	if arrow, ok := p.expect(lexer.ARROW, lexer.ModeNormal, "in function type"); ok {
		children = append(children, syntax.TokenChild(arrow))
		children = append(children, syntax.NodeChild(p.parseTypeRef()))
	}
	return syntax.NewNode(syntax.KindFunctionType, open.Span, children...)
}
