package parser

import (
	"strings"

	"github.com/nx-lang/nx-go/internal/lexer"
	"github.com/nx-lang/nx-go/internal/syntax"
)

// parseElement parses the three element shapes:
//
//	<N attrs />                  self-closing
//	<N attrs> content </N>       container with mixed content
//	<N:T [raw] attrs> … </N>     typed text, raw or interpolated
//
// The current token must be '<'. On return the token after the element has
// been read in normal mode; callers in content context re-lex as needed.
func (p *parser) parseElement() *syntax.Node {
	var children []syntax.Child
	lt := p.bump(lexer.ModeMarkup)
	children = append(children, syntax.TokenChild(lt))

	openName := p.parseTagName()
	children = append(children, syntax.NodeChild(openName))

	kind := syntax.KindElement
	raw := false

	// Typed-text tag: <N:T …>
	if p.at(lexer.COLON) {
		kind = syntax.KindElementTypedText
		children = append(children, syntax.TokenChild(p.bump(lexer.ModeMarkup)))
		if p.at(lexer.IDENT) || p.at(lexer.RAW) {
			typeTok := p.bump(lexer.ModeMarkup)
			children = append(children, syntax.NodeChild(
				syntax.NewNode(syntax.KindNamedType, typeTok.Span, syntax.TokenChild(typeTok))))
		} else {
			p.errorHere("E0106", "expected a type name after ':' in element tag")
		}
	}

	if p.at(lexer.RAW) {
		raw = true
		kind = syntax.KindElementRawText
		children = append(children, syntax.TokenChild(p.bump(lexer.ModeMarkup)))
	}

	// Properties.
	for p.at(lexer.IDENT) {
		children = append(children, syntax.NodeChild(p.parseProperty()))
		p.relex(lexer.ModeMarkup)
		p.burnFuel(lexer.ModeMarkup)
	}

	switch p.tok.Type {
	case lexer.SLASH_GREATER:
		if kind == syntax.KindElement {
			kind = syntax.KindElementSelfClosing
		}
		children = append(children, syntax.TokenChild(p.bump(lexer.ModeNormal)))
		return syntax.NewNode(kind, lt.Span, children...)
	case lexer.GREATER:
		if raw {
			children = append(children, syntax.TokenChild(p.bump(lexer.ModeRaw)))
			children = append(children, p.parseRawContent(openName)...)
		} else {
			children = append(children, syntax.TokenChild(p.bump(lexer.ModeContent)))
			children = append(children, p.parseContent(openName)...)
		}
		return syntax.NewNode(kind, lt.Span, children...)
	default:
		p.errorHere("E0107", "expected '>' or '/>' to finish the tag, found %s", p.describeCurrent())
		p.syncTo(tagSync, lexer.ModeMarkup)
		if p.at(lexer.SLASH_GREATER) {
			if kind == syntax.KindElement {
				kind = syntax.KindElementSelfClosing
			}
			children = append(children, syntax.TokenChild(p.bump(lexer.ModeNormal)))
		} else if p.at(lexer.GREATER) {
			children = append(children, syntax.TokenChild(p.bump(lexer.ModeContent)))
			children = append(children, p.parseContent(openName)...)
		}
		return syntax.NewNode(kind, lt.Span, children...)
	}
}

// parseTagName parses a qualified markup name: Name ('.' Name)*.
func (p *parser) parseTagName() *syntax.Node {
	p.relex(lexer.ModeMarkup)
	if !p.at(lexer.IDENT) && !p.at(lexer.RAW) {
		p.errorHere("E0108", "expected an element name, found %s", p.describeCurrent())
		return syntax.NewNode(syntax.KindTagName, p.tok.Span)
	}
	var children []syntax.Child
	first := p.bump(lexer.ModeMarkup)
	children = append(children, syntax.TokenChild(first))
	for p.at(lexer.DOT) {
		children = append(children, syntax.TokenChild(p.bump(lexer.ModeMarkup)))
		if !p.at(lexer.IDENT) && !p.at(lexer.RAW) {
			p.errorHere("E0108", "expected a name after '.' in element name")
			break
		}
		children = append(children, syntax.TokenChild(p.bump(lexer.ModeMarkup)))
	}
	return syntax.NewNode(syntax.KindTagName, first.Span, children...)
}

// tagNameText reconstructs the dotted spelling of a TagName node.
func tagNameText(name *syntax.Node) string {
	var parts []string
	for _, tok := range name.Tokens() {
		if tok.Type == lexer.IDENT || tok.Type == lexer.RAW {
			parts = append(parts, tok.Literal)
		}
	}
	return strings.Join(parts, ".")
}

// parseProperty parses 'key = value' inside a tag. Values are literals or
// braced expressions; anything else is reported with a hint.
func (p *parser) parseProperty() *syntax.Node {
	var children []syntax.Child
	key := p.bump(lexer.ModeMarkup)
	children = append(children, syntax.TokenChild(key))

	eq, ok := p.expect(lexer.ASSIGN, lexer.ModeNormal, "after property name")
	if !ok {
		return syntax.NewNode(syntax.KindProperty, key.Span, children...)
	}
	children = append(children, syntax.TokenChild(eq))

	switch p.tok.Type {
	case lexer.INT, lexer.FLOAT, lexer.STRING, lexer.TRUE, lexer.FALSE, lexer.NULL:
		tok := p.bump(lexer.ModeMarkup)
		children = append(children, syntax.NodeChild(
			syntax.NewNode(syntax.KindLiteralExpr, tok.Span, syntax.TokenChild(tok))))
	case lexer.LBRACE:
		open := p.bump(lexer.ModeNormal)
		expr := p.parseExpr(precLowest)
		closeTok, _ := p.expect(lexer.RBRACE, lexer.ModeMarkup, "to close the property value")
		children = append(children, syntax.NodeChild(
			syntax.NewNode(syntax.KindInterpolation, open.Span,
				syntax.TokenChild(open), syntax.NodeChild(expr), syntax.TokenChild(closeTok))))
	default:
		p.errorHere("E0109", "expected a literal or '{expression}' as property value, found %s", p.describeCurrent())
		children = append(children, syntax.NodeChild(errorNode(p.tok.Span)))
	}
	return syntax.NewNode(syntax.KindProperty, key.Span, children...)
}

// parseContent parses mixed element content until the closing tag: text
// runs, interpolations, and child elements. A closing tag whose name does
// not match still closes this element after being reported, which lets the
// enclosing element report its own mismatch rather than cascading.
func (p *parser) parseContent(openName *syntax.Node) []syntax.Child {
	var children []syntax.Child
	var run []syntax.Child

	flush := func() {
		if len(run) == 0 {
			return
		}
		children = append(children, syntax.NodeChild(
			syntax.NewNode(syntax.KindTextRun, run[0].Span(), run...)))
		run = nil
	}

	for {
		p.relex(lexer.ModeContent)
		switch p.tok.Type {
		case lexer.TEXT_CHUNK, lexer.ENTITY, lexer.ESCAPED_LBRACE, lexer.ESCAPED_RBRACE:
			run = append(run, syntax.TokenChild(p.bump(lexer.ModeContent)))
		case lexer.LBRACE:
			flush()
			open := p.bump(lexer.ModeNormal)
			expr := p.parseExpr(precLowest)
			closeTok, _ := p.expect(lexer.RBRACE, lexer.ModeContent, "to close the interpolation")
			children = append(children, syntax.NodeChild(
				syntax.NewNode(syntax.KindInterpolation, open.Span,
					syntax.TokenChild(open), syntax.NodeChild(expr), syntax.TokenChild(closeTok))))
		case lexer.LESS:
			flush()
			children = append(children, syntax.NodeChild(p.parseElement()))
		case lexer.LESS_SLASH:
			flush()
			children = append(children, p.parseClosingTag(openName)...)
			return children
		case lexer.EOF:
			flush()
			p.errorAt(openName.Span, "E0110", "element <%s> is never closed", tagNameText(openName))
			return children
		default:
			// Content re-lexing should never surface other token types;
			// treat any that appear as a sync point.
			flush()
			p.errorHere("E0111", "unexpected %s in element content", p.describeCurrent())
			p.advance(lexer.ModeContent)
		}
		p.burnFuel(lexer.ModeContent)
	}
}

// parseRawContent consumes the raw text body and closing tag of a raw
// element. The body is a single opaque run.
func (p *parser) parseRawContent(openName *syntax.Node) []syntax.Child {
	var children []syntax.Child
	var run []syntax.Child
	for p.at(lexer.RAW_TEXT) {
		run = append(run, syntax.TokenChild(p.bump(lexer.ModeRaw)))
	}
	if len(run) > 0 {
		children = append(children, syntax.NodeChild(
			syntax.NewNode(syntax.KindTextRun, run[0].Span(), run...)))
	}
	if p.at(lexer.EOF) {
		p.errorHere("E0110", "raw element is never closed")
		return children
	}
	if p.at(lexer.LESS_SLASH) {
		children = append(children, p.parseClosingTag(openName)...)
	}
	return children
}

// parseClosingTag parses '</ Name >' and checks the name against the
// opening tag. The current token must be '</'.
func (p *parser) parseClosingTag(openName *syntax.Node) []syntax.Child {
	var children []syntax.Child
	slash := p.bump(lexer.ModeMarkup)
	children = append(children, syntax.TokenChild(slash))

	closeName := p.parseTagName()
	children = append(children, syntax.NodeChild(closeName))

	if gt, ok := p.expect(lexer.GREATER, lexer.ModeNormal, "to close the tag"); ok {
		children = append(children, syntax.TokenChild(gt))
	} else {
		p.syncTo(tagSync, lexer.ModeMarkup)
		if p.at(lexer.GREATER) {
			children = append(children, syntax.TokenChild(p.bump(lexer.ModeNormal)))
		}
	}

	if openName != nil {
		open, closed := tagNameText(openName), tagNameText(closeName)
		if open != closed && closed != "" {
			p.errors = append(p.errors, diagMismatchedTag(p.file.Id, closeName, openName, open, closed))
		}
	}
	return children
}
