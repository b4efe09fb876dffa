package parser

import (
	"github.com/nx-lang/nx-go/internal/lexer"
	"github.com/nx-lang/nx-go/internal/syntax"
)

// parseIfExpr parses both if forms:
//
//	if E : A else : B /if
//	if E is { p, q: A … else: B /if }
//
// The scrutinee form's arm block may be written with or without the
// surrounding braces; '/if' always closes the form.
func (p *parser) parseIfExpr() *syntax.Node {
	var children []syntax.Child
	ifTok := p.bump(lexer.ModeNormal)
	children = append(children, syntax.TokenChild(ifTok))
	children = append(children, syntax.NodeChild(p.parseExpr(precLowest)))

	if p.at(lexer.IS) {
		children = append(children, syntax.TokenChild(p.bump(lexer.ModeNormal)))
		braced := false
		if p.at(lexer.LBRACE) {
			braced = true
			children = append(children, syntax.TokenChild(p.bump(lexer.ModeNormal)))
		}

		children = append(children, p.parseArms(lexer.END_IF)...)

		if end, ok := p.expect(lexer.END_IF, lexer.ModeNormal, "to close 'if … is'"); ok {
			children = append(children, syntax.TokenChild(end))
		}
		if braced && p.at(lexer.RBRACE) {
			children = append(children, syntax.TokenChild(p.bump(lexer.ModeNormal)))
		}
		return syntax.NewNode(syntax.KindIfIsExpr, ifTok.Span, children...)
	}

	if colon, ok := p.expect(lexer.COLON, lexer.ModeNormal, "after the if condition"); ok {
		children = append(children, syntax.TokenChild(colon))
		children = append(children, syntax.NodeChild(p.parseExpr(precLowest)))
	} else {
		p.syncTo(armSync, lexer.ModeNormal)
	}

	if elseTok, ok := p.expect(lexer.ELSE, lexer.ModeNormal, "in if expression"); ok {
		children = append(children, syntax.TokenChild(elseTok))
		if colon, ok := p.expect(lexer.COLON, lexer.ModeNormal, "after 'else'"); ok {
			children = append(children, syntax.TokenChild(colon))
			children = append(children, syntax.NodeChild(p.parseExpr(precLowest)))
		}
	} else {
		p.syncTo(armSync, lexer.ModeNormal)
	}

	if end, ok := p.expect(lexer.END_IF, lexer.ModeNormal, "to close the if expression"); ok {
		children = append(children, syntax.TokenChild(end))
	}
	return syntax.NewNode(syntax.KindIfExpr, ifTok.Span, children...)
}

// parseSwitchExpr parses 'switch [E] case p, q: A … default: B /switch'.
// Without a scrutinee each case pattern position holds a boolean condition.
func (p *parser) parseSwitchExpr() *syntax.Node {
	var children []syntax.Child
	switchTok := p.bump(lexer.ModeNormal)
	children = append(children, syntax.TokenChild(switchTok))

	if !p.at(lexer.CASE) && !p.at(lexer.DEFAULT) && !p.at(lexer.END_SWITCH) {
		children = append(children, syntax.NodeChild(p.parseExpr(precLowest)))
	}

	children = append(children, p.parseArms(lexer.END_SWITCH)...)

	if end, ok := p.expect(lexer.END_SWITCH, lexer.ModeNormal, "to close the switch"); ok {
		children = append(children, syntax.TokenChild(end))
	}
	return syntax.NewNode(syntax.KindSwitchExpr, switchTok.Span, children...)
}

// parseArms parses match arms until the closing token. Arms are either
// 'case' arms, bare pattern arms (inside 'if … is'), or an 'else'/'default'
// arm. Each malformed arm is reported and skipped independently.
func (p *parser) parseArms(closer lexer.TokenType) []syntax.Child {
	var arms []syntax.Child
	for !p.at(closer) && !p.at(lexer.EOF) && !p.at(lexer.RBRACE) {
		switch p.tok.Type {
		case lexer.ELSE, lexer.DEFAULT:
			arms = append(arms, syntax.NodeChild(p.parseElseArm()))
		case lexer.CASE:
			caseTok := p.bump(lexer.ModeNormal)
			arm := p.parseMatchArm(syntax.TokenChild(caseTok))
			arms = append(arms, syntax.NodeChild(arm))
		default:
			if p.startsPattern() {
				arms = append(arms, syntax.NodeChild(p.parseMatchArm()))
				continue
			}
			p.errorHere("E0105", "expected a match arm, found %s", p.describeCurrent())
			p.syncTo(armSync, lexer.ModeNormal)
			if !p.at(lexer.CASE) && !p.at(lexer.ELSE) && !p.at(lexer.DEFAULT) {
				return arms
			}
		}
		p.burnFuel(lexer.ModeNormal)
	}
	return arms
}

// parseMatchArm parses 'pattern (, pattern)* : Expr'.
func (p *parser) parseMatchArm(prefix ...syntax.Child) *syntax.Node {
	children := append([]syntax.Child{}, prefix...)
	children = append(children, syntax.NodeChild(p.parsePattern()))
	for p.at(lexer.COMMA) {
		children = append(children, syntax.TokenChild(p.bump(lexer.ModeNormal)))
		children = append(children, syntax.NodeChild(p.parsePattern()))
	}
	if colon, ok := p.expect(lexer.COLON, lexer.ModeNormal, "after the arm pattern"); ok {
		children = append(children, syntax.TokenChild(colon))
		children = append(children, syntax.NodeChild(p.parseExpr(precLowest)))
	} else {
		p.syncTo(armSync, lexer.ModeNormal)
	}
	return syntax.NewNode(syntax.KindMatchArm, children[0].Span(), children...)
}

// parseElseArm parses 'else : Expr' or 'default : Expr'.
func (p *parser) parseElseArm() *syntax.Node {
	var children []syntax.Child
	kw := p.bump(lexer.ModeNormal)
	children = append(children, syntax.TokenChild(kw))
	if colon, ok := p.expect(lexer.COLON, lexer.ModeNormal, "after '"+kw.Literal+"'"); ok {
		children = append(children, syntax.TokenChild(colon))
		children = append(children, syntax.NodeChild(p.parseExpr(precLowest)))
	} else {
		p.syncTo(armSync, lexer.ModeNormal)
	}
	return syntax.NewNode(syntax.KindElseArm, kw.Span, children...)
}

// startsPattern reports whether the current token can begin a pattern.
func (p *parser) startsPattern() bool {
	switch p.tok.Type {
	case lexer.INT, lexer.FLOAT, lexer.STRING, lexer.TRUE, lexer.FALSE,
		lexer.NULL, lexer.IDENT, lexer.MINUS:
		return true
	}
	return false
}

// parsePattern parses a literal or qualified-name pattern. In the
// condition-list switch form, the pattern position holds an arbitrary
// boolean expression instead.
func (p *parser) parsePattern() *syntax.Node {
	expr := p.parseExpr(precLowest)
	return syntax.NewNode(syntax.KindPattern, expr.Span, syntax.NodeChild(expr))
}

// parseForExpr parses 'for I [, J] in E : body /for'.
func (p *parser) parseForExpr() *syntax.Node {
	var children []syntax.Child
	forTok := p.bump(lexer.ModeNormal)
	children = append(children, syntax.TokenChild(forTok))

	if name, ok := p.expect(lexer.IDENT, lexer.ModeNormal, "after 'for'"); ok {
		children = append(children, syntax.TokenChild(name))
	} else {
		p.syncTo(armSync, lexer.ModeNormal)
	}
	if p.at(lexer.COMMA) {
		children = append(children, syntax.TokenChild(p.bump(lexer.ModeNormal)))
		if idx, ok := p.expect(lexer.IDENT, lexer.ModeNormal, "after ',' in for binding"); ok {
			children = append(children, syntax.TokenChild(idx))
		}
	}
	if inTok, ok := p.expect(lexer.IN, lexer.ModeNormal, "in for expression"); ok {
		children = append(children, syntax.TokenChild(inTok))
		children = append(children, syntax.NodeChild(p.parseExpr(precLowest)))
	} else {
		p.syncTo(armSync, lexer.ModeNormal)
	}
	if colon, ok := p.expect(lexer.COLON, lexer.ModeNormal, "before the for body"); ok {
		children = append(children, syntax.TokenChild(colon))
		children = append(children, syntax.NodeChild(p.parseExpr(precLowest)))
	}
	if end, ok := p.expect(lexer.END_FOR, lexer.ModeNormal, "to close the for expression"); ok {
		children = append(children, syntax.TokenChild(end))
	}
	return syntax.NewNode(syntax.KindForExpr, forTok.Span, children...)
}
