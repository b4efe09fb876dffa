package parser

import (
	"github.com/nx-lang/nx-go/internal/lexer"
	"github.com/nx-lang/nx-go/internal/syntax"
)

// Precedence levels for operators (lowest to highest).
const (
	precLowest     int = iota
	precOr             // ||
	precAnd            // &&
	precEquality       // == !=
	precRelational     // < > <= >=
	precSum            // + -
	precProduct        // * /
	precPrefix         // -x !x
	precPostfix        // call, index, member access
)

// precedences maps token types to their infix precedence levels.
var precedences = map[lexer.TokenType]int{
	lexer.OR:         precOr,
	lexer.AND:        precAnd,
	lexer.EQ:         precEquality,
	lexer.NOT_EQ:     precEquality,
	lexer.LESS:       precRelational,
	lexer.GREATER:    precRelational,
	lexer.LESS_EQ:    precRelational,
	lexer.GREATER_EQ: precRelational,
	lexer.PLUS:       precSum,
	lexer.MINUS:      precSum,
	lexer.ASTERISK:   precProduct,
	lexer.SLASH:      precProduct,
	lexer.LPAREN:     precPostfix,
	lexer.LBRACK:     precPostfix,
	lexer.DOT:        precPostfix,
}

func (p *parser) curPrecedence() int {
	if prec, ok := precedences[p.tok.Type]; ok {
		return prec
	}
	return precLowest
}

// parseExpr parses a value expression with the given minimum binding power.
func (p *parser) parseExpr(minPrec int) *syntax.Node {
	p.relex(lexer.ModeNormal)
	left := p.parsePrefix()
	if left == nil {
		span := p.tok.Span
		p.errorHere("E0104", "expected an expression, found %s", p.describeCurrent())
		// Consume the offending token unless it closes an enclosing
		// construct, so a stuck caller loop always makes progress.
		switch p.tok.Type {
		case lexer.EOF, lexer.RBRACE, lexer.RPAREN, lexer.RBRACK,
			lexer.END_IF, lexer.END_SWITCH, lexer.END_FOR, lexer.LESS_SLASH:
		default:
			p.advance(lexer.ModeNormal)
		}
		return errorNode(span)
	}

	for {
		prec := p.curPrecedence()
		if prec == precLowest || prec <= minPrec {
			return left
		}
		left = p.parseInfix(left, prec)
	}
}

// parsePrefix dispatches on the current token to a prefix parser. A nil
// return means the token cannot start an expression.
func (p *parser) parsePrefix() *syntax.Node {
	switch p.tok.Type {
	case lexer.INT, lexer.FLOAT, lexer.STRING, lexer.TRUE, lexer.FALSE, lexer.NULL:
		tok := p.bump(lexer.ModeNormal)
		return syntax.NewNode(syntax.KindLiteralExpr, tok.Span, syntax.TokenChild(tok))
	case lexer.IDENT:
		tok := p.bump(lexer.ModeNormal)
		return syntax.NewNode(syntax.KindIdentExpr, tok.Span, syntax.TokenChild(tok))
	case lexer.MINUS, lexer.BANG:
		op := p.bump(lexer.ModeNormal)
		operand := p.parseExpr(precPrefix)
		return syntax.NewNode(syntax.KindPrefixExpr, op.Span,
			syntax.TokenChild(op), syntax.NodeChild(operand))
	case lexer.LPAREN:
		return p.parseGroupOrUnit()
	case lexer.LBRACK:
		return p.parseArrayLiteral()
	case lexer.LBRACE:
		return p.parseBlockExpr()
	case lexer.LESS:
		return p.parseElement()
	case lexer.IF:
		return p.parseIfExpr()
	case lexer.SWITCH:
		return p.parseSwitchExpr()
	case lexer.FOR:
		return p.parseForExpr()
	}
	return nil
}

// parseInfix extends left with the infix construct at the current token.
func (p *parser) parseInfix(left *syntax.Node, prec int) *syntax.Node {
	switch p.tok.Type {
	case lexer.LPAREN:
		return p.parseCall(left)
	case lexer.LBRACK:
		return p.parseIndex(left)
	case lexer.DOT:
		dot := p.bump(lexer.ModeNormal)
		name, ok := p.expect(lexer.IDENT, lexer.ModeNormal, "after '.'")
		if !ok {
			return syntax.NewNode(syntax.KindMemberExpr, left.Span,
				syntax.NodeChild(left), syntax.TokenChild(dot))
		}
		return syntax.NewNode(syntax.KindMemberExpr, left.Span,
			syntax.NodeChild(left), syntax.TokenChild(dot), syntax.TokenChild(name))
	default:
		op := p.bump(lexer.ModeNormal)
		right := p.parseExpr(prec)
		return syntax.NewNode(syntax.KindBinaryExpr, left.Span,
			syntax.NodeChild(left), syntax.TokenChild(op), syntax.NodeChild(right))
	}
}

// parseGroupOrUnit parses '( Expr )' or the unit literal '()'.
func (p *parser) parseGroupOrUnit() *syntax.Node {
	open := p.bump(lexer.ModeNormal)
	if p.at(lexer.RPAREN) {
		closeTok := p.bump(lexer.ModeNormal)
		return syntax.NewNode(syntax.KindUnitExpr, open.Span,
			syntax.TokenChild(open), syntax.TokenChild(closeTok))
	}
	inner := p.parseExpr(precLowest)
	closeTok, _ := p.expect(lexer.RPAREN, lexer.ModeNormal, "to close '('")
	return syntax.NewNode(syntax.KindGroupExpr, open.Span,
		syntax.TokenChild(open), syntax.NodeChild(inner), syntax.TokenChild(closeTok))
}

// parseArrayLiteral parses '[a, b, c]'.
func (p *parser) parseArrayLiteral() *syntax.Node {
	var children []syntax.Child
	open := p.bump(lexer.ModeNormal)
	children = append(children, syntax.TokenChild(open))

	for !p.at(lexer.RBRACK) && !p.at(lexer.EOF) {
		children = append(children, syntax.NodeChild(p.parseExpr(precLowest)))
		if p.at(lexer.COMMA) {
			children = append(children, syntax.TokenChild(p.bump(lexer.ModeNormal)))
			continue
		}
		break
	}
	if rb, ok := p.expect(lexer.RBRACK, lexer.ModeNormal, "to close the array literal"); ok {
		children = append(children, syntax.TokenChild(rb))
	}
	return syntax.NewNode(syntax.KindArrayExpr, open.Span, children...)
}

// parseCall parses 'callee(arg, …)'.
func (p *parser) parseCall(callee *syntax.Node) *syntax.Node {
	children := []syntax.Child{syntax.NodeChild(callee)}
	open := p.bump(lexer.ModeNormal)
	children = append(children, syntax.TokenChild(open))

	for !p.at(lexer.RPAREN) && !p.at(lexer.EOF) {
		children = append(children, syntax.NodeChild(p.parseExpr(precLowest)))
		if p.at(lexer.COMMA) {
			children = append(children, syntax.TokenChild(p.bump(lexer.ModeNormal)))
			continue
		}
		break
	}
	if rp, ok := p.expect(lexer.RPAREN, lexer.ModeNormal, "to close the argument list"); ok {
		children = append(children, syntax.TokenChild(rp))
	}
	return syntax.NewNode(syntax.KindCallExpr, callee.Span, children...)
}

// parseIndex parses 'base[index]'.
func (p *parser) parseIndex(base *syntax.Node) *syntax.Node {
	children := []syntax.Child{syntax.NodeChild(base)}
	open := p.bump(lexer.ModeNormal)
	children = append(children, syntax.TokenChild(open))
	children = append(children, syntax.NodeChild(p.parseExpr(precLowest)))
	if rb, ok := p.expect(lexer.RBRACK, lexer.ModeNormal, "to close the index"); ok {
		children = append(children, syntax.TokenChild(rb))
	}
	return syntax.NewNode(syntax.KindIndexExpr, base.Span, children...)
}
