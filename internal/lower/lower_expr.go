package lower

import (
	"strconv"
	"strings"

	"github.com/nx-lang/nx-go/internal/diag"
	"github.com/nx-lang/nx-go/internal/hir"
	"github.com/nx-lang/nx-go/internal/lexer"
	"github.com/nx-lang/nx-go/internal/source"
	"github.com/nx-lang/nx-go/internal/syntax"
)

// binaryOps maps operator token types to HIR operators.
var binaryOps = map[lexer.TokenType]hir.Op{
	lexer.PLUS:       hir.OpAdd,
	lexer.MINUS:      hir.OpSub,
	lexer.ASTERISK:   hir.OpMul,
	lexer.SLASH:      hir.OpDiv,
	lexer.EQ:         hir.OpEq,
	lexer.NOT_EQ:     hir.OpNe,
	lexer.LESS:       hir.OpLt,
	lexer.GREATER:    hir.OpGt,
	lexer.LESS_EQ:    hir.OpLe,
	lexer.GREATER_EQ: hir.OpGe,
	lexer.AND:        hir.OpAnd,
	lexer.OR:         hir.OpOr,
}

// lowerExpr lowers any expression node, substituting error expressions for
// malformed or unresolvable subtrees.
func (lo *lowerer) lowerExpr(node *syntax.Node) hir.ExprId {
	switch node.Kind {
	case syntax.KindError:
		return lo.module.AddExpr(hir.Expr{Kind: hir.ExprError, Span: node.Span})

	case syntax.KindLiteralExpr:
		return lo.lowerLiteral(node)

	case syntax.KindIdentExpr:
		return lo.lowerIdent(node)

	case syntax.KindBinaryExpr:
		return lo.lowerBinary(node)

	case syntax.KindPrefixExpr:
		return lo.lowerPrefix(node)

	case syntax.KindMemberExpr:
		return lo.lowerMember(node)

	case syntax.KindCallExpr:
		nodes := node.Nodes()
		callee := lo.lowerExpr(nodes[0])
		args := make([]hir.ExprId, 0, len(nodes)-1)
		for _, arg := range nodes[1:] {
			args = append(args, lo.lowerExpr(arg))
		}
		return lo.module.AddExpr(hir.Expr{
			Kind: hir.ExprCall, Span: node.Span, X: callee, List: args,
		})

	case syntax.KindGroupExpr:
		// Parentheses are a trivial wrapper; fold into the inner node.
		if inner := firstExprNode(node); inner != nil {
			return lo.lowerExpr(inner)
		}
		return lo.module.AddExpr(hir.Expr{Kind: hir.ExprError, Span: node.Span})

	case syntax.KindUnitExpr:
		return lo.module.AddExpr(hir.Expr{Kind: hir.ExprUnit, Span: node.Span})

	case syntax.KindBlockExpr:
		return lo.lowerBlock(node)

	case syntax.KindArrayExpr:
		var elems []hir.ExprId
		for _, elem := range node.Nodes() {
			elems = append(elems, lo.lowerExpr(elem))
		}
		return lo.module.AddExpr(hir.Expr{
			Kind: hir.ExprArray, Span: node.Span, List: elems,
		})

	case syntax.KindIndexExpr:
		nodes := node.Nodes()
		e := hir.Expr{Kind: hir.ExprIndex, Span: node.Span, X: lo.lowerExpr(nodes[0]), Y: hir.NoExpr}
		if len(nodes) > 1 {
			e.Y = lo.lowerExpr(nodes[1])
		}
		return lo.module.AddExpr(e)

	case syntax.KindIfExpr:
		return lo.lowerIf(node)

	case syntax.KindIfIsExpr:
		return lo.lowerIfIs(node)

	case syntax.KindSwitchExpr:
		return lo.lowerSwitch(node)

	case syntax.KindForExpr:
		return lo.lowerFor(node)

	case syntax.KindInterpolation:
		inner := firstExprNode(node)
		e := hir.Expr{Kind: hir.ExprInterpolation, Span: node.Span, X: hir.NoExpr}
		if inner != nil {
			e.X = lo.lowerExpr(inner)
		}
		return lo.module.AddExpr(e)

	case syntax.KindElement, syntax.KindElementSelfClosing,
		syntax.KindElementTypedText, syntax.KindElementRawText:
		return lo.lowerElement(node)
	}

	return lo.module.AddExpr(hir.Expr{Kind: hir.ExprError, Span: node.Span})
}

// firstExprNode returns the first child node that is an expression.
func firstExprNode(node *syntax.Node) *syntax.Node {
	for _, child := range node.Nodes() {
		if child.Kind.IsExpr() {
			return child
		}
	}
	return nil
}

func (lo *lowerer) lowerLiteral(node *syntax.Node) hir.ExprId {
	toks := node.Tokens()
	if len(toks) == 0 {
		return lo.module.AddExpr(hir.Expr{Kind: hir.ExprError, Span: node.Span})
	}
	tok := toks[0]
	lit, ok := lo.decodeLiteral(tok)
	if !ok {
		return lo.module.AddExpr(hir.Expr{Kind: hir.ExprError, Span: node.Span})
	}
	return lo.module.AddExpr(hir.Expr{Kind: hir.ExprLiteral, Span: node.Span, Lit: lit})
}

// decodeLiteral translates a literal token into a value, stripping digit
// separators and decoding hex spellings.
func (lo *lowerer) decodeLiteral(tok lexer.Token) (hir.Literal, bool) {
	switch tok.Type {
	case lexer.INT:
		text := strings.ReplaceAll(tok.Literal, "_", "")
		n, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			lo.errorf(tok.Span, "E1004", "integer literal does not fit in 64 bits")
			return hir.Literal{}, false
		}
		return hir.Literal{Kind: hir.LitInt, Int: n}, true
	case lexer.FLOAT:
		text := strings.ReplaceAll(tok.Literal, "_", "")
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			lo.errorf(tok.Span, "E1004", "malformed real literal")
			return hir.Literal{}, false
		}
		return hir.Literal{Kind: hir.LitFloat, Float: f}, true
	case lexer.STRING:
		return hir.Literal{Kind: hir.LitString, Str: tok.Literal}, true
	case lexer.TRUE:
		return hir.Literal{Kind: hir.LitBool, Bool: true}, true
	case lexer.FALSE:
		return hir.Literal{Kind: hir.LitBool, Bool: false}, true
	case lexer.NULL:
		return hir.Literal{Kind: hir.LitNull}, true
	}
	return hir.Literal{}, false
}

func (lo *lowerer) lowerIdent(node *syntax.Node) hir.ExprId {
	tok, ok := node.FirstToken(lexer.IDENT)
	if !ok {
		return lo.module.AddExpr(hir.Expr{Kind: hir.ExprError, Span: node.Span})
	}
	if _, found := lo.scope.Resolve(tok.Literal); !found {
		d := diag.Errorf(tok.Span, "E1001", "undefined identifier '%s'", tok.Literal).
			WithFile(lo.tree.File)
		if hint, ok := hir.ClosestName(tok.Literal, lo.scope.Names()); ok {
			d = d.WithNote("did you mean '%s'?", hint)
		}
		lo.diags = append(lo.diags, d)
		return lo.module.AddExpr(hir.Expr{Kind: hir.ExprError, Span: node.Span})
	}
	return lo.module.AddExpr(hir.Expr{
		Kind: hir.ExprIdent, Span: node.Span, Name: tok.Literal,
	})
}

func (lo *lowerer) lowerBinary(node *syntax.Node) hir.ExprId {
	nodes := node.Nodes()
	op := hir.OpInvalid
	var opSpan source.Span
	for _, tok := range node.Tokens() {
		if mapped, ok := binaryOps[tok.Type]; ok {
			op = mapped
			opSpan = tok.Span
			break
		}
	}
	e := hir.Expr{Kind: hir.ExprBinary, Span: node.Span, Op: op, OpSpan: opSpan, X: hir.NoExpr, Y: hir.NoExpr}
	if len(nodes) > 0 {
		e.X = lo.lowerExpr(nodes[0])
	}
	if len(nodes) > 1 {
		e.Y = lo.lowerExpr(nodes[1])
	}
	if op == hir.OpInvalid || e.X == hir.NoExpr || e.Y == hir.NoExpr {
		e.Kind = hir.ExprError
	}
	return lo.module.AddExpr(e)
}

func (lo *lowerer) lowerPrefix(node *syntax.Node) hir.ExprId {
	op := hir.OpInvalid
	for _, tok := range node.Tokens() {
		switch tok.Type {
		case lexer.MINUS:
			op = hir.OpNeg
		case lexer.BANG:
			op = hir.OpNot
		}
	}
	operand := firstExprNode(node)
	if op == hir.OpInvalid || operand == nil {
		return lo.module.AddExpr(hir.Expr{Kind: hir.ExprError, Span: node.Span})
	}
	return lo.module.AddExpr(hir.Expr{
		Kind: hir.ExprUnary, Span: node.Span, Op: op, X: lo.lowerExpr(operand),
	})
}

func (lo *lowerer) lowerMember(node *syntax.Node) hir.ExprId {
	base := firstExprNode(node)
	name, ok := node.FirstToken(lexer.IDENT)
	if base == nil || !ok {
		return lo.module.AddExpr(hir.Expr{Kind: hir.ExprError, Span: node.Span})
	}
	return lo.module.AddExpr(hir.Expr{
		Kind: hir.ExprMember, Span: node.Span, Name: name.Literal, X: lo.lowerExpr(base),
	})
}

// lowerBlock lowers '{ stmt* expr }'. The block opens a child scope; the
// trailing expression statement becomes the block's value.
func (lo *lowerer) lowerBlock(node *syntax.Node) hir.ExprId {
	lo.pushScope()
	defer lo.popScope()

	stmtNodes := node.Nodes()
	var stmts []hir.StmtId
	trailing := hir.NoExpr

	for i, sn := range stmtNodes {
		switch sn.Kind {
		case syntax.KindLetStmt:
			stmts = append(stmts, lo.lowerLet(sn))
		case syntax.KindExprStmt:
			inner := firstExprNode(sn)
			if inner == nil {
				continue
			}
			id := lo.lowerExpr(inner)
			if i == len(stmtNodes)-1 {
				trailing = id
			} else {
				stmts = append(stmts, lo.module.AddStmt(hir.Stmt{
					Kind: hir.StmtExpr, Span: sn.Span, Expr: id,
				}))
			}
		}
	}

	return lo.module.AddExpr(hir.Expr{
		Kind: hir.ExprBlock, Span: node.Span, Stmts: stmts, X: trailing,
	})
}

func (lo *lowerer) lowerLet(node *syntax.Node) hir.StmtId {
	stmt := hir.Stmt{Kind: hir.StmtLet, Span: node.Span, TypeRef: hir.NoTypeRef, Expr: hir.NoExpr}

	nameTok, hasName := node.FirstToken(lexer.IDENT)
	for _, child := range node.Nodes() {
		switch {
		case child.Kind.IsTypeRef():
			stmt.TypeRef = lo.lowerTypeRef(child)
		case child.Kind.IsExpr():
			// The initializer lowers in the enclosing scope so the binding
			// cannot reference itself.
			stmt.Expr = lo.lowerExpr(child)
		}
	}

	if hasName {
		stmt.Name = nameTok.Literal
		if _, ok := lo.scope.Define(&hir.Symbol{
			Name: nameTok.Literal,
			Kind: hir.SymbolVariable,
			Span: nameTok.Span,
		}); !ok {
			lo.errorf(nameTok.Span, "E1003", "'%s' is already bound in this scope", nameTok.Literal)
		}
	}
	return lo.module.AddStmt(stmt)
}

func (lo *lowerer) lowerIf(node *syntax.Node) hir.ExprId {
	nodes := node.Nodes()
	e := hir.Expr{Kind: hir.ExprIf, Span: node.Span, X: hir.NoExpr, Y: hir.NoExpr, Z: hir.NoExpr}
	if len(nodes) > 0 {
		e.X = lo.lowerExpr(nodes[0])
	}
	if len(nodes) > 1 {
		e.Y = lo.lowerExpr(nodes[1])
	}
	if len(nodes) > 2 {
		e.Z = lo.lowerExpr(nodes[2])
	}
	if e.X == hir.NoExpr || e.Y == hir.NoExpr || e.Z == hir.NoExpr {
		e.Kind = hir.ExprError
	}
	return lo.module.AddExpr(e)
}

func (lo *lowerer) lowerIfIs(node *syntax.Node) hir.ExprId {
	e := hir.Expr{Kind: hir.ExprIfIs, Span: node.Span, X: hir.NoExpr}
	for _, child := range node.Nodes() {
		if child.Kind.IsExpr() && child.Kind != syntax.KindMatchArm && child.Kind != syntax.KindElseArm {
			e.X = lo.lowerExpr(child)
			break
		}
	}
	e.Arms = lo.lowerArms(node)
	if e.X == hir.NoExpr {
		e.Kind = hir.ExprError
	}
	return lo.module.AddExpr(e)
}

func (lo *lowerer) lowerSwitch(node *syntax.Node) hir.ExprId {
	e := hir.Expr{Kind: hir.ExprSwitch, Span: node.Span, X: hir.NoExpr}
	for _, child := range node.Nodes() {
		if child.Kind.IsExpr() && child.Kind != syntax.KindMatchArm && child.Kind != syntax.KindElseArm {
			e.X = lo.lowerExpr(child)
			break
		}
	}
	e.Arms = lo.lowerArms(node)
	return lo.module.AddExpr(e)
}

// lowerArms lowers match and else arms in source order. Else arms have no
// patterns.
func (lo *lowerer) lowerArms(node *syntax.Node) []hir.Arm {
	var arms []hir.Arm
	for _, child := range node.Nodes() {
		switch child.Kind {
		case syntax.KindMatchArm:
			arm := hir.Arm{Span: child.Span, Body: hir.NoExpr}
			for _, pat := range child.NodesOfKind(syntax.KindPattern) {
				if inner := firstExprNode(pat); inner != nil {
					arm.Patterns = append(arm.Patterns, lo.lowerExpr(inner))
				}
			}
			arm.Body = lo.armBody(child)
			arms = append(arms, arm)
		case syntax.KindElseArm:
			arms = append(arms, hir.Arm{
				Span: child.Span,
				Body: lo.armBody(child),
			})
		}
	}
	return arms
}

// armBody lowers the expression after the arm's ':'. It is the last
// expression child that is not a pattern.
func (lo *lowerer) armBody(arm *syntax.Node) hir.ExprId {
	var bodyNode *syntax.Node
	for _, child := range arm.Nodes() {
		if child.Kind == syntax.KindPattern {
			continue
		}
		if child.Kind.IsExpr() {
			bodyNode = child
		}
	}
	if bodyNode == nil {
		return lo.module.AddExpr(hir.Expr{Kind: hir.ExprError, Span: arm.Span})
	}
	return lo.lowerExpr(bodyNode)
}

func (lo *lowerer) lowerFor(node *syntax.Node) hir.ExprId {
	e := hir.Expr{Kind: hir.ExprFor, Span: node.Span, X: hir.NoExpr, Y: hir.NoExpr}

	// Loop variable names are the identifier tokens before 'in'.
	var names []lexer.Token
	for _, tok := range node.Tokens() {
		if tok.Type == lexer.IN {
			break
		}
		if tok.Type == lexer.IDENT {
			names = append(names, tok)
		}
	}
	if len(names) > 0 {
		e.Name = names[0].Literal
	}
	if len(names) > 1 {
		e.IndexName = names[1].Literal
	}

	nodes := node.Nodes()
	if len(nodes) > 0 {
		e.X = lo.lowerExpr(nodes[0])
	}

	// The body sees the loop bindings.
	lo.pushScope()
	if len(names) > 0 {
		lo.scope.Define(&hir.Symbol{Name: names[0].Literal, Kind: hir.SymbolVariable, Span: names[0].Span})
	}
	if len(names) > 1 {
		lo.scope.Define(&hir.Symbol{Name: names[1].Literal, Kind: hir.SymbolVariable, Span: names[1].Span})
	}
	if len(nodes) > 1 {
		e.Y = lo.lowerExpr(nodes[1])
	}
	lo.popScope()

	if e.Name == "" || e.X == hir.NoExpr || e.Y == hir.NoExpr {
		e.Kind = hir.ExprError
	}
	return lo.module.AddExpr(e)
}
