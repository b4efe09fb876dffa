package syntax

import (
	"fmt"
	"strings"

	"github.com/nx-lang/nx-go/internal/lexer"
	"github.com/nx-lang/nx-go/internal/source"
)

// Child is one slot of a node: either a nested node or a token. Exactly one
// of the two fields is set.
type Child struct {
	Node  *Node
	Token *lexer.Token
}

// Span returns the source span of whichever side is populated.
func (c Child) Span() source.Span {
	if c.Node != nil {
		return c.Node.Span
	}
	if c.Token != nil {
		return c.Token.Span
	}
	return source.Span{}
}

// Node is an immutable CST node. Children appear in source order and include
// the tokens that spell the construct, so the tree maps back onto the source
// byte-for-byte through its spans.
type Node struct {
	Kind     Kind
	Span     source.Span
	children []Child
}

// NewNode builds a node whose span covers all children. Nodes with no
// children get the provided fallback span.
func NewNode(kind Kind, fallback source.Span, children ...Child) *Node {
	n := &Node{Kind: kind, Span: fallback, children: children}
	for i, c := range children {
		if i == 0 {
			n.Span = c.Span()
			continue
		}
		n.Span = n.Span.Merge(c.Span())
	}
	return n
}

// NodeChild wraps a node for inclusion in a parent.
func NodeChild(n *Node) Child { return Child{Node: n} }

// TokenChild wraps a token for inclusion in a parent.
func TokenChild(tok lexer.Token) Child {
	t := tok
	return Child{Token: &t}
}

// Children returns the node's slots in source order.
func (n *Node) Children() []Child { return n.children }

// ChildCount returns the number of slots.
func (n *Node) ChildCount() int { return len(n.children) }

// ChildAt returns the slot at index, or a zero Child when out of range.
func (n *Node) ChildAt(i int) Child {
	if i < 0 || i >= len(n.children) {
		return Child{}
	}
	return n.children[i]
}

// Nodes returns only the node children, in order.
func (n *Node) Nodes() []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.Node != nil {
			out = append(out, c.Node)
		}
	}
	return out
}

// Tokens returns only the token children, in order.
func (n *Node) Tokens() []lexer.Token {
	var out []lexer.Token
	for _, c := range n.children {
		if c.Token != nil {
			out = append(out, *c.Token)
		}
	}
	return out
}

// NodesOfKind returns the node children with the given kind, in order.
func (n *Node) NodesOfKind(kind Kind) []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.Node != nil && c.Node.Kind == kind {
			out = append(out, c.Node)
		}
	}
	return out
}

// FirstOfKind returns the first node child with the given kind, or nil.
func (n *Node) FirstOfKind(kind Kind) *Node {
	for _, c := range n.children {
		if c.Node != nil && c.Node.Kind == kind {
			return c.Node
		}
	}
	return nil
}

// FirstToken returns the first token child with the given type.
func (n *Node) FirstToken(tt lexer.TokenType) (lexer.Token, bool) {
	for _, c := range n.children {
		if c.Token != nil && c.Token.Type == tt {
			return *c.Token, true
		}
	}
	return lexer.Token{}, false
}

// Tree owns a parsed CST and the source it came from.
type Tree struct {
	Root *Node
	Text string
	File source.FileId
}

// TextOf slices the original source covered by span, clipped to bounds.
func (t *Tree) TextOf(span source.Span) string {
	clipped, _ := span.Clip(len(t.Text))
	return t.Text[clipped.Start:clipped.End]
}

// Dump renders the tree structure for debugging and snapshot tests: one node
// or token per line, indented by depth, with kinds and spans.
func (t *Tree) Dump() string {
	var sb strings.Builder
	dumpNode(&sb, t.Root, 0)
	return sb.String()
}

func dumpNode(sb *strings.Builder, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(sb, "%s%s@%s\n", indent, n.Kind, n.Span)
	for _, c := range n.children {
		if c.Node != nil {
			dumpNode(sb, c.Node, depth+1)
			continue
		}
		tok := c.Token
		fmt.Fprintf(sb, "%s  %s %q@%s\n", indent, tok.Type, tok.Literal, tok.Span)
	}
}

// Walk visits every node in the tree depth-first, parents before children.
// Returning false from visit stops descent into that subtree.
func (t *Tree) Walk(visit func(*Node) bool) {
	walkNode(t.Root, visit)
}

func walkNode(n *Node, visit func(*Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for _, c := range n.children {
		if c.Node != nil {
			walkNode(c.Node, visit)
		}
	}
}
