package lexer

import (
	"fmt"

	"github.com/nx-lang/nx-go/internal/source"
)

// Token is a single lexical unit with its decoded literal and source span.
//
// Literal holds the decoded value where decoding applies: string literals have
// their entities resolved, ENTITY tokens hold the replacement text, escaped
// braces hold the brace itself. For all other tokens Literal is the raw
// source slice; the original spelling is always recoverable through Span.
type Token struct {
	Type    TokenType
	Literal string
	Span    source.Span
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Type, t.Literal, t.Span)
}

// Is reports whether the token has the given type.
func (t Token) Is(tt TokenType) bool { return t.Type == tt }
