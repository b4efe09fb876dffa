package parser

import (
	"github.com/nx-lang/nx-go/internal/lexer"
	"github.com/nx-lang/nx-go/internal/source"
)

// Synchronization sets for panic-mode recovery. After reporting an error the
// parser skips ahead to a token that can plausibly start or close the next
// construct in the current scope, so one broken construct cannot swallow its
// siblings' diagnostics.
var (
	// itemStarters are tokens that begin a new top-level item.
	itemStarters = []lexer.TokenType{lexer.LET, lexer.TYPE, lexer.IMPORT}

	// blockSync stops at the next statement or the end of the block.
	blockSync = []lexer.TokenType{lexer.LET, lexer.RBRACE}

	// signatureSync recovers inside a function signature tag.
	signatureSync = []lexer.TokenType{lexer.SLASH_GREATER, lexer.ASSIGN, lexer.LET, lexer.TYPE, lexer.IMPORT}

	// tagSync recovers inside an element tag.
	tagSync = []lexer.TokenType{lexer.SLASH_GREATER, lexer.GREATER, lexer.LESS_SLASH}

	// armSync stops at the next arm or the end of a control form.
	armSync = []lexer.TokenType{
		lexer.CASE, lexer.ELSE, lexer.DEFAULT,
		lexer.END_IF, lexer.END_SWITCH, lexer.END_FOR, lexer.RBRACE,
	}
)

// syncTo skips tokens until one of the target types (or EOF) is current,
// lexing in the given mode. It returns the span of skipped source so callers
// can cover it with an error node.
func (p *parser) syncTo(targets []lexer.TokenType, mode lexer.Mode) source.Span {
	skipped := p.tok.Span
	for !p.at(lexer.EOF) {
		for _, tt := range targets {
			if p.at(tt) {
				return skipped
			}
		}
		skipped = skipped.Merge(p.tok.Span)
		p.advance(mode)
	}
	return skipped
}
