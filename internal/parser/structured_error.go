package parser

import (
	"github.com/nx-lang/nx-go/internal/diag"
	"github.com/nx-lang/nx-go/internal/source"
	"github.com/nx-lang/nx-go/internal/syntax"
)

// Diagnostic codes emitted by the parser, grouped by area.
//
//	E0001–E0099  lexical and input (E0001–E0003 from the lexer; E0004 invalid
//	             UTF-8 and E0005 unreadable file from the entry points)
//	E0101–E0199  syntactic
//	E0201–E0299  structural (post-parse validation)
const (
	codeMismatchedTag  = "E0120"
	codeDuplicateProp  = "E0201"
	codeDuplicateParam = "E0202"
	codeTypeModifiers  = "E0203"
	codeEmptySwitch    = "E0204"
)

// diagMismatchedTag builds the mismatched-closing-tag diagnostic with the
// opening tag as a secondary label and a concrete suggestion.
func diagMismatchedTag(file source.FileId, closeName, openName *syntax.Node, open, closed string) diag.Diagnostic {
	return diag.Errorf(closeName.Span, codeMismatchedTag,
		"mismatched closing tag </%s>; this element was opened as <%s>", closed, open).
		WithFile(file).
		WithLabel(openName.Span, diag.StyleSecondary, "opened here").
		WithNote("did you mean '</%s>'?", open)
}
