// Package parser implements the NX parser.
//
// Key patterns:
//   - Single-token lookahead over a mode-driven lexer: the parser asks the
//     lexer for the next token in whichever mode its grammar position makes
//     valid, and re-lexes the current token when the context changes.
//   - Pratt parsing for conventional expressions.
//   - Panic-mode error recovery: report, synchronize on a recovery set, keep
//     parsing sibling constructs so every independent error is found.
//   - The CST is lossless: error nodes stay in the tree and all spans map
//     back onto the source.
package parser

import (
	"fmt"
	"os"
	"sort"

	"github.com/nx-lang/nx-go/internal/diag"
	"github.com/nx-lang/nx-go/internal/lexer"
	"github.com/nx-lang/nx-go/internal/source"
	"github.com/nx-lang/nx-go/internal/syntax"
)

// ParseResult is the outcome of parsing one source text. The tree is present
// even for sources with errors so tooling can keep working on broken input.
type ParseResult struct {
	Tree     *syntax.Tree
	Errors   []diag.Diagnostic
	SourceId source.FileId
}

// IsOk reports whether parsing produced no error-severity diagnostics.
func (r *ParseResult) IsOk() bool {
	return !diag.HasErrors(r.Errors)
}

// ParseStr parses a source string. Each call is independent; callers may
// parse from multiple goroutines concurrently.
func ParseStr(src, fileName string) *ParseResult {
	return ParseWithId(src, fileName, 0)
}

// ParseWithId parses a source string under a caller-assigned source id.
// Sessions that manage several files use this to keep ids dense.
func ParseWithId(src, fileName string, id source.FileId) *ParseResult {
	file, offset, err := source.NewFile(id, fileName, src)
	if err != nil {
		span := source.NewSpan(offset, offset+1)
		d := diag.Errorf(span, "E0004", "source is not valid UTF-8 (invalid byte at offset %d)", offset).
			WithFile(id)
		return &ParseResult{Errors: []diag.Diagnostic{d}, SourceId: id}
	}

	p := newParser(file)
	root := p.parseModule()
	tree := &syntax.Tree{Root: root, Text: src, File: id}
	errs := p.finishDiagnostics()
	errs = append(errs, validate(tree, id)...)
	return &ParseResult{Tree: tree, Errors: errs, SourceId: id}
}

// ParseFile reads, UTF-8-validates, and parses a file from disk.
func ParseFile(path string) *ParseResult {
	data, err := os.ReadFile(path)
	if err != nil {
		d := diag.Errorf(source.Span{}, "E0005", "cannot read %s: %v", path, err)
		return &ParseResult{Errors: []diag.Diagnostic{d}, SourceId: 0}
	}
	return ParseStr(string(data), path)
}

// parser holds the state for one parse. It is created per call and never
// shared, which is what makes the package-level entry points thread-safe.
type parser struct {
	l        *lexer.Lexer
	file     *source.File
	tok      lexer.Token
	mode     lexer.Mode
	tokStart int
	errors   []diag.Diagnostic
	// fuel guards against a recovery loop failing to make progress; every
	// token consumed refills it.
	fuel int
}

const parserFuel = 256

func newParser(file *source.File) *parser {
	p := &parser{
		l:    lexer.New(file.Text, lexer.WithFile(file.Id)),
		file: file,
		fuel: parserFuel,
	}
	p.advance(lexer.ModeNormal)
	return p
}

// advance consumes the current token and lexes the next one in mode.
func (p *parser) advance(mode lexer.Mode) {
	p.mode = mode
	p.tokStart = p.l.Offset()
	p.tok = p.l.Next(mode)
	p.fuel = parserFuel
}

// relex re-reads the current token under a different mode. The lexer rewinds
// to the token's start (including any trivia it skipped) so the same bytes
// are re-interpreted with the symbol set that is valid here.
func (p *parser) relex(mode lexer.Mode) {
	if p.mode == mode {
		return
	}
	p.l.ResetTo(p.tokStart)
	p.mode = mode
	p.tok = p.l.Next(mode)
}

// at reports whether the current token has the given type.
func (p *parser) at(tt lexer.TokenType) bool { return p.tok.Type == tt }

// bump consumes the current token, returning it, and advances in mode.
func (p *parser) bump(mode lexer.Mode) lexer.Token {
	tok := p.tok
	p.advance(mode)
	return tok
}

// expect consumes a token of the given type or reports an error. On failure
// the current token is left in place for the caller's recovery strategy.
func (p *parser) expect(tt lexer.TokenType, mode lexer.Mode, context string) (lexer.Token, bool) {
	if p.at(tt) {
		return p.bump(mode), true
	}
	p.errorHere("E0101", "expected %s %s, found %s", describeToken(tt), context, p.describeCurrent())
	return p.tok, false
}

func describeToken(tt lexer.TokenType) string {
	switch tt {
	case lexer.IDENT:
		return "an identifier"
	case lexer.EOF:
		return "end of file"
	default:
		return fmt.Sprintf("'%s'", tt)
	}
}

func (p *parser) describeCurrent() string {
	switch p.tok.Type {
	case lexer.EOF:
		return "end of file"
	case lexer.TEXT_CHUNK:
		return "text"
	default:
		return fmt.Sprintf("'%s'", p.spelling(p.tok))
	}
}

// spelling returns the source spelling of a token, falling back to the decoded
// literal for synthetic ones.
func (p *parser) spelling(tok lexer.Token) string {
	if tok.Span.Len() > 0 && tok.Span.End <= len(p.file.Text) {
		return p.file.Text[tok.Span.Start:tok.Span.End]
	}
	return tok.Literal
}

func (p *parser) errorHere(code, format string, args ...any) {
	p.errorAt(p.tok.Span, code, format, args...)
}

func (p *parser) errorAt(span source.Span, code, format string, args ...any) {
	p.errors = append(p.errors, diag.Errorf(span, code, format, args...).WithFile(p.file.Id))
}

// burnFuel consumes one unit of recovery fuel. When a recovery path loops
// without consuming tokens, the fuel runs out and the parser force-advances.
func (p *parser) burnFuel(mode lexer.Mode) {
	p.fuel--
	if p.fuel <= 0 && !p.at(lexer.EOF) {
		p.advance(mode)
	}
}

// finishDiagnostics merges lexer and parser diagnostics into one
// deterministic stream ordered by source position.
func (p *parser) finishDiagnostics() []diag.Diagnostic {
	all := append([]diag.Diagnostic{}, p.l.Errors()...)
	all = append(all, p.errors...)
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Span.Start != all[j].Span.Start {
			return all[i].Span.Start < all[j].Span.Start
		}
		return all[i].Span.End < all[j].Span.End
	})
	return all
}

// errorNode builds a KindError CST node covering the given span.
func errorNode(span source.Span) *syntax.Node {
	return syntax.NewNode(syntax.KindError, span)
}
