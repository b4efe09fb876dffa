package diag

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-isatty"

	"github.com/nx-lang/nx-go/internal/source"
)

// ColorMode controls ANSI escape emission.
type ColorMode int

const (
	// ColorAuto emits color iff stderr is a terminal.
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[1;31m"
	ansiYellow = "\033[1;33m"
	ansiCyan   = "\033[1;36m"
	ansiBlue   = "\033[1;34m"
)

// Renderer formats diagnostics against source text for terminal display.
type Renderer struct {
	Color ColorMode
}

// NewRenderer creates a renderer with automatic color detection.
func NewRenderer() *Renderer {
	return &Renderer{Color: ColorAuto}
}

func (r *Renderer) useColor() bool {
	switch r.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	}
}

func (r *Renderer) severityColor(sev Severity) string {
	switch sev {
	case SeverityError:
		return ansiRed
	case SeverityWarning:
		return ansiYellow
	default:
		return ansiCyan
	}
}

// Render formats a single diagnostic with a source snippet, caret line, any
// secondary labels, and help notes. Spans out of range are clipped to the
// source bounds and the truncation is noted; rendering never panics.
func (r *Renderer) Render(d Diagnostic, fileName, text string) string {
	var sb strings.Builder
	color := r.useColor()
	ix := source.NewLineIndex(text)

	span, clipped := d.Span.Clip(len(text))
	pos := ix.Position(span.Start)

	// Header: "error[E1001]: message"
	if color {
		sb.WriteString(r.severityColor(d.Severity))
	}
	sb.WriteString(d.Severity.String())
	if d.Code != "" {
		sb.WriteString("[" + d.Code + "]")
	}
	if color {
		sb.WriteString(ansiReset)
		sb.WriteString(ansiBold)
	}
	sb.WriteString(": " + d.Message)
	if color {
		sb.WriteString(ansiReset)
	}
	sb.WriteString("\n")

	// Location line: " --> file:line:col"
	if color {
		sb.WriteString(ansiBlue)
	}
	sb.WriteString("  --> ")
	if color {
		sb.WriteString(ansiReset)
	}
	if fileName != "" {
		sb.WriteString(fmt.Sprintf("%s:%d:%d\n", fileName, pos.Line, pos.Column))
	} else {
		sb.WriteString(fmt.Sprintf("line %d:%d\n", pos.Line, pos.Column))
	}

	r.renderSnippet(&sb, ix, text, span, "", d.Severity, color)

	// Secondary labels each get their own snippet beneath the primary one.
	for _, label := range d.Labels {
		lspan, lclipped := label.Span.Clip(len(text))
		clipped = clipped || lclipped
		if label.Style == StylePrimary && lspan == span {
			continue
		}
		r.renderSnippet(&sb, ix, text, lspan, label.Message, SeverityInfo, color)
	}

	if clipped {
		sb.WriteString("note: a span exceeded the source bounds and was truncated\n")
	}
	for _, note := range d.Notes {
		if color {
			sb.WriteString(ansiCyan)
		}
		sb.WriteString("help")
		if color {
			sb.WriteString(ansiReset)
		}
		sb.WriteString(": " + note + "\n")
	}
	return sb.String()
}

// renderSnippet writes the source line(s) covered by span with a caret line
// under the covered columns. Multi-line spans show carets on the first line
// through its end.
func (r *Renderer) renderSnippet(sb *strings.Builder, ix *source.LineIndex, text string, span source.Span, message string, sev Severity, color bool) {
	pos := ix.Position(span.Start)
	lineSpan := ix.LineSpan(pos.Line)
	lineText := ix.LineText(pos.Line)
	if lineSpan.Empty() && lineText == "" && span.Start >= len(text) && len(text) > 0 {
		// Span at EOF on an empty trailing line; show the previous line instead.
		if pos.Line > 1 {
			pos.Line--
			lineSpan = ix.LineSpan(pos.Line)
			lineText = ix.LineText(pos.Line)
		}
	}

	gutter := fmt.Sprintf("%4d | ", pos.Line)
	sb.WriteString(gutter)
	sb.WriteString(lineText)
	sb.WriteString("\n")

	// Caret placement counts runes so multi-byte prefixes align.
	prefixEnd := span.Start
	if prefixEnd > lineSpan.End {
		prefixEnd = lineSpan.End
	}
	if prefixEnd < lineSpan.Start {
		prefixEnd = lineSpan.Start
	}
	pad := utf8.RuneCountInString(text[lineSpan.Start:prefixEnd])

	caretEnd := span.End
	if caretEnd > lineSpan.End {
		caretEnd = lineSpan.End
	}
	if caretEnd < prefixEnd {
		caretEnd = prefixEnd
	}
	width := utf8.RuneCountInString(text[prefixEnd:caretEnd])
	if width < 1 {
		width = 1
	}

	sb.WriteString(strings.Repeat(" ", len(gutter)+pad))
	if color {
		sb.WriteString(r.severityColor(sev))
	}
	sb.WriteString(strings.Repeat("^", width))
	if message != "" {
		sb.WriteString(" " + message)
	}
	if color {
		sb.WriteString(ansiReset)
	}
	sb.WriteString("\n")
}

// RenderAll formats a slice of diagnostics, separated by blank lines.
func (r *Renderer) RenderAll(ds []Diagnostic, fileName, text string) string {
	var sb strings.Builder
	for i, d := range ds {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(r.Render(d, fileName, text))
	}
	return sb.String()
}
