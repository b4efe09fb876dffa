// Package source provides source-file bookkeeping for the NX compiler:
// file identities, byte spans, and offset-to-position translation.
//
// # Unicode and Column Positions
//
// Spans are byte ranges into the UTF-8 source. Columns reported by LineIndex
// are rune counts from the start of the line, not byte offsets or display
// widths. Multi-byte sequences (emoji, Greek, CJK) each count as one column.
// This keeps positions cheap to compute and reproducible; the trade-off is
// that carets may not align perfectly under wide glyphs in some terminals.
package source

import (
	"fmt"
	"unicode/utf8"
)

// FileId identifies a loaded source file within a session.
// Ids are dense and assigned in load order starting at 0.
type FileId int32

// NoFile is the sentinel for "no source attached". It is not the zero value:
// FileId 0 is the first loaded file.
const NoFile FileId = -1

// File is a named UTF-8 source text.
type File struct {
	Name string
	Text string
	Id   FileId
}

// NewFile creates a File after validating that text is well-formed UTF-8.
// On invalid input it returns the byte offset of the first invalid sequence.
func NewFile(id FileId, name, text string) (*File, int, error) {
	if off, ok := firstInvalidUTF8(text); !ok {
		return nil, off, fmt.Errorf("invalid UTF-8 byte sequence at offset %d", off)
	}
	return &File{Id: id, Name: name, Text: text}, -1, nil
}

// firstInvalidUTF8 scans text and reports the offset of the first invalid
// UTF-8 sequence. ok is true when the whole text is valid.
func firstInvalidUTF8(text string) (int, bool) {
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size == 1 {
			return i, false
		}
		i += size
	}
	return -1, true
}

// Span is a half-open byte range [Start, End) into a source text.
type Span struct {
	Start int
	End   int
}

// NewSpan builds a span, normalizing inverted ranges.
func NewSpan(start, end int) Span {
	if end < start {
		start, end = end, start
	}
	return Span{Start: start, End: end}
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Empty reports whether the span covers no bytes.
func (s Span) Empty() bool { return s.End <= s.Start }

// Contains reports whether offset lies inside the half-open range.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// ContainsSpan reports whether other lies fully inside s.
func (s Span) ContainsSpan(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}

// Merge returns the smallest span covering both s and other.
func (s Span) Merge(other Span) Span {
	start := s.Start
	if other.Start < start {
		start = other.Start
	}
	end := s.End
	if other.End > end {
		end = other.End
	}
	return Span{Start: start, End: end}
}

// Clip bounds the span to [0, limit]. The second result is true when
// clipping changed the span, so renderers can note the truncation.
func (s Span) Clip(limit int) (Span, bool) {
	clipped := s
	if clipped.Start < 0 {
		clipped.Start = 0
	}
	if clipped.Start > limit {
		clipped.Start = limit
	}
	if clipped.End > limit {
		clipped.End = limit
	}
	if clipped.End < clipped.Start {
		clipped.End = clipped.Start
	}
	return clipped, clipped != s
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Position is a 1-based line/column pair. Column counts runes, not bytes.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// LineIndex precomputes line-start offsets for a source text so byte
// offsets can be translated to positions without rescanning.
type LineIndex struct {
	text       string
	lineStarts []int
}

// NewLineIndex builds the index in a single pass over text.
func NewLineIndex(text string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{text: text, lineStarts: starts}
}

// LineCount returns the number of lines, counting a trailing newline's
// empty final line.
func (ix *LineIndex) LineCount() int { return len(ix.lineStarts) }

// LineSpan returns the byte span of the 1-based line, excluding the
// terminating newline.
func (ix *LineIndex) LineSpan(line int) Span {
	if line < 1 || line > len(ix.lineStarts) {
		return Span{}
	}
	start := ix.lineStarts[line-1]
	end := len(ix.text)
	if line < len(ix.lineStarts) {
		end = ix.lineStarts[line] - 1
	}
	return Span{Start: start, End: end}
}

// LineText returns the text of the 1-based line without its newline.
func (ix *LineIndex) LineText(line int) string {
	sp := ix.LineSpan(line)
	return ix.text[sp.Start:sp.End]
}

// Position translates a byte offset into a 1-based line/column position.
// Offsets past the end of the text land on the final position.
func (ix *LineIndex) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(ix.text) {
		offset = len(ix.text)
	}
	// Binary search for the containing line.
	lo, hi := 0, len(ix.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if ix.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	lineStart := ix.lineStarts[lo]
	col := utf8.RuneCountInString(ix.text[lineStart:offset]) + 1
	return Position{Line: lo + 1, Column: col}
}
